package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"StockRadar/internal/domain/models"
	pkgch "StockRadar/pkg/clickhouse"
	applogger "StockRadar/pkg/logger"
)

// CHBarStore implements BarSource backed by ClickHouse daily bars.
type CHBarStore struct {
	db *sql.DB
	l  *applogger.Logger
}

func NewCHBarStore(ch *pkgch.Client) *CHBarStore {
	return &CHBarStore{db: ch.DB()}
}

// SetLogger injects a structured logger.
func (s *CHBarStore) SetLogger(l *applogger.Logger) { s.l = l }

// BarSchema returns idempotent DDL for the bar and instrument tables.
func BarSchema(database string) []string {
	return []string{
		fmt.Sprintf(`CREATE DATABASE IF NOT EXISTS %s`, database),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s.daily_bars (
            date Date,
            symbol LowCardinality(String),
            open Float64,
            high Float64,
            low Float64,
            close Float64,
            volume Float64,
            amount Float64
        ) ENGINE = ReplacingMergeTree
        ORDER BY (symbol, date)`, database),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s.instruments (
            symbol LowCardinality(String),
            name String,
            tags Array(String),
            liquidity_class LowCardinality(String)
        ) ENGINE = ReplacingMergeTree
        ORDER BY symbol`, database),
	}
}

func (s *CHBarStore) LatestBars(ctx context.Context, symbol string, n int) (*models.BarSeries, error) {
	start := time.Now()
	const q = `
        SELECT date, open, high, low, close, volume, amount
        FROM daily_bars
        WHERE symbol = ?
        ORDER BY date DESC
        LIMIT ?
    `
	rows, err := s.db.QueryContext(ctx, q, symbol, n)
	if err != nil {
		if s.l != nil {
			s.l.Error("clickhouse latest_bars query error",
				applogger.String("symbol", symbol),
				applogger.Int("limit", n),
				applogger.Error(err),
			)
		}
		return nil, fmt.Errorf("latest bars: %w", err)
	}
	defer rows.Close()

	bars := make([]models.PriceBar, 0, n)
	for rows.Next() {
		var b models.PriceBar
		if err := rows.Scan(&b.Date, &b.Open, &b.High, &b.Low, &b.Close, &b.Volume, &b.Amount); err != nil {
			return nil, fmt.Errorf("scan bar: %w", err)
		}
		bars = append(bars, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	// reverse to ASC
	for i, j := 0, len(bars)-1; i < j; i, j = i+1, j-1 {
		bars[i], bars[j] = bars[j], bars[i]
	}
	if s.l != nil {
		s.l.Debug("clickhouse latest_bars ok",
			applogger.String("symbol", symbol),
			applogger.Int("rows", len(bars)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return &models.BarSeries{Symbol: symbol, Bars: bars}, nil
}

func (s *CHBarStore) Instrument(ctx context.Context, symbol string) (models.Instrument, error) {
	const q = `
        SELECT symbol, name, tags, liquidity_class
        FROM instruments
        WHERE symbol = ?
        LIMIT 1
    `
	var m models.Instrument
	row := s.db.QueryRowContext(ctx, q, symbol)
	if err := row.Scan(&m.Symbol, &m.Name, &m.Tags, &m.LiquidityClass); err != nil {
		if err == sql.ErrNoRows {
			// Unknown symbols screen with empty metadata rather than failing.
			return models.Instrument{Symbol: symbol}, nil
		}
		return models.Instrument{}, fmt.Errorf("instrument %s: %w", symbol, err)
	}
	return m, nil
}

func (s *CHBarStore) Universe(ctx context.Context) ([]string, error) {
	const q = `SELECT DISTINCT symbol FROM instruments ORDER BY symbol`
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("universe: %w", err)
	}
	defer rows.Close()

	var symbols []string
	for rows.Next() {
		var sym string
		if err := rows.Scan(&sym); err != nil {
			return nil, fmt.Errorf("scan symbol: %w", err)
		}
		symbols = append(symbols, sym)
	}
	return symbols, rows.Err()
}
