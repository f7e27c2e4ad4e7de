package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"StockRadar/internal/domain/models"
	pkgch "StockRadar/pkg/clickhouse"
)

// CHResultStore implements ResultStore backed by ClickHouse.
type CHResultStore struct {
	db *sql.DB
}

func NewCHResultStore(ch *pkgch.Client) *CHResultStore {
	return &CHResultStore{db: ch.DB()}
}

// ResultSchema returns idempotent DDL for the report and signal tables.
func ResultSchema(database string) []string {
	return []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s.screen_reports (
            run_at DateTime,
            symbol LowCardinality(String),
            name String,
            as_of Date,
            close Float64,
            amount Float64,
            action LowCardinality(String),
            score Int32,
            confidence Float64,
            is_platform UInt8,
            has_breakout UInt8,
            strength Int32,
            volume_ratio Float64,
            reasons Array(String)
        ) ENGINE = MergeTree
        ORDER BY (run_at, symbol)`, database),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s.signals (
            generated_at DateTime,
            symbol LowCardinality(String),
            name String,
            signal_type LowCardinality(String),
            price Float64,
            score Int32,
            confidence Float64,
            strength Int32,
            volume_ratio Float64,
            platform_low Float64,
            platform_high Float64,
            reasons Array(String)
        ) ENGINE = MergeTree
        ORDER BY (generated_at, symbol)`, database),
	}
}

const reportCols = "(run_at, symbol, name, as_of, close, amount, action, score, confidence, is_platform, has_breakout, strength, volume_ratio, reasons)"

func (s *CHResultStore) SaveReports(ctx context.Context, runAt time.Time, reports []models.AnalysisReport) error {
	if len(reports) == 0 {
		return nil
	}

	const chunkSize = 500
	for start := 0; start < len(reports); start += chunkSize {
		end := start + chunkSize
		if end > len(reports) {
			end = len(reports)
		}

		values := make([]string, 0, end-start)
		args := make([]interface{}, 0, (end-start)*14)
		for _, r := range reports[start:end] {
			values = append(values, "(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)")
			args = append(args,
				runAt,
				r.Symbol,
				r.Name,
				r.AsOf,
				r.Close,
				r.Amount,
				string(r.Recommendation.Action),
				r.Recommendation.Score,
				r.Recommendation.Confidence,
				boolUInt8(r.Platform.IsPlatform),
				boolUInt8(r.Breakout.HasBreakout),
				r.Breakout.Strength,
				r.Breakout.VolumeRatio,
				r.Recommendation.Reasons,
			)
		}
		q := fmt.Sprintf("INSERT INTO screen_reports %s VALUES %s", reportCols, strings.Join(values, ","))
		if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
			return fmt.Errorf("save reports: %w", err)
		}
	}
	return nil
}

const signalCols = "(generated_at, symbol, name, signal_type, price, score, confidence, strength, volume_ratio, platform_low, platform_high, reasons)"

func (s *CHResultStore) SaveSignals(ctx context.Context, signals []models.TradingSignal) error {
	if len(signals) == 0 {
		return nil
	}

	values := make([]string, 0, len(signals))
	args := make([]interface{}, 0, len(signals)*12)
	for _, sig := range signals {
		values = append(values, "(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)")
		args = append(args,
			sig.GeneratedAt,
			sig.Symbol,
			sig.Name,
			sig.SignalType,
			sig.Price,
			sig.Score,
			sig.Confidence,
			sig.Strength,
			sig.VolumeRatio,
			sig.PlatformLow,
			sig.PlatformHigh,
			sig.Reasons,
		)
	}
	q := fmt.Sprintf("INSERT INTO signals %s VALUES %s", signalCols, strings.Join(values, ","))
	if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
		return fmt.Errorf("save signals: %w", err)
	}
	return nil
}

// SignalsBetween returns signals generated inside [from, to], newest first.
func (s *CHResultStore) SignalsBetween(ctx context.Context, from, to time.Time, limit int) ([]models.TradingSignal, error) {
	const q = `
        SELECT generated_at, symbol, name, signal_type, price, score, confidence,
               strength, volume_ratio, platform_low, platform_high, reasons
        FROM signals
        WHERE generated_at >= ? AND generated_at <= ?
        ORDER BY generated_at DESC
        LIMIT ?
    `
	rows, err := s.db.QueryContext(ctx, q, from, to, limit)
	if err != nil {
		return nil, fmt.Errorf("signals between: %w", err)
	}
	defer rows.Close()

	var out []models.TradingSignal
	for rows.Next() {
		var sig models.TradingSignal
		if err := rows.Scan(&sig.GeneratedAt, &sig.Symbol, &sig.Name, &sig.SignalType,
			&sig.Price, &sig.Score, &sig.Confidence, &sig.Strength,
			&sig.VolumeRatio, &sig.PlatformLow, &sig.PlatformHigh, &sig.Reasons); err != nil {
			return nil, fmt.Errorf("scan signal: %w", err)
		}
		out = append(out, sig)
	}
	return out, rows.Err()
}

func boolUInt8(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
