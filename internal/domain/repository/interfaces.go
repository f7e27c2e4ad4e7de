package repository

import (
	"context"
	"time"

	"StockRadar/internal/domain/models"
)

// BarSource is the data-access collaborator: it hands the core an ordered,
// gap-tolerant, duplicate-free bar series per symbol plus instrument
// metadata. The core performs no fetching itself.
type BarSource interface {
	// LatestBars returns up to n most recent daily bars, ascending by date.
	LatestBars(ctx context.Context, symbol string, n int) (*models.BarSeries, error)

	// Instrument returns metadata for a symbol.
	Instrument(ctx context.Context, symbol string) (models.Instrument, error)

	// Universe lists the symbols eligible for screening.
	Universe(ctx context.Context) ([]string, error)
}

// ResultStore is the persistence collaborator for screening output.
type ResultStore interface {
	SaveReports(ctx context.Context, runAt time.Time, reports []models.AnalysisReport) error
	SaveSignals(ctx context.Context, signals []models.TradingSignal) error
}

// SignalPublisher pushes trading signals to downstream consumers.
type SignalPublisher interface {
	Publish(ctx context.Context, signals []models.TradingSignal) error
	Close() error
}

// ResultCache keeps the most recent screening result for cheap reads.
type ResultCache interface {
	SetLatest(ctx context.Context, res *models.ScreeningResult) error
	// Latest returns (nil, nil) when no result is cached.
	Latest(ctx context.Context) (*models.ScreeningResult, error)
}

// Metrics is the screening observability port.
type Metrics interface {
	RecordAnalyzed(symbol string)
	RecordSkipped(reason string)
	RecordQualified(symbol string)
	RecordSignal(symbol string)
	RecordBatchDuration(seconds float64)
	RecordStageLatency(stage string, seconds float64)
}
