package models

import "time"

// PlatformState describes the consolidation window ending at the latest bar.
type PlatformState struct {
	WindowHigh    float64 `json:"window_high"`
	WindowLow     float64 `json:"window_low"`
	Volatility    float64 `json:"volatility"` // (high-low)/low over the window
	IsPlatform    bool    `json:"is_platform"`
	MAConvergence bool    `json:"ma_convergence"`
}

// BreakoutEvent is a property of the latest bar only: "as of today, is this
// a breakout". The four sub-conditions are kept so the boolean can be
// reconstructed and audited.
type BreakoutEvent struct {
	HasBreakout bool    `json:"has_breakout"`
	Strength    int     `json:"strength"`     // 0..100, additive
	VolumeRatio float64 `json:"volume_ratio"` // today's amount / prior 20-bar average amount
	PriceChange float64 `json:"price_change"` // (close-open)/open

	AbovePlatform   bool `json:"above_platform"`   // close > prior platform high
	VolumeConfirmed bool `json:"volume_confirmed"` // volume ratio >= threshold
	StrongCandle    bool `json:"strong_candle"`    // daily return >= price threshold
	BullishCandle   bool `json:"bullish_candle"`   // close > open
}

// TrendState aggregates moving-average alignment and momentum posture.
type TrendState struct {
	BullishAlignment bool  `json:"bullish_alignment"`
	PriceAboveMA20   bool  `json:"price_above_ma20"`
	TrendConsistency bool  `json:"trend_consistency"`
	Momentum5        Value `json:"momentum5"`
	Momentum10       Value `json:"momentum10"`
}

// Action is the categorical trading recommendation.
type Action string

const (
	ActionStrongBuy Action = "strong_buy"
	ActionBuy       Action = "buy"
	ActionWatch     Action = "watch"
	ActionHold      Action = "hold"
)

// Recommendation is the scored verdict for one instrument, derived fresh per
// evaluation. Score is the raw additive total (unclamped); Confidence is
// bounded to [0,1].
type Recommendation struct {
	Action     Action   `json:"action"`
	Score      int      `json:"score"`
	Confidence float64  `json:"confidence"`
	Reasons    []string `json:"reasons"`
}

// AnalysisReport bundles everything the pipeline computed for one instrument
// at its latest bar. Plain data for callers to persist or render.
type AnalysisReport struct {
	Symbol string    `json:"symbol"`
	Name   string    `json:"name"`
	AsOf   time.Time `json:"as_of"`

	Close  float64 `json:"close"`
	Amount float64 `json:"amount"`

	Frame          IndicatorFrame `json:"indicators"`
	Platform       PlatformState  `json:"platform"`
	Breakout       BreakoutEvent  `json:"breakout"`
	Trend          TrendState     `json:"trend"`
	Recommendation Recommendation `json:"recommendation"`
}

// SignalTypeBuy is the only signal type the screener emits.
const SignalTypeBuy = "buy"

// TradingSignal is materialized when a recommendation crosses the buy
// threshold on a confirmed breakout.
type TradingSignal struct {
	Symbol       string    `json:"symbol"`
	Name         string    `json:"name"`
	SignalType   string    `json:"signal_type"`
	Price        float64   `json:"price"`
	Score        int       `json:"score"`
	Confidence   float64   `json:"confidence"`
	Strength     int       `json:"strength"`
	VolumeRatio  float64   `json:"volume_ratio"`
	PlatformLow  float64   `json:"platform_low"`
	PlatformHigh float64   `json:"platform_high"`
	Reasons      []string  `json:"reasons"`
	GeneratedAt  time.Time `json:"generated_at"`
}

// SkippedInstrument records why one instrument was excluded from a run.
type SkippedInstrument struct {
	Symbol string     `json:"symbol"`
	Reason SkipReason `json:"reason"`
	Detail string     `json:"detail,omitempty"`
}

// SkipReason is a machine-readable exclusion cause.
type SkipReason string

const (
	SkipFetchError          SkipReason = "fetch_error"
	SkipInsufficientHistory SkipReason = "insufficient_history"
	SkipDataIntegrity       SkipReason = "data_integrity"
	SkipPriceBounds         SkipReason = "price_bounds"
	SkipLiquidity           SkipReason = "liquidity"
	SkipExcludedTag         SkipReason = "excluded_tag"
	SkipRSIBand             SkipReason = "rsi_band"
	SkipNoSetup             SkipReason = "no_setup"
	SkipLowScore            SkipReason = "low_score"
	SkipDeadline            SkipReason = "deadline"
	SkipComputation         SkipReason = "computation_fault"
)

// ScreeningResult is the outcome of one batch run over a universe.
type ScreeningResult struct {
	RunAt        time.Time     `json:"run_at"`
	Duration     time.Duration `json:"duration_ns"`
	UniverseSize int           `json:"universe_size"`
	Analyzed     int           `json:"analyzed"`
	Qualified    int           `json:"qualified"`

	Picks   []AnalysisReport    `json:"picks"` // ranked, best first
	Signals []TradingSignal     `json:"signals"`
	Skipped []SkippedInstrument `json:"skipped"`
}
