package usecase

import (
	"StockRadar/internal/domain/models"
	"StockRadar/internal/services/breakout"
	"StockRadar/internal/services/indicators"
	"StockRadar/internal/services/platform"
	"StockRadar/internal/services/trend"
)

// Analyzer runs the full per-instrument pipeline over one bar series:
// indicators, platform state, breakout event, trend posture, and the scored
// recommendation. It holds no mutable state; two calls on the same series
// produce identical reports.
type Analyzer struct {
	platform *platform.Detector
	breakout *breakout.Detector
	engine   *RecommendationEngine
	minBars  int
}

// NewAnalyzer builds the pipeline. minBars is the global history floor below
// which the whole evaluation is refused (not just a single indicator).
func NewAnalyzer(p *platform.Detector, b *breakout.Detector, e *RecommendationEngine, minBars int) *Analyzer {
	return &Analyzer{platform: p, breakout: b, engine: e, minBars: minBars}
}

// Analyze evaluates the latest bar of the series. Errors distinguish short
// data (models.ErrInsufficientHistory) from broken data
// (*models.IntegrityError); callers decide how each degrades.
func (a *Analyzer) Analyze(series *models.BarSeries, meta models.Instrument) (*models.AnalysisReport, error) {
	if err := series.Validate(); err != nil {
		return nil, err
	}
	if series.Len() < a.minBars {
		return nil, models.ErrInsufficientHistory
	}
	latest, _ := series.Latest()

	frame := indicators.LatestFrame(series)

	plat, err := a.platform.Detect(series)
	if err != nil {
		return nil, err
	}
	brk, err := a.breakout.Detect(series)
	if err != nil {
		return nil, err
	}
	tr := trend.Score(frame, latest.Close)
	rec := a.engine.Recommend(plat, brk, tr, frame)

	return &models.AnalysisReport{
		Symbol:         series.Symbol,
		Name:           meta.Name,
		AsOf:           latest.Date,
		Close:          latest.Close,
		Amount:         latest.Amount,
		Frame:          frame,
		Platform:       plat,
		Breakout:       brk,
		Trend:          tr,
		Recommendation: rec,
	}, nil
}
