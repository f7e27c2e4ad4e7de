package usecase

import (
	"context"
	"testing"
	"time"

	"StockRadar/internal/domain/models"
	"StockRadar/internal/repository"
	"StockRadar/internal/services/breakout"
	"StockRadar/internal/services/platform"
	applogger "StockRadar/pkg/logger"
	"StockRadar/pkg/metrics"
)

func flatBars(n int, close float64) []models.PriceBar {
	bars := make([]models.PriceBar, n)
	for i := range bars {
		bars[i] = models.PriceBar{
			Date: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i),
			Open: close, High: close, Low: close, Close: close,
			Volume: 1e6, Amount: 10e6,
		}
	}
	return bars
}

// breakoutBars is 20 flat bars at 10 followed by a confirmed breakout bar.
func breakoutBars() []models.PriceBar {
	bars := flatBars(21, 10)
	bars[20].High = 11
	bars[20].Close = 11
	bars[20].Volume = 3e6
	bars[20].Amount = 30e6
	return bars
}

func newTestAnalyzer(minBars int) *Analyzer {
	p := platform.NewDetector(20, 0.15, 0.03)
	b := breakout.NewDetector(p, 2.0, 0.03)
	return NewAnalyzer(p, b, NewRecommendationEngine(DefaultScoringRules()), minBars)
}

func testScreenConfig() ScreenConfig {
	return ScreenConfig{
		LookbackBars: 60,
		MinBars:      21,
		MinPrice:     1,
		MaxPrice:     1000,
		MinAmount:    1,
		RSIMin:       0,
		RSIMax:       100,
		MinScore:     60,
		Concurrency:  4,
	}
}

func newTestScreener(bars *repository.MemoryBarStore, cfg ScreenConfig) *Screener {
	return NewScreener(bars, newTestAnalyzer(cfg.MinBars), metrics.Nop{}, applogger.NewNop(), cfg)
}

func skipReason(t *testing.T, res *models.ScreeningResult, symbol string) models.SkipReason {
	t.Helper()
	for _, sk := range res.Skipped {
		if sk.Symbol == symbol {
			return sk.Reason
		}
	}
	t.Fatalf("%s not in skipped list: %+v", symbol, res.Skipped)
	return ""
}

func TestAnalyzeConfirmedBreakout(t *testing.T) {
	series := &models.BarSeries{Symbol: "BRK", Bars: breakoutBars()}

	report, err := newTestAnalyzer(21).Analyze(series, models.Instrument{Symbol: "BRK", Name: "Breakout Corp"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !report.Breakout.HasBreakout {
		t.Fatalf("expected breakout: %+v", report.Breakout)
	}
	if report.Breakout.Strength != 100 {
		t.Fatalf("strength: got %d, want 100", report.Breakout.Strength)
	}
	// 40 breakout + 20 alignment + 15 consistency - 10 overheated RSI + 15 volume.
	if report.Recommendation.Score != 80 {
		t.Fatalf("score: got %d, want 80 (reasons %v)", report.Recommendation.Score, report.Recommendation.Reasons)
	}
	if report.Recommendation.Action != models.ActionStrongBuy {
		t.Fatalf("action: got %s, want strong_buy", report.Recommendation.Action)
	}
}

func TestAnalyzeQuietConsolidation(t *testing.T) {
	series := &models.BarSeries{Symbol: "FLT", Bars: flatBars(21, 10)}

	report, err := newTestAnalyzer(21).Analyze(series, models.Instrument{Symbol: "FLT"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !report.Platform.IsPlatform {
		t.Fatalf("flat series must consolidate: %+v", report.Platform)
	}
	if report.Breakout.HasBreakout {
		t.Fatalf("flat series must not break out")
	}
	if report.Recommendation.Action != models.ActionHold {
		t.Fatalf("action: got %s, want hold", report.Recommendation.Action)
	}
}

func TestAnalyzeIdenticalAcrossCalls(t *testing.T) {
	series := &models.BarSeries{Symbol: "BRK", Bars: breakoutBars()}
	a := newTestAnalyzer(21)

	first, err := a.Analyze(series, models.Instrument{Symbol: "BRK"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := a.Analyze(series, models.Instrument{Symbol: "BRK"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.Frame != second.Frame {
		t.Fatalf("indicator frames differ between calls")
	}
	if first.Recommendation.Score != second.Recommendation.Score {
		t.Fatalf("scores differ: %d vs %d", first.Recommendation.Score, second.Recommendation.Score)
	}
}

func TestScreenQualifiesBreakoutAndRecordsSkips(t *testing.T) {
	store := repository.NewMemoryBarStore()
	store.Add(models.Instrument{Symbol: "BRK", Name: "Breakout Corp"},
		&models.BarSeries{Symbol: "BRK", Bars: breakoutBars()})
	store.Add(models.Instrument{Symbol: "FLT", Name: "Flatline Inc"},
		&models.BarSeries{Symbol: "FLT", Bars: flatBars(21, 10)})
	store.Add(models.Instrument{Symbol: "SHT", Name: "Shortlived"},
		&models.BarSeries{Symbol: "SHT", Bars: flatBars(10, 10)})
	corrupt := flatBars(21, 10)
	corrupt[7].Low = 0
	store.Add(models.Instrument{Symbol: "BAD", Name: "Bad Data"},
		&models.BarSeries{Symbol: "BAD", Bars: corrupt})

	res, err := newTestScreener(store, testScreenConfig()).Screen(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.UniverseSize != 4 {
		t.Fatalf("universe size: got %d, want 4", res.UniverseSize)
	}
	if res.Qualified != 1 || len(res.Picks) != 1 || res.Picks[0].Symbol != "BRK" {
		t.Fatalf("picks: %+v", res.Picks)
	}
	if got := skipReason(t, res, "FLT"); got != models.SkipLowScore {
		t.Fatalf("FLT skip: got %s, want low_score", got)
	}
	if got := skipReason(t, res, "SHT"); got != models.SkipInsufficientHistory {
		t.Fatalf("SHT skip: got %s, want insufficient_history", got)
	}
	if got := skipReason(t, res, "BAD"); got != models.SkipDataIntegrity {
		t.Fatalf("BAD skip: got %s, want data_integrity", got)
	}
	// BRK and FLT reached the analyzer; SHT and BAD did not finish it.
	if res.Analyzed != 2 {
		t.Fatalf("analyzed: got %d, want 2", res.Analyzed)
	}

	if len(res.Signals) != 1 {
		t.Fatalf("signals: got %d, want 1", len(res.Signals))
	}
	sig := res.Signals[0]
	if sig.Symbol != "BRK" || sig.SignalType != models.SignalTypeBuy {
		t.Fatalf("signal: %+v", sig)
	}
	if sig.Strength != 100 {
		t.Fatalf("signal strength: got %d, want 100", sig.Strength)
	}
	if !sig.GeneratedAt.Equal(res.RunAt) {
		t.Fatalf("signal timestamp %v differs from run timestamp %v", sig.GeneratedAt, res.RunAt)
	}
}

func TestScreenRSIBandFiltersQualifiedSetup(t *testing.T) {
	store := repository.NewMemoryBarStore()
	store.Add(models.Instrument{Symbol: "BRK"}, &models.BarSeries{Symbol: "BRK", Bars: breakoutBars()})

	cfg := testScreenConfig()
	cfg.RSIMax = 80 // the jump drives RSI to 100

	res, err := newTestScreener(store, cfg).Screen(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Picks) != 0 {
		t.Fatalf("picks: %+v, want none", res.Picks)
	}
	if got := skipReason(t, res, "BRK"); got != models.SkipRSIBand {
		t.Fatalf("skip: got %s, want rsi_band", got)
	}
}

func TestScreenExcludedTag(t *testing.T) {
	store := repository.NewMemoryBarStore()
	store.Add(models.Instrument{Symbol: "BRK", Tags: []string{"st"}},
		&models.BarSeries{Symbol: "BRK", Bars: breakoutBars()})

	cfg := testScreenConfig()
	cfg.ExcludeTags = []string{"suspended", "st"}

	res, err := newTestScreener(store, cfg).Screen(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := skipReason(t, res, "BRK"); got != models.SkipExcludedTag {
		t.Fatalf("skip: got %s, want excluded_tag", got)
	}
	if res.Analyzed != 0 {
		t.Fatalf("excluded instruments must not count as analyzed: %d", res.Analyzed)
	}
}

func TestScreenPriceAndLiquidityBounds(t *testing.T) {
	store := repository.NewMemoryBarStore()
	store.Add(models.Instrument{Symbol: "CHEAP"}, &models.BarSeries{Symbol: "CHEAP", Bars: flatBars(21, 2)})
	thin := flatBars(21, 10)
	thin[20].Amount = 100
	store.Add(models.Instrument{Symbol: "THIN"}, &models.BarSeries{Symbol: "THIN", Bars: thin})

	cfg := testScreenConfig()
	cfg.MinPrice = 5
	cfg.MinAmount = 1e6

	res, err := newTestScreener(store, cfg).Screen(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := skipReason(t, res, "CHEAP"); got != models.SkipPriceBounds {
		t.Fatalf("CHEAP skip: got %s, want price_bounds", got)
	}
	if got := skipReason(t, res, "THIN"); got != models.SkipLiquidity {
		t.Fatalf("THIN skip: got %s, want liquidity", got)
	}
}

func TestScreenDeterministicAcrossRuns(t *testing.T) {
	store := repository.NewMemoryBarStore()
	store.Add(models.Instrument{Symbol: "AAA"}, &models.BarSeries{Symbol: "AAA", Bars: breakoutBars()})
	store.Add(models.Instrument{Symbol: "BBB"}, &models.BarSeries{Symbol: "BBB", Bars: breakoutBars()})
	store.Add(models.Instrument{Symbol: "CCC"}, &models.BarSeries{Symbol: "CCC", Bars: flatBars(21, 10)})

	s := newTestScreener(store, testScreenConfig())

	first, err := s.Screen(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := s.Screen(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(first.Picks) != len(second.Picks) {
		t.Fatalf("pick counts differ: %d vs %d", len(first.Picks), len(second.Picks))
	}
	for i := range first.Picks {
		a, b := first.Picks[i], second.Picks[i]
		if a.Symbol != b.Symbol || a.Recommendation.Score != b.Recommendation.Score {
			t.Fatalf("pick %d differs: %s/%d vs %s/%d",
				i, a.Symbol, a.Recommendation.Score, b.Symbol, b.Recommendation.Score)
		}
	}

	// Equal scores keep universe order.
	if len(first.Picks) != 2 || first.Picks[0].Symbol != "AAA" || first.Picks[1].Symbol != "BBB" {
		t.Fatalf("tie order: %+v", first.Picks)
	}
}

func TestScreenExpiredContextSkipsEverything(t *testing.T) {
	store := repository.NewMemoryBarStore()
	store.Add(models.Instrument{Symbol: "AAA"}, &models.BarSeries{Symbol: "AAA", Bars: breakoutBars()})
	store.Add(models.Instrument{Symbol: "BBB"}, &models.BarSeries{Symbol: "BBB", Bars: breakoutBars()})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := newTestScreener(store, testScreenConfig()).Screen(ctx, []string{"AAA", "BBB"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Picks) != 0 {
		t.Fatalf("picks after deadline: %+v", res.Picks)
	}
	if len(res.Skipped) != 2 {
		t.Fatalf("skipped: got %d, want 2", len(res.Skipped))
	}
	for _, sk := range res.Skipped {
		if sk.Reason != models.SkipDeadline {
			t.Fatalf("skip reason: got %s, want deadline", sk.Reason)
		}
	}
}

type captureStore struct {
	runAt   time.Time
	reports []models.AnalysisReport
	signals []models.TradingSignal
}

func (c *captureStore) SaveReports(_ context.Context, runAt time.Time, reports []models.AnalysisReport) error {
	c.runAt = runAt
	c.reports = append(c.reports, reports...)
	return nil
}

func (c *captureStore) SaveSignals(_ context.Context, signals []models.TradingSignal) error {
	c.signals = append(c.signals, signals...)
	return nil
}

type capturePublisher struct {
	signals []models.TradingSignal
}

func (c *capturePublisher) Publish(_ context.Context, signals []models.TradingSignal) error {
	c.signals = append(c.signals, signals...)
	return nil
}

func (c *capturePublisher) Close() error { return nil }

type captureCache struct {
	latest *models.ScreeningResult
}

func (c *captureCache) SetLatest(_ context.Context, res *models.ScreeningResult) error {
	c.latest = res
	return nil
}

func (c *captureCache) Latest(_ context.Context) (*models.ScreeningResult, error) {
	return c.latest, nil
}

func TestRunPersistsPublishesAndCaches(t *testing.T) {
	store := repository.NewMemoryBarStore()
	store.Add(models.Instrument{Symbol: "BRK", Name: "Breakout Corp"},
		&models.BarSeries{Symbol: "BRK", Bars: breakoutBars()})

	sink := &captureStore{}
	pub := &capturePublisher{}
	cache := &captureCache{}

	s := newTestScreener(store, testScreenConfig()).
		WithResultStore(sink).
		WithPublishers(pub).
		WithResultCache(cache)

	res, err := s.Run(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(sink.reports) != 1 || sink.reports[0].Symbol != "BRK" {
		t.Fatalf("persisted reports: %+v", sink.reports)
	}
	if !sink.runAt.Equal(res.RunAt) {
		t.Fatalf("persisted run timestamp %v differs from %v", sink.runAt, res.RunAt)
	}
	if len(sink.signals) != 1 || len(pub.signals) != 1 {
		t.Fatalf("signal fan-out: store=%d publisher=%d, want 1 each", len(sink.signals), len(pub.signals))
	}
	if cache.latest == nil || cache.latest.Qualified != 1 {
		t.Fatalf("cached result: %+v", cache.latest)
	}
}
