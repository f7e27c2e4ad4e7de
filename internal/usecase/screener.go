package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"StockRadar/internal/domain/models"
	domrepo "StockRadar/internal/domain/repository"
	applogger "StockRadar/pkg/logger"
)

// ScreenConfig is the orchestrator's slice of the configuration surface.
type ScreenConfig struct {
	LookbackBars int           // bars fetched per instrument
	MinBars      int           // global history floor (window + 10)
	MinPrice     float64       // eligibility: latest close lower bound
	MaxPrice     float64       // eligibility: latest close upper bound
	MinAmount    float64       // eligibility: latest turnover floor
	RSIMin       float64       // post-filter band
	RSIMax       float64       // post-filter band
	MinScore     int           // qualification floor
	ExcludeTags  []string      // instruments carrying any of these are skipped
	Concurrency  int           // worker pool size
	Timeout      time.Duration // batch deadline
}

// Screener applies the analysis pipeline across a universe, filters,
// ranks, and emits trading signals. Per-instrument computation fans out over
// a bounded worker pool; aggregation happens in per-index slots so the final
// ranking is deterministic regardless of completion order.
type Screener struct {
	bars       domrepo.BarSource
	store      domrepo.ResultStore       // optional
	publishers []domrepo.SignalPublisher // optional
	cache      domrepo.ResultCache       // optional
	metrics    domrepo.Metrics
	log        *applogger.Logger

	analyzer *Analyzer
	cfg      ScreenConfig
}

func NewScreener(
	bars domrepo.BarSource,
	analyzer *Analyzer,
	metrics domrepo.Metrics,
	log *applogger.Logger,
	cfg ScreenConfig,
) *Screener {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 8
	}
	return &Screener{
		bars:     bars,
		analyzer: analyzer,
		metrics:  metrics,
		log:      log,
		cfg:      cfg,
	}
}

// WithResultStore attaches the persistence collaborator used by Run.
func (s *Screener) WithResultStore(store domrepo.ResultStore) *Screener {
	s.store = store
	return s
}

// WithPublishers attaches downstream signal sinks used by Run.
func (s *Screener) WithPublishers(pubs ...domrepo.SignalPublisher) *Screener {
	s.publishers = append(s.publishers, pubs...)
	return s
}

// WithResultCache attaches a cache for the latest result.
func (s *Screener) WithResultCache(cache domrepo.ResultCache) *Screener {
	s.cache = cache
	return s
}

// slot is one instrument's outcome, held at its universe index until
// collection so ties keep input order.
type slot struct {
	report *models.AnalysisReport
	skip   *models.SkippedInstrument
}

// Screen runs the pipeline over the universe and returns the ranked result.
// It performs no writes; Run is the persisting variant. A nil universe means
// "everything the bar source lists". Per-instrument faults are recorded and
// skipped; nothing here aborts the batch.
func (s *Screener) Screen(ctx context.Context, universe []string) (*models.ScreeningResult, error) {
	runAt := time.Now()

	if universe == nil {
		var err error
		universe, err = s.bars.Universe(ctx)
		if err != nil {
			return nil, fmt.Errorf("list universe: %w", err)
		}
	}

	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}

	s.log.Info("screening started",
		applogger.Int("universe", len(universe)),
		applogger.Int("workers", s.cfg.Concurrency),
	)

	slots := make([]slot, len(universe))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < s.cfg.Concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				symbol := universe[idx]
				if ctx.Err() != nil {
					// Deadline passed before this instrument started:
					// abandoned, reported, never retried.
					slots[idx] = skipped(symbol, models.SkipDeadline, ctx.Err().Error())
					continue
				}
				slots[idx] = s.screenOne(ctx, symbol)
			}
		}()
	}
	for idx := range universe {
		jobs <- idx
	}
	close(jobs)
	wg.Wait()

	res := s.collect(runAt, universe, slots)
	res.Duration = time.Since(runAt)
	s.metrics.RecordBatchDuration(res.Duration.Seconds())

	s.log.Info("screening finished",
		applogger.Int("universe", res.UniverseSize),
		applogger.Int("analyzed", res.Analyzed),
		applogger.Int("qualified", res.Qualified),
		applogger.Int("signals", len(res.Signals)),
		applogger.Duration("duration_ms", res.Duration),
	)
	return res, nil
}

// Run screens, then hands results to the persistence and publishing
// collaborators. Downstream failures are logged and do not fail the run.
func (s *Screener) Run(ctx context.Context, universe []string) (*models.ScreeningResult, error) {
	res, err := s.Screen(ctx, universe)
	if err != nil {
		return nil, err
	}

	if s.store != nil {
		if err := s.store.SaveReports(ctx, res.RunAt, res.Picks); err != nil {
			s.log.Error("save reports failed", applogger.Error(err))
		}
		if len(res.Signals) > 0 {
			if err := s.store.SaveSignals(ctx, res.Signals); err != nil {
				s.log.Error("save signals failed", applogger.Error(err))
			}
		}
	}
	if len(res.Signals) > 0 {
		for _, pub := range s.publishers {
			if err := pub.Publish(ctx, res.Signals); err != nil {
				s.log.Error("publish signals failed", applogger.Error(err))
			}
		}
	}
	if s.cache != nil {
		if err := s.cache.SetLatest(ctx, res); err != nil {
			s.log.Warn("cache result failed", applogger.Error(err))
		}
	}
	return res, nil
}

// screenOne evaluates a single instrument. Every failure degrades to a skip
// record; a panic in the computation is recovered the same way.
func (s *Screener) screenOne(ctx context.Context, symbol string) (out slot) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("screening panic",
				applogger.String("symbol", symbol),
				applogger.Any("panic", r),
			)
			out = skipped(symbol, models.SkipComputation, fmt.Sprint(r))
		}
		if out.skip != nil {
			s.metrics.RecordSkipped(string(out.skip.Reason))
			s.log.Debug("instrument skipped",
				applogger.String("symbol", symbol),
				applogger.String("reason", string(out.skip.Reason)),
			)
		}
	}()

	meta, err := s.bars.Instrument(ctx, symbol)
	if err != nil {
		return skipped(symbol, models.SkipFetchError, err.Error())
	}
	for _, tag := range s.cfg.ExcludeTags {
		if meta.HasTag(tag) {
			return skipped(symbol, models.SkipExcludedTag, tag)
		}
	}

	fetchStart := time.Now()
	series, err := s.bars.LatestBars(ctx, symbol, s.cfg.LookbackBars)
	s.metrics.RecordStageLatency("fetch", time.Since(fetchStart).Seconds())
	if err != nil {
		return skipped(symbol, models.SkipFetchError, err.Error())
	}
	if series.Len() < s.cfg.MinBars {
		return skipped(symbol, models.SkipInsufficientHistory,
			fmt.Sprintf("%d bars, need %d", series.Len(), s.cfg.MinBars))
	}

	latest, _ := series.Latest()
	if latest.Close < s.cfg.MinPrice || latest.Close > s.cfg.MaxPrice {
		return skipped(symbol, models.SkipPriceBounds, fmt.Sprintf("close=%.2f", latest.Close))
	}
	if latest.Amount < s.cfg.MinAmount {
		return skipped(symbol, models.SkipLiquidity, fmt.Sprintf("amount=%.0f", latest.Amount))
	}

	analyzeStart := time.Now()
	report, err := s.analyzer.Analyze(series, meta)
	s.metrics.RecordStageLatency("analyze", time.Since(analyzeStart).Seconds())
	s.metrics.RecordAnalyzed(symbol)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrInsufficientHistory):
			return skipped(symbol, models.SkipInsufficientHistory, err.Error())
		case models.IsIntegrityError(err):
			return skipped(symbol, models.SkipDataIntegrity, err.Error())
		default:
			return skipped(symbol, models.SkipComputation, err.Error())
		}
	}

	// Post-filter: RSI within band (undefined reads as neutral 50), and the
	// instrument must be consolidating or breaking out. Anything else is
	// dropped regardless of score.
	rsi := report.Frame.RSI.Or(50)
	if rsi < s.cfg.RSIMin || rsi > s.cfg.RSIMax {
		return skipped(symbol, models.SkipRSIBand, fmt.Sprintf("rsi=%.1f", rsi))
	}
	if !report.Platform.IsPlatform && !report.Breakout.HasBreakout {
		return skipped(symbol, models.SkipNoSetup, "neither platform nor breakout")
	}
	if report.Recommendation.Score < s.cfg.MinScore {
		return skipped(symbol, models.SkipLowScore,
			fmt.Sprintf("score=%d, need %d", report.Recommendation.Score, s.cfg.MinScore))
	}

	s.metrics.RecordQualified(symbol)
	return slot{report: report}
}

// collect assembles per-index slots into the ranked result. Reports are
// gathered in universe order first, then stable-sorted by score so equal
// scores preserve input order.
func (s *Screener) collect(runAt time.Time, universe []string, slots []slot) *models.ScreeningResult {
	res := &models.ScreeningResult{
		RunAt:        runAt,
		UniverseSize: len(universe),
	}
	for _, sl := range slots {
		switch {
		case sl.report != nil:
			res.Analyzed++
			res.Picks = append(res.Picks, *sl.report)
		case sl.skip != nil:
			if sl.skip.Reason == models.SkipRSIBand ||
				sl.skip.Reason == models.SkipNoSetup ||
				sl.skip.Reason == models.SkipLowScore {
				res.Analyzed++
			}
			res.Skipped = append(res.Skipped, *sl.skip)
		}
	}
	res.Qualified = len(res.Picks)

	sort.SliceStable(res.Picks, func(i, j int) bool {
		return res.Picks[i].Recommendation.Score > res.Picks[j].Recommendation.Score
	})

	for _, pick := range res.Picks {
		action := pick.Recommendation.Action
		if (action != models.ActionBuy && action != models.ActionStrongBuy) || !pick.Breakout.HasBreakout {
			continue
		}
		res.Signals = append(res.Signals, models.TradingSignal{
			Symbol:       pick.Symbol,
			Name:         pick.Name,
			SignalType:   models.SignalTypeBuy,
			Price:        pick.Close,
			Score:        pick.Recommendation.Score,
			Confidence:   pick.Recommendation.Confidence,
			Strength:     pick.Breakout.Strength,
			VolumeRatio:  pick.Breakout.VolumeRatio,
			PlatformLow:  pick.Platform.WindowLow,
			PlatformHigh: pick.Platform.WindowHigh,
			Reasons:      pick.Recommendation.Reasons,
			GeneratedAt:  runAt,
		})
		s.metrics.RecordSignal(pick.Symbol)
	}
	return res
}

func skipped(symbol string, reason models.SkipReason, detail string) slot {
	return slot{skip: &models.SkippedInstrument{Symbol: symbol, Reason: reason, Detail: detail}}
}
