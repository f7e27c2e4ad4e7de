package di

import (
	"context"
	"fmt"
	"time"

	domrepo "StockRadar/internal/domain/repository"
	"StockRadar/internal/handler/api"
	"StockRadar/internal/handler/ws"
	internalrepo "StockRadar/internal/repository"
	"StockRadar/internal/services/breakout"
	"StockRadar/internal/services/platform"
	"StockRadar/internal/usecase"
	"StockRadar/pkg/cache"
	pkgch "StockRadar/pkg/clickhouse"
	"StockRadar/pkg/config"
	pkgkafka "StockRadar/pkg/kafka"
	applogger "StockRadar/pkg/logger"
	"StockRadar/pkg/metrics"
	"StockRadar/pkg/server"
)

// historyMargin is how many bars beyond the platform window the analyzer
// insists on before it will evaluate an instrument.
const historyMargin = 10

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	return applogger.New(&applogger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
}

// ProvideMetrics creates the screening metrics recorder.
func ProvideMetrics(cfg *config.Config) domrepo.Metrics {
	if !cfg.Metrics.Enabled {
		return metrics.Nop{}
	}
	return metrics.New()
}

// ProvideClickHouseClient creates a ClickHouse client and initializes the
// schema. Returns nil when ClickHouse is disabled.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	if !cfg.ClickHouse.Enabled {
		return nil, nil
	}

	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	stmts := internalrepo.BarSchema(cfg.ClickHouse.Database)
	stmts = append(stmts, internalrepo.ResultSchema(cfg.ClickHouse.Database)...)
	if err := client.InitSchema(ctx, stmts); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}
	return client, nil
}

// ProvideBarSource selects the bar source: ClickHouse when available, the
// in-memory store otherwise (local development without infrastructure).
func ProvideBarSource(cfg *config.Config, ch *pkgch.Client, l *applogger.Logger) domrepo.BarSource {
	if ch != nil {
		store := internalrepo.NewCHBarStore(ch)
		store.SetLogger(l)
		return store
	}
	l.Warn("clickhouse disabled, using empty in-memory bar store")
	return internalrepo.NewMemoryBarStore()
}

// ProvideAnalyzer builds the per-instrument analysis pipeline from the
// strategy configuration.
func ProvideAnalyzer(cfg *config.Config) *usecase.Analyzer {
	st := cfg.Strategy
	pd := platform.NewDetector(st.PlatformWindow, st.MaxVolatility, st.MAConvergence)
	bd := breakout.NewDetector(pd, st.VolumeThreshold, st.PriceThreshold)
	engine := usecase.NewRecommendationEngine(scoringRules(st.Scoring))
	return usecase.NewAnalyzer(pd, bd, engine, st.PlatformWindow+historyMargin)
}

func scoringRules(sc config.Scoring) usecase.ScoringRules {
	rules := usecase.DefaultScoringRules()
	rules.BreakoutPoints = sc.BreakoutPoints
	rules.PlatformPoints = sc.PlatformPoints
	rules.AlignmentPoints = sc.AlignmentPoints
	rules.ConsistencyPoints = sc.ConsistencyPoints
	rules.RSIStrongPoints = sc.RSIStrongPoints
	rules.RSIOverheatMalus = sc.RSIOverheatMalus
	rules.KDJPoints = sc.KDJPoints
	rules.VolumePoints = sc.VolumePoints
	rules.RSIStrongLow = sc.RSIStrongLow
	rules.RSIStrongHigh = sc.RSIStrongHigh
	rules.KDJStrongK = sc.KDJStrongK
	rules.VolumeExpansion = sc.VolumeExpansion
	rules.StrongBuyCutoff = sc.StrongBuyCutoff
	rules.BuyCutoff = sc.BuyCutoff
	rules.WatchCutoff = sc.WatchCutoff
	return rules
}

// ProvideScreener creates the batch orchestrator.
func ProvideScreener(
	cfg *config.Config,
	bars domrepo.BarSource,
	analyzer *usecase.Analyzer,
	m domrepo.Metrics,
	l *applogger.Logger,
) *usecase.Screener {
	sc := cfg.Screening
	return usecase.NewScreener(bars, analyzer, m, l, usecase.ScreenConfig{
		LookbackBars: sc.LookbackBars,
		MinBars:      cfg.Strategy.PlatformWindow + historyMargin,
		MinPrice:     sc.MinPrice,
		MaxPrice:     sc.MaxPrice,
		MinAmount:    sc.MinAmount,
		RSIMin:       sc.RSIMin,
		RSIMax:       sc.RSIMax,
		MinScore:     sc.MinScore,
		ExcludeTags:  sc.ExcludeTags,
		Concurrency:  sc.Concurrency,
		Timeout:      sc.Timeout,
	})
}

// ProvideKafkaProducer creates a Kafka producer, or nil when disabled.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithMaxAttempts(cfg.Kafka.MaxAttempts),
		pkgkafka.WithTimeouts(cfg.Kafka.WriteTimeout, cfg.Kafka.WriteTimeout),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideResultStore creates the ClickHouse result store, or nil without a
// client.
func ProvideResultStore(ch *pkgch.Client) *internalrepo.CHResultStore {
	if ch == nil {
		return nil
	}
	return internalrepo.NewCHResultStore(ch)
}

// ProvideResultCache creates the latest-result cache. Redis when enabled,
// otherwise an in-process cache so the latest-result endpoint still serves.
func ProvideResultCache(cfg *config.Config) (domrepo.ResultCache, error) {
	if !cfg.Redis.Enabled {
		return internalrepo.NewCacheResultCache(cache.NewMemoryCache(), cfg.Redis.TTL), nil
	}
	redisCache, err := cache.NewRedisCache(
		cache.WithRedisAddr(cfg.Redis.Addr),
		cache.WithRedisPassword(cfg.Redis.Password),
		cache.WithRedisDB(cfg.Redis.DB),
	)
	if err != nil {
		return nil, fmt.Errorf("redis cache: %w", err)
	}
	return internalrepo.NewCacheResultCache(redisCache, cfg.Redis.TTL), nil
}

// ProvideHub creates the WebSocket signal hub.
func ProvideHub(l *applogger.Logger) *ws.Hub {
	return ws.NewHub(l)
}

// ProvideApp assembles the application: it attaches the optional
// collaborators to the screener, builds the HTTP handlers, and registers
// everything that must be closed on shutdown.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	screener *usecase.Screener,
	analyzer *usecase.Analyzer,
	bars domrepo.BarSource,
	ch *pkgch.Client,
	producer *pkgkafka.Producer,
	hub *ws.Hub,
	resultStore *internalrepo.CHResultStore,
	resultCache domrepo.ResultCache,
) *server.App {
	app := server.New(cfg, l, screener, ch)

	if resultStore != nil {
		screener.WithResultStore(resultStore)
	}
	if producer != nil {
		pub := internalrepo.NewKafkaSignalPublisher(producer, cfg.Kafka.Topic)
		screener.WithPublishers(pub)
		app.AddCloser(pub)
	}
	screener.WithPublishers(hub)
	app.AddCloser(hub)
	if resultCache != nil {
		screener.WithResultCache(resultCache)
	}

	h := api.NewScreenHandler(l, screener, analyzer, bars,
		cfg.Screening.LookbackBars, cfg.Screening.TopN)
	if resultStore != nil {
		h.WithSignalReader(resultStore)
	}
	if resultCache != nil {
		h.WithResultCache(resultCache)
	}
	app.AddHandler(h)
	app.AddHandler(hub)

	return app
}
