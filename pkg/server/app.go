package server

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"StockRadar/internal/usecase"
	pkgch "StockRadar/pkg/clickhouse"
	"StockRadar/pkg/config"
	xhttp "StockRadar/pkg/http"
	applogger "StockRadar/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/robfig/cron/v3"
)

// App encapsulates the entire application lifecycle: the HTTP surface, the
// cron-scheduled screening runs, and graceful teardown of infrastructure
// clients.
type App struct {
	cfg      *config.Config
	log      *applogger.Logger
	screener *usecase.Screener
	handlers []xhttp.Handler
	chClient *pkgch.Client
	closers  []io.Closer

	httpServer *xhttp.Server
	scheduler  *cron.Cron
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	log *applogger.Logger,
	screener *usecase.Screener,
	chClient *pkgch.Client,
) *App {
	return &App{
		cfg:      cfg,
		log:      log,
		screener: screener,
		chClient: chClient,
	}
}

// AddHandler registers an HTTP route group.
func (a *App) AddHandler(h xhttp.Handler) { a.handlers = append(a.handlers, h) }

// AddCloser registers a resource closed during shutdown.
func (a *App) AddCloser(c io.Closer) { a.closers = append(a.closers, c) }

// multiHandler fans route registration out to every handler.
type multiHandler []xhttp.Handler

func (m multiHandler) RegisterRoutes(e *echo.Echo) {
	for _, h := range m {
		h.RegisterRoutes(e)
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	opts := []xhttp.ServerOption{
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
	}
	if a.cfg.Metrics.Enabled {
		opts = append(opts, xhttp.WithRequestMetrics(a.log, time.Second))
	}
	a.httpServer = xhttp.NewServer(multiHandler(a.handlers), opts...)

	if a.cfg.Schedule.Enabled {
		a.scheduler = cron.New()
		if _, err := a.scheduler.AddFunc(a.cfg.Schedule.Cron, a.scheduledRun); err != nil {
			return err
		}
		a.scheduler.Start()
		a.log.Info("scheduler started", applogger.String("cron", a.cfg.Schedule.Cron))
	}

	if err := a.httpServer.Start(); err != nil {
		a.log.Error("http server start error", applogger.Error(err))
		return err
	}
	a.log.Info("http server started", applogger.Int("port", a.cfg.Server.Port))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.log.Info("shutdown signal received")
	return a.shutdown()
}

// scheduledRun executes one screening batch. The batch deadline comes from
// the screener's own config; this only decides the universe.
func (a *App) scheduledRun() {
	var universe []string
	if len(a.cfg.Screening.Universe) > 0 {
		universe = a.cfg.Screening.Universe
	}

	res, err := a.screener.Run(context.Background(), universe)
	if err != nil {
		a.log.Error("scheduled screening failed", applogger.Error(err))
		return
	}
	a.log.Info("scheduled screening done",
		applogger.Int("qualified", res.Qualified),
		applogger.Int("signals", len(res.Signals)),
	)
}

// shutdown gracefully stops all services.
func (a *App) shutdown() error {
	if a.scheduler != nil {
		stopCtx := a.scheduler.Stop()
		select {
		case <-stopCtx.Done():
		case <-time.After(a.cfg.Server.ShutdownTimeout):
			a.log.Warn("scheduler stop timed out")
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.log.Error("http shutdown error", applogger.Error(err))
	}

	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			a.log.Warn("close error", applogger.Error(err))
		}
	}

	if a.chClient != nil {
		if err := a.chClient.Close(); err != nil {
			a.log.Warn("clickhouse close error", applogger.Error(err))
		}
	}

	a.log.Info("shutdown complete")
	return nil
}
