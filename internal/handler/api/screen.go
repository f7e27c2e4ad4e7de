package api

import (
	"context"
	"errors"
	"time"

	"StockRadar/internal/domain/models"
	domrepo "StockRadar/internal/domain/repository"
	"StockRadar/internal/usecase"
	xhttp "StockRadar/pkg/http"
	xlogger "StockRadar/pkg/logger"
	"StockRadar/pkg/util"

	"github.com/labstack/echo/v4"
)

// SignalReader reads back persisted signals for the query endpoint.
type SignalReader interface {
	SignalsBetween(ctx context.Context, from, to time.Time, limit int) ([]models.TradingSignal, error)
}

// ScreenHandler exposes the screening pipeline over HTTP.
type ScreenHandler struct {
	logger   *xlogger.Logger
	screener *usecase.Screener
	analyzer *usecase.Analyzer
	bars     domrepo.BarSource
	lookback int
	topN     int

	signals SignalReader        // optional
	cache   domrepo.ResultCache // optional
}

func NewScreenHandler(
	logger *xlogger.Logger,
	screener *usecase.Screener,
	analyzer *usecase.Analyzer,
	bars domrepo.BarSource,
	lookback, topN int,
) *ScreenHandler {
	return &ScreenHandler{
		logger:   logger,
		screener: screener,
		analyzer: analyzer,
		bars:     bars,
		lookback: lookback,
		topN:     topN,
	}
}

// WithSignalReader attaches the persisted-signal query source.
func (h *ScreenHandler) WithSignalReader(r SignalReader) *ScreenHandler {
	h.signals = r
	return h
}

// WithResultCache attaches the latest-result cache.
func (h *ScreenHandler) WithResultCache(c domrepo.ResultCache) *ScreenHandler {
	h.cache = c
	return h
}

func (h *ScreenHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", h.Health)

	g := e.Group("/api")
	g.POST("/screen", h.Screen)
	g.GET("/analyze", h.Analyze)
	g.GET("/signals", h.Signals)
	g.GET("/result", h.Result)
}

func (h *ScreenHandler) Health(c echo.Context) error {
	return xhttp.SuccessResponse(c, map[string]string{"status": "ok"})
}

// ScreenRequest triggers a run over an explicit symbol list, or the whole
// universe when empty.
type ScreenRequest struct {
	Symbols []string `json:"symbols"`
}

func (h *ScreenHandler) Screen(c echo.Context) error {
	req := &ScreenRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.screener.Run(c.Request().Context(), req.Symbols)
	if err != nil {
		h.logger.Error("screen run error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}

	if h.topN > 0 && len(res.Picks) > h.topN {
		res.Picks = res.Picks[:h.topN]
	}
	return xhttp.SuccessResponse(c, res)
}

// AnalyzeRequest asks for one instrument's full report at its latest bar.
type AnalyzeRequest struct {
	Symbol string `query:"symbol" validate:"required"`
}

func (h *ScreenHandler) Analyze(c echo.Context) error {
	req := &AnalyzeRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	ctx := c.Request().Context()
	series, err := h.bars.LatestBars(ctx, req.Symbol, h.lookback)
	if err != nil {
		h.logger.Warn("analyze fetch error",
			xlogger.String("symbol", req.Symbol), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.NotFoundErrorf("no bars for %s", req.Symbol).WithError(err))
	}
	meta, err := h.bars.Instrument(ctx, req.Symbol)
	if err != nil {
		meta = models.Instrument{Symbol: req.Symbol}
	}

	report, err := h.analyzer.Analyze(series, meta)
	if err != nil {
		if errors.Is(err, models.ErrInsufficientHistory) || models.IsIntegrityError(err) {
			return xhttp.AppErrorResponse(c, xhttp.BadRequestError(err.Error()))
		}
		h.logger.Error("analyze error",
			xlogger.String("symbol", req.Symbol), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, report)
}

func (h *ScreenHandler) Signals(c echo.Context) error {
	if h.signals == nil {
		return xhttp.AppErrorResponse(c, xhttp.NotFoundError("signal history is not enabled"))
	}

	now := time.Now()
	from := util.ParseTimeDefault(c.QueryParam("from"), now.AddDate(0, 0, -7))
	to := util.ParseTimeDefault(c.QueryParam("to"), now)
	limit := util.ParseIntDefault(c.QueryParam("limit"), 100)
	if limit < 1 || limit > 1000 {
		return xhttp.BadRequestResponse(c, "limit must be between 1 and 1000")
	}

	signals, err := h.signals.SignalsBetween(c.Request().Context(), from, to, limit)
	if err != nil {
		h.logger.Error("signals query error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.ListResponse(c, signals, int64(len(signals)))
}

func (h *ScreenHandler) Result(c echo.Context) error {
	if h.cache == nil {
		return xhttp.AppErrorResponse(c, xhttp.NotFoundError("result cache is not enabled"))
	}

	res, err := h.cache.Latest(c.Request().Context())
	if err != nil {
		h.logger.Error("result cache error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	if res == nil {
		return xhttp.AppErrorResponse(c, xhttp.NotFoundError("no screening result yet"))
	}
	return xhttp.SuccessResponse(c, res)
}
