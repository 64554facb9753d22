package api

import (
	"errors"
	"fmt"
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"
	"github.com/rustyeddy/hedger/asset"
	"github.com/rustyeddy/hedger/config"
	"github.com/rustyeddy/hedger/market"
	"github.com/rustyeddy/hedger/monitor"
	"github.com/rustyeddy/hedger/pricing"
	"github.com/rustyeddy/hedger/sim"
	"go.uber.org/zap"
)

// MaxObservations bounds the series a single simulate request may generate.
const MaxObservations = 100_000

// Handler serves pricing and simulation requests. Each simulation owns
// its portfolio, so requests run independently.
type Handler struct {
	defaults *config.Config
	monitor  *monitor.Monitor
	log      *zap.Logger
}

func NewHandler(defaults *config.Config, m *monitor.Monitor, log *zap.Logger) *Handler {
	if defaults == nil {
		defaults = config.Default()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{defaults: defaults, monitor: m, log: log}
}

// Health handles GET /health
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Price handles POST /api/v1/price
func (h *Handler) Price(c *gin.Context) {
	var req PriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, "INVALID_REQUEST", err)
		return
	}

	typ, err := pricing.ParseOptionType(req.OptionType)
	if err != nil {
		abort(c, http.StatusBadRequest, "INVALID_REQUEST", err)
		return
	}

	g, err := pricing.Quote(typ, req.Spot, req.Strike, req.TenorYears, req.Rate, req.Sigma)
	if err != nil {
		abortErr(c, err)
		return
	}
	c.JSON(http.StatusOK, g)
}

// Simulate handles POST /api/v1/simulate
func (h *Handler) Simulate(c *gin.Context) {
	// Decode over the defaults so partial sections keep their other fields.
	// The lag slices are cloned so decoding never writes into the defaults.
	gen := h.defaults.Generator
	gen.P = slices.Clone(gen.P)
	gen.Q = slices.Clone(gen.Q)
	def := h.defaults.Portfolio.Default
	req := SimulateRequest{Generator: &gen, Default: &def}
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, "INVALID_REQUEST", err)
		return
	}
	if req.Generator == nil {
		req.Generator = &gen
	}
	if req.Default == nil {
		req.Default = &def
	}
	pc := config.PortfolioConfig{Default: *req.Default, Positions: req.Positions}

	params, err := req.Generator.Params()
	if err != nil {
		abort(c, http.StatusBadRequest, "INVALID_PARAMS", err)
		return
	}
	if params.Count > MaxObservations {
		abort(c, http.StatusBadRequest, "INVALID_PARAMS",
			fmt.Errorf("generator.count %d exceeds %d", params.Count, MaxObservations))
		return
	}
	if err := pc.Validate(); err != nil {
		abort(c, http.StatusBadRequest, "INVALID_REQUEST", err)
		return
	}
	typ, _ := pc.DefaultType()

	obs, err := market.Generate(params)
	if err != nil {
		abortErr(c, err)
		return
	}
	pf, err := pc.Build(obs[0])
	if err != nil {
		abortErr(c, err)
		return
	}

	opts := []sim.Option{
		sim.WithLogger(h.log),
		sim.WithGenerator(params),
		sim.WithDefaultOption(sim.DefaultOption{Sigma: pc.Default.Sigma, Type: typ}),
	}
	if pf != nil {
		opts = append(opts, sim.WithPortfolio(pf))
	}
	if h.monitor != nil {
		opts = append(opts, sim.WithMonitor(h.monitor))
	}

	res, err := sim.New(opts...).Run(c.Request.Context(), obs)
	if err != nil {
		abortErr(c, err)
		return
	}

	resp := SimulateResponse{RunID: res.RunID, Summary: newSummary(res.Summary)}
	if req.IncludeRows {
		resp.Rows = res.Rows
	}
	c.JSON(http.StatusOK, resp)
}

func abort(c *gin.Context, status int, code string, err error) {
	c.AbortWithStatusJSON(status, ErrorResponse{
		Error: ErrorDetail{Code: code, Message: err.Error()},
	})
}

// abortErr maps domain errors to client errors; anything else is a 500.
func abortErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, pricing.ErrDegenerateInput):
		abort(c, http.StatusBadRequest, "DEGENERATE_INPUT", err)
	case errors.Is(err, asset.ErrUnsupportedCombination):
		abort(c, http.StatusBadRequest, "UNSUPPORTED_COMBINATION", err)
	case errors.Is(err, market.ErrMalformedSeries):
		abort(c, http.StatusBadRequest, "MALFORMED_SERIES", err)
	case errors.Is(err, market.ErrInvalidParams):
		abort(c, http.StatusBadRequest, "INVALID_PARAMS", err)
	default:
		abort(c, http.StatusInternalServerError, "SIMULATION_FAILED", err)
	}
}
