package api

import (
	"time"

	"github.com/rustyeddy/hedger/config"
	"github.com/rustyeddy/hedger/journal"
	"github.com/rustyeddy/hedger/sim"
)

// PriceRequest represents a request to price a European option
type PriceRequest struct {
	OptionType string  `json:"option_type" binding:"required"`
	Spot       float64 `json:"spot"`
	Strike     float64 `json:"strike"`
	TenorYears float64 `json:"tenor_years"`
	Rate       float64 `json:"rate"`
	Sigma      float64 `json:"sigma"`
}

// SimulateRequest represents a request to run a hedge simulation.
// Omitted sections fall back to the server defaults.
type SimulateRequest struct {
	Generator   *config.GeneratorConfig     `json:"generator,omitempty"`
	Default     *config.DefaultOptionConfig `json:"default_option,omitempty"`
	Positions   []config.PositionConfig     `json:"positions,omitempty"`
	IncludeRows bool                        `json:"include_rows"`
}

// SimulateResponse represents the result of a hedge simulation
type SimulateResponse struct {
	RunID   string    `json:"run_id"`
	Summary Summary   `json:"summary"`
	Rows    []sim.Row `json:"rows,omitempty"`
}

// Summary contains aggregated run results
type Summary struct {
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	Steps       int       `json:"steps"`
	Trades      int       `json:"trades"`
	InitialPV   float64   `json:"initial_pv"`
	FinalPV     float64   `json:"final_pv"`
	PnL         float64   `json:"pnl"`
	MaxAbsDelta float64   `json:"max_abs_delta"`
	MinPrice    float64   `json:"min_price"`
	MaxPrice    float64   `json:"max_price"`
	Holdings    []string  `json:"holdings"`
}

func newSummary(s journal.RunSummary) Summary {
	return Summary{
		Start:       s.Start,
		End:         s.End,
		Steps:       s.Steps,
		Trades:      s.Trades,
		InitialPV:   s.InitialPV,
		FinalPV:     s.FinalPV,
		PnL:         s.PnL(),
		MaxAbsDelta: s.MaxAbsDelta,
		MinPrice:    s.MinPrice,
		MaxPrice:    s.MaxPrice,
		Holdings:    s.Holdings,
	}
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error details
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
