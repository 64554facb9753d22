package sim

import (
	"slices"
	"time"

	"github.com/rustyeddy/hedger/journal"
	"github.com/rustyeddy/hedger/portfolio"
)

// Row is the state of the portfolio after hedging at one observation.
type Row struct {
	Time               time.Time `json:"time"`
	AssetPrice         float64   `json:"asset_price"`
	PreHedgeDelta      float64   `json:"pre_hedge_delta"`
	PortfolioPV        float64   `json:"portfolio_pv"`
	PortfolioDelta     float64   `json:"portfolio_delta"`
	HedgeStockAmount   float64   `json:"hedge_stock_amount"`
	HedgeDepositAmount float64   `json:"hedge_deposit_amount"`
}

func (r Row) record(runID string) journal.StepRecord {
	return journal.StepRecord{
		RunID:              runID,
		Time:               r.Time,
		AssetPrice:         r.AssetPrice,
		PreHedgeDelta:      r.PreHedgeDelta,
		PortfolioPV:        r.PortfolioPV,
		PortfolioDelta:     r.PortfolioDelta,
		HedgeStockAmount:   r.HedgeStockAmount,
		HedgeDepositAmount: r.HedgeDepositAmount,
	}
}

// Result is a completed run. Rows are in observation order.
type Result struct {
	RunID     string
	Rows      []Row
	Portfolio *portfolio.Portfolio
	Summary   journal.RunSummary
}

// Row finds the row recorded at t.
func (r *Result) Row(t time.Time) (Row, bool) {
	i, ok := slices.BinarySearchFunc(r.Rows, t, func(row Row, t time.Time) int {
		return row.Time.Compare(t)
	})
	if !ok {
		return Row{}, false
	}
	return r.Rows[i], true
}
