// Package journal records hedge runs: every trade appended to the
// portfolio, every per-step result row and a closing run summary.
package journal

import "time"

// TradeRecord is a ledger trade flattened for storage. The option fields
// are zero for deposits and stock.
type TradeRecord struct {
	RunID          string
	TradeID        string
	Time           time.Time
	Kind           string
	Amount         float64
	ReferencePrice float64
	Strike         float64
	Sigma          float64
	OptionType     string
	Expiry         time.Time
}

// StepRecord is one simulation step after hedging.
type StepRecord struct {
	RunID              string
	Time               time.Time
	AssetPrice         float64
	PreHedgeDelta      float64
	PortfolioPV        float64
	PortfolioDelta     float64
	HedgeStockAmount   float64
	HedgeDepositAmount float64
}

type Journal interface {
	RecordTrade(TradeRecord) error
	RecordStep(StepRecord) error
	RecordRun(RunSummary) error
	Close() error
}

// Nop discards everything.
type Nop struct{}

func (Nop) RecordTrade(TradeRecord) error { return nil }
func (Nop) RecordStep(StepRecord) error   { return nil }
func (Nop) RecordRun(RunSummary) error    { return nil }
func (Nop) Close() error                  { return nil }
