// Package sim runs a delta-hedging simulation: a portfolio is re-hedged
// to zero delta at every observation of a price series and its value and
// residual delta are recorded per step.
package sim

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync/atomic"
	"time"

	"github.com/rustyeddy/hedger/asset"
	"github.com/rustyeddy/hedger/internal/id"
	"github.com/rustyeddy/hedger/journal"
	"github.com/rustyeddy/hedger/market"
	"github.com/rustyeddy/hedger/monitor"
	"github.com/rustyeddy/hedger/portfolio"
	"github.com/rustyeddy/hedger/pricing"
	"go.uber.org/zap"
)

// ErrPortfolioReused is returned when Run is called again on a Simulation
// whose supplied portfolio was already hedged by an earlier run.
var ErrPortfolioReused = errors.New("supplied portfolio already hedged by a previous run")

// DefaultOption shapes the option seeded when no portfolio is supplied.
type DefaultOption struct {
	Sigma float64
	Type  pricing.OptionType
}

type Simulation struct {
	portfolio *portfolio.Portfolio
	journal   journal.Journal
	monitor   *monitor.Monitor
	log       *zap.Logger
	params    market.Params
	option    DefaultOption
	now       func() time.Time
	claimed   atomic.Bool
}

type Option func(*Simulation)

// WithPortfolio hedges pf instead of the seeded default. The simulation
// appends to pf, so a supplied portfolio belongs to one run and a second
// Run fails with ErrPortfolioReused.
func WithPortfolio(pf *portfolio.Portfolio) Option {
	return func(s *Simulation) { s.portfolio = pf }
}

func WithJournal(j journal.Journal) Option {
	return func(s *Simulation) { s.journal = j }
}

func WithMonitor(m *monitor.Monitor) Option {
	return func(s *Simulation) { s.monitor = m }
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Simulation) { s.log = l }
}

// WithGenerator sets the parameters used when Run is given no series.
func WithGenerator(p market.Params) Option {
	return func(s *Simulation) { s.params = p }
}

func WithDefaultOption(o DefaultOption) Option {
	return func(s *Simulation) { s.option = o }
}

func New(opts ...Option) *Simulation {
	s := &Simulation{
		journal: journal.Nop{},
		log:     zap.NewNop(),
		params:  market.DefaultParams(),
		option:  DefaultOption{Sigma: 0.2, Type: pricing.Call},
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run hedges the portfolio at every observation in order. A nil series is
// generated from the configured parameters. The first error aborts the run
// and no partial result is returned.
func (s *Simulation) Run(ctx context.Context, observations []market.Observation) (*Result, error) {
	runID := id.New()
	log := s.log.With(zap.String("run_id", runID))

	res, err := s.run(ctx, runID, log, observations)
	if s.monitor != nil {
		s.monitor.ObserveRun(err)
	}
	if err != nil {
		log.Error("hedge run failed", zap.Error(err))
		return nil, err
	}
	log.Info("hedge run finished",
		zap.Int("steps", res.Summary.Steps),
		zap.Int("trades", res.Summary.Trades),
		zap.Float64("final_pv", res.Summary.FinalPV),
		zap.Float64("max_abs_delta", res.Summary.MaxAbsDelta),
	)
	return res, nil
}

func (s *Simulation) run(ctx context.Context, runID string, log *zap.Logger, obs []market.Observation) (*Result, error) {
	if obs == nil {
		var err error
		obs, err = market.Generate(s.params)
		if err != nil {
			return nil, fmt.Errorf("generate series: %w", err)
		}
		log.Debug("generated series", zap.Int("observations", len(obs)), zap.Uint64("seed", s.params.Seed))
	}
	if err := market.ValidateSeries(obs); err != nil {
		return nil, err
	}

	first := obs[0]
	pf := s.portfolio
	if pf != nil && !s.claimed.CompareAndSwap(false, true) {
		return nil, ErrPortfolioReused
	}
	if pf == nil {
		pf = portfolio.New()
		pf.RecordTrade(first.Time, first.Price, asset.Option{
			Amount: 1,
			Expiry: first.Time,
			Strike: first.Price * first.Rate,
			Sigma:  s.option.Sigma,
			Type:   s.option.Type,
		})
	}

	log.Info("hedge run started",
		zap.Time("start", first.Time),
		zap.Time("end", obs[len(obs)-1].Time),
		zap.Int("observations", len(obs)),
		zap.Int("opening_trades", pf.Len()),
	)

	for _, t := range pf.Trades() {
		if err := s.journal.RecordTrade(tradeRecord(runID, t)); err != nil {
			return nil, fmt.Errorf("journal trade %s: %w", t.ID, err)
		}
	}

	rows := make([]Row, 0, len(obs))
	for i, o := range obs {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("step %d (%s): %w", i, o.Time.Format(time.RFC3339), err)
		}
		row, err := s.step(runID, pf, o)
		if err != nil {
			return nil, fmt.Errorf("step %d (%s): %w", i, o.Time.Format(time.RFC3339), err)
		}
		log.Debug("hedged",
			zap.Int("step", i),
			zap.Time("time", o.Time),
			zap.Float64("price", o.Price),
			zap.Float64("pre_hedge_delta", row.PreHedgeDelta),
			zap.Float64("pv", row.PortfolioPV),
			zap.Float64("delta", row.PortfolioDelta),
		)
		rows = append(rows, row)
	}

	summary, err := summarize(runID, s.now(), pf, rows)
	if err != nil {
		return nil, err
	}
	if err := s.journal.RecordRun(summary); err != nil {
		return nil, fmt.Errorf("journal run: %w", err)
	}

	return &Result{RunID: runID, Rows: rows, Portfolio: pf, Summary: summary}, nil
}

// step hedges, then values the portfolio after the hedge.
func (s *Simulation) step(runID string, pf *portfolio.Portfolio, o market.Observation) (Row, error) {
	began := time.Now()

	deposit, stock, err := pf.HedgeDelta(o.Price, o.Time, o.Rate)
	if err != nil {
		return Row{}, err
	}
	pv, err := pf.CurrentPrice(o.Price, o.Time, o.Rate)
	if err != nil {
		return Row{}, fmt.Errorf("value portfolio: %w", err)
	}
	delta, err := pf.CurrentDelta(o.Price, o.Time, o.Rate)
	if err != nil {
		return Row{}, fmt.Errorf("portfolio delta: %w", err)
	}

	row := Row{
		Time:               o.Time,
		AssetPrice:         o.Price,
		PreHedgeDelta:      -stock.Asset.Quantity(),
		PortfolioPV:        pv,
		PortfolioDelta:     delta,
		HedgeStockAmount:   stock.Asset.Quantity(),
		HedgeDepositAmount: deposit.Asset.Quantity(),
	}

	for _, t := range []portfolio.Trade{deposit, stock} {
		if err := s.journal.RecordTrade(tradeRecord(runID, t)); err != nil {
			return Row{}, fmt.Errorf("journal trade %s: %w", t.ID, err)
		}
	}
	if err := s.journal.RecordStep(row.record(runID)); err != nil {
		return Row{}, fmt.Errorf("journal step: %w", err)
	}

	if s.monitor != nil {
		s.monitor.ObserveStep(monitor.Step{
			AssetPrice:       row.AssetPrice,
			PreHedgeDelta:    row.PreHedgeDelta,
			PortfolioPV:      row.PortfolioPV,
			PortfolioDelta:   row.PortfolioDelta,
			HedgeStockAmount: row.HedgeStockAmount,
		}, time.Since(began))
	}
	return row, nil
}

func summarize(runID string, created time.Time, pf *portfolio.Portfolio, rows []Row) (journal.RunSummary, error) {
	first, last := rows[0], rows[len(rows)-1]
	sum := journal.RunSummary{
		RunID:     runID,
		Created:   created,
		Start:     first.Time,
		End:       last.Time,
		Steps:     len(rows),
		Trades:    pf.Len(),
		InitialPV: first.PortfolioPV,
		FinalPV:   last.PortfolioPV,
		MinPrice:  first.AssetPrice,
		MaxPrice:  first.AssetPrice,
	}
	for _, r := range rows {
		sum.MaxAbsDelta = math.Max(sum.MaxAbsDelta, math.Abs(r.PortfolioDelta))
		sum.MinPrice = math.Min(sum.MinPrice, r.AssetPrice)
		sum.MaxPrice = math.Max(sum.MaxPrice, r.AssetPrice)
	}

	holdings, err := pf.Holdings(last.Time)
	if err != nil {
		return journal.RunSummary{}, err
	}
	for _, h := range holdings {
		sum.Holdings = append(sum.Holdings, h.String())
	}
	return sum, nil
}

func tradeRecord(runID string, t portfolio.Trade) journal.TradeRecord {
	rec := journal.TradeRecord{
		RunID:          runID,
		TradeID:        t.ID,
		Time:           t.Time,
		Kind:           t.Asset.Kind().String(),
		Amount:         t.Asset.Quantity(),
		ReferencePrice: t.ReferencePrice,
	}
	if o, ok := t.Asset.(asset.Option); ok {
		rec.Strike = o.Strike
		rec.Sigma = o.Sigma
		rec.OptionType = o.Type.String()
		rec.Expiry = o.Expiry
	}
	return rec
}
