// Package portfolio keeps an append-only ledger of trades and values it
// against a market state.
package portfolio

import (
	"fmt"
	"time"

	"github.com/rustyeddy/hedger/asset"
)

// Portfolio is an ordered ledger of trades. Trades are appended in call
// order, which need not be sorted by trade time, and are never removed.
// A Portfolio is not safe for concurrent use.
type Portfolio struct {
	trades []Trade
}

// New returns a portfolio seeded with a copy of trades.
func New(trades ...Trade) *Portfolio {
	return &Portfolio{trades: append([]Trade(nil), trades...)}
}

// RecordTrade appends a trade and returns it.
func (p *Portfolio) RecordTrade(at time.Time, referencePrice float64, a asset.Asset) Trade {
	t := NewTrade(at, referencePrice, a)
	p.trades = append(p.trades, t)
	return t
}

// Trades returns a copy of the ledger in insertion order.
func (p *Portfolio) Trades() []Trade {
	return append([]Trade(nil), p.trades...)
}

func (p *Portfolio) Len() int { return len(p.trades) }

// CurrentPrice is the value of every trade with Time <= at.
func (p *Portfolio) CurrentPrice(spot float64, at time.Time, rate float64) (float64, error) {
	return p.fold(at, func(a asset.Asset) (float64, error) {
		return a.CurrentPrice(spot, at, rate)
	})
}

// CurrentDelta is the spot sensitivity of every trade with Time <= at.
func (p *Portfolio) CurrentDelta(spot float64, at time.Time, rate float64) (float64, error) {
	return p.fold(at, func(a asset.Asset) (float64, error) {
		return a.CurrentDelta(spot, at, rate)
	})
}

// HedgeDelta neutralizes the delta at (spot, at) by appending a stock trade
// of -delta shares and the deposit that funds it, delta*spot. Both trades
// are returned, deposit first. Calling it twice at the same instant appends
// a second, zero-sized pair.
func (p *Portfolio) HedgeDelta(spot float64, at time.Time, rate float64) (deposit, stock Trade, err error) {
	delta, err := p.CurrentDelta(spot, at, rate)
	if err != nil {
		return Trade{}, Trade{}, fmt.Errorf("hedge delta: %w", err)
	}

	deposit = p.RecordTrade(at, spot, asset.Deposit{Amount: delta * spot})
	stock = p.RecordTrade(at, spot, asset.Stock{Amount: -delta})
	return deposit, stock, nil
}

// Holdings consolidates the trades effective at t: deposits fold into one
// Deposit, stock into one Stock, and options are listed individually in
// ledger order. Cash and stock come first when present.
func (p *Portfolio) Holdings(at time.Time) ([]asset.Asset, error) {
	var cash, stock asset.Asset
	var options []asset.Asset

	for _, t := range p.trades {
		if !t.EffectiveAt(at) {
			continue
		}
		var err error
		switch t.Asset.Kind() {
		case asset.KindDeposit:
			cash, err = accumulate(cash, t.Asset)
		case asset.KindStock:
			stock, err = accumulate(stock, t.Asset)
		default:
			options = append(options, t.Asset)
		}
		if err != nil {
			return nil, fmt.Errorf("holdings: trade %s: %w", t.ID, err)
		}
	}

	out := make([]asset.Asset, 0, len(options)+2)
	if cash != nil {
		out = append(out, cash)
	}
	if stock != nil {
		out = append(out, stock)
	}
	return append(out, options...), nil
}

func accumulate(acc, a asset.Asset) (asset.Asset, error) {
	if acc == nil {
		return a, nil
	}
	return asset.Combine(acc, a)
}

func (p *Portfolio) fold(at time.Time, f func(asset.Asset) (float64, error)) (float64, error) {
	var sum float64
	for _, t := range p.trades {
		if !t.EffectiveAt(at) {
			continue
		}
		v, err := f(t.Asset)
		if err != nil {
			return 0, fmt.Errorf("trade %s: %w", t.ID, err)
		}
		sum += v
	}
	return sum, nil
}
