package portfolio

import (
	"fmt"
	"time"

	"github.com/rustyeddy/hedger/asset"
	"github.com/rustyeddy/hedger/internal/id"
)

// Trade is one execution: an asset position entering the portfolio at a
// time and reference price. ReferencePrice is kept for audit; valuation
// never reads it.
type Trade struct {
	ID             string
	Time           time.Time
	ReferencePrice float64
	Asset          asset.Asset
}

// NewTrade stamps a trade with an ID ordered by its market time.
func NewTrade(at time.Time, referencePrice float64, a asset.Asset) Trade {
	return Trade{
		ID:             id.At(at),
		Time:           at,
		ReferencePrice: referencePrice,
		Asset:          a,
	}
}

// EffectiveAt reports whether the trade is visible to a valuation at t.
func (t Trade) EffectiveAt(at time.Time) bool { return !t.Time.After(at) }

func (t Trade) String() string {
	return fmt.Sprintf("%s %s @%g %s", t.ID, t.Time.Format(time.RFC3339), t.ReferencePrice, t.Asset)
}
