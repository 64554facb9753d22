package asset

import (
	"fmt"
	"time"

	"github.com/rustyeddy/hedger/pricing"
)

// Option is a position of Amount European options on the underlying.
// Strike and Sigma are fixed when the position is opened.
type Option struct {
	Amount float64
	Expiry time.Time
	Strike float64
	Sigma  float64
	Type   pricing.OptionType
}

func (Option) Kind() Kind          { return KindOption }
func (o Option) Quantity() float64 { return o.Amount }
func (Option) sealed()             {}

// Expired reports whether at is strictly after expiry.
func (o Option) Expired(at time.Time) bool { return o.Expiry.Before(at) }

// CurrentPrice values the position. An expired option is worth nothing;
// exercise and settlement are not modeled.
func (o Option) CurrentPrice(spot float64, at time.Time, rate float64) (float64, error) {
	if o.Expired(at) {
		return 0, nil
	}
	p, err := pricing.Price(o.Type, spot, o.Strike, o.tenor(at), rate, o.Sigma)
	if err != nil {
		return 0, fmt.Errorf("price %s: %w", o, err)
	}
	return o.Amount * p, nil
}

// CurrentDelta is zero once the option has expired.
func (o Option) CurrentDelta(spot float64, at time.Time, rate float64) (float64, error) {
	if o.Expired(at) {
		return 0, nil
	}
	d, err := pricing.Delta(o.Type, spot, o.Strike, o.tenor(at), rate, o.Sigma)
	if err != nil {
		return 0, fmt.Errorf("delta %s: %w", o, err)
	}
	return o.Amount * d, nil
}

// CurrentGamma is the gamma exposure of the position. It fails at the
// instant of expiry where gamma is unbounded.
func (o Option) CurrentGamma(spot float64, at time.Time, rate float64) (float64, error) {
	if o.Expired(at) {
		return 0, nil
	}
	g, err := pricing.Gamma(spot, o.Strike, o.tenor(at), rate, o.Sigma)
	if err != nil {
		return 0, fmt.Errorf("gamma %s: %w", o, err)
	}
	return o.Amount * g, nil
}

func (o Option) tenor(at time.Time) float64 { return pricing.YearFraction(at, o.Expiry) }

func (o Option) String() string {
	return fmt.Sprintf("Option(amount=%g, %s K=%g sigma=%g exp=%s)",
		o.Amount, o.Type, o.Strike, o.Sigma, o.Expiry.Format(time.RFC3339))
}
