// Package pricing implements closed-form Black-Scholes valuation of European
// options on a non-dividend paying underlying with constant rate and
// volatility.
package pricing

import (
	"errors"
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/stat/distuv"
)

// SecondsPerYear is the length of the 365 day year used for tenors.
const SecondsPerYear = 60 * 60 * 24 * 365

// ErrDegenerateInput is returned when the closed form is undefined for the
// given inputs (non-positive spot, strike or volatility, negative tenor).
var ErrDegenerateInput = errors.New("degenerate pricing input")

// YearFraction converts the interval from..to into years.
// It is negative when to is before from.
func YearFraction(from, to time.Time) float64 {
	return to.Sub(from).Seconds() / SecondsPerYear
}

// Greeks bundles a price with its first and second spot sensitivities.
type Greeks struct {
	Price float64 `json:"price"`
	Delta float64 `json:"delta"`
	Gamma float64 `json:"gamma"`
}

// Price returns the Black-Scholes value of one option.
//
// t is the tenor in years. At t == 0 the intrinsic value is returned, which
// is the limit of the closed form as the tenor goes to zero. A zero strike
// is the other limit: a call is worth the spot and a put is worthless.
func Price(typ OptionType, spot, strike, t, r, sigma float64) (float64, error) {
	if err := check(typ, spot, strike, t, r, sigma); err != nil {
		return 0, err
	}
	if t == 0 || strike == 0 {
		return intrinsic(typ, spot, strike), nil
	}

	d1, d2 := d1d2(spot, strike, t, r, sigma)
	df := math.Exp(-r * t)
	if typ == Call {
		return spot*cdf(d1) - strike*df*cdf(d2), nil
	}
	return strike*df*cdf(-d2) - spot*cdf(-d1), nil
}

// Delta returns dPrice/dSpot for one option.
func Delta(typ OptionType, spot, strike, t, r, sigma float64) (float64, error) {
	if err := check(typ, spot, strike, t, r, sigma); err != nil {
		return 0, err
	}
	if t == 0 || strike == 0 {
		return expiryDelta(typ, spot, strike), nil
	}

	d1, _ := d1d2(spot, strike, t, r, sigma)
	if typ == Call {
		return cdf(d1), nil
	}
	return cdf(d1) - 1, nil
}

// Gamma returns d²Price/dSpot², identical for calls and puts.
// It is unbounded at expiry, so t must be strictly positive.
func Gamma(spot, strike, t, r, sigma float64) (float64, error) {
	if err := check(Call, spot, strike, t, r, sigma); err != nil {
		return 0, err
	}
	if t == 0 {
		return 0, fmt.Errorf("gamma at expiry: %w", ErrDegenerateInput)
	}
	if strike == 0 {
		return 0, nil
	}

	d1, _ := d1d2(spot, strike, t, r, sigma)
	return distuv.UnitNormal.Prob(d1) / (spot * math.Sqrt(t)), nil
}

// Quote computes price, delta and gamma together. Gamma is left at zero
// when t == 0.
func Quote(typ OptionType, spot, strike, t, r, sigma float64) (Greeks, error) {
	var g Greeks
	var err error

	if g.Price, err = Price(typ, spot, strike, t, r, sigma); err != nil {
		return Greeks{}, err
	}
	if g.Delta, err = Delta(typ, spot, strike, t, r, sigma); err != nil {
		return Greeks{}, err
	}
	if t > 0 {
		if g.Gamma, err = Gamma(spot, strike, t, r, sigma); err != nil {
			return Greeks{}, err
		}
	}
	return g, nil
}

func d1d2(spot, strike, t, r, sigma float64) (float64, float64) {
	vt := sigma * math.Sqrt(t)
	d1 := (math.Log(spot/strike) + (r+sigma*sigma/2)*t) / vt
	return d1, d1 - vt
}

func cdf(x float64) float64 { return distuv.UnitNormal.CDF(x) }

func intrinsic(typ OptionType, spot, strike float64) float64 {
	if typ == Call {
		return math.Max(spot-strike, 0)
	}
	return math.Max(strike-spot, 0)
}

// expiryDelta is the t -> 0 limit of Delta: a step at the strike, with
// Φ(0) = 0.5 exactly at the money.
func expiryDelta(typ OptionType, spot, strike float64) float64 {
	var callDelta float64
	switch {
	case spot > strike:
		callDelta = 1
	case spot == strike:
		callDelta = 0.5
	}
	if typ == Call {
		return callDelta
	}
	return callDelta - 1
}

func check(typ OptionType, spot, strike, t, r, sigma float64) error {
	if !typ.Valid() {
		return fmt.Errorf("option type %d: %w", int(typ), ErrDegenerateInput)
	}
	for _, v := range [...]struct {
		name string
		val  float64
	}{{"spot", spot}, {"strike", strike}, {"tenor", t}, {"rate", r}, {"sigma", sigma}} {
		if math.IsNaN(v.val) || math.IsInf(v.val, 0) {
			return fmt.Errorf("%s %v: %w", v.name, v.val, ErrDegenerateInput)
		}
	}
	switch {
	case spot <= 0:
		return fmt.Errorf("spot %v must be positive: %w", spot, ErrDegenerateInput)
	case strike < 0:
		return fmt.Errorf("strike %v is negative: %w", strike, ErrDegenerateInput)
	case sigma <= 0:
		return fmt.Errorf("sigma %v must be positive: %w", sigma, ErrDegenerateInput)
	case t < 0:
		return fmt.Errorf("tenor %v is past expiry: %w", t, ErrDegenerateInput)
	}
	return nil
}
