// Package market holds the observation series a hedge simulation runs over
// and a synthetic GARCH-style generator for it.
package market

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// Observation is one point of a market series. Volatility and Return are
// informational; option pricing uses each option's own sigma.
type Observation struct {
	Time       time.Time `json:"time"`
	Price      float64   `json:"price"`
	Volatility float64   `json:"volatility"`
	Return     float64   `json:"return"`
	Rate       float64   `json:"rate"`
}

// ErrMalformedSeries is returned for an empty or out of order series, or
// one with a non-positive price.
var ErrMalformedSeries = errors.New("malformed observation series")

// ValidateSeries checks that obs is non-empty, strictly increasing in time,
// with positive finite prices and non-negative volatility.
func ValidateSeries(obs []Observation) error {
	if len(obs) == 0 {
		return fmt.Errorf("empty series: %w", ErrMalformedSeries)
	}
	for i, o := range obs {
		if o.Time.IsZero() {
			return fmt.Errorf("observation %d has no time: %w", i, ErrMalformedSeries)
		}
		if !(o.Price > 0) || math.IsInf(o.Price, 0) {
			return fmt.Errorf("observation %d price %v: %w", i, o.Price, ErrMalformedSeries)
		}
		if !(o.Volatility >= 0) {
			return fmt.Errorf("observation %d volatility %v: %w", i, o.Volatility, ErrMalformedSeries)
		}
		if math.IsNaN(o.Rate) || math.IsInf(o.Rate, 0) {
			return fmt.Errorf("observation %d rate %v: %w", i, o.Rate, ErrMalformedSeries)
		}
		if i > 0 && !o.Time.After(obs[i-1].Time) {
			return fmt.Errorf("observation %d at %s not after %s: %w",
				i, o.Time.Format(time.RFC3339), obs[i-1].Time.Format(time.RFC3339), ErrMalformedSeries)
		}
	}
	return nil
}
