package market

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"time"
)

// ErrInvalidParams is returned by Params.Validate.
var ErrInvalidParams = errors.New("invalid generator params")

// Params parameterizes the synthetic series.
//
// The conditional variance follows
//
//	s2[i] = A0 + sum_j P[j]*e[i-len(P)+j]^2 + sum_k Q[k]*s2[i-len(Q)+k]
//
// so the last coefficient weights the most recent lag and P[0] the oldest.
// Lags before the start of the series are skipped. e[i] = z*sqrt(s2[i])
// with z standard normal, and the price moves as
// S[i] = exp(e[i-1]) * S[i-1]. The recursion starts from s2 = e = S = 1
// and the first Offset points are dropped as burn-in.
type Params struct {
	A0     float64
	P      []float64
	Q      []float64
	Count  int
	Offset int
	Rate   float64
	Start  time.Time
	Step   time.Duration
	Seed   uint64
}

// DefaultParams is the parameterization used when a simulation is run
// without a series: one year of daily points after ten burn-in days.
func DefaultParams() Params {
	return Params{
		A0:     1e-4,
		P:      []float64{.01},
		Q:      []float64{.02},
		Count:  366,
		Offset: 10,
		Rate:   .01,
		Start:  time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		Step:   24 * time.Hour,
		Seed:   1,
	}
}

func (p Params) Validate() error {
	switch {
	case !(p.A0 > 0):
		return fmt.Errorf("a0 %v must be positive: %w", p.A0, ErrInvalidParams)
	case p.Count <= 0:
		return fmt.Errorf("count %d must be positive: %w", p.Count, ErrInvalidParams)
	case p.Offset < 0 || p.Offset >= p.Count:
		return fmt.Errorf("offset %d must be in [0, count): %w", p.Offset, ErrInvalidParams)
	case p.Step <= 0:
		return fmt.Errorf("step %s must be positive: %w", p.Step, ErrInvalidParams)
	case p.Start.IsZero():
		return fmt.Errorf("start time is required: %w", ErrInvalidParams)
	case math.IsNaN(p.Rate) || math.IsInf(p.Rate, 0):
		return fmt.Errorf("rate %v: %w", p.Rate, ErrInvalidParams)
	}
	for i, c := range p.P {
		if !(c >= 0) {
			return fmt.Errorf("p[%d] %v must be non-negative: %w", i, c, ErrInvalidParams)
		}
	}
	for i, c := range p.Q {
		if !(c >= 0) {
			return fmt.Errorf("q[%d] %v must be non-negative: %w", i, c, ErrInvalidParams)
		}
	}
	return nil
}

// Generate produces Count-Offset observations, deterministic for a Seed.
func Generate(p Params) ([]Observation, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewPCG(p.Seed, p.Seed^0x9e3779b97f4a7c15))

	variance := make([]float64, p.Count)
	eps := make([]float64, p.Count)
	price := make([]float64, p.Count)
	variance[0], eps[0], price[0] = 1, 1, 1

	for i := 1; i < p.Count; i++ {
		s2 := p.A0
		for j, c := range p.P {
			if k := i - len(p.P) + j; k >= 0 {
				s2 += c * eps[k] * eps[k]
			}
		}
		for j, c := range p.Q {
			if k := i - len(p.Q) + j; k >= 0 {
				s2 += c * variance[k]
			}
		}
		variance[i] = s2
		eps[i] = rng.NormFloat64() * math.Sqrt(s2)
		price[i] = math.Exp(eps[i-1]) * price[i-1]
	}

	out := make([]Observation, 0, p.Count-p.Offset)
	for i := p.Offset; i < p.Count; i++ {
		out = append(out, Observation{
			Time:       p.Start.Add(time.Duration(i) * p.Step),
			Price:      price[i],
			Volatility: math.Sqrt(variance[i]),
			Return:     eps[i],
			Rate:       p.Rate,
		})
	}
	return out, nil
}
