package asset

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/rustyeddy/hedger/pricing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const precision = 1e-5

var (
	expiry     = time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
	marketTime = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	mults      = []float64{.8, .9, 1, 1.1, 1.2}
)

const (
	strike = 1.0
	sigma  = 0.1
	rate   = 0.01
)

func newOption(amount float64, typ pricing.OptionType) Option {
	return Option{Amount: amount, Expiry: expiry, Strike: strike, Sigma: sigma, Type: typ}
}

func TestOptionPricePositive(t *testing.T) {
	t.Parallel()

	for _, typ := range []pricing.OptionType{pricing.Call, pricing.Put} {
		for _, m := range mults {
			p, err := newOption(1, typ).CurrentPrice(m*strike, marketTime, rate)
			require.NoError(t, err)
			assert.Greater(t, p, 0.0, "%s mult %.1f", typ, m)
		}
	}
}

func TestOptionPriceLinearInAmount(t *testing.T) {
	t.Parallel()

	for _, typ := range []pricing.OptionType{pricing.Call, pricing.Put} {
		for _, m := range mults {
			p1, err := newOption(1, typ).CurrentPrice(m*strike, marketTime, rate)
			require.NoError(t, err)
			p2, err := newOption(2, typ).CurrentPrice(m*strike, marketTime, rate)
			require.NoError(t, err)
			assert.InEpsilon(t, 2*p1, p2, precision)
		}
	}
}

func TestOptionLongerTenorWorthMore(t *testing.T) {
	t.Parallel()

	short := newOption(1, pricing.Call)
	long := short
	long.Expiry = expiry.AddDate(0, 0, 365)

	p1, err := short.CurrentPrice(strike, marketTime, rate)
	require.NoError(t, err)
	p2, err := long.CurrentPrice(strike, marketTime, rate)
	require.NoError(t, err)
	assert.Less(t, p1, p2)
}

func TestOptionPutCallParity(t *testing.T) {
	t.Parallel()

	const r = 0.05
	tenor := pricing.YearFraction(marketTime, expiry)
	for _, m := range mults {
		spot := m * strike
		c, err := newOption(1, pricing.Call).CurrentPrice(spot, marketTime, r)
		require.NoError(t, err)
		p, err := newOption(1, pricing.Put).CurrentPrice(spot, marketTime, r)
		require.NoError(t, err)
		assert.InDelta(t, spot-strike*math.Exp(-r*tenor), c-p, precision)
	}
}

func TestOptionExpired(t *testing.T) {
	t.Parallel()

	o := newOption(3, pricing.Call)
	after := expiry.Add(time.Second)

	p, err := o.CurrentPrice(5, after, rate)
	require.NoError(t, err)
	assert.Zero(t, p)

	d, err := o.CurrentDelta(5, after, rate)
	require.NoError(t, err)
	assert.Zero(t, d)

	g, err := o.CurrentGamma(5, after, rate)
	require.NoError(t, err)
	assert.Zero(t, g)
}

func TestOptionAtExpiryIsIntrinsic(t *testing.T) {
	t.Parallel()

	o := newOption(2, pricing.Call)
	p, err := o.CurrentPrice(1.5, expiry, rate)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, p, 1e-12)

	d, err := o.CurrentDelta(1.5, expiry, rate)
	require.NoError(t, err)
	assert.Equal(t, 2.0, d)

	_, err = o.CurrentGamma(1.5, expiry, rate)
	assert.ErrorIs(t, err, pricing.ErrDegenerateInput)
}

func TestOptionDegenerateSigma(t *testing.T) {
	t.Parallel()

	o := newOption(1, pricing.Call)
	o.Sigma = 0
	_, err := o.CurrentPrice(1, marketTime, rate)
	assert.ErrorIs(t, err, pricing.ErrDegenerateInput)
	_, err = o.CurrentDelta(1, marketTime, rate)
	assert.ErrorIs(t, err, pricing.ErrDegenerateInput)
}

func TestOptionDeltaScalesWithAmount(t *testing.T) {
	t.Parallel()

	d1, err := newOption(1, pricing.Put).CurrentDelta(0.9, marketTime, rate)
	require.NoError(t, err)
	d3, err := newOption(-3, pricing.Put).CurrentDelta(0.9, marketTime, rate)
	require.NoError(t, err)
	assert.InDelta(t, -3*d1, d3, 1e-12)
}

func TestStock(t *testing.T) {
	t.Parallel()

	s := Stock{Amount: 7}
	for _, m := range mults {
		spot := m * strike
		p, err := s.CurrentPrice(spot, marketTime, rate)
		require.NoError(t, err)
		assert.InDelta(t, 7*spot, p, precision)

		d, err := s.CurrentDelta(spot, marketTime, rate)
		require.NoError(t, err)
		assert.InDelta(t, 7.0, d, precision)
	}
}

func TestDeposit(t *testing.T) {
	t.Parallel()

	dep := Deposit{Amount: 7}
	for _, m := range mults {
		p, err := dep.CurrentPrice(m*strike, marketTime, rate)
		require.NoError(t, err)
		assert.InDelta(t, 7.0, p, precision)

		d, err := dep.CurrentDelta(m*strike, marketTime, rate)
		require.NoError(t, err)
		assert.Zero(t, d)
	}
}

func TestCombine(t *testing.T) {
	t.Parallel()

	got, err := Combine(Deposit{Amount: 1.5}, Deposit{Amount: -0.5})
	require.NoError(t, err)
	assert.Equal(t, Deposit{Amount: 1}, got)

	got, err = Combine(Stock{Amount: 10}, Stock{Amount: -3})
	require.NoError(t, err)
	assert.Equal(t, Stock{Amount: 7}, got)

	opt := newOption(1, pricing.Call)
	tests := []struct {
		name        string
		a, b        Asset
		left, right Kind
	}{
		{"deposit+stock", Deposit{Amount: 1}, Stock{Amount: 1}, KindDeposit, KindStock},
		{"stock+deposit", Stock{Amount: 1}, Deposit{Amount: 1}, KindStock, KindDeposit},
		{"option+option", opt, opt, KindOption, KindOption},
		{"stock+option", Stock{Amount: 1}, opt, KindStock, KindOption},
		{"option+deposit", opt, Deposit{Amount: 1}, KindOption, KindDeposit},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			res, err := Combine(tt.a, tt.b)
			assert.Nil(t, res)
			assert.True(t, errors.Is(err, ErrUnsupportedCombination))

			var ce *CombinationError
			require.True(t, errors.As(err, &ce))
			assert.Equal(t, tt.left, ce.Left)
			assert.Equal(t, tt.right, ce.Right)
			assert.Contains(t, err.Error(), tt.left.String())
			assert.Contains(t, err.Error(), tt.right.String())
		})
	}
}

func TestCombineDoesNotMutate(t *testing.T) {
	t.Parallel()

	a, b := Stock{Amount: 2}, Stock{Amount: 3}
	_, err := Combine(a, b)
	require.NoError(t, err)
	assert.Equal(t, 2.0, a.Amount)
	assert.Equal(t, 3.0, b.Amount)
}

func TestKindString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "deposit", Deposit{}.Kind().String())
	assert.Equal(t, "stock", Stock{}.Kind().String())
	assert.Equal(t, "option", Option{}.Kind().String())
	assert.Equal(t, "Kind(9)", Kind(9).String())
}
