// Package asset defines the positions a portfolio can hold: cash deposits,
// stock and European options. Assets are immutable values.
package asset

import (
	"errors"
	"fmt"
	"time"
)

// Kind identifies an asset variant.
type Kind int

const (
	KindDeposit Kind = iota + 1
	KindStock
	KindOption
)

func (k Kind) String() string {
	switch k {
	case KindDeposit:
		return "deposit"
	case KindStock:
		return "stock"
	case KindOption:
		return "option"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Asset is a position valued against a market state. The set of
// implementations is closed: Deposit, Stock and Option.
type Asset interface {
	Kind() Kind
	// Quantity is the signed size of the position: cash amount, share
	// count or contract count.
	Quantity() float64
	CurrentPrice(spot float64, at time.Time, rate float64) (float64, error)
	CurrentDelta(spot float64, at time.Time, rate float64) (float64, error)
	String() string

	sealed()
}

// ErrUnsupportedCombination is returned by Combine for any pairing other
// than deposit+deposit or stock+stock.
var ErrUnsupportedCombination = errors.New("unsupported asset combination")

// CombinationError names the two variants that could not be combined.
type CombinationError struct {
	Left, Right Kind
}

func (e *CombinationError) Error() string {
	return fmt.Sprintf("cannot combine %s with %s", e.Left, e.Right)
}

func (e *CombinationError) Is(target error) bool { return target == ErrUnsupportedCombination }

// Combine returns a new asset holding the sum of a and b. Only deposits
// with deposits and stock with stock can be merged; options carry strike,
// expiry and type and have no merge rule.
func Combine(a, b Asset) (Asset, error) {
	switch x := a.(type) {
	case Deposit:
		if y, ok := b.(Deposit); ok {
			return Deposit{Amount: x.Amount + y.Amount}, nil
		}
	case Stock:
		if y, ok := b.(Stock); ok {
			return Stock{Amount: x.Amount + y.Amount}, nil
		}
	}
	return nil, &CombinationError{Left: kindOf(a), Right: kindOf(b)}
}

func kindOf(a Asset) Kind {
	if a == nil {
		return 0
	}
	return a.Kind()
}
