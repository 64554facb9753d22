package asset

import (
	"fmt"
	"time"
)

// Deposit is a cash balance. It does not accrue interest and carries no
// directional exposure.
type Deposit struct {
	Amount float64
}

func (Deposit) Kind() Kind          { return KindDeposit }
func (d Deposit) Quantity() float64 { return d.Amount }
func (Deposit) sealed()             {}

func (d Deposit) CurrentPrice(float64, time.Time, float64) (float64, error) {
	return d.Amount, nil
}

func (Deposit) CurrentDelta(float64, time.Time, float64) (float64, error) {
	return 0, nil
}

func (d Deposit) String() string { return fmt.Sprintf("Deposit(amount=%g)", d.Amount) }

// Stock is a signed number of shares of the single underlying.
type Stock struct {
	Amount float64
}

func (Stock) Kind() Kind          { return KindStock }
func (s Stock) Quantity() float64 { return s.Amount }
func (Stock) sealed()             {}

func (s Stock) CurrentPrice(spot float64, _ time.Time, _ float64) (float64, error) {
	return s.Amount * spot, nil
}

func (s Stock) CurrentDelta(float64, time.Time, float64) (float64, error) {
	return s.Amount, nil
}

func (s Stock) String() string { return fmt.Sprintf("Stock(amount=%g)", s.Amount) }
