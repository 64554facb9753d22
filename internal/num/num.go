// Package num renders floats for the CSV files written by the journal and
// the market series writer.
package num

import (
	"math"
	"strconv"

	"github.com/shopspring/decimal"
)

// Format renders x as a plain decimal with the fewest digits that parse back
// to the same float64. NaN and infinities use their strconv spelling.
func Format(x float64) string {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return strconv.FormatFloat(x, 'f', -1, 64)
	}
	return decimal.NewFromFloat(x).String()
}
