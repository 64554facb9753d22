package market

import (
	"encoding/csv"
	"io"
	"time"

	"github.com/rustyeddy/hedger/internal/num"
)

var csvHeader = []string{"time", "price", "volatility", "return", "rate"}

// WriteCSV writes obs with a header row. Values are rendered exactly, so
// ReadCSV gives back the same series.
func WriteCSV(w io.Writer, obs []Observation) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, o := range obs {
		if err := cw.Write([]string{
			o.Time.UTC().Format(time.RFC3339),
			num.Format(o.Price),
			num.Format(o.Volatility),
			num.Format(o.Return),
			num.Format(o.Rate),
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
