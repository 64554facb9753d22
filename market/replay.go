package market

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// LoadCSV reads a recorded series from path. See ReadCSV.
func LoadCSV(path string, rate float64) ([]Observation, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadCSV(f, rate)
}

// ReadCSV reads observations in the WriteCSV layout so a saved or
// recorded series can be hedged again.
//
// Supported formats:
//
//  1. Prices only, rate taken from the argument:
//     time,price
//
//  2. Full export:
//     time,price,volatility,return,rate
//
// The header row is optional. When present its column names are used,
// otherwise columns are positional. Times are RFC3339.
func ReadCSV(r io.Reader, rate float64) ([]Observation, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	cols := map[string]int{"time": 0, "price": 1, "volatility": 2, "return": 3, "rate": 4}

	var out []Observation
	for line := 1; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if line == 1 && len(row) > 0 && strings.EqualFold(strings.TrimSpace(row[0]), "time") {
			cols = map[string]int{}
			for i, name := range row {
				cols[strings.ToLower(strings.TrimSpace(name))] = i
			}
			if _, ok := cols["price"]; !ok {
				return nil, fmt.Errorf("header has no price column: %w", ErrMalformedSeries)
			}
			continue
		}

		o, err := parseRow(row, cols, rate)
		if err != nil {
			return nil, fmt.Errorf("line %d: %v: %w", line, err, ErrMalformedSeries)
		}
		out = append(out, o)
	}
}

func parseRow(row []string, cols map[string]int, rate float64) (Observation, error) {
	field := func(name string) (string, bool) {
		i, ok := cols[name]
		if !ok || i >= len(row) {
			return "", false
		}
		s := strings.TrimSpace(row[i])
		return s, s != ""
	}
	num := func(name string, def float64) (float64, error) {
		s, ok := field(name)
		if !ok {
			return def, nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("bad %s %q", name, s)
		}
		return v, nil
	}

	ts, ok := field("time")
	if !ok {
		return Observation{}, fmt.Errorf("missing time")
	}
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return Observation{}, fmt.Errorf("bad time %q", ts)
	}
	if _, ok := field("price"); !ok {
		return Observation{}, fmt.Errorf("missing price")
	}

	o := Observation{Time: t}
	if o.Price, err = num("price", 0); err != nil {
		return Observation{}, err
	}
	if o.Volatility, err = num("volatility", 0); err != nil {
		return Observation{}, err
	}
	if o.Return, err = num("return", 0); err != nil {
		return Observation{}, err
	}
	if o.Rate, err = num("rate", rate); err != nil {
		return Observation{}, err
	}
	return o, nil
}
