package journal

import (
	"encoding/csv"
	"errors"
	"os"
	"time"

	"github.com/rustyeddy/hedger/internal/num"
)

// CSVJournal writes trades and steps to two files. Run summaries are not
// written; use the org report for those.
type CSVJournal struct {
	trades *csv.Writer
	steps  *csv.Writer
	tf, sf *os.File
}

func NewCSV(tradesPath, stepsPath string) (*CSVJournal, error) {
	tf, err := os.Create(tradesPath)
	if err != nil {
		return nil, err
	}
	sf, err := os.Create(stepsPath)
	if err != nil {
		_ = tf.Close()
		return nil, err
	}

	j := &CSVJournal{csv.NewWriter(tf), csv.NewWriter(sf), tf, sf}

	if err := j.write(j.trades, []string{"run_id", "trade_id", "time", "kind", "amount", "reference_price", "strike", "sigma", "option_type", "expiry"}); err != nil {
		_ = j.Close()
		return nil, err
	}
	if err := j.write(j.steps, []string{"run_id", "time", "asset_price", "pre_hedge_delta", "portfolio_pv", "portfolio_delta", "hedge_stock_amount", "hedge_deposit_amount"}); err != nil {
		_ = j.Close()
		return nil, err
	}
	return j, nil
}

func (j *CSVJournal) RecordTrade(t TradeRecord) error {
	expiry := ""
	if !t.Expiry.IsZero() {
		expiry = t.Expiry.UTC().Format(time.RFC3339)
	}
	return j.write(j.trades, []string{
		t.RunID,
		t.TradeID,
		t.Time.UTC().Format(time.RFC3339),
		t.Kind,
		num.Format(t.Amount),
		num.Format(t.ReferencePrice),
		num.Format(t.Strike),
		num.Format(t.Sigma),
		t.OptionType,
		expiry,
	})
}

func (j *CSVJournal) RecordStep(s StepRecord) error {
	return j.write(j.steps, []string{
		s.RunID,
		s.Time.UTC().Format(time.RFC3339),
		num.Format(s.AssetPrice),
		num.Format(s.PreHedgeDelta),
		num.Format(s.PortfolioPV),
		num.Format(s.PortfolioDelta),
		num.Format(s.HedgeStockAmount),
		num.Format(s.HedgeDepositAmount),
	})
}

func (j *CSVJournal) RecordRun(RunSummary) error { return nil }

// Close flushes both writers and closes both files, even when a flush fails.
func (j *CSVJournal) Close() error {
	j.trades.Flush()
	j.steps.Flush()
	return errors.Join(j.trades.Error(), j.steps.Error(), j.tf.Close(), j.sf.Close())
}

func (j *CSVJournal) write(w *csv.Writer, rec []string) error {
	if err := w.Write(rec); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}
