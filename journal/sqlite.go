package journal

import (
	"database/sql"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &SQLite{db: db}, nil
}

func (j *SQLite) RecordTrade(t TradeRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO trades
		(trade_id, run_id, time, kind, amount, reference_price, strike, sigma, option_type, expiry)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.TradeID, t.RunID, t.Time.UTC(), t.Kind, t.Amount, t.ReferencePrice,
		t.Strike, t.Sigma, t.OptionType, t.Expiry.UTC(),
	)
	return err
}

func (j *SQLite) RecordStep(s StepRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO steps
		(run_id, time, asset_price, pre_hedge_delta, portfolio_pv, portfolio_delta, hedge_stock_amount, hedge_deposit_amount)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		s.RunID, s.Time.UTC(), s.AssetPrice, s.PreHedgeDelta, s.PortfolioPV,
		s.PortfolioDelta, s.HedgeStockAmount, s.HedgeDepositAmount,
	)
	return err
}

func (j *SQLite) RecordRun(r RunSummary) error {
	_, err := j.db.Exec(`
		INSERT OR REPLACE INTO runs
		(run_id, created, start_time, end_time, steps, trades, initial_pv, final_pv, max_abs_delta, min_price, max_price, holdings)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RunID, r.Created.UTC(), r.Start.UTC(), r.End.UTC(), r.Steps, r.Trades,
		r.InitialPV, r.FinalPV, r.MaxAbsDelta, r.MinPrice, r.MaxPrice,
		strings.Join(r.Holdings, "\n"),
	)
	return err
}

func (j *SQLite) Close() error {
	return j.db.Close()
}
