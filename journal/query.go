package journal

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// GetRun returns the summary stored for runID.
func (j *SQLite) GetRun(runID string) (RunSummary, error) {
	var r RunSummary
	var holdings string

	row := j.db.QueryRow(`
		SELECT run_id, created, start_time, end_time, steps, trades, initial_pv, final_pv, max_abs_delta, min_price, max_price, holdings
		FROM runs
		WHERE run_id = ?`, runID)

	err := row.Scan(
		&r.RunID,
		&r.Created,
		&r.Start,
		&r.End,
		&r.Steps,
		&r.Trades,
		&r.InitialPV,
		&r.FinalPV,
		&r.MaxAbsDelta,
		&r.MinPrice,
		&r.MaxPrice,
		&holdings,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return RunSummary{}, fmt.Errorf("run %q not found", runID)
		}
		return RunSummary{}, err
	}
	if holdings != "" {
		r.Holdings = strings.Split(holdings, "\n")
	}
	return r, nil
}

// ListTrades returns the trades of a run ordered by trade time, then by
// insertion.
func (j *SQLite) ListTrades(runID string) ([]TradeRecord, error) {
	rows, err := j.db.Query(`
		SELECT run_id, trade_id, time, kind, amount, reference_price, strike, sigma, option_type, expiry
		FROM trades
		WHERE run_id = ?
		ORDER BY time ASC, rowid ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TradeRecord
	for rows.Next() {
		var rec TradeRecord
		if err := rows.Scan(
			&rec.RunID,
			&rec.TradeID,
			&rec.Time,
			&rec.Kind,
			&rec.Amount,
			&rec.ReferencePrice,
			&rec.Strike,
			&rec.Sigma,
			&rec.OptionType,
			&rec.Expiry,
		); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListSteps returns the result rows of a run in time order.
func (j *SQLite) ListSteps(runID string) ([]StepRecord, error) {
	rows, err := j.db.Query(`
		SELECT run_id, time, asset_price, pre_hedge_delta, portfolio_pv, portfolio_delta, hedge_stock_amount, hedge_deposit_amount
		FROM steps
		WHERE run_id = ?
		ORDER BY time ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []StepRecord
	for rows.Next() {
		var rec StepRecord
		if err := rows.Scan(
			&rec.RunID,
			&rec.Time,
			&rec.AssetPrice,
			&rec.PreHedgeDelta,
			&rec.PortfolioPV,
			&rec.PortfolioDelta,
			&rec.HedgeStockAmount,
			&rec.HedgeDepositAmount,
		); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
