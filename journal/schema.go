package journal

const Schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id TEXT PRIMARY KEY,
	created DATETIME NOT NULL,
	start_time DATETIME NOT NULL,
	end_time DATETIME NOT NULL,
	steps INTEGER NOT NULL,
	trades INTEGER NOT NULL,
	initial_pv REAL NOT NULL,
	final_pv REAL NOT NULL,
	max_abs_delta REAL NOT NULL,
	min_price REAL NOT NULL,
	max_price REAL NOT NULL,
	holdings TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS trades (
	trade_id TEXT PRIMARY KEY,
	run_id TEXT NOT NULL,
	time DATETIME NOT NULL,
	kind TEXT NOT NULL,
	amount REAL NOT NULL,
	reference_price REAL NOT NULL,
	strike REAL NOT NULL,
	sigma REAL NOT NULL,
	option_type TEXT NOT NULL,
	expiry DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS steps (
	run_id TEXT NOT NULL,
	time DATETIME NOT NULL,
	asset_price REAL NOT NULL,
	pre_hedge_delta REAL NOT NULL,
	portfolio_pv REAL NOT NULL,
	portfolio_delta REAL NOT NULL,
	hedge_stock_amount REAL NOT NULL,
	hedge_deposit_amount REAL NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_trades_run ON trades(run_id, time);
CREATE INDEX IF NOT EXISTS idx_steps_run ON steps(run_id, time);
`
