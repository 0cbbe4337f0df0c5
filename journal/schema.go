// journal/schema.go
package journal

const Schema = `
CREATE TABLE IF NOT EXISTS trades (
	trade_id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL DEFAULT '',
	symbol TEXT NOT NULL,
	side TEXT NOT NULL,
	status TEXT NOT NULL,
	entry_price REAL NOT NULL,
	quantity REAL NOT NULL,
	exit_price REAL,
	entry_time DATETIME NOT NULL,
	exit_time DATETIME,
	emotion_before TEXT NOT NULL DEFAULT '',
	emotion_after TEXT NOT NULL DEFAULT '',
	realized_pl REAL,
	notes TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_trades_entry_time ON trades(entry_time);
CREATE INDEX IF NOT EXISTS idx_trades_symbol ON trades(symbol);
`

const tradeColumns = `trade_id, user_id, symbol, side, status, entry_price, quantity, exit_price,
	entry_time, exit_time, emotion_before, emotion_after, realized_pl, notes`
