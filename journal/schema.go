package journal

const schema = `
CREATE TABLE IF NOT EXISTS candles (
	id TEXT PRIMARY KEY,
	symbol TEXT NOT NULL,
	time INTEGER NOT NULL,
	open REAL NOT NULL,
	high REAL NOT NULL,
	low REAL NOT NULL,
	close REAL NOT NULL,
	volume REAL NOT NULL,
	UNIQUE(symbol, time)
);

CREATE TABLE IF NOT EXISTS trades (
	id TEXT PRIMARY KEY,
	symbol TEXT NOT NULL,
	time INTEGER NOT NULL,
	price REAL NOT NULL,
	quantity REAL NOT NULL,
	side TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_candles_symbol_time ON candles(symbol, time);
CREATE INDEX IF NOT EXISTS idx_trades_symbol_time ON trades(symbol, time);
`
