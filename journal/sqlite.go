package journal

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/ahmadakra1997/tradecore/market"
	"github.com/ahmadakra1997/tradecore/pkg/id"
)

// SQLite journals market data into a single database file.
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens (creating if needed) the journal at path.
func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open journal db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply journal schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

// RecordCandle upserts on (symbol, time) so a live bar updating in
// place overwrites its earlier snapshot instead of duplicating it.
func (j *SQLite) RecordCandle(symbol string, c market.Candle) error {
	_, err := j.db.Exec(`
		INSERT INTO candles (id, symbol, time, open, high, low, close, volume)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(symbol, time) DO UPDATE SET
			open = excluded.open,
			high = excluded.high,
			low = excluded.low,
			close = excluded.close,
			volume = excluded.volume`,
		id.New(), symbol, c.Time, c.Open, c.High, c.Low, c.Close, c.Volume,
	)
	return err
}

func (j *SQLite) RecordTrade(symbol string, t market.Trade) error {
	_, err := j.db.Exec(`
		INSERT INTO trades (id, symbol, time, price, quantity, side)
		VALUES (?, ?, ?, ?, ?, ?)`,
		id.New(), symbol, t.Time, t.Price, t.Quantity, t.Side,
	)
	return err
}

// RecentCandles returns up to limit candles for symbol, oldest first.
func (j *SQLite) RecentCandles(ctx context.Context, symbol string, limit int) ([]market.Candle, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT time, open, high, low, close, volume
		FROM (
			SELECT * FROM candles WHERE symbol = ? ORDER BY time DESC LIMIT ?
		) ORDER BY time ASC`,
		symbol, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []market.Candle
	for rows.Next() {
		var c market.Candle
		if err := rows.Scan(&c.Time, &c.Open, &c.High, &c.Low, &c.Close, &c.Volume); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// RecentTrades returns up to limit trades for symbol, oldest first.
func (j *SQLite) RecentTrades(ctx context.Context, symbol string, limit int) ([]market.Trade, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT time, price, quantity, side
		FROM (
			SELECT * FROM trades WHERE symbol = ? ORDER BY time DESC, id DESC LIMIT ?
		) ORDER BY time ASC, id ASC`,
		symbol, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []market.Trade
	for rows.Next() {
		var t market.Trade
		if err := rows.Scan(&t.Time, &t.Price, &t.Quantity, &t.Side); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (j *SQLite) Close() error {
	return j.db.Close()
}
