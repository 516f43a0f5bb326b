// Package journal persists the market data seen on the stream so
// sessions can be replayed or inspected after the fact.
package journal

import (
	"context"

	"github.com/ahmadakra1997/tradecore/market"
)

// Journal records normalized market data.
type Journal interface {
	RecordCandle(symbol string, c market.Candle) error
	RecordTrade(symbol string, t market.Trade) error
	RecentCandles(ctx context.Context, symbol string, limit int) ([]market.Candle, error)
	RecentTrades(ctx context.Context, symbol string, limit int) ([]market.Trade, error)
	Close() error
}

// Nop discards everything; used when journaling is disabled.
type Nop struct{}

func (Nop) RecordCandle(string, market.Candle) error { return nil }
func (Nop) RecordTrade(string, market.Trade) error   { return nil }
func (Nop) RecentCandles(context.Context, string, int) ([]market.Candle, error) {
	return nil, nil
}
func (Nop) RecentTrades(context.Context, string, int) ([]market.Trade, error) {
	return nil, nil
}
func (Nop) Close() error { return nil }
