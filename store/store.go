// Package store keeps bounded, time-ordered market data per symbol.
//
// Writes come from the stream dispatch path only; reads hand out copies
// so analytics never observe a buffer mid-update.
package store

import (
	"sort"
	"sync"

	"github.com/ahmadakra1997/tradecore/market"
)

// Buffer bounds when Options leaves them zero.
const (
	DefaultMaxCandles = 1000
	DefaultMaxTrades  = 500
)

// Options bounds the per-symbol buffers.
type Options struct {
	MaxCandles int
	MaxTrades  int
}

func (o Options) withDefaults() Options {
	if o.MaxCandles <= 0 {
		o.MaxCandles = DefaultMaxCandles
	}
	if o.MaxTrades <= 0 {
		o.MaxTrades = DefaultMaxTrades
	}
	return o
}

type series struct {
	candles   []market.Candle
	trades    []market.Trade
	snapshot  *market.Snapshot
	lastPrice float64
	hasPrice  bool
}

// Rolling owns the mutable market state shared between the stream and
// the analytics callers.
type Rolling struct {
	mu   sync.RWMutex
	opts Options
	data map[string]*series
}

// New returns an empty store. Zero options select defaults.
func New(opts Options) *Rolling {
	return &Rolling{opts: opts.withDefaults(), data: make(map[string]*series)}
}

func (r *Rolling) get(symbol string) *series {
	s, ok := r.data[symbol]
	if !ok {
		s = &series{}
		r.data[symbol] = s
	}
	return s
}

// ApplyCandle appends a candle for symbol, replacing the last entry when
// the timestamps match (a live bar updating in place). The oldest candle
// is evicted once the buffer is full.
func (r *Rolling) ApplyCandle(symbol string, c market.Candle) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := r.get(symbol)
	if n := len(s.candles); n > 0 && s.candles[n-1].Time == c.Time {
		s.candles[n-1] = c
	} else {
		s.candles = append(s.candles, c)
		if len(s.candles) > r.opts.MaxCandles {
			s.candles = s.candles[1:]
		}
	}
	s.lastPrice, s.hasPrice = c.Close, true
}

// SeedCandles replaces the candle buffer for symbol, typically with a
// history backfill. Input is sorted by time and truncated to the newest
// MaxCandles entries.
func (r *Rolling) SeedCandles(symbol string, candles []market.Candle) {
	sorted := make([]market.Candle, len(candles))
	copy(sorted, candles)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Time < sorted[j].Time })

	r.mu.Lock()
	defer r.mu.Unlock()

	if len(sorted) > r.opts.MaxCandles {
		sorted = sorted[len(sorted)-r.opts.MaxCandles:]
	}
	s := r.get(symbol)
	s.candles = sorted
	if n := len(sorted); n > 0 {
		s.lastPrice, s.hasPrice = sorted[n-1].Close, true
	}
}

// ApplyTrade appends a trade for symbol, evicting the oldest on overflow.
func (r *Rolling) ApplyTrade(symbol string, t market.Trade) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := r.get(symbol)
	s.trades = append(s.trades, t)
	if len(s.trades) > r.opts.MaxTrades {
		s.trades = s.trades[1:]
	}
	if t.Price > 0 {
		s.lastPrice, s.hasPrice = t.Price, true
	}
}

// ApplySnapshot stores the latest order book for its symbol.
func (r *Rolling) ApplySnapshot(snap market.Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.get(snap.Symbol).snapshot = &snap
}

// Candles returns a copy of the candle buffer for symbol.
func (r *Rolling) Candles(symbol string) []market.Candle {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.data[symbol]
	if !ok {
		return nil
	}
	out := make([]market.Candle, len(s.candles))
	copy(out, s.candles)
	return out
}

// Trades returns a copy of the trade buffer for symbol.
func (r *Rolling) Trades(symbol string) []market.Trade {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.data[symbol]
	if !ok {
		return nil
	}
	out := make([]market.Trade, len(s.trades))
	copy(out, s.trades)
	return out
}

// Snapshot returns the latest order book for symbol, if one was seen.
func (r *Rolling) Snapshot(symbol string) (market.Snapshot, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.data[symbol]
	if !ok || s.snapshot == nil {
		return market.Snapshot{}, false
	}
	snap := *s.snapshot
	snap.Bids = append([]market.Level(nil), s.snapshot.Bids...)
	snap.Asks = append([]market.Level(nil), s.snapshot.Asks...)
	return snap, true
}

// LastPrice returns the most recent price seen for symbol from any
// candle or trade.
func (r *Rolling) LastPrice(symbol string) (float64, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.data[symbol]
	if !ok || !s.hasPrice {
		return 0, false
	}
	return s.lastPrice, true
}

// Prices returns the last price per symbol, shaped for the risk engine.
func (r *Rolling) Prices() map[string]market.Quote {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]market.Quote, len(r.data))
	for sym, s := range r.data {
		if s.hasPrice {
			out[sym] = market.Quote{Price: s.lastPrice}
		}
	}
	return out
}

// Symbols lists every symbol with any stored data, sorted.
func (r *Rolling) Symbols() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.data))
	for sym := range r.data {
		out = append(out, sym)
	}
	sort.Strings(out)
	return out
}
