package store

import (
	"testing"

	"github.com/ahmadakra1997/tradecore/market"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyCandleEvictsOldest(t *testing.T) {
	r := New(Options{MaxCandles: 3})
	for i := 1; i <= 5; i++ {
		r.ApplyCandle("BTCUSDT", market.Candle{Time: int64(i), Close: float64(i)})
	}

	candles := r.Candles("BTCUSDT")
	require.Len(t, candles, 3)
	assert.Equal(t, int64(3), candles[0].Time)
	assert.Equal(t, int64(5), candles[2].Time)
}

func TestApplyCandleReplacesLiveBar(t *testing.T) {
	r := New(Options{})
	r.ApplyCandle("BTCUSDT", market.Candle{Time: 100, Close: 10})
	r.ApplyCandle("BTCUSDT", market.Candle{Time: 100, Close: 12})
	r.ApplyCandle("BTCUSDT", market.Candle{Time: 160, Close: 11})

	candles := r.Candles("BTCUSDT")
	require.Len(t, candles, 2)
	assert.Equal(t, 12.0, candles[0].Close)

	price, ok := r.LastPrice("BTCUSDT")
	require.True(t, ok)
	assert.Equal(t, 11.0, price)
}

func TestCandlesReturnsCopy(t *testing.T) {
	r := New(Options{})
	r.ApplyCandle("ETHUSDT", market.Candle{Time: 1, Close: 2000})

	candles := r.Candles("ETHUSDT")
	candles[0].Close = 0

	assert.Equal(t, 2000.0, r.Candles("ETHUSDT")[0].Close)
}

func TestSeedCandlesSortsAndTruncates(t *testing.T) {
	r := New(Options{MaxCandles: 2})
	r.SeedCandles("BTCUSDT", []market.Candle{
		{Time: 3, Close: 30}, {Time: 1, Close: 10}, {Time: 2, Close: 20},
	})

	candles := r.Candles("BTCUSDT")
	require.Len(t, candles, 2)
	assert.Equal(t, int64(2), candles[0].Time)
	assert.Equal(t, int64(3), candles[1].Time)

	price, ok := r.LastPrice("BTCUSDT")
	require.True(t, ok)
	assert.Equal(t, 30.0, price)
}

func TestApplyTradeEvictsOldest(t *testing.T) {
	r := New(Options{MaxTrades: 2})
	r.ApplyTrade("BTCUSDT", market.Trade{Time: 1, Price: 100})
	r.ApplyTrade("BTCUSDT", market.Trade{Time: 2, Price: 101})
	r.ApplyTrade("BTCUSDT", market.Trade{Time: 3, Price: 102})

	trades := r.Trades("BTCUSDT")
	require.Len(t, trades, 2)
	assert.Equal(t, int64(2), trades[0].Time)
}

func TestSnapshotRoundTrip(t *testing.T) {
	r := New(Options{})
	_, ok := r.Snapshot("BTCUSDT")
	assert.False(t, ok)

	r.ApplySnapshot(market.Snapshot{
		Symbol: "BTCUSDT",
		Bids:   []market.Level{{Price: 100, Quantity: 1}},
		Asks:   []market.Level{{Price: 101, Quantity: 2}},
	})

	snap, ok := r.Snapshot("BTCUSDT")
	require.True(t, ok)
	require.Len(t, snap.Bids, 1)

	// Mutating the returned snapshot must not touch the stored one.
	snap.Bids[0].Price = 0
	again, _ := r.Snapshot("BTCUSDT")
	assert.Equal(t, 100.0, again.Bids[0].Price)
}

func TestPrices(t *testing.T) {
	r := New(Options{})
	r.ApplyCandle("BTCUSDT", market.Candle{Time: 1, Close: 40000})
	r.ApplyTrade("ETHUSDT", market.Trade{Time: 1, Price: 2500})

	prices := r.Prices()
	assert.Equal(t, 40000.0, prices["BTCUSDT"].Price)
	assert.Equal(t, 2500.0, prices["ETHUSDT"].Price)
	assert.Equal(t, []string{"BTCUSDT", "ETHUSDT"}, r.Symbols())
}
