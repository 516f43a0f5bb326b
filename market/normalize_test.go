package market

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCandleTuple(t *testing.T) {
	c, ok := ParseCandle(json.RawMessage(`[1700000000, 100, 105, 99, 102, 34.5]`))
	require.True(t, ok)
	assert.Equal(t, Candle{Time: 1700000000, Open: 100, High: 105, Low: 99, Close: 102, Volume: 34.5}, c)
}

func TestParseCandleObjectAliases(t *testing.T) {
	long, ok := ParseCandle(json.RawMessage(`{"time":1700000000,"open":1,"high":2,"low":0.5,"close":1.5,"volume":10}`))
	require.True(t, ok)

	short, ok := ParseCandle(json.RawMessage(`{"t":1700000000,"o":1,"h":2,"l":0.5,"c":1.5,"v":10}`))
	require.True(t, ok)

	assert.Equal(t, long, short)
}

func TestParseCandleMillisecondTime(t *testing.T) {
	c, ok := ParseCandle(json.RawMessage(`[1700000000123, 1, 2, 0.5, 1.5, 0]`))
	require.True(t, ok)
	assert.Equal(t, int64(1700000000), c.Time)
}

func TestParseCandleDropsIncomplete(t *testing.T) {
	cases := []string{
		`[1700000000, 100, 105, 99]`,              // too short
		`{"time":1700000000,"open":1,"high":2}`,   // missing close/low
		`{"time":"bad","o":1,"h":2,"l":1,"c":1}`,  // unparseable time
		`"not a candle"`,                          // wrong shape entirely
	}
	for _, tc := range cases {
		_, ok := ParseCandle(json.RawMessage(tc))
		assert.False(t, ok, "expected drop for %s", tc)
	}
}

func TestParseCandleIdempotent(t *testing.T) {
	canonical := Candle{Time: 1700000000, Open: 1, High: 2, Low: 0.5, Close: 1.5, Volume: 3}
	data, err := json.Marshal(canonical)
	require.NoError(t, err)

	again, ok := ParseCandle(data)
	require.True(t, ok)
	assert.Equal(t, canonical, again)
}

func TestParseCandleMissingVolumeDefaultsZero(t *testing.T) {
	c, ok := ParseCandle(json.RawMessage(`[1700000000, 1, 2, 0.5, 1.5]`))
	require.True(t, ok)
	assert.Zero(t, c.Volume)
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Level
		ok   bool
	}{
		{"tuple", `[100.5, 3]`, Level{Price: 100.5, Quantity: 3}, true},
		{"object", `{"price":100.5,"quantity":3}`, Level{Price: 100.5, Quantity: 3}, true},
		{"size alias", `{"price":100.5,"size":3}`, Level{Price: 100.5, Quantity: 3}, true},
		{"amount alias", `{"price":100.5,"amount":3}`, Level{Price: 100.5, Quantity: 3}, true},
		{"string numbers", `["27123.40", "1,250.5"]`, Level{Price: 27123.40, Quantity: 1250.5}, true},
		{"zero price", `[0, 3]`, Level{}, false},
		{"negative quantity", `[100, -1]`, Level{}, false},
		{"missing quantity", `{"price":100.5}`, Level{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseLevel(json.RawMessage(tt.raw))
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestParseSnapshot(t *testing.T) {
	raw := json.RawMessage(`{
		"symbol": "BTCUSDT",
		"bids": [[100, 1], [99, 2], ["bad", 1]],
		"asks": [[101, 1.5]],
		"timestamp": 1700000000000
	}`)
	snap, ok := ParseSnapshot(raw)
	require.True(t, ok)
	assert.Equal(t, "BTCUSDT", snap.Symbol)
	assert.Len(t, snap.Bids, 2)
	assert.Len(t, snap.Asks, 1)
	assert.Equal(t, int64(1700000000), snap.Timestamp)
}

func TestParseSnapshotBuySellAliases(t *testing.T) {
	raw := json.RawMessage(`{"symbol":"X","buy":[[100,1]],"sell":[[101,1]]}`)
	snap, ok := ParseSnapshot(raw)
	require.True(t, ok)
	assert.Len(t, snap.Bids, 1)
	assert.Len(t, snap.Asks, 1)
}

func TestParseTrade(t *testing.T) {
	tr, ok := ParseTrade(json.RawMessage(`{"time":1700000000,"price":101.5,"qty":0.25,"side":"SELL"}`))
	require.True(t, ok)
	assert.Equal(t, Trade{Time: 1700000000, Price: 101.5, Quantity: 0.25, Side: Sell}, tr)

	_, ok = ParseTrade(json.RawMessage(`{"time":1700000000,"side":"buy"}`))
	assert.False(t, ok)
}

func TestQuoteUnmarshal(t *testing.T) {
	var q Quote
	require.NoError(t, json.Unmarshal([]byte(`42.5`), &q))
	assert.Equal(t, 42.5, q.Price)

	require.NoError(t, json.Unmarshal([]byte(`{"last": 43}`), &q))
	assert.Equal(t, 43.0, q.Price)

	require.NoError(t, json.Unmarshal([]byte(`{"close": 44}`), &q))
	assert.Equal(t, 44.0, q.Price)
}
