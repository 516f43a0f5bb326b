// Package market defines the canonical data model shared by the
// streaming transport, the rolling store and the analytics engines,
// together with the wire-shape normalization that produces it.
package market

// Candle represents OHLCV data for one fixed time bucket.
// Time is unix seconds; sequences are sorted ascending by Time.
type Candle struct {
	Time   int64   `json:"time"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume float64 `json:"volume"`
}

// Trade side values.
const (
	Buy  = "buy"
	Sell = "sell"
)

// Trade is a single executed trade.
type Trade struct {
	Time     int64   `json:"time"`
	Price    float64 `json:"price"`
	Quantity float64 `json:"quantity"`
	Side     string  `json:"side"` // "buy" or "sell"
}

// Closes extracts the close series from candles.
func Closes(candles []Candle) []float64 {
	out := make([]float64, len(candles))
	for i, c := range candles {
		out[i] = c.Close
	}
	return out
}
