package indicators

import (
	"math"

	"github.com/ahmadakra1997/tradecore/market"
)

// ATR computes the average true range: the SMA over period of the true
// range max(high-low, |high-prevClose|, |low-prevClose|). The first bar
// has no previous close and uses high-low.
func ATR(candles []market.Candle, period int) Series {
	tr := make([]float64, len(candles))
	for i, c := range candles {
		if i == 0 {
			tr[i] = c.High - c.Low
			continue
		}
		prevClose := candles[i-1].Close
		tr[i] = math.Max(c.High-c.Low,
			math.Max(math.Abs(c.High-prevClose), math.Abs(c.Low-prevClose)))
	}
	return smaSeries(tr, period)
}
