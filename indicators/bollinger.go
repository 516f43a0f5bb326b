package indicators

import (
	"math"

	"github.com/ahmadakra1997/tradecore/market"
)

// BollingerBands holds the three band series, aligned with the input.
type BollingerBands struct {
	Upper  Series `json:"upperBand"`
	Middle Series `json:"middleBand"`
	Lower  Series `json:"lowerBand"`
}

// Bollinger computes Bollinger bands: the middle band is SMA(period),
// the outer bands are multiplier population standard deviations of the
// same trailing window away from it.
func Bollinger(candles []market.Candle, period int, multiplier float64) BollingerBands {
	closes := market.Closes(candles)
	middle := smaSeries(closes, period)
	upper := nilSeries(len(closes))
	lower := nilSeries(len(closes))

	if period <= 0 || len(closes) < period {
		return BollingerBands{Upper: upper, Middle: middle, Lower: lower}
	}

	for i := period - 1; i < len(closes); i++ {
		mean := *middle[i]
		variance := 0.0
		for _, v := range closes[i-period+1 : i+1] {
			variance += (v - mean) * (v - mean)
		}
		std := math.Sqrt(variance / float64(period))

		upper[i] = Float(mean + multiplier*std)
		lower[i] = Float(mean - multiplier*std)
	}
	return BollingerBands{Upper: upper, Middle: middle, Lower: lower}
}
