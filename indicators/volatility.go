package indicators

import (
	"math"

	"github.com/ahmadakra1997/tradecore/market"
)

// Volatility computes the population standard deviation of simple
// percentage returns over the trailing window, scaled by 100. The
// first defined index is period, since a return needs two closes.
func Volatility(candles []market.Candle, period int) Series {
	closes := market.Closes(candles)
	out := nilSeries(len(closes))
	if period <= 0 || len(closes) < period+1 {
		return out
	}

	returns := make([]float64, len(closes))
	for i := 1; i < len(closes); i++ {
		returns[i] = (closes[i] - closes[i-1]) / closes[i-1]
	}

	for i := period; i < len(closes); i++ {
		window := returns[i-period+1 : i+1]

		mean := 0.0
		for _, r := range window {
			mean += r
		}
		mean /= float64(len(window))

		variance := 0.0
		for _, r := range window {
			variance += (r - mean) * (r - mean)
		}
		variance /= float64(len(window))

		out[i] = Float(math.Sqrt(variance) * 100)
	}
	return out
}

// TrendStrength computes the ordinary-least-squares slope of close
// price against bar index over the trailing window, normalized by the
// window's mean price and scaled by 100. Positive values indicate an
// uptrend; magnitude reflects steepness relative to price.
func TrendStrength(candles []market.Candle, period int) Series {
	closes := market.Closes(candles)
	out := nilSeries(len(closes))
	if period <= 0 || len(closes) < period {
		return out
	}

	xMean := float64(period+1) / 2

	for i := period - 1; i < len(closes); i++ {
		window := closes[i-period+1 : i+1]

		yMean := 0.0
		for _, y := range window {
			yMean += y
		}
		yMean /= float64(period)

		var num, den float64
		for k, y := range window {
			dx := float64(k+1) - xMean
			num += dx * (y - yMean)
			den += dx * dx
		}

		slope := 0.0
		if den != 0 {
			slope = num / den
		}
		if yMean != 0 {
			out[i] = Float(slope / yMean * 100)
		} else {
			out[i] = Float(0)
		}
	}
	return out
}
