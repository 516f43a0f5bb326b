package indicators

import "github.com/ahmadakra1997/tradecore/market"

// RSI computes Wilder's relative strength index. The gain/loss
// averages are seeded with the plain mean of the first period deltas
// and smoothed with avg = (avg*(period-1) + new) / period afterwards.
// When the smoothed average loss is zero the output is exactly 100.
// Output values are always within [0, 100].
func RSI(candles []market.Candle, period int) Series {
	closes := market.Closes(candles)
	out := nilSeries(len(closes))
	if period <= 0 || len(closes) <= period {
		return out
	}

	gains := make([]float64, len(closes)-1)
	losses := make([]float64, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		diff := closes[i] - closes[i-1]
		if diff > 0 {
			gains[i-1] = diff
		} else {
			losses[i-1] = -diff
		}
	}

	var avgGain, avgLoss float64
	for i := 0; i < period; i++ {
		avgGain += gains[i]
		avgLoss += losses[i]
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)

	for i := period; i < len(gains); i++ {
		avgGain = (avgGain*float64(period-1) + gains[i]) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + losses[i]) / float64(period)

		if avgLoss == 0 {
			out[i+1] = Float(100)
		} else {
			out[i+1] = Float(100 - 100/(1+avgGain/avgLoss))
		}
	}
	return out
}
