package indicators

import "github.com/ahmadakra1997/tradecore/market"

// MACDResult holds the three MACD series, each aligned with the input.
type MACDResult struct {
	MACD      Series `json:"macdLine"`
	Signal    Series `json:"signalLine"`
	Histogram Series `json:"histogram"`
}

// MACD computes the moving average convergence/divergence. The MACD
// line is EMA(fast) - EMA(slow) wherever both are defined. The signal
// line is the EMA of the compacted (nil-free) MACD sequence, re-expanded
// back to the original index positions, so its warm-up counts only bars
// where the MACD line exists.
func MACD(candles []market.Candle, fast, slow, signal int) MACDResult {
	closes := market.Closes(candles)
	fastEMA := emaSeries(closes, fast)
	slowEMA := emaSeries(closes, slow)

	macd := nilSeries(len(closes))
	for i := range closes {
		if fastEMA[i] != nil && slowEMA[i] != nil {
			macd[i] = Float(*fastEMA[i] - *slowEMA[i])
		}
	}

	signalCompact := emaSeries(compact(macd), signal)
	signalFull := nilSeries(len(macd))
	k := 0
	for i := range macd {
		if macd[i] == nil {
			continue
		}
		if k < len(signalCompact) && signalCompact[k] != nil {
			signalFull[i] = Float(*signalCompact[k])
		}
		k++
	}

	histogram := nilSeries(len(macd))
	for i := range macd {
		if macd[i] != nil && signalFull[i] != nil {
			histogram[i] = Float(*macd[i] - *signalFull[i])
		}
	}

	return MACDResult{MACD: macd, Signal: signalFull, Histogram: histogram}
}
