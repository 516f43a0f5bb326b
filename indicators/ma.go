package indicators

import "github.com/ahmadakra1997/tradecore/market"

// SMA computes the simple moving average of closes over period.
func SMA(candles []market.Candle, period int) Series {
	return smaSeries(market.Closes(candles), period)
}

// EMA computes the exponential moving average of closes over period,
// seeded at index period-1 with the SMA of the first period values.
func EMA(candles []market.Candle, period int) Series {
	return emaSeries(market.Closes(candles), period)
}

// EMASeries is the EMA primitive over a raw numeric series. MACD uses
// it to smooth its own output.
func EMASeries(values []float64, period int) Series {
	return emaSeries(values, period)
}

func smaSeries(values []float64, period int) Series {
	out := nilSeries(len(values))
	if period <= 0 || len(values) < period {
		return out
	}

	sum := 0.0
	for i, v := range values {
		sum += v
		if i >= period {
			sum -= values[i-period]
		}
		if i >= period-1 {
			out[i] = Float(sum / float64(period))
		}
	}
	return out
}

func emaSeries(values []float64, period int) Series {
	out := nilSeries(len(values))
	if period <= 0 || len(values) < period {
		return out
	}

	k := 2.0 / float64(period+1)
	var ema float64

	for i, v := range values {
		if i < period-1 {
			continue
		}
		if i == period-1 {
			sum := 0.0
			for _, seed := range values[:period] {
				sum += seed
			}
			ema = sum / float64(period)
		} else {
			ema = v*k + ema*(1-k)
		}
		out[i] = Float(ema)
	}
	return out
}
