// Package indicators provides technical analysis functions over candle
// series: moving averages, momentum, volatility, band and pivot levels,
// and volume analysis. Every function returns a series aligned 1:1 with
// its input; entries before an indicator's warm-up are nil, and a call
// with fewer candles than the minimum requirement yields an all-nil
// series of the same length rather than an error.
package indicators

// Series is an indicator output aligned with the input candle series.
// A nil entry means the value is not defined yet (warm-up), which
// marshals to JSON null for chart consumers.
type Series []*float64

// Float boxes a value for inclusion in a Series.
func Float(v float64) *float64 {
	return &v
}

// At returns the value at index i and whether it is defined.
func (s Series) At(i int) (float64, bool) {
	if i < 0 || i >= len(s) || s[i] == nil {
		return 0, false
	}
	return *s[i], true
}

// Last returns the final defined value of the series.
func (s Series) Last() (float64, bool) {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] != nil {
			return *s[i], true
		}
	}
	return 0, false
}

func nilSeries(n int) Series {
	return make(Series, n)
}

func compact(s Series) []float64 {
	out := make([]float64, 0, len(s))
	for _, v := range s {
		if v != nil {
			out = append(out, *v)
		}
	}
	return out
}
