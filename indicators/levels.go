package indicators

import (
	"math"
	"sort"

	"github.com/ahmadakra1997/tradecore/market"
)

// PriceLevels holds pivot-derived support and resistance prices.
// Resistance is sorted descending, support ascending.
type PriceLevels struct {
	Resistance []float64 `json:"resistance"`
	Support    []float64 `json:"support"`
}

// SupportResistance finds pivot highs/lows: a bar is a pivot when it is
// the max/min among window bars on both sides. Levels are rounded to 4
// decimals, de-duplicated, sorted and capped to maxLevels per side.
func SupportResistance(candles []market.Candle, window, maxLevels int) PriceLevels {
	levels := PriceLevels{Resistance: []float64{}, Support: []float64{}}
	if window <= 0 || maxLevels <= 0 || len(candles) < 2*window+1 {
		return levels
	}

	var pivotHighs, pivotLows []float64
	for i := window; i < len(candles)-window; i++ {
		isHigh, isLow := true, true
		for j := i - window; j <= i+window; j++ {
			if j == i {
				continue
			}
			if candles[j].High > candles[i].High {
				isHigh = false
			}
			if candles[j].Low < candles[i].Low {
				isLow = false
			}
		}
		if isHigh {
			pivotHighs = append(pivotHighs, candles[i].High)
		}
		if isLow {
			pivotLows = append(pivotLows, candles[i].Low)
		}
	}

	levels.Resistance = dedupeSorted(pivotHighs, maxLevels, true)
	levels.Support = dedupeSorted(pivotLows, maxLevels, false)
	return levels
}

func dedupeSorted(prices []float64, maxLevels int, descending bool) []float64 {
	seen := make(map[float64]struct{}, len(prices))
	out := make([]float64, 0, len(prices))
	for _, p := range prices {
		rounded := math.Round(p*1e4) / 1e4
		if _, dup := seen[rounded]; dup {
			continue
		}
		seen[rounded] = struct{}{}
		out = append(out, rounded)
	}

	sort.Float64s(out)
	if descending {
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	if len(out) > maxLevels {
		out = out[:maxLevels]
	}
	return out
}
