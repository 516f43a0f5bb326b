package indicators

import "github.com/ahmadakra1997/tradecore/market"

// DefaultSpikeRatio tags a bar as a volume spike when its volume is at
// least this multiple of the moving average. Empirical threshold kept
// from the original system; override via VolumeOptions.
const DefaultSpikeRatio = 2.5

// VolumeSpike marks a bar whose volume stands out from the average.
type VolumeSpike struct {
	Index int     `json:"index"`
	Value float64 `json:"value"`
	Ratio float64 `json:"ratio"`
}

// VolumeAnalysis holds the volume moving average and detected spikes.
type VolumeAnalysis struct {
	MA     Series        `json:"volumeMA"`
	Spikes []VolumeSpike `json:"spikes"`
}

// VolumeOptions tunes AnalyzeVolume. Zero values select defaults.
type VolumeOptions struct {
	SpikeRatio float64
}

// AnalyzeVolume computes the moving average of volume over period and
// flags spike bars.
func AnalyzeVolume(candles []market.Candle, period int, opts VolumeOptions) VolumeAnalysis {
	ratio := opts.SpikeRatio
	if ratio <= 0 {
		ratio = DefaultSpikeRatio
	}

	out := VolumeAnalysis{MA: nilSeries(len(candles)), Spikes: []VolumeSpike{}}
	if period <= 0 || len(candles) < period {
		return out
	}

	sum := 0.0
	for i, c := range candles {
		sum += c.Volume
		if i >= period {
			sum -= candles[i-period].Volume
		}
		if i < period-1 {
			continue
		}
		ma := sum / float64(period)
		out.MA[i] = Float(ma)
		if ma > 0 && c.Volume/ma >= ratio {
			out.Spikes = append(out.Spikes, VolumeSpike{Index: i, Value: c.Volume, Ratio: c.Volume / ma})
		}
	}
	return out
}
