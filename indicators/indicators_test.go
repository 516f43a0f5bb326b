package indicators

import (
	"testing"

	"github.com/ahmadakra1997/tradecore/market"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func candlesFromCloses(closes ...float64) []market.Candle {
	out := make([]market.Candle, len(closes))
	for i, c := range closes {
		out[i] = market.Candle{Time: int64(1700000000 + 60*i), Open: c, High: c, Low: c, Close: c}
	}
	return out
}

func defined(s Series) []float64 {
	out := make([]float64, 0, len(s))
	for _, v := range s {
		if v != nil {
			out = append(out, *v)
		}
	}
	return out
}

func TestSMAFixture(t *testing.T) {
	sma := SMA(candlesFromCloses(1, 2, 3, 4, 5), 3)

	require.Len(t, sma, 5)
	assert.Nil(t, sma[0])
	assert.Nil(t, sma[1])
	assert.Equal(t, 2.0, *sma[2])
	assert.Equal(t, 3.0, *sma[3])
	assert.Equal(t, 4.0, *sma[4])
}

func TestEMASeededWithSMA(t *testing.T) {
	// k = 2/(3+1) = 0.5; seed at index 2 with SMA(1,2,3)=2.
	ema := EMA(candlesFromCloses(1, 2, 3, 4, 5), 3)

	require.Len(t, ema, 5)
	assert.Nil(t, ema[0])
	assert.Nil(t, ema[1])
	assert.InDelta(t, 2.0, *ema[2], 1e-9)
	assert.InDelta(t, 3.0, *ema[3], 1e-9)
	assert.InDelta(t, 4.0, *ema[4], 1e-9)
}

func TestOutputLengthMatchesInput(t *testing.T) {
	candles := candlesFromCloses(5, 6, 7, 8, 9, 10, 9, 8, 7, 6)

	assert.Len(t, SMA(candles, 3), len(candles))
	assert.Len(t, EMA(candles, 3), len(candles))
	assert.Len(t, RSI(candles, 3), len(candles))
	assert.Len(t, ATR(candles, 3), len(candles))
	assert.Len(t, Volatility(candles, 3), len(candles))
	assert.Len(t, TrendStrength(candles, 3), len(candles))

	macd := MACD(candles, 2, 4, 2)
	assert.Len(t, macd.MACD, len(candles))
	assert.Len(t, macd.Signal, len(candles))
	assert.Len(t, macd.Histogram, len(candles))

	bands := Bollinger(candles, 3, 2)
	assert.Len(t, bands.Upper, len(candles))
	assert.Len(t, bands.Middle, len(candles))
	assert.Len(t, bands.Lower, len(candles))
}

func TestInsufficientDataReturnsAllNil(t *testing.T) {
	candles := candlesFromCloses(1, 2)

	for name, series := range map[string]Series{
		"sma":        SMA(candles, 5),
		"ema":        EMA(candles, 5),
		"rsi":        RSI(candles, 5),
		"atr":        ATR(candles, 5),
		"volatility": Volatility(candles, 5),
		"trend":      TrendStrength(candles, 5),
	} {
		require.Len(t, series, 2, name)
		assert.Empty(t, defined(series), name)
	}
}

func TestRSIBounds(t *testing.T) {
	candles := candlesFromCloses(44, 44.3, 44.1, 43.6, 44.3, 44.8, 45.1, 45.4, 45.8, 46.1, 45.9, 46.3, 46.8, 46.4, 46.2, 45.6, 46.2, 46.3)

	for _, v := range defined(RSI(candles, 14)) {
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 100.0)
	}
}

func TestRSIZeroLossIsExactlyHundred(t *testing.T) {
	// Constant closes produce zero gains and zero losses; the
	// documented behavior for avgLoss == 0 is RSI = 100.
	candles := candlesFromCloses(10, 10, 10, 10, 10, 10, 10, 10)
	rsi := RSI(candles, 3)

	values := defined(rsi)
	require.NotEmpty(t, values)
	for _, v := range values {
		assert.Equal(t, 100.0, v)
	}
}

func TestRSIWarmupIndex(t *testing.T) {
	candles := candlesFromCloses(1, 2, 3, 4, 5, 6, 7, 8)
	rsi := RSI(candles, 3)

	// First emitted value is at index period+1.
	assert.Nil(t, rsi[3])
	assert.NotNil(t, rsi[4])
}

func TestMACDSignalAlignment(t *testing.T) {
	candles := candlesFromCloses(1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12)
	macd := MACD(candles, 2, 4, 3)

	for i := range macd.Signal {
		if macd.Signal[i] != nil {
			assert.NotNil(t, macd.MACD[i], "signal defined where macd is not, index %d", i)
		}
		if macd.Histogram[i] != nil {
			require.NotNil(t, macd.MACD[i])
			require.NotNil(t, macd.Signal[i])
			assert.InDelta(t, *macd.MACD[i]-*macd.Signal[i], *macd.Histogram[i], 1e-9)
		}
	}

	// Signal warm-up counts only bars where the MACD line exists:
	// macd defined from index 3, signal from index 3+3-1 = 5.
	assert.Nil(t, macd.Signal[4])
	assert.NotNil(t, macd.Signal[5])
}

func TestBollingerConstantSeriesCollapses(t *testing.T) {
	candles := candlesFromCloses(50, 50, 50, 50, 50)
	bands := Bollinger(candles, 3, 2)

	for i := 2; i < len(candles); i++ {
		require.NotNil(t, bands.Middle[i])
		assert.Equal(t, 50.0, *bands.Upper[i])
		assert.Equal(t, 50.0, *bands.Middle[i])
		assert.Equal(t, 50.0, *bands.Lower[i])
	}
}

func TestATR(t *testing.T) {
	candles := []market.Candle{
		{High: 10, Low: 8, Close: 9},
		{High: 11, Low: 9, Close: 10},
		{High: 12, Low: 10, Close: 11},
	}
	atr := ATR(candles, 3)

	require.Len(t, atr, 3)
	assert.Nil(t, atr[0])
	assert.Nil(t, atr[1])
	assert.InDelta(t, 2.0, *atr[2], 1e-9)
}

func TestATRUsesPreviousCloseGaps(t *testing.T) {
	candles := []market.Candle{
		{High: 10, Low: 8, Close: 9},
		{High: 15, Low: 14, Close: 14}, // gap up: TR = |15-9| = 6
	}
	atr := ATR(candles, 1)

	assert.InDelta(t, 2.0, *atr[0], 1e-9)
	assert.InDelta(t, 6.0, *atr[1], 1e-9)
}

func TestVolatilityWarmup(t *testing.T) {
	candles := candlesFromCloses(100, 101, 102, 103, 104)
	vol := Volatility(candles, 3)

	assert.Nil(t, vol[2])
	assert.NotNil(t, vol[3])
	for _, v := range defined(vol) {
		assert.GreaterOrEqual(t, v, 0.0)
	}
}

func TestTrendStrengthLinearUptrend(t *testing.T) {
	candles := candlesFromCloses(1, 2, 3, 4, 5)
	trend := TrendStrength(candles, 5)

	require.NotNil(t, trend[4])
	// Slope 1, mean 3: 1/3 * 100.
	assert.InDelta(t, 33.333, *trend[4], 0.01)
}

func TestSupportResistancePivots(t *testing.T) {
	candles := []market.Candle{
		{High: 1, Low: 0.9},
		{High: 3, Low: 0.5},
		{High: 1, Low: 0.9},
		{High: 4, Low: 0.8},
		{High: 1, Low: 0.9},
	}
	levels := SupportResistance(candles, 1, 6)

	assert.Equal(t, []float64{4, 3}, levels.Resistance)
	assert.Equal(t, []float64{0.5, 0.8}, levels.Support)
}

func TestSupportResistanceCapsLevels(t *testing.T) {
	var candles []market.Candle
	for i := 0; i < 40; i++ {
		h, l := 1.0, 1.0
		if i%2 == 1 {
			h = 2 + float64(i)*0.01
			l = 0.5 - float64(i)*0.01
		}
		candles = append(candles, market.Candle{High: h, Low: l})
	}
	levels := SupportResistance(candles, 1, 3)

	assert.LessOrEqual(t, len(levels.Resistance), 3)
	assert.LessOrEqual(t, len(levels.Support), 3)
}

func TestAnalyzeVolumeSpikes(t *testing.T) {
	candles := []market.Candle{
		{Volume: 10}, {Volume: 10}, {Volume: 10}, {Volume: 100},
	}
	va := AnalyzeVolume(candles, 3, VolumeOptions{})

	require.Len(t, va.MA, 4)
	assert.InDelta(t, 10.0, *va.MA[2], 1e-9)
	require.Len(t, va.Spikes, 1)
	assert.Equal(t, 3, va.Spikes[0].Index)
	assert.InDelta(t, 2.5, va.Spikes[0].Ratio, 1e-9)
}

func TestComputeHonorsEnableSet(t *testing.T) {
	candles := candlesFromCloses(1, 2, 3, 4, 5, 6, 7, 8, 9, 10)
	bundle := Compute(candles, Enable{SMA: true, RSI: true}, Params{SMAPeriod: 3, RSIPeriod: 3})

	assert.NotNil(t, bundle.SMA)
	assert.NotNil(t, bundle.RSI)
	assert.Nil(t, bundle.EMA)
	assert.Nil(t, bundle.MACD)
	assert.Nil(t, bundle.Bollinger)
}

func TestSignalsRSIOverbought(t *testing.T) {
	// Monotone rises have zero losses, so RSI pins at 100.
	closes := make([]float64, 35)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}
	signals := Signals(candlesFromCloses(closes...))

	var found bool
	for _, s := range signals {
		if s.Type == "RSI" && s.Side == market.Sell {
			found = true
		}
	}
	assert.True(t, found, "expected RSI overbought signal, got %+v", signals)
}

func TestSignalsNeedHistory(t *testing.T) {
	assert.Empty(t, Signals(candlesFromCloses(1, 2, 3)))
}
