package indicators

import "github.com/ahmadakra1997/tradecore/market"

// Signal is a lightweight trading hint derived from the latest bar.
type Signal struct {
	Type     string `json:"type"`     // "RSI", "MACD" or "BB"
	Side     string `json:"side"`     // market.Buy or market.Sell
	Strength string `json:"strength"` // "low", "medium" or "high"
	Message  string `json:"message"`
}

// minSignalBars is how much history signal generation needs before any
// of its component indicators is trustworthy.
const minSignalBars = 30

// Signals inspects the most recent bar and reports RSI extremes, MACD
// line crosses and Bollinger band breaks. With fewer than minSignalBars
// candles it returns no signals.
func Signals(candles []market.Candle) []Signal {
	if len(candles) < minSignalBars {
		return nil
	}

	rsi := RSI(candles, DefaultRSIPeriod)
	macd := MACD(candles, DefaultMACDFast, DefaultMACDSlow, DefaultMACDSignal)
	bands := Bollinger(candles, DefaultBollingerPeriod, DefaultBollingerMult)

	i := len(candles) - 1
	var signals []Signal

	if v, ok := rsi.At(i); ok {
		if v <= 30 {
			signals = append(signals, Signal{Type: "RSI", Side: market.Buy, Strength: "high", Message: "RSI oversold"})
		}
		if v >= 70 {
			signals = append(signals, Signal{Type: "RSI", Side: market.Sell, Strength: "high", Message: "RSI overbought"})
		}
	}

	macdNow, okM := macd.MACD.At(i)
	sigNow, okS := macd.Signal.At(i)
	macdPrev, okMP := macd.MACD.At(i - 1)
	sigPrev, okSP := macd.Signal.At(i - 1)
	if okM && okS && okMP && okSP {
		if macdPrev <= sigPrev && macdNow > sigNow {
			signals = append(signals, Signal{Type: "MACD", Side: market.Buy, Strength: "medium", Message: "MACD bullish cross"})
		}
		if macdPrev >= sigPrev && macdNow < sigNow {
			signals = append(signals, Signal{Type: "MACD", Side: market.Sell, Strength: "medium", Message: "MACD bearish cross"})
		}
	}

	last := candles[i].Close
	if upper, ok := bands.Upper.At(i); ok && last > upper {
		signals = append(signals, Signal{Type: "BB", Side: market.Sell, Strength: "low", Message: "Bollinger upper break"})
	}
	if lower, ok := bands.Lower.At(i); ok && last < lower {
		signals = append(signals, Signal{Type: "BB", Side: market.Buy, Strength: "low", Message: "Bollinger lower break"})
	}

	return signals
}
