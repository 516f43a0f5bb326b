package indicators

import "github.com/ahmadakra1997/tradecore/market"

// Default periods, matching the dashboard's chart presets.
const (
	DefaultSMAPeriod       = 14
	DefaultEMAPeriod       = 14
	DefaultRSIPeriod       = 14
	DefaultMACDFast        = 12
	DefaultMACDSlow        = 26
	DefaultMACDSignal      = 9
	DefaultBollingerPeriod = 20
	DefaultBollingerMult   = 2.0
)

// Enable selects which indicators Compute should produce.
type Enable struct {
	SMA       bool
	EMA       bool
	RSI       bool
	MACD      bool
	Bollinger bool
}

// EnableAll selects every indicator Compute knows about.
func EnableAll() Enable {
	return Enable{SMA: true, EMA: true, RSI: true, MACD: true, Bollinger: true}
}

// Params overrides the default periods. Zero values select defaults.
type Params struct {
	SMAPeriod       int
	EMAPeriod       int
	RSIPeriod       int
	MACDFast        int
	MACDSlow        int
	MACDSignal      int
	BollingerPeriod int
	BollingerMult   float64
}

func (p Params) withDefaults() Params {
	if p.SMAPeriod <= 0 {
		p.SMAPeriod = DefaultSMAPeriod
	}
	if p.EMAPeriod <= 0 {
		p.EMAPeriod = DefaultEMAPeriod
	}
	if p.RSIPeriod <= 0 {
		p.RSIPeriod = DefaultRSIPeriod
	}
	if p.MACDFast <= 0 {
		p.MACDFast = DefaultMACDFast
	}
	if p.MACDSlow <= 0 {
		p.MACDSlow = DefaultMACDSlow
	}
	if p.MACDSignal <= 0 {
		p.MACDSignal = DefaultMACDSignal
	}
	if p.BollingerPeriod <= 0 {
		p.BollingerPeriod = DefaultBollingerPeriod
	}
	if p.BollingerMult <= 0 {
		p.BollingerMult = DefaultBollingerMult
	}
	return p
}

// Bundle is the result of one Compute call. Only the enabled
// indicators are populated; the rest stay nil and marshal away.
type Bundle struct {
	SMA       Series          `json:"sma,omitempty"`
	EMA       Series          `json:"ema,omitempty"`
	RSI       Series          `json:"rsi,omitempty"`
	MACD      *MACDResult     `json:"macd,omitempty"`
	Bollinger *BollingerBands `json:"bollinger,omitempty"`
}

// Compute evaluates the enabled indicators over candles in one pass.
func Compute(candles []market.Candle, enabled Enable, params Params) Bundle {
	p := params.withDefaults()

	var out Bundle
	if enabled.SMA {
		out.SMA = SMA(candles, p.SMAPeriod)
	}
	if enabled.EMA {
		out.EMA = EMA(candles, p.EMAPeriod)
	}
	if enabled.RSI {
		out.RSI = RSI(candles, p.RSIPeriod)
	}
	if enabled.MACD {
		macd := MACD(candles, p.MACDFast, p.MACDSlow, p.MACDSignal)
		out.MACD = &macd
	}
	if enabled.Bollinger {
		bands := Bollinger(candles, p.BollingerPeriod, p.BollingerMult)
		out.Bollinger = &bands
	}
	return out
}
