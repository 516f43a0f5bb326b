// Package risk scores leveraged positions against current prices.
package risk

import (
	"math"

	"github.com/ahmadakra1997/tradecore/market"
)

// Risk levels, ordered.
const (
	Low      = "low"
	Medium   = "medium"
	High     = "high"
	Critical = "critical"
)

// Thresholds tunes the advisory add-ons. Zero values select defaults.
type Thresholds struct {
	MaxSingleExposure float64 `json:"maxSingleExposure" yaml:"max_single_exposure" env:"RISK_MAX_SINGLE_EXPOSURE"`
	CriticalLeverage  float64 `json:"criticalLeverage" yaml:"critical_leverage" env:"RISK_CRITICAL_LEVERAGE"`
	HighLeverage      float64 `json:"highLeverage" yaml:"high_leverage" env:"RISK_HIGH_LEVERAGE"`
}

// DefaultThresholds returns the desk defaults.
func DefaultThresholds() Thresholds {
	return Thresholds{MaxSingleExposure: 0.35, CriticalLeverage: 25, HighLeverage: 10}
}

func (t Thresholds) withDefaults() Thresholds {
	d := DefaultThresholds()
	if t.MaxSingleExposure <= 0 {
		t.MaxSingleExposure = d.MaxSingleExposure
	}
	if t.CriticalLeverage <= 0 {
		t.CriticalLeverage = d.CriticalLeverage
	}
	if t.HighLeverage <= 0 {
		t.HighLeverage = d.HighLeverage
	}
	return t
}

// Assessment is the full risk readout for one position.
type Assessment struct {
	RiskScore           int      `json:"riskScore"`
	RiskLevel           string   `json:"riskLevel"`
	CurrentPrice        float64  `json:"currentPrice"`
	NotionalExposure    float64  `json:"notionalExposure"`
	ExposureRatio       float64  `json:"exposureRatio"`
	LiquidationPrice    float64  `json:"liquidationPrice"`
	LiquidationDistance float64  `json:"liquidationDistance"`
	UnrealizedPnl       float64  `json:"unrealizedPnl"`
	ROI                 float64  `json:"roi"`
	Recommendations     []string `json:"recommendations"`
}

func defaultAssessment() Assessment {
	return Assessment{RiskLevel: Low, Recommendations: []string{}}
}

// Analyze scores a position against the latest prices. It never fails:
// a nil or malformed position yields a zeroed low-risk assessment, and
// a symbol with no quote falls back to the entry price.
func Analyze(pos *market.Position, prices map[string]market.Quote, thresholds Thresholds) Assessment {
	if pos == nil || pos.EntryPrice <= 0 || pos.Size < 0 || pos.Leverage < 1 {
		return defaultAssessment()
	}
	t := thresholds.withDefaults()

	current := pos.EntryPrice
	if q, ok := prices[pos.Symbol]; ok && q.Price > 0 {
		current = q.Price
	}

	a := defaultAssessment()
	a.CurrentPrice = current
	a.NotionalExposure = pos.Size * current
	if pos.AccountEquity > 0 {
		a.ExposureRatio = a.NotionalExposure / pos.AccountEquity
	}

	a.LiquidationPrice = LiquidationPrice(pos.Side, pos.EntryPrice, pos.Leverage)
	if current > 0 {
		dist := (current - a.LiquidationPrice) / current * 100
		if pos.Side == market.Short {
			dist = (a.LiquidationPrice - current) / current * 100
		}
		a.LiquidationDistance = dist
	}

	dir := 1.0
	if pos.Side == market.Short {
		dir = -1
	}
	a.UnrealizedPnl = dir * (current - pos.EntryPrice) * pos.Size * pos.Leverage
	if basis := pos.EntryPrice * pos.Size; basis > 0 {
		a.ROI = a.UnrealizedPnl / basis * 100
	}

	a.RiskScore = score(pos.Leverage, a.ExposureRatio, a.LiquidationDistance)
	a.RiskLevel = level(a.RiskScore)
	a.Recommendations = recommend(a, pos.Leverage, t)
	return a
}

// LiquidationPrice estimates the price at which a cross-margin position
// is liquidated. Leverage at or below 1 cannot be liquidated by price
// movement alone, so the entry price is returned.
func LiquidationPrice(side string, entryPrice, leverage float64) float64 {
	if leverage <= 1 {
		return entryPrice
	}
	if side == market.Short {
		return entryPrice * (1 + 1/leverage)
	}
	return entryPrice * (1 - 1/leverage)
}

// score sums three bucketed factors. First matching tier wins per
// factor; the sum is clamped to 100.
func score(leverage, exposure, liqDistance float64) int {
	total := 0.0

	switch {
	case leverage <= 3:
		total += 10
	case leverage <= 5:
		total += 25
	case leverage <= 10:
		total += 45
	case leverage <= 20:
		total += 65
	default:
		total += 80
	}

	switch {
	case exposure <= 0.05:
		total += 5
	case exposure <= 0.15:
		total += 15
	case exposure <= 0.30:
		total += 25
	default:
		total += 35
	}

	switch {
	case liqDistance >= 40:
		total += 5
	case liqDistance >= 25:
		total += 15
	case liqDistance >= 15:
		total += 25
	default:
		total += 35
	}

	return int(math.Min(total, 100))
}

func level(score int) string {
	switch {
	case score >= 80:
		return Critical
	case score >= 60:
		return High
	case score >= 40:
		return Medium
	default:
		return Low
	}
}

func recommend(a Assessment, leverage float64, t Thresholds) []string {
	var out []string
	switch a.RiskLevel {
	case Critical:
		out = append(out,
			"Critical risk: reduce position size or leverage immediately",
			"Consider closing part of the position to free margin")
	case High:
		out = append(out,
			"High risk: tighten stops and consider reducing leverage")
	case Medium:
		out = append(out,
			"Moderate risk: keep stops in place and monitor the position")
	default:
		out = append(out, "Risk is within normal bounds")
	}

	if a.ExposureRatio > t.MaxSingleExposure {
		out = append(out, "Position exceeds the single-position exposure cap, rebalance")
	}
	if a.LiquidationDistance < 10 {
		out = append(out, "Liquidation price is less than 10% away, add margin or reduce size")
	}
	if leverage > t.CriticalLeverage {
		out = append(out, "Leverage is above the critical threshold")
	}
	return out
}
