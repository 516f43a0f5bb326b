// Package orderbook derives liquidity metrics from depth snapshots.
package orderbook

import (
	"sort"

	"github.com/ahmadakra1997/tradecore/market"
)

// Empirical thresholds carried over from the trading desk defaults.
// All of them are overridable through Options.
const (
	DefaultMaxDepth    = 50
	DefaultWallRatio   = 2.0
	DefaultNearBandPct = 0.2
	DefaultFarBandPct  = 1.0

	strongImbalance = 0.3
	weakImbalance   = 0.1
)

// Imbalance labels, from heavy bid pressure to heavy ask pressure.
const (
	StrongBullish = "strong-bullish"
	Bullish       = "bullish"
	Neutral       = "neutral"
	Bearish       = "bearish"
	StrongBearish = "strong-bearish"
)

// Wall kinds.
const (
	SupportWall    = "support-wall"
	ResistanceWall = "resistance-wall"
)

// Options tunes the analyzer. Zero values select defaults.
type Options struct {
	MaxDepth    int
	WallRatio   float64
	NearBandPct float64
	FarBandPct  float64
}

func (o Options) withDefaults() Options {
	if o.MaxDepth <= 0 {
		o.MaxDepth = DefaultMaxDepth
	}
	if o.WallRatio <= 0 {
		o.WallRatio = DefaultWallRatio
	}
	if o.NearBandPct <= 0 {
		o.NearBandPct = DefaultNearBandPct
	}
	if o.FarBandPct <= 0 {
		o.FarBandPct = DefaultFarBandPct
	}
	return o
}

// DepthLevel is a book level with its running volume from the top.
type DepthLevel struct {
	Price      float64 `json:"price"`
	Quantity   float64 `json:"quantity"`
	Cumulative float64 `json:"cumulative"`
}

// Wall is a level holding an outsized resting order.
type Wall struct {
	Price    float64 `json:"price"`
	Quantity float64 `json:"quantity"`
	Kind     string  `json:"kind"`
}

// Band sums the resting volume per side within a distance-from-mid band.
type Band struct {
	BidVolume float64 `json:"bidVolume"`
	AskVolume float64 `json:"askVolume"`
}

// Metrics is the analyzer output for one snapshot.
type Metrics struct {
	Symbol         string       `json:"symbol"`
	BestBid        float64      `json:"bestBid"`
	BestAsk        float64      `json:"bestAsk"`
	Mid            float64      `json:"mid"`
	Spread         float64      `json:"spread"`
	SpreadPercent  float64      `json:"spreadPercent"`
	Bids           []DepthLevel `json:"bids"`
	Asks           []DepthLevel `json:"asks"`
	BidVolume      float64      `json:"bidVolume"`
	AskVolume      float64      `json:"askVolume"`
	Imbalance      float64      `json:"imbalance"`
	ImbalanceLabel string       `json:"imbalanceLabel"`
	Walls          []Wall       `json:"walls"`
	Near           Band         `json:"near"`
	Far            Band         `json:"far"`
}

// Analyze computes spread, depth, imbalance, walls and liquidity bands
// for a snapshot. It returns nil when either side is empty, since no
// meaningful mid or spread exists without both.
func Analyze(snap market.Snapshot, opts Options) *Metrics {
	o := opts.withDefaults()
	if len(snap.Bids) == 0 || len(snap.Asks) == 0 {
		return nil
	}

	bids := sortSide(snap.Bids, true, o.MaxDepth)
	asks := sortSide(snap.Asks, false, o.MaxDepth)

	m := &Metrics{
		Symbol:  snap.Symbol,
		BestBid: bids[0].Price,
		BestAsk: asks[0].Price,
		Walls:   []Wall{},
	}
	m.Mid = (m.BestBid + m.BestAsk) / 2
	m.Spread = m.BestAsk - m.BestBid
	if m.Mid > 0 {
		m.SpreadPercent = m.Spread / m.Mid * 100
	}

	m.Bids, m.BidVolume = cumulate(bids)
	m.Asks, m.AskVolume = cumulate(asks)

	if total := m.BidVolume + m.AskVolume; total > 0 {
		m.Imbalance = (m.BidVolume - m.AskVolume) / total
	}
	m.ImbalanceLabel = labelImbalance(m.Imbalance)

	avg := (m.BidVolume + m.AskVolume) / float64(len(bids)+len(asks))
	for _, l := range bids {
		if avg > 0 && l.Quantity >= o.WallRatio*avg {
			m.Walls = append(m.Walls, Wall{Price: l.Price, Quantity: l.Quantity, Kind: SupportWall})
		}
	}
	for _, l := range asks {
		if avg > 0 && l.Quantity >= o.WallRatio*avg {
			m.Walls = append(m.Walls, Wall{Price: l.Price, Quantity: l.Quantity, Kind: ResistanceWall})
		}
	}

	m.Near, m.Far = bandVolumes(bids, asks, m.Mid, o)
	return m
}

func sortSide(levels []market.Level, descending bool, maxDepth int) []market.Level {
	out := make([]market.Level, len(levels))
	copy(out, levels)
	sort.Slice(out, func(i, j int) bool {
		if descending {
			return out[i].Price > out[j].Price
		}
		return out[i].Price < out[j].Price
	})
	if len(out) > maxDepth {
		out = out[:maxDepth]
	}
	return out
}

func cumulate(levels []market.Level) ([]DepthLevel, float64) {
	out := make([]DepthLevel, len(levels))
	sum := 0.0
	for i, l := range levels {
		sum += l.Quantity
		out[i] = DepthLevel{Price: l.Price, Quantity: l.Quantity, Cumulative: sum}
	}
	return out, sum
}

func labelImbalance(v float64) string {
	switch {
	case v > strongImbalance:
		return StrongBullish
	case v > weakImbalance:
		return Bullish
	case v < -strongImbalance:
		return StrongBearish
	case v < -weakImbalance:
		return Bearish
	default:
		return Neutral
	}
}

func bandVolumes(bids, asks []market.Level, mid float64, o Options) (near, far Band) {
	if mid <= 0 {
		return near, far
	}
	for _, l := range bids {
		switch pct := (mid - l.Price) / mid * 100; {
		case pct <= o.NearBandPct:
			near.BidVolume += l.Quantity
		case pct <= o.FarBandPct:
			far.BidVolume += l.Quantity
		}
	}
	for _, l := range asks {
		switch pct := (l.Price - mid) / mid * 100; {
		case pct <= o.NearBandPct:
			near.AskVolume += l.Quantity
		case pct <= o.FarBandPct:
			far.AskVolume += l.Quantity
		}
	}
	return near, far
}
