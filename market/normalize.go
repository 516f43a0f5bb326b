package market

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// msThreshold separates millisecond from second timestamps. Values
// above it are treated as milliseconds and floor-divided to seconds;
// downstream consumers assume second resolution throughout.
const msThreshold = 1e12

// NormalizeTime converts a raw timestamp to unix seconds.
func NormalizeTime(t float64) int64 {
	if t > msThreshold {
		return int64(t / 1000)
	}
	return int64(t)
}

// wireNumber decodes a JSON number or a numeric string (exchange feeds
// send quantities as strings, occasionally with thousands separators).
type wireNumber struct {
	val float64
	ok  bool
}

func (w *wireNumber) UnmarshalJSON(data []byte) error {
	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		w.val, w.ok = f, !math.IsNaN(f) && !math.IsInf(f, 0)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
		f, err := strconv.ParseFloat(s, 64)
		if err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
			w.val, w.ok = f, true
		}
		return nil
	}
	// Unparseable shapes mark the field absent rather than failing the
	// whole record; the caller decides whether the field was required.
	return nil
}

func pick(values ...wireNumber) wireNumber {
	for _, v := range values {
		if v.ok {
			return v
		}
	}
	return wireNumber{}
}

// candleObject carries the accepted field aliases for object-shaped candles.
type candleObject struct {
	Time   wireNumber `json:"time"`
	T      wireNumber `json:"t"`
	Open   wireNumber `json:"open"`
	O      wireNumber `json:"o"`
	High   wireNumber `json:"high"`
	H      wireNumber `json:"h"`
	Low    wireNumber `json:"low"`
	L      wireNumber `json:"l"`
	Close  wireNumber `json:"close"`
	C      wireNumber `json:"c"`
	Volume wireNumber `json:"volume"`
	V      wireNumber `json:"v"`
}

// ParseCandle normalizes one wire-shaped candle: either the positional
// tuple [time,open,high,low,close,volume] or an object with aliased
// keys. It reports false when a required field is missing or
// non-finite, which means "drop this record".
func ParseCandle(raw json.RawMessage) (Candle, bool) {
	var tuple []wireNumber
	if err := json.Unmarshal(raw, &tuple); err == nil {
		if len(tuple) < 5 {
			return Candle{}, false
		}
		vol := wireNumber{}
		if len(tuple) > 5 {
			vol = tuple[5]
		}
		return assembleCandle(tuple[0], tuple[1], tuple[2], tuple[3], tuple[4], vol)
	}

	var obj candleObject
	if err := json.Unmarshal(raw, &obj); err != nil {
		return Candle{}, false
	}
	return assembleCandle(
		pick(obj.Time, obj.T),
		pick(obj.Open, obj.O),
		pick(obj.High, obj.H),
		pick(obj.Low, obj.L),
		pick(obj.Close, obj.C),
		pick(obj.Volume, obj.V),
	)
}

func assembleCandle(t, o, h, l, c, v wireNumber) (Candle, bool) {
	if !t.ok || !o.ok || !h.ok || !l.ok || !c.ok {
		return Candle{}, false
	}
	candle := Candle{
		Time:  NormalizeTime(t.val),
		Open:  o.val,
		High:  h.val,
		Low:   l.val,
		Close: c.val,
	}
	if v.ok && v.val >= 0 {
		candle.Volume = v.val
	}
	return candle, true
}

// levelObject carries the accepted field aliases for object-shaped levels.
type levelObject struct {
	Price    wireNumber `json:"price"`
	Quantity wireNumber `json:"quantity"`
	Size     wireNumber `json:"size"`
	Amount   wireNumber `json:"amount"`
}

// ParseLevel normalizes one order-book level: [price,quantity] or an
// object with quantity/size/amount aliases. Reports false for missing
// or non-finite fields and for non-positive prices.
func ParseLevel(raw json.RawMessage) (Level, bool) {
	var price, qty wireNumber

	var tuple []wireNumber
	if err := json.Unmarshal(raw, &tuple); err == nil {
		if len(tuple) < 2 {
			return Level{}, false
		}
		price, qty = tuple[0], tuple[1]
	} else {
		var obj levelObject
		if err := json.Unmarshal(raw, &obj); err != nil {
			return Level{}, false
		}
		price = obj.Price
		qty = pick(obj.Quantity, obj.Size, obj.Amount)
	}

	if !price.ok || !qty.ok || price.val <= 0 || qty.val < 0 {
		return Level{}, false
	}
	return Level{Price: price.val, Quantity: qty.val}, true
}

// ParseSide normalizes raw side levels, dropping malformed entries.
func ParseSide(raw []json.RawMessage) []Level {
	levels := make([]Level, 0, len(raw))
	for _, r := range raw {
		if lvl, ok := ParseLevel(r); ok {
			levels = append(levels, lvl)
		}
	}
	return levels
}

// snapshotWire is the accepted order-book frame shape.
type snapshotWire struct {
	Symbol    string            `json:"symbol"`
	Bids      []json.RawMessage `json:"bids"`
	Buy       []json.RawMessage `json:"buy"`
	Asks      []json.RawMessage `json:"asks"`
	Sell      []json.RawMessage `json:"sell"`
	Timestamp wireNumber        `json:"timestamp"`
}

// ParseSnapshot normalizes an order-book frame. Sides may be missing or
// empty; the analyzer decides whether the snapshot is usable.
func ParseSnapshot(raw json.RawMessage) (Snapshot, bool) {
	var wire snapshotWire
	if err := json.Unmarshal(raw, &wire); err != nil {
		return Snapshot{}, false
	}
	bids := wire.Bids
	if bids == nil {
		bids = wire.Buy
	}
	asks := wire.Asks
	if asks == nil {
		asks = wire.Sell
	}
	snap := Snapshot{
		Symbol: wire.Symbol,
		Bids:   ParseSide(bids),
		Asks:   ParseSide(asks),
	}
	if wire.Timestamp.ok {
		snap.Timestamp = NormalizeTime(wire.Timestamp.val)
	}
	return snap, true
}

// tradeWire carries the accepted field aliases for trades.
type tradeWire struct {
	Time     wireNumber `json:"time"`
	T        wireNumber `json:"t"`
	Price    wireNumber `json:"price"`
	P        wireNumber `json:"p"`
	Quantity wireNumber `json:"quantity"`
	Qty      wireNumber `json:"qty"`
	Size     wireNumber `json:"size"`
	Side     string     `json:"side"`
}

// ParseTrade normalizes one trade record. Reports false when price or
// quantity is missing or non-finite.
func ParseTrade(raw json.RawMessage) (Trade, bool) {
	var wire tradeWire
	if err := json.Unmarshal(raw, &wire); err != nil {
		return Trade{}, false
	}
	price := pick(wire.Price, wire.P)
	qty := pick(wire.Quantity, wire.Qty, wire.Size)
	if !price.ok || !qty.ok || price.val <= 0 || qty.val < 0 {
		return Trade{}, false
	}
	trade := Trade{Price: price.val, Quantity: qty.val, Side: Buy}
	if t := pick(wire.Time, wire.T); t.ok {
		trade.Time = NormalizeTime(t.val)
	}
	if side := strings.ToLower(strings.TrimSpace(wire.Side)); side == Sell || side == Buy {
		trade.Side = side
	}
	return trade, true
}
