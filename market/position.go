package market

import "encoding/json"

// Position side values.
const (
	Long  = "long"
	Short = "short"
)

// Position describes an open leveraged position. It is owned by the
// consumer; the risk engine reads it and never mutates it.
type Position struct {
	Symbol        string  `json:"symbol"`
	Side          string  `json:"side"` // Long or Short
	EntryPrice    float64 `json:"entryPrice"`
	Size          float64 `json:"size"`
	Leverage      float64 `json:"leverage"`
	AccountEquity float64 `json:"accountEquity"`
}

// Quote carries the current price for a symbol. On the wire it may be a
// bare number or an object exposing price/last/close; either form
// decodes into the canonical Price field.
type Quote struct {
	Price float64 `json:"price"`
}

func (q *Quote) UnmarshalJSON(data []byte) error {
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		q.Price = n
		return nil
	}
	var obj struct {
		Price *float64 `json:"price"`
		Last  *float64 `json:"last"`
		Close *float64 `json:"close"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	switch {
	case obj.Price != nil:
		q.Price = *obj.Price
	case obj.Last != nil:
		q.Price = *obj.Last
	case obj.Close != nil:
		q.Price = *obj.Close
	}
	return nil
}
