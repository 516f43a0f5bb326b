package market

// Level is a single resting price level on one side of the book.
type Level struct {
	Price    float64 `json:"price"`
	Quantity float64 `json:"quantity"`
}

// Snapshot is a point-in-time view of the order book for one symbol.
// Bids are sorted descending by price, asks ascending.
type Snapshot struct {
	Symbol    string  `json:"symbol"`
	Bids      []Level `json:"bids"`
	Asks      []Level `json:"asks"`
	Timestamp int64   `json:"timestamp"`
}
