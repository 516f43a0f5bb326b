package client

import (
	"encoding/json"

	"github.com/ahmadakra1997/tradecore/market"
	"github.com/ahmadakra1997/tradecore/transport"
)

var (
	symbolKeys = []string{"symbol", "s"}
	candleKeys = []string{"candle", "k", "kline"}
	tradeKeys  = []string{"trade"}
)

func (c *Client) onKline(msg transport.Message) {
	symbol, body := splitPayload(msg.Payload, candleKeys)
	if symbol == "" {
		symbol = c.defaultSymbol()
	}
	candle, ok := market.ParseCandle(body)
	if !ok || symbol == "" {
		c.logger.Debug("dropped malformed candle frame")
		return
	}

	c.store.ApplyCandle(symbol, candle)
	if c.metrics != nil {
		c.metrics.CandlesStored.Inc()
	}
	if err := c.journal.RecordCandle(symbol, candle); err != nil {
		c.logger.Warn("journal candle failed", "symbol", symbol, "error", err)
	}
}

func (c *Client) onTrade(msg transport.Message) {
	symbol, body := splitPayload(msg.Payload, tradeKeys)
	if symbol == "" {
		symbol = c.defaultSymbol()
	}
	trade, ok := market.ParseTrade(body)
	if !ok || symbol == "" {
		c.logger.Debug("dropped malformed trade frame")
		return
	}

	c.store.ApplyTrade(symbol, trade)
	if c.metrics != nil {
		c.metrics.TradesStored.Inc()
	}
	if err := c.journal.RecordTrade(symbol, trade); err != nil {
		c.logger.Warn("journal trade failed", "symbol", symbol, "error", err)
	}
}

func (c *Client) onDepth(msg transport.Message) {
	snap, ok := market.ParseSnapshot(msg.Payload)
	if !ok {
		c.logger.Debug("dropped malformed depth frame")
		return
	}
	if snap.Symbol == "" {
		snap.Symbol = c.defaultSymbol()
	}
	if snap.Symbol == "" {
		c.logger.Debug("dropped depth frame without symbol")
		return
	}
	c.store.ApplySnapshot(snap)
}

func (c *Client) defaultSymbol() string {
	if len(c.cfg.Stream.Symbols) > 0 {
		return c.cfg.Stream.Symbols[0]
	}
	return ""
}

// splitPayload extracts the symbol from an object payload and picks the
// record body from the first matching nested key. Non-object payloads
// (tuple records) pass through whole.
func splitPayload(payload json.RawMessage, bodyKeys []string) (string, json.RawMessage) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(payload, &obj); err != nil {
		return "", payload
	}

	var symbol string
	for _, key := range symbolKeys {
		if v, ok := obj[key]; ok {
			if json.Unmarshal(v, &symbol) == nil && symbol != "" {
				break
			}
		}
	}
	for _, key := range bodyKeys {
		if v, ok := obj[key]; ok {
			return symbol, v
		}
	}
	return symbol, payload
}
