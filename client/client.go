// Package client is the consumer-facing entry point: it wires the
// streaming transport, the wire normalizer and the rolling store
// together and exposes the analytics on top of them.
package client

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ahmadakra1997/tradecore/config"
	"github.com/ahmadakra1997/tradecore/history"
	"github.com/ahmadakra1997/tradecore/indicators"
	"github.com/ahmadakra1997/tradecore/instrumentation"
	"github.com/ahmadakra1997/tradecore/journal"
	"github.com/ahmadakra1997/tradecore/market"
	"github.com/ahmadakra1997/tradecore/orderbook"
	"github.com/ahmadakra1997/tradecore/risk"
	"github.com/ahmadakra1997/tradecore/store"
	"github.com/ahmadakra1997/tradecore/transport"
)

// Stream channel names.
const (
	ChannelKline = "kline"
	ChannelTrade = "trade"
	ChannelDepth = "depth"
)

// Options assembles a Client. Only Config is required.
type Options struct {
	Config  *config.Config
	Dialer  transport.Dialer        // override for tests
	Journal journal.Journal         // nil disables journaling
	Metrics *instrumentation.Metrics // nil disables counters
	Logger  *slog.Logger
}

// Client owns one stream connection and the market state derived from
// it.
type Client struct {
	cfg     *config.Config
	logger  *slog.Logger
	metrics *instrumentation.Metrics

	stream  *transport.Client
	store   *store.Rolling
	journal journal.Journal
	history *history.Client
}

// New builds a Client. It does not connect; call Connect.
func New(opts Options) (*Client, error) {
	if opts.Config == nil {
		return nil, fmt.Errorf("config is required")
	}
	if err := opts.Config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Journal == nil {
		opts.Journal = journal.Nop{}
	}

	cfg := opts.Config
	c := &Client{
		cfg:     cfg,
		logger:  opts.Logger,
		metrics: opts.Metrics,
		journal: opts.Journal,
		store: store.New(store.Options{
			MaxCandles: cfg.Store.MaxCandles,
			MaxTrades:  cfg.Store.MaxTrades,
		}),
	}

	var streamMetrics transport.Metrics
	if opts.Metrics != nil {
		streamMetrics = opts.Metrics
	}
	c.stream = transport.New(transport.Options{
		URL:                  cfg.Stream.URL,
		Dialer:               opts.Dialer,
		MaxReconnectAttempts: cfg.Stream.MaxReconnectAttempts,
		ReconnectBaseDelay:   cfg.Stream.BaseDelay(),
		ReconnectJitterMax:   cfg.Stream.JitterMax(),
		MaxQueueLength:       cfg.Stream.MaxQueueLength,
		Logger:               opts.Logger,
		Metrics:              streamMetrics,
	})

	if cfg.History.BaseURL != "" {
		c.history = history.NewClient(cfg.History.BaseURL, cfg.History.Timeout())
	}

	c.stream.Subscribe(ChannelKline, c.onKline)
	c.stream.Subscribe(ChannelTrade, c.onTrade)
	c.stream.Subscribe(ChannelDepth, c.onDepth)
	return c, nil
}

// Connect opens the stream and subscribes to the configured symbols.
func (c *Client) Connect() {
	c.stream.Connect()
	for _, symbol := range c.cfg.Stream.Symbols {
		c.SubscribeMarket(symbol, c.cfg.Stream.Timeframe)
	}
}

// Close shuts the stream down. The store keeps its data.
func (c *Client) Close() {
	c.stream.Close()
}

// Status reports the stream lifecycle state.
func (c *Client) Status() transport.Status {
	return c.stream.Status()
}

// Send queues or writes an arbitrary outbound frame.
func (c *Client) Send(v any) error {
	return c.stream.Send(v)
}

// Subscribe registers a raw channel subscriber on the stream and
// returns its unsubscribe function.
func (c *Client) Subscribe(channel string, fn transport.Handler) func() {
	return c.stream.Subscribe(channel, fn)
}

// OnStatus registers a stream lifecycle listener.
func (c *Client) OnStatus(fn func(transport.Status)) func() {
	return c.stream.OnStatus(fn)
}

// OnError registers a stream error listener.
func (c *Client) OnError(fn func(error)) func() {
	return c.stream.OnError(fn)
}

// SubscribeMarket asks the server for the full market feed of a symbol.
func (c *Client) SubscribeMarket(symbol, timeframe string) {
	_ = c.Send(transport.SubscribeFrame(ChannelKline, symbol, timeframe))
	_ = c.Send(transport.SubscribeFrame(ChannelTrade, symbol, ""))
	_ = c.Send(transport.SubscribeFrame(ChannelDepth, symbol, ""))
}

// UnsubscribeMarket leaves the market feed of a symbol.
func (c *Client) UnsubscribeMarket(symbol, timeframe string) {
	_ = c.Send(transport.UnsubscribeFrame(ChannelKline, symbol, timeframe))
	_ = c.Send(transport.UnsubscribeFrame(ChannelTrade, symbol, ""))
	_ = c.Send(transport.UnsubscribeFrame(ChannelDepth, symbol, ""))
}

// Store exposes the rolling buffers for read access.
func (c *Client) Store() *store.Rolling {
	return c.store
}

// Backfill seeds the candle buffer for symbol from the history API.
func (c *Client) Backfill(ctx context.Context, symbol, timeframe string, limit int) error {
	if c.history == nil {
		return fmt.Errorf("no history endpoint configured")
	}
	candles, err := c.history.GetCandles(ctx, history.CandlesRequest{
		Symbol: symbol, Timeframe: timeframe, Limit: limit,
	})
	if err != nil {
		return fmt.Errorf("backfill %s: %w", symbol, err)
	}
	c.store.SeedCandles(symbol, candles)
	c.logger.Info("backfilled candles", "symbol", symbol, "count", len(candles))
	return nil
}

// ComputeIndicators evaluates the enabled indicators over the stored
// candles of a symbol.
func (c *Client) ComputeIndicators(symbol string, enabled indicators.Enable, params indicators.Params) indicators.Bundle {
	return indicators.Compute(c.store.Candles(symbol), enabled, params)
}

// Signals derives trading signals from the stored candles of a symbol.
func (c *Client) Signals(symbol string) []indicators.Signal {
	return indicators.Signals(c.store.Candles(symbol))
}

// AnalyzeOrderBook analyzes the latest stored snapshot for a symbol.
// It returns nil when no usable snapshot exists.
func (c *Client) AnalyzeOrderBook(symbol string) *orderbook.Metrics {
	snap, ok := c.store.Snapshot(symbol)
	if !ok {
		return nil
	}
	return orderbook.Analyze(snap, c.orderBookOptions())
}

// AnalyzeSnapshot analyzes an externally supplied snapshot.
func (c *Client) AnalyzeSnapshot(snap market.Snapshot) *orderbook.Metrics {
	return orderbook.Analyze(snap, c.orderBookOptions())
}

// AnalyzeRisk scores a position against the latest stored prices.
func (c *Client) AnalyzeRisk(pos *market.Position) risk.Assessment {
	return risk.Analyze(pos, c.store.Prices(), c.cfg.Risk)
}

func (c *Client) orderBookOptions() orderbook.Options {
	return orderbook.Options{
		MaxDepth:    c.cfg.OrderBook.MaxDepth,
		WallRatio:   c.cfg.OrderBook.WallRatio,
		NearBandPct: c.cfg.OrderBook.NearBandPct,
		FarBandPct:  c.cfg.OrderBook.FarBandPct,
	}
}
