// Package transport maintains one streaming connection to a market
// data endpoint: automatic reconnects with linear backoff and jitter,
// outbound queuing while disconnected, and channel-based fan-out of
// inbound frames to subscribers.
package transport

import (
	"context"
	"encoding/json"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/ahmadakra1997/tradecore/pkg/id"
)

// Status is the connection lifecycle state.
type Status string

const (
	StatusDisconnected Status = "disconnected"
	StatusConnecting   Status = "connecting"
	StatusOpen         Status = "open"
	StatusClosed       Status = "closed"
)

// Defaults applied by New when Options leaves a field zero.
const (
	DefaultMaxReconnectAttempts = 5
	DefaultReconnectBaseDelay   = time.Second
	DefaultReconnectJitterMax   = 250 * time.Millisecond
	DefaultMaxQueueLength       = 100
	DefaultDialTimeout          = 10 * time.Second
)

// Metrics receives transport-level counters. Nil disables them.
type Metrics interface {
	FrameReceived()
	ReconnectScheduled()
	OutboundDropped()
	SubscriberPanic()
}

// Options configures a Client. Zero values select defaults.
type Options struct {
	URL                  string
	Dialer               Dialer
	MaxReconnectAttempts int
	ReconnectBaseDelay   time.Duration
	ReconnectJitterMax   time.Duration
	MaxQueueLength       int
	DialTimeout          time.Duration
	Logger               *slog.Logger
	Metrics              Metrics
}

func (o Options) withDefaults() Options {
	if o.Dialer == nil {
		o.Dialer = NewDialer()
	}
	if o.MaxReconnectAttempts <= 0 {
		o.MaxReconnectAttempts = DefaultMaxReconnectAttempts
	}
	if o.ReconnectBaseDelay <= 0 {
		o.ReconnectBaseDelay = DefaultReconnectBaseDelay
	}
	if o.ReconnectJitterMax == 0 {
		o.ReconnectJitterMax = DefaultReconnectJitterMax
	} else if o.ReconnectJitterMax < 0 {
		// Negative disables jitter, mainly for deterministic tests.
		o.ReconnectJitterMax = 0
	}
	if o.MaxQueueLength <= 0 {
		o.MaxQueueLength = DefaultMaxQueueLength
	}
	if o.DialTimeout <= 0 {
		o.DialTimeout = DefaultDialTimeout
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

// Client is a reconnecting streaming connection. All methods are safe
// for concurrent use.
type Client struct {
	opts     Options
	registry *registry

	mu          sync.Mutex
	status      Status
	conn        Conn
	manualClose bool
	attempts    int
	timer       *time.Timer
	queue       [][]byte

	lmu             sync.RWMutex
	statusListeners map[string]func(Status)
	errorListeners  map[string]func(error)
}

// New builds a Client. It does not connect; call Connect.
func New(opts Options) *Client {
	return &Client{
		opts:            opts.withDefaults(),
		registry:        newRegistry(),
		status:          StatusDisconnected,
		statusListeners: make(map[string]func(Status)),
		errorListeners:  make(map[string]func(error)),
	}
}

// Status returns the current lifecycle state.
func (c *Client) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Connect opens the connection. It resets the reconnect attempt counter
// and clears any manual-close latch, so it also restarts a client that
// exhausted its reconnect budget. Connecting happens in the background;
// watch OnStatus for the outcome.
func (c *Client) Connect() {
	c.mu.Lock()
	c.manualClose = false
	c.attempts = 0
	c.stopTimerLocked()
	if c.status == StatusOpen || c.status == StatusConnecting {
		c.mu.Unlock()
		return
	}
	c.status = StatusConnecting
	c.mu.Unlock()

	c.notifyStatus(StatusConnecting)
	go c.dial()
}

// Close shuts the connection down and suppresses any pending reconnect.
// The client stays closed until Connect is called again.
func (c *Client) Close() {
	c.mu.Lock()
	c.manualClose = true
	c.stopTimerLocked()
	conn := c.conn
	c.conn = nil
	was := c.status
	c.status = StatusClosed
	c.mu.Unlock()

	if conn != nil {
		_ = conn.Close()
	}
	if was != StatusClosed {
		c.notifyStatus(StatusClosed)
	}
}

// Send marshals v and writes it to the connection. While not open the
// frame is queued instead (bounded, oldest dropped on overflow) and a
// connect attempt is triggered unless one is already underway.
func (c *Client) Send(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}

	c.mu.Lock()
	if c.status == StatusOpen && c.conn != nil {
		conn := c.conn
		c.mu.Unlock()
		if err := conn.WriteMessage(data); err != nil {
			c.emitError(err)
			return err
		}
		return nil
	}

	c.queue = append(c.queue, data)
	if len(c.queue) > c.opts.MaxQueueLength {
		c.queue = c.queue[1:]
		if c.opts.Metrics != nil {
			c.opts.Metrics.OutboundDropped()
		}
		c.opts.Logger.Warn("outbound queue full, dropped oldest frame")
	}
	trigger := c.status == StatusDisconnected || c.status == StatusClosed
	c.mu.Unlock()

	if trigger {
		c.Connect()
	}
	return nil
}

// Subscribe registers fn for a channel and returns its unsubscribe
// function, which is idempotent.
func (c *Client) Subscribe(channel string, fn Handler) func() {
	token := c.registry.subscribe(channel, fn)
	var once sync.Once
	return func() {
		once.Do(func() { c.registry.unsubscribe(channel, token) })
	}
}

// OnStatus registers a lifecycle listener and returns its remover.
func (c *Client) OnStatus(fn func(Status)) func() {
	token := id.New()
	c.lmu.Lock()
	c.statusListeners[token] = fn
	c.lmu.Unlock()
	return func() {
		c.lmu.Lock()
		delete(c.statusListeners, token)
		c.lmu.Unlock()
	}
}

// OnError registers an error listener and returns its remover. Errors
// are transient signals; the lifecycle continues through OnStatus.
func (c *Client) OnError(fn func(error)) func() {
	token := id.New()
	c.lmu.Lock()
	c.errorListeners[token] = fn
	c.lmu.Unlock()
	return func() {
		c.lmu.Lock()
		delete(c.errorListeners, token)
		c.lmu.Unlock()
	}
}

func (c *Client) dial() {
	ctx, cancel := context.WithTimeout(context.Background(), c.opts.DialTimeout)
	conn, err := c.opts.Dialer.Dial(ctx, c.opts.URL)
	cancel()

	c.mu.Lock()
	if c.manualClose {
		c.mu.Unlock()
		if conn != nil {
			_ = conn.Close()
		}
		return
	}
	if err != nil {
		c.status = StatusClosed
		c.scheduleReconnectLocked()
		c.mu.Unlock()

		c.emitError(err)
		c.notifyStatus(StatusClosed)
		return
	}

	c.conn = conn
	c.attempts = 0
	c.status = StatusOpen
	queued := c.queue
	c.queue = nil
	c.mu.Unlock()

	c.notifyStatus(StatusOpen)

	// Flush is best-effort: one failed frame does not abort the rest.
	for _, frame := range queued {
		if err := conn.WriteMessage(frame); err != nil {
			c.opts.Logger.Warn("queued frame send failed", "error", err)
		}
	}

	go c.readLoop(conn)
}

func (c *Client) readLoop(conn Conn) {
	for {
		data, err := conn.ReadMessage()
		if err != nil {
			c.handleDisconnect(conn, err)
			return
		}
		if c.opts.Metrics != nil {
			c.opts.Metrics.FrameReceived()
		}
		c.registry.publish(demux(data), c.opts.Logger, c.opts.Metrics)
	}
}

func (c *Client) handleDisconnect(conn Conn, err error) {
	c.mu.Lock()
	if c.conn != conn {
		// A stale read loop from a connection already replaced or
		// closed by Close; the live state owns the transition.
		c.mu.Unlock()
		return
	}
	c.conn = nil
	c.status = StatusClosed
	manual := c.manualClose
	if !manual {
		c.scheduleReconnectLocked()
	}
	c.mu.Unlock()

	if !manual {
		c.emitError(err)
	}
	c.notifyStatus(StatusClosed)
}

// scheduleReconnectLocked arms the single reconnect timer. Callers hold
// c.mu. A previously pending timer is always cancelled first, so at
// most one reconnect is ever outstanding.
func (c *Client) scheduleReconnectLocked() {
	c.attempts++
	if c.attempts > c.opts.MaxReconnectAttempts {
		c.opts.Logger.Warn("reconnect attempts exhausted, staying closed",
			"attempts", c.attempts-1)
		return
	}

	delay := time.Duration(c.attempts) * c.opts.ReconnectBaseDelay
	if c.opts.ReconnectJitterMax > 0 {
		delay += time.Duration(rand.Int63n(int64(c.opts.ReconnectJitterMax)))
	}

	c.stopTimerLocked()
	c.timer = time.AfterFunc(delay, c.reconnect)
	if c.opts.Metrics != nil {
		c.opts.Metrics.ReconnectScheduled()
	}
	c.opts.Logger.Info("reconnect scheduled",
		"attempt", c.attempts, "delay", delay)
}

func (c *Client) reconnect() {
	c.mu.Lock()
	if c.manualClose || c.status == StatusOpen || c.status == StatusConnecting {
		c.mu.Unlock()
		return
	}
	c.status = StatusConnecting
	c.mu.Unlock()

	c.notifyStatus(StatusConnecting)
	c.dial()
}

func (c *Client) stopTimerLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

func (c *Client) notifyStatus(s Status) {
	c.lmu.RLock()
	fns := make([]func(Status), 0, len(c.statusListeners))
	for _, fn := range c.statusListeners {
		fns = append(fns, fn)
	}
	c.lmu.RUnlock()

	for _, fn := range fns {
		callSafe(func() { fn(s) }, c.opts.Logger, "status listener")
	}
}

func (c *Client) emitError(err error) {
	c.opts.Logger.Error("transport error", "error", err)

	c.lmu.RLock()
	fns := make([]func(error), 0, len(c.errorListeners))
	for _, fn := range c.errorListeners {
		fns = append(fns, fn)
	}
	c.lmu.RUnlock()

	for _, fn := range fns {
		callSafe(func() { fn(err) }, c.opts.Logger, "error listener")
	}
}

func callSafe(fn func(), logger *slog.Logger, what string) {
	defer func() {
		if rec := recover(); rec != nil {
			logger.Error("listener panic", "listener", what, "panic", rec)
		}
	}()
	fn()
}
