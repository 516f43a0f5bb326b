package transport

import (
	"log/slog"
	"sync"

	"github.com/ahmadakra1997/tradecore/pkg/id"
)

// Handler consumes inbound messages for one channel.
type Handler func(msg Message)

type subscriber struct {
	token string
	fn    Handler
}

// registry maps channel names to ordered subscriber lists. Each
// subscriber is removable by its own token, so registering the same
// function twice yields two independent subscriptions.
type registry struct {
	mu       sync.RWMutex
	channels map[string][]subscriber
}

func newRegistry() *registry {
	return &registry{channels: make(map[string][]subscriber)}
}

func (r *registry) subscribe(channel string, fn Handler) string {
	token := id.New()
	r.mu.Lock()
	r.channels[channel] = append(r.channels[channel], subscriber{token: token, fn: fn})
	r.mu.Unlock()
	return token
}

// unsubscribe is idempotent; unknown tokens are ignored.
func (r *registry) unsubscribe(channel, token string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	list := r.channels[channel]
	for i, sub := range list {
		if sub.token == token {
			list = append(list[:i], list[i+1:]...)
			if len(list) == 0 {
				delete(r.channels, channel)
			} else {
				r.channels[channel] = list
			}
			return
		}
	}
}

// publish delivers msg to every subscriber of its channel in
// registration order. A panicking subscriber is logged and skipped;
// the rest still receive the message.
func (r *registry) publish(msg Message, logger *slog.Logger, metrics Metrics) {
	r.mu.RLock()
	subs := make([]subscriber, len(r.channels[msg.Channel]))
	copy(subs, r.channels[msg.Channel])
	r.mu.RUnlock()

	for _, sub := range subs {
		deliver(sub, msg, logger, metrics)
	}
}

func deliver(sub subscriber, msg Message, logger *slog.Logger, metrics Metrics) {
	defer func() {
		if rec := recover(); rec != nil {
			logger.Error("subscriber panic",
				"channel", msg.Channel, "token", sub.token, "panic", rec)
			if metrics != nil {
				metrics.SubscriberPanic()
			}
		}
	}()
	sub.fn(msg)
}
