// Package instrumentation holds the Prometheus metrics for the stream
// pipeline.
package instrumentation

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts transport and dispatch events. It satisfies the
// transport metrics hook.
type Metrics struct {
	FramesTotal          prometheus.Counter
	ReconnectsTotal      prometheus.Counter
	DroppedOutboundTotal prometheus.Counter
	SubscriberPanics     prometheus.Counter
	CandlesStored        prometheus.Counter
	TradesStored         prometheus.Counter
}

// NewMetrics creates and registers the metric set on reg. Pass a fresh
// registry in tests to avoid duplicate registration.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		FramesTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "tradecore_stream_frames_total",
			Help: "Inbound frames received over the stream",
		}),
		ReconnectsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "tradecore_stream_reconnects_total",
			Help: "Reconnect attempts scheduled after connection loss",
		}),
		DroppedOutboundTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "tradecore_stream_dropped_outbound_total",
			Help: "Outbound frames dropped from the full send queue",
		}),
		SubscriberPanics: factory.NewCounter(prometheus.CounterOpts{
			Name: "tradecore_subscriber_panics_total",
			Help: "Panics recovered in subscriber callbacks",
		}),
		CandlesStored: factory.NewCounter(prometheus.CounterOpts{
			Name: "tradecore_candles_stored_total",
			Help: "Candles written to the rolling store",
		}),
		TradesStored: factory.NewCounter(prometheus.CounterOpts{
			Name: "tradecore_trades_stored_total",
			Help: "Trades written to the rolling store",
		}),
	}
}

func (m *Metrics) FrameReceived()      { m.FramesTotal.Inc() }
func (m *Metrics) ReconnectScheduled() { m.ReconnectsTotal.Inc() }
func (m *Metrics) OutboundDropped()    { m.DroppedOutboundTotal.Inc() }
func (m *Metrics) SubscriberPanic()    { m.SubscriberPanics.Inc() }
