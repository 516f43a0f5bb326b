package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahmadakra1997/tradecore/indicators"
	"github.com/ahmadakra1997/tradecore/instrumentation"
	"github.com/ahmadakra1997/tradecore/market"
	"github.com/ahmadakra1997/tradecore/orderbook"
	"github.com/ahmadakra1997/tradecore/store"
	"github.com/ahmadakra1997/tradecore/transport"
)

type stubAnalytics struct {
	store *store.Rolling
}

func (s *stubAnalytics) Status() transport.Status { return transport.StatusOpen }
func (s *stubAnalytics) Store() *store.Rolling    { return s.store }

func (s *stubAnalytics) ComputeIndicators(symbol string, enabled indicators.Enable, params indicators.Params) indicators.Bundle {
	return indicators.Compute(s.store.Candles(symbol), enabled, params)
}

func (s *stubAnalytics) AnalyzeOrderBook(symbol string) *orderbook.Metrics {
	snap, ok := s.store.Snapshot(symbol)
	if !ok {
		return nil
	}
	return orderbook.Analyze(snap, orderbook.Options{})
}

func (s *stubAnalytics) Signals(symbol string) []indicators.Signal {
	return indicators.Signals(s.store.Candles(symbol))
}

func newTestServer(t *testing.T) (*Server, *stubAnalytics) {
	t.Helper()
	analytics := &stubAnalytics{store: store.New(store.Options{})}

	reg := prometheus.NewRegistry()
	instrumentation.NewMetrics(reg)
	return New(":0", analytics, reg, nil), analytics
}

func get(t *testing.T, s *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t)
	rec := get(t, s, "/healthz")

	assert.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "open", body["stream"])
}

func TestSummary(t *testing.T) {
	s, analytics := newTestServer(t)
	for i := 0; i < 30; i++ {
		analytics.store.ApplyCandle("BTCUSDT", market.Candle{
			Time: int64(1700000000 + i*60), Open: 100, High: 101, Low: 99, Close: 100 + float64(i), Volume: 1,
		})
	}
	analytics.store.ApplySnapshot(market.Snapshot{
		Symbol: "BTCUSDT",
		Bids:   []market.Level{{Price: 128, Quantity: 1}},
		Asks:   []market.Level{{Price: 130, Quantity: 1}},
	})

	rec := get(t, s, "/api/v1/summary/BTCUSDT")
	require.Equal(t, http.StatusOK, rec.Code)

	var body summaryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "BTCUSDT", body.Symbol)
	assert.Equal(t, 30, body.Candles)
	assert.Equal(t, 129.0, body.LastPrice)
	require.NotNil(t, body.OrderBook)
	assert.Equal(t, 129.0, body.OrderBook.Mid)
	assert.Len(t, body.Indicators.SMA, 30)
}

func TestSummaryUnknownSymbol(t *testing.T) {
	s, _ := newTestServer(t)
	rec := get(t, s, "/api/v1/summary/NOPE")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSymbolsAndCandles(t *testing.T) {
	s, analytics := newTestServer(t)
	analytics.store.ApplyCandle("ETHUSDT", market.Candle{Time: 1, Close: 2000})

	rec := get(t, s, "/api/v1/symbols")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ETHUSDT")

	rec = get(t, s, "/api/v1/candles/ETHUSDT")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"close":2000`)
}

func TestMetricsEndpoint(t *testing.T) {
	s, _ := newTestServer(t)
	rec := get(t, s, "/metrics")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "tradecore_stream_frames_total")
}
