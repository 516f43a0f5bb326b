// Package history backfills candle buffers over the REST side of the
// market data API.
package history

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/ahmadakra1997/tradecore/market"
)

// DefaultTimeout bounds one backfill request.
const DefaultTimeout = 5 * time.Second

// Client fetches historical candles.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient builds a history client for baseURL. A non-positive timeout
// selects DefaultTimeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// CandlesRequest selects which candles to fetch.
type CandlesRequest struct {
	Symbol    string
	Timeframe string
	Limit     int
}

// candlesEnvelope covers the response shapes seen in the wild: a
// candles array at the top level or nested one layer under data.
type candlesEnvelope struct {
	Candles []json.RawMessage `json:"candles"`
	Data    *candlesEnvelope  `json:"data"`
}

// GetCandles fetches candles and normalizes them through the same wire
// parser the stream uses. Records the parser rejects are skipped.
func (c *Client) GetCandles(ctx context.Context, req CandlesRequest) ([]market.Candle, error) {
	if req.Symbol == "" {
		return nil, fmt.Errorf("symbol is required")
	}

	params := url.Values{}
	params.Set("symbol", req.Symbol)
	if req.Timeframe != "" {
		params.Set("timeframe", req.Timeframe)
	}
	if req.Limit > 0 {
		params.Set("limit", fmt.Sprintf("%d", req.Limit))
	}

	apiURL := fmt.Sprintf("%s/market/candles?%s", c.baseURL, params.Encode())
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("history API error (status %d): %s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	raw, err := extractCandles(body)
	if err != nil {
		return nil, err
	}

	candles := make([]market.Candle, 0, len(raw))
	for _, rec := range raw {
		if candle, ok := market.ParseCandle(rec); ok {
			candles = append(candles, candle)
		}
	}
	return candles, nil
}

func extractCandles(body []byte) ([]json.RawMessage, error) {
	// A bare top-level array is also accepted.
	var list []json.RawMessage
	if err := json.Unmarshal(body, &list); err == nil {
		return list, nil
	}

	var env candlesEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if env.Candles != nil {
		return env.Candles, nil
	}
	if env.Data != nil && env.Data.Candles != nil {
		return env.Data.Candles, nil
	}
	return nil, fmt.Errorf("response carries no candles")
}
