// Package chain is a minimal JSON-over-HTTP client for the chain's v1 RPC
// API, with one-pass failover across the endpoint pool's current order.
package chain

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// AttemptTimeout bounds each individual request against one node. A node that
// is slow past this is treated the same as a dead one.
const AttemptTimeout = 5 * time.Second

// TableConfig names the on-chain table holding per-account claim-limit rows.
type TableConfig struct {
	Code          string // contract account that owns the table
	Table         string
	Scope         string
	IndexPosition int
	KeyType       string
}

// Client issues RPC calls. It is shared by every account cycle; the rate
// limiter paces requests so the bot stays polite to public nodes.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	log        *zap.SugaredLogger

	table         TableConfig
	tokenContract string
	symbolCode    string
}

// NewClient builds a chain client. rps limits outgoing RPC requests per
// second across all endpoints.
func NewClient(table TableConfig, tokenContract, symbolCode string, rps float64, log *zap.SugaredLogger) *Client {
	return &Client{
		httpClient:    &http.Client{Timeout: AttemptTimeout},
		limiter:       rate.NewLimiter(rate.Limit(rps), int(rps)+1),
		log:           log,
		table:         table,
		tokenContract: tokenContract,
		symbolCode:    symbolCode,
	}
}

// post sends one JSON request to a single node and decodes the response into
// out. The per-attempt timeout comes from the HTTP client.
func (c *Client) post(ctx context.Context, baseURL, path string, payload any, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("post %s: %w", path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("post %s: status %d, body: %s", path, resp.StatusCode, string(respBody))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

// failover runs fn against each endpoint in order until one succeeds. A
// failed attempt advances to the next endpoint without retrying the same
// node. Returns false once the whole order is exhausted; callers degrade to
// their sentinel value.
func failover[T any](ctx context.Context, c *Client, order []string, method string, fn func(ctx context.Context, baseURL string) (T, error)) (T, bool) {
	var zero T
	for _, baseURL := range order {
		metricAttempt(method)
		res, err := fn(ctx, baseURL)
		if err == nil {
			return res, true
		}
		metricFailover(method)
		c.log.Warnf("%s failed on %s, trying next endpoint: %v", method, baseURL, err)
	}
	metricExhausted(method)
	c.log.Warnf("%s exhausted all %d endpoints", method, len(order))
	return zero, false
}
