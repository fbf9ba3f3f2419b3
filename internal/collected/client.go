// Package collected talks to the game's HTTP API, which reports how much
// currency an account has accumulated but not yet claimed.
package collected

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// maxAttempts is the total number of tries against the game API. It is a
// single fixed provider, so failures retry immediately rather than failing
// over.
const maxAttempts = 4

// attemptTimeout bounds each individual request.
const attemptTimeout = 5 * time.Second

// Client fetches unclaimed amounts from the game API.
type Client struct {
	endpoint   string
	httpClient *http.Client
	log        *zap.SugaredLogger
}

// NewClient creates a client for the given collected-amount endpoint URL.
func NewClient(endpoint string, log *zap.SugaredLogger) *Client {
	return &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: attemptTimeout},
		log:        log,
	}
}

// FetchCollected returns the account's accumulated unclaimed currency, or NaN
// once all attempts are exhausted. NaN propagates to the engine as "cannot
// decide this cycle".
func (c *Client) FetchCollected(ctx context.Context, account string) float64 {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		v, err := c.fetchOnce(ctx, account)
		if err == nil {
			return v
		}
		lastErr = err
		c.log.Warnf("fetch collected for %s failed (attempt %d/%d): %v", account, attempt, maxAttempts, err)
	}
	c.log.Warnf("fetch collected for %s: all %d attempts failed: %v", account, maxAttempts, lastErr)
	return math.NaN()
}

func (c *Client) fetchOnce(ctx context.Context, account string) (float64, error) {
	body, err := json.Marshal(map[string]string{"account": account})
	if err != nil {
		return 0, fmt.Errorf("marshal payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("fetch collected: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return 0, fmt.Errorf("fetch collected: status %d, body: %s", resp.StatusCode, string(respBody))
	}
	var result struct {
		Collected float64 `json:"collected"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return 0, fmt.Errorf("decode collected: %w", err)
	}
	return result.Collected, nil
}
