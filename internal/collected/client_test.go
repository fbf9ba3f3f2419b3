package collected

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestFetchCollected_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "alice", payload["account"])
		json.NewEncoder(w).Encode(map[string]float64{"collected": 61234.5})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, zap.NewNop().Sugar())
	v := c.FetchCollected(context.Background(), "alice")
	assert.InDelta(t, 61234.5, v, 1e-9)
}

func TestFetchCollected_RecoversWithinAttempts(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			http.Error(w, "flaky", http.StatusBadGateway)
			return
		}
		json.NewEncoder(w).Encode(map[string]float64{"collected": 100})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, zap.NewNop().Sugar())
	v := c.FetchCollected(context.Background(), "alice")
	assert.Equal(t, 100.0, v)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestFetchCollected_ExactlyFourAttemptsThenNaN(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.Error(w, "down", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, zap.NewNop().Sugar())
	v := c.FetchCollected(context.Background(), "alice")
	assert.True(t, math.IsNaN(v))
	assert.Equal(t, int32(4), atomic.LoadInt32(&calls))
}
