package txn

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/eoscanada/eos-go/ecc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"ClaimSentinel/internal/chain"
	"ClaimSentinel/internal/endpoint"
)

// Well-known development key, never used on a real chain.
const testWIF = "5KQwrPbwdL6PhXujxW37FSSQZ1JiwsST4cqQzDeyXtP79zkvFD3"

func testKey(t *testing.T) *ecc.PrivateKey {
	t.Helper()
	key, err := ecc.NewPrivateKey(testWIF)
	require.NoError(t, err)
	return key
}

func TestSign_VerifiableSignature(t *testing.T) {
	key := testKey(t)
	a, err := NewClaim("claimgame", "alice")
	require.NoError(t, err)

	tx := Transaction{RefBlockNum: 1, RefBlockPrefix: 2, Actions: []Action{a}}
	chainID := strings.Repeat("ab", 32)

	signatures, packed, err := tx.Sign(chainID, []*ecc.PrivateKey{key})
	require.NoError(t, err)
	require.Len(t, signatures, 1)
	assert.True(t, strings.HasPrefix(signatures[0], "SIG_K1_"))

	digest, err := SigDigest(chainID, packed)
	require.NoError(t, err)
	sig, err := ecc.NewSignature(signatures[0])
	require.NoError(t, err)
	assert.True(t, sig.Verify(digest, key.PublicKey()))
}

func fakeNode(t *testing.T, pushes *int32, gotPayload *map[string]any) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/chain/get_info":
			json.NewEncoder(w).Encode(map[string]any{
				"chain_id":        strings.Repeat("ab", 32),
				"head_block_id":   strings.Repeat("00", 28) + "aabbccdd",
				"head_block_num":  100,
				"head_block_time": "2026-08-29T12:00:00.000",
			})
		case "/v1/chain/push_transaction":
			atomic.AddInt32(pushes, 1)
			if gotPayload != nil {
				json.NewDecoder(r.Body).Decode(gotPayload)
			}
			json.NewEncoder(w).Encode(map[string]any{"transaction_id": "deadbeef"})
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testChainClient() *chain.Client {
	table := chain.TableConfig{Code: "claimgame", Table: "claimlimits", Scope: "claimgame", IndexPosition: 2, KeyType: "name"}
	return chain.NewClient(table, "gametoken", "GEM", 1000, zap.NewNop().Sugar())
}

func TestSubmit_PushesSignedTransaction(t *testing.T) {
	var pushes int32
	payload := map[string]any{}
	node := fakeNode(t, &pushes, &payload)
	pool, err := endpoint.NewPool([]string{node.URL})
	require.NoError(t, err)

	s := NewSubmitter(testChainClient(), pool, false, zap.NewNop().Sugar())
	a, err := NewClaim("claimgame", "alice")
	require.NoError(t, err)

	txID, err := s.Submit(context.Background(), "alice", []*ecc.PrivateKey{testKey(t)}, []Action{a})
	require.NoError(t, err)
	assert.Equal(t, "deadbeef", txID)
	assert.Equal(t, int32(1), atomic.LoadInt32(&pushes))

	assert.Equal(t, "none", payload["compression"])
	sigs, ok := payload["signatures"].([]any)
	require.True(t, ok)
	require.Len(t, sigs, 1)
	assert.Contains(t, sigs[0], "SIG_K1_")
	assert.NotEmpty(t, payload["packed_trx"])
}

func TestSubmit_DryRunSkipsPush(t *testing.T) {
	var pushes int32
	node := fakeNode(t, &pushes, nil)
	pool, err := endpoint.NewPool([]string{node.URL})
	require.NoError(t, err)

	s := NewSubmitter(testChainClient(), pool, true, zap.NewNop().Sugar())
	a, err := NewClaim("claimgame", "alice")
	require.NoError(t, err)

	txID, err := s.Submit(context.Background(), "alice", []*ecc.PrivateKey{testKey(t)}, []Action{a})
	require.NoError(t, err)
	assert.Empty(t, txID)
	assert.Equal(t, int32(0), atomic.LoadInt32(&pushes), "dry run must never push")
}

func TestSubmit_HeadInfoFailureFailsSubmission(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "down", http.StatusInternalServerError)
	}))
	defer srv.Close()
	pool, err := endpoint.NewPool([]string{srv.URL})
	require.NoError(t, err)

	s := NewSubmitter(testChainClient(), pool, false, zap.NewNop().Sugar())
	a, err := NewClaim("claimgame", "alice")
	require.NoError(t, err)

	_, err = s.Submit(context.Background(), "alice", []*ecc.PrivateKey{testKey(t)}, []Action{a})
	require.Error(t, err)
}
