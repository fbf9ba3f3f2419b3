package txn

import (
	"context"
	"fmt"

	"github.com/eoscanada/eos-go/ecc"
	"go.uber.org/zap"

	"ClaimSentinel/internal/chain"
	"ClaimSentinel/internal/endpoint"
	"ClaimSentinel/internal/metrics"
)

// Submitter builds, signs, and pushes transactions. Head info is read from
// one node picked at random from the pool's current order, and the signed
// transaction goes back to that same node; there is no failover or retry
// here — a failed submission is reported and dropped.
type Submitter struct {
	chain  *chain.Client
	pool   *endpoint.Pool
	dryRun bool
	log    *zap.SugaredLogger
}

// NewSubmitter creates a submitter. With dryRun set, everything up to and
// including signing still runs; only the actual push is skipped.
func NewSubmitter(c *chain.Client, pool *endpoint.Pool, dryRun bool, log *zap.SugaredLogger) *Submitter {
	return &Submitter{chain: c, pool: pool, dryRun: dryRun, log: log}
}

// Submit signs and pushes the actions on behalf of account. Returns the
// transaction id, or "" when dry-run suppressed the push.
func (s *Submitter) Submit(ctx context.Context, account string, keys []*ecc.PrivateKey, actions []Action) (string, error) {
	node := s.pool.Random()

	info, err := s.chain.Info(ctx, node)
	if err != nil {
		metrics.Submissions.WithLabelValues("failed").Inc()
		return "", fmt.Errorf("fetch head info from %s: %w", node, err)
	}

	tx, err := Build(info, actions)
	if err != nil {
		metrics.Submissions.WithLabelValues("failed").Inc()
		return "", fmt.Errorf("build transaction: %w", err)
	}

	signatures, packed, err := tx.Sign(info.ChainID, keys)
	if err != nil {
		metrics.Submissions.WithLabelValues("failed").Inc()
		return "", fmt.Errorf("sign transaction: %w", err)
	}

	if s.dryRun {
		metrics.Submissions.WithLabelValues("dry_run").Inc()
		s.log.Infof("dry run: suppressing push for %s (%d actions, %d bytes packed)", account, len(actions), len(packed))
		return "", nil
	}

	txID, err := s.chain.PushTransaction(ctx, node, newPushPayload(signatures, packed))
	if err != nil {
		metrics.Submissions.WithLabelValues("failed").Inc()
		return "", fmt.Errorf("push transaction to %s: %w", node, err)
	}
	metrics.Submissions.WithLabelValues("ok").Inc()
	return txID, nil
}
