package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

var (
	// RPCAttempts counts individual requests against RPC nodes, by method.
	RPCAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "claimsentinel_rpc_attempts_total",
		Help: "RPC node requests issued, including failover retries.",
	}, []string{"method"})

	// RPCFailovers counts attempts that failed and advanced to the next node.
	RPCFailovers = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "claimsentinel_rpc_failovers_total",
		Help: "RPC node attempts that failed and moved on to the next endpoint.",
	}, []string{"method"})

	// QueryExhausted counts queries that ran out of endpoints or attempts and
	// degraded to a sentinel value.
	QueryExhausted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "claimsentinel_query_exhausted_total",
		Help: "Queries that exhausted every endpoint/attempt and returned a sentinel.",
	}, []string{"method"})

	// Decisions counts decision outcomes per kind.
	Decisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "claimsentinel_decisions_total",
		Help: "Decision procedure outcomes.",
	}, []string{"kind", "outcome"})

	// Submissions counts transaction pushes by status.
	Submissions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "claimsentinel_submissions_total",
		Help: "Transaction submissions by status.",
	}, []string{"status"})
)

// Serve exposes /metrics on addr. Runs until the process exits; errors are
// logged, not fatal.
func Serve(addr string, log *zap.SugaredLogger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	log.Infof("metrics listening on %s", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Errorf("metrics server: %v", err)
	}
}
