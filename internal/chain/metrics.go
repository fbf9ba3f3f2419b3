package chain

import "ClaimSentinel/internal/metrics"

func metricAttempt(method string)   { metrics.RPCAttempts.WithLabelValues(method).Inc() }
func metricFailover(method string)  { metrics.RPCFailovers.WithLabelValues(method).Inc() }
func metricExhausted(method string) { metrics.QueryExhausted.WithLabelValues(method).Inc() }
