package recorder

import "ClaimSentinel/internal/model"

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordDecision(_ *model.DecisionEvent) error { return nil }
func (n *NoopRecorder) Close() error                                { return nil }
