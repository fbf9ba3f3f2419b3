package recorder

import "ClaimSentinel/internal/model"

// Recorder appends decision history for later analysis. It is write-only:
// decisions never read anything back, all decision state comes from the
// chain each cycle.
type Recorder interface {
	RecordDecision(ev *model.DecisionEvent) error
	Close() error
}
