package model

// DecisionKind says which of the two per-account procedures produced an event.
type DecisionKind string

const (
	DecisionIncrease DecisionKind = "INCREASE"
	DecisionClaim    DecisionKind = "CLAIM"
)

// Outcome is the terminal result of one decision procedure.
type Outcome string

const (
	OutcomeSkipped           Outcome = "SKIPPED"            // no action warranted
	OutcomeNoData            Outcome = "NO_DATA"            // sentinel from a query, cannot decide
	OutcomeInsufficientFunds Outcome = "INSUFFICIENT_FUNDS" // balance below increase cost
	OutcomeBelowMinClaim     Outcome = "BELOW_MIN_CLAIM"    // not enough accumulated
	OutcomeWasteTooHigh      Outcome = "WASTE_TOO_HIGH"     // claiming now would forfeit too much
	OutcomeSubmitted         Outcome = "SUBMITTED"
	OutcomeSubmitFailed      Outcome = "SUBMIT_FAILED"
	OutcomeDryRun            Outcome = "DRY_RUN"
)

// DecisionEvent captures everything a decision looked at and what it did.
type DecisionEvent struct {
	Account      string
	Kind         DecisionKind
	Outcome      Outcome
	Collected    float64
	CurrentLimit float64
	TargetLimit  float64
	Cost         float64
	Waste        float64
	TxID         string
	Note         string
}
