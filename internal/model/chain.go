package model

import "time"

// ChainInfo is the head-of-chain snapshot needed to build one transaction.
type ChainInfo struct {
	ChainID       string    // hex
	HeadBlockID   string    // hex
	HeadBlockNum  uint32
	HeadBlockTime time.Time
}

// LimitRow is one row of the on-chain claim-limit table.
type LimitRow struct {
	Account    string `json:"account"`
	Limit      int64  `json:"limit"`
	ExtendedAt int64  `json:"extended_at"`
}

// LimitState is the per-account claim-limit state. Limit is in raw table
// units; divide by 10,000 for the effective value.
type LimitState struct {
	Limit      int64
	ExtendedAt int64
}

// DefaultLimitState is used when the account has no table row: the floor
// limit, never extended.
func DefaultLimitState() LimitState {
	return LimitState{Limit: 10_000, ExtendedAt: 0}
}
