package dividend

import (
	"time"

	"github.com/xraph/mint/id"
	"github.com/xraph/mint/types"
)

// Dividend is one distribution of a revenue pool across stakers.
type Dividend struct {
	types.Entity
	ID          id.DividendID `json:"id"`
	TotalAmount int64         `json:"total_amount_sats"`
	TotalStaked int64         `json:"total_staked_at_distribution"`

	// PerToken is the floored rate TotalAmount/TotalStaked, kept as display
	// metadata. Claim amounts use exact pro-rata division, so PerToken times
	// a stake does not reproduce them.
	PerToken int64 `json:"per_token_sats"`

	// Distributed is the sum of all claim amounts. Floor rounding makes it
	// at most TotalAmount; the difference is Remainder.
	Distributed int64 `json:"distributed_sats"`

	// Remainder is the floor-rounding residual retained by the treasury
	// revenue pool rather than rolled into the next distribution.
	Remainder int64 `json:"remainder_sats"`

	SourceRef string `json:"source_ref,omitempty"`
}

type ClaimStatus string

const (
	ClaimPending ClaimStatus = "pending"
	ClaimClaimed ClaimStatus = "claimed"
)

// Claim is one holder's pro-rata share of a dividend, proportional to their
// staked balance at distribution time.
type Claim struct {
	ID         id.ClaimID    `json:"id"`
	DividendID id.DividendID `json:"dividend_id"`
	HolderID   id.HolderID   `json:"holder_id"`
	Amount     int64         `json:"amount_sats"`
	Status     ClaimStatus   `json:"status"`
	CreatedAt  time.Time     `json:"created_at"`
	ClaimedAt  *time.Time    `json:"claimed_at,omitempty"`
}
