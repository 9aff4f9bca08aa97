package stake

import (
	"time"

	"github.com/xraph/mint/id"
	"github.com/xraph/mint/types"
)

type Status string

const (
	StatusActive   Status = "active"
	StatusUnstaked Status = "unstaked"
)

// Stake is one staking event for a holder. A holder accumulates multiple
// stake records; partial unstaking reduces the amount of the most recently
// created active record rather than deleting it.
type Stake struct {
	types.Entity
	ID         id.StakeID  `json:"id"`
	HolderID   id.HolderID `json:"holder_id"`
	Amount     int64       `json:"amount"`
	Status     Status      `json:"status"`
	UnstakedAt *time.Time  `json:"unstaked_at,omitempty"`
}

// IsActive reports whether the stake still counts toward the holder's
// staked balance.
func (s *Stake) IsActive() bool { return s.Status == StatusActive }
