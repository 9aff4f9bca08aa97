package purchase

import (
	"github.com/xraph/mint/id"
	"github.com/xraph/mint/types"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusFailed    Status = "failed"
)

// Purchase records a buy intent and its settlement. It is created pending
// and transitions exactly once, to confirmed or failed.
type Purchase struct {
	types.Entity
	ID        id.PurchaseID `json:"id"`
	HolderID  id.HolderID   `json:"holder_id"`
	Amount    int64         `json:"amount"`     // tokens bought
	PriceSats int64         `json:"price_sats"` // average unit price paid
	TotalPaid int64         `json:"total_paid_sats"`
	Status    Status        `json:"status"`
	TxID      string        `json:"tx_id,omitempty"` // settlement proof reference
}

// IsPending reports whether the purchase can still transition.
func (p *Purchase) IsPending() bool { return p.Status == StatusPending }
