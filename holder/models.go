package holder

import (
	"fmt"
	"strings"

	"github.com/xraph/mint/id"
	"github.com/xraph/mint/types"
)

// Identity is the provider-scoped identity a holder is keyed by. The
// provider namespaces the handle: the same handle on two providers is two
// different holders.
type Identity struct {
	Provider string `json:"provider"`
	Handle   string `json:"handle"`
}

// Key returns the unique lookup key for this identity.
func (i Identity) Key() string {
	return strings.ToLower(i.Provider) + ":" + i.Handle
}

// Validate checks that both parts are present.
func (i Identity) Validate() error {
	if i.Provider == "" {
		return fmt.Errorf("holder: identity provider is empty")
	}
	if i.Handle == "" {
		return fmt.Errorf("holder: identity handle is empty")
	}
	return nil
}

// Holder is a token owner. Holders are created on first purchase or explicit
// registration and are never deleted, only zeroed.
//
// Balance is the total owned, staked tokens included. StakedBalance marks the
// locked portion of that balance and never exceeds it.
type Holder struct {
	types.Entity
	ID                   id.HolderID `json:"id"`
	Identity             Identity    `json:"identity"`
	Balance              int64       `json:"balance"`
	StakedBalance        int64       `json:"staked_balance"`
	TotalPurchased       int64       `json:"total_purchased"`
	TotalWithdrawn       int64       `json:"total_withdrawn"`
	TotalDividendsEarned int64       `json:"total_dividends_earned"`
}

// Available returns the unstaked portion of the balance, which is what a
// new stake draws from.
func (h *Holder) Available() int64 {
	return h.Balance - h.StakedBalance
}

// CapEntry is one row of the cap table: a holder and their share of the
// total supply. Balance is the holder's total; Staked is the locked part
// of it.
type CapEntry struct {
	HolderID   id.HolderID `json:"holder_id"`
	Identity   Identity    `json:"identity"`
	Balance    int64       `json:"balance"`
	Staked     int64       `json:"staked"`
	Percentage float64     `json:"percentage"`
}
