// Package treasury holds the singleton pool of unsold tokens.
package treasury

import (
	"github.com/xraph/mint/types"
)

// Treasury is the singleton aggregate of tokens remaining for sale. Its
// balance decreases exactly as confirmed purchases increase holder balances,
// so treasury.Balance + sum of holder balances always equals TotalSupply.
type Treasury struct {
	types.Entity
	TotalSupply  int64       `json:"total_supply"`
	Balance      int64       `json:"balance"`
	TotalSold    int64       `json:"total_sold"`
	TotalRevenue types.Money `json:"total_revenue"`
}

// New returns a fresh treasury holding the entire supply.
func New(totalSupply int64) *Treasury {
	return &Treasury{
		Entity:       types.NewEntity(),
		TotalSupply:  totalSupply,
		Balance:      totalSupply,
		TotalRevenue: types.SAT(0),
	}
}

// SoldFraction returns how much of the supply has been sold, in [0, 1].
func (t *Treasury) SoldFraction() float64 {
	if t.TotalSupply == 0 {
		return 0
	}
	return float64(t.TotalSold) / float64(t.TotalSupply)
}
