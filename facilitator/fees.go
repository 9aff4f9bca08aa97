package facilitator

import (
	"sort"

	"github.com/xraph/mint/x402"
)

// ChainFee is one chain's settlement fee model: a percentage of the amount
// plus a flat base charge.
type ChainFee struct {
	// PercentBps is the settlement percentage in basis points.
	PercentBps int64

	// BaseFee is the flat per-settlement charge in sats.
	BaseFee int64
}

// Schedule holds the per-chain fee models and the flat inscription fee.
// The inscription fee is identical across estimates: proofs are always
// anchored on the primary chain.
type Schedule struct {
	InscriptionFee int64
	Chains         map[string]ChainFee
}

// DefaultSchedule returns the built-in fee schedule. The primary chain
// carries the lowest rates, which is what makes it the default settlement
// target.
func DefaultSchedule() Schedule {
	return Schedule{
		InscriptionFee: 50,
		Chains: map[string]ChainFee{
			x402.NetworkBSV: {PercentBps: 10, BaseFee: 1},
			"base":          {PercentBps: 30, BaseFee: 50},
			"ethereum":      {PercentBps: 100, BaseFee: 500},
			"solana":        {PercentBps: 20, BaseFee: 10},
		},
	}
}

// FeeFor computes the full fee for settling an amount on a network.
func (s Schedule) FeeFor(network string, amount int64) (x402.Fee, bool) {
	cf, ok := s.Chains[network]
	if !ok {
		return x402.Fee{}, false
	}
	settlement := ceilBps(amount, cf.PercentBps) + cf.BaseFee
	return x402.Fee{
		Settlement:  settlement,
		Inscription: s.InscriptionFee,
		Total:       settlement + s.InscriptionFee,
	}, true
}

// Estimates computes the fee for every chain in the schedule, cheapest
// first. The primary chain is always present as the routing baseline.
func (s Schedule) Estimates(amount int64) []x402.FeeEstimate {
	estimates := make([]x402.FeeEstimate, 0, len(s.Chains))
	for network := range s.Chains {
		fee, _ := s.FeeFor(network, amount)
		estimates = append(estimates, x402.FeeEstimate{Network: network, Fee: fee})
	}
	sort.Slice(estimates, func(i, j int) bool {
		if estimates[i].Fee.Total != estimates[j].Fee.Total {
			return estimates[i].Fee.Total < estimates[j].Fee.Total
		}
		return estimates[i].Network < estimates[j].Network
	})
	return estimates
}

// Compare builds the per-chain cost comparison for an amount.
func (s Schedule) Compare(amount int64) x402.CostComparison {
	estimates := s.Estimates(amount)
	cmp := x402.CostComparison{Estimates: estimates}
	if len(estimates) > 0 {
		cmp.Cheapest = estimates[0].Network
	}
	return cmp
}

// ceilBps computes ceil(amount * bps / 10000) without floating point.
func ceilBps(amount, bps int64) int64 {
	if amount <= 0 || bps <= 0 {
		return 0
	}
	return (amount*bps + 9999) / 10000
}
