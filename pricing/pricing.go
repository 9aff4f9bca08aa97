// Package pricing implements the pure pricing-curve calculator for Mint.
//
// Every function here is a pure function of its inputs: no state, no I/O,
// safe to call concurrently without locking. Prices are integer satoshis;
// fractional results always round up (a buyer never underpays by rounding).
package pricing

import (
	"errors"
	"fmt"
	"math"
)

// Model selects a pricing curve. The set is closed: every switch over Model
// handles all four values and fails on anything else.
type Model string

const (
	// ModelFixed prices every unit at BasePrice.
	ModelFixed Model = "fixed"

	// ModelSqrtDecay prices units inversely proportional to the square root
	// of the remaining treasury: price rises as the treasury depletes.
	ModelSqrtDecay Model = "sqrt_decay"

	// ModelLinearDecay scales BasePrice linearly with the sold fraction of
	// the initial treasury.
	ModelLinearDecay Model = "linear_decay"

	// ModelAliceBond is an ascending linear bonding curve: the unit price at
	// queue position n is c*n, with c calibrated so the first 1% of supply
	// costs a configured amount.
	ModelAliceBond Model = "alice_bond"
)

// Pricing errors.
var (
	ErrUnknownModel  = errors.New("pricing: unknown pricing model")
	ErrInvalidParams = errors.New("pricing: invalid parameters")
)

// ParseModel parses a model name.
func ParseModel(s string) (Model, error) {
	switch Model(s) {
	case ModelFixed, ModelSqrtDecay, ModelLinearDecay, ModelAliceBond:
		return Model(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownModel, s)
	}
}

// Params carries the inputs a pricing model needs. Not every model reads
// every field; Validate reports which fields a given model requires.
type Params struct {
	// BasePrice is the base unit price in sats (fixed, sqrt_decay, linear_decay).
	BasePrice int64

	// TreasuryRemaining is the number of unsold tokens left in the treasury.
	TreasuryRemaining int64

	// InitialTreasury is the treasury size at launch (linear_decay, Schedule).
	InitialTreasury int64

	// DecayFactor scales the linear_decay premium as the treasury depletes.
	DecayFactor float64

	// TotalSupply is the total token supply (alice_bond).
	TotalSupply int64

	// OnePercentCost is the configured cost of the first 1% of supply, in the
	// spend unit (alice_bond calibration).
	OnePercentCost int64

	// Sold is the number of tokens already sold (alice_bond queue position).
	Sold int64
}

// Validate checks that the params carry what the model needs.
func (p Params) Validate(model Model) error {
	if p.TreasuryRemaining < 0 {
		return fmt.Errorf("%w: treasury remaining %d is negative", ErrInvalidParams, p.TreasuryRemaining)
	}

	switch model {
	case ModelFixed, ModelSqrtDecay:
		if p.BasePrice < 0 {
			return fmt.Errorf("%w: base price %d is negative", ErrInvalidParams, p.BasePrice)
		}
	case ModelLinearDecay:
		if p.BasePrice < 0 {
			return fmt.Errorf("%w: base price %d is negative", ErrInvalidParams, p.BasePrice)
		}
		if p.InitialTreasury <= 0 {
			return fmt.Errorf("%w: initial treasury %d must be positive", ErrInvalidParams, p.InitialTreasury)
		}
	case ModelAliceBond:
		if p.TotalSupply <= 0 {
			return fmt.Errorf("%w: total supply %d must be positive", ErrInvalidParams, p.TotalSupply)
		}
		if p.OnePercentCost <= 0 {
			return fmt.Errorf("%w: one-percent cost %d must be positive", ErrInvalidParams, p.OnePercentCost)
		}
		if p.Sold < 0 {
			return fmt.Errorf("%w: sold %d is negative", ErrInvalidParams, p.Sold)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownModel, model)
	}

	return nil
}

// bondCoefficient returns the alice_bond slope c, calibrated so that the
// first 1% of total supply costs OnePercentCost:
//
//	c = 2*onePercentCost / (0.01*totalSupply)^2
func (p Params) bondCoefficient() float64 {
	onePercent := 0.01 * float64(p.TotalSupply)
	return 2 * float64(p.OnePercentCost) / (onePercent * onePercent)
}

// UnitPrice returns the price of the next single unit under the model.
func UnitPrice(model Model, p Params) (int64, error) {
	if err := p.Validate(model); err != nil {
		return 0, err
	}
	return unitPriceAt(model, p, p.TreasuryRemaining, p.Sold), nil
}

// unitPriceAt computes the next-unit price with the treasury/sold position
// overridden. Callers must have validated params already.
func unitPriceAt(model Model, p Params, remaining, sold int64) int64 {
	switch model {
	case ModelFixed:
		return p.BasePrice
	case ModelSqrtDecay:
		return ceilInt64(float64(p.BasePrice) / math.Sqrt(float64(remaining)+1))
	case ModelLinearDecay:
		soldFraction := 1 - float64(remaining)/float64(p.InitialTreasury)
		return ceilInt64(float64(p.BasePrice) * (1 + soldFraction*p.DecayFactor))
	case ModelAliceBond:
		return ceilInt64(p.bondCoefficient() * float64(sold+1))
	default:
		// Validate rejects unknown models before we get here.
		panic(fmt.Sprintf("pricing: unhandled model %q", model))
	}
}

// TotalCost returns the cost of buying count units, with each purchased unit
// shrinking the treasury before the next unit is priced. alice_bond uses its
// closed-form integral instead of the unit walk.
func TotalCost(model Model, p Params, count int64) (int64, error) {
	if err := p.Validate(model); err != nil {
		return 0, err
	}
	if count < 0 {
		return 0, fmt.Errorf("%w: count %d is negative", ErrInvalidParams, count)
	}
	if count > p.TreasuryRemaining {
		return 0, fmt.Errorf("%w: count %d exceeds remaining treasury %d",
			ErrInvalidParams, count, p.TreasuryRemaining)
	}

	switch model {
	case ModelFixed:
		return p.BasePrice * count, nil
	case ModelAliceBond:
		c := p.bondCoefficient()
		s := float64(p.Sold)
		n := float64(count)
		return ceilInt64(c * ((s+n)*(s+n) - s*s) / 2), nil
	case ModelSqrtDecay, ModelLinearDecay:
		var total int64
		for i := int64(0); i < count; i++ {
			total += unitPriceAt(model, p, p.TreasuryRemaining-i, p.Sold+i)
		}
		return total, nil
	default:
		panic(fmt.Sprintf("pricing: unhandled model %q", model))
	}
}

// Quote is the result of a spend-driven purchase calculation.
type Quote struct {
	TokenCount    int64 `json:"token_count"`
	TotalCost     int64 `json:"total_cost"`
	AvgPrice      int64 `json:"avg_price"`
	RemainingSats int64 `json:"remaining_sats"`
}

// TokensForSpend computes how many whole units a budget buys. Units are
// priced greedily: the next unit's price is checked against the remaining
// budget and the walk stops at the first unaffordable unit or when the
// treasury is exhausted. An unaffordable first unit yields a zero-token
// quote with the full spend returned, not an error.
func TokensForSpend(model Model, p Params, spendSats int64) (Quote, error) {
	if err := p.Validate(model); err != nil {
		return Quote{}, err
	}
	if spendSats < 0 {
		return Quote{}, fmt.Errorf("%w: spend %d is negative", ErrInvalidParams, spendSats)
	}

	if model == ModelAliceBond {
		return bondTokensForSpend(p, spendSats), nil
	}

	var (
		count     int64
		totalCost int64
		remaining = spendSats
	)
	for count < p.TreasuryRemaining {
		price := unitPriceAt(model, p, p.TreasuryRemaining-count, p.Sold+count)
		if price > remaining {
			break
		}
		remaining -= price
		totalCost += price
		count++
	}

	return quoteFor(count, totalCost, spendSats), nil
}

// bondTokensForSpend solves the alice_bond integral for the token count:
// tokens = floor(sqrt(s^2 + 2B/c) - s), clamped to the remaining treasury.
// The actual cost is the exact integral, never more than the budget.
func bondTokensForSpend(p Params, spendSats int64) Quote {
	c := p.bondCoefficient()
	s := float64(p.Sold)

	tokens := int64(math.Floor(math.Sqrt(s*s+2*float64(spendSats)/c) - s))
	if tokens < 0 {
		tokens = 0
	}
	if tokens > p.TreasuryRemaining {
		tokens = p.TreasuryRemaining
	}
	if tokens == 0 {
		return Quote{RemainingSats: spendSats}
	}

	n := float64(tokens)
	cost := int64(math.Floor(c * ((s+n)*(s+n) - s*s) / 2))
	if cost > spendSats {
		// Floor rounding can land one unit over budget at curve edges.
		tokens--
		n = float64(tokens)
		cost = int64(math.Floor(c * ((s+n)*(s+n) - s*s) / 2))
	}
	if tokens == 0 {
		return Quote{RemainingSats: spendSats}
	}

	return quoteFor(tokens, cost, spendSats)
}

func quoteFor(count, totalCost, spend int64) Quote {
	q := Quote{
		TokenCount:    count,
		TotalCost:     totalCost,
		RemainingSats: spend - totalCost,
	}
	if count > 0 {
		q.AvgPrice = totalCost / count
	}
	return q
}

// SchedulePoint is the unit price at a treasury-remaining checkpoint.
type SchedulePoint struct {
	PercentRemaining  float64 `json:"percent_remaining"`
	TreasuryRemaining int64   `json:"treasury_remaining"`
	UnitPrice         int64   `json:"unit_price"`
}

// scheduleCheckpoints are the descending treasury-remaining levels, as
// percentages of the initial treasury, disclosed to buyers.
var scheduleCheckpoints = []float64{100, 80, 60, 40, 20, 10, 5, 2, 1, 0.1, 0.01}

// Schedule returns the unit price at fixed treasury-remaining checkpoints.
// It is a disclosure aid for buyers, not a transactional price source.
func Schedule(model Model, p Params) ([]SchedulePoint, error) {
	if err := p.Validate(model); err != nil {
		return nil, err
	}

	initial := p.InitialTreasury
	if initial <= 0 {
		initial = p.TreasuryRemaining
	}

	points := make([]SchedulePoint, 0, len(scheduleCheckpoints))
	for _, pct := range scheduleCheckpoints {
		remaining := int64(float64(initial) * pct / 100)
		sold := initial - remaining
		points = append(points, SchedulePoint{
			PercentRemaining:  pct,
			TreasuryRemaining: remaining,
			UnitPrice:         unitPriceAt(model, p, remaining, sold),
		})
	}
	return points, nil
}

// ceilInt64 rounds a non-negative float up to the nearest int64.
func ceilInt64(v float64) int64 {
	return int64(math.Ceil(v))
}
