package pricing

import (
	"testing"
)

func TestParseModel(t *testing.T) {
	for _, name := range []string{"fixed", "sqrt_decay", "linear_decay", "alice_bond"} {
		t.Run(name, func(t *testing.T) {
			m, err := ParseModel(name)
			if err != nil {
				t.Fatalf("ParseModel(%q) failed: %v", name, err)
			}
			if string(m) != name {
				t.Errorf("got %q, want %q", m, name)
			}
		})
	}

	if _, err := ParseModel("bancor"); err == nil {
		t.Error("expected error for unknown model")
	}
}

func TestUnitPriceFixed(t *testing.T) {
	price, err := UnitPrice(ModelFixed, Params{BasePrice: 500, TreasuryRemaining: 1000})
	if err != nil {
		t.Fatal(err)
	}
	if price != 500 {
		t.Errorf("got %d, want 500", price)
	}
}

func TestUnitPriceSqrtDecay(t *testing.T) {
	tests := []struct {
		name      string
		basePrice int64
		remaining int64
		want      int64
	}{
		// 223610/sqrt(500000001) = 10.00014..., rounded up
		{"half-billion treasury", 223610, 500_000_000, 11},
		// 1000/sqrt(1) = 1000
		{"empty treasury", 1000, 0, 1000},
		// 1000/sqrt(100) = 100
		{"99 remaining", 1000, 99, 100},
		// 1000/sqrt(10001) = 9.99..., rounded up
		{"10000 remaining", 1000, 10_000, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			price, err := UnitPrice(ModelSqrtDecay, Params{
				BasePrice:         tt.basePrice,
				TreasuryRemaining: tt.remaining,
			})
			if err != nil {
				t.Fatal(err)
			}
			if price != tt.want {
				t.Errorf("got %d, want %d", price, tt.want)
			}
		})
	}
}

// Price must never fall as the treasury depletes: for any remaining1 >
// remaining2, price(remaining1) <= price(remaining2).
func TestSqrtDecayMonotonic(t *testing.T) {
	p := Params{BasePrice: 223610}

	prev := int64(0)
	for _, remaining := range []int64{500_000_000, 1_000_000, 10_000, 500, 100, 10, 1, 0} {
		p.TreasuryRemaining = remaining
		price, err := UnitPrice(ModelSqrtDecay, p)
		if err != nil {
			t.Fatal(err)
		}
		if price < prev {
			t.Fatalf("price fell from %d to %d as treasury depleted to %d", prev, price, remaining)
		}
		prev = price
	}
}

func TestUnitPriceLinearDecay(t *testing.T) {
	tests := []struct {
		name      string
		remaining int64
		want      int64
	}{
		{"full treasury", 1000, 100},  // sold fraction 0 -> base price
		{"half treasury", 500, 150},   // 100 * (1 + 0.5*1.0)
		{"empty treasury", 0, 200},    // 100 * (1 + 1.0*1.0)
		{"quarter sold", 750, 125},    // 100 * (1 + 0.25*1.0)
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			price, err := UnitPrice(ModelLinearDecay, Params{
				BasePrice:         100,
				InitialTreasury:   1000,
				TreasuryRemaining: tt.remaining,
				DecayFactor:       1.0,
			})
			if err != nil {
				t.Fatal(err)
			}
			if price != tt.want {
				t.Errorf("got %d, want %d", price, tt.want)
			}
		})
	}
}

// Buying with the one-percent calibration budget at sold=0 must award close
// to 1% of supply without ever exceeding the budget.
func TestAliceBondCalibration(t *testing.T) {
	p := Params{
		TotalSupply:       1_000_000_000,
		TreasuryRemaining: 1_000_000_000,
		OnePercentCost:    1000,
		Sold:              0,
	}

	q, err := TokensForSpend(ModelAliceBond, p, 1000)
	if err != nil {
		t.Fatal(err)
	}

	onePercent := p.TotalSupply / 100
	if q.TokenCount != onePercent {
		t.Errorf("token count: got %d, want %d", q.TokenCount, onePercent)
	}
	if q.TotalCost > 1000 {
		t.Errorf("cost %d exceeds budget 1000", q.TotalCost)
	}
	if q.RemainingSats != 1000-q.TotalCost {
		t.Errorf("remaining %d inconsistent with cost %d", q.RemainingSats, q.TotalCost)
	}
}

// Later buyers on the bonding curve pay strictly more per token.
func TestAliceBondAscending(t *testing.T) {
	p := Params{
		TotalSupply:       1_000_000_000,
		TreasuryRemaining: 1_000_000_000,
		OnePercentCost:    1000,
	}

	p.Sold = 0
	early, err := TokensForSpend(ModelAliceBond, p, 1000)
	if err != nil {
		t.Fatal(err)
	}

	p.Sold = early.TokenCount
	p.TreasuryRemaining -= early.TokenCount
	late, err := TokensForSpend(ModelAliceBond, p, 1000)
	if err != nil {
		t.Fatal(err)
	}

	if late.TokenCount >= early.TokenCount {
		t.Errorf("later buyer got %d tokens, early buyer got %d; curve should ascend",
			late.TokenCount, early.TokenCount)
	}
	if late.TotalCost > 1000 {
		t.Errorf("cost %d exceeds budget", late.TotalCost)
	}
}

func TestAliceBondClampedToRemaining(t *testing.T) {
	p := Params{
		TotalSupply:       1_000_000_000,
		TreasuryRemaining: 100, // nearly sold out
		OnePercentCost:    1000,
		Sold:              999_999_900,
	}

	q, err := TokensForSpend(ModelAliceBond, p, 1_000_000_000)
	if err != nil {
		t.Fatal(err)
	}
	if q.TokenCount > 100 {
		t.Errorf("awarded %d tokens with only 100 remaining", q.TokenCount)
	}
}

func TestTotalCost(t *testing.T) {
	t.Run("fixed", func(t *testing.T) {
		cost, err := TotalCost(ModelFixed, Params{BasePrice: 10, TreasuryRemaining: 100}, 7)
		if err != nil {
			t.Fatal(err)
		}
		if cost != 70 {
			t.Errorf("got %d, want 70", cost)
		}
	})

	t.Run("sqrt_decay walks the treasury down", func(t *testing.T) {
		p := Params{BasePrice: 1000, TreasuryRemaining: 50}
		cost, err := TotalCost(ModelSqrtDecay, p, 3)
		if err != nil {
			t.Fatal(err)
		}

		var want int64
		for i := int64(0); i < 3; i++ {
			unit, err := UnitPrice(ModelSqrtDecay, Params{BasePrice: 1000, TreasuryRemaining: 50 - i})
			if err != nil {
				t.Fatal(err)
			}
			want += unit
		}
		if cost != want {
			t.Errorf("got %d, want %d", cost, want)
		}
	})

	t.Run("count exceeding treasury rejected", func(t *testing.T) {
		_, err := TotalCost(ModelFixed, Params{BasePrice: 10, TreasuryRemaining: 5}, 6)
		if err == nil {
			t.Error("expected error for count > remaining")
		}
	})
}

// Buying n units at their total cost must yield exactly n units back.
func TestTokensForSpendInverseOfTotalCost(t *testing.T) {
	models := []struct {
		model Model
		p     Params
	}{
		{ModelFixed, Params{BasePrice: 250, TreasuryRemaining: 100}},
		{ModelSqrtDecay, Params{BasePrice: 100_000, TreasuryRemaining: 80}},
		{ModelLinearDecay, Params{BasePrice: 500, InitialTreasury: 200, TreasuryRemaining: 150, DecayFactor: 2.0}},
	}

	for _, tc := range models {
		for _, n := range []int64{1, 5, 20} {
			cost, err := TotalCost(tc.model, tc.p, n)
			if err != nil {
				t.Fatal(err)
			}
			q, err := TokensForSpend(tc.model, tc.p, cost)
			if err != nil {
				t.Fatal(err)
			}
			if q.TokenCount != n {
				t.Errorf("%s: TokensForSpend(TotalCost(%d)=%d) = %d tokens", tc.model, n, cost, q.TokenCount)
			}
			if q.RemainingSats != 0 {
				t.Errorf("%s: expected exact spend, %d sats left over", tc.model, q.RemainingSats)
			}
		}
	}
}

func TestTokensForSpendEdgeCases(t *testing.T) {
	t.Run("first unit unaffordable returns zero quote", func(t *testing.T) {
		q, err := TokensForSpend(ModelFixed, Params{BasePrice: 100, TreasuryRemaining: 10}, 50)
		if err != nil {
			t.Fatal(err)
		}
		if q.TokenCount != 0 {
			t.Errorf("got %d tokens, want 0", q.TokenCount)
		}
		if q.RemainingSats != 50 {
			t.Errorf("got %d remaining, want full spend back", q.RemainingSats)
		}
	})

	t.Run("treasury exhaustion stops the walk", func(t *testing.T) {
		q, err := TokensForSpend(ModelFixed, Params{BasePrice: 10, TreasuryRemaining: 3}, 1000)
		if err != nil {
			t.Fatal(err)
		}
		if q.TokenCount != 3 {
			t.Errorf("got %d tokens, want 3", q.TokenCount)
		}
		if q.TotalCost != 30 || q.RemainingSats != 970 {
			t.Errorf("cost=%d remaining=%d, want 30/970", q.TotalCost, q.RemainingSats)
		}
	})

	t.Run("zero spend", func(t *testing.T) {
		q, err := TokensForSpend(ModelSqrtDecay, Params{BasePrice: 100, TreasuryRemaining: 10}, 0)
		if err != nil {
			t.Fatal(err)
		}
		if q.TokenCount != 0 || q.RemainingSats != 0 {
			t.Errorf("unexpected quote %+v", q)
		}
	})

	t.Run("negative spend rejected", func(t *testing.T) {
		if _, err := TokensForSpend(ModelFixed, Params{BasePrice: 100, TreasuryRemaining: 10}, -1); err == nil {
			t.Error("expected error for negative spend")
		}
	})
}

func TestSchedule(t *testing.T) {
	p := Params{BasePrice: 223610, InitialTreasury: 500_000_000, TreasuryRemaining: 500_000_000}

	points, err := Schedule(ModelSqrtDecay, p)
	if err != nil {
		t.Fatal(err)
	}
	if len(points) != 11 {
		t.Fatalf("got %d checkpoints, want 11", len(points))
	}
	if points[0].PercentRemaining != 100 || points[len(points)-1].PercentRemaining != 0.01 {
		t.Errorf("checkpoint bounds wrong: %v ... %v", points[0], points[len(points)-1])
	}

	// Prices never fall as the schedule descends.
	for i := 1; i < len(points); i++ {
		if points[i].UnitPrice < points[i-1].UnitPrice {
			t.Errorf("price fell from %d to %d at %.2f%% remaining",
				points[i-1].UnitPrice, points[i].UnitPrice, points[i].PercentRemaining)
		}
	}
}

func TestBreakeven(t *testing.T) {
	tests := []struct {
		name    string
		cost    int64
		revenue int64
		want    int64
	}{
		{"exact", 100, 10, 10},
		{"rounds up", 10, 3, 4},
		{"zero cost", 0, 5, 0},
		{"zero revenue is infinite", 10, 0, BreakevenInfinite},
		{"negative revenue is infinite", 10, -5, BreakevenInfinite},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Breakeven(tt.cost, tt.revenue); got != tt.want {
				t.Errorf("Breakeven(%d, %d) = %d, want %d", tt.cost, tt.revenue, got, tt.want)
			}
		})
	}
}

func TestROI(t *testing.T) {
	t.Run("zero cost yields zero percentages", func(t *testing.T) {
		r := ROI(0, 500, 100)
		if r.UnrealizedPct != 0 || r.TotalReturnPct != 0 {
			t.Errorf("expected zero percentages, got %+v", r)
		}
		if r.UnrealizedPnL != 500 {
			t.Errorf("PnL: got %d, want 500", r.UnrealizedPnL)
		}
	})

	t.Run("gain", func(t *testing.T) {
		r := ROI(100, 150, 25)
		if r.UnrealizedPnL != 50 {
			t.Errorf("PnL: got %d, want 50", r.UnrealizedPnL)
		}
		if r.UnrealizedPct != 50 {
			t.Errorf("unrealized: got %v, want 50", r.UnrealizedPct)
		}
		if r.TotalReturnPct != 75 {
			t.Errorf("total return: got %v, want 75", r.TotalReturnPct)
		}
	})

	t.Run("loss", func(t *testing.T) {
		r := ROI(200, 100, 0)
		if r.UnrealizedPnL != -100 {
			t.Errorf("PnL: got %d, want -100", r.UnrealizedPnL)
		}
		if r.UnrealizedPct != -50 {
			t.Errorf("unrealized: got %v, want -50", r.UnrealizedPct)
		}
	})
}
