package types

import (
	"encoding/json"
	"testing"
)

func TestMoneyConstructors(t *testing.T) {
	tests := []struct {
		name     string
		money    Money
		amount   int64
		currency string
		display  string
	}{
		{"SAT", SAT(10000), 10000, "sat", "10000 sats"},
		{"USD", USD(4900), 4900, "usd", "$49.00"},
		{"Zero sat", Zero("sat"), 0, "sat", "0 sats"},
		{"Zero USD", Zero("USD"), 0, "usd", "$0.00"},
		{"Negative sats", SAT(-500), -500, "sat", "-500 sats"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.money.Amount != tt.amount {
				t.Errorf("Amount: got %d, want %d", tt.money.Amount, tt.amount)
			}
			if tt.money.Currency != tt.currency {
				t.Errorf("Currency: got %s, want %s", tt.money.Currency, tt.currency)
			}
			if tt.money.String() != tt.display {
				t.Errorf("Display: got %s, want %s", tt.money.String(), tt.display)
			}
		})
	}
}

func TestMoneyArithmetic(t *testing.T) {
	tests := []struct {
		name     string
		op       func() Money
		expected Money
	}{
		{"Add", func() Money { return SAT(100).Add(SAT(200)) }, SAT(300)},
		{"Subtract", func() Money { return SAT(500).Subtract(SAT(200)) }, SAT(300)},
		{"Multiply", func() Money { return SAT(100).Multiply(3) }, SAT(300)},
		{"Divide floors", func() Money { return SAT(1000).Divide(3) }, SAT(333)},
		{"Negate", func() Money { return SAT(100).Negate() }, SAT(-100)},
		{"Abs positive", func() Money { return SAT(100).Abs() }, SAT(100)},
		{"Abs negative", func() Money { return SAT(-100).Abs() }, SAT(100)},
		{"Complex", func() Money {
			return SAT(1000).Add(SAT(500)).Multiply(2).Subtract(SAT(1000))
		}, SAT(2000)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.op()
			if !result.Equal(tt.expected) {
				t.Errorf("Got %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestMoneyComparison(t *testing.T) {
	if !SAT(100).LessThan(SAT(200)) {
		t.Error("expected 100 < 200")
	}
	if !SAT(200).GreaterThan(SAT(100)) {
		t.Error("expected 200 > 100")
	}
	if !SAT(100).Min(SAT(200)).Equal(SAT(100)) {
		t.Error("Min mismatch")
	}
	if !SAT(100).Max(SAT(200)).Equal(SAT(200)) {
		t.Error("Max mismatch")
	}
	if !Zero("sat").IsZero() {
		t.Error("expected zero")
	}
}

func TestMoneyCurrencyMismatch(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("Expected panic for currency mismatch")
		}
	}()

	// This should panic
	_ = SAT(100).Add(USD(100))
}

func TestMoneyDivisionByZero(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("Expected panic for division by zero")
		}
	}()

	_ = SAT(100).Divide(0)
}

func TestMoneySum(t *testing.T) {
	total := Sum(SAT(100), SAT(200), SAT(300))
	if !total.Equal(SAT(600)) {
		t.Errorf("Sum: got %v, want %v", total, SAT(600))
	}

	empty := Sum()
	if !empty.IsZero() || empty.Currency != CurrencySat {
		t.Errorf("empty Sum: got %v", empty)
	}
}

func TestMoneyJSON(t *testing.T) {
	data, err := json.Marshal(SAT(10000))
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	if decoded["amount"].(float64) != 10000 {
		t.Errorf("amount: got %v", decoded["amount"])
	}
	if decoded["currency"] != "sat" {
		t.Errorf("currency: got %v", decoded["currency"])
	}
	if decoded["display"] != "10000 sats" {
		t.Errorf("display: got %v", decoded["display"])
	}
}
