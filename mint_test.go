package mint_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/xraph/mint"
	"github.com/xraph/mint/holder"
	"github.com/xraph/mint/pricing"
	"github.com/xraph/mint/store/memory"
)

func newEngine(t *testing.T, opts ...mint.Option) *mint.Engine {
	t.Helper()
	e := mint.New(memory.New(), opts...)
	if err := e.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	t.Cleanup(func() {
		if err := e.Stop(); err != nil {
			t.Errorf("Stop failed: %v", err)
		}
	})
	return e
}

func identity(handle string) holder.Identity {
	return holder.Identity{Provider: "handcash", Handle: handle}
}

func TestGetOrCreateHolderIdempotent(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t)

	first, err := e.GetOrCreateHolder(ctx, identity("alice"))
	if err != nil {
		t.Fatalf("first call failed: %v", err)
	}
	second, err := e.GetOrCreateHolder(ctx, identity("alice"))
	if err != nil {
		t.Fatalf("second call failed: %v", err)
	}
	if first.ID != second.ID {
		t.Errorf("same identity produced two holders: %s and %s", first.ID, second.ID)
	}
}

func TestGetOrCreateHolderRejectsEmptyIdentity(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t)

	if _, err := e.GetOrCreateHolder(ctx, holder.Identity{}); err == nil {
		t.Error("expected error for empty identity")
	}
}

// Tokens are conserved: holder balances plus the treasury always sum to the
// total supply, whatever sequence of operations ran.
func TestSupplyConservation(t *testing.T) {
	ctx := context.Background()
	const supply = 10_000
	e := newEngine(t, mint.WithTotalSupply(supply), mint.WithPricing(pricing.ModelFixed, 10))

	alice, err := e.GetOrCreateHolder(ctx, identity("alice"))
	if err != nil {
		t.Fatalf("GetOrCreateHolder failed: %v", err)
	}
	bob, err := e.GetOrCreateHolder(ctx, identity("bob"))
	if err != nil {
		t.Fatalf("GetOrCreateHolder failed: %v", err)
	}

	if _, err := e.ProcessImmediate(ctx, alice.ID, 3000, 10, "tx-a"); err != nil {
		t.Fatalf("ProcessImmediate failed: %v", err)
	}
	if _, err := e.ProcessImmediate(ctx, bob.ID, 1500, 10, "tx-b"); err != nil {
		t.Fatalf("ProcessImmediate failed: %v", err)
	}
	if _, err := e.Stake(ctx, alice.ID, 2000); err != nil {
		t.Fatalf("Stake failed: %v", err)
	}
	if err := e.Unstake(ctx, alice.ID, 500); err != nil {
		t.Fatalf("Unstake failed: %v", err)
	}

	entries, err := e.CapTable(ctx)
	if err != nil {
		t.Fatalf("CapTable failed: %v", err)
	}
	var held int64
	for _, entry := range entries {
		held += entry.Balance
	}
	if held != 4500 {
		t.Errorf("held tokens = %d, want 4500", held)
	}

	a, _ := e.GetHolder(ctx, alice.ID)
	if a.Balance != 3000 || a.StakedBalance != 1500 {
		t.Errorf("alice balance=%d staked=%d, want 3000/1500", a.Balance, a.StakedBalance)
	}
}

// Staking marks tokens locked without moving them out of the balance, so the
// staked balance can never exceed the balance.
func TestStakeKeepsBalanceWhole(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t, mint.WithTotalSupply(1000), mint.WithPricing(pricing.ModelFixed, 10))

	alice, err := e.GetOrCreateHolder(ctx, identity("alice"))
	if err != nil {
		t.Fatalf("GetOrCreateHolder failed: %v", err)
	}
	if _, err := e.ProcessImmediate(ctx, alice.ID, 100, 10, "tx"); err != nil {
		t.Fatalf("ProcessImmediate failed: %v", err)
	}
	if _, err := e.Stake(ctx, alice.ID, 95); err != nil {
		t.Fatalf("Stake failed: %v", err)
	}

	a, _ := e.GetHolder(ctx, alice.ID)
	if a.Balance != 100 || a.StakedBalance != 95 {
		t.Fatalf("balance=%d staked=%d, want 100/95", a.Balance, a.StakedBalance)
	}
	if a.StakedBalance > a.Balance {
		t.Errorf("staked %d exceeds balance %d", a.StakedBalance, a.Balance)
	}
	if a.Available() != 5 {
		t.Errorf("available = %d, want 5", a.Available())
	}

	// A second stake draws only from the unstaked portion.
	if _, err := e.Stake(ctx, alice.ID, 6); !errors.Is(err, mint.ErrInsufficientFunds) {
		t.Fatalf("over-stake error = %v, want ErrInsufficientFunds", err)
	}
	var amountErr *mint.AmountError
	if _, err := e.Stake(ctx, alice.ID, 6); !errors.As(err, &amountErr) {
		t.Fatal("over-stake error does not carry amounts")
	} else if amountErr.Available != 5 {
		t.Errorf("available in error = %d, want 5", amountErr.Available)
	}
	if _, err := e.Stake(ctx, alice.ID, 5); err != nil {
		t.Fatalf("stake of exact remainder failed: %v", err)
	}
}

func TestConfirmPurchaseIdempotent(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t, mint.WithTotalSupply(1000), mint.WithPricing(pricing.ModelFixed, 10))

	alice, err := e.GetOrCreateHolder(ctx, identity("alice"))
	if err != nil {
		t.Fatalf("GetOrCreateHolder failed: %v", err)
	}
	p, err := e.CreatePurchase(ctx, alice.ID, 100, 10)
	if err != nil {
		t.Fatalf("CreatePurchase failed: %v", err)
	}

	confirmed, err := e.ConfirmPurchase(ctx, p.ID, "tx1")
	if err != nil {
		t.Fatalf("first confirm failed: %v", err)
	}
	if !confirmed {
		t.Fatal("first confirm returned false")
	}

	confirmed, err = e.ConfirmPurchase(ctx, p.ID, "tx2")
	if err != nil {
		t.Fatalf("second confirm errored: %v", err)
	}
	if confirmed {
		t.Error("second confirm returned true, want false")
	}

	// The holder is credited exactly once.
	a, _ := e.GetHolder(ctx, alice.ID)
	if a.Balance != 100 {
		t.Errorf("balance = %d after double confirm, want 100", a.Balance)
	}
}

func TestCreatePurchaseRejectsOversell(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t, mint.WithTotalSupply(100), mint.WithPricing(pricing.ModelFixed, 10))

	alice, err := e.GetOrCreateHolder(ctx, identity("alice"))
	if err != nil {
		t.Fatalf("GetOrCreateHolder failed: %v", err)
	}

	_, err = e.CreatePurchase(ctx, alice.ID, 101, 10)
	if !errors.Is(err, mint.ErrInsufficientSupply) {
		t.Fatalf("error = %v, want ErrInsufficientSupply", err)
	}
	var amountErr *mint.AmountError
	if !errors.As(err, &amountErr) {
		t.Fatal("error does not carry amounts")
	}
	if amountErr.Requested != 101 || amountErr.Available != 100 {
		t.Errorf("amounts = %d/%d, want 101/100", amountErr.Requested, amountErr.Available)
	}
}

// Two confirms racing for more than the remaining supply: one wins, one
// fails, and the treasury never goes negative.
func TestConcurrentConfirmNeverOversells(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t, mint.WithTotalSupply(100), mint.WithPricing(pricing.ModelFixed, 10))

	alice, err := e.GetOrCreateHolder(ctx, identity("alice"))
	if err != nil {
		t.Fatalf("GetOrCreateHolder failed: %v", err)
	}
	p1, err := e.CreatePurchase(ctx, alice.ID, 70, 10)
	if err != nil {
		t.Fatalf("CreatePurchase failed: %v", err)
	}
	p2, err := e.CreatePurchase(ctx, alice.ID, 70, 10)
	if err != nil {
		t.Fatalf("CreatePurchase failed: %v", err)
	}

	var wg sync.WaitGroup
	results := make([]error, 2)
	oks := make([]bool, 2)
	for i, pid := range []mint.PurchaseID{p1.ID, p2.ID} {
		wg.Add(1)
		go func(i int, pid mint.PurchaseID) {
			defer wg.Done()
			oks[i], results[i] = e.ConfirmPurchase(ctx, pid, "tx")
		}(i, pid)
	}
	wg.Wait()

	var wins, losses int
	for i := range results {
		switch {
		case results[i] == nil && oks[i]:
			wins++
		case errors.Is(results[i], mint.ErrInsufficientSupply):
			losses++
		default:
			t.Fatalf("unexpected result ok=%v err=%v", oks[i], results[i])
		}
	}
	if wins != 1 || losses != 1 {
		t.Errorf("wins=%d losses=%d, want 1/1", wins, losses)
	}

	a, _ := e.GetHolder(ctx, alice.ID)
	if a.Balance != 70 {
		t.Errorf("balance = %d, want 70", a.Balance)
	}
}

func TestStakeRejectsOverdraw(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t, mint.WithTotalSupply(1000), mint.WithPricing(pricing.ModelFixed, 10))

	alice, err := e.GetOrCreateHolder(ctx, identity("alice"))
	if err != nil {
		t.Fatalf("GetOrCreateHolder failed: %v", err)
	}
	if _, err := e.ProcessImmediate(ctx, alice.ID, 100, 10, "tx"); err != nil {
		t.Fatalf("ProcessImmediate failed: %v", err)
	}

	if _, err := e.Stake(ctx, alice.ID, 101); !errors.Is(err, mint.ErrInsufficientFunds) {
		t.Fatalf("error = %v, want ErrInsufficientFunds", err)
	}

	a, _ := e.GetHolder(ctx, alice.ID)
	if a.Balance != 100 || a.StakedBalance != 0 {
		t.Errorf("balances mutated by rejected stake: %d/%d", a.Balance, a.StakedBalance)
	}
}

func TestUnstakeLIFO(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t, mint.WithTotalSupply(1000), mint.WithPricing(pricing.ModelFixed, 10))

	alice, err := e.GetOrCreateHolder(ctx, identity("alice"))
	if err != nil {
		t.Fatalf("GetOrCreateHolder failed: %v", err)
	}
	if _, err := e.ProcessImmediate(ctx, alice.ID, 600, 10, "tx"); err != nil {
		t.Fatalf("ProcessImmediate failed: %v", err)
	}

	for _, amt := range []int64{100, 200, 50} {
		if _, err := e.Stake(ctx, alice.ID, amt); err != nil {
			t.Fatalf("Stake(%d) failed: %v", amt, err)
		}
	}

	if err := e.Unstake(ctx, alice.ID, 120); err != nil {
		t.Fatalf("Unstake failed: %v", err)
	}

	active, err := e.ListActiveStakes(ctx, alice.ID)
	if err != nil {
		t.Fatalf("ListActiveStakes failed: %v", err)
	}
	if len(active) != 2 {
		t.Fatalf("active stakes = %d, want 2", len(active))
	}
	// Newest-first consumption: the 50 stake is gone, the 200 stake shrank.
	if active[0].Amount != 130 || active[1].Amount != 100 {
		t.Errorf("stakes = [%d %d], want [130 100]", active[0].Amount, active[1].Amount)
	}
}

func TestDistributeDividends(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t, mint.WithTotalSupply(1000), mint.WithPricing(pricing.ModelFixed, 10))

	alice, err := e.GetOrCreateHolder(ctx, identity("alice"))
	if err != nil {
		t.Fatalf("GetOrCreateHolder failed: %v", err)
	}
	bob, err := e.GetOrCreateHolder(ctx, identity("bob"))
	if err != nil {
		t.Fatalf("GetOrCreateHolder failed: %v", err)
	}
	if _, err := e.ProcessImmediate(ctx, alice.ID, 100, 10, "tx-a"); err != nil {
		t.Fatalf("ProcessImmediate failed: %v", err)
	}
	if _, err := e.ProcessImmediate(ctx, bob.ID, 100, 10, "tx-b"); err != nil {
		t.Fatalf("ProcessImmediate failed: %v", err)
	}
	if _, err := e.Stake(ctx, alice.ID, 5); err != nil {
		t.Fatalf("Stake failed: %v", err)
	}
	if _, err := e.Stake(ctx, bob.ID, 95); err != nil {
		t.Fatalf("Stake failed: %v", err)
	}

	// Alice staked 5 of 100: 1000 * 5/100 = 50.
	d, err := e.DistributeDividends(ctx, 1000, "revenue-2024-06")
	if err != nil {
		t.Fatalf("DistributeDividends failed: %v", err)
	}
	if d.TotalStaked != 100 {
		t.Errorf("total staked = %d, want 100", d.TotalStaked)
	}
	if d.Distributed+d.Remainder != d.TotalAmount {
		t.Errorf("distributed %d + remainder %d != total %d", d.Distributed, d.Remainder, d.TotalAmount)
	}

	got, err := e.ClaimDividends(ctx, alice.ID)
	if err != nil {
		t.Fatalf("ClaimDividends failed: %v", err)
	}
	if got != 50 {
		t.Errorf("alice claimed %d, want 50", got)
	}

	// Re-claim yields nothing.
	again, err := e.ClaimDividends(ctx, alice.ID)
	if err != nil {
		t.Fatalf("second ClaimDividends failed: %v", err)
	}
	if again != 0 {
		t.Errorf("re-claim = %d, want 0", again)
	}
}

func TestDistributeDividendsFloorsShares(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t, mint.WithTotalSupply(1000), mint.WithPricing(pricing.ModelFixed, 10))

	alice, err := e.GetOrCreateHolder(ctx, identity("alice"))
	if err != nil {
		t.Fatalf("GetOrCreateHolder failed: %v", err)
	}
	bob, err := e.GetOrCreateHolder(ctx, identity("bob"))
	if err != nil {
		t.Fatalf("GetOrCreateHolder failed: %v", err)
	}
	if _, err := e.ProcessImmediate(ctx, alice.ID, 10, 10, "tx-a"); err != nil {
		t.Fatalf("ProcessImmediate failed: %v", err)
	}
	if _, err := e.ProcessImmediate(ctx, bob.ID, 10, 10, "tx-b"); err != nil {
		t.Fatalf("ProcessImmediate failed: %v", err)
	}
	if _, err := e.Stake(ctx, alice.ID, 7); err != nil {
		t.Fatalf("Stake failed: %v", err)
	}
	if _, err := e.Stake(ctx, bob.ID, 3); err != nil {
		t.Fatalf("Stake failed: %v", err)
	}

	// 101 * 7/10 = 70.7 -> 70, 101 * 3/10 = 30.3 -> 30.
	d, err := e.DistributeDividends(ctx, 101, "ref")
	if err != nil {
		t.Fatalf("DistributeDividends failed: %v", err)
	}
	if d.Distributed != 100 || d.Remainder != 1 {
		t.Errorf("distributed=%d remainder=%d, want 100/1", d.Distributed, d.Remainder)
	}
	// PerToken is the floored display rate, not the claim formula.
	if d.PerToken != 10 {
		t.Errorf("per token = %d, want 10", d.PerToken)
	}

	aliceGot, _ := e.ClaimDividends(ctx, alice.ID)
	bobGot, _ := e.ClaimDividends(ctx, bob.ID)
	if aliceGot != 70 || bobGot != 30 {
		t.Errorf("claims = %d/%d, want 70/30", aliceGot, bobGot)
	}
}

// A stake small enough that its share floors to zero still yields a claim
// row; claiming it just pays nothing.
func TestDistributeDividendsZeroShareClaim(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t, mint.WithTotalSupply(10_000), mint.WithPricing(pricing.ModelFixed, 10))

	alice, err := e.GetOrCreateHolder(ctx, identity("alice"))
	if err != nil {
		t.Fatalf("GetOrCreateHolder failed: %v", err)
	}
	bob, err := e.GetOrCreateHolder(ctx, identity("bob"))
	if err != nil {
		t.Fatalf("GetOrCreateHolder failed: %v", err)
	}
	if _, err := e.ProcessImmediate(ctx, alice.ID, 10, 10, "tx-a"); err != nil {
		t.Fatalf("ProcessImmediate failed: %v", err)
	}
	if _, err := e.ProcessImmediate(ctx, bob.ID, 1000, 10, "tx-b"); err != nil {
		t.Fatalf("ProcessImmediate failed: %v", err)
	}
	if _, err := e.Stake(ctx, alice.ID, 1); err != nil {
		t.Fatalf("Stake failed: %v", err)
	}
	if _, err := e.Stake(ctx, bob.ID, 999); err != nil {
		t.Fatalf("Stake failed: %v", err)
	}

	// Alice's share: 500 * 1/1000 = 0.5 -> 0.
	d, err := e.DistributeDividends(ctx, 500, "ref")
	if err != nil {
		t.Fatalf("DistributeDividends failed: %v", err)
	}
	if d.Distributed != 499 || d.Remainder != 1 {
		t.Errorf("distributed=%d remainder=%d, want 499/1", d.Distributed, d.Remainder)
	}

	pending, err := e.PendingDividends(ctx, alice.ID)
	if err != nil {
		t.Fatalf("PendingDividends failed: %v", err)
	}
	if len(pending) != 1 || pending[0].Amount != 0 {
		t.Fatalf("pending = %+v, want one zero-amount claim", pending)
	}
	got, err := e.ClaimDividends(ctx, alice.ID)
	if err != nil {
		t.Fatalf("ClaimDividends failed: %v", err)
	}
	if got != 0 {
		t.Errorf("alice claimed %d, want 0", got)
	}
}

func TestDistributeDividendsNothingStaked(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t, mint.WithTotalSupply(1000))

	_, err := e.DistributeDividends(ctx, 100, "ref")
	if !errors.Is(err, mint.ErrNothingStaked) {
		t.Errorf("error = %v, want ErrNothingStaked", err)
	}
}

func TestCapTable(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t, mint.WithTotalSupply(1000), mint.WithPricing(pricing.ModelFixed, 10))

	alice, _ := e.GetOrCreateHolder(ctx, identity("alice"))
	bob, _ := e.GetOrCreateHolder(ctx, identity("bob"))
	carol, _ := e.GetOrCreateHolder(ctx, identity("carol"))
	_ = carol // zero balance, must not appear

	if _, err := e.ProcessImmediate(ctx, alice.ID, 100, 10, "tx-a"); err != nil {
		t.Fatalf("ProcessImmediate failed: %v", err)
	}
	if _, err := e.ProcessImmediate(ctx, bob.ID, 300, 10, "tx-b"); err != nil {
		t.Fatalf("ProcessImmediate failed: %v", err)
	}
	if _, err := e.Stake(ctx, bob.ID, 200); err != nil {
		t.Fatalf("Stake failed: %v", err)
	}

	entries, err := e.CapTable(ctx)
	if err != nil {
		t.Fatalf("CapTable failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}
	if entries[0].HolderID != bob.ID {
		t.Errorf("largest holder = %s, want bob", entries[0].HolderID)
	}
	if entries[0].Balance != 300 || entries[0].Staked != 200 {
		t.Errorf("bob balance=%d staked=%d, want 300/200", entries[0].Balance, entries[0].Staked)
	}
	if entries[0].Percentage != 30 {
		t.Errorf("bob percentage = %v, want 30", entries[0].Percentage)
	}
	if entries[1].Percentage != 10 {
		t.Errorf("alice percentage = %v, want 10", entries[1].Percentage)
	}
}

func TestQuoteAgainstLiveTreasury(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t, mint.WithTotalSupply(1000), mint.WithPricing(pricing.ModelFixed, 100))

	q, err := e.Quote(ctx, 550)
	if err != nil {
		t.Fatalf("Quote failed: %v", err)
	}
	if q.TokenCount != 5 || q.TotalCost != 500 || q.RemainingSats != 50 {
		t.Errorf("quote = %+v, want 5 tokens for 500 with 50 left", q)
	}

	cost, err := e.QuoteUnits(ctx, 7)
	if err != nil {
		t.Fatalf("QuoteUnits failed: %v", err)
	}
	if cost != 700 {
		t.Errorf("cost = %d, want 700", cost)
	}
}

func TestGetHoldings(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t, mint.WithTotalSupply(1000), mint.WithPricing(pricing.ModelFixed, 10))

	alice, _ := e.GetOrCreateHolder(ctx, identity("alice"))
	if _, err := e.ProcessImmediate(ctx, alice.ID, 100, 10, "tx"); err != nil {
		t.Fatalf("ProcessImmediate failed: %v", err)
	}

	h, err := e.GetHoldings(ctx, alice.ID, 5)
	if err != nil {
		t.Fatalf("GetHoldings failed: %v", err)
	}
	if h.TokenCount != 100 {
		t.Errorf("tokens = %d, want 100", h.TokenCount)
	}
	if h.CostBasisSats != 1000 {
		t.Errorf("cost = %d, want 1000", h.CostBasisSats)
	}
	if h.CurrentValue != 1000 {
		t.Errorf("value = %d, want 1000", h.CurrentValue)
	}
	// 1000 cost / 5 sats per serve = 200 serves to break even.
	if h.BreakevenUnits != 200 {
		t.Errorf("breakeven = %d, want 200", h.BreakevenUnits)
	}
}
