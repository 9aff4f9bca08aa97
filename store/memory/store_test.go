package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/xraph/mint"
	"github.com/xraph/mint/dividend"
	"github.com/xraph/mint/holder"
	"github.com/xraph/mint/id"
	"github.com/xraph/mint/purchase"
	"github.com/xraph/mint/stake"
	"github.com/xraph/mint/types"
)

func newHolder(t *testing.T, s *Store, handle string) *holder.Holder {
	t.Helper()
	h := &holder.Holder{
		Entity:   types.NewEntity(),
		ID:       id.NewHolderID(),
		Identity: holder.Identity{Provider: "handcash", Handle: handle},
	}
	if err := s.CreateHolder(context.Background(), h); err != nil {
		t.Fatalf("CreateHolder failed: %v", err)
	}
	return h
}

func newPendingPurchase(t *testing.T, s *Store, holderID id.HolderID, amount, paid int64) *purchase.Purchase {
	t.Helper()
	p := &purchase.Purchase{
		Entity:    types.NewEntity(),
		ID:        id.NewPurchaseID(),
		HolderID:  holderID,
		Amount:    amount,
		PriceSats: paid / max64(amount, 1),
		TotalPaid: paid,
		Status:    purchase.StatusPending,
	}
	if err := s.CreatePurchase(context.Background(), p); err != nil {
		t.Fatalf("CreatePurchase failed: %v", err)
	}
	return p
}

func max64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}

func TestSettlePurchaseMovesSupply(t *testing.T) {
	ctx := context.Background()
	s := New()
	if err := s.SeedTreasury(ctx, 1000); err != nil {
		t.Fatalf("SeedTreasury failed: %v", err)
	}
	h := newHolder(t, s, "alice")
	p := newPendingPurchase(t, s, h.ID, 100, 5000)

	settled, err := s.SettlePurchase(ctx, p.ID, "tx001")
	if err != nil {
		t.Fatalf("SettlePurchase failed: %v", err)
	}
	if settled.Status != purchase.StatusConfirmed {
		t.Errorf("status = %s, want confirmed", settled.Status)
	}
	if settled.TxID != "tx001" {
		t.Errorf("txID = %s, want tx001", settled.TxID)
	}

	tr, err := s.GetTreasury(ctx)
	if err != nil {
		t.Fatalf("GetTreasury failed: %v", err)
	}
	if tr.Balance != 900 || tr.TotalSold != 100 {
		t.Errorf("treasury balance=%d sold=%d, want 900/100", tr.Balance, tr.TotalSold)
	}
	if tr.TotalRevenue.Amount != 5000 {
		t.Errorf("revenue = %d, want 5000", tr.TotalRevenue.Amount)
	}

	got, _ := s.GetHolder(ctx, h.ID)
	if got.Balance != 100 || got.TotalPurchased != 100 {
		t.Errorf("holder balance=%d purchased=%d, want 100/100", got.Balance, got.TotalPurchased)
	}
}

func TestSettlePurchaseRejectsNonPending(t *testing.T) {
	ctx := context.Background()
	s := New()
	if err := s.SeedTreasury(ctx, 1000); err != nil {
		t.Fatalf("SeedTreasury failed: %v", err)
	}
	h := newHolder(t, s, "alice")
	p := newPendingPurchase(t, s, h.ID, 10, 100)

	if _, err := s.SettlePurchase(ctx, p.ID, "tx1"); err != nil {
		t.Fatalf("first settle failed: %v", err)
	}
	if _, err := s.SettlePurchase(ctx, p.ID, "tx2"); !errors.Is(err, mint.ErrPurchaseNotPending) {
		t.Errorf("second settle error = %v, want ErrPurchaseNotPending", err)
	}
}

// Two purchases racing for the last of the supply: exactly one may win.
func TestSettlePurchaseSupplyRace(t *testing.T) {
	ctx := context.Background()
	s := New()
	if err := s.SeedTreasury(ctx, 100); err != nil {
		t.Fatalf("SeedTreasury failed: %v", err)
	}
	h := newHolder(t, s, "alice")
	p1 := newPendingPurchase(t, s, h.ID, 80, 800)
	p2 := newPendingPurchase(t, s, h.ID, 80, 800)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, p := range []*purchase.Purchase{p1, p2} {
		wg.Add(1)
		go func(i int, pid id.PurchaseID) {
			defer wg.Done()
			_, errs[i] = s.SettlePurchase(ctx, pid, "tx")
		}(i, p.ID)
	}
	wg.Wait()

	var ok, insufficient int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, mint.ErrInsufficientSupply):
			insufficient++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if ok != 1 || insufficient != 1 {
		t.Errorf("got %d successes and %d supply failures, want 1/1", ok, insufficient)
	}

	tr, _ := s.GetTreasury(ctx)
	if tr.Balance != 20 {
		t.Errorf("treasury balance = %d, want 20", tr.Balance)
	}
}

func TestApplyStakeAndUnstakeLIFO(t *testing.T) {
	ctx := context.Background()
	s := New()
	if err := s.SeedTreasury(ctx, 1000); err != nil {
		t.Fatalf("SeedTreasury failed: %v", err)
	}
	h := newHolder(t, s, "alice")
	p := newPendingPurchase(t, s, h.ID, 500, 5000)
	if _, err := s.SettlePurchase(ctx, p.ID, "tx"); err != nil {
		t.Fatalf("settle failed: %v", err)
	}

	base := time.Now().UTC().Add(-time.Hour)
	amounts := []int64{100, 200, 50}
	for i, amt := range amounts {
		st := &stake.Stake{
			Entity:   types.Entity{CreatedAt: base.Add(time.Duration(i) * time.Minute), UpdatedAt: base},
			ID:       id.NewStakeID(),
			HolderID: h.ID,
			Amount:   amt,
			Status:   stake.StatusActive,
		}
		if err := s.ApplyStake(ctx, st); err != nil {
			t.Fatalf("ApplyStake(%d) failed: %v", amt, err)
		}
	}

	got, _ := s.GetHolder(ctx, h.ID)
	if got.Balance != 500 || got.StakedBalance != 350 {
		t.Fatalf("balance=%d staked=%d, want 500/350", got.Balance, got.StakedBalance)
	}

	// Unstake 120: consumes the 50 stake fully and 70 of the 200 stake.
	if err := s.ApplyUnstake(ctx, h.ID, 120, time.Now().UTC()); err != nil {
		t.Fatalf("ApplyUnstake failed: %v", err)
	}

	active, _ := s.ListActiveStakes(ctx, h.ID)
	if len(active) != 2 {
		t.Fatalf("active stakes = %d, want 2", len(active))
	}
	if active[0].Amount != 130 {
		t.Errorf("newest remaining stake = %d, want 130", active[0].Amount)
	}
	if active[1].Amount != 100 {
		t.Errorf("oldest stake = %d, want 100 untouched", active[1].Amount)
	}

	got, _ = s.GetHolder(ctx, h.ID)
	if got.Balance != 500 || got.StakedBalance != 230 {
		t.Errorf("balance=%d staked=%d, want 500/230", got.Balance, got.StakedBalance)
	}
}

// The stake guard runs against the unstaked portion of the balance, not the
// balance itself.
func TestApplyStakeGuardsAvailableBalance(t *testing.T) {
	ctx := context.Background()
	s := New()
	if err := s.SeedTreasury(ctx, 1000); err != nil {
		t.Fatalf("SeedTreasury failed: %v", err)
	}
	h := newHolder(t, s, "alice")
	p := newPendingPurchase(t, s, h.ID, 100, 1000)
	if _, err := s.SettlePurchase(ctx, p.ID, "tx"); err != nil {
		t.Fatalf("settle failed: %v", err)
	}

	first := &stake.Stake{
		Entity:   types.NewEntity(),
		ID:       id.NewStakeID(),
		HolderID: h.ID,
		Amount:   60,
		Status:   stake.StatusActive,
	}
	if err := s.ApplyStake(ctx, first); err != nil {
		t.Fatalf("ApplyStake failed: %v", err)
	}

	// 40 of the 100 remain unstaked; 41 must not fit.
	over := &stake.Stake{
		Entity:   types.NewEntity(),
		ID:       id.NewStakeID(),
		HolderID: h.ID,
		Amount:   41,
		Status:   stake.StatusActive,
	}
	err := s.ApplyStake(ctx, over)
	if !errors.Is(err, mint.ErrInsufficientFunds) {
		t.Fatalf("error = %v, want ErrInsufficientFunds", err)
	}
	var amountErr *mint.AmountError
	if !errors.As(err, &amountErr) {
		t.Fatal("error does not carry amounts")
	}
	if amountErr.Available != 40 {
		t.Errorf("available = %d, want 40", amountErr.Available)
	}

	got, _ := s.GetHolder(ctx, h.ID)
	if got.Balance != 100 || got.StakedBalance != 60 {
		t.Errorf("balance=%d staked=%d after rejection, want 100/60", got.Balance, got.StakedBalance)
	}
	if got.StakedBalance > got.Balance {
		t.Errorf("staked %d exceeds balance %d", got.StakedBalance, got.Balance)
	}
}

func TestApplyUnstakeRejectsOverdraw(t *testing.T) {
	ctx := context.Background()
	s := New()
	if err := s.SeedTreasury(ctx, 1000); err != nil {
		t.Fatalf("SeedTreasury failed: %v", err)
	}
	h := newHolder(t, s, "alice")
	p := newPendingPurchase(t, s, h.ID, 100, 1000)
	if _, err := s.SettlePurchase(ctx, p.ID, "tx"); err != nil {
		t.Fatalf("settle failed: %v", err)
	}
	st := &stake.Stake{
		Entity:   types.NewEntity(),
		ID:       id.NewStakeID(),
		HolderID: h.ID,
		Amount:   60,
		Status:   stake.StatusActive,
	}
	if err := s.ApplyStake(ctx, st); err != nil {
		t.Fatalf("ApplyStake failed: %v", err)
	}

	err := s.ApplyUnstake(ctx, h.ID, 61, time.Now().UTC())
	if !errors.Is(err, mint.ErrInsufficientStake) {
		t.Fatalf("error = %v, want ErrInsufficientStake", err)
	}

	// Nothing may change on a rejected unstake.
	got, _ := s.GetHolder(ctx, h.ID)
	if got.Balance != 100 || got.StakedBalance != 60 {
		t.Errorf("balance=%d staked=%d after rejection, want 100/60", got.Balance, got.StakedBalance)
	}
	active, _ := s.ListActiveStakes(ctx, h.ID)
	if len(active) != 1 || active[0].Amount != 60 {
		t.Errorf("stakes mutated by rejected unstake: %+v", active)
	}
}

func TestSettleClaims(t *testing.T) {
	ctx := context.Background()
	s := New()
	if err := s.SeedTreasury(ctx, 1000); err != nil {
		t.Fatalf("SeedTreasury failed: %v", err)
	}
	h := newHolder(t, s, "alice")

	d := &dividend.Dividend{
		Entity:      types.NewEntity(),
		ID:          id.NewDividendID(),
		TotalAmount: 100,
		TotalStaked: 10,
		PerToken:    10,
		Distributed: 100,
	}
	claims := []*dividend.Claim{
		{ID: id.NewClaimID(), DividendID: d.ID, HolderID: h.ID, Amount: 60, Status: dividend.ClaimPending, CreatedAt: time.Now().UTC()},
		{ID: id.NewClaimID(), DividendID: d.ID, HolderID: h.ID, Amount: 40, Status: dividend.ClaimPending, CreatedAt: time.Now().UTC()},
	}
	if err := s.CreateDividend(ctx, d, claims); err != nil {
		t.Fatalf("CreateDividend failed: %v", err)
	}

	total, err := s.SettleClaims(ctx, h.ID, time.Now().UTC())
	if err != nil {
		t.Fatalf("SettleClaims failed: %v", err)
	}
	if total != 100 {
		t.Errorf("claimed = %d, want 100", total)
	}

	again, err := s.SettleClaims(ctx, h.ID, time.Now().UTC())
	if err != nil {
		t.Fatalf("second SettleClaims failed: %v", err)
	}
	if again != 0 {
		t.Errorf("second claim = %d, want 0", again)
	}

	got, _ := s.GetHolder(ctx, h.ID)
	if got.TotalDividendsEarned != 100 {
		t.Errorf("lifetime dividends = %d, want 100", got.TotalDividendsEarned)
	}
}

func TestClaimNonceRejectsReplay(t *testing.T) {
	ctx := context.Background()
	s := New()

	if err := s.ClaimNonce(ctx, "bsv", "abc"); err != nil {
		t.Fatalf("first claim failed: %v", err)
	}
	if err := s.ClaimNonce(ctx, "bsv", "abc"); !errors.Is(err, mint.ErrReplay) {
		t.Errorf("replay error = %v, want ErrReplay", err)
	}
	// Same nonce on another network is a different pair.
	if err := s.ClaimNonce(ctx, "base", "abc"); err != nil {
		t.Errorf("cross-network claim failed: %v", err)
	}
}

func TestClaimNonceConcurrent(t *testing.T) {
	ctx := context.Background()
	s := New()

	const workers = 16
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = s.ClaimNonce(ctx, "bsv", "contested")
		}(i)
	}
	wg.Wait()

	var ok int
	for _, err := range errs {
		if err == nil {
			ok++
		} else if !errors.Is(err, mint.ErrReplay) {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if ok != 1 {
		t.Errorf("%d claims succeeded, want exactly 1", ok)
	}
}

func TestGetHolderByIdentity(t *testing.T) {
	ctx := context.Background()
	s := New()
	h := newHolder(t, s, "Alice")

	got, err := s.GetHolderByIdentity(ctx, holder.Identity{Provider: "HandCash", Handle: "Alice"})
	if err != nil {
		t.Fatalf("GetHolderByIdentity failed: %v", err)
	}
	if got.ID != h.ID {
		t.Errorf("got holder %s, want %s", got.ID, h.ID)
	}

	if _, err := s.GetHolderByIdentity(ctx, holder.Identity{Provider: "handcash", Handle: "bob"}); !errors.Is(err, mint.ErrHolderNotFound) {
		t.Errorf("unknown identity error = %v, want ErrHolderNotFound", err)
	}
}
