// Package memory provides an in-memory Store implementation, intended for
// tests and local development. All state is lost when the process exits.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/xraph/mint"
	"github.com/xraph/mint/dividend"
	"github.com/xraph/mint/holder"
	"github.com/xraph/mint/id"
	"github.com/xraph/mint/inscription"
	"github.com/xraph/mint/purchase"
	"github.com/xraph/mint/stake"
	"github.com/xraph/mint/treasury"
	"github.com/xraph/mint/types"
)

type Store struct {
	mu sync.RWMutex

	// Holder storage
	holders    map[string]*holder.Holder
	byIdentity map[string]string // identity key -> holder ID

	// Treasury singleton
	treasury *treasury.Treasury

	// Purchase storage
	purchases map[string]*purchase.Purchase

	// Stake storage
	stakes map[string]*stake.Stake

	// Dividend storage
	dividends map[string]*dividend.Dividend
	claims    map[string]*dividend.Claim

	// Inscription storage
	inscriptions map[string]*inscription.Record
	nonces       map[string]inscription.NonceRecord // network + "\x00" + nonce
}

func New() *Store {
	return &Store{
		holders:      make(map[string]*holder.Holder),
		byIdentity:   make(map[string]string),
		purchases:    make(map[string]*purchase.Purchase),
		stakes:       make(map[string]*stake.Stake),
		dividends:    make(map[string]*dividend.Dividend),
		claims:       make(map[string]*dividend.Claim),
		inscriptions: make(map[string]*inscription.Record),
		nonces:       make(map[string]inscription.NonceRecord),
	}
}

// Holder Store implementation

func (s *Store) CreateHolder(_ context.Context, h *holder.Holder) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := h.Identity.Key()
	if _, exists := s.byIdentity[key]; exists {
		return fmt.Errorf("holder for %s: %w", key, mint.ErrInvalidInput)
	}

	cp := *h
	s.holders[h.ID.String()] = &cp
	s.byIdentity[key] = h.ID.String()
	return nil
}

func (s *Store) GetHolder(_ context.Context, holderID id.HolderID) (*holder.Holder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	h, exists := s.holders[holderID.String()]
	if !exists {
		return nil, mint.ErrHolderNotFound
	}
	cp := *h
	return &cp, nil
}

func (s *Store) GetHolderByIdentity(_ context.Context, identity holder.Identity) (*holder.Holder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	hid, exists := s.byIdentity[identity.Key()]
	if !exists {
		return nil, mint.ErrHolderNotFound
	}
	cp := *s.holders[hid]
	return &cp, nil
}

func (s *Store) UpdateHolder(_ context.Context, h *holder.Holder) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.holders[h.ID.String()]; !exists {
		return mint.ErrHolderNotFound
	}
	cp := *h
	cp.Touch()
	s.holders[h.ID.String()] = &cp
	return nil
}

func (s *Store) ListHolders(_ context.Context, opts holder.ListOpts) ([]*holder.Holder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*holder.Holder, 0, len(s.holders))
	for _, h := range s.holders {
		if h.Balance < opts.MinBalance {
			continue
		}
		cp := *h
		result = append(result, &cp)
	}
	sortHoldersByBalance(result)
	return paginate(result, opts.Limit, opts.Offset), nil
}

func (s *Store) ListStakers(_ context.Context) ([]*holder.Holder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*holder.Holder, 0)
	for _, h := range s.holders {
		if h.StakedBalance > 0 {
			cp := *h
			result = append(result, &cp)
		}
	}
	sortHoldersByBalance(result)
	return result, nil
}

// sortHoldersByBalance orders holders by balance descending, ties broken by
// ID for stable output.
func sortHoldersByBalance(hs []*holder.Holder) {
	sort.Slice(hs, func(i, j int) bool {
		if hs[i].Balance != hs[j].Balance {
			return hs[i].Balance > hs[j].Balance
		}
		return hs[i].ID.String() < hs[j].ID.String()
	})
}

// Treasury Store implementation

func (s *Store) SeedTreasury(_ context.Context, totalSupply int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.treasury != nil {
		return nil
	}
	if totalSupply <= 0 {
		return fmt.Errorf("total supply must be positive: %w", mint.ErrInvalidInput)
	}
	s.treasury = treasury.New(totalSupply)
	return nil
}

func (s *Store) GetTreasury(_ context.Context) (*treasury.Treasury, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.treasury == nil {
		return nil, mint.ErrNotFound
	}
	cp := *s.treasury
	return &cp, nil
}

// Purchase Store implementation

func (s *Store) CreatePurchase(_ context.Context, p *purchase.Purchase) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *p
	s.purchases[p.ID.String()] = &cp
	return nil
}

func (s *Store) GetPurchase(_ context.Context, purchaseID id.PurchaseID) (*purchase.Purchase, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, exists := s.purchases[purchaseID.String()]
	if !exists {
		return nil, mint.ErrPurchaseNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *Store) ListPurchases(_ context.Context, holderID id.HolderID, opts purchase.ListOpts) ([]*purchase.Purchase, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*purchase.Purchase, 0)
	for _, p := range s.purchases {
		if p.HolderID != holderID {
			continue
		}
		if opts.Status != "" && p.Status != opts.Status {
			continue
		}
		cp := *p
		result = append(result, &cp)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return paginate(result, opts.Limit, opts.Offset), nil
}

func (s *Store) SettlePurchase(_ context.Context, purchaseID id.PurchaseID, txID string) (*purchase.Purchase, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, exists := s.purchases[purchaseID.String()]
	if !exists {
		return nil, mint.ErrPurchaseNotFound
	}
	if p.Status != purchase.StatusPending {
		return nil, fmt.Errorf("purchase %s is %s: %w", p.ID, p.Status, mint.ErrPurchaseNotPending)
	}
	if s.treasury == nil {
		return nil, mint.ErrNotFound
	}
	if p.Amount > s.treasury.Balance {
		return nil, &mint.AmountError{
			Err:       mint.ErrInsufficientSupply,
			Requested: p.Amount,
			Available: s.treasury.Balance,
		}
	}
	h, exists := s.holders[p.HolderID.String()]
	if !exists {
		return nil, mint.ErrHolderNotFound
	}

	s.treasury.Balance -= p.Amount
	s.treasury.TotalSold += p.Amount
	s.treasury.TotalRevenue = s.treasury.TotalRevenue.Add(types.SAT(p.TotalPaid))
	s.treasury.Touch()

	h.Balance += p.Amount
	h.TotalPurchased += p.Amount
	h.Touch()

	p.Status = purchase.StatusConfirmed
	p.TxID = txID
	p.Touch()

	cp := *p
	return &cp, nil
}

func (s *Store) FailPurchase(_ context.Context, purchaseID id.PurchaseID, reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, exists := s.purchases[purchaseID.String()]
	if !exists {
		return mint.ErrPurchaseNotFound
	}
	if p.Status != purchase.StatusPending {
		return fmt.Errorf("purchase %s is %s: %w", p.ID, p.Status, mint.ErrPurchaseNotPending)
	}
	p.Status = purchase.StatusFailed
	p.TxID = reason
	p.Touch()
	return nil
}

// Stake Store implementation

func (s *Store) ApplyStake(_ context.Context, st *stake.Stake) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	h, exists := s.holders[st.HolderID.String()]
	if !exists {
		return mint.ErrHolderNotFound
	}
	if st.Amount <= 0 {
		return fmt.Errorf("stake amount must be positive: %w", mint.ErrInvalidInput)
	}
	if st.Amount > h.Available() {
		return &mint.AmountError{
			Err:       mint.ErrInsufficientFunds,
			Requested: st.Amount,
			Available: h.Available(),
		}
	}

	// Staked tokens stay in the balance; StakedBalance marks them locked.
	h.StakedBalance += st.Amount
	h.Touch()

	cp := *st
	s.stakes[st.ID.String()] = &cp
	return nil
}

func (s *Store) ApplyUnstake(_ context.Context, holderID id.HolderID, amount int64, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	h, exists := s.holders[holderID.String()]
	if !exists {
		return mint.ErrHolderNotFound
	}
	if amount <= 0 {
		return fmt.Errorf("unstake amount must be positive: %w", mint.ErrInvalidInput)
	}
	if amount > h.StakedBalance {
		return &mint.AmountError{
			Err:       mint.ErrInsufficientStake,
			Requested: amount,
			Available: h.StakedBalance,
		}
	}

	active := s.activeStakesLocked(holderID)
	remaining := amount
	for _, st := range active {
		if remaining == 0 {
			break
		}
		if st.Amount <= remaining {
			remaining -= st.Amount
			st.Status = stake.StatusUnstaked
			unstakedAt := at
			st.UnstakedAt = &unstakedAt
			st.Touch()
		} else {
			st.Amount -= remaining
			remaining = 0
			st.Touch()
		}
	}

	h.StakedBalance -= amount
	h.Touch()
	return nil
}

func (s *Store) ListActiveStakes(_ context.Context, holderID id.HolderID) ([]*stake.Stake, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	active := s.activeStakesLocked(holderID)
	result := make([]*stake.Stake, 0, len(active))
	for _, st := range active {
		cp := *st
		result = append(result, &cp)
	}
	return result, nil
}

// activeStakesLocked returns the holder's active stakes newest first, which
// is the order unstaking consumes them in.
func (s *Store) activeStakesLocked(holderID id.HolderID) []*stake.Stake {
	active := make([]*stake.Stake, 0)
	for _, st := range s.stakes {
		if st.HolderID == holderID && st.Status == stake.StatusActive {
			active = append(active, st)
		}
	}
	sort.Slice(active, func(i, j int) bool {
		if !active[i].CreatedAt.Equal(active[j].CreatedAt) {
			return active[i].CreatedAt.After(active[j].CreatedAt)
		}
		return active[i].ID.String() > active[j].ID.String()
	})
	return active
}

func (s *Store) TotalStaked(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var total int64
	for _, h := range s.holders {
		total += h.StakedBalance
	}
	return total, nil
}

// Dividend Store implementation

func (s *Store) CreateDividend(_ context.Context, d *dividend.Dividend, claims []*dividend.Claim) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *d
	s.dividends[d.ID.String()] = &cp
	for _, c := range claims {
		ccp := *c
		s.claims[c.ID.String()] = &ccp
	}
	return nil
}

func (s *Store) GetDividend(_ context.Context, dividendID id.DividendID) (*dividend.Dividend, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, exists := s.dividends[dividendID.String()]
	if !exists {
		return nil, mint.ErrDividendNotFound
	}
	cp := *d
	return &cp, nil
}

func (s *Store) ListPendingClaims(_ context.Context, holderID id.HolderID) ([]*dividend.Claim, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*dividend.Claim, 0)
	for _, c := range s.claims {
		if c.HolderID == holderID && c.Status == dividend.ClaimPending {
			cp := *c
			result = append(result, &cp)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

func (s *Store) SettleClaims(_ context.Context, holderID id.HolderID, at time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	h, exists := s.holders[holderID.String()]
	if !exists {
		return 0, mint.ErrHolderNotFound
	}

	var total int64
	for _, c := range s.claims {
		if c.HolderID != holderID || c.Status != dividend.ClaimPending {
			continue
		}
		c.Status = dividend.ClaimClaimed
		claimedAt := at
		c.ClaimedAt = &claimedAt
		total += c.Amount
	}
	if total > 0 {
		h.TotalDividendsEarned += total
		h.Touch()
	}
	return total, nil
}

// Inscription Store implementation

func (s *Store) CreateInscription(_ context.Context, rec *inscription.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *rec
	s.inscriptions[rec.ID.String()] = &cp
	return nil
}

func (s *Store) GetInscription(_ context.Context, inscriptionID id.InscriptionID) (*inscription.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, exists := s.inscriptions[inscriptionID.String()]
	if !exists {
		return nil, mint.ErrInscriptionNotFound
	}
	cp := *rec
	return &cp, nil
}

func (s *Store) ListInscriptions(_ context.Context, opts inscription.ListOpts) ([]*inscription.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*inscription.Record, 0)
	for _, rec := range s.inscriptions {
		if opts.OriginNetwork != "" && rec.Proof.Origin.Network != opts.OriginNetwork {
			continue
		}
		cp := *rec
		result = append(result, &cp)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return paginate(result, opts.Limit, opts.Offset), nil
}

func (s *Store) ClaimNonce(_ context.Context, network, nonce string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := nonceKey(network, nonce)
	if _, seen := s.nonces[key]; seen {
		return fmt.Errorf("nonce %s on %s: %w", nonce, network, mint.ErrReplay)
	}
	s.nonces[key] = inscription.NonceRecord{
		Network: network,
		Nonce:   nonce,
		SeenAt:  time.Now().UTC(),
	}
	return nil
}

func nonceKey(network, nonce string) string {
	return strings.ToLower(network) + "\x00" + nonce
}

// Core Store implementation

func (s *Store) Migrate(_ context.Context) error {
	return nil
}

func (s *Store) Ping(_ context.Context) error {
	return nil
}

func (s *Store) Close() error {
	return nil
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset > 0 {
		if offset >= len(items) {
			return []T{}
		}
		items = items[offset:]
	}
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
