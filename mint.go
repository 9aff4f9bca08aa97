package mint

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/xraph/mint/dividend"
	"github.com/xraph/mint/holder"
	"github.com/xraph/mint/id"
	"github.com/xraph/mint/plugin"
	"github.com/xraph/mint/pricing"
	"github.com/xraph/mint/purchase"
	"github.com/xraph/mint/stake"
	"github.com/xraph/mint/store"
	"github.com/xraph/mint/types"
)

// Engine is the token economics engine: pricing quotes, purchases, staking,
// and dividend distribution over a single treasury.
type Engine struct {
	store   store.Store
	plugins *plugin.Registry
	logger  *slog.Logger

	// Configuration
	totalSupply    int64
	model          pricing.Model
	basePrice      int64
	decayFactor    float64
	onePercentCost int64
}

// New creates a new Engine instance.
func New(s store.Store, opts ...Option) *Engine {
	e := &Engine{
		store:          s,
		plugins:        plugin.NewRegistry(),
		logger:         slog.Default(),
		totalSupply:    1_000_000_000,
		model:          pricing.ModelSqrtDecay,
		basePrice:      223_610,
		decayFactor:    1.0,
		onePercentCost: 0,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Option configures an Engine instance.
type Option func(*Engine)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
		e.plugins.WithLogger(logger)
	}
}

// WithPlugin registers a plugin.
func WithPlugin(p plugin.Plugin) Option {
	return func(e *Engine) {
		_ = e.plugins.Register(p) //nolint:errcheck // best-effort plugin registration during init
	}
}

// WithTotalSupply sets the total token supply seeded into the treasury.
func WithTotalSupply(supply int64) Option {
	return func(e *Engine) {
		e.totalSupply = supply
	}
}

// WithPricing sets the pricing model and its base unit price.
func WithPricing(model pricing.Model, basePrice int64) Option {
	return func(e *Engine) {
		e.model = model
		e.basePrice = basePrice
	}
}

// WithDecayFactor sets the linear decay factor.
func WithDecayFactor(factor float64) Option {
	return func(e *Engine) {
		e.decayFactor = factor
	}
}

// WithOnePercentCost calibrates the bonding curve by the cost of the first
// 1% of supply.
func WithOnePercentCost(cost int64) Option {
	return func(e *Engine) {
		e.onePercentCost = cost
	}
}

// Plugins exposes the plugin registry.
func (e *Engine) Plugins() *plugin.Registry {
	return e.plugins
}

// Start migrates the store, seeds the treasury, and initializes plugins.
func (e *Engine) Start(ctx context.Context) error {
	if err := e.store.Migrate(ctx); err != nil {
		return err
	}

	if err := e.store.SeedTreasury(ctx, e.totalSupply); err != nil {
		return err
	}

	e.plugins.EmitInit(ctx, e)

	e.logger.Info("mint started",
		"total_supply", e.totalSupply,
		"pricing_model", e.model,
		"base_price", e.basePrice,
	)

	return nil
}

// Stop shuts down the Engine.
func (e *Engine) Stop() error {
	ctx := context.Background()
	e.plugins.EmitShutdown(ctx)

	return e.store.Close()
}

// ──────────────────────────────────────────────────
// Holder Management
// ──────────────────────────────────────────────────

// GetOrCreateHolder returns the holder for an identity, creating it on first
// sight. Idempotent: repeat calls with the same identity return the same
// holder.
func (e *Engine) GetOrCreateHolder(ctx context.Context, identity holder.Identity) (*holder.Holder, error) {
	if err := identity.Validate(); err != nil {
		return nil, err
	}

	h, err := e.store.GetHolderByIdentity(ctx, identity)
	if err == nil {
		return h, nil
	}
	if !IsNotFound(err) {
		return nil, err
	}

	h = &holder.Holder{
		Entity:   types.NewEntity(),
		ID:       id.NewHolderID(),
		Identity: identity,
	}
	if err := e.store.CreateHolder(ctx, h); err != nil {
		// Lost a create race: the other writer's holder wins.
		if existing, getErr := e.store.GetHolderByIdentity(ctx, identity); getErr == nil {
			return existing, nil
		}
		return nil, err
	}

	e.plugins.EmitHolderCreated(ctx, h)
	return h, nil
}

// GetHolder retrieves a holder by ID.
func (e *Engine) GetHolder(ctx context.Context, holderID id.HolderID) (*holder.Holder, error) {
	return e.store.GetHolder(ctx, holderID)
}

// ──────────────────────────────────────────────────
// Pricing
// ──────────────────────────────────────────────────

// params assembles pricing parameters from the live treasury state.
func (e *Engine) params(ctx context.Context) (pricing.Params, error) {
	t, err := e.store.GetTreasury(ctx)
	if err != nil {
		return pricing.Params{}, err
	}
	return pricing.Params{
		BasePrice:         e.basePrice,
		TreasuryRemaining: t.Balance,
		InitialTreasury:   t.TotalSupply,
		DecayFactor:       e.decayFactor,
		TotalSupply:       t.TotalSupply,
		OnePercentCost:    e.onePercentCost,
		Sold:              t.TotalSold,
	}, nil
}

// Quote computes how many tokens a budget buys at the current treasury
// level. Read-only; nothing is reserved.
func (e *Engine) Quote(ctx context.Context, spendSats int64) (pricing.Quote, error) {
	p, err := e.params(ctx)
	if err != nil {
		return pricing.Quote{}, err
	}
	return pricing.TokensForSpend(e.model, p, spendSats)
}

// QuoteUnits computes the total cost of a fixed token count.
func (e *Engine) QuoteUnits(ctx context.Context, count int64) (int64, error) {
	p, err := e.params(ctx)
	if err != nil {
		return 0, err
	}
	return pricing.TotalCost(e.model, p, count)
}

// UnitPrice returns the current price of the next token.
func (e *Engine) UnitPrice(ctx context.Context) (int64, error) {
	p, err := e.params(ctx)
	if err != nil {
		return 0, err
	}
	return pricing.UnitPrice(e.model, p)
}

// PriceSchedule returns the published price checkpoints for the current
// treasury.
func (e *Engine) PriceSchedule(ctx context.Context) ([]pricing.SchedulePoint, error) {
	p, err := e.params(ctx)
	if err != nil {
		return nil, err
	}
	return pricing.Schedule(e.model, p)
}

// ──────────────────────────────────────────────────
// Purchases
// ──────────────────────────────────────────────────

// CreatePurchase records a pending purchase. Supply is validated against the
// current treasury, but not reserved: the authoritative check happens again
// at confirmation.
func (e *Engine) CreatePurchase(ctx context.Context, holderID id.HolderID, amount, unitPrice int64) (*purchase.Purchase, error) {
	if amount <= 0 {
		return nil, &ValidationError{Field: "amount", Message: "must be positive"}
	}
	if unitPrice < 0 {
		return nil, &ValidationError{Field: "unit_price", Message: "must not be negative"}
	}

	if _, err := e.store.GetHolder(ctx, holderID); err != nil {
		return nil, err
	}

	t, err := e.store.GetTreasury(ctx)
	if err != nil {
		return nil, err
	}
	if amount > t.Balance {
		return nil, &AmountError{
			Err:       ErrInsufficientSupply,
			Requested: amount,
			Available: t.Balance,
		}
	}

	p := &purchase.Purchase{
		Entity:    types.NewEntity(),
		ID:        id.NewPurchaseID(),
		HolderID:  holderID,
		Amount:    amount,
		PriceSats: unitPrice,
		TotalPaid: amount * unitPrice,
		Status:    purchase.StatusPending,
	}
	if err := e.store.CreatePurchase(ctx, p); err != nil {
		return nil, err
	}

	e.plugins.EmitPurchaseCreated(ctx, p)
	return p, nil
}

// ConfirmPurchase settles a pending purchase against its payment proof,
// moving tokens out of the treasury. Returns false with a nil error when the
// purchase was already confirmed or failed, so retried confirmations are
// harmless.
func (e *Engine) ConfirmPurchase(ctx context.Context, purchaseID id.PurchaseID, txID string) (bool, error) {
	p, err := e.store.SettlePurchase(ctx, purchaseID, txID)
	if err != nil {
		if errors.Is(err, ErrPurchaseNotPending) {
			return false, nil
		}
		return false, err
	}

	e.logger.Info("purchase confirmed",
		"purchase_id", p.ID,
		"holder_id", p.HolderID,
		"amount", p.Amount,
		"tx_id", txID,
	)

	e.plugins.EmitPurchaseConfirmed(ctx, p)
	return true, nil
}

// FailPurchase marks a pending purchase as failed with a reason.
func (e *Engine) FailPurchase(ctx context.Context, purchaseID id.PurchaseID, reason string) error {
	if err := e.store.FailPurchase(ctx, purchaseID, reason); err != nil {
		return err
	}

	p, err := e.store.GetPurchase(ctx, purchaseID)
	if err != nil {
		return err
	}
	e.plugins.EmitPurchaseFailed(ctx, p, reason)
	return nil
}

// ProcessImmediate creates and confirms a purchase in one call, for flows
// where payment proof is already in hand.
func (e *Engine) ProcessImmediate(ctx context.Context, holderID id.HolderID, amount, unitPrice int64, txID string) (*purchase.Purchase, error) {
	p, err := e.CreatePurchase(ctx, holderID, amount, unitPrice)
	if err != nil {
		return nil, err
	}

	confirmed, err := e.ConfirmPurchase(ctx, p.ID, txID)
	if err != nil {
		_ = e.store.FailPurchase(ctx, p.ID, err.Error()) //nolint:errcheck // best-effort cleanup of the pending row
		return nil, err
	}
	if !confirmed {
		return nil, fmt.Errorf("purchase %s: %w", p.ID, ErrPurchaseNotPending)
	}

	return e.store.GetPurchase(ctx, p.ID)
}

// GetPurchase retrieves a purchase by ID.
func (e *Engine) GetPurchase(ctx context.Context, purchaseID id.PurchaseID) (*purchase.Purchase, error) {
	return e.store.GetPurchase(ctx, purchaseID)
}

// ListPurchases lists a holder's purchases, newest first.
func (e *Engine) ListPurchases(ctx context.Context, holderID id.HolderID, opts purchase.ListOpts) ([]*purchase.Purchase, error) {
	return e.store.ListPurchases(ctx, holderID, opts)
}

// ──────────────────────────────────────────────────
// Staking
// ──────────────────────────────────────────────────

// Stake locks part of a holder's balance. Staked tokens stay in the balance;
// only the unstaked portion can back a new stake. Rejected stakes leave
// balances untouched.
func (e *Engine) Stake(ctx context.Context, holderID id.HolderID, amount int64) (*stake.Stake, error) {
	if amount <= 0 {
		return nil, &ValidationError{Field: "amount", Message: "must be positive"}
	}

	st := &stake.Stake{
		Entity:   types.NewEntity(),
		ID:       id.NewStakeID(),
		HolderID: holderID,
		Amount:   amount,
		Status:   stake.StatusActive,
	}
	if err := e.store.ApplyStake(ctx, st); err != nil {
		return nil, err
	}

	e.logger.Debug("tokens staked",
		"holder_id", holderID,
		"amount", amount,
	)

	e.plugins.EmitStaked(ctx, st)
	return st, nil
}

// Unstake releases staked tokens, consuming the most recent stakes first.
// Rejected unstakes leave balances and stakes untouched.
func (e *Engine) Unstake(ctx context.Context, holderID id.HolderID, amount int64) error {
	if amount <= 0 {
		return &ValidationError{Field: "amount", Message: "must be positive"}
	}

	if err := e.store.ApplyUnstake(ctx, holderID, amount, time.Now().UTC()); err != nil {
		return err
	}

	e.plugins.EmitUnstaked(ctx, holderID.String(), amount)
	return nil
}

// ListActiveStakes lists a holder's active stakes, newest first.
func (e *Engine) ListActiveStakes(ctx context.Context, holderID id.HolderID) ([]*stake.Stake, error) {
	return e.store.ListActiveStakes(ctx, holderID)
}

// ──────────────────────────────────────────────────
// Dividends
// ──────────────────────────────────────────────────

// DistributeDividends splits a revenue pool across stakers in proportion to
// their staked balances. Every holder with a positive stake receives a claim;
// per-holder amounts are floored and the rounding remainder stays with the
// treasury, recorded on the dividend. Fails with ErrNothingStaked when no
// tokens are staked.
func (e *Engine) DistributeDividends(ctx context.Context, totalAmount int64, sourceRef string) (*dividend.Dividend, error) {
	if totalAmount <= 0 {
		return nil, &ValidationError{Field: "total_amount", Message: "must be positive"}
	}

	totalStaked, err := e.store.TotalStaked(ctx)
	if err != nil {
		return nil, err
	}
	if totalStaked == 0 {
		return nil, ErrNothingStaked
	}

	stakers, err := e.store.ListStakers(ctx)
	if err != nil {
		return nil, err
	}

	d := &dividend.Dividend{
		Entity:      types.NewEntity(),
		ID:          id.NewDividendID(),
		TotalAmount: totalAmount,
		TotalStaked: totalStaked,
		PerToken:    totalAmount / totalStaked,
		SourceRef:   sourceRef,
	}

	now := time.Now().UTC()
	claims := make([]*dividend.Claim, 0, len(stakers))
	var distributed int64
	for _, h := range stakers {
		// Floor division: a staker entitled to 7.9 sats receives 7. A share
		// can floor to zero; the staker still gets a claim row.
		share := totalAmount * h.StakedBalance / totalStaked
		distributed += share
		claims = append(claims, &dividend.Claim{
			ID:         id.NewClaimID(),
			DividendID: d.ID,
			HolderID:   h.ID,
			Amount:     share,
			Status:     dividend.ClaimPending,
			CreatedAt:  now,
		})
	}

	d.Distributed = distributed
	d.Remainder = totalAmount - distributed

	if err := e.store.CreateDividend(ctx, d, claims); err != nil {
		return nil, err
	}

	e.logger.Info("dividends distributed",
		"dividend_id", d.ID,
		"total_amount", totalAmount,
		"total_staked", totalStaked,
		"claims", len(claims),
		"remainder", d.Remainder,
	)

	e.plugins.EmitDividendDistributed(ctx, d)
	return d, nil
}

// ClaimDividends settles all of a holder's pending claims and returns the
// total claimed. Idempotent: a second claim returns zero.
func (e *Engine) ClaimDividends(ctx context.Context, holderID id.HolderID) (int64, error) {
	total, err := e.store.SettleClaims(ctx, holderID, time.Now().UTC())
	if err != nil {
		return 0, err
	}
	if total > 0 {
		e.plugins.EmitDividendsClaimed(ctx, holderID.String(), total)
	}
	return total, nil
}

// PendingDividends lists a holder's unclaimed dividend claims.
func (e *Engine) PendingDividends(ctx context.Context, holderID id.HolderID) ([]*dividend.Claim, error) {
	return e.store.ListPendingClaims(ctx, holderID)
}

// ──────────────────────────────────────────────────
// Cap Table
// ──────────────────────────────────────────────────

// CapTable returns all holders with a positive balance, ordered by balance
// descending, each with its percentage of total supply.
func (e *Engine) CapTable(ctx context.Context) ([]holder.CapEntry, error) {
	t, err := e.store.GetTreasury(ctx)
	if err != nil {
		return nil, err
	}

	holders, err := e.store.ListHolders(ctx, holder.ListOpts{MinBalance: 1})
	if err != nil {
		return nil, err
	}

	entries := make([]holder.CapEntry, 0, len(holders))
	for _, h := range holders {
		if h.Balance == 0 {
			continue
		}
		entries = append(entries, holder.CapEntry{
			HolderID:   h.ID,
			Identity:   h.Identity,
			Balance:    h.Balance,
			Staked:     h.StakedBalance,
			Percentage: float64(h.Balance) / float64(t.TotalSupply) * 100,
		})
	}
	return entries, nil
}

// ──────────────────────────────────────────────────
// Holdings / ROI
// ──────────────────────────────────────────────────

// Holdings summarizes a holder's position at current prices.
type Holdings struct {
	Holder         *holder.Holder    `json:"holder"`
	TokenCount     int64             `json:"token_count"`
	CostBasisSats  int64             `json:"cost_basis_sats"`
	CurrentValue   int64             `json:"current_value_sats"`
	DividendsSats  int64             `json:"dividends_sats"`
	ROI            pricing.ROIReport `json:"roi"`
	BreakevenUnits int64             `json:"breakeven_units"`
}

// GetHoldings values a holder's position at the current unit price and
// reports ROI against their lifetime spend.
func (e *Engine) GetHoldings(ctx context.Context, holderID id.HolderID, revenuePerServe int64) (*Holdings, error) {
	h, err := e.store.GetHolder(ctx, holderID)
	if err != nil {
		return nil, err
	}

	unitPrice, err := e.UnitPrice(ctx)
	if err != nil {
		return nil, err
	}

	purchases, err := e.store.ListPurchases(ctx, holderID, purchase.ListOpts{Status: purchase.StatusConfirmed})
	if err != nil {
		return nil, err
	}
	var cost int64
	for _, p := range purchases {
		cost += p.TotalPaid
	}

	value := h.Balance * unitPrice

	return &Holdings{
		Holder:         h,
		TokenCount:     h.Balance,
		CostBasisSats:  cost,
		CurrentValue:   value,
		DividendsSats:  h.TotalDividendsEarned,
		ROI:            pricing.ROI(cost, value, h.TotalDividendsEarned),
		BreakevenUnits: pricing.Breakeven(cost, revenuePerServe),
	}, nil
}
