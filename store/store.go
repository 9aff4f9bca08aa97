package store

import (
	"context"
	"time"

	"github.com/xraph/mint/dividend"
	"github.com/xraph/mint/holder"
	"github.com/xraph/mint/id"
	"github.com/xraph/mint/inscription"
	"github.com/xraph/mint/purchase"
	"github.com/xraph/mint/stake"
	"github.com/xraph/mint/treasury"
)

// Store is the unified storage interface for all Mint entities.
// Instead of embedding the sub-interfaces, we explicitly declare all methods
// to avoid naming conflicts.
//
// The compound methods (SettlePurchase, ApplyStake, ApplyUnstake,
// SettleClaims, ClaimNonce) are transactions: each backend must apply the
// whole mutation atomically, including its precondition check. They are the
// single serialization point that keeps the supply-conservation, staking,
// and nonce invariants under concurrent callers.
type Store interface {
	// Holder methods
	CreateHolder(ctx context.Context, h *holder.Holder) error
	GetHolder(ctx context.Context, holderID id.HolderID) (*holder.Holder, error)
	GetHolderByIdentity(ctx context.Context, identity holder.Identity) (*holder.Holder, error)
	UpdateHolder(ctx context.Context, h *holder.Holder) error
	ListHolders(ctx context.Context, opts holder.ListOpts) ([]*holder.Holder, error)

	// ListStakers returns holders with a positive staked balance.
	ListStakers(ctx context.Context) ([]*holder.Holder, error)

	// Treasury methods
	//
	// SeedTreasury creates the singleton treasury holding the full supply.
	// Seeding an already-seeded store is a no-op.
	SeedTreasury(ctx context.Context, totalSupply int64) error
	GetTreasury(ctx context.Context) (*treasury.Treasury, error)

	// Purchase methods
	CreatePurchase(ctx context.Context, p *purchase.Purchase) error
	GetPurchase(ctx context.Context, purchaseID id.PurchaseID) (*purchase.Purchase, error)
	ListPurchases(ctx context.Context, holderID id.HolderID, opts purchase.ListOpts) ([]*purchase.Purchase, error)

	// SettlePurchase atomically confirms a pending purchase: re-validates
	// treasury supply, moves tokens from the treasury to the holder, records
	// revenue, and marks the purchase confirmed with the given proof
	// reference. Fails on non-pending purchases and on exhausted supply.
	SettlePurchase(ctx context.Context, purchaseID id.PurchaseID, txID string) (*purchase.Purchase, error)
	FailPurchase(ctx context.Context, purchaseID id.PurchaseID, reason string) error

	// Stake methods
	//
	// ApplyStake creates the stake row and raises the holder's staked
	// balance, rejecting amounts above the holder's unstaked balance.
	ApplyStake(ctx context.Context, s *stake.Stake) error

	// ApplyUnstake lowers the holder's staked balance by walking active
	// stakes newest-first, fully unstaking covered rows and shrinking the
	// row that covers the remainder. Rejects amounts above the staked
	// balance without mutating anything.
	ApplyUnstake(ctx context.Context, holderID id.HolderID, amount int64, at time.Time) error

	ListActiveStakes(ctx context.Context, holderID id.HolderID) ([]*stake.Stake, error)
	TotalStaked(ctx context.Context) (int64, error)

	// Dividend methods
	CreateDividend(ctx context.Context, d *dividend.Dividend, claims []*dividend.Claim) error
	GetDividend(ctx context.Context, dividendID id.DividendID) (*dividend.Dividend, error)
	ListPendingClaims(ctx context.Context, holderID id.HolderID) ([]*dividend.Claim, error)

	// SettleClaims marks every pending claim for the holder as claimed,
	// credits the holder's lifetime dividend total, and returns the sats
	// claimed. A holder with no pending claims settles zero.
	SettleClaims(ctx context.Context, holderID id.HolderID, at time.Time) (int64, error)

	// Inscription methods
	CreateInscription(ctx context.Context, rec *inscription.Record) error
	GetInscription(ctx context.Context, inscriptionID id.InscriptionID) (*inscription.Record, error)
	ListInscriptions(ctx context.Context, opts inscription.ListOpts) ([]*inscription.Record, error)

	// ClaimNonce atomically records a (network, nonce) pair, failing with
	// ErrReplay if the pair was ever recorded. Check and insert are one
	// operation.
	ClaimNonce(ctx context.Context, network, nonce string) error

	// Core methods
	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}
