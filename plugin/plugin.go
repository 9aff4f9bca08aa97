// Package plugin provides an extensible plugin system for Mint.
// Plugins can hook into various lifecycle events to extend functionality.
package plugin

import (
	"context"
)

// Plugin is the base interface that all plugins must implement.
type Plugin interface {
	Name() string
}

// ──────────────────────────────────────────────────
// Lifecycle hooks
// ──────────────────────────────────────────────────

// OnInit is called when the plugin is initialized.
type OnInit interface {
	Plugin
	OnInit(ctx context.Context, engine interface{}) error
}

// OnShutdown is called when the plugin is shutting down.
type OnShutdown interface {
	Plugin
	OnShutdown(ctx context.Context) error
}

// ──────────────────────────────────────────────────
// Holder lifecycle hooks
// ──────────────────────────────────────────────────

// OnHolderCreated is called when a new holder is created.
type OnHolderCreated interface {
	Plugin
	OnHolderCreated(ctx context.Context, holder interface{}) error
}

// ──────────────────────────────────────────────────
// Purchase lifecycle hooks
// ──────────────────────────────────────────────────

// OnPurchaseCreated is called when a pending purchase is created.
type OnPurchaseCreated interface {
	Plugin
	OnPurchaseCreated(ctx context.Context, purchase interface{}) error
}

// OnPurchaseConfirmed is called when a purchase settles and tokens move.
type OnPurchaseConfirmed interface {
	Plugin
	OnPurchaseConfirmed(ctx context.Context, purchase interface{}) error
}

// OnPurchaseFailed is called when a pending purchase is marked failed.
type OnPurchaseFailed interface {
	Plugin
	OnPurchaseFailed(ctx context.Context, purchase interface{}, reason string) error
}

// ──────────────────────────────────────────────────
// Staking hooks
// ──────────────────────────────────────────────────

// OnStaked is called when a holder stakes tokens.
type OnStaked interface {
	Plugin
	OnStaked(ctx context.Context, stake interface{}) error
}

// OnUnstaked is called when a holder unstakes tokens.
type OnUnstaked interface {
	Plugin
	OnUnstaked(ctx context.Context, holderID string, amount int64) error
}

// ──────────────────────────────────────────────────
// Dividend hooks
// ──────────────────────────────────────────────────

// OnDividendDistributed is called when a dividend pool is split into claims.
type OnDividendDistributed interface {
	Plugin
	OnDividendDistributed(ctx context.Context, dividend interface{}) error
}

// OnDividendsClaimed is called when a holder settles their pending claims.
type OnDividendsClaimed interface {
	Plugin
	OnDividendsClaimed(ctx context.Context, holderID string, amount int64) error
}

// ──────────────────────────────────────────────────
// Facilitator hooks
// ──────────────────────────────────────────────────

// OnPaymentVerified is called when a payment passes verification.
type OnPaymentVerified interface {
	Plugin
	OnPaymentVerified(ctx context.Context, network, txID string) error
}

// OnPaymentSettled is called when a verified payment is settled on-chain.
type OnPaymentSettled interface {
	Plugin
	OnPaymentSettled(ctx context.Context, response interface{}) error
}

// OnReplayRejected is called when a nonce is presented a second time.
type OnReplayRejected interface {
	Plugin
	OnReplayRejected(ctx context.Context, network, nonce string) error
}

// OnInscriptionCreated is called when a proof inscription is recorded.
type OnInscriptionCreated interface {
	Plugin
	OnInscriptionCreated(ctx context.Context, record interface{}) error
}

// ──────────────────────────────────────────────────
// Pricing strategies
// ──────────────────────────────────────────────────

// PricingStrategy provides a custom pricing curve under its own model name.
type PricingStrategy interface {
	Plugin
	StrategyName() string
	UnitPrice(remaining, sold int64) int64
}

// ──────────────────────────────────────────────────
// Fee estimators
// ──────────────────────────────────────────────────

// FeeEstimator provides live fee estimates for a chain, overriding the
// static schedule.
type FeeEstimator interface {
	Plugin
	EstimatorNetwork() string
	EstimateFee(ctx context.Context, payloadSize int) (int64, error)
}
