// Package observability provides a metrics extension for Mint that records
// lifecycle event counts via an injected MetricFactory.
package observability

import (
	"context"

	"github.com/xraph/mint/dividend"
	"github.com/xraph/mint/plugin"
	"github.com/xraph/mint/purchase"
	"github.com/xraph/mint/stake"
	"github.com/xraph/mint/x402"
)

// Ensure MetricsExtension implements required interfaces.
var (
	_ plugin.Plugin                = (*MetricsExtension)(nil)
	_ plugin.OnInit                = (*MetricsExtension)(nil)
	_ plugin.OnHolderCreated       = (*MetricsExtension)(nil)
	_ plugin.OnPurchaseCreated     = (*MetricsExtension)(nil)
	_ plugin.OnPurchaseConfirmed   = (*MetricsExtension)(nil)
	_ plugin.OnPurchaseFailed      = (*MetricsExtension)(nil)
	_ plugin.OnStaked              = (*MetricsExtension)(nil)
	_ plugin.OnUnstaked            = (*MetricsExtension)(nil)
	_ plugin.OnDividendDistributed = (*MetricsExtension)(nil)
	_ plugin.OnDividendsClaimed    = (*MetricsExtension)(nil)
	_ plugin.OnPaymentVerified     = (*MetricsExtension)(nil)
	_ plugin.OnPaymentSettled      = (*MetricsExtension)(nil)
	_ plugin.OnReplayRejected      = (*MetricsExtension)(nil)
	_ plugin.OnInscriptionCreated  = (*MetricsExtension)(nil)
)

// Counter interface for metric counters.
type Counter interface {
	Inc()
	Add(float64)
}

// Histogram interface for metric histograms.
type Histogram interface {
	Observe(float64)
}

// MetricFactory creates metrics.
type MetricFactory interface {
	Counter(name string) Counter
	Histogram(name string) Histogram
}

// MetricsExtension records system-wide lifecycle metrics.
// Register it as a Mint plugin to automatically track token economics metrics.
type MetricsExtension struct {
	factory MetricFactory

	// Holder metrics
	HolderCreated Counter

	// Purchase metrics
	PurchaseCreated   Counter
	PurchaseConfirmed Counter
	PurchaseFailed    Counter
	TokensSold        Counter
	PurchaseAmount    Histogram

	// Staking metrics
	TokensStaked   Counter
	TokensUnstaked Counter
	StakeAmount    Histogram

	// Dividend metrics
	DividendsDistributed Counter
	DividendsClaimed     Counter
	DividendPayout       Histogram

	// Settlement metrics
	PaymentsVerified    Counter
	PaymentsSettled     Counter
	ReplaysRejected     Counter
	InscriptionsCreated Counter
	SettlementAmount    Histogram
	SettlementFee       Histogram

	// Error metrics
	StoreErrors  Counter
	PluginErrors Counter
}

// NewMetricsExtension creates a MetricsExtension with the provided MetricFactory.
// Use app.Metrics() in forge extensions.
func NewMetricsExtension(factory MetricFactory) *MetricsExtension {
	return &MetricsExtension{
		factory: factory,

		// Holder metrics
		HolderCreated: factory.Counter("mint.holder.created"),

		// Purchase metrics
		PurchaseCreated:   factory.Counter("mint.purchase.created"),
		PurchaseConfirmed: factory.Counter("mint.purchase.confirmed"),
		PurchaseFailed:    factory.Counter("mint.purchase.failed"),
		TokensSold:        factory.Counter("mint.tokens.sold"),
		PurchaseAmount:    factory.Histogram("mint.purchase.amount"),

		// Staking metrics
		TokensStaked:   factory.Counter("mint.tokens.staked"),
		TokensUnstaked: factory.Counter("mint.tokens.unstaked"),
		StakeAmount:    factory.Histogram("mint.stake.amount"),

		// Dividend metrics
		DividendsDistributed: factory.Counter("mint.dividend.distributed"),
		DividendsClaimed:     factory.Counter("mint.dividend.claimed"),
		DividendPayout:       factory.Histogram("mint.dividend.payout_sats"),

		// Settlement metrics
		PaymentsVerified:    factory.Counter("mint.payment.verified"),
		PaymentsSettled:     factory.Counter("mint.payment.settled"),
		ReplaysRejected:     factory.Counter("mint.payment.replay_rejected"),
		InscriptionsCreated: factory.Counter("mint.inscription.created"),
		SettlementAmount:    factory.Histogram("mint.settlement.amount_sats"),
		SettlementFee:       factory.Histogram("mint.settlement.fee_sats"),

		// Error metrics
		StoreErrors:  factory.Counter("mint.store.errors"),
		PluginErrors: factory.Counter("mint.plugin.errors"),
	}
}

// Name implements plugin.Plugin.
func (m *MetricsExtension) Name() string { return "observability-metrics" }

// OnInit implements plugin.OnInit.
func (m *MetricsExtension) OnInit(_ context.Context, _ interface{}) error {
	// No initialization needed
	return nil
}

// ──────────────────────────────────────────────────
// Holder lifecycle hooks
// ──────────────────────────────────────────────────

// OnHolderCreated implements plugin.OnHolderCreated.
func (m *MetricsExtension) OnHolderCreated(_ context.Context, _ interface{}) error {
	m.HolderCreated.Inc()
	return nil
}

// ──────────────────────────────────────────────────
// Purchase lifecycle hooks
// ──────────────────────────────────────────────────

// OnPurchaseCreated implements plugin.OnPurchaseCreated.
func (m *MetricsExtension) OnPurchaseCreated(_ context.Context, _ interface{}) error {
	m.PurchaseCreated.Inc()
	return nil
}

// OnPurchaseConfirmed implements plugin.OnPurchaseConfirmed.
func (m *MetricsExtension) OnPurchaseConfirmed(_ context.Context, p interface{}) error {
	m.PurchaseConfirmed.Inc()
	if pp, ok := p.(*purchase.Purchase); ok {
		m.TokensSold.Add(float64(pp.Amount))
		m.PurchaseAmount.Observe(float64(pp.Amount))
	}
	return nil
}

// OnPurchaseFailed implements plugin.OnPurchaseFailed.
func (m *MetricsExtension) OnPurchaseFailed(_ context.Context, _ interface{}, _ string) error {
	m.PurchaseFailed.Inc()
	return nil
}

// ──────────────────────────────────────────────────
// Staking hooks
// ──────────────────────────────────────────────────

// OnStaked implements plugin.OnStaked.
func (m *MetricsExtension) OnStaked(_ context.Context, s interface{}) error {
	m.TokensStaked.Inc()
	if st, ok := s.(*stake.Stake); ok {
		m.StakeAmount.Observe(float64(st.Amount))
	}
	return nil
}

// OnUnstaked implements plugin.OnUnstaked.
func (m *MetricsExtension) OnUnstaked(_ context.Context, _ string, _ int64) error {
	m.TokensUnstaked.Inc()
	return nil
}

// ──────────────────────────────────────────────────
// Dividend hooks
// ──────────────────────────────────────────────────

// OnDividendDistributed implements plugin.OnDividendDistributed.
func (m *MetricsExtension) OnDividendDistributed(_ context.Context, d interface{}) error {
	m.DividendsDistributed.Inc()
	if dd, ok := d.(*dividend.Dividend); ok {
		m.DividendPayout.Observe(float64(dd.Distributed))
	}
	return nil
}

// OnDividendsClaimed implements plugin.OnDividendsClaimed.
func (m *MetricsExtension) OnDividendsClaimed(_ context.Context, _ string, _ int64) error {
	m.DividendsClaimed.Inc()
	return nil
}

// ──────────────────────────────────────────────────
// Settlement hooks
// ──────────────────────────────────────────────────

// OnPaymentVerified implements plugin.OnPaymentVerified.
func (m *MetricsExtension) OnPaymentVerified(_ context.Context, _, _ string) error {
	m.PaymentsVerified.Inc()
	return nil
}

// OnPaymentSettled implements plugin.OnPaymentSettled.
func (m *MetricsExtension) OnPaymentSettled(_ context.Context, response interface{}) error {
	m.PaymentsSettled.Inc()
	if resp, ok := response.(*x402.SettleResponse); ok {
		m.SettlementAmount.Observe(float64(resp.Amount))
		m.SettlementFee.Observe(float64(resp.Fee.Total))
	}
	return nil
}

// OnReplayRejected implements plugin.OnReplayRejected.
func (m *MetricsExtension) OnReplayRejected(_ context.Context, _, _ string) error {
	m.ReplaysRejected.Inc()
	return nil
}

// OnInscriptionCreated implements plugin.OnInscriptionCreated.
func (m *MetricsExtension) OnInscriptionCreated(_ context.Context, _ interface{}) error {
	m.InscriptionsCreated.Inc()
	return nil
}
