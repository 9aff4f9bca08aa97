// Package audithook bridges Mint lifecycle events to an audit trail backend.
//
// It defines a local Recorder interface so the package does not import
// Chronicle directly. Callers inject a RecorderFunc adapter that bridges
// to Chronicle at wiring time.
package audithook

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/xraph/mint/dividend"
	"github.com/xraph/mint/plugin"
	"github.com/xraph/mint/purchase"
	"github.com/xraph/mint/stake"
	"github.com/xraph/mint/x402"
)

// Compile-time interface checks.
var (
	_ plugin.Plugin                = (*Extension)(nil)
	_ plugin.OnHolderCreated       = (*Extension)(nil)
	_ plugin.OnPurchaseCreated     = (*Extension)(nil)
	_ plugin.OnPurchaseConfirmed   = (*Extension)(nil)
	_ plugin.OnPurchaseFailed      = (*Extension)(nil)
	_ plugin.OnStaked              = (*Extension)(nil)
	_ plugin.OnUnstaked            = (*Extension)(nil)
	_ plugin.OnDividendDistributed = (*Extension)(nil)
	_ plugin.OnDividendsClaimed    = (*Extension)(nil)
	_ plugin.OnPaymentSettled      = (*Extension)(nil)
	_ plugin.OnReplayRejected      = (*Extension)(nil)
)

// Recorder is the interface that audit backends must implement.
// This matches chronicle.Emitter but is defined locally so that the
// audit hook package does not import Chronicle directly; callers inject
// the concrete *chronicle.Chronicle at wiring time.
type Recorder interface {
	Record(ctx context.Context, event *AuditEvent) error
}

// AuditEvent is a local representation of an audit event.
// It mirrors chronicle/audit.Event but avoids a module dependency.
type AuditEvent struct {
	Action     string         `json:"action"`
	Resource   string         `json:"resource"`
	Category   string         `json:"category"`
	ResourceID string         `json:"resource_id,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	Outcome    string         `json:"outcome"`
	Severity   string         `json:"severity"`
	Reason     string         `json:"reason,omitempty"`
}

// RecorderFunc is an adapter to use a plain function as a Recorder.
type RecorderFunc func(ctx context.Context, event *AuditEvent) error

// Record implements Recorder.
func (f RecorderFunc) Record(ctx context.Context, event *AuditEvent) error {
	return f(ctx, event)
}

// Extension bridges Mint lifecycle events to an audit trail backend.
type Extension struct {
	recorder Recorder
	enabled  map[string]bool // nil = all enabled
	logger   *slog.Logger
}

// New creates an Extension that emits audit events through the provided Recorder.
func New(r Recorder, opts ...Option) *Extension {
	e := &Extension{
		recorder: r,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Name implements plugin.Plugin.
func (e *Extension) Name() string { return "audit-hook" }

// ──────────────────────────────────────────────────
// Holder lifecycle hooks
// ──────────────────────────────────────────────────

// OnHolderCreated implements plugin.OnHolderCreated.
func (e *Extension) OnHolderCreated(ctx context.Context, _ interface{}) error {
	return e.record(ctx, ActionHolderCreated, SeverityInfo, OutcomeSuccess,
		ResourceHolder, "", CategoryLedger, nil,
		"event", "holder_created",
	)
}

// ──────────────────────────────────────────────────
// Purchase lifecycle hooks
// ──────────────────────────────────────────────────

// OnPurchaseCreated implements plugin.OnPurchaseCreated.
func (e *Extension) OnPurchaseCreated(ctx context.Context, p interface{}) error {
	var resourceID string
	var amount int64
	if pp, ok := p.(*purchase.Purchase); ok {
		resourceID = pp.ID.String()
		amount = pp.Amount
	}
	return e.record(ctx, ActionPurchaseCreated, SeverityInfo, OutcomeSuccess,
		ResourcePurchase, resourceID, CategoryLedger, nil,
		"event", "purchase_created",
		"amount", amount,
	)
}

// OnPurchaseConfirmed implements plugin.OnPurchaseConfirmed.
func (e *Extension) OnPurchaseConfirmed(ctx context.Context, p interface{}) error {
	var resourceID, txID string
	var amount int64
	if pp, ok := p.(*purchase.Purchase); ok {
		resourceID = pp.ID.String()
		txID = pp.TxID
		amount = pp.Amount
	}
	return e.record(ctx, ActionPurchaseConfirmed, SeverityInfo, OutcomeSuccess,
		ResourcePurchase, resourceID, CategoryLedger, nil,
		"event", "purchase_confirmed",
		"amount", amount,
		"tx_id", txID,
	)
}

// OnPurchaseFailed implements plugin.OnPurchaseFailed.
func (e *Extension) OnPurchaseFailed(ctx context.Context, p interface{}, reason string) error {
	var resourceID string
	if pp, ok := p.(*purchase.Purchase); ok {
		resourceID = pp.ID.String()
	}
	return e.record(ctx, ActionPurchaseFailed, SeverityWarning, OutcomeFailure,
		ResourcePurchase, resourceID, CategoryLedger, nil,
		"event", "purchase_failed",
		"fail_reason", reason,
	)
}

// ──────────────────────────────────────────────────
// Staking hooks
// ──────────────────────────────────────────────────

// OnStaked implements plugin.OnStaked.
func (e *Extension) OnStaked(ctx context.Context, s interface{}) error {
	var resourceID string
	var amount int64
	if st, ok := s.(*stake.Stake); ok {
		resourceID = st.ID.String()
		amount = st.Amount
	}
	return e.record(ctx, ActionStaked, SeverityInfo, OutcomeSuccess,
		ResourceStake, resourceID, CategoryStaking, nil,
		"event", "staked",
		"amount", amount,
	)
}

// OnUnstaked implements plugin.OnUnstaked.
func (e *Extension) OnUnstaked(ctx context.Context, holderID string, amount int64) error {
	return e.record(ctx, ActionUnstaked, SeverityInfo, OutcomeSuccess,
		ResourceStake, holderID, CategoryStaking, nil,
		"event", "unstaked",
		"holder_id", holderID,
		"amount", amount,
	)
}

// ──────────────────────────────────────────────────
// Dividend hooks
// ──────────────────────────────────────────────────

// OnDividendDistributed implements plugin.OnDividendDistributed.
func (e *Extension) OnDividendDistributed(ctx context.Context, d interface{}) error {
	var resourceID string
	var total, remainder int64
	if dd, ok := d.(*dividend.Dividend); ok {
		resourceID = dd.ID.String()
		total = dd.TotalAmount
		remainder = dd.Remainder
	}
	return e.record(ctx, ActionDividendDistributed, SeverityInfo, OutcomeSuccess,
		ResourceDividend, resourceID, CategoryDividend, nil,
		"event", "dividend_distributed",
		"total_amount", total,
		"remainder", remainder,
	)
}

// OnDividendsClaimed implements plugin.OnDividendsClaimed.
func (e *Extension) OnDividendsClaimed(ctx context.Context, holderID string, amount int64) error {
	return e.record(ctx, ActionDividendsClaimed, SeverityInfo, OutcomeSuccess,
		ResourceDividend, holderID, CategoryDividend, nil,
		"event", "dividends_claimed",
		"holder_id", holderID,
		"amount", amount,
	)
}

// ──────────────────────────────────────────────────
// Settlement hooks
// ──────────────────────────────────────────────────

// OnPaymentSettled implements plugin.OnPaymentSettled.
func (e *Extension) OnPaymentSettled(ctx context.Context, response interface{}) error {
	var resourceID, network string
	var amount int64
	if resp, ok := response.(*x402.SettleResponse); ok {
		resourceID = resp.InscriptionID
		network = resp.Network
		amount = resp.Amount
	}
	return e.record(ctx, ActionPaymentSettled, SeverityInfo, OutcomeSuccess,
		ResourcePayment, resourceID, CategorySettlement, nil,
		"event", "payment_settled",
		"network", network,
		"amount", amount,
	)
}

// OnReplayRejected implements plugin.OnReplayRejected.
func (e *Extension) OnReplayRejected(ctx context.Context, network, nonce string) error {
	return e.record(ctx, ActionReplayRejected, SeverityWarning, OutcomeFailure,
		ResourcePayment, nonce, CategorySecurity, nil,
		"event", "replay_rejected",
		"network", network,
		"nonce", nonce,
	)
}

// ──────────────────────────────────────────────────
// Internal helpers
// ──────────────────────────────────────────────────

// record builds and sends an audit event if the action is enabled.
func (e *Extension) record(
	ctx context.Context,
	action, severity, outcome string,
	resource, resourceID, category string,
	err error,
	kvPairs ...any,
) error {
	if e.enabled != nil && !e.enabled[action] {
		return nil
	}

	meta := make(map[string]any, len(kvPairs)/2+1)
	for i := 0; i+1 < len(kvPairs); i += 2 {
		key, ok := kvPairs[i].(string)
		if !ok {
			key = fmt.Sprintf("%v", kvPairs[i])
		}
		meta[key] = kvPairs[i+1]
	}

	var reason string
	if err != nil {
		reason = err.Error()
		meta["error"] = err.Error()
	}

	evt := &AuditEvent{
		Action:     action,
		Resource:   resource,
		Category:   category,
		ResourceID: resourceID,
		Metadata:   meta,
		Outcome:    outcome,
		Severity:   severity,
		Reason:     reason,
	}

	if recErr := e.recorder.Record(ctx, evt); recErr != nil {
		e.logger.Warn("audit_hook: failed to record audit event",
			"action", action,
			"resource_id", resourceID,
			"error", recErr,
		)
	}
	return nil
}
