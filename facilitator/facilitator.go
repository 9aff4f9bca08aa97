// Package facilitator implements the x402 payment verification and
// settlement pipeline: validate, burn the nonce, verify the signature,
// settle on the cheapest chain, and anchor a proof inscription on the
// primary chain.
package facilitator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/xraph/mint"
	"github.com/xraph/mint/id"
	"github.com/xraph/mint/inscription"
	"github.com/xraph/mint/plugin"
	"github.com/xraph/mint/store"
	"github.com/xraph/mint/types"
	"github.com/xraph/mint/x402"
)

// DefaultName identifies this facilitator in the proofs it signs.
const DefaultName = "mint-facilitator"

// Facilitator verifies cross-chain payments and settles them as inscribed
// proofs.
type Facilitator struct {
	store       store.Store
	verifiers   map[string]SignatureVerifier
	broadcaster Broadcaster
	schedule    Schedule
	plugins     *plugin.Registry
	logger      *slog.Logger
	name        string
	now         func() time.Time
}

// Option configures a Facilitator instance.
type Option func(*Facilitator)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Facilitator) {
		f.logger = logger
	}
}

// WithVerifier registers the signature verifier for a network.
func WithVerifier(network string, v SignatureVerifier) Option {
	return func(f *Facilitator) {
		f.verifiers[network] = v
	}
}

// WithBroadcaster sets the chain write port.
func WithBroadcaster(b Broadcaster) Option {
	return func(f *Facilitator) {
		f.broadcaster = b
	}
}

// WithSchedule replaces the default fee schedule.
func WithSchedule(s Schedule) Option {
	return func(f *Facilitator) {
		f.schedule = s
	}
}

// WithInscriptionFee overrides the flat inscription fee.
func WithInscriptionFee(fee int64) Option {
	return func(f *Facilitator) {
		f.schedule.InscriptionFee = fee
	}
}

// WithPlugins attaches a shared plugin registry for event emission.
func WithPlugins(r *plugin.Registry) Option {
	return func(f *Facilitator) {
		f.plugins = r
	}
}

// WithName sets the facilitator identifier stamped into proofs.
func WithName(name string) Option {
	return func(f *Facilitator) {
		f.name = name
	}
}

// WithClock overrides the proof timestamp source, for tests.
func WithClock(now func() time.Time) Option {
	return func(f *Facilitator) {
		f.now = now
	}
}

// New creates a Facilitator. A broadcaster and at least one verifier are
// required; construction fails without them.
func New(s store.Store, opts ...Option) (*Facilitator, error) {
	f := &Facilitator{
		store:     s,
		verifiers: make(map[string]SignatureVerifier),
		schedule:  DefaultSchedule(),
		plugins:   plugin.NewRegistry(),
		logger:    slog.Default(),
		name:      DefaultName,
		now:       time.Now,
	}

	for _, opt := range opts {
		opt(f)
	}

	if f.broadcaster == nil {
		return nil, fmt.Errorf("broadcaster: %w", mint.ErrConfiguration)
	}
	if len(f.verifiers) == 0 {
		return nil, fmt.Errorf("verifiers: %w", mint.ErrConfiguration)
	}

	return f, nil
}

// EstimateFees returns the per-chain cost comparison for settling an amount.
func (f *Facilitator) EstimateFees(amount int64) x402.CostComparison {
	return f.schedule.Compare(amount)
}

// Validate checks the request shape without touching any chain or consuming
// the nonce. All failures are terminal.
func (f *Facilitator) Validate(req *x402.VerifyRequest) error {
	if req == nil {
		return &mint.ValidationError{Field: "request", Message: "missing"}
	}
	if req.X402Version != x402.Version {
		return fmt.Errorf("version %d: %w", req.X402Version, mint.ErrUnsupportedVersion)
	}
	if !req.Scheme.Valid() {
		return fmt.Errorf("scheme %q: %w", req.Scheme, mint.ErrUnsupportedScheme)
	}
	if _, ok := x402.LookupNetwork(req.Network); !ok {
		return fmt.Errorf("network %q: %w", req.Network, mint.ErrUnsupportedNetwork)
	}
	if req.Payload.Signature == "" {
		return &mint.ValidationError{Field: "payload.signature", Message: "missing"}
	}

	auth := req.Payload.Authorization
	if auth.From == "" {
		return &mint.ValidationError{Field: "authorization.from", Message: "missing"}
	}
	if auth.To == "" {
		return &mint.ValidationError{Field: "authorization.to", Message: "missing"}
	}
	if auth.Value <= 0 {
		return &mint.ValidationError{Field: "authorization.value", Message: "must be positive"}
	}
	if auth.Nonce == "" {
		return &mint.ValidationError{Field: "authorization.nonce", Message: "missing"}
	}

	if req.Requirements != nil {
		if req.Requirements.Network != req.Network {
			return &mint.ValidationError{Field: "paymentRequirements.network", Message: "does not match request network"}
		}
		if req.Requirements.Scheme != req.Scheme {
			return &mint.ValidationError{Field: "paymentRequirements.scheme", Message: "does not match request scheme"}
		}
	}

	if req.SettleOn != "" {
		if _, ok := x402.LookupNetwork(req.SettleOn); !ok {
			return fmt.Errorf("settleOn %q: %w", req.SettleOn, mint.ErrUnsupportedNetwork)
		}
	}

	return nil
}

// VerifyAndSettle runs the full pipeline on one request.
//
// The nonce is claimed before signature verification and stays consumed even
// if verification then fails. A forged request therefore burns its nonce,
// which means an attacker cannot test verification with a nonce they intend
// to replay later.
func (f *Facilitator) VerifyAndSettle(ctx context.Context, req *x402.VerifyRequest) (*x402.SettleResponse, error) {
	// VALIDATE
	if err := f.Validate(req); err != nil {
		return nil, err
	}

	auth := req.Payload.Authorization

	// A supported network with no registered verifier is a local
	// configuration problem and must not consume the nonce.
	verifier, ok := f.verifiers[req.Network]
	if !ok {
		return nil, fmt.Errorf("no verifier for %s: %w", req.Network, mint.ErrConfiguration)
	}

	// CHECK-NONCE
	if err := f.store.ClaimNonce(ctx, req.Network, auth.Nonce); err != nil {
		if errors.Is(err, mint.ErrReplay) {
			f.logger.Warn("replay rejected",
				"network", req.Network,
				"nonce", auth.Nonce,
			)
			f.plugins.EmitReplayRejected(ctx, req.Network, auth.Nonce)
		}
		return nil, err
	}

	// VERIFY
	v, err := verifier.Verify(ctx, req)
	if err != nil {
		return nil, err
	}
	if !v.Valid {
		f.logger.Warn("verification failed",
			"network", req.Network,
			"reason", v.InvalidReason,
		)
		return nil, fmt.Errorf("%s: %w", v.InvalidReason, mint.ErrVerification)
	}
	amount := v.Amount
	if amount == 0 {
		amount = auth.Value
	}

	f.plugins.EmitPaymentVerified(ctx, req.Network, v.TxID)

	// SETTLE
	settleNetwork := f.chooseSettleChain(req.SettleOn, amount)
	fee, ok := f.schedule.FeeFor(settleNetwork, amount)
	if !ok {
		return nil, fmt.Errorf("no fee model for %s: %w", settleNetwork, mint.ErrConfiguration)
	}

	settlePayload, err := settlementPayload(req, amount)
	if err != nil {
		return nil, err
	}
	settleTx, err := f.broadcaster.Broadcast(ctx, settleNetwork, settlePayload)
	if err != nil {
		return nil, fmt.Errorf("settle on %s: %w", settleNetwork, err)
	}

	// INSCRIBE: the proof is anchored on the primary chain no matter where
	// the payment originated or settled.
	proof := inscription.Proof{
		Type:    inscription.ProofType,
		Version: x402.Version,
		Origin: inscription.Origin{
			Network: req.Network,
			TxID:    v.TxID,
		},
		Payment: inscription.Payment{
			From:   auth.From,
			To:     auth.To,
			Amount: amount,
			Asset:  assetOf(req),
		},
		Signature: req.Payload.Signature,
		Settlement: &inscription.Settlement{
			Network: settleNetwork,
			TxID:    settleTx,
		},
		Timestamp:   f.now().Unix(),
		Facilitator: f.name,
	}

	proofBytes, err := proof.Encode()
	if err != nil {
		return nil, err
	}
	primary := x402.PrimaryNetwork()
	inscriptionTx, err := f.broadcaster.Broadcast(ctx, primary.Name, proofBytes)
	if err != nil {
		return nil, fmt.Errorf("inscribe on %s: %w", primary.Name, err)
	}

	rec := &inscription.Record{
		Entity: types.NewEntity(),
		ID:     id.NewInscriptionID(),
		Proof:  proof,
	}
	if err := f.store.CreateInscription(ctx, rec); err != nil {
		return nil, err
	}

	comparison := f.schedule.Compare(amount)
	resp := &x402.SettleResponse{
		Success:         true,
		Transaction:     settleTx,
		Network:         settleNetwork,
		InscriptionID:   rec.ID.String(),
		InscriptionTxID: inscriptionTx,
		Amount:          amount,
		Fee:             fee,
		CostComparison:  &comparison,
	}

	f.logger.Info("payment settled",
		"origin_network", req.Network,
		"settle_network", settleNetwork,
		"amount", amount,
		"fee_total", fee.Total,
		"inscription_id", rec.ID,
	)

	f.plugins.EmitInscriptionCreated(ctx, rec)
	f.plugins.EmitPaymentSettled(ctx, resp)

	return resp, nil
}

// GetInscription retrieves a recorded proof by ID.
func (f *Facilitator) GetInscription(ctx context.Context, inscriptionID id.InscriptionID) (*inscription.Record, error) {
	return f.store.GetInscription(ctx, inscriptionID)
}

// ListInscriptions lists recorded proofs, newest first.
func (f *Facilitator) ListInscriptions(ctx context.Context, opts inscription.ListOpts) ([]*inscription.Record, error) {
	return f.store.ListInscriptions(ctx, opts)
}

// chooseSettleChain honors an explicit settle target, otherwise picks the
// cheapest chain in the schedule.
func (f *Facilitator) chooseSettleChain(settleOn string, amount int64) string {
	if settleOn != "" {
		if _, ok := f.schedule.Chains[settleOn]; ok {
			return settleOn
		}
	}
	cmp := f.schedule.Compare(amount)
	if cmp.Cheapest != "" {
		return cmp.Cheapest
	}
	return x402.NetworkBSV
}

// settlementPayload is the broadcast body for the settlement transaction:
// the signed authorization plus the verified amount.
func settlementPayload(req *x402.VerifyRequest, amount int64) ([]byte, error) {
	p := struct {
		Scheme  x402.Scheme         `json:"scheme"`
		Network string              `json:"network"`
		Amount  int64               `json:"amount"`
		Payload x402.PaymentPayload `json:"payload"`
	}{
		Scheme:  req.Scheme,
		Network: req.Network,
		Amount:  amount,
		Payload: req.Payload,
	}
	return json.Marshal(p)
}

func assetOf(req *x402.VerifyRequest) string {
	if req.Requirements != nil {
		return req.Requirements.Asset
	}
	return ""
}
