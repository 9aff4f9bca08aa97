package facilitator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/xraph/mint"
	"github.com/xraph/mint/id"
	"github.com/xraph/mint/inscription"
	"github.com/xraph/mint/store/memory"
	"github.com/xraph/mint/x402"
)

// stubVerifier approves or rejects everything it sees.
type stubVerifier struct {
	valid  bool
	reason string
	amount int64
	txID   string
	calls  int
}

func (v *stubVerifier) Verify(_ context.Context, req *x402.VerifyRequest) (Verification, error) {
	v.calls++
	amount := v.amount
	if amount == 0 {
		amount = req.Payload.Authorization.Value
	}
	return Verification{
		Valid:         v.valid,
		InvalidReason: v.reason,
		Amount:        amount,
		TxID:          v.txID,
	}, nil
}

// stubBroadcaster records broadcasts and mints deterministic transaction IDs.
type stubBroadcaster struct {
	mu    sync.Mutex
	seq   int
	calls []string // network per broadcast, in order
}

func (b *stubBroadcaster) Broadcast(_ context.Context, network string, _ []byte) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.seq++
	b.calls = append(b.calls, network)
	return fmt.Sprintf("%s-tx-%d", network, b.seq), nil
}

func validRequest(nonce string) *x402.VerifyRequest {
	return &x402.VerifyRequest{
		X402Version: x402.Version,
		Scheme:      x402.SchemeExact,
		Network:     "base",
		Payload: x402.PaymentPayload{
			Signature: "0xsig",
			Authorization: x402.Authorization{
				From:  "0xpayer",
				To:    "0xpayee",
				Value: 50_000,
				Nonce: nonce,
			},
		},
	}
}

func newFacilitator(t *testing.T, opts ...Option) (*Facilitator, *stubBroadcaster) {
	t.Helper()
	b := &stubBroadcaster{}
	base := []Option{
		WithBroadcaster(b),
		WithVerifier("base", &stubVerifier{valid: true, txID: "0xorigin"}),
		WithVerifier("bsv", &stubVerifier{valid: true, txID: "bsvorigin"}),
		WithClock(func() time.Time { return time.Unix(1700000000, 0).UTC() }),
	}
	f, err := New(memory.New(), append(base, opts...)...)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return f, b
}

func TestNewRequiresPorts(t *testing.T) {
	if _, err := New(memory.New()); !errors.Is(err, mint.ErrConfiguration) {
		t.Errorf("no ports: error = %v, want ErrConfiguration", err)
	}
	if _, err := New(memory.New(), WithBroadcaster(&stubBroadcaster{})); !errors.Is(err, mint.ErrConfiguration) {
		t.Errorf("no verifiers: error = %v, want ErrConfiguration", err)
	}
}

func TestValidate(t *testing.T) {
	f, _ := newFacilitator(t)

	tests := []struct {
		name    string
		mutate  func(*x402.VerifyRequest)
		wantErr error
	}{
		{
			name:    "wrong version",
			mutate:  func(r *x402.VerifyRequest) { r.X402Version = 2 },
			wantErr: mint.ErrUnsupportedVersion,
		},
		{
			name:    "unknown scheme",
			mutate:  func(r *x402.VerifyRequest) { r.Scheme = "streaming" },
			wantErr: mint.ErrUnsupportedScheme,
		},
		{
			name:    "unknown network",
			mutate:  func(r *x402.VerifyRequest) { r.Network = "dogecoin" },
			wantErr: mint.ErrUnsupportedNetwork,
		},
		{
			name:    "unknown settle target",
			mutate:  func(r *x402.VerifyRequest) { r.SettleOn = "dogecoin" },
			wantErr: mint.ErrUnsupportedNetwork,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest("n1")
			tt.mutate(req)
			if err := f.Validate(req); !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateMissingFields(t *testing.T) {
	f, _ := newFacilitator(t)

	tests := []struct {
		name   string
		mutate func(*x402.VerifyRequest)
		field  string
	}{
		{"no signature", func(r *x402.VerifyRequest) { r.Payload.Signature = "" }, "payload.signature"},
		{"no from", func(r *x402.VerifyRequest) { r.Payload.Authorization.From = "" }, "authorization.from"},
		{"no to", func(r *x402.VerifyRequest) { r.Payload.Authorization.To = "" }, "authorization.to"},
		{"zero value", func(r *x402.VerifyRequest) { r.Payload.Authorization.Value = 0 }, "authorization.value"},
		{"no nonce", func(r *x402.VerifyRequest) { r.Payload.Authorization.Nonce = "" }, "authorization.nonce"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest("n1")
			tt.mutate(req)
			err := f.Validate(req)
			var verr *mint.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("error = %v, want ValidationError", err)
			}
			if verr.Field != tt.field {
				t.Errorf("field = %s, want %s", verr.Field, tt.field)
			}
		})
	}
}

func TestVerifyAndSettle(t *testing.T) {
	ctx := context.Background()
	f, b := newFacilitator(t)

	resp, err := f.VerifyAndSettle(ctx, validRequest("nonce-1"))
	if err != nil {
		t.Fatalf("VerifyAndSettle failed: %v", err)
	}
	if !resp.Success {
		t.Error("response not successful")
	}
	// Nothing named bsv as the target, so settlement routes to the cheapest
	// chain, which is the primary.
	if resp.Network != "bsv" {
		t.Errorf("settle network = %s, want bsv", resp.Network)
	}
	if resp.Amount != 50_000 {
		t.Errorf("amount = %d, want 50000", resp.Amount)
	}
	// 50000 * 10bps = 50, +1 base, +50 inscription.
	if resp.Fee.Settlement != 51 || resp.Fee.Inscription != 50 || resp.Fee.Total != 101 {
		t.Errorf("fee = %+v, want 51/50/101", resp.Fee)
	}
	if resp.CostComparison == nil || resp.CostComparison.Cheapest != "bsv" {
		t.Errorf("comparison = %+v, want cheapest bsv", resp.CostComparison)
	}

	// Settlement broadcast, then the proof anchored on the primary chain.
	if len(b.calls) != 2 || b.calls[0] != "bsv" || b.calls[1] != "bsv" {
		t.Errorf("broadcasts = %v, want [bsv bsv]", b.calls)
	}

	recs, err := f.ListInscriptions(ctx, inscription.ListOpts{OriginNetwork: "base"})
	if err != nil {
		t.Fatalf("ListInscriptions failed: %v", err)
	}
	if len(recs) != 1 {
		t.Errorf("inscriptions = %d, want 1", len(recs))
	}
}

func TestVerifyAndSettleInscribesProof(t *testing.T) {
	ctx := context.Background()
	f, _ := newFacilitator(t)

	resp, err := f.VerifyAndSettle(ctx, validRequest("nonce-1"))
	if err != nil {
		t.Fatalf("VerifyAndSettle failed: %v", err)
	}

	recID, err := id.ParseInscriptionID(resp.InscriptionID)
	if err != nil {
		t.Fatalf("bad inscription ID %q: %v", resp.InscriptionID, err)
	}
	rec, err := f.GetInscription(ctx, recID)
	if err != nil {
		t.Fatalf("GetInscription failed: %v", err)
	}

	p := rec.Proof
	if p.Type != "x402-payment-proof" || p.Version != 1 {
		t.Errorf("proof header = %s v%d", p.Type, p.Version)
	}
	if p.Origin.Network != "base" || p.Origin.TxID != "0xorigin" {
		t.Errorf("origin = %+v, want base/0xorigin", p.Origin)
	}
	if p.Payment.From != "0xpayer" || p.Payment.To != "0xpayee" || p.Payment.Amount != 50_000 {
		t.Errorf("payment = %+v", p.Payment)
	}
	if p.Settlement == nil || p.Settlement.Network != "bsv" {
		t.Errorf("settlement = %+v, want bsv", p.Settlement)
	}
	if p.Timestamp != 1700000000 {
		t.Errorf("timestamp = %d, want 1700000000", p.Timestamp)
	}
	if p.Facilitator != DefaultName {
		t.Errorf("facilitator = %s, want %s", p.Facilitator, DefaultName)
	}
}

func TestVerifyAndSettleRejectsReplay(t *testing.T) {
	ctx := context.Background()
	f, _ := newFacilitator(t)

	req := &x402.VerifyRequest{
		X402Version: x402.Version,
		Scheme:      x402.SchemeExact,
		Network:     "bsv",
		Payload: x402.PaymentPayload{
			Signature: "sig",
			Authorization: x402.Authorization{
				From:  "payer",
				To:    "payee",
				Value: 1000,
				Nonce: "abc",
			},
		},
	}

	if _, err := f.VerifyAndSettle(ctx, req); err != nil {
		t.Fatalf("first settle failed: %v", err)
	}
	if _, err := f.VerifyAndSettle(ctx, req); !errors.Is(err, mint.ErrReplay) {
		t.Errorf("replay error = %v, want ErrReplay", err)
	}
}

// A missing verifier is a local configuration problem, so it must not burn
// the nonce: registering the verifier and retrying the same request works.
func TestMissingVerifierLeavesNonceUnclaimed(t *testing.T) {
	ctx := context.Background()
	f, _ := newFacilitator(t)

	req := validRequest("kept")
	req.Network = "ethereum" // supported network, no verifier registered

	for i := 0; i < 2; i++ {
		if _, err := f.VerifyAndSettle(ctx, req); !errors.Is(err, mint.ErrConfiguration) {
			t.Fatalf("attempt %d error = %v, want ErrConfiguration", i+1, err)
		}
	}

	// The nonce was never consumed, so the pair is still claimable.
	if err := f.store.ClaimNonce(ctx, req.Network, "kept"); err != nil {
		t.Errorf("nonce was burned by configuration error: %v", err)
	}
}

// A nonce burned by a failed verification cannot be presented again.
func TestNonceConsumedOnFailedVerification(t *testing.T) {
	ctx := context.Background()
	rejecting := &stubVerifier{valid: false, reason: "bad signature"}
	f, _ := newFacilitator(t, WithVerifier("base", rejecting))

	req := validRequest("burned")
	_, err := f.VerifyAndSettle(ctx, req)
	if !errors.Is(err, mint.ErrVerification) {
		t.Fatalf("error = %v, want ErrVerification", err)
	}
	if !strings.Contains(err.Error(), "bad signature") {
		t.Errorf("error %q does not carry the reason", err)
	}

	// Retry with the same nonce: rejected as replay before any verifier runs.
	_, err = f.VerifyAndSettle(ctx, req)
	if !errors.Is(err, mint.ErrReplay) {
		t.Errorf("retry error = %v, want ErrReplay", err)
	}
	if rejecting.calls != 1 {
		t.Errorf("verifier called %d times, want 1", rejecting.calls)
	}
}

func TestSettleOnHonored(t *testing.T) {
	ctx := context.Background()
	f, b := newFacilitator(t)

	req := validRequest("nonce-so")
	req.SettleOn = "base"

	resp, err := f.VerifyAndSettle(ctx, req)
	if err != nil {
		t.Fatalf("VerifyAndSettle failed: %v", err)
	}
	if resp.Network != "base" {
		t.Errorf("settle network = %s, want base", resp.Network)
	}
	// Settlement on base, proof still anchored on the primary chain.
	if len(b.calls) != 2 || b.calls[0] != "base" || b.calls[1] != "bsv" {
		t.Errorf("broadcasts = %v, want [base bsv]", b.calls)
	}
}

func TestEstimateFees(t *testing.T) {
	f, _ := newFacilitator(t)

	cmp := f.EstimateFees(100_000)
	if cmp.Cheapest != "bsv" {
		t.Errorf("cheapest = %s, want bsv", cmp.Cheapest)
	}
	if len(cmp.Estimates) != 4 {
		t.Fatalf("estimates = %d, want 4", len(cmp.Estimates))
	}

	byNetwork := make(map[string]x402.Fee)
	for _, e := range cmp.Estimates {
		byNetwork[e.Network] = e.Fee
	}

	// bsv: ceil(100000*0.001)=100, +1 base, +50 inscription.
	if got := byNetwork["bsv"]; got.Total != 151 {
		t.Errorf("bsv total = %d, want 151", got.Total)
	}
	// ethereum: ceil(100000*0.01)=1000, +500 base, +50 inscription.
	if got := byNetwork["ethereum"]; got.Total != 1550 {
		t.Errorf("ethereum total = %d, want 1550", got.Total)
	}
	// Estimates come back cheapest first.
	for i := 1; i < len(cmp.Estimates); i++ {
		if cmp.Estimates[i].Fee.Total < cmp.Estimates[i-1].Fee.Total {
			t.Errorf("estimates not sorted: %v", cmp.Estimates)
		}
	}
}

func TestCeilBps(t *testing.T) {
	tests := []struct {
		amount, bps, want int64
	}{
		{10000, 10, 10},
		{10001, 10, 11}, // 10.001 rounds up
		{1, 10, 1},      // 0.001 rounds up
		{0, 10, 0},
		{10000, 0, 0},
	}
	for _, tt := range tests {
		if got := ceilBps(tt.amount, tt.bps); got != tt.want {
			t.Errorf("ceilBps(%d, %d) = %d, want %d", tt.amount, tt.bps, got, tt.want)
		}
	}
}
