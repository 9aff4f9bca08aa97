package facilitator

import (
	"context"

	"github.com/xraph/mint/x402"
)

// Verification is the outcome of a network-specific signature check.
type Verification struct {
	Valid bool

	// InvalidReason explains a failed verification in caller-safe terms.
	InvalidReason string

	// Amount is the verified payment amount, which is authoritative over
	// anything the request claimed.
	Amount int64

	// TxID is the origin-chain transaction the verifier attests to, when
	// one exists.
	TxID string
}

// SignatureVerifier checks a payment authorization against one chain
// family's signature scheme. Implementations are registered per network.
type SignatureVerifier interface {
	Verify(ctx context.Context, req *x402.VerifyRequest) (Verification, error)
}

// Broadcaster writes a payload to a chain and returns the transaction ID.
// Chain writes are delegated entirely to this port; the facilitator never
// talks to a node itself.
type Broadcaster interface {
	Broadcast(ctx context.Context, network string, payload []byte) (string, error)
}
