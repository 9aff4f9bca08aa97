// Package inscription defines the immutable proof records the facilitator
// anchors on-chain, and the nonce ledger that guards against replays.
package inscription

import (
	"encoding/json"
	"time"

	"github.com/xraph/mint/id"
	"github.com/xraph/mint/types"
)

// ProofType is the fixed type tag of an inscription proof payload.
const ProofType = "x402-payment-proof"

// Origin identifies the payment on its source chain.
type Origin struct {
	Network string `json:"network"`
	TxID    string `json:"txId"`
}

// Payment is the verified payment detail bound into the proof.
type Payment struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Amount int64  `json:"amount"`
	Asset  string `json:"asset"`
}

// Settlement references the settlement transaction, when one was made.
type Settlement struct {
	Network string `json:"network"`
	TxID    string `json:"txId"`
}

// Proof is the broadcast payload linking an origin-chain payment to its
// settlement. The schema is fixed for audit compatibility: field set, field
// order, and encoding must not change, and Encode/Decode round-trip
// byte-for-byte.
type Proof struct {
	Type        string      `json:"type"`
	Version     int         `json:"version"`
	Origin      Origin      `json:"origin"`
	Payment     Payment     `json:"payment"`
	Signature   string      `json:"signature"`
	Settlement  *Settlement `json:"settlement,omitempty"`
	Timestamp   int64       `json:"timestamp"`
	Facilitator string      `json:"facilitator"`
}

// Encode serializes the proof into its canonical broadcast form.
func (p *Proof) Encode() ([]byte, error) {
	return json.Marshal(p)
}

// Decode parses a canonical proof payload.
func Decode(data []byte) (*Proof, error) {
	var p Proof
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Record is a persisted inscription: the proof plus its storage identity.
type Record struct {
	types.Entity
	ID    id.InscriptionID `json:"id"`
	Proof Proof            `json:"proof"`
}

// NonceRecord marks a consumed (network, nonce) pair. The nonce ledger is
// append-only: a recorded pair is never accepted again for that network.
type NonceRecord struct {
	Network string    `json:"network"`
	Nonce   string    `json:"nonce"`
	SeenAt  time.Time `json:"seen_at"`
}
