// Package x402 defines the wire types of the x402 payment protocol as the
// facilitator consumes them: versioned verify/settle requests carrying a
// signed payment authorization for one of the supported chains.
package x402

// Version is the protocol version this facilitator speaks. Requests with
// any other version are rejected before any chain call.
const Version = 1

// Scheme is the payment scheme identifier.
type Scheme string

const (
	// SchemeExact authorizes exactly the stated value.
	SchemeExact Scheme = "exact"

	// SchemeUpto authorizes any amount up to the stated value.
	SchemeUpto Scheme = "upto"
)

// Valid reports whether the scheme is one the facilitator accepts.
func (s Scheme) Valid() bool {
	return s == SchemeExact || s == SchemeUpto
}

// ChainFamily classifies a network into a blockchain family, which decides
// the signature/authorization format a verifier must apply.
type ChainFamily string

const (
	ChainEVM  ChainFamily = "evm"  // EIP-712 style typed-data authorizations
	ChainUTXO ChainFamily = "utxo" // native UTXO signature formats
	ChainSVM  ChainFamily = "svm"  // Solana message signatures
)

// Authorization is the signed payment authorization block. The nonce is
// single-use per network.
type Authorization struct {
	From        string `json:"from"`
	To          string `json:"to"`
	Value       int64  `json:"value"`
	Nonce       string `json:"nonce"`
	ValidAfter  *int64 `json:"validAfter,omitempty"`
	ValidBefore *int64 `json:"validBefore,omitempty"`
}

// PaymentPayload carries the signature over the authorization.
type PaymentPayload struct {
	Signature     string        `json:"signature"`
	Authorization Authorization `json:"authorization"`
}

// PaymentRequirements describe what the payee demanded; the verifier checks
// the authorization satisfies them.
type PaymentRequirements struct {
	Scheme  Scheme `json:"scheme"`
	Network string `json:"network"`
	Amount  int64  `json:"maxAmountRequired"`
	PayTo   string `json:"payTo"`
	Asset   string `json:"asset,omitempty"`
}

// VerifyRequest is the inbound verify/settle request.
type VerifyRequest struct {
	X402Version  int                  `json:"x402Version"`
	Scheme       Scheme               `json:"scheme"`
	Network      string               `json:"network"`
	Payload      PaymentPayload       `json:"payload"`
	Requirements *PaymentRequirements `json:"paymentRequirements,omitempty"`

	// SettleOn optionally names the chain to settle on. Empty means the
	// facilitator picks the cheapest.
	SettleOn string `json:"settleOn,omitempty"`
}

// Fee breaks a settlement charge into its parts.
type Fee struct {
	Settlement  int64 `json:"settlement"`
	Inscription int64 `json:"inscription"`
	Total       int64 `json:"total"`
}

// FeeEstimate is one chain's projected charge for settling a payment.
type FeeEstimate struct {
	Network string `json:"network"`
	Fee     Fee    `json:"fee"`
}

// CostComparison justifies the routing choice to the caller.
type CostComparison struct {
	Estimates []FeeEstimate `json:"estimates"`
	Cheapest  string        `json:"cheapest"`
}

// SettleResponse is the successful verify/settle result.
type SettleResponse struct {
	Success         bool            `json:"success"`
	Transaction     string          `json:"transaction"`
	Network         string          `json:"network"`
	InscriptionID   string          `json:"inscriptionId"`
	InscriptionTxID string          `json:"inscriptionTxId"`
	Amount          int64           `json:"amount"`
	Fee             Fee             `json:"fee"`
	CostComparison  *CostComparison `json:"costComparison,omitempty"`
}

// ErrorResponse is the failure shape callers map engine errors into.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}
