package inscription

import (
	"bytes"
	"testing"
)

// The broadcast payload is an audit artifact: its encoding is fixed and must
// survive encode/decode without any byte changing.
func TestProofEncodeIsCanonical(t *testing.T) {
	proof := &Proof{
		Type:    ProofType,
		Version: 1,
		Origin:  Origin{Network: "base", TxID: "0xabc123"},
		Payment: Payment{
			From:   "0xpayer",
			To:     "0xpayee",
			Amount: 50000,
			Asset:  "usdc",
		},
		Signature: "0xsig",
		Settlement: &Settlement{
			Network: "bsv",
			TxID:    "bsvtx001",
		},
		Timestamp:   1700000000,
		Facilitator: "mint-facilitator",
	}

	want := `{"type":"x402-payment-proof","version":1,` +
		`"origin":{"network":"base","txId":"0xabc123"},` +
		`"payment":{"from":"0xpayer","to":"0xpayee","amount":50000,"asset":"usdc"},` +
		`"signature":"0xsig",` +
		`"settlement":{"network":"bsv","txId":"bsvtx001"},` +
		`"timestamp":1700000000,"facilitator":"mint-facilitator"}`

	data, err := proof.Encode()
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if string(data) != want {
		t.Errorf("canonical encoding changed:\n got %s\nwant %s", data, want)
	}
}

func TestProofRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		proof *Proof
	}{
		{
			name: "with settlement",
			proof: &Proof{
				Type:        ProofType,
				Version:     1,
				Origin:      Origin{Network: "ethereum", TxID: "0xdeadbeef"},
				Payment:     Payment{From: "a", To: "b", Amount: 1, Asset: "eth"},
				Signature:   "sig",
				Settlement:  &Settlement{Network: "bsv", TxID: "tx1"},
				Timestamp:   1712345678,
				Facilitator: "fac",
			},
		},
		{
			name: "pending settlement omitted",
			proof: &Proof{
				Type:        ProofType,
				Version:     1,
				Origin:      Origin{Network: "solana", TxID: "sigsol"},
				Payment:     Payment{From: "x", To: "y", Amount: 999, Asset: "sol"},
				Signature:   "s",
				Timestamp:   1712345678,
				Facilitator: "fac",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first, err := tt.proof.Encode()
			if err != nil {
				t.Fatalf("Encode failed: %v", err)
			}

			decoded, err := Decode(first)
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}

			second, err := decoded.Encode()
			if err != nil {
				t.Fatalf("re-Encode failed: %v", err)
			}
			if !bytes.Equal(first, second) {
				t.Errorf("round trip not byte-identical:\n first %s\nsecond %s", first, second)
			}
		})
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	if _, err := Decode([]byte("not json")); err == nil {
		t.Error("expected error decoding garbage")
	}
}
