package inscription

import (
	"context"

	"github.com/xraph/mint/id"
)

type Store interface {
	Create(ctx context.Context, rec *Record) error
	Get(ctx context.Context, inscriptionID id.InscriptionID) (*Record, error)
	List(ctx context.Context, opts ListOpts) ([]*Record, error)

	// ClaimNonce atomically records the (network, nonce) pair, failing with
	// the replay error if the pair was ever recorded before. Check and
	// insert are one operation; two concurrent claims of the same pair must
	// not both succeed.
	ClaimNonce(ctx context.Context, network, nonce string) error
}

type ListOpts struct {
	OriginNetwork string
	Limit         int
	Offset        int
}
