package stake

import (
	"context"

	"github.com/xraph/mint/id"
)

type Store interface {
	Create(ctx context.Context, s *Stake) error
	Get(ctx context.Context, stakeID id.StakeID) (*Stake, error)

	// ListActive returns a holder's active stakes in reverse creation order
	// (newest first), the order unstaking consumes them in.
	ListActive(ctx context.Context, holderID id.HolderID) ([]*Stake, error)

	Update(ctx context.Context, s *Stake) error
}
