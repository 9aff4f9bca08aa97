package holder

import (
	"context"

	"github.com/xraph/mint/id"
)

type Store interface {
	Create(ctx context.Context, h *Holder) error
	Get(ctx context.Context, holderID id.HolderID) (*Holder, error)
	GetByIdentity(ctx context.Context, identity Identity) (*Holder, error)
	Update(ctx context.Context, h *Holder) error
	List(ctx context.Context, opts ListOpts) ([]*Holder, error)
}

type ListOpts struct {
	// MinBalance filters out holders below the threshold. The cap table
	// passes 1 to exclude zeroed holders.
	MinBalance int64
	Limit      int
	Offset     int
}
