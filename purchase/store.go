package purchase

import (
	"context"

	"github.com/xraph/mint/id"
)

type Store interface {
	Create(ctx context.Context, p *Purchase) error
	Get(ctx context.Context, purchaseID id.PurchaseID) (*Purchase, error)
	ListByHolder(ctx context.Context, holderID id.HolderID, opts ListOpts) ([]*Purchase, error)
	MarkFailed(ctx context.Context, purchaseID id.PurchaseID, reason string) error
}

type ListOpts struct {
	Status Status
	Limit  int
	Offset int
}
