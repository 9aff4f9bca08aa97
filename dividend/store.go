package dividend

import (
	"context"
	"time"

	"github.com/xraph/mint/id"
)

type Store interface {
	Create(ctx context.Context, d *Dividend) error
	Get(ctx context.Context, dividendID id.DividendID) (*Dividend, error)

	CreateClaims(ctx context.Context, claims []*Claim) error
	ListPendingClaims(ctx context.Context, holderID id.HolderID) ([]*Claim, error)
	MarkClaimed(ctx context.Context, claimIDs []id.ClaimID, claimedAt time.Time) error
}
