package mint

import "github.com/xraph/mint/id"

// ID is the primary identifier type for all Mint entities.
type ID = id.ID

// Prefix identifies the entity type encoded in a TypeID.
type Prefix = id.Prefix

// Convenience aliases so callers can name entity IDs without importing the
// id package.
type (
	HolderID      = id.HolderID
	PurchaseID    = id.PurchaseID
	StakeID       = id.StakeID
	DividendID    = id.DividendID
	ClaimID       = id.ClaimID
	InscriptionID = id.InscriptionID
)
