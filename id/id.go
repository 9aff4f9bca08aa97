// Package id defines TypeID-based identity types for all Mint entities.
//
// Every entity in Mint uses a single ID struct with a prefix that identifies
// the entity type. IDs are K-sortable (UUIDv7-based), globally unique,
// and URL-safe in the format "prefix_suffix".
package id

import (
	"database/sql/driver"
	"fmt"

	"go.jetify.com/typeid/v2"
)

// Prefix identifies the entity type encoded in a TypeID.
type Prefix string

// Prefix constants for all Mint entity types.
const (
	PrefixHolder      Prefix = "hldr" // Token holder
	PrefixPurchase    Prefix = "prch" // Purchase intent/record
	PrefixStake       Prefix = "stk"  // Stake record
	PrefixDividend    Prefix = "div"  // Dividend distribution
	PrefixClaim       Prefix = "dclm" // Dividend claim
	PrefixInscription Prefix = "insc" // Inscription proof
)

// ID is the primary identifier type for all Mint entities.
// It wraps a TypeID providing a prefix-qualified, globally unique,
// sortable, URL-safe identifier in the format "prefix_suffix".
//
//nolint:recvcheck // Value receivers for read-only methods, pointer receivers for UnmarshalText/Scan.
type ID struct {
	inner typeid.TypeID
	valid bool
}

// Nil is the zero-value ID.
var Nil ID

// New generates a new globally unique ID with the given prefix.
// It panics if prefix is not a valid TypeID prefix (programming error).
func New(prefix Prefix) ID {
	tid, err := typeid.Generate(string(prefix))
	if err != nil {
		panic(fmt.Sprintf("id: invalid prefix %q: %v", prefix, err))
	}

	return ID{inner: tid, valid: true}
}

// Parse parses a TypeID string (e.g., "hldr_01h2xcejqtf2nbrexx3vqjhp41")
// into an ID. Returns an error if the string is not valid.
func Parse(s string) (ID, error) {
	if s == "" {
		return Nil, fmt.Errorf("id: parse %q: empty string", s)
	}

	tid, err := typeid.Parse(s)
	if err != nil {
		return Nil, fmt.Errorf("id: parse %q: %w", s, err)
	}

	return ID{inner: tid, valid: true}, nil
}

// ParseWithPrefix parses a TypeID string and validates that its prefix
// matches the expected value.
func ParseWithPrefix(s string, expected Prefix) (ID, error) {
	parsed, err := Parse(s)
	if err != nil {
		return Nil, err
	}

	if parsed.Prefix() != expected {
		return Nil, fmt.Errorf("id: expected prefix %q, got %q", expected, parsed.Prefix())
	}

	return parsed, nil
}

// MustParse is like Parse but panics on error. Use for hardcoded ID values.
func MustParse(s string) ID {
	parsed, err := Parse(s)
	if err != nil {
		panic(fmt.Sprintf("id: must parse %q: %v", s, err))
	}

	return parsed
}

// ──────────────────────────────────────────────────
// Per-entity aliases
// ──────────────────────────────────────────────────

// HolderID is a type-safe identifier for holders (prefix: "hldr").
type HolderID = ID

// PurchaseID is a type-safe identifier for purchases (prefix: "prch").
type PurchaseID = ID

// StakeID is a type-safe identifier for stakes (prefix: "stk").
type StakeID = ID

// DividendID is a type-safe identifier for dividends (prefix: "div").
type DividendID = ID

// ClaimID is a type-safe identifier for dividend claims (prefix: "dclm").
type ClaimID = ID

// InscriptionID is a type-safe identifier for inscription proofs (prefix: "insc").
type InscriptionID = ID

// AnyID is a type alias that accepts any valid prefix.
type AnyID = ID

// ──────────────────────────────────────────────────
// Convenience constructors
// ──────────────────────────────────────────────────

// NewHolderID generates a new unique holder ID.
func NewHolderID() ID { return New(PrefixHolder) }

// NewPurchaseID generates a new unique purchase ID.
func NewPurchaseID() ID { return New(PrefixPurchase) }

// NewStakeID generates a new unique stake ID.
func NewStakeID() ID { return New(PrefixStake) }

// NewDividendID generates a new unique dividend ID.
func NewDividendID() ID { return New(PrefixDividend) }

// NewClaimID generates a new unique dividend claim ID.
func NewClaimID() ID { return New(PrefixClaim) }

// NewInscriptionID generates a new unique inscription ID.
func NewInscriptionID() ID { return New(PrefixInscription) }

// ──────────────────────────────────────────────────
// Convenience parsers
// ──────────────────────────────────────────────────

// ParseHolderID parses a string and validates the "hldr" prefix.
func ParseHolderID(s string) (ID, error) { return ParseWithPrefix(s, PrefixHolder) }

// ParsePurchaseID parses a string and validates the "prch" prefix.
func ParsePurchaseID(s string) (ID, error) { return ParseWithPrefix(s, PrefixPurchase) }

// ParseStakeID parses a string and validates the "stk" prefix.
func ParseStakeID(s string) (ID, error) { return ParseWithPrefix(s, PrefixStake) }

// ParseDividendID parses a string and validates the "div" prefix.
func ParseDividendID(s string) (ID, error) { return ParseWithPrefix(s, PrefixDividend) }

// ParseClaimID parses a string and validates the "dclm" prefix.
func ParseClaimID(s string) (ID, error) { return ParseWithPrefix(s, PrefixClaim) }

// ParseInscriptionID parses a string and validates the "insc" prefix.
func ParseInscriptionID(s string) (ID, error) { return ParseWithPrefix(s, PrefixInscription) }

// ParseAny parses a string into an ID without type checking the prefix.
func ParseAny(s string) (ID, error) { return Parse(s) }

// ──────────────────────────────────────────────────
// ID methods
// ──────────────────────────────────────────────────

// String returns the full TypeID string representation (prefix_suffix).
// Returns an empty string for the Nil ID.
func (i ID) String() string {
	if !i.valid {
		return ""
	}

	return i.inner.String()
}

// Prefix returns the prefix component of this ID.
func (i ID) Prefix() Prefix {
	if !i.valid {
		return ""
	}

	return Prefix(i.inner.Prefix())
}

// IsNil reports whether this ID is the zero value.
func (i ID) IsNil() bool {
	return !i.valid
}

// MarshalText implements encoding.TextMarshaler.
func (i ID) MarshalText() ([]byte, error) {
	if !i.valid {
		return []byte{}, nil
	}

	return []byte(i.inner.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (i *ID) UnmarshalText(data []byte) error {
	if len(data) == 0 {
		*i = Nil

		return nil
	}

	parsed, err := Parse(string(data))
	if err != nil {
		return err
	}

	*i = parsed

	return nil
}

// Value implements driver.Valuer for database storage.
// Returns nil for the Nil ID so that optional foreign key columns store NULL.
func (i ID) Value() (driver.Value, error) {
	if !i.valid {
		return nil, nil //nolint:nilnil // nil is the canonical NULL for driver.Valuer
	}

	return i.inner.String(), nil
}

// Scan implements sql.Scanner for database retrieval.
func (i *ID) Scan(src any) error {
	if src == nil {
		*i = Nil

		return nil
	}

	switch v := src.(type) {
	case string:
		if v == "" {
			*i = Nil

			return nil
		}

		return i.UnmarshalText([]byte(v))
	case []byte:
		if len(v) == 0 {
			*i = Nil

			return nil
		}

		return i.UnmarshalText(v)
	default:
		return fmt.Errorf("id: cannot scan %T into ID", src)
	}
}
