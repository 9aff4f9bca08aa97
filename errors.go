package mint

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure scenarios.
var (
	// General errors
	ErrNotFound     = errors.New("mint: not found")
	ErrInvalidInput = errors.New("mint: invalid input")

	// Holder errors
	ErrHolderNotFound = errors.New("mint: holder not found")

	// Treasury/purchase errors
	ErrPurchaseNotFound   = errors.New("mint: purchase not found")
	ErrPurchaseNotPending = errors.New("mint: purchase is not pending")
	ErrInsufficientFunds  = errors.New("mint: insufficient funds")
	ErrInsufficientSupply = errors.New("mint: insufficient treasury supply")

	// Staking errors
	ErrStakeNotFound     = errors.New("mint: stake not found")
	ErrInsufficientStake = errors.New("mint: insufficient staked balance")

	// Dividend errors
	ErrDividendNotFound = errors.New("mint: dividend not found")
	ErrNothingStaked    = errors.New("mint: nothing staked to distribute against")

	// Settlement errors
	ErrReplay              = errors.New("mint: nonce already used")
	ErrVerification        = errors.New("mint: payment verification failed")
	ErrUnsupportedVersion  = errors.New("mint: unsupported protocol version")
	ErrUnsupportedScheme   = errors.New("mint: unsupported payment scheme")
	ErrUnsupportedNetwork  = errors.New("mint: unsupported network")
	ErrInscriptionNotFound = errors.New("mint: inscription not found")
	ErrConfiguration       = errors.New("mint: missing required configuration")

	// Store errors
	ErrStoreClosed       = errors.New("mint: store is closed")
	ErrTransactionFailed = errors.New("mint: transaction failed")
	ErrMigrationFailed   = errors.New("mint: migration failed")
)

// ValidationError represents a validation failure with details.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("mint: validation failed for %s: %s", e.Field, e.Message)
}

// AmountError wraps a sentinel with the offending amounts so callers can
// report exactly how much was requested versus available.
type AmountError struct {
	Err       error
	Requested int64
	Available int64
}

func (e AmountError) Error() string {
	return fmt.Sprintf("%v: requested %d, available %d", e.Err, e.Requested, e.Available)
}

// Unwrap lets errors.Is match the wrapped sentinel.
func (e AmountError) Unwrap() error { return e.Err }

// IsNotFound returns true if the error is a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrHolderNotFound) ||
		errors.Is(err, ErrPurchaseNotFound) ||
		errors.Is(err, ErrStakeNotFound) ||
		errors.Is(err, ErrDividendNotFound) ||
		errors.Is(err, ErrInscriptionNotFound)
}

// IsInsufficient returns true if the error is an insufficient-amount error.
func IsInsufficient(err error) bool {
	return errors.Is(err, ErrInsufficientFunds) ||
		errors.Is(err, ErrInsufficientSupply) ||
		errors.Is(err, ErrInsufficientStake)
}

// IsRetryable returns true if the error is temporary and the operation can be retried.
// Replay and verification failures are terminal.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrStoreClosed) ||
		errors.Is(err, ErrTransactionFailed)
}
