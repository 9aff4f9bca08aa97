package audithook

// Action constants for audit events.
const (
	// Holder actions
	ActionHolderCreated = "holder.created"

	// Purchase actions
	ActionPurchaseCreated   = "purchase.created"
	ActionPurchaseConfirmed = "purchase.confirmed"
	ActionPurchaseFailed    = "purchase.failed"

	// Staking actions
	ActionStaked   = "stake.created"
	ActionUnstaked = "stake.released"

	// Dividend actions
	ActionDividendDistributed = "dividend.distributed"
	ActionDividendsClaimed    = "dividend.claimed"

	// Settlement actions
	ActionPaymentVerified    = "payment.verified"
	ActionPaymentSettled     = "payment.settled"
	ActionReplayRejected     = "payment.replay_rejected"
	ActionInscriptionCreated = "inscription.created"
)

// Resource constants for audit events.
const (
	ResourceHolder      = "holder"
	ResourcePurchase    = "purchase"
	ResourceStake       = "stake"
	ResourceDividend    = "dividend"
	ResourcePayment     = "payment"
	ResourceInscription = "inscription"
)

// Category constants for audit events.
const (
	CategoryLedger     = "ledger"
	CategoryStaking    = "staking"
	CategoryDividend   = "dividend"
	CategorySettlement = "settlement"
	CategorySecurity   = "security"
)

// Severity levels for audit events.
const (
	SeverityInfo     = "info"
	SeverityWarning  = "warning"
	SeverityError    = "error"
	SeverityCritical = "critical"
)

// Outcome values for audit events.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomePartial = "partial"
)
