package extension

// Config holds the Mint extension configuration.
// Fields can be set programmatically via Option functions or loaded from
// YAML configuration files (under "extensions.mint" or "mint" keys).
type Config struct {
	// DisableMigrate prevents auto-migration and treasury seeding on start.
	DisableMigrate bool `json:"disable_migrate" mapstructure:"disable_migrate" yaml:"disable_migrate"`

	// TotalSupply is the fixed token supply seeded into the treasury
	// (default: 1,000,000,000).
	TotalSupply int64 `json:"total_supply" mapstructure:"total_supply" yaml:"total_supply"`

	// PricingModel selects the unit price curve: "fixed", "sqrt_decay",
	// "linear_decay" or "alice_bond" (default: "sqrt_decay").
	PricingModel string `json:"pricing_model" mapstructure:"pricing_model" yaml:"pricing_model"`

	// BasePrice is the curve's base price in satoshis (default: 223610).
	BasePrice int64 `json:"base_price" mapstructure:"base_price" yaml:"base_price"`

	// DecayFactor scales the linear_decay curve (default: 1.0).
	DecayFactor float64 `json:"decay_factor" mapstructure:"decay_factor" yaml:"decay_factor"`

	// OnePercentCost is the alice_bond anchor: the cost in satoshis of
	// acquiring one percent of the supply from an empty treasury.
	OnePercentCost int64 `json:"one_percent_cost" mapstructure:"one_percent_cost" yaml:"one_percent_cost"`

	// InscriptionFee is the flat per-settlement anchoring fee in satoshis.
	// Zero keeps the facilitator's default schedule.
	InscriptionFee int64 `json:"inscription_fee" mapstructure:"inscription_fee" yaml:"inscription_fee"`

	// FacilitatorName identifies this facilitator in settlement responses.
	FacilitatorName string `json:"facilitator_name" mapstructure:"facilitator_name" yaml:"facilitator_name"`

	// GroveDatabase is the name of a grove.DB registered in the DI container.
	// When set, the extension resolves this named database and auto-constructs
	// the appropriate store based on the driver type (pg/sqlite).
	// When empty and WithGroveDatabase was called, the default (unnamed) DB is used.
	GroveDatabase string `json:"grove_database" mapstructure:"grove_database" yaml:"grove_database"`

	// RequireConfig requires config to be present in YAML files.
	// If true and no config is found, Register returns an error.
	RequireConfig bool `json:"-" yaml:"-"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		TotalSupply:  1_000_000_000,
		PricingModel: "sqrt_decay",
		BasePrice:    223_610,
		DecayFactor:  1.0,
	}
}
