package extension

import (
	"github.com/xraph/grove"

	mint "github.com/xraph/mint"
	"github.com/xraph/mint/facilitator"
	"github.com/xraph/mint/plugin"
	"github.com/xraph/mint/store"
)

// Option configures the Mint Forge extension.
type Option func(*Extension)

// WithStore sets the store for the engine and facilitator.
func WithStore(s store.Store) Option {
	return func(e *Extension) {
		e.store = s
	}
}

// WithEngineOption passes a mint.Option through to the underlying engine.
func WithEngineOption(opt mint.Option) Option {
	return func(e *Extension) {
		e.engineOpts = append(e.engineOpts, opt)
	}
}

// WithPlugin registers a mint plugin.
func WithPlugin(p plugin.Plugin) Option {
	return func(e *Extension) {
		e.engineOpts = append(e.engineOpts, mint.WithPlugin(p))
	}
}

// WithConfig sets the Forge extension configuration.
func WithConfig(cfg Config) Option {
	return func(e *Extension) { e.config = cfg }
}

// WithDisableMigrate prevents auto-migration and treasury seeding on start.
func WithDisableMigrate() Option {
	return func(e *Extension) { e.config.DisableMigrate = true }
}

// WithRequireConfig requires config to be present in YAML files.
// If true and no config is found, Register returns an error.
func WithRequireConfig(require bool) Option {
	return func(e *Extension) { e.config.RequireConfig = require }
}

// WithTotalSupply sets the fixed token supply seeded into the treasury.
func WithTotalSupply(supply int64) Option {
	return func(e *Extension) { e.config.TotalSupply = supply }
}

// WithPricingModel sets the pricing curve and its base unit price.
func WithPricingModel(model string, basePrice int64) Option {
	return func(e *Extension) {
		e.config.PricingModel = model
		e.config.BasePrice = basePrice
	}
}

// WithVerifier registers a payment signature verifier for a network and
// enables the settlement facilitator.
func WithVerifier(network string, v facilitator.SignatureVerifier) Option {
	return func(e *Extension) {
		e.facOpts = append(e.facOpts, facilitator.WithVerifier(network, v))
		e.wantFac = true
	}
}

// WithBroadcaster sets the transaction broadcaster and enables the
// settlement facilitator.
func WithBroadcaster(b facilitator.Broadcaster) Option {
	return func(e *Extension) {
		e.facOpts = append(e.facOpts, facilitator.WithBroadcaster(b))
		e.wantFac = true
	}
}

// WithFacilitatorOption passes a facilitator.Option through to the
// settlement facilitator.
func WithFacilitatorOption(opt facilitator.Option) Option {
	return func(e *Extension) {
		e.facOpts = append(e.facOpts, opt)
		e.wantFac = true
	}
}

// WithGroveDB builds the store from an already-constructed grove database.
// The extension auto-selects the store backend (postgres/sqlite/mongo)
// matching the database driver.
func WithGroveDB(db *grove.DB) Option {
	return func(e *Extension) {
		e.groveDB = db
		e.useGrove = true
	}
}

// WithGroveDatabase records the name of the grove.DB this extension expects.
// Pair it with WithGroveDB to supply the database itself.
func WithGroveDatabase(name string) Option {
	return func(e *Extension) {
		e.config.GroveDatabase = name
		e.useGrove = true
	}
}
