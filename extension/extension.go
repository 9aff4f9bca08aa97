// Package extension provides the Forge extension adapter for Mint.
//
// It implements the forge.Extension interface to integrate Mint
// into a Forge application with automatic dependency discovery,
// DI registration, and lifecycle management.
//
// Configuration can be provided programmatically via Option functions
// or via YAML configuration files under "extensions.mint" or "mint" keys.
package extension

import (
	"context"
	"errors"

	"github.com/xraph/forge"
	"github.com/xraph/grove"
	"github.com/xraph/grove/drivers/mongodriver"
	"github.com/xraph/grove/drivers/pgdriver"
	"github.com/xraph/grove/drivers/sqlitedriver"
	"github.com/xraph/vessel"

	mint "github.com/xraph/mint"
	"github.com/xraph/mint/facilitator"
	"github.com/xraph/mint/pricing"
	"github.com/xraph/mint/store"
	"github.com/xraph/mint/store/memory"
	"github.com/xraph/mint/store/mongo"
	"github.com/xraph/mint/store/postgres"
	"github.com/xraph/mint/store/sqlite"
)

// ExtensionName is the name registered with Forge.
const ExtensionName = "mint"

// ExtensionDescription is the human-readable description.
const ExtensionDescription = "Token economics and settlement engine"

// ExtensionVersion is the semantic version.
const ExtensionVersion = "0.1.0"

// Ensure Extension implements forge.Extension at compile time.
var _ forge.Extension = (*Extension)(nil)

// Extension adapts Mint as a Forge extension.
type Extension struct {
	*forge.BaseExtension

	config      Config
	engine      *mint.Engine
	facilitator *facilitator.Facilitator
	store       store.Store
	groveDB     *grove.DB
	useGrove    bool
	engineOpts  []mint.Option
	facOpts     []facilitator.Option
	wantFac     bool
}

// New creates a new Mint Forge extension with the given options.
func New(opts ...Option) *Extension {
	e := &Extension{
		BaseExtension: forge.NewBaseExtension(ExtensionName, ExtensionVersion, ExtensionDescription),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Engine returns the underlying Mint engine.
// This is nil until Register is called.
func (e *Extension) Engine() *mint.Engine { return e.engine }

// Facilitator returns the settlement facilitator, or nil when settlement
// ports were not configured.
func (e *Extension) Facilitator() *facilitator.Facilitator { return e.facilitator }

// Register implements [forge.Extension]. It loads configuration,
// initializes the engine, and registers it in the DI container.
func (e *Extension) Register(fapp forge.App) error {
	if err := e.BaseExtension.Register(fapp); err != nil {
		return err
	}

	if err := e.loadConfiguration(); err != nil {
		return err
	}

	// Pick a store: explicit store wins, then a grove database, then memory.
	if e.store == nil {
		if e.useGrove {
			if e.groveDB == nil {
				return errors.New("mint: grove database requested but not provided; use WithGroveDB")
			}
			s, err := storeForGrove(e.groveDB)
			if err != nil {
				return err
			}
			e.store = s
		} else {
			e.store = memory.New()
		}
	}

	// Build engine options from resolved config.
	opts := e.buildEngineOpts()

	e.engine = mint.New(e.store, opts...)

	if err := vessel.Provide(fapp.Container(), func() (*mint.Engine, error) {
		return e.engine, nil
	}); err != nil {
		return err
	}

	// The facilitator is optional: it needs a signature verifier and a
	// broadcaster, which only arrive programmatically.
	if e.wantFac {
		fac, err := facilitator.New(e.store, e.buildFacilitatorOpts()...)
		if err != nil {
			return err
		}
		e.facilitator = fac

		return vessel.Provide(fapp.Container(), func() (*facilitator.Facilitator, error) {
			return e.facilitator, nil
		})
	}

	return nil
}

// Start implements [forge.Extension].
func (e *Extension) Start(ctx context.Context) error {
	if e.engine == nil {
		return errors.New("mint: extension not initialized")
	}

	if !e.config.DisableMigrate {
		if err := e.engine.Start(ctx); err != nil {
			return err
		}
	}

	e.MarkStarted()
	return nil
}

// Stop implements [forge.Extension].
func (e *Extension) Stop(_ context.Context) error {
	if e.engine != nil {
		if err := e.engine.Stop(); err != nil {
			e.MarkStopped()
			return err
		}
	}
	e.MarkStopped()
	return nil
}

// Health implements [forge.Extension].
func (e *Extension) Health(ctx context.Context) error {
	if e.store == nil {
		return errors.New("mint: store not initialized")
	}
	return e.store.Ping(ctx)
}

// buildEngineOpts constructs mint.Option values from the resolved config.
func (e *Extension) buildEngineOpts() []mint.Option {
	opts := make([]mint.Option, 0, len(e.engineOpts)+4)

	if e.config.TotalSupply > 0 {
		opts = append(opts, mint.WithTotalSupply(e.config.TotalSupply))
	}
	if e.config.PricingModel != "" {
		opts = append(opts, mint.WithPricing(pricing.Model(e.config.PricingModel), e.config.BasePrice))
	}
	if e.config.DecayFactor > 0 {
		opts = append(opts, mint.WithDecayFactor(e.config.DecayFactor))
	}
	if e.config.OnePercentCost > 0 {
		opts = append(opts, mint.WithOnePercentCost(e.config.OnePercentCost))
	}

	// Append any pass-through engine options.
	opts = append(opts, e.engineOpts...)

	return opts
}

// buildFacilitatorOpts constructs facilitator.Option values from the
// resolved config plus pass-through options.
func (e *Extension) buildFacilitatorOpts() []facilitator.Option {
	opts := make([]facilitator.Option, 0, len(e.facOpts)+2)

	if e.config.FacilitatorName != "" {
		opts = append(opts, facilitator.WithName(e.config.FacilitatorName))
	}
	if e.config.InscriptionFee > 0 {
		opts = append(opts, facilitator.WithInscriptionFee(e.config.InscriptionFee))
	}

	opts = append(opts, e.facOpts...)

	return opts
}

// storeForGrove selects the store backend matching the database driver.
func storeForGrove(db *grove.DB) (store.Store, error) {
	if pg := pgdriver.Unwrap(db); pg != nil {
		return postgres.New(db), nil
	}
	if sdb := sqlitedriver.Unwrap(db); sdb != nil {
		return sqlite.New(db), nil
	}
	if mdb := mongodriver.Unwrap(db); mdb != nil {
		return mongo.New(db), nil
	}
	return nil, errors.New("mint: unsupported grove driver; expected pg, sqlite or mongo")
}

// --- Config Loading (mirrors grove/shield extension pattern) ---

// loadConfiguration loads config from YAML files or programmatic sources.
func (e *Extension) loadConfiguration() error {
	programmaticConfig := e.config

	// Try loading from config file.
	fileConfig, configLoaded := e.tryLoadFromConfigFile()

	if !configLoaded {
		if programmaticConfig.RequireConfig {
			return errors.New("mint: configuration is required but not found in config files; " +
				"ensure 'extensions.mint' or 'mint' key exists in your config")
		}

		// Use programmatic config merged with defaults.
		e.config = e.mergeWithDefaults(programmaticConfig)
	} else {
		// Config loaded from YAML -- merge with programmatic options.
		e.config = e.mergeConfigurations(fileConfig, programmaticConfig)
	}

	e.Logger().Debug("mint: configuration loaded",
		forge.F("disable_migrate", e.config.DisableMigrate),
		forge.F("total_supply", e.config.TotalSupply),
		forge.F("pricing_model", e.config.PricingModel),
		forge.F("base_price", e.config.BasePrice),
		forge.F("decay_factor", e.config.DecayFactor),
		forge.F("inscription_fee", e.config.InscriptionFee),
	)

	return nil
}

// tryLoadFromConfigFile attempts to load config from YAML files.
func (e *Extension) tryLoadFromConfigFile() (Config, bool) {
	cm := e.App().Config()
	var cfg Config

	// Try "extensions.mint" first (namespaced pattern).
	if cm.IsSet("extensions.mint") {
		if err := cm.Bind("extensions.mint", &cfg); err == nil {
			e.Logger().Debug("mint: loaded config from file",
				forge.F("key", "extensions.mint"),
			)
			return cfg, true
		}
		e.Logger().Warn("mint: failed to bind extensions.mint config",
			forge.F("error", "bind failed"),
		)
	}

	// Try legacy "mint" key.
	if cm.IsSet("mint") {
		if err := cm.Bind("mint", &cfg); err == nil {
			e.Logger().Debug("mint: loaded config from file",
				forge.F("key", "mint"),
			)
			return cfg, true
		}
		e.Logger().Warn("mint: failed to bind mint config",
			forge.F("error", "bind failed"),
		)
	}

	return Config{}, false
}

// mergeWithDefaults fills zero-valued fields with defaults.
func (e *Extension) mergeWithDefaults(cfg Config) Config {
	defaults := DefaultConfig()
	if cfg.TotalSupply == 0 {
		cfg.TotalSupply = defaults.TotalSupply
	}
	if cfg.PricingModel == "" {
		cfg.PricingModel = defaults.PricingModel
	}
	if cfg.BasePrice == 0 {
		cfg.BasePrice = defaults.BasePrice
	}
	if cfg.DecayFactor == 0 {
		cfg.DecayFactor = defaults.DecayFactor
	}
	return cfg
}

// mergeConfigurations merges YAML config with programmatic options.
// YAML config takes precedence for most fields; programmatic flags fill gaps.
func (e *Extension) mergeConfigurations(yamlConfig, programmaticConfig Config) Config {
	// Programmatic bool flags override when true.
	if programmaticConfig.DisableMigrate {
		yamlConfig.DisableMigrate = true
	}

	// String fields: YAML takes precedence.
	if yamlConfig.PricingModel == "" && programmaticConfig.PricingModel != "" {
		yamlConfig.PricingModel = programmaticConfig.PricingModel
	}
	if yamlConfig.FacilitatorName == "" && programmaticConfig.FacilitatorName != "" {
		yamlConfig.FacilitatorName = programmaticConfig.FacilitatorName
	}
	if yamlConfig.GroveDatabase == "" && programmaticConfig.GroveDatabase != "" {
		yamlConfig.GroveDatabase = programmaticConfig.GroveDatabase
	}

	// Numeric fields: YAML takes precedence, programmatic fills gaps.
	if yamlConfig.TotalSupply == 0 && programmaticConfig.TotalSupply != 0 {
		yamlConfig.TotalSupply = programmaticConfig.TotalSupply
	}
	if yamlConfig.BasePrice == 0 && programmaticConfig.BasePrice != 0 {
		yamlConfig.BasePrice = programmaticConfig.BasePrice
	}
	if yamlConfig.DecayFactor == 0 && programmaticConfig.DecayFactor != 0 {
		yamlConfig.DecayFactor = programmaticConfig.DecayFactor
	}
	if yamlConfig.OnePercentCost == 0 && programmaticConfig.OnePercentCost != 0 {
		yamlConfig.OnePercentCost = programmaticConfig.OnePercentCost
	}
	if yamlConfig.InscriptionFee == 0 && programmaticConfig.InscriptionFee != 0 {
		yamlConfig.InscriptionFee = programmaticConfig.InscriptionFee
	}

	// Fill remaining zeros with defaults.
	return e.mergeWithDefaults(yamlConfig)
}
