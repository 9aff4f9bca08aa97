package plugin

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"sync"
	"time"
)

// Registry manages all registered plugins and provides efficient dispatch.
// It uses type-cached discovery for O(1) dispatch performance.
type Registry struct {
	mu      sync.RWMutex
	plugins []Plugin
	logger  *slog.Logger

	// Type-cached plugin lists for efficient dispatch
	onInit                []OnInit
	onShutdown            []OnShutdown
	onHolderCreated       []OnHolderCreated
	onPurchaseCreated     []OnPurchaseCreated
	onPurchaseConfirmed   []OnPurchaseConfirmed
	onPurchaseFailed      []OnPurchaseFailed
	onStaked              []OnStaked
	onUnstaked            []OnUnstaked
	onDividendDistributed []OnDividendDistributed
	onDividendsClaimed    []OnDividendsClaimed
	onPaymentVerified     []OnPaymentVerified
	onPaymentSettled      []OnPaymentSettled
	onReplayRejected      []OnReplayRejected
	onInscriptionCreated  []OnInscriptionCreated
	pricingStrategies     map[string]PricingStrategy
	feeEstimators         map[string]FeeEstimator
}

// NewRegistry creates a new plugin registry.
func NewRegistry() *Registry {
	return &Registry{
		logger:            slog.Default(),
		pricingStrategies: make(map[string]PricingStrategy),
		feeEstimators:     make(map[string]FeeEstimator),
	}
}

// WithLogger sets the logger for the registry.
func (r *Registry) WithLogger(logger *slog.Logger) *Registry {
	r.logger = logger
	return r
}

// Register adds a plugin to the registry and caches its interfaces.
func (r *Registry) Register(p Plugin) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Check for duplicate
	for _, existing := range r.plugins {
		if existing.Name() == p.Name() {
			return fmt.Errorf("plugin: duplicate registration: %s", p.Name())
		}
	}

	r.plugins = append(r.plugins, p)

	// Type-switch to cache interfaces
	if v, ok := p.(OnInit); ok {
		r.onInit = append(r.onInit, v)
	}
	if v, ok := p.(OnShutdown); ok {
		r.onShutdown = append(r.onShutdown, v)
	}
	if v, ok := p.(OnHolderCreated); ok {
		r.onHolderCreated = append(r.onHolderCreated, v)
	}
	if v, ok := p.(OnPurchaseCreated); ok {
		r.onPurchaseCreated = append(r.onPurchaseCreated, v)
	}
	if v, ok := p.(OnPurchaseConfirmed); ok {
		r.onPurchaseConfirmed = append(r.onPurchaseConfirmed, v)
	}
	if v, ok := p.(OnPurchaseFailed); ok {
		r.onPurchaseFailed = append(r.onPurchaseFailed, v)
	}
	if v, ok := p.(OnStaked); ok {
		r.onStaked = append(r.onStaked, v)
	}
	if v, ok := p.(OnUnstaked); ok {
		r.onUnstaked = append(r.onUnstaked, v)
	}
	if v, ok := p.(OnDividendDistributed); ok {
		r.onDividendDistributed = append(r.onDividendDistributed, v)
	}
	if v, ok := p.(OnDividendsClaimed); ok {
		r.onDividendsClaimed = append(r.onDividendsClaimed, v)
	}
	if v, ok := p.(OnPaymentVerified); ok {
		r.onPaymentVerified = append(r.onPaymentVerified, v)
	}
	if v, ok := p.(OnPaymentSettled); ok {
		r.onPaymentSettled = append(r.onPaymentSettled, v)
	}
	if v, ok := p.(OnReplayRejected); ok {
		r.onReplayRejected = append(r.onReplayRejected, v)
	}
	if v, ok := p.(OnInscriptionCreated); ok {
		r.onInscriptionCreated = append(r.onInscriptionCreated, v)
	}
	if v, ok := p.(PricingStrategy); ok {
		r.pricingStrategies[v.StrategyName()] = v
	}
	if v, ok := p.(FeeEstimator); ok {
		r.feeEstimators[v.EstimatorNetwork()] = v
	}

	r.logger.Info("plugin registered",
		"name", p.Name(),
		"interfaces", r.getImplementedInterfaces(p),
	)

	return nil
}

// getImplementedInterfaces returns a list of interfaces implemented by the plugin.
func (r *Registry) getImplementedInterfaces(p Plugin) []string {
	var interfaces []string
	v := reflect.TypeOf(p)

	// Check each interface
	checkInterface := func(iface reflect.Type, name string) {
		if v.Implements(iface) {
			interfaces = append(interfaces, name)
		}
	}

	// List all interfaces to check
	checkInterface(reflect.TypeOf((*OnInit)(nil)).Elem(), "OnInit")
	checkInterface(reflect.TypeOf((*OnShutdown)(nil)).Elem(), "OnShutdown")
	checkInterface(reflect.TypeOf((*OnHolderCreated)(nil)).Elem(), "OnHolderCreated")
	checkInterface(reflect.TypeOf((*OnPurchaseConfirmed)(nil)).Elem(), "OnPurchaseConfirmed")
	checkInterface(reflect.TypeOf((*OnStaked)(nil)).Elem(), "OnStaked")
	checkInterface(reflect.TypeOf((*OnDividendDistributed)(nil)).Elem(), "OnDividendDistributed")
	checkInterface(reflect.TypeOf((*OnPaymentSettled)(nil)).Elem(), "OnPaymentSettled")
	checkInterface(reflect.TypeOf((*PricingStrategy)(nil)).Elem(), "PricingStrategy")
	checkInterface(reflect.TypeOf((*FeeEstimator)(nil)).Elem(), "FeeEstimator")

	return interfaces
}

// Get returns a plugin by name.
func (r *Registry) Get(name string) Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.plugins {
		if p.Name() == name {
			return p
		}
	}
	return nil
}

// List returns all registered plugins.
func (r *Registry) List() []Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Plugin, len(r.plugins))
	copy(result, r.plugins)
	return result
}

// Count returns the number of registered plugins.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.plugins)
}

// ──────────────────────────────────────────────────
// Event emission methods
// ──────────────────────────────────────────────────

// EmitInit calls OnInit for all plugins that implement it.
func (r *Registry) EmitInit(ctx context.Context, engine interface{}) {
	r.mu.RLock()
	plugins := r.onInit
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnInit(ctx, engine)
		}); err != nil {
			r.logger.Warn("plugin OnInit failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitShutdown calls OnShutdown for all plugins that implement it.
func (r *Registry) EmitShutdown(ctx context.Context) {
	r.mu.RLock()
	plugins := r.onShutdown
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnShutdown(ctx)
		}); err != nil {
			r.logger.Warn("plugin OnShutdown failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitHolderCreated emits a holder created event.
func (r *Registry) EmitHolderCreated(ctx context.Context, holder interface{}) {
	r.mu.RLock()
	plugins := r.onHolderCreated
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnHolderCreated(ctx, holder)
		}); err != nil {
			r.logger.Warn("plugin OnHolderCreated failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitPurchaseCreated emits a purchase created event.
func (r *Registry) EmitPurchaseCreated(ctx context.Context, purchase interface{}) {
	r.mu.RLock()
	plugins := r.onPurchaseCreated
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnPurchaseCreated(ctx, purchase)
		}); err != nil {
			r.logger.Warn("plugin OnPurchaseCreated failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitPurchaseConfirmed emits a purchase confirmed event.
func (r *Registry) EmitPurchaseConfirmed(ctx context.Context, purchase interface{}) {
	r.mu.RLock()
	plugins := r.onPurchaseConfirmed
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnPurchaseConfirmed(ctx, purchase)
		}); err != nil {
			r.logger.Warn("plugin OnPurchaseConfirmed failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitPurchaseFailed emits a purchase failed event.
func (r *Registry) EmitPurchaseFailed(ctx context.Context, purchase interface{}, reason string) {
	r.mu.RLock()
	plugins := r.onPurchaseFailed
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnPurchaseFailed(ctx, purchase, reason)
		}); err != nil {
			r.logger.Warn("plugin OnPurchaseFailed failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitStaked emits a staked event.
func (r *Registry) EmitStaked(ctx context.Context, stake interface{}) {
	r.mu.RLock()
	plugins := r.onStaked
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnStaked(ctx, stake)
		}); err != nil {
			r.logger.Warn("plugin OnStaked failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitUnstaked emits an unstaked event.
func (r *Registry) EmitUnstaked(ctx context.Context, holderID string, amount int64) {
	r.mu.RLock()
	plugins := r.onUnstaked
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnUnstaked(ctx, holderID, amount)
		}); err != nil {
			r.logger.Warn("plugin OnUnstaked failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitDividendDistributed emits a dividend distributed event.
func (r *Registry) EmitDividendDistributed(ctx context.Context, dividend interface{}) {
	r.mu.RLock()
	plugins := r.onDividendDistributed
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnDividendDistributed(ctx, dividend)
		}); err != nil {
			r.logger.Warn("plugin OnDividendDistributed failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitDividendsClaimed emits a dividends claimed event.
func (r *Registry) EmitDividendsClaimed(ctx context.Context, holderID string, amount int64) {
	r.mu.RLock()
	plugins := r.onDividendsClaimed
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnDividendsClaimed(ctx, holderID, amount)
		}); err != nil {
			r.logger.Warn("plugin OnDividendsClaimed failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitPaymentVerified emits a payment verified event.
func (r *Registry) EmitPaymentVerified(ctx context.Context, network, txID string) {
	r.mu.RLock()
	plugins := r.onPaymentVerified
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnPaymentVerified(ctx, network, txID)
		}); err != nil {
			r.logger.Warn("plugin OnPaymentVerified failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitPaymentSettled emits a payment settled event.
func (r *Registry) EmitPaymentSettled(ctx context.Context, response interface{}) {
	r.mu.RLock()
	plugins := r.onPaymentSettled
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnPaymentSettled(ctx, response)
		}); err != nil {
			r.logger.Warn("plugin OnPaymentSettled failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitReplayRejected emits a replay rejected event.
func (r *Registry) EmitReplayRejected(ctx context.Context, network, nonce string) {
	r.mu.RLock()
	plugins := r.onReplayRejected
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnReplayRejected(ctx, network, nonce)
		}); err != nil {
			r.logger.Warn("plugin OnReplayRejected failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitInscriptionCreated emits an inscription created event.
func (r *Registry) EmitInscriptionCreated(ctx context.Context, record interface{}) {
	r.mu.RLock()
	plugins := r.onInscriptionCreated
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnInscriptionCreated(ctx, record)
		}); err != nil {
			r.logger.Warn("plugin OnInscriptionCreated failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// GetPricingStrategy returns a pricing strategy by name.
func (r *Registry) GetPricingStrategy(name string) PricingStrategy {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.pricingStrategies[name]
}

// GetFeeEstimator returns the fee estimator registered for a network.
func (r *Registry) GetFeeEstimator(network string) FeeEstimator {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.feeEstimators[network]
}

// callWithTimeout calls a plugin function with a timeout.
// Plugins should never block the settlement pipeline.
func (r *Registry) callWithTimeout(ctx context.Context, pluginName string, fn func() error) error {
	done := make(chan error, 1)

	go func() {
		done <- fn()
	}()

	select {
	case err := <-done:
		return err
	case <-time.After(5 * time.Second):
		return fmt.Errorf("plugin timeout: %s", pluginName)
	case <-ctx.Done():
		return ctx.Err()
	}
}
