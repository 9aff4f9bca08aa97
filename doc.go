// Package mint provides a composable token economics and settlement engine
// for Go applications.
//
// Mint is designed as a library, not a service. Import it directly into your
// Go application and wire it to the store of your choice. It provides:
//
//   - Deterministic bonding-curve pricing (fixed, sqrt decay, linear decay, bond)
//   - Spend-driven quotes with integer-only arithmetic
//   - A conserved token ledger: treasury, holders, purchases, stakes
//   - Pro-rata dividend distribution to stakers with claimable payouts
//   - An x402 settlement facilitator with replay-protected payment proofs
//   - Pluggable hooks for purchase, stake, and dividend events
//
// # Quick Start
//
// Create an engine with your preferred store:
//
//	import (
//	    "github.com/xraph/mint"
//	    "github.com/xraph/mint/store/memory"
//	)
//
//	// Initialize store (memory for demo, PostgreSQL in production)
//	store := memory.New()
//
//	// Create engine
//	eng := mint.New(store,
//	    mint.WithTotalSupply(1_000_000_000),
//	    mint.WithPricing(pricing.ModelSqrtDecay, 223_610),
//	)
//
//	// Start the engine (seeds the treasury)
//	if err := eng.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer eng.Stop()
//
// # Core Concepts
//
// Holders own tokens and are keyed by an external identity:
//
//	h, err := eng.GetOrCreateHolder(ctx, holder.Identity{
//	    Provider: "twitter",
//	    Handle:   "alice",
//	})
//
// Quotes tell a buyer what a budget purchases at the current supply point:
//
//	q, err := eng.Quote(ctx, 50_000) // how many tokens does 50k sats buy?
//
// Purchases move tokens out of the treasury once payment settles:
//
//	p, err := eng.CreatePurchase(ctx, h.ID, q.TokenCount, q.AvgPrice)
//	ok, err := eng.ConfirmPurchase(ctx, p.ID, paymentTxID)
//
// Stakes lock tokens to earn dividends, which are distributed pro rata:
//
//	_, err = eng.Stake(ctx, h.ID, 1000)
//	_, err = eng.DistributeDividends(ctx, revenueSats, "2026-08-revenue")
//	claimed, err := eng.ClaimDividends(ctx, h.ID)
//
// # Arithmetic
//
// All monetary and token amounts are int64. Prices are in satoshis, token
// counts are whole units, and every division that allocates value keeps its
// remainder explicit, so the supply and every distributed dividend conserve
// exactly. There is no floating point on any settlement path.
//
// # Integration
//
// Mint integrates with the Forgery ecosystem:
//
//   - Forge: lifecycle and configuration via the extension package
//   - Vessel: dependency injection of the engine and facilitator
//   - Grove: PostgreSQL, SQLite, and MongoDB store backends
//
// # TypeID
//
// All entities use TypeID for globally unique, type-safe identifiers:
//
//	hldr_01h2xcejqtf2nbrexx3vqjhp41  // Holder ID
//	prch_01h2xcejqtf2nbrexx3vqjhp41  // Purchase ID
//	div_01h455vb4pex5vsknk084sn02q   // Dividend ID
//
// TypeIDs are K-sortable, making them ideal for database indexes and
// providing natural time-ordering of entities.
package mint
