package sqlite

import (
	"context"

	"github.com/xraph/grove/migrate"
)

// Migrations is the grove migration group for the Mint store.
var Migrations = migrate.NewGroup("mint")

func init() {
	Migrations.MustRegister(
		&migrate.Migration{
			Name:    "create_mint_holders",
			Version: "20250101000001",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS mint_holders (
    id                     TEXT PRIMARY KEY,
    provider               TEXT NOT NULL DEFAULT '',
    handle                 TEXT NOT NULL DEFAULT '',
    identity_key           TEXT NOT NULL DEFAULT '',
    balance                INTEGER NOT NULL DEFAULT 0,
    staked_balance         INTEGER NOT NULL DEFAULT 0,
    total_purchased        INTEGER NOT NULL DEFAULT 0,
    total_withdrawn        INTEGER NOT NULL DEFAULT 0,
    total_dividends_earned INTEGER NOT NULL DEFAULT 0,
    created_at             TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at             TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_mint_holders_identity ON mint_holders (identity_key);
CREATE INDEX IF NOT EXISTS idx_mint_holders_staked ON mint_holders (staked_balance);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS mint_holders`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_mint_treasury",
			Version: "20250101000002",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS mint_treasury (
    id               TEXT PRIMARY KEY,
    total_supply     INTEGER NOT NULL DEFAULT 0,
    balance          INTEGER NOT NULL DEFAULT 0,
    total_sold       INTEGER NOT NULL DEFAULT 0,
    revenue_sats     INTEGER NOT NULL DEFAULT 0,
    revenue_currency TEXT NOT NULL DEFAULT 'SAT',
    created_at       TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at       TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    CHECK (balance >= 0)
);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS mint_treasury`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_mint_purchases",
			Version: "20250101000003",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS mint_purchases (
    id              TEXT PRIMARY KEY,
    holder_id       TEXT NOT NULL DEFAULT '',
    amount          INTEGER NOT NULL DEFAULT 0,
    price_sats      INTEGER NOT NULL DEFAULT 0,
    total_paid_sats INTEGER NOT NULL DEFAULT 0,
    status          TEXT NOT NULL DEFAULT 'pending',
    tx_id           TEXT NOT NULL DEFAULT '',
    created_at      TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at      TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_mint_purchases_holder ON mint_purchases (holder_id, created_at);
CREATE INDEX IF NOT EXISTS idx_mint_purchases_status ON mint_purchases (holder_id, status);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS mint_purchases`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_mint_stakes",
			Version: "20250101000004",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS mint_stakes (
    id          TEXT PRIMARY KEY,
    holder_id   TEXT NOT NULL DEFAULT '',
    amount      INTEGER NOT NULL DEFAULT 0,
    status      TEXT NOT NULL DEFAULT 'active',
    unstaked_at TIMESTAMP,
    created_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_mint_stakes_holder_status ON mint_stakes (holder_id, status, created_at DESC);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS mint_stakes`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_mint_dividends",
			Version: "20250101000005",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS mint_dividends (
    id                TEXT PRIMARY KEY,
    total_amount_sats INTEGER NOT NULL DEFAULT 0,
    total_staked      INTEGER NOT NULL DEFAULT 0,
    per_token_sats    INTEGER NOT NULL DEFAULT 0,
    distributed_sats  INTEGER NOT NULL DEFAULT 0,
    remainder_sats    INTEGER NOT NULL DEFAULT 0,
    source_ref        TEXT NOT NULL DEFAULT '',
    created_at        TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at        TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS mint_dividend_claims (
    id          TEXT PRIMARY KEY,
    dividend_id TEXT NOT NULL DEFAULT '',
    holder_id   TEXT NOT NULL DEFAULT '',
    amount_sats INTEGER NOT NULL DEFAULT 0,
    status      TEXT NOT NULL DEFAULT 'pending',
    created_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    claimed_at  TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_mint_claims_holder_status ON mint_dividend_claims (holder_id, status);
CREATE INDEX IF NOT EXISTS idx_mint_claims_dividend ON mint_dividend_claims (dividend_id);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
DROP TABLE IF EXISTS mint_dividend_claims;
DROP TABLE IF EXISTS mint_dividends;
`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_mint_inscriptions",
			Version: "20250101000006",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS mint_inscriptions (
    id             TEXT PRIMARY KEY,
    origin_network TEXT NOT NULL DEFAULT '',
    proof          TEXT NOT NULL DEFAULT '{}',
    created_at     TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at     TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_mint_inscriptions_origin ON mint_inscriptions (origin_network, created_at DESC);

CREATE TABLE IF NOT EXISTS mint_nonces (
    network TEXT NOT NULL,
    nonce   TEXT NOT NULL,
    seen_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    PRIMARY KEY (network, nonce)
);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
DROP TABLE IF EXISTS mint_nonces;
DROP TABLE IF EXISTS mint_inscriptions;
`)
				return err
			},
		},
	)
}
