package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/xraph/grove"
	"github.com/xraph/grove/drivers/pgdriver"
	"github.com/xraph/grove/migrate"

	mint "github.com/xraph/mint"
	"github.com/xraph/mint/dividend"
	"github.com/xraph/mint/holder"
	"github.com/xraph/mint/id"
	"github.com/xraph/mint/inscription"
	"github.com/xraph/mint/purchase"
	"github.com/xraph/mint/stake"
	mintstore "github.com/xraph/mint/store"
	"github.com/xraph/mint/treasury"
)

// compile-time interface check
var _ mintstore.Store = (*Store)(nil)

// Store implements store.Store using PostgreSQL via Grove ORM.
//
// The compound operations serialize through single conditional UPDATE
// statements: the balance guard and the mutation are one statement, so two
// concurrent settles of the last tokens cannot both pass the guard.
type Store struct {
	db *grove.DB
	pg *pgdriver.PgDB
}

// New creates a new PostgreSQL store backed by Grove ORM.
func New(db *grove.DB) *Store {
	return &Store{
		db: db,
		pg: pgdriver.Unwrap(db),
	}
}

// DB returns the underlying grove database for direct access.
func (s *Store) DB() *grove.DB { return s.db }

// Migrate creates the required tables and indexes using the grove orchestrator.
func (s *Store) Migrate(ctx context.Context) error {
	executor, err := migrate.NewExecutorFor(s.pg)
	if err != nil {
		return fmt.Errorf("mint/postgres: create migration executor: %w", err)
	}
	orch := migrate.NewOrchestrator(executor, Migrations)
	if _, err := orch.Migrate(ctx); err != nil {
		return fmt.Errorf("mint/postgres: migration failed: %w", err)
	}
	return nil
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// ==================== Holder Store ====================

func (s *Store) CreateHolder(ctx context.Context, h *holder.Holder) error {
	m := toHolderModel(h)
	_, err := s.pg.NewInsert(m).Exec(ctx)
	if err != nil {
		return err
	}
	return nil
}

func (s *Store) GetHolder(ctx context.Context, holderID id.HolderID) (*holder.Holder, error) {
	m := new(holderModel)
	err := s.pg.NewSelect(m).
		Where("id = $1", holderID.String()).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, mint.ErrHolderNotFound
		}
		return nil, err
	}
	return fromHolderModel(m)
}

func (s *Store) GetHolderByIdentity(ctx context.Context, identity holder.Identity) (*holder.Holder, error) {
	m := new(holderModel)
	err := s.pg.NewSelect(m).
		Where("identity_key = $1", identity.Key()).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, mint.ErrHolderNotFound
		}
		return nil, err
	}
	return fromHolderModel(m)
}

func (s *Store) UpdateHolder(ctx context.Context, h *holder.Holder) error {
	m := toHolderModel(h)
	m.UpdatedAt = now()
	res, err := s.pg.NewUpdate(m).WherePK().Exec(ctx)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return mint.ErrHolderNotFound
	}
	return nil
}

func (s *Store) ListHolders(ctx context.Context, opts holder.ListOpts) ([]*holder.Holder, error) {
	var models []holderModel
	q := s.pg.NewSelect(&models)

	if opts.MinBalance > 0 {
		q = q.Where("balance >= $1", opts.MinBalance)
	}
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		q = q.Offset(opts.Offset)
	}
	q = q.OrderExpr("balance DESC, id ASC")

	if err := q.Scan(ctx); err != nil {
		return nil, err
	}

	result := make([]*holder.Holder, len(models))
	for i := range models {
		h, err := fromHolderModel(&models[i])
		if err != nil {
			return nil, err
		}
		result[i] = h
	}
	return result, nil
}

func (s *Store) ListStakers(ctx context.Context) ([]*holder.Holder, error) {
	var models []holderModel
	err := s.pg.NewSelect(&models).
		Where("staked_balance > $1", 0).
		OrderExpr("balance DESC, id ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]*holder.Holder, len(models))
	for i := range models {
		h, err := fromHolderModel(&models[i])
		if err != nil {
			return nil, err
		}
		result[i] = h
	}
	return result, nil
}

// ==================== Treasury Store ====================

func (s *Store) SeedTreasury(ctx context.Context, totalSupply int64) error {
	if totalSupply <= 0 {
		return fmt.Errorf("total supply must be positive: %w", mint.ErrInvalidInput)
	}

	m := toTreasuryModel(treasury.New(totalSupply))
	_, err := s.pg.NewInsert(m).
		OnConflict("(id) DO NOTHING").
		Exec(ctx)
	return err
}

func (s *Store) GetTreasury(ctx context.Context) (*treasury.Treasury, error) {
	m := new(treasuryModel)
	err := s.pg.NewSelect(m).
		Where("id = $1", treasuryRowID).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, mint.ErrNotFound
		}
		return nil, err
	}
	return fromTreasuryModel(m), nil
}

// ==================== Purchase Store ====================

func (s *Store) CreatePurchase(ctx context.Context, p *purchase.Purchase) error {
	m := toPurchaseModel(p)
	_, err := s.pg.NewInsert(m).Exec(ctx)
	return err
}

func (s *Store) GetPurchase(ctx context.Context, purchaseID id.PurchaseID) (*purchase.Purchase, error) {
	m := new(purchaseModel)
	err := s.pg.NewSelect(m).
		Where("id = $1", purchaseID.String()).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, mint.ErrPurchaseNotFound
		}
		return nil, err
	}
	return fromPurchaseModel(m)
}

func (s *Store) ListPurchases(ctx context.Context, holderID id.HolderID, opts purchase.ListOpts) ([]*purchase.Purchase, error) {
	var models []purchaseModel
	q := s.pg.NewSelect(&models).Where("holder_id = $1", holderID.String())

	if opts.Status != "" {
		q = q.Where("status = $2", string(opts.Status))
	}
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		q = q.Offset(opts.Offset)
	}
	q = q.OrderExpr("created_at DESC")

	if err := q.Scan(ctx); err != nil {
		return nil, err
	}

	result := make([]*purchase.Purchase, len(models))
	for i := range models {
		p, err := fromPurchaseModel(&models[i])
		if err != nil {
			return nil, err
		}
		result[i] = p
	}
	return result, nil
}

// SettlePurchase confirms a pending purchase and moves the tokens.
//
// Ordering: the treasury is debited first under a balance guard, then the
// purchase row is claimed pending->confirmed, then the holder is credited.
// If the purchase was claimed by a concurrent settle the treasury debit is
// compensated before returning.
func (s *Store) SettlePurchase(ctx context.Context, purchaseID id.PurchaseID, txID string) (*purchase.Purchase, error) {
	p, err := s.GetPurchase(ctx, purchaseID)
	if err != nil {
		return nil, err
	}
	if p.Status != purchase.StatusPending {
		return nil, fmt.Errorf("purchase %s is %s: %w", p.ID, p.Status, mint.ErrPurchaseNotPending)
	}

	t := now()

	// Debit supply under guard.
	res, err := s.pg.NewUpdate((*treasuryModel)(nil)).
		Set("balance = balance - $1", p.Amount).
		Set("total_sold = total_sold + $2", p.Amount).
		Set("revenue_sats = revenue_sats + $3", p.TotalPaid).
		Set("updated_at = $4", t).
		Where("id = $5", treasuryRowID).
		Where("balance >= $6", p.Amount).
		Exec(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		tr, terr := s.GetTreasury(ctx)
		if terr != nil {
			return nil, terr
		}
		return nil, &mint.AmountError{
			Err:       mint.ErrInsufficientSupply,
			Requested: p.Amount,
			Available: tr.Balance,
		}
	}

	// Claim the purchase. Losing the race means another settle already
	// confirmed it, so give the supply back.
	res, err = s.pg.NewUpdate((*purchaseModel)(nil)).
		Set("status = $1", string(purchase.StatusConfirmed)).
		Set("tx_id = $2", txID).
		Set("updated_at = $3", t).
		Where("id = $4", purchaseID.String()).
		Where("status = $5", string(purchase.StatusPending)).
		Exec(ctx)
	if err == nil {
		rows, err = res.RowsAffected()
	}
	if err == nil && rows == 0 {
		err = fmt.Errorf("purchase %s already settled: %w", purchaseID, mint.ErrPurchaseNotPending)
	}
	if err != nil {
		s.creditTreasury(ctx, p.Amount, p.TotalPaid)
		return nil, err
	}

	// Credit the holder.
	_, err = s.pg.NewUpdate((*holderModel)(nil)).
		Set("balance = balance + $1", p.Amount).
		Set("total_purchased = total_purchased + $2", p.Amount).
		Set("updated_at = $3", t).
		Where("id = $4", p.HolderID.String()).
		Exec(ctx)
	if err != nil {
		return nil, err
	}

	return s.GetPurchase(ctx, purchaseID)
}

// creditTreasury undoes a supply debit after a lost settle race.
func (s *Store) creditTreasury(ctx context.Context, amount, paid int64) {
	//nolint:errcheck // best-effort compensation
	_, _ = s.pg.NewUpdate((*treasuryModel)(nil)).
		Set("balance = balance + $1", amount).
		Set("total_sold = total_sold - $2", amount).
		Set("revenue_sats = revenue_sats - $3", paid).
		Set("updated_at = $4", now()).
		Where("id = $5", treasuryRowID).
		Exec(ctx)
}

func (s *Store) FailPurchase(ctx context.Context, purchaseID id.PurchaseID, reason string) error {
	res, err := s.pg.NewUpdate((*purchaseModel)(nil)).
		Set("status = $1", string(purchase.StatusFailed)).
		Set("tx_id = $2", reason).
		Set("updated_at = $3", now()).
		Where("id = $4", purchaseID.String()).
		Where("status = $5", string(purchase.StatusPending)).
		Exec(ctx)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		p, gerr := s.GetPurchase(ctx, purchaseID)
		if gerr != nil {
			return gerr
		}
		return fmt.Errorf("purchase %s is %s: %w", p.ID, p.Status, mint.ErrPurchaseNotPending)
	}
	return nil
}

// ==================== Stake Store ====================

func (s *Store) ApplyStake(ctx context.Context, st *stake.Stake) error {
	if st.Amount <= 0 {
		return fmt.Errorf("stake amount must be positive: %w", mint.ErrInvalidInput)
	}

	// Lock part of the balance under an available-balance guard. The balance
	// itself does not move; staked_balance marks the locked portion.
	res, err := s.pg.NewUpdate((*holderModel)(nil)).
		Set("staked_balance = staked_balance + $1", st.Amount).
		Set("updated_at = $2", now()).
		Where("id = $3", st.HolderID.String()).
		Where("balance - staked_balance >= $4", st.Amount).
		Exec(ctx)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		h, herr := s.GetHolder(ctx, st.HolderID)
		if herr != nil {
			return herr
		}
		return &mint.AmountError{
			Err:       mint.ErrInsufficientFunds,
			Requested: st.Amount,
			Available: h.Available(),
		}
	}

	m := toStakeModel(st)
	if _, err := s.pg.NewInsert(m).Exec(ctx); err != nil {
		// Release the lock so the holder is not left short.
		//nolint:errcheck // best-effort compensation
		_, _ = s.pg.NewUpdate((*holderModel)(nil)).
			Set("staked_balance = staked_balance - $1", st.Amount).
			Set("updated_at = $2", now()).
			Where("id = $3", st.HolderID.String()).
			Exec(ctx)
		return err
	}
	return nil
}

func (s *Store) ApplyUnstake(ctx context.Context, holderID id.HolderID, amount int64, at time.Time) error {
	if amount <= 0 {
		return fmt.Errorf("unstake amount must be positive: %w", mint.ErrInvalidInput)
	}

	// Release the lock under a staked-balance guard. Passing the guard
	// reserves the amount, so the row walk below cannot run dry.
	res, err := s.pg.NewUpdate((*holderModel)(nil)).
		Set("staked_balance = staked_balance - $1", amount).
		Set("updated_at = $2", now()).
		Where("id = $3", holderID.String()).
		Where("staked_balance >= $4", amount).
		Exec(ctx)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		h, herr := s.GetHolder(ctx, holderID)
		if herr != nil {
			return herr
		}
		return &mint.AmountError{
			Err:       mint.ErrInsufficientStake,
			Requested: amount,
			Available: h.StakedBalance,
		}
	}

	// Consume active stake rows newest first.
	active, err := s.ListActiveStakes(ctx, holderID)
	if err != nil {
		return err
	}
	remaining := amount
	for _, st := range active {
		if remaining == 0 {
			break
		}
		if st.Amount <= remaining {
			remaining -= st.Amount
			_, err = s.pg.NewUpdate((*stakeModel)(nil)).
				Set("status = $1", string(stake.StatusUnstaked)).
				Set("unstaked_at = $2", at).
				Set("updated_at = $3", now()).
				Where("id = $4", st.ID.String()).
				Exec(ctx)
		} else {
			_, err = s.pg.NewUpdate((*stakeModel)(nil)).
				Set("amount = amount - $1", remaining).
				Set("updated_at = $2", now()).
				Where("id = $3", st.ID.String()).
				Exec(ctx)
			remaining = 0
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) ListActiveStakes(ctx context.Context, holderID id.HolderID) ([]*stake.Stake, error) {
	var models []stakeModel
	err := s.pg.NewSelect(&models).
		Where("holder_id = $1", holderID.String()).
		Where("status = $2", string(stake.StatusActive)).
		OrderExpr("created_at DESC, id DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]*stake.Stake, len(models))
	for i := range models {
		st, err := fromStakeModel(&models[i])
		if err != nil {
			return nil, err
		}
		result[i] = st
	}
	return result, nil
}

func (s *Store) TotalStaked(ctx context.Context) (int64, error) {
	var total int64
	err := s.pg.NewRaw(`
		SELECT COALESCE(SUM(staked_balance), 0) FROM mint_holders
	`).Scan(ctx, &total)
	if err != nil {
		return 0, err
	}
	return total, nil
}

// ==================== Dividend Store ====================

func (s *Store) CreateDividend(ctx context.Context, d *dividend.Dividend, claims []*dividend.Claim) error {
	if _, err := s.pg.NewInsert(toDividendModel(d)).Exec(ctx); err != nil {
		return err
	}
	if len(claims) == 0 {
		return nil
	}

	models := make([]claimModel, len(claims))
	for i, c := range claims {
		models[i] = *toClaimModel(c)
	}
	_, err := s.pg.NewInsert(&models).Exec(ctx)
	return err
}

func (s *Store) GetDividend(ctx context.Context, dividendID id.DividendID) (*dividend.Dividend, error) {
	m := new(dividendModel)
	err := s.pg.NewSelect(m).
		Where("id = $1", dividendID.String()).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, mint.ErrDividendNotFound
		}
		return nil, err
	}
	return fromDividendModel(m)
}

func (s *Store) ListPendingClaims(ctx context.Context, holderID id.HolderID) ([]*dividend.Claim, error) {
	var models []claimModel
	err := s.pg.NewSelect(&models).
		Where("holder_id = $1", holderID.String()).
		Where("status = $2", string(dividend.ClaimPending)).
		OrderExpr("created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]*dividend.Claim, len(models))
	for i := range models {
		c, err := fromClaimModel(&models[i])
		if err != nil {
			return nil, err
		}
		result[i] = c
	}
	return result, nil
}

func (s *Store) SettleClaims(ctx context.Context, holderID id.HolderID, at time.Time) (int64, error) {
	if _, err := s.GetHolder(ctx, holderID); err != nil {
		return 0, err
	}

	var total int64
	err := s.pg.NewRaw(`
		WITH settled AS (
			UPDATE mint_dividend_claims
			SET status = $1, claimed_at = $2
			WHERE holder_id = $3 AND status = $4
			RETURNING amount_sats
		)
		SELECT COALESCE(SUM(amount_sats), 0) FROM settled
	`, string(dividend.ClaimClaimed), at, holderID.String(), string(dividend.ClaimPending)).
		Scan(ctx, &total)
	if err != nil {
		return 0, err
	}

	if total > 0 {
		_, err = s.pg.NewUpdate((*holderModel)(nil)).
			Set("total_dividends_earned = total_dividends_earned + $1", total).
			Set("updated_at = $2", now()).
			Where("id = $3", holderID.String()).
			Exec(ctx)
		if err != nil {
			return 0, err
		}
	}
	return total, nil
}

// ==================== Inscription Store ====================

func (s *Store) CreateInscription(ctx context.Context, rec *inscription.Record) error {
	m, err := toInscriptionModel(rec)
	if err != nil {
		return err
	}
	_, err = s.pg.NewInsert(m).Exec(ctx)
	return err
}

func (s *Store) GetInscription(ctx context.Context, inscriptionID id.InscriptionID) (*inscription.Record, error) {
	m := new(inscriptionModel)
	err := s.pg.NewSelect(m).
		Where("id = $1", inscriptionID.String()).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, mint.ErrInscriptionNotFound
		}
		return nil, err
	}
	return fromInscriptionModel(m)
}

func (s *Store) ListInscriptions(ctx context.Context, opts inscription.ListOpts) ([]*inscription.Record, error) {
	var models []inscriptionModel
	q := s.pg.NewSelect(&models)

	if opts.OriginNetwork != "" {
		q = q.Where("origin_network = $1", opts.OriginNetwork)
	}
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		q = q.Offset(opts.Offset)
	}
	q = q.OrderExpr("created_at DESC")

	if err := q.Scan(ctx); err != nil {
		return nil, err
	}

	result := make([]*inscription.Record, len(models))
	for i := range models {
		rec, err := fromInscriptionModel(&models[i])
		if err != nil {
			return nil, err
		}
		result[i] = rec
	}
	return result, nil
}

func (s *Store) ClaimNonce(ctx context.Context, network, nonce string) error {
	m := &nonceModel{
		Network: normalizeNetwork(network),
		Nonce:   nonce,
		SeenAt:  now(),
	}
	res, err := s.pg.NewInsert(m).
		OnConflict("(network, nonce) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("nonce %s on %s: %w", nonce, network, mint.ErrReplay)
	}
	return nil
}

// ==================== Helpers ====================

// now returns the current UTC time.
func now() time.Time {
	return time.Now().UTC()
}

// normalizeNetwork lowercases the network so the nonce ledger treats
// "BSV" and "bsv" as the same chain.
func normalizeNetwork(network string) string {
	return strings.ToLower(network)
}

// isNoRows checks for the standard sql.ErrNoRows sentinel.
func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
