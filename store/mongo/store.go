package mongo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/xraph/grove"
	"github.com/xraph/grove/drivers/mongodriver"

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

// Collection name constants.
const (
	colHolders      = "mint_holders"
	colPurchases    = "mint_purchases"
	colStakes       = "mint_stakes"
	colClaims       = "mint_dividend_claims"
	colInscriptions = "mint_inscriptions"
)

// compile-time interface check
var _ mintstore.Store = (*Store)(nil)

// Store implements store.Store using MongoDB via Grove ORM.
//
// The compound operations serialize through single conditional document
// updates: the balance guard lives in the update filter, so two concurrent
// settles of the last tokens cannot both match.
type Store struct {
	db  *grove.DB
	mdb *mongodriver.MongoDB
}

// New creates a new MongoDB store backed by Grove ORM.
func New(db *grove.DB) *Store {
	return &Store{
		db:  db,
		mdb: mongodriver.Unwrap(db),
	}
}

// DB returns the underlying grove database for direct access.
func (s *Store) DB() *grove.DB { return s.db }

// Migrate creates indexes for all mint collections.
func (s *Store) Migrate(ctx context.Context) error {
	indexes := migrationIndexes()

	for col, models := range indexes {
		if len(models) == 0 {
			continue
		}
		_, err := s.mdb.Collection(col).Indexes().CreateMany(ctx, models)
		if err != nil {
			return fmt.Errorf("mint/mongo: migrate %s indexes: %w", col, err)
		}
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
	_, err := s.mdb.NewInsert(m).Exec(ctx)
	if err != nil {
		return fmt.Errorf("mint/mongo: create holder: %w", err)
	}
	return nil
}

func (s *Store) GetHolder(ctx context.Context, holderID id.HolderID) (*holder.Holder, error) {
	var m holderModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"_id": holderID.String()}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, mint.ErrHolderNotFound
		}
		return nil, fmt.Errorf("mint/mongo: get holder: %w", err)
	}
	return fromHolderModel(&m)
}

func (s *Store) GetHolderByIdentity(ctx context.Context, identity holder.Identity) (*holder.Holder, error) {
	var m holderModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"identity_key": identity.Key()}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, mint.ErrHolderNotFound
		}
		return nil, fmt.Errorf("mint/mongo: get holder by identity: %w", err)
	}
	return fromHolderModel(&m)
}

func (s *Store) UpdateHolder(ctx context.Context, h *holder.Holder) error {
	m := toHolderModel(h)
	m.UpdatedAt = now()

	res, err := s.mdb.NewUpdate(m).
		Filter(bson.M{"_id": m.ID}).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("mint/mongo: update holder: %w", err)
	}
	if res.MatchedCount() == 0 {
		return mint.ErrHolderNotFound
	}
	return nil
}

func (s *Store) ListHolders(ctx context.Context, opts holder.ListOpts) ([]*holder.Holder, error) {
	filter := bson.M{}
	if opts.MinBalance > 0 {
		filter["balance"] = bson.M{"$gte": opts.MinBalance}
	}
	return s.findHolders(ctx, filter, opts.Limit, opts.Offset)
}

func (s *Store) ListStakers(ctx context.Context) ([]*holder.Holder, error) {
	return s.findHolders(ctx, bson.M{"staked_balance": bson.M{"$gt": 0}}, 0, 0)
}

func (s *Store) findHolders(ctx context.Context, filter bson.M, limit, offset int) ([]*holder.Holder, error) {
	var models []holderModel
	q := s.mdb.NewFind(&models).
		Filter(filter).
		Sort(bson.D{{Key: "balance", Value: -1}, {Key: "_id", Value: 1}})
	if offset > 0 {
		q = q.Skip(int64(offset))
	}
	if limit > 0 {
		q = q.Limit(int64(limit))
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("mint/mongo: list holders: %w", err)
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
	_, err := s.mdb.NewInsert(m).Exec(ctx)
	if err != nil {
		// An existing treasury wins; seeding is a no-op after the first call.
		if mongo.IsDuplicateKeyError(err) {
			return nil
		}
		return fmt.Errorf("mint/mongo: seed treasury: %w", err)
	}
	return nil
}

func (s *Store) GetTreasury(ctx context.Context) (*treasury.Treasury, error) {
	var m treasuryModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"_id": treasuryRowID}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, mint.ErrNotFound
		}
		return nil, fmt.Errorf("mint/mongo: get treasury: %w", err)
	}
	return fromTreasuryModel(&m), nil
}

// ==================== Purchase Store ====================

func (s *Store) CreatePurchase(ctx context.Context, p *purchase.Purchase) error {
	m := toPurchaseModel(p)
	_, err := s.mdb.NewInsert(m).Exec(ctx)
	if err != nil {
		return fmt.Errorf("mint/mongo: create purchase: %w", err)
	}
	return nil
}

func (s *Store) GetPurchase(ctx context.Context, purchaseID id.PurchaseID) (*purchase.Purchase, error) {
	var m purchaseModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"_id": purchaseID.String()}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, mint.ErrPurchaseNotFound
		}
		return nil, fmt.Errorf("mint/mongo: get purchase: %w", err)
	}
	return fromPurchaseModel(&m)
}

func (s *Store) ListPurchases(ctx context.Context, holderID id.HolderID, opts purchase.ListOpts) ([]*purchase.Purchase, error) {
	var models []purchaseModel

	filter := bson.M{"holder_id": holderID.String()}
	if opts.Status != "" {
		filter["status"] = string(opts.Status)
	}

	q := s.mdb.NewFind(&models).
		Filter(filter).
		Sort(bson.D{{Key: "created_at", Value: -1}})

	if opts.Limit > 0 {
		q = q.Limit(int64(opts.Limit))
	}
	if opts.Offset > 0 {
		q = q.Skip(int64(opts.Offset))
	}

	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("mint/mongo: list purchases: %w", err)
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
// purchase document is claimed pending->confirmed, then the holder is
// credited. If the purchase was claimed by a concurrent settle the treasury
// debit is compensated before returning.
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
	res, err := s.mdb.NewUpdate((*treasuryModel)(nil)).
		Filter(bson.M{
			"_id":     treasuryRowID,
			"balance": bson.M{"$gte": p.Amount},
		}).
		SetUpdate(bson.M{
			"$inc": bson.M{
				"balance":      -p.Amount,
				"total_sold":   p.Amount,
				"revenue_sats": p.TotalPaid,
			},
			"$set": bson.M{"updated_at": t},
		}).
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("mint/mongo: settle purchase debit: %w", err)
	}
	if res.MatchedCount() == 0 {
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
	res, err = s.mdb.NewUpdate((*purchaseModel)(nil)).
		Filter(bson.M{
			"_id":    purchaseID.String(),
			"status": string(purchase.StatusPending),
		}).
		Set("status", string(purchase.StatusConfirmed)).
		Set("tx_id", txID).
		Set("updated_at", t).
		Exec(ctx)
	if err == nil && res.MatchedCount() == 0 {
		err = fmt.Errorf("purchase %s already settled: %w", purchaseID, mint.ErrPurchaseNotPending)
	}
	if err != nil {
		s.creditTreasury(ctx, p.Amount, p.TotalPaid)
		return nil, err
	}

	// Credit the holder.
	_, err = s.mdb.NewUpdate((*holderModel)(nil)).
		Filter(bson.M{"_id": p.HolderID.String()}).
		SetUpdate(bson.M{
			"$inc": bson.M{
				"balance":         p.Amount,
				"total_purchased": p.Amount,
			},
			"$set": bson.M{"updated_at": t},
		}).
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("mint/mongo: settle purchase credit: %w", err)
	}

	return s.GetPurchase(ctx, purchaseID)
}

// creditTreasury undoes a supply debit after a lost settle race.
func (s *Store) creditTreasury(ctx context.Context, amount, paid int64) {
	//nolint:errcheck // best-effort compensation
	_, _ = s.mdb.NewUpdate((*treasuryModel)(nil)).
		Filter(bson.M{"_id": treasuryRowID}).
		SetUpdate(bson.M{
			"$inc": bson.M{
				"balance":      amount,
				"total_sold":   -amount,
				"revenue_sats": -paid,
			},
			"$set": bson.M{"updated_at": now()},
		}).
		Exec(ctx)
}

func (s *Store) FailPurchase(ctx context.Context, purchaseID id.PurchaseID, reason string) error {
	res, err := s.mdb.NewUpdate((*purchaseModel)(nil)).
		Filter(bson.M{
			"_id":    purchaseID.String(),
			"status": string(purchase.StatusPending),
		}).
		Set("status", string(purchase.StatusFailed)).
		Set("tx_id", reason).
		Set("updated_at", now()).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("mint/mongo: fail purchase: %w", err)
	}
	if res.MatchedCount() == 0 {
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

	// Lock part of the balance under an available-balance guard. The guard
	// compares two fields of the same document, which takes $expr.
	res, err := s.mdb.NewUpdate((*holderModel)(nil)).
		Filter(bson.M{
			"_id": st.HolderID.String(),
			"$expr": bson.M{"$gte": bson.A{
				bson.M{"$subtract": bson.A{"$balance", "$staked_balance"}},
				st.Amount,
			}},
		}).
		SetUpdate(bson.M{
			"$inc": bson.M{"staked_balance": st.Amount},
			"$set": bson.M{"updated_at": now()},
		}).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("mint/mongo: apply stake: %w", err)
	}
	if res.MatchedCount() == 0 {
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
	if _, err := s.mdb.NewInsert(m).Exec(ctx); err != nil {
		// Release the lock so the holder is not left short.
		//nolint:errcheck // best-effort compensation
		_, _ = s.mdb.NewUpdate((*holderModel)(nil)).
			Filter(bson.M{"_id": st.HolderID.String()}).
			SetUpdate(bson.M{
				"$inc": bson.M{"staked_balance": -st.Amount},
				"$set": bson.M{"updated_at": now()},
			}).
			Exec(ctx)
		return fmt.Errorf("mint/mongo: apply stake insert: %w", err)
	}
	return nil
}

func (s *Store) ApplyUnstake(ctx context.Context, holderID id.HolderID, amount int64, at time.Time) error {
	if amount <= 0 {
		return fmt.Errorf("unstake amount must be positive: %w", mint.ErrInvalidInput)
	}

	// Release the lock under a staked-balance guard. Passing the guard
	// reserves the amount, so the document walk below cannot run dry.
	res, err := s.mdb.NewUpdate((*holderModel)(nil)).
		Filter(bson.M{
			"_id":            holderID.String(),
			"staked_balance": bson.M{"$gte": amount},
		}).
		SetUpdate(bson.M{
			"$inc": bson.M{"staked_balance": -amount},
			"$set": bson.M{"updated_at": now()},
		}).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("mint/mongo: apply unstake: %w", err)
	}
	if res.MatchedCount() == 0 {
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

	// Consume active stake documents newest first.
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
			_, err = s.mdb.NewUpdate((*stakeModel)(nil)).
				Filter(bson.M{"_id": st.ID.String()}).
				Set("status", string(stake.StatusUnstaked)).
				Set("unstaked_at", at).
				Set("updated_at", now()).
				Exec(ctx)
		} else {
			_, err = s.mdb.NewUpdate((*stakeModel)(nil)).
				Filter(bson.M{"_id": st.ID.String()}).
				SetUpdate(bson.M{
					"$inc": bson.M{"amount": -remaining},
					"$set": bson.M{"updated_at": now()},
				}).
				Exec(ctx)
			remaining = 0
		}
		if err != nil {
			return fmt.Errorf("mint/mongo: apply unstake walk: %w", err)
		}
	}
	return nil
}

func (s *Store) ListActiveStakes(ctx context.Context, holderID id.HolderID) ([]*stake.Stake, error) {
	var models []stakeModel
	err := s.mdb.NewFind(&models).
		Filter(bson.M{
			"holder_id": holderID.String(),
			"status":    string(stake.StatusActive),
		}).
		Sort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("mint/mongo: list active stakes: %w", err)
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
	pipeline := bson.A{
		bson.M{
			"$group": bson.M{
				"_id":   nil,
				"total": bson.M{"$sum": "$staked_balance"},
			},
		},
	}

	cursor, err := s.mdb.Collection(colHolders).Aggregate(ctx, pipeline)
	if err != nil {
		return 0, fmt.Errorf("mint/mongo: total staked: %w", err)
	}
	defer cursor.Close(ctx)

	var results []struct {
		Total int64 `bson:"total"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return 0, fmt.Errorf("mint/mongo: total staked decode: %w", err)
	}

	if len(results) == 0 {
		return 0, nil
	}
	return results[0].Total, nil
}

// ==================== Dividend Store ====================

func (s *Store) CreateDividend(ctx context.Context, d *dividend.Dividend, claims []*dividend.Claim) error {
	if _, err := s.mdb.NewInsert(toDividendModel(d)).Exec(ctx); err != nil {
		return fmt.Errorf("mint/mongo: create dividend: %w", err)
	}
	for _, c := range claims {
		if _, err := s.mdb.NewInsert(toClaimModel(c)).Exec(ctx); err != nil {
			return fmt.Errorf("mint/mongo: create dividend claim: %w", err)
		}
	}
	return nil
}

func (s *Store) GetDividend(ctx context.Context, dividendID id.DividendID) (*dividend.Dividend, error) {
	var m dividendModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"_id": dividendID.String()}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, mint.ErrDividendNotFound
		}
		return nil, fmt.Errorf("mint/mongo: get dividend: %w", err)
	}
	return fromDividendModel(&m)
}

func (s *Store) ListPendingClaims(ctx context.Context, holderID id.HolderID) ([]*dividend.Claim, error) {
	var models []claimModel
	err := s.mdb.NewFind(&models).
		Filter(bson.M{
			"holder_id": holderID.String(),
			"status":    string(dividend.ClaimPending),
		}).
		Sort(bson.D{{Key: "created_at", Value: 1}}).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("mint/mongo: list pending claims: %w", err)
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

// SettleClaims settles each pending claim with its own conditional update,
// so a claim settled by a concurrent caller is counted exactly once.
func (s *Store) SettleClaims(ctx context.Context, holderID id.HolderID, at time.Time) (int64, error) {
	if _, err := s.GetHolder(ctx, holderID); err != nil {
		return 0, err
	}

	pending, err := s.ListPendingClaims(ctx, holderID)
	if err != nil {
		return 0, err
	}

	var total int64
	for _, c := range pending {
		res, err := s.mdb.NewUpdate((*claimModel)(nil)).
			Filter(bson.M{
				"_id":    c.ID.String(),
				"status": string(dividend.ClaimPending),
			}).
			Set("status", string(dividend.ClaimClaimed)).
			Set("claimed_at", at).
			Exec(ctx)
		if err != nil {
			return 0, fmt.Errorf("mint/mongo: settle claim: %w", err)
		}
		if res.MatchedCount() > 0 {
			total += c.Amount
		}
	}

	if total > 0 {
		_, err = s.mdb.NewUpdate((*holderModel)(nil)).
			Filter(bson.M{"_id": holderID.String()}).
			SetUpdate(bson.M{
				"$inc": bson.M{"total_dividends_earned": total},
				"$set": bson.M{"updated_at": now()},
			}).
			Exec(ctx)
		if err != nil {
			return 0, fmt.Errorf("mint/mongo: settle claims credit: %w", err)
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
	if _, err := s.mdb.NewInsert(m).Exec(ctx); err != nil {
		return fmt.Errorf("mint/mongo: create inscription: %w", err)
	}
	return nil
}

func (s *Store) GetInscription(ctx context.Context, inscriptionID id.InscriptionID) (*inscription.Record, error) {
	var m inscriptionModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"_id": inscriptionID.String()}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, mint.ErrInscriptionNotFound
		}
		return nil, fmt.Errorf("mint/mongo: get inscription: %w", err)
	}
	return fromInscriptionModel(&m)
}

func (s *Store) ListInscriptions(ctx context.Context, opts inscription.ListOpts) ([]*inscription.Record, error) {
	var models []inscriptionModel

	filter := bson.M{}
	if opts.OriginNetwork != "" {
		filter["origin_network"] = opts.OriginNetwork
	}

	q := s.mdb.NewFind(&models).
		Filter(filter).
		Sort(bson.D{{Key: "created_at", Value: -1}})

	if opts.Limit > 0 {
		q = q.Limit(int64(opts.Limit))
	}
	if opts.Offset > 0 {
		q = q.Skip(int64(opts.Offset))
	}

	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("mint/mongo: list inscriptions: %w", err)
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
	net := normalizeNetwork(network)
	m := &nonceModel{
		ID:      net + "\x00" + nonce,
		Network: net,
		Nonce:   nonce,
		SeenAt:  now(),
	}
	if _, err := s.mdb.NewInsert(m).Exec(ctx); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("nonce %s on %s: %w", nonce, network, mint.ErrReplay)
		}
		return fmt.Errorf("mint/mongo: claim nonce: %w", err)
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

// isNoDocuments checks if an error wraps mongo.ErrNoDocuments.
func isNoDocuments(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}

// migrationIndexes returns the index definitions for all mint collections.
// The nonce collection needs none; its _id is the replay guard.
func migrationIndexes() map[string][]mongo.IndexModel {
	return map[string][]mongo.IndexModel{
		colHolders: {
			{
				Keys:    bson.D{{Key: "identity_key", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
			{Keys: bson.D{{Key: "staked_balance", Value: 1}}},
		},
		colPurchases: {
			{Keys: bson.D{{Key: "holder_id", Value: 1}, {Key: "created_at", Value: -1}}},
			{Keys: bson.D{{Key: "holder_id", Value: 1}, {Key: "status", Value: 1}}},
		},
		colStakes: {
			{Keys: bson.D{{Key: "holder_id", Value: 1}, {Key: "status", Value: 1}, {Key: "created_at", Value: -1}}},
		},
		colClaims: {
			{Keys: bson.D{{Key: "holder_id", Value: 1}, {Key: "status", Value: 1}}},
			{Keys: bson.D{{Key: "dividend_id", Value: 1}}},
		},
		colInscriptions: {
			{Keys: bson.D{{Key: "origin_network", Value: 1}, {Key: "created_at", Value: -1}}},
		},
	}
}
