package sqlite

import (
	"encoding/json"
	"time"

	"github.com/xraph/grove"

	"github.com/xraph/mint/dividend"
	"github.com/xraph/mint/holder"
	"github.com/xraph/mint/id"
	"github.com/xraph/mint/inscription"
	"github.com/xraph/mint/purchase"
	"github.com/xraph/mint/stake"
	"github.com/xraph/mint/treasury"
	"github.com/xraph/mint/types"
)

// treasuryRowID is the primary key of the singleton treasury row.
const treasuryRowID = "treasury"

type holderModel struct {
	grove.BaseModel `grove:"table:mint_holders"`

	ID                   string    `grove:"id,pk"`
	Provider             string    `grove:"provider"`
	Handle               string    `grove:"handle"`
	IdentityKey          string    `grove:"identity_key"`
	Balance              int64     `grove:"balance"`
	StakedBalance        int64     `grove:"staked_balance"`
	TotalPurchased       int64     `grove:"total_purchased"`
	TotalWithdrawn       int64     `grove:"total_withdrawn"`
	TotalDividendsEarned int64     `grove:"total_dividends_earned"`
	CreatedAt            time.Time `grove:"created_at"`
	UpdatedAt            time.Time `grove:"updated_at"`
}

func toHolderModel(h *holder.Holder) *holderModel {
	return &holderModel{
		ID:                   h.ID.String(),
		Provider:             h.Identity.Provider,
		Handle:               h.Identity.Handle,
		IdentityKey:          h.Identity.Key(),
		Balance:              h.Balance,
		StakedBalance:        h.StakedBalance,
		TotalPurchased:       h.TotalPurchased,
		TotalWithdrawn:       h.TotalWithdrawn,
		TotalDividendsEarned: h.TotalDividendsEarned,
		CreatedAt:            h.CreatedAt,
		UpdatedAt:            h.UpdatedAt,
	}
}

func fromHolderModel(m *holderModel) (*holder.Holder, error) {
	holderID, err := id.ParseHolderID(m.ID)
	if err != nil {
		return nil, err
	}

	return &holder.Holder{
		Entity: types.Entity{
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		ID:                   holderID,
		Identity:             holder.Identity{Provider: m.Provider, Handle: m.Handle},
		Balance:              m.Balance,
		StakedBalance:        m.StakedBalance,
		TotalPurchased:       m.TotalPurchased,
		TotalWithdrawn:       m.TotalWithdrawn,
		TotalDividendsEarned: m.TotalDividendsEarned,
	}, nil
}

type treasuryModel struct {
	grove.BaseModel `grove:"table:mint_treasury"`

	ID              string    `grove:"id,pk"`
	TotalSupply     int64     `grove:"total_supply"`
	Balance         int64     `grove:"balance"`
	TotalSold       int64     `grove:"total_sold"`
	RevenueSats     int64     `grove:"revenue_sats"`
	RevenueCurrency string    `grove:"revenue_currency"`
	CreatedAt       time.Time `grove:"created_at"`
	UpdatedAt       time.Time `grove:"updated_at"`
}

func toTreasuryModel(t *treasury.Treasury) *treasuryModel {
	return &treasuryModel{
		ID:              treasuryRowID,
		TotalSupply:     t.TotalSupply,
		Balance:         t.Balance,
		TotalSold:       t.TotalSold,
		RevenueSats:     t.TotalRevenue.Amount,
		RevenueCurrency: t.TotalRevenue.Currency,
		CreatedAt:       t.CreatedAt,
		UpdatedAt:       t.UpdatedAt,
	}
}

func fromTreasuryModel(m *treasuryModel) *treasury.Treasury {
	return &treasury.Treasury{
		Entity: types.Entity{
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		TotalSupply:  m.TotalSupply,
		Balance:      m.Balance,
		TotalSold:    m.TotalSold,
		TotalRevenue: types.Money{Amount: m.RevenueSats, Currency: m.RevenueCurrency},
	}
}

type purchaseModel struct {
	grove.BaseModel `grove:"table:mint_purchases"`

	ID            string    `grove:"id,pk"`
	HolderID      string    `grove:"holder_id"`
	Amount        int64     `grove:"amount"`
	PriceSats     int64     `grove:"price_sats"`
	TotalPaidSats int64     `grove:"total_paid_sats"`
	Status        string    `grove:"status"`
	TxID          string    `grove:"tx_id"`
	CreatedAt     time.Time `grove:"created_at"`
	UpdatedAt     time.Time `grove:"updated_at"`
}

func toPurchaseModel(p *purchase.Purchase) *purchaseModel {
	return &purchaseModel{
		ID:            p.ID.String(),
		HolderID:      p.HolderID.String(),
		Amount:        p.Amount,
		PriceSats:     p.PriceSats,
		TotalPaidSats: p.TotalPaid,
		Status:        string(p.Status),
		TxID:          p.TxID,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func fromPurchaseModel(m *purchaseModel) (*purchase.Purchase, error) {
	purchaseID, err := id.ParsePurchaseID(m.ID)
	if err != nil {
		return nil, err
	}
	holderID, err := id.ParseHolderID(m.HolderID)
	if err != nil {
		return nil, err
	}

	return &purchase.Purchase{
		Entity: types.Entity{
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		ID:        purchaseID,
		HolderID:  holderID,
		Amount:    m.Amount,
		PriceSats: m.PriceSats,
		TotalPaid: m.TotalPaidSats,
		Status:    purchase.Status(m.Status),
		TxID:      m.TxID,
	}, nil
}

type stakeModel struct {
	grove.BaseModel `grove:"table:mint_stakes"`

	ID         string     `grove:"id,pk"`
	HolderID   string     `grove:"holder_id"`
	Amount     int64      `grove:"amount"`
	Status     string     `grove:"status"`
	UnstakedAt *time.Time `grove:"unstaked_at"`
	CreatedAt  time.Time  `grove:"created_at"`
	UpdatedAt  time.Time  `grove:"updated_at"`
}

func toStakeModel(st *stake.Stake) *stakeModel {
	return &stakeModel{
		ID:         st.ID.String(),
		HolderID:   st.HolderID.String(),
		Amount:     st.Amount,
		Status:     string(st.Status),
		UnstakedAt: st.UnstakedAt,
		CreatedAt:  st.CreatedAt,
		UpdatedAt:  st.UpdatedAt,
	}
}

func fromStakeModel(m *stakeModel) (*stake.Stake, error) {
	stakeID, err := id.ParseStakeID(m.ID)
	if err != nil {
		return nil, err
	}
	holderID, err := id.ParseHolderID(m.HolderID)
	if err != nil {
		return nil, err
	}

	return &stake.Stake{
		Entity: types.Entity{
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		ID:         stakeID,
		HolderID:   holderID,
		Amount:     m.Amount,
		Status:     stake.Status(m.Status),
		UnstakedAt: m.UnstakedAt,
	}, nil
}

type dividendModel struct {
	grove.BaseModel `grove:"table:mint_dividends"`

	ID              string    `grove:"id,pk"`
	TotalAmountSats int64     `grove:"total_amount_sats"`
	TotalStaked     int64     `grove:"total_staked"`
	PerTokenSats    int64     `grove:"per_token_sats"`
	DistributedSats int64     `grove:"distributed_sats"`
	RemainderSats   int64     `grove:"remainder_sats"`
	SourceRef       string    `grove:"source_ref"`
	CreatedAt       time.Time `grove:"created_at"`
	UpdatedAt       time.Time `grove:"updated_at"`
}

func toDividendModel(d *dividend.Dividend) *dividendModel {
	return &dividendModel{
		ID:              d.ID.String(),
		TotalAmountSats: d.TotalAmount,
		TotalStaked:     d.TotalStaked,
		PerTokenSats:    d.PerToken,
		DistributedSats: d.Distributed,
		RemainderSats:   d.Remainder,
		SourceRef:       d.SourceRef,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
}

func fromDividendModel(m *dividendModel) (*dividend.Dividend, error) {
	dividendID, err := id.ParseDividendID(m.ID)
	if err != nil {
		return nil, err
	}

	return &dividend.Dividend{
		Entity: types.Entity{
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		ID:          dividendID,
		TotalAmount: m.TotalAmountSats,
		TotalStaked: m.TotalStaked,
		PerToken:    m.PerTokenSats,
		Distributed: m.DistributedSats,
		Remainder:   m.RemainderSats,
		SourceRef:   m.SourceRef,
	}, nil
}

type claimModel struct {
	grove.BaseModel `grove:"table:mint_dividend_claims"`

	ID         string     `grove:"id,pk"`
	DividendID string     `grove:"dividend_id"`
	HolderID   string     `grove:"holder_id"`
	AmountSats int64      `grove:"amount_sats"`
	Status     string     `grove:"status"`
	CreatedAt  time.Time  `grove:"created_at"`
	ClaimedAt  *time.Time `grove:"claimed_at"`
}

func toClaimModel(c *dividend.Claim) *claimModel {
	return &claimModel{
		ID:         c.ID.String(),
		DividendID: c.DividendID.String(),
		HolderID:   c.HolderID.String(),
		AmountSats: c.Amount,
		Status:     string(c.Status),
		CreatedAt:  c.CreatedAt,
		ClaimedAt:  c.ClaimedAt,
	}
}

func fromClaimModel(m *claimModel) (*dividend.Claim, error) {
	claimID, err := id.ParseClaimID(m.ID)
	if err != nil {
		return nil, err
	}
	dividendID, err := id.ParseDividendID(m.DividendID)
	if err != nil {
		return nil, err
	}
	holderID, err := id.ParseHolderID(m.HolderID)
	if err != nil {
		return nil, err
	}

	return &dividend.Claim{
		ID:         claimID,
		DividendID: dividendID,
		HolderID:   holderID,
		Amount:     m.AmountSats,
		Status:     dividend.ClaimStatus(m.Status),
		CreatedAt:  m.CreatedAt,
		ClaimedAt:  m.ClaimedAt,
	}, nil
}

type inscriptionModel struct {
	grove.BaseModel `grove:"table:mint_inscriptions"`

	ID            string          `grove:"id,pk"`
	OriginNetwork string          `grove:"origin_network"`
	Proof         json.RawMessage `grove:"proof"`
	CreatedAt     time.Time       `grove:"created_at"`
	UpdatedAt     time.Time       `grove:"updated_at"`
}

func toInscriptionModel(rec *inscription.Record) (*inscriptionModel, error) {
	proof, err := rec.Proof.Encode()
	if err != nil {
		return nil, err
	}

	return &inscriptionModel{
		ID:            rec.ID.String(),
		OriginNetwork: rec.Proof.Origin.Network,
		Proof:         proof,
		CreatedAt:     rec.CreatedAt,
		UpdatedAt:     rec.UpdatedAt,
	}, nil
}

func fromInscriptionModel(m *inscriptionModel) (*inscription.Record, error) {
	inscriptionID, err := id.ParseInscriptionID(m.ID)
	if err != nil {
		return nil, err
	}
	proof, err := inscription.Decode(m.Proof)
	if err != nil {
		return nil, err
	}

	return &inscription.Record{
		Entity: types.Entity{
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		ID:    inscriptionID,
		Proof: *proof,
	}, nil
}

type nonceModel struct {
	grove.BaseModel `grove:"table:mint_nonces"`

	Network string    `grove:"network,pk"`
	Nonce   string    `grove:"nonce,pk"`
	SeenAt  time.Time `grove:"seen_at"`
}
