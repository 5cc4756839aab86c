package wallet

import (
	"time"

	db "github.com/RoamSim/RoamSim-Backend/db/sqlc"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type WalletModel struct {
	ID           uuid.UUID       `json:"id"`
	OwnerID      int64           `json:"owner_id"`
	Currency     string          `json:"currency"`
	Balance      decimal.Decimal `json:"balance"`
	Status       string          `json:"status"`
	Frozen       bool            `json:"frozen"`
	FrozenReason string          `json:"frozen_reason,omitempty"`
	Version      int64           `json:"-"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

func ToWalletModel(w db.Wallet) (*WalletModel, error) {
	balance, err := decimal.NewFromString(w.Balance)
	if err != nil {
		return nil, err
	}
	return &WalletModel{
		ID:           w.ID,
		OwnerID:      w.OwnerID,
		Currency:     w.Currency,
		Balance:      balance,
		Status:       w.Status,
		Frozen:       w.Frozen,
		FrozenReason: w.FrozenReason.String,
		Version:      w.Version,
		CreatedAt:    w.CreatedAt,
		UpdatedAt:    w.UpdatedAt,
	}, nil
}
