package transaction

import (
	"time"

	db "github.com/RoamSim/RoamSim-Backend/db/sqlc"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	Deposit    TransactionType = "deposit"
	Withdrawal TransactionType = "withdrawal"
	Refund     TransactionType = "refund"
	Transfer   TransactionType = "transfer"
	Adjustment TransactionType = "adjustment"
)

func (t TransactionType) Valid() bool {
	switch t {
	case Deposit, Withdrawal, Refund, Transfer, Adjustment:
		return true
	}
	return false
}

type TransactionStatus string

const (
	StatusPending   TransactionStatus = "pending"
	StatusCompleted TransactionStatus = "completed"
	StatusFailed    TransactionStatus = "failed"
	StatusCancelled TransactionStatus = "cancelled"
)

type ProcessParams struct {
	OwnerID     int64
	Type        TransactionType
	Amount      decimal.Decimal
	Description string
	ExternalRef string
	Metadata    map[string]interface{}
}

type TransactionModel struct {
	ID            uuid.UUID         `json:"-"`
	Reference     string            `json:"reference"`
	OwnerID       int64             `json:"owner_id"`
	WalletID      *uuid.UUID        `json:"wallet_id,omitempty"`
	Type          TransactionType   `json:"type"`
	Status        TransactionStatus `json:"status"`
	Amount        decimal.Decimal   `json:"amount"`
	Currency      string            `json:"currency"`
	BalanceBefore decimal.Decimal   `json:"balance_before"`
	BalanceAfter  *decimal.Decimal  `json:"balance_after,omitempty"`
	Description   string            `json:"description,omitempty"`
	ExternalRef   string            `json:"external_ref,omitempty"`
	FailureReason string            `json:"failure_reason,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
	CompletedAt   *time.Time        `json:"completed_at,omitempty"`
}

func ToTransactionModel(t db.Transaction) (*TransactionModel, error) {
	amount, err := decimal.NewFromString(t.Amount)
	if err != nil {
		return nil, err
	}
	balanceBefore, err := decimal.NewFromString(t.BalanceBefore)
	if err != nil {
		return nil, err
	}

	m := &TransactionModel{
		ID:            t.ID,
		Reference:     t.Reference,
		OwnerID:       t.OwnerID,
		Type:          TransactionType(t.Type),
		Status:        TransactionStatus(t.Status),
		Amount:        amount,
		Currency:      t.Currency,
		BalanceBefore: balanceBefore,
		Description:   t.Description.String,
		ExternalRef:   t.ExternalRef.String,
		FailureReason: t.FailureReason.String,
		CreatedAt:     t.CreatedAt,
	}
	if t.WalletID.Valid {
		id := t.WalletID.UUID
		m.WalletID = &id
	}
	if t.BalanceAfter.Valid {
		balanceAfter, err := decimal.NewFromString(t.BalanceAfter.String)
		if err != nil {
			return nil, err
		}
		m.BalanceAfter = &balanceAfter
	}
	if t.CompletedAt.Valid {
		at := t.CompletedAt.Time
		m.CompletedAt = &at
	}
	return m, nil
}
