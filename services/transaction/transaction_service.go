package transaction

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	db "github.com/RoamSim/RoamSim-Backend/db/sqlc"
	"github.com/RoamSim/RoamSim-Backend/services/monitoring/logging"
	"github.com/RoamSim/RoamSim-Backend/services/wallet"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sqlc-dev/pqtype"
)

// Engine is the slice of the wallet service the orchestrator drives.
type Engine interface {
	GetOrCreateWallet(ctx context.Context, ownerID int64) (*wallet.WalletModel, error)
	Credit(ctx context.Context, ownerID int64, amount decimal.Decimal) (*wallet.WalletModel, error)
	Debit(ctx context.Context, ownerID int64, amount decimal.Decimal) (*wallet.WalletModel, error)
}

const referenceAttempts = 3

type TransactionService struct {
	store        *db.Store
	walletClient Engine
	logger       *logging.Logger
}

func NewTransactionService(store *db.Store, walletClient Engine, logger *logging.Logger) *TransactionService {
	return &TransactionService{
		store:        store,
		walletClient: walletClient,
		logger:       logger,
	}
}

// Process records one monetary movement in the journal and applies it to
// the wallet. Whatever the wallet outcome, the journal row leaves this
// function in a terminal state: completed with the post-mutation balance,
// or failed with the reason, in which case the wallet error is re-raised.
func (s *TransactionService) Process(ctx context.Context, params ProcessParams) (*TransactionModel, error) {
	if !params.Type.Valid() {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedType, params.Type)
	}
	if !params.Amount.IsPositive() {
		return nil, ErrInvalidProcessAmount
	}

	walletModel, err := s.walletClient.GetOrCreateWallet(ctx, params.OwnerID)
	if err != nil {
		return nil, err
	}

	// Fail fast before writing any journal row; a withdrawal that cannot
	// possibly succeed should not leave a pending entry behind.
	if params.Type == Withdrawal && walletModel.Balance.LessThan(params.Amount) {
		return nil, &wallet.InsufficientFundsError{
			Current:  walletModel.Balance,
			Required: params.Amount,
		}
	}

	record, err := s.createPendingEntry(ctx, params, walletModel)
	if err != nil {
		return nil, err
	}

	mutated, walletErr := s.applyWalletMutation(ctx, params)

	if walletErr != nil {
		_, updateErr := s.store.UpdateTransactionStatus(ctx, db.UpdateTransactionStatusParams{
			ID:     record.ID,
			Status: string(StatusFailed),
			BalanceAfter: sql.NullString{
				String: walletModel.Balance.StringFixed(2),
				Valid:  true,
			},
			FailureReason: sql.NullString{
				String: walletErr.Error(),
				Valid:  true,
			},
			CompletedAt: sql.NullTime{Time: time.Now(), Valid: true},
		})
		if updateErr != nil {
			// The journal row is stuck pending; the reconciliation sweep
			// has to resolve it. Keep the original error for the caller.
			s.logger.Error(fmt.Sprintf("failed to mark transaction %v failed: %v", record.Reference, updateErr))
		}
		return nil, walletErr
	}

	balanceAfter := walletModel.Balance
	if mutated != nil {
		balanceAfter = mutated.Balance
	}

	completed, err := s.store.UpdateTransactionStatus(ctx, db.UpdateTransactionStatusParams{
		ID:     record.ID,
		Status: string(StatusCompleted),
		BalanceAfter: sql.NullString{
			String: balanceAfter.StringFixed(2),
			Valid:  true,
		},
		FailureReason: sql.NullString{},
		CompletedAt:   sql.NullTime{Time: time.Now(), Valid: true},
	})
	if err != nil {
		s.logger.Error(fmt.Sprintf("failed to mark transaction %v completed: %v", record.Reference, err))
		return nil, fmt.Errorf("complete transaction %v: %w", record.Reference, err)
	}

	s.logger.Info(fmt.Sprintf("transaction %v completed (%v %v %v)", completed.Reference, params.Type, params.Amount, walletModel.Currency))

	return ToTransactionModel(completed)
}

func (s *TransactionService) createPendingEntry(ctx context.Context, params ProcessParams, walletModel *wallet.WalletModel) (db.Transaction, error) {
	var metadata pqtype.NullRawMessage
	if len(params.Metadata) > 0 {
		raw, err := json.Marshal(params.Metadata)
		if err != nil {
			return db.Transaction{}, fmt.Errorf("marshal transaction metadata: %w", err)
		}
		metadata = pqtype.NullRawMessage{RawMessage: raw, Valid: true}
	}

	// The reference space makes collisions practically impossible, but the
	// unique index is the source of truth, so regenerate on conflict.
	for attempt := 0; attempt < referenceAttempts; attempt++ {
		record, err := s.store.CreateTransaction(ctx, db.CreateTransactionParams{
			Reference: NewReference(time.Now()),
			OwnerID:   params.OwnerID,
			WalletID: uuid.NullUUID{
				UUID:  walletModel.ID,
				Valid: true,
			},
			Type:          string(params.Type),
			Amount:        params.Amount.StringFixed(2),
			Currency:      walletModel.Currency,
			BalanceBefore: walletModel.Balance.StringFixed(2),
			Description: sql.NullString{
				String: params.Description,
				Valid:  params.Description != "",
			},
			ExternalRef: sql.NullString{
				String: params.ExternalRef,
				Valid:  params.ExternalRef != "",
			},
			Metadata: metadata,
		})
		if db.IsUniqueViolation(err) {
			s.logger.Info("transaction reference collision, regenerating")
			continue
		}
		return record, err
	}
	return db.Transaction{}, ErrReferenceExhausted
}

// applyWalletMutation maps the journal type onto the wallet engine. Types
// other than deposit/withdrawal are recorded without moving money.
func (s *TransactionService) applyWalletMutation(ctx context.Context, params ProcessParams) (*wallet.WalletModel, error) {
	switch params.Type {
	case Withdrawal:
		return s.walletClient.Debit(ctx, params.OwnerID, params.Amount)
	case Deposit:
		return s.walletClient.Credit(ctx, params.OwnerID, params.Amount)
	default:
		return nil, nil
	}
}

func (s *TransactionService) GetByReference(ctx context.Context, reference string) (*TransactionModel, error) {
	record, err := s.store.GetTransactionByReference(ctx, reference)
	if err == sql.ErrNoRows {
		return nil, ErrTransactionNotFound
	} else if err != nil {
		return nil, err
	}
	return ToTransactionModel(record)
}

func (s *TransactionService) ListByOwner(ctx context.Context, ownerID int64, limit, offset int32) ([]*TransactionModel, error) {
	if limit <= 0 {
		limit = 50
	}
	records, err := s.store.ListTransactionsByOwner(ctx, db.ListTransactionsByOwnerParams{
		OwnerID: ownerID,
		Limit:   limit,
		Offset:  offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]*TransactionModel, 0, len(records))
	for _, record := range records {
		m, err := ToTransactionModel(record)
		if err != nil {
			return nil, err
		}
		items = append(items, m)
	}
	return items, nil
}

// ListUnfulfilledPurchases surfaces completed purchase debits with no
// linked entitlement, the partial-failure state a repair sweep works from.
func (s *TransactionService) ListUnfulfilledPurchases(ctx context.Context) ([]*TransactionModel, error) {
	records, err := s.store.GetUnfulfilledPurchaseTransactions(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]*TransactionModel, 0, len(records))
	for _, record := range records {
		m, err := ToTransactionModel(record)
		if err != nil {
			return nil, err
		}
		items = append(items, m)
	}
	return items, nil
}
