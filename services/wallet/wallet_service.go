package wallet

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	db "github.com/RoamSim/RoamSim-Backend/db/sqlc"
	"github.com/RoamSim/RoamSim-Backend/services/currency"
	"github.com/RoamSim/RoamSim-Backend/services/monitoring/logging"
	"github.com/RoamSim/RoamSim-Backend/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OwnerDirectory is the slice of the user service the wallet engine needs.
type OwnerDirectory interface {
	AccountExists(ctx context.Context, ownerID int64) (bool, error)
	PreferredCurrency(ctx context.Context, ownerID int64) (string, error)
}

// WalletConfig carries the engine limits; all values have working defaults
// so a missing .env entry never silently disables an invariant.
type WalletConfig struct {
	MaxBalance    string `mapstructure:"WALLET_MAX_BALANCE"`
	MinAmount     string `mapstructure:"WALLET_MIN_AMOUNT"`
	MaxAmount     string `mapstructure:"WALLET_MAX_AMOUNT"`
	RetryAttempts int    `mapstructure:"WALLET_RETRY_ATTEMPTS"`
}

type limits struct {
	maxBalance    decimal.Decimal
	minAmount     decimal.Decimal
	maxAmount     decimal.Decimal
	retryAttempts int
}

const retryBackoffStep = 100 * time.Millisecond

type WalletService struct {
	store  *db.Store
	owners OwnerDirectory
	logger *logging.Logger
	limits limits
}

func NewWalletService(store *db.Store, owners OwnerDirectory, logger *logging.Logger) *WalletService {
	var c WalletConfig
	if err := utils.LoadCustomConfig(utils.EnvPath, &c); err != nil {
		logger.Error(fmt.Sprintf("could not load wallet config, using defaults: %v", err))
	}
	return NewWalletServiceWithConfig(store, owners, logger, c)
}

func NewWalletServiceWithConfig(store *db.Store, owners OwnerDirectory, logger *logging.Logger, c WalletConfig) *WalletService {
	l := limits{
		maxBalance:    decimal.NewFromInt(1_000_000),
		minAmount:     decimal.NewFromFloat(0.01),
		maxAmount:     decimal.NewFromInt(100_000),
		retryAttempts: 3,
	}
	if v, err := decimal.NewFromString(c.MaxBalance); err == nil && v.IsPositive() {
		l.maxBalance = v
	}
	if v, err := decimal.NewFromString(c.MinAmount); err == nil && v.IsPositive() {
		l.minAmount = v
	}
	if v, err := decimal.NewFromString(c.MaxAmount); err == nil && v.IsPositive() {
		l.maxAmount = v
	}
	if c.RetryAttempts > 0 {
		l.retryAttempts = c.RetryAttempts
	}

	return &WalletService{
		store:  store,
		owners: owners,
		logger: logger,
		limits: l,
	}
}

// GetOrCreateWallet returns the owner's wallet, creating it with a zero
// balance on first use. The currency defaults from the owner's preference.
func (w *WalletService) GetOrCreateWallet(ctx context.Context, ownerID int64) (*WalletModel, error) {
	dbWallet, err := w.store.GetWalletByOwnerID(ctx, ownerID)
	if err == nil {
		return ToWalletModel(dbWallet)
	}
	if err != sql.ErrNoRows {
		return nil, err
	}

	exists, err := w.owners.AccountExists(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, NewWalletError(ErrOwnerNotFound, fmt.Sprint(ownerID))
	}

	walletCurrency, err := w.owners.PreferredCurrency(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if currency.IsCurrencyInvalid(walletCurrency) {
		return nil, NewWalletError(ErrUnsupportedCurrency, fmt.Sprint(ownerID))
	}

	w.logger.Info(fmt.Sprintf("creating wallet for owner %v (%v)", ownerID, walletCurrency))

	dbWallet, err = w.store.CreateWallet(ctx, db.CreateWalletParams{
		OwnerID:  ownerID,
		Currency: walletCurrency,
		Balance:  decimal.Zero.StringFixed(2),
	})
	if db.IsUniqueViolation(err) {
		// Lost the creation race to a concurrent caller; their row wins.
		dbWallet, err = w.store.GetWalletByOwnerID(ctx, ownerID)
	}
	if err != nil {
		return nil, NewWalletError(ErrWalletNotPossible, fmt.Sprint(ownerID), err)
	}

	return ToWalletModel(dbWallet)
}

// GetWalletByID looks a wallet up by its row id, the admin-side handle.
func (w *WalletService) GetWalletByID(ctx context.Context, id uuid.UUID) (*WalletModel, error) {
	dbWallet, err := w.store.GetWallet(ctx, id)
	if err == sql.ErrNoRows {
		return nil, NewWalletError(ErrWalletNotFound, id.String())
	} else if err != nil {
		return nil, err
	}
	return ToWalletModel(dbWallet)
}

// Balance reads the owner's balance. Creates the wallet as a side effect
// if the owner has never held one.
func (w *WalletService) Balance(ctx context.Context, ownerID int64) (decimal.Decimal, error) {
	walletModel, err := w.GetOrCreateWallet(ctx, ownerID)
	if err != nil {
		return decimal.Zero, err
	}
	return walletModel.Balance, nil
}

// Credit adds amount to the owner's balance.
func (w *WalletService) Credit(ctx context.Context, ownerID int64, amount decimal.Decimal) (*WalletModel, error) {
	return w.mutateBalance(ctx, ownerID, amount, false)
}

// Debit subtracts amount from the owner's balance, failing with
// InsufficientFundsError when the balance cannot cover it.
func (w *WalletService) Debit(ctx context.Context, ownerID int64, amount decimal.Decimal) (*WalletModel, error) {
	return w.mutateBalance(ctx, ownerID, amount, true)
}

// mutateBalance serializes concurrent updates on a single wallet behind a
// row lock and retries only on write conflicts. Business-rule failures
// (insufficient funds, frozen wallet, ceiling) are final on first sight.
func (w *WalletService) mutateBalance(ctx context.Context, ownerID int64, amount decimal.Decimal, isDebit bool) (*WalletModel, error) {
	if amount.LessThan(w.limits.minAmount) || amount.GreaterThan(w.limits.maxAmount) {
		return nil, NewWalletError(ErrInvalidAmount, fmt.Sprint(ownerID))
	}

	// Ensure the wallet row exists before entering the locked section so
	// the first mutation for an owner doesn't hold a creation race inside
	// the retry loop.
	if _, err := w.GetOrCreateWallet(ctx, ownerID); err != nil {
		return nil, err
	}

	var result *WalletModel
	var lastErr error
	for attempt := 1; attempt <= w.limits.retryAttempts; attempt++ {
		lastErr = w.store.ExecTx(ctx, func(q *db.Queries) error {
			dbWallet, err := q.GetWalletByOwnerIDForUpdate(ctx, ownerID)
			if err != nil {
				return err
			}

			if dbWallet.Frozen || dbWallet.Status != "active" {
				return NewWalletError(ErrWalletBlocked, fmt.Sprint(ownerID))
			}

			balance, err := decimal.NewFromString(dbWallet.Balance)
			if err != nil {
				return fmt.Errorf("corrupt balance on wallet %v: %w", dbWallet.ID, err)
			}

			var newBalance decimal.Decimal
			if isDebit {
				if balance.LessThan(amount) {
					return &InsufficientFundsError{Current: balance, Required: amount}
				}
				newBalance = currency.Round(balance.Sub(amount))
			} else {
				newBalance = currency.Round(balance.Add(amount))
				if newBalance.GreaterThan(w.limits.maxBalance) {
					return NewWalletError(ErrBalanceCeiling, fmt.Sprint(ownerID))
				}
			}

			updated, err := q.UpdateWalletBalance(ctx, db.UpdateWalletBalanceParams{
				ID:      dbWallet.ID,
				Balance: newBalance.StringFixed(2),
				Version: dbWallet.Version,
			})
			if err == sql.ErrNoRows {
				// Version moved underneath us despite the row lock; treat
				// as a write conflict and let the retry loop decide.
				return errVersionConflict
			} else if err != nil {
				return err
			}

			result, err = ToWalletModel(updated)
			return err
		})

		if lastErr == nil {
			return result, nil
		}
		if !isRetryable(lastErr) {
			return nil, lastErr
		}

		w.logger.Info(fmt.Sprintf("balance update conflict for owner %v, attempt %d/%d", ownerID, attempt, w.limits.retryAttempts))
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(time.Duration(attempt) * retryBackoffStep):
		}
	}

	return nil, NewWalletError(ErrUpdateConflict, fmt.Sprint(ownerID), lastErr)
}

// errVersionConflict marks a failed compare-and-swap on the version
// column, the double-guard behind the row lock.
var errVersionConflict = fmt.Errorf("wallet version conflict")

func isRetryable(err error) bool {
	return db.IsWriteConflict(err) || errors.Is(err, errVersionConflict)
}

// Freeze blocks all mutations on the owner's wallet. Idempotent.
func (w *WalletService) Freeze(ctx context.Context, ownerID int64, reason string) (*WalletModel, error) {
	dbWallet, err := w.store.SetWalletFrozen(ctx, db.SetWalletFrozenParams{
		OwnerID: ownerID,
		Frozen:  true,
		FrozenReason: sql.NullString{
			String: reason,
			Valid:  reason != "",
		},
	})
	if err == sql.ErrNoRows {
		return nil, NewWalletError(ErrWalletNotFound, fmt.Sprint(ownerID))
	} else if err != nil {
		return nil, err
	}
	w.logger.Info(fmt.Sprintf("wallet frozen for owner %v: %v", ownerID, reason))
	return ToWalletModel(dbWallet)
}

// Unfreeze lifts a freeze. Idempotent.
func (w *WalletService) Unfreeze(ctx context.Context, ownerID int64) (*WalletModel, error) {
	dbWallet, err := w.store.SetWalletFrozen(ctx, db.SetWalletFrozenParams{
		OwnerID:      ownerID,
		Frozen:       false,
		FrozenReason: sql.NullString{},
	})
	if err == sql.ErrNoRows {
		return nil, NewWalletError(ErrWalletNotFound, fmt.Sprint(ownerID))
	} else if err != nil {
		return nil, err
	}
	w.logger.Info(fmt.Sprintf("wallet unfrozen for owner %v", ownerID))
	return ToWalletModel(dbWallet)
}
