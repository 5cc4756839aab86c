package user_service

import (
	"context"
	"database/sql"
	"fmt"

	db "github.com/RoamSim/RoamSim-Backend/db/sqlc"
	"github.com/RoamSim/RoamSim-Backend/services/currency"
	"github.com/RoamSim/RoamSim-Backend/services/monitoring/logging"
)

type UserService struct {
	store           *db.Store
	logger          *logging.Logger
	defaultCurrency string
}

func NewUserService(store *db.Store, logger *logging.Logger, defaultCurrency string) *UserService {
	if defaultCurrency == "" {
		defaultCurrency = "USD"
	}
	return &UserService{
		store:           store,
		logger:          logger,
		defaultCurrency: defaultCurrency,
	}
}

// AccountExists reports whether an owner row exists for the given id.
func (u *UserService) AccountExists(ctx context.Context, ownerID int64) (bool, error) {
	_, err := u.store.GetUserByID(ctx, ownerID)
	if err == sql.ErrNoRows {
		return false, nil
	} else if err != nil {
		return false, fmt.Errorf("failed to look up user: %w", err)
	}
	return true, nil
}

// PreferredCurrency returns the owner's preferred wallet currency,
// falling back to the configured default when unset or unsupported.
func (u *UserService) PreferredCurrency(ctx context.Context, ownerID int64) (string, error) {
	userInfo, err := u.store.GetUserByID(ctx, ownerID)
	if err == sql.ErrNoRows {
		return "", NewUserError(ErrUserNotFound, fmt.Sprint(ownerID))
	} else if err != nil {
		return "", err
	}

	if !userInfo.PreferredCurrency.Valid || currency.IsCurrencyInvalid(userInfo.PreferredCurrency.String) {
		return u.defaultCurrency, nil
	}
	return userInfo.PreferredCurrency.String, nil
}
