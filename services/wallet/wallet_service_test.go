package wallet

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	db "github.com/RoamSim/RoamSim-Backend/db/sqlc"
	"github.com/RoamSim/RoamSim-Backend/services/monitoring/logging"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDirectory struct {
	exists   bool
	currency string
}

func (f *fakeDirectory) AccountExists(ctx context.Context, ownerID int64) (bool, error) {
	return f.exists, nil
}

func (f *fakeDirectory) PreferredCurrency(ctx context.Context, ownerID int64) (string, error) {
	return f.currency, nil
}

func testLogger() *logging.Logger {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return &logging.Logger{Logger: l}
}

func newTestWalletService(t *testing.T, directory *fakeDirectory) (*WalletService, sqlmock.Sqlmock) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	service := NewWalletServiceWithConfig(db.NewStore(conn), directory, testLogger(), WalletConfig{})
	return service, mock
}

var walletColumns = []string{
	"id", "owner_id", "currency", "balance", "status", "frozen",
	"frozen_reason", "version", "created_at", "updated_at",
}

func walletRow(id uuid.UUID, ownerID int64, balance string, frozen bool, version int64) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(walletColumns).
		AddRow(id.String(), ownerID, "USD", balance, "active", frozen, nil, version, now, now)
}

func TestDebitInsufficientFunds(t *testing.T) {
	service, mock := newTestWalletService(t, &fakeDirectory{exists: true, currency: "USD"})
	walletID := uuid.New()

	mock.ExpectQuery("SELECT (.+) FROM wallets WHERE owner_id").
		WithArgs(int64(7)).
		WillReturnRows(walletRow(walletID, 7, "100.00", false, 1))
	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").
		WithArgs(int64(7)).
		WillReturnRows(walletRow(walletID, 7, "100.00", false, 1))
	mock.ExpectRollback()

	_, err := service.Debit(context.Background(), 7, decimal.NewFromInt(150))

	var insufficient *InsufficientFundsError
	require.ErrorAs(t, err, &insufficient)
	assert.True(t, insufficient.Current.Equal(decimal.NewFromInt(100)))
	assert.True(t, insufficient.Required.Equal(decimal.NewFromInt(150)))
	assert.True(t, errors.Is(err, ErrInsufficientFunds))

	// No balance update may reach the database on a failed debit.
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreditCreatesWalletForNewOwner(t *testing.T) {
	service, mock := newTestWalletService(t, &fakeDirectory{exists: true, currency: "USD"})
	walletID := uuid.New()

	mock.ExpectQuery("SELECT (.+) FROM wallets WHERE owner_id").
		WithArgs(int64(42)).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery("INSERT INTO wallets").
		WithArgs(int64(42), "USD", "0.00").
		WillReturnRows(walletRow(walletID, 42, "0.00", false, 1))
	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").
		WithArgs(int64(42)).
		WillReturnRows(walletRow(walletID, 42, "0.00", false, 1))
	mock.ExpectQuery("UPDATE wallets").
		WithArgs(walletID, "50.00", int64(1)).
		WillReturnRows(walletRow(walletID, 42, "50.00", false, 2))
	mock.ExpectCommit()

	result, err := service.Credit(context.Background(), 42, decimal.NewFromInt(50))

	require.NoError(t, err)
	assert.True(t, result.Balance.Equal(decimal.NewFromInt(50)))
	assert.Equal(t, "USD", result.Currency)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDebitFrozenWallet(t *testing.T) {
	service, mock := newTestWalletService(t, &fakeDirectory{exists: true, currency: "USD"})
	walletID := uuid.New()

	mock.ExpectQuery("SELECT (.+) FROM wallets WHERE owner_id").
		WithArgs(int64(7)).
		WillReturnRows(walletRow(walletID, 7, "100.00", true, 1))
	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").
		WithArgs(int64(7)).
		WillReturnRows(walletRow(walletID, 7, "100.00", true, 1))
	mock.ExpectRollback()

	_, err := service.Debit(context.Background(), 7, decimal.NewFromInt(10))

	assert.True(t, errors.Is(err, ErrWalletBlocked))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreditBalanceCeiling(t *testing.T) {
	service, mock := newTestWalletService(t, &fakeDirectory{exists: true, currency: "USD"})
	walletID := uuid.New()

	mock.ExpectQuery("SELECT (.+) FROM wallets WHERE owner_id").
		WithArgs(int64(7)).
		WillReturnRows(walletRow(walletID, 7, "999999.99", false, 1))
	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").
		WithArgs(int64(7)).
		WillReturnRows(walletRow(walletID, 7, "999999.99", false, 1))
	mock.ExpectRollback()

	_, err := service.Credit(context.Background(), 7, decimal.NewFromInt(100))

	assert.True(t, errors.Is(err, ErrBalanceCeiling))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDebitRoundsToMinorUnit(t *testing.T) {
	service, mock := newTestWalletService(t, &fakeDirectory{exists: true, currency: "USD"})
	walletID := uuid.New()

	mock.ExpectQuery("SELECT (.+) FROM wallets WHERE owner_id").
		WithArgs(int64(7)).
		WillReturnRows(walletRow(walletID, 7, "100.00", false, 1))
	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").
		WithArgs(int64(7)).
		WillReturnRows(walletRow(walletID, 7, "100.00", false, 1))
	// 100 - 0.105 = 99.895, rounded half away from zero to 99.90.
	mock.ExpectQuery("UPDATE wallets").
		WithArgs(walletID, "99.90", int64(1)).
		WillReturnRows(walletRow(walletID, 7, "99.90", false, 2))
	mock.ExpectCommit()

	result, err := service.Debit(context.Background(), 7, decimal.NewFromFloat(0.105))

	require.NoError(t, err)
	assert.Equal(t, "99.90", result.Balance.StringFixed(2))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMutationRetriesExhaustOnVersionConflict(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	service := NewWalletServiceWithConfig(
		db.NewStore(conn),
		&fakeDirectory{exists: true, currency: "USD"},
		testLogger(),
		WalletConfig{RetryAttempts: 2},
	)
	walletID := uuid.New()

	mock.ExpectQuery("SELECT (.+) FROM wallets WHERE owner_id").
		WithArgs(int64(7)).
		WillReturnRows(walletRow(walletID, 7, "100.00", false, 1))
	for i := 0; i < 2; i++ {
		mock.ExpectBegin()
		mock.ExpectQuery("FOR UPDATE").
			WithArgs(int64(7)).
			WillReturnRows(walletRow(walletID, 7, "100.00", false, 1))
		mock.ExpectQuery("UPDATE wallets").
			WithArgs(walletID, "110.00", int64(1)).
			WillReturnError(sql.ErrNoRows)
		mock.ExpectRollback()
	}

	_, err = service.Credit(context.Background(), 7, decimal.NewFromInt(10))

	assert.True(t, errors.Is(err, ErrUpdateConflict))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMutationRejectsOutOfRangeAmounts(t *testing.T) {
	service, mock := newTestWalletService(t, &fakeDirectory{exists: true, currency: "USD"})

	_, err := service.Credit(context.Background(), 7, decimal.NewFromFloat(0.001))
	assert.True(t, errors.Is(err, ErrInvalidAmount))

	_, err = service.Debit(context.Background(), 7, decimal.NewFromInt(1_000_000))
	assert.True(t, errors.Is(err, ErrInvalidAmount))

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFreezeAndUnfreeze(t *testing.T) {
	service, mock := newTestWalletService(t, &fakeDirectory{exists: true, currency: "USD"})
	walletID := uuid.New()

	mock.ExpectQuery("UPDATE wallets").
		WithArgs(int64(7), true, "chargeback review").
		WillReturnRows(walletRow(walletID, 7, "100.00", true, 1))

	frozen, err := service.Freeze(context.Background(), 7, "chargeback review")
	require.NoError(t, err)
	assert.True(t, frozen.Frozen)

	mock.ExpectQuery("UPDATE wallets").
		WithArgs(int64(7), false, nil).
		WillReturnRows(walletRow(walletID, 7, "100.00", false, 1))

	thawed, err := service.Unfreeze(context.Background(), 7)
	require.NoError(t, err)
	assert.False(t, thawed.Frozen)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetOrCreateWalletUnknownOwner(t *testing.T) {
	service, mock := newTestWalletService(t, &fakeDirectory{exists: false})

	mock.ExpectQuery("SELECT (.+) FROM wallets WHERE owner_id").
		WithArgs(int64(99)).
		WillReturnError(sql.ErrNoRows)

	_, err := service.GetOrCreateWallet(context.Background(), 99)

	assert.True(t, errors.Is(err, ErrOwnerNotFound))
	require.NoError(t, mock.ExpectationsWereMet())
}
