package esim

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	db "github.com/RoamSim/RoamSim-Backend/db/sqlc"
	esimprovider "github.com/RoamSim/RoamSim-Backend/providers/esim"
	"github.com/RoamSim/RoamSim-Backend/services/monitoring/logging"
	"github.com/RoamSim/RoamSim-Backend/services/transaction"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOrchestrator struct {
	record *transaction.TransactionModel
	err    error
	params transaction.ProcessParams
	calls  int
}

func (f *fakeOrchestrator) Process(ctx context.Context, params transaction.ProcessParams) (*transaction.TransactionModel, error) {
	f.calls++
	f.params = params
	return f.record, f.err
}

type fakeCatalog struct {
	items    []esimprovider.PackageListItem
	err      error
	profiles []esimprovider.EsimProfile
	actions  []string
}

func (f *fakeCatalog) GetAllPackages() ([]esimprovider.PackageListItem, error) {
	return f.items, f.err
}

func (f *fakeCatalog) QueryPurchases(filter *esimprovider.PurchaseFilter) (*esimprovider.PurchaseQueryResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &esimprovider.PurchaseQueryResponse{EsimList: f.profiles}, nil
}

func (f *fakeCatalog) PerformAction(actionCode string, orderNo string) error {
	f.actions = append(f.actions, actionCode+":"+orderNo)
	return f.err
}

func testLogger() *logging.Logger {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return &logging.Logger{Logger: l}
}

func newTestEsimService(t *testing.T, orchestrator Orchestrator, catalog Catalog) (*EsimService, sqlmock.Sqlmock) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return NewEsimService(db.NewStore(conn), orchestrator, catalog, nil, testLogger()), mock
}

var packageColumns = []string{
	"id", "package_code", "slug", "name", "price", "currency", "data_volume",
	"duration", "duration_unit", "locations", "metadata", "created_at",
	"updated_at",
}

func packageRow(code string, price string, duration int32, unit string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(packageColumns).
		AddRow(int64(1), code, "jp-7d", "Japan 7 Days", price, "USD", int64(3_000_000_000),
			duration, unit, "JP", nil, now, now)
}

var purchaseColumns = []string{
	"id", "transaction_id", "owner_id", "package_code", "package_slug",
	"package_name", "price", "currency", "data_volume", "duration",
	"duration_unit", "locations", "is_activated", "is_active", "iccid",
	"activated_at", "expires_at", "metadata", "created_at", "updated_at",
}

func purchaseRow(id, txID uuid.UUID, code string, expiresAt time.Time) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(purchaseColumns).
		AddRow(id.String(), txID.String(), int64(7), code, "jp-7d", "Japan 7 Days",
			"9.90", "USD", int64(3_000_000_000), int32(7), "DAY", "JP",
			false, true, nil, nil, expiresAt, nil, now, now)
}

func TestComputeExpiry(t *testing.T) {
	service := NewEsimService(nil, nil, nil, nil, testLogger())
	from := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name     string
		duration int32
		unit     string
		want     time.Time
	}{
		{"seven days", 7, "DAY", from.AddDate(0, 0, 7)},
		{"lowercase unit", 7, "day", from.AddDate(0, 0, 7)},
		{"one month", 1, "MONTH", from.AddDate(0, 1, 0)},
		{"one year", 1, "YEAR", from.AddDate(1, 0, 0)},
		{"twelve hours", 12, "HOUR", from.Add(12 * time.Hour)},
		{"unknown unit falls back to days", 3, "FORTNIGHT", from.AddDate(0, 0, 3)},
		{"empty unit falls back to days", 3, "", from.AddDate(0, 0, 3)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, service.computeExpiry(from, tc.duration, tc.unit))
		})
	}
}

func TestPurchaseEsim(t *testing.T) {
	txID := uuid.New()
	orchestrator := &fakeOrchestrator{
		record: &transaction.TransactionModel{
			ID:        txID,
			Reference: "TXN-20260901-ABCDEFGH",
			Status:    transaction.StatusCompleted,
		},
	}
	service, mock := newTestEsimService(t, orchestrator, nil)
	purchaseID := uuid.New()

	mock.ExpectQuery("SELECT (.+) FROM esim_packages").
		WithArgs("JP-7D-3GB").
		WillReturnRows(packageRow("JP-7D-3GB", "9.90", 7, "DAY"))
	mock.ExpectQuery("INSERT INTO esim_purchases").
		WillReturnRows(purchaseRow(purchaseID, txID, "JP-7D-3GB", time.Now().AddDate(0, 0, 7)))

	purchase, err := service.PurchaseEsim(context.Background(), 7, "JP-7D-3GB")

	require.NoError(t, err)
	assert.Equal(t, purchaseID, purchase.ID)
	assert.Equal(t, "TXN-20260901-ABCDEFGH", purchase.Reference)
	assert.Equal(t, transaction.Withdrawal, orchestrator.params.Type)
	assert.True(t, orchestrator.params.Amount.Equal(decimal.NewFromFloat(9.90)))
	assert.Equal(t, "esim-purchase", orchestrator.params.Description)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPurchaseEsimUnknownPackage(t *testing.T) {
	orchestrator := &fakeOrchestrator{}
	service, mock := newTestEsimService(t, orchestrator, nil)

	mock.ExpectQuery("SELECT (.+) FROM esim_packages").
		WithArgs("GONE").
		WillReturnError(sql.ErrNoRows)

	_, err := service.PurchaseEsim(context.Background(), 7, "GONE")

	assert.True(t, errors.Is(err, ErrPackageNotFound))
	assert.Equal(t, 0, orchestrator.calls, "no debit may happen for an unknown package")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPurchaseEsimDebitFailurePropagates(t *testing.T) {
	orchestrator := &fakeOrchestrator{err: fmt.Errorf("insufficient funds")}
	service, mock := newTestEsimService(t, orchestrator, nil)

	mock.ExpectQuery("SELECT (.+) FROM esim_packages").
		WithArgs("JP-7D-3GB").
		WillReturnRows(packageRow("JP-7D-3GB", "9.90", 7, "DAY"))

	_, err := service.PurchaseEsim(context.Background(), 7, "JP-7D-3GB")

	require.Error(t, err)
	assert.Equal(t, orchestrator.err, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPurchaseEsimRecordFailureIsTyped(t *testing.T) {
	txID := uuid.New()
	orchestrator := &fakeOrchestrator{
		record: &transaction.TransactionModel{
			ID:        txID,
			Reference: "TXN-20260901-ABCDEFGH",
			Status:    transaction.StatusCompleted,
		},
	}
	service, mock := newTestEsimService(t, orchestrator, nil)

	mock.ExpectQuery("SELECT (.+) FROM esim_packages").
		WithArgs("JP-7D-3GB").
		WillReturnRows(packageRow("JP-7D-3GB", "9.90", 7, "DAY"))
	mock.ExpectQuery("INSERT INTO esim_purchases").
		WillReturnError(fmt.Errorf("connection reset"))

	_, err := service.PurchaseEsim(context.Background(), 7, "JP-7D-3GB")

	var incomplete *PurchaseIncompleteError
	require.ErrorAs(t, err, &incomplete)
	assert.Equal(t, "TXN-20260901-ABCDEFGH", incomplete.Reference)
	assert.True(t, errors.Is(err, ErrPurchaseIncomplete))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSyncPackagesUpserts(t *testing.T) {
	catalog := &fakeCatalog{
		items: []esimprovider.PackageListItem{
			{PackageCode: "JP-7D-3GB", Name: "Japan 7 Days", RetailPrice: 99000, CurrencyCode: "USD", Volume: 3_000_000_000, Duration: 7, DurationUnit: "DAY", Location: "JP"},
			{PackageCode: "KR-30D-10GB", Name: "Korea 30 Days", RetailPrice: 245000, CurrencyCode: "USD", Volume: 10_000_000_000, Duration: 30, DurationUnit: "DAY", Location: "KR"},
		},
	}
	service, mock := newTestEsimService(t, nil, catalog)

	mock.ExpectQuery("INSERT INTO esim_packages").
		WithArgs("JP-7D-3GB", nil, "Japan 7 Days", "9.90", "USD", int64(3_000_000_000), int32(7), "DAY", "JP", nil).
		WillReturnRows(packageRow("JP-7D-3GB", "9.90", 7, "DAY"))
	mock.ExpectQuery("INSERT INTO esim_packages").
		WithArgs("KR-30D-10GB", nil, "Korea 30 Days", "24.50", "USD", int64(10_000_000_000), int32(30), "DAY", "KR", nil).
		WillReturnRows(packageRow("KR-30D-10GB", "24.50", 30, "DAY"))

	count, err := service.SyncPackages(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, count)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderProfilesAndCancel(t *testing.T) {
	catalog := &fakeCatalog{
		profiles: []esimprovider.EsimProfile{{OrderNo: "ORD-1", Iccid: "8976123400001"}},
	}
	service, _ := newTestEsimService(t, nil, catalog)

	profiles, err := service.OrderProfiles("ORD-1")
	require.NoError(t, err)
	require.Len(t, profiles, 1)
	assert.Equal(t, "8976123400001", profiles[0].Iccid)

	require.NoError(t, service.CancelOrder("ORD-1"))
	assert.Equal(t, []string{"CANCEL:ORD-1"}, catalog.actions)
}

func TestGetPurchaseByTransactionID(t *testing.T) {
	service, mock := newTestEsimService(t, nil, nil)
	purchaseID := uuid.New()
	txID := uuid.New()

	mock.ExpectQuery("SELECT (.+) FROM esim_purchases").
		WithArgs(txID).
		WillReturnRows(purchaseRow(purchaseID, txID, "JP-7D-3GB", time.Now().AddDate(0, 0, 7)))

	purchase, err := service.GetPurchaseByTransactionID(context.Background(), txID)
	require.NoError(t, err)
	assert.Equal(t, purchaseID, purchase.ID)
	assert.Equal(t, txID, purchase.TransactionID)

	mock.ExpectQuery("SELECT (.+) FROM esim_purchases").
		WithArgs(txID).
		WillReturnError(sql.ErrNoRows)

	_, err = service.GetPurchaseByTransactionID(context.Background(), txID)
	assert.True(t, errors.Is(err, ErrPurchaseNotFound))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordActivation(t *testing.T) {
	service, mock := newTestEsimService(t, nil, nil)
	purchaseID := uuid.New()
	txID := uuid.New()

	mock.ExpectQuery("UPDATE esim_purchases").
		WithArgs(purchaseID, "8976123400001", true, sqlmock.AnyArg()).
		WillReturnRows(purchaseRow(purchaseID, txID, "JP-7D-3GB", time.Now().AddDate(0, 0, 7)))

	purchase, err := service.RecordActivation(context.Background(), purchaseID, "8976123400001")
	require.NoError(t, err)
	assert.Equal(t, purchaseID, purchase.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}
