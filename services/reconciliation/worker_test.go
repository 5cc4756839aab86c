package reconciliation

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	db "github.com/RoamSim/RoamSim-Backend/db/sqlc"
	esimprovider "github.com/RoamSim/RoamSim-Backend/providers/esim"
	"github.com/RoamSim/RoamSim-Backend/providers/payments"
	"github.com/RoamSim/RoamSim-Backend/services/monitoring/logging"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChecker struct {
	response *payments.PaymentCheckResponse
	err      error
	calls    int
}

func (f *fakeChecker) CheckInvoiceStatus(externalInvoiceID string) (*payments.PaymentCheckResponse, error) {
	f.calls++
	return f.response, f.err
}

type fakeProvisioner struct {
	orders []*esimprovider.OrderRequest
	err    error
}

func (f *fakeProvisioner) PlaceOrder(request *esimprovider.OrderRequest) (*esimprovider.OrderResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.orders = append(f.orders, request)
	return &esimprovider.OrderResponse{OrderNo: "ORD-1", TransactionID: request.TransactionID}, nil
}

type fakeCanceller struct {
	cancelled []string
}

func (f *fakeCanceller) CancelRemainingChecks(senderInvoiceNo string) {
	f.cancelled = append(f.cancelled, senderInvoiceNo)
}

func testLogger() *logging.Logger {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return &logging.Logger{Logger: l}
}

func paidResponse() *payments.PaymentCheckResponse {
	return &payments.PaymentCheckResponse{
		Count: 1,
		Rows:  []payments.PaymentRow{{PaymentID: "p1", PaymentStatus: payments.PaymentStatusPaid}},
	}
}

var invoiceColumns = []string{
	"id", "sender_invoice_no", "external_id", "owner_id", "package_code",
	"amount", "status", "email_sent", "created_at", "updated_at",
}

func invoiceRow(senderNo string, status string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(invoiceColumns).
		AddRow(uuid.New().String(), senderNo, "qpay-ext-1", int64(7), "JP-7D-3GB",
			"34155.00", status, false, now, now)
}

var packageColumns = []string{
	"id", "package_code", "slug", "name", "price", "currency", "data_volume",
	"duration", "duration_unit", "locations", "metadata", "created_at",
	"updated_at",
}

func packageRow(code string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(packageColumns).
		AddRow(int64(1), code, "jp-7d", "Japan 7 Days", "9.90", "USD",
			int64(3_000_000_000), int32(7), "DAY", "JP", nil, now, now)
}

func newTestWorker(t *testing.T, gateway PaymentChecker, provisioner Provisioner, checks CheckCanceller) (*Worker, sqlmock.Sqlmock) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return NewWorker(db.NewStore(conn), gateway, provisioner, checks, testLogger()), mock
}

func TestRunCheckFulfillsPaidInvoice(t *testing.T) {
	gateway := &fakeChecker{response: paidResponse()}
	provisioner := &fakeProvisioner{}
	canceller := &fakeCanceller{}
	worker, mock := newTestWorker(t, gateway, provisioner, canceller)

	mock.ExpectQuery("SELECT (.+) FROM invoices WHERE sender_invoice_no").
		WithArgs("INV-1").
		WillReturnRows(invoiceRow("INV-1", StatusPending))
	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").
		WithArgs("INV-1").
		WillReturnRows(invoiceRow("INV-1", StatusPending))
	mock.ExpectQuery("SELECT (.+) FROM esim_packages").
		WithArgs("JP-7D-3GB").
		WillReturnRows(packageRow("JP-7D-3GB"))
	mock.ExpectQuery("UPDATE invoices").
		WithArgs("INV-1", StatusProcessed).
		WillReturnRows(invoiceRow("INV-1", StatusProcessed))
	mock.ExpectCommit()

	err := worker.RunCheck(context.Background(), "INV-1", 1)

	require.NoError(t, err)
	require.Len(t, provisioner.orders, 1)
	assert.Equal(t, "INV-1", provisioner.orders[0].TransactionID)
	assert.Equal(t, []string{"INV-1"}, canceller.cancelled)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRunCheckSecondCheckIsNoOp(t *testing.T) {
	gateway := &fakeChecker{response: paidResponse()}
	provisioner := &fakeProvisioner{}
	canceller := &fakeCanceller{}
	worker, mock := newTestWorker(t, gateway, provisioner, canceller)

	mock.ExpectQuery("SELECT (.+) FROM invoices WHERE sender_invoice_no").
		WithArgs("INV-1").
		WillReturnRows(invoiceRow("INV-1", StatusProcessed))

	err := worker.RunCheck(context.Background(), "INV-1", 2)

	require.NoError(t, err)
	assert.Equal(t, 0, gateway.calls, "a resolved invoice must not be re-polled")
	assert.Empty(t, provisioner.orders)
	assert.Equal(t, []string{"INV-1"}, canceller.cancelled)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRunCheckConcurrentCheckLosesStatusRace(t *testing.T) {
	gateway := &fakeChecker{response: paidResponse()}
	provisioner := &fakeProvisioner{}
	canceller := &fakeCanceller{}
	worker, mock := newTestWorker(t, gateway, provisioner, canceller)

	// The invoice reads pending, but by the time the row lock is taken a
	// concurrent check has already processed it.
	mock.ExpectQuery("SELECT (.+) FROM invoices WHERE sender_invoice_no").
		WithArgs("INV-1").
		WillReturnRows(invoiceRow("INV-1", StatusPending))
	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").
		WithArgs("INV-1").
		WillReturnRows(invoiceRow("INV-1", StatusProcessed))
	mock.ExpectCommit()

	err := worker.RunCheck(context.Background(), "INV-1", 2)

	require.NoError(t, err)
	assert.Empty(t, provisioner.orders, "exactly one provisioning order per invoice")
	assert.Equal(t, []string{"INV-1"}, canceller.cancelled)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRunCheckUnpaidInvoiceWaits(t *testing.T) {
	gateway := &fakeChecker{response: &payments.PaymentCheckResponse{}}
	provisioner := &fakeProvisioner{}
	canceller := &fakeCanceller{}
	worker, mock := newTestWorker(t, gateway, provisioner, canceller)

	mock.ExpectQuery("SELECT (.+) FROM invoices WHERE sender_invoice_no").
		WithArgs("INV-1").
		WillReturnRows(invoiceRow("INV-1", StatusPending))

	err := worker.RunCheck(context.Background(), "INV-1", 1)

	require.NoError(t, err)
	assert.Empty(t, provisioner.orders)
	assert.Empty(t, canceller.cancelled, "later checks stay scheduled for an unpaid invoice")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRunCheckGatewayErrorIsSwallowed(t *testing.T) {
	gateway := &fakeChecker{err: fmt.Errorf("gateway timeout")}
	provisioner := &fakeProvisioner{}
	canceller := &fakeCanceller{}
	worker, mock := newTestWorker(t, gateway, provisioner, canceller)

	mock.ExpectQuery("SELECT (.+) FROM invoices WHERE sender_invoice_no").
		WithArgs("INV-1").
		WillReturnRows(invoiceRow("INV-1", StatusPending))

	// The next scheduled check is the retry, so the task must not fail.
	err := worker.RunCheck(context.Background(), "INV-1", 1)

	require.NoError(t, err)
	assert.Empty(t, canceller.cancelled)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRunCheckMissingPackageParksInvoice(t *testing.T) {
	gateway := &fakeChecker{response: paidResponse()}
	provisioner := &fakeProvisioner{}
	canceller := &fakeCanceller{}
	worker, mock := newTestWorker(t, gateway, provisioner, canceller)

	mock.ExpectQuery("SELECT (.+) FROM invoices WHERE sender_invoice_no").
		WithArgs("INV-1").
		WillReturnRows(invoiceRow("INV-1", StatusPending))
	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").
		WithArgs("INV-1").
		WillReturnRows(invoiceRow("INV-1", StatusPending))
	mock.ExpectQuery("SELECT (.+) FROM esim_packages").
		WithArgs("JP-7D-3GB").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery("UPDATE invoices").
		WithArgs("INV-1", StatusError).
		WillReturnRows(invoiceRow("INV-1", StatusError))
	mock.ExpectCommit()

	err := worker.RunCheck(context.Background(), "INV-1", 1)

	require.NoError(t, err)
	assert.Empty(t, provisioner.orders, "no order may be placed for a missing package")
	assert.Equal(t, []string{"INV-1"}, canceller.cancelled)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRunCheckOrderFailureRollsBack(t *testing.T) {
	gateway := &fakeChecker{response: paidResponse()}
	provisioner := &fakeProvisioner{err: fmt.Errorf("provider unavailable")}
	canceller := &fakeCanceller{}
	worker, mock := newTestWorker(t, gateway, provisioner, canceller)

	mock.ExpectQuery("SELECT (.+) FROM invoices WHERE sender_invoice_no").
		WithArgs("INV-1").
		WillReturnRows(invoiceRow("INV-1", StatusPending))
	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").
		WithArgs("INV-1").
		WillReturnRows(invoiceRow("INV-1", StatusPending))
	mock.ExpectQuery("SELECT (.+) FROM esim_packages").
		WithArgs("JP-7D-3GB").
		WillReturnRows(packageRow("JP-7D-3GB"))
	mock.ExpectRollback()

	err := worker.RunCheck(context.Background(), "INV-1", 1)

	require.Error(t, err)
	assert.Empty(t, canceller.cancelled, "the invoice stays pending so later checks can retry")
	require.NoError(t, mock.ExpectationsWereMet())
}
