package reconciliation

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	db "github.com/RoamSim/RoamSim-Backend/db/sqlc"
	esimprovider "github.com/RoamSim/RoamSim-Backend/providers/esim"
	"github.com/RoamSim/RoamSim-Backend/providers/payments"
	"github.com/RoamSim/RoamSim-Backend/services/monitoring/logging"
	"github.com/hibiken/asynq"
	"github.com/shopspring/decimal"
)

// PaymentChecker is the payment-provider surface the checks poll.
type PaymentChecker interface {
	CheckInvoiceStatus(externalInvoiceID string) (*payments.PaymentCheckResponse, error)
}

// Provisioner places the eSIM order once an invoice is confirmed paid.
type Provisioner interface {
	PlaceOrder(request *esimprovider.OrderRequest) (*esimprovider.OrderResponse, error)
}

// CheckCanceller removes the still-pending checks of a resolved invoice.
type CheckCanceller interface {
	CancelRemainingChecks(senderInvoiceNo string)
}

// Worker runs the delayed invoice checks. A check that finds the invoice
// paid fulfills it exactly once: the fulfillment runs under a row lock
// with a status re-check, so overlapping checks (or a check racing the
// gateway callback) collapse to a single provisioning order.
type Worker struct {
	store       *db.Store
	gateway     PaymentChecker
	provisioner Provisioner
	checks      CheckCanceller
	logger      *logging.Logger
}

func NewWorker(store *db.Store, gateway PaymentChecker, provisioner Provisioner, checks CheckCanceller, logger *logging.Logger) *Worker {
	return &Worker{
		store:       store,
		gateway:     gateway,
		provisioner: provisioner,
		checks:      checks,
		logger:      logger,
	}
}

// Mux registers the worker's task handlers for the asynq server.
func (w *Worker) Mux() *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeInvoiceCheck, w.HandleInvoiceCheck)
	return mux
}

func (w *Worker) HandleInvoiceCheck(ctx context.Context, t *asynq.Task) error {
	var payload InvoiceCheckPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal invoice check payload: %w", err)
	}
	return w.RunCheck(ctx, payload.SenderInvoiceNo, payload.Attempt)
}

// RunCheck polls the gateway for one invoice and fulfills it if paid.
// Gateway failures are logged and swallowed: the next scheduled check is
// the retry. Also invoked directly when a gateway callback arrives, with
// attempt 0.
func (w *Worker) RunCheck(ctx context.Context, senderInvoiceNo string, attempt int) error {
	invoice, err := w.store.GetInvoiceBySenderNo(ctx, senderInvoiceNo)
	if err == sql.ErrNoRows {
		w.logger.Error(fmt.Sprintf("check %d found no invoice %s", attempt, senderInvoiceNo))
		w.checks.CancelRemainingChecks(senderInvoiceNo)
		return nil
	} else if err != nil {
		return err
	}

	if invoice.Status != StatusPending {
		w.checks.CancelRemainingChecks(senderInvoiceNo)
		return nil
	}

	if !invoice.ExternalID.Valid {
		w.logger.Error(fmt.Sprintf("invoice %s has no gateway id, cannot check", senderInvoiceNo))
		return nil
	}

	check, err := w.gateway.CheckInvoiceStatus(invoice.ExternalID.String)
	if err != nil {
		// Transient by assumption. The next scheduled check is the retry.
		w.logger.Error(fmt.Sprintf("gateway check %d for invoice %s failed: %v", attempt, senderInvoiceNo, err))
		return nil
	}

	if !check.HasPaidRow() {
		w.logger.Info(fmt.Sprintf("invoice %s not paid yet (check %d)", senderInvoiceNo, attempt))
		return nil
	}

	resolved, err := w.fulfill(ctx, senderInvoiceNo)
	if err != nil {
		w.logger.Error(fmt.Sprintf("fulfillment of invoice %s failed: %v", senderInvoiceNo, err))
		return err
	}
	if resolved {
		w.checks.CancelRemainingChecks(senderInvoiceNo)
	}
	return nil
}

// fulfill moves a paid invoice to its terminal state. Returns true when
// the invoice is resolved (processed, error, or already handled by a
// concurrent check) and its remaining checks should be cancelled.
func (w *Worker) fulfill(ctx context.Context, senderInvoiceNo string) (bool, error) {
	var productMissing bool

	err := w.store.ExecTx(ctx, func(q *db.Queries) error {
		locked, err := q.GetInvoiceBySenderNoForUpdate(ctx, senderInvoiceNo)
		if err != nil {
			return err
		}

		// Another check (or the callback path) got here first.
		if locked.Status != StatusPending {
			return nil
		}

		pkg, err := q.GetEsimPackageByCode(ctx, locked.PackageCode)
		if err == sql.ErrNoRows {
			// Paid money against a product we no longer sell. Park the
			// invoice in the error state for manual handling rather than
			// re-polling forever.
			productMissing = true
			_, err := q.UpdateInvoiceStatus(ctx, db.UpdateInvoiceStatusParams{
				SenderInvoiceNo: senderInvoiceNo,
				Status:          StatusError,
			})
			return err
		} else if err != nil {
			return err
		}

		amount, err := decimal.NewFromString(locked.Amount)
		if err != nil {
			return fmt.Errorf("corrupt amount on invoice %s: %w", senderInvoiceNo, err)
		}

		// A failed order rolls the status back to pending via the
		// transaction, so the next check retries the whole fulfillment.
		order, err := w.provisioner.PlaceOrder(&esimprovider.OrderRequest{
			TransactionID: senderInvoiceNo,
			Amount:        amount.Mul(decimal.NewFromInt(10000)).IntPart(),
			PackageInfoList: []esimprovider.PackageInfo{
				{PackageCode: pkg.PackageCode, Count: 1},
			},
		})
		if err != nil {
			return fmt.Errorf("place provisioning order: %w", err)
		}

		w.logger.Info(fmt.Sprintf("invoice %s fulfilled with order %s", senderInvoiceNo, order.OrderNo))

		_, err = q.UpdateInvoiceStatus(ctx, db.UpdateInvoiceStatusParams{
			SenderInvoiceNo: senderInvoiceNo,
			Status:          StatusProcessed,
		})
		return err
	})
	if err != nil {
		return false, err
	}

	if productMissing {
		w.logger.Error(fmt.Sprintf("invoice %s paid but package missing from catalog, marked %s", senderInvoiceNo, StatusError))
	}
	return true, nil
}
