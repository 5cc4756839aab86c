package reconciliation

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	db "github.com/RoamSim/RoamSim-Backend/db/sqlc"
	"github.com/RoamSim/RoamSim-Backend/providers/payments"
	"github.com/RoamSim/RoamSim-Backend/services/currency"
	"github.com/RoamSim/RoamSim-Backend/services/monitoring/logging"
	"github.com/RoamSim/RoamSim-Backend/utils"
	"github.com/shopspring/decimal"
)

// Invoice lifecycle. An invoice only ever moves forward:
// pending -> processed (paid and fulfilled) or pending -> error (paid but
// unfulfillable).
const (
	StatusPending   = "pending"
	StatusProcessed = "processed"
	StatusError     = "error"
)

// InvoiceGateway is the payment-provider surface invoice creation needs.
type InvoiceGateway interface {
	CreateInvoice(senderInvoiceNo string, receiverCode string, description string, amount string) (*payments.CreateInvoiceResponse, error)
}

// CheckScheduler enqueues the delayed reconciliation checks.
type CheckScheduler interface {
	ScheduleInvoiceChecks(senderInvoiceNo string) error
}

type InvoiceModel struct {
	SenderInvoiceNo string          `json:"sender_invoice_no"`
	PackageCode     string          `json:"package_code"`
	Amount          decimal.Decimal `json:"amount"`
	Status          string          `json:"status"`
	QrText          string          `json:"qr_text,omitempty"`
	QrImage         string          `json:"qr_image,omitempty"`
	PaymentURL      string          `json:"payment_url,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

type InvoiceService struct {
	store     *db.Store
	gateway   InvoiceGateway
	scheduler CheckScheduler
	logger    *logging.Logger
}

func NewInvoiceService(store *db.Store, gateway InvoiceGateway, scheduler CheckScheduler, logger *logging.Logger) *InvoiceService {
	return &InvoiceService{
		store:     store,
		gateway:   gateway,
		scheduler: scheduler,
		logger:    logger,
	}
}

func newSenderInvoiceNo(at time.Time) string {
	return fmt.Sprintf("INV-%s-%s", at.Format("20060102"), strings.ToUpper(utils.GenerateRandomString(8)))
}

// CreateInvoice registers a gateway invoice for the package price and
// schedules the delayed reconciliation checks that watch it for payment.
func (s *InvoiceService) CreateInvoice(ctx context.Context, ownerID int64, packageCode string) (*InvoiceModel, error) {
	pkg, err := s.store.GetEsimPackageByCode(ctx, packageCode)
	if err == sql.ErrNoRows {
		return nil, ErrProductMissing
	} else if err != nil {
		return nil, err
	}

	price, err := decimal.NewFromString(pkg.Price)
	if err != nil {
		return nil, fmt.Errorf("corrupt price on package %s: %w", packageCode, err)
	}

	// The gateway settles in MNT regardless of the catalog currency.
	amount, err := currency.Convert(price, pkg.Currency, "MNT")
	if err != nil {
		return nil, err
	}

	senderInvoiceNo := newSenderInvoiceNo(time.Now())
	description := fmt.Sprintf("eSIM package %s", pkg.PackageCode)

	gatewayInvoice, err := s.gateway.CreateInvoice(senderInvoiceNo, fmt.Sprint(ownerID), description, amount.StringFixed(2))
	if err != nil {
		return nil, fmt.Errorf("gateway invoice creation failed: %w", err)
	}

	record, err := s.store.CreateInvoice(ctx, db.CreateInvoiceParams{
		SenderInvoiceNo: senderInvoiceNo,
		ExternalID: sql.NullString{
			String: gatewayInvoice.InvoiceID,
			Valid:  gatewayInvoice.InvoiceID != "",
		},
		OwnerID:     ownerID,
		PackageCode: pkg.PackageCode,
		Amount:      amount.StringFixed(2),
	})
	if err != nil {
		// The gateway invoice is orphaned; nothing will ever reconcile it.
		s.logger.Error(fmt.Sprintf("gateway invoice %s created but local row failed: %v", gatewayInvoice.InvoiceID, err))
		return nil, err
	}

	if err := s.scheduler.ScheduleInvoiceChecks(senderInvoiceNo); err != nil {
		// The invoice row exists; only the automated checks are missing.
		// A gateway callback can still resolve it.
		s.logger.Error(fmt.Sprintf("scheduling checks for invoice %s failed: %v", senderInvoiceNo, err))
	}

	paymentURL := ""
	for _, u := range gatewayInvoice.URLs {
		if u.Link != "" {
			paymentURL = u.Link
			break
		}
	}
	if paymentURL == "" {
		paymentURL = gatewayInvoice.QPayURL
	}

	return &InvoiceModel{
		SenderInvoiceNo: record.SenderInvoiceNo,
		PackageCode:     record.PackageCode,
		Amount:          amount,
		Status:          record.Status,
		QrText:          gatewayInvoice.QrText,
		QrImage:         gatewayInvoice.QrImage,
		PaymentURL:      paymentURL,
		CreatedAt:       record.CreatedAt,
	}, nil
}

// ListUnresolved returns the invoices still pending within the lookback
// window, the operator's view of what the checks are still watching.
func (s *InvoiceService) ListUnresolved(ctx context.Context, lookback time.Duration) ([]*InvoiceModel, error) {
	rows, err := s.store.ListUnresolvedInvoicesCreatedAfter(ctx, time.Now().Add(-lookback))
	if err != nil {
		return nil, err
	}
	items := make([]*InvoiceModel, 0, len(rows))
	for _, row := range rows {
		amount, err := decimal.NewFromString(row.Amount)
		if err != nil {
			return nil, err
		}
		items = append(items, &InvoiceModel{
			SenderInvoiceNo: row.SenderInvoiceNo,
			PackageCode:     row.PackageCode,
			Amount:          amount,
			Status:          row.Status,
			CreatedAt:       row.CreatedAt,
		})
	}
	return items, nil
}

func (s *InvoiceService) GetInvoice(ctx context.Context, senderInvoiceNo string) (*InvoiceModel, error) {
	record, err := s.store.GetInvoiceBySenderNo(ctx, senderInvoiceNo)
	if err == sql.ErrNoRows {
		return nil, ErrInvoiceNotFound
	} else if err != nil {
		return nil, err
	}
	amount, err := decimal.NewFromString(record.Amount)
	if err != nil {
		return nil, err
	}
	return &InvoiceModel{
		SenderInvoiceNo: record.SenderInvoiceNo,
		PackageCode:     record.PackageCode,
		Amount:          amount,
		Status:          record.Status,
		CreatedAt:       record.CreatedAt,
	}, nil
}
