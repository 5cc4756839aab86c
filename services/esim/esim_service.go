package esim

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	db "github.com/RoamSim/RoamSim-Backend/db/sqlc"
	esimprovider "github.com/RoamSim/RoamSim-Backend/providers/esim"
	"github.com/RoamSim/RoamSim-Backend/services/monitoring/logging"
	"github.com/RoamSim/RoamSim-Backend/services/redis"
	"github.com/RoamSim/RoamSim-Backend/services/transaction"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Orchestrator is the slice of the transaction service the coordinator
// drives.
type Orchestrator interface {
	Process(ctx context.Context, params transaction.ProcessParams) (*transaction.TransactionModel, error)
}

// Catalog is the provisioning-provider surface: the package feed plus
// the order lifecycle calls.
type Catalog interface {
	GetAllPackages() ([]esimprovider.PackageListItem, error)
	QueryPurchases(filter *esimprovider.PurchaseFilter) (*esimprovider.PurchaseQueryResponse, error)
	PerformAction(actionCode string, orderNo string) error
}

const (
	purchaseDescription = "esim-purchase"
	packageCacheTTL     = 10 * time.Minute
	packageCachePrefix  = "esim:package:"
)

type EsimService struct {
	store        *db.Store
	transactions Orchestrator
	catalog      Catalog
	cache        *redis.RedisService
	logger       *logging.Logger
}

func NewEsimService(store *db.Store, transactions Orchestrator, catalog Catalog, cache *redis.RedisService, logger *logging.Logger) *EsimService {
	return &EsimService{
		store:        store,
		transactions: transactions,
		catalog:      catalog,
		cache:        cache,
		logger:       logger,
	}
}

// PurchaseEsim debits the owner's wallet for the package price and writes
// the entitlement row. The debit and the entitlement are not atomic: a
// failure after the debit leaves a completed withdrawal with no linked
// purchase, surfaced by the unfulfilled-purchase query rather than
// compensated here.
func (s *EsimService) PurchaseEsim(ctx context.Context, ownerID int64, packageCode string) (*PurchaseModel, error) {
	pkg, err := s.GetPackageByCode(ctx, packageCode)
	if err != nil {
		return nil, err
	}

	record, err := s.transactions.Process(ctx, transaction.ProcessParams{
		OwnerID:     ownerID,
		Type:        transaction.Withdrawal,
		Amount:      pkg.Price,
		Description: purchaseDescription,
		Metadata: map[string]interface{}{
			"package_code": pkg.PackageCode,
			"package_name": pkg.Name,
		},
	})
	if err != nil {
		return nil, err
	}

	expiresAt := s.computeExpiry(time.Now(), pkg.Duration, pkg.DurationUnit)

	purchase, err := s.store.CreateEsimPurchase(ctx, db.CreateEsimPurchaseParams{
		TransactionID: record.ID,
		OwnerID:       ownerID,
		PackageCode:   pkg.PackageCode,
		PackageSlug:   sql.NullString{String: pkg.Slug, Valid: pkg.Slug != ""},
		PackageName:   sql.NullString{String: pkg.Name, Valid: pkg.Name != ""},
		Price:         pkg.Price.StringFixed(2),
		Currency:      pkg.Currency,
		DataVolume:    sql.NullInt64{Int64: pkg.DataVolume, Valid: pkg.DataVolume > 0},
		Duration:      pkg.Duration,
		DurationUnit:  pkg.DurationUnit,
		Locations:     sql.NullString{String: pkg.Locations, Valid: pkg.Locations != ""},
		ExpiresAt:     expiresAt,
	})
	if err != nil {
		// Money has moved; record the gap loudly and hand the caller a
		// typed error carrying the journal reference.
		s.logger.Error(fmt.Sprintf("debit %s completed but purchase write failed for owner %v: %v", record.Reference, ownerID, err))
		return nil, &PurchaseIncompleteError{Reference: record.Reference, Cause: err}
	}

	s.logger.Info(fmt.Sprintf("esim purchase %v for owner %v (%s, expires %v)", purchase.ID, ownerID, pkg.PackageCode, expiresAt.Format(time.RFC3339)))

	model, err := ToPurchaseModel(purchase)
	if err != nil {
		return nil, err
	}
	model.Reference = record.Reference
	return model, nil
}

// computeExpiry resolves the validity window from the package duration.
// Units outside the known set fall back to days rather than rejecting the
// purchase.
func (s *EsimService) computeExpiry(from time.Time, duration int32, unit string) time.Time {
	n := int(duration)
	switch strings.ToUpper(unit) {
	case "DAY":
		return from.AddDate(0, 0, n)
	case "MONTH":
		return from.AddDate(0, n, 0)
	case "YEAR":
		return from.AddDate(n, 0, 0)
	case "HOUR":
		return from.Add(time.Duration(n) * time.Hour)
	default:
		s.logger.Warn(fmt.Sprintf("unknown duration unit %q, defaulting to days", unit))
		return from.AddDate(0, 0, n)
	}
}

// GetPackageByCode reads the catalog row through the redis cache.
func (s *EsimService) GetPackageByCode(ctx context.Context, packageCode string) (*PackageModel, error) {
	cacheKey := packageCachePrefix + packageCode

	if s.cache != nil {
		var cached PackageModel
		if err := s.cache.GetJSON(ctx, cacheKey, &cached); err == nil {
			return &cached, nil
		} else if !redis.IsNil(err) {
			s.logger.Error(fmt.Sprintf("package cache read failed: %v", err))
		}
	}

	row, err := s.store.GetEsimPackageByCode(ctx, packageCode)
	if err == sql.ErrNoRows {
		return nil, ErrPackageNotFound
	} else if err != nil {
		return nil, err
	}

	model, err := ToPackageModel(row)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, cacheKey, model, packageCacheTTL); err != nil {
			s.logger.Error(fmt.Sprintf("package cache write failed: %v", err))
		}
	}
	return model, nil
}

func (s *EsimService) ListPackages(ctx context.Context) ([]*PackageModel, error) {
	rows, err := s.store.ListEsimPackages(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]*PackageModel, 0, len(rows))
	for _, row := range rows {
		m, err := ToPackageModel(row)
		if err != nil {
			return nil, err
		}
		items = append(items, m)
	}
	return items, nil
}

// GetPurchaseByTransactionID resolves the entitlement a journal entry
// paid for, if one was written.
func (s *EsimService) GetPurchaseByTransactionID(ctx context.Context, transactionID uuid.UUID) (*PurchaseModel, error) {
	row, err := s.store.GetEsimPurchaseByTransactionID(ctx, transactionID)
	if err == sql.ErrNoRows {
		return nil, ErrPurchaseNotFound
	} else if err != nil {
		return nil, err
	}
	return ToPurchaseModel(row)
}

func (s *EsimService) ListPurchases(ctx context.Context, ownerID int64) ([]*PurchaseModel, error) {
	rows, err := s.store.ListEsimPurchasesByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	items := make([]*PurchaseModel, 0, len(rows))
	for _, row := range rows {
		m, err := ToPurchaseModel(row)
		if err != nil {
			return nil, err
		}
		items = append(items, m)
	}
	return items, nil
}

// OrderProfiles proxies the provider's profile listing for an order, the
// support view of what was actually provisioned.
func (s *EsimService) OrderProfiles(orderNo string) ([]esimprovider.EsimProfile, error) {
	response, err := s.catalog.QueryPurchases(&esimprovider.PurchaseFilter{OrderNo: orderNo})
	if err != nil {
		return nil, fmt.Errorf("query provider profiles for order %s: %w", orderNo, err)
	}
	return response.EsimList, nil
}

// CancelOrder asks the provider to cancel a not-yet-activated order.
func (s *EsimService) CancelOrder(orderNo string) error {
	if err := s.catalog.PerformAction(esimprovider.ActionCancel, orderNo); err != nil {
		return err
	}
	s.logger.Info(fmt.Sprintf("provider order %s cancelled", orderNo))
	return nil
}

// RecordActivation stores the iccid reported by the provider and flips
// the entitlement to activated.
func (s *EsimService) RecordActivation(ctx context.Context, purchaseID uuid.UUID, iccid string) (*PurchaseModel, error) {
	row, err := s.store.UpdateEsimPurchaseActivation(ctx, db.UpdateEsimPurchaseActivationParams{
		ID:          purchaseID,
		Iccid:       sql.NullString{String: iccid, Valid: iccid != ""},
		IsActivated: true,
		ActivatedAt: sql.NullTime{Time: time.Now(), Valid: true},
	})
	if err == sql.ErrNoRows {
		return nil, ErrPurchaseNotFound
	} else if err != nil {
		return nil, err
	}
	return ToPurchaseModel(row)
}

// SyncPackages pulls the provider catalog and upserts it into the local
// table. Provider prices arrive in minor units.
func (s *EsimService) SyncPackages(ctx context.Context) (int, error) {
	items, err := s.catalog.GetAllPackages()
	if err != nil {
		return 0, fmt.Errorf("fetch provider catalog: %w", err)
	}

	count := 0
	for _, item := range items {
		price := decimal.NewFromInt(item.RetailPrice).Div(decimal.NewFromInt(10000))
		if item.RetailPrice == 0 {
			price = decimal.NewFromInt(item.Price).Div(decimal.NewFromInt(10000))
		}
		_, err := s.store.UpsertEsimPackage(ctx, db.UpsertEsimPackageParams{
			PackageCode:  item.PackageCode,
			Slug:         sql.NullString{String: item.Slug, Valid: item.Slug != ""},
			Name:         sql.NullString{String: item.Name, Valid: item.Name != ""},
			Price:        price.StringFixed(2),
			Currency:     item.CurrencyCode,
			DataVolume:   sql.NullInt64{Int64: item.Volume, Valid: item.Volume > 0},
			Duration:     item.Duration,
			DurationUnit: item.DurationUnit,
			Locations:    sql.NullString{String: item.Location, Valid: item.Location != ""},
		})
		if err != nil {
			s.logger.Error(fmt.Sprintf("upsert package %s failed: %v", item.PackageCode, err))
			continue
		}
		if s.cache != nil {
			_ = s.cache.Delete(ctx, packageCachePrefix+item.PackageCode)
		}
		count++
	}

	s.logger.Info(fmt.Sprintf("package sync complete: %d of %d upserted", count, len(items)))
	return count, nil
}
