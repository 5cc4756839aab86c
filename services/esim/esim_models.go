package esim

import (
	"time"

	db "github.com/RoamSim/RoamSim-Backend/db/sqlc"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PackageModel struct {
	PackageCode  string          `json:"package_code"`
	Slug         string          `json:"slug,omitempty"`
	Name         string          `json:"name,omitempty"`
	Price        decimal.Decimal `json:"price"`
	Currency     string          `json:"currency"`
	DataVolume   int64           `json:"data_volume,omitempty"`
	Duration     int32           `json:"duration"`
	DurationUnit string          `json:"duration_unit"`
	Locations    string          `json:"locations,omitempty"`
}

func ToPackageModel(p db.EsimPackage) (*PackageModel, error) {
	price, err := decimal.NewFromString(p.Price)
	if err != nil {
		return nil, err
	}
	return &PackageModel{
		PackageCode:  p.PackageCode,
		Slug:         p.Slug.String,
		Name:         p.Name.String,
		Price:        price,
		Currency:     p.Currency,
		DataVolume:   p.DataVolume.Int64,
		Duration:     p.Duration,
		DurationUnit: p.DurationUnit,
		Locations:    p.Locations.String,
	}, nil
}

type PurchaseModel struct {
	ID            uuid.UUID       `json:"id"`
	TransactionID uuid.UUID       `json:"transaction_id"`
	Reference     string          `json:"reference,omitempty"`
	OwnerID       int64           `json:"owner_id"`
	PackageCode   string          `json:"package_code"`
	PackageName   string          `json:"package_name,omitempty"`
	Price         decimal.Decimal `json:"price"`
	Currency      string          `json:"currency"`
	DataVolume    int64           `json:"data_volume,omitempty"`
	Duration      int32           `json:"duration"`
	DurationUnit  string          `json:"duration_unit"`
	IsActivated   bool            `json:"is_activated"`
	IsActive      bool            `json:"is_active"`
	Iccid         string          `json:"iccid,omitempty"`
	ExpiresAt     time.Time       `json:"expires_at"`
	CreatedAt     time.Time       `json:"created_at"`
}

func ToPurchaseModel(p db.EsimPurchase) (*PurchaseModel, error) {
	price, err := decimal.NewFromString(p.Price)
	if err != nil {
		return nil, err
	}
	return &PurchaseModel{
		ID:            p.ID,
		TransactionID: p.TransactionID,
		OwnerID:       p.OwnerID,
		PackageCode:   p.PackageCode,
		PackageName:   p.PackageName.String,
		Price:         price,
		Currency:      p.Currency,
		DataVolume:    p.DataVolume.Int64,
		Duration:      p.Duration,
		DurationUnit:  p.DurationUnit,
		IsActivated:   p.IsActivated,
		IsActive:      p.IsActive,
		Iccid:         p.Iccid.String,
		ExpiresAt:     p.ExpiresAt,
		CreatedAt:     p.CreatedAt,
	}, nil
}
