package model

import (
	"time"

	"ftth-billing/internal/domain"

	"github.com/shopspring/decimal"
)

// BrandProfile carries the brand name printed on invoices and the tax
// percentage applied to that brand's subscribers.
type BrandProfile struct {
	ID         string
	Brand      string
	TaxPercent float64
	CreatedAt  time.Time
}

func NewBrandProfile(id, brand string, taxPercent float64) (*BrandProfile, error) {
	if id == "" || brand == "" || taxPercent < 0 {
		return nil, domain.ErrInvalidArgument
	}
	return &BrandProfile{ID: id, Brand: brand, TaxPercent: taxPercent, CreatedAt: time.Now()}, nil
}

// TaxOn returns the tax amount for a base price, rounded half up to the
// nearest rupiah.
func (b *BrandProfile) TaxOn(base int64) int64 {
	tax := decimal.NewFromInt(base).
		Mul(decimal.NewFromFloat(b.TaxPercent)).
		Div(decimal.NewFromInt(100))
	return tax.Round(0).IntPart()
}

// ServicePackage is a purchasable FTTH plan: bandwidth plus a monthly
// price in whole rupiah.
type ServicePackage struct {
	ID        string
	Name      string
	SpeedMbps int
	Price     int64
	CreatedAt time.Time
}

func (p *ServicePackage) IsZero() bool { return p == nil || p.ID == "" }

func NewServicePackage(id, name string, speedMbps int, price int64) (*ServicePackage, error) {
	if id == "" || name == "" || speedMbps <= 0 || price <= 0 {
		return nil, domain.ErrInvalidArgument
	}
	return &ServicePackage{
		ID:        id,
		Name:      name,
		SpeedMbps: speedMbps,
		Price:     price,
		CreatedAt: time.Now(),
	}, nil
}
