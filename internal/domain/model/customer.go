package model

import (
	"strings"
	"time"

	"ftth-billing/internal/domain"
)

// Customer is a subscriber identity; onboarding creates it and billing
// jobs only ever read it.
type Customer struct {
	ID        string // UUID
	Name      string
	Phone     string
	Email     string
	Address   string
	BrandID   string // -> BrandProfile
	CreatedAt time.Time
}

func NewCustomer(id, name, phone, address, brandID string) (*Customer, error) {
	if id == "" || name == "" || brandID == "" {
		return nil, domain.ErrInvalidArgument
	}
	return &Customer{
		ID:        id,
		Name:      name,
		Phone:     phone,
		Address:   address,
		BrandID:   brandID,
		CreatedAt: time.Now(),
	}, nil
}

// GatewayPhone renders the customer's phone in international form for the
// payment gateway ("0812..." -> "+62812..."). Empty stays empty.
func (c *Customer) GatewayPhone() string {
	if c.Phone == "" {
		return ""
	}
	return "+62" + strings.TrimLeft(c.Phone, "0")
}
