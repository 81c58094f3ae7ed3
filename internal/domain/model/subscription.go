package model

import (
	"time"

	"ftth-billing/internal/domain"
)

type SubscriptionStatus string

const (
	SubscriptionStatusActive    SubscriptionStatus = "active"
	SubscriptionStatusSuspended SubscriptionStatus = "suspended"
	SubscriptionStatusStopped   SubscriptionStatus = "stopped"
)

type PaymentMethod string

const (
	// PaymentMethodAutomatic bills one full period each month.
	PaymentMethodAutomatic PaymentMethod = "automatic"
	// PaymentMethodProrate bills a partial period, possibly combined with
	// the next full period in one invoice.
	PaymentMethodProrate PaymentMethod = "prorate"
)

// Subscription is a customer's service contract for one package.
type Subscription struct {
	ID            string // UUID
	CustomerID    string
	PackageID     string
	Status        SubscriptionStatus
	DueDate       time.Time // date-only, local
	PaymentMethod PaymentMethod
	// Amount is the stored billing total for the current cycle. It is
	// tax-inclusive; a prorate combination invoice carries more than one
	// normal month here.
	Amount    int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewSubscription(id, customerID, packageID string, dueDate time.Time, method PaymentMethod) (*Subscription, error) {
	if id == "" || customerID == "" || packageID == "" || dueDate.IsZero() {
		return nil, domain.ErrInvalidArgument
	}
	switch method {
	case PaymentMethodAutomatic, PaymentMethodProrate:
	default:
		return nil, domain.ErrInvalidArgument
	}
	now := time.Now()
	return &Subscription{
		ID:            id,
		CustomerID:    customerID,
		PackageID:     packageID,
		Status:        SubscriptionStatusActive,
		DueDate:       dueDate,
		PaymentMethod: method,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

func (s *Subscription) IsActive() bool { return s.Status == SubscriptionStatusActive }
