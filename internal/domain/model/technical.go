package model

import "time"

// TechnicalRecord binds a customer to their PPPoE credentials and the
// router serving them. Router fields are denormalized from the routers
// table so adapters can reach the device without a second lookup.
type TechnicalRecord struct {
	ID            string // UUID
	CustomerID    string
	PPPoEID       string
	PPPoEProfile  string
	RouterID      string
	RouterName    string
	RouterHost    string
	RouterAPIPort int

	// SyncPending marks records where the database state changed but
	// the router call failed; the router-sync job drains these.
	SyncPending bool
	UpdatedAt   time.Time
}
