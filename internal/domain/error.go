package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound           = errors.New("entity not found")
	ErrAlreadyExists      = errors.New("entity already exists")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrOperationFailed    = errors.New("operation failed")
	ErrReadDatabaseRow    = errors.New("failed to read database row")
	ErrInvalidExecContext = errors.New("invalid database execution context")

	ErrIncompleteData      = errors.New("billing data incomplete")
	ErrDuplicateInvoice    = errors.New("invoice already exists for billing month")
	ErrRetriesExhausted    = errors.New("maximum retry attempts reached")
	ErrGatewayUnavailable  = errors.New("payment gateway unavailable")
	ErrRouterUnavailable   = errors.New("router service unavailable")
	ErrSubscriptionStopped = errors.New("subscription is stopped")
)
