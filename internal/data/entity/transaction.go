package entity

import (
	"time"

	"github.com/google/uuid"
)

type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusPaid      TransactionStatus = "paid"
	TransactionStatusCancelled TransactionStatus = "cancelled"
	TransactionStatusExpired   TransactionStatus = "expired"
	TransactionStatusFailed    TransactionStatus = "failed"
)

// IsTerminal reports whether no further payment may change the transaction.
func (s TransactionStatus) IsTerminal() bool {
	switch s {
	case TransactionStatusPaid, TransactionStatusCancelled, TransactionStatusExpired, TransactionStatusFailed:
		return true
	}
	return false
}

type DeliveryStatus string

const (
	DeliveryStatusPending    DeliveryStatus = "pending"
	DeliveryStatusInProgress DeliveryStatus = "in_progress"
	DeliveryStatusDelivered  DeliveryStatus = "delivered"
)

// NormalizeDeliveryStatus maps legacy values stored by older writers onto the
// canonical set. Only read paths go through this; writes accept canonical
// values exclusively.
func NormalizeDeliveryStatus(s DeliveryStatus) DeliveryStatus {
	switch s {
	case "created":
		return DeliveryStatusPending
	case "success":
		return DeliveryStatusDelivered
	}
	return s
}

type Transaction struct {
	Base
	OrderID        string            `db:"order_id"`
	UserID         uuid.UUID         `db:"user_id"`
	Type           string            `db:"type"`
	Currency       string            `db:"currency"`
	Amount         float64           `db:"amount"`
	Status         TransactionStatus `db:"status"`
	DeliveryStatus DeliveryStatus    `db:"delivery_status"`
	ExpiresAt      *time.Time        `db:"expires_at"`

	// Fulfillment payload, populated when delivery completes.
	WebsiteURL      *string    `db:"website_url"`
	DriveURL        *string    `db:"drive_url"`
	TextDescription *string    `db:"text_description"`
	DomainName      *string    `db:"domain_name"`
	DomainExpiredAt *time.Time `db:"domain_expired_at"`
	Notes           *string    `db:"notes"`
}

// Fulfillment carries the delivery payload attached when a transaction is
// marked delivered.
type Fulfillment struct {
	WebsiteURL      *string
	DriveURL        *string
	TextDescription *string
	DomainName      *string
	DomainExpiredAt *time.Time
	Notes           *string
}
