package entity

import (
	"time"

	"github.com/google/uuid"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusPaid      PaymentStatus = "paid"
	PaymentStatusCancelled PaymentStatus = "cancelled"
	PaymentStatusExpired   PaymentStatus = "expired"
)

type Payment struct {
	Base
	TransactionID uuid.UUID     `db:"transaction_id"`
	Amount        float64       `db:"amount"`
	Method        string        `db:"method"`
	Status        PaymentStatus `db:"status"`
	ExpiresAt     *time.Time    `db:"expires_at"`
}
