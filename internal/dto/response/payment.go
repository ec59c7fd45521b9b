package response

import (
	"time"

	"commerce-payments/internal/data/entity"
)

type PaymentResponse struct {
	ID            string               `json:"id"`
	TransactionID string               `json:"transactionId"`
	Amount        float64              `json:"amount"`
	Method        string               `json:"method"`
	Status        entity.PaymentStatus `json:"status"`
	ExpiresAt     *time.Time           `json:"expiresAt,omitempty"`
	CreatedAt     time.Time            `json:"createdAt"`
	UpdatedAt     time.Time            `json:"updatedAt"`
}

// TransactionSnapshot is the denormalized slice of the parent transaction
// returned alongside payment mutations.
type TransactionSnapshot struct {
	ID             string                   `json:"id"`
	OrderID        string                   `json:"orderId"`
	Status         entity.TransactionStatus `json:"status"`
	DeliveryStatus entity.DeliveryStatus    `json:"deliveryStatus"`
	Amount         float64                  `json:"amount"`
	Currency       string                   `json:"currency"`
}

type CancellationInfo struct {
	Reason      *string   `json:"reason,omitempty"`
	CancelledAt time.Time `json:"cancelledAt"`
	Note        string    `json:"note"`
}

type CancelPaymentResponse struct {
	Payment      PaymentResponse     `json:"payment"`
	Transaction  TransactionSnapshot `json:"transaction"`
	Cancellation CancellationInfo    `json:"cancellation"`
}

type CancelReasons struct {
	StatusPending   bool `json:"statusPending"`
	CooldownElapsed bool `json:"cooldownElapsed"`
}

type CancelEligibilityResponse struct {
	PaymentID         string               `json:"paymentId"`
	CurrentStatus     entity.PaymentStatus `json:"currentStatus"`
	CanCancel         bool                 `json:"canCancel"`
	Reasons           CancelReasons        `json:"reasons"`
	WaitTimeRemaining int                  `json:"waitTimeRemaining"`
	PaymentDetails    PaymentResponse      `json:"paymentDetails"`
}

func PaymentToResponse(payment *entity.Payment) PaymentResponse {
	return PaymentResponse{
		ID:            payment.ID.String(),
		TransactionID: payment.TransactionID.String(),
		Amount:        payment.Amount,
		Method:        payment.Method,
		Status:        payment.Status,
		ExpiresAt:     payment.ExpiresAt,
		CreatedAt:     payment.CreatedAt,
		UpdatedAt:     payment.UpdatedAt,
	}
}

func TransactionToSnapshot(trx *entity.Transaction) TransactionSnapshot {
	return TransactionSnapshot{
		ID:             trx.ID.String(),
		OrderID:        trx.OrderID,
		Status:         trx.Status,
		DeliveryStatus: entity.NormalizeDeliveryStatus(trx.DeliveryStatus),
		Amount:         trx.Amount,
		Currency:       trx.Currency,
	}
}
