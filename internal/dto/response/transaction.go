package response

import (
	"time"

	"commerce-payments/internal/data/entity"
)

type TransactionResponse struct {
	ID             string                   `json:"id"`
	OrderID        string                   `json:"orderId"`
	UserID         string                   `json:"userId"`
	Type           string                   `json:"type"`
	Currency       string                   `json:"currency"`
	Amount         float64                  `json:"amount"`
	Status         entity.TransactionStatus `json:"status"`
	DeliveryStatus entity.DeliveryStatus    `json:"deliveryStatus"`
	ExpiresAt      *time.Time               `json:"expiresAt,omitempty"`
	Payment        *PaymentResponse         `json:"payment,omitempty"`
	Fulfillment    *FulfillmentResponse     `json:"fulfillment,omitempty"`
	CreatedAt      time.Time                `json:"createdAt"`
	UpdatedAt      time.Time                `json:"updatedAt"`
}

type FulfillmentResponse struct {
	WebsiteURL      *string    `json:"websiteUrl,omitempty"`
	DriveURL        *string    `json:"driveUrl,omitempty"`
	TextDescription *string    `json:"textDescription,omitempty"`
	DomainName      *string    `json:"domainName,omitempty"`
	DomainExpiredAt *time.Time `json:"domainExpiredAt,omitempty"`
	Notes           *string    `json:"notes,omitempty"`
}

type TransactionDetailResponse struct {
	TransactionResponse
	Payments []PaymentResponse `json:"payments"`
}

func TransactionToResponse(trx *entity.Transaction, latestPayment *entity.Payment) TransactionResponse {
	resp := TransactionResponse{
		ID:             trx.ID.String(),
		OrderID:        trx.OrderID,
		UserID:         trx.UserID.String(),
		Type:           trx.Type,
		Currency:       trx.Currency,
		Amount:         trx.Amount,
		Status:         trx.Status,
		DeliveryStatus: entity.NormalizeDeliveryStatus(trx.DeliveryStatus),
		ExpiresAt:      trx.ExpiresAt,
		CreatedAt:      trx.CreatedAt,
		UpdatedAt:      trx.UpdatedAt,
	}

	if latestPayment != nil {
		payment := PaymentToResponse(latestPayment)
		resp.Payment = &payment
	}

	if entity.NormalizeDeliveryStatus(trx.DeliveryStatus) == entity.DeliveryStatusDelivered {
		resp.Fulfillment = &FulfillmentResponse{
			WebsiteURL:      trx.WebsiteURL,
			DriveURL:        trx.DriveURL,
			TextDescription: trx.TextDescription,
			DomainName:      trx.DomainName,
			DomainExpiredAt: trx.DomainExpiredAt,
			Notes:           trx.Notes,
		}
	}

	return resp
}
