package request

type InitiatePaymentRequest struct {
	TransactionID string  `json:"transactionId" validate:"required,uuid4"`
	Amount        float64 `json:"amount" validate:"required,gt=0"`
	Method        string  `json:"method" validate:"required,oneof=bank_transfer ewallet qris card"`
}

type CancelPaymentRequest struct {
	Reason *string `json:"reason,omitempty" validate:"omitempty,max=255"`
}

type ConfirmPaymentRequest struct {
	PaymentID string  `json:"paymentId" validate:"required,uuid4"`
	Reference *string `json:"reference,omitempty" validate:"omitempty,max=255"`
}
