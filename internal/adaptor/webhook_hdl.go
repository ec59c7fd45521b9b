package adaptor

import (
	"encoding/json"
	"net/http"

	"commerce-payments/internal/dto/request"
	"commerce-payments/internal/usecase"
	"commerce-payments/pkg/utils"

	"go.uber.org/zap"
)

// WebhookHandler receives payment gateway callbacks. Authentication happens in
// middleware (shared secret), not per-user tokens.
type WebhookHandler struct {
	service usecase.PaymentService
	log     *zap.Logger
}

func NewWebhookHandler(service usecase.PaymentService, log *zap.Logger) *WebhookHandler {
	return &WebhookHandler{
		service: service,
		log:     log.With(zap.String("handler", "webhook")),
	}
}

// ConfirmPayment handles POST /api/webhook/payment
func (h *WebhookHandler) ConfirmPayment(w http.ResponseWriter, r *http.Request) {
	var req request.ConfirmPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	payment, err := h.service.ConfirmPayment(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "confirm payment")
		return
	}

	utils.ResponseSuccess(w, "payment confirmed", payment)
}
