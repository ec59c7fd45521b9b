package adaptor

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"commerce-payments/internal/dto/request"
	"commerce-payments/internal/usecase"
	"commerce-payments/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type PaymentHandler struct {
	service usecase.PaymentService
	log     *zap.Logger
}

func NewPaymentHandler(service usecase.PaymentService, log *zap.Logger) *PaymentHandler {
	return &PaymentHandler{
		service: service,
		log:     log.With(zap.String("handler", "payment")),
	}
}

// InitiatePayment handles POST /api/payment (protected)
func (h *PaymentHandler) InitiatePayment(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.InitiatePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	payment, err := h.service.InitiatePayment(r.Context(), userID.String(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "initiate payment")
		return
	}

	utils.ResponseCreated(w, "payment initiated", payment)
}

// CancelPayment handles POST /api/payment/cancel/{id} (protected)
func (h *PaymentHandler) CancelPayment(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	paymentID := chi.URLParam(r, "id")
	if paymentID == "" {
		utils.ResponseBadRequest(w, "Payment ID is required", nil)
		return
	}

	// Body is optional; an empty body means no reason given.
	var req request.CancelPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.service.CancelPayment(r.Context(), userID.String(), paymentID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "cancel payment")
		return
	}

	utils.ResponseSuccess(w, "payment cancelled", result)
}

// CheckCancelEligibility handles GET /api/payment/cancel/{id} (protected)
func (h *PaymentHandler) CheckCancelEligibility(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	paymentID := chi.URLParam(r, "id")
	if paymentID == "" {
		utils.ResponseBadRequest(w, "Payment ID is required", nil)
		return
	}

	eligibility, err := h.service.CheckCancelEligibility(r.Context(), userID.String(), paymentID)
	if err != nil {
		handleServiceError(w, h.log, err, "check cancel eligibility")
		return
	}

	utils.ResponseSuccess(w, "success", eligibility)
}
