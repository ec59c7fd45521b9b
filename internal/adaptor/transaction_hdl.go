package adaptor

import (
	"encoding/json"
	"net/http"

	"commerce-payments/internal/dto/request"
	"commerce-payments/internal/usecase"
	"commerce-payments/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type TransactionHandler struct {
	service usecase.TransactionService
	log     *zap.Logger
}

func NewTransactionHandler(service usecase.TransactionService, log *zap.Logger) *TransactionHandler {
	return &TransactionHandler{
		service: service,
		log:     log.With(zap.String("handler", "transaction")),
	}
}

// Checkout handles POST /api/checkout (protected)
func (h *TransactionHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	trx, err := h.service.Checkout(r.Context(), userID.String(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "checkout")
		return
	}

	utils.ResponseCreated(w, "transaction created", trx)
}

// GetTransaction handles GET /api/transaction/{id} (protected)
func (h *TransactionHandler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	transactionID := chi.URLParam(r, "id")
	if transactionID == "" {
		utils.ResponseBadRequest(w, "Transaction ID is required", nil)
		return
	}

	trx, err := h.service.GetTransaction(r.Context(), userID.String(), utils.IsAdmin(r.Context()), transactionID)
	if err != nil {
		handleServiceError(w, h.log, err, "get transaction")
		return
	}

	utils.ResponseSuccess(w, "success", trx)
}

// GetUserTransactions handles GET /api/user/transactions (protected)
func (h *TransactionHandler) GetUserTransactions(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	query := r.URL.Query()
	req := &request.PaginatedRequest{
		Page:    utils.ParseInt(query.Get("page"), 1),
		PerPage: utils.ParseInt(query.Get("per_page"), 10),
	}

	transactions, err := h.service.GetUserTransactions(r.Context(), userID.String(), req)
	if err != nil {
		handleServiceError(w, h.log, err, "get user transactions")
		return
	}

	utils.ResponseSuccess(w, "success", transactions)
}

// ==================== ADMIN METHODS ====================

// ListTransactions handles GET /api/admin/transactions (admin only)
func (h *TransactionHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := &request.PaginatedRequest{
		Page:    utils.ParseInt(query.Get("page"), 1),
		PerPage: utils.ParseInt(query.Get("per_page"), 10),
	}

	transactions, err := h.service.ListTransactions(r.Context(), req)
	if err != nil {
		handleServiceError(w, h.log, err, "list transactions")
		return
	}

	utils.ResponseSuccess(w, "success", transactions)
}

// UpdateDeliveryStatus handles PUT /api/admin/transactions/{id}/delivery-status (admin only)
func (h *TransactionHandler) UpdateDeliveryStatus(w http.ResponseWriter, r *http.Request) {
	transactionID := chi.URLParam(r, "id")
	if transactionID == "" {
		utils.ResponseBadRequest(w, "Transaction ID is required", nil)
		return
	}

	var req request.UpdateDeliveryStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	trx, err := h.service.UpdateDeliveryStatus(r.Context(), transactionID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update delivery status")
		return
	}

	utils.ResponseSuccess(w, "delivery status updated", trx)
}
