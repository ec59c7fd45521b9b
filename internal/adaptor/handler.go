package adaptor

import (
	"errors"
	"strings"

	"net/http"

	"commerce-payments/internal/usecase"
	"commerce-payments/pkg/utils"

	"go.uber.org/zap"
)

type Handler struct {
	Payment     *PaymentHandler
	Transaction *TransactionHandler
	Webhook     *WebhookHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Payment:     NewPaymentHandler(service.Payment, log),
		Transaction: NewTransactionHandler(service.Transaction, log),
		Webhook:     NewWebhookHandler(service.Payment, log),
	}
}

// handleServiceError maps usecase errors onto the HTTP error taxonomy. State
// and cooldown failures carry their details into the envelope; anything
// unrecognized becomes a generic 500.
func handleServiceError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	var stateErr *usecase.StateError
	var cooldownErr *usecase.CooldownError
	var conflictErr *usecase.ConflictError

	switch {
	case errors.Is(err, usecase.ErrNotFound):
		log.Warn(operation+" failed - not found",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseNotFound(w, err.Error())

	case errors.As(err, &stateErr):
		log.Warn(operation+" failed - invalid state",
			zap.Error(err),
			zap.String("operation", operation),
			zap.String("current_status", stateErr.Status))
		utils.ResponseStateConflict(w, stateErr.Message, stateErr.Status)

	case errors.As(err, &cooldownErr):
		log.Warn(operation+" failed - cooldown not elapsed",
			zap.Error(err),
			zap.String("operation", operation),
			zap.Int("remaining", cooldownErr.Remaining))
		utils.ResponseCooldown(w, err.Error(), cooldownErr.Remaining)

	case errors.As(err, &conflictErr):
		log.Warn(operation+" failed - conflict",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseBadRequest(w, conflictErr.Message, nil)

	case strings.Contains(err.Error(), "validation failed"),
		strings.Contains(err.Error(), "invalid"):
		log.Warn(operation+" failed - bad input",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseBadRequest(w, err.Error(), nil)

	default:
		log.Error("Failed to "+operation,
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
