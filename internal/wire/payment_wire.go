package wire

import (
	"commerce-payments/internal/adaptor"
	"commerce-payments/pkg/middleware"
	"commerce-payments/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wirePayment(
	r chi.Router,
	paymentHandler *adaptor.PaymentHandler,
	config *utils.Config,
	log *zap.Logger,
) {
	// All payment routes require auth; ownership is re-derived from the
	// token on every call.
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthJWT(config.JWT.Secret, log))

		// POST /api/payment - Initiate a payment against a transaction
		r.Post("/api/payment", paymentHandler.InitiatePayment)

		// POST /api/payment/cancel/{id} - Cancel a pending payment
		r.Post("/api/payment/cancel/{id}", paymentHandler.CancelPayment)

		// GET /api/payment/cancel/{id} - Check cancellation eligibility
		r.Get("/api/payment/cancel/{id}", paymentHandler.CheckCancelEligibility)
	})
}
