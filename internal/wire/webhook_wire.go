package wire

import (
	"commerce-payments/internal/adaptor"
	"commerce-payments/pkg/middleware"
	"commerce-payments/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireWebhook(
	r chi.Router,
	webhookHandler *adaptor.WebhookHandler,
	config *utils.Config,
	log *zap.Logger,
) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.WebhookAuth(config.Webhook.Secret, log))

		// POST /api/webhook/payment - Gateway payment confirmation callback
		r.Post("/api/webhook/payment", webhookHandler.ConfirmPayment)
	})
}
