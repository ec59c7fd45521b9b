package middleware

import (
	"crypto/subtle"
	"net/http"

	"commerce-payments/pkg/utils"

	"go.uber.org/zap"
)

const webhookSecretHeader = "X-Webhook-Secret"

// WebhookAuth guards gateway callback routes with a shared secret. The
// comparison is constant-time.
func WebhookAuth(secret string, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if secret == "" {
				logger.Error("Webhook secret not configured, rejecting callback",
					zap.String("path", r.URL.Path))
				utils.ResponseUnauthorized(w, "Webhook authentication not configured")
				return
			}

			provided := r.Header.Get(webhookSecretHeader)
			if subtle.ConstantTimeCompare([]byte(provided), []byte(secret)) != 1 {
				logger.Warn("Webhook callback with invalid secret",
					zap.String("ip", r.RemoteAddr))
				utils.ResponseUnauthorized(w, "Invalid webhook secret")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
