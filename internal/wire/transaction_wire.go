package wire

import (
	"commerce-payments/internal/adaptor"
	"commerce-payments/pkg/middleware"
	"commerce-payments/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireTransaction(
	r chi.Router,
	transactionHandler *adaptor.TransactionHandler,
	config *utils.Config,
	log *zap.Logger,
) {
	// ==================== PROTECTED ROUTES (require auth) ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthJWT(config.JWT.Secret, log))

		// POST /api/checkout - Create a new transaction
		r.Post("/api/checkout", transactionHandler.Checkout)

		// GET /api/transaction/{id} - Transaction detail (owner or admin)
		r.Get("/api/transaction/{id}", transactionHandler.GetTransaction)

		// GET /api/user/transactions - Transaction history (own rows only)
		r.Get("/api/user/transactions", transactionHandler.GetUserTransactions)
	})

	// ==================== ADMIN ROUTES ====================
	r.Route("/api/admin/transactions", func(r chi.Router) {
		// Require both authentication AND admin role
		r.Use(middleware.AuthJWT(config.JWT.Secret, log))
		r.Use(middleware.Admin(log))

		// GET /api/admin/transactions - List all transactions
		r.Get("/", transactionHandler.ListTransactions)

		// PUT /api/admin/transactions/{id}/delivery-status - Advance fulfillment
		r.Put("/{id}/delivery-status", transactionHandler.UpdateDeliveryStatus)
	})
}
