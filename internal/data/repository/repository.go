package repository

import (
	"commerce-payments/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	Transaction TransactionRepository
	Payment     PaymentRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		Transaction: NewTransactionRepository(db, log),
		Payment:     NewPaymentRepository(db, log),
	}
}
