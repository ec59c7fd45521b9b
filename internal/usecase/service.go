package usecase

import (
	"commerce-payments/internal/data/repository"
	"commerce-payments/internal/events"
	"commerce-payments/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Payment     PaymentService
	Transaction TransactionService
}

func NewService(repo *repository.Repository, publisher events.Publisher, config *utils.Config, log *zap.Logger) *Service {
	return &Service{
		Payment:     NewPaymentService(repo, publisher, config, log),
		Transaction: NewTransactionService(repo, publisher, log),
	}
}
