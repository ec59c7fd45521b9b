package usecase

import (
	"context"
	"fmt"
	"time"

	"commerce-payments/internal/data/entity"
	"commerce-payments/internal/data/repository"
	"commerce-payments/internal/dto/request"
	"commerce-payments/internal/dto/response"
	"commerce-payments/internal/events"
	"commerce-payments/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type TransactionService interface {
	Checkout(ctx context.Context, userID string, req *request.CheckoutRequest) (*response.TransactionResponse, error)
	GetTransaction(ctx context.Context, userID string, isAdmin bool, transactionID string) (*response.TransactionDetailResponse, error)
	GetUserTransactions(ctx context.Context, userID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.TransactionResponse], error)

	// Admin endpoints
	ListTransactions(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.TransactionResponse], error)
	UpdateDeliveryStatus(ctx context.Context, transactionID string, req *request.UpdateDeliveryStatusRequest) (*response.TransactionResponse, error)
}

type transactionService struct {
	repo   *repository.Repository
	events events.Publisher
	log    *zap.Logger
	now    func() time.Time
}

func NewTransactionService(repo *repository.Repository, publisher events.Publisher, log *zap.Logger) TransactionService {
	return &transactionService{
		repo:   repo,
		events: publisher,
		log:    log.With(zap.String("service", "transaction")),
		now:    time.Now,
	}
}

func (s *transactionService) Checkout(ctx context.Context, userID string, req *request.CheckoutRequest) (*response.TransactionResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Checkout validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID format %s: %w", userID, err)
	}

	now := s.now()
	trx := &entity.Transaction{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		OrderID:        utils.GenerateOrderID(),
		UserID:         userUUID,
		Type:           req.Type,
		Currency:       req.Currency,
		Amount:         req.Amount,
		Status:         entity.TransactionStatusPending,
		DeliveryStatus: entity.DeliveryStatusPending,
	}

	if req.ExpiresInMinutes != nil {
		expiresAt := now.Add(time.Duration(*req.ExpiresInMinutes) * time.Minute)
		trx.ExpiresAt = &expiresAt
	}

	if err := s.repo.Transaction.Create(ctx, trx); err != nil {
		return nil, fmt.Errorf("create transaction: %w", err)
	}

	s.log.Info("Transaction created",
		zap.String("transaction_id", trx.ID.String()),
		zap.String("order_id", trx.OrderID),
		zap.String("user_id", userID),
		zap.Float64("amount", trx.Amount),
	)

	resp := response.TransactionToResponse(trx, nil)
	return &resp, nil
}

func (s *transactionService) GetTransaction(ctx context.Context, userID string, isAdmin bool, transactionID string) (*response.TransactionDetailResponse, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID format %s: %w", userID, err)
	}

	trxUUID, err := uuid.Parse(transactionID)
	if err != nil {
		return nil, fmt.Errorf("invalid transaction ID format %s: %w", transactionID, err)
	}

	trx, err := s.loadSweptTransaction(ctx, trxUUID)
	if err != nil {
		return nil, err
	}
	if trx == nil {
		return nil, ErrNotFound
	}

	if !isAdmin && trx.UserID != userUUID {
		return nil, ErrNotFound
	}

	payments, err := s.repo.Payment.FindByTransactionID(ctx, trx.ID)
	if err != nil {
		return nil, err
	}

	paymentResponses := make([]response.PaymentResponse, len(payments))
	var latest *entity.Payment
	for i, payment := range payments {
		paymentResponses[i] = response.PaymentToResponse(payment)
		if latest == nil {
			latest = payment
		}
	}

	return &response.TransactionDetailResponse{
		TransactionResponse: response.TransactionToResponse(trx, latest),
		Payments:            paymentResponses,
	}, nil
}

func (s *transactionService) GetUserTransactions(ctx context.Context, userID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.TransactionResponse], error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID format %s: %w", userID, err)
	}

	// List paths sweep the whole table: the id-scoped sweep has no target
	// here and stale rows must not show up as actionable.
	if err := s.sweepAll(ctx); err != nil {
		return nil, err
	}

	transactions, err := s.repo.Transaction.FindByUserID(ctx, userUUID, req.Limit(), req.Offset())
	if err != nil {
		return nil, fmt.Errorf("get user transactions: %w", err)
	}

	total, err := s.repo.Transaction.CountByUserID(ctx, userUUID)
	if err != nil {
		return nil, fmt.Errorf("count user transactions: %w", err)
	}

	return response.NewPaginatedResponse(s.toResponses(ctx, transactions), req.Page, req.PerPage, total), nil
}

func (s *transactionService) ListTransactions(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.TransactionResponse], error) {
	if err := s.sweepAll(ctx); err != nil {
		return nil, err
	}

	transactions, err := s.repo.Transaction.FindAll(ctx, req.Limit(), req.Offset())
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}

	total, err := s.repo.Transaction.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count transactions: %w", err)
	}

	return response.NewPaginatedResponse(s.toResponses(ctx, transactions), req.Page, req.PerPage, total), nil
}

func (s *transactionService) UpdateDeliveryStatus(ctx context.Context, transactionID string, req *request.UpdateDeliveryStatusRequest) (*response.TransactionResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Update delivery status validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	trxUUID, err := uuid.Parse(transactionID)
	if err != nil {
		return nil, fmt.Errorf("invalid transaction ID format %s: %w", transactionID, err)
	}

	trx, err := s.loadSweptTransaction(ctx, trxUUID)
	if err != nil {
		return nil, err
	}
	if trx == nil {
		return nil, ErrNotFound
	}

	// Delivery only moves forward once payment is confirmed.
	if trx.Status != entity.TransactionStatusPaid {
		return nil, newStateError(string(trx.Status), "delivery status can only change after payment, transaction status: %s", trx.Status)
	}

	current := entity.NormalizeDeliveryStatus(trx.DeliveryStatus)
	target := entity.DeliveryStatus(req.Status)

	switch target {
	case entity.DeliveryStatusInProgress:
		if current != entity.DeliveryStatusPending {
			return nil, newStateError(string(current), "cannot start progress, current delivery status: %s", current)
		}
	case entity.DeliveryStatusDelivered:
		if current == entity.DeliveryStatusDelivered {
			return nil, newStateError(string(current), "transaction is already delivered")
		}
	default:
		return nil, newStateError(string(current), "delivery status %s is not a valid target", target)
	}

	// The fulfillment payload is persisted only on completion; for other
	// transitions it is ignored.
	var fulfillment *entity.Fulfillment
	if target == entity.DeliveryStatusDelivered {
		fulfillment = &entity.Fulfillment{
			WebsiteURL:      req.WebsiteURL,
			DriveURL:        req.DriveURL,
			TextDescription: req.TextDescription,
			DomainName:      req.DomainName,
			DomainExpiredAt: req.DomainExpiredAt,
			Notes:           req.Notes,
		}
	}

	updated, err := s.repo.Transaction.UpdateDeliveryStatus(ctx, trx.ID, target, fulfillment)
	if err != nil {
		return nil, fmt.Errorf("update delivery status: %w", err)
	}
	if !updated {
		// Row disappeared between read and write.
		return nil, ErrNotFound
	}

	now := s.now()
	trx.DeliveryStatus = target
	trx.UpdatedAt = now
	if fulfillment != nil {
		trx.WebsiteURL = fulfillment.WebsiteURL
		trx.DriveURL = fulfillment.DriveURL
		trx.TextDescription = fulfillment.TextDescription
		trx.DomainName = fulfillment.DomainName
		trx.DomainExpiredAt = fulfillment.DomainExpiredAt
		trx.Notes = fulfillment.Notes
	}

	if err := s.events.Publish(ctx, events.Event{
		Type:          events.TypeDeliveryUpdated,
		TransactionID: trx.ID.String(),
		UserID:        trx.UserID.String(),
		Status:        string(target),
		Timestamp:     now,
	}); err != nil {
		s.log.Warn("Failed to publish delivery event", zap.Error(err))
	}

	s.log.Info("Delivery status updated",
		zap.String("transaction_id", trx.ID.String()),
		zap.String("delivery_status", string(target)),
	)

	latest, _ := s.repo.Payment.FindLatestByTransactionID(ctx, trx.ID)
	resp := response.TransactionToResponse(trx, latest)
	return &resp, nil
}

// ==================== HELPER METHODS ====================

func (s *transactionService) loadSweptTransaction(ctx context.Context, id uuid.UUID) (*entity.Transaction, error) {
	if err := s.repo.Transaction.ExpireOverdue(ctx, id); err != nil {
		return nil, fmt.Errorf("sweep transaction: %w", err)
	}
	if err := s.repo.Payment.ExpireOverdueByTransaction(ctx, id); err != nil {
		return nil, fmt.Errorf("sweep payments: %w", err)
	}
	return s.repo.Transaction.FindByID(ctx, id)
}

func (s *transactionService) sweepAll(ctx context.Context) error {
	if _, err := s.repo.Payment.ExpireAllOverdue(ctx); err != nil {
		return fmt.Errorf("sweep payments: %w", err)
	}
	if _, err := s.repo.Transaction.ExpireAllOverdue(ctx); err != nil {
		return fmt.Errorf("sweep transactions: %w", err)
	}
	return nil
}

func (s *transactionService) toResponses(ctx context.Context, transactions []*entity.Transaction) []response.TransactionResponse {
	responses := make([]response.TransactionResponse, len(transactions))
	for i, trx := range transactions {
		latest, _ := s.repo.Payment.FindLatestByTransactionID(ctx, trx.ID)
		responses[i] = response.TransactionToResponse(trx, latest)
	}
	return responses
}
