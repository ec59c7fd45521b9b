package usecase

import (
	"context"
	"fmt"
	"math"
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

type PaymentService interface {
	InitiatePayment(ctx context.Context, userID string, req *request.InitiatePaymentRequest) (*response.PaymentResponse, error)
	CancelPayment(ctx context.Context, userID, paymentID string, req *request.CancelPaymentRequest) (*response.CancelPaymentResponse, error)
	CheckCancelEligibility(ctx context.Context, userID, paymentID string) (*response.CancelEligibilityResponse, error)

	// Gateway callback
	ConfirmPayment(ctx context.Context, req *request.ConfirmPaymentRequest) (*response.PaymentResponse, error)
}

type paymentService struct {
	repo     *repository.Repository
	events   events.Publisher
	window   time.Duration
	cooldown time.Duration
	log      *zap.Logger
	now      func() time.Time
}

func NewPaymentService(repo *repository.Repository, publisher events.Publisher, config *utils.Config, log *zap.Logger) PaymentService {
	return &paymentService{
		repo:     repo,
		events:   publisher,
		window:   config.Payment.Window,
		cooldown: config.Payment.CancelCooldown,
		log:      log.With(zap.String("service", "payment")),
		now:      time.Now,
	}
}

// loadOwnedPayment sweeps, fetches and authorizes a payment. Ownership is
// transitive through the parent transaction; a foreign or missing payment both
// yield ErrNotFound. The sweep runs before any guard so no decision is made on
// a stale pending status.
func (s *paymentService) loadOwnedPayment(ctx context.Context, userID, paymentID uuid.UUID) (*entity.Payment, *entity.Transaction, error) {
	if err := s.repo.Payment.ExpireOverdue(ctx, paymentID); err != nil {
		return nil, nil, fmt.Errorf("sweep payment: %w", err)
	}

	payment, err := s.repo.Payment.FindByID(ctx, paymentID)
	if err != nil {
		return nil, nil, err
	}
	if payment == nil {
		return nil, nil, ErrNotFound
	}

	if err := s.repo.Transaction.ExpireOverdue(ctx, payment.TransactionID); err != nil {
		return nil, nil, fmt.Errorf("sweep transaction: %w", err)
	}

	trx, err := s.repo.Transaction.FindByID(ctx, payment.TransactionID)
	if err != nil {
		return nil, nil, err
	}
	if trx == nil || trx.UserID != userID {
		return nil, nil, ErrNotFound
	}

	return payment, trx, nil
}

func (s *paymentService) InitiatePayment(ctx context.Context, userID string, req *request.InitiatePaymentRequest) (*response.PaymentResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Initiate payment validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID format %s: %w", userID, err)
	}

	transactionID, err := uuid.Parse(req.TransactionID)
	if err != nil {
		return nil, fmt.Errorf("invalid transaction ID format %s: %w", req.TransactionID, err)
	}

	if err := s.repo.Transaction.ExpireOverdue(ctx, transactionID); err != nil {
		return nil, fmt.Errorf("sweep transaction: %w", err)
	}

	trx, err := s.repo.Transaction.FindByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if trx == nil || trx.UserID != userUUID {
		return nil, ErrNotFound
	}

	if trx.Status != entity.TransactionStatusPending {
		return nil, newStateError(string(trx.Status), "cannot initiate payment, transaction status: %s", trx.Status)
	}

	if req.Amount != trx.Amount {
		return nil, &ConflictError{Message: fmt.Sprintf("payment amount %.2f does not match transaction total %.2f", req.Amount, trx.Amount)}
	}

	// One live payment attempt at a time. Earlier cancelled or expired
	// attempts do not block retries.
	if err := s.repo.Payment.ExpireOverdueByTransaction(ctx, transactionID); err != nil {
		return nil, fmt.Errorf("sweep payments: %w", err)
	}

	latest, err := s.repo.Payment.FindLatestByTransactionID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if latest != nil && latest.Status == entity.PaymentStatusPending {
		return nil, &ConflictError{Message: "a pending payment already exists for this transaction"}
	}

	now := s.now()
	expiresAt := now.Add(s.window)
	payment := &entity.Payment{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		TransactionID: transactionID,
		Amount:        req.Amount,
		Method:        req.Method,
		Status:        entity.PaymentStatusPending,
		ExpiresAt:     &expiresAt,
	}

	if err := s.repo.Payment.Create(ctx, payment); err != nil {
		return nil, fmt.Errorf("create payment: %w", err)
	}

	s.log.Info("Payment initiated",
		zap.String("payment_id", payment.ID.String()),
		zap.String("transaction_id", transactionID.String()),
		zap.String("method", payment.Method),
		zap.Float64("amount", payment.Amount),
	)

	resp := response.PaymentToResponse(payment)
	return &resp, nil
}

func (s *paymentService) CancelPayment(ctx context.Context, userID, paymentID string, req *request.CancelPaymentRequest) (*response.CancelPaymentResponse, error) {
	if req != nil {
		if errs := utils.ValidateStruct(req); len(errs) > 0 {
			s.log.Warn("Cancel payment validation failed", zap.Any("errors", errs))
			return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
		}
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID format %s: %w", userID, err)
	}

	paymentUUID, err := uuid.Parse(paymentID)
	if err != nil {
		return nil, fmt.Errorf("invalid payment ID format %s: %w", paymentID, err)
	}

	payment, trx, err := s.loadOwnedPayment(ctx, userUUID, paymentUUID)
	if err != nil {
		return nil, err
	}

	if payment.Status == entity.PaymentStatusExpired {
		return nil, newStateError(string(payment.Status), "payment has expired and can no longer be cancelled")
	}

	if payment.Status != entity.PaymentStatusPending {
		return nil, newStateError(string(payment.Status), "cannot cancel payment, current status: %s", payment.Status)
	}

	elapsed := s.now().Sub(payment.CreatedAt)
	if elapsed < s.cooldown {
		remaining := int(math.Ceil((s.cooldown - elapsed).Seconds()))
		return nil, &CooldownError{Remaining: remaining}
	}

	cancelled, err := s.repo.Payment.CancelPending(ctx, payment.ID)
	if err != nil {
		return nil, fmt.Errorf("cancel payment: %w", err)
	}
	if !cancelled {
		// Lost a race: the row left pending between read and write.
		fresh, err := s.repo.Payment.FindByID(ctx, payment.ID)
		if err != nil {
			return nil, err
		}
		if fresh == nil {
			return nil, ErrNotFound
		}
		return nil, newStateError(string(fresh.Status), "cannot cancel payment, current status: %s", fresh.Status)
	}

	now := s.now()
	payment.Status = entity.PaymentStatusCancelled
	payment.UpdatedAt = now

	if err := s.events.Publish(ctx, events.Event{
		Type:          events.TypePaymentCancelled,
		TransactionID: trx.ID.String(),
		PaymentID:     payment.ID.String(),
		UserID:        trx.UserID.String(),
		Status:        string(payment.Status),
		Timestamp:     now,
	}); err != nil {
		s.log.Warn("Failed to publish cancellation event", zap.Error(err))
	}

	s.log.Info("Payment cancelled",
		zap.String("payment_id", payment.ID.String()),
		zap.String("transaction_id", trx.ID.String()),
		zap.String("user_id", userID),
	)

	// The parent transaction is deliberately untouched so the user can
	// retry with a new payment.
	return &response.CancelPaymentResponse{
		Payment:     response.PaymentToResponse(payment),
		Transaction: response.TransactionToSnapshot(trx),
		Cancellation: response.CancellationInfo{
			Reason:      reasonOf(req),
			CancelledAt: now,
			Note:        "transaction remains open for new payment attempts",
		},
	}, nil
}

func reasonOf(req *request.CancelPaymentRequest) *string {
	if req == nil {
		return nil
	}
	return req.Reason
}

func (s *paymentService) CheckCancelEligibility(ctx context.Context, userID, paymentID string) (*response.CancelEligibilityResponse, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID format %s: %w", userID, err)
	}

	paymentUUID, err := uuid.Parse(paymentID)
	if err != nil {
		return nil, fmt.Errorf("invalid payment ID format %s: %w", paymentID, err)
	}

	payment, _, err := s.loadOwnedPayment(ctx, userUUID, paymentUUID)
	if err != nil {
		return nil, err
	}

	statusPending := payment.Status == entity.PaymentStatusPending
	elapsed := s.now().Sub(payment.CreatedAt)
	cooldownElapsed := elapsed >= s.cooldown

	remaining := 0
	if statusPending && !cooldownElapsed {
		remaining = int(math.Ceil((s.cooldown - elapsed).Seconds()))
	}

	return &response.CancelEligibilityResponse{
		PaymentID:     payment.ID.String(),
		CurrentStatus: payment.Status,
		CanCancel:     statusPending && cooldownElapsed,
		Reasons: response.CancelReasons{
			StatusPending:   statusPending,
			CooldownElapsed: cooldownElapsed,
		},
		WaitTimeRemaining: remaining,
		PaymentDetails:    response.PaymentToResponse(payment),
	}, nil
}

func (s *paymentService) ConfirmPayment(ctx context.Context, req *request.ConfirmPaymentRequest) (*response.PaymentResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Confirm payment validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	paymentUUID, err := uuid.Parse(req.PaymentID)
	if err != nil {
		return nil, fmt.Errorf("invalid payment ID format %s: %w", req.PaymentID, err)
	}

	if err := s.repo.Payment.ExpireOverdue(ctx, paymentUUID); err != nil {
		return nil, fmt.Errorf("sweep payment: %w", err)
	}

	payment, err := s.repo.Payment.FindByID(ctx, paymentUUID)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, ErrNotFound
	}

	// Gateways retry callbacks; an already confirmed payment is a success.
	if payment.Status == entity.PaymentStatusPaid {
		resp := response.PaymentToResponse(payment)
		return &resp, nil
	}

	if payment.Status != entity.PaymentStatusPending {
		return nil, newStateError(string(payment.Status), "cannot confirm payment, current status: %s", payment.Status)
	}

	confirmed, err := s.repo.Payment.MarkPaid(ctx, payment.ID)
	if err != nil {
		return nil, fmt.Errorf("mark payment paid: %w", err)
	}
	if !confirmed {
		fresh, err := s.repo.Payment.FindByID(ctx, payment.ID)
		if err != nil {
			return nil, err
		}
		if fresh == nil {
			return nil, ErrNotFound
		}
		return nil, newStateError(string(fresh.Status), "cannot confirm payment, current status: %s", fresh.Status)
	}

	trxPaid, err := s.repo.Transaction.MarkPaid(ctx, payment.TransactionID)
	if err != nil {
		return nil, fmt.Errorf("mark transaction paid: %w", err)
	}
	if !trxPaid {
		s.log.Warn("Transaction no longer pending on payment confirmation",
			zap.String("transaction_id", payment.TransactionID.String()),
			zap.String("payment_id", payment.ID.String()),
		)
	}

	now := s.now()
	payment.Status = entity.PaymentStatusPaid
	payment.UpdatedAt = now

	trx, err := s.repo.Transaction.FindByID(ctx, payment.TransactionID)
	if err == nil && trx != nil {
		if err := s.events.Publish(ctx, events.Event{
			Type:          events.TypePaymentPaid,
			TransactionID: trx.ID.String(),
			PaymentID:     payment.ID.String(),
			UserID:        trx.UserID.String(),
			Status:        string(payment.Status),
			Timestamp:     now,
		}); err != nil {
			s.log.Warn("Failed to publish confirmation event", zap.Error(err))
		}
	}

	s.log.Info("Payment confirmed",
		zap.String("payment_id", payment.ID.String()),
		zap.String("transaction_id", payment.TransactionID.String()),
	)

	resp := response.PaymentToResponse(payment)
	return &resp, nil
}
