package repository

import (
	"context"
	"fmt"

	"commerce-payments/internal/data/entity"
	"commerce-payments/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type PaymentRepository interface {
	Create(ctx context.Context, payment *entity.Payment) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Payment, error)
	FindLatestByTransactionID(ctx context.Context, transactionID uuid.UUID) (*entity.Payment, error)
	FindByTransactionID(ctx context.Context, transactionID uuid.UUID) ([]*entity.Payment, error)

	// Business queries
	CancelPending(ctx context.Context, id uuid.UUID) (bool, error)
	MarkPaid(ctx context.Context, id uuid.UUID) (bool, error)
	ExpireOverdue(ctx context.Context, id uuid.UUID) error
	ExpireOverdueByTransaction(ctx context.Context, transactionID uuid.UUID) error
	ExpireAllOverdue(ctx context.Context) (int64, error)
}

type paymentRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewPaymentRepository(db database.PgxIface, log *zap.Logger) PaymentRepository {
	return &paymentRepository{
		db:  db,
		log: log.With(zap.String("repository", "payment")),
	}
}

const paymentColumns = `id, transaction_id, amount, method, status, expires_at, created_at, updated_at`

func scanPayment(row pgx.Row) (*entity.Payment, error) {
	var payment entity.Payment
	err := row.Scan(
		&payment.ID,
		&payment.TransactionID,
		&payment.Amount,
		&payment.Method,
		&payment.Status,
		&payment.ExpiresAt,
		&payment.CreatedAt,
		&payment.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *paymentRepository) Create(ctx context.Context, payment *entity.Payment) error {
	query := `
		INSERT INTO payments (id, transaction_id, amount, method, status, expires_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.Exec(ctx, query,
		payment.ID,
		payment.TransactionID,
		payment.Amount,
		payment.Method,
		payment.Status,
		payment.ExpiresAt,
		payment.CreatedAt,
		payment.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create payment",
			zap.Error(err),
			zap.String("transaction_id", payment.TransactionID.String()),
			zap.String("method", payment.Method),
		)
		return fmt.Errorf("create payment for transaction %s: %w", payment.TransactionID.String(), err)
	}

	return nil
}

func (r *paymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1`

	payment, err := scanPayment(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find payment by ID",
			zap.Error(err),
			zap.String("payment_id", id.String()),
		)
		return nil, fmt.Errorf("find payment by ID %s: %w", id.String(), err)
	}

	return payment, nil
}

func (r *paymentRepository) FindLatestByTransactionID(ctx context.Context, transactionID uuid.UUID) (*entity.Payment, error) {
	query := `
		SELECT ` + paymentColumns + `
		FROM payments
		WHERE transaction_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`

	payment, err := scanPayment(r.db.QueryRow(ctx, query, transactionID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find latest payment by transaction ID",
			zap.Error(err),
			zap.String("transaction_id", transactionID.String()),
		)
		return nil, fmt.Errorf("find latest payment by transaction ID %s: %w", transactionID.String(), err)
	}

	return payment, nil
}

func (r *paymentRepository) FindByTransactionID(ctx context.Context, transactionID uuid.UUID) ([]*entity.Payment, error) {
	query := `
		SELECT ` + paymentColumns + `
		FROM payments
		WHERE transaction_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(ctx, query, transactionID)
	if err != nil {
		r.log.Error("Failed to find payments by transaction ID",
			zap.Error(err),
			zap.String("transaction_id", transactionID.String()),
		)
		return nil, fmt.Errorf("find payments by transaction ID %s: %w", transactionID.String(), err)
	}
	defer rows.Close()

	var payments []*entity.Payment
	for rows.Next() {
		payment, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan payment row: %w", err)
		}
		payments = append(payments, payment)
	}

	return payments, rows.Err()
}

// CancelPending cancels a payment iff it is still pending, inside a
// transaction boundary so a later extension can log the cancellation event
// atomically. Returns false when the row is missing or not pending anymore.
func (r *paymentRepository) CancelPending(ctx context.Context, id uuid.UUID) (bool, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("begin cancel payment %s: %w", id.String(), err)
	}
	defer tx.Rollback(ctx)

	query := `
		UPDATE payments
		SET status = $2, updated_at = NOW()
		WHERE id = $1 AND status = $3
	`

	result, err := tx.Exec(ctx, query, id, entity.PaymentStatusCancelled, entity.PaymentStatusPending)
	if err != nil {
		r.log.Error("Failed to cancel payment",
			zap.Error(err),
			zap.String("payment_id", id.String()),
		)
		return false, fmt.Errorf("cancel payment %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return false, nil
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("commit cancel payment %s: %w", id.String(), err)
	}

	return true, nil
}

func (r *paymentRepository) MarkPaid(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `
		UPDATE payments
		SET status = $2, updated_at = NOW()
		WHERE id = $1 AND status = $3
	`

	result, err := r.db.Exec(ctx, query, id, entity.PaymentStatusPaid, entity.PaymentStatusPending)
	if err != nil {
		r.log.Error("Failed to mark payment paid",
			zap.Error(err),
			zap.String("payment_id", id.String()),
		)
		return false, fmt.Errorf("mark payment %s paid: %w", id.String(), err)
	}

	return result.RowsAffected() > 0, nil
}

// ExpireOverdue lazily corrects a single stale pending payment. Idempotent:
// the conditional WHERE matches at most once.
func (r *paymentRepository) ExpireOverdue(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE payments
		SET status = $2, updated_at = NOW()
		WHERE id = $1 AND status = $3 AND expires_at IS NOT NULL AND expires_at < NOW()
	`

	_, err := r.db.Exec(ctx, query, id, entity.PaymentStatusExpired, entity.PaymentStatusPending)
	if err != nil {
		r.log.Error("Failed to expire overdue payment",
			zap.Error(err),
			zap.String("payment_id", id.String()),
		)
		return fmt.Errorf("expire overdue payment %s: %w", id.String(), err)
	}

	return nil
}

// ExpireOverdueByTransaction sweeps every stale pending payment attached to
// one transaction.
func (r *paymentRepository) ExpireOverdueByTransaction(ctx context.Context, transactionID uuid.UUID) error {
	query := `
		UPDATE payments
		SET status = $2, updated_at = NOW()
		WHERE transaction_id = $1 AND status = $3 AND expires_at IS NOT NULL AND expires_at < NOW()
	`

	_, err := r.db.Exec(ctx, query, transactionID, entity.PaymentStatusExpired, entity.PaymentStatusPending)
	if err != nil {
		r.log.Error("Failed to expire overdue payments for transaction",
			zap.Error(err),
			zap.String("transaction_id", transactionID.String()),
		)
		return fmt.Errorf("expire overdue payments for transaction %s: %w", transactionID.String(), err)
	}

	return nil
}

func (r *paymentRepository) ExpireAllOverdue(ctx context.Context) (int64, error) {
	query := `
		UPDATE payments
		SET status = $1, updated_at = NOW()
		WHERE status = $2 AND expires_at IS NOT NULL AND expires_at < NOW()
	`

	result, err := r.db.Exec(ctx, query, entity.PaymentStatusExpired, entity.PaymentStatusPending)
	if err != nil {
		r.log.Error("Failed to expire overdue payments", zap.Error(err))
		return 0, fmt.Errorf("expire overdue payments: %w", err)
	}

	return result.RowsAffected(), nil
}
