package repository

import (
	"context"
	"fmt"

	"commerce-payments/internal/data/entity"
	"commerce-payments/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

type TransactionRepository interface {
	Create(ctx context.Context, trx *entity.Transaction) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Transaction, error)
	FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Transaction, error)
	CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error)
	FindAll(ctx context.Context, limit, offset int) ([]*entity.Transaction, error)
	Count(ctx context.Context) (int64, error)

	// Business queries
	MarkPaid(ctx context.Context, id uuid.UUID) (bool, error)
	ExpireOverdue(ctx context.Context, id uuid.UUID) error
	ExpireAllOverdue(ctx context.Context) (int64, error)
	UpdateDeliveryStatus(ctx context.Context, id uuid.UUID, status entity.DeliveryStatus, fulfillment *entity.Fulfillment) (bool, error)
}

type transactionRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewTransactionRepository(db database.PgxIface, log *zap.Logger) TransactionRepository {
	return &transactionRepository{
		db:  db,
		log: log.With(zap.String("repository", "transaction")),
	}
}

const transactionColumns = `id, order_id, user_id, type, currency, amount, status, delivery_status,
	expires_at, website_url, drive_url, text_description, domain_name, domain_expired_at, notes,
	created_at, updated_at`

func scanTransaction(row pgx.Row) (*entity.Transaction, error) {
	var trx entity.Transaction
	err := row.Scan(
		&trx.ID,
		&trx.OrderID,
		&trx.UserID,
		&trx.Type,
		&trx.Currency,
		&trx.Amount,
		&trx.Status,
		&trx.DeliveryStatus,
		&trx.ExpiresAt,
		&trx.WebsiteURL,
		&trx.DriveURL,
		&trx.TextDescription,
		&trx.DomainName,
		&trx.DomainExpiredAt,
		&trx.Notes,
		&trx.CreatedAt,
		&trx.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &trx, nil
}

func (r *transactionRepository) Create(ctx context.Context, trx *entity.Transaction) error {
	query := `
		INSERT INTO transactions (id, order_id, user_id, type, currency, amount, status, delivery_status, expires_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.db.Exec(ctx, query,
		trx.ID,
		trx.OrderID,
		trx.UserID,
		trx.Type,
		trx.Currency,
		trx.Amount,
		trx.Status,
		trx.DeliveryStatus,
		trx.ExpiresAt,
		trx.CreatedAt,
		trx.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create transaction",
			zap.Error(err),
			zap.String("user_id", trx.UserID.String()),
			zap.String("order_id", trx.OrderID),
		)
		return fmt.Errorf("create transaction %s: %w", trx.OrderID, err)
	}

	return nil
}

func (r *transactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1`

	trx, err := scanTransaction(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find transaction by ID",
			zap.Error(err),
			zap.String("transaction_id", id.String()),
		)
		return nil, fmt.Errorf("find transaction by ID %s: %w", id.String(), err)
	}

	return trx, nil
}

func (r *transactionRepository) FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		r.log.Error("Failed to find transactions by user ID",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("find transactions by user ID %s: %w", userID.String(), err)
	}
	defer rows.Close()

	var transactions []*entity.Transaction
	for rows.Next() {
		trx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction row: %w", err)
		}
		transactions = append(transactions, trx)
	}

	return transactions, rows.Err()
}

func (r *transactionRepository) CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	var total int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM transactions WHERE user_id = $1`, userID).Scan(&total)
	if err != nil {
		r.log.Error("Failed to count transactions by user ID",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return 0, fmt.Errorf("count transactions by user ID %s: %w", userID.String(), err)
	}

	return total, nil
}

func (r *transactionRepository) FindAll(ctx context.Context, limit, offset int) ([]*entity.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		r.log.Error("Failed to list transactions", zap.Error(err))
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var transactions []*entity.Transaction
	for rows.Next() {
		trx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction row: %w", err)
		}
		transactions = append(transactions, trx)
	}

	return transactions, rows.Err()
}

func (r *transactionRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM transactions`).Scan(&total)
	if err != nil {
		r.log.Error("Failed to count transactions", zap.Error(err))
		return 0, fmt.Errorf("count transactions: %w", err)
	}

	return total, nil
}

// MarkPaid flips a pending transaction to paid. Returns false when the row is
// missing or no longer pending, so callers can re-read and report the current
// status instead of clobbering a terminal state.
func (r *transactionRepository) MarkPaid(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `
		UPDATE transactions
		SET status = $2, updated_at = NOW()
		WHERE id = $1 AND status = $3
	`

	result, err := r.db.Exec(ctx, query, id, entity.TransactionStatusPaid, entity.TransactionStatusPending)
	if err != nil {
		r.log.Error("Failed to mark transaction paid",
			zap.Error(err),
			zap.String("transaction_id", id.String()),
		)
		return false, fmt.Errorf("mark transaction %s paid: %w", id.String(), err)
	}

	return result.RowsAffected() > 0, nil
}

// ExpireOverdue lazily corrects a single stale pending transaction. The
// conditional WHERE makes it idempotent: a second run matches zero rows.
func (r *transactionRepository) ExpireOverdue(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE transactions
		SET status = $2, updated_at = NOW()
		WHERE id = $1 AND status = $3 AND expires_at IS NOT NULL AND expires_at < NOW()
	`

	_, err := r.db.Exec(ctx, query, id, entity.TransactionStatusExpired, entity.TransactionStatusPending)
	if err != nil {
		r.log.Error("Failed to expire overdue transaction",
			zap.Error(err),
			zap.String("transaction_id", id.String()),
		)
		return fmt.Errorf("expire overdue transaction %s: %w", id.String(), err)
	}

	return nil
}

func (r *transactionRepository) ExpireAllOverdue(ctx context.Context) (int64, error) {
	query := `
		UPDATE transactions
		SET status = $1, updated_at = NOW()
		WHERE status = $2 AND expires_at IS NOT NULL AND expires_at < NOW()
	`

	result, err := r.db.Exec(ctx, query, entity.TransactionStatusExpired, entity.TransactionStatusPending)
	if err != nil {
		r.log.Error("Failed to expire overdue transactions", zap.Error(err))
		return 0, fmt.Errorf("expire overdue transactions: %w", err)
	}

	return result.RowsAffected(), nil
}

// UpdateDeliveryStatus advances the fulfillment axis. The fulfillment payload
// is written only when provided (delivered transitions); other transitions
// touch the status column alone. Returns false when the row vanished between
// read and write.
func (r *transactionRepository) UpdateDeliveryStatus(ctx context.Context, id uuid.UUID, status entity.DeliveryStatus, fulfillment *entity.Fulfillment) (bool, error) {
	var result pgconn.CommandTag
	var err error

	if fulfillment != nil {
		query := `
			UPDATE transactions
			SET delivery_status = $2, website_url = $3, drive_url = $4, text_description = $5,
			    domain_name = $6, domain_expired_at = $7, notes = $8, updated_at = NOW()
			WHERE id = $1
		`
		result, err = r.db.Exec(ctx, query, id, status,
			fulfillment.WebsiteURL,
			fulfillment.DriveURL,
			fulfillment.TextDescription,
			fulfillment.DomainName,
			fulfillment.DomainExpiredAt,
			fulfillment.Notes,
		)
	} else {
		query := `
			UPDATE transactions
			SET delivery_status = $2, updated_at = NOW()
			WHERE id = $1
		`
		result, err = r.db.Exec(ctx, query, id, status)
	}

	if err != nil {
		r.log.Error("Failed to update delivery status",
			zap.Error(err),
			zap.String("transaction_id", id.String()),
			zap.String("delivery_status", string(status)),
		)
		return false, fmt.Errorf("update transaction %s delivery status to %s: %w", id.String(), string(status), err)
	}

	return result.RowsAffected() > 0, nil
}
