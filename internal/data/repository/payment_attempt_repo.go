package repository

import (
	"context"
	"fmt"
	"time"

	"cinema-reserve/internal/data/entity"
	"cinema-reserve/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type PaymentAttemptRepository interface {
	FindByBookingID(ctx context.Context, bookingID uuid.UUID) (*entity.PaymentAttempt, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status entity.PaymentAttemptStatus, checkedAt time.Time) error
}

type paymentAttemptRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewPaymentAttemptRepository(db database.PgxIface, log *zap.Logger) PaymentAttemptRepository {
	return &paymentAttemptRepository{
		db:  db,
		log: log.With(zap.String("repository", "payment_attempt")),
	}
}

func (r *paymentAttemptRepository) FindByBookingID(ctx context.Context, bookingID uuid.UUID) (*entity.PaymentAttempt, error) {
	query := `
		SELECT id, booking_id, order_code, expected_amount, status, last_checked_at, created_at, updated_at
		FROM payment_attempts
		WHERE booking_id = $1
	`

	var attempt entity.PaymentAttempt
	err := r.db.QueryRow(ctx, query, bookingID).Scan(
		&attempt.ID,
		&attempt.BookingID,
		&attempt.OrderCode,
		&attempt.ExpectedAmount,
		&attempt.Status,
		&attempt.LastCheckedAt,
		&attempt.CreatedAt,
		&attempt.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find payment attempt by booking ID",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
		)
		return nil, fmt.Errorf("find payment attempt by booking ID %s: %w", bookingID.String(), err)
	}

	return &attempt, nil
}

func (r *paymentAttemptRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.PaymentAttemptStatus, checkedAt time.Time) error {
	query := `
		UPDATE payment_attempts
		SET status = $2, last_checked_at = $3, updated_at = $3
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query, id, status, checkedAt)
	if err != nil {
		r.log.Error("Failed to update payment attempt status",
			zap.Error(err),
			zap.String("attempt_id", id.String()),
			zap.String("status", string(status)),
		)
		return fmt.Errorf("update payment attempt %s status to %s: %w", id.String(), string(status), err)
	}

	if result.RowsAffected() == 0 {
		return &entity.NotFoundError{Resource: "payment attempt", ID: id.String()}
	}

	return nil
}
