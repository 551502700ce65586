package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"cinema-reserve/internal/data/entity"
	"cinema-reserve/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type BookingRepository interface {
	// CreateWithSeats flips the requested seats to booked and inserts the
	// pending booking (plus the payment attempt for bank transfers) in one
	// transaction. Seats and booking are never separately observable.
	CreateWithSeats(ctx context.Context, booking *entity.Booking, seatIDs []string, attempt *entity.PaymentAttempt) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
	// ConfirmIfPending transitions pending -> confirmed. Returns false when the
	// booking was not pending (idempotent no-op for the caller).
	ConfirmIfPending(ctx context.Context, id uuid.UUID, at time.Time) (bool, error)
	// ReleaseIfPending transitions pending -> failed and flips the booking's
	// seats back to available, one transaction. Returns the released seat ids
	// and false when the booking was not pending.
	ReleaseIfPending(ctx context.Context, id uuid.UUID, at time.Time) ([]string, bool, error)
	PendingOrderCodeExists(ctx context.Context, orderCode string) (bool, error)
	HasPendingBySchedule(ctx context.Context, scheduleID uuid.UUID) (bool, error)
	HasAnyBySchedule(ctx context.Context, scheduleID uuid.UUID) (bool, error)
}

type bookingRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewBookingRepository(db database.PgxIface, log *zap.Logger) BookingRepository {
	return &bookingRepository{
		db:  db,
		log: log.With(zap.String("repository", "booking")),
	}
}

func (r *bookingRepository) CreateWithSeats(ctx context.Context, booking *entity.Booking, seatIDs []string, attempt *entity.PaymentAttempt) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin reserve tx: %w", err)
	}
	defer tx.Rollback(ctx)

	// Guarded flip: only available seats move to booked. A shortfall in
	// affected rows means a concurrent writer got there first.
	flip := `
		UPDATE seat_status
		SET state = $1, booking_id = $2
		WHERE schedule_id = $3 AND seat_id = ANY($4) AND state = $5
	`

	result, err := tx.Exec(ctx, flip,
		entity.SeatStateBooked,
		booking.ID,
		booking.ScheduleID,
		seatIDs,
		entity.SeatStateAvailable,
	)
	if err != nil {
		r.log.Error("Failed to flip seats",
			zap.Error(err),
			zap.String("schedule_id", booking.ScheduleID.String()),
		)
		return fmt.Errorf("flip seats for schedule %s: %w", booking.ScheduleID.String(), err)
	}

	if int(result.RowsAffected()) != len(seatIDs) {
		taken, err := r.bookedAmong(ctx, tx, booking.ScheduleID, seatIDs, booking.ID)
		if err != nil {
			return err
		}
		return &entity.SeatConflictError{Seats: taken}
	}

	seats, err := json.Marshal(seatIDs)
	if err != nil {
		return fmt.Errorf("marshal seats for booking %s: %w", booking.ID.String(), err)
	}

	insert := `
		INSERT INTO bookings (id, schedule_id, user_id, seat_ids, total_seats, total_price,
			payment_method, status, order_code, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err = tx.Exec(ctx, insert,
		booking.ID,
		booking.ScheduleID,
		booking.UserID,
		seats,
		booking.TotalSeats,
		booking.TotalPrice,
		booking.PaymentMethod,
		booking.Status,
		booking.OrderCode,
		booking.CreatedAt,
		booking.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create booking",
			zap.Error(err),
			zap.String("booking_id", booking.ID.String()),
		)
		return fmt.Errorf("create booking %s: %w", booking.ID.String(), err)
	}

	if attempt != nil {
		insertAttempt := `
			INSERT INTO payment_attempts (id, booking_id, order_code, expected_amount, status, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`
		_, err = tx.Exec(ctx, insertAttempt,
			attempt.ID,
			attempt.BookingID,
			attempt.OrderCode,
			attempt.ExpectedAmount,
			attempt.Status,
			attempt.CreatedAt,
			attempt.UpdatedAt,
		)
		if err != nil {
			r.log.Error("Failed to create payment attempt",
				zap.Error(err),
				zap.String("booking_id", booking.ID.String()),
			)
			return fmt.Errorf("create payment attempt for booking %s: %w", booking.ID.String(), err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit reserve for booking %s: %w", booking.ID.String(), err)
	}

	return nil
}

// bookedAmong names the requested seats that are taken by someone else, for
// the SeatConflictError detail.
func (r *bookingRepository) bookedAmong(ctx context.Context, tx pgx.Tx, scheduleID uuid.UUID, seatIDs []string, selfID uuid.UUID) ([]string, error) {
	query := `
		SELECT seat_id
		FROM seat_status
		WHERE schedule_id = $1 AND seat_id = ANY($2) AND state = $3
		  AND (booking_id IS NULL OR booking_id <> $4)
	`

	rows, err := tx.Query(ctx, query, scheduleID, seatIDs, entity.SeatStateBooked, selfID)
	if err != nil {
		return nil, fmt.Errorf("list conflicting seats for schedule %s: %w", scheduleID.String(), err)
	}
	defer rows.Close()

	var taken []string
	for rows.Next() {
		var seatID string
		if err := rows.Scan(&seatID); err != nil {
			return nil, fmt.Errorf("scan conflicting seat row: %w", err)
		}
		taken = append(taken, seatID)
	}

	entity.SortSeatIDs(taken)
	return taken, nil
}

func (r *bookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	query := `
		SELECT id, schedule_id, user_id, seat_ids, total_seats, total_price, payment_method,
		       status, order_code, confirmed_at, released_at, created_at, updated_at
		FROM bookings
		WHERE id = $1
	`

	var booking entity.Booking
	var seats []byte
	err := r.db.QueryRow(ctx, query, id).Scan(
		&booking.ID,
		&booking.ScheduleID,
		&booking.UserID,
		&seats,
		&booking.TotalSeats,
		&booking.TotalPrice,
		&booking.PaymentMethod,
		&booking.Status,
		&booking.OrderCode,
		&booking.ConfirmedAt,
		&booking.ReleasedAt,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking by ID",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return nil, fmt.Errorf("find booking by ID %s: %w", id.String(), err)
	}

	if err := json.Unmarshal(seats, &booking.SeatIDs); err != nil {
		return nil, fmt.Errorf("unmarshal seats for booking %s: %w", id.String(), err)
	}

	return &booking, nil
}

func (r *bookingRepository) ConfirmIfPending(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	query := `
		UPDATE bookings
		SET status = $2, confirmed_at = $3, updated_at = $3
		WHERE id = $1 AND status = $4
	`

	result, err := r.db.Exec(ctx, query, id, entity.BookingStatusConfirmed, at, entity.BookingStatusPending)
	if err != nil {
		r.log.Error("Failed to confirm booking",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return false, fmt.Errorf("confirm booking %s: %w", id.String(), err)
	}

	return result.RowsAffected() == 1, nil
}

func (r *bookingRepository) ReleaseIfPending(ctx context.Context, id uuid.UUID, at time.Time) ([]string, bool, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("begin release tx: %w", err)
	}
	defer tx.Rollback(ctx)

	mark := `
		UPDATE bookings
		SET status = $2, released_at = $3, updated_at = $3
		WHERE id = $1 AND status = $4
	`

	result, err := tx.Exec(ctx, mark, id, entity.BookingStatusFailed, at, entity.BookingStatusPending)
	if err != nil {
		r.log.Error("Failed to mark booking released",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return nil, false, fmt.Errorf("release booking %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		// Already confirmed or released. No seats change hands.
		return nil, false, nil
	}

	free := `
		UPDATE seat_status
		SET state = $1, booking_id = NULL
		WHERE booking_id = $2
		RETURNING seat_id
	`

	rows, err := tx.Query(ctx, free, entity.SeatStateAvailable, id)
	if err != nil {
		r.log.Error("Failed to free seats",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return nil, false, fmt.Errorf("free seats for booking %s: %w", id.String(), err)
	}

	var seatIDs []string
	for rows.Next() {
		var seatID string
		if err := rows.Scan(&seatID); err != nil {
			rows.Close()
			return nil, false, fmt.Errorf("scan freed seat row: %w", err)
		}
		seatIDs = append(seatIDs, seatID)
	}
	rows.Close()

	if err := tx.Commit(ctx); err != nil {
		return nil, false, fmt.Errorf("commit release for booking %s: %w", id.String(), err)
	}

	entity.SortSeatIDs(seatIDs)
	return seatIDs, true, nil
}

func (r *bookingRepository) PendingOrderCodeExists(ctx context.Context, orderCode string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM bookings
			WHERE order_code = $1 AND status = $2
		)
	`

	var exists bool
	err := r.db.QueryRow(ctx, query, orderCode, entity.BookingStatusPending).Scan(&exists)
	if err != nil {
		r.log.Error("Failed to check order code",
			zap.Error(err),
			zap.String("order_code", orderCode),
		)
		return false, fmt.Errorf("check order code %s: %w", orderCode, err)
	}

	return exists, nil
}

func (r *bookingRepository) HasPendingBySchedule(ctx context.Context, scheduleID uuid.UUID) (bool, error) {
	return r.existsBySchedule(ctx, scheduleID, `AND status = 'pending'`)
}

func (r *bookingRepository) HasAnyBySchedule(ctx context.Context, scheduleID uuid.UUID) (bool, error) {
	return r.existsBySchedule(ctx, scheduleID, ``)
}

func (r *bookingRepository) existsBySchedule(ctx context.Context, scheduleID uuid.UUID, filter string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM bookings WHERE schedule_id = $1 ` + filter + `)`

	var exists bool
	err := r.db.QueryRow(ctx, query, scheduleID).Scan(&exists)
	if err != nil {
		r.log.Error("Failed to check bookings by schedule",
			zap.Error(err),
			zap.String("schedule_id", scheduleID.String()),
		)
		return false, fmt.Errorf("check bookings for schedule %s: %w", scheduleID.String(), err)
	}

	return exists, nil
}
