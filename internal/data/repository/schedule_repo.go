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

type ScheduleRepository interface {
	// CreateWithOverlay inserts the schedule and one available seat-status row
	// per addressable seat in a single transaction.
	CreateWithOverlay(ctx context.Context, schedule *entity.Schedule, seatIDs []string) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Schedule, error)
	FindAll(ctx context.Context, limit, offset int) ([]*entity.Schedule, error)
	// SlotTaken reports whether another schedule occupies the room's slot on
	// that date. excludeID skips the schedule being updated.
	SlotTaken(ctx context.Context, roomID uuid.UUID, date time.Time, slot entity.TimeSlot, excludeID uuid.UUID) (bool, error)
	// Update persists the schedule. A non-nil rebuildSeats replaces the seat
	// overlay in the same transaction (room changed).
	Update(ctx context.Context, schedule *entity.Schedule, rebuildSeats []string) error
	Delete(ctx context.Context, id uuid.UUID) error
	HasFutureByRoom(ctx context.Context, roomID uuid.UUID, after time.Time) (bool, error)
}

type scheduleRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewScheduleRepository(db database.PgxIface, log *zap.Logger) ScheduleRepository {
	return &scheduleRepository{
		db:  db,
		log: log.With(zap.String("repository", "schedule")),
	}
}

func (r *scheduleRepository) CreateWithOverlay(ctx context.Context, schedule *entity.Schedule, seatIDs []string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin create schedule tx: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO schedules (id, movie_id, room_id, show_date, time_slot, base_price, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err = tx.Exec(ctx, query,
		schedule.ID,
		schedule.MovieID,
		schedule.RoomID,
		schedule.ShowDate,
		schedule.TimeSlot,
		schedule.BasePrice,
		schedule.CreatedAt,
		schedule.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create schedule",
			zap.Error(err),
			zap.String("movie_id", schedule.MovieID.String()),
			zap.String("room_id", schedule.RoomID.String()),
			zap.Time("show_date", schedule.ShowDate),
		)
		return fmt.Errorf("create schedule for movie %s room %s: %w",
			schedule.MovieID.String(), schedule.RoomID.String(), err)
	}

	if err := insertOverlay(ctx, tx, schedule.ID, seatIDs); err != nil {
		r.log.Error("Failed to create seat overlay",
			zap.Error(err),
			zap.String("schedule_id", schedule.ID.String()),
		)
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit create schedule %s: %w", schedule.ID.String(), err)
	}

	return nil
}

func insertOverlay(ctx context.Context, tx pgx.Tx, scheduleID uuid.UUID, seatIDs []string) error {
	batch := &pgx.Batch{}
	for _, seatID := range seatIDs {
		batch.Queue(
			`INSERT INTO seat_status (schedule_id, seat_id, state) VALUES ($1, $2, $3)`,
			scheduleID, seatID, entity.SeatStateAvailable,
		)
	}

	results := tx.SendBatch(ctx, batch)
	for range seatIDs {
		if _, err := results.Exec(); err != nil {
			results.Close()
			return fmt.Errorf("insert seat overlay for schedule %s: %w", scheduleID.String(), err)
		}
	}
	return results.Close()
}

func (r *scheduleRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Schedule, error) {
	query := `
		SELECT id, movie_id, room_id, show_date, time_slot, base_price, created_at, updated_at
		FROM schedules
		WHERE id = $1
	`

	var schedule entity.Schedule
	err := r.db.QueryRow(ctx, query, id).Scan(
		&schedule.ID,
		&schedule.MovieID,
		&schedule.RoomID,
		&schedule.ShowDate,
		&schedule.TimeSlot,
		&schedule.BasePrice,
		&schedule.CreatedAt,
		&schedule.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find schedule by ID",
			zap.Error(err),
			zap.String("schedule_id", id.String()),
		)
		return nil, fmt.Errorf("find schedule by ID %s: %w", id.String(), err)
	}

	return &schedule, nil
}

func (r *scheduleRepository) FindAll(ctx context.Context, limit, offset int) ([]*entity.Schedule, error) {
	query := `
		SELECT id, movie_id, room_id, show_date, time_slot, base_price, created_at, updated_at
		FROM schedules
		ORDER BY show_date, time_slot
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		r.log.Error("Failed to find schedules",
			zap.Error(err),
			zap.Int("limit", limit),
			zap.Int("offset", offset),
		)
		return nil, fmt.Errorf("find schedules: %w", err)
	}
	defer rows.Close()

	var schedules []*entity.Schedule
	for rows.Next() {
		var schedule entity.Schedule
		err := rows.Scan(
			&schedule.ID,
			&schedule.MovieID,
			&schedule.RoomID,
			&schedule.ShowDate,
			&schedule.TimeSlot,
			&schedule.BasePrice,
			&schedule.CreatedAt,
			&schedule.UpdatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan schedule row", zap.Error(err))
			return nil, fmt.Errorf("scan schedule row: %w", err)
		}
		schedules = append(schedules, &schedule)
	}

	return schedules, nil
}

func (r *scheduleRepository) SlotTaken(ctx context.Context, roomID uuid.UUID, date time.Time, slot entity.TimeSlot, excludeID uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM schedules
			WHERE room_id = $1 AND show_date = $2 AND time_slot = $3 AND id <> $4
		)
	`

	var taken bool
	err := r.db.QueryRow(ctx, query, roomID, date, slot, excludeID).Scan(&taken)
	if err != nil {
		r.log.Error("Failed to check slot conflict",
			zap.Error(err),
			zap.String("room_id", roomID.String()),
			zap.Time("show_date", date),
			zap.Int("time_slot", int(slot)),
		)
		return false, fmt.Errorf("check slot conflict for room %s: %w", roomID.String(), err)
	}

	return taken, nil
}

func (r *scheduleRepository) Update(ctx context.Context, schedule *entity.Schedule, rebuildSeats []string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin update schedule tx: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		UPDATE schedules
		SET movie_id = $2, room_id = $3, show_date = $4, time_slot = $5,
		    base_price = $6, updated_at = $7
		WHERE id = $1
	`

	result, err := tx.Exec(ctx, query,
		schedule.ID,
		schedule.MovieID,
		schedule.RoomID,
		schedule.ShowDate,
		schedule.TimeSlot,
		schedule.BasePrice,
		schedule.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to update schedule",
			zap.Error(err),
			zap.String("schedule_id", schedule.ID.String()),
		)
		return fmt.Errorf("update schedule %s: %w", schedule.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return &entity.NotFoundError{Resource: "schedule", ID: schedule.ID.String()}
	}

	if rebuildSeats != nil {
		if _, err := tx.Exec(ctx, `DELETE FROM seat_status WHERE schedule_id = $1`, schedule.ID); err != nil {
			return fmt.Errorf("clear seat overlay for schedule %s: %w", schedule.ID.String(), err)
		}
		if err := insertOverlay(ctx, tx, schedule.ID, rebuildSeats); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit update schedule %s: %w", schedule.ID.String(), err)
	}

	return nil
}

func (r *scheduleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin delete schedule tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM seat_status WHERE schedule_id = $1`, id); err != nil {
		r.log.Error("Failed to delete seat overlay",
			zap.Error(err),
			zap.String("schedule_id", id.String()),
		)
		return fmt.Errorf("delete seat overlay for schedule %s: %w", id.String(), err)
	}

	result, err := tx.Exec(ctx, `DELETE FROM schedules WHERE id = $1`, id)
	if err != nil {
		r.log.Error("Failed to delete schedule",
			zap.Error(err),
			zap.String("schedule_id", id.String()),
		)
		return fmt.Errorf("delete schedule %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return &entity.NotFoundError{Resource: "schedule", ID: id.String()}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit delete schedule %s: %w", id.String(), err)
	}

	r.log.Info("Schedule deleted", zap.String("schedule_id", id.String()))
	return nil
}

func (r *scheduleRepository) HasFutureByRoom(ctx context.Context, roomID uuid.UUID, after time.Time) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM schedules
			WHERE room_id = $1 AND show_date >= $2
		)
	`

	var exists bool
	err := r.db.QueryRow(ctx, query, roomID, after).Scan(&exists)
	if err != nil {
		r.log.Error("Failed to check future schedules for room",
			zap.Error(err),
			zap.String("room_id", roomID.String()),
		)
		return false, fmt.Errorf("check future schedules for room %s: %w", roomID.String(), err)
	}

	return exists, nil
}
