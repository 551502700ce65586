package repository

import (
	"context"
	"fmt"

	"cinema-reserve/internal/data/entity"
	"cinema-reserve/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type SeatStatusRepository interface {
	// MapBySchedule returns the full overlay: seat id -> state.
	MapBySchedule(ctx context.Context, scheduleID uuid.UUID) (map[string]entity.SeatState, error)
}

type seatStatusRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewSeatStatusRepository(db database.PgxIface, log *zap.Logger) SeatStatusRepository {
	return &seatStatusRepository{
		db:  db,
		log: log.With(zap.String("repository", "seat_status")),
	}
}

func (r *seatStatusRepository) MapBySchedule(ctx context.Context, scheduleID uuid.UUID) (map[string]entity.SeatState, error) {
	query := `
		SELECT seat_id, state
		FROM seat_status
		WHERE schedule_id = $1
	`

	rows, err := r.db.Query(ctx, query, scheduleID)
	if err != nil {
		r.log.Error("Failed to read seat overlay",
			zap.Error(err),
			zap.String("schedule_id", scheduleID.String()),
		)
		return nil, fmt.Errorf("read seat overlay for schedule %s: %w", scheduleID.String(), err)
	}
	defer rows.Close()

	overlay := make(map[string]entity.SeatState)
	for rows.Next() {
		var seatID string
		var state entity.SeatState
		if err := rows.Scan(&seatID, &state); err != nil {
			r.log.Error("Failed to scan seat status row", zap.Error(err))
			return nil, fmt.Errorf("scan seat status row: %w", err)
		}
		overlay[seatID] = state
	}

	return overlay, nil
}
