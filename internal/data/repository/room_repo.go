package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"cinema-reserve/internal/data/entity"
	"cinema-reserve/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type RoomRepository interface {
	Create(ctx context.Context, room *entity.Room) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Room, error)
	FindAll(ctx context.Context) ([]*entity.Room, error)
	UpdateName(ctx context.Context, id uuid.UUID, name string) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status entity.RoomStatus) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type roomRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewRoomRepository(db database.PgxIface, log *zap.Logger) RoomRepository {
	return &roomRepository{
		db:  db,
		log: log.With(zap.String("repository", "room")),
	}
}

func (r *roomRepository) Create(ctx context.Context, room *entity.Room) error {
	layout, err := json.Marshal(room.Layout)
	if err != nil {
		return fmt.Errorf("marshal layout for room %s: %w", room.Name, err)
	}

	query := `
		INSERT INTO rooms (id, name, layout, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err = r.db.Exec(ctx, query,
		room.ID,
		room.Name,
		layout,
		room.Status,
		room.CreatedAt,
		room.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create room",
			zap.Error(err),
			zap.String("name", room.Name),
		)
		return fmt.Errorf("create room %s: %w", room.Name, err)
	}

	return nil
}

func (r *roomRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Room, error) {
	query := `
		SELECT id, name, layout, status, created_at, updated_at
		FROM rooms
		WHERE id = $1
	`

	var room entity.Room
	var layout []byte
	err := r.db.QueryRow(ctx, query, id).Scan(
		&room.ID,
		&room.Name,
		&layout,
		&room.Status,
		&room.CreatedAt,
		&room.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find room by ID",
			zap.Error(err),
			zap.String("room_id", id.String()),
		)
		return nil, fmt.Errorf("find room by ID %s: %w", id.String(), err)
	}

	if err := json.Unmarshal(layout, &room.Layout); err != nil {
		return nil, fmt.Errorf("unmarshal layout for room %s: %w", id.String(), err)
	}

	return &room, nil
}

func (r *roomRepository) FindAll(ctx context.Context) ([]*entity.Room, error) {
	query := `
		SELECT id, name, layout, status, created_at, updated_at
		FROM rooms
		ORDER BY name
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.log.Error("Failed to find rooms", zap.Error(err))
		return nil, fmt.Errorf("find rooms: %w", err)
	}
	defer rows.Close()

	var rooms []*entity.Room
	for rows.Next() {
		var room entity.Room
		var layout []byte
		err := rows.Scan(
			&room.ID,
			&room.Name,
			&layout,
			&room.Status,
			&room.CreatedAt,
			&room.UpdatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan room row", zap.Error(err))
			return nil, fmt.Errorf("scan room row: %w", err)
		}
		if err := json.Unmarshal(layout, &room.Layout); err != nil {
			return nil, fmt.Errorf("unmarshal layout for room %s: %w", room.ID.String(), err)
		}
		rooms = append(rooms, &room)
	}

	return rooms, nil
}

func (r *roomRepository) UpdateName(ctx context.Context, id uuid.UUID, name string) error {
	query := `UPDATE rooms SET name = $2, updated_at = NOW() WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id, name)
	if err != nil {
		r.log.Error("Failed to update room name",
			zap.Error(err),
			zap.String("room_id", id.String()),
		)
		return fmt.Errorf("update room %s name: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return &entity.NotFoundError{Resource: "room", ID: id.String()}
	}

	return nil
}

func (r *roomRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.RoomStatus) error {
	query := `UPDATE rooms SET status = $2, updated_at = NOW() WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id, status)
	if err != nil {
		r.log.Error("Failed to update room status",
			zap.Error(err),
			zap.String("room_id", id.String()),
			zap.String("status", string(status)),
		)
		return fmt.Errorf("update room %s status to %s: %w", id.String(), string(status), err)
	}

	if result.RowsAffected() == 0 {
		return &entity.NotFoundError{Resource: "room", ID: id.String()}
	}

	return nil
}

func (r *roomRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM rooms WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to delete room",
			zap.Error(err),
			zap.String("room_id", id.String()),
		)
		return fmt.Errorf("delete room %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return &entity.NotFoundError{Resource: "room", ID: id.String()}
	}

	r.log.Info("Room deleted", zap.String("room_id", id.String()))
	return nil
}
