package usecase

import (
	"context"
	"time"

	"cinema-reserve/internal/data/entity"
	"cinema-reserve/internal/data/repository"
	"cinema-reserve/internal/dto/request"
	"cinema-reserve/internal/dto/response"
	"cinema-reserve/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type RoomService interface {
	CreateRoom(ctx context.Context, req *request.CreateRoomRequest) (*response.RoomResponse, error)
	GetRoom(ctx context.Context, roomID string) (*response.RoomResponse, error)
	ListRooms(ctx context.Context) ([]*response.RoomResponse, error)
	RenameRoom(ctx context.Context, roomID string, req *request.RenameRoomRequest) (*response.RoomResponse, error)
	DeactivateRoom(ctx context.Context, roomID string) error
	DeleteRoom(ctx context.Context, roomID string) error
}

type roomService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewRoomService(repo *repository.Repository, log *zap.Logger) RoomService {
	return &roomService{
		repo: repo,
		log:  log.With(zap.String("service", "room")),
	}
}

func (s *roomService) CreateRoom(ctx context.Context, req *request.CreateRoomRequest) (*response.RoomResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create room validation failed", zap.Any("errors", errs))
		return nil, &entity.ValidationError{Reason: utils.FormatValidationErrors(errs)}
	}

	var layout entity.SeatLayout
	if req.Preset != "" {
		preset, err := entity.LayoutFromPreset(req.Preset)
		if err != nil {
			return nil, err
		}
		layout = preset
	} else {
		layout = entity.SeatLayout{
			Rows:        req.Rows,
			SeatsPerRow: req.SeatsPerRow,
			VIPRows:     req.VIPRows,
			AisleAfter:  req.AisleAfter,
		}
	}
	if err := layout.Validate(); err != nil {
		return nil, err
	}

	now := time.Now()
	room := &entity.Room{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Name:   req.Name,
		Layout: layout,
		Status: entity.RoomStatusActive,
	}

	if err := s.repo.Room.Create(ctx, room); err != nil {
		return nil, err
	}

	s.log.Info("Room created",
		zap.String("room_id", room.ID.String()),
		zap.String("name", room.Name),
		zap.Int("rows", layout.Rows),
		zap.Int("seats_per_row", layout.SeatsPerRow),
	)

	return response.RoomToResponse(room), nil
}

func (s *roomService) GetRoom(ctx context.Context, roomID string) (*response.RoomResponse, error) {
	room, err := s.findRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	return response.RoomToResponse(room), nil
}

func (s *roomService) ListRooms(ctx context.Context) ([]*response.RoomResponse, error) {
	rooms, err := s.repo.Room.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]*response.RoomResponse, len(rooms))
	for i, room := range rooms {
		out[i] = response.RoomToResponse(room)
	}
	return out, nil
}

// RenameRoom changes the display name only. Geometry is immutable, a room
// with the wrong layout gets deactivated and replaced.
func (s *roomService) RenameRoom(ctx context.Context, roomID string, req *request.RenameRoomRequest) (*response.RoomResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, &entity.ValidationError{Reason: utils.FormatValidationErrors(errs)}
	}

	room, err := s.findRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Room.UpdateName(ctx, room.ID, req.Name); err != nil {
		return nil, err
	}

	room.Name = req.Name
	s.log.Info("Room renamed", zap.String("room_id", roomID), zap.String("name", req.Name))
	return response.RoomToResponse(room), nil
}

func (s *roomService) DeactivateRoom(ctx context.Context, roomID string) error {
	room, err := s.findRoom(ctx, roomID)
	if err != nil {
		return err
	}

	if err := s.guardFutureSchedules(ctx, room.ID); err != nil {
		return err
	}

	if err := s.repo.Room.UpdateStatus(ctx, room.ID, entity.RoomStatusInactive); err != nil {
		return err
	}

	s.log.Info("Room deactivated", zap.String("room_id", roomID))
	return nil
}

func (s *roomService) DeleteRoom(ctx context.Context, roomID string) error {
	room, err := s.findRoom(ctx, roomID)
	if err != nil {
		return err
	}

	if err := s.guardFutureSchedules(ctx, room.ID); err != nil {
		return err
	}

	if err := s.repo.Room.Delete(ctx, room.ID); err != nil {
		return err
	}

	s.log.Info("Room deleted", zap.String("room_id", roomID))
	return nil
}

func (s *roomService) findRoom(ctx context.Context, roomID string) (*entity.Room, error) {
	id, err := uuid.Parse(roomID)
	if err != nil {
		return nil, &entity.ValidationError{Field: "room_id", Reason: "not a valid UUID"}
	}

	room, err := s.repo.Room.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, &entity.NotFoundError{Resource: "room", ID: roomID}
	}
	return room, nil
}

func (s *roomService) guardFutureSchedules(ctx context.Context, roomID uuid.UUID) error {
	// show_date is a calendar date, so compare against today's midnight: a
	// screening later today still counts as upcoming.
	today := time.Now().UTC().Truncate(24 * time.Hour)
	busy, err := s.repo.Schedule.HasFutureByRoom(ctx, roomID, today)
	if err != nil {
		return err
	}
	if busy {
		return &entity.ConflictError{Reason: "room still has upcoming screenings"}
	}
	return nil
}
