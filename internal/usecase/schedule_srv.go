package usecase

import (
	"context"
	"fmt"
	"time"

	"cinema-reserve/internal/data/entity"
	"cinema-reserve/internal/data/repository"
	"cinema-reserve/internal/dto/request"
	"cinema-reserve/internal/dto/response"
	"cinema-reserve/internal/gateway"
	"cinema-reserve/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ScheduleService interface {
	CreateSchedule(ctx context.Context, req *request.CreateScheduleRequest) (*response.ScheduleResponse, error)
	UpdateSchedule(ctx context.Context, scheduleID string, req *request.UpdateScheduleRequest) (*response.ScheduleResponse, error)
	DeleteSchedule(ctx context.Context, scheduleID string) error
	GetSchedule(ctx context.Context, scheduleID string) (*response.ScheduleResponse, error)
	ListSchedules(ctx context.Context, page, perPage int) ([]*response.ScheduleResponse, error)
	// GetSeatMap is the read path for seat map rendering.
	GetSeatMap(ctx context.Context, scheduleID string) (*response.SeatMapResponse, error)
}

type scheduleService struct {
	repo    *repository.Repository
	catalog gateway.CatalogClient
	// serializes the overlap check per (room, date) so two concurrent admin
	// actions cannot both pass it
	slotLocks *utils.KeyedMutex
	// the booking service's per-schedule lock set. Overlay rebuilds and deletes
	// take it so no reservation can land mid-change.
	seatLocks *utils.KeyedMutex
	config    *utils.Config
	log       *zap.Logger
}

func NewScheduleService(repo *repository.Repository, catalog gateway.CatalogClient, seatLocks *utils.KeyedMutex, config *utils.Config, log *zap.Logger) ScheduleService {
	return &scheduleService{
		repo:      repo,
		catalog:   catalog,
		slotLocks: utils.NewKeyedMutex(),
		seatLocks: seatLocks,
		config:    config,
		log:       log.With(zap.String("service", "schedule")),
	}
}

type scheduleInput struct {
	movieID uuid.UUID
	roomID  uuid.UUID
	date    time.Time
	slot    entity.TimeSlot
	price   int64
}

func (s *scheduleService) CreateSchedule(ctx context.Context, req *request.CreateScheduleRequest) (*response.ScheduleResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create schedule validation failed", zap.Any("errors", errs))
		return nil, &entity.ValidationError{Reason: utils.FormatValidationErrors(errs)}
	}

	in, err := s.checkInput(ctx, req.MovieID, req.RoomID, req.ShowDate, req.TimeSlot, req.BasePrice)
	if err != nil {
		return nil, err
	}

	room, err := s.activeRoom(ctx, in.roomID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	schedule := &entity.Schedule{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		MovieID:   in.movieID,
		RoomID:    in.roomID,
		ShowDate:  in.date,
		TimeSlot:  in.slot,
		BasePrice: in.price,
	}

	key := slotKey(in.roomID, in.date)
	s.slotLocks.Lock(key)
	defer s.slotLocks.Unlock(key)

	taken, err := s.repo.Schedule.SlotTaken(ctx, in.roomID, in.date, in.slot, uuid.Nil)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, &entity.ConflictError{
			Reason: fmt.Sprintf("room already has a screening on %s slot %s", req.ShowDate, in.slot.Label()),
		}
	}

	if err := s.repo.Schedule.CreateWithOverlay(ctx, schedule, room.Layout.AddressableSeats()); err != nil {
		return nil, err
	}

	s.log.Info("Schedule created",
		zap.String("schedule_id", schedule.ID.String()),
		zap.String("room_id", req.RoomID),
		zap.String("show_date", req.ShowDate),
		zap.Int("time_slot", req.TimeSlot),
		zap.Int64("base_price", req.BasePrice),
	)

	return s.decorate(ctx, schedule, now), nil
}

func (s *scheduleService) UpdateSchedule(ctx context.Context, scheduleID string, req *request.UpdateScheduleRequest) (*response.ScheduleResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Update schedule validation failed", zap.Any("errors", errs))
		return nil, &entity.ValidationError{Reason: utils.FormatValidationErrors(errs)}
	}

	id, err := uuid.Parse(scheduleID)
	if err != nil {
		return nil, &entity.ValidationError{Field: "schedule_id", Reason: "not a valid UUID"}
	}

	existing, err := s.repo.Schedule.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, &entity.NotFoundError{Resource: "schedule", ID: scheduleID}
	}

	in, err := s.checkInput(ctx, req.MovieID, req.RoomID, req.ShowDate, req.TimeSlot, req.BasePrice)
	if err != nil {
		return nil, err
	}

	var rebuildSeats []string
	if in.roomID != existing.RoomID {
		// A room change would invalidate every reserved seat id, so it is
		// only allowed while nothing references them. The seat lock is held
		// until the rebuild commits so a concurrent reserve cannot slip in
		// after the check and get wiped with the old overlay.
		seatKey := existing.ID.String()
		s.seatLocks.Lock(seatKey)
		defer s.seatLocks.Unlock(seatKey)

		booked, err := s.repo.Booking.HasAnyBySchedule(ctx, id)
		if err != nil {
			return nil, err
		}
		if booked {
			return nil, &entity.ConflictError{Reason: "cannot move a screening with existing bookings to another room"}
		}

		room, err := s.activeRoom(ctx, in.roomID)
		if err != nil {
			return nil, err
		}
		rebuildSeats = room.Layout.AddressableSeats()
	}

	now := time.Now()
	existing.MovieID = in.movieID
	existing.RoomID = in.roomID
	existing.ShowDate = in.date
	existing.TimeSlot = in.slot
	existing.BasePrice = in.price
	existing.UpdatedAt = now

	key := slotKey(in.roomID, in.date)
	s.slotLocks.Lock(key)
	defer s.slotLocks.Unlock(key)

	taken, err := s.repo.Schedule.SlotTaken(ctx, in.roomID, in.date, in.slot, id)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, &entity.ConflictError{
			Reason: fmt.Sprintf("room already has a screening on %s slot %s", req.ShowDate, in.slot.Label()),
		}
	}

	if err := s.repo.Schedule.Update(ctx, existing, rebuildSeats); err != nil {
		return nil, err
	}

	s.log.Info("Schedule updated", zap.String("schedule_id", scheduleID))
	return s.decorate(ctx, existing, now), nil
}

func (s *scheduleService) DeleteSchedule(ctx context.Context, scheduleID string) error {
	id, err := uuid.Parse(scheduleID)
	if err != nil {
		return &entity.ValidationError{Field: "schedule_id", Reason: "not a valid UUID"}
	}

	seatKey := id.String()
	s.seatLocks.Lock(seatKey)
	defer s.seatLocks.Unlock(seatKey)

	pending, err := s.repo.Booking.HasPendingBySchedule(ctx, id)
	if err != nil {
		return err
	}
	if pending {
		return &entity.ConflictError{Reason: "schedule has pending bookings"}
	}

	// Confirmed and failed bookings keep referencing the schedule row, a
	// delete under them would only die on the foreign key anyway.
	booked, err := s.repo.Booking.HasAnyBySchedule(ctx, id)
	if err != nil {
		return err
	}
	if booked {
		return &entity.ConflictError{Reason: "schedule has booking history"}
	}

	return s.repo.Schedule.Delete(ctx, id)
}

func (s *scheduleService) GetSchedule(ctx context.Context, scheduleID string) (*response.ScheduleResponse, error) {
	id, err := uuid.Parse(scheduleID)
	if err != nil {
		return nil, &entity.ValidationError{Field: "schedule_id", Reason: "not a valid UUID"}
	}

	schedule, err := s.repo.Schedule.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if schedule == nil {
		return nil, &entity.NotFoundError{Resource: "schedule", ID: scheduleID}
	}

	return s.decorate(ctx, schedule, time.Now()), nil
}

func (s *scheduleService) ListSchedules(ctx context.Context, page, perPage int) ([]*response.ScheduleResponse, error) {
	schedules, err := s.repo.Schedule.FindAll(ctx, perPage, (page-1)*perPage)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	out := make([]*response.ScheduleResponse, len(schedules))
	for i, schedule := range schedules {
		out[i] = s.decorate(ctx, schedule, now)
	}
	return out, nil
}

func (s *scheduleService) GetSeatMap(ctx context.Context, scheduleID string) (*response.SeatMapResponse, error) {
	id, err := uuid.Parse(scheduleID)
	if err != nil {
		return nil, &entity.ValidationError{Field: "schedule_id", Reason: "not a valid UUID"}
	}

	schedule, err := s.repo.Schedule.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if schedule == nil {
		return nil, &entity.NotFoundError{Resource: "schedule", ID: scheduleID}
	}

	room, err := s.repo.Room.FindByID(ctx, schedule.RoomID)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, &entity.NotFoundError{Resource: "room", ID: schedule.RoomID.String()}
	}

	overlay, err := s.repo.SeatStatus.MapBySchedule(ctx, id)
	if err != nil {
		return nil, err
	}

	seats := make(map[string]string, len(overlay))
	for seatID, state := range overlay {
		seats[seatID] = string(state)
	}

	return &response.SeatMapResponse{
		ScheduleID: scheduleID,
		Layout:     room.Layout,
		Seats:      seats,
	}, nil
}

// checkInput parses ids, the calendar date and the slot, and applies the
// admin-configured price bounds and booking window.
func (s *scheduleService) checkInput(ctx context.Context, movieID, roomID, showDate string, timeSlot int, basePrice int64) (*scheduleInput, error) {
	mid, err := uuid.Parse(movieID)
	if err != nil {
		return nil, &entity.ValidationError{Field: "movie_id", Reason: "not a valid UUID"}
	}

	rid, err := uuid.Parse(roomID)
	if err != nil {
		return nil, &entity.ValidationError{Field: "room_id", Reason: "not a valid UUID"}
	}

	date, err := time.ParseInLocation("2006-01-02", showDate, time.UTC)
	if err != nil {
		return nil, &entity.ValidationError{Field: "show_date", Reason: "must be YYYY-MM-DD"}
	}

	slot := entity.TimeSlot(timeSlot)
	if !slot.Valid() {
		return nil, &entity.ValidationError{Field: "time_slot", Reason: fmt.Sprintf("must be between 0 and %d", entity.LastTimeSlot)}
	}

	bounds := s.config.Booking
	if basePrice < bounds.MinBasePrice || basePrice > bounds.MaxBasePrice {
		return nil, &entity.ValidationError{
			Field:  "base_price",
			Reason: fmt.Sprintf("must be between %d and %d", bounds.MinBasePrice, bounds.MaxBasePrice),
		}
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	earliest := today.AddDate(0, 0, bounds.MinDaysAhead)
	latest := today.AddDate(0, 0, bounds.MaxDaysAhead)
	if date.Before(earliest) || date.After(latest) {
		return nil, &entity.ValidationError{
			Field:  "show_date",
			Reason: fmt.Sprintf("outside the open booking window (%d-%d days ahead)", bounds.MinDaysAhead, bounds.MaxDaysAhead),
		}
	}

	movie, err := s.catalog.FindMovie(ctx, mid)
	if err != nil {
		return nil, fmt.Errorf("look up movie %s: %w", movieID, err)
	}
	if movie == nil {
		return nil, &entity.NotFoundError{Resource: "movie", ID: movieID}
	}

	return &scheduleInput{movieID: mid, roomID: rid, date: date, slot: slot, price: basePrice}, nil
}

func (s *scheduleService) activeRoom(ctx context.Context, roomID uuid.UUID) (*entity.Room, error) {
	room, err := s.repo.Room.FindByID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, &entity.NotFoundError{Resource: "room", ID: roomID.String()}
	}
	if room.Status != entity.RoomStatusActive {
		return nil, &entity.ConflictError{Reason: fmt.Sprintf("room %s is inactive", room.Name)}
	}
	return room, nil
}

// decorate attaches catalog and room names, best effort: a missing title never
// fails a read.
func (s *scheduleService) decorate(ctx context.Context, schedule *entity.Schedule, now time.Time) *response.ScheduleResponse {
	var movieTitle, roomName string

	movie, _ := s.catalog.FindMovie(ctx, schedule.MovieID)
	if movie != nil {
		movieTitle = movie.Title
	}

	room, _ := s.repo.Room.FindByID(ctx, schedule.RoomID)
	if room != nil {
		roomName = room.Name
	}

	return response.ScheduleToResponse(schedule, movieTitle, roomName, now)
}

func slotKey(roomID uuid.UUID, date time.Time) string {
	return roomID.String() + "|" + date.Format("2006-01-02")
}
