package usecase

import (
	"context"
	"fmt"
	"time"

	"cinema-reserve/internal/data/entity"
	"cinema-reserve/internal/data/repository"
	"cinema-reserve/internal/dto/request"
	"cinema-reserve/internal/dto/response"
	"cinema-reserve/pkg/metrics"
	"cinema-reserve/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// orderCodeAttempts bounds the regenerate-on-collision loop. The code space is
// ~5.7M, collisions among pending bookings are vanishingly rare.
const orderCodeAttempts = 5

// BookingService is the booking transaction manager: the only component that
// moves seats between available and booked.
type BookingService interface {
	// Reserve atomically flips the requested seats to booked and creates a
	// pending booking. Per-schedule exclusion guarantees two overlapping
	// requests cannot both succeed.
	Reserve(ctx context.Context, userID uuid.UUID, req *request.ReserveRequest) (*response.BookingResponse, error)
	// Release reverses a pending reservation. Idempotent: releasing a booking
	// that already reached a terminal state reports that state unchanged.
	Release(ctx context.Context, bookingID string) (*response.BookingResponse, error)
	GetBooking(ctx context.Context, bookingID string) (*response.BookingResponse, error)
}

type bookingService struct {
	repo    *repository.Repository
	pricing *PricingEngine
	locks   *utils.KeyedMutex // keyed by schedule id
	config  *utils.Config
	log     *zap.Logger
}

func NewBookingService(repo *repository.Repository, pricing *PricingEngine, locks *utils.KeyedMutex, config *utils.Config, log *zap.Logger) BookingService {
	return &bookingService{
		repo:    repo,
		pricing: pricing,
		locks:   locks,
		config:  config,
		log:     log.With(zap.String("service", "booking")),
	}
}

func (s *bookingService) Reserve(ctx context.Context, userID uuid.UUID, req *request.ReserveRequest) (*response.BookingResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Reserve validation failed", zap.Any("errors", errs))
		return nil, &entity.ValidationError{Reason: utils.FormatValidationErrors(errs)}
	}

	scheduleID, err := uuid.Parse(req.ScheduleID)
	if err != nil {
		return nil, &entity.ValidationError{Field: "schedule_id", Reason: "not a valid UUID"}
	}

	method := entity.PaymentMethod(req.PaymentMethod)
	if !s.methodEnabled(method) {
		// Disabled methods (momo) are rejected loudly, never silently ignored.
		return nil, &entity.MethodUnavailableError{Method: method}
	}

	schedule, err := s.repo.Schedule.FindByID(ctx, scheduleID)
	if err != nil {
		return nil, fmt.Errorf("load schedule: %w", err)
	}
	if schedule == nil {
		return nil, &entity.NotFoundError{Resource: "schedule", ID: req.ScheduleID}
	}

	now := time.Now()
	if schedule.Status(now) == entity.ScheduleStatusCompleted {
		return nil, &entity.ValidationError{Field: "schedule_id", Reason: "screening already completed"}
	}

	room, err := s.repo.Room.FindByID(ctx, schedule.RoomID)
	if err != nil {
		return nil, fmt.Errorf("load room: %w", err)
	}
	if room == nil {
		return nil, &entity.NotFoundError{Resource: "room", ID: schedule.RoomID.String()}
	}

	seatIDs, err := normalizeSeats(room.Layout, req.SeatIDs)
	if err != nil {
		return nil, err
	}

	// Critical section: read-check-write on the seat overlay. Held only for
	// the overlay read and the reserve transaction, never across payment I/O.
	key := scheduleID.String()
	s.locks.Lock(key)
	defer s.locks.Unlock(key)

	overlay, err := s.repo.SeatStatus.MapBySchedule(ctx, scheduleID)
	if err != nil {
		return nil, fmt.Errorf("read seat overlay: %w", err)
	}

	var taken []string
	for _, seatID := range seatIDs {
		if overlay[seatID] != entity.SeatStateAvailable {
			taken = append(taken, seatID)
		}
	}
	if len(taken) > 0 {
		metrics.SeatConflicts.Inc()
		s.log.Info("Seat conflict on reserve",
			zap.String("schedule_id", req.ScheduleID),
			zap.Strings("seats", taken),
		)
		return nil, &entity.SeatConflictError{Seats: taken}
	}

	total := s.pricing.Quote(schedule.BasePrice, room.Layout, seatIDs)
	if req.ClientTotal != nil && *req.ClientTotal != total {
		return nil, &entity.PriceMismatchError{Expected: total}
	}

	booking := &entity.Booking{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		ScheduleID:    scheduleID,
		UserID:        userID,
		SeatIDs:       seatIDs,
		TotalSeats:    len(seatIDs),
		TotalPrice:    total,
		PaymentMethod: method,
		Status:        entity.BookingStatusPending,
	}

	var attempt *entity.PaymentAttempt
	if method == entity.PaymentMethodBankTransfer {
		orderCode, err := s.freshOrderCode(ctx)
		if err != nil {
			return nil, err
		}
		booking.OrderCode = &orderCode
		attempt = &entity.PaymentAttempt{
			Base: entity.Base{
				ID:        uuid.New(),
				CreatedAt: now,
				UpdatedAt: now,
			},
			BookingID:      booking.ID,
			OrderCode:      orderCode,
			ExpectedAmount: total,
			Status:         entity.PaymentAttemptUnverified,
		}
	}

	if err := s.repo.Booking.CreateWithSeats(ctx, booking, seatIDs, attempt); err != nil {
		s.log.Error("Failed to reserve seats",
			zap.Error(err),
			zap.String("schedule_id", req.ScheduleID),
			zap.Strings("seats", seatIDs),
		)
		return nil, err
	}

	metrics.BookingsReserved.Inc()
	s.log.Info("Booking reserved",
		zap.String("booking_id", booking.ID.String()),
		zap.String("schedule_id", req.ScheduleID),
		zap.Strings("seats", seatIDs),
		zap.Int64("total_price", total),
		zap.String("payment_method", string(method)),
	)

	return response.BookingToResponse(booking, seatIDs), nil
}

func (s *bookingService) Release(ctx context.Context, bookingID string) (*response.BookingResponse, error) {
	id, err := uuid.Parse(bookingID)
	if err != nil {
		return nil, &entity.ValidationError{Field: "booking_id", Reason: "not a valid UUID"}
	}

	booking, err := s.repo.Booking.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load booking: %w", err)
	}
	if booking == nil {
		return nil, &entity.NotFoundError{Resource: "booking", ID: bookingID}
	}

	key := booking.ScheduleID.String()
	s.locks.Lock(key)
	seats, released, err := s.repo.Booking.ReleaseIfPending(ctx, id, time.Now())
	s.locks.Unlock(key)
	if err != nil {
		return nil, err
	}

	if !released {
		// Already terminal, nothing changed. Report the current state.
		return s.GetBooking(ctx, bookingID)
	}

	metrics.BookingsReleased.Inc()
	s.log.Info("Booking released",
		zap.String("booking_id", bookingID),
		zap.Strings("seats", seats),
	)

	booking, err = s.repo.Booking.FindByID(ctx, id)
	if err != nil || booking == nil {
		return nil, fmt.Errorf("reload booking %s: %w", bookingID, err)
	}
	return response.BookingToResponse(booking, seats), nil
}

func (s *bookingService) GetBooking(ctx context.Context, bookingID string) (*response.BookingResponse, error) {
	id, err := uuid.Parse(bookingID)
	if err != nil {
		return nil, &entity.ValidationError{Field: "booking_id", Reason: "not a valid UUID"}
	}

	booking, err := s.repo.Booking.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load booking: %w", err)
	}
	if booking == nil {
		return nil, &entity.NotFoundError{Resource: "booking", ID: bookingID}
	}

	// The seat set lives on the booking row, so terminal bookings keep their
	// seats even after the overlay rows were freed or rebuilt.
	return response.BookingToResponse(booking, booking.SeatIDs), nil
}

func (s *bookingService) methodEnabled(method entity.PaymentMethod) bool {
	for _, enabled := range s.config.Booking.EnabledMethods {
		if entity.PaymentMethod(enabled) == method {
			return true
		}
	}
	return false
}

func (s *bookingService) freshOrderCode(ctx context.Context) (string, error) {
	var code string
	for i := 0; i < orderCodeAttempts; i++ {
		code = utils.GenerateOrderCode()
		exists, err := s.repo.Booking.PendingOrderCodeExists(ctx, code)
		if err != nil {
			return "", fmt.Errorf("check order code: %w", err)
		}
		if !exists {
			return code, nil
		}
	}
	return "", &entity.ConflictError{Reason: "could not allocate a unique order code"}
}

// normalizeSeats rejects duplicates and seats outside the layout, and returns
// the selection in canonical row/column order.
func normalizeSeats(layout entity.SeatLayout, seatIDs []string) ([]string, error) {
	seen := make(map[string]struct{}, len(seatIDs))
	out := make([]string, 0, len(seatIDs))
	for _, seatID := range seatIDs {
		if _, dup := seen[seatID]; dup {
			return nil, &entity.ValidationError{Field: "seat_ids", Reason: fmt.Sprintf("duplicate seat %s", seatID)}
		}
		seen[seatID] = struct{}{}
		if !layout.Contains(seatID) {
			return nil, &entity.ValidationError{Field: "seat_ids", Reason: fmt.Sprintf("seat %s does not exist in this room", seatID)}
		}
		out = append(out, seatID)
	}
	entity.SortSeatIDs(out)
	return out, nil
}
