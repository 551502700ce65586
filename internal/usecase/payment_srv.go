package usecase

import (
	"context"
	"fmt"
	"time"

	"cinema-reserve/internal/data/entity"
	"cinema-reserve/internal/data/repository"
	"cinema-reserve/internal/dto/response"
	"cinema-reserve/internal/gateway"
	"cinema-reserve/pkg/metrics"
	"cinema-reserve/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PaymentService drives a booking from pending to confirmed or released.
// The only valid transitions are pending->confirmed and pending->failed;
// everything else is an idempotent no-op reporting the current state.
type PaymentService interface {
	// Confirm finalizes a booking, the synchronous cash path.
	Confirm(ctx context.Context, bookingID string) (*response.BookingResponse, error)
	// CheckPayment consults the gateway feed once. Three-valued by design: a
	// gateway failure is Unknown, never NotPaid, so transient outages cannot
	// release seats a customer already paid for.
	CheckPayment(ctx context.Context, bookingID string) (*response.PaymentCheckResponse, error)
	// Expire releases a pending booking whose payment window elapsed. The
	// timeout policy lives with the caller, not here.
	Expire(ctx context.Context, bookingID string) (*response.BookingResponse, error)
}

type paymentService struct {
	repo   *repository.Repository
	bank   gateway.BankClient
	locks  *utils.KeyedMutex // shared with BookingService, keyed by schedule id
	config *utils.Config
	log    *zap.Logger
}

func NewPaymentService(repo *repository.Repository, bank gateway.BankClient, locks *utils.KeyedMutex, config *utils.Config, log *zap.Logger) PaymentService {
	return &paymentService{
		repo:   repo,
		bank:   bank,
		locks:  locks,
		config: config,
		log:    log.With(zap.String("service", "payment")),
	}
}

func (s *paymentService) Confirm(ctx context.Context, bookingID string) (*response.BookingResponse, error) {
	booking, err := s.loadBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if booking.Status != entity.BookingStatusPending {
		return s.currentState(booking), nil
	}

	now := time.Now()
	key := booking.ScheduleID.String()
	s.locks.Lock(key)
	confirmed, err := s.repo.Booking.ConfirmIfPending(ctx, booking.ID, now)
	s.locks.Unlock(key)
	if err != nil {
		return nil, err
	}

	if !confirmed {
		// Raced with another confirm or an expire. Report what actually happened.
		booking, err = s.loadBooking(ctx, bookingID)
		if err != nil {
			return nil, err
		}
		return s.currentState(booking), nil
	}

	if booking.PaymentMethod == entity.PaymentMethodBankTransfer {
		s.markAttempt(ctx, booking.ID, entity.PaymentAttemptPaid, now)
	}

	metrics.BookingsConfirmed.Inc()
	s.log.Info("Booking confirmed",
		zap.String("booking_id", bookingID),
		zap.String("payment_method", string(booking.PaymentMethod)),
		zap.Int64("total_price", booking.TotalPrice),
	)

	booking.Status = entity.BookingStatusConfirmed
	booking.ConfirmedAt = &now
	return s.currentState(booking), nil
}

func (s *paymentService) CheckPayment(ctx context.Context, bookingID string) (*response.PaymentCheckResponse, error) {
	booking, err := s.loadBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	// Terminal bookings answer from local state, no gateway round trip.
	switch booking.Status {
	case entity.BookingStatusConfirmed:
		return &response.PaymentCheckResponse{Result: response.PaymentCheckPaid, Booking: s.currentState(booking)}, nil
	case entity.BookingStatusFailed:
		return &response.PaymentCheckResponse{Result: response.PaymentCheckNotPaid, Booking: s.currentState(booking)}, nil
	}

	if booking.PaymentMethod != entity.PaymentMethodBankTransfer {
		return nil, &entity.ValidationError{Field: "booking_id", Reason: "booking has no bank transfer to check"}
	}

	attempt, err := s.repo.PaymentAttempt.FindByBookingID(ctx, booking.ID)
	if err != nil {
		return nil, err
	}
	if attempt == nil {
		return nil, &entity.NotFoundError{Resource: "payment attempt", ID: bookingID}
	}

	now := time.Now()
	since := booking.CreatedAt.Add(-time.Duration(s.config.Gateway.LookbackMinutes) * time.Minute)

	matches, err := s.bank.QueryTransactions(ctx, attempt.OrderCode, attempt.ExpectedAmount, since)
	if err != nil {
		// Unreachable or garbled gateway. Seats stay booked, booking stays
		// pending, the caller retries later.
		s.log.Warn("Payment check inconclusive",
			zap.Error(err),
			zap.String("booking_id", bookingID),
			zap.String("order_code", attempt.OrderCode),
		)
		s.markAttempt(ctx, booking.ID, entity.PaymentAttemptUnknown, now)
		return &response.PaymentCheckResponse{Result: response.PaymentCheckUnknown}, nil
	}

	if len(matches) == 0 {
		// The gateway answered: no matching transfer yet. Not a reason to
		// release - the user may simply not have paid yet.
		s.markAttempt(ctx, booking.ID, entity.PaymentAttemptNotPaid, now)
		return &response.PaymentCheckResponse{Result: response.PaymentCheckNotPaid}, nil
	}

	s.log.Info("Matching transaction found",
		zap.String("booking_id", bookingID),
		zap.String("order_code", attempt.OrderCode),
		zap.Int64("amount", attempt.ExpectedAmount),
		zap.String("reference", matches[0].Reference),
	)

	confirmed, err := s.Confirm(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	return &response.PaymentCheckResponse{Result: response.PaymentCheckPaid, Booking: confirmed}, nil
}

func (s *paymentService) Expire(ctx context.Context, bookingID string) (*response.BookingResponse, error) {
	booking, err := s.loadBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if booking.Status != entity.BookingStatusPending {
		return s.currentState(booking), nil
	}

	now := time.Now()
	key := booking.ScheduleID.String()
	s.locks.Lock(key)
	seats, released, err := s.repo.Booking.ReleaseIfPending(ctx, booking.ID, now)
	s.locks.Unlock(key)
	if err != nil {
		return nil, err
	}

	if !released {
		booking, err = s.loadBooking(ctx, bookingID)
		if err != nil {
			return nil, err
		}
		return s.currentState(booking), nil
	}

	if booking.PaymentMethod == entity.PaymentMethodBankTransfer {
		s.markAttempt(ctx, booking.ID, entity.PaymentAttemptNotPaid, now)
	}

	metrics.BookingsReleased.Inc()
	s.log.Info("Booking expired",
		zap.String("booking_id", bookingID),
		zap.Strings("seats", seats),
	)

	booking.Status = entity.BookingStatusFailed
	booking.ReleasedAt = &now
	return response.BookingToResponse(booking, seats), nil
}

func (s *paymentService) loadBooking(ctx context.Context, bookingID string) (*entity.Booking, error) {
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

	return booking, nil
}

func (s *paymentService) currentState(booking *entity.Booking) *response.BookingResponse {
	return response.BookingToResponse(booking, booking.SeatIDs)
}

// markAttempt records the reconciliation outcome, best effort: losing this
// write never fails the check itself.
func (s *paymentService) markAttempt(ctx context.Context, bookingID uuid.UUID, status entity.PaymentAttemptStatus, at time.Time) {
	attempt, err := s.repo.PaymentAttempt.FindByBookingID(ctx, bookingID)
	if err != nil || attempt == nil {
		return
	}
	if err := s.repo.PaymentAttempt.UpdateStatus(ctx, attempt.ID, status, at); err != nil {
		s.log.Warn("Failed to record payment attempt status",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
			zap.String("status", string(status)),
		)
	}
}
