package usecase

import (
	"context"
	"sync"
	"time"

	"cinema-reserve/internal/data/entity"
	"cinema-reserve/internal/data/repository"
	"cinema-reserve/internal/gateway"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Func-field mocks: each test plugs in exactly the behavior it needs.

type mockRoomRepo struct {
	CreateFunc       func(ctx context.Context, room *entity.Room) error
	FindByIDFunc     func(ctx context.Context, id uuid.UUID) (*entity.Room, error)
	FindAllFunc      func(ctx context.Context) ([]*entity.Room, error)
	UpdateNameFunc   func(ctx context.Context, id uuid.UUID, name string) error
	UpdateStatusFunc func(ctx context.Context, id uuid.UUID, status entity.RoomStatus) error
	DeleteFunc       func(ctx context.Context, id uuid.UUID) error
}

func (m *mockRoomRepo) Create(ctx context.Context, room *entity.Room) error {
	return m.CreateFunc(ctx, room)
}
func (m *mockRoomRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Room, error) {
	return m.FindByIDFunc(ctx, id)
}
func (m *mockRoomRepo) FindAll(ctx context.Context) ([]*entity.Room, error) {
	return m.FindAllFunc(ctx)
}
func (m *mockRoomRepo) UpdateName(ctx context.Context, id uuid.UUID, name string) error {
	return m.UpdateNameFunc(ctx, id, name)
}
func (m *mockRoomRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.RoomStatus) error {
	return m.UpdateStatusFunc(ctx, id, status)
}
func (m *mockRoomRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.DeleteFunc(ctx, id)
}

type mockScheduleRepo struct {
	CreateWithOverlayFunc func(ctx context.Context, schedule *entity.Schedule, seatIDs []string) error
	FindByIDFunc          func(ctx context.Context, id uuid.UUID) (*entity.Schedule, error)
	FindAllFunc           func(ctx context.Context, limit, offset int) ([]*entity.Schedule, error)
	SlotTakenFunc         func(ctx context.Context, roomID uuid.UUID, date time.Time, slot entity.TimeSlot, excludeID uuid.UUID) (bool, error)
	UpdateFunc            func(ctx context.Context, schedule *entity.Schedule, rebuildSeats []string) error
	DeleteFunc            func(ctx context.Context, id uuid.UUID) error
	HasFutureByRoomFunc   func(ctx context.Context, roomID uuid.UUID, after time.Time) (bool, error)
}

func (m *mockScheduleRepo) CreateWithOverlay(ctx context.Context, schedule *entity.Schedule, seatIDs []string) error {
	return m.CreateWithOverlayFunc(ctx, schedule, seatIDs)
}
func (m *mockScheduleRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Schedule, error) {
	return m.FindByIDFunc(ctx, id)
}
func (m *mockScheduleRepo) FindAll(ctx context.Context, limit, offset int) ([]*entity.Schedule, error) {
	return m.FindAllFunc(ctx, limit, offset)
}
func (m *mockScheduleRepo) SlotTaken(ctx context.Context, roomID uuid.UUID, date time.Time, slot entity.TimeSlot, excludeID uuid.UUID) (bool, error) {
	return m.SlotTakenFunc(ctx, roomID, date, slot, excludeID)
}
func (m *mockScheduleRepo) Update(ctx context.Context, schedule *entity.Schedule, rebuildSeats []string) error {
	return m.UpdateFunc(ctx, schedule, rebuildSeats)
}
func (m *mockScheduleRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.DeleteFunc(ctx, id)
}
func (m *mockScheduleRepo) HasFutureByRoom(ctx context.Context, roomID uuid.UUID, after time.Time) (bool, error) {
	return m.HasFutureByRoomFunc(ctx, roomID, after)
}

type mockSeatStatusRepo struct {
	MapByScheduleFunc func(ctx context.Context, scheduleID uuid.UUID) (map[string]entity.SeatState, error)
}

func (m *mockSeatStatusRepo) MapBySchedule(ctx context.Context, scheduleID uuid.UUID) (map[string]entity.SeatState, error) {
	return m.MapByScheduleFunc(ctx, scheduleID)
}

type mockBookingRepo struct {
	CreateWithSeatsFunc        func(ctx context.Context, booking *entity.Booking, seatIDs []string, attempt *entity.PaymentAttempt) error
	FindByIDFunc               func(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
	ConfirmIfPendingFunc       func(ctx context.Context, id uuid.UUID, at time.Time) (bool, error)
	ReleaseIfPendingFunc       func(ctx context.Context, id uuid.UUID, at time.Time) ([]string, bool, error)
	PendingOrderCodeExistsFunc func(ctx context.Context, orderCode string) (bool, error)
	HasPendingByScheduleFunc   func(ctx context.Context, scheduleID uuid.UUID) (bool, error)
	HasAnyByScheduleFunc       func(ctx context.Context, scheduleID uuid.UUID) (bool, error)
}

func (m *mockBookingRepo) CreateWithSeats(ctx context.Context, booking *entity.Booking, seatIDs []string, attempt *entity.PaymentAttempt) error {
	return m.CreateWithSeatsFunc(ctx, booking, seatIDs, attempt)
}
func (m *mockBookingRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	return m.FindByIDFunc(ctx, id)
}
func (m *mockBookingRepo) ConfirmIfPending(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	return m.ConfirmIfPendingFunc(ctx, id, at)
}
func (m *mockBookingRepo) ReleaseIfPending(ctx context.Context, id uuid.UUID, at time.Time) ([]string, bool, error) {
	return m.ReleaseIfPendingFunc(ctx, id, at)
}
func (m *mockBookingRepo) PendingOrderCodeExists(ctx context.Context, orderCode string) (bool, error) {
	return m.PendingOrderCodeExistsFunc(ctx, orderCode)
}
func (m *mockBookingRepo) HasPendingBySchedule(ctx context.Context, scheduleID uuid.UUID) (bool, error) {
	return m.HasPendingByScheduleFunc(ctx, scheduleID)
}
func (m *mockBookingRepo) HasAnyBySchedule(ctx context.Context, scheduleID uuid.UUID) (bool, error) {
	return m.HasAnyByScheduleFunc(ctx, scheduleID)
}

type mockPaymentAttemptRepo struct {
	FindByBookingIDFunc func(ctx context.Context, bookingID uuid.UUID) (*entity.PaymentAttempt, error)
	UpdateStatusFunc    func(ctx context.Context, id uuid.UUID, status entity.PaymentAttemptStatus, checkedAt time.Time) error
}

func (m *mockPaymentAttemptRepo) FindByBookingID(ctx context.Context, bookingID uuid.UUID) (*entity.PaymentAttempt, error) {
	return m.FindByBookingIDFunc(ctx, bookingID)
}
func (m *mockPaymentAttemptRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.PaymentAttemptStatus, checkedAt time.Time) error {
	return m.UpdateStatusFunc(ctx, id, status, checkedAt)
}

type mockBankClient struct {
	QueryTransactionsFunc func(ctx context.Context, orderCode string, amount int64, since time.Time) ([]gateway.Transaction, error)
}

func (m *mockBankClient) QueryTransactions(ctx context.Context, orderCode string, amount int64, since time.Time) ([]gateway.Transaction, error) {
	return m.QueryTransactionsFunc(ctx, orderCode, amount, since)
}

type mockCatalogClient struct {
	FindMovieFunc func(ctx context.Context, id uuid.UUID) (*gateway.Movie, error)
}

func (m *mockCatalogClient) FindMovie(ctx context.Context, id uuid.UUID) (*gateway.Movie, error) {
	return m.FindMovieFunc(ctx, id)
}

// seatStore is a race-safe in-memory stand-in for the seat overlay plus the
// booking table, for tests that hammer Reserve concurrently. CreateWithSeats
// mirrors the repository's guarded update: all-or-nothing per request.
type seatStore struct {
	mu       sync.Mutex
	seats    map[string]entity.SeatState
	bookings map[uuid.UUID]*entity.Booking
	byBook   map[uuid.UUID][]string
}

func newSeatStore(seatIDs []string) *seatStore {
	seats := make(map[string]entity.SeatState, len(seatIDs))
	for _, id := range seatIDs {
		seats[id] = entity.SeatStateAvailable
	}
	return &seatStore{
		seats:    seats,
		bookings: make(map[uuid.UUID]*entity.Booking),
		byBook:   make(map[uuid.UUID][]string),
	}
}

func (s *seatStore) snapshot() map[string]entity.SeatState {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]entity.SeatState, len(s.seats))
	for k, v := range s.seats {
		out[k] = v
	}
	return out
}

func (s *seatStore) reserve(booking *entity.Booking, seatIDs []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var taken []string
	for _, id := range seatIDs {
		if s.seats[id] != entity.SeatStateAvailable {
			taken = append(taken, id)
		}
	}
	if len(taken) > 0 {
		return &entity.SeatConflictError{Seats: taken}
	}
	for _, id := range seatIDs {
		s.seats[id] = entity.SeatStateBooked
	}
	copied := *booking
	s.bookings[booking.ID] = &copied
	s.byBook[booking.ID] = append([]string(nil), seatIDs...)
	return nil
}

func (s *seatStore) confirm(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	booking, ok := s.bookings[id]
	if !ok || booking.Status != entity.BookingStatusPending {
		return false
	}
	booking.Status = entity.BookingStatusConfirmed
	return true
}

func (s *seatStore) release(id uuid.UUID) ([]string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	booking, ok := s.bookings[id]
	if !ok || booking.Status != entity.BookingStatusPending {
		return nil, false
	}
	booking.Status = entity.BookingStatusFailed
	seats := s.byBook[id]
	for _, seat := range seats {
		s.seats[seat] = entity.SeatStateAvailable
	}
	return seats, true
}

func (s *seatStore) find(id uuid.UUID) *entity.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()
	booking, ok := s.bookings[id]
	if !ok {
		return nil
	}
	copied := *booking
	return &copied
}

// rebuild replaces the overlay with fresh available rows, mirroring the
// delete-and-reseed a room change performs.
func (s *seatStore) rebuild(seatIDs []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	seats := make(map[string]entity.SeatState, len(seatIDs))
	for _, id := range seatIDs {
		seats[id] = entity.SeatStateAvailable
	}
	s.seats = seats
}

func (s *seatStore) bookingRepo() *mockBookingRepo {
	return &mockBookingRepo{
		CreateWithSeatsFunc: func(ctx context.Context, booking *entity.Booking, seatIDs []string, attempt *entity.PaymentAttempt) error {
			return s.reserve(booking, seatIDs)
		},
		FindByIDFunc: func(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
			return s.find(id), nil
		},
		ConfirmIfPendingFunc: func(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
			return s.confirm(id), nil
		},
		ReleaseIfPendingFunc: func(ctx context.Context, id uuid.UUID, at time.Time) ([]string, bool, error) {
			seats, released := s.release(id)
			return seats, released, nil
		},
		PendingOrderCodeExistsFunc: func(ctx context.Context, orderCode string) (bool, error) {
			return false, nil
		},
	}
}

func (s *seatStore) seatStatusRepo() *mockSeatStatusRepo {
	return &mockSeatStatusRepo{
		MapByScheduleFunc: func(ctx context.Context, scheduleID uuid.UUID) (map[string]entity.SeatState, error) {
			return s.snapshot(), nil
		},
	}
}

func testRepository(
	room *mockRoomRepo,
	schedule *mockScheduleRepo,
	seatStatus *mockSeatStatusRepo,
	booking *mockBookingRepo,
	attempt *mockPaymentAttemptRepo,
) *repository.Repository {
	return &repository.Repository{
		Room:           room,
		Schedule:       schedule,
		SeatStatus:     seatStatus,
		Booking:        booking,
		PaymentAttempt: attempt,
	}
}

func testLogger() *zap.Logger {
	return zap.NewNop()
}
