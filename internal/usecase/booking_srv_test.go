package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"cinema-reserve/internal/data/entity"
	"cinema-reserve/internal/dto/request"
	"cinema-reserve/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *utils.Config {
	return &utils.Config{
		Booking: utils.BookingConfig{
			EnabledMethods:       []string{"cash", "bank_transfer"},
			PaymentWindowMinutes: 30,
			MinBasePrice:         10000,
			MaxBasePrice:         500000,
			MinDaysAhead:         0,
			MaxDaysAhead:         30,
		},
		Gateway: utils.GatewayConfig{LookbackMinutes: 120},
		Pricing: utils.PricingConfig{VIPMultiplier: 1.3},
	}
}

func testLayout() entity.SeatLayout {
	return entity.SeatLayout{Rows: 8, SeatsPerRow: 10, VIPRows: []int{0, 1}}
}

// upcomingSchedule returns a screening tomorrow so it is never completed.
func upcomingSchedule(roomID uuid.UUID, basePrice int64) *entity.Schedule {
	return &entity.Schedule{
		Base:      entity.Base{ID: uuid.New(), CreatedAt: time.Now(), UpdatedAt: time.Now()},
		MovieID:   uuid.New(),
		RoomID:    roomID,
		ShowDate:  time.Now().AddDate(0, 0, 1),
		TimeSlot:  entity.TimeSlot(5),
		BasePrice: basePrice,
	}
}

func roomFor(schedule *entity.Schedule, layout entity.SeatLayout) *entity.Room {
	return &entity.Room{
		Base:   entity.Base{ID: schedule.RoomID, CreatedAt: time.Now(), UpdatedAt: time.Now()},
		Name:   "Room 1",
		Layout: layout,
		Status: entity.RoomStatusActive,
	}
}

func bookingServiceWith(store *seatStore, schedule *entity.Schedule, room *entity.Room) BookingService {
	return bookingServiceUsing(store, schedule, room, store.bookingRepo())
}

func bookingServiceUsing(store *seatStore, schedule *entity.Schedule, room *entity.Room, bookings *mockBookingRepo) BookingService {
	repo := testRepository(
		&mockRoomRepo{FindByIDFunc: func(ctx context.Context, id uuid.UUID) (*entity.Room, error) {
			return room, nil
		}},
		&mockScheduleRepo{FindByIDFunc: func(ctx context.Context, id uuid.UUID) (*entity.Schedule, error) {
			return schedule, nil
		}},
		store.seatStatusRepo(),
		bookings,
		&mockPaymentAttemptRepo{},
	)
	return NewBookingService(repo, NewPricingEngine(1.3), utils.NewKeyedMutex(), testConfig(), testLogger())
}

func TestReserveCashBooking(t *testing.T) {
	schedule := upcomingSchedule(uuid.New(), 75000)
	room := roomFor(schedule, testLayout())
	store := newSeatStore(room.Layout.AddressableSeats())
	svc := bookingServiceWith(store, schedule, room)

	got, err := svc.Reserve(context.Background(), uuid.New(), &request.ReserveRequest{
		ScheduleID:    schedule.ID.String(),
		SeatIDs:       []string{"E4", "E3"},
		PaymentMethod: "cash",
	})
	require.NoError(t, err)

	assert.Equal(t, entity.BookingStatusPending, got.Status)
	assert.Equal(t, []string{"E3", "E4"}, got.Seats) // canonical order
	assert.Equal(t, int64(150000), got.TotalPrice)
	assert.Nil(t, got.OrderCode)

	seats := store.snapshot()
	assert.Equal(t, entity.SeatStateBooked, seats["E3"])
	assert.Equal(t, entity.SeatStateBooked, seats["E4"])
}

func TestReserveVIPSeatsPriced(t *testing.T) {
	schedule := upcomingSchedule(uuid.New(), 75000)
	room := roomFor(schedule, testLayout())
	store := newSeatStore(room.Layout.AddressableSeats())
	svc := bookingServiceWith(store, schedule, room)

	// A1 and B1 sit in VIP rows, E1 does not.
	got, err := svc.Reserve(context.Background(), uuid.New(), &request.ReserveRequest{
		ScheduleID:    schedule.ID.String(),
		SeatIDs:       []string{"A1", "B1", "E1"},
		PaymentMethod: "cash",
	})
	require.NoError(t, err)

	// 97500 + 97500 + 75000
	assert.Equal(t, int64(270000), got.TotalPrice)
}

func TestReserveBankTransferAllocatesOrderCode(t *testing.T) {
	schedule := upcomingSchedule(uuid.New(), 50000)
	room := roomFor(schedule, testLayout())
	store := newSeatStore(room.Layout.AddressableSeats())
	svc := bookingServiceWith(store, schedule, room)

	got, err := svc.Reserve(context.Background(), uuid.New(), &request.ReserveRequest{
		ScheduleID:    schedule.ID.String(),
		SeatIDs:       []string{"C5"},
		PaymentMethod: "bank_transfer",
	})
	require.NoError(t, err)

	require.NotNil(t, got.OrderCode)
	assert.Len(t, *got.OrderCode, 6)
}

func TestReserveOrderCodeCollisionRetries(t *testing.T) {
	schedule := upcomingSchedule(uuid.New(), 50000)
	room := roomFor(schedule, testLayout())
	store := newSeatStore(room.Layout.AddressableSeats())

	bookings := store.bookingRepo()
	var checked []string
	bookings.PendingOrderCodeExistsFunc = func(ctx context.Context, orderCode string) (bool, error) {
		checked = append(checked, orderCode)
		// The first two candidates collide with pending bookings.
		return len(checked) < 3, nil
	}
	svc := bookingServiceUsing(store, schedule, room, bookings)

	got, err := svc.Reserve(context.Background(), uuid.New(), &request.ReserveRequest{
		ScheduleID:    schedule.ID.String(),
		SeatIDs:       []string{"C5"},
		PaymentMethod: "bank_transfer",
	})
	require.NoError(t, err)

	require.Len(t, checked, 3)
	require.NotNil(t, got.OrderCode)
	assert.Equal(t, checked[2], *got.OrderCode)
}

func TestReserveOrderCodeExhaustion(t *testing.T) {
	schedule := upcomingSchedule(uuid.New(), 50000)
	room := roomFor(schedule, testLayout())
	store := newSeatStore(room.Layout.AddressableSeats())

	bookings := store.bookingRepo()
	var checks int
	bookings.PendingOrderCodeExistsFunc = func(ctx context.Context, orderCode string) (bool, error) {
		checks++
		return true, nil
	}
	svc := bookingServiceUsing(store, schedule, room, bookings)

	_, err := svc.Reserve(context.Background(), uuid.New(), &request.ReserveRequest{
		ScheduleID:    schedule.ID.String(),
		SeatIDs:       []string{"C5"},
		PaymentMethod: "bank_transfer",
	})

	var conflict *entity.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, 5, checks)

	// Code allocation happens before the reserve transaction, nothing flipped.
	assert.Equal(t, entity.SeatStateAvailable, store.snapshot()["C5"])
}

func TestReserveSeatConflictNamesSeats(t *testing.T) {
	schedule := upcomingSchedule(uuid.New(), 50000)
	room := roomFor(schedule, testLayout())
	store := newSeatStore(room.Layout.AddressableSeats())
	svc := bookingServiceWith(store, schedule, room)

	_, err := svc.Reserve(context.Background(), uuid.New(), &request.ReserveRequest{
		ScheduleID:    schedule.ID.String(),
		SeatIDs:       []string{"A1", "A2"},
		PaymentMethod: "cash",
	})
	require.NoError(t, err)

	_, err = svc.Reserve(context.Background(), uuid.New(), &request.ReserveRequest{
		ScheduleID:    schedule.ID.String(),
		SeatIDs:       []string{"A2", "A3"},
		PaymentMethod: "cash",
	})
	var conflict *entity.SeatConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, []string{"A2"}, conflict.Seats)

	// The free seat of the rejected pair stays free.
	assert.Equal(t, entity.SeatStateAvailable, store.snapshot()["A3"])
}

func TestReservePriceMismatch(t *testing.T) {
	schedule := upcomingSchedule(uuid.New(), 75000)
	room := roomFor(schedule, testLayout())
	store := newSeatStore(room.Layout.AddressableSeats())
	svc := bookingServiceWith(store, schedule, room)

	stale := int64(140000)
	_, err := svc.Reserve(context.Background(), uuid.New(), &request.ReserveRequest{
		ScheduleID:    schedule.ID.String(),
		SeatIDs:       []string{"E3", "E4"},
		PaymentMethod: "cash",
		ClientTotal:   &stale,
	})

	var mismatch *entity.PriceMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, int64(150000), mismatch.Expected)

	// Nothing reserved on a rejected request.
	assert.Equal(t, entity.SeatStateAvailable, store.snapshot()["E3"])
}

func TestReserveDisabledMethodRejected(t *testing.T) {
	schedule := upcomingSchedule(uuid.New(), 50000)
	room := roomFor(schedule, testLayout())
	store := newSeatStore(room.Layout.AddressableSeats())
	svc := bookingServiceWith(store, schedule, room)

	_, err := svc.Reserve(context.Background(), uuid.New(), &request.ReserveRequest{
		ScheduleID:    schedule.ID.String(),
		SeatIDs:       []string{"C5"},
		PaymentMethod: "momo",
	})

	var unavailable *entity.MethodUnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.Equal(t, entity.PaymentMethodMomo, unavailable.Method)
}

func TestReserveRejectsDuplicateSeats(t *testing.T) {
	schedule := upcomingSchedule(uuid.New(), 50000)
	room := roomFor(schedule, testLayout())
	store := newSeatStore(room.Layout.AddressableSeats())
	svc := bookingServiceWith(store, schedule, room)

	_, err := svc.Reserve(context.Background(), uuid.New(), &request.ReserveRequest{
		ScheduleID:    schedule.ID.String(),
		SeatIDs:       []string{"C5", "C5"},
		PaymentMethod: "cash",
	})

	var validation *entity.ValidationError
	require.ErrorAs(t, err, &validation)
}

func TestReserveRejectsUnknownSeat(t *testing.T) {
	schedule := upcomingSchedule(uuid.New(), 50000)
	room := roomFor(schedule, testLayout())
	store := newSeatStore(room.Layout.AddressableSeats())
	svc := bookingServiceWith(store, schedule, room)

	// Row Z does not exist in an 8-row layout.
	_, err := svc.Reserve(context.Background(), uuid.New(), &request.ReserveRequest{
		ScheduleID:    schedule.ID.String(),
		SeatIDs:       []string{"Z9"},
		PaymentMethod: "cash",
	})

	var validation *entity.ValidationError
	require.ErrorAs(t, err, &validation)
}

func TestReserveRejectsCompletedScreening(t *testing.T) {
	schedule := upcomingSchedule(uuid.New(), 50000)
	schedule.ShowDate = time.Now().AddDate(0, 0, -2)
	room := roomFor(schedule, testLayout())
	store := newSeatStore(room.Layout.AddressableSeats())
	svc := bookingServiceWith(store, schedule, room)

	_, err := svc.Reserve(context.Background(), uuid.New(), &request.ReserveRequest{
		ScheduleID:    schedule.ID.String(),
		SeatIDs:       []string{"C5"},
		PaymentMethod: "cash",
	})

	var validation *entity.ValidationError
	require.ErrorAs(t, err, &validation)
}

// Concurrent requests for the same seats: exactly one wins, the seats end up
// booked exactly once, losers get the conflict error.
func TestReserveConcurrentSingleWinner(t *testing.T) {
	schedule := upcomingSchedule(uuid.New(), 60000)
	room := roomFor(schedule, testLayout())
	store := newSeatStore(room.Layout.AddressableSeats())
	svc := bookingServiceWith(store, schedule, room)

	const workers = 16
	var wg sync.WaitGroup
	errs := make([]error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Reserve(context.Background(), uuid.New(), &request.ReserveRequest{
				ScheduleID:    schedule.ID.String(),
				SeatIDs:       []string{"D4", "D5"},
				PaymentMethod: "cash",
			})
		}(i)
	}
	wg.Wait()

	var wins, conflicts int
	for _, err := range errs {
		switch {
		case err == nil:
			wins++
		default:
			var conflict *entity.SeatConflictError
			require.ErrorAs(t, err, &conflict)
			conflicts++
		}
	}

	assert.Equal(t, 1, wins)
	assert.Equal(t, workers-1, conflicts)
	assert.Equal(t, entity.SeatStateBooked, store.snapshot()["D4"])
	assert.Equal(t, entity.SeatStateBooked, store.snapshot()["D5"])
}

func TestReleaseFreesSeatsForRebooking(t *testing.T) {
	schedule := upcomingSchedule(uuid.New(), 60000)
	room := roomFor(schedule, testLayout())
	store := newSeatStore(room.Layout.AddressableSeats())
	svc := bookingServiceWith(store, schedule, room)

	first, err := svc.Reserve(context.Background(), uuid.New(), &request.ReserveRequest{
		ScheduleID:    schedule.ID.String(),
		SeatIDs:       []string{"F7"},
		PaymentMethod: "cash",
	})
	require.NoError(t, err)

	released, err := svc.Release(context.Background(), first.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.BookingStatusFailed, released.Status)
	assert.Equal(t, entity.SeatStateAvailable, store.snapshot()["F7"])

	// Releasing again changes nothing.
	again, err := svc.Release(context.Background(), first.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.BookingStatusFailed, again.Status)

	// The seat is reservable by someone else now.
	second, err := svc.Reserve(context.Background(), uuid.New(), &request.ReserveRequest{
		ScheduleID:    schedule.ID.String(),
		SeatIDs:       []string{"F7"},
		PaymentMethod: "cash",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"F7"}, second.Seats)
}

// The seat set is an attribute of the booking itself: it must still be
// reported after the overlay rows were freed by a release.
func TestGetBookingKeepsSeatsAfterRelease(t *testing.T) {
	schedule := upcomingSchedule(uuid.New(), 60000)
	room := roomFor(schedule, testLayout())
	store := newSeatStore(room.Layout.AddressableSeats())
	svc := bookingServiceWith(store, schedule, room)

	first, err := svc.Reserve(context.Background(), uuid.New(), &request.ReserveRequest{
		ScheduleID:    schedule.ID.String(),
		SeatIDs:       []string{"D2", "D1"},
		PaymentMethod: "cash",
	})
	require.NoError(t, err)

	_, err = svc.Release(context.Background(), first.ID)
	require.NoError(t, err)

	got, err := svc.GetBooking(context.Background(), first.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.BookingStatusFailed, got.Status)
	assert.Equal(t, []string{"D1", "D2"}, got.Seats)
	assert.Equal(t, entity.SeatStateAvailable, store.snapshot()["D1"])
}

func TestGetBookingNotFound(t *testing.T) {
	schedule := upcomingSchedule(uuid.New(), 60000)
	room := roomFor(schedule, testLayout())
	store := newSeatStore(room.Layout.AddressableSeats())
	svc := bookingServiceWith(store, schedule, room)

	_, err := svc.GetBooking(context.Background(), uuid.New().String())

	var notFound *entity.NotFoundError
	require.ErrorAs(t, err, &notFound)
}
