package usecase

import (
	"context"
	"testing"
	"time"

	"cinema-reserve/internal/data/entity"
	"cinema-reserve/internal/dto/request"
	"cinema-reserve/internal/gateway"
	"cinema-reserve/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scheduleFixture struct {
	rooms     *mockRoomRepo
	schedules *mockScheduleRepo
	bookings  *mockBookingRepo
	catalog   *mockCatalogClient
	svc       ScheduleService
}

func newScheduleFixture(room *entity.Room) *scheduleFixture {
	f := &scheduleFixture{
		rooms: &mockRoomRepo{
			FindByIDFunc: func(ctx context.Context, id uuid.UUID) (*entity.Room, error) {
				if room != nil && id == room.ID {
					return room, nil
				}
				return nil, nil
			},
		},
		schedules: &mockScheduleRepo{
			SlotTakenFunc: func(ctx context.Context, roomID uuid.UUID, date time.Time, slot entity.TimeSlot, excludeID uuid.UUID) (bool, error) {
				return false, nil
			},
			CreateWithOverlayFunc: func(ctx context.Context, schedule *entity.Schedule, seatIDs []string) error {
				return nil
			},
		},
		bookings: &mockBookingRepo{},
		catalog: &mockCatalogClient{
			FindMovieFunc: func(ctx context.Context, id uuid.UUID) (*gateway.Movie, error) {
				return &gateway.Movie{ID: id, Title: "Any Movie"}, nil
			},
		},
	}

	repo := testRepository(
		f.rooms,
		f.schedules,
		&mockSeatStatusRepo{},
		f.bookings,
		&mockPaymentAttemptRepo{},
	)
	f.svc = NewScheduleService(repo, f.catalog, utils.NewKeyedMutex(), testConfig(), testLogger())
	return f
}

func activeRoom() *entity.Room {
	return &entity.Room{
		Base:   entity.Base{ID: uuid.New()},
		Name:   "Room 1",
		Layout: testLayout(),
		Status: entity.RoomStatusActive,
	}
}

func createReq(room *entity.Room) *request.CreateScheduleRequest {
	return &request.CreateScheduleRequest{
		MovieID:   uuid.New().String(),
		RoomID:    room.ID.String(),
		ShowDate:  time.Now().UTC().AddDate(0, 0, 3).Format("2006-01-02"),
		TimeSlot:  5,
		BasePrice: 75000,
	}
}

func updateReq(room *entity.Room) *request.UpdateScheduleRequest {
	req := createReq(room)
	return &request.UpdateScheduleRequest{
		MovieID:   req.MovieID,
		RoomID:    req.RoomID,
		ShowDate:  req.ShowDate,
		TimeSlot:  req.TimeSlot,
		BasePrice: req.BasePrice,
	}
}

func TestCreateSchedule(t *testing.T) {
	room := activeRoom()
	f := newScheduleFixture(room)

	var overlaySeats []string
	f.schedules.CreateWithOverlayFunc = func(ctx context.Context, schedule *entity.Schedule, seatIDs []string) error {
		overlaySeats = seatIDs
		return nil
	}

	got, err := f.svc.CreateSchedule(context.Background(), createReq(room))
	require.NoError(t, err)

	assert.Equal(t, room.ID.String(), got.RoomID)
	assert.Equal(t, "Any Movie", got.MovieTitle)
	assert.Equal(t, "15:00-18:00", got.SlotLabel)
	assert.Equal(t, entity.ScheduleStatusScheduled, got.Status)

	// The full overlay is seeded with the schedule: one row per seat.
	assert.Len(t, overlaySeats, room.Layout.Rows*room.Layout.SeatsPerRow)
}

func TestCreateScheduleSlotTaken(t *testing.T) {
	room := activeRoom()
	f := newScheduleFixture(room)

	f.schedules.SlotTakenFunc = func(ctx context.Context, roomID uuid.UUID, date time.Time, slot entity.TimeSlot, excludeID uuid.UUID) (bool, error) {
		return true, nil
	}

	_, err := f.svc.CreateSchedule(context.Background(), createReq(room))

	var conflict *entity.ConflictError
	require.ErrorAs(t, err, &conflict)
}

func TestCreateSchedulePriceBounds(t *testing.T) {
	room := activeRoom()
	f := newScheduleFixture(room)

	for _, price := range []int64{9999, 500001} {
		req := createReq(room)
		req.BasePrice = price

		_, err := f.svc.CreateSchedule(context.Background(), req)
		var validation *entity.ValidationError
		require.ErrorAs(t, err, &validation, "price %d", price)
	}
}

func TestCreateScheduleBookingWindow(t *testing.T) {
	room := activeRoom()
	f := newScheduleFixture(room)

	for _, date := range []string{
		time.Now().UTC().AddDate(0, 0, -1).Format("2006-01-02"), // yesterday
		time.Now().UTC().AddDate(0, 0, 31).Format("2006-01-02"), // beyond the horizon
	} {
		req := createReq(room)
		req.ShowDate = date

		_, err := f.svc.CreateSchedule(context.Background(), req)
		var validation *entity.ValidationError
		require.ErrorAs(t, err, &validation, "date %s", date)
	}
}

func TestCreateScheduleUnknownMovie(t *testing.T) {
	room := activeRoom()
	f := newScheduleFixture(room)

	f.catalog.FindMovieFunc = func(ctx context.Context, id uuid.UUID) (*gateway.Movie, error) {
		return nil, nil
	}

	_, err := f.svc.CreateSchedule(context.Background(), createReq(room))

	var notFound *entity.NotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestCreateScheduleInactiveRoom(t *testing.T) {
	room := activeRoom()
	room.Status = entity.RoomStatusInactive
	f := newScheduleFixture(room)

	_, err := f.svc.CreateSchedule(context.Background(), createReq(room))

	var conflict *entity.ConflictError
	require.ErrorAs(t, err, &conflict)
}

func TestUpdateScheduleRoomChangeWithBookings(t *testing.T) {
	room := activeRoom()
	f := newScheduleFixture(room)

	existing := &entity.Schedule{
		Base:      entity.Base{ID: uuid.New()},
		MovieID:   uuid.New(),
		RoomID:    uuid.New(), // a different room
		ShowDate:  time.Now().UTC().AddDate(0, 0, 3),
		TimeSlot:  2,
		BasePrice: 50000,
	}
	f.schedules.FindByIDFunc = func(ctx context.Context, id uuid.UUID) (*entity.Schedule, error) {
		return existing, nil
	}
	f.bookings.HasAnyByScheduleFunc = func(ctx context.Context, scheduleID uuid.UUID) (bool, error) {
		return true, nil
	}

	req := updateReq(room)
	_, err := f.svc.UpdateSchedule(context.Background(), existing.ID.String(), req)

	var conflict *entity.ConflictError
	require.ErrorAs(t, err, &conflict)
}

func TestUpdateScheduleRoomChangeRebuildsOverlay(t *testing.T) {
	room := activeRoom()
	f := newScheduleFixture(room)

	existing := &entity.Schedule{
		Base:      entity.Base{ID: uuid.New()},
		MovieID:   uuid.New(),
		RoomID:    uuid.New(),
		ShowDate:  time.Now().UTC().AddDate(0, 0, 3),
		TimeSlot:  2,
		BasePrice: 50000,
	}
	f.schedules.FindByIDFunc = func(ctx context.Context, id uuid.UUID) (*entity.Schedule, error) {
		return existing, nil
	}
	f.bookings.HasAnyByScheduleFunc = func(ctx context.Context, scheduleID uuid.UUID) (bool, error) {
		return false, nil
	}

	var rebuilt []string
	f.schedules.UpdateFunc = func(ctx context.Context, schedule *entity.Schedule, rebuildSeats []string) error {
		rebuilt = rebuildSeats
		return nil
	}

	req := updateReq(room)
	_, err := f.svc.UpdateSchedule(context.Background(), existing.ID.String(), req)
	require.NoError(t, err)

	assert.Len(t, rebuilt, room.Layout.Rows*room.Layout.SeatsPerRow)
}

// A reservation arriving while a room change is mid-flight must either land
// before the booking check or after the overlay rebuild. It must never end up
// as a pending booking whose seats the rebuild wiped back to available.
func TestUpdateScheduleRoomChangeExcludesReserve(t *testing.T) {
	room := activeRoom()
	existing := &entity.Schedule{
		Base:      entity.Base{ID: uuid.New()},
		MovieID:   uuid.New(),
		RoomID:    uuid.New(),
		ShowDate:  time.Now().UTC().AddDate(0, 0, 3),
		TimeSlot:  2,
		BasePrice: 50000,
	}
	oldRoom := &entity.Room{
		Base:   entity.Base{ID: existing.RoomID},
		Name:   "Room 0",
		Layout: testLayout(),
		Status: entity.RoomStatusActive,
	}
	store := newSeatStore(oldRoom.Layout.AddressableSeats())
	locks := utils.NewKeyedMutex()

	// The booking side reads its own snapshot of the schedule, like a row
	// fetched from the database would be.
	snapshot := *existing
	bookingRepo := testRepository(
		&mockRoomRepo{FindByIDFunc: func(ctx context.Context, id uuid.UUID) (*entity.Room, error) {
			return oldRoom, nil
		}},
		&mockScheduleRepo{FindByIDFunc: func(ctx context.Context, id uuid.UUID) (*entity.Schedule, error) {
			return &snapshot, nil
		}},
		store.seatStatusRepo(),
		store.bookingRepo(),
		&mockPaymentAttemptRepo{},
	)
	booking := NewBookingService(bookingRepo, NewPricingEngine(1.3), locks, testConfig(), testLogger())

	reserveDone := make(chan error, 1)
	var reservedID uuid.UUID

	schedules := &mockScheduleRepo{
		FindByIDFunc: func(ctx context.Context, id uuid.UUID) (*entity.Schedule, error) {
			return existing, nil
		},
		SlotTakenFunc: func(ctx context.Context, roomID uuid.UUID, date time.Time, slot entity.TimeSlot, excludeID uuid.UUID) (bool, error) {
			return false, nil
		},
		UpdateFunc: func(ctx context.Context, schedule *entity.Schedule, rebuildSeats []string) error {
			if rebuildSeats != nil {
				store.rebuild(rebuildSeats)
			}
			return nil
		},
	}
	bookings := &mockBookingRepo{
		HasAnyByScheduleFunc: func(ctx context.Context, scheduleID uuid.UUID) (bool, error) {
			// Fire a reservation into the gap between this check and the
			// rebuild. With the shared seat lock held it has to wait.
			go func() {
				got, err := booking.Reserve(context.Background(), uuid.New(), &request.ReserveRequest{
					ScheduleID:    existing.ID.String(),
					SeatIDs:       []string{"B2"},
					PaymentMethod: "cash",
				})
				if err == nil {
					reservedID = uuid.MustParse(got.ID)
				}
				reserveDone <- err
			}()
			time.Sleep(50 * time.Millisecond)
			return false, nil
		},
	}
	rooms := &mockRoomRepo{FindByIDFunc: func(ctx context.Context, id uuid.UUID) (*entity.Room, error) {
		if id == room.ID {
			return room, nil
		}
		return oldRoom, nil
	}}
	catalog := &mockCatalogClient{FindMovieFunc: func(ctx context.Context, id uuid.UUID) (*gateway.Movie, error) {
		return &gateway.Movie{ID: id, Title: "Any Movie"}, nil
	}}
	repo := testRepository(rooms, schedules, &mockSeatStatusRepo{}, bookings, &mockPaymentAttemptRepo{})
	svc := NewScheduleService(repo, catalog, locks, testConfig(), testLogger())

	_, err := svc.UpdateSchedule(context.Background(), existing.ID.String(), updateReq(room))
	require.NoError(t, err)
	require.NoError(t, <-reserveDone)

	// The reservation landed on the rebuilt overlay, not under it.
	assert.Equal(t, entity.SeatStateBooked, store.snapshot()["B2"])
	reserved := store.find(reservedID)
	require.NotNil(t, reserved)
	assert.Equal(t, entity.BookingStatusPending, reserved.Status)
}

func TestDeleteScheduleWithPendingBookings(t *testing.T) {
	room := activeRoom()
	f := newScheduleFixture(room)

	f.bookings.HasPendingByScheduleFunc = func(ctx context.Context, scheduleID uuid.UUID) (bool, error) {
		return true, nil
	}

	err := f.svc.DeleteSchedule(context.Background(), uuid.New().String())

	var conflict *entity.ConflictError
	require.ErrorAs(t, err, &conflict)
}

// Confirmed and failed bookings keep their schedule reference, so a delete is
// rejected up front instead of failing on the foreign key.
func TestDeleteScheduleWithBookingHistory(t *testing.T) {
	room := activeRoom()
	f := newScheduleFixture(room)

	f.bookings.HasPendingByScheduleFunc = func(ctx context.Context, scheduleID uuid.UUID) (bool, error) {
		return false, nil
	}
	f.bookings.HasAnyByScheduleFunc = func(ctx context.Context, scheduleID uuid.UUID) (bool, error) {
		return true, nil
	}

	err := f.svc.DeleteSchedule(context.Background(), uuid.New().String())

	var conflict *entity.ConflictError
	require.ErrorAs(t, err, &conflict)
}

func TestGetSeatMap(t *testing.T) {
	room := activeRoom()
	f := newScheduleFixture(room)

	schedule := &entity.Schedule{
		Base:     entity.Base{ID: uuid.New()},
		RoomID:   room.ID,
		ShowDate: time.Now().UTC().AddDate(0, 0, 1),
		TimeSlot: 5,
	}
	f.schedules.FindByIDFunc = func(ctx context.Context, id uuid.UUID) (*entity.Schedule, error) {
		return schedule, nil
	}

	repo := testRepository(
		f.rooms,
		f.schedules,
		&mockSeatStatusRepo{
			MapByScheduleFunc: func(ctx context.Context, scheduleID uuid.UUID) (map[string]entity.SeatState, error) {
				return map[string]entity.SeatState{
					"A1": entity.SeatStateBooked,
					"A2": entity.SeatStateAvailable,
				}, nil
			},
		},
		f.bookings,
		&mockPaymentAttemptRepo{},
	)
	svc := NewScheduleService(repo, f.catalog, utils.NewKeyedMutex(), testConfig(), testLogger())

	got, err := svc.GetSeatMap(context.Background(), schedule.ID.String())
	require.NoError(t, err)

	assert.Equal(t, room.Layout, got.Layout)
	assert.Equal(t, "booked", got.Seats["A1"])
	assert.Equal(t, "available", got.Seats["A2"])
}
