package repository

import (
	"cinema-reserve/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	Room           RoomRepository
	Schedule       ScheduleRepository
	SeatStatus     SeatStatusRepository
	Booking        BookingRepository
	PaymentAttempt PaymentAttemptRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		Room:           NewRoomRepository(db, log),
		Schedule:       NewScheduleRepository(db, log),
		SeatStatus:     NewSeatStatusRepository(db, log),
		Booking:        NewBookingRepository(db, log),
		PaymentAttempt: NewPaymentAttemptRepository(db, log),
	}
}
