package entity

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusFailed    BookingStatus = "failed"
)

type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "cash"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
	PaymentMethodMomo         PaymentMethod = "momo" // reserved, currently rejected
)

type Booking struct {
	Base
	ScheduleID    uuid.UUID     `db:"schedule_id"`
	UserID        uuid.UUID     `db:"user_id"`
	SeatIDs       []string      `db:"seat_ids"` // fixed at reserve time, survives release
	TotalSeats    int           `db:"total_seats"`
	TotalPrice    int64         `db:"total_price"`
	PaymentMethod PaymentMethod `db:"payment_method"`
	Status        BookingStatus `db:"status"`
	OrderCode     *string       `db:"order_code"` // bank transfer only
	ConfirmedAt   *time.Time    `db:"confirmed_at"`
	ReleasedAt    *time.Time    `db:"released_at"`
}
