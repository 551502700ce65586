package entity

import "github.com/google/uuid"

type SeatState string

const (
	SeatStateAvailable SeatState = "available"
	SeatStateBooked    SeatState = "booked"
)

// SeatStatus is one overlay entry: the occupancy of a single seat for a single
// schedule. Rows are created when the schedule is created and only mutated by
// the booking transaction.
type SeatStatus struct {
	ScheduleID uuid.UUID  `db:"schedule_id"`
	SeatID     string     `db:"seat_id"`
	State      SeatState  `db:"state"`
	BookingID  *uuid.UUID `db:"booking_id"`
}
