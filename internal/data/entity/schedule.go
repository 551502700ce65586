package entity

import (
	"time"

	"github.com/google/uuid"
)

type ScheduleStatus string

const (
	ScheduleStatusScheduled ScheduleStatus = "scheduled"
	ScheduleStatusCompleted ScheduleStatus = "completed"
)

type Schedule struct {
	Base
	MovieID   uuid.UUID `db:"movie_id"`
	RoomID    uuid.UUID `db:"room_id"`
	ShowDate  time.Time `db:"show_date"`
	TimeSlot  TimeSlot  `db:"time_slot"`
	BasePrice int64     `db:"base_price"` // currency minor units
}

// Status is always derived from the clock, never stored, so it cannot drift.
func (s *Schedule) Status(now time.Time) ScheduleStatus {
	if s.TimeSlot.End(s.ShowDate).Before(now) {
		return ScheduleStatusCompleted
	}
	return ScheduleStatusScheduled
}
