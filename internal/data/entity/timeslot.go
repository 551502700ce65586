package entity

import (
	"fmt"
	"time"
)

// TimeSlot is one of eight fixed 3-hour blocks a room can be booked into per
// day. Slot 0 covers 00:00-03:00, slot 7 covers 21:00-24:00.
type TimeSlot int

const (
	SlotHours    = 3
	SlotsPerDay  = 24 / SlotHours
	LastTimeSlot = TimeSlot(SlotsPerDay - 1)
)

func (s TimeSlot) Valid() bool {
	return s >= 0 && s <= LastTimeSlot
}

// Start returns the slot's start instant on the given calendar date.
func (s TimeSlot) Start(date time.Time) time.Time {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	return day.Add(time.Duration(s) * SlotHours * time.Hour)
}

// End returns the slot's end instant on the given calendar date.
func (s TimeSlot) End(date time.Time) time.Time {
	return s.Start(date).Add(SlotHours * time.Hour)
}

// Label formats the slot as "09:00-12:00".
func (s TimeSlot) Label() string {
	start := int(s) * SlotHours
	return fmt.Sprintf("%02d:00-%02d:00", start, start+SlotHours)
}
