package response

import (
	"time"

	"cinema-reserve/internal/data/entity"
)

type ScheduleResponse struct {
	ID         string                `json:"id"`
	MovieID    string                `json:"movie_id"`
	MovieTitle string                `json:"movie_title,omitempty"`
	RoomID     string                `json:"room_id"`
	RoomName   string                `json:"room_name,omitempty"`
	ShowDate   string                `json:"show_date"`
	TimeSlot   int                   `json:"time_slot"`
	SlotLabel  string                `json:"slot_label"`
	BasePrice  int64                 `json:"base_price"`
	Status     entity.ScheduleStatus `json:"status"`
	CreatedAt  time.Time             `json:"created_at"`
}

// SeatMapResponse is the read path for the UI seat map: seat id -> state,
// plus the geometry the client needs to draw the room.
type SeatMapResponse struct {
	ScheduleID string            `json:"schedule_id"`
	Layout     entity.SeatLayout `json:"layout"`
	Seats      map[string]string `json:"seats"`
}

func ScheduleToResponse(schedule *entity.Schedule, movieTitle, roomName string, now time.Time) *ScheduleResponse {
	return &ScheduleResponse{
		ID:         schedule.ID.String(),
		MovieID:    schedule.MovieID.String(),
		MovieTitle: movieTitle,
		RoomID:     schedule.RoomID.String(),
		RoomName:   roomName,
		ShowDate:   schedule.ShowDate.Format("2006-01-02"),
		TimeSlot:   int(schedule.TimeSlot),
		SlotLabel:  schedule.TimeSlot.Label(),
		BasePrice:  schedule.BasePrice,
		Status:     schedule.Status(now),
		CreatedAt:  schedule.CreatedAt,
	}
}
