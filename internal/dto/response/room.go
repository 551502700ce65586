package response

import (
	"time"

	"cinema-reserve/internal/data/entity"
)

type RoomResponse struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Layout    entity.SeatLayout `json:"layout"`
	Status    entity.RoomStatus `json:"status"`
	CreatedAt time.Time         `json:"created_at"`
}

func RoomToResponse(room *entity.Room) *RoomResponse {
	return &RoomResponse{
		ID:        room.ID.String(),
		Name:      room.Name,
		Layout:    room.Layout,
		Status:    room.Status,
		CreatedAt: room.CreatedAt,
	}
}
