package adaptor

import (
	"cinema-reserve/internal/usecase"

	"go.uber.org/zap"
)

type Handler struct {
	Room     *RoomHandler
	Schedule *ScheduleHandler
	Movie    *MovieHandler
	Booking  *BookingHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Room:     NewRoomHandler(service.Room, log),
		Schedule: NewScheduleHandler(service.Schedule, log),
		Movie:    NewMovieHandler(service.Movie, log),
		Booking:  NewBookingHandler(service.Booking, service.Payment, log),
	}
}
