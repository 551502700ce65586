package wire

import (
	"cinema-reserve/internal/adaptor"
	"cinema-reserve/internal/gateway"
	"cinema-reserve/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireSchedule(
	r chi.Router,
	scheduleHandler *adaptor.ScheduleHandler,
	tokens gateway.TokenValidator,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	// GET /api/schedules - Browse screenings
	r.Get("/api/schedules", scheduleHandler.ListSchedules)

	// GET /api/schedules/{id} - Screening details
	r.Get("/api/schedules/{id}", scheduleHandler.GetSchedule)

	// GET /api/schedules/{id}/seats - Seat map with live availability
	r.Get("/api/schedules/{id}/seats", scheduleHandler.GetSeatMap)

	// ==================== ADMIN ROUTES ====================
	r.Route("/api/admin/schedules", func(r chi.Router) {
		r.Use(middleware.Auth(tokens, log))
		r.Use(middleware.Admin(log))

		// POST /api/admin/schedules - Register a screening
		r.Post("/", scheduleHandler.CreateSchedule)

		// PUT /api/admin/schedules/{id} - Amend a screening
		r.Put("/{id}", scheduleHandler.UpdateSchedule)

		// DELETE /api/admin/schedules/{id} - Remove a screening
		r.Delete("/{id}", scheduleHandler.DeleteSchedule)
	})
}
