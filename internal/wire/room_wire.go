package wire

import (
	"cinema-reserve/internal/adaptor"
	"cinema-reserve/internal/gateway"
	"cinema-reserve/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireRoom(
	r chi.Router,
	roomHandler *adaptor.RoomHandler,
	tokens gateway.TokenValidator,
	log *zap.Logger,
) {
	// ==================== ADMIN ROUTES ====================
	r.Route("/api/admin/rooms", func(r chi.Router) {
		r.Use(middleware.Auth(tokens, log))
		r.Use(middleware.Admin(log))

		// GET /api/admin/rooms - List rooms
		r.Get("/", roomHandler.ListRooms)

		// POST /api/admin/rooms - Register a room
		r.Post("/", roomHandler.CreateRoom)

		// GET /api/admin/rooms/{id} - Room details with layout
		r.Get("/{id}", roomHandler.GetRoom)

		// PUT /api/admin/rooms/{id} - Rename a room
		r.Put("/{id}", roomHandler.RenameRoom)

		// PUT /api/admin/rooms/{id}/deactivate - Take a room out of service
		r.Put("/{id}/deactivate", roomHandler.DeactivateRoom)

		// DELETE /api/admin/rooms/{id} - Remove a room
		r.Delete("/{id}", roomHandler.DeleteRoom)
	})
}
