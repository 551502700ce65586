package wire

import (
	"cinema-reserve/internal/adaptor"
	"cinema-reserve/internal/gateway"
	"cinema-reserve/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireBooking(
	r chi.Router,
	bookingHandler *adaptor.BookingHandler,
	tokens gateway.TokenValidator,
	log *zap.Logger,
) {
	// ==================== PROTECTED ROUTES (require auth) ====================
	r.Route("/api/bookings", func(r chi.Router) {
		r.Use(middleware.Auth(tokens, log))

		// POST /api/bookings - Reserve seats for a screening
		r.Post("/", bookingHandler.Reserve)

		// GET /api/bookings/{id} - View a booking with its seats
		r.Get("/{id}", bookingHandler.GetBooking)

		// POST /api/bookings/{id}/confirm - Finalize payment (cash path)
		r.Post("/{id}/confirm", bookingHandler.Confirm)

		// POST /api/bookings/{id}/payment/check - Reconcile against the bank feed
		r.Post("/{id}/payment/check", bookingHandler.CheckPayment)

		// POST /api/bookings/{id}/release - Cancel a pending booking
		r.Post("/{id}/release", bookingHandler.Release)
	})

	// ==================== ADMIN ROUTES ====================
	r.Route("/api/admin/bookings", func(r chi.Router) {
		r.Use(middleware.Auth(tokens, log))
		r.Use(middleware.Admin(log))

		// POST /api/admin/bookings/{id}/expire - Release a booking past its payment window
		r.Post("/{id}/expire", bookingHandler.Expire)
	})
}
