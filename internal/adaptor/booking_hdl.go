package adaptor

import (
	"encoding/json"
	"net/http"

	"cinema-reserve/internal/dto/request"
	"cinema-reserve/internal/usecase"
	"cinema-reserve/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type BookingHandler struct {
	booking usecase.BookingService
	payment usecase.PaymentService
	log     *zap.Logger
}

func NewBookingHandler(booking usecase.BookingService, payment usecase.PaymentService, log *zap.Logger) *BookingHandler {
	return &BookingHandler{
		booking: booking,
		payment: payment,
		log:     log.With(zap.String("handler", "booking")),
	}
}

// Reserve handles POST /api/bookings (protected)
func (h *BookingHandler) Reserve(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.ReserveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	booking, err := h.booking.Reserve(r.Context(), userID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "reserve seats")
		return
	}

	utils.ResponseCreated(w, "success", booking)
}

// GetBooking handles GET /api/bookings/{id} (protected)
func (h *BookingHandler) GetBooking(w http.ResponseWriter, r *http.Request) {
	bookingID := chi.URLParam(r, "id")
	if bookingID == "" {
		utils.ResponseBadRequest(w, "Booking ID is required", nil)
		return
	}

	booking, err := h.booking.GetBooking(r.Context(), bookingID)
	if err != nil {
		handleServiceError(w, h.log, err, "get booking")
		return
	}

	utils.ResponseSuccess(w, "success", booking)
}

// Confirm handles POST /api/bookings/{id}/confirm (protected)
func (h *BookingHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	bookingID := chi.URLParam(r, "id")
	if bookingID == "" {
		utils.ResponseBadRequest(w, "Booking ID is required", nil)
		return
	}

	booking, err := h.payment.Confirm(r.Context(), bookingID)
	if err != nil {
		handleServiceError(w, h.log, err, "confirm booking")
		return
	}

	utils.ResponseSuccess(w, "success", booking)
}

// CheckPayment handles POST /api/bookings/{id}/payment/check (protected)
func (h *BookingHandler) CheckPayment(w http.ResponseWriter, r *http.Request) {
	bookingID := chi.URLParam(r, "id")
	if bookingID == "" {
		utils.ResponseBadRequest(w, "Booking ID is required", nil)
		return
	}

	result, err := h.payment.CheckPayment(r.Context(), bookingID)
	if err != nil {
		handleServiceError(w, h.log, err, "check payment")
		return
	}

	utils.ResponseSuccess(w, "success", result)
}

// Release handles POST /api/bookings/{id}/release (protected)
func (h *BookingHandler) Release(w http.ResponseWriter, r *http.Request) {
	bookingID := chi.URLParam(r, "id")
	if bookingID == "" {
		utils.ResponseBadRequest(w, "Booking ID is required", nil)
		return
	}

	booking, err := h.booking.Release(r.Context(), bookingID)
	if err != nil {
		handleServiceError(w, h.log, err, "release booking")
		return
	}

	utils.ResponseSuccess(w, "success", booking)
}

// Expire handles POST /api/admin/bookings/{id}/expire (admin only)
func (h *BookingHandler) Expire(w http.ResponseWriter, r *http.Request) {
	bookingID := chi.URLParam(r, "id")
	if bookingID == "" {
		utils.ResponseBadRequest(w, "Booking ID is required", nil)
		return
	}

	booking, err := h.payment.Expire(r.Context(), bookingID)
	if err != nil {
		handleServiceError(w, h.log, err, "expire booking")
		return
	}

	utils.ResponseSuccess(w, "success", booking)
}
