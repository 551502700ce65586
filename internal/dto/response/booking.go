package response

import (
	"time"

	"cinema-reserve/internal/data/entity"
)

type BookingResponse struct {
	ID            string               `json:"id"`
	ScheduleID    string               `json:"schedule_id"`
	UserID        string               `json:"user_id"`
	Seats         []string             `json:"seats,omitempty"`
	TotalSeats    int                  `json:"total_seats"`
	TotalPrice    int64                `json:"total_price"`
	PaymentMethod entity.PaymentMethod `json:"payment_method"`
	Status        entity.BookingStatus `json:"status"`
	OrderCode     *string              `json:"order_code,omitempty"`
	CreatedAt     time.Time            `json:"created_at"`
	ConfirmedAt   *time.Time           `json:"confirmed_at,omitempty"`
	ReleasedAt    *time.Time           `json:"released_at,omitempty"`
}

// PaymentCheckResult is the three-valued outcome of one gateway check.
type PaymentCheckResult string

const (
	PaymentCheckPaid    PaymentCheckResult = "paid"
	PaymentCheckNotPaid PaymentCheckResult = "not_paid"
	PaymentCheckUnknown PaymentCheckResult = "unknown"
)

type PaymentCheckResponse struct {
	Result  PaymentCheckResult `json:"result"`
	Booking *BookingResponse   `json:"booking,omitempty"`
}

func BookingToResponse(booking *entity.Booking, seats []string) *BookingResponse {
	return &BookingResponse{
		ID:            booking.ID.String(),
		ScheduleID:    booking.ScheduleID.String(),
		UserID:        booking.UserID.String(),
		Seats:         seats,
		TotalSeats:    booking.TotalSeats,
		TotalPrice:    booking.TotalPrice,
		PaymentMethod: booking.PaymentMethod,
		Status:        booking.Status,
		OrderCode:     booking.OrderCode,
		CreatedAt:     booking.CreatedAt,
		ConfirmedAt:   booking.ConfirmedAt,
		ReleasedAt:    booking.ReleasedAt,
	}
}
