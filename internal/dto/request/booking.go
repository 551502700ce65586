package request

// ReserveRequest submits a seat selection for a schedule. ClientTotal is the
// price the client showed the user; when present it must match the server
// quote or the reservation is rejected.
type ReserveRequest struct {
	ScheduleID    string   `json:"schedule_id" validate:"required,uuid4"`
	SeatIDs       []string `json:"seat_ids" validate:"required,min=1,dive,min=2"`
	PaymentMethod string   `json:"payment_method" validate:"required,oneof=cash bank_transfer momo"`
	ClientTotal   *int64   `json:"client_total,omitempty"`
}
