package entity

import (
	"time"

	"github.com/google/uuid"
)

type PaymentAttemptStatus string

const (
	PaymentAttemptUnverified PaymentAttemptStatus = "unverified"
	PaymentAttemptPaid       PaymentAttemptStatus = "paid"
	PaymentAttemptNotPaid    PaymentAttemptStatus = "not_paid"
	PaymentAttemptUnknown    PaymentAttemptStatus = "unknown"
)

// PaymentAttempt tracks the reconciliation of one bank-transfer booking against
// the gateway's transaction feed.
type PaymentAttempt struct {
	Base
	BookingID      uuid.UUID            `db:"booking_id"`
	OrderCode      string               `db:"order_code"`
	ExpectedAmount int64                `db:"expected_amount"`
	Status         PaymentAttemptStatus `db:"status"`
	LastCheckedAt  *time.Time           `db:"last_checked_at"`
}
