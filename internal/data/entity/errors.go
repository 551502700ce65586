package entity

import (
	"errors"
	"fmt"
	"strings"
)

// ErrGatewayUnknown means the payment gateway could not be consulted. It must
// never be collapsed into "not paid" - the booking stays pending.
var ErrGatewayUnknown = errors.New("payment gateway unavailable")

// NotFoundError - the referenced record does not exist.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// ValidationError - malformed or out-of-range input, caller can correct and retry.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// ConflictError - slot collision, live dependents, or invalid state transition.
type ConflictError struct {
	Reason string
}

func (e *ConflictError) Error() string {
	return e.Reason
}

// SeatConflictError names the seats that are already booked. The request is
// rejected as a whole, nothing is partially reserved.
type SeatConflictError struct {
	Seats []string
}

func (e *SeatConflictError) Error() string {
	return fmt.Sprintf("seats already booked: %s", strings.Join(e.Seats, ", "))
}

// PriceMismatchError - the client-submitted total disagrees with the
// authoritative quote, usually a stale price cache.
type PriceMismatchError struct {
	Expected int64
}

func (e *PriceMismatchError) Error() string {
	return fmt.Sprintf("submitted total does not match expected total %d", e.Expected)
}

// MethodUnavailableError - the payment method exists but is disabled.
type MethodUnavailableError struct {
	Method PaymentMethod
}

func (e *MethodUnavailableError) Error() string {
	return fmt.Sprintf("payment method %s is not available", e.Method)
}
