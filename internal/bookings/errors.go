package bookings

import (
	"errors"
	"fmt"
)

var (
	ErrBookingNotFound     = errors.New("bookings: booking not found")
	ErrSlotUnavailable     = errors.New("bookings: no capacity at requested slot")
	ErrInvalidTransition   = errors.New("bookings: invalid status transition")
	ErrStatusConflict      = errors.New("bookings: booking status changed concurrently")
	ErrMissingUser         = errors.New("bookings: user id is required")
	ErrMissingService      = errors.New("bookings: service id is required")
	ErrInvalidPickupDate   = errors.New("bookings: pickup date must be YYYY-MM-DD")
	ErrInvalidPickupTime   = errors.New("bookings: pickup time must be an hourly bucket between 08:00 and 18:00")
	ErrInvalidDeliveryMode = errors.New("bookings: delivery mode must be standard or express")
	ErrInvalidStatus       = errors.New("bookings: unknown booking status")
	ErrServiceNotBookable  = errors.New("bookings: service is an add-on and cannot be booked directly")
)

// TransitionError reports a rejected status change along with the edges the
// state machine would have allowed.
type TransitionError struct {
	From    Status
	To      Status
	Allowed []Status
}

func (e *TransitionError) Error() string {
	if len(e.Allowed) == 0 {
		return fmt.Sprintf("bookings: cannot transition from terminal status %q", e.From)
	}
	return fmt.Sprintf("bookings: cannot transition from %q to %q (allowed: %v)", e.From, e.To, e.Allowed)
}

func (e *TransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}

func newTransitionError(from, to Status) *TransitionError {
	return &TransitionError{From: from, To: to, Allowed: AllowedTransitions(from)}
}
