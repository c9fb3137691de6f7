package slots

import "errors"

var (
	// ErrSlotUnavailable is returned when no slot with free capacity
	// exists at the requested (date, bucket). Transient from the caller's
	// view: re-query and pick another slot.
	ErrSlotUnavailable = errors.New("time slot not available")

	// ErrCapacityExhausted is returned when a reserve lost the race for
	// the last unit: the slot existed at selection time but had no
	// capacity left at mutation time.
	ErrCapacityExhausted = errors.New("slot capacity exhausted")

	ErrInvalidDate   = errors.New("invalid date, want YYYY-MM-DD")
	ErrInvalidBucket = errors.New("invalid time bucket, want HH:00 within business hours")
)
