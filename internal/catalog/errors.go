package catalog

import "errors"

var (
	// ErrServiceNotFound is returned when no service has the requested id.
	ErrServiceNotFound = errors.New("service not found")

	// ErrExpressAddonNotConfigured is returned when no addon carries the
	// Express marker. Callers computing an express surcharge treat this as
	// a soft condition and proceed without the surcharge.
	ErrExpressAddonNotConfigured = errors.New("express addon not configured")

	// ErrServiceReferenced is returned when deleting a service that
	// existing bookings still reference.
	ErrServiceReferenced = errors.New("service is referenced by bookings")

	ErrInvalidName     = errors.New("name is required")
	ErrInvalidCategory = errors.New("unknown service category")
	ErrInvalidPrice    = errors.New("price must not be negative")
	ErrInvalidDuration = errors.New("duration must not be negative")
)
