// Package bookings implements the reservation engine: the single mutation
// surface that keeps booking status and slot capacity consistent. Bookings
// consume one unit of slot capacity at creation and return it exactly once,
// on cancellation.
package bookings

import (
	"strings"
	"time"

	"github.com/MohammedSameer10/Automated-laundy-booking-system-2/internal/catalog"
	"github.com/MohammedSameer10/Automated-laundy-booking-system-2/internal/slots"
	"github.com/MohammedSameer10/Automated-laundy-booking-system-2/internal/voice"
)

// Status is a booking's position in the fulfillment pipeline.
type Status string

const (
	StatusPending    Status = "pending"
	StatusConfirmed  Status = "confirmed"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// statusTransitions is the forward-only state machine. Terminal states have
// no outgoing edges; nothing ever re-enters the pipeline from them.
var statusTransitions = map[Status][]Status{
	StatusPending:    {StatusConfirmed, StatusCancelled},
	StatusConfirmed:  {StatusInProgress, StatusCancelled},
	StatusInProgress: {StatusCompleted},
	StatusCompleted:  {},
	StatusCancelled:  {},
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	_, ok := statusTransitions[s]
	return ok
}

// Terminal reports whether s has no outgoing transitions.
func (s Status) Terminal() bool {
	return len(statusTransitions[s]) == 0 && s.Valid()
}

// AllowedTransitions returns the statuses reachable from s.
func AllowedTransitions(s Status) []Status {
	return statusTransitions[s]
}

// CanTransition reports whether from→to is a permitted edge.
func CanTransition(from, to Status) bool {
	for _, allowed := range statusTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// DeliveryMode selects standard or express (surcharged) delivery.
type DeliveryMode string

const (
	DeliveryStandard DeliveryMode = "standard"
	DeliveryExpress  DeliveryMode = "express"
)

// Valid reports whether m is a known delivery mode.
func (m DeliveryMode) Valid() bool {
	return m == DeliveryStandard || m == DeliveryExpress
}

// Booking is one reservation. ServiceName and ServiceCategory are display
// fields joined from the catalog on reads.
type Booking struct {
	ID           string       `json:"id"`
	UserID       string       `json:"user_id"`
	ServiceID    string       `json:"service_id"`
	PickupDate   string       `json:"pickup_date"` // YYYY-MM-DD
	PickupTime   string       `json:"pickup_time"` // HH:00
	DeliveryMode DeliveryMode `json:"delivery_mode"`
	TotalPrice   float64      `json:"total_price"`
	Status       Status       `json:"status"`
	Notes        string       `json:"notes,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`

	ServiceName     string            `json:"service_name,omitempty"`
	ServiceCategory catalog.Category  `json:"service_category,omitempty"`
}

// Active reports whether the booking still holds its slot unit.
func (b *Booking) Active() bool {
	return b.Status != StatusCancelled
}

// CreateRequest carries the validated intent parameters for a new booking,
// whether they arrived from a form or from a parsed utterance.
type CreateRequest struct {
	UserID       string       `json:"-"`
	ServiceID    string       `json:"service_id"`
	PickupDate   string       `json:"pickup_date"`
	PickupTime   string       `json:"pickup_time"`
	DeliveryMode DeliveryMode `json:"delivery_mode"`
	Notes        string       `json:"notes"`
}

// Validate checks required fields and value shapes. The zero delivery mode
// defaults to standard.
func (r *CreateRequest) Validate() error {
	if strings.TrimSpace(r.UserID) == "" {
		return ErrMissingUser
	}
	if strings.TrimSpace(r.ServiceID) == "" {
		return ErrMissingService
	}
	if !slots.ValidDate(r.PickupDate) {
		return ErrInvalidPickupDate
	}
	if !slots.ValidBucket(r.PickupTime) {
		return ErrInvalidPickupTime
	}
	if r.DeliveryMode == "" {
		r.DeliveryMode = DeliveryStandard
	}
	if !r.DeliveryMode.Valid() {
		return ErrInvalidDeliveryMode
	}
	return nil
}

// AdminFilter narrows the operator booking listing.
type AdminFilter struct {
	Status       Status
	UserID       string
	ServiceID    string
	DeliveryMode DeliveryMode
	FromDate     string
	ToDate       string
	Limit        int
}

// CommandResult is the outcome of interpreting and executing one free-text
// command. Success is false for clarification, suggestion, and help turns;
// those carry a message for the follow-up dialogue rather than an error.
type CommandResult struct {
	Success       bool               `json:"success"`
	Intent        voice.Intent       `json:"intent,omitempty"`
	Message       string             `json:"message"`
	Parsed        *voice.Command     `json:"parsed,omitempty"`
	Booking       *Booking           `json:"booking,omitempty"`
	Services      []*catalog.Service `json:"services,omitempty"`
	SuggestedSlot *slots.TimeSlot    `json:"suggested_slot,omitempty"`
}
