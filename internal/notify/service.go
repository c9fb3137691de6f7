// Package notify sends customer-facing emails for booking lifecycle events.
package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/MohammedSameer10/Automated-laundy-booking-system-2/internal/bookings"
	"github.com/MohammedSameer10/Automated-laundy-booking-system-2/pkg/logging"
)

// Service formats and sends booking notifications. A nil email sender turns
// the service into a no-op so callers never need to branch.
type Service struct {
	email  EmailSender
	logger *logging.Logger
}

// NewService creates a notification service.
func NewService(email EmailSender, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{email: email, logger: logger}
}

// BookingCreated emails the customer a confirmation for a new booking.
// Notification failures are logged, never propagated: a booking stands
// whether or not its email went out.
func (s *Service) BookingCreated(ctx context.Context, b *bookings.Booking, toEmail, toName string) {
	if s == nil || s.email == nil || toEmail == "" {
		return
	}

	var body strings.Builder
	fmt.Fprintf(&body, "Hi %s,\n\n", displayName(toName))
	fmt.Fprintf(&body, "Your %s booking is confirmed for pickup on %s at %s.\n", b.ServiceName, b.PickupDate, b.PickupTime)
	if b.DeliveryMode == bookings.DeliveryExpress {
		body.WriteString("Express delivery is included.\n")
	}
	fmt.Fprintf(&body, "Total: $%.2f\n\n", b.TotalPrice)
	fmt.Fprintf(&body, "Booking reference: %s\n", b.ID)

	msg := EmailMessage{
		To:      toEmail,
		ToName:  toName,
		Subject: fmt.Sprintf("Pickup booked: %s on %s", b.ServiceName, b.PickupDate),
		Body:    body.String(),
	}
	if err := s.email.Send(ctx, msg); err != nil {
		s.logger.Error("booking confirmation email failed", "booking_id", b.ID, "error", err)
		return
	}
	s.logger.Info("booking confirmation email sent", "booking_id", b.ID, "to", toEmail)
}

// BookingCancelled emails the customer after a cancellation.
func (s *Service) BookingCancelled(ctx context.Context, b *bookings.Booking, toEmail, toName string) {
	if s == nil || s.email == nil || toEmail == "" {
		return
	}

	var body strings.Builder
	fmt.Fprintf(&body, "Hi %s,\n\n", displayName(toName))
	fmt.Fprintf(&body, "Your %s pickup on %s at %s has been cancelled.\n", b.ServiceName, b.PickupDate, b.PickupTime)
	body.WriteString("The slot has been released; you can book again any time.\n\n")
	fmt.Fprintf(&body, "Booking reference: %s\n", b.ID)

	msg := EmailMessage{
		To:      toEmail,
		ToName:  toName,
		Subject: fmt.Sprintf("Booking cancelled: %s on %s", b.ServiceName, b.PickupDate),
		Body:    body.String(),
	}
	if err := s.email.Send(ctx, msg); err != nil {
		s.logger.Error("cancellation email failed", "booking_id", b.ID, "error", err)
		return
	}
	s.logger.Info("cancellation email sent", "booking_id", b.ID, "to", toEmail)
}

// BookingStatusChanged emails the customer when an operator moves the
// booking along the pipeline.
func (s *Service) BookingStatusChanged(ctx context.Context, b *bookings.Booking, toEmail, toName string) {
	if s == nil || s.email == nil || toEmail == "" {
		return
	}
	if b.Status == bookings.StatusCancelled {
		s.BookingCancelled(ctx, b, toEmail, toName)
		return
	}

	var body strings.Builder
	fmt.Fprintf(&body, "Hi %s,\n\n", displayName(toName))
	fmt.Fprintf(&body, "Your %s order is now %s.\n\n", b.ServiceName, statusPhrase(b.Status))
	fmt.Fprintf(&body, "Booking reference: %s\n", b.ID)

	msg := EmailMessage{
		To:      toEmail,
		ToName:  toName,
		Subject: fmt.Sprintf("Order update: %s", statusPhrase(b.Status)),
		Body:    body.String(),
	}
	if err := s.email.Send(ctx, msg); err != nil {
		s.logger.Error("status update email failed", "booking_id", b.ID, "status", b.Status, "error", err)
		return
	}
	s.logger.Info("status update email sent", "booking_id", b.ID, "status", b.Status, "to", toEmail)
}

func displayName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "there"
	}
	return name
}

func statusPhrase(status bookings.Status) string {
	switch status {
	case bookings.StatusConfirmed:
		return "confirmed"
	case bookings.StatusInProgress:
		return "being processed"
	case bookings.StatusCompleted:
		return "complete"
	default:
		return string(status)
	}
}
