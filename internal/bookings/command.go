package bookings

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/MohammedSameer10/Automated-laundy-booking-system-2/internal/catalog"
	"github.com/MohammedSameer10/Automated-laundy-booking-system-2/internal/slots"
	"github.com/MohammedSameer10/Automated-laundy-booking-system-2/internal/voice"
)

// Interpret parses a transcript without executing it.
func (s *Service) Interpret(text string) voice.Command {
	cmd := s.parser.Parse(text)
	s.metrics.ObserveVoiceCommand(string(cmd.Intent), cmd.Confidence)
	return cmd
}

// ExecuteCommand interprets a free-text command and carries it out on behalf
// of the user. Recoverable gaps (unknown service, missing date, full slot)
// come back as unsuccessful results with a follow-up message rather than
// errors; errors are reserved for faults the caller cannot phrase around.
func (s *Service) ExecuteCommand(ctx context.Context, userID, text string) (*CommandResult, error) {
	ctx, span := bookingTracer.Start(ctx, "bookings.execute_command")
	defer span.End()

	cmd := s.Interpret(text)
	span.SetAttributes(
		attribute.String("voice.intent", string(cmd.Intent)),
		attribute.Float64("voice.confidence", cmd.Confidence),
	)

	switch cmd.Intent {
	case voice.IntentListServices:
		return s.commandListServices(ctx, cmd)
	case voice.IntentCancel:
		return s.commandCancel(ctx, userID, cmd)
	case voice.IntentStatus:
		return s.commandStatus(ctx, userID, cmd)
	case voice.IntentBook:
		return s.commandBook(ctx, userID, cmd)
	default:
		return &CommandResult{
			Intent:  cmd.Intent,
			Parsed:  &cmd,
			Message: "Sorry, I didn't catch that. Try \"book a wash and fold for tomorrow at 2pm\", \"cancel my booking\", \"what's my booking status\", or \"what services do you offer\".",
		}, nil
	}
}

func (s *Service) commandListServices(ctx context.Context, cmd voice.Command) (*CommandResult, error) {
	services, err := s.catalog.ListBookable(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(services))
	for _, svc := range services {
		names = append(names, fmt.Sprintf("%s ($%.2f)", svc.Name, svc.Price))
	}
	return &CommandResult{
		Success:  true,
		Intent:   cmd.Intent,
		Parsed:   &cmd,
		Services: services,
		Message:  fmt.Sprintf("We offer: %s. Which one would you like to book?", strings.Join(names, ", ")),
	}, nil
}

func (s *Service) commandCancel(ctx context.Context, userID string, cmd voice.Command) (*CommandResult, error) {
	latest, err := s.store.LatestActiveForUser(ctx, userID)
	if errors.Is(err, ErrBookingNotFound) {
		return &CommandResult{
			Intent:  cmd.Intent,
			Parsed:  &cmd,
			Message: "You have no active booking to cancel.",
		}, nil
	}
	if err != nil {
		return nil, err
	}

	cancelled, err := s.Cancel(ctx, latest.ID, userID)
	if errors.Is(err, ErrInvalidTransition) {
		return &CommandResult{
			Intent:  cmd.Intent,
			Parsed:  &cmd,
			Message: "Your latest booking can no longer be cancelled.",
		}, nil
	}
	if err != nil {
		return nil, err
	}
	return &CommandResult{
		Success: true,
		Intent:  cmd.Intent,
		Parsed:  &cmd,
		Booking: cancelled,
		Message: fmt.Sprintf("Cancelled your %s pickup on %s at %s.", cancelled.ServiceName, cancelled.PickupDate, cancelled.PickupTime),
	}, nil
}

func (s *Service) commandStatus(ctx context.Context, userID string, cmd voice.Command) (*CommandResult, error) {
	all, err := s.store.ListForUser(ctx, userID, "")
	if err != nil {
		return nil, err
	}
	if len(all) == 0 {
		return &CommandResult{
			Intent:  cmd.Intent,
			Parsed:  &cmd,
			Message: "You have no bookings yet.",
		}, nil
	}
	latest := all[0]
	return &CommandResult{
		Success: true,
		Intent:  cmd.Intent,
		Parsed:  &cmd,
		Booking: latest,
		Message: fmt.Sprintf("Your %s pickup on %s at %s is %s.", latest.ServiceName, latest.PickupDate, latest.PickupTime, latest.Status),
	}, nil
}

func (s *Service) commandBook(ctx context.Context, userID string, cmd voice.Command) (*CommandResult, error) {
	// No recognizable service in the utterance defaults to the cheapest
	// wash service rather than bouncing the caller back.
	hint := catalog.Category(cmd.Service)
	if cmd.Service == "" {
		hint = catalog.CategoryWash
	}
	svc, err := s.catalog.CheapestByCategory(ctx, hint)
	if errors.Is(err, catalog.ErrServiceNotFound) {
		if cmd.Service != "" {
			return &CommandResult{
				Intent:  cmd.Intent,
				Parsed:  &cmd,
				Message: fmt.Sprintf("We don't currently offer a %s service.", cmd.Service),
			}, nil
		}
		services, lerr := s.catalog.ListBookable(ctx)
		if lerr != nil {
			return nil, lerr
		}
		return &CommandResult{
			Intent:   cmd.Intent,
			Parsed:   &cmd,
			Services: services,
			Message:  "Which service would you like? For example wash and fold, dry cleaning, or ironing.",
		}, nil
	}
	if err != nil {
		return nil, err
	}

	// Nothing is persisted until both the day and the hour are resolved.
	switch {
	case cmd.Date == "" && cmd.Time == "":
		return &CommandResult{
			Intent:  cmd.Intent,
			Parsed:  &cmd,
			Message: fmt.Sprintf("When should we pick up your %s? Tell me a day and a time, for example tomorrow at 2 pm.", svc.Name),
		}, nil
	case cmd.Date == "":
		return &CommandResult{
			Intent:  cmd.Intent,
			Parsed:  &cmd,
			Message: fmt.Sprintf("When should we pick up your %s? For example tomorrow or next Friday.", svc.Name),
		}, nil
	case cmd.Time == "":
		return &CommandResult{
			Intent:  cmd.Intent,
			Parsed:  &cmd,
			Message: fmt.Sprintf("What time works for your %s pickup on %s? For example 2 pm.", svc.Name, cmd.Date),
		}, nil
	}

	mode := DeliveryStandard
	if cmd.Express {
		mode = DeliveryExpress
	}
	req := CreateRequest{
		UserID:       userID,
		ServiceID:    svc.ID,
		PickupDate:   cmd.Date,
		PickupTime:   cmd.Time,
		DeliveryMode: mode,
		Notes:        "Booked by voice: " + cmd.Original,
	}
	booking, err := s.Create(ctx, req)
	if errors.Is(err, ErrSlotUnavailable) {
		return s.suggestAlternative(ctx, cmd, cmd.Date)
	}
	if err != nil {
		return nil, err
	}

	return &CommandResult{
		Success: true,
		Intent:  cmd.Intent,
		Parsed:  &cmd,
		Booking: booking,
		Message: fmt.Sprintf("Booked %s for pickup on %s at %s. Total $%.2f.", booking.ServiceName, booking.PickupDate, booking.PickupTime, booking.TotalPrice),
	}, nil
}

// suggestAlternative answers a full or unprovisioned slot with the next open
// one on or after the requested date.
func (s *Service) suggestAlternative(ctx context.Context, cmd voice.Command, fromDate string) (*CommandResult, error) {
	next, err := s.ledger.FindNextAvailable(ctx, fromDate)
	if err != nil && !errors.Is(err, slots.ErrSlotUnavailable) {
		return nil, err
	}
	res := &CommandResult{
		Intent: cmd.Intent,
		Parsed: &cmd,
	}
	if next == nil {
		res.Message = fmt.Sprintf("No pickup slots are open on or after %s.", fromDate)
		return res, nil
	}
	res.SuggestedSlot = next
	res.Message = fmt.Sprintf("That slot is fully booked. The next opening is %s at %s.", next.Date, next.TimeBucket)
	return res, nil
}
