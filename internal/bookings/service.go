package bookings

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/MohammedSameer10/Automated-laundy-booking-system-2/internal/catalog"
	"github.com/MohammedSameer10/Automated-laundy-booking-system-2/internal/observability/metrics"
	"github.com/MohammedSameer10/Automated-laundy-booking-system-2/internal/slots"
	"github.com/MohammedSameer10/Automated-laundy-booking-system-2/internal/voice"
	"github.com/MohammedSameer10/Automated-laundy-booking-system-2/pkg/logging"
)

var bookingTracer = otel.Tracer("laundry/bookings")

// Service is the reservation engine. All booking mutations go through it so
// the status machine and the slot ledger stay consistent.
type Service struct {
	store   Store
	catalog catalog.Repository
	ledger  slots.Ledger
	parser  *voice.Parser
	metrics *metrics.BookingMetrics
	logger  *logging.Logger
}

// NewService wires the engine. metrics may be nil; a nil logger falls back
// to the default logger and a nil parser to the standard rule set.
func NewService(store Store, cat catalog.Repository, ledger slots.Ledger, parser *voice.Parser, m *metrics.BookingMetrics, logger *logging.Logger) *Service {
	if store == nil {
		panic("bookings: store required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	if parser == nil {
		parser = voice.NewParser()
	}
	return &Service{
		store:   store,
		catalog: cat,
		ledger:  ledger,
		parser:  parser,
		metrics: m,
		logger:  logger,
	}
}

// Create validates the request, prices the booking, and persists it together
// with its capacity reservation. The returned booking is pending.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Booking, error) {
	ctx, span := bookingTracer.Start(ctx, "bookings.create",
		trace.WithSpanKind(trace.SpanKindInternal))
	defer span.End()

	if err := req.Validate(); err != nil {
		s.metrics.ObserveFailed("validation")
		return nil, err
	}

	svc, err := s.catalog.GetByID(ctx, req.ServiceID)
	if err != nil {
		s.metrics.ObserveFailed("unknown_service")
		return nil, err
	}
	if !svc.Bookable() {
		s.metrics.ObserveFailed("service_not_bookable")
		return nil, ErrServiceNotBookable
	}

	price, err := s.price(ctx, svc, req.DeliveryMode)
	if err != nil {
		return nil, err
	}

	b := &Booking{
		UserID:          req.UserID,
		ServiceID:       svc.ID,
		PickupDate:      req.PickupDate,
		PickupTime:      req.PickupTime,
		DeliveryMode:    req.DeliveryMode,
		TotalPrice:      price,
		Status:          StatusPending,
		Notes:           strings.TrimSpace(req.Notes),
		ServiceName:     svc.Name,
		ServiceCategory: svc.Category,
	}
	span.SetAttributes(
		attribute.String("booking.pickup_date", b.PickupDate),
		attribute.String("booking.pickup_time", b.PickupTime),
		attribute.String("booking.delivery_mode", string(b.DeliveryMode)),
	)

	if err := s.store.CreateWithReservation(ctx, b); err != nil {
		if errors.Is(err, slots.ErrCapacityExhausted) || errors.Is(err, slots.ErrSlotUnavailable) {
			s.metrics.ObserveCapacityExhausted()
			s.metrics.ObserveFailed("slot_unavailable")
			return nil, fmt.Errorf("%w: %s %s", ErrSlotUnavailable, b.PickupDate, b.PickupTime)
		}
		s.metrics.ObserveFailed("store")
		return nil, err
	}

	s.metrics.ObserveCreated(string(b.DeliveryMode))
	s.logger.Info("booking created",
		"booking_id", b.ID,
		"user_id", b.UserID,
		"service", b.ServiceName,
		"pickup", b.PickupDate+" "+b.PickupTime,
		"delivery_mode", b.DeliveryMode,
	)
	return b, nil
}

// price returns the service price plus the express surcharge when the mode
// asks for it. A missing express add-on keeps the mode without a surcharge;
// the catalog decides prices, not the engine.
func (s *Service) price(ctx context.Context, svc *catalog.Service, mode DeliveryMode) (float64, error) {
	price := svc.Price
	if mode != DeliveryExpress {
		return price, nil
	}
	addon, err := s.catalog.FindExpressAddon(ctx)
	if errors.Is(err, catalog.ErrExpressAddonNotConfigured) {
		s.logger.Warn("express requested but no express add-on configured", "service_id", svc.ID)
		return price, nil
	}
	if err != nil {
		return 0, err
	}
	return price + addon.Price, nil
}

// Cancel moves a booking to cancelled and returns its capacity unit. When
// userID is non-empty the booking must belong to that user.
func (s *Service) Cancel(ctx context.Context, id, userID string) (*Booking, error) {
	ctx, span := bookingTracer.Start(ctx, "bookings.cancel")
	defer span.End()
	span.SetAttributes(attribute.String("booking.id", id))

	b, err := s.load(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if !CanTransition(b.Status, StatusCancelled) {
		return nil, newTransitionError(b.Status, StatusCancelled)
	}

	updated, err := s.store.TransitionStatus(ctx, id, b.Status, StatusCancelled, true)
	if errors.Is(err, ErrStatusConflict) {
		// Lost the race; report against the status that won.
		return nil, s.conflictError(ctx, id, StatusCancelled)
	}
	if err != nil {
		return nil, err
	}

	s.metrics.ObserveTransition(string(b.Status), string(StatusCancelled))
	s.logger.Info("booking cancelled",
		"booking_id", updated.ID,
		"user_id", updated.UserID,
		"pickup", updated.PickupDate+" "+updated.PickupTime,
	)
	return updated, nil
}

// Transition applies an operator status change. Cancelling through this path
// releases capacity like a user cancellation.
func (s *Service) Transition(ctx context.Context, id string, to Status) (*Booking, error) {
	ctx, span := bookingTracer.Start(ctx, "bookings.transition")
	defer span.End()
	span.SetAttributes(attribute.String("booking.id", id), attribute.String("booking.to", string(to)))

	if !to.Valid() {
		return nil, ErrInvalidStatus
	}
	b, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanTransition(b.Status, to) {
		return nil, newTransitionError(b.Status, to)
	}

	release := to == StatusCancelled
	updated, err := s.store.TransitionStatus(ctx, id, b.Status, to, release)
	if errors.Is(err, ErrStatusConflict) {
		return nil, s.conflictError(ctx, id, to)
	}
	if err != nil {
		return nil, err
	}

	s.metrics.ObserveTransition(string(b.Status), string(to))
	s.logger.Info("booking status changed", "booking_id", id, "from", b.Status, "to", to)
	return updated, nil
}

// conflictError re-reads the booking after a CAS miss so the caller sees the
// transition rejected against the status that actually won.
func (s *Service) conflictError(ctx context.Context, id string, to Status) error {
	current, err := s.store.Get(ctx, id)
	if err != nil {
		return err
	}
	return newTransitionError(current.Status, to)
}

func (s *Service) load(ctx context.Context, id, userID string) (*Booking, error) {
	if userID == "" {
		return s.store.Get(ctx, id)
	}
	return s.store.GetForUser(ctx, id, userID)
}

// Get returns one booking scoped to the user when userID is non-empty.
func (s *Service) Get(ctx context.Context, id, userID string) (*Booking, error) {
	return s.load(ctx, id, userID)
}

// ListForUser returns the user's bookings, optionally filtered by status.
func (s *Service) ListForUser(ctx context.Context, userID string, status Status) ([]*Booking, error) {
	if status != "" && !status.Valid() {
		return nil, ErrInvalidStatus
	}
	return s.store.ListForUser(ctx, userID, status)
}

// List returns bookings for the operator view.
func (s *Service) List(ctx context.Context, filter AdminFilter) ([]*Booking, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, ErrInvalidStatus
	}
	return s.store.List(ctx, filter)
}

// ServiceReferenced reports whether any booking points at the service. The
// catalog delete guard calls this through its ReferenceChecker port.
func (s *Service) ServiceReferenced(ctx context.Context, serviceID string) (bool, error) {
	return s.store.ServiceReferenced(ctx, serviceID)
}
