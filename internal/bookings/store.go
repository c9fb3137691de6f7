package bookings

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MohammedSameer10/Automated-laundy-booking-system-2/internal/slots"
)

// Store persists bookings. Implementations must make CreateWithReservation
// and TransitionStatus atomic with respect to the slot ledger: a booking is
// never visible without its capacity unit consumed, and a release happens in
// the same unit of work as the status write that triggers it.
type Store interface {
	// CreateWithReservation consumes one capacity unit at the booking's
	// pickup slot and persists the booking. Returns
	// slots.ErrCapacityExhausted without persisting when the slot is full.
	CreateWithReservation(ctx context.Context, b *Booking) error

	// TransitionStatus compare-and-swaps the booking's status from→to and,
	// when release is set, returns one capacity unit to the pickup slot in
	// the same unit of work. Returns ErrStatusConflict when the stored
	// status no longer matches from, and ErrBookingNotFound when the id is
	// unknown.
	TransitionStatus(ctx context.Context, id string, from, to Status, release bool) (*Booking, error)

	Get(ctx context.Context, id string) (*Booking, error)
	GetForUser(ctx context.Context, id, userID string) (*Booking, error)
	ListForUser(ctx context.Context, userID string, status Status) ([]*Booking, error)
	// LatestActiveForUser returns the user's most recent pending or
	// confirmed booking, or ErrBookingNotFound when none exists.
	LatestActiveForUser(ctx context.Context, userID string) (*Booking, error)
	List(ctx context.Context, filter AdminFilter) ([]*Booking, error)
	// ServiceReferenced reports whether any booking points at the service.
	ServiceReferenced(ctx context.Context, serviceID string) (bool, error)
}

// MemoryStore keeps bookings in memory and drives a MemoryLedger. Used in
// tests and local development without Postgres.
type MemoryStore struct {
	mu       sync.Mutex
	bookings map[string]*Booking
	ledger   *slots.MemoryLedger
	now      func() time.Time
}

// NewMemoryStore wires a memory store to the given ledger. The ledger must
// be the same instance served to read paths so availability reflects
// reservations.
func NewMemoryStore(ledger *slots.MemoryLedger) *MemoryStore {
	return &MemoryStore{
		bookings: make(map[string]*Booking),
		ledger:   ledger,
		now:      time.Now,
	}
}

func (s *MemoryStore) CreateWithReservation(ctx context.Context, b *Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ledger.Reserve(b.PickupDate, b.PickupTime); err != nil {
		return err
	}
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = s.now()
	}
	clone := *b
	s.bookings[b.ID] = &clone
	return nil
}

func (s *MemoryStore) TransitionStatus(ctx context.Context, id string, from, to Status, release bool) (*Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.bookings[id]
	if !ok {
		return nil, ErrBookingNotFound
	}
	if b.Status != from {
		return nil, ErrStatusConflict
	}
	b.Status = to
	if release {
		s.ledger.Release(b.PickupDate, b.PickupTime)
	}
	clone := *b
	return &clone, nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.bookings[id]
	if !ok {
		return nil, ErrBookingNotFound
	}
	clone := *b
	return &clone, nil
}

func (s *MemoryStore) GetForUser(ctx context.Context, id, userID string) (*Booking, error) {
	b, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.UserID != userID {
		return nil, ErrBookingNotFound
	}
	return b, nil
}

func (s *MemoryStore) ListForUser(ctx context.Context, userID string, status Status) ([]*Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*Booking
	for _, b := range s.bookings {
		if b.UserID != userID {
			continue
		}
		if status != "" && b.Status != status {
			continue
		}
		clone := *b
		out = append(out, &clone)
	}
	sortBookings(out)
	return out, nil
}

func (s *MemoryStore) LatestActiveForUser(ctx context.Context, userID string) (*Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var latest *Booking
	for _, b := range s.bookings {
		if b.UserID != userID {
			continue
		}
		if b.Status != StatusPending && b.Status != StatusConfirmed {
			continue
		}
		if latest == nil || pickupAfter(b, latest) {
			latest = b
		}
	}
	if latest == nil {
		return nil, ErrBookingNotFound
	}
	clone := *latest
	return &clone, nil
}

// pickupAfter orders active bookings by pickup date, then pickup time. Both
// are zero-padded ISO strings, so lexical comparison matches chronology.
func pickupAfter(a, b *Booking) bool {
	if a.PickupDate != b.PickupDate {
		return a.PickupDate > b.PickupDate
	}
	return a.PickupTime > b.PickupTime
}

func (s *MemoryStore) List(ctx context.Context, filter AdminFilter) ([]*Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*Booking
	for _, b := range s.bookings {
		if filter.Status != "" && b.Status != filter.Status {
			continue
		}
		if filter.UserID != "" && b.UserID != filter.UserID {
			continue
		}
		if filter.ServiceID != "" && b.ServiceID != filter.ServiceID {
			continue
		}
		if filter.DeliveryMode != "" && b.DeliveryMode != filter.DeliveryMode {
			continue
		}
		if filter.FromDate != "" && b.PickupDate < filter.FromDate {
			continue
		}
		if filter.ToDate != "" && b.PickupDate > filter.ToDate {
			continue
		}
		clone := *b
		out = append(out, &clone)
	}
	sortBookings(out)
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (s *MemoryStore) ServiceReferenced(ctx context.Context, serviceID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, b := range s.bookings {
		if b.ServiceID == serviceID {
			return true, nil
		}
	}
	return false, nil
}

// sortBookings orders newest first, matching the Postgres read queries.
func sortBookings(bs []*Booking) {
	sort.Slice(bs, func(i, j int) bool {
		if !bs[i].CreatedAt.Equal(bs[j].CreatedAt) {
			return bs[i].CreatedAt.After(bs[j].CreatedAt)
		}
		return bs[i].ID < bs[j].ID
	})
}
