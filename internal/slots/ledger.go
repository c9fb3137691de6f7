package slots

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Ledger is the read surface of the capacity ledger. Mutations go through
// the booking store's transactional boundary (ReserveTx/ReleaseTx on
// Postgres, the MemoryLedger methods in memory mode) so a booking write and
// its capacity change always commit together.
type Ledger interface {
	// FindAvailable returns the slot at exactly (date, bucket) when it has
	// free capacity, ErrSlotUnavailable otherwise.
	FindAvailable(ctx context.Context, date, bucket string) (*TimeSlot, error)
	// FindNextAvailable returns the earliest slot with free capacity at or
	// after fromDate, in (date, bucket) order.
	FindNextAvailable(ctx context.Context, fromDate string) (*TimeSlot, error)
	// ListAvailable returns slots with free capacity on or after fromDate,
	// optionally restricted to a single date.
	ListAvailable(ctx context.Context, fromDate, onDate string) ([]*TimeSlot, error)
	// ListRange returns slots with free capacity between from and to
	// inclusive.
	ListRange(ctx context.Context, from, to string) ([]*TimeSlot, error)
}

// MemoryLedger is a mutex-guarded Ledger with in-process reserve/release,
// used in tests and memory mode.
type MemoryLedger struct {
	mu    sync.Mutex
	slots map[string]*TimeSlot
}

// NewMemoryLedger creates an empty in-memory ledger.
func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{slots: make(map[string]*TimeSlot)}
}

func slotKey(date, bucket string) string { return date + " " + bucket }

// Provision adds or tops up a slot row. Existing rows keep their consumed
// units: only the total is raised, never the available count beyond it.
func (l *MemoryLedger) Provision(date, bucket string, capacity int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	key := slotKey(date, bucket)
	if existing, ok := l.slots[key]; ok {
		if capacity > existing.CapacityTotal {
			existing.CapacityAvailable += capacity - existing.CapacityTotal
			existing.CapacityTotal = capacity
		}
		return
	}
	l.slots[key] = &TimeSlot{
		ID:                uuid.NewString(),
		Date:              date,
		TimeBucket:        bucket,
		CapacityTotal:     capacity,
		CapacityAvailable: capacity,
	}
}

// ProvisionDays provisions every business-hour bucket for days consecutive
// days starting at from.
func (l *MemoryLedger) ProvisionDays(from time.Time, days, capacity int) {
	for d := 0; d < days; d++ {
		date := from.AddDate(0, 0, d).Format(DateFormat)
		for _, bucket := range Buckets() {
			l.Provision(date, bucket, capacity)
		}
	}
}

// Reserve atomically consumes one unit at (date, bucket). The capacity check
// happens under the lock, at mutation time.
func (l *MemoryLedger) Reserve(date, bucket string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	slot, ok := l.slots[slotKey(date, bucket)]
	if !ok {
		return ErrSlotUnavailable
	}
	if slot.CapacityAvailable <= 0 {
		return ErrCapacityExhausted
	}
	slot.CapacityAvailable--
	return nil
}

// Release returns one unit at (date, bucket), bounded by the provisioned
// total. A missing slot is a silent no-op.
func (l *MemoryLedger) Release(date, bucket string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	slot, ok := l.slots[slotKey(date, bucket)]
	if !ok {
		return
	}
	if slot.CapacityAvailable < slot.CapacityTotal {
		slot.CapacityAvailable++
	}
}

func (l *MemoryLedger) FindAvailable(ctx context.Context, date, bucket string) (*TimeSlot, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	slot, ok := l.slots[slotKey(date, bucket)]
	if !ok || slot.CapacityAvailable <= 0 {
		return nil, ErrSlotUnavailable
	}
	copied := *slot
	return &copied, nil
}

func (l *MemoryLedger) FindNextAvailable(ctx context.Context, fromDate string) (*TimeSlot, error) {
	available := l.snapshot(func(s *TimeSlot) bool {
		return s.CapacityAvailable > 0 && s.Date >= fromDate
	})
	if len(available) == 0 {
		return nil, ErrSlotUnavailable
	}
	return available[0], nil
}

func (l *MemoryLedger) ListAvailable(ctx context.Context, fromDate, onDate string) ([]*TimeSlot, error) {
	return l.snapshot(func(s *TimeSlot) bool {
		if s.CapacityAvailable <= 0 || s.Date < fromDate {
			return false
		}
		return onDate == "" || s.Date == onDate
	}), nil
}

func (l *MemoryLedger) ListRange(ctx context.Context, from, to string) ([]*TimeSlot, error) {
	return l.snapshot(func(s *TimeSlot) bool {
		return s.CapacityAvailable > 0 && s.Date >= from && s.Date <= to
	}), nil
}

// Capacity reports the current (available, total) pair for a slot; zeros
// when absent. Test helper.
func (l *MemoryLedger) Capacity(date, bucket string) (available, total int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if slot, ok := l.slots[slotKey(date, bucket)]; ok {
		return slot.CapacityAvailable, slot.CapacityTotal
	}
	return 0, 0
}

// snapshot copies matching slots in (date, bucket) order.
func (l *MemoryLedger) snapshot(match func(*TimeSlot) bool) []*TimeSlot {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []*TimeSlot
	for _, slot := range l.slots {
		if match(slot) {
			copied := *slot
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].TimeBucket < out[j].TimeBucket
	})
	return out
}
