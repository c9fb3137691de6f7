package slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// db is the subset of pgxpool.Pool the ledger needs; pgxmock satisfies it
// in tests.
type db interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PostgresLedger reads slot capacity from the relational database. All
// capacity mutations run through ReserveTx/ReleaseTx inside the booking
// store's transaction.
type PostgresLedger struct {
	db db
}

// NewPostgresLedger initializes a ledger backed by a pgx pool.
func NewPostgresLedger(db db) *PostgresLedger {
	if db == nil {
		panic("slots: pgx pool required")
	}
	return &PostgresLedger{db: db}
}

const slotColumns = `id, date::text, time_bucket, capacity_total, capacity_available`

func scanSlot(row pgx.Row) (*TimeSlot, error) {
	var slot TimeSlot
	if err := row.Scan(
		&slot.ID,
		&slot.Date,
		&slot.TimeBucket,
		&slot.CapacityTotal,
		&slot.CapacityAvailable,
	); err != nil {
		return nil, err
	}
	return &slot, nil
}

func (l *PostgresLedger) FindAvailable(ctx context.Context, date, bucket string) (*TimeSlot, error) {
	query := `
		SELECT ` + slotColumns + `
		FROM time_slots
		WHERE date = $1 AND time_bucket = $2 AND capacity_available > 0
	`
	slot, err := scanSlot(l.db.QueryRow(ctx, query, date, bucket))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSlotUnavailable
		}
		return nil, fmt.Errorf("slots: find available: %w", err)
	}
	return slot, nil
}

func (l *PostgresLedger) FindNextAvailable(ctx context.Context, fromDate string) (*TimeSlot, error) {
	query := `
		SELECT ` + slotColumns + `
		FROM time_slots
		WHERE date >= $1 AND capacity_available > 0
		ORDER BY date, time_bucket
		LIMIT 1
	`
	slot, err := scanSlot(l.db.QueryRow(ctx, query, fromDate))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSlotUnavailable
		}
		return nil, fmt.Errorf("slots: find next available: %w", err)
	}
	return slot, nil
}

func (l *PostgresLedger) ListAvailable(ctx context.Context, fromDate, onDate string) ([]*TimeSlot, error) {
	query := `
		SELECT ` + slotColumns + `
		FROM time_slots
		WHERE date >= $1 AND capacity_available > 0
	`
	args := []any{fromDate}
	if onDate != "" {
		query += ` AND date = $2`
		args = append(args, onDate)
	}
	query += ` ORDER BY date, time_bucket LIMIT 100`
	return l.querySlots(ctx, query, args...)
}

func (l *PostgresLedger) ListRange(ctx context.Context, from, to string) ([]*TimeSlot, error) {
	query := `
		SELECT ` + slotColumns + `
		FROM time_slots
		WHERE date BETWEEN $1 AND $2 AND capacity_available > 0
		ORDER BY date, time_bucket
	`
	return l.querySlots(ctx, query, from, to)
}

// EnsureProvisioned creates slot rows for every business-hour bucket over
// days consecutive days starting at from. Idempotent: existing rows are
// left untouched, consumed capacity included.
func (l *PostgresLedger) EnsureProvisioned(ctx context.Context, from time.Time, days, capacity int) error {
	query := `
		INSERT INTO time_slots (id, date, time_bucket, capacity_total, capacity_available)
		VALUES ($1, $2, $3, $4, $4)
		ON CONFLICT (date, time_bucket) DO NOTHING
	`
	for d := 0; d < days; d++ {
		date := from.AddDate(0, 0, d).Format(DateFormat)
		for _, bucket := range Buckets() {
			if _, err := l.db.Exec(ctx, query, uuid.NewString(), date, bucket, capacity); err != nil {
				return fmt.Errorf("slots: provision %s %s: %w", date, bucket, err)
			}
		}
	}
	return nil
}

func (l *PostgresLedger) querySlots(ctx context.Context, query string, args ...any) ([]*TimeSlot, error) {
	rows, err := l.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("slots: list: %w", err)
	}
	defer rows.Close()

	var out []*TimeSlot
	for rows.Next() {
		slot, err := scanSlot(rows)
		if err != nil {
			return nil, fmt.Errorf("slots: scan slot: %w", err)
		}
		out = append(out, slot)
	}
	return out, rows.Err()
}

// ReserveTx consumes one unit of capacity at (date, bucket) inside the
// caller's transaction. The guard re-checks capacity at mutation time: a
// concurrent reserve that took the last unit makes this one fail rather
// than oversell.
func ReserveTx(ctx context.Context, tx pgx.Tx, date, bucket string) error {
	tag, err := tx.Exec(ctx, `
		UPDATE time_slots
		SET capacity_available = capacity_available - 1
		WHERE date = $1 AND time_bucket = $2 AND capacity_available > 0
	`, date, bucket)
	if err != nil {
		return fmt.Errorf("slots: reserve: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrCapacityExhausted
	}
	return nil
}

// ReleaseTx returns one unit of capacity at (date, bucket) inside the
// caller's transaction, never exceeding the provisioned total. A missing
// slot row is a silent no-op: slots pre-exist for any real business date.
func ReleaseTx(ctx context.Context, tx pgx.Tx, date, bucket string) error {
	_, err := tx.Exec(ctx, `
		UPDATE time_slots
		SET capacity_available = LEAST(capacity_available + 1, capacity_total)
		WHERE date = $1 AND time_bucket = $2
	`, date, bucket)
	if err != nil {
		return fmt.Errorf("slots: release: %w", err)
	}
	return nil
}
