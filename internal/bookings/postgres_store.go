package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/MohammedSameer10/Automated-laundy-booking-system-2/internal/slots"
)

// db is the pgx surface the store needs. Satisfied by *pgxpool.Pool and by
// pgxmock in tests.
type db interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore persists bookings in Postgres. Writes that touch capacity
// run in a single transaction with the time_slots mutation.
type PostgresStore struct {
	pool db
}

// NewPostgresStore wires a store to the given pool.
func NewPostgresStore(pool db) *PostgresStore {
	if pool == nil {
		panic("bookings: pgx pool required")
	}
	return &PostgresStore{pool: pool}
}

const bookingColumns = `b.id, b.user_id, b.service_id, b.pickup_date::text, b.pickup_time,
	b.delivery_mode, b.total_price, b.status, b.notes, b.created_at,
	s.name, s.category`

const bookingFrom = ` FROM bookings b JOIN services s ON s.id = b.service_id`

func scanBooking(row pgx.Row) (*Booking, error) {
	var b Booking
	var createdAt time.Time
	err := row.Scan(
		&b.ID, &b.UserID, &b.ServiceID, &b.PickupDate, &b.PickupTime,
		&b.DeliveryMode, &b.TotalPrice, &b.Status, &b.Notes, &createdAt,
		&b.ServiceName, &b.ServiceCategory,
	)
	if err != nil {
		return nil, err
	}
	b.CreatedAt = createdAt
	return &b, nil
}

func (s *PostgresStore) CreateWithReservation(ctx context.Context, b *Booking) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("bookings: begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := slots.ReserveTx(ctx, tx, b.PickupDate, b.PickupTime); err != nil {
		return err
	}

	row := tx.QueryRow(ctx, `
		INSERT INTO bookings (id, user_id, service_id, pickup_date, pickup_time, delivery_mode, total_price, status, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at
	`, b.ID, b.UserID, b.ServiceID, b.PickupDate, b.PickupTime, b.DeliveryMode, b.TotalPrice, b.Status, b.Notes)
	if err := row.Scan(&b.CreatedAt); err != nil {
		return fmt.Errorf("bookings: insert booking: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("bookings: commit create: %w", err)
	}
	return nil
}

func (s *PostgresStore) TransitionStatus(ctx context.Context, id string, from, to Status, release bool) (*Booking, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("bookings: begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	// Compare-and-swap on the stored status. A concurrent transition makes
	// the guard miss, so the release below can never run twice for one
	// booking.
	var pickupDate, pickupTime string
	row := tx.QueryRow(ctx, `
		UPDATE bookings
		SET status = $3
		WHERE id = $1 AND status = $2
		RETURNING pickup_date::text, pickup_time
	`, id, from, to)
	if err := row.Scan(&pickupDate, &pickupTime); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, s.classifyTransitionMiss(ctx, id)
		}
		return nil, fmt.Errorf("bookings: update status: %w", err)
	}

	if release {
		if err := slots.ReleaseTx(ctx, tx, pickupDate, pickupTime); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("bookings: commit transition: %w", err)
	}
	return s.Get(ctx, id)
}

// classifyTransitionMiss distinguishes a missing booking from a concurrent
// status change after the CAS update matched no row.
func (s *PostgresStore) classifyTransitionMiss(ctx context.Context, id string) error {
	var exists bool
	row := s.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM bookings WHERE id = $1)`, id)
	if err := row.Scan(&exists); err != nil {
		return fmt.Errorf("bookings: check booking exists: %w", err)
	}
	if !exists {
		return ErrBookingNotFound
	}
	return ErrStatusConflict
}

func (s *PostgresStore) Get(ctx context.Context, id string) (*Booking, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+bookingColumns+bookingFrom+` WHERE b.id = $1`, id)
	b, err := scanBooking(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("bookings: get booking: %w", err)
	}
	return b, nil
}

func (s *PostgresStore) GetForUser(ctx context.Context, id, userID string) (*Booking, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+bookingColumns+bookingFrom+` WHERE b.id = $1 AND b.user_id = $2`, id, userID)
	b, err := scanBooking(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("bookings: get booking for user: %w", err)
	}
	return b, nil
}

func (s *PostgresStore) ListForUser(ctx context.Context, userID string, status Status) ([]*Booking, error) {
	query := `SELECT ` + bookingColumns + bookingFrom + ` WHERE b.user_id = $1`
	args := []any{userID}
	if status != "" {
		query += ` AND b.status = $2`
		args = append(args, status)
	}
	query += ` ORDER BY b.created_at DESC, b.id`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("bookings: list bookings for user: %w", err)
	}
	defer rows.Close()
	return collectBookings(rows)
}

func (s *PostgresStore) LatestActiveForUser(ctx context.Context, userID string) (*Booking, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+bookingColumns+bookingFrom+`
		WHERE b.user_id = $1 AND b.status IN ('pending', 'confirmed')
		ORDER BY b.pickup_date DESC, b.pickup_time DESC
		LIMIT 1
	`, userID)
	b, err := scanBooking(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("bookings: latest active booking: %w", err)
	}
	return b, nil
}

func (s *PostgresStore) List(ctx context.Context, filter AdminFilter) ([]*Booking, error) {
	query := `SELECT ` + bookingColumns + bookingFrom + ` WHERE 1=1`
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if filter.Status != "" {
		query += ` AND b.status = ` + arg(filter.Status)
	}
	if filter.UserID != "" {
		query += ` AND b.user_id = ` + arg(filter.UserID)
	}
	if filter.ServiceID != "" {
		query += ` AND b.service_id = ` + arg(filter.ServiceID)
	}
	if filter.DeliveryMode != "" {
		query += ` AND b.delivery_mode = ` + arg(filter.DeliveryMode)
	}
	if filter.FromDate != "" {
		query += ` AND b.pickup_date >= ` + arg(filter.FromDate)
	}
	if filter.ToDate != "" {
		query += ` AND b.pickup_date <= ` + arg(filter.ToDate)
	}
	query += ` ORDER BY b.created_at DESC, b.id`
	if filter.Limit > 0 {
		query += ` LIMIT ` + arg(filter.Limit)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("bookings: list bookings: %w", err)
	}
	defer rows.Close()
	return collectBookings(rows)
}

func (s *PostgresStore) ServiceReferenced(ctx context.Context, serviceID string) (bool, error) {
	var exists bool
	row := s.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM bookings WHERE service_id = $1)`, serviceID)
	if err := row.Scan(&exists); err != nil {
		return false, fmt.Errorf("bookings: check service referenced: %w", err)
	}
	return exists, nil
}

func collectBookings(rows pgx.Rows) ([]*Booking, error) {
	var out []*Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("bookings: scan booking: %w", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("bookings: iterate bookings: %w", err)
	}
	return out, nil
}
