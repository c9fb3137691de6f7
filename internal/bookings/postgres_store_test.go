package bookings

import (
	"context"
	"errors"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v4"

	"github.com/MohammedSameer10/Automated-laundy-booking-system-2/internal/slots"
)

func newMockStore(t *testing.T) (pgxmock.PgxPoolIface, *PostgresStore) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	t.Cleanup(mock.Close)
	return mock, NewPostgresStore(mock)
}

func bookingRows() *pgxmock.Rows {
	return pgxmock.NewRows([]string{
		"id", "user_id", "service_id", "pickup_date", "pickup_time",
		"delivery_mode", "total_price", "status", "notes", "created_at",
		"name", "category",
	})
}

func addBookingRow(rows *pgxmock.Rows, id string, status Status) *pgxmock.Rows {
	return rows.AddRow(
		id, "user-1", "svc-1", "2026-03-10", "10:00",
		"standard", 15.0, string(status), "", time.Date(2026, time.March, 4, 12, 0, 0, 0, time.UTC),
		"Wash & Fold", "wash",
	)
}

func TestPostgresStoreCreateWithReservation(t *testing.T) {
	mock, store := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE time_slots").
		WithArgs("2026-03-10", "10:00").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectQuery("INSERT INTO bookings").
		WithArgs(pgxmock.AnyArg(), "user-1", "svc-1", "2026-03-10", "10:00", DeliveryStandard, 15.0, StatusPending, "").
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).
			AddRow(time.Date(2026, time.March, 4, 12, 0, 0, 0, time.UTC)))
	mock.ExpectCommit()

	b := &Booking{
		UserID:       "user-1",
		ServiceID:    "svc-1",
		PickupDate:   "2026-03-10",
		PickupTime:   "10:00",
		DeliveryMode: DeliveryStandard,
		TotalPrice:   15.0,
		Status:       StatusPending,
	}
	if err := store.CreateWithReservation(context.Background(), b); err != nil {
		t.Fatalf("create: %v", err)
	}
	if b.ID == "" {
		t.Fatal("expected id to be assigned")
	}
	if b.CreatedAt.IsZero() {
		t.Fatal("expected created_at from the database")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestPostgresStoreCreateRollsBackWhenExhausted(t *testing.T) {
	mock, store := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE time_slots").
		WithArgs("2026-03-10", "10:00").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	mock.ExpectRollback()

	b := &Booking{
		UserID:     "user-1",
		ServiceID:  "svc-1",
		PickupDate: "2026-03-10",
		PickupTime: "10:00",
		Status:     StatusPending,
	}
	err := store.CreateWithReservation(context.Background(), b)
	if !errors.Is(err, slots.ErrCapacityExhausted) {
		t.Fatalf("err = %v, want capacity exhausted", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestPostgresStoreTransitionWithRelease(t *testing.T) {
	mock, store := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery("UPDATE bookings").
		WithArgs("bk-1", StatusPending, StatusCancelled).
		WillReturnRows(pgxmock.NewRows([]string{"pickup_date", "pickup_time"}).
			AddRow("2026-03-10", "10:00"))
	mock.ExpectExec("UPDATE time_slots").
		WithArgs("2026-03-10", "10:00").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()
	mock.ExpectQuery("SELECT (.+) FROM bookings b JOIN services s").
		WithArgs("bk-1").
		WillReturnRows(addBookingRow(bookingRows(), "bk-1", StatusCancelled))

	b, err := store.TransitionStatus(context.Background(), "bk-1", StatusPending, StatusCancelled, true)
	if err != nil {
		t.Fatalf("transition: %v", err)
	}
	if b.Status != StatusCancelled {
		t.Fatalf("status = %s, want cancelled", b.Status)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestPostgresStoreTransitionWithoutRelease(t *testing.T) {
	mock, store := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery("UPDATE bookings").
		WithArgs("bk-1", StatusPending, StatusConfirmed).
		WillReturnRows(pgxmock.NewRows([]string{"pickup_date", "pickup_time"}).
			AddRow("2026-03-10", "10:00"))
	mock.ExpectCommit()
	mock.ExpectQuery("SELECT (.+) FROM bookings b JOIN services s").
		WithArgs("bk-1").
		WillReturnRows(addBookingRow(bookingRows(), "bk-1", StatusConfirmed))

	if _, err := store.TransitionStatus(context.Background(), "bk-1", StatusPending, StatusConfirmed, false); err != nil {
		t.Fatalf("transition: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestPostgresStoreTransitionConflict(t *testing.T) {
	mock, store := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery("UPDATE bookings").
		WithArgs("bk-1", StatusPending, StatusCancelled).
		WillReturnRows(pgxmock.NewRows([]string{"pickup_date", "pickup_time"}))
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("bk-1").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectRollback()

	_, err := store.TransitionStatus(context.Background(), "bk-1", StatusPending, StatusCancelled, true)
	if !errors.Is(err, ErrStatusConflict) {
		t.Fatalf("err = %v, want status conflict", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestPostgresStoreTransitionUnknownBooking(t *testing.T) {
	mock, store := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery("UPDATE bookings").
		WithArgs("nope", StatusPending, StatusCancelled).
		WillReturnRows(pgxmock.NewRows([]string{"pickup_date", "pickup_time"}))
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("nope").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectRollback()

	_, err := store.TransitionStatus(context.Background(), "nope", StatusPending, StatusCancelled, true)
	if !errors.Is(err, ErrBookingNotFound) {
		t.Fatalf("err = %v, want not found", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestPostgresStoreGetNotFound(t *testing.T) {
	mock, store := newMockStore(t)

	mock.ExpectQuery("SELECT (.+) FROM bookings b JOIN services s").
		WithArgs("missing").
		WillReturnRows(bookingRows())

	if _, err := store.Get(context.Background(), "missing"); !errors.Is(err, ErrBookingNotFound) {
		t.Fatalf("err = %v, want not found", err)
	}
}

func TestPostgresStoreListForUser(t *testing.T) {
	mock, store := newMockStore(t)

	rows := addBookingRow(bookingRows(), "bk-1", StatusPending)
	rows = addBookingRow(rows, "bk-2", StatusConfirmed)
	mock.ExpectQuery("SELECT (.+) FROM bookings b JOIN services s").
		WithArgs("user-1").
		WillReturnRows(rows)

	out, err := store.ListForUser(context.Background(), "user-1", "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("len = %d, want 2", len(out))
	}
	if out[0].ServiceName != "Wash & Fold" {
		t.Fatalf("joined service name missing, got %q", out[0].ServiceName)
	}
}

func TestPostgresStoreLatestActiveForUserNone(t *testing.T) {
	mock, store := newMockStore(t)

	mock.ExpectQuery("SELECT (.+) FROM bookings b JOIN services s").
		WithArgs("user-1").
		WillReturnRows(bookingRows())

	if _, err := store.LatestActiveForUser(context.Background(), "user-1"); !errors.Is(err, ErrBookingNotFound) {
		t.Fatalf("err = %v, want not found", err)
	}
}

func TestPostgresStoreLatestActiveOrdersByPickup(t *testing.T) {
	mock, store := newMockStore(t)

	mock.ExpectQuery(`ORDER BY b\.pickup_date DESC, b\.pickup_time DESC`).
		WithArgs("user-1").
		WillReturnRows(addBookingRow(bookingRows(), "bk-later-pickup", StatusConfirmed))

	b, err := store.LatestActiveForUser(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("latest active: %v", err)
	}
	if b.ID != "bk-later-pickup" {
		t.Fatalf("id = %q", b.ID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestPostgresStoreListWithFilters(t *testing.T) {
	mock, store := newMockStore(t)

	mock.ExpectQuery("SELECT (.+) FROM bookings b JOIN services s").
		WithArgs(StatusPending, "2026-03-01", 10).
		WillReturnRows(addBookingRow(bookingRows(), "bk-1", StatusPending))

	out, err := store.List(context.Background(), AdminFilter{
		Status:   StatusPending,
		FromDate: "2026-03-01",
		Limit:    10,
	})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("len = %d, want 1", len(out))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestPostgresStoreServiceReferenced(t *testing.T) {
	mock, store := newMockStore(t)

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("svc-1").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	referenced, err := store.ServiceReferenced(context.Background(), "svc-1")
	if err != nil {
		t.Fatalf("referenced: %v", err)
	}
	if !referenced {
		t.Fatal("want referenced = true")
	}
}
