package slots

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestHandler(t *testing.T) (*Handler, *MemoryLedger) {
	t.Helper()
	ledger := NewMemoryLedger()
	ledger.Provision("2026-03-05", "09:00", 2)
	ledger.Provision("2026-03-05", "10:00", 1)
	ledger.Provision("2026-03-06", "09:00", 3)

	h := NewHandler(ledger, nil)
	h.now = func() time.Time {
		return time.Date(2026, time.March, 4, 8, 0, 0, 0, time.UTC)
	}
	return h, ledger
}

func decodeSlots(t *testing.T, rec *httptest.ResponseRecorder) []*TimeSlot {
	t.Helper()
	var resp struct {
		Slots []*TimeSlot `json:"slots"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return resp.Slots
}

func TestHandlerListAvailable(t *testing.T) {
	h, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/services/slots/available", nil)
	rec := httptest.NewRecorder()
	h.ListAvailable(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	slots := decodeSlots(t, rec)
	if len(slots) != 3 {
		t.Fatalf("len = %d, want 3", len(slots))
	}
	// Ordered by date then bucket.
	if slots[0].Date != "2026-03-05" || slots[0].TimeBucket != "09:00" {
		t.Fatalf("first slot = %s %s", slots[0].Date, slots[0].TimeBucket)
	}
}

func TestHandlerListAvailableOnDate(t *testing.T) {
	h, ledger := newTestHandler(t)

	if err := ledger.Reserve("2026-03-05", "10:00"); err != nil {
		t.Fatalf("reserve: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/services/slots/available?date=2026-03-05", nil)
	rec := httptest.NewRecorder()
	h.ListAvailable(rec, req)

	slots := decodeSlots(t, rec)
	if len(slots) != 1 {
		t.Fatalf("len = %d, want 1 (full bucket filtered out)", len(slots))
	}
	if slots[0].TimeBucket != "09:00" {
		t.Fatalf("bucket = %s", slots[0].TimeBucket)
	}
}

func TestHandlerListAvailableRejectsBadDate(t *testing.T) {
	h, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/services/slots/available?date=05-03-2026", nil)
	rec := httptest.NewRecorder()
	h.ListAvailable(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestHandlerListRange(t *testing.T) {
	h, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/services/slots/range?startDate=2026-03-05&endDate=2026-03-05", nil)
	rec := httptest.NewRecorder()
	h.ListRange(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	slots := decodeSlots(t, rec)
	if len(slots) != 2 {
		t.Fatalf("len = %d, want 2", len(slots))
	}
}

func TestHandlerListRangeRequiresBounds(t *testing.T) {
	h, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/services/slots/range?startDate=2026-03-05", nil)
	rec := httptest.NewRecorder()
	h.ListRange(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
