package slots

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/MohammedSameer10/Automated-laundy-booking-system-2/pkg/logging"
)

// Handler handles HTTP requests for slot availability.
type Handler struct {
	ledger Ledger
	logger *logging.Logger
	now    func() time.Time
}

// NewHandler creates a slots handler.
func NewHandler(ledger Ledger, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{ledger: ledger, logger: logger, now: time.Now}
}

// ListAvailable handles GET /api/services/slots/available?date=YYYY-MM-DD.
// Without a date it returns upcoming availability from today onward.
func (h *Handler) ListAvailable(w http.ResponseWriter, r *http.Request) {
	onDate := r.URL.Query().Get("date")
	if onDate != "" && !ValidDate(onDate) {
		http.Error(w, ErrInvalidDate.Error(), http.StatusBadRequest)
		return
	}
	fromDate := h.now().Format(DateFormat)
	available, err := h.ledger.ListAvailable(r.Context(), fromDate, onDate)
	if err != nil {
		h.logger.Error("failed to list available slots", "error", err)
		http.Error(w, "failed to fetch time slots", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"slots": available})
}

// ListRange handles GET /api/services/slots/range?startDate=&endDate=.
func (h *Handler) ListRange(w http.ResponseWriter, r *http.Request) {
	from := r.URL.Query().Get("startDate")
	to := r.URL.Query().Get("endDate")
	if from == "" || to == "" {
		http.Error(w, "startDate and endDate are required", http.StatusBadRequest)
		return
	}
	if !ValidDate(from) || !ValidDate(to) {
		http.Error(w, ErrInvalidDate.Error(), http.StatusBadRequest)
		return
	}
	ranged, err := h.ledger.ListRange(r.Context(), from, to)
	if err != nil {
		h.logger.Error("failed to list slot range", "error", err)
		http.Error(w, "failed to fetch time slots", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"slots": ranged})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
