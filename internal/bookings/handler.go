package bookings

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/MohammedSameer10/Automated-laundy-booking-system-2/internal/catalog"
	"github.com/MohammedSameer10/Automated-laundy-booking-system-2/internal/identity"
	"github.com/MohammedSameer10/Automated-laundy-booking-system-2/pkg/logging"
)

// Notifier receives booking lifecycle events for customer-facing
// notifications. Implementations must not block the request path on
// delivery failures.
type Notifier interface {
	BookingCreated(ctx context.Context, b *Booking, toEmail, toName string)
	BookingCancelled(ctx context.Context, b *Booking, toEmail, toName string)
}

// Handler handles the user-facing booking endpoints. All routes assume the
// auth middleware has put a user in the request context.
type Handler struct {
	service  *Service
	notifier Notifier
	logger   *logging.Logger
}

func NewHandler(service *Service, notifier Notifier, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{service: service, notifier: notifier, logger: logger}
}

// CreateBooking handles POST /api/bookings.
func (h *Handler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	user, ok := identity.FromContext(r.Context())
	if !ok {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}

	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	req.UserID = user.ID

	booking, err := h.service.Create(r.Context(), req)
	if err != nil {
		h.writeBookingError(w, r, err)
		return
	}
	if h.notifier != nil {
		h.notifier.BookingCreated(r.Context(), booking, user.Email, user.Name)
	}
	writeJSON(w, http.StatusCreated, map[string]any{"booking": booking})
}

// ListBookings handles GET /api/bookings?status=.
func (h *Handler) ListBookings(w http.ResponseWriter, r *http.Request) {
	user, ok := identity.FromContext(r.Context())
	if !ok {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}

	status := Status(r.URL.Query().Get("status"))
	bookings, err := h.service.ListForUser(r.Context(), user.ID, status)
	if err != nil {
		h.writeBookingError(w, r, err)
		return
	}
	if bookings == nil {
		bookings = []*Booking{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"bookings": bookings})
}

// GetBooking handles GET /api/bookings/{id}.
func (h *Handler) GetBooking(w http.ResponseWriter, r *http.Request) {
	user, ok := identity.FromContext(r.Context())
	if !ok {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}

	booking, err := h.service.Get(r.Context(), chi.URLParam(r, "id"), user.ID)
	if err != nil {
		h.writeBookingError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"booking": booking})
}

// CancelBooking handles POST /api/bookings/{id}/cancel.
func (h *Handler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	user, ok := identity.FromContext(r.Context())
	if !ok {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}

	booking, err := h.service.Cancel(r.Context(), chi.URLParam(r, "id"), user.ID)
	if err != nil {
		h.writeBookingError(w, r, err)
		return
	}
	if h.notifier != nil {
		h.notifier.BookingCancelled(r.Context(), booking, user.Email, user.Name)
	}
	writeJSON(w, http.StatusOK, map[string]any{"booking": booking})
}

type commandRequest struct {
	Text string `json:"text"`
}

// ExecuteCommand handles POST /api/voice/command: parse the text and carry
// out the resulting intent for the authenticated user.
func (h *Handler) ExecuteCommand(w http.ResponseWriter, r *http.Request) {
	user, ok := identity.FromContext(r.Context())
	if !ok {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}

	var req commandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Text == "" {
		http.Error(w, "text is required", http.StatusBadRequest)
		return
	}

	result, err := h.service.ExecuteCommand(r.Context(), user.ID, req.Text)
	if err != nil {
		h.logger.Error("voice command failed", "user_id", user.ID, "error", err)
		http.Error(w, "failed to process command", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// ParseCommand handles POST /api/voice/parse: interpretation only, no side
// effects. Useful for clients that confirm before booking.
func (h *Handler) ParseCommand(w http.ResponseWriter, r *http.Request) {
	var req commandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Text == "" {
		http.Error(w, "text is required", http.StatusBadRequest)
		return
	}
	cmd := h.service.Interpret(req.Text)
	writeJSON(w, http.StatusOK, map[string]any{"parsed": cmd})
}

// AdminListBookings handles GET /api/admin/bookings with filter params.
func (h *Handler) AdminListBookings(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := AdminFilter{
		Status:       Status(q.Get("status")),
		UserID:       q.Get("user_id"),
		ServiceID:    q.Get("service_id"),
		DeliveryMode: DeliveryMode(q.Get("delivery_mode")),
		FromDate:     q.Get("from_date"),
		ToDate:       q.Get("to_date"),
	}
	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			http.Error(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		filter.Limit = limit
	}

	bookings, err := h.service.List(r.Context(), filter)
	if err != nil {
		h.writeBookingError(w, r, err)
		return
	}
	if bookings == nil {
		bookings = []*Booking{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"bookings": bookings})
}

type transitionRequest struct {
	Status Status `json:"status"`
}

// AdminTransitionBooking handles PATCH /api/admin/bookings/{id}/status.
func (h *Handler) AdminTransitionBooking(w http.ResponseWriter, r *http.Request) {
	var req transitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	booking, err := h.service.Transition(r.Context(), chi.URLParam(r, "id"), req.Status)
	if err != nil {
		h.writeBookingError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"booking": booking})
}

// writeBookingError maps engine errors to HTTP statuses.
func (h *Handler) writeBookingError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrBookingNotFound):
		http.Error(w, "booking not found", http.StatusNotFound)
	case errors.Is(err, ErrSlotUnavailable):
		http.Error(w, "no capacity at the requested slot", http.StatusConflict)
	case errors.Is(err, ErrInvalidTransition):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, catalog.ErrServiceNotFound):
		http.Error(w, "unknown service", http.StatusBadRequest)
	case errors.Is(err, ErrMissingUser),
		errors.Is(err, ErrMissingService),
		errors.Is(err, ErrInvalidPickupDate),
		errors.Is(err, ErrInvalidPickupTime),
		errors.Is(err, ErrInvalidDeliveryMode),
		errors.Is(err, ErrInvalidStatus),
		errors.Is(err, ErrServiceNotBookable):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		h.logger.Error("booking request failed", "path", r.URL.Path, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
