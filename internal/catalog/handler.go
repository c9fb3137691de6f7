package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MohammedSameer10/Automated-laundy-booking-system-2/pkg/logging"
)

// ReferenceChecker reports whether bookings still reference a service; the
// bookings store implements it. Deletion is rejected while references exist.
type ReferenceChecker interface {
	ServiceReferenced(ctx context.Context, serviceID string) (bool, error)
}

// Handler handles HTTP requests for the service catalog.
type Handler struct {
	repo   Repository
	refs   ReferenceChecker
	logger *logging.Logger
}

// NewHandler creates a catalog handler. refs may be nil when the admin
// surface is not mounted.
func NewHandler(repo Repository, refs ReferenceChecker, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{repo: repo, refs: refs, logger: logger}
}

// ListServices handles GET /api/services.
func (h *Handler) ListServices(w http.ResponseWriter, r *http.Request) {
	services, err := h.repo.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list services", "error", err)
		http.Error(w, "failed to fetch services", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"services": services})
}

// ListByCategory handles GET /api/services/category/{category}.
func (h *Handler) ListByCategory(w http.ResponseWriter, r *http.Request) {
	category := Category(chi.URLParam(r, "category"))
	if !category.Valid() {
		http.Error(w, "unknown category", http.StatusBadRequest)
		return
	}
	services, err := h.repo.ListByCategory(r.Context(), category)
	if err != nil {
		h.logger.Error("failed to list services by category", "category", category, "error", err)
		http.Error(w, "failed to fetch services", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"services": services})
}

// GetService handles GET /api/services/{id}.
func (h *Handler) GetService(w http.ResponseWriter, r *http.Request) {
	svc, err := h.repo.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, ErrServiceNotFound) {
			http.Error(w, "service not found", http.StatusNotFound)
			return
		}
		h.logger.Error("failed to fetch service", "error", err)
		http.Error(w, "failed to fetch service", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"service": svc})
}

// CreateService handles POST /admin/services.
func (h *Handler) CreateService(w http.ResponseWriter, r *http.Request) {
	var req CreateServiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	svc, err := h.repo.Create(r.Context(), &req)
	if err != nil {
		h.writeMutationError(w, err, "create")
		return
	}
	h.logger.Info("service created", "id", svc.ID, "name", svc.Name, "category", svc.Category)
	writeJSON(w, http.StatusCreated, map[string]any{"message": "service created", "service": svc})
}

// UpdateService handles PUT /admin/services/{id}.
func (h *Handler) UpdateService(w http.ResponseWriter, r *http.Request) {
	var req UpdateServiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	svc, err := h.repo.Update(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		h.writeMutationError(w, err, "update")
		return
	}
	h.logger.Info("service updated", "id", svc.ID)
	writeJSON(w, http.StatusOK, map[string]any{"message": "service updated", "service": svc})
}

// DeleteService handles DELETE /admin/services/{id}. A service with
// existing bookings cannot be removed.
func (h *Handler) DeleteService(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if h.refs != nil {
		referenced, err := h.refs.ServiceReferenced(r.Context(), id)
		if err != nil {
			h.logger.Error("failed to check service references", "id", id, "error", err)
			http.Error(w, "failed to delete service", http.StatusInternalServerError)
			return
		}
		if referenced {
			http.Error(w, "cannot delete service with existing bookings", http.StatusBadRequest)
			return
		}
	}
	if err := h.repo.Delete(r.Context(), id); err != nil {
		h.writeMutationError(w, err, "delete")
		return
	}
	h.logger.Info("service deleted", "id", id)
	writeJSON(w, http.StatusOK, map[string]any{"message": "service deleted"})
}

func (h *Handler) writeMutationError(w http.ResponseWriter, err error, op string) {
	switch {
	case errors.Is(err, ErrServiceNotFound):
		http.Error(w, "service not found", http.StatusNotFound)
	case errors.Is(err, ErrServiceReferenced):
		http.Error(w, "cannot delete service with existing bookings", http.StatusBadRequest)
	case errors.Is(err, ErrInvalidName),
		errors.Is(err, ErrInvalidCategory),
		errors.Is(err, ErrInvalidPrice),
		errors.Is(err, ErrInvalidDuration):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		h.logger.Error("service mutation failed", "op", op, "error", err)
		http.Error(w, "failed to "+op+" service", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
