package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
)

type stubRefs struct {
	referenced bool
}

func (s stubRefs) ServiceReferenced(ctx context.Context, serviceID string) (bool, error) {
	return s.referenced, nil
}

func catalogRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Get("/api/services", h.ListServices)
	r.Get("/api/services/category/{category}", h.ListByCategory)
	r.Get("/api/services/{id}", h.GetService)
	r.Post("/api/admin/services", h.CreateService)
	r.Put("/api/admin/services/{id}", h.UpdateService)
	r.Delete("/api/admin/services/{id}", h.DeleteService)
	return r
}

func request(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHandlerListServices(t *testing.T) {
	repo, _ := seededRepo()
	router := catalogRouter(NewHandler(repo, nil, nil))

	rec := request(t, router, http.MethodGet, "/api/services", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp struct {
		Services []*Service `json:"services"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Services) != 5 {
		t.Fatalf("len = %d, want 5", len(resp.Services))
	}
}

func TestHandlerListByCategory(t *testing.T) {
	repo, _ := seededRepo()
	router := catalogRouter(NewHandler(repo, nil, nil))

	rec := request(t, router, http.MethodGet, "/api/services/category/wash", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	rec = request(t, router, http.MethodGet, "/api/services/category/folding", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unknown category status = %d, want 400", rec.Code)
	}
}

func TestHandlerGetService(t *testing.T) {
	repo, stored := seededRepo()
	router := catalogRouter(NewHandler(repo, nil, nil))

	rec := request(t, router, http.MethodGet, "/api/services/"+stored[0].ID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	rec = request(t, router, http.MethodGet, "/api/services/missing", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("missing status = %d, want 404", rec.Code)
	}
}

func TestHandlerCreateService(t *testing.T) {
	repo := NewInMemoryRepository()
	router := catalogRouter(NewHandler(repo, nil, nil))

	rec := request(t, router, http.MethodPost, "/api/admin/services", map[string]any{
		"name":             "Bedding",
		"category":         "special",
		"price":            20.0,
		"duration_minutes": 240,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	rec = request(t, router, http.MethodPost, "/api/admin/services", map[string]any{
		"name":     "Bad",
		"category": "folding",
		"price":    5.0,
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("invalid category status = %d, want 400", rec.Code)
	}
}

func TestHandlerUpdateService(t *testing.T) {
	repo, stored := seededRepo()
	router := catalogRouter(NewHandler(repo, nil, nil))

	rec := request(t, router, http.MethodPut, "/api/admin/services/"+stored[0].ID, map[string]any{
		"price": 18.0,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Service *Service `json:"service"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Service.Price != 18.0 {
		t.Fatalf("price = %v", resp.Service.Price)
	}

	rec = request(t, router, http.MethodPut, "/api/admin/services/missing", map[string]any{"price": 1.0})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("missing status = %d, want 404", rec.Code)
	}
}

func TestHandlerDeleteService(t *testing.T) {
	repo, stored := seededRepo()
	router := catalogRouter(NewHandler(repo, stubRefs{referenced: false}, nil))

	rec := request(t, router, http.MethodDelete, "/api/admin/services/"+stored[0].ID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if rec := request(t, router, http.MethodDelete, "/api/admin/services/"+stored[0].ID, nil); rec.Code != http.StatusNotFound {
		t.Fatalf("second delete = %d, want 404", rec.Code)
	}
}

func TestHandlerDeleteServiceBlockedByBookings(t *testing.T) {
	repo, stored := seededRepo()
	router := catalogRouter(NewHandler(repo, stubRefs{referenced: true}, nil))

	rec := request(t, router, http.MethodDelete, "/api/admin/services/"+stored[0].ID, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if _, err := repo.GetByID(context.Background(), stored[0].ID); err != nil {
		t.Fatalf("service should survive a blocked delete: %v", err)
	}
}
