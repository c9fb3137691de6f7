package catalog

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Repository defines the interface for catalog storage.
type Repository interface {
	GetByID(ctx context.Context, id string) (*Service, error)
	// List returns every service, addons included, ordered by category
	// then price.
	List(ctx context.Context) ([]*Service, error)
	// ListBookable returns the directly bookable services.
	ListBookable(ctx context.Context) ([]*Service, error)
	ListByCategory(ctx context.Context, category Category) ([]*Service, error)
	// FindByHint resolves a free-text service hint against bookable
	// service names and categories by substring match.
	FindByHint(ctx context.Context, hint string) (*Service, error)
	// CheapestByCategory returns the lowest-priced service of a category.
	CheapestByCategory(ctx context.Context, category Category) (*Service, error)
	// FindExpressAddon returns the addon supplying the express surcharge.
	FindExpressAddon(ctx context.Context) (*Service, error)

	Create(ctx context.Context, req *CreateServiceRequest) (*Service, error)
	Update(ctx context.Context, id string, req *UpdateServiceRequest) (*Service, error)
	Delete(ctx context.Context, id string) error
}

// InMemoryRepository is a mutex-guarded Repository used in tests and in
// memory mode.
type InMemoryRepository struct {
	mu       sync.RWMutex
	services map[string]*Service
}

// NewInMemoryRepository creates an empty in-memory catalog.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{services: make(map[string]*Service)}
}

// Seed inserts services directly, returning them with assigned ids.
func (r *InMemoryRepository) Seed(services ...Service) []*Service {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*Service, 0, len(services))
	for _, svc := range services {
		if svc.ID == "" {
			svc.ID = uuid.NewString()
		}
		if svc.CreatedAt.IsZero() {
			svc.CreatedAt = time.Now().UTC()
		}
		stored := svc
		r.services[stored.ID] = &stored
		out = append(out, &stored)
	}
	return out
}

func (r *InMemoryRepository) GetByID(ctx context.Context, id string) (*Service, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	svc, ok := r.services[id]
	if !ok {
		return nil, ErrServiceNotFound
	}
	copied := *svc
	return &copied, nil
}

func (r *InMemoryRepository) List(ctx context.Context) ([]*Service, error) {
	return r.collect(func(*Service) bool { return true }), nil
}

func (r *InMemoryRepository) ListBookable(ctx context.Context) ([]*Service, error) {
	return r.collect(func(s *Service) bool { return s.Bookable() }), nil
}

func (r *InMemoryRepository) ListByCategory(ctx context.Context, category Category) ([]*Service, error) {
	return r.collect(func(s *Service) bool { return s.Category == category }), nil
}

func (r *InMemoryRepository) FindByHint(ctx context.Context, hint string) (*Service, error) {
	hint = strings.ToLower(strings.TrimSpace(hint))
	if hint == "" {
		return nil, ErrServiceNotFound
	}
	for _, svc := range r.collect(func(s *Service) bool { return s.Bookable() }) {
		if strings.Contains(strings.ToLower(svc.Name), hint) || strings.Contains(strings.ToLower(string(svc.Category)), hint) {
			return svc, nil
		}
	}
	return nil, ErrServiceNotFound
}

func (r *InMemoryRepository) CheapestByCategory(ctx context.Context, category Category) (*Service, error) {
	matches := r.collect(func(s *Service) bool { return s.Category == category })
	if len(matches) == 0 {
		return nil, ErrServiceNotFound
	}
	return matches[0], nil
}

func (r *InMemoryRepository) FindExpressAddon(ctx context.Context) (*Service, error) {
	for _, svc := range r.collect(func(s *Service) bool { return s.IsExpressAddon() }) {
		return svc, nil
	}
	return nil, ErrExpressAddonNotConfigured
}

func (r *InMemoryRepository) Create(ctx context.Context, req *CreateServiceRequest) (*Service, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	svc := &Service{
		ID:              uuid.NewString(),
		Name:            req.Name,
		Description:     req.Description,
		Category:        req.Category,
		Price:           req.Price,
		DurationMinutes: req.DurationMinutes,
		CreatedAt:       time.Now().UTC(),
	}
	r.mu.Lock()
	r.services[svc.ID] = svc
	r.mu.Unlock()
	copied := *svc
	return &copied, nil
}

func (r *InMemoryRepository) Update(ctx context.Context, id string, req *UpdateServiceRequest) (*Service, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	svc, ok := r.services[id]
	if !ok {
		return nil, ErrServiceNotFound
	}
	updated := req.apply(*svc)
	r.services[id] = &updated
	copied := updated
	return &copied, nil
}

func (r *InMemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.services[id]; !ok {
		return ErrServiceNotFound
	}
	delete(r.services, id)
	return nil
}

// collect snapshots matching services ordered by category then price.
func (r *InMemoryRepository) collect(match func(*Service) bool) []*Service {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*Service
	for _, svc := range r.services {
		if match(svc) {
			copied := *svc
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		if out[i].Price != out[j].Price {
			return out[i].Price < out[j].Price
		}
		return out[i].Name < out[j].Name
	})
	return out
}
