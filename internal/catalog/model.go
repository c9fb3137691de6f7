// Package catalog provides lookup and administration of the laundry service
// catalog: the bookable services and the addon surcharges attached to them.
package catalog

import (
	"strings"
	"time"
)

// Category groups services; addons are price surcharges and are never
// directly bookable.
type Category string

const (
	CategoryWash     Category = "wash"
	CategoryDry      Category = "dry"
	CategoryIron     Category = "iron"
	CategoryDryClean Category = "dryclean"
	CategorySpecial  Category = "special"
	CategoryAddon    Category = "addon"
)

// Categories lists every valid category in display order.
var Categories = []Category{
	CategoryWash,
	CategoryDry,
	CategoryIron,
	CategoryDryClean,
	CategorySpecial,
	CategoryAddon,
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Service is one catalog entry. Price is in dollars.
type Service struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	Category        Category  `json:"category"`
	Price           float64   `json:"price"`
	DurationMinutes int       `json:"duration_minutes"`
	CreatedAt       time.Time `json:"created_at"`
}

// Bookable reports whether the service can be booked directly.
func (s *Service) Bookable() bool {
	return s.Category != CategoryAddon
}

// IsExpressAddon reports whether the service supplies the express-delivery
// surcharge: an addon whose name carries the Express marker.
func (s *Service) IsExpressAddon() bool {
	return s.Category == CategoryAddon && strings.Contains(strings.ToLower(s.Name), "express")
}

// CreateServiceRequest is the admin payload for adding a catalog entry.
type CreateServiceRequest struct {
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	Category        Category `json:"category"`
	Price           float64  `json:"price"`
	DurationMinutes int      `json:"duration_minutes"`
}

// Validate checks required fields and value ranges.
func (r *CreateServiceRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return ErrInvalidName
	}
	if !r.Category.Valid() {
		return ErrInvalidCategory
	}
	if r.Price < 0 {
		return ErrInvalidPrice
	}
	if r.DurationMinutes < 0 {
		return ErrInvalidDuration
	}
	return nil
}

// UpdateServiceRequest carries a partial update; nil fields keep their
// current value.
type UpdateServiceRequest struct {
	Name            *string   `json:"name"`
	Description     *string   `json:"description"`
	Category        *Category `json:"category"`
	Price           *float64  `json:"price"`
	DurationMinutes *int      `json:"duration_minutes"`
}

// Validate checks the provided fields.
func (r *UpdateServiceRequest) Validate() error {
	if r.Name != nil && strings.TrimSpace(*r.Name) == "" {
		return ErrInvalidName
	}
	if r.Category != nil && !r.Category.Valid() {
		return ErrInvalidCategory
	}
	if r.Price != nil && *r.Price < 0 {
		return ErrInvalidPrice
	}
	if r.DurationMinutes != nil && *r.DurationMinutes < 0 {
		return ErrInvalidDuration
	}
	return nil
}

// apply merges the update into a copy of s.
func (r *UpdateServiceRequest) apply(s Service) Service {
	if r.Name != nil {
		s.Name = *r.Name
	}
	if r.Description != nil {
		s.Description = *r.Description
	}
	if r.Category != nil {
		s.Category = *r.Category
	}
	if r.Price != nil {
		s.Price = *r.Price
	}
	if r.DurationMinutes != nil {
		s.DurationMinutes = *r.DurationMinutes
	}
	return s
}
