package dto

import (
	"time"

	"github.com/fieldworks/maintenance-service/internal/domain"
)

// CreateLocationRequest payload.
type CreateLocationRequest struct {
	Name    string `json:"name"`
	Code    string `json:"code"`
	Address string `json:"address"`
	City    string `json:"city"`
	Country string `json:"country"`
}

// LocationResponse view.
type LocationResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Code      string    `json:"code,omitempty"`
	Address   string    `json:"address,omitempty"`
	City      string    `json:"city,omitempty"`
	Country   string    `json:"country,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FromLocation maps a domain location to its response view.
func FromLocation(l *domain.Location) LocationResponse {
	return LocationResponse{
		ID:        l.ID,
		Name:      l.Name,
		Code:      l.Code,
		Address:   l.Address,
		City:      l.City,
		Country:   l.Country,
		IsActive:  l.IsActive,
		CreatedAt: l.CreatedAt,
		UpdatedAt: l.UpdatedAt,
	}
}
