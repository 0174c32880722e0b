package domain

import "time"

// Location is a physical site jobs, assets and technicians belong to.
type Location struct {
	ID        string
	Name      string
	Code      string
	Address   string
	City      string
	Country   string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
