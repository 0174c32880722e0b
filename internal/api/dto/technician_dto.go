package dto

import (
	"time"

	"github.com/fieldworks/maintenance-service/internal/domain"
)

// CreateTechnicianRequest payload.
type CreateTechnicianRequest struct {
	Name         string                  `json:"name"`
	Email        string                  `json:"email"`
	Phone        string                  `json:"phone"`
	Role         domain.TechnicianRole   `json:"role"`
	PrimarySkill string                  `json:"primary_skill"`
	Skills       []string                `json:"skills"`
	LocationID   string                  `json:"location_id"`
	Status       domain.TechnicianStatus `json:"status"`
	ShiftType    domain.ShiftType        `json:"shift_type"`
}

// UpdateTechnicianRequest payload; absent fields are left untouched.
type UpdateTechnicianRequest struct {
	Name         *string                  `json:"name"`
	Phone        *string                  `json:"phone"`
	Role         *domain.TechnicianRole   `json:"role"`
	PrimarySkill *string                  `json:"primary_skill"`
	Skills       *[]string                `json:"skills"`
	LocationID   *string                  `json:"location_id"`
	Status       *domain.TechnicianStatus `json:"status"`
	ShiftType    *domain.ShiftType        `json:"shift_type"`
}

// TechnicianResponse view.
type TechnicianResponse struct {
	ID           string                  `json:"id"`
	Name         string                  `json:"name"`
	Email        string                  `json:"email"`
	Phone        string                  `json:"phone"`
	Role         domain.TechnicianRole   `json:"role"`
	PrimarySkill string                  `json:"primary_skill"`
	Skills       []string                `json:"skills"`
	LocationID   string                  `json:"location_id"`
	Status       domain.TechnicianStatus `json:"status"`
	ShiftType    domain.ShiftType        `json:"shift_type"`
	CreatedAt    time.Time               `json:"created_at"`
	UpdatedAt    time.Time               `json:"updated_at"`
}

// FromTechnician maps a domain technician to its response view.
func FromTechnician(t *domain.Technician) TechnicianResponse {
	return TechnicianResponse{
		ID:           t.ID,
		Name:         t.Name,
		Email:        t.Email,
		Phone:        t.Phone,
		Role:         t.Role,
		PrimarySkill: t.PrimarySkill,
		Skills:       t.Skills,
		LocationID:   t.LocationID,
		Status:       t.Status,
		ShiftType:    t.ShiftType,
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
	}
}
