package domain

import "time"

// TechnicianRole enumerates workforce roles.
type TechnicianRole string

const (
	TechnicianRoleField      TechnicianRole = "Field Technician"
	TechnicianRoleSupervisor TechnicianRole = "Supervisor"
	TechnicianRolePlanner    TechnicianRole = "Planner"
	TechnicianRoleEngineer   TechnicianRole = "Engineer"
	TechnicianRoleOther      TechnicianRole = "Other"
)

// TechnicianStatus enumerates availability states. Inactive is a soft delete.
type TechnicianStatus string

const (
	TechnicianStatusAvailable TechnicianStatus = "Available"
	TechnicianStatusOnJob     TechnicianStatus = "On Job"
	TechnicianStatusOnLeave   TechnicianStatus = "On Leave"
	TechnicianStatusInactive  TechnicianStatus = "Inactive"
)

// ShiftType enumerates working patterns.
type ShiftType string

const (
	ShiftTypeDay        ShiftType = "Day"
	ShiftTypeNight      ShiftType = "Night"
	ShiftTypeRotational ShiftType = "Rotational"
)

// Technician models a maintenance worker.
type Technician struct {
	ID           string
	Name         string
	Email        string
	Phone        string
	Role         TechnicianRole
	PrimarySkill string
	Skills       []string
	LocationID   string
	Status       TechnicianStatus
	ShiftType    ShiftType
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
