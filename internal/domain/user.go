package domain

import "time"

// UserRole gates what a portal account may do.
type UserRole string

const (
	UserRoleAdmin   UserRole = "ADMIN"
	UserRolePlanner UserRole = "PLANNER"
	UserRoleViewer  UserRole = "VIEWER"
)

// UserStatus represents lifecycle states for a portal account.
type UserStatus string

const (
	UserStatusActive    UserStatus = "ACTIVE"
	UserStatusSuspended UserStatus = "SUSPENDED"
)

// User is a portal account operating the coordination tool. Distinct from
// Technician, which is a workforce record, not a login.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         UserRole
	Status       UserStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
