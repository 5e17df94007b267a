package domain

import "time"

// Role enumerates account roles.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleEmployee Role = "employee"
)

// Status enumerates lifecycle states shared by identities and employee
// records. on_leave is primarily an employee state but the original data
// model keeps a single enum for both.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
	StatusOnLeave  Status = "on_leave"
)

// Identity is the domain model for an authenticatable account.
type Identity struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	Status       Status
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
