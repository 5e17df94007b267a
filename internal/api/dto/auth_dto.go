package dto

import (
	"time"

	"github.com/spec-kit/hr-service/internal/domain"
	"github.com/spec-kit/hr-service/internal/service"
)

// RegisterRequest payload for new accounts.
type RegisterRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	Department string `json:"department"`
	Position   string `json:"position"`
}

// LoginRequest payload for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ProfileUpdateRequest is the lenient partial-update payload for the own
// profile endpoint. Absent fields stay unchanged; disallowed ones are
// dropped by policy.
type ProfileUpdateRequest struct {
	Name             *string  `json:"name"`
	Email            *string  `json:"email"`
	Phone            *string  `json:"phone"`
	Address          *string  `json:"address"`
	EmergencyContact *string  `json:"emergency_contact"`
	EmergencyPhone   *string  `json:"emergency_phone"`
	Department       *string  `json:"department"`
	Position         *string  `json:"position"`
	Salary           *float64 `json:"salary"`
	Status           *string  `json:"status"`
	Role             *string  `json:"role"`
}

// IdentityView is the password-free identity representation.
type IdentityView struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	Status string `json:"status"`
}

// EmployeeView is the employee record representation.
type EmployeeView struct {
	ID               string                `json:"id"`
	Department       string                `json:"department"`
	Position         string                `json:"position"`
	Salary           float64               `json:"salary"`
	Phone            string                `json:"phone,omitempty"`
	Address          string                `json:"address,omitempty"`
	EmergencyContact string                `json:"emergency_contact,omitempty"`
	EmergencyPhone   string                `json:"emergency_phone,omitempty"`
	JoinDate         time.Time             `json:"join_date"`
	Status           string                `json:"status"`
	Documents        []domain.Document     `json:"documents"`
	Leaves           []domain.LeaveRequest `json:"leaves"`
}

// ProfileResponse combines both views.
type ProfileResponse struct {
	Identity IdentityView `json:"user"`
	Employee EmployeeView `json:"employee"`
}

// NewIdentityView maps a domain identity.
func NewIdentityView(identity *domain.Identity) IdentityView {
	return IdentityView{
		ID:     identity.ID,
		Name:   identity.Name,
		Email:  identity.Email,
		Role:   string(identity.Role),
		Status: string(identity.Status),
	}
}

// NewEmployeeView maps a domain employee record.
func NewEmployeeView(rec *domain.EmployeeRecord) EmployeeView {
	docs := rec.Documents
	if docs == nil {
		docs = []domain.Document{}
	}
	leaves := rec.Leaves
	if leaves == nil {
		leaves = []domain.LeaveRequest{}
	}
	return EmployeeView{
		ID:               rec.ID,
		Department:       rec.Department,
		Position:         rec.Position,
		Salary:           rec.Salary,
		Phone:            rec.Phone,
		Address:          rec.Address,
		EmergencyContact: rec.EmergencyContact,
		EmergencyPhone:   rec.EmergencyPhone,
		JoinDate:         rec.JoinDate,
		Status:           string(rec.Status),
		Documents:        docs,
		Leaves:           leaves,
	}
}

// NewProfileResponse maps a service profile view.
func NewProfileResponse(profile *service.Profile) ProfileResponse {
	return ProfileResponse{
		Identity: NewIdentityView(profile.Identity),
		Employee: NewEmployeeView(profile.Record),
	}
}
