// Package policy decides which profile fields a role may mutate. It is a
// pure allow-list transform: fields outside the allowed set are dropped
// silently, mirroring lenient partial-update semantics.
package policy

import "github.com/spec-kit/hr-service/internal/domain"

// ProfilePatch carries every mutable profile field as an optional value.
// Nil means "leave unchanged".
type ProfilePatch struct {
	Name             *string
	Email            *string
	Phone            *string
	Address          *string
	EmergencyContact *string
	EmergencyPhone   *string
	Department       *string
	Position         *string
	Salary           *float64
	Status           *domain.Status
	Role             *domain.Role
}

// IsEmpty reports whether the patch carries no fields at all.
func (p ProfilePatch) IsEmpty() bool {
	return p == ProfilePatch{}
}

// HasPrivilegedField reports whether any of salary/status/role is present.
func (p ProfilePatch) HasPrivilegedField() bool {
	return p.Salary != nil || p.Status != nil || p.Role != nil
}

// Apply filters the patch down to the fields the acting role may mutate.
// Role employee keeps contact and assignment fields on its own record but
// never salary, status or role. Admin keeps everything.
func Apply(actingRole domain.Role, patch ProfilePatch) ProfilePatch {
	if actingRole == domain.RoleAdmin {
		return patch
	}
	patch.Salary = nil
	patch.Status = nil
	patch.Role = nil
	return patch
}
