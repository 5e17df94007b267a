package events

import (
	"time"

	"github.com/spec-kit/hr-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventEmployeeRegistered    EventType = "employee_registered"
	EventEmployeeStatusChanged EventType = "employee_status_changed"
	EventEmployeeDeleted       EventType = "employee_deleted"
	EventEmployeeRestored      EventType = "employee_restored"
	EventLeaveRequested        EventType = "leave_requested"
	EventLeaveStatusChanged    EventType = "leave_status_changed"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID         string      `json:"id"`
	Type       EventType   `json:"type"`
	EmployeeID string      `json:"employee_id"`
	ActorID    string      `json:"actor_id,omitempty"`
	Timestamp  time.Time   `json:"timestamp"`
	Payload    interface{} `json:"payload"`
}

// EmployeeRegisteredPayload payload.
type EmployeeRegisteredPayload struct {
	IdentityID string `json:"identity_id"`
	Email      string `json:"email"`
	Department string `json:"department"`
	Position   string `json:"position"`
}

// EmployeeStatusChangedPayload payload.
type EmployeeStatusChangedPayload struct {
	OldStatus domain.Status `json:"old_status"`
	NewStatus domain.Status `json:"new_status"`
}

// EmployeeDeletedPayload payload.
type EmployeeDeletedPayload struct {
	DeletedBy string `json:"deleted_by"`
}

// LeaveRequestedPayload payload.
type LeaveRequestedPayload struct {
	LeaveID   string    `json:"leave_id"`
	LeaveType string    `json:"leave_type"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}

// LeaveStatusChangedPayload payload.
type LeaveStatusChangedPayload struct {
	LeaveID   string             `json:"leave_id"`
	NewStatus domain.LeaveStatus `json:"new_status"`
}
