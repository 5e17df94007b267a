package domain

import "time"

// LeaveStatus enumerates decision states for a leave request.
type LeaveStatus string

const (
	LeaveStatusPending  LeaveStatus = "pending"
	LeaveStatusApproved LeaveStatus = "approved"
	LeaveStatusRejected LeaveStatus = "rejected"
)

// Document is an attachment on an employee record (contracts, IDs, etc).
type Document struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	URL        string    `json:"url"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// LeaveRequest is a single leave entry on an employee record.
type LeaveRequest struct {
	ID        string      `json:"id"`
	Type      string      `json:"type"`
	StartDate time.Time   `json:"start_date"`
	EndDate   time.Time   `json:"end_date"`
	Status    LeaveStatus `json:"status"`
	Reason    string      `json:"reason,omitempty"`
}

// DeletionMark carries soft-delete state. DeletedAt/DeletedBy are set only
// while IsDeleted is true.
type DeletionMark struct {
	IsDeleted bool
	DeletedAt *time.Time
	DeletedBy *string
}

// EmployeeRecord is the HR profile tied 1:1 to an Identity. The identity
// reference is immutable after creation.
type EmployeeRecord struct {
	ID               string
	IdentityID       string
	Department       string
	Position         string
	Salary           float64
	Phone            string
	Address          string
	EmergencyContact string
	EmergencyPhone   string
	JoinDate         time.Time
	Status           Status
	Documents        []Document
	Leaves           []LeaveRequest
	Deleted          DeletionMark
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// DepartmentCount is an analytics bucket of active records per department.
type DepartmentCount struct {
	Department string
	Count      int64
}
