package dto

import (
	"time"

	"github.com/spec-kit/hr-service/internal/repository"
)

// AdminUpdateRequest is the payload for privileged employee updates.
type AdminUpdateRequest struct {
	Salary     *float64 `json:"salary"`
	Status     *string  `json:"status"`
	Role       *string  `json:"role"`
	Department *string  `json:"department"`
	Position   *string  `json:"position"`
}

// LeaveSubmitRequest payload for submitting a leave request.
type LeaveSubmitRequest struct {
	Type      string    `json:"type"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	Reason    string    `json:"reason"`
}

// LeaveDecisionRequest payload for deciding a pending leave request.
type LeaveDecisionRequest struct {
	Status string `json:"status"`
}

// DocumentRequest payload for attaching a document.
type DocumentRequest struct {
	Type string `json:"type"`
	URL  string `json:"url"`
}

// EmployeeListItem is one row of the employee listing.
type EmployeeListItem struct {
	Identity IdentityView `json:"user"`
	Employee EmployeeView `json:"employee"`
}

// DeletedEmployeeItem is one row of the deleted listing, with the deleting
// identity resolved.
type DeletedEmployeeItem struct {
	Identity  IdentityView  `json:"user"`
	Employee  EmployeeView  `json:"employee"`
	DeletedAt *time.Time    `json:"deleted_at"`
	DeletedBy *IdentityView `json:"deleted_by,omitempty"`
}

// NewEmployeeListItems maps joined repository rows.
func NewEmployeeListItems(items []repository.EmployeeWithIdentity) []EmployeeListItem {
	result := make([]EmployeeListItem, 0, len(items))
	for i := range items {
		result = append(result, EmployeeListItem{
			Identity: NewIdentityView(&items[i].Identity),
			Employee: NewEmployeeView(&items[i].Record),
		})
	}
	return result
}

// NewDeletedEmployeeItems maps joined deleted rows.
func NewDeletedEmployeeItems(items []repository.EmployeeWithIdentity) []DeletedEmployeeItem {
	result := make([]DeletedEmployeeItem, 0, len(items))
	for i := range items {
		item := DeletedEmployeeItem{
			Identity:  NewIdentityView(&items[i].Identity),
			Employee:  NewEmployeeView(&items[i].Record),
			DeletedAt: items[i].Record.Deleted.DeletedAt,
		}
		if items[i].Deleter != nil {
			view := IdentityView{
				ID:    items[i].Deleter.ID,
				Name:  items[i].Deleter.Name,
				Email: items[i].Deleter.Email,
			}
			item.DeletedBy = &view
		}
		result = append(result, item)
	}
	return result
}
