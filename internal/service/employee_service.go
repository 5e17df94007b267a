package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/hr-service/internal/domain"
	"github.com/spec-kit/hr-service/internal/events"
	"github.com/spec-kit/hr-service/internal/policy"
	"github.com/spec-kit/hr-service/internal/repository"
	apperrors "github.com/spec-kit/hr-service/pkg/util"
)

// Pagination describes a page of a listing.
type Pagination struct {
	Total       int64 `json:"total"`
	Pages       int64 `json:"pages"`
	CurrentPage int   `json:"currentPage"`
	Limit       int   `json:"limit"`
}

// Analytics aggregates active-record counts.
type Analytics struct {
	TotalActive       int64
	DepartmentCounts  []domain.DepartmentCount
	NewHiresThisMonth int64
}

// LeaveInput describes a leave request submission.
type LeaveInput struct {
	Type      string
	StartDate time.Time
	EndDate   time.Time
	Reason    string
}

// EmployeeService covers admin-side employee management, soft-delete
// lifecycle, analytics and the leave/document lists.
type EmployeeService struct {
	identities repository.IdentityRepository
	employees  repository.EmployeeRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// EmployeeDependencies bundles repositories for the employee service.
type EmployeeDependencies struct {
	IdentityRepo repository.IdentityRepository
	EmployeeRepo repository.EmployeeRepository
	Dispatcher   events.Dispatcher
	Logger       *zap.Logger
}

// NewEmployeeService constructs the service.
func NewEmployeeService(deps EmployeeDependencies) *EmployeeService {
	return &EmployeeService{
		identities: deps.IdentityRepo,
		employees:  deps.EmployeeRepo,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
	}
}

// List returns a page of active employee records with their identities.
func (s *EmployeeService) List(ctx context.Context, page, limit int) ([]repository.EmployeeWithIdentity, Pagination, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}

	total, err := s.employees.CountActive(ctx)
	if err != nil {
		return nil, Pagination{}, apperrors.MapError(err)
	}

	items, err := s.employees.ListActive(ctx, limit, (page-1)*limit)
	if err != nil {
		return nil, Pagination{}, apperrors.MapError(err)
	}

	pages := total / int64(limit)
	if total%int64(limit) != 0 {
		pages++
	}
	return items, Pagination{Total: total, Pages: pages, CurrentPage: page, Limit: limit}, nil
}

// AdminUpdate applies privileged changes to an employee record. At least
// one of salary, status or role must be present; department and position
// ride along when provided. Status and role changes are propagated to the
// owning identity.
func (s *EmployeeService) AdminUpdate(ctx context.Context, employeeID string, patch policy.ProfilePatch, actorID string) (*Profile, error) {
	if !patch.HasPrivilegedField() {
		return nil, apperrors.NewValidationError("provide at least one of salary, status or role", nil)
	}
	if patch.Salary != nil && *patch.Salary < 0 {
		return nil, apperrors.NewValidationError("salary must be a non-negative number", map[string]any{"salary": *patch.Salary})
	}
	if patch.Status != nil && !validStatus(*patch.Status) {
		return nil, apperrors.NewValidationError("invalid status", map[string]any{"status": *patch.Status})
	}
	if patch.Role != nil && *patch.Role != domain.RoleAdmin && *patch.Role != domain.RoleEmployee {
		return nil, apperrors.NewValidationError("invalid role", map[string]any{"role": *patch.Role})
	}

	record, err := s.employees.GetByID(ctx, employeeID, false)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("employee", map[string]any{"employee_id": employeeID})
		}
		return nil, apperrors.MapError(err)
	}

	oldStatus := record.Status
	if patch.Salary != nil {
		record.Salary = *patch.Salary
	}
	if patch.Status != nil {
		record.Status = *patch.Status
	}
	if patch.Department != nil && *patch.Department != "" {
		record.Department = *patch.Department
	}
	if patch.Position != nil && *patch.Position != "" {
		record.Position = *patch.Position
	}
	if err := s.employees.Update(ctx, record); err != nil {
		return nil, apperrors.MapError(err)
	}

	// keep the identity in sync with admin-driven status/role changes
	if patch.Status != nil {
		if err := s.identities.SetStatus(ctx, record.IdentityID, *patch.Status); err != nil {
			return nil, apperrors.MapError(err)
		}
	}
	if patch.Role != nil {
		if err := s.identities.SetRole(ctx, record.IdentityID, *patch.Role); err != nil {
			return nil, apperrors.MapError(err)
		}
	}

	identity, err := s.identities.GetByID(ctx, record.IdentityID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	if patch.Status != nil && oldStatus != record.Status {
		s.publish(ctx, events.EventEmployeeStatusChanged, record.ID, actorID, events.EmployeeStatusChangedPayload{
			OldStatus: oldStatus,
			NewStatus: record.Status,
		})
	}

	s.logger.Info("employee updated",
		zap.String("employee_id", employeeID),
		zap.String("actor_id", actorID))

	return &Profile{Identity: identity, Record: record}, nil
}

// SoftDelete marks a record deleted, recording when and by whom.
func (s *EmployeeService) SoftDelete(ctx context.Context, employeeID, actorID string) (*domain.EmployeeRecord, error) {
	record, err := s.employees.GetByID(ctx, employeeID, true)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("employee", map[string]any{"employee_id": employeeID})
		}
		return nil, apperrors.MapError(err)
	}
	if record.Deleted.IsDeleted {
		return nil, apperrors.NewAlreadyDeleted(employeeID)
	}

	if err := s.employees.SoftDelete(ctx, employeeID, actorID); err != nil {
		return nil, apperrors.MapError(err)
	}

	record, err = s.employees.GetByID(ctx, employeeID, true)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.EventEmployeeDeleted, employeeID, actorID, events.EmployeeDeletedPayload{DeletedBy: actorID})
	s.logger.Info("employee soft deleted",
		zap.String("employee_id", employeeID),
		zap.String("actor_id", actorID))

	return record, nil
}

// Restore clears the deletion marker on a deleted record.
func (s *EmployeeService) Restore(ctx context.Context, employeeID string) (*domain.EmployeeRecord, error) {
	record, err := s.employees.GetByID(ctx, employeeID, true)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("employee", map[string]any{"employee_id": employeeID})
		}
		return nil, apperrors.MapError(err)
	}
	if !record.Deleted.IsDeleted {
		return nil, apperrors.NewNotDeleted(employeeID)
	}

	if err := s.employees.Restore(ctx, employeeID); err != nil {
		return nil, apperrors.MapError(err)
	}

	record, err = s.employees.GetByID(ctx, employeeID, false)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.EventEmployeeRestored, employeeID, "", nil)
	return record, nil
}

// ListDeleted returns the deleted partition with the deleter resolved.
func (s *EmployeeService) ListDeleted(ctx context.Context) ([]repository.EmployeeWithIdentity, error) {
	items, err := s.employees.ListDeleted(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return items, nil
}

// GetAnalytics aggregates counts over the active partition.
func (s *EmployeeService) GetAnalytics(ctx context.Context) (*Analytics, error) {
	total, err := s.employees.CountActive(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	perDepartment, err := s.employees.CountByDepartment(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	now := time.Now()
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	newHires, err := s.employees.CountCreatedSince(ctx, startOfMonth)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	return &Analytics{
		TotalActive:       total,
		DepartmentCounts:  perDepartment,
		NewHiresThisMonth: newHires,
	}, nil
}

// SubmitLeave appends a pending leave request to the caller's record.
func (s *EmployeeService) SubmitLeave(ctx context.Context, identityID string, input LeaveInput) (*domain.LeaveRequest, error) {
	if input.Type == "" {
		return nil, apperrors.NewValidationError("leave type required", nil)
	}
	if input.EndDate.Before(input.StartDate) {
		return nil, apperrors.NewValidationError("leave end date before start date", nil)
	}

	record, err := s.employees.GetByIdentity(ctx, identityID, false)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("employee record", nil)
		}
		return nil, apperrors.MapError(err)
	}

	leave := domain.LeaveRequest{
		ID:        uuid.NewString(),
		Type:      input.Type,
		StartDate: input.StartDate,
		EndDate:   input.EndDate,
		Status:    domain.LeaveStatusPending,
		Reason:    input.Reason,
	}
	record.Leaves = append(record.Leaves, leave)
	if err := s.employees.Update(ctx, record); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.EventLeaveRequested, record.ID, identityID, events.LeaveRequestedPayload{
		LeaveID:   leave.ID,
		LeaveType: leave.Type,
		StartDate: leave.StartDate,
		EndDate:   leave.EndDate,
	})
	return &leave, nil
}

// SetLeaveStatus records an admin decision on a pending leave request.
func (s *EmployeeService) SetLeaveStatus(ctx context.Context, employeeID, leaveID string, status domain.LeaveStatus, actorID string) (*domain.LeaveRequest, error) {
	if status != domain.LeaveStatusApproved && status != domain.LeaveStatusRejected {
		return nil, apperrors.NewValidationError("leave status must be approved or rejected", map[string]any{"status": status})
	}

	record, err := s.employees.GetByID(ctx, employeeID, false)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("employee", map[string]any{"employee_id": employeeID})
		}
		return nil, apperrors.MapError(err)
	}

	for i := range record.Leaves {
		if record.Leaves[i].ID != leaveID {
			continue
		}
		if record.Leaves[i].Status != domain.LeaveStatusPending {
			return nil, apperrors.NewValidationError("leave request already decided", map[string]any{"leave_id": leaveID})
		}
		record.Leaves[i].Status = status
		if err := s.employees.Update(ctx, record); err != nil {
			return nil, apperrors.MapError(err)
		}
		s.publish(ctx, events.EventLeaveStatusChanged, record.ID, actorID, events.LeaveStatusChangedPayload{
			LeaveID:   leaveID,
			NewStatus: status,
		})
		leave := record.Leaves[i]
		return &leave, nil
	}
	return nil, apperrors.NewNotFound("leave request", map[string]any{"leave_id": leaveID})
}

// AddDocument appends a document entry to the caller's record.
func (s *EmployeeService) AddDocument(ctx context.Context, identityID, docType, url string) (*domain.Document, error) {
	if docType == "" || url == "" {
		return nil, apperrors.NewValidationError("document type and url required", nil)
	}

	record, err := s.employees.GetByIdentity(ctx, identityID, false)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("employee record", nil)
		}
		return nil, apperrors.MapError(err)
	}

	doc := domain.Document{
		ID:         uuid.NewString(),
		Type:       docType,
		URL:        url,
		UploadedAt: time.Now(),
	}
	record.Documents = append(record.Documents, doc)
	if err := s.employees.Update(ctx, record); err != nil {
		return nil, apperrors.MapError(err)
	}
	return &doc, nil
}

func (s *EmployeeService) publish(ctx context.Context, eventType events.EventType, employeeID, actorID string, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		EmployeeID: employeeID,
		ActorID:    actorID,
		Timestamp:  time.Now(),
		Payload:    payload,
	})
}

func validStatus(status domain.Status) bool {
	switch status {
	case domain.StatusActive, domain.StatusInactive, domain.StatusOnLeave:
		return true
	}
	return false
}
