package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/hr-service/internal/api/dto"
	"github.com/spec-kit/hr-service/internal/auth"
	"github.com/spec-kit/hr-service/internal/domain"
	"github.com/spec-kit/hr-service/internal/policy"
	"github.com/spec-kit/hr-service/internal/service"
	apperrors "github.com/spec-kit/hr-service/pkg/util"
)

// EmployeesHandler exposes admin-side employee management and the leave /
// document endpoints.
type EmployeesHandler struct {
	employees *service.EmployeeService
	auth      *service.AuthService
}

// NewEmployeesHandler constructs handler.
func NewEmployeesHandler(employeeService *service.EmployeeService, authService *service.AuthService) *EmployeesHandler {
	return &EmployeesHandler{employees: employeeService, auth: authService}
}

// List handles GET /employees/all with page/limit query params.
func (h *EmployeesHandler) List(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "10"))

	items, pagination, err := h.employees.List(c.Context(), page, limit)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"pagination": pagination,
		"data":       dto.NewEmployeeListItems(items),
	})
}

// GetOwnRecord handles GET /employees/profile.
func (h *EmployeesHandler) GetOwnRecord(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	profile, err := h.auth.GetProfile(c.Context(), principal.Identity.ID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"data": dto.NewEmployeeView(profile.Record)})
}

// Analytics handles GET /employees/analytics.
func (h *EmployeesHandler) Analytics(c *fiber.Ctx) error {
	analytics, err := h.employees.GetAnalytics(c.Context())
	if err != nil {
		return err
	}

	counts := make([]fiber.Map, 0, len(analytics.DepartmentCounts))
	for _, dc := range analytics.DepartmentCounts {
		counts = append(counts, fiber.Map{"department": dc.Department, "count": dc.Count})
	}

	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"totalEmployees":    analytics.TotalActive,
			"departmentCounts":  counts,
			"newHiresThisMonth": analytics.NewHiresThisMonth,
		},
	})
}

// AdminUpdate handles PUT /employees/:id/update-status.
func (h *EmployeesHandler) AdminUpdate(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.AdminUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	patch := policy.ProfilePatch{
		Salary:     req.Salary,
		Department: req.Department,
		Position:   req.Position,
	}
	if req.Status != nil {
		status := domain.Status(*req.Status)
		patch.Status = &status
	}
	if req.Role != nil {
		role := domain.Role(*req.Role)
		patch.Role = &role
	}

	profile, err := h.employees.AdminUpdate(c.Context(), c.Params("id"), patch, principal.Identity.ID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"data": dto.NewProfileResponse(profile)})
}

// Delete handles DELETE /employees/:id (soft delete).
func (h *EmployeesHandler) Delete(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	record, err := h.employees.SoftDelete(c.Context(), c.Params("id"), principal.Identity.ID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"id":         record.ID,
			"deleted_at": record.Deleted.DeletedAt,
		},
	})
}

// ListDeleted handles GET /employees/deleted.
func (h *EmployeesHandler) ListDeleted(c *fiber.Ctx) error {
	items, err := h.employees.ListDeleted(c.Context())
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"count": len(items),
		"data":  dto.NewDeletedEmployeeItems(items),
	})
}

// Restore handles PATCH /employees/:id/restore.
func (h *EmployeesHandler) Restore(c *fiber.Ctx) error {
	record, err := h.employees.Restore(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"data": dto.NewEmployeeView(record)})
}

// SubmitLeave handles POST /employees/leaves.
func (h *EmployeesHandler) SubmitLeave(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.LeaveSubmitRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	leave, err := h.employees.SubmitLeave(c.Context(), principal.Identity.ID, service.LeaveInput{
		Type:      req.Type,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Reason:    req.Reason,
	})
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": leave})
}

// DecideLeave handles PUT /employees/:id/leaves/:leaveId.
func (h *EmployeesHandler) DecideLeave(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.LeaveDecisionRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	leave, err := h.employees.SetLeaveStatus(c.Context(), c.Params("id"), c.Params("leaveId"), domain.LeaveStatus(req.Status), principal.Identity.ID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"data": leave})
}

// AddDocument handles POST /employees/documents.
func (h *EmployeesHandler) AddDocument(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.DocumentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	doc, err := h.employees.AddDocument(c.Context(), principal.Identity.ID, req.Type, req.URL)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": doc})
}

// profilePatchFromRequest maps the lenient update payload onto a policy
// patch. Unknown status/role strings are carried as-is and validated by
// the service where they matter.
func profilePatchFromRequest(req dto.ProfileUpdateRequest) policy.ProfilePatch {
	patch := policy.ProfilePatch{
		Name:             req.Name,
		Email:            req.Email,
		Phone:            req.Phone,
		Address:          req.Address,
		EmergencyContact: req.EmergencyContact,
		EmergencyPhone:   req.EmergencyPhone,
		Department:       req.Department,
		Position:         req.Position,
		Salary:           req.Salary,
	}
	if req.Status != nil {
		status := domain.Status(*req.Status)
		patch.Status = &status
	}
	if req.Role != nil {
		role := domain.Role(*req.Role)
		patch.Role = &role
	}
	return patch
}
