package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/hr-service/internal/auth"
	"github.com/spec-kit/hr-service/internal/config"
	"github.com/spec-kit/hr-service/internal/domain"
	"github.com/spec-kit/hr-service/internal/events"
	"github.com/spec-kit/hr-service/internal/policy"
	"github.com/spec-kit/hr-service/internal/repository"
	apperrors "github.com/spec-kit/hr-service/pkg/util"
)

const (
	defaultDepartment = "Engineering"
	defaultPosition   = "Intern"
)

// Profile is the combined identity + employee record view. The password
// hash never leaves the service layer.
type Profile struct {
	Identity *domain.Identity
	Record   *domain.EmployeeRecord
}

// AuthService coordinates registration, login and own-profile flows.
type AuthService struct {
	identities repository.IdentityRepository
	employees  repository.EmployeeRepository
	tokenMgr   *auth.TokenManager
	dispatcher events.Dispatcher
	logger     *zap.Logger
	bcryptCost int
	loginTTL   time.Duration
	registTTL  time.Duration
}

// AuthDependencies encapsulates requirements for the auth service.
type AuthDependencies struct {
	IdentityRepo repository.IdentityRepository
	EmployeeRepo repository.EmployeeRepository
	Dispatcher   events.Dispatcher
	Logger       *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	return &AuthService{
		identities: deps.IdentityRepo,
		employees:  deps.EmployeeRepo,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret),
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
		bcryptCost: cfg.Auth.BcryptCost,
		loginTTL:   cfg.Auth.AccessTokenTTL(),
		registTTL:  cfg.Auth.RegistrationTokenTTL(),
	}
}

// NormalizeEmail lowercases and trims an email for case-insensitive matching.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates an Identity (role employee) and its EmployeeRecord. The
// two writes are best-effort: if the record insert fails the freshly
// created identity is removed again and the failure surfaced.
func (s *AuthService) Register(ctx context.Context, name, email, password, department, position string) (*Profile, string, time.Time, error) {
	email = NormalizeEmail(email)

	if _, err := s.identities.GetByEmail(ctx, email); err == nil {
		return nil, "", time.Time{}, apperrors.NewDuplicateEmail(email)
	} else if err != pgx.ErrNoRows {
		return nil, "", time.Time{}, apperrors.MapError(err)
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, "", time.Time{}, apperrors.MapError(err)
	}

	identity := &domain.Identity{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleEmployee,
		Status:       domain.StatusActive,
	}
	if err := s.identities.Create(ctx, identity); err != nil {
		return nil, "", time.Time{}, apperrors.MapError(err)
	}

	if department == "" {
		department = defaultDepartment
	}
	if position == "" {
		position = defaultPosition
	}

	record := &domain.EmployeeRecord{
		IdentityID: identity.ID,
		Department: department,
		Position:   position,
		Salary:     0,
		Status:     domain.StatusActive,
	}
	if err := s.employees.Create(ctx, record); err != nil {
		// compensate: do not leave an identity without a record behind
		if delErr := s.identities.Delete(ctx, identity.ID); delErr != nil {
			s.logger.Error("failed to remove orphaned identity after registration failure",
				zap.String("identity_id", identity.ID), zap.Error(delErr))
		}
		return nil, "", time.Time{}, apperrors.MapError(err)
	}

	token, exp, err := s.tokenMgr.GenerateToken(identity.ID, identity.Role, s.registTTL)
	if err != nil {
		return nil, "", time.Time{}, apperrors.MapError(err)
	}

	s.publish(ctx, events.EventEmployeeRegistered, record.ID, identity.ID, events.EmployeeRegisteredPayload{
		IdentityID: identity.ID,
		Email:      identity.Email,
		Department: record.Department,
		Position:   record.Position,
	})

	return &Profile{Identity: identity, Record: record}, token, exp, nil
}

// Login authenticates an identity. Inactive accounts are rejected before
// the credential comparison.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.Identity, string, time.Time, error) {
	identity, err := s.identities.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, "", time.Time{}, apperrors.NewNotFound("identity", map[string]any{"email": email})
		}
		return nil, "", time.Time{}, apperrors.MapError(err)
	}
	if identity.Status == domain.StatusInactive {
		return nil, "", time.Time{}, apperrors.NewAccountInactive()
	}
	if err := auth.ComparePassword(identity.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, apperrors.NewInvalidCredentials()
	}

	token, exp, err := s.tokenMgr.GenerateToken(identity.ID, identity.Role, s.loginTTL)
	if err != nil {
		return nil, "", time.Time{}, apperrors.MapError(err)
	}
	return identity, token, exp, nil
}

// GetProfile returns the caller's identity and non-deleted employee record.
func (s *AuthService) GetProfile(ctx context.Context, identityID string) (*Profile, error) {
	identity, err := s.identities.GetByID(ctx, identityID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("identity", nil)
		}
		return nil, apperrors.MapError(err)
	}

	record, err := s.employees.GetByIdentity(ctx, identityID, false)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("employee record", nil)
		}
		return nil, apperrors.MapError(err)
	}

	return &Profile{Identity: identity, Record: record}, nil
}

// UpdateProfile applies a policy-filtered patch to the caller's own
// identity and employee record. Disallowed fields are dropped silently.
func (s *AuthService) UpdateProfile(ctx context.Context, identityID string, patch policy.ProfilePatch) (*Profile, error) {
	identity, err := s.identities.GetByID(ctx, identityID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("identity", nil)
		}
		return nil, apperrors.MapError(err)
	}

	patch = policy.Apply(identity.Role, patch)

	if patch.Name != nil && *patch.Name != "" {
		identity.Name = *patch.Name
	}
	if patch.Email != nil && *patch.Email != "" {
		newEmail := NormalizeEmail(*patch.Email)
		if newEmail != identity.Email {
			if existing, err := s.identities.GetByEmail(ctx, newEmail); err == nil && existing.ID != identity.ID {
				return nil, apperrors.NewDuplicateEmail(newEmail)
			} else if err != nil && err != pgx.ErrNoRows {
				return nil, apperrors.MapError(err)
			}
			identity.Email = newEmail
		}
	}
	if err := s.identities.Update(ctx, identity); err != nil {
		return nil, apperrors.MapError(err)
	}

	record, err := s.employees.GetByIdentity(ctx, identityID, false)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("employee record", nil)
		}
		return nil, apperrors.MapError(err)
	}

	applyRecordPatch(record, patch)
	if err := s.employees.Update(ctx, record); err != nil {
		return nil, apperrors.MapError(err)
	}

	return &Profile{Identity: identity, Record: record}, nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func (s *AuthService) publish(ctx context.Context, eventType events.EventType, employeeID, actorID string, payload interface{}) {
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

// applyRecordPatch copies present, non-privileged record fields from an
// already policy-filtered patch. Salary is applied only when the policy let
// it through (admin patches).
func applyRecordPatch(record *domain.EmployeeRecord, patch policy.ProfilePatch) {
	if patch.Phone != nil {
		record.Phone = *patch.Phone
	}
	if patch.Address != nil {
		record.Address = *patch.Address
	}
	if patch.EmergencyContact != nil {
		record.EmergencyContact = *patch.EmergencyContact
	}
	if patch.EmergencyPhone != nil {
		record.EmergencyPhone = *patch.EmergencyPhone
	}
	if patch.Department != nil && *patch.Department != "" {
		record.Department = *patch.Department
	}
	if patch.Position != nil && *patch.Position != "" {
		record.Position = *patch.Position
	}
	if patch.Salary != nil {
		record.Salary = *patch.Salary
	}
	if patch.Status != nil {
		record.Status = *patch.Status
	}
}
