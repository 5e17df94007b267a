package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/hr-service/internal/api/http/handlers"
	"github.com/spec-kit/hr-service/internal/auth"
	"github.com/spec-kit/hr-service/internal/config"
	"github.com/spec-kit/hr-service/internal/domain"
	"github.com/spec-kit/hr-service/internal/events"
	"github.com/spec-kit/hr-service/internal/observability"
	"github.com/spec-kit/hr-service/internal/repository"
	"github.com/spec-kit/hr-service/internal/service"
)

type memIdentityRepo struct {
	identities map[string]*domain.Identity
	sequence   int
}

func (r *memIdentityRepo) Create(_ context.Context, identity *domain.Identity) error {
	r.sequence++
	identity.ID = fmt.Sprintf("identity-%d", r.sequence)
	identity.CreatedAt = time.Now()
	identity.UpdatedAt = identity.CreatedAt
	clone := *identity
	r.identities[identity.ID] = &clone
	return nil
}

func (r *memIdentityRepo) Update(_ context.Context, identity *domain.Identity) error {
	if _, ok := r.identities[identity.ID]; !ok {
		return pgx.ErrNoRows
	}
	clone := *identity
	r.identities[identity.ID] = &clone
	return nil
}

func (r *memIdentityRepo) GetByID(_ context.Context, id string) (*domain.Identity, error) {
	identity, ok := r.identities[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *identity
	return &clone, nil
}

func (r *memIdentityRepo) GetByEmail(_ context.Context, email string) (*domain.Identity, error) {
	for _, identity := range r.identities {
		if identity.Email == email {
			clone := *identity
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memIdentityRepo) SetStatus(_ context.Context, id string, status domain.Status) error {
	identity, ok := r.identities[id]
	if !ok {
		return pgx.ErrNoRows
	}
	identity.Status = status
	return nil
}

func (r *memIdentityRepo) SetRole(_ context.Context, id string, role domain.Role) error {
	identity, ok := r.identities[id]
	if !ok {
		return pgx.ErrNoRows
	}
	identity.Role = role
	return nil
}

func (r *memIdentityRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.identities[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.identities, id)
	return nil
}

type memEmployeeRepo struct {
	records    map[string]*domain.EmployeeRecord
	identities *memIdentityRepo
	sequence   int
}

func (r *memEmployeeRepo) Create(_ context.Context, rec *domain.EmployeeRecord) error {
	r.sequence++
	rec.ID = fmt.Sprintf("employee-%d", r.sequence)
	now := time.Now()
	rec.JoinDate = now
	rec.CreatedAt = now
	rec.UpdatedAt = now
	clone := *rec
	r.records[rec.ID] = &clone
	return nil
}

func (r *memEmployeeRepo) Update(_ context.Context, rec *domain.EmployeeRecord) error {
	if _, ok := r.records[rec.ID]; !ok {
		return pgx.ErrNoRows
	}
	clone := *rec
	r.records[rec.ID] = &clone
	return nil
}

func (r *memEmployeeRepo) GetByID(_ context.Context, id string, includeDeleted bool) (*domain.EmployeeRecord, error) {
	rec, ok := r.records[id]
	if !ok || (!includeDeleted && rec.Deleted.IsDeleted) {
		return nil, pgx.ErrNoRows
	}
	clone := *rec
	return &clone, nil
}

func (r *memEmployeeRepo) GetByIdentity(_ context.Context, identityID string, includeDeleted bool) (*domain.EmployeeRecord, error) {
	for _, rec := range r.records {
		if rec.IdentityID == identityID {
			if !includeDeleted && rec.Deleted.IsDeleted {
				return nil, pgx.ErrNoRows
			}
			clone := *rec
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memEmployeeRepo) SoftDelete(_ context.Context, id, actorID string) error {
	rec, ok := r.records[id]
	if !ok || rec.Deleted.IsDeleted {
		return pgx.ErrNoRows
	}
	now := time.Now()
	rec.Deleted = domain.DeletionMark{IsDeleted: true, DeletedAt: &now, DeletedBy: &actorID}
	return nil
}

func (r *memEmployeeRepo) Restore(_ context.Context, id string) error {
	rec, ok := r.records[id]
	if !ok || !rec.Deleted.IsDeleted {
		return pgx.ErrNoRows
	}
	rec.Deleted = domain.DeletionMark{}
	return nil
}

func (r *memEmployeeRepo) ListActive(_ context.Context, limit, offset int) ([]repository.EmployeeWithIdentity, error) {
	var result []repository.EmployeeWithIdentity
	for _, rec := range r.records {
		if rec.Deleted.IsDeleted {
			continue
		}
		item := repository.EmployeeWithIdentity{Record: *rec}
		if identity, ok := r.identities.identities[rec.IdentityID]; ok {
			item.Identity = *identity
		}
		result = append(result, item)
	}
	return result, nil
}

func (r *memEmployeeRepo) ListDeleted(_ context.Context) ([]repository.EmployeeWithIdentity, error) {
	var result []repository.EmployeeWithIdentity
	for _, rec := range r.records {
		if !rec.Deleted.IsDeleted {
			continue
		}
		item := repository.EmployeeWithIdentity{Record: *rec}
		if identity, ok := r.identities.identities[rec.IdentityID]; ok {
			item.Identity = *identity
		}
		result = append(result, item)
	}
	return result, nil
}

func (r *memEmployeeRepo) CountActive(_ context.Context) (int64, error) {
	var count int64
	for _, rec := range r.records {
		if !rec.Deleted.IsDeleted {
			count++
		}
	}
	return count, nil
}

func (r *memEmployeeRepo) CountByDepartment(_ context.Context) ([]domain.DepartmentCount, error) {
	counts := make(map[string]int64)
	for _, rec := range r.records {
		if !rec.Deleted.IsDeleted {
			counts[rec.Department]++
		}
	}
	var result []domain.DepartmentCount
	for department, count := range counts {
		result = append(result, domain.DepartmentCount{Department: department, Count: count})
	}
	return result, nil
}

func (r *memEmployeeRepo) CountCreatedSince(_ context.Context, since time.Time) (int64, error) {
	var count int64
	for _, rec := range r.records {
		if !rec.Deleted.IsDeleted && !rec.CreatedAt.Before(since) {
			count++
		}
	}
	return count, nil
}

type testServer struct {
	app        *fiber.App
	identities *memIdentityRepo
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	identities := &memIdentityRepo{identities: make(map[string]*domain.Identity)}
	records := &memEmployeeRepo{records: make(map[string]*domain.EmployeeRecord), identities: identities}
	logger := zap.NewNop()
	dispatcher := events.NewInMemoryDispatcher()

	cfg := config.Config{
		Auth: config.AuthConfig{
			JWTSecret:                 "router-test-secret",
			AccessTokenTTLMinutes:     60,
			RegistrationTokenTTLHours: 24,
			BcryptCost:                bcrypt.MinCost,
		},
	}

	authService := service.NewAuthService(cfg, service.AuthDependencies{
		IdentityRepo: identities,
		EmployeeRepo: records,
		Dispatcher:   dispatcher,
		Logger:       logger,
	})
	employeeService := service.NewEmployeeService(service.EmployeeDependencies{
		IdentityRepo: identities,
		EmployeeRepo: records,
		Dispatcher:   dispatcher,
		Logger:       logger,
	})

	app := fiber.New()
	RegisterMiddlewares(app, logger, observability.NewMetrics(), 0)
	RegisterRoutes(app, RouteConfig{
		Health:         handlers.NewHealthHandler("hr-record-service", "test", nil, nil),
		Auth:           handlers.NewAuthHandler(authService),
		Employees:      handlers.NewEmployeesHandler(employeeService, authService),
		AuthMiddleware: auth.NewAuthMiddleware(authService.TokenManager(), identities),
	})

	return &testServer{app: app, identities: identities}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) (int, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read response: %v", err)
	}
	var decoded map[string]any
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &decoded); err != nil {
			t.Fatalf("decode response %q: %v", raw, err)
		}
	}
	return resp.StatusCode, decoded
}

func registerAccount(t *testing.T, s *testServer, name, email string) (token, identityID string) {
	t.Helper()

	status, body := s.do(t, http.MethodPost, "/auth/register", "", map[string]any{
		"name":     name,
		"email":    email,
		"password": "pass123",
	})
	if status != http.StatusCreated {
		t.Fatalf("register %s: expected 201, got %d (%v)", email, status, body)
	}
	data := body["data"].(map[string]any)
	token = data["auth"].(map[string]any)["token"].(string)
	identityID = data["user"].(map[string]any)["id"].(string)
	return token, identityID
}

func TestRegisterLoginProfileFlow(t *testing.T) {
	s := newTestServer(t)
	token, _ := registerAccount(t, s, "Ada", "ada@x.com")

	status, body := s.do(t, http.MethodGet, "/auth/profile", token, nil)
	if status != http.StatusOK {
		t.Fatalf("get profile: expected 200, got %d (%v)", status, body)
	}
	data := body["data"].(map[string]any)
	if data["user"].(map[string]any)["email"] != "ada@x.com" {
		t.Fatalf("unexpected profile payload: %v", data)
	}

	// employee patch: phone passes through, salary is dropped silently
	status, body = s.do(t, http.MethodPut, "/auth/profile", token, map[string]any{
		"phone":  "+1 555 0100",
		"salary": 9999,
	})
	if status != http.StatusOK {
		t.Fatalf("update profile: expected 200, got %d (%v)", status, body)
	}
	employee := body["data"].(map[string]any)["employee"].(map[string]any)
	if employee["phone"] != "+1 555 0100" {
		t.Fatalf("phone not applied: %v", employee)
	}
	if employee["salary"].(float64) != 0 {
		t.Fatalf("salary must not change via own profile: %v", employee["salary"])
	}

	status, body = s.do(t, http.MethodPost, "/auth/login", "", map[string]any{
		"email":    "ADA@x.com",
		"password": "pass123",
	})
	if status != http.StatusOK {
		t.Fatalf("login: expected 200, got %d (%v)", status, body)
	}
}

func TestAdminGuard(t *testing.T) {
	s := newTestServer(t)
	token, identityID := registerAccount(t, s, "Ada", "ada@x.com")

	status, body := s.do(t, http.MethodGet, "/employees/all", token, nil)
	if status != http.StatusForbidden {
		t.Fatalf("expected 403 for employee role, got %d (%v)", status, body)
	}
	if body["error"].(map[string]any)["code"] != "FORBIDDEN" {
		t.Fatalf("unexpected error envelope: %v", body)
	}

	// promoting the identity makes the same token pass the guard: the
	// middleware reloads the identity on every request
	if err := s.identities.SetRole(context.Background(), identityID, domain.RoleAdmin); err != nil {
		t.Fatalf("set role: %v", err)
	}
	status, body = s.do(t, http.MethodGet, "/employees/all", token, nil)
	if status != http.StatusOK {
		t.Fatalf("expected 200 for admin, got %d (%v)", status, body)
	}
	if body["pagination"].(map[string]any)["total"].(float64) != 1 {
		t.Fatalf("unexpected listing: %v", body)
	}
}

func TestMissingTokenRejected(t *testing.T) {
	s := newTestServer(t)

	status, body := s.do(t, http.MethodGet, "/auth/profile", "", nil)
	if status != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d (%v)", status, body)
	}
	if body["error"].(map[string]any)["code"] != "UNAUTHORIZED" {
		t.Fatalf("unexpected error envelope: %v", body)
	}
}

func TestSoftDeleteOverHTTP(t *testing.T) {
	s := newTestServer(t)
	adminToken, adminID := registerAccount(t, s, "Admin", "admin@x.com")
	if err := s.identities.SetRole(context.Background(), adminID, domain.RoleAdmin); err != nil {
		t.Fatalf("set role: %v", err)
	}
	_, _ = registerAccount(t, s, "Ada", "ada@x.com")

	status, body := s.do(t, http.MethodGet, "/employees/all", adminToken, nil)
	if status != http.StatusOK {
		t.Fatalf("list: expected 200, got %d (%v)", status, body)
	}
	items := body["data"].([]any)

	var targetID string
	for _, raw := range items {
		item := raw.(map[string]any)
		if item["user"].(map[string]any)["email"] == "ada@x.com" {
			targetID = item["employee"].(map[string]any)["id"].(string)
		}
	}
	if targetID == "" {
		t.Fatalf("target employee not found in listing: %v", items)
	}

	status, body = s.do(t, http.MethodDelete, "/employees/"+targetID, adminToken, nil)
	if status != http.StatusOK {
		t.Fatalf("delete: expected 200, got %d (%v)", status, body)
	}

	// repeat delete conflicts
	status, body = s.do(t, http.MethodDelete, "/employees/"+targetID, adminToken, nil)
	if status != http.StatusConflict {
		t.Fatalf("expected 409 on repeat delete, got %d (%v)", status, body)
	}
	if body["error"].(map[string]any)["code"] != "ALREADY_DELETED" {
		t.Fatalf("unexpected error envelope: %v", body)
	}

	status, body = s.do(t, http.MethodGet, "/employees/deleted", adminToken, nil)
	if status != http.StatusOK {
		t.Fatalf("list deleted: expected 200, got %d (%v)", status, body)
	}
	if body["count"].(float64) != 1 {
		t.Fatalf("expected one deleted record, got %v", body)
	}

	status, body = s.do(t, http.MethodPatch, "/employees/"+targetID+"/restore", adminToken, nil)
	if status != http.StatusOK {
		t.Fatalf("restore: expected 200, got %d (%v)", status, body)
	}
}
