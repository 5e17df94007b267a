package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v3"

	"github.com/spec-kit/hr-service/internal/domain"
)

func newIdentityMock(t *testing.T) (pgxmock.PgxPoolIface, IdentityRepository) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	t.Cleanup(mock.Close)
	return mock, NewIdentityRepository(mock)
}

func TestIdentityRepository_Create(t *testing.T) {
	t.Parallel()

	mock, repo := newIdentityMock(t)
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO identities (name, email, password_hash, role, status)`)).
		WithArgs("Ada", "ada@x.com", "hash", domain.RoleEmployee, domain.StatusActive).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).
			AddRow("identity-1", now, now))

	identity := &domain.Identity{
		Name:         "Ada",
		Email:        "ada@x.com",
		PasswordHash: "hash",
		Role:         domain.RoleEmployee,
		Status:       domain.StatusActive,
	}
	if err := repo.Create(context.Background(), identity); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if identity.ID != "identity-1" {
		t.Fatalf("expected generated id, got %q", identity.ID)
	}
	if !identity.CreatedAt.Equal(now) {
		t.Fatalf("expected created_at %v, got %v", now, identity.CreatedAt)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestIdentityRepository_GetByEmail_NotFound(t *testing.T) {
	t.Parallel()

	mock, repo := newIdentityMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM identities WHERE email=$1`)).
		WithArgs("nobody@x.com").
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetByEmail(context.Background(), "nobody@x.com")
	if !errors.Is(err, pgx.ErrNoRows) {
		t.Fatalf("expected pgx.ErrNoRows, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestIdentityRepository_SetStatus_MissingRow(t *testing.T) {
	t.Parallel()

	mock, repo := newIdentityMock(t)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE identities SET status=$1, updated_at=NOW() WHERE id=$2`)).
		WithArgs(domain.StatusInactive, "missing").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.SetStatus(context.Background(), "missing", domain.StatusInactive)
	if !errors.Is(err, pgx.ErrNoRows) {
		t.Fatalf("expected pgx.ErrNoRows, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestIdentityRepository_SetRole(t *testing.T) {
	t.Parallel()

	mock, repo := newIdentityMock(t)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE identities SET role=$1, updated_at=NOW() WHERE id=$2`)).
		WithArgs(domain.RoleAdmin, "identity-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	if err := repo.SetRole(context.Background(), "identity-1", domain.RoleAdmin); err != nil {
		t.Fatalf("SetRole returned error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
