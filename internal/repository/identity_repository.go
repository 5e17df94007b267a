package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/hr-service/internal/domain"
	"github.com/spec-kit/hr-service/internal/persistence"
)

// IdentityRepository defines persistence access for identities.
type IdentityRepository interface {
	Create(ctx context.Context, identity *domain.Identity) error
	Update(ctx context.Context, identity *domain.Identity) error
	GetByID(ctx context.Context, id string) (*domain.Identity, error)
	GetByEmail(ctx context.Context, email string) (*domain.Identity, error)
	SetStatus(ctx context.Context, id string, status domain.Status) error
	SetRole(ctx context.Context, id string, role domain.Role) error
	// Delete physically removes an identity. Only used as the compensating
	// action when employee record creation fails mid-registration.
	Delete(ctx context.Context, id string) error
}

type identityRepository struct {
	db persistence.Queryer
}

// NewIdentityRepository returns a Postgres-backed implementation.
func NewIdentityRepository(db persistence.Queryer) IdentityRepository {
	return &identityRepository{db: db}
}

func (r *identityRepository) Create(ctx context.Context, identity *domain.Identity) error {
	const query = `
        INSERT INTO identities (name, email, password_hash, role, status)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at, updated_at`

	return r.db.QueryRow(ctx, query,
		identity.Name,
		identity.Email,
		identity.PasswordHash,
		identity.Role,
		identity.Status,
	).Scan(&identity.ID, &identity.CreatedAt, &identity.UpdatedAt)
}

func (r *identityRepository) Update(ctx context.Context, identity *domain.Identity) error {
	const query = `
        UPDATE identities SET name=$1, email=$2, password_hash=$3, role=$4, status=$5, updated_at=NOW()
        WHERE id=$6`

	cmd, err := r.db.Exec(ctx, query,
		identity.Name,
		identity.Email,
		identity.PasswordHash,
		identity.Role,
		identity.Status,
		identity.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *identityRepository) GetByID(ctx context.Context, id string) (*domain.Identity, error) {
	const query = `
        SELECT id, name, email, password_hash, role, status, created_at, updated_at
        FROM identities WHERE id=$1`

	return r.scanOne(r.db.QueryRow(ctx, query, id))
}

func (r *identityRepository) GetByEmail(ctx context.Context, email string) (*domain.Identity, error) {
	const query = `
        SELECT id, name, email, password_hash, role, status, created_at, updated_at
        FROM identities WHERE email=$1`

	return r.scanOne(r.db.QueryRow(ctx, query, email))
}

func (r *identityRepository) SetStatus(ctx context.Context, id string, status domain.Status) error {
	const query = `UPDATE identities SET status=$1, updated_at=NOW() WHERE id=$2`

	cmd, err := r.db.Exec(ctx, query, status, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *identityRepository) SetRole(ctx context.Context, id string, role domain.Role) error {
	const query = `UPDATE identities SET role=$1, updated_at=NOW() WHERE id=$2`

	cmd, err := r.db.Exec(ctx, query, role, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *identityRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM identities WHERE id=$1`

	cmd, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *identityRepository) scanOne(row pgx.Row) (*domain.Identity, error) {
	var identity domain.Identity
	if err := row.Scan(
		&identity.ID,
		&identity.Name,
		&identity.Email,
		&identity.PasswordHash,
		&identity.Role,
		&identity.Status,
		&identity.CreatedAt,
		&identity.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &identity, nil
}
