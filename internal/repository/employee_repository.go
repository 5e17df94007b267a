package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/hr-service/internal/domain"
	"github.com/spec-kit/hr-service/internal/persistence"
)

// EmployeeWithIdentity pairs an employee record with its owning identity
// for listing views. Deleter is resolved only on the deleted partition.
type EmployeeWithIdentity struct {
	Record   domain.EmployeeRecord
	Identity domain.Identity
	Deleter  *domain.Identity
}

// EmployeeRepository handles persistence for employee records. Reads take
// the deleted partition explicitly: soft-deleted rows never leak into a
// query that did not ask for them.
type EmployeeRepository interface {
	Create(ctx context.Context, rec *domain.EmployeeRecord) error
	Update(ctx context.Context, rec *domain.EmployeeRecord) error
	GetByID(ctx context.Context, id string, includeDeleted bool) (*domain.EmployeeRecord, error)
	GetByIdentity(ctx context.Context, identityID string, includeDeleted bool) (*domain.EmployeeRecord, error)
	SoftDelete(ctx context.Context, id, actorID string) error
	Restore(ctx context.Context, id string) error
	ListActive(ctx context.Context, limit, offset int) ([]EmployeeWithIdentity, error)
	ListDeleted(ctx context.Context) ([]EmployeeWithIdentity, error)
	CountActive(ctx context.Context) (int64, error)
	CountByDepartment(ctx context.Context) ([]domain.DepartmentCount, error)
	CountCreatedSince(ctx context.Context, since time.Time) (int64, error)
}

type employeeRepository struct {
	db persistence.Queryer
}

// NewEmployeeRepository instantiates the repository.
func NewEmployeeRepository(db persistence.Queryer) EmployeeRepository {
	return &employeeRepository{db: db}
}

const employeeColumns = `id, identity_id, department, position, salary, phone, address,
        emergency_contact, emergency_phone, join_date, status, documents, leaves,
        is_deleted, deleted_at, deleted_by, created_at, updated_at`

func (r *employeeRepository) Create(ctx context.Context, rec *domain.EmployeeRecord) error {
	const query = `
        INSERT INTO employee_records (identity_id, department, position, salary, phone, address,
            emergency_contact, emergency_phone, status, documents, leaves)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
        RETURNING id, join_date, created_at, updated_at`

	if rec.Documents == nil {
		rec.Documents = []domain.Document{}
	}
	if rec.Leaves == nil {
		rec.Leaves = []domain.LeaveRequest{}
	}

	return r.db.QueryRow(ctx, query,
		rec.IdentityID,
		rec.Department,
		rec.Position,
		rec.Salary,
		rec.Phone,
		rec.Address,
		rec.EmergencyContact,
		rec.EmergencyPhone,
		rec.Status,
		rec.Documents,
		rec.Leaves,
	).Scan(&rec.ID, &rec.JoinDate, &rec.CreatedAt, &rec.UpdatedAt)
}

func (r *employeeRepository) Update(ctx context.Context, rec *domain.EmployeeRecord) error {
	const query = `
        UPDATE employee_records
        SET department=$1, position=$2, salary=$3, phone=$4, address=$5,
            emergency_contact=$6, emergency_phone=$7, status=$8, documents=$9, leaves=$10,
            updated_at=NOW()
        WHERE id=$11`

	cmd, err := r.db.Exec(ctx, query,
		rec.Department,
		rec.Position,
		rec.Salary,
		rec.Phone,
		rec.Address,
		rec.EmergencyContact,
		rec.EmergencyPhone,
		rec.Status,
		rec.Documents,
		rec.Leaves,
		rec.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *employeeRepository) GetByID(ctx context.Context, id string, includeDeleted bool) (*domain.EmployeeRecord, error) {
	query := `SELECT ` + employeeColumns + ` FROM employee_records WHERE id=$1`
	if !includeDeleted {
		query += ` AND is_deleted=FALSE`
	}
	return scanEmployee(r.db.QueryRow(ctx, query, id))
}

func (r *employeeRepository) GetByIdentity(ctx context.Context, identityID string, includeDeleted bool) (*domain.EmployeeRecord, error) {
	query := `SELECT ` + employeeColumns + ` FROM employee_records WHERE identity_id=$1`
	if !includeDeleted {
		query += ` AND is_deleted=FALSE`
	}
	return scanEmployee(r.db.QueryRow(ctx, query, identityID))
}

func (r *employeeRepository) SoftDelete(ctx context.Context, id, actorID string) error {
	const query = `
        UPDATE employee_records
        SET is_deleted=TRUE, deleted_at=NOW(), deleted_by=$2, updated_at=NOW()
        WHERE id=$1 AND is_deleted=FALSE`

	cmd, err := r.db.Exec(ctx, query, id, actorID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *employeeRepository) Restore(ctx context.Context, id string) error {
	const query = `
        UPDATE employee_records
        SET is_deleted=FALSE, deleted_at=NULL, deleted_by=NULL, updated_at=NOW()
        WHERE id=$1 AND is_deleted=TRUE`

	cmd, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *employeeRepository) ListActive(ctx context.Context, limit, offset int) ([]EmployeeWithIdentity, error) {
	const query = `
        SELECT e.id, e.identity_id, e.department, e.position, e.salary, e.phone, e.address,
               e.emergency_contact, e.emergency_phone, e.join_date, e.status, e.documents, e.leaves,
               e.is_deleted, e.deleted_at, e.deleted_by, e.created_at, e.updated_at,
               i.id, i.name, i.email, i.role, i.status, i.created_at, i.updated_at
        FROM employee_records e
        JOIN identities i ON i.id = e.identity_id
        WHERE e.is_deleted=FALSE
        ORDER BY e.created_at DESC
        LIMIT $1 OFFSET $2`

	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []EmployeeWithIdentity
	for rows.Next() {
		var item EmployeeWithIdentity
		if err := scanEmployeeWithIdentity(rows, &item); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	return result, rows.Err()
}

func (r *employeeRepository) ListDeleted(ctx context.Context) ([]EmployeeWithIdentity, error) {
	const query = `
        SELECT e.id, e.identity_id, e.department, e.position, e.salary, e.phone, e.address,
               e.emergency_contact, e.emergency_phone, e.join_date, e.status, e.documents, e.leaves,
               e.is_deleted, e.deleted_at, e.deleted_by, e.created_at, e.updated_at,
               i.id, i.name, i.email, i.role, i.status, i.created_at, i.updated_at,
               d.id, d.name, d.email
        FROM employee_records e
        JOIN identities i ON i.id = e.identity_id
        LEFT JOIN identities d ON d.id = e.deleted_by
        WHERE e.is_deleted=TRUE
        ORDER BY e.deleted_at DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []EmployeeWithIdentity
	for rows.Next() {
		var item EmployeeWithIdentity
		var deleterID, deleterName, deleterEmail *string
		if err := rows.Scan(
			&item.Record.ID,
			&item.Record.IdentityID,
			&item.Record.Department,
			&item.Record.Position,
			&item.Record.Salary,
			&item.Record.Phone,
			&item.Record.Address,
			&item.Record.EmergencyContact,
			&item.Record.EmergencyPhone,
			&item.Record.JoinDate,
			&item.Record.Status,
			&item.Record.Documents,
			&item.Record.Leaves,
			&item.Record.Deleted.IsDeleted,
			&item.Record.Deleted.DeletedAt,
			&item.Record.Deleted.DeletedBy,
			&item.Record.CreatedAt,
			&item.Record.UpdatedAt,
			&item.Identity.ID,
			&item.Identity.Name,
			&item.Identity.Email,
			&item.Identity.Role,
			&item.Identity.Status,
			&item.Identity.CreatedAt,
			&item.Identity.UpdatedAt,
			&deleterID,
			&deleterName,
			&deleterEmail,
		); err != nil {
			return nil, err
		}
		if deleterID != nil {
			item.Deleter = &domain.Identity{ID: *deleterID, Name: *deleterName, Email: *deleterEmail}
		}
		result = append(result, item)
	}
	return result, rows.Err()
}

func (r *employeeRepository) CountActive(ctx context.Context) (int64, error) {
	const query = `SELECT COUNT(*) FROM employee_records WHERE is_deleted=FALSE`

	var count int64
	if err := r.db.QueryRow(ctx, query).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *employeeRepository) CountByDepartment(ctx context.Context) ([]domain.DepartmentCount, error) {
	const query = `
        SELECT department, COUNT(*) FROM employee_records
        WHERE is_deleted=FALSE
        GROUP BY department
        ORDER BY COUNT(*) DESC, department`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.DepartmentCount
	for rows.Next() {
		var dc domain.DepartmentCount
		if err := rows.Scan(&dc.Department, &dc.Count); err != nil {
			return nil, err
		}
		result = append(result, dc)
	}
	return result, rows.Err()
}

func (r *employeeRepository) CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	const query = `SELECT COUNT(*) FROM employee_records WHERE is_deleted=FALSE AND created_at >= $1`

	var count int64
	if err := r.db.QueryRow(ctx, query, since).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func scanEmployee(row pgx.Row) (*domain.EmployeeRecord, error) {
	var rec domain.EmployeeRecord
	if err := row.Scan(
		&rec.ID,
		&rec.IdentityID,
		&rec.Department,
		&rec.Position,
		&rec.Salary,
		&rec.Phone,
		&rec.Address,
		&rec.EmergencyContact,
		&rec.EmergencyPhone,
		&rec.JoinDate,
		&rec.Status,
		&rec.Documents,
		&rec.Leaves,
		&rec.Deleted.IsDeleted,
		&rec.Deleted.DeletedAt,
		&rec.Deleted.DeletedBy,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &rec, nil
}

func scanEmployeeWithIdentity(rows pgx.Rows, item *EmployeeWithIdentity) error {
	return rows.Scan(
		&item.Record.ID,
		&item.Record.IdentityID,
		&item.Record.Department,
		&item.Record.Position,
		&item.Record.Salary,
		&item.Record.Phone,
		&item.Record.Address,
		&item.Record.EmergencyContact,
		&item.Record.EmergencyPhone,
		&item.Record.JoinDate,
		&item.Record.Status,
		&item.Record.Documents,
		&item.Record.Leaves,
		&item.Record.Deleted.IsDeleted,
		&item.Record.Deleted.DeletedAt,
		&item.Record.Deleted.DeletedBy,
		&item.Record.CreatedAt,
		&item.Record.UpdatedAt,
		&item.Identity.ID,
		&item.Identity.Name,
		&item.Identity.Email,
		&item.Identity.Role,
		&item.Identity.Status,
		&item.Identity.CreatedAt,
		&item.Identity.UpdatedAt,
	)
}
