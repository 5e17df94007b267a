package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/hr-service/internal/domain"
	"github.com/spec-kit/hr-service/internal/repository"
)

type fakeIdentityRepo struct {
	identities map[string]*domain.Identity
	sequence   int
}

func newFakeIdentityRepo() *fakeIdentityRepo {
	return &fakeIdentityRepo{identities: make(map[string]*domain.Identity)}
}

func (r *fakeIdentityRepo) Create(_ context.Context, identity *domain.Identity) error {
	r.sequence++
	identity.ID = fmt.Sprintf("identity-%d", r.sequence)
	identity.CreatedAt = time.Now()
	identity.UpdatedAt = identity.CreatedAt
	clone := *identity
	r.identities[identity.ID] = &clone
	return nil
}

func (r *fakeIdentityRepo) Update(_ context.Context, identity *domain.Identity) error {
	if _, ok := r.identities[identity.ID]; !ok {
		return pgx.ErrNoRows
	}
	clone := *identity
	r.identities[identity.ID] = &clone
	return nil
}

func (r *fakeIdentityRepo) GetByID(_ context.Context, id string) (*domain.Identity, error) {
	identity, ok := r.identities[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *identity
	return &clone, nil
}

func (r *fakeIdentityRepo) GetByEmail(_ context.Context, email string) (*domain.Identity, error) {
	for _, identity := range r.identities {
		if identity.Email == email {
			clone := *identity
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeIdentityRepo) SetStatus(_ context.Context, id string, status domain.Status) error {
	identity, ok := r.identities[id]
	if !ok {
		return pgx.ErrNoRows
	}
	identity.Status = status
	return nil
}

func (r *fakeIdentityRepo) SetRole(_ context.Context, id string, role domain.Role) error {
	identity, ok := r.identities[id]
	if !ok {
		return pgx.ErrNoRows
	}
	identity.Role = role
	return nil
}

func (r *fakeIdentityRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.identities[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.identities, id)
	return nil
}

type fakeEmployeeRepo struct {
	records    map[string]*domain.EmployeeRecord
	identities *fakeIdentityRepo
	sequence   int
	failCreate bool
}

func newFakeEmployeeRepo(identities *fakeIdentityRepo) *fakeEmployeeRepo {
	return &fakeEmployeeRepo{records: make(map[string]*domain.EmployeeRecord), identities: identities}
}

func (r *fakeEmployeeRepo) Create(_ context.Context, rec *domain.EmployeeRecord) error {
	if r.failCreate {
		return errors.New("insert failed")
	}
	r.sequence++
	rec.ID = fmt.Sprintf("employee-%d", r.sequence)
	now := time.Now()
	rec.JoinDate = now
	rec.CreatedAt = now
	rec.UpdatedAt = now
	clone := cloneRecord(rec)
	r.records[rec.ID] = clone
	return nil
}

func (r *fakeEmployeeRepo) Update(_ context.Context, rec *domain.EmployeeRecord) error {
	if _, ok := r.records[rec.ID]; !ok {
		return pgx.ErrNoRows
	}
	r.records[rec.ID] = cloneRecord(rec)
	return nil
}

func (r *fakeEmployeeRepo) GetByID(_ context.Context, id string, includeDeleted bool) (*domain.EmployeeRecord, error) {
	rec, ok := r.records[id]
	if !ok || (!includeDeleted && rec.Deleted.IsDeleted) {
		return nil, pgx.ErrNoRows
	}
	return cloneRecord(rec), nil
}

func (r *fakeEmployeeRepo) GetByIdentity(_ context.Context, identityID string, includeDeleted bool) (*domain.EmployeeRecord, error) {
	for _, rec := range r.records {
		if rec.IdentityID == identityID {
			if !includeDeleted && rec.Deleted.IsDeleted {
				return nil, pgx.ErrNoRows
			}
			return cloneRecord(rec), nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeEmployeeRepo) SoftDelete(_ context.Context, id, actorID string) error {
	rec, ok := r.records[id]
	if !ok || rec.Deleted.IsDeleted {
		return pgx.ErrNoRows
	}
	now := time.Now()
	rec.Deleted = domain.DeletionMark{IsDeleted: true, DeletedAt: &now, DeletedBy: &actorID}
	return nil
}

func (r *fakeEmployeeRepo) Restore(_ context.Context, id string) error {
	rec, ok := r.records[id]
	if !ok || !rec.Deleted.IsDeleted {
		return pgx.ErrNoRows
	}
	rec.Deleted = domain.DeletionMark{}
	return nil
}

func (r *fakeEmployeeRepo) ListActive(_ context.Context, limit, offset int) ([]repository.EmployeeWithIdentity, error) {
	var result []repository.EmployeeWithIdentity
	for _, rec := range r.records {
		if rec.Deleted.IsDeleted {
			continue
		}
		item := repository.EmployeeWithIdentity{Record: *cloneRecord(rec)}
		if identity, ok := r.identities.identities[rec.IdentityID]; ok {
			item.Identity = *identity
		}
		result = append(result, item)
	}
	if offset > len(result) {
		offset = len(result)
	}
	result = result[offset:]
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (r *fakeEmployeeRepo) ListDeleted(_ context.Context) ([]repository.EmployeeWithIdentity, error) {
	var result []repository.EmployeeWithIdentity
	for _, rec := range r.records {
		if !rec.Deleted.IsDeleted {
			continue
		}
		item := repository.EmployeeWithIdentity{Record: *cloneRecord(rec)}
		if identity, ok := r.identities.identities[rec.IdentityID]; ok {
			item.Identity = *identity
		}
		if rec.Deleted.DeletedBy != nil {
			if deleter, ok := r.identities.identities[*rec.Deleted.DeletedBy]; ok {
				clone := *deleter
				item.Deleter = &clone
			}
		}
		result = append(result, item)
	}
	return result, nil
}

func (r *fakeEmployeeRepo) CountActive(_ context.Context) (int64, error) {
	var count int64
	for _, rec := range r.records {
		if !rec.Deleted.IsDeleted {
			count++
		}
	}
	return count, nil
}

func (r *fakeEmployeeRepo) CountByDepartment(_ context.Context) ([]domain.DepartmentCount, error) {
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

func (r *fakeEmployeeRepo) CountCreatedSince(_ context.Context, since time.Time) (int64, error) {
	var count int64
	for _, rec := range r.records {
		if !rec.Deleted.IsDeleted && !rec.CreatedAt.Before(since) {
			count++
		}
	}
	return count, nil
}

func cloneRecord(rec *domain.EmployeeRecord) *domain.EmployeeRecord {
	clone := *rec
	clone.Documents = append([]domain.Document(nil), rec.Documents...)
	clone.Leaves = append([]domain.LeaveRequest(nil), rec.Leaves...)
	return &clone
}
