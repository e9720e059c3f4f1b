package staff

import (
	"context"
	"database/sql"

	"verticx/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=staff_repo.go -destination=mock/staff_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, member *Staff) error
	FindAllByBranch(ctx context.Context, branchID string) ([]Staff, error)
	FindOptionsByBranch(ctx context.Context, branchID string) ([]Staff, error)
	FindByIDAndBranch(ctx context.Context, branchID, id string) (*Staff, error)
	Update(ctx context.Context, member *Staff) error
	Delete(ctx context.Context, branchID, id string) error
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) Create(ctx context.Context, member *Staff) error {
	return r.db.WithContext(ctx).Create(member).Error
}

func (r *repository) FindAllByBranch(ctx context.Context, branchID string) ([]Staff, error) {
	var members []Staff
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(branchID)).
		Order("last_name ASC, first_name ASC").
		Find(&members).Error
	return members, err
}

func (r *repository) FindOptionsByBranch(ctx context.Context, branchID string) ([]Staff, error) {
	var members []Staff
	err := r.db.WithContext(ctx).
		Select("id", "branch_id", "staff_number", "first_name", "last_name", "role_title", "active").
		Scopes(tenant.Scope(branchID)).
		Where("active = ?", true).
		Order("last_name ASC, first_name ASC").
		Find(&members).Error
	return members, err
}

func (r *repository) FindByIDAndBranch(ctx context.Context, branchID, id string) (*Staff, error) {
	var member Staff
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(branchID)).
		First(&member, "id = ?", id).Error
	return &member, err
}

func (r *repository) Update(ctx context.Context, member *Staff) error {
	return r.db.WithContext(ctx).Save(member).Error
}

func (r *repository) Delete(ctx context.Context, branchID, id string) error {
	return r.db.WithContext(ctx).
		Scopes(tenant.Scope(branchID)).
		Delete(&Staff{}, "id = ?", id).Error
}
