package class

import (
	"context"
	"database/sql"

	"verticx/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=class_repo.go -destination=mock/class_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, cls *Class) error
	FindAllByBranch(ctx context.Context, branchID string) ([]Class, error)
	FindByIDAndBranch(ctx context.Context, branchID, id string) (*Class, error)
	Update(ctx context.Context, cls *Class) error
	Delete(ctx context.Context, branchID, id string) error
	FeeTemplateExists(ctx context.Context, branchID, templateID string) (bool, error)
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

func (r *repository) Create(ctx context.Context, cls *Class) error {
	return r.db.WithContext(ctx).Create(cls).Error
}

func (r *repository) FindAllByBranch(ctx context.Context, branchID string) ([]Class, error) {
	var classes []Class
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(branchID)).
		Order("grade_level ASC, name ASC").
		Find(&classes).Error
	return classes, err
}

func (r *repository) FindByIDAndBranch(ctx context.Context, branchID, id string) (*Class, error) {
	var cls Class
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(branchID)).
		First(&cls, "id = ?", id).Error
	return &cls, err
}

func (r *repository) Update(ctx context.Context, cls *Class) error {
	return r.db.WithContext(ctx).Save(cls).Error
}

func (r *repository) Delete(ctx context.Context, branchID, id string) error {
	return r.db.WithContext(ctx).
		Scopes(tenant.Scope(branchID)).
		Delete(&Class{}, "id = ?", id).Error
}

func (r *repository) FeeTemplateExists(ctx context.Context, branchID, templateID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("fee_templates").
		Where("id = ?", templateID).
		Where("branch_id = ?", branchID).
		Count(&count).Error
	return count > 0, err
}
