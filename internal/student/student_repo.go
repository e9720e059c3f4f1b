package student

import (
	"context"
	"database/sql"

	"verticx/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=student_repo.go -destination=mock/student_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, s *Student) error
	FindAllByBranch(ctx context.Context, branchID string) ([]Student, error)
	FindByClass(ctx context.Context, branchID, classID string) ([]Student, error)
	FindByIDAndBranch(ctx context.Context, branchID, id string) (*Student, error)
	Update(ctx context.Context, s *Student) error
	Delete(ctx context.Context, branchID, id string) error
	ClassExists(ctx context.Context, branchID, classID string) (bool, error)
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

func (r *repository) Create(ctx context.Context, s *Student) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *repository) FindAllByBranch(ctx context.Context, branchID string) ([]Student, error) {
	var students []Student
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(branchID)).
		Order("grade_level ASC, full_name ASC").
		Find(&students).Error
	return students, err
}

func (r *repository) FindByClass(ctx context.Context, branchID, classID string) ([]Student, error) {
	var students []Student
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(branchID)).
		Where("class_id = ?", classID).
		Order("full_name ASC").
		Find(&students).Error
	return students, err
}

func (r *repository) FindByIDAndBranch(ctx context.Context, branchID, id string) (*Student, error) {
	var s Student
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(branchID)).
		First(&s, "id = ?", id).Error
	return &s, err
}

func (r *repository) Update(ctx context.Context, s *Student) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *repository) Delete(ctx context.Context, branchID, id string) error {
	return r.db.WithContext(ctx).
		Scopes(tenant.Scope(branchID)).
		Delete(&Student{}, "id = ?", id).Error
}

func (r *repository) ClassExists(ctx context.Context, branchID, classID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("classes").
		Where("id = ?", classID).
		Where("branch_id = ?", branchID).
		Where("deleted_at IS NULL").
		Count(&count).Error
	return count > 0, err
}
