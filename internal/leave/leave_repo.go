package leave

import (
	"context"
	"database/sql"
	"time"

	"verticx/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=leave_repo.go -destination=mock/leave_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, request *LeaveRequest) error
	FindAllByBranch(ctx context.Context, branchID string) ([]LeaveRequest, error)
	FindByIDAndBranch(ctx context.Context, branchID, id string) (*LeaveRequest, error)
	Update(ctx context.Context, request *LeaveRequest) error
	Delete(ctx context.Context, branchID, id string) error
	StaffBelongsToBranch(ctx context.Context, branchID, staffID string) (bool, error)
	HasOverlappingPeriod(ctx context.Context, branchID, staffID string, startDate, endDate time.Time, excludeID *string) (bool, error)
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

func (r *repository) Create(ctx context.Context, request *LeaveRequest) error {
	return r.db.WithContext(ctx).Create(request).Error
}

func (r *repository) FindAllByBranch(ctx context.Context, branchID string) ([]LeaveRequest, error) {
	var requests []LeaveRequest
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(branchID)).
		Order("start_date DESC").
		Find(&requests).Error
	return requests, err
}

func (r *repository) FindByIDAndBranch(ctx context.Context, branchID, id string) (*LeaveRequest, error) {
	var request LeaveRequest
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(branchID)).
		First(&request, "id = ?", id).Error
	return &request, err
}

func (r *repository) Update(ctx context.Context, request *LeaveRequest) error {
	return r.db.WithContext(ctx).Save(request).Error
}

func (r *repository) Delete(ctx context.Context, branchID, id string) error {
	return r.db.WithContext(ctx).
		Scopes(tenant.Scope(branchID)).
		Delete(&LeaveRequest{}, "id = ?", id).Error
}

func (r *repository) StaffBelongsToBranch(ctx context.Context, branchID, staffID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("staff").
		Where("id = ?", staffID).
		Where("branch_id = ?", branchID).
		Where("deleted_at IS NULL").
		Count(&count).Error
	return count > 0, err
}

func (r *repository) HasOverlappingPeriod(ctx context.Context, branchID, staffID string, startDate, endDate time.Time, excludeID *string) (bool, error) {
	db := r.db.WithContext(ctx).
		Model(&LeaveRequest{}).
		Scopes(tenant.Scope(branchID)).
		Where("staff_id = ?", staffID).
		Where("status <> ?", StatusRejected).
		Where("NOT (end_date < ? OR start_date > ?)", startDate, endDate)

	if excludeID != nil && *excludeID != "" {
		db = db.Where("id <> ?", *excludeID)
	}

	var count int64
	err := db.Count(&count).Error
	return count > 0, err
}
