package staffsalary

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

//go:generate mockgen -source=staff_salary_repo.go -destination=mock/staff_salary_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, salary *StaffSalary) error
	FindAllByBranch(ctx context.Context, branchID string) ([]StaffSalary, error)
	FindByIDAndBranch(ctx context.Context, branchID, id string) (*StaffSalary, error)
	Update(ctx context.Context, salary *StaffSalary) error
	Delete(ctx context.Context, branchID, id string) error
	StaffBelongsToBranch(ctx context.Context, branchID, staffID string) (bool, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{
		db: r.db,
		tx: tx,
	}
}

func (r *repository) Create(ctx context.Context, salary *StaffSalary) error {
	return r.db.WithContext(ctx).Create(salary).Error
}

func (r *repository) FindAllByBranch(ctx context.Context, branchID string) ([]StaffSalary, error) {
	var salaries []StaffSalary
	query := `
SELECT
	staff_salaries.*,
	TRIM(CONCAT(staff.first_name, ' ', staff.last_name)) AS staff_name
FROM staff_salaries
JOIN staff ON staff.id = staff_salaries.staff_id
WHERE staff_salaries.branch_id = ?
ORDER BY
	staff.last_name ASC,
	staff.first_name ASC,
	staff_salaries.effective_from DESC
`

	err := r.db.WithContext(ctx).Raw(query, branchID).Scan(&salaries).Error
	return salaries, err
}

func (r *repository) FindByIDAndBranch(ctx context.Context, branchID, id string) (*StaffSalary, error) {
	var salary StaffSalary
	err := r.db.WithContext(ctx).
		Table("staff_salaries").
		Select("staff_salaries.*, TRIM(CONCAT(staff.first_name, ' ', staff.last_name)) AS staff_name").
		Joins("JOIN staff ON staff.id = staff_salaries.staff_id").
		Where("staff_salaries.id = ?", id).
		Where("staff_salaries.branch_id = ?", branchID).
		First(&salary).Error
	return &salary, err
}

func (r *repository) Update(ctx context.Context, salary *StaffSalary) error {
	return r.db.WithContext(ctx).
		Model(&StaffSalary{}).
		Where("id = ?", salary.ID).
		Updates(map[string]any{
			"amount":         salary.Amount,
			"effective_from": salary.EffectiveFrom,
		}).Error
}

func (r *repository) Delete(ctx context.Context, branchID, id string) error {
	return r.db.WithContext(ctx).
		Where("branch_id = ?", branchID).
		Delete(&StaffSalary{}, "id = ?", id).Error
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
