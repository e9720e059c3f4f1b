package payroll

import (
	"context"
	"database/sql"
	"time"

	"verticx/internal/tenant"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Row views over tables owned by other packages (reads only).

type StaffRow struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	BranchID  uuid.UUID `gorm:"type:uuid"`
	FirstName string
	LastName  string
	Active    bool
}

func (StaffRow) TableName() string { return "staff" }

type salaryRow struct {
	StaffID uuid.UUID
	Amount  *int64
}

type LeaveRow struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	StaffID   uuid.UUID `gorm:"type:uuid"`
	BranchID  uuid.UUID `gorm:"type:uuid"`
	StartDate time.Time
	EndDate   time.Time
	IsHalfDay bool
	Status    string
}

func (LeaveRow) TableName() string { return "leave_requests" }

//go:generate mockgen -source=payroll_repo.go -destination=mock/payroll_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository

	FindActiveStaff(ctx context.Context, branchID string) ([]StaffRow, error)
	FindStaff(ctx context.Context, branchID, staffID string) (*StaffRow, error)
	// CurrentSalaries resolves each staff member's effective base salary.
	// Staff without a salary profile, or with a nil amount, map to nil.
	CurrentSalaries(ctx context.Context, branchID string) (map[uuid.UUID]*int64, error)
	ApprovedLeaves(ctx context.Context, branchID string, monthStart, monthEnd time.Time) (map[uuid.UUID][]LeavePeriod, error)
	AdjustmentAmounts(ctx context.Context, branchID, month string) (map[uuid.UUID][]int64, error)

	FindByID(ctx context.Context, branchID, id string) (*PayrollRecord, error)
	FindByStaffMonth(ctx context.Context, branchID, staffID, month string) (*PayrollRecord, error)
	FindByMonth(ctx context.Context, branchID, month string) ([]PayrollRecord, error)

	UpsertRecord(ctx context.Context, record *PayrollRecord) error
	// MarkMonthPaid flips every PENDING record of the month to PAID and
	// reports how many rows changed. PAID rows are excluded in SQL, which is
	// what makes the batch safe to repeat.
	MarkMonthPaid(ctx context.Context, branchID, month, actorID string, at time.Time) (int64, error)
	CreateAdjustment(ctx context.Context, adjustment *ManualSalaryAdjustment) error
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

func (r *repository) FindActiveStaff(ctx context.Context, branchID string) ([]StaffRow, error) {
	var staff []StaffRow
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(branchID)).
		Where("active = ?", true).
		Order("last_name ASC, first_name ASC").
		Find(&staff).Error
	return staff, err
}

func (r *repository) FindStaff(ctx context.Context, branchID, staffID string) (*StaffRow, error) {
	var staff StaffRow
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(branchID)).
		First(&staff, "id = ?", staffID).Error
	return &staff, err
}

func (r *repository) CurrentSalaries(ctx context.Context, branchID string) (map[uuid.UUID]*int64, error) {
	var rows []salaryRow
	err := r.db.WithContext(ctx).
		Raw(`
            SELECT DISTINCT ON (staff_id) staff_id, amount
            FROM staff_salaries
            WHERE branch_id = ?
            ORDER BY staff_id, effective_from DESC`, branchID).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	salaries := make(map[uuid.UUID]*int64, len(rows))
	for _, row := range rows {
		salaries[row.StaffID] = row.Amount
	}
	return salaries, nil
}

func (r *repository) ApprovedLeaves(ctx context.Context, branchID string, monthStart, monthEnd time.Time) (map[uuid.UUID][]LeavePeriod, error) {
	var rows []LeaveRow
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(branchID)).
		Where("status = ?", "APPROVED").
		Where("start_date <= ? AND end_date >= ?", monthEnd, monthStart).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	leaves := make(map[uuid.UUID][]LeavePeriod)
	for _, row := range rows {
		leaves[row.StaffID] = append(leaves[row.StaffID], LeavePeriod{
			StartDate: row.StartDate,
			EndDate:   row.EndDate,
			HalfDay:   row.IsHalfDay,
		})
	}
	return leaves, nil
}

func (r *repository) AdjustmentAmounts(ctx context.Context, branchID, month string) (map[uuid.UUID][]int64, error) {
	var rows []ManualSalaryAdjustment
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(branchID)).
		Where("month = ?", month).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	amounts := make(map[uuid.UUID][]int64)
	for _, row := range rows {
		amounts[row.StaffID] = append(amounts[row.StaffID], row.Amount)
	}
	return amounts, nil
}

func (r *repository) FindByID(ctx context.Context, branchID, id string) (*PayrollRecord, error) {
	var record PayrollRecord
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(branchID)).
		First(&record, "id = ?", id).Error
	return &record, err
}

func (r *repository) FindByStaffMonth(ctx context.Context, branchID, staffID, month string) (*PayrollRecord, error) {
	var record PayrollRecord
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(branchID)).
		Where("staff_id = ? AND month = ?", staffID, month).
		First(&record).Error
	return &record, err
}

func (r *repository) FindByMonth(ctx context.Context, branchID, month string) ([]PayrollRecord, error) {
	var records []PayrollRecord
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(branchID)).
		Where("month = ?", month).
		Find(&records).Error
	return records, err
}

func (r *repository) UpsertRecord(ctx context.Context, record *PayrollRecord) error {
	query := `
        INSERT INTO payroll_records (
            id, staff_id, branch_id, month,
            base_salary, unpaid_leave_days, leave_deductions,
            manual_adjustments_total, net_payable, status
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
        ON CONFLICT (staff_id, month) DO UPDATE SET
            base_salary = EXCLUDED.base_salary,
            unpaid_leave_days = EXCLUDED.unpaid_leave_days,
            leave_deductions = EXCLUDED.leave_deductions,
            manual_adjustments_total = EXCLUDED.manual_adjustments_total,
            net_payable = EXCLUDED.net_payable,
            status = EXCLUDED.status,
            updated_at = NOW()
        WHERE payroll_records.status <> 'PAID'
    `
	_, err := r.execer().ExecContext(
		ctx, query,
		record.ID, record.StaffID, record.BranchID, record.Month,
		record.BaseSalary, record.UnpaidLeaveDays, record.LeaveDeductions,
		record.ManualAdjustmentsTotal, record.NetPayable, record.Status,
	)
	return err
}

func (r *repository) MarkMonthPaid(ctx context.Context, branchID, month, actorID string, at time.Time) (int64, error) {
	query := `
        UPDATE payroll_records
        SET status = 'PAID', processed_at = $3, processed_by = $4, updated_at = NOW()
        WHERE branch_id = $1 AND month = $2 AND status = 'PENDING'
    `
	result, err := r.execer().ExecContext(ctx, query, branchID, month, at, actorID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *repository) CreateAdjustment(ctx context.Context, adjustment *ManualSalaryAdjustment) error {
	query := `
        INSERT INTO manual_salary_adjustments (
            id, staff_id, branch_id, month, amount, reason, applied_by, applied_at
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
    `
	_, err := r.execer().ExecContext(
		ctx, query,
		adjustment.ID, adjustment.StaffID, adjustment.BranchID, adjustment.Month,
		adjustment.Amount, adjustment.Reason, adjustment.AppliedBy, adjustment.AppliedAt,
	)
	return err
}

func (r *repository) execer() interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
} {
	if r.tx != nil {
		return r.tx
	}
	return r.db.ConnPool
}
