package payroll

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	StatusSalaryNotSet = "SALARY_NOT_SET"
	StatusPending      = "PENDING"
	StatusPaid         = "PAID"
)

// PayrollRecord is one staff member's settlement for one month. Once the
// status reaches PAID the row is frozen; regeneration returns it untouched.
type PayrollRecord struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	StaffID  uuid.UUID `gorm:"type:uuid;not null;index:idx_payroll_staff_month,unique"`
	BranchID uuid.UUID `gorm:"type:uuid;not null;index"`
	// Month is the settlement key in "2006-01" form.
	Month string `gorm:"type:varchar(7);not null;index:idx_payroll_staff_month,unique"`

	// Nil base salary means the profile was never configured; the record
	// carries SALARY_NOT_SET and every derived figure stays null.
	BaseSalary             *int64          `gorm:"type:bigint"`
	UnpaidLeaveDays        decimal.Decimal `gorm:"type:numeric(5,1);not null;default:0"`
	LeaveDeductions        int64           `gorm:"type:bigint;not null;default:0"`
	ManualAdjustmentsTotal int64           `gorm:"type:bigint;not null;default:0"`
	NetPayable             *int64          `gorm:"type:bigint"`

	Status      string     `gorm:"type:varchar(20);not null"`
	ProcessedAt *time.Time `gorm:"type:timestamptz"`
	ProcessedBy *uuid.UUID `gorm:"type:uuid"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ManualSalaryAdjustment is an append-only signed correction applied to one
// staff member's month. Positive is a bonus, negative a deduction.
type ManualSalaryAdjustment struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	StaffID   uuid.UUID `gorm:"type:uuid;not null;index:idx_salary_adjustments_staff_month"`
	BranchID  uuid.UUID `gorm:"type:uuid;not null;index"`
	Month     string    `gorm:"type:varchar(7);not null;index:idx_salary_adjustments_staff_month"`
	Amount    int64     `gorm:"type:bigint;not null"`
	Reason    string    `gorm:"type:text;not null"`
	AppliedBy uuid.UUID `gorm:"type:uuid;not null"`
	AppliedAt time.Time `gorm:"not null"`

	CreatedAt time.Time
}

// MonthKey renders the settlement key for a year and month.
func MonthKey(year int, month time.Month) string {
	return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).Format("2006-01")
}
