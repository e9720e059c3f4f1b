package staffsalary

import (
	"time"

	"github.com/google/uuid"
)

// StaffSalary is one salary profile row. A nil Amount means the salary was
// never configured; payroll settles such staff as SALARY_NOT_SET.
type StaffSalary struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	StaffID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_staff_salary_effective"`
	BranchID uuid.UUID `gorm:"type:uuid;not null;index"`

	// Monthly base salary in the smallest currency unit.
	Amount        *int64    `gorm:"type:bigint"`
	EffectiveFrom time.Time `gorm:"type:date;not null;uniqueIndex:uq_staff_salary_effective"`

	CreatedAt time.Time
	UpdatedAt time.Time

	StaffName string `gorm:"->;-:migration"`
}

func (StaffSalary) TableName() string { return "staff_salaries" }
