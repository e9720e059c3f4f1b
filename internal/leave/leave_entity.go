package leave

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LeaveRequest struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	BranchID uuid.UUID `gorm:"type:uuid;not null;index:idx_leave_requests_branch_status"`
	StaffID  uuid.UUID `gorm:"type:uuid;not null;index:idx_leave_requests_staff_dates"`

	LeaveType string    `gorm:"type:varchar(30);not null;default:'CASUAL'"`
	StartDate time.Time `gorm:"type:date;not null;index:idx_leave_requests_staff_dates"`
	EndDate   time.Time `gorm:"type:date;not null;index:idx_leave_requests_staff_dates"`
	// A half-day request counts each date in range as 0.5 day in payroll.
	IsHalfDay bool   `gorm:"not null;default:false"`
	Reason    string `gorm:"type:text"`

	Status          string     `gorm:"type:varchar(20);not null;default:'PENDING';index:idx_leave_requests_branch_status"`
	CreatedBy       uuid.UUID  `gorm:"type:uuid;not null"`
	ReviewedBy      *uuid.UUID `gorm:"type:uuid"`
	ReviewedAt      *time.Time
	RejectionReason *string `gorm:"type:text"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (LeaveRequest) TableName() string { return "leave_requests" }
