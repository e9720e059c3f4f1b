package fees

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FeeTemplate struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	BranchID   uuid.UUID `gorm:"type:uuid;not null;index:idx_fee_templates_branch_grade"`
	GradeLevel int       `gorm:"not null;index:idx_fee_templates_branch_grade"`

	// Annual total in the smallest currency unit.
	Amount int64 `gorm:"type:bigint;not null;default:0"`

	MonthlyBreakdown []MonthlyFee `gorm:"foreignKey:TemplateID"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// MonthlyFee is one row of a template's optional monthly breakdown, keyed by
// the short month label ("Apr", "May", ...).
type MonthlyFee struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TemplateID uuid.UUID `gorm:"type:uuid;not null;index"`
	MonthLabel string    `gorm:"type:varchar(3);not null"`
	Total      int64     `gorm:"type:bigint;not null;default:0"`
	Components []byte    `gorm:"type:jsonb"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

type FeeRecord struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	StudentID uuid.UUID `gorm:"type:uuid;not null;index:idx_fee_records_student_session,unique"`
	BranchID  uuid.UUID `gorm:"type:uuid;not null;index"`
	SessionID uuid.UUID `gorm:"type:uuid;not null;index:idx_fee_records_student_session,unique"`

	// Monetary fields in the smallest currency unit. PaidAmount only grows,
	// except for the reset performed at promotion.
	TotalAmount         int64 `gorm:"type:bigint;not null;default:0"`
	PaidAmount          int64 `gorm:"type:bigint;not null;default:0"`
	PreviousSessionDues int64 `gorm:"type:bigint;not null;default:0"`

	DueDate time.Time `gorm:"type:date"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// FeePayment is an append-only ledger entry. Never updated or deleted.
type FeePayment struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	FeeRecordID   uuid.UUID `gorm:"type:uuid;not null;index"`
	BranchID      uuid.UUID `gorm:"type:uuid;not null;index"`
	Amount        int64     `gorm:"type:bigint;not null"`
	TransactionID string    `gorm:"type:varchar(80)"`
	ReceiptNumber string    `gorm:"type:varchar(40);not null"`
	PaidAt        time.Time `gorm:"not null"`
	RecordedBy    uuid.UUID `gorm:"type:uuid;not null"`

	CreatedAt time.Time
}

// FeeAdjustment is an append-only signed correction (concession or charge).
type FeeAdjustment struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	FeeRecordID uuid.UUID `gorm:"type:uuid;not null;index"`
	BranchID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Amount      int64     `gorm:"type:bigint;not null"`
	Reason      string    `gorm:"type:text;not null"`
	AppliedBy   uuid.UUID `gorm:"type:uuid;not null"`
	AppliedAt   time.Time `gorm:"not null"`

	CreatedAt time.Time
}
