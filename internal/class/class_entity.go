package class

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Class struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	BranchID uuid.UUID `gorm:"type:uuid;not null;index"`

	Name       string `gorm:"type:varchar(60);not null"`
	Section    string `gorm:"type:varchar(10)"`
	GradeLevel int    `gorm:"not null"`

	// Students of this class inherit the referenced template's monthly
	// breakdown; a nil reference degrades fee views to aggregate totals.
	FeeTemplateID   *uuid.UUID `gorm:"type:uuid"`
	HomeroomStaffID *uuid.UUID `gorm:"type:uuid"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (Class) TableName() string { return "classes" }
