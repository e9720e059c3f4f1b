package staff

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Staff struct {
	ID       uuid.UUID  `gorm:"type:uuid;primaryKey"`
	BranchID uuid.UUID  `gorm:"type:uuid;not null;index"`
	ClassID  *uuid.UUID `gorm:"type:uuid"`

	StaffNumber string `gorm:"type:varchar(20);not null;uniqueIndex:uq_staff_number"`
	FirstName   string `gorm:"type:varchar(100);not null"`
	LastName    string `gorm:"type:varchar(100)"`
	Email       string `gorm:"type:varchar(255);not null;uniqueIndex:uq_staff_email"`
	Phone       string `gorm:"type:varchar(30)"`
	RoleTitle   string `gorm:"type:varchar(60)"`

	JoiningDate time.Time `gorm:"type:date"`
	Active      bool      `gorm:"not null;default:true"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (Staff) TableName() string { return "staff" }
