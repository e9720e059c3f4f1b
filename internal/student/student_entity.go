package student

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Student struct {
	ID       uuid.UUID  `gorm:"type:uuid;primaryKey"`
	BranchID uuid.UUID  `gorm:"type:uuid;not null;index"`
	ClassID  *uuid.UUID `gorm:"type:uuid"`

	AdmissionNumber string `gorm:"type:varchar(20);not null;uniqueIndex:uq_student_admission"`
	FullName        string `gorm:"type:varchar(200);not null"`
	GradeLevel      int    `gorm:"not null"`

	GuardianName  string `gorm:"type:varchar(200)"`
	GuardianPhone string `gorm:"type:varchar(30)"`

	DateOfBirth  *time.Time `gorm:"type:date"`
	EnrolledDate time.Time  `gorm:"type:date"`
	Active       bool       `gorm:"not null;default:true"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (Student) TableName() string { return "students" }
