package attendance

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AttendanceRecord struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	BranchID  uuid.UUID `gorm:"column:branch_id;type:uuid;not null;index"`
	SessionID uuid.UUID `gorm:"column:session_id;type:uuid;not null;index"`
	StudentID uuid.UUID `gorm:"column:student_id;type:uuid;not null;uniqueIndex:uq_attendance_student_date"`
	ClassID   uuid.UUID `gorm:"column:class_id;type:uuid;not null;index"`

	AttendanceDate time.Time `gorm:"column:attendance_date;type:date;not null;uniqueIndex:uq_attendance_student_date"`
	Status         string    `gorm:"column:status;type:varchar(20);not null;default:PRESENT"`
	RecordedBy     uuid.UUID `gorm:"column:recorded_by;type:uuid;not null"`
	Notes          *string   `gorm:"column:notes;type:text"`

	CreatedAt time.Time      `gorm:"column:created_at"`
	UpdatedAt time.Time      `gorm:"column:updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index"`

	Student *StudentRef `gorm:"foreignKey:StudentID;references:ID"`
}

func (AttendanceRecord) TableName() string {
	return "attendance_records"
}

type StudentRef struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	FullName string    `gorm:"column:full_name"`
}

func (StudentRef) TableName() string {
	return "students"
}
