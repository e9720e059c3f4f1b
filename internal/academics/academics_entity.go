package academics

import (
	"time"

	"github.com/google/uuid"
)

type AcademicSession struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	BranchID  uuid.UUID `gorm:"type:uuid;not null;index:idx_sessions_branch_active"`
	StartDate time.Time `gorm:"type:date;not null"`
	Name      string    `gorm:"type:varchar(40);not null"`
	Active    bool      `gorm:"not null;default:true;index:idx_sessions_branch_active"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Grade rows are session-scoped; promotion archives them into the student's
// snapshot instead of deleting them.
type Grade struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	BranchID  uuid.UUID `gorm:"type:uuid;not null;index"`
	SessionID uuid.UUID `gorm:"type:uuid;not null;index:idx_grades_student_session"`
	StudentID uuid.UUID `gorm:"type:uuid;not null;index:idx_grades_student_session"`

	Subject  string `gorm:"type:varchar(60);not null"`
	Term     string `gorm:"type:varchar(20);not null"`
	Score    int    `gorm:"not null"`
	MaxScore int    `gorm:"not null"`

	RecordedBy uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (Grade) TableName() string { return "grades" }

// ArchivedStudentRecord is the append-only snapshot taken at promotion.
// Grades and attendance stay queryable here after the live tables rotate to
// the new session.
type ArchivedStudentRecord struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	BranchID  uuid.UUID `gorm:"type:uuid;not null;index"`
	StudentID uuid.UUID `gorm:"type:uuid;not null;index:idx_archive_student_session"`
	SessionID uuid.UUID `gorm:"type:uuid;not null;index:idx_archive_student_session"`
	ClassID   uuid.UUID `gorm:"type:uuid;not null"`

	GradeLevel         int    `gorm:"not null"`
	GradesSnapshot     []byte `gorm:"type:jsonb"`
	AttendanceSnapshot []byte `gorm:"type:jsonb"`

	ArchivedAt time.Time
}
