package academics

import (
	"context"
	"database/sql"
	"time"

	"verticx/internal/tenant"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Row views over tables owned by other packages. Reads only; every write
// crossing a package boundary goes through the transaction-aware execer.

type StudentRow struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	BranchID   uuid.UUID `gorm:"type:uuid"`
	ClassID    *uuid.UUID
	GradeLevel int
	FullName   string `gorm:"column:full_name"`
}

func (StudentRow) TableName() string { return "students" }

type ClassRow struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	BranchID      uuid.UUID `gorm:"type:uuid"`
	GradeLevel    int
	FeeTemplateID *uuid.UUID
}

func (ClassRow) TableName() string { return "classes" }

type FeeTemplateRow struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	BranchID   uuid.UUID `gorm:"type:uuid"`
	GradeLevel int
	Amount     int64
}

func (FeeTemplateRow) TableName() string { return "fee_templates" }

type FeeRecordRow struct {
	ID                  uuid.UUID `gorm:"type:uuid;primaryKey"`
	StudentID           uuid.UUID `gorm:"type:uuid"`
	BranchID            uuid.UUID `gorm:"type:uuid"`
	SessionID           uuid.UUID `gorm:"type:uuid"`
	TotalAmount         int64
	PaidAmount          int64
	PreviousSessionDues int64
	DueDate             time.Time
}

func (FeeRecordRow) TableName() string { return "fee_records" }

type GradeSnapshotRow struct {
	Subject  string `json:"subject"`
	Term     string `json:"term"`
	Score    int    `json:"score"`
	MaxScore int    `json:"max_score"`
}

type AttendanceSnapshotRow struct {
	PresentDays  int `json:"present_days"`
	AbsentDays   int `json:"absent_days"`
	HalfDays     int `json:"half_days"`
	WorkingDays  int `json:"working_days"`
}

//go:generate mockgen -source=academics_repo.go -destination=mock/academics_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository

	FindActiveSession(ctx context.Context, branchID string) (*AcademicSession, error)
	CreateSession(ctx context.Context, session *AcademicSession) error
	DeactivateSessions(ctx context.Context, branchID string) error

	FindStudent(ctx context.Context, branchID, studentID string) (*StudentRow, error)
	FindClass(ctx context.Context, branchID, classID string) (*ClassRow, error)
	FindFeeTemplate(ctx context.Context, id string) (*FeeTemplateRow, error)
	// LockFeeRecord reads the closing-session fee record inside the current
	// transaction with a row lock, so a payment landing mid-promotion cannot
	// be dropped from the carried arrears.
	LockFeeRecord(ctx context.Context, studentID, sessionID string) (*FeeRecordRow, error)

	CreateGrade(ctx context.Context, grade *Grade) error
	GradesSnapshot(ctx context.Context, studentID, sessionID string) ([]GradeSnapshotRow, error)
	AttendanceSnapshot(ctx context.Context, studentID, sessionID string) (AttendanceSnapshotRow, error)

	CreateFeeRecord(ctx context.Context, record *FeeRecordRow) error
	MoveStudent(ctx context.Context, studentID, classID string, gradeLevel int) error
	CreateArchivedRecord(ctx context.Context, record *ArchivedStudentRecord) error
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

func (r *repository) FindActiveSession(ctx context.Context, branchID string) (*AcademicSession, error) {
	var session AcademicSession
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(branchID)).
		Where("active = ?", true).
		First(&session).Error
	return &session, err
}

func (r *repository) CreateSession(ctx context.Context, session *AcademicSession) error {
	query := `
        INSERT INTO academic_sessions (id, branch_id, start_date, name, active)
        VALUES ($1, $2, $3, $4, $5)
    `
	_, err := r.execer().ExecContext(
		ctx, query,
		session.ID, session.BranchID, session.StartDate, session.Name, session.Active,
	)
	return err
}

func (r *repository) DeactivateSessions(ctx context.Context, branchID string) error {
	query := `UPDATE academic_sessions SET active = FALSE, updated_at = NOW() WHERE branch_id = $1 AND active`
	_, err := r.execer().ExecContext(ctx, query, branchID)
	return err
}

func (r *repository) FindStudent(ctx context.Context, branchID, studentID string) (*StudentRow, error) {
	var student StudentRow
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(branchID)).
		First(&student, "id = ?", studentID).Error
	return &student, err
}

func (r *repository) FindClass(ctx context.Context, branchID, classID string) (*ClassRow, error) {
	var class ClassRow
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(branchID)).
		First(&class, "id = ?", classID).Error
	return &class, err
}

func (r *repository) FindFeeTemplate(ctx context.Context, id string) (*FeeTemplateRow, error) {
	var template FeeTemplateRow
	err := r.db.WithContext(ctx).First(&template, "id = ?", id).Error
	return &template, err
}

func (r *repository) LockFeeRecord(ctx context.Context, studentID, sessionID string) (*FeeRecordRow, error) {
	query := `
        SELECT id, student_id, branch_id, session_id,
               total_amount, paid_amount, previous_session_dues, due_date
        FROM fee_records
        WHERE student_id = $1 AND session_id = $2
        FOR UPDATE
    `
	row := r.querier().QueryRowContext(ctx, query, studentID, sessionID)

	var record FeeRecordRow
	if err := row.Scan(
		&record.ID, &record.StudentID, &record.BranchID, &record.SessionID,
		&record.TotalAmount, &record.PaidAmount, &record.PreviousSessionDues, &record.DueDate,
	); err != nil {
		if err == sql.ErrNoRows {
			return nil, gorm.ErrRecordNotFound
		}
		return nil, err
	}
	return &record, nil
}

func (r *repository) CreateGrade(ctx context.Context, grade *Grade) error {
	return r.db.WithContext(ctx).Create(grade).Error
}

func (r *repository) GradesSnapshot(ctx context.Context, studentID, sessionID string) ([]GradeSnapshotRow, error) {
	var rows []GradeSnapshotRow
	err := r.db.WithContext(ctx).
		Table("grades").
		Select("subject, term, score, max_score").
		Where("student_id = ? AND session_id = ?", studentID, sessionID).
		Scan(&rows).Error
	return rows, err
}

func (r *repository) AttendanceSnapshot(ctx context.Context, studentID, sessionID string) (AttendanceSnapshotRow, error) {
	var row AttendanceSnapshotRow
	err := r.db.WithContext(ctx).
		Table("attendance_records").
		Select(`
			COUNT(*) FILTER (WHERE status = 'PRESENT') AS present_days,
			COUNT(*) FILTER (WHERE status = 'ABSENT') AS absent_days,
			COUNT(*) FILTER (WHERE status = 'HALF_DAY') AS half_days,
			COUNT(*) AS working_days`).
		Where("student_id = ? AND session_id = ?", studentID, sessionID).
		Scan(&row).Error
	return row, err
}

func (r *repository) CreateFeeRecord(ctx context.Context, record *FeeRecordRow) error {
	query := `
        INSERT INTO fee_records (
            id, student_id, branch_id, session_id,
            total_amount, paid_amount, previous_session_dues, due_date
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
    `
	_, err := r.execer().ExecContext(
		ctx, query,
		record.ID, record.StudentID, record.BranchID, record.SessionID,
		record.TotalAmount, record.PaidAmount, record.PreviousSessionDues, record.DueDate,
	)
	return err
}

func (r *repository) MoveStudent(ctx context.Context, studentID, classID string, gradeLevel int) error {
	query := `UPDATE students SET class_id = $2, grade_level = $3, updated_at = NOW() WHERE id = $1`
	_, err := r.execer().ExecContext(ctx, query, studentID, classID, gradeLevel)
	return err
}

func (r *repository) CreateArchivedRecord(ctx context.Context, record *ArchivedStudentRecord) error {
	query := `
        INSERT INTO archived_student_records (
            id, branch_id, student_id, session_id, class_id,
            grade_level, grades_snapshot, attendance_snapshot, archived_at
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
    `
	_, err := r.execer().ExecContext(
		ctx, query,
		record.ID, record.BranchID, record.StudentID, record.SessionID, record.ClassID,
		record.GradeLevel, record.GradesSnapshot, record.AttendanceSnapshot, record.ArchivedAt,
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

func (r *repository) querier() interface {
	QueryRowContext(context.Context, string, ...any) *sql.Row
} {
	if r.tx != nil {
		return r.tx
	}
	return r.db.ConnPool
}
