package attendance

import (
	"context"
	"database/sql"
	"time"

	"verticx/internal/tenant"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SessionRow struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	BranchID uuid.UUID `gorm:"type:uuid"`
	Active   bool
}

func (SessionRow) TableName() string { return "academic_sessions" }

type MonthlySummaryRow struct {
	PresentDays int
	AbsentDays  int
	HalfDays    int
	LeaveDays   int
	WorkingDays int
}

//go:generate mockgen -source=attendance_repo.go -destination=mock/attendance_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Upsert(ctx context.Context, rec *AttendanceRecord) error
	FindByClassAndDate(ctx context.Context, branchID, classID string, date time.Time) ([]AttendanceRecord, error)
	MonthlySummary(ctx context.Context, studentID string, monthStart, monthEnd time.Time) (MonthlySummaryRow, error)
	FindActiveSession(ctx context.Context, branchID string) (*SessionRow, error)
	ClassExists(ctx context.Context, branchID, classID string) (bool, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

// Upsert keeps one row per student per day; re-marking a day overwrites the
// previous status instead of duplicating it.
func (r *repository) Upsert(ctx context.Context, rec *AttendanceRecord) error {
	query := `
        INSERT INTO attendance_records (
            id, branch_id, session_id, student_id, class_id,
            attendance_date, status, recorded_by, notes, created_at, updated_at
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now(), now())
        ON CONFLICT (student_id, attendance_date) DO UPDATE
        SET status = EXCLUDED.status,
            recorded_by = EXCLUDED.recorded_by,
            notes = EXCLUDED.notes,
            updated_at = now()
    `
	_, err := r.execer().ExecContext(
		ctx, query,
		rec.ID, rec.BranchID, rec.SessionID, rec.StudentID, rec.ClassID,
		rec.AttendanceDate.Format("2006-01-02"), rec.Status, rec.RecordedBy, rec.Notes,
	)
	return err
}

func (r *repository) FindByClassAndDate(ctx context.Context, branchID, classID string, date time.Time) ([]AttendanceRecord, error) {
	var rows []AttendanceRecord
	err := r.db.WithContext(ctx).
		Preload("Student").
		Scopes(tenant.Scope(branchID)).
		Where("class_id = ?", classID).
		Where("attendance_date = ?", date.Format("2006-01-02")).
		Find(&rows).Error
	return rows, err
}

func (r *repository) MonthlySummary(ctx context.Context, studentID string, monthStart, monthEnd time.Time) (MonthlySummaryRow, error) {
	var row MonthlySummaryRow
	err := r.db.WithContext(ctx).
		Table("attendance_records").
		Select(`
			COUNT(*) FILTER (WHERE status = 'PRESENT') AS present_days,
			COUNT(*) FILTER (WHERE status = 'ABSENT') AS absent_days,
			COUNT(*) FILTER (WHERE status = 'HALF_DAY') AS half_days,
			COUNT(*) FILTER (WHERE status = 'LEAVE') AS leave_days,
			COUNT(*) AS working_days`).
		Where("student_id = ?", studentID).
		Where("attendance_date BETWEEN ? AND ?", monthStart.Format("2006-01-02"), monthEnd.Format("2006-01-02")).
		Where("deleted_at IS NULL").
		Scan(&row).Error
	return row, err
}

func (r *repository) FindActiveSession(ctx context.Context, branchID string) (*SessionRow, error) {
	var session SessionRow
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(branchID)).
		Where("active = ?", true).
		First(&session).Error
	return &session, err
}

func (r *repository) ClassExists(ctx context.Context, branchID, classID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("classes").
		Where("id = ?", classID).
		Where("branch_id = ?", branchID).
		Where("deleted_at IS NULL").
		Count(&count).Error
	return count > 0, err
}

func (r *repository) execer() interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
} {
	if r.tx != nil {
		return r.tx
	}
	return r.db.ConnPool
}
