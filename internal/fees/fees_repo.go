package fees

import (
	"context"
	"database/sql"
	"time"

	"verticx/internal/tenant"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Row views over tables owned by other packages (reads only).

type StudentRow struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	BranchID   uuid.UUID `gorm:"type:uuid"`
	ClassID    *uuid.UUID
	GradeLevel int
}

func (StudentRow) TableName() string { return "students" }

type ClassRow struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	BranchID      uuid.UUID `gorm:"type:uuid"`
	FeeTemplateID *uuid.UUID
}

func (ClassRow) TableName() string { return "classes" }

type SessionRow struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	BranchID  uuid.UUID `gorm:"type:uuid"`
	StartDate time.Time
	Active    bool
}

func (SessionRow) TableName() string { return "academic_sessions" }

type overviewRow struct {
	TotalBilled    int64
	TotalCollected int64
	CarriedArrears int64
	StudentCount   int64
}

//go:generate mockgen -source=fees_repo.go -destination=mock/fees_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository

	CreateTemplate(ctx context.Context, template *FeeTemplate) error
	FindTemplateByID(ctx context.Context, branchID, id string) (*FeeTemplate, error)
	FindTemplatesByBranch(ctx context.Context, branchID string) ([]FeeTemplate, error)
	TemplateExistsForGrade(ctx context.Context, branchID string, gradeLevel int) (bool, error)

	FindStudent(ctx context.Context, branchID, studentID string) (*StudentRow, error)
	FindClass(ctx context.Context, branchID, classID string) (*ClassRow, error)
	FindActiveSession(ctx context.Context, branchID string) (*SessionRow, error)
	FindRecordByStudentSession(ctx context.Context, studentID, sessionID string) (*FeeRecord, error)

	// LockRecord reads the fee record inside the current transaction with a
	// row lock, so concurrent payments serialize on the record.
	LockRecord(ctx context.Context, recordID string) (*FeeRecord, error)
	CreatePayment(ctx context.Context, payment *FeePayment) error
	AddToPaidAmount(ctx context.Context, recordID string, amount int64) error
	CreateAdjustment(ctx context.Context, adjustment *FeeAdjustment) error
	SetTotalAmount(ctx context.Context, recordID string, total int64) error

	ListPayments(ctx context.Context, recordID string) ([]FeePayment, error)
	ListAdjustments(ctx context.Context, recordID string) ([]FeeAdjustment, error)

	BranchOverview(ctx context.Context, branchID, sessionID string) (totalBilled, totalCollected, carriedArrears, studentCount int64, err error)
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

func (r *repository) CreateTemplate(ctx context.Context, template *FeeTemplate) error {
	return r.db.WithContext(ctx).Create(template).Error
}

func (r *repository) FindTemplateByID(ctx context.Context, branchID, id string) (*FeeTemplate, error) {
	var template FeeTemplate
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(branchID)).
		Preload("MonthlyBreakdown").
		First(&template, "id = ?", id).Error
	return &template, err
}

func (r *repository) FindTemplatesByBranch(ctx context.Context, branchID string) ([]FeeTemplate, error) {
	var templates []FeeTemplate
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(branchID)).
		Preload("MonthlyBreakdown").
		Order("grade_level ASC").
		Find(&templates).Error
	return templates, err
}

func (r *repository) TemplateExistsForGrade(ctx context.Context, branchID string, gradeLevel int) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&FeeTemplate{}).
		Scopes(tenant.Scope(branchID)).
		Where("grade_level = ?", gradeLevel).
		Count(&count).Error
	return count > 0, err
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

func (r *repository) FindActiveSession(ctx context.Context, branchID string) (*SessionRow, error) {
	var session SessionRow
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(branchID)).
		Where("active = ?", true).
		First(&session).Error
	return &session, err
}

func (r *repository) FindRecordByStudentSession(ctx context.Context, studentID, sessionID string) (*FeeRecord, error) {
	var record FeeRecord
	err := r.db.WithContext(ctx).
		Where("student_id = ? AND session_id = ?", studentID, sessionID).
		First(&record).Error
	return &record, err
}

func (r *repository) LockRecord(ctx context.Context, recordID string) (*FeeRecord, error) {
	query := `
        SELECT id, student_id, branch_id, session_id,
               total_amount, paid_amount, previous_session_dues, due_date
        FROM fee_records
        WHERE id = $1
        FOR UPDATE
    `
	row := r.querier().QueryRowContext(ctx, query, recordID)

	var record FeeRecord
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

func (r *repository) CreatePayment(ctx context.Context, payment *FeePayment) error {
	query := `
        INSERT INTO fee_payments (
            id, fee_record_id, branch_id, amount,
            transaction_id, receipt_number, paid_at, recorded_by
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
    `
	_, err := r.execer().ExecContext(
		ctx, query,
		payment.ID, payment.FeeRecordID, payment.BranchID, payment.Amount,
		payment.TransactionID, payment.ReceiptNumber, payment.PaidAt, payment.RecordedBy,
	)
	return err
}

func (r *repository) AddToPaidAmount(ctx context.Context, recordID string, amount int64) error {
	query := `UPDATE fee_records SET paid_amount = paid_amount + $2, updated_at = NOW() WHERE id = $1`
	_, err := r.execer().ExecContext(ctx, query, recordID, amount)
	return err
}

func (r *repository) CreateAdjustment(ctx context.Context, adjustment *FeeAdjustment) error {
	query := `
        INSERT INTO fee_adjustments (
            id, fee_record_id, branch_id, amount, reason, applied_by, applied_at
        ) VALUES ($1, $2, $3, $4, $5, $6, $7)
    `
	_, err := r.execer().ExecContext(
		ctx, query,
		adjustment.ID, adjustment.FeeRecordID, adjustment.BranchID,
		adjustment.Amount, adjustment.Reason, adjustment.AppliedBy, adjustment.AppliedAt,
	)
	return err
}

func (r *repository) SetTotalAmount(ctx context.Context, recordID string, total int64) error {
	query := `UPDATE fee_records SET total_amount = $2, updated_at = NOW() WHERE id = $1`
	_, err := r.execer().ExecContext(ctx, query, recordID, total)
	return err
}

func (r *repository) ListPayments(ctx context.Context, recordID string) ([]FeePayment, error) {
	var payments []FeePayment
	err := r.db.WithContext(ctx).
		Where("fee_record_id = ?", recordID).
		Order("paid_at ASC").
		Find(&payments).Error
	return payments, err
}

func (r *repository) ListAdjustments(ctx context.Context, recordID string) ([]FeeAdjustment, error) {
	var adjustments []FeeAdjustment
	err := r.db.WithContext(ctx).
		Where("fee_record_id = ?", recordID).
		Order("applied_at ASC").
		Find(&adjustments).Error
	return adjustments, err
}

func (r *repository) BranchOverview(ctx context.Context, branchID, sessionID string) (int64, int64, int64, int64, error) {
	var row overviewRow
	err := r.db.WithContext(ctx).
		Model(&FeeRecord{}).
		Select(`
			COALESCE(SUM(total_amount), 0) AS total_billed,
			COALESCE(SUM(paid_amount), 0) AS total_collected,
			COALESCE(SUM(previous_session_dues), 0) AS carried_arrears,
			COUNT(*) AS student_count`).
		Scopes(tenant.Scope(branchID)).
		Where("session_id = ?", sessionID).
		Scan(&row).Error
	if err != nil {
		return 0, 0, 0, 0, err
	}
	return row.TotalBilled, row.TotalCollected, row.CarriedArrears, row.StudentCount, nil
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
