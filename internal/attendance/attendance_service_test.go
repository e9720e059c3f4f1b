package attendance

import (
	"context"
	"database/sql"
	"testing"
	"time"

	attendanceerrors "verticx/internal/attendance/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeRepo struct {
	withTxFn            func(tx *sql.Tx) Repository
	upsertFn            func(ctx context.Context, rec *AttendanceRecord) error
	findByClassDateFn   func(ctx context.Context, branchID, classID string, date time.Time) ([]AttendanceRecord, error)
	monthlySummaryFn    func(ctx context.Context, studentID string, monthStart, monthEnd time.Time) (MonthlySummaryRow, error)
	findActiveSessionFn func(ctx context.Context, branchID string) (*SessionRow, error)
	classExistsFn       func(ctx context.Context, branchID, classID string) (bool, error)
}

func (f *fakeRepo) WithTx(tx *sql.Tx) Repository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}
func (f *fakeRepo) Upsert(ctx context.Context, rec *AttendanceRecord) error {
	return f.upsertFn(ctx, rec)
}
func (f *fakeRepo) FindByClassAndDate(ctx context.Context, branchID, classID string, date time.Time) ([]AttendanceRecord, error) {
	return f.findByClassDateFn(ctx, branchID, classID, date)
}
func (f *fakeRepo) MonthlySummary(ctx context.Context, studentID string, monthStart, monthEnd time.Time) (MonthlySummaryRow, error) {
	return f.monthlySummaryFn(ctx, studentID, monthStart, monthEnd)
}
func (f *fakeRepo) FindActiveSession(ctx context.Context, branchID string) (*SessionRow, error) {
	return f.findActiveSessionFn(ctx, branchID)
}
func (f *fakeRepo) ClassExists(ctx context.Context, branchID, classID string) (bool, error) {
	return f.classExistsFn(ctx, branchID, classID)
}

func TestService_MarkClass(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	branchID := uuid.New().String()
	actorID := uuid.New().String()
	classID := uuid.New().String()
	sessionID := uuid.New()
	ctx := context.Background()

	var saved []AttendanceRecord
	repo := &fakeRepo{}
	repo.classExistsFn = func(ctx context.Context, branch, class string) (bool, error) { return true, nil }
	repo.findActiveSessionFn = func(ctx context.Context, branch string) (*SessionRow, error) {
		return &SessionRow{ID: sessionID, Active: true}, nil
	}
	repo.upsertFn = func(ctx context.Context, rec *AttendanceRecord) error {
		saved = append(saved, *rec)
		return nil
	}

	svc := NewService(db, repo)

	mock.ExpectBegin()
	mock.ExpectCommit()
	resp, err := svc.MarkClass(ctx, branchID, actorID, MarkClassRequest{
		ClassID: classID,
		Date:    "2026-04-06",
		Entries: []MarkEntry{
			{StudentID: uuid.New().String(), Status: StatusPresent},
			{StudentID: uuid.New().String(), Status: StatusAbsent},
		},
	})
	assert.NoError(t, err)
	assert.Len(t, resp, 2)
	if assert.Len(t, saved, 2) {
		assert.Equal(t, sessionID, saved[0].SessionID)
		assert.Equal(t, StatusAbsent, saved[1].Status)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_MarkClass_NoActiveSession(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	repo := &fakeRepo{}
	repo.classExistsFn = func(ctx context.Context, branch, class string) (bool, error) { return true, nil }
	repo.findActiveSessionFn = func(ctx context.Context, branch string) (*SessionRow, error) {
		return nil, gorm.ErrRecordNotFound
	}

	svc := NewService(db, repo)

	_, err := svc.MarkClass(context.Background(), uuid.New().String(), uuid.New().String(), MarkClassRequest{
		ClassID: uuid.New().String(),
		Date:    "2026-04-06",
		Entries: []MarkEntry{{StudentID: uuid.New().String(), Status: StatusPresent}},
	})
	assert.ErrorIs(t, err, attendanceerrors.ErrNoActiveSession)
}

func TestService_MarkClass_UnknownClass(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	repo := &fakeRepo{}
	repo.classExistsFn = func(ctx context.Context, branch, class string) (bool, error) { return false, nil }

	svc := NewService(db, repo)

	_, err := svc.MarkClass(context.Background(), uuid.New().String(), uuid.New().String(), MarkClassRequest{
		ClassID: uuid.New().String(),
		Date:    "2026-04-06",
		Entries: []MarkEntry{{StudentID: uuid.New().String(), Status: StatusPresent}},
	})
	assert.ErrorIs(t, err, attendanceerrors.ErrClassNotFound)
}

func TestService_StudentMonthlySummary(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	repo := &fakeRepo{}
	repo.monthlySummaryFn = func(ctx context.Context, student string, monthStart, monthEnd time.Time) (MonthlySummaryRow, error) {
		assert.Equal(t, 1, monthStart.Day())
		assert.Equal(t, 30, monthEnd.Day())
		return MonthlySummaryRow{PresentDays: 18, AbsentDays: 2, HalfDays: 2, WorkingDays: 22}, nil
	}

	svc := NewService(db, repo)

	resp, err := svc.StudentMonthlySummary(context.Background(), uuid.New().String(), uuid.New().String(), 2026, time.April)
	assert.NoError(t, err)
	assert.Equal(t, "2026-04", resp.Month)
	assert.Equal(t, 22, resp.WorkingDays)
	// 18 present plus two half days over 22 working days.
	assert.InDelta(t, 86.36, resp.Percentage, 0.01)
}

func TestService_StudentMonthlySummary_NoWorkingDays(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	repo := &fakeRepo{}
	repo.monthlySummaryFn = func(ctx context.Context, student string, monthStart, monthEnd time.Time) (MonthlySummaryRow, error) {
		return MonthlySummaryRow{}, nil
	}

	svc := NewService(db, repo)

	resp, err := svc.StudentMonthlySummary(context.Background(), uuid.New().String(), uuid.New().String(), 2026, time.June)
	assert.NoError(t, err)
	assert.Zero(t, resp.Percentage)
}
