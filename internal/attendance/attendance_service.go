package attendance

import (
	"context"
	"database/sql"
	"errors"
	"time"

	attendanceerrors "verticx/internal/attendance/errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	StatusPresent = "PRESENT"
	StatusAbsent  = "ABSENT"
	StatusHalfDay = "HALF_DAY"
	StatusLeave   = "LEAVE"
)

//go:generate mockgen -source=attendance_service.go -destination=mock/attendance_service_mock.go -package=mock
type Service interface {
	MarkClass(ctx context.Context, branchID, actorID string, req MarkClassRequest) ([]AttendanceResponse, error)
	GetClassAttendance(ctx context.Context, branchID, classID, date string) ([]AttendanceResponse, error)
	StudentMonthlySummary(ctx context.Context, branchID, studentID string, year int, month time.Month) (MonthlySummaryResponse, error)
}

type service struct {
	db   *sql.DB
	repo Repository
}

func NewService(db *sql.DB, repo Repository) Service {
	return &service{db: db, repo: repo}
}

// MarkClass records a full class register for one date. One row per student
// per day; re-marking overwrites.
func (s *service) MarkClass(ctx context.Context, branchID, actorID string, req MarkClassRequest) ([]AttendanceResponse, error) {
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, attendanceerrors.ErrInvalidDate
	}

	exists, err := s.repo.ClassExists(ctx, branchID, req.ClassID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, attendanceerrors.ErrClassNotFound
	}

	session, err := s.repo.FindActiveSession(ctx, branchID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, attendanceerrors.ErrNoActiveSession
		}
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	branchUUID := uuid.MustParse(branchID)
	classUUID := uuid.MustParse(req.ClassID)
	actorUUID := uuid.MustParse(actorID)

	res := make([]AttendanceResponse, 0, len(req.Entries))
	for _, entry := range req.Entries {
		rec := &AttendanceRecord{
			ID:             uuid.New(),
			BranchID:       branchUUID,
			SessionID:      session.ID,
			StudentID:      uuid.MustParse(entry.StudentID),
			ClassID:        classUUID,
			AttendanceDate: date,
			Status:         entry.Status,
			RecordedBy:     actorUUID,
			Notes:          entry.Notes,
		}
		if err := qtx.Upsert(ctx, rec); err != nil {
			return nil, err
		}
		res = append(res, mapToResponse(*rec))
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *service) GetClassAttendance(ctx context.Context, branchID, classID, date string) ([]AttendanceResponse, error) {
	parsed, err := time.Parse("2006-01-02", date)
	if err != nil {
		return nil, attendanceerrors.ErrInvalidDate
	}

	rows, err := s.repo.FindByClassAndDate(ctx, branchID, classID, parsed)
	if err != nil {
		return nil, err
	}

	res := make([]AttendanceResponse, len(rows))
	for i, r := range rows {
		res[i] = mapToResponse(r)
	}
	return res, nil
}

func (s *service) StudentMonthlySummary(ctx context.Context, branchID, studentID string, year int, month time.Month) (MonthlySummaryResponse, error) {
	if year < 2000 || year > 2100 {
		return MonthlySummaryResponse{}, attendanceerrors.ErrInvalidMonth
	}

	monthStart := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, -1)

	row, err := s.repo.MonthlySummary(ctx, studentID, monthStart, monthEnd)
	if err != nil {
		return MonthlySummaryResponse{}, err
	}

	resp := MonthlySummaryResponse{
		StudentID:   studentID,
		Month:       monthStart.Format("2006-01"),
		PresentDays: row.PresentDays,
		AbsentDays:  row.AbsentDays,
		HalfDays:    row.HalfDays,
		LeaveDays:   row.LeaveDays,
		WorkingDays: row.WorkingDays,
	}
	if row.WorkingDays > 0 {
		attended := float64(row.PresentDays) + 0.5*float64(row.HalfDays)
		resp.Percentage = 100 * attended / float64(row.WorkingDays)
	}
	return resp, nil
}

func mapToResponse(a AttendanceRecord) AttendanceResponse {
	resp := AttendanceResponse{
		ID:        a.ID.String(),
		BranchID:  a.BranchID.String(),
		SessionID: a.SessionID.String(),
		StudentID: a.StudentID.String(),
		ClassID:   a.ClassID.String(),
		Date:      a.AttendanceDate.Format("2006-01-02"),
		Status:    a.Status,
		Notes:     a.Notes,
	}
	if a.Student != nil {
		resp.StudentName = a.Student.FullName
	}
	return resp
}
