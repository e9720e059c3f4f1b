package academics

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	academicserrors "verticx/internal/academics/errors"
	"verticx/internal/events"
	"verticx/internal/messaging/kafka"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=academics_service.go -destination=mock/academics_service_mock.go -package=mock
type Service interface {
	GetActiveSession(ctx context.Context, branchID string) (SessionResponse, error)
	GetCalendar(ctx context.Context, branchID string, today time.Time) (CalendarResponse, error)
	StartNewSession(ctx context.Context, branchID, actorID string, req StartSessionRequest) (StartSessionResponse, error)
	RecordGrades(ctx context.Context, branchID, actorID string, req RecordGradesRequest) ([]GradeResponse, error)
}

type service struct {
	db         *sql.DB
	repo       Repository
	outboxRepo kafka.OutboxRepository
	logger     *zap.Logger
}

func NewService(db *sql.DB, repo Repository, outboxRepo kafka.OutboxRepository, logger ...*zap.Logger) Service {
	l := zap.L().Named("academics.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("academics.service")
	}
	return &service{db: db, repo: repo, outboxRepo: outboxRepo, logger: l}
}

func (s *service) GetActiveSession(ctx context.Context, branchID string) (SessionResponse, error) {
	session, err := s.repo.FindActiveSession(ctx, branchID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return SessionResponse{}, academicserrors.ErrSessionNotFound
		}
		return SessionResponse{}, err
	}
	return mapSessionResponse(*session), nil
}

func (s *service) GetCalendar(ctx context.Context, branchID string, today time.Time) (CalendarResponse, error) {
	session, err := s.repo.FindActiveSession(ctx, branchID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return CalendarResponse{}, academicserrors.ErrSessionNotFound
		}
		return CalendarResponse{}, err
	}

	return CalendarResponse{
		SessionID:     session.ID.String(),
		Months:        SessionMonthLabels(session.StartDate),
		ElapsedMonths: ElapsedMonths(session.StartDate, today),
	}, nil
}

// StartNewSession closes the active session and promotes the listed students
// into their target classes. Each promotion archives the student's grades and
// attendance, carries unpaid balance into the new fee record, resets the paid
// amount, and moves the roster entry. Everything runs in one transaction.
func (s *service) StartNewSession(
	ctx context.Context,
	branchID, actorID string,
	req StartSessionRequest,
) (StartSessionResponse, error) {
	s.logger.Debug("start new session requested",
		zap.String("branch_id", branchID),
		zap.String("actor_id", actorID),
		zap.Int("promotions", len(req.Promotions)),
	)

	branchUUID, err := uuid.Parse(branchID)
	if err != nil {
		return StartSessionResponse{}, academicserrors.ErrInvalidBranchID
	}
	if _, err := uuid.Parse(actorID); err != nil {
		return StartSessionResponse{}, academicserrors.ErrInvalidActorID
	}

	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return StartSessionResponse{}, academicserrors.ErrInvalidDateFormat
	}

	oldSession, err := s.repo.FindActiveSession(ctx, branchID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return StartSessionResponse{}, academicserrors.ErrSessionNotFound
		}
		return StartSessionResponse{}, err
	}
	if !startDate.After(oldSession.StartDate) {
		return StartSessionResponse{}, academicserrors.ErrSessionNotNewer
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("start session begin tx failed", zap.Error(err))
		return StartSessionResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	outboxTx := s.outboxRepo.WithTx(tx)

	if err := qtx.DeactivateSessions(ctx, branchID); err != nil {
		return StartSessionResponse{}, err
	}

	newSession := &AcademicSession{
		ID:        uuid.New(),
		BranchID:  branchUUID,
		StartDate: startDate,
		Name:      req.Name,
		Active:    true,
	}
	if err := qtx.CreateSession(ctx, newSession); err != nil {
		return StartSessionResponse{}, err
	}

	results := make([]PromotionResult, 0, len(req.Promotions))
	for _, promotion := range req.Promotions {
		result, err := s.promoteStudent(ctx, qtx, outboxTx, branchID, oldSession, newSession, promotion)
		if err != nil {
			s.logger.Error("promote student failed",
				zap.String("student_id", promotion.StudentID),
				zap.Error(err),
			)
			return StartSessionResponse{}, err
		}
		results = append(results, result)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("start session commit failed", zap.Error(err))
		return StartSessionResponse{}, err
	}

	s.logger.Info("new session started",
		zap.String("session_id", newSession.ID.String()),
		zap.String("branch_id", branchID),
		zap.Int("promoted", len(results)),
	)

	return StartSessionResponse{
		Session:    mapSessionResponse(*newSession),
		Promotions: results,
	}, nil
}

func (s *service) promoteStudent(
	ctx context.Context,
	qtx Repository,
	outboxTx kafka.OutboxRepository,
	branchID string,
	oldSession, newSession *AcademicSession,
	promotion PromotionRequest,
) (PromotionResult, error) {
	student, err := qtx.FindStudent(ctx, branchID, promotion.StudentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PromotionResult{}, academicserrors.ErrStudentNotFound
		}
		return PromotionResult{}, err
	}

	targetClass, err := qtx.FindClass(ctx, branchID, promotion.TargetClassID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PromotionResult{}, academicserrors.ErrClassNotFound
		}
		return PromotionResult{}, err
	}

	// Outstanding balance from the closing session; absent record means a
	// clean slate.
	var outstanding int64
	oldClassID := uuid.Nil
	if student.ClassID != nil {
		oldClassID = *student.ClassID
	}
	oldRecord, err := qtx.LockFeeRecord(ctx, promotion.StudentID, oldSession.ID.String())
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return PromotionResult{}, err
	}
	if err == nil {
		outstanding = oldRecord.TotalAmount - oldRecord.PaidAmount
		if outstanding < 0 {
			outstanding = 0
		}
	}

	// Archive the closing session before the roster moves.
	grades, err := qtx.GradesSnapshot(ctx, promotion.StudentID, oldSession.ID.String())
	if err != nil {
		return PromotionResult{}, err
	}
	attendance, err := qtx.AttendanceSnapshot(ctx, promotion.StudentID, oldSession.ID.String())
	if err != nil {
		return PromotionResult{}, err
	}
	gradesJSON, err := json.Marshal(grades)
	if err != nil {
		return PromotionResult{}, err
	}
	attendanceJSON, err := json.Marshal(attendance)
	if err != nil {
		return PromotionResult{}, err
	}

	archive := &ArchivedStudentRecord{
		ID:                 uuid.New(),
		BranchID:           student.BranchID,
		StudentID:          student.ID,
		SessionID:          oldSession.ID,
		ClassID:            oldClassID,
		GradeLevel:         student.GradeLevel,
		GradesSnapshot:     gradesJSON,
		AttendanceSnapshot: attendanceJSON,
		ArchivedAt:         time.Now().UTC(),
	}
	if err := qtx.CreateArchivedRecord(ctx, archive); err != nil {
		return PromotionResult{}, err
	}

	// Class without a template still promotes; only arrears carry forward.
	var templateAmount int64
	if targetClass.FeeTemplateID != nil {
		template, err := qtx.FindFeeTemplate(ctx, targetClass.FeeTemplateID.String())
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return PromotionResult{}, err
		}
		if err == nil {
			templateAmount = template.Amount
		}
	}

	dueDate := NextDueDate(newSession.StartDate)
	newRecord := &FeeRecordRow{
		ID:                  uuid.New(),
		StudentID:           student.ID,
		BranchID:            student.BranchID,
		SessionID:           newSession.ID,
		TotalAmount:         templateAmount + outstanding,
		PaidAmount:          0,
		PreviousSessionDues: outstanding,
		DueDate:             dueDate,
	}
	if err := qtx.CreateFeeRecord(ctx, newRecord); err != nil {
		return PromotionResult{}, err
	}

	if err := qtx.MoveStudent(ctx, promotion.StudentID, promotion.TargetClassID, targetClass.GradeLevel); err != nil {
		return PromotionResult{}, err
	}

	event := events.StudentPromotedEvent{
		EventType:    "student_promoted",
		StudentID:    student.ID.String(),
		BranchID:     branchID,
		FromClassID:  oldClassID.String(),
		ToClassID:    promotion.TargetClassID,
		ArrearsCarry: outstanding,
		NewSessionID: newSession.ID.String(),
		OccurredAt:   time.Now().UTC(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return PromotionResult{}, err
	}
	if err := outboxTx.Create(ctx, kafka.OutboxEvent{
		ID:            uuid.New().String(),
		AggregateType: "student",
		AggregateID:   student.ID.String(),
		EventType:     event.EventType,
		Topic:         events.StudentPromotedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	}); err != nil {
		return PromotionResult{}, err
	}

	return PromotionResult{
		StudentID:           student.ID.String(),
		TargetClassID:       promotion.TargetClassID,
		PreviousSessionDues: outstanding,
		NewTotalAmount:      newRecord.TotalAmount,
		DueDate:             dueDate.Format("2006-01-02"),
	}, nil
}

func (s *service) RecordGrades(ctx context.Context, branchID, actorID string, req RecordGradesRequest) ([]GradeResponse, error) {
	branchUUID, err := uuid.Parse(branchID)
	if err != nil {
		return nil, academicserrors.ErrInvalidBranchID
	}
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return nil, academicserrors.ErrInvalidActorID
	}

	session, err := s.repo.FindActiveSession(ctx, branchID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, academicserrors.ErrSessionNotFound
		}
		return nil, err
	}

	student, err := s.repo.FindStudent(ctx, branchID, req.StudentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, academicserrors.ErrStudentNotFound
		}
		return nil, err
	}

	res := make([]GradeResponse, 0, len(req.Entries))
	for _, entry := range req.Entries {
		grade := &Grade{
			ID:         uuid.New(),
			BranchID:   branchUUID,
			SessionID:  session.ID,
			StudentID:  student.ID,
			Subject:    entry.Subject,
			Term:       entry.Term,
			Score:      entry.Score,
			MaxScore:   entry.MaxScore,
			RecordedBy: actorUUID,
		}
		if err := s.repo.CreateGrade(ctx, grade); err != nil {
			return nil, err
		}
		res = append(res, GradeResponse{
			ID:        grade.ID.String(),
			StudentID: grade.StudentID.String(),
			SessionID: grade.SessionID.String(),
			Subject:   grade.Subject,
			Term:      grade.Term,
			Score:     grade.Score,
			MaxScore:  grade.MaxScore,
		})
	}
	return res, nil
}

func mapSessionResponse(session AcademicSession) SessionResponse {
	return SessionResponse{
		ID:        session.ID.String(),
		BranchID:  session.BranchID.String(),
		StartDate: session.StartDate.Format("2006-01-02"),
		Name:      session.Name,
		Active:    session.Active,
	}
}
