package fees

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"verticx/internal/academics"
	"verticx/internal/events"
	feeserrors "verticx/internal/fees/errors"
	"verticx/internal/messaging/kafka"
	"verticx/internal/shared/contextutil"
	"verticx/internal/shared/counter"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const receiptCounterType = "fee_receipt"

type Service interface {
	CreateTemplate(ctx context.Context, branchID string, req CreateTemplateRequest) (TemplateResponse, error)
	GetTemplates(ctx context.Context, branchID string) ([]TemplateResponse, error)
	GetStudentFees(ctx context.Context, branchID, studentID string, today time.Time) (StudentFeesResponse, error)
	RecordPayment(ctx context.Context, branchID, actorID string, req RecordPaymentRequest) (PaymentResponse, error)
	ApplyAdjustment(ctx context.Context, branchID, actorID string, req ApplyAdjustmentRequest) (AdjustmentResponse, error)
	GetLedger(ctx context.Context, branchID, studentID string) ([]FeeHistoryItem, error)
	BranchFinancialOverview(ctx context.Context, branchID string) (FinancialOverviewResponse, error)
}

type service struct {
	db          *sql.DB
	repo        Repository
	counterRepo counter.Repository
	outboxRepo  kafka.OutboxRepository
	logger      *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	counterRepo counter.Repository,
	outboxRepo kafka.OutboxRepository,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("fees.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("fees.service")
	}
	return &service{
		db:          db,
		repo:        repo,
		counterRepo: counterRepo,
		outboxRepo:  outboxRepo,
		logger:      l,
	}
}

func (s *service) CreateTemplate(ctx context.Context, branchID string, req CreateTemplateRequest) (TemplateResponse, error) {
	branchUUID, err := uuid.Parse(branchID)
	if err != nil {
		return TemplateResponse{}, feeserrors.ErrInvalidBranchID
	}

	if len(req.MonthlyBreakdown) > 0 {
		var sum int64
		for _, row := range req.MonthlyBreakdown {
			sum += row.Total
		}
		if sum != req.Amount {
			return TemplateResponse{}, feeserrors.ErrBreakdownMismatch
		}
	}

	exists, err := s.repo.TemplateExistsForGrade(ctx, branchID, req.GradeLevel)
	if err != nil {
		s.logger.Error("template grade lookup failed", zap.Error(err))
		return TemplateResponse{}, err
	}
	if exists {
		return TemplateResponse{}, feeserrors.ErrDuplicateTemplate
	}

	template := &FeeTemplate{
		ID:         uuid.New(),
		BranchID:   branchUUID,
		GradeLevel: req.GradeLevel,
		Amount:     req.Amount,
	}
	for _, row := range req.MonthlyBreakdown {
		var components []byte
		if len(row.Components) > 0 {
			components, err = json.Marshal(row.Components)
			if err != nil {
				return TemplateResponse{}, err
			}
		}
		template.MonthlyBreakdown = append(template.MonthlyBreakdown, MonthlyFee{
			ID:         uuid.New(),
			TemplateID: template.ID,
			MonthLabel: row.MonthLabel,
			Total:      row.Total,
			Components: components,
		})
	}

	if err := s.repo.CreateTemplate(ctx, template); err != nil {
		s.logger.Error("create template failed",
			zap.String("branch_id", branchID),
			zap.Int("grade_level", req.GradeLevel),
			zap.Error(err),
		)
		return TemplateResponse{}, err
	}

	s.logger.Info("fee template created",
		zap.String("template_id", template.ID.String()),
		zap.Int("grade_level", req.GradeLevel),
	)

	return mapTemplateResponse(*template), nil
}

func (s *service) GetTemplates(ctx context.Context, branchID string) ([]TemplateResponse, error) {
	if _, err := uuid.Parse(branchID); err != nil {
		return nil, feeserrors.ErrInvalidBranchID
	}

	templates, err := s.repo.FindTemplatesByBranch(ctx, branchID)
	if err != nil {
		return nil, err
	}

	responses := make([]TemplateResponse, 0, len(templates))
	for _, template := range templates {
		responses = append(responses, mapTemplateResponse(template))
	}
	return responses, nil
}

func (s *service) GetStudentFees(ctx context.Context, branchID, studentID string, today time.Time) (StudentFeesResponse, error) {
	if _, err := uuid.Parse(branchID); err != nil {
		return StudentFeesResponse{}, feeserrors.ErrInvalidBranchID
	}
	if _, err := uuid.Parse(studentID); err != nil {
		return StudentFeesResponse{}, feeserrors.ErrInvalidStudentID
	}

	session, err := s.repo.FindActiveSession(ctx, branchID)
	if err != nil {
		return StudentFeesResponse{}, err
	}

	student, err := s.repo.FindStudent(ctx, branchID, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return StudentFeesResponse{}, feeserrors.ErrStudentNotInBranch
		}
		return StudentFeesResponse{}, err
	}

	record, err := s.repo.FindRecordByStudentSession(ctx, studentID, session.ID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return StudentFeesResponse{}, feeserrors.ErrFeeRecordNotFound
		}
		return StudentFeesResponse{}, err
	}

	breakdown, err := s.resolveBreakdown(ctx, branchID, student)
	if err != nil {
		return StudentFeesResponse{}, err
	}

	dues := BuildSchedule(breakdown, session.StartDate)
	settled, previousDuesPaid := ReduceLedger(record.PaidAmount, record.PreviousSessionDues, dues)

	outstanding := record.TotalAmount - record.PaidAmount
	if outstanding < 0 {
		outstanding = 0
	}

	return StudentFeesResponse{
		FeeRecordID:         record.ID.String(),
		StudentID:           record.StudentID.String(),
		SessionID:           record.SessionID.String(),
		TotalAmount:         record.TotalAmount,
		PaidAmount:          record.PaidAmount,
		PreviousSessionDues: record.PreviousSessionDues,
		PreviousDuesPaid:    previousDuesPaid,
		OutstandingBalance:  outstanding,
		DueDate:             record.DueDate.Format(time.DateOnly),
		MonthlyDues:         settled,
		MonthsElapsed:       academics.ElapsedMonths(session.StartDate, today),
	}, nil
}

// resolveBreakdown walks student -> class -> template and returns the
// template's monthly rows. Missing links along the chain are not errors;
// the caller falls back to aggregate figures.
func (s *service) resolveBreakdown(ctx context.Context, branchID string, student *StudentRow) ([]MonthlyFee, error) {
	if student.ClassID == nil {
		return nil, nil
	}
	class, err := s.repo.FindClass(ctx, branchID, student.ClassID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if class.FeeTemplateID == nil {
		return nil, nil
	}
	template, err := s.repo.FindTemplateByID(ctx, branchID, class.FeeTemplateID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return template.MonthlyBreakdown, nil
}

func (s *service) RecordPayment(ctx context.Context, branchID, actorID string, req RecordPaymentRequest) (PaymentResponse, error) {
	branchUUID, err := uuid.Parse(branchID)
	if err != nil {
		return PaymentResponse{}, feeserrors.ErrInvalidBranchID
	}
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return PaymentResponse{}, feeserrors.ErrInvalidActorID
	}
	if req.Amount <= 0 {
		return PaymentResponse{}, feeserrors.ErrInvalidAmount
	}

	session, err := s.repo.FindActiveSession(ctx, branchID)
	if err != nil {
		return PaymentResponse{}, err
	}
	student, err := s.repo.FindStudent(ctx, branchID, req.StudentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PaymentResponse{}, feeserrors.ErrStudentNotInBranch
		}
		return PaymentResponse{}, err
	}
	existing, err := s.repo.FindRecordByStudentSession(ctx, student.ID.String(), session.ID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PaymentResponse{}, feeserrors.ErrFeeRecordNotFound
		}
		return PaymentResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("record payment begin tx failed", zap.Error(err))
		return PaymentResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	outboxTx := s.outboxRepo.WithTx(tx)

	// Serialize concurrent payments on the record row; the outstanding
	// check below is only sound against the locked balance.
	record, err := qtx.LockRecord(ctx, existing.ID.String())
	if err != nil {
		return PaymentResponse{}, err
	}

	outstanding := record.TotalAmount - record.PaidAmount
	if req.Amount > outstanding {
		return PaymentResponse{}, feeserrors.ErrOverpayment
	}

	sequence, err := s.counterRepo.GetNextValue(ctx, branchID, receiptCounterType)
	if err != nil {
		s.logger.Error("receipt counter failed", zap.Error(err))
		return PaymentResponse{}, err
	}

	now := time.Now().UTC()
	payment := &FeePayment{
		ID:            uuid.New(),
		FeeRecordID:   record.ID,
		BranchID:      branchUUID,
		Amount:        req.Amount,
		TransactionID: req.TransactionID,
		ReceiptNumber: fmt.Sprintf("RCP-%s-%06d", now.Format("2006"), sequence),
		PaidAt:        now,
		RecordedBy:    actorUUID,
	}

	if err := qtx.CreatePayment(ctx, payment); err != nil {
		s.logger.Error("create payment failed", zap.Error(err))
		return PaymentResponse{}, err
	}
	if err := qtx.AddToPaidAmount(ctx, record.ID.String(), req.Amount); err != nil {
		return PaymentResponse{}, err
	}

	event := events.FeePaymentRecordedEvent{
		EventType:     "fees.payment.recorded",
		PaymentID:     payment.ID.String(),
		FeeRecordID:   record.ID.String(),
		StudentID:     record.StudentID.String(),
		BranchID:      branchID,
		Amount:        payment.Amount,
		TransactionID: payment.TransactionID,
		OccurredAt:    now,
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return PaymentResponse{}, err
	}
	if err := outboxTx.Create(ctx, kafka.OutboxEvent{
		ID:            uuid.New().String(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "fee_record",
		AggregateID:   record.ID.String(),
		EventType:     event.EventType,
		Topic:         events.FeePaymentRecordedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	}); err != nil {
		s.logger.Error("enqueue payment event failed", zap.Error(err))
		return PaymentResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("record payment commit failed", zap.Error(err))
		return PaymentResponse{}, err
	}

	s.logger.Info("fee payment recorded",
		zap.String("payment_id", payment.ID.String()),
		zap.String("fee_record_id", record.ID.String()),
		zap.Int64("amount", payment.Amount),
	)

	return PaymentResponse{
		ID:            payment.ID.String(),
		FeeRecordID:   payment.FeeRecordID.String(),
		Amount:        payment.Amount,
		TransactionID: payment.TransactionID,
		ReceiptNumber: payment.ReceiptNumber,
		PaidAt:        payment.PaidAt.Format(time.RFC3339),
	}, nil
}

func (s *service) ApplyAdjustment(ctx context.Context, branchID, actorID string, req ApplyAdjustmentRequest) (AdjustmentResponse, error) {
	branchUUID, err := uuid.Parse(branchID)
	if err != nil {
		return AdjustmentResponse{}, feeserrors.ErrInvalidBranchID
	}
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return AdjustmentResponse{}, feeserrors.ErrInvalidActorID
	}
	if req.Amount == 0 {
		return AdjustmentResponse{}, feeserrors.ErrInvalidAmount
	}

	session, err := s.repo.FindActiveSession(ctx, branchID)
	if err != nil {
		return AdjustmentResponse{}, err
	}
	student, err := s.repo.FindStudent(ctx, branchID, req.StudentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AdjustmentResponse{}, feeserrors.ErrStudentNotInBranch
		}
		return AdjustmentResponse{}, err
	}
	existing, err := s.repo.FindRecordByStudentSession(ctx, student.ID.String(), session.ID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AdjustmentResponse{}, feeserrors.ErrFeeRecordNotFound
		}
		return AdjustmentResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("apply adjustment begin tx failed", zap.Error(err))
		return AdjustmentResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	record, err := qtx.LockRecord(ctx, existing.ID.String())
	if err != nil {
		return AdjustmentResponse{}, err
	}

	// A concession never drives the total below what was already collected.
	newTotal := record.TotalAmount + req.Amount
	if newTotal < record.PaidAmount {
		newTotal = record.PaidAmount
	}

	adjustment := &FeeAdjustment{
		ID:          uuid.New(),
		FeeRecordID: record.ID,
		BranchID:    branchUUID,
		Amount:      req.Amount,
		Reason:      req.Reason,
		AppliedBy:   actorUUID,
		AppliedAt:   time.Now().UTC(),
	}

	if err := qtx.CreateAdjustment(ctx, adjustment); err != nil {
		s.logger.Error("create adjustment failed", zap.Error(err))
		return AdjustmentResponse{}, err
	}
	if err := qtx.SetTotalAmount(ctx, record.ID.String(), newTotal); err != nil {
		return AdjustmentResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("apply adjustment commit failed", zap.Error(err))
		return AdjustmentResponse{}, err
	}

	s.logger.Info("fee adjustment applied",
		zap.String("adjustment_id", adjustment.ID.String()),
		zap.String("fee_record_id", record.ID.String()),
		zap.Int64("amount", req.Amount),
	)

	return AdjustmentResponse{
		ID:          adjustment.ID.String(),
		FeeRecordID: adjustment.FeeRecordID.String(),
		Amount:      adjustment.Amount,
		Reason:      adjustment.Reason,
		AppliedAt:   adjustment.AppliedAt.Format(time.RFC3339),
	}, nil
}

func (s *service) GetLedger(ctx context.Context, branchID, studentID string) ([]FeeHistoryItem, error) {
	if _, err := uuid.Parse(branchID); err != nil {
		return nil, feeserrors.ErrInvalidBranchID
	}
	if _, err := uuid.Parse(studentID); err != nil {
		return nil, feeserrors.ErrInvalidStudentID
	}

	session, err := s.repo.FindActiveSession(ctx, branchID)
	if err != nil {
		return nil, err
	}
	record, err := s.repo.FindRecordByStudentSession(ctx, studentID, session.ID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, feeserrors.ErrFeeRecordNotFound
		}
		return nil, err
	}

	payments, err := s.repo.ListPayments(ctx, record.ID.String())
	if err != nil {
		return nil, err
	}
	adjustments, err := s.repo.ListAdjustments(ctx, record.ID.String())
	if err != nil {
		return nil, err
	}

	history := make([]FeeHistoryItem, 0, len(payments)+len(adjustments))
	for _, payment := range payments {
		history = append(history, FeeHistoryItem{
			Kind:          "payment",
			Amount:        payment.Amount,
			Date:          payment.PaidAt.Format(time.RFC3339),
			TransactionID: payment.TransactionID,
			ReceiptNumber: payment.ReceiptNumber,
		})
	}
	for _, adjustment := range adjustments {
		history = append(history, FeeHistoryItem{
			Kind:   "adjustment",
			Amount: adjustment.Amount,
			Date:   adjustment.AppliedAt.Format(time.RFC3339),
			Reason: adjustment.Reason,
		})
	}
	sort.SliceStable(history, func(i, j int) bool {
		return history[i].Date < history[j].Date
	})

	return history, nil
}

func (s *service) BranchFinancialOverview(ctx context.Context, branchID string) (FinancialOverviewResponse, error) {
	if _, err := uuid.Parse(branchID); err != nil {
		return FinancialOverviewResponse{}, feeserrors.ErrInvalidBranchID
	}

	session, err := s.repo.FindActiveSession(ctx, branchID)
	if err != nil {
		return FinancialOverviewResponse{}, err
	}

	billed, collected, arrears, students, err := s.repo.BranchOverview(ctx, branchID, session.ID.String())
	if err != nil {
		return FinancialOverviewResponse{}, err
	}

	pending := billed - collected
	if pending < 0 {
		pending = 0
	}

	return FinancialOverviewResponse{
		BranchID:       branchID,
		SessionID:      session.ID.String(),
		TotalBilled:    billed,
		TotalCollected: collected,
		TotalPending:   pending,
		CarriedArrears: arrears,
		StudentCount:   students,
	}, nil
}

func mapTemplateResponse(template FeeTemplate) TemplateResponse {
	resp := TemplateResponse{
		ID:         template.ID.String(),
		BranchID:   template.BranchID.String(),
		GradeLevel: template.GradeLevel,
		Amount:     template.Amount,
	}
	for _, row := range template.MonthlyBreakdown {
		resp.MonthlyBreakdown = append(resp.MonthlyBreakdown, MonthlyFeeResponse{
			MonthLabel: row.MonthLabel,
			Total:      row.Total,
		})
	}
	return resp
}
