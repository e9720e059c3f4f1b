package payroll

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	payrollerrors "verticx/internal/payroll/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service interface {
	GenerateForMonth(ctx context.Context, branchID string, req GenerateRequest) (GenerateResponse, error)
	ProcessPayroll(ctx context.Context, branchID, actorID string, req ProcessRequest) (ProcessResponse, error)
	AddManualAdjustment(ctx context.Context, branchID, actorID string, req AddAdjustmentRequest) (AdjustmentResponse, error)
	GetByMonth(ctx context.Context, branchID string, year, month int) (GenerateResponse, error)
	Payslip(ctx context.Context, branchID, recordID string) ([]byte, string, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("payroll.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("payroll.service")
	}
	return &service{db: db, repo: repo, logger: l}
}

func (s *service) GenerateForMonth(ctx context.Context, branchID string, req GenerateRequest) (GenerateResponse, error) {
	branchUUID, err := uuid.Parse(branchID)
	if err != nil {
		return GenerateResponse{}, payrollerrors.ErrInvalidBranchID
	}
	if req.Month < 1 || req.Month > 12 {
		return GenerateResponse{}, payrollerrors.ErrInvalidMonth
	}

	month := time.Month(req.Month)
	monthKey := MonthKey(req.Year, month)
	monthStart := time.Date(req.Year, month, 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, -1)

	staff, err := s.repo.FindActiveStaff(ctx, branchID)
	if err != nil {
		return GenerateResponse{}, err
	}
	salaries, err := s.repo.CurrentSalaries(ctx, branchID)
	if err != nil {
		return GenerateResponse{}, err
	}
	leaves, err := s.repo.ApprovedLeaves(ctx, branchID, monthStart, monthEnd)
	if err != nil {
		return GenerateResponse{}, err
	}
	adjustments, err := s.repo.AdjustmentAmounts(ctx, branchID, monthKey)
	if err != nil {
		return GenerateResponse{}, err
	}
	existing, err := s.repo.FindByMonth(ctx, branchID, monthKey)
	if err != nil {
		return GenerateResponse{}, err
	}
	existingByStaff := make(map[uuid.UUID]PayrollRecord, len(existing))
	for _, record := range existing {
		existingByStaff[record.StaffID] = record
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("generate payroll begin tx failed", zap.Error(err))
		return GenerateResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	records := make([]RecordResponse, 0, len(staff))
	for _, member := range staff {
		if frozen, ok := existingByStaff[member.ID]; ok && frozen.Status == StatusPaid {
			// Paid records survive regeneration untouched.
			records = append(records, mapRecordResponse(frozen, staffName(member)))
			continue
		}

		settlement := Settle(salaries[member.ID], req.Year, month, leaves[member.ID], adjustments[member.ID])

		record := PayrollRecord{
			ID:                     uuid.New(),
			StaffID:                member.ID,
			BranchID:               branchUUID,
			Month:                  monthKey,
			BaseSalary:             salaries[member.ID],
			UnpaidLeaveDays:        settlement.UnpaidLeaveDays,
			LeaveDeductions:        settlement.LeaveDeductions,
			ManualAdjustmentsTotal: settlement.ManualAdjustmentsTotal,
			NetPayable:             settlement.NetPayable,
			Status:                 settlement.Status,
		}
		if prior, ok := existingByStaff[member.ID]; ok {
			record.ID = prior.ID
		}

		if err := qtx.UpsertRecord(ctx, &record); err != nil {
			s.logger.Error("upsert payroll record failed",
				zap.String("staff_id", member.ID.String()),
				zap.Error(err),
			)
			return GenerateResponse{}, err
		}
		records = append(records, mapRecordResponse(record, staffName(member)))
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("generate payroll commit failed", zap.Error(err))
		return GenerateResponse{}, err
	}

	s.logger.Info("payroll generated",
		zap.String("branch_id", branchID),
		zap.String("month", monthKey),
		zap.Int("records", len(records)),
	)

	return GenerateResponse{Month: monthKey, Records: records}, nil
}

func (s *service) ProcessPayroll(ctx context.Context, branchID, actorID string, req ProcessRequest) (ProcessResponse, error) {
	if _, err := uuid.Parse(branchID); err != nil {
		return ProcessResponse{}, payrollerrors.ErrInvalidBranchID
	}
	if _, err := uuid.Parse(actorID); err != nil {
		return ProcessResponse{}, payrollerrors.ErrInvalidActorID
	}
	if req.Month < 1 || req.Month > 12 {
		return ProcessResponse{}, payrollerrors.ErrInvalidMonth
	}

	monthKey := MonthKey(req.Year, time.Month(req.Month))

	existing, err := s.repo.FindByMonth(ctx, branchID, monthKey)
	if err != nil {
		return ProcessResponse{}, err
	}
	if len(existing) == 0 {
		return ProcessResponse{}, payrollerrors.ErrNothingToProcess
	}

	var alreadyPaid, skipped int64
	for _, record := range existing {
		switch record.Status {
		case StatusPaid:
			alreadyPaid++
		case StatusSalaryNotSet:
			skipped++
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("process payroll begin tx failed", zap.Error(err))
		return ProcessResponse{}, err
	}
	defer tx.Rollback()

	processed, err := s.repo.WithTx(tx).MarkMonthPaid(ctx, branchID, monthKey, actorID, time.Now().UTC())
	if err != nil {
		s.logger.Error("mark month paid failed", zap.Error(err))
		return ProcessResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("process payroll commit failed", zap.Error(err))
		return ProcessResponse{}, err
	}

	s.logger.Info("payroll processed",
		zap.String("branch_id", branchID),
		zap.String("month", monthKey),
		zap.Int64("processed", processed),
		zap.Int64("already_paid", alreadyPaid),
	)

	return ProcessResponse{
		Month:       monthKey,
		Processed:   processed,
		AlreadyPaid: alreadyPaid,
		Skipped:     skipped,
	}, nil
}

func (s *service) AddManualAdjustment(ctx context.Context, branchID, actorID string, req AddAdjustmentRequest) (AdjustmentResponse, error) {
	branchUUID, err := uuid.Parse(branchID)
	if err != nil {
		return AdjustmentResponse{}, payrollerrors.ErrInvalidBranchID
	}
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return AdjustmentResponse{}, payrollerrors.ErrInvalidActorID
	}
	staffUUID, err := uuid.Parse(req.StaffID)
	if err != nil {
		return AdjustmentResponse{}, payrollerrors.ErrInvalidStaffID
	}
	if req.Month < 1 || req.Month > 12 {
		return AdjustmentResponse{}, payrollerrors.ErrInvalidMonth
	}

	if _, err := s.repo.FindStaff(ctx, branchID, req.StaffID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AdjustmentResponse{}, payrollerrors.ErrStaffNotInBranch
		}
		return AdjustmentResponse{}, err
	}

	monthKey := MonthKey(req.Year, time.Month(req.Month))

	existing, err := s.repo.FindByStaffMonth(ctx, branchID, req.StaffID, monthKey)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return AdjustmentResponse{}, err
		}
		existing = nil
	}
	if existing != nil && existing.Status == StatusPaid {
		return AdjustmentResponse{}, payrollerrors.ErrPayrollFrozen
	}

	adjustment := &ManualSalaryAdjustment{
		ID:        uuid.New(),
		StaffID:   staffUUID,
		BranchID:  branchUUID,
		Month:     monthKey,
		Amount:    req.Amount,
		Reason:    req.Reason,
		AppliedBy: actorUUID,
		AppliedAt: time.Now().UTC(),
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("add adjustment begin tx failed", zap.Error(err))
		return AdjustmentResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if err := qtx.CreateAdjustment(ctx, adjustment); err != nil {
		s.logger.Error("create adjustment failed", zap.Error(err))
		return AdjustmentResponse{}, err
	}

	// An existing unpaid record is resettled so the stored figures track the
	// adjustment immediately instead of waiting for the next generation run.
	if existing != nil && existing.Status != StatusSalaryNotSet {
		if err := s.resettleLocked(ctx, qtx, branchID, existing, req.Year, time.Month(req.Month), adjustment); err != nil {
			return AdjustmentResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("add adjustment commit failed", zap.Error(err))
		return AdjustmentResponse{}, err
	}

	s.logger.Info("salary adjustment recorded",
		zap.String("staff_id", req.StaffID),
		zap.String("month", monthKey),
		zap.Int64("amount", req.Amount),
	)

	return AdjustmentResponse{
		ID:        adjustment.ID.String(),
		StaffID:   adjustment.StaffID.String(),
		Month:     adjustment.Month,
		Amount:    adjustment.Amount,
		Reason:    adjustment.Reason,
		AppliedAt: adjustment.AppliedAt.Format(time.RFC3339),
	}, nil
}

func (s *service) resettleLocked(ctx context.Context, qtx Repository, branchID string, record *PayrollRecord, year int, month time.Month, pending *ManualSalaryAdjustment) error {
	monthStart := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, -1)

	leaves, err := s.repo.ApprovedLeaves(ctx, branchID, monthStart, monthEnd)
	if err != nil {
		return err
	}
	adjustments, err := s.repo.AdjustmentAmounts(ctx, branchID, record.Month)
	if err != nil {
		return err
	}

	staffAdjustments := adjustments[record.StaffID]
	// The read above runs on the pooled connection and cannot see the row
	// inserted in this transaction, so the pending adjustment is added here.
	if pending != nil && pending.StaffID == record.StaffID {
		staffAdjustments = append(staffAdjustments, pending.Amount)
	}

	settlement := Settle(record.BaseSalary, year, month, leaves[record.StaffID], staffAdjustments)

	record.UnpaidLeaveDays = settlement.UnpaidLeaveDays
	record.LeaveDeductions = settlement.LeaveDeductions
	record.ManualAdjustmentsTotal = settlement.ManualAdjustmentsTotal
	record.NetPayable = settlement.NetPayable
	record.Status = settlement.Status

	return qtx.UpsertRecord(ctx, record)
}

func (s *service) GetByMonth(ctx context.Context, branchID string, year, month int) (GenerateResponse, error) {
	if _, err := uuid.Parse(branchID); err != nil {
		return GenerateResponse{}, payrollerrors.ErrInvalidBranchID
	}
	if month < 1 || month > 12 {
		return GenerateResponse{}, payrollerrors.ErrInvalidMonth
	}

	monthKey := MonthKey(year, time.Month(month))

	records, err := s.repo.FindByMonth(ctx, branchID, monthKey)
	if err != nil {
		return GenerateResponse{}, err
	}

	staff, err := s.repo.FindActiveStaff(ctx, branchID)
	if err != nil {
		return GenerateResponse{}, err
	}
	names := make(map[uuid.UUID]string, len(staff))
	for _, member := range staff {
		names[member.ID] = staffName(member)
	}

	responses := make([]RecordResponse, 0, len(records))
	for _, record := range records {
		responses = append(responses, mapRecordResponse(record, names[record.StaffID]))
	}
	return GenerateResponse{Month: monthKey, Records: responses}, nil
}

func (s *service) Payslip(ctx context.Context, branchID, recordID string) ([]byte, string, error) {
	if _, err := uuid.Parse(branchID); err != nil {
		return nil, "", payrollerrors.ErrInvalidBranchID
	}

	record, err := s.repo.FindByID(ctx, branchID, recordID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", payrollerrors.ErrRecordNotFound
		}
		return nil, "", err
	}

	name := ""
	if staff, err := s.repo.FindStaff(ctx, branchID, record.StaffID.String()); err == nil {
		name = staffName(*staff)
	}

	lines := []string{
		"Payslip " + record.Month,
		"Staff: " + name,
		"Status: " + record.Status,
	}
	if record.BaseSalary != nil {
		lines = append(lines,
			fmt.Sprintf("Base salary: %d", *record.BaseSalary),
			fmt.Sprintf("Unpaid leave days: %s", record.UnpaidLeaveDays.String()),
			fmt.Sprintf("Leave deductions: %d", record.LeaveDeductions),
			fmt.Sprintf("Adjustments: %d", record.ManualAdjustmentsTotal),
		)
	}
	if record.NetPayable != nil {
		lines = append(lines, fmt.Sprintf("Net payable: %d", *record.NetPayable))
	}

	pdf, err := renderPayslipPDF(lines)
	if err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("payslip-%s-%s.pdf", record.StaffID, record.Month)
	return pdf, filename, nil
}

func staffName(member StaffRow) string {
	if member.FirstName == "" {
		return member.LastName
	}
	if member.LastName == "" {
		return member.FirstName
	}
	return member.FirstName + " " + member.LastName
}

func mapRecordResponse(record PayrollRecord, name string) RecordResponse {
	resp := RecordResponse{
		ID:              record.ID.String(),
		StaffID:         record.StaffID.String(),
		StaffName:       name,
		Month:           record.Month,
		BaseSalary:      record.BaseSalary,
		UnpaidLeaveDays: record.UnpaidLeaveDays.String(),
		LeaveDeductions: record.LeaveDeductions,
		Adjustments:     record.ManualAdjustmentsTotal,
		NetPayable:      record.NetPayable,
		Status:          record.Status,
	}
	if record.ProcessedAt != nil {
		resp.ProcessedAt = record.ProcessedAt.Format(time.RFC3339)
	}
	return resp
}
