package leave

import (
	"context"
	"database/sql"
	"errors"
	"time"

	leaveerrors "verticx/internal/leave/errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	StatusPending  = "PENDING"
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
)

//go:generate mockgen -source=leave_service.go -destination=mock/leave_service_mock.go -package=mock
type Service interface {
	Apply(ctx context.Context, branchID, actorID string, req CreateLeaveRequest) (LeaveResponse, error)
	GetAll(ctx context.Context, branchID string) ([]LeaveResponse, error)
	GetByID(ctx context.Context, branchID, id string) (LeaveResponse, error)
	Approve(ctx context.Context, branchID, actorID, id string) (LeaveResponse, error)
	Reject(ctx context.Context, branchID, actorID, id, rejectionReason string) (LeaveResponse, error)
	Cancel(ctx context.Context, branchID, id string) error
}

type service struct {
	db     *sql.DB
	repo   Repository
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	return &service{db: db, repo: repo, logger: l}
}

func (s *service) Apply(ctx context.Context, branchID, actorID string, req CreateLeaveRequest) (LeaveResponse, error) {
	s.logger.Debug("apply leave requested",
		zap.String("branch_id", branchID),
		zap.String("actor_id", actorID),
		zap.String("staff_id", req.StaffID),
		zap.String("start_date", req.StartDate),
		zap.String("end_date", req.EndDate),
	)

	branchUUID, staffUUID, createdByUUID, startDate, endDate, err := validateCreateRequest(branchID, actorID, req)
	if err != nil {
		s.logger.Warn("apply leave validation failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("apply leave begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	belongs, err := qtx.StaffBelongsToBranch(ctx, branchID, req.StaffID)
	if err != nil {
		s.logger.Error("apply leave staff branch check failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	if !belongs {
		return LeaveResponse{}, leaveerrors.ErrStaffNotInBranch
	}

	overlap, err := qtx.HasOverlappingPeriod(ctx, branchID, req.StaffID, startDate, endDate, nil)
	if err != nil {
		s.logger.Error("apply leave overlap check failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	if overlap {
		s.logger.Warn("apply leave overlap detected",
			zap.String("staff_id", req.StaffID),
			zap.String("start_date", req.StartDate),
			zap.String("end_date", req.EndDate),
		)
		return LeaveResponse{}, leaveerrors.ErrLeaveOverlap
	}

	request := &LeaveRequest{
		ID:        uuid.New(),
		BranchID:  branchUUID,
		StaffID:   staffUUID,
		LeaveType: req.LeaveType,
		StartDate: startDate,
		EndDate:   endDate,
		IsHalfDay: req.IsHalfDay,
		Reason:    req.Reason,
		Status:    StatusPending,
		CreatedBy: createdByUUID,
	}

	if err := qtx.Create(ctx, request); err != nil {
		s.logger.Error("apply leave persist failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("apply leave commit failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	s.logger.Info("leave request created",
		zap.String("leave_id", request.ID.String()),
		zap.String("staff_id", req.StaffID),
	)

	return mapToResponse(*request), nil
}

func (s *service) GetAll(ctx context.Context, branchID string) ([]LeaveResponse, error) {
	requests, err := s.repo.FindAllByBranch(ctx, branchID)
	if err != nil {
		return nil, err
	}
	resp := make([]LeaveResponse, len(requests))
	for i, request := range requests {
		resp[i] = mapToResponse(request)
	}
	return resp, nil
}

func (s *service) GetByID(ctx context.Context, branchID, id string) (LeaveResponse, error) {
	request, err := s.repo.FindByIDAndBranch(ctx, branchID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
		}
		return LeaveResponse{}, err
	}
	return mapToResponse(*request), nil
}

func (s *service) Approve(ctx context.Context, branchID, actorID, id string) (LeaveResponse, error) {
	return s.review(ctx, branchID, actorID, id, StatusApproved, nil)
}

func (s *service) Reject(ctx context.Context, branchID, actorID, id, rejectionReason string) (LeaveResponse, error) {
	return s.review(ctx, branchID, actorID, id, StatusRejected, &rejectionReason)
}

// review moves a request out of PENDING exactly once. The submitted details
// are never touched here; a reviewed request is immutable.
func (s *service) review(ctx context.Context, branchID, actorID, id, targetStatus string, rejectionReason *string) (LeaveResponse, error) {
	s.logger.Debug("review leave requested",
		zap.String("leave_id", id),
		zap.String("branch_id", branchID),
		zap.String("actor_id", actorID),
		zap.String("target_status", targetStatus),
	)

	if _, err := uuid.Parse(branchID); err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidBranchID
	}
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidActorID
	}
	if targetStatus == StatusRejected && (rejectionReason == nil || *rejectionReason == "") {
		return LeaveResponse{}, leaveerrors.ErrRejectionReasonRequired
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("review leave begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	request, err := qtx.FindByIDAndBranch(ctx, branchID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
		}
		return LeaveResponse{}, err
	}
	if request.Status != StatusPending {
		s.logger.Warn("review leave already reviewed",
			zap.String("leave_id", id),
			zap.String("status", request.Status),
		)
		return LeaveResponse{}, leaveerrors.ErrAlreadyReviewed
	}

	now := time.Now().UTC()
	request.Status = targetStatus
	request.ReviewedBy = &actorUUID
	request.ReviewedAt = &now
	if targetStatus == StatusRejected {
		request.RejectionReason = rejectionReason
	}

	if err := qtx.Update(ctx, request); err != nil {
		s.logger.Error("review leave persist failed",
			zap.String("leave_id", id),
			zap.Error(err),
		)
		return LeaveResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		s.logger.Error("review leave commit failed",
			zap.String("leave_id", id),
			zap.Error(err),
		)
		return LeaveResponse{}, err
	}
	s.logger.Info("leave request reviewed",
		zap.String("leave_id", id),
		zap.String("status", targetStatus),
	)
	return mapToResponse(*request), nil
}

func (s *service) Cancel(ctx context.Context, branchID, id string) error {
	request, err := s.repo.FindByIDAndBranch(ctx, branchID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return leaveerrors.ErrLeaveNotFound
		}
		return err
	}
	if request.Status != StatusPending {
		return leaveerrors.ErrAlreadyReviewed
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	if err := qtx.Delete(ctx, branchID, id); err != nil {
		return err
	}
	return tx.Commit()
}

func validateCreateRequest(branchID, actorID string, req CreateLeaveRequest) (uuid.UUID, uuid.UUID, uuid.UUID, time.Time, time.Time, error) {
	branchUUID, err := uuid.Parse(branchID)
	if err != nil {
		return uuid.Nil, uuid.Nil, uuid.Nil, time.Time{}, time.Time{}, leaveerrors.ErrInvalidBranchID
	}
	staffUUID, err := uuid.Parse(req.StaffID)
	if err != nil {
		return uuid.Nil, uuid.Nil, uuid.Nil, time.Time{}, time.Time{}, leaveerrors.ErrInvalidStaffID
	}
	createdByUUID, err := uuid.Parse(actorID)
	if err != nil {
		return uuid.Nil, uuid.Nil, uuid.Nil, time.Time{}, time.Time{}, leaveerrors.ErrInvalidActorID
	}
	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return uuid.Nil, uuid.Nil, uuid.Nil, time.Time{}, time.Time{}, err
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		return uuid.Nil, uuid.Nil, uuid.Nil, time.Time{}, time.Time{}, err
	}
	if startDate.After(endDate) {
		return uuid.Nil, uuid.Nil, uuid.Nil, time.Time{}, time.Time{}, leaveerrors.ErrInvalidDateRange
	}
	return branchUUID, staffUUID, createdByUUID, startDate, endDate, nil
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, leaveerrors.ErrInvalidDateFormat
	}
	return t, nil
}

func totalDays(request LeaveRequest) decimal.Decimal {
	days := int64(request.EndDate.Sub(request.StartDate).Hours()/24) + 1
	total := decimal.NewFromInt(days)
	if request.IsHalfDay {
		total = total.Mul(decimal.NewFromFloat(0.5))
	}
	return total
}

func mapToResponse(request LeaveRequest) LeaveResponse {
	resp := LeaveResponse{
		ID:        request.ID.String(),
		BranchID:  request.BranchID.String(),
		StaffID:   request.StaffID.String(),
		LeaveType: request.LeaveType,
		StartDate: request.StartDate.Format("2006-01-02"),
		EndDate:   request.EndDate.Format("2006-01-02"),
		IsHalfDay: request.IsHalfDay,
		TotalDays: totalDays(request).String(),
		Reason:    request.Reason,
		Status:    request.Status,
		CreatedBy: request.CreatedBy.String(),
	}
	if request.ReviewedBy != nil {
		v := request.ReviewedBy.String()
		resp.ReviewedBy = &v
	}
	if request.ReviewedAt != nil {
		v := request.ReviewedAt.Format(time.RFC3339)
		resp.ReviewedAt = &v
	}
	resp.RejectionReason = request.RejectionReason
	return resp
}
