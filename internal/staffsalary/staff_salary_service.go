package staffsalary

import (
	"context"
	"database/sql"
	"time"

	staffsalaryerrors "verticx/internal/staffsalary/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

//go:generate mockgen -source=staff_salary_service.go -destination=mock/staff_salary_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, branchID string, req CreateStaffSalaryRequest) (StaffSalaryResponse, error)
	GetAll(ctx context.Context, branchID string) ([]StaffSalaryResponse, error)
	GetByID(ctx context.Context, branchID, id string) (StaffSalaryResponse, error)
	Update(ctx context.Context, branchID, id string, req UpdateStaffSalaryRequest) (StaffSalaryResponse, error)
	Delete(ctx context.Context, branchID, id string) error
}

type service struct {
	db     *sql.DB
	repo   Repository
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("staffsalary.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("staffsalary.service")
	}
	return &service{db: db, repo: repo, logger: l}
}

func (s *service) Create(ctx context.Context, branchID string, req CreateStaffSalaryRequest) (StaffSalaryResponse, error) {
	branchUUID, err := uuid.Parse(branchID)
	if err != nil {
		return StaffSalaryResponse{}, staffsalaryerrors.ErrInvalidBranchID
	}
	staffUUID, err := uuid.Parse(req.StaffID)
	if err != nil {
		return StaffSalaryResponse{}, staffsalaryerrors.ErrInvalidStaffID
	}

	effectiveFrom := time.Now().UTC().Truncate(24 * time.Hour)
	if req.EffectiveFrom != "" {
		effectiveFrom, err = time.Parse("2006-01-02", req.EffectiveFrom)
		if err != nil {
			return StaffSalaryResponse{}, staffsalaryerrors.ErrInvalidEffectiveFrom
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create salary begin tx failed", zap.Error(err))
		return StaffSalaryResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	belongs, err := qtx.StaffBelongsToBranch(ctx, branchID, req.StaffID)
	if err != nil {
		return StaffSalaryResponse{}, err
	}
	if !belongs {
		return StaffSalaryResponse{}, staffsalaryerrors.ErrStaffNotInBranch
	}

	salary := &StaffSalary{
		ID:            uuid.New(),
		StaffID:       staffUUID,
		BranchID:      branchUUID,
		Amount:        req.Amount,
		EffectiveFrom: effectiveFrom,
	}

	if err := qtx.Create(ctx, salary); err != nil {
		s.logger.Error("create salary persist failed",
			zap.String("staff_id", req.StaffID),
			zap.Error(err),
		)
		return StaffSalaryResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create salary commit failed", zap.Error(err))
		return StaffSalaryResponse{}, err
	}

	s.logger.Info("salary profile created",
		zap.String("salary_id", salary.ID.String()),
		zap.String("staff_id", req.StaffID),
		zap.Bool("configured", req.Amount != nil),
	)

	return mapToResponse(*salary), nil
}

func (s *service) GetAll(ctx context.Context, branchID string) ([]StaffSalaryResponse, error) {
	salaries, err := s.repo.FindAllByBranch(ctx, branchID)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	return mapToListResponse(salaries), nil
}

func (s *service) GetByID(ctx context.Context, branchID, id string) (StaffSalaryResponse, error) {
	salary, err := s.repo.FindByIDAndBranch(ctx, branchID, id)
	if err != nil {
		return StaffSalaryResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*salary), nil
}

func (s *service) Update(ctx context.Context, branchID, id string, req UpdateStaffSalaryRequest) (StaffSalaryResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return StaffSalaryResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	salary, err := qtx.FindByIDAndBranch(ctx, branchID, id)
	if err != nil {
		return StaffSalaryResponse{}, mapRepositoryError(err)
	}

	salary.Amount = req.Amount
	if req.EffectiveFrom != "" {
		effectiveFrom, err := time.Parse("2006-01-02", req.EffectiveFrom)
		if err != nil {
			return StaffSalaryResponse{}, staffsalaryerrors.ErrInvalidEffectiveFrom
		}
		salary.EffectiveFrom = effectiveFrom
	}

	if err := qtx.Update(ctx, salary); err != nil {
		s.logger.Error("update salary persist failed", zap.String("salary_id", id), zap.Error(err))
		return StaffSalaryResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return StaffSalaryResponse{}, err
	}

	s.logger.Info("salary profile updated", zap.String("salary_id", id))

	return mapToResponse(*salary), nil
}

func (s *service) Delete(ctx context.Context, branchID, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	if _, err := qtx.FindByIDAndBranch(ctx, branchID, id); err != nil {
		return mapRepositoryError(err)
	}
	if err := qtx.Delete(ctx, branchID, id); err != nil {
		return err
	}
	return tx.Commit()
}

func mapToResponse(salary StaffSalary) StaffSalaryResponse {
	return StaffSalaryResponse{
		ID:            salary.ID.String(),
		StaffID:       salary.StaffID.String(),
		StaffName:     salary.StaffName,
		Amount:        salary.Amount,
		EffectiveFrom: salary.EffectiveFrom.Format("2006-01-02"),
	}
}

func mapToListResponse(salaries []StaffSalary) []StaffSalaryResponse {
	resp := make([]StaffSalaryResponse, len(salaries))
	for i, salary := range salaries {
		resp[i] = mapToResponse(salary)
	}
	return resp
}
