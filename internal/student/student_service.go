package student

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"verticx/internal/shared/contextutil"
	"verticx/internal/shared/counter"
	studenterrors "verticx/internal/student/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

//go:generate mockgen -source=student_service.go -destination=mock/student_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, branchID string, req CreateStudentRequest) (StudentResponse, error)
	GetAll(ctx context.Context, branchID string) ([]StudentResponse, error)
	GetByClass(ctx context.Context, branchID, classID string) ([]StudentResponse, error)
	GetByID(ctx context.Context, branchID, id string) (StudentResponse, error)
	Update(ctx context.Context, branchID, id string, req UpdateStudentRequest) (StudentResponse, error)
	Delete(ctx context.Context, branchID, id string) error
}

type service struct {
	db      *sql.DB
	repo    Repository
	counter counter.Repository
	logger  *zap.Logger
}

func NewService(db *sql.DB, repo Repository, counterRepo counter.Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("student.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("student.service")
	}
	return &service{db: db, repo: repo, counter: counterRepo, logger: l}
}

func (s *service) Create(ctx context.Context, branchID string, req CreateStudentRequest) (StudentResponse, error) {
	rid := contextutil.GetRequestID(ctx)

	branchUUID, err := uuid.Parse(branchID)
	if err != nil {
		return StudentResponse{}, studenterrors.ErrInvalidBranchID
	}
	enrolledDate, err := time.Parse("2006-01-02", req.EnrolledDate)
	if err != nil {
		return StudentResponse{}, studenterrors.ErrInvalidDate
	}
	var dob *time.Time
	if req.DateOfBirth != "" {
		parsed, err := time.Parse("2006-01-02", req.DateOfBirth)
		if err != nil {
			return StudentResponse{}, studenterrors.ErrInvalidDate
		}
		dob = &parsed
	}

	if req.ClassID != "" {
		exists, err := s.repo.ClassExists(ctx, branchID, req.ClassID)
		if err != nil {
			return StudentResponse{}, err
		}
		if !exists {
			return StudentResponse{}, studenterrors.ErrClassNotFound
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create student begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return StudentResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if req.AdmissionNumber == "" {
		nextVal, err := s.counter.GetNextValue(ctx, branchID, "admission_number")
		if err != nil {
			s.logger.Error("create student generate admission number failed", zap.Error(err))
			return StudentResponse{}, err
		}
		req.AdmissionNumber = fmt.Sprintf("ADM-%06d", nextVal)
	}

	record := &Student{
		ID:              uuid.New(),
		BranchID:        branchUUID,
		ClassID:         uuidPtr(req.ClassID),
		AdmissionNumber: req.AdmissionNumber,
		FullName:        req.FullName,
		GradeLevel:      req.GradeLevel,
		GuardianName:    req.GuardianName,
		GuardianPhone:   req.GuardianPhone,
		DateOfBirth:     dob,
		EnrolledDate:    enrolledDate,
		Active:          true,
	}

	if err := qtx.Create(ctx, record); err != nil {
		s.logger.Error("create student persist failed", zap.Error(err))
		return StudentResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create student commit failed", zap.String("request_id", rid), zap.Error(err))
		return StudentResponse{}, err
	}

	s.logger.Info("create student success",
		zap.String("request_id", rid),
		zap.String("student_id", record.ID.String()),
	)

	return mapToResponse(*record), nil
}

func (s *service) GetAll(ctx context.Context, branchID string) ([]StudentResponse, error) {
	students, err := s.repo.FindAllByBranch(ctx, branchID)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	return mapToListResponse(students), nil
}

func (s *service) GetByClass(ctx context.Context, branchID, classID string) ([]StudentResponse, error) {
	students, err := s.repo.FindByClass(ctx, branchID, classID)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	return mapToListResponse(students), nil
}

func (s *service) GetByID(ctx context.Context, branchID, id string) (StudentResponse, error) {
	record, err := s.repo.FindByIDAndBranch(ctx, branchID, id)
	if err != nil {
		return StudentResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*record), nil
}

func (s *service) Update(ctx context.Context, branchID, id string, req UpdateStudentRequest) (StudentResponse, error) {
	if req.ClassID != "" {
		exists, err := s.repo.ClassExists(ctx, branchID, req.ClassID)
		if err != nil {
			return StudentResponse{}, err
		}
		if !exists {
			return StudentResponse{}, studenterrors.ErrClassNotFound
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("update student begin tx failed", zap.Error(err))
		return StudentResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	record, err := qtx.FindByIDAndBranch(ctx, branchID, id)
	if err != nil {
		return StudentResponse{}, mapRepositoryError(err)
	}

	record.FullName = req.FullName
	record.GradeLevel = req.GradeLevel
	record.ClassID = uuidPtr(req.ClassID)
	record.GuardianName = req.GuardianName
	record.GuardianPhone = req.GuardianPhone
	if req.Active != nil {
		record.Active = *req.Active
	}

	if err := qtx.Update(ctx, record); err != nil {
		s.logger.Error("update student persist failed", zap.Error(err))
		return StudentResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		return StudentResponse{}, err
	}

	return mapToResponse(*record), nil
}

func (s *service) Delete(ctx context.Context, branchID, id string) error {
	if _, err := s.repo.FindByIDAndBranch(ctx, branchID, id); err != nil {
		return mapRepositoryError(err)
	}
	if err := s.repo.Delete(ctx, branchID, id); err != nil {
		return mapRepositoryError(err)
	}
	return nil
}

func uuidPtr(id string) *uuid.UUID {
	if id == "" {
		return nil
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil
	}
	return &parsed
}

func mapToResponse(s Student) StudentResponse {
	resp := StudentResponse{
		ID:              s.ID.String(),
		BranchID:        s.BranchID.String(),
		AdmissionNumber: s.AdmissionNumber,
		FullName:        s.FullName,
		GradeLevel:      s.GradeLevel,
		GuardianName:    s.GuardianName,
		GuardianPhone:   s.GuardianPhone,
		EnrolledDate:    s.EnrolledDate.Format("2006-01-02"),
		Active:          s.Active,
	}
	if s.ClassID != nil {
		resp.ClassID = s.ClassID.String()
	}
	if s.DateOfBirth != nil {
		resp.DateOfBirth = s.DateOfBirth.Format("2006-01-02")
	}
	return resp
}

func mapToListResponse(students []Student) []StudentResponse {
	resp := make([]StudentResponse, 0, len(students))
	for _, s := range students {
		resp = append(resp, mapToResponse(s))
	}
	return resp
}
