package class

import (
	"context"
	"database/sql"
	"errors"

	classerrors "verticx/internal/class/errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

//go:generate mockgen -source=class_service.go -destination=mock/class_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, branchID string, req CreateClassRequest) (ClassResponse, error)
	GetAll(ctx context.Context, branchID string) ([]ClassResponse, error)
	GetByID(ctx context.Context, branchID, id string) (ClassResponse, error)
	Update(ctx context.Context, branchID, id string, req UpdateClassRequest) (ClassResponse, error)
	Delete(ctx context.Context, branchID, id string) error
}

type service struct {
	db   *sql.DB
	repo Repository
}

func NewService(db *sql.DB, repo Repository) Service {
	return &service{db: db, repo: repo}
}

func (s *service) Create(ctx context.Context, branchID string, req CreateClassRequest) (ClassResponse, error) {
	if err := s.checkTemplate(ctx, branchID, req.FeeTemplateID); err != nil {
		return ClassResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ClassResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	cls := &Class{
		ID:              uuid.New(),
		BranchID:        uuid.MustParse(branchID),
		Name:            req.Name,
		Section:         req.Section,
		GradeLevel:      req.GradeLevel,
		FeeTemplateID:   uuidPtr(req.FeeTemplateID),
		HomeroomStaffID: uuidPtr(req.HomeroomStaffID),
	}

	if err := qtx.Create(ctx, cls); err != nil {
		return ClassResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return ClassResponse{}, err
	}

	return mapToResponse(*cls), nil
}

func (s *service) GetAll(ctx context.Context, branchID string) ([]ClassResponse, error) {
	classes, err := s.repo.FindAllByBranch(ctx, branchID)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(classes), nil
}

func (s *service) GetByID(ctx context.Context, branchID, id string) (ClassResponse, error) {
	cls, err := s.repo.FindByIDAndBranch(ctx, branchID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ClassResponse{}, classerrors.ErrClassNotFound
		}
		return ClassResponse{}, err
	}
	return mapToResponse(*cls), nil
}

func (s *service) Update(ctx context.Context, branchID, id string, req UpdateClassRequest) (ClassResponse, error) {
	if err := s.checkTemplate(ctx, branchID, req.FeeTemplateID); err != nil {
		return ClassResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ClassResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	cls, err := qtx.FindByIDAndBranch(ctx, branchID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ClassResponse{}, classerrors.ErrClassNotFound
		}
		return ClassResponse{}, err
	}

	cls.Name = req.Name
	cls.Section = req.Section
	cls.GradeLevel = req.GradeLevel
	cls.FeeTemplateID = uuidPtr(req.FeeTemplateID)
	cls.HomeroomStaffID = uuidPtr(req.HomeroomStaffID)

	if err := qtx.Update(ctx, cls); err != nil {
		return ClassResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return ClassResponse{}, err
	}

	return mapToResponse(*cls), nil
}

func (s *service) Delete(ctx context.Context, branchID, id string) error {
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

func (s *service) checkTemplate(ctx context.Context, branchID, templateID string) error {
	if templateID == "" {
		return nil
	}
	exists, err := s.repo.FeeTemplateExists(ctx, branchID, templateID)
	if err != nil {
		return err
	}
	if !exists {
		return classerrors.ErrFeeTemplateNotFound
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

func mapToResponse(cls Class) ClassResponse {
	resp := ClassResponse{
		ID:         cls.ID.String(),
		BranchID:   cls.BranchID.String(),
		Name:       cls.Name,
		Section:    cls.Section,
		GradeLevel: cls.GradeLevel,
	}
	if cls.FeeTemplateID != nil {
		resp.FeeTemplateID = cls.FeeTemplateID.String()
	}
	if cls.HomeroomStaffID != nil {
		resp.HomeroomStaffID = cls.HomeroomStaffID.String()
	}
	return resp
}

func mapToListResponse(classes []Class) []ClassResponse {
	res := make([]ClassResponse, len(classes))
	for i, c := range classes {
		res[i] = mapToResponse(c)
	}
	return res
}
