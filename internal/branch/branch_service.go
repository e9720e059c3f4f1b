package branch

import (
	"context"
	"database/sql"
	"errors"
	"time"

	brancherrors "verticx/internal/branch/errors"
	"verticx/internal/rbac"
	"verticx/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

//go:generate mockgen -source=branch_service.go -destination=mock/branch_service_mock.go -package=mock
type Service interface {
	Register(ctx context.Context, req RegisterBranchRequest) (RegisterBranchResponse, error)
	GetByID(ctx context.Context, id string) (*BranchResponse, error)
	Update(ctx context.Context, id string, req UpdateBranchRequest) (*BranchResponse, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	rbac   rbac.Service
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, rbacService rbac.Service, logger ...*zap.Logger) Service {
	l := zap.L().Named("branch.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("branch.service")
	}
	return &service{db: db, repo: repo, rbac: rbacService, logger: l}
}

// Register provisions a new branch in one transaction: the branch row, its
// first academic session, the admin login, the built-in role set, and a full
// permission grant for the Admin role.
func (s *service) Register(ctx context.Context, req RegisterBranchRequest) (RegisterBranchResponse, error) {
	rid := contextutil.GetRequestID(ctx)

	startDate, err := time.Parse("2006-01-02", req.SessionStartDate)
	if err != nil {
		return RegisterBranchResponse{}, brancherrors.ErrInvalidSessionStart
	}

	if _, err := s.repo.GetByEmail(ctx, req.Email); err == nil {
		return RegisterBranchResponse{}, brancherrors.ErrEmailAlreadyRegistered
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return RegisterBranchResponse{}, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return RegisterBranchResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("register branch begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return RegisterBranchResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	b := &Branch{
		ID:      uuid.New(),
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
	}
	if err := qtx.Create(ctx, b); err != nil {
		s.logger.Error("register branch persist failed", zap.Error(err))
		return RegisterBranchResponse{}, err
	}

	session := SessionRow{
		ID:        uuid.New(),
		BranchID:  b.ID,
		Name:      req.SessionName,
		StartDate: startDate,
	}
	if err := qtx.CreateSession(ctx, session); err != nil {
		s.logger.Error("register branch create session failed", zap.Error(err))
		return RegisterBranchResponse{}, err
	}

	admin := AdminUserRow{
		ID:       uuid.New(),
		BranchID: b.ID,
		Name:     req.AdminName,
		Email:    req.AdminEmail,
		Password: string(hashed),
		Role:     rbac.RoleAdmin,
	}
	if err := qtx.CreateAdminUser(ctx, admin); err != nil {
		s.logger.Error("register branch create admin failed", zap.Error(err))
		return RegisterBranchResponse{}, err
	}

	roleNames := []string{
		rbac.RoleAdmin, rbac.RolePrincipal, rbac.RoleRegistrar,
		rbac.RoleTeacher, rbac.RoleStudent, rbac.RoleParent, rbac.RoleLibrarian,
	}
	roleIDs, err := qtx.SeedRoles(ctx, b.ID, roleNames)
	if err != nil {
		s.logger.Error("register branch seed roles failed", zap.Error(err))
		return RegisterBranchResponse{}, err
	}

	adminRoleID := roleIDs[rbac.RoleAdmin]
	if err := qtx.AssignRole(ctx, admin.ID, adminRoleID); err != nil {
		return RegisterBranchResponse{}, err
	}
	if err := qtx.GrantAllPermissions(ctx, adminRoleID); err != nil {
		return RegisterBranchResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("register branch commit failed", zap.String("request_id", rid), zap.Error(err))
		return RegisterBranchResponse{}, err
	}

	if err := s.rbac.LoadBranchPolicy(b.ID.String()); err != nil {
		s.logger.Warn("register branch policy warmup failed",
			zap.String("branch_id", b.ID.String()),
			zap.Error(err),
		)
	}

	s.logger.Info("register branch success",
		zap.String("request_id", rid),
		zap.String("branch_id", b.ID.String()),
	)

	return RegisterBranchResponse{
		Branch:      mapToResponse(b),
		AdminUserID: admin.ID.String(),
		SessionID:   session.ID.String(),
	}, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*BranchResponse, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, brancherrors.ErrInvalidBranchID
	}

	b, err := s.repo.GetByID(ctx, uid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, brancherrors.ErrBranchNotFound
		}
		return nil, err
	}

	resp := mapToResponse(b)
	return &resp, nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateBranchRequest) (*BranchResponse, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, brancherrors.ErrInvalidBranchID
	}

	b, err := s.repo.GetByID(ctx, uid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, brancherrors.ErrBranchNotFound
		}
		return nil, err
	}

	if req.Name != "" {
		b.Name = req.Name
	}
	if req.Phone != "" {
		b.Phone = req.Phone
	}
	if req.Address != "" {
		b.Address = req.Address
	}
	if req.IsActive != nil {
		b.IsActive = *req.IsActive
	}

	if err := s.repo.Update(ctx, b); err != nil {
		return nil, err
	}

	resp := mapToResponse(b)
	return &resp, nil
}

func mapToResponse(b *Branch) BranchResponse {
	return BranchResponse{
		ID:       b.ID.String(),
		Name:     b.Name,
		Email:    b.Email,
		Phone:    b.Phone,
		Address:  b.Address,
		IsActive: b.IsActive,
	}
}
