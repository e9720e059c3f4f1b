package rbac

import (
	"sync"

	"verticx/internal/domain"

	"github.com/casbin/casbin/v2"
	"go.uber.org/zap"
)

// Built-in portal roles seeded for every branch.
const (
	RoleAdmin     = "Admin"
	RolePrincipal = "Principal"
	RoleRegistrar = "Registrar"
	RoleTeacher   = "Teacher"
	RoleStudent   = "Student"
	RoleParent    = "Parent"
	RoleLibrarian = "Librarian"
)

//go:generate mockgen -source=rbac_service.go -destination=mock/rbac_service_mock.go -package=mock
type Service interface {
	LoadBranchPolicy(branchID string) error
	Enforce(req domain.EnforceRequest) (bool, error)
}

type service struct {
	repo     Repository
	enforcer *casbin.Enforcer
	logger   *zap.Logger
	mu       sync.Mutex
}

func NewService(repo Repository, enforcer *casbin.Enforcer, logger ...*zap.Logger) Service {
	l := zap.L().Named("rbac.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("rbac.service")
	}
	return &service{
		repo:     repo,
		enforcer: enforcer,
		logger:   l,
	}
}

func (s *service) LoadBranchPolicy(branchID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.loadBranchPolicyUnlocked(branchID)
}

func (s *service) loadBranchPolicyUnlocked(branchID string) error {
	s.enforcer.ClearPolicy()

	// Load grouping policy
	userRoles, err := s.repo.GetUserRoles(branchID)
	if err != nil {
		return err
	}
	s.logger.Debug("rbac load policy",
		zap.String("branch_id", branchID),
		zap.Int("user_roles", len(userRoles)),
	)

	for _, ur := range userRoles {
		_, err := s.enforcer.AddGroupingPolicy(
			ur.UserID,
			ur.RoleID,
			branchID,
		)
		if err != nil {
			return err
		}
	}

	// Load permission policy
	rolePerms, err := s.repo.GetRolePermissions(branchID)
	if err != nil {
		return err
	}
	s.logger.Debug("rbac load policy",
		zap.String("branch_id", branchID),
		zap.Int("role_permissions", len(rolePerms)),
	)

	for _, rp := range rolePerms {
		_, err := s.enforcer.AddPolicy(
			rp.RoleID,
			branchID,
			rp.Resource,
			rp.Action,
		)
		if err != nil {
			return err
		}
	}

	return nil
}

func (s *service) Enforce(req domain.EnforceRequest) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadBranchPolicyUnlocked(req.BranchID); err != nil {
		return false, err
	}

	allowed, err := s.enforcer.Enforce(
		req.UserID,
		req.BranchID,
		req.Resource,
		req.Action,
	)
	if err != nil {
		s.logger.Error("rbac enforce failed",
			zap.String("user_id", req.UserID),
			zap.String("branch_id", req.BranchID),
			zap.String("resource", req.Resource),
			zap.String("action", req.Action),
			zap.Error(err),
		)
		return false, err
	}

	s.logger.Debug("rbac enforce result",
		zap.String("user_id", req.UserID),
		zap.String("branch_id", req.BranchID),
		zap.String("resource", req.Resource),
		zap.String("action", req.Action),
		zap.Bool("allowed", allowed),
	)

	return allowed, nil
}
