package branch

import (
	"context"
	"database/sql"
	"testing"

	brancherrors "verticx/internal/branch/errors"
	"verticx/internal/domain"
	"verticx/internal/rbac"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeRepo struct {
	withTxFn       func(tx *sql.Tx) Repository
	createFn       func(ctx context.Context, b *Branch) error
	getByIDFn      func(ctx context.Context, id uuid.UUID) (*Branch, error)
	getByEmailFn   func(ctx context.Context, email string) (*Branch, error)
	updateFn       func(ctx context.Context, b *Branch) error
	createAdminFn  func(ctx context.Context, user AdminUserRow) error
	createSessionFn func(ctx context.Context, session SessionRow) error
	seedRolesFn    func(ctx context.Context, branchID uuid.UUID, roleNames []string) (map[string]uuid.UUID, error)
	assignRoleFn   func(ctx context.Context, userID, roleID uuid.UUID) error
	grantAllFn     func(ctx context.Context, roleID uuid.UUID) error
}

func (f *fakeRepo) WithTx(tx *sql.Tx) Repository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}
func (f *fakeRepo) Create(ctx context.Context, b *Branch) error { return f.createFn(ctx, b) }
func (f *fakeRepo) GetByID(ctx context.Context, id uuid.UUID) (*Branch, error) {
	return f.getByIDFn(ctx, id)
}
func (f *fakeRepo) GetByEmail(ctx context.Context, email string) (*Branch, error) {
	return f.getByEmailFn(ctx, email)
}
func (f *fakeRepo) Update(ctx context.Context, b *Branch) error { return f.updateFn(ctx, b) }
func (f *fakeRepo) CreateAdminUser(ctx context.Context, user AdminUserRow) error {
	return f.createAdminFn(ctx, user)
}
func (f *fakeRepo) CreateSession(ctx context.Context, session SessionRow) error {
	return f.createSessionFn(ctx, session)
}
func (f *fakeRepo) SeedRoles(ctx context.Context, branchID uuid.UUID, roleNames []string) (map[string]uuid.UUID, error) {
	return f.seedRolesFn(ctx, branchID, roleNames)
}
func (f *fakeRepo) AssignRole(ctx context.Context, userID, roleID uuid.UUID) error {
	return f.assignRoleFn(ctx, userID, roleID)
}
func (f *fakeRepo) GrantAllPermissions(ctx context.Context, roleID uuid.UUID) error {
	return f.grantAllFn(ctx, roleID)
}

type fakeRBAC struct {
	loaded []string
}

func (f *fakeRBAC) LoadBranchPolicy(branchID string) error {
	f.loaded = append(f.loaded, branchID)
	return nil
}
func (f *fakeRBAC) Enforce(req domain.EnforceRequest) (bool, error) { return true, nil }

func TestService_Register(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()
	ctx := context.Background()

	var seededRoles []string
	var adminCreated AdminUserRow
	var assignedRoleID uuid.UUID
	var grantedRoleID uuid.UUID
	adminRoleID := uuid.New()

	repo := &fakeRepo{}
	repo.getByEmailFn = func(ctx context.Context, email string) (*Branch, error) {
		return nil, gorm.ErrRecordNotFound
	}
	repo.createFn = func(ctx context.Context, b *Branch) error { return nil }
	repo.createSessionFn = func(ctx context.Context, session SessionRow) error {
		assert.Equal(t, "2026-27", session.Name)
		return nil
	}
	repo.createAdminFn = func(ctx context.Context, user AdminUserRow) error {
		adminCreated = user
		return nil
	}
	repo.seedRolesFn = func(ctx context.Context, branchID uuid.UUID, roleNames []string) (map[string]uuid.UUID, error) {
		seededRoles = roleNames
		ids := make(map[string]uuid.UUID, len(roleNames))
		for _, name := range roleNames {
			ids[name] = uuid.New()
		}
		ids[rbac.RoleAdmin] = adminRoleID
		return ids, nil
	}
	repo.assignRoleFn = func(ctx context.Context, userID, roleID uuid.UUID) error {
		assignedRoleID = roleID
		return nil
	}
	repo.grantAllFn = func(ctx context.Context, roleID uuid.UUID) error {
		grantedRoleID = roleID
		return nil
	}

	rbacSvc := &fakeRBAC{}
	svc := NewService(db, repo, rbacSvc)

	mock.ExpectBegin()
	mock.ExpectCommit()
	resp, err := svc.Register(ctx, RegisterBranchRequest{
		Name:             "Greenfield Public School",
		Email:            "office@greenfield.test",
		AdminName:        "Priya Sharma",
		AdminEmail:       "principal@greenfield.test",
		AdminPassword:    "password123",
		SessionName:      "2026-27",
		SessionStartDate: "2026-04-01",
	})
	assert.NoError(t, err)
	assert.NotEmpty(t, resp.Branch.ID)
	assert.NotEmpty(t, resp.SessionID)
	assert.Equal(t, adminCreated.ID.String(), resp.AdminUserID)

	assert.Contains(t, seededRoles, rbac.RoleAdmin)
	assert.Contains(t, seededRoles, rbac.RoleTeacher)
	assert.Len(t, seededRoles, 7)
	assert.Equal(t, adminRoleID, assignedRoleID)
	assert.Equal(t, adminRoleID, grantedRoleID)

	// Password never stored in clear.
	assert.NotEqual(t, "password123", adminCreated.Password)

	assert.Equal(t, []string{resp.Branch.ID}, rbacSvc.loaded)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Register_DuplicateEmail(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	repo := &fakeRepo{}
	repo.getByEmailFn = func(ctx context.Context, email string) (*Branch, error) {
		return &Branch{ID: uuid.New(), Email: email}, nil
	}

	svc := NewService(db, repo, &fakeRBAC{})

	_, err := svc.Register(context.Background(), RegisterBranchRequest{
		Name:             "Greenfield Public School",
		Email:            "office@greenfield.test",
		AdminName:        "Priya Sharma",
		AdminEmail:       "principal@greenfield.test",
		AdminPassword:    "password123",
		SessionName:      "2026-27",
		SessionStartDate: "2026-04-01",
	})
	assert.ErrorIs(t, err, brancherrors.ErrEmailAlreadyRegistered)
}

func TestService_Register_BadSessionStart(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	svc := NewService(db, &fakeRepo{}, &fakeRBAC{})

	_, err := svc.Register(context.Background(), RegisterBranchRequest{
		Name:             "Greenfield Public School",
		Email:            "office@greenfield.test",
		AdminPassword:    "password123",
		SessionName:      "2026-27",
		SessionStartDate: "April 1st",
	})
	assert.ErrorIs(t, err, brancherrors.ErrInvalidSessionStart)
}

func TestService_Update_Partial(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	branchID := uuid.New()
	existing := Branch{
		ID:       branchID,
		Name:     "Greenfield Public School",
		Email:    "office@greenfield.test",
		Phone:    "040-1234567",
		IsActive: true,
	}

	repo := &fakeRepo{}
	repo.getByIDFn = func(ctx context.Context, id uuid.UUID) (*Branch, error) {
		b := existing
		return &b, nil
	}
	repo.updateFn = func(ctx context.Context, b *Branch) error { return nil }

	svc := NewService(db, repo, &fakeRBAC{})

	resp, err := svc.Update(context.Background(), branchID.String(), UpdateBranchRequest{
		Phone: "040-7654321",
	})
	assert.NoError(t, err)
	assert.Equal(t, "040-7654321", resp.Phone)
	// Untouched fields survive a partial update.
	assert.Equal(t, "Greenfield Public School", resp.Name)
	assert.True(t, resp.IsActive)
}

func TestService_GetByID_NotFound(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	repo := &fakeRepo{}
	repo.getByIDFn = func(ctx context.Context, id uuid.UUID) (*Branch, error) {
		return nil, gorm.ErrRecordNotFound
	}

	svc := NewService(db, repo, &fakeRBAC{})

	_, err := svc.GetByID(context.Background(), uuid.New().String())
	assert.ErrorIs(t, err, brancherrors.ErrBranchNotFound)
}
