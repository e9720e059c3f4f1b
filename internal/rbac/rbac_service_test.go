package rbac

import (
	"testing"

	"verticx/internal/domain"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	"github.com/stretchr/testify/assert"
)

// =========================================
// Mock Repository
// =========================================

type mockRepo struct{}

func (m *mockRepo) GetUserRoles(branchID string) ([]UserRoleRow, error) {
	return []UserRoleRow{
		{
			UserID: "user-1",
			RoleID: "role-registrar",
		},
	}, nil
}

func (m *mockRepo) GetRolePermissions(branchID string) ([]RolePermissionRow, error) {
	return []RolePermissionRow{
		{
			RoleID:   "role-registrar",
			Resource: "students",
			Action:   "read",
		},
	}, nil
}

func (m *mockRepo) ListRoles(branchID string) ([]RoleRow, error)     { return nil, nil }
func (m *mockRepo) GetRoleByID(id string) (*RoleRow, error)          { return nil, nil }
func (m *mockRepo) GetRoleByName(b, n string) (*RoleRow, error)      { return nil, nil }
func (m *mockRepo) CreateRole(role *RoleRow) error                   { return nil }
func (m *mockRepo) UpdateRole(role *RoleRow) error                   { return nil }
func (m *mockRepo) DeleteRole(id string) error                       { return nil }
func (m *mockRepo) ListPermissions() ([]PermissionRow, error)        { return nil, nil }
func (m *mockRepo) GetPermissionsByRoleID(r string) ([]PermissionRow, error) {
	return nil, nil
}
func (m *mockRepo) UpdateRolePermissions(roleID string, permIDs []string) error { return nil }

// =========================================
// Helper: Test Enforcer
// =========================================

func newTestEnforcer(t *testing.T) *casbin.Enforcer {
	modelText := `[request_definition]
r = sub, dom, obj, act

[policy_definition]
p = sub, dom, obj, act

[role_definition]
g = _, _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub, r.dom) && r.dom == p.dom && r.obj == p.obj && r.act == p.act
`

	m, err := model.NewModelFromString(modelText)
	assert.NoError(t, err)

	e, err := casbin.NewEnforcer(m)
	assert.NoError(t, err)

	return e
}

// =========================================
// TEST: Load + Enforce
// =========================================

func TestRBACService_Enforce(t *testing.T) {
	repo := &mockRepo{}
	enforcer := newTestEnforcer(t)

	service := NewService(repo, enforcer)

	err := service.LoadBranchPolicy("branch-1")
	assert.NoError(t, err)

	// Should allow
	allowed, err := service.Enforce(domain.EnforceRequest{
		UserID:   "user-1",
		BranchID: "branch-1",
		Resource: "students",
		Action:   "read",
	})

	assert.NoError(t, err)
	assert.True(t, allowed)

	// Should deny
	denied, err := service.Enforce(domain.EnforceRequest{
		UserID:   "user-1",
		BranchID: "branch-1",
		Resource: "payroll",
		Action:   "delete",
	})

	assert.NoError(t, err)
	assert.False(t, denied)
}
