package branch

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AdminUserRow and SessionRow are write-only views over tables owned by the
// auth and academics packages. Registration seeds them in the same
// transaction as the branch itself.
type AdminUserRow struct {
	ID       uuid.UUID
	BranchID uuid.UUID
	Name     string
	Email    string
	Password string
	Role     string
}

type SessionRow struct {
	ID        uuid.UUID
	BranchID  uuid.UUID
	Name      string
	StartDate time.Time
}

//go:generate mockgen -source=branch_repo.go -destination=mock/branch_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, b *Branch) error
	GetByID(ctx context.Context, id uuid.UUID) (*Branch, error)
	GetByEmail(ctx context.Context, email string) (*Branch, error)
	Update(ctx context.Context, b *Branch) error

	CreateAdminUser(ctx context.Context, user AdminUserRow) error
	CreateSession(ctx context.Context, session SessionRow) error
	SeedRoles(ctx context.Context, branchID uuid.UUID, roleNames []string) (map[string]uuid.UUID, error)
	AssignRole(ctx context.Context, userID, roleID uuid.UUID) error
	GrantAllPermissions(ctx context.Context, roleID uuid.UUID) error
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) Create(ctx context.Context, b *Branch) error {
	query := `
        INSERT INTO branches (id, name, email, phone, address, is_active, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, TRUE, now(), now())
    `
	_, err := r.execer().ExecContext(ctx, query, b.ID, b.Name, b.Email, b.Phone, b.Address)
	return err
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Branch, error) {
	var b Branch
	err := r.db.WithContext(ctx).First(&b, "id = ?", id).Error
	return &b, err
}

func (r *repository) GetByEmail(ctx context.Context, email string) (*Branch, error) {
	var b Branch
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&b).Error
	return &b, err
}

func (r *repository) Update(ctx context.Context, b *Branch) error {
	return r.db.WithContext(ctx).Save(b).Error
}

func (r *repository) CreateAdminUser(ctx context.Context, user AdminUserRow) error {
	query := `
        INSERT INTO users (id, branch_id, name, email, password, role, is_active, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, TRUE, now(), now())
    `
	_, err := r.execer().ExecContext(
		ctx, query,
		user.ID, user.BranchID, user.Name, user.Email, user.Password, user.Role,
	)
	return err
}

func (r *repository) CreateSession(ctx context.Context, session SessionRow) error {
	query := `
        INSERT INTO academic_sessions (id, branch_id, start_date, name, active, created_at, updated_at)
        VALUES ($1, $2, $3, $4, TRUE, now(), now())
    `
	_, err := r.execer().ExecContext(
		ctx, query,
		session.ID, session.BranchID, session.StartDate, session.Name,
	)
	return err
}

func (r *repository) SeedRoles(ctx context.Context, branchID uuid.UUID, roleNames []string) (map[string]uuid.UUID, error) {
	query := `
        INSERT INTO roles (id, branch_id, name, created_at, updated_at)
        VALUES ($1, $2, $3, now(), now())
    `
	ids := make(map[string]uuid.UUID, len(roleNames))
	for _, name := range roleNames {
		id := uuid.New()
		if _, err := r.execer().ExecContext(ctx, query, id, branchID, name); err != nil {
			return nil, err
		}
		ids[name] = id
	}
	return ids, nil
}

func (r *repository) AssignRole(ctx context.Context, userID, roleID uuid.UUID) error {
	query := `INSERT INTO user_roles (user_id, role_id) VALUES ($1, $2)`
	_, err := r.execer().ExecContext(ctx, query, userID, roleID)
	return err
}

func (r *repository) GrantAllPermissions(ctx context.Context, roleID uuid.UUID) error {
	query := `
        INSERT INTO role_permissions (role_id, permission_id)
        SELECT $1, id FROM permissions
    `
	_, err := r.execer().ExecContext(ctx, query, roleID)
	return err
}

func (r *repository) execer() interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
} {
	if r.tx != nil {
		return r.tx
	}
	return r.db.ConnPool
}
