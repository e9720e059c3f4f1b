package class

import (
	"context"
	"database/sql"
	"testing"

	classerrors "verticx/internal/class/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeRepo struct {
	withTxFn           func(tx *sql.Tx) Repository
	createFn           func(ctx context.Context, cls *Class) error
	findAllFn          func(ctx context.Context, branchID string) ([]Class, error)
	findByIDFn         func(ctx context.Context, branchID, id string) (*Class, error)
	updateFn           func(ctx context.Context, cls *Class) error
	deleteFn           func(ctx context.Context, branchID, id string) error
	feeTemplateExistsFn func(ctx context.Context, branchID, templateID string) (bool, error)
}

func (f *fakeRepo) WithTx(tx *sql.Tx) Repository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}
func (f *fakeRepo) Create(ctx context.Context, cls *Class) error { return f.createFn(ctx, cls) }
func (f *fakeRepo) FindAllByBranch(ctx context.Context, branchID string) ([]Class, error) {
	return f.findAllFn(ctx, branchID)
}
func (f *fakeRepo) FindByIDAndBranch(ctx context.Context, branchID, id string) (*Class, error) {
	return f.findByIDFn(ctx, branchID, id)
}
func (f *fakeRepo) Update(ctx context.Context, cls *Class) error { return f.updateFn(ctx, cls) }
func (f *fakeRepo) Delete(ctx context.Context, branchID, id string) error {
	return f.deleteFn(ctx, branchID, id)
}
func (f *fakeRepo) FeeTemplateExists(ctx context.Context, branchID, templateID string) (bool, error) {
	return f.feeTemplateExistsFn(ctx, branchID, templateID)
}

func TestService_Create(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	branchID := uuid.New().String()
	templateID := uuid.New().String()

	var saved *Class
	repo := &fakeRepo{}
	repo.feeTemplateExistsFn = func(ctx context.Context, branch, template string) (bool, error) {
		return true, nil
	}
	repo.createFn = func(ctx context.Context, cls *Class) error {
		saved = cls
		return nil
	}

	svc := NewService(db, repo)

	mock.ExpectBegin()
	mock.ExpectCommit()
	resp, err := svc.Create(context.Background(), branchID, CreateClassRequest{
		Name:          "Class 5",
		Section:       "A",
		GradeLevel:    5,
		FeeTemplateID: templateID,
	})
	assert.NoError(t, err)
	assert.Equal(t, "Class 5", resp.Name)
	assert.Equal(t, templateID, resp.FeeTemplateID)
	if assert.NotNil(t, saved) {
		assert.NotNil(t, saved.FeeTemplateID)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Create_UnknownTemplate(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	repo := &fakeRepo{}
	repo.feeTemplateExistsFn = func(ctx context.Context, branch, template string) (bool, error) {
		return false, nil
	}

	svc := NewService(db, repo)

	_, err := svc.Create(context.Background(), uuid.New().String(), CreateClassRequest{
		Name:          "Class 5",
		GradeLevel:    5,
		FeeTemplateID: uuid.New().String(),
	})
	assert.ErrorIs(t, err, classerrors.ErrFeeTemplateNotFound)
}

func TestService_Update_RelinksTemplate(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	branchID := uuid.New()
	classID := uuid.New()
	newTemplateID := uuid.New().String()

	existing := Class{
		ID:         classID,
		BranchID:   branchID,
		Name:       "Class 5",
		Section:    "A",
		GradeLevel: 5,
	}

	repo := &fakeRepo{}
	repo.feeTemplateExistsFn = func(ctx context.Context, branch, template string) (bool, error) {
		return true, nil
	}
	repo.findByIDFn = func(ctx context.Context, branch, id string) (*Class, error) {
		cls := existing
		return &cls, nil
	}
	repo.updateFn = func(ctx context.Context, cls *Class) error { return nil }

	svc := NewService(db, repo)

	mock.ExpectBegin()
	mock.ExpectCommit()
	resp, err := svc.Update(context.Background(), branchID.String(), classID.String(), UpdateClassRequest{
		Name:          "Class 6",
		Section:       "A",
		GradeLevel:    6,
		FeeTemplateID: newTemplateID,
	})
	assert.NoError(t, err)
	assert.Equal(t, newTemplateID, resp.FeeTemplateID)
	assert.Equal(t, 6, resp.GradeLevel)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_GetByID_NotFound(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	repo := &fakeRepo{}
	repo.findByIDFn = func(ctx context.Context, branch, id string) (*Class, error) {
		return nil, gorm.ErrRecordNotFound
	}

	svc := NewService(db, repo)

	_, err := svc.GetByID(context.Background(), uuid.New().String(), uuid.New().String())
	assert.ErrorIs(t, err, classerrors.ErrClassNotFound)
}
