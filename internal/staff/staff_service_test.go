package staff

import (
	"context"
	"database/sql"
	"testing"

	"verticx/internal/events"
	"verticx/internal/messaging/kafka"
	stafferrors "verticx/internal/staff/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeRepo struct {
	withTxFn      func(tx *sql.Tx) Repository
	createFn      func(ctx context.Context, member *Staff) error
	findAllFn     func(ctx context.Context, branchID string) ([]Staff, error)
	findOptionsFn func(ctx context.Context, branchID string) ([]Staff, error)
	findByIDFn    func(ctx context.Context, branchID, id string) (*Staff, error)
	updateFn      func(ctx context.Context, member *Staff) error
	deleteFn      func(ctx context.Context, branchID, id string) error
}

func (f *fakeRepo) WithTx(tx *sql.Tx) Repository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}
func (f *fakeRepo) Create(ctx context.Context, member *Staff) error { return f.createFn(ctx, member) }
func (f *fakeRepo) FindAllByBranch(ctx context.Context, branchID string) ([]Staff, error) {
	return f.findAllFn(ctx, branchID)
}
func (f *fakeRepo) FindOptionsByBranch(ctx context.Context, branchID string) ([]Staff, error) {
	return f.findOptionsFn(ctx, branchID)
}
func (f *fakeRepo) FindByIDAndBranch(ctx context.Context, branchID, id string) (*Staff, error) {
	return f.findByIDFn(ctx, branchID, id)
}
func (f *fakeRepo) Update(ctx context.Context, member *Staff) error { return f.updateFn(ctx, member) }
func (f *fakeRepo) Delete(ctx context.Context, branchID, id string) error {
	return f.deleteFn(ctx, branchID, id)
}

type fakeCounter struct {
	next int64
}

func (f *fakeCounter) GetNextValue(ctx context.Context, branchID, counterType string) (int64, error) {
	f.next++
	return f.next, nil
}

type fakeOutbox struct {
	events []kafka.OutboxEvent
}

func (f *fakeOutbox) WithTx(tx *sql.Tx) kafka.OutboxRepository { return f }
func (f *fakeOutbox) Create(ctx context.Context, event kafka.OutboxEvent) error {
	f.events = append(f.events, event)
	return nil
}
func (f *fakeOutbox) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return nil, nil
}
func (f *fakeOutbox) MarkSent(ctx context.Context, id string) error              { return nil }
func (f *fakeOutbox) MarkFailed(ctx context.Context, id string, reason string) error { return nil }

func TestService_Create_EmitsLifecycleEvent(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	branchID := uuid.New().String()
	ctx := context.Background()

	var saved *Staff
	repo := &fakeRepo{}
	repo.createFn = func(ctx context.Context, member *Staff) error {
		saved = member
		return nil
	}

	outbox := &fakeOutbox{}
	svc := NewServiceWithOutbox(db, repo, &fakeCounter{}, outbox, nil)

	mock.ExpectBegin()
	mock.ExpectCommit()
	resp, err := svc.Create(ctx, branchID, CreateStaffRequest{
		FirstName:   "Asha",
		LastName:    "Verma",
		Email:       "asha.verma@school.test",
		JoiningDate: "2026-04-01",
	})
	assert.NoError(t, err)
	assert.Equal(t, "STF-000001", resp.StaffNumber)
	assert.True(t, resp.Active)
	assert.NotNil(t, saved)

	if assert.Len(t, outbox.events, 1) {
		assert.Equal(t, events.StaffCreatedTopic, outbox.events[0].Topic)
		assert.Equal(t, "staff.created", outbox.events[0].EventType)
		assert.Equal(t, resp.ID, outbox.events[0].AggregateID)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Create_InvalidJoiningDate(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	svc := NewService(db, &fakeRepo{}, &fakeCounter{}, nil)

	_, err := svc.Create(context.Background(), uuid.New().String(), CreateStaffRequest{
		FirstName:   "Asha",
		Email:       "asha.verma@school.test",
		JoiningDate: "01/04/2026",
	})
	assert.ErrorIs(t, err, stafferrors.ErrInvalidJoiningDate)
}

func TestService_Update_TogglesActive(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	branchID := uuid.New()
	staffID := uuid.New()

	existing := Staff{
		ID:        staffID,
		BranchID:  branchID,
		FirstName: "Asha",
		LastName:  "Verma",
		Email:     "asha.verma@school.test",
		Active:    true,
	}

	repo := &fakeRepo{}
	repo.findByIDFn = func(ctx context.Context, branch, id string) (*Staff, error) {
		member := existing
		return &member, nil
	}
	repo.updateFn = func(ctx context.Context, member *Staff) error { return nil }

	svc := NewService(db, repo, &fakeCounter{}, nil)

	inactive := false
	mock.ExpectBegin()
	mock.ExpectCommit()
	resp, err := svc.Update(context.Background(), branchID.String(), staffID.String(), UpdateStaffRequest{
		FirstName:   "Asha",
		LastName:    "Verma",
		Email:       "asha.verma@school.test",
		JoiningDate: "2026-04-01",
		Active:      &inactive,
	})
	assert.NoError(t, err)
	assert.False(t, resp.Active)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_GetByID_NotFound(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	repo := &fakeRepo{}
	repo.findByIDFn = func(ctx context.Context, branch, id string) (*Staff, error) {
		return nil, gorm.ErrRecordNotFound
	}

	svc := NewService(db, repo, &fakeCounter{}, nil)

	_, err := svc.GetByID(context.Background(), uuid.New().String(), uuid.New().String())
	assert.ErrorIs(t, err, stafferrors.ErrStaffNotFound)
}
