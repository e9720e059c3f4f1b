package leave

import (
	"context"
	"database/sql"
	"testing"
	"time"

	leaveerrors "verticx/internal/leave/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeRepo struct {
	withTxFn            func(tx *sql.Tx) Repository
	createFn            func(ctx context.Context, request *LeaveRequest) error
	findAllFn           func(ctx context.Context, branchID string) ([]LeaveRequest, error)
	findByIDFn          func(ctx context.Context, branchID, id string) (*LeaveRequest, error)
	updateFn            func(ctx context.Context, request *LeaveRequest) error
	deleteFn            func(ctx context.Context, branchID, id string) error
	staffBelongsFn      func(ctx context.Context, branchID, staffID string) (bool, error)
	hasOverlapFn        func(ctx context.Context, branchID, staffID string, startDate, endDate time.Time, excludeID *string) (bool, error)
}

func (f *fakeRepo) WithTx(tx *sql.Tx) Repository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}
func (f *fakeRepo) Create(ctx context.Context, request *LeaveRequest) error {
	return f.createFn(ctx, request)
}
func (f *fakeRepo) FindAllByBranch(ctx context.Context, branchID string) ([]LeaveRequest, error) {
	return f.findAllFn(ctx, branchID)
}
func (f *fakeRepo) FindByIDAndBranch(ctx context.Context, branchID, id string) (*LeaveRequest, error) {
	return f.findByIDFn(ctx, branchID, id)
}
func (f *fakeRepo) Update(ctx context.Context, request *LeaveRequest) error {
	return f.updateFn(ctx, request)
}
func (f *fakeRepo) Delete(ctx context.Context, branchID, id string) error {
	return f.deleteFn(ctx, branchID, id)
}
func (f *fakeRepo) StaffBelongsToBranch(ctx context.Context, branchID, staffID string) (bool, error) {
	return f.staffBelongsFn(ctx, branchID, staffID)
}
func (f *fakeRepo) HasOverlappingPeriod(ctx context.Context, branchID, staffID string, startDate, endDate time.Time, excludeID *string) (bool, error) {
	return f.hasOverlapFn(ctx, branchID, staffID, startDate, endDate, excludeID)
}

func TestService_Apply(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	branchID := uuid.New().String()
	actorID := uuid.New().String()
	staffID := uuid.New().String()
	ctx := context.Background()

	var saved *LeaveRequest
	repo := &fakeRepo{}
	repo.staffBelongsFn = func(ctx context.Context, branch, staff string) (bool, error) { return true, nil }
	repo.hasOverlapFn = func(ctx context.Context, branch, staff string, start, end time.Time, exclude *string) (bool, error) {
		return false, nil
	}
	repo.createFn = func(ctx context.Context, request *LeaveRequest) error {
		saved = request
		return nil
	}

	svc := NewService(db, repo)

	mock.ExpectBegin()
	mock.ExpectCommit()
	resp, err := svc.Apply(ctx, branchID, actorID, CreateLeaveRequest{
		StaffID:   staffID,
		LeaveType: "CASUAL",
		StartDate: "2026-04-06",
		EndDate:   "2026-04-07",
		Reason:    "family function",
	})
	assert.NoError(t, err)
	assert.Equal(t, StatusPending, resp.Status)
	assert.Equal(t, "2", resp.TotalDays)
	if assert.NotNil(t, saved) {
		assert.Equal(t, StatusPending, saved.Status)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Apply_Overlap(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	repo := &fakeRepo{}
	repo.staffBelongsFn = func(ctx context.Context, branch, staff string) (bool, error) { return true, nil }
	repo.hasOverlapFn = func(ctx context.Context, branch, staff string, start, end time.Time, exclude *string) (bool, error) {
		return true, nil
	}
	repo.createFn = func(ctx context.Context, request *LeaveRequest) error {
		t.Fatal("overlapping request persisted")
		return nil
	}

	svc := NewService(db, repo)

	mock.ExpectBegin()
	mock.ExpectRollback()
	_, err := svc.Apply(context.Background(), uuid.New().String(), uuid.New().String(), CreateLeaveRequest{
		StaffID:   uuid.New().String(),
		LeaveType: "SICK",
		StartDate: "2026-04-06",
		EndDate:   "2026-04-07",
	})
	assert.ErrorIs(t, err, leaveerrors.ErrLeaveOverlap)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Apply_InvalidDateRange(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	svc := NewService(db, &fakeRepo{})

	_, err := svc.Apply(context.Background(), uuid.New().String(), uuid.New().String(), CreateLeaveRequest{
		StaffID:   uuid.New().String(),
		LeaveType: "CASUAL",
		StartDate: "2026-04-10",
		EndDate:   "2026-04-06",
	})
	assert.ErrorIs(t, err, leaveerrors.ErrInvalidDateRange)
}

func TestService_Approve(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	branchID := uuid.New()
	actorID := uuid.New()
	leaveID := uuid.New()
	ctx := context.Background()

	pending := LeaveRequest{
		ID:        leaveID,
		BranchID:  branchID,
		StaffID:   uuid.New(),
		LeaveType: "CASUAL",
		StartDate: time.Date(2026, 4, 6, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 4, 7, 0, 0, 0, 0, time.UTC),
		Status:    StatusPending,
		CreatedBy: actorID,
	}

	var updated *LeaveRequest
	repo := &fakeRepo{}
	repo.findByIDFn = func(ctx context.Context, branch, id string) (*LeaveRequest, error) {
		request := pending
		return &request, nil
	}
	repo.updateFn = func(ctx context.Context, request *LeaveRequest) error {
		updated = request
		return nil
	}

	svc := NewService(db, repo)

	mock.ExpectBegin()
	mock.ExpectCommit()
	resp, err := svc.Approve(ctx, branchID.String(), actorID.String(), leaveID.String())
	assert.NoError(t, err)
	assert.Equal(t, StatusApproved, resp.Status)
	assert.NotNil(t, resp.ReviewedBy)
	if assert.NotNil(t, updated) {
		assert.Equal(t, StatusApproved, updated.Status)
		assert.NotNil(t, updated.ReviewedAt)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Approve_AlreadyReviewed(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	repo := &fakeRepo{}
	repo.findByIDFn = func(ctx context.Context, branch, id string) (*LeaveRequest, error) {
		return &LeaveRequest{ID: uuid.New(), Status: StatusApproved}, nil
	}
	repo.updateFn = func(ctx context.Context, request *LeaveRequest) error {
		t.Fatal("reviewed request mutated")
		return nil
	}

	svc := NewService(db, repo)

	mock.ExpectBegin()
	mock.ExpectRollback()
	_, err := svc.Approve(context.Background(), uuid.New().String(), uuid.New().String(), uuid.New().String())
	assert.ErrorIs(t, err, leaveerrors.ErrAlreadyReviewed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Reject_RequiresReason(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	svc := NewService(db, &fakeRepo{})

	_, err := svc.Reject(context.Background(), uuid.New().String(), uuid.New().String(), uuid.New().String(), "")
	assert.ErrorIs(t, err, leaveerrors.ErrRejectionReasonRequired)
}

func TestService_Cancel_OnlyPending(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	repo := &fakeRepo{}
	repo.findByIDFn = func(ctx context.Context, branch, id string) (*LeaveRequest, error) {
		return &LeaveRequest{ID: uuid.New(), Status: StatusRejected}, nil
	}

	svc := NewService(db, repo)

	err := svc.Cancel(context.Background(), uuid.New().String(), uuid.New().String())
	assert.ErrorIs(t, err, leaveerrors.ErrAlreadyReviewed)
}

func TestTotalDays_HalfDay(t *testing.T) {
	request := LeaveRequest{
		StartDate: time.Date(2026, 4, 6, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 4, 7, 0, 0, 0, 0, time.UTC),
		IsHalfDay: true,
	}
	assert.Equal(t, "1", totalDays(request).String())
}
