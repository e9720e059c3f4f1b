package payroll

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	payrollerrors "verticx/internal/payroll/errors"
)

type fakeRepo struct {
	withTxFn           func(tx *sql.Tx) Repository
	findActiveStaffFn  func(ctx context.Context, branchID string) ([]StaffRow, error)
	findStaffFn        func(ctx context.Context, branchID, staffID string) (*StaffRow, error)
	currentSalariesFn  func(ctx context.Context, branchID string) (map[uuid.UUID]*int64, error)
	approvedLeavesFn   func(ctx context.Context, branchID string, monthStart, monthEnd time.Time) (map[uuid.UUID][]LeavePeriod, error)
	adjustmentsFn      func(ctx context.Context, branchID, month string) (map[uuid.UUID][]int64, error)
	findByIDFn         func(ctx context.Context, branchID, id string) (*PayrollRecord, error)
	findByStaffMonthFn func(ctx context.Context, branchID, staffID, month string) (*PayrollRecord, error)
	findByMonthFn      func(ctx context.Context, branchID, month string) ([]PayrollRecord, error)
	upsertRecordFn     func(ctx context.Context, record *PayrollRecord) error
	markMonthPaidFn    func(ctx context.Context, branchID, month, actorID string, at time.Time) (int64, error)
	createAdjustmentFn func(ctx context.Context, adjustment *ManualSalaryAdjustment) error
}

func (f *fakeRepo) WithTx(tx *sql.Tx) Repository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}
func (f *fakeRepo) FindActiveStaff(ctx context.Context, branchID string) ([]StaffRow, error) {
	return f.findActiveStaffFn(ctx, branchID)
}
func (f *fakeRepo) FindStaff(ctx context.Context, branchID, staffID string) (*StaffRow, error) {
	return f.findStaffFn(ctx, branchID, staffID)
}
func (f *fakeRepo) CurrentSalaries(ctx context.Context, branchID string) (map[uuid.UUID]*int64, error) {
	return f.currentSalariesFn(ctx, branchID)
}
func (f *fakeRepo) ApprovedLeaves(ctx context.Context, branchID string, monthStart, monthEnd time.Time) (map[uuid.UUID][]LeavePeriod, error) {
	return f.approvedLeavesFn(ctx, branchID, monthStart, monthEnd)
}
func (f *fakeRepo) AdjustmentAmounts(ctx context.Context, branchID, month string) (map[uuid.UUID][]int64, error) {
	return f.adjustmentsFn(ctx, branchID, month)
}
func (f *fakeRepo) FindByID(ctx context.Context, branchID, id string) (*PayrollRecord, error) {
	return f.findByIDFn(ctx, branchID, id)
}
func (f *fakeRepo) FindByStaffMonth(ctx context.Context, branchID, staffID, month string) (*PayrollRecord, error) {
	return f.findByStaffMonthFn(ctx, branchID, staffID, month)
}
func (f *fakeRepo) FindByMonth(ctx context.Context, branchID, month string) ([]PayrollRecord, error) {
	return f.findByMonthFn(ctx, branchID, month)
}
func (f *fakeRepo) UpsertRecord(ctx context.Context, record *PayrollRecord) error {
	return f.upsertRecordFn(ctx, record)
}
func (f *fakeRepo) MarkMonthPaid(ctx context.Context, branchID, month, actorID string, at time.Time) (int64, error) {
	return f.markMonthPaidFn(ctx, branchID, month, actorID, at)
}
func (f *fakeRepo) CreateAdjustment(ctx context.Context, adjustment *ManualSalaryAdjustment) error {
	return f.createAdjustmentFn(ctx, adjustment)
}

func TestService_GenerateForMonth(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	branchID := uuid.New()
	staffA := uuid.New()
	staffB := uuid.New()
	ctx := context.Background()

	saved := map[uuid.UUID]PayrollRecord{}
	repo := &fakeRepo{}
	repo.findActiveStaffFn = func(ctx context.Context, id string) ([]StaffRow, error) {
		return []StaffRow{
			{ID: staffA, BranchID: branchID, FirstName: "Asha", LastName: "Verma", Active: true},
			{ID: staffB, BranchID: branchID, FirstName: "Rohit", LastName: "Nair", Active: true},
		}, nil
	}
	repo.currentSalariesFn = func(ctx context.Context, id string) (map[uuid.UUID]*int64, error) {
		return map[uuid.UUID]*int64{staffA: int64Ptr(30000), staffB: nil}, nil
	}
	repo.approvedLeavesFn = func(ctx context.Context, id string, start, end time.Time) (map[uuid.UUID][]LeavePeriod, error) {
		return map[uuid.UUID][]LeavePeriod{
			staffA: {{StartDate: day(2026, 4, 6), EndDate: day(2026, 4, 7)}},
		}, nil
	}
	repo.adjustmentsFn = func(ctx context.Context, id, month string) (map[uuid.UUID][]int64, error) {
		return nil, nil
	}
	repo.findByMonthFn = func(ctx context.Context, id, month string) ([]PayrollRecord, error) {
		return nil, nil
	}
	repo.upsertRecordFn = func(ctx context.Context, record *PayrollRecord) error {
		saved[record.StaffID] = *record
		return nil
	}

	svc := NewService(db, repo)

	mock.ExpectBegin()
	mock.ExpectCommit()
	resp, err := svc.GenerateForMonth(ctx, branchID.String(), GenerateRequest{Year: 2026, Month: 4})
	assert.NoError(t, err)
	assert.Equal(t, "2026-04", resp.Month)
	assert.Len(t, resp.Records, 2)

	withSalary := saved[staffA]
	assert.Equal(t, StatusPending, withSalary.Status)
	assert.Equal(t, int64(2000), withSalary.LeaveDeductions)
	if assert.NotNil(t, withSalary.NetPayable) {
		assert.Equal(t, int64(28000), *withSalary.NetPayable)
	}

	withoutSalary := saved[staffB]
	assert.Equal(t, StatusSalaryNotSet, withoutSalary.Status)
	assert.Nil(t, withoutSalary.NetPayable)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_GenerateForMonth_PaidRecordsUntouched(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	branchID := uuid.New()
	staffID := uuid.New()
	ctx := context.Background()

	net := int64(28000)
	frozen := PayrollRecord{
		ID:         uuid.New(),
		StaffID:    staffID,
		BranchID:   branchID,
		Month:      "2026-04",
		BaseSalary: int64Ptr(30000),
		NetPayable: &net,
		Status:     StatusPaid,
	}

	repo := &fakeRepo{}
	repo.findActiveStaffFn = func(ctx context.Context, id string) ([]StaffRow, error) {
		return []StaffRow{{ID: staffID, BranchID: branchID, FirstName: "Asha", Active: true}}, nil
	}
	repo.currentSalariesFn = func(ctx context.Context, id string) (map[uuid.UUID]*int64, error) {
		// The salary changed since the month was paid; it must not matter.
		return map[uuid.UUID]*int64{staffID: int64Ptr(99000)}, nil
	}
	repo.approvedLeavesFn = func(ctx context.Context, id string, start, end time.Time) (map[uuid.UUID][]LeavePeriod, error) {
		return nil, nil
	}
	repo.adjustmentsFn = func(ctx context.Context, id, month string) (map[uuid.UUID][]int64, error) {
		return nil, nil
	}
	repo.findByMonthFn = func(ctx context.Context, id, month string) ([]PayrollRecord, error) {
		return []PayrollRecord{frozen}, nil
	}
	repo.upsertRecordFn = func(ctx context.Context, record *PayrollRecord) error {
		t.Fatalf("paid record was rewritten: %s", record.ID)
		return nil
	}

	svc := NewService(db, repo)

	mock.ExpectBegin()
	mock.ExpectCommit()
	resp, err := svc.GenerateForMonth(ctx, branchID.String(), GenerateRequest{Year: 2026, Month: 4})
	assert.NoError(t, err)
	assert.Len(t, resp.Records, 1)
	assert.Equal(t, StatusPaid, resp.Records[0].Status)
	if assert.NotNil(t, resp.Records[0].NetPayable) {
		assert.Equal(t, int64(28000), *resp.Records[0].NetPayable)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_ProcessPayroll(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	branchID := uuid.New().String()
	actorID := uuid.New().String()
	ctx := context.Background()

	repo := &fakeRepo{}
	repo.findByMonthFn = func(ctx context.Context, id, month string) ([]PayrollRecord, error) {
		return []PayrollRecord{
			{Status: StatusPending},
			{Status: StatusPending},
			{Status: StatusPaid},
			{Status: StatusSalaryNotSet},
		}, nil
	}
	repo.markMonthPaidFn = func(ctx context.Context, id, month, actor string, at time.Time) (int64, error) {
		return 2, nil
	}

	svc := NewService(db, repo)

	mock.ExpectBegin()
	mock.ExpectCommit()
	resp, err := svc.ProcessPayroll(ctx, branchID, actorID, ProcessRequest{Year: 2026, Month: 4})
	assert.NoError(t, err)
	assert.Equal(t, int64(2), resp.Processed)
	assert.Equal(t, int64(1), resp.AlreadyPaid)
	assert.Equal(t, int64(1), resp.Skipped)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_ProcessPayroll_NothingToProcess(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	repo := &fakeRepo{}
	repo.findByMonthFn = func(ctx context.Context, id, month string) ([]PayrollRecord, error) {
		return nil, nil
	}

	svc := NewService(db, repo)

	_, err := svc.ProcessPayroll(context.Background(), uuid.New().String(), uuid.New().String(), ProcessRequest{Year: 2026, Month: 4})
	assert.ErrorIs(t, err, payrollerrors.ErrNothingToProcess)
}

func TestService_AddManualAdjustment_FrozenMonth(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	branchID := uuid.New()
	staffID := uuid.New()

	repo := &fakeRepo{}
	repo.findStaffFn = func(ctx context.Context, id, staff string) (*StaffRow, error) {
		return &StaffRow{ID: staffID, BranchID: branchID, Active: true}, nil
	}
	repo.findByStaffMonthFn = func(ctx context.Context, id, staff, month string) (*PayrollRecord, error) {
		return &PayrollRecord{StaffID: staffID, Month: month, Status: StatusPaid}, nil
	}
	repo.createAdjustmentFn = func(ctx context.Context, adjustment *ManualSalaryAdjustment) error {
		t.Fatal("adjustment written against a paid month")
		return nil
	}

	svc := NewService(db, repo)

	_, err := svc.AddManualAdjustment(context.Background(), branchID.String(), uuid.New().String(), AddAdjustmentRequest{
		StaffID: staffID.String(),
		Year:    2026,
		Month:   4,
		Amount:  5000,
		Reason:  "festival bonus",
	})
	assert.ErrorIs(t, err, payrollerrors.ErrPayrollFrozen)
}

func TestService_AddManualAdjustment_ResettlesPendingRecord(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	branchID := uuid.New()
	staffID := uuid.New()
	ctx := context.Background()

	net := int64(30000)
	pending := PayrollRecord{
		ID:         uuid.New(),
		StaffID:    staffID,
		BranchID:   branchID,
		Month:      "2026-04",
		BaseSalary: int64Ptr(30000),
		NetPayable: &net,
		Status:     StatusPending,
	}

	var savedAdjustment *ManualSalaryAdjustment
	var resettled *PayrollRecord
	repo := &fakeRepo{}
	repo.findStaffFn = func(ctx context.Context, id, staff string) (*StaffRow, error) {
		return &StaffRow{ID: staffID, BranchID: branchID, Active: true}, nil
	}
	repo.findByStaffMonthFn = func(ctx context.Context, id, staff, month string) (*PayrollRecord, error) {
		record := pending
		return &record, nil
	}
	repo.approvedLeavesFn = func(ctx context.Context, id string, start, end time.Time) (map[uuid.UUID][]LeavePeriod, error) {
		return nil, nil
	}
	repo.adjustmentsFn = func(ctx context.Context, id, month string) (map[uuid.UUID][]int64, error) {
		// Committed rows only. The adjustment being recorded is still
		// uncommitted inside the service transaction.
		return map[uuid.UUID][]int64{}, nil
	}
	repo.createAdjustmentFn = func(ctx context.Context, adjustment *ManualSalaryAdjustment) error {
		savedAdjustment = adjustment
		return nil
	}
	repo.upsertRecordFn = func(ctx context.Context, record *PayrollRecord) error {
		resettled = record
		return nil
	}

	svc := NewService(db, repo)

	mock.ExpectBegin()
	mock.ExpectCommit()
	resp, err := svc.AddManualAdjustment(ctx, branchID.String(), uuid.New().String(), AddAdjustmentRequest{
		StaffID: staffID.String(),
		Year:    2026,
		Month:   4,
		Amount:  5000,
		Reason:  "festival bonus",
	})
	assert.NoError(t, err)
	assert.Equal(t, "2026-04", resp.Month)
	assert.Equal(t, int64(5000), resp.Amount)

	if assert.NotNil(t, savedAdjustment) {
		assert.Equal(t, staffID, savedAdjustment.StaffID)
	}
	if assert.NotNil(t, resettled) {
		assert.Equal(t, int64(5000), resettled.ManualAdjustmentsTotal)
		if assert.NotNil(t, resettled.NetPayable) {
			assert.Equal(t, int64(35000), *resettled.NetPayable)
		}
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_AddManualAdjustment_CombinesWithCommittedAdjustments(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	branchID := uuid.New()
	staffID := uuid.New()

	net := int64(32000)
	pending := PayrollRecord{
		ID:                     uuid.New(),
		StaffID:                staffID,
		BranchID:               branchID,
		Month:                  "2026-04",
		BaseSalary:             int64Ptr(30000),
		ManualAdjustmentsTotal: 2000,
		NetPayable:             &net,
		Status:                 StatusPending,
	}

	var resettled *PayrollRecord
	repo := &fakeRepo{}
	repo.findStaffFn = func(ctx context.Context, id, staff string) (*StaffRow, error) {
		return &StaffRow{ID: staffID, BranchID: branchID, Active: true}, nil
	}
	repo.findByStaffMonthFn = func(ctx context.Context, id, staff, month string) (*PayrollRecord, error) {
		record := pending
		return &record, nil
	}
	repo.approvedLeavesFn = func(ctx context.Context, id string, start, end time.Time) (map[uuid.UUID][]LeavePeriod, error) {
		return nil, nil
	}
	repo.adjustmentsFn = func(ctx context.Context, id, month string) (map[uuid.UUID][]int64, error) {
		return map[uuid.UUID][]int64{staffID: {2000}}, nil
	}
	repo.createAdjustmentFn = func(ctx context.Context, adjustment *ManualSalaryAdjustment) error {
		return nil
	}
	repo.upsertRecordFn = func(ctx context.Context, record *PayrollRecord) error {
		resettled = record
		return nil
	}

	svc := NewService(db, repo)

	mock.ExpectBegin()
	mock.ExpectCommit()
	_, err := svc.AddManualAdjustment(context.Background(), branchID.String(), uuid.New().String(), AddAdjustmentRequest{
		StaffID: staffID.String(),
		Year:    2026,
		Month:   4,
		Amount:  5000,
		Reason:  "arrears correction",
	})
	assert.NoError(t, err)

	if assert.NotNil(t, resettled) {
		assert.Equal(t, int64(7000), resettled.ManualAdjustmentsTotal)
		if assert.NotNil(t, resettled.NetPayable) {
			assert.Equal(t, int64(37000), *resettled.NetPayable)
		}
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_AddManualAdjustment_StaffNotInBranch(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	repo := &fakeRepo{}
	repo.findStaffFn = func(ctx context.Context, id, staff string) (*StaffRow, error) {
		return nil, gorm.ErrRecordNotFound
	}

	svc := NewService(db, repo)

	_, err := svc.AddManualAdjustment(context.Background(), uuid.New().String(), uuid.New().String(), AddAdjustmentRequest{
		StaffID: uuid.New().String(),
		Year:    2026,
		Month:   4,
		Amount:  -1000,
		Reason:  "late arrival",
	})
	assert.ErrorIs(t, err, payrollerrors.ErrStaffNotInBranch)
}
