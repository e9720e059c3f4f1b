package fees

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"verticx/internal/events"
	feeserrors "verticx/internal/fees/errors"
	"verticx/internal/messaging/kafka"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeRepo struct {
	withTxFn             func(tx *sql.Tx) Repository
	createTemplateFn     func(ctx context.Context, template *FeeTemplate) error
	findTemplateByIDFn   func(ctx context.Context, branchID, id string) (*FeeTemplate, error)
	findTemplatesFn      func(ctx context.Context, branchID string) ([]FeeTemplate, error)
	templateExistsFn     func(ctx context.Context, branchID string, gradeLevel int) (bool, error)
	findStudentFn        func(ctx context.Context, branchID, studentID string) (*StudentRow, error)
	findClassFn          func(ctx context.Context, branchID, classID string) (*ClassRow, error)
	findActiveSessionFn  func(ctx context.Context, branchID string) (*SessionRow, error)
	findRecordFn         func(ctx context.Context, studentID, sessionID string) (*FeeRecord, error)
	lockRecordFn         func(ctx context.Context, recordID string) (*FeeRecord, error)
	createPaymentFn      func(ctx context.Context, payment *FeePayment) error
	addToPaidAmountFn    func(ctx context.Context, recordID string, amount int64) error
	createAdjustmentFn   func(ctx context.Context, adjustment *FeeAdjustment) error
	setTotalAmountFn     func(ctx context.Context, recordID string, total int64) error
	listPaymentsFn       func(ctx context.Context, recordID string) ([]FeePayment, error)
	listAdjustmentsFn    func(ctx context.Context, recordID string) ([]FeeAdjustment, error)
	branchOverviewFn     func(ctx context.Context, branchID, sessionID string) (int64, int64, int64, int64, error)
}

func (f *fakeRepo) WithTx(tx *sql.Tx) Repository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}
func (f *fakeRepo) CreateTemplate(ctx context.Context, template *FeeTemplate) error {
	return f.createTemplateFn(ctx, template)
}
func (f *fakeRepo) FindTemplateByID(ctx context.Context, branchID, id string) (*FeeTemplate, error) {
	return f.findTemplateByIDFn(ctx, branchID, id)
}
func (f *fakeRepo) FindTemplatesByBranch(ctx context.Context, branchID string) ([]FeeTemplate, error) {
	return f.findTemplatesFn(ctx, branchID)
}
func (f *fakeRepo) TemplateExistsForGrade(ctx context.Context, branchID string, gradeLevel int) (bool, error) {
	return f.templateExistsFn(ctx, branchID, gradeLevel)
}
func (f *fakeRepo) FindStudent(ctx context.Context, branchID, studentID string) (*StudentRow, error) {
	return f.findStudentFn(ctx, branchID, studentID)
}
func (f *fakeRepo) FindClass(ctx context.Context, branchID, classID string) (*ClassRow, error) {
	return f.findClassFn(ctx, branchID, classID)
}
func (f *fakeRepo) FindActiveSession(ctx context.Context, branchID string) (*SessionRow, error) {
	return f.findActiveSessionFn(ctx, branchID)
}
func (f *fakeRepo) FindRecordByStudentSession(ctx context.Context, studentID, sessionID string) (*FeeRecord, error) {
	return f.findRecordFn(ctx, studentID, sessionID)
}
func (f *fakeRepo) LockRecord(ctx context.Context, recordID string) (*FeeRecord, error) {
	return f.lockRecordFn(ctx, recordID)
}
func (f *fakeRepo) CreatePayment(ctx context.Context, payment *FeePayment) error {
	return f.createPaymentFn(ctx, payment)
}
func (f *fakeRepo) AddToPaidAmount(ctx context.Context, recordID string, amount int64) error {
	return f.addToPaidAmountFn(ctx, recordID, amount)
}
func (f *fakeRepo) CreateAdjustment(ctx context.Context, adjustment *FeeAdjustment) error {
	return f.createAdjustmentFn(ctx, adjustment)
}
func (f *fakeRepo) SetTotalAmount(ctx context.Context, recordID string, total int64) error {
	return f.setTotalAmountFn(ctx, recordID, total)
}
func (f *fakeRepo) ListPayments(ctx context.Context, recordID string) ([]FeePayment, error) {
	return f.listPaymentsFn(ctx, recordID)
}
func (f *fakeRepo) ListAdjustments(ctx context.Context, recordID string) ([]FeeAdjustment, error) {
	return f.listAdjustmentsFn(ctx, recordID)
}
func (f *fakeRepo) BranchOverview(ctx context.Context, branchID, sessionID string) (int64, int64, int64, int64, error) {
	return f.branchOverviewFn(ctx, branchID, sessionID)
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

func TestService_RecordPayment(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	branchID := uuid.New()
	studentID := uuid.New()
	sessionID := uuid.New()
	recordID := uuid.New()
	ctx := context.Background()

	record := FeeRecord{
		ID:          recordID,
		StudentID:   studentID,
		BranchID:    branchID,
		SessionID:   sessionID,
		TotalAmount: 12000,
		PaidAmount:  1000,
	}

	var paymentSaved *FeePayment
	var paidDelta int64
	repo := &fakeRepo{}
	repo.findActiveSessionFn = func(ctx context.Context, id string) (*SessionRow, error) {
		return &SessionRow{ID: sessionID, BranchID: branchID, StartDate: time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), Active: true}, nil
	}
	repo.findStudentFn = func(ctx context.Context, id, student string) (*StudentRow, error) {
		return &StudentRow{ID: studentID, BranchID: branchID}, nil
	}
	repo.findRecordFn = func(ctx context.Context, student, session string) (*FeeRecord, error) {
		r := record
		return &r, nil
	}
	repo.lockRecordFn = func(ctx context.Context, id string) (*FeeRecord, error) {
		r := record
		return &r, nil
	}
	repo.createPaymentFn = func(ctx context.Context, payment *FeePayment) error {
		paymentSaved = payment
		return nil
	}
	repo.addToPaidAmountFn = func(ctx context.Context, id string, amount int64) error {
		paidDelta = amount
		return nil
	}

	outbox := &fakeOutbox{}
	svc := NewService(db, repo, &fakeCounter{}, outbox)

	mock.ExpectBegin()
	mock.ExpectCommit()
	resp, err := svc.RecordPayment(ctx, branchID.String(), uuid.New().String(), RecordPaymentRequest{
		StudentID:     studentID.String(),
		Amount:        1500,
		TransactionID: "TXN-1001",
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(1500), resp.Amount)
	assert.Contains(t, resp.ReceiptNumber, "RCP-")
	assert.Equal(t, int64(1500), paidDelta)

	if assert.NotNil(t, paymentSaved) {
		assert.Equal(t, recordID, paymentSaved.FeeRecordID)
	}
	if assert.Len(t, outbox.events, 1) {
		assert.Equal(t, events.FeePaymentRecordedTopic, outbox.events[0].Topic)
		assert.Equal(t, "fees.payment.recorded", outbox.events[0].EventType)
		assert.Equal(t, recordID.String(), outbox.events[0].AggregateID)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_RecordPayment_Overpayment(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	branchID := uuid.New()
	studentID := uuid.New()
	sessionID := uuid.New()
	ctx := context.Background()

	record := FeeRecord{
		ID:          uuid.New(),
		StudentID:   studentID,
		BranchID:    branchID,
		SessionID:   sessionID,
		TotalAmount: 12000,
		PaidAmount:  11500,
	}

	repo := &fakeRepo{}
	repo.findActiveSessionFn = func(ctx context.Context, id string) (*SessionRow, error) {
		return &SessionRow{ID: sessionID, BranchID: branchID, Active: true}, nil
	}
	repo.findStudentFn = func(ctx context.Context, id, student string) (*StudentRow, error) {
		return &StudentRow{ID: studentID, BranchID: branchID}, nil
	}
	repo.findRecordFn = func(ctx context.Context, student, session string) (*FeeRecord, error) {
		r := record
		return &r, nil
	}
	repo.lockRecordFn = func(ctx context.Context, id string) (*FeeRecord, error) {
		r := record
		return &r, nil
	}
	repo.createPaymentFn = func(ctx context.Context, payment *FeePayment) error {
		t.Fatal("payment persisted past the overpayment check")
		return nil
	}

	outbox := &fakeOutbox{}
	svc := NewService(db, repo, &fakeCounter{}, outbox)

	mock.ExpectBegin()
	mock.ExpectRollback()
	_, err := svc.RecordPayment(ctx, branchID.String(), uuid.New().String(), RecordPaymentRequest{
		StudentID: studentID.String(),
		Amount:    1000,
	})
	assert.ErrorIs(t, err, feeserrors.ErrOverpayment)
	assert.Empty(t, outbox.events)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_GetStudentFees_MonthlySettlement(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	branchID := uuid.New()
	studentID := uuid.New()
	classID := uuid.New()
	sessionID := uuid.New()
	templateID := uuid.New()
	ctx := context.Background()

	start := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)

	repo := &fakeRepo{}
	repo.findActiveSessionFn = func(ctx context.Context, id string) (*SessionRow, error) {
		return &SessionRow{ID: sessionID, BranchID: branchID, StartDate: start, Active: true}, nil
	}
	repo.findStudentFn = func(ctx context.Context, id, student string) (*StudentRow, error) {
		return &StudentRow{ID: studentID, BranchID: branchID, ClassID: &classID, GradeLevel: 5}, nil
	}
	repo.findClassFn = func(ctx context.Context, id, class string) (*ClassRow, error) {
		return &ClassRow{ID: classID, BranchID: branchID, FeeTemplateID: &templateID}, nil
	}
	repo.findTemplateByIDFn = func(ctx context.Context, id, template string) (*FeeTemplate, error) {
		return &FeeTemplate{
			ID:       templateID,
			BranchID: branchID,
			Amount:   2000,
			MonthlyBreakdown: []MonthlyFee{
				{MonthLabel: "Apr", Total: 1000},
				{MonthLabel: "May", Total: 1000},
			},
		}, nil
	}
	repo.findRecordFn = func(ctx context.Context, student, session string) (*FeeRecord, error) {
		return &FeeRecord{
			ID:          uuid.New(),
			StudentID:   studentID,
			BranchID:    branchID,
			SessionID:   sessionID,
			TotalAmount: 2000,
			PaidAmount:  1500,
			DueDate:     time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC),
		}, nil
	}

	svc := NewService(db, repo, &fakeCounter{}, &fakeOutbox{})

	resp, err := svc.GetStudentFees(ctx, branchID.String(), studentID.String(), time.Date(2026, 5, 20, 0, 0, 0, 0, time.UTC))
	assert.NoError(t, err)
	assert.Equal(t, int64(500), resp.OutstandingBalance)
	assert.Equal(t, 2, resp.MonthsElapsed)

	if assert.Len(t, resp.MonthlyDues, 12) {
		april := resp.MonthlyDues[0]
		assert.Equal(t, "Apr", april.Month)
		assert.Equal(t, MonthStatusPaid, april.Status)
		assert.Equal(t, int64(1000), april.Paid)

		may := resp.MonthlyDues[1]
		assert.Equal(t, "May", may.Month)
		assert.Equal(t, MonthStatusPartially, may.Status)
		assert.Equal(t, int64(500), may.Paid)
		assert.Equal(t, int64(500), may.Balance)

		// Months without a breakdown row owe nothing and read as paid.
		june := resp.MonthlyDues[2]
		assert.Equal(t, int64(0), june.Total)
	}
}

func TestService_GetStudentFees_ArrearsSettledFirst(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	branchID := uuid.New()
	studentID := uuid.New()
	sessionID := uuid.New()
	ctx := context.Background()

	repo := &fakeRepo{}
	repo.findActiveSessionFn = func(ctx context.Context, id string) (*SessionRow, error) {
		return &SessionRow{ID: sessionID, BranchID: branchID, StartDate: time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), Active: true}, nil
	}
	repo.findStudentFn = func(ctx context.Context, id, student string) (*StudentRow, error) {
		// No class link, so the response stays on aggregate figures.
		return &StudentRow{ID: studentID, BranchID: branchID}, nil
	}
	repo.findRecordFn = func(ctx context.Context, student, session string) (*FeeRecord, error) {
		return &FeeRecord{
			ID:                  uuid.New(),
			StudentID:           studentID,
			BranchID:            branchID,
			SessionID:           sessionID,
			TotalAmount:         10800,
			PaidAmount:          500,
			PreviousSessionDues: 800,
			DueDate:             time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC),
		}, nil
	}

	svc := NewService(db, repo, &fakeCounter{}, &fakeOutbox{})

	resp, err := svc.GetStudentFees(ctx, branchID.String(), studentID.String(), time.Date(2026, 4, 15, 0, 0, 0, 0, time.UTC))
	assert.NoError(t, err)
	assert.Equal(t, int64(500), resp.PreviousDuesPaid)
	assert.Nil(t, resp.MonthlyDues)
}

func TestService_ApplyAdjustment_ConcessionFloor(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	branchID := uuid.New()
	studentID := uuid.New()
	sessionID := uuid.New()
	recordID := uuid.New()
	ctx := context.Background()

	record := FeeRecord{
		ID:          recordID,
		StudentID:   studentID,
		BranchID:    branchID,
		SessionID:   sessionID,
		TotalAmount: 10000,
		PaidAmount:  8000,
	}

	var newTotal int64
	repo := &fakeRepo{}
	repo.findActiveSessionFn = func(ctx context.Context, id string) (*SessionRow, error) {
		return &SessionRow{ID: sessionID, BranchID: branchID, Active: true}, nil
	}
	repo.findStudentFn = func(ctx context.Context, id, student string) (*StudentRow, error) {
		return &StudentRow{ID: studentID, BranchID: branchID}, nil
	}
	repo.findRecordFn = func(ctx context.Context, student, session string) (*FeeRecord, error) {
		r := record
		return &r, nil
	}
	repo.lockRecordFn = func(ctx context.Context, id string) (*FeeRecord, error) {
		r := record
		return &r, nil
	}
	repo.createAdjustmentFn = func(ctx context.Context, adjustment *FeeAdjustment) error { return nil }
	repo.setTotalAmountFn = func(ctx context.Context, id string, total int64) error {
		newTotal = total
		return nil
	}

	svc := NewService(db, repo, &fakeCounter{}, &fakeOutbox{})

	mock.ExpectBegin()
	mock.ExpectCommit()
	_, err := svc.ApplyAdjustment(ctx, branchID.String(), uuid.New().String(), ApplyAdjustmentRequest{
		StudentID: studentID.String(),
		Amount:    -5000,
		Reason:    "sibling concession",
	})
	assert.NoError(t, err)
	// A 5000 concession against 10000 would land below the 8000 already
	// collected; the total floors at the collected amount instead.
	assert.Equal(t, int64(8000), newTotal)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_CreateTemplate_BreakdownMustSumToAmount(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	repo := &fakeRepo{}
	svc := NewService(db, repo, &fakeCounter{}, &fakeOutbox{})

	_, err := svc.CreateTemplate(context.Background(), uuid.New().String(), CreateTemplateRequest{
		GradeLevel: 5,
		Amount:     2000,
		MonthlyBreakdown: []MonthlyFeeRequest{
			{MonthLabel: "Apr", Total: 1000},
			{MonthLabel: "May", Total: 500},
		},
	})
	assert.ErrorIs(t, err, feeserrors.ErrBreakdownMismatch)
}
