package fees_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"verticx/internal/fees"
	feeserrors "verticx/internal/fees/errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeService struct {
	createTemplateFn  func(ctx context.Context, branchID string, req fees.CreateTemplateRequest) (fees.TemplateResponse, error)
	getTemplatesFn    func(ctx context.Context, branchID string) ([]fees.TemplateResponse, error)
	getStudentFeesFn  func(ctx context.Context, branchID, studentID string, today time.Time) (fees.StudentFeesResponse, error)
	recordPaymentFn   func(ctx context.Context, branchID, actorID string, req fees.RecordPaymentRequest) (fees.PaymentResponse, error)
	applyAdjustmentFn func(ctx context.Context, branchID, actorID string, req fees.ApplyAdjustmentRequest) (fees.AdjustmentResponse, error)
	getLedgerFn       func(ctx context.Context, branchID, studentID string) ([]fees.FeeHistoryItem, error)
	overviewFn        func(ctx context.Context, branchID string) (fees.FinancialOverviewResponse, error)
}

func (f *fakeService) CreateTemplate(ctx context.Context, branchID string, req fees.CreateTemplateRequest) (fees.TemplateResponse, error) {
	return f.createTemplateFn(ctx, branchID, req)
}
func (f *fakeService) GetTemplates(ctx context.Context, branchID string) ([]fees.TemplateResponse, error) {
	return f.getTemplatesFn(ctx, branchID)
}
func (f *fakeService) GetStudentFees(ctx context.Context, branchID, studentID string, today time.Time) (fees.StudentFeesResponse, error) {
	return f.getStudentFeesFn(ctx, branchID, studentID, today)
}
func (f *fakeService) RecordPayment(ctx context.Context, branchID, actorID string, req fees.RecordPaymentRequest) (fees.PaymentResponse, error) {
	return f.recordPaymentFn(ctx, branchID, actorID, req)
}
func (f *fakeService) ApplyAdjustment(ctx context.Context, branchID, actorID string, req fees.ApplyAdjustmentRequest) (fees.AdjustmentResponse, error) {
	return f.applyAdjustmentFn(ctx, branchID, actorID, req)
}
func (f *fakeService) GetLedger(ctx context.Context, branchID, studentID string) ([]fees.FeeHistoryItem, error) {
	return f.getLedgerFn(ctx, branchID, studentID)
}
func (f *fakeService) BranchFinancialOverview(ctx context.Context, branchID string) (fees.FinancialOverviewResponse, error) {
	return f.overviewFn(ctx, branchID)
}

func TestHandler_RecordPayment(t *testing.T) {
	gin.SetMode(gin.TestMode)
	branchID := uuid.New().String()
	actorID := uuid.New().String()

	svc := &fakeService{
		recordPaymentFn: func(ctx context.Context, bid, aid string, req fees.RecordPaymentRequest) (fees.PaymentResponse, error) {
			assert.Equal(t, branchID, bid)
			assert.Equal(t, actorID, aid)
			assert.Equal(t, int64(1500), req.Amount)
			return fees.PaymentResponse{ID: uuid.New().String(), Amount: req.Amount, ReceiptNumber: "RCP-2026-000001"}, nil
		},
	}

	h := fees.NewHandler(svc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("branch_id", branchID)
	c.Set("staff_id", actorID)
	body := `{"student_id":"` + uuid.New().String() + `","amount":1500}`
	c.Request = httptest.NewRequest(http.MethodPost, "/fees/payments", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	h.RecordPayment(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "RCP-2026-000001")
}

func TestHandler_RecordPayment_Overpayment(t *testing.T) {
	gin.SetMode(gin.TestMode)

	svc := &fakeService{
		recordPaymentFn: func(ctx context.Context, bid, aid string, req fees.RecordPaymentRequest) (fees.PaymentResponse, error) {
			return fees.PaymentResponse{}, feeserrors.ErrOverpayment
		},
	}

	h := fees.NewHandler(svc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("branch_id", uuid.New().String())
	c.Set("staff_id", uuid.New().String())
	body := `{"student_id":"` + uuid.New().String() + `","amount":999999}`
	c.Request = httptest.NewRequest(http.MethodPost, "/fees/payments", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	h.RecordPayment(c)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestHandler_RecordPayment_InvalidBody(t *testing.T) {
	gin.SetMode(gin.TestMode)

	h := fees.NewHandler(&fakeService{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("branch_id", uuid.New().String())
	c.Request = httptest.NewRequest(http.MethodPost, "/fees/payments", strings.NewReader(`{"amount":0}`))
	c.Request.Header.Set("Content-Type", "application/json")
	h.RecordPayment(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")
}

func TestHandler_GetStudentFees_AsOfQuery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	studentID := uuid.New().String()

	svc := &fakeService{
		getStudentFeesFn: func(ctx context.Context, bid, sid string, today time.Time) (fees.StudentFeesResponse, error) {
			assert.Equal(t, studentID, sid)
			assert.Equal(t, "2026-05-20", today.Format("2006-01-02"))
			return fees.StudentFeesResponse{StudentID: sid, OutstandingBalance: 500}, nil
		},
	}

	h := fees.NewHandler(svc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("branch_id", uuid.New().String())
	c.Params = gin.Params{{Key: "studentId", Value: studentID}}
	c.Request = httptest.NewRequest(http.MethodGet, "/fees/students/"+studentID+"?as_of=2026-05-20", nil)
	h.GetStudentFees(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "\"outstanding_balance\":500")
}
