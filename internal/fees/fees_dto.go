package fees

type MonthlyFeeRequest struct {
	MonthLabel string           `json:"month_label" binding:"required,len=3"`
	Total      int64            `json:"total" binding:"min=0"`
	Components map[string]int64 `json:"components"`
}

type CreateTemplateRequest struct {
	GradeLevel       int                 `json:"grade_level" binding:"required,min=1,max=12"`
	Amount           int64               `json:"amount" binding:"required,min=0"`
	MonthlyBreakdown []MonthlyFeeRequest `json:"monthly_breakdown" binding:"omitempty,dive"`
}

type TemplateResponse struct {
	ID               string               `json:"id"`
	BranchID         string               `json:"branch_id"`
	GradeLevel       int                  `json:"grade_level"`
	Amount           int64                `json:"amount"`
	MonthlyBreakdown []MonthlyFeeResponse `json:"monthly_breakdown,omitempty"`
}

type MonthlyFeeResponse struct {
	MonthLabel string `json:"month_label"`
	Total      int64  `json:"total"`
}

type RecordPaymentRequest struct {
	StudentID     string `json:"student_id" binding:"required,uuid"`
	Amount        int64  `json:"amount" binding:"required,min=1"`
	TransactionID string `json:"transaction_id"`
}

type PaymentResponse struct {
	ID            string `json:"id"`
	FeeRecordID   string `json:"fee_record_id"`
	Amount        int64  `json:"amount"`
	TransactionID string `json:"transaction_id,omitempty"`
	ReceiptNumber string `json:"receipt_number"`
	PaidAt        string `json:"paid_at"`
}

type ApplyAdjustmentRequest struct {
	StudentID string `json:"student_id" binding:"required,uuid"`
	Amount    int64  `json:"amount" binding:"required"`
	Reason    string `json:"reason" binding:"required"`
}

type AdjustmentResponse struct {
	ID          string `json:"id"`
	FeeRecordID string `json:"fee_record_id"`
	Amount      int64  `json:"amount"`
	Reason      string `json:"reason"`
	AppliedAt   string `json:"applied_at"`
}

// FeeHistoryItem is one entry of the merged payment/adjustment ledger.
type FeeHistoryItem struct {
	Kind          string `json:"kind"` // "payment" | "adjustment"
	Amount        int64  `json:"amount"`
	Date          string `json:"date"`
	Reason        string `json:"reason,omitempty"`
	TransactionID string `json:"transaction_id,omitempty"`
	ReceiptNumber string `json:"receipt_number,omitempty"`
}

type StudentFeesResponse struct {
	FeeRecordID         string `json:"fee_record_id"`
	StudentID           string `json:"student_id"`
	SessionID           string `json:"session_id"`
	TotalAmount         int64  `json:"total_amount"`
	PaidAmount          int64  `json:"paid_amount"`
	PreviousSessionDues int64  `json:"previous_session_dues"`
	PreviousDuesPaid    int64  `json:"previous_dues_paid"`
	OutstandingBalance  int64  `json:"outstanding_balance"`
	DueDate             string `json:"due_date"`

	// Month-level detail; nil when the class template has no monthly
	// breakdown, in which case only the aggregate figures above apply.
	MonthlyDues   []MonthlyDue `json:"monthly_dues,omitempty"`
	MonthsElapsed int          `json:"months_elapsed"`
}

type FinancialOverviewResponse struct {
	BranchID       string `json:"branch_id"`
	SessionID      string `json:"session_id"`
	TotalBilled    int64  `json:"total_billed"`
	TotalCollected int64  `json:"total_collected"`
	TotalPending   int64  `json:"total_pending"`
	CarriedArrears int64  `json:"carried_arrears"`
	StudentCount   int64  `json:"student_count"`
}
