package payroll

type GenerateRequest struct {
	Year  int `json:"year" binding:"required,min=2000,max=2100"`
	Month int `json:"month" binding:"required,min=1,max=12"`
}

type ProcessRequest struct {
	Year  int `json:"year" binding:"required,min=2000,max=2100"`
	Month int `json:"month" binding:"required,min=1,max=12"`
}

type AddAdjustmentRequest struct {
	StaffID string `json:"staff_id" binding:"required,uuid"`
	Year    int    `json:"year" binding:"required,min=2000,max=2100"`
	Month   int    `json:"month" binding:"required,min=1,max=12"`
	Amount  int64  `json:"amount" binding:"required"`
	Reason  string `json:"reason" binding:"required"`
}

type RecordResponse struct {
	ID              string `json:"id"`
	StaffID         string `json:"staff_id"`
	StaffName       string `json:"staff_name,omitempty"`
	Month           string `json:"month"`
	BaseSalary      *int64 `json:"base_salary"`
	UnpaidLeaveDays string `json:"unpaid_leave_days"`
	LeaveDeductions int64  `json:"leave_deductions"`
	Adjustments     int64  `json:"adjustments"`
	NetPayable      *int64 `json:"net_payable"`
	Status          string `json:"status"`
	ProcessedAt     string `json:"processed_at,omitempty"`
}

type GenerateResponse struct {
	Month   string           `json:"month"`
	Records []RecordResponse `json:"records"`
}

type ProcessResponse struct {
	Month     string `json:"month"`
	Processed int64  `json:"processed"`
	// Records already PAID before this run; counted, never touched.
	AlreadyPaid int64 `json:"already_paid"`
	Skipped     int64 `json:"skipped"`
}

type AdjustmentResponse struct {
	ID        string `json:"id"`
	StaffID   string `json:"staff_id"`
	Month     string `json:"month"`
	Amount    int64  `json:"amount"`
	Reason    string `json:"reason"`
	AppliedAt string `json:"applied_at"`
}
