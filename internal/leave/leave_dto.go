package leave

type CreateLeaveRequest struct {
	StaffID   string `json:"staff_id" binding:"required,uuid"`
	LeaveType string `json:"leave_type" binding:"required,oneof=CASUAL SICK UNPAID"`
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
	IsHalfDay bool   `json:"is_half_day"`
	Reason    string `json:"reason"`
}

type RejectLeaveRequest struct {
	RejectionReason string `json:"rejection_reason" binding:"required"`
}

type LeaveResponse struct {
	ID              string  `json:"id"`
	BranchID        string  `json:"branch_id"`
	StaffID         string  `json:"staff_id"`
	LeaveType       string  `json:"leave_type"`
	StartDate       string  `json:"start_date"`
	EndDate         string  `json:"end_date"`
	IsHalfDay       bool    `json:"is_half_day"`
	TotalDays       string  `json:"total_days"`
	Reason          string  `json:"reason"`
	Status          string  `json:"status"`
	CreatedBy       string  `json:"created_by"`
	ReviewedBy      *string `json:"reviewed_by,omitempty"`
	ReviewedAt      *string `json:"reviewed_at,omitempty"`
	RejectionReason *string `json:"rejection_reason,omitempty"`
}
