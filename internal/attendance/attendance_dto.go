package attendance

type MarkEntry struct {
	StudentID string  `json:"student_id" binding:"required,uuid"`
	Status    string  `json:"status" binding:"required,oneof=PRESENT ABSENT HALF_DAY LEAVE"`
	Notes     *string `json:"notes"`
}

type MarkClassRequest struct {
	ClassID string      `json:"class_id" binding:"required,uuid"`
	Date    string      `json:"date" binding:"required"`
	Entries []MarkEntry `json:"entries" binding:"required,min=1,dive"`
}

type AttendanceResponse struct {
	ID          string  `json:"id"`
	BranchID    string  `json:"branch_id"`
	SessionID   string  `json:"session_id"`
	StudentID   string  `json:"student_id"`
	StudentName string  `json:"student_name,omitempty"`
	ClassID     string  `json:"class_id"`
	Date        string  `json:"date"`
	Status      string  `json:"status"`
	Notes       *string `json:"notes,omitempty"`
}

type MonthlySummaryResponse struct {
	StudentID   string  `json:"student_id"`
	Month       string  `json:"month"`
	PresentDays int     `json:"present_days"`
	AbsentDays  int     `json:"absent_days"`
	HalfDays    int     `json:"half_days"`
	LeaveDays   int     `json:"leave_days"`
	WorkingDays int     `json:"working_days"`
	Percentage  float64 `json:"percentage"`
}
