package academics

type StartSessionRequest struct {
	StartDate  string             `json:"start_date" binding:"required"`
	Name       string             `json:"name" binding:"required"`
	Promotions []PromotionRequest `json:"promotions" binding:"required,dive"`
}

type PromotionRequest struct {
	StudentID     string `json:"student_id" binding:"required,uuid"`
	TargetClassID string `json:"target_class_id" binding:"required,uuid"`
}

type SessionResponse struct {
	ID        string `json:"id"`
	BranchID  string `json:"branch_id"`
	StartDate string `json:"start_date"`
	Name      string `json:"name"`
	Active    bool   `json:"active"`
}

type PromotionResult struct {
	StudentID           string `json:"student_id"`
	TargetClassID       string `json:"target_class_id"`
	PreviousSessionDues int64  `json:"previous_session_dues"`
	NewTotalAmount      int64  `json:"new_total_amount"`
	DueDate             string `json:"due_date"`
}

type StartSessionResponse struct {
	Session    SessionResponse   `json:"session"`
	Promotions []PromotionResult `json:"promotions"`
}

type GradeEntry struct {
	Subject  string `json:"subject" binding:"required"`
	Term     string `json:"term" binding:"required"`
	Score    int    `json:"score" binding:"min=0"`
	MaxScore int    `json:"max_score" binding:"required,min=1"`
}

type RecordGradesRequest struct {
	StudentID string       `json:"student_id" binding:"required,uuid"`
	Entries   []GradeEntry `json:"entries" binding:"required,min=1,dive"`
}

type GradeResponse struct {
	ID        string `json:"id"`
	StudentID string `json:"student_id"`
	SessionID string `json:"session_id"`
	Subject   string `json:"subject"`
	Term      string `json:"term"`
	Score     int    `json:"score"`
	MaxScore  int    `json:"max_score"`
}

type CalendarResponse struct {
	SessionID     string   `json:"session_id"`
	Months        []string `json:"months"`
	ElapsedMonths int      `json:"elapsed_months"`
}
