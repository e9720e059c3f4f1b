package events

import "time"

const StudentPromotedTopic = "verticx.academics.promotion.v1"

type StudentPromotedEvent struct {
	EventType     string    `json:"event_type"`
	StudentID     string    `json:"student_id"`
	BranchID      string    `json:"branch_id"`
	FromClassID   string    `json:"from_class_id"`
	ToClassID     string    `json:"to_class_id"`
	ArrearsCarry  int64     `json:"arrears_carry"`
	NewSessionID  string    `json:"new_session_id"`
	OccurredAt    time.Time `json:"occurred_at"`
}
