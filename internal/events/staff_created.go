package events

import "time"

const StaffCreatedTopic = "verticx.staff.lifecycle.v1"

type StaffCreatedEvent struct {
	EventType  string    `json:"event_type"`
	StaffID    string    `json:"staff_id"`
	BranchID   string    `json:"branch_id"`
	OccurredAt time.Time `json:"occurred_at"`
}
