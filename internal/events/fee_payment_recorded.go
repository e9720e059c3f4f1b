package events

import "time"

const FeePaymentRecordedTopic = "verticx.fees.payment.v1"

type FeePaymentRecordedEvent struct {
	EventType     string    `json:"event_type"`
	PaymentID     string    `json:"payment_id"`
	FeeRecordID   string    `json:"fee_record_id"`
	StudentID     string    `json:"student_id"`
	BranchID      string    `json:"branch_id"`
	Amount        int64     `json:"amount"`
	TransactionID string    `json:"transaction_id"`
	OccurredAt    time.Time `json:"occurred_at"`
}
