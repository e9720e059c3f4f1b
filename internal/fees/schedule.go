package fees

import (
	"time"

	"verticx/internal/academics"
)

const (
	MonthStatusPaid      = "Paid"
	MonthStatusPartially = "Partially Paid"
	MonthStatusDue       = "Due"
)

// MonthlyDue is derived on demand and never persisted.
type MonthlyDue struct {
	Month   string `json:"month"`
	Year    int    `json:"year"`
	Total   int64  `json:"total"`
	Paid    int64  `json:"paid"`
	Balance int64  `json:"balance"`
	Status  string `json:"status"`
}

// BuildSchedule lays the template's monthly breakdown over the session's
// month order. Months missing from the breakdown owe nothing. A nil
// breakdown means the template has no month-level detail and callers must
// stay on aggregate figures.
func BuildSchedule(breakdown []MonthlyFee, sessionStart time.Time) []MonthlyDue {
	if len(breakdown) == 0 {
		return nil
	}

	byLabel := make(map[string]int64, len(breakdown))
	for _, row := range breakdown {
		byLabel[row.MonthLabel] = row.Total
	}

	labels := academics.SessionMonthLabels(sessionStart)
	year := sessionStart.Year()
	startMonth := int(sessionStart.Month())

	dues := make([]MonthlyDue, 0, len(labels))
	for i, label := range labels {
		// Wrap into the next calendar year once the session passes December.
		if startMonth+i == 13 {
			year++
		}
		dues = append(dues, MonthlyDue{
			Month:  label,
			Year:   year,
			Total:  byLabel[label],
			Status: MonthStatusDue,
		})
	}
	return dues
}

// ReduceLedger allocates the cumulative paid amount across the due schedule,
// previous-session arrears first, then months in session order. There is no
// way to target a payment at a future month. Returns the settled schedule
// and the slice of the paid amount that covered arrears.
//
// The reducer never allocates more than paidAmount in total:
// previousDuesPaid + sum(month.Paid) == min(paidAmount, previousDues + sum(month.Total)).
func ReduceLedger(paidAmount, previousDues int64, dues []MonthlyDue) ([]MonthlyDue, int64) {
	tracker := paidAmount
	if tracker < 0 {
		tracker = 0
	}

	previousDuesPaid := previousDues
	if tracker < previousDuesPaid {
		previousDuesPaid = tracker
	}
	tracker -= previousDuesPaid

	settled := make([]MonthlyDue, len(dues))
	for i, due := range dues {
		paidForMonth := due.Total
		if tracker < paidForMonth {
			paidForMonth = tracker
		}
		tracker -= paidForMonth

		due.Paid = paidForMonth
		due.Balance = due.Total - paidForMonth

		switch {
		case due.Balance <= 0:
			due.Status = MonthStatusPaid
		case paidForMonth > 0:
			due.Status = MonthStatusPartially
		default:
			due.Status = MonthStatusDue
		}
		settled[i] = due

		// Nothing left to allocate; the remaining months default to Due.
		if tracker <= 0 {
			for j := i + 1; j < len(dues); j++ {
				rest := dues[j]
				rest.Paid = 0
				rest.Balance = rest.Total
				if rest.Balance <= 0 {
					rest.Status = MonthStatusPaid
				} else {
					rest.Status = MonthStatusDue
				}
				settled[j] = rest
			}
			break
		}
	}

	return settled, previousDuesPaid
}
