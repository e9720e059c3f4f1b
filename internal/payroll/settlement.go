package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// The divisor is a flat 30 regardless of the actual days in the month. This
// matches how the salary ledger has always been settled; changing it would
// reprice historical months.
var salaryDayDivisor = decimal.NewFromInt(30)

// LeavePeriod is one approved leave interval, date-granular and inclusive on
// both ends.
type LeavePeriod struct {
	StartDate time.Time
	EndDate   time.Time
	HalfDay   bool
}

// Settlement is the outcome of settling one staff member's month.
type Settlement struct {
	Status                 string
	UnpaidLeaveDays        decimal.Decimal
	LeaveDeductions        int64
	ManualAdjustmentsTotal int64
	// Nil when the base salary was never configured.
	NetPayable *int64
}

// Settle computes a month's payroll figures from the base salary, the
// approved leave intervals, and the signed manual adjustments for that
// month. A nil base salary is terminal: the settlement reports
// SALARY_NOT_SET with every derived figure null, and re-invoking changes
// nothing.
func Settle(baseSalary *int64, year int, month time.Month, leaves []LeavePeriod, adjustments []int64) Settlement {
	if baseSalary == nil {
		return Settlement{
			Status:          StatusSalaryNotSet,
			UnpaidLeaveDays: decimal.Zero,
		}
	}

	monthStart := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, -1)
	daysInMonth := monthEnd.Day()

	leaveDays := unpaidLeaveDays(leaves, monthStart, monthEnd)
	if limit := decimal.NewFromInt(int64(daysInMonth)); leaveDays.GreaterThan(limit) {
		leaveDays = limit
	}

	base := decimal.NewFromInt(*baseSalary)
	deduction := leaveDays.Mul(base).Div(salaryDayDivisor)

	var adjustmentsTotal int64
	for _, amount := range adjustments {
		adjustmentsTotal += amount
	}

	net := base.
		Sub(deduction).
		Add(decimal.NewFromInt(adjustmentsTotal)).
		Round(0).
		IntPart()

	return Settlement{
		Status:                 StatusPending,
		UnpaidLeaveDays:        leaveDays,
		LeaveDeductions:        deduction.Round(0).IntPart(),
		ManualAdjustmentsTotal: adjustmentsTotal,
		NetPayable:             &net,
	}
}

// unpaidLeaveDays sums the day counts of the leave intervals clipped to the
// month. A half-day leave contributes 0.5 per date in range, a full leave 1.
func unpaidLeaveDays(leaves []LeavePeriod, monthStart, monthEnd time.Time) decimal.Decimal {
	half := decimal.NewFromFloat(0.5)
	total := decimal.Zero

	for _, leave := range leaves {
		start := truncateDate(leave.StartDate)
		end := truncateDate(leave.EndDate)
		if start.Before(monthStart) {
			start = monthStart
		}
		if end.After(monthEnd) {
			end = monthEnd
		}
		if end.Before(start) {
			continue
		}

		days := int64(end.Sub(start).Hours()/24) + 1
		weight := decimal.NewFromInt(1)
		if leave.HalfDay {
			weight = half
		}
		total = total.Add(decimal.NewFromInt(days).Mul(weight))
	}

	if total.IsNegative() {
		return decimal.Zero
	}
	return total
}

func truncateDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
