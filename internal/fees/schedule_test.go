package fees

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func sessionStart() time.Time {
	return time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC)
}

func TestBuildSchedule_NilBreakdown(t *testing.T) {
	assert.Nil(t, BuildSchedule(nil, sessionStart()))
	assert.Nil(t, BuildSchedule([]MonthlyFee{}, sessionStart()))
}

func TestBuildSchedule_LaysBreakdownOverSessionOrder(t *testing.T) {
	breakdown := []MonthlyFee{
		{MonthLabel: "Apr", Total: 1000},
		{MonthLabel: "May", Total: 1000},
		{MonthLabel: "Jan", Total: 1500},
	}

	dues := BuildSchedule(breakdown, sessionStart())

	assert.Len(t, dues, 12)
	assert.Equal(t, "Apr", dues[0].Month)
	assert.Equal(t, int64(1000), dues[0].Total)
	assert.Equal(t, 2025, dues[0].Year)

	// Months absent from the breakdown owe nothing.
	assert.Equal(t, int64(0), dues[2].Total)

	// January belongs to the next calendar year.
	assert.Equal(t, "Jan", dues[9].Month)
	assert.Equal(t, int64(1500), dues[9].Total)
	assert.Equal(t, 2026, dues[9].Year)
	assert.Equal(t, 2026, dues[11].Year)
}

func TestReduceLedger_OverflowIntoNextMonth(t *testing.T) {
	dues := []MonthlyDue{
		{Month: "Apr", Total: 1000, Status: MonthStatusDue},
		{Month: "May", Total: 1000, Status: MonthStatusDue},
		{Month: "Jun", Total: 1000, Status: MonthStatusDue},
	}

	settled, arrearsPaid := ReduceLedger(1500, 0, dues)

	assert.Equal(t, int64(0), arrearsPaid)
	assert.Equal(t, MonthStatusPaid, settled[0].Status)
	assert.Equal(t, int64(1000), settled[0].Paid)

	assert.Equal(t, MonthStatusPartially, settled[1].Status)
	assert.Equal(t, int64(500), settled[1].Paid)
	assert.Equal(t, int64(500), settled[1].Balance)

	assert.Equal(t, MonthStatusDue, settled[2].Status)
	assert.Equal(t, int64(0), settled[2].Paid)
}

func TestReduceLedger_ArrearsFirst(t *testing.T) {
	dues := []MonthlyDue{
		{Month: "Apr", Total: 1000, Status: MonthStatusDue},
		{Month: "May", Total: 1000, Status: MonthStatusDue},
	}

	settled, arrearsPaid := ReduceLedger(1200, 800, dues)

	assert.Equal(t, int64(800), arrearsPaid)
	assert.Equal(t, int64(400), settled[0].Paid)
	assert.Equal(t, MonthStatusPartially, settled[0].Status)
	assert.Equal(t, int64(0), settled[1].Paid)
}

func TestReduceLedger_Conservation(t *testing.T) {
	dues := []MonthlyDue{
		{Month: "Apr", Total: 700},
		{Month: "May", Total: 300},
		{Month: "Jun", Total: 500},
	}

	for _, paid := range []int64{0, 250, 700, 1000, 1500, 1700, 5000} {
		settled, arrearsPaid := ReduceLedger(paid, 200, dues)

		var allocated int64
		for _, m := range settled {
			allocated += m.Paid
		}
		allocated += arrearsPaid

		expected := paid
		if max := int64(200 + 700 + 300 + 500); expected > max {
			expected = max
		}
		assert.Equal(t, expected, allocated, "paid=%d", paid)
	}
}

func TestReduceLedger_StatusOnlyImprovesAsPaidGrows(t *testing.T) {
	dues := []MonthlyDue{
		{Month: "Apr", Total: 700},
		{Month: "May", Total: 300},
		{Month: "Jun", Total: 500},
	}

	rank := map[string]int{
		MonthStatusDue:       0,
		MonthStatusPartially: 1,
		MonthStatusPaid:      2,
	}

	previous := make([]int, len(dues))
	for i := range previous {
		previous[i] = -1
	}

	for paid := int64(0); paid <= 1800; paid += 50 {
		settled, _ := ReduceLedger(paid, 200, dues)

		for i, m := range settled {
			current, ok := rank[m.Status]
			assert.True(t, ok, "unknown status %q", m.Status)
			assert.GreaterOrEqual(t, current, previous[i],
				"month %s regressed at paid=%d", m.Month, paid)
			previous[i] = current
		}
	}
}

func TestReduceLedger_ZeroTotalMonthIsPaid(t *testing.T) {
	dues := []MonthlyDue{
		{Month: "Apr", Total: 0},
		{Month: "May", Total: 1000},
	}

	settled, _ := ReduceLedger(0, 0, dues)

	assert.Equal(t, MonthStatusPaid, settled[0].Status)
	assert.Equal(t, MonthStatusDue, settled[1].Status)
}

func TestReduceLedger_NegativePaidClampsToZero(t *testing.T) {
	dues := []MonthlyDue{{Month: "Apr", Total: 1000}}

	settled, arrearsPaid := ReduceLedger(-50, 300, dues)

	assert.Equal(t, int64(0), arrearsPaid)
	assert.Equal(t, int64(0), settled[0].Paid)
	assert.Equal(t, MonthStatusDue, settled[0].Status)
}

func TestReduceLedger_FullSettlement(t *testing.T) {
	dues := []MonthlyDue{
		{Month: "Apr", Total: 1000},
		{Month: "May", Total: 1000},
	}

	settled, arrearsPaid := ReduceLedger(2500, 500, dues)

	assert.Equal(t, int64(500), arrearsPaid)
	for _, m := range settled {
		assert.Equal(t, MonthStatusPaid, m.Status)
		assert.Equal(t, int64(0), m.Balance)
	}
}
