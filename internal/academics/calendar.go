package academics

import "time"

// MonthsPerSession is the fixed length of an academic session.
const MonthsPerSession = 12

// SessionMonths returns the 12 calendar months of a session in order,
// starting at the session start month and wrapping December into January.
func SessionMonths(start time.Time) []time.Month {
	months := make([]time.Month, 0, MonthsPerSession)
	m := int(start.Month())
	for i := 0; i < MonthsPerSession; i++ {
		months = append(months, time.Month((m-1+i)%12+1))
	}
	return months
}

// SessionMonthLabels returns the short labels ("Apr", "May", ...) for the
// session months, which is how fee templates key their monthly breakdown.
func SessionMonthLabels(start time.Time) []string {
	months := SessionMonths(start)
	labels := make([]string, len(months))
	for i, m := range months {
		labels[i] = m.String()[:3]
	}
	return labels
}

// ElapsedMonths returns how many session months are due as of today,
// counting the current month, clamped to [0, 12].
//
// A later calendar year than the session start counts the remainder of the
// start year plus the months elapsed in today's year; the same year counts
// the offset from the start month; an earlier year counts nothing.
func ElapsedMonths(start, today time.Time) int {
	startYear, startMonth := start.Year(), int(start.Month())
	todayYear, todayMonth := today.Year(), int(today.Month())

	elapsed := 0
	switch {
	case todayYear > startYear:
		elapsed = (12 - startMonth) + todayMonth + 1
	case todayYear == startYear:
		elapsed = todayMonth - startMonth + 1
	}

	if elapsed < 0 {
		elapsed = 0
	}
	if elapsed > MonthsPerSession {
		elapsed = MonthsPerSession
	}
	return elapsed
}

// NextDueDate returns the 10th of the calendar month after ref, which is the
// due date stamped on fee records created at promotion.
func NextDueDate(ref time.Time) time.Time {
	firstOfNext := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
	return time.Date(firstOfNext.Year(), firstOfNext.Month(), 10, 0, 0, 0, 0, time.UTC)
}
