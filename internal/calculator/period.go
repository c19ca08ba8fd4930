package calculator

import (
	"time"

	"github.com/amar-295/student-finance-db-sub001/internal/models"
)

// BudgetPeriod returns the start and end of the budget period containing ref.
//
// Both bounds are anchored at 12:00 UTC so that a date never slides into the
// neighbouring day when rendered in another timezone:
//   - monthly: first to last calendar day of ref's month
//   - semester: Jan 1 - Jun 30 or Jul 1 - Dec 31
//   - yearly: Jan 1 - Dec 31
//
// When both customStart and customEnd are non-zero they are returned as given.
// An unknown period type falls back to monthly.
func BudgetPeriod(period models.PeriodType, ref, customStart, customEnd time.Time) (time.Time, time.Time) {
	if !customStart.IsZero() && !customEnd.IsZero() {
		return customStart, customEnd
	}

	ref = ref.UTC()
	year, month := ref.Year(), ref.Month()

	switch period {
	case models.PeriodSemester:
		first := time.January
		if month > time.June {
			first = time.July
		}
		return noonUTC(year, first, 1), noonUTC(year, first+6, 0)
	case models.PeriodYearly:
		return noonUTC(year, time.January, 1), noonUTC(year, time.December, 31)
	default:
		return noonUTC(year, month, 1), noonUTC(year, month+1, 0)
	}
}

// noonUTC builds 12:00 UTC on the given date. Day 0 means the last day of the
// previous month.
func noonUTC(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 12, 0, 0, 0, time.UTC)
}

// SpendingWindow widens period bounds to whole UTC days, so spending booked
// late on the last day of a period still counts against it.
func SpendingWindow(start, end time.Time) (time.Time, time.Time) {
	from := start.UTC().Truncate(24 * time.Hour)
	to := end.UTC().Truncate(24 * time.Hour).Add(24*time.Hour - time.Second)
	return from, to
}
