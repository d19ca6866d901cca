package leave

import (
	"time"

	leaveerrors "markpedia-os/internal/leave/errors"
)

const (
	dateLayout    = "2006-01-02"
	secondsPerDay = 24 * 60 * 60
)

// ComputeWorkingDays counts the Monday to Friday days in [start, end],
// both ends included. Only the calendar date of each argument is used.
func ComputeWorkingDays(start, end time.Time) (int, error) {
	s, e := truncateDate(start), truncateDate(end)
	if e.Before(s) {
		return 0, leaveerrors.ErrInvalidDateRange
	}
	return countWeekdays(s, e), nil
}

// WorkingDaysInRange counts the working days of [start, end] that fall inside
// [windowStart, windowEnd]. Disjoint or inverted ranges count zero.
func WorkingDaysInRange(start, end, windowStart, windowEnd time.Time) int {
	s, e := truncateDate(start), truncateDate(end)
	ws, we := truncateDate(windowStart), truncateDate(windowEnd)
	if s.Before(ws) {
		s = ws
	}
	if e.After(we) {
		e = we
	}
	if e.Before(s) {
		return 0
	}
	return countWeekdays(s, e)
}

// countWeekdays expects s and e at midnight UTC. The day span comes from Unix
// seconds because time.Duration overflows past roughly 292 years.
func countWeekdays(s, e time.Time) int {
	days := int((e.Unix()-s.Unix())/secondsPerDay) + 1
	count := (days / 7) * 5
	first := int(s.Weekday())
	for i := 0; i < days%7; i++ {
		switch time.Weekday((first + i) % 7) {
		case time.Saturday, time.Sunday:
		default:
			count++
		}
	}
	return count
}

// truncateDate keeps the calendar date of t as midnight UTC.
func truncateDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse(dateLayout, v)
	if err != nil {
		return time.Time{}, leaveerrors.ErrInvalidDateFormat
	}
	return t, nil
}
