package leave

import (
	"time"

	"github.com/google/uuid"
)

// RangesOverlap reports whether two inclusive date ranges share a day.
func RangesOverlap(s1, e1, s2, e2 time.Time) bool {
	s1, e1 = truncateDate(s1), truncateDate(e1)
	s2, e2 = truncateDate(s2), truncateDate(e2)
	return !s1.After(e2) && !s2.After(e1)
}

// FindOverlaps returns the non-terminal requests of employeeID whose range
// intersects [start, end]. The request with excludeID never matches, so an
// update does not collide with its own previous dates.
func FindOverlaps(candidates []LeaveRequest, employeeID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) []LeaveRequest {
	overlaps := make([]LeaveRequest, 0)
	for _, c := range candidates {
		if c.EmployeeID != employeeID || IsTerminal(c.Status) {
			continue
		}
		if excludeID != nil && c.ID == *excludeID {
			continue
		}
		if RangesOverlap(c.StartDate, c.EndDate, start, end) {
			overlaps = append(overlaps, c)
		}
	}
	return overlaps
}

func overlapIDs(overlaps []LeaveRequest) []string {
	ids := make([]string, len(overlaps))
	for i, o := range overlaps {
		ids[i] = o.ID.String()
	}
	return ids
}
