package leavereport

import (
	"sort"
	"time"

	"markpedia-os/internal/leave"
	leavereporterrors "markpedia-os/internal/leavereport/errors"
)

const (
	OutcomePending   = "PENDING"
	OutcomeApproved  = "APPROVED"
	OutcomeRejected  = "REJECTED"
	OutcomeCancelled = "CANCELLED"

	dateLayout  = "2006-01-02"
	monthLayout = "2006-01"
)

var Outcomes = []string{OutcomePending, OutcomeApproved, OutcomeRejected, OutcomeCancelled}

// ParseMonth returns the first and last calendar day of a YYYY-MM month.
func ParseMonth(month string) (time.Time, time.Time, error) {
	first, err := time.Parse(monthLayout, month)
	if err != nil {
		return time.Time{}, time.Time{}, leavereporterrors.ErrInvalidMonth
	}
	return first, first.AddDate(0, 1, -1), nil
}

// Outcome folds a workflow status into the four reporting buckets. A request
// is approved once its last required approval is in, and stays approved
// after completion.
func Outcome(l leave.LeaveRequest) string {
	switch l.Status {
	case leave.StatusRejected:
		return OutcomeRejected
	case leave.StatusCancelled:
		return OutcomeCancelled
	case leave.StatusCEOApproved, leave.StatusCompleted:
		return OutcomeApproved
	case leave.StatusHRApproved:
		if !l.RequiresCEOApproval {
			return OutcomeApproved
		}
	}
	return OutcomePending
}

func zeroCounts(keys []string) map[string]int {
	m := make(map[string]int, len(keys))
	for _, k := range keys {
		m[k] = 0
	}
	return m
}

func departmentKey(l leave.LeaveRequest) string {
	if l.DepartmentID == nil {
		return UnassignedDepartment
	}
	return l.DepartmentID.String()
}

func buildOverview(leaves []leave.LeaveRequest) OverviewResponse {
	resp := OverviewResponse{
		ByStatus: zeroCounts(leave.Statuses),
		ByType:   zeroCounts(leave.LeaveTypes),
	}
	for _, l := range leaves {
		resp.TotalRequests++
		resp.ByStatus[l.Status]++
		resp.ByType[l.LeaveType]++
		switch Outcome(l) {
		case OutcomePending:
			resp.PendingCount++
		case OutcomeApproved:
			resp.ApprovedCount++
			resp.ApprovedDays += l.TotalDays
		}
	}
	return resp
}

func buildDepartmentSummary(leaves []leave.LeaveRequest) DepartmentSummaryResponse {
	byDept := map[string]*DepartmentSummary{}
	totals := DepartmentSummary{DepartmentID: "all"}

	add := func(s *DepartmentSummary, l leave.LeaveRequest) {
		s.Total++
		switch Outcome(l) {
		case OutcomePending:
			s.Pending++
		case OutcomeApproved:
			s.Approved++
			s.ApprovedDays += l.TotalDays
		case OutcomeRejected:
			s.Rejected++
		case OutcomeCancelled:
			s.Cancelled++
		}
	}

	for _, l := range leaves {
		key := departmentKey(l)
		s, ok := byDept[key]
		if !ok {
			s = &DepartmentSummary{DepartmentID: key}
			byDept[key] = s
		}
		add(s, l)
		add(&totals, l)
	}

	departments := make([]DepartmentSummary, 0, len(byDept))
	for _, s := range byDept {
		departments = append(departments, *s)
	}
	sort.Slice(departments, func(i, j int) bool {
		return departments[i].DepartmentID < departments[j].DepartmentID
	})

	return DepartmentSummaryResponse{Departments: departments, Totals: totals}
}

// buildMonthly expects leaves already narrowed to the month by the
// repository, but re-checks the bounds so a wider slice is safe.
func buildMonthly(month string, first, last time.Time, leaves []leave.LeaveRequest) MonthlyReportResponse {
	resp := MonthlyReportResponse{
		Month:     month,
		ByOutcome: zeroCounts(Outcomes),
		ByStatus:  zeroCounts(leave.Statuses),
		ByType:    zeroCounts(leave.LeaveTypes),
		Requests:  []MonthlyLeaveItem{},
	}

	byDept := map[string]*DepartmentMonthly{}
	for _, l := range leaves {
		if !leave.RangesOverlap(l.StartDate, l.EndDate, first, last) {
			continue
		}
		days := leave.WorkingDaysInRange(l.StartDate, l.EndDate, first, last)
		outcome := Outcome(l)

		resp.TotalRequests++
		resp.ByOutcome[outcome]++
		resp.ByStatus[l.Status]++
		resp.ByType[l.LeaveType]++

		key := departmentKey(l)
		d, ok := byDept[key]
		if !ok {
			d = &DepartmentMonthly{DepartmentID: key}
			byDept[key] = d
		}
		d.Requests++

		if outcome != OutcomeRejected && outcome != OutcomeCancelled {
			resp.WorkingDays += days
			d.WorkingDays += days
		}

		resp.Requests = append(resp.Requests, MonthlyLeaveItem{
			ID:           l.ID.String(),
			EmployeeID:   l.EmployeeID.String(),
			DepartmentID: key,
			LeaveType:    l.LeaveType,
			Status:       l.Status,
			StartDate:    l.StartDate.Format(dateLayout),
			EndDate:      l.EndDate.Format(dateLayout),
			TotalDays:    l.TotalDays,
			DaysInMonth:  days,
		})
	}

	resp.ByDepartment = make([]DepartmentMonthly, 0, len(byDept))
	for _, d := range byDept {
		resp.ByDepartment = append(resp.ByDepartment, *d)
	}
	sort.Slice(resp.ByDepartment, func(i, j int) bool {
		return resp.ByDepartment[i].DepartmentID < resp.ByDepartment[j].DepartmentID
	})
	return resp
}

func buildCalendar(month string, first, last time.Time, leaves []leave.LeaveRequest) CalendarResponse {
	resp := CalendarResponse{Month: month}

	visible := make([]leave.LeaveRequest, 0, len(leaves))
	for _, l := range leaves {
		if l.Status == leave.StatusRejected || l.Status == leave.StatusCancelled {
			continue
		}
		visible = append(visible, l)
	}

	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		day := CalendarDay{
			Date:         d.Format(dateLayout),
			IsWorkingDay: leave.WorkingDaysInRange(d, d, d, d) == 1,
			Entries:      []CalendarEntry{},
		}
		for _, l := range visible {
			if !leave.RangesOverlap(l.StartDate, l.EndDate, d, d) {
				continue
			}
			day.Entries = append(day.Entries, CalendarEntry{
				LeaveID:      l.ID.String(),
				EmployeeID:   l.EmployeeID.String(),
				DepartmentID: departmentKey(l),
				LeaveType:    l.LeaveType,
				Status:       l.Status,
			})
		}
		resp.Days = append(resp.Days, day)
	}
	return resp
}
