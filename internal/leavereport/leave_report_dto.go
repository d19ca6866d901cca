package leavereport

const UnassignedDepartment = "unassigned"

type OverviewResponse struct {
	TotalRequests int            `json:"total_requests"`
	ByStatus      map[string]int `json:"by_status"`
	ByType        map[string]int `json:"by_type"`
	PendingCount  int            `json:"pending_count"`
	ApprovedCount int            `json:"approved_count"`
	ApprovedDays  int            `json:"approved_days"`
}

type DepartmentSummary struct {
	DepartmentID string `json:"department_id"`
	Total        int    `json:"total"`
	Pending      int    `json:"pending"`
	Approved     int    `json:"approved"`
	Rejected     int    `json:"rejected"`
	Cancelled    int    `json:"cancelled"`
	ApprovedDays int    `json:"approved_days"`
}

type DepartmentSummaryResponse struct {
	Departments []DepartmentSummary `json:"departments"`
	Totals      DepartmentSummary   `json:"totals"`
}

type DepartmentMonthly struct {
	DepartmentID string `json:"department_id"`
	Requests     int    `json:"requests"`
	WorkingDays  int    `json:"working_days"`
}

type MonthlyLeaveItem struct {
	ID           string `json:"id"`
	EmployeeID   string `json:"employee_id"`
	DepartmentID string `json:"department_id"`
	LeaveType    string `json:"leave_type"`
	Status       string `json:"status"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
	TotalDays    int    `json:"total_days"`
	DaysInMonth  int    `json:"days_in_month"`
}

type MonthlyReportResponse struct {
	Month         string              `json:"month"`
	TotalRequests int                 `json:"total_requests"`
	ByOutcome     map[string]int      `json:"by_outcome"`
	ByStatus      map[string]int      `json:"by_status"`
	ByType        map[string]int      `json:"by_type"`
	ByDepartment  []DepartmentMonthly `json:"by_department"`
	WorkingDays   int                 `json:"working_days"`
	Requests      []MonthlyLeaveItem  `json:"requests"`
}

type CalendarEntry struct {
	LeaveID      string `json:"leave_id"`
	EmployeeID   string `json:"employee_id"`
	DepartmentID string `json:"department_id"`
	LeaveType    string `json:"leave_type"`
	Status       string `json:"status"`
}

type CalendarDay struct {
	Date         string          `json:"date"`
	IsWorkingDay bool            `json:"is_working_day"`
	Entries      []CalendarEntry `json:"entries"`
}

type CalendarResponse struct {
	Month string        `json:"month"`
	Days  []CalendarDay `json:"days"`
}
