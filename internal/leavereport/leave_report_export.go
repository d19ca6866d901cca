package leavereport

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

const (
	requestsSheet = "Requests"
	summarySheet  = "Summary"
)

var requestColumns = []interface{}{
	"Leave ID", "Employee ID", "Department", "Leave Type", "Status",
	"Start Date", "End Date", "Total Days", "Days In Month",
}

// ExportFilename is the attachment name used for a month's workbook.
func ExportFilename(month string) string {
	return fmt.Sprintf("leave-report-%s.xlsx", month)
}

func writeMonthlyWorkbook(report MonthlyReportResponse) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", requestsSheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(summarySheet); err != nil {
		return nil, err
	}

	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}

	if err := f.SetSheetRow(requestsSheet, "A1", &requestColumns); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(requestsSheet, "A1", "I1", header); err != nil {
		return nil, err
	}
	_ = f.SetColWidth(requestsSheet, "A", "C", 38)
	_ = f.SetColWidth(requestsSheet, "D", "I", 16)

	for i, item := range report.Requests {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := []interface{}{
			item.ID, item.EmployeeID, item.DepartmentID, item.LeaveType, item.Status,
			item.StartDate, item.EndDate, item.TotalDays, item.DaysInMonth,
		}
		if err := f.SetSheetRow(requestsSheet, cell, &row); err != nil {
			return nil, err
		}
	}

	summary := [][]interface{}{
		{"Month", report.Month},
		{"Total Requests", report.TotalRequests},
		{"Working Days", report.WorkingDays},
		{},
		{"Outcome", "Requests"},
	}
	for _, o := range Outcomes {
		summary = append(summary, []interface{}{o, report.ByOutcome[o]})
	}
	summary = append(summary, []interface{}{}, []interface{}{"Department", "Requests", "Working Days"})
	for _, d := range report.ByDepartment {
		summary = append(summary, []interface{}{d.DepartmentID, d.Requests, d.WorkingDays})
	}

	for i, row := range summary {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return nil, err
		}
	}
	_ = f.SetColWidth(summarySheet, "A", "A", 38)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
