package leave

import "github.com/shopspring/decimal"

type CreateLeaveRequest struct {
	EmployeeID         string  `json:"employee_id" binding:"required,uuid"`
	DepartmentID       string  `json:"department_id" binding:"omitempty,uuid"`
	LeaveType          string  `json:"leave_type" binding:"required,oneof=ANNUAL SICK MATERNITY PATERNITY COMPASSIONATE UNPAID OFFICIAL STUDY PERSONAL EMERGENCY"`
	StartDate          string  `json:"start_date" binding:"required"`
	EndDate            string  `json:"end_date" binding:"required"`
	Reason             string  `json:"reason" binding:"required,notblank"`
	BackupPerson       *string `json:"backup_person"`
	ContactDuringLeave *string `json:"contact_during_leave"`
	TaskOrProject      *string `json:"task_or_project"`
	IsEmergency        bool    `json:"is_emergency"`
	EmergencyContact   *string `json:"emergency_contact"`
}

type UpdateLeaveRequest struct {
	DepartmentID       string  `json:"department_id" binding:"omitempty,uuid"`
	LeaveType          string  `json:"leave_type" binding:"required,oneof=ANNUAL SICK MATERNITY PATERNITY COMPASSIONATE UNPAID OFFICIAL STUDY PERSONAL EMERGENCY"`
	StartDate          string  `json:"start_date" binding:"required"`
	EndDate            string  `json:"end_date" binding:"required"`
	Reason             string  `json:"reason" binding:"required,notblank"`
	BackupPerson       *string `json:"backup_person"`
	ContactDuringLeave *string `json:"contact_during_leave"`
	TaskOrProject      *string `json:"task_or_project"`
	IsEmergency        bool    `json:"is_emergency"`
	EmergencyContact   *string `json:"emergency_contact"`
	Version            *int    `json:"version"`
}

// Approval bodies may carry the balance figures a client computed itself.
// The ledger is authoritative; those figures are only compared and logged.
type ManagerApproveRequest struct {
	ManagerID     string           `json:"manager_id" binding:"omitempty,uuid"`
	Remarks       string           `json:"remarks"`
	BalanceBefore *decimal.Decimal `json:"balance_before"`
	BalanceAfter  *decimal.Decimal `json:"balance_after"`
	Version       *int             `json:"version"`
}

type HRApproveRequest struct {
	HRID          string           `json:"hr_id" binding:"omitempty,uuid"`
	Remarks       string           `json:"remarks"`
	LeaveCategory string           `json:"leave_category" binding:"omitempty,oneof=PAID UNPAID"`
	HRNotes       string           `json:"hr_notes"`
	BalanceBefore *decimal.Decimal `json:"balance_before"`
	BalanceAfter  *decimal.Decimal `json:"balance_after"`
	Version       *int             `json:"version"`
}

type CEOApproveRequest struct {
	CEOID   string `json:"ceo_id" binding:"omitempty,uuid"`
	Remarks string `json:"remarks"`
	Version *int   `json:"version"`
}

type RejectLeaveRequest struct {
	RejectedBy string `json:"rejected_by" binding:"omitempty,uuid"`
	Remarks    string `json:"remarks" binding:"required,notblank"`
	Version    *int   `json:"version"`
}

type CancelLeaveRequest struct {
	Reason  string `json:"reason"`
	Version *int   `json:"version"`
}

type CompleteLeaveRequest struct {
	Version *int `json:"version"`
}

type ListLeaveFilter struct {
	Skip         int
	Limit        int
	EmployeeID   string
	DepartmentID string
	LeaveType    string
	Status       string
	From         string
	To           string
	Search       string
}

type LeaveResponse struct {
	ID                  string  `json:"id"`
	CompanyID           string  `json:"company_id"`
	EmployeeID          string  `json:"employee_id"`
	DepartmentID        *string `json:"department_id,omitempty"`
	LeaveType           string  `json:"leave_type"`
	LeaveCategory       string  `json:"leave_category"`
	StartDate           string  `json:"start_date"`
	EndDate             string  `json:"end_date"`
	TotalDays           int     `json:"total_days"`
	Reason              string  `json:"reason"`
	BackupPerson        *string `json:"backup_person,omitempty"`
	ContactDuringLeave  *string `json:"contact_during_leave,omitempty"`
	TaskOrProject       *string `json:"task_or_project,omitempty"`
	IsEmergency         bool    `json:"is_emergency"`
	EmergencyContact    *string `json:"emergency_contact,omitempty"`
	RequiresCEOApproval bool    `json:"requires_ceo_approval"`
	Status              string  `json:"status"`

	ApprovedByManager *string `json:"approved_by_manager,omitempty"`
	ManagerApprovedAt *string `json:"manager_approved_at,omitempty"`
	ManagerRemarks    *string `json:"manager_remarks,omitempty"`
	ApprovedByHR      *string `json:"approved_by_hr,omitempty"`
	HRApprovedAt      *string `json:"hr_approved_at,omitempty"`
	HRRemarks         *string `json:"hr_remarks,omitempty"`
	HRNotes           *string `json:"hr_notes,omitempty"`
	ApprovedByCEO     *string `json:"approved_by_ceo,omitempty"`
	CEOApprovedAt     *string `json:"ceo_approved_at,omitempty"`
	CEORemarks        *string `json:"ceo_remarks,omitempty"`

	RejectedBy         *string `json:"rejected_by,omitempty"`
	RejectedByRole     *string `json:"rejected_by_role,omitempty"`
	RejectedAt         *string `json:"rejected_at,omitempty"`
	RejectionRemarks   *string `json:"rejection_remarks,omitempty"`
	CancelledAt        *string `json:"cancelled_at,omitempty"`
	CancellationReason *string `json:"cancellation_reason,omitempty"`
	CompletedAt        *string `json:"completed_at,omitempty"`

	BalanceBefore *decimal.Decimal `json:"balance_before,omitempty"`
	BalanceAfter  *decimal.Decimal `json:"balance_after,omitempty"`

	Version   int    `json:"version"`
	CreatedBy string `json:"created_by"`
	AppliedOn string `json:"applied_on"`
	CreatedAt string `json:"created_at,omitempty"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

type OverlapResponse struct {
	HasOverlap bool            `json:"has_overlap"`
	Overlaps   []LeaveResponse `json:"overlaps"`
}

// OverlapDetails is attached to a CONFLICT error when a request collides with
// existing leave.
type OverlapDetails struct {
	OverlappingIDs []string `json:"overlapping_ids"`
}
