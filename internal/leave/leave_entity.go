package leave

import (
	"time"

	"markpedia-os/internal/leavebalance"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	StatusPending         = "PENDING"
	StatusManagerApproved = "MANAGER_APPROVED"
	StatusHRApproved      = "HR_APPROVED"
	StatusCEOApproved     = "CEO_APPROVED"
	StatusRejected        = "REJECTED"
	StatusCancelled       = "CANCELLED"
	StatusCompleted       = "COMPLETED"
)

var Statuses = []string{
	StatusPending,
	StatusManagerApproved,
	StatusHRApproved,
	StatusCEOApproved,
	StatusRejected,
	StatusCancelled,
	StatusCompleted,
}

// ActiveStatuses are the statuses that take part in overlap detection.
var ActiveStatuses = []string{
	StatusPending,
	StatusManagerApproved,
	StatusHRApproved,
	StatusCEOApproved,
}

const (
	TypeAnnual        = "ANNUAL"
	TypeSick          = "SICK"
	TypeMaternity     = "MATERNITY"
	TypePaternity     = "PATERNITY"
	TypeCompassionate = "COMPASSIONATE"
	TypeUnpaid        = "UNPAID"
	TypeOfficial      = "OFFICIAL"
	TypeStudy         = "STUDY"
	TypePersonal      = "PERSONAL"
	TypeEmergency     = "EMERGENCY"
)

var LeaveTypes = []string{
	TypeAnnual,
	TypeSick,
	TypeMaternity,
	TypePaternity,
	TypeCompassionate,
	TypeUnpaid,
	TypeOfficial,
	TypeStudy,
	TypePersonal,
	TypeEmergency,
}

const (
	CategoryPaid   = "PAID"
	CategoryUnpaid = "UNPAID"
)

type LeaveRequest struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID    uuid.UUID  `gorm:"type:uuid;not null;index:idx_leave_requests_company_status"`
	EmployeeID   uuid.UUID  `gorm:"type:uuid;not null;index:idx_leave_requests_employee_dates"`
	DepartmentID *uuid.UUID `gorm:"type:uuid;index:idx_leave_requests_department"`

	LeaveType     string    `gorm:"type:varchar(20);not null;default:'ANNUAL'"`
	LeaveCategory string    `gorm:"type:varchar(10);not null;default:'PAID'"`
	StartDate     time.Time `gorm:"type:date;not null;index:idx_leave_requests_employee_dates"`
	EndDate       time.Time `gorm:"type:date;not null;index:idx_leave_requests_employee_dates"`
	TotalDays     int       `gorm:"type:int;not null"`
	Reason        string    `gorm:"type:text;not null"`

	BackupPerson       *string `gorm:"type:varchar(150)"`
	ContactDuringLeave *string `gorm:"type:varchar(150)"`
	TaskOrProject      *string `gorm:"type:text"`
	IsEmergency        bool    `gorm:"not null;default:false"`
	EmergencyContact   *string `gorm:"type:varchar(150)"`

	RequiresCEOApproval bool   `gorm:"not null;default:false"`
	Status              string `gorm:"type:varchar(20);not null;default:'PENDING';index:idx_leave_requests_company_status"`

	ApprovedByManager *uuid.UUID `gorm:"type:uuid"`
	ManagerApprovedAt *time.Time
	ManagerRemarks    *string `gorm:"type:text"`

	ApprovedByHR *uuid.UUID `gorm:"column:approved_by_hr;type:uuid"`
	HRApprovedAt *time.Time `gorm:"column:hr_approved_at"`
	HRRemarks    *string    `gorm:"column:hr_remarks;type:text"`
	HRNotes      *string    `gorm:"column:hr_notes;type:text"`

	ApprovedByCEO *uuid.UUID `gorm:"column:approved_by_ceo;type:uuid"`
	CEOApprovedAt *time.Time `gorm:"column:ceo_approved_at"`
	CEORemarks    *string    `gorm:"column:ceo_remarks;type:text"`

	RejectedBy       *uuid.UUID `gorm:"type:uuid"`
	RejectedByRole   *string    `gorm:"type:varchar(20)"`
	RejectedAt       *time.Time
	RejectionRemarks *string `gorm:"type:text"`

	CancelledAt        *time.Time
	CancellationReason *string `gorm:"type:text"`
	CompletedAt        *time.Time

	BalanceBefore   *decimal.Decimal `gorm:"type:numeric(6,2)"`
	BalanceAfter    *decimal.Decimal `gorm:"type:numeric(6,2)"`
	BalanceDebited  bool             `gorm:"not null;default:false"`
	BalanceRestored bool             `gorm:"not null;default:false"`
	DebitedDays     decimal.Decimal  `gorm:"type:numeric(6,2);not null;default:0"`

	Version   int       `gorm:"not null;default:1"`
	CreatedBy uuid.UUID `gorm:"type:uuid;not null"`
	AppliedOn time.Time `gorm:"type:date;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index:idx_leave_requests_deleted_at"`
}

func (LeaveRequest) TableName() string { return "leave_requests" }

// IsTerminal reports whether no workflow action may follow status.
func IsTerminal(status string) bool {
	switch status {
	case StatusRejected, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

func IsValidLeaveType(v string) bool {
	for _, t := range LeaveTypes {
		if t == v {
			return true
		}
	}
	return false
}

func IsValidStatus(v string) bool {
	for _, s := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

// DefaultCategory is the category a new request gets before HR review.
func DefaultCategory(leaveType string) string {
	switch leaveType {
	case TypeUnpaid, TypeOfficial:
		return CategoryUnpaid
	}
	return CategoryPaid
}

// BucketFor returns the balance bucket a leave type deducts from. Emergency
// leave is taken out of the annual allotment.
func BucketFor(leaveType string) (leavebalance.Bucket, bool) {
	switch leaveType {
	case TypeAnnual, TypeEmergency:
		return leavebalance.BucketAnnual, true
	case TypeSick:
		return leavebalance.BucketSick, true
	case TypeMaternity:
		return leavebalance.BucketMaternity, true
	case TypePaternity:
		return leavebalance.BucketPaternity, true
	case TypeCompassionate:
		return leavebalance.BucketCompassionate, true
	case TypeStudy:
		return leavebalance.BucketStudy, true
	case TypePersonal:
		return leavebalance.BucketPersonal, true
	}
	return "", false
}
