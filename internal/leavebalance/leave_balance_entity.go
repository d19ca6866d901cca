package leavebalance

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Bucket string

const (
	BucketAnnual        Bucket = "ANNUAL"
	BucketSick          Bucket = "SICK"
	BucketCompassionate Bucket = "COMPASSIONATE"
	BucketPaternity     Bucket = "PATERNITY"
	BucketMaternity     Bucket = "MATERNITY"
	BucketStudy         Bucket = "STUDY"
	BucketPersonal      Bucket = "PERSONAL"
)

var Buckets = []Bucket{
	BucketAnnual,
	BucketSick,
	BucketCompassionate,
	BucketPaternity,
	BucketMaternity,
	BucketStudy,
	BucketPersonal,
}

const (
	EntryKindDebit   = "DEBIT"
	EntryKindRestore = "RESTORE"
	EntryKindAdjust  = "ADJUST"
)

type LeaveBalance struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_leave_balance_employee"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_leave_balance_employee"`

	Annual        decimal.Decimal `gorm:"type:numeric(6,2);not null;default:0"`
	Sick          decimal.Decimal `gorm:"type:numeric(6,2);not null;default:0"`
	Compassionate decimal.Decimal `gorm:"type:numeric(6,2);not null;default:0"`
	Paternity     decimal.Decimal `gorm:"type:numeric(6,2);not null;default:0"`
	Maternity     decimal.Decimal `gorm:"type:numeric(6,2);not null;default:0"`
	Study         decimal.Decimal `gorm:"type:numeric(6,2);not null;default:0"`
	Personal      decimal.Decimal `gorm:"type:numeric(6,2);not null;default:0"`

	Version   int `gorm:"not null;default:1"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (LeaveBalance) TableName() string { return "leave_balances" }

// Get returns the remaining amount of a bucket. ok is false for an unknown
// bucket.
func (b *LeaveBalance) Get(bucket Bucket) (decimal.Decimal, bool) {
	switch bucket {
	case BucketAnnual:
		return b.Annual, true
	case BucketSick:
		return b.Sick, true
	case BucketCompassionate:
		return b.Compassionate, true
	case BucketPaternity:
		return b.Paternity, true
	case BucketMaternity:
		return b.Maternity, true
	case BucketStudy:
		return b.Study, true
	case BucketPersonal:
		return b.Personal, true
	}
	return decimal.Zero, false
}

func (b *LeaveBalance) Set(bucket Bucket, v decimal.Decimal) bool {
	switch bucket {
	case BucketAnnual:
		b.Annual = v
	case BucketSick:
		b.Sick = v
	case BucketCompassionate:
		b.Compassionate = v
	case BucketPaternity:
		b.Paternity = v
	case BucketMaternity:
		b.Maternity = v
	case BucketStudy:
		b.Study = v
	case BucketPersonal:
		b.Personal = v
	default:
		return false
	}
	return true
}

// LeaveBalanceEntry is one append-only movement of a balance bucket. Entries
// are never updated; a restore is a new entry with the opposite sign.
type LeaveBalanceEntry struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID      uuid.UUID       `gorm:"type:uuid;not null;index:idx_leave_balance_entries_employee"`
	EmployeeID     uuid.UUID       `gorm:"type:uuid;not null;index:idx_leave_balance_entries_employee"`
	LeaveRequestID *uuid.UUID      `gorm:"type:uuid;uniqueIndex:uq_leave_balance_entry_request"`
	Bucket         string          `gorm:"type:varchar(20);not null"`
	Kind           string          `gorm:"type:varchar(10);not null;uniqueIndex:uq_leave_balance_entry_request"`
	Delta          decimal.Decimal `gorm:"type:numeric(6,2);not null"`
	BalanceAfter   decimal.Decimal `gorm:"type:numeric(6,2);not null"`
	CreatedBy      uuid.UUID       `gorm:"type:uuid;not null"`
	CreatedAt      time.Time
}

func (LeaveBalanceEntry) TableName() string { return "leave_balance_entries" }
