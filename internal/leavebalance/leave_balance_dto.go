package leavebalance

import "github.com/shopspring/decimal"

type UpsertLeaveBalanceRequest struct {
	Annual        *decimal.Decimal `json:"annual"`
	Sick          *decimal.Decimal `json:"sick"`
	Compassionate *decimal.Decimal `json:"compassionate"`
	Paternity     *decimal.Decimal `json:"paternity"`
	Maternity     *decimal.Decimal `json:"maternity"`
	Study         *decimal.Decimal `json:"study"`
	Personal      *decimal.Decimal `json:"personal"`
}

func (r UpsertLeaveBalanceRequest) values() map[Bucket]*decimal.Decimal {
	return map[Bucket]*decimal.Decimal{
		BucketAnnual:        r.Annual,
		BucketSick:          r.Sick,
		BucketCompassionate: r.Compassionate,
		BucketPaternity:     r.Paternity,
		BucketMaternity:     r.Maternity,
		BucketStudy:         r.Study,
		BucketPersonal:      r.Personal,
	}
}

type LeaveBalanceResponse struct {
	CompanyID     string          `json:"company_id"`
	EmployeeID    string          `json:"employee_id"`
	Annual        decimal.Decimal `json:"annual"`
	Sick          decimal.Decimal `json:"sick"`
	Compassionate decimal.Decimal `json:"compassionate"`
	Paternity     decimal.Decimal `json:"paternity"`
	Maternity     decimal.Decimal `json:"maternity"`
	Study         decimal.Decimal `json:"study"`
	Personal      decimal.Decimal `json:"personal"`
	Version       int             `json:"version"`
	UpdatedAt     string          `json:"updated_at,omitempty"`
}

type LeaveBalanceEntryResponse struct {
	ID             string          `json:"id"`
	LeaveRequestID *string         `json:"leave_request_id,omitempty"`
	Bucket         string          `json:"bucket"`
	Kind           string          `json:"kind"`
	Delta          decimal.Decimal `json:"delta"`
	BalanceAfter   decimal.Decimal `json:"balance_after"`
	CreatedBy      string          `json:"created_by"`
	CreatedAt      string          `json:"created_at"`
}
