package events

import "time"

const (
	LeaveLifecycleTopic         = "hr.leave.lifecycle.v1"
	LeaveStatusChangedEventType = "leave_status_changed"
	LeaveAggregateType          = "leave_request"
)

// LeaveStatusChangedEvent is published for every committed workflow write of
// a leave request, including its creation (FromStatus is then empty).
type LeaveStatusChangedEvent struct {
	EventType      string    `json:"event_type"`
	RequestID      string    `json:"request_id,omitempty"`
	LeaveRequestID string    `json:"leave_request_id"`
	CompanyID      string    `json:"company_id"`
	EmployeeID     string    `json:"employee_id"`
	Action         string    `json:"action"`
	FromStatus     string    `json:"from_status,omitempty"`
	ToStatus       string    `json:"to_status"`
	ActorID        string    `json:"actor_id"`
	ActorRole      string    `json:"actor_role"`
	LeaveType      string    `json:"leave_type"`
	StartDate      string    `json:"start_date"`
	EndDate        string    `json:"end_date"`
	TotalDays      int       `json:"total_days"`
	BalanceEffect  string    `json:"balance_effect"`
	Remarks        string    `json:"remarks,omitempty"`
	OccurredAt     time.Time `json:"occurred_at"`
}
