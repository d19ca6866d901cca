package leave

import (
	"strings"
	"time"

	leaveerrors "markpedia-os/internal/leave/errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Action string

const (
	ActionManagerApprove Action = "manager_approve"
	ActionHRApprove      Action = "hr_approve"
	ActionCEOApprove     Action = "ceo_approve"
	ActionReject         Action = "reject"
	ActionCancel         Action = "cancel"
	ActionComplete       Action = "complete"
)

type Role string

const (
	RoleEmployee Role = "EMPLOYEE"
	RoleManager  Role = "MANAGER"
	RoleHR       Role = "HR"
	RoleCEO      Role = "CEO"
	RoleAdmin    Role = "ADMIN"
)

// ParseRole maps a token role claim onto a workflow role. Unknown claims
// become EMPLOYEE, the least privileged role.
func ParseRole(v string) Role {
	switch r := Role(strings.ToUpper(strings.TrimSpace(v))); r {
	case RoleManager, RoleHR, RoleCEO, RoleAdmin:
		return r
	}
	return RoleEmployee
}

// Actor is the authenticated caller of a workflow action.
type Actor struct {
	ID   uuid.UUID
	Role Role
}

var transitionMap = map[Action][]string{
	ActionManagerApprove: {StatusPending},
	ActionHRApprove:      {StatusManagerApproved},
	ActionCEOApprove:     {StatusHRApproved},
	ActionReject:         {StatusPending, StatusManagerApproved, StatusHRApproved, StatusCEOApproved},
	ActionCancel:         {StatusPending, StatusManagerApproved, StatusHRApproved, StatusCEOApproved},
	ActionComplete:       {StatusHRApproved, StatusCEOApproved},
}

var actionTargets = map[Action]string{
	ActionManagerApprove: StatusManagerApproved,
	ActionHRApprove:      StatusHRApproved,
	ActionCEOApprove:     StatusCEOApproved,
	ActionReject:         StatusRejected,
	ActionCancel:         StatusCancelled,
	ActionComplete:       StatusCompleted,
}

var actionRoles = map[Action][]Role{
	ActionManagerApprove: {RoleManager},
	ActionHRApprove:      {RoleHR},
	ActionCEOApprove:     {RoleCEO},
	ActionReject:         {RoleManager, RoleHR, RoleCEO},
	ActionCancel:         {RoleEmployee, RoleManager, RoleHR, RoleCEO},
	ActionComplete:       {RoleHR},
}

// ValidTransition reports whether action may start from fromStatus. It only
// consults the transition table; policy checks live in ApplyTransition.
func ValidTransition(action Action, fromStatus string) bool {
	allowed, ok := transitionMap[action]
	if !ok {
		return false
	}
	for _, status := range allowed {
		if status == fromStatus {
			return true
		}
	}
	return false
}

// RoleAllowed reports whether role may perform action at all.
func RoleAllowed(action Action, role Role) bool {
	for _, r := range actionRoles[action] {
		if r == role {
			return true
		}
	}
	return false
}

type TransitionInput struct {
	Remarks       string
	HRNotes       string
	LeaveCategory string
	Now           time.Time
}

// BalanceEffect is the ledger movement a transition asks the caller to apply.
type BalanceEffect int

const (
	BalanceNone BalanceEffect = iota
	BalanceDebit
	BalanceRestore
	// BalanceSnapshot records the untouched balance of an unpaid request at
	// its finalising approval.
	BalanceSnapshot
)

func (e BalanceEffect) String() string {
	switch e {
	case BalanceDebit:
		return "debit"
	case BalanceRestore:
		return "restore"
	case BalanceSnapshot:
		return "unchanged"
	}
	return "none"
}

// ApplyTransition moves l through action on behalf of actor. The role is
// checked before the source state, so an unauthorised caller never learns the
// current status. On error l is left untouched.
func ApplyTransition(l *LeaveRequest, action Action, actor Actor, in TransitionInput) (BalanceEffect, error) {
	if !RoleAllowed(action, actor.Role) {
		return BalanceNone, leaveerrors.ErrUnauthorizedAction
	}
	if action == ActionCancel && actor.ID != l.EmployeeID {
		return BalanceNone, leaveerrors.ErrNotRequestOwner
	}

	if !ValidTransition(action, l.Status) {
		return BalanceNone, leaveerrors.ErrInvalidStatusTransition
	}

	now := in.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}

	switch action {
	case ActionCEOApprove:
		if !l.RequiresCEOApproval {
			return BalanceNone, leaveerrors.ErrInvalidStatusTransition
		}
	case ActionComplete:
		if l.Status == StatusHRApproved && l.RequiresCEOApproval {
			return BalanceNone, leaveerrors.ErrInvalidStatusTransition
		}
		if !truncateDate(now).After(truncateDate(l.EndDate)) {
			return BalanceNone, leaveerrors.ErrLeavePeriodNotElapsed
		}
	case ActionReject:
		if strings.TrimSpace(in.Remarks) == "" {
			return BalanceNone, leaveerrors.ErrRejectionRemarksRequired
		}
	case ActionHRApprove:
		if in.LeaveCategory != "" && in.LeaveCategory != CategoryPaid && in.LeaveCategory != CategoryUnpaid {
			return BalanceNone, leaveerrors.ErrInvalidLeaveCategory
		}
	}

	effect := BalanceNone
	actorID := actor.ID
	remarks := optionalString(in.Remarks)

	switch action {
	case ActionManagerApprove:
		l.ApprovedByManager = &actorID
		l.ManagerApprovedAt = &now
		l.ManagerRemarks = remarks
	case ActionHRApprove:
		l.ApprovedByHR = &actorID
		l.HRApprovedAt = &now
		l.HRRemarks = remarks
		l.HRNotes = optionalString(in.HRNotes)
		if in.LeaveCategory != "" {
			l.LeaveCategory = in.LeaveCategory
		}
		if !l.RequiresCEOApproval {
			effect = finalEffect(l)
		}
	case ActionCEOApprove:
		l.ApprovedByCEO = &actorID
		l.CEOApprovedAt = &now
		l.CEORemarks = remarks
		effect = finalEffect(l)
	case ActionReject:
		role := string(actor.Role)
		l.RejectedBy = &actorID
		l.RejectedByRole = &role
		l.RejectedAt = &now
		l.RejectionRemarks = remarks
		if needsRestore(l) {
			effect = BalanceRestore
		}
	case ActionCancel:
		l.CancelledAt = &now
		l.CancellationReason = remarks
		if needsRestore(l) {
			effect = BalanceRestore
		}
	case ActionComplete:
		l.CompletedAt = &now
	}

	l.Status = actionTargets[action]
	return effect, nil
}

// CanEdit reports whether actor may change the details of l. Only the owner
// may edit, and only while nobody has acted on the request yet.
func CanEdit(l *LeaveRequest, actor Actor) error {
	if actor.ID != l.EmployeeID {
		return leaveerrors.ErrNotRequestOwner
	}
	if l.Status != StatusPending {
		return leaveerrors.ErrLeaveNotEditable
	}
	return nil
}

// RecordDebit stores the balance snapshot of the finalising approval. The
// snapshot is written once; a second call fails.
func RecordDebit(l *LeaveRequest, before, after, days decimal.Decimal) error {
	if l.BalanceDebited || l.BalanceAfter != nil {
		return leaveerrors.ErrBalanceAlreadyRecorded
	}
	l.BalanceBefore = &before
	l.BalanceAfter = &after
	l.BalanceDebited = true
	l.DebitedDays = days
	return nil
}

// RecordSnapshot stores before == after for an approval that does not move
// the balance. Like RecordDebit it writes once.
func RecordSnapshot(l *LeaveRequest, current decimal.Decimal) error {
	if l.BalanceDebited || l.BalanceAfter != nil {
		return leaveerrors.ErrBalanceAlreadyRecorded
	}
	before, after := current, current
	l.BalanceBefore = &before
	l.BalanceAfter = &after
	return nil
}

// finalEffect is the balance effect of the approval that finalises l.
func finalEffect(l *LeaveRequest) BalanceEffect {
	if needsDebit(l) {
		return BalanceDebit
	}
	if _, ok := BucketFor(l.LeaveType); ok && !l.BalanceDebited && l.BalanceAfter == nil {
		return BalanceSnapshot
	}
	return BalanceNone
}

func needsDebit(l *LeaveRequest) bool {
	if l.BalanceDebited || l.LeaveCategory != CategoryPaid {
		return false
	}
	_, ok := BucketFor(l.LeaveType)
	return ok
}

func needsRestore(l *LeaveRequest) bool {
	return l.BalanceDebited && !l.BalanceRestored
}

func optionalString(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}
