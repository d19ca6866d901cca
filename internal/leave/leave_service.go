package leave

import (
	"context"
	"database/sql"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"markpedia-os/internal/events"
	leaveerrors "markpedia-os/internal/leave/errors"
	"markpedia-os/internal/leavebalance"
	"markpedia-os/internal/messaging/kafka"
	"markpedia-os/internal/shared/contextutil"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	StatsCacheKeyPrefix = "leave:stats:"

	defaultListLimit = 20
	maxListLimit     = 100
)

// StatsGenerationKey is the counter every committed leave write of a company
// increments. Report projections are cached under the generation that was
// current when their rows were read, so a load that raced a write can only
// fill a hash nobody reads any more.
func StatsGenerationKey(companyID string) string {
	return StatsCacheKeyPrefix + companyID + ":gen"
}

// StatsCacheKey is the redis hash holding the report projections of a company
// at one generation.
func StatsCacheKey(companyID string, generation int64) string {
	return StatsCacheKeyPrefix + companyID + ":" + strconv.FormatInt(generation, 10)
}

//go:generate mockgen -source=leave_service.go -destination=mock/leave_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, companyID string, actor Actor, req CreateLeaveRequest) (LeaveResponse, error)
	GetByID(ctx context.Context, companyID string, actor Actor, id string) (LeaveResponse, error)
	List(ctx context.Context, companyID string, actor Actor, filter ListLeaveFilter) ([]LeaveResponse, int64, error)
	Update(ctx context.Context, companyID string, actor Actor, id string, req UpdateLeaveRequest) (LeaveResponse, error)
	ManagerApprove(ctx context.Context, companyID string, actor Actor, id string, req ManagerApproveRequest) (LeaveResponse, error)
	HRApprove(ctx context.Context, companyID string, actor Actor, id string, req HRApproveRequest) (LeaveResponse, error)
	CEOApprove(ctx context.Context, companyID string, actor Actor, id string, req CEOApproveRequest) (LeaveResponse, error)
	Reject(ctx context.Context, companyID string, actor Actor, id string, req RejectLeaveRequest) (LeaveResponse, error)
	Cancel(ctx context.Context, companyID string, actor Actor, id string, req CancelLeaveRequest) (LeaveResponse, error)
	Complete(ctx context.Context, companyID string, actor Actor, id string, req CompleteLeaveRequest) (LeaveResponse, error)
	FindOverlaps(ctx context.Context, companyID string, actor Actor, employeeID, startDate, endDate, excludeID string) (OverlapResponse, error)
	Delete(ctx context.Context, companyID, id string) error
}

// Policy holds the company rules the workflow depends on.
type Policy struct {
	// CEOThresholdDays is the largest request, in working days, that does
	// not need CEO sign-off.
	CEOThresholdDays int
	Now              func() time.Time
}

type service struct {
	db     *sql.DB
	repo   Repository
	ledger leavebalance.Ledger
	outbox kafka.OutboxRepository
	rdb    *redis.Client
	policy Policy
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, ledger leavebalance.Ledger, policy Policy, logger ...*zap.Logger) Service {
	return NewServiceWithOutbox(db, repo, ledger, nil, nil, policy, logger...)
}

func NewServiceWithOutbox(
	db *sql.DB,
	repo Repository,
	ledger leavebalance.Ledger,
	outboxRepo kafka.OutboxRepository,
	rdb *redis.Client,
	policy Policy,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	return &service{
		db:     db,
		repo:   repo,
		ledger: ledger,
		outbox: outboxRepo,
		rdb:    rdb,
		policy: policy,
		logger: l,
	}
}

type leaveDetails struct {
	leaveType    string
	startDate    time.Time
	endDate      time.Time
	totalDays    int
	reason       string
	departmentID *uuid.UUID
}

func (s *service) Create(ctx context.Context, companyID string, actor Actor, req CreateLeaveRequest) (LeaveResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create leave requested",
		zap.String("request_id", rid),
		zap.String("company_id", companyID),
		zap.String("actor_id", actor.ID.String()),
		zap.String("employee_id", req.EmployeeID),
		zap.String("start_date", req.StartDate),
		zap.String("end_date", req.EndDate),
	)

	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidCompanyID
	}
	if actor.ID == uuid.Nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidActorID
	}
	employeeUUID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidEmployeeID
	}
	if employeeUUID != actor.ID && actor.Role != RoleHR && actor.Role != RoleAdmin {
		return LeaveResponse{}, leaveerrors.ErrNotRequestOwner
	}

	d, err := s.validateDetails(req.LeaveType, req.StartDate, req.EndDate, req.Reason, req.DepartmentID)
	if err != nil {
		s.logger.Warn("create leave validation failed", zap.String("request_id", rid), zap.Error(err))
		return LeaveResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create leave begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	belongs, err := qtx.EmployeeBelongsToCompany(ctx, companyID, req.EmployeeID)
	if err != nil {
		s.logger.Error("create leave employee company check failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	if !belongs {
		return LeaveResponse{}, leaveerrors.ErrEmployeeNotInCompany
	}

	if err := qtx.LockEmployee(ctx, companyID, req.EmployeeID); err != nil {
		s.logger.Error("create leave employee lock failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	if err := s.checkOverlap(ctx, qtx, companyID, employeeUUID, d.startDate, d.endDate, nil); err != nil {
		return LeaveResponse{}, err
	}

	now := s.now()
	l := &LeaveRequest{
		ID:                  uuid.New(),
		CompanyID:           companyUUID,
		EmployeeID:          employeeUUID,
		DepartmentID:        d.departmentID,
		LeaveType:           d.leaveType,
		LeaveCategory:       DefaultCategory(d.leaveType),
		StartDate:           d.startDate,
		EndDate:             d.endDate,
		TotalDays:           d.totalDays,
		Reason:              d.reason,
		BackupPerson:        req.BackupPerson,
		ContactDuringLeave:  req.ContactDuringLeave,
		TaskOrProject:       req.TaskOrProject,
		IsEmergency:         req.IsEmergency,
		EmergencyContact:    req.EmergencyContact,
		RequiresCEOApproval: s.requiresCEOApproval(d.totalDays),
		Status:              StatusPending,
		Version:             1,
		CreatedBy:           actor.ID,
		AppliedOn:           truncateDate(now),
	}

	if err := qtx.Create(ctx, l); err != nil {
		s.logger.Error("create leave persist failed", zap.Error(err))
		return LeaveResponse{}, mapRepositoryError(err)
	}
	if err := s.enqueueStatusChange(ctx, tx, l, "submit", "", actor, BalanceNone, ""); err != nil {
		s.logger.Error("create leave outbox persist failed",
			zap.String("leave_id", l.ID.String()),
			zap.Error(err),
		)
		return LeaveResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create leave commit failed", zap.String("request_id", rid), zap.Error(err))
		return LeaveResponse{}, err
	}
	s.invalidateStats(ctx, companyID)

	s.logger.Info("create leave success",
		zap.String("request_id", rid),
		zap.String("leave_id", l.ID.String()),
		zap.String("employee_id", req.EmployeeID),
		zap.Int("total_days", l.TotalDays),
		zap.Bool("requires_ceo_approval", l.RequiresCEOApproval),
	)
	return mapToResponse(*l), nil
}

func (s *service) GetByID(ctx context.Context, companyID string, actor Actor, id string) (LeaveResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidLeaveID
	}

	l, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return LeaveResponse{}, mapRepositoryError(err)
	}
	if !canView(l, actor) {
		return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
	}
	return mapToResponse(*l), nil
}

func (s *service) List(ctx context.Context, companyID string, actor Actor, filter ListLeaveFilter) ([]LeaveResponse, int64, error) {
	if _, err := uuid.Parse(companyID); err != nil {
		return nil, 0, leaveerrors.ErrInvalidCompanyID
	}
	if filter.Skip < 0 {
		filter.Skip = 0
	}
	if filter.Limit <= 0 {
		filter.Limit = defaultListLimit
	}
	if filter.Limit > maxListLimit {
		filter.Limit = maxListLimit
	}
	if actor.Role == RoleEmployee {
		filter.EmployeeID = actor.ID.String()
	}

	if filter.EmployeeID != "" {
		if _, err := uuid.Parse(filter.EmployeeID); err != nil {
			return nil, 0, leaveerrors.ErrInvalidEmployeeID
		}
	}
	if filter.DepartmentID != "" {
		if _, err := uuid.Parse(filter.DepartmentID); err != nil {
			return nil, 0, leaveerrors.ErrInvalidDepartmentID
		}
	}
	if filter.LeaveType != "" && !IsValidLeaveType(filter.LeaveType) {
		return nil, 0, leaveerrors.ErrInvalidLeaveType
	}
	if filter.Status != "" && !IsValidStatus(filter.Status) {
		return nil, 0, leaveerrors.ErrInvalidStatusFilter
	}
	for _, v := range []string{filter.From, filter.To} {
		if v == "" {
			continue
		}
		if _, err := parseDate(v); err != nil {
			return nil, 0, err
		}
	}

	leaves, total, err := s.repo.List(ctx, companyID, filter)
	if err != nil {
		s.logger.Error("list leave failed", zap.String("company_id", companyID), zap.Error(err))
		return nil, 0, mapRepositoryError(err)
	}
	return mapToListResponse(leaves), total, nil
}

func (s *service) Update(ctx context.Context, companyID string, actor Actor, id string, req UpdateLeaveRequest) (LeaveResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("update leave requested",
		zap.String("request_id", rid),
		zap.String("leave_id", id),
		zap.String("company_id", companyID),
		zap.String("actor_id", actor.ID.String()),
	)

	if _, err := uuid.Parse(companyID); err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidCompanyID
	}
	if _, err := uuid.Parse(id); err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidLeaveID
	}
	d, err := s.validateDetails(req.LeaveType, req.StartDate, req.EndDate, req.Reason, req.DepartmentID)
	if err != nil {
		s.logger.Warn("update leave validation failed", zap.String("leave_id", id), zap.Error(err))
		return LeaveResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("update leave begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	l, err := qtx.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return LeaveResponse{}, mapRepositoryError(err)
	}
	if req.Version != nil && *req.Version != l.Version {
		return LeaveResponse{}, leaveerrors.ErrConcurrentModification
	}
	if err := CanEdit(l, actor); err != nil {
		s.logger.Warn("update leave rejected",
			zap.String("leave_id", id),
			zap.String("status", l.Status),
			zap.Error(err),
		)
		return LeaveResponse{}, err
	}

	if err := qtx.LockEmployee(ctx, companyID, l.EmployeeID.String()); err != nil {
		s.logger.Error("update leave employee lock failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	if err := s.checkOverlap(ctx, qtx, companyID, l.EmployeeID, d.startDate, d.endDate, &l.ID); err != nil {
		return LeaveResponse{}, err
	}

	l.LeaveType = d.leaveType
	l.LeaveCategory = DefaultCategory(d.leaveType)
	l.StartDate = d.startDate
	l.EndDate = d.endDate
	l.TotalDays = d.totalDays
	l.Reason = d.reason
	if d.departmentID != nil {
		l.DepartmentID = d.departmentID
	}
	l.BackupPerson = req.BackupPerson
	l.ContactDuringLeave = req.ContactDuringLeave
	l.TaskOrProject = req.TaskOrProject
	l.IsEmergency = req.IsEmergency
	l.EmergencyContact = req.EmergencyContact
	l.RequiresCEOApproval = s.requiresCEOApproval(d.totalDays)

	if err := qtx.UpdateWithVersion(ctx, l); err != nil {
		s.logger.Warn("update leave persist failed", zap.String("leave_id", id), zap.Error(err))
		return LeaveResponse{}, mapRepositoryError(err)
	}
	if err := s.enqueueStatusChange(ctx, tx, l, "update", StatusPending, actor, BalanceNone, ""); err != nil {
		s.logger.Error("update leave outbox persist failed", zap.String("leave_id", id), zap.Error(err))
		return LeaveResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("update leave commit failed", zap.String("leave_id", id), zap.Error(err))
		return LeaveResponse{}, err
	}
	s.invalidateStats(ctx, companyID)

	s.logger.Info("update leave success",
		zap.String("leave_id", id),
		zap.Int("total_days", l.TotalDays),
		zap.Int("version", l.Version),
	)
	return mapToResponse(*l), nil
}

// transitionCall is one workflow action as received from the API.
type transitionCall struct {
	action       Action
	approverID   string
	input        TransitionInput
	version      *int
	clientBefore *decimal.Decimal
	clientAfter  *decimal.Decimal
}

func (s *service) ManagerApprove(ctx context.Context, companyID string, actor Actor, id string, req ManagerApproveRequest) (LeaveResponse, error) {
	return s.transition(ctx, companyID, actor, id, transitionCall{
		action:       ActionManagerApprove,
		approverID:   req.ManagerID,
		input:        TransitionInput{Remarks: req.Remarks},
		version:      req.Version,
		clientBefore: req.BalanceBefore,
		clientAfter:  req.BalanceAfter,
	})
}

func (s *service) HRApprove(ctx context.Context, companyID string, actor Actor, id string, req HRApproveRequest) (LeaveResponse, error) {
	return s.transition(ctx, companyID, actor, id, transitionCall{
		action:     ActionHRApprove,
		approverID: req.HRID,
		input: TransitionInput{
			Remarks:       req.Remarks,
			HRNotes:       req.HRNotes,
			LeaveCategory: strings.ToUpper(strings.TrimSpace(req.LeaveCategory)),
		},
		version:      req.Version,
		clientBefore: req.BalanceBefore,
		clientAfter:  req.BalanceAfter,
	})
}

func (s *service) CEOApprove(ctx context.Context, companyID string, actor Actor, id string, req CEOApproveRequest) (LeaveResponse, error) {
	return s.transition(ctx, companyID, actor, id, transitionCall{
		action:     ActionCEOApprove,
		approverID: req.CEOID,
		input:      TransitionInput{Remarks: req.Remarks},
		version:    req.Version,
	})
}

func (s *service) Reject(ctx context.Context, companyID string, actor Actor, id string, req RejectLeaveRequest) (LeaveResponse, error) {
	return s.transition(ctx, companyID, actor, id, transitionCall{
		action:     ActionReject,
		approverID: req.RejectedBy,
		input:      TransitionInput{Remarks: req.Remarks},
		version:    req.Version,
	})
}

func (s *service) Cancel(ctx context.Context, companyID string, actor Actor, id string, req CancelLeaveRequest) (LeaveResponse, error) {
	return s.transition(ctx, companyID, actor, id, transitionCall{
		action:  ActionCancel,
		input:   TransitionInput{Remarks: req.Reason},
		version: req.Version,
	})
}

func (s *service) Complete(ctx context.Context, companyID string, actor Actor, id string, req CompleteLeaveRequest) (LeaveResponse, error) {
	return s.transition(ctx, companyID, actor, id, transitionCall{
		action:  ActionComplete,
		version: req.Version,
	})
}

func (s *service) transition(ctx context.Context, companyID string, actor Actor, id string, call transitionCall) (LeaveResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("leave transition requested",
		zap.String("request_id", rid),
		zap.String("leave_id", id),
		zap.String("company_id", companyID),
		zap.String("actor_id", actor.ID.String()),
		zap.String("actor_role", string(actor.Role)),
		zap.String("action", string(call.action)),
	)

	if _, err := uuid.Parse(companyID); err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidCompanyID
	}
	if actor.ID == uuid.Nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidActorID
	}
	if _, err := uuid.Parse(id); err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidLeaveID
	}
	if call.approverID != "" && call.approverID != actor.ID.String() {
		s.logger.Warn("leave transition approver mismatch",
			zap.String("leave_id", id),
			zap.String("actor_id", actor.ID.String()),
			zap.String("approver_id", call.approverID),
		)
		return LeaveResponse{}, leaveerrors.ErrApproverMismatch
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("leave transition begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	l, err := qtx.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return LeaveResponse{}, mapRepositoryError(err)
	}
	if call.version != nil && *call.version != l.Version {
		return LeaveResponse{}, leaveerrors.ErrConcurrentModification
	}

	from := l.Status
	call.input.Now = s.now()
	effect, err := ApplyTransition(l, call.action, actor, call.input)
	if err != nil {
		s.logger.Warn("leave transition rejected",
			zap.String("leave_id", id),
			zap.String("action", string(call.action)),
			zap.String("from_status", from),
			zap.String("actor_role", string(actor.Role)),
			zap.Error(err),
		)
		return LeaveResponse{}, err
	}

	if err := s.applyBalanceEffect(ctx, tx, l, effect, actor, call); err != nil {
		s.logger.Warn("leave transition balance movement failed",
			zap.String("leave_id", id),
			zap.String("effect", effect.String()),
			zap.Error(err),
		)
		return LeaveResponse{}, err
	}

	if err := qtx.UpdateWithVersion(ctx, l); err != nil {
		s.logger.Warn("leave transition persist failed",
			zap.String("leave_id", id),
			zap.String("action", string(call.action)),
			zap.Error(err),
		)
		return LeaveResponse{}, mapRepositoryError(err)
	}
	if err := s.enqueueStatusChange(ctx, tx, l, string(call.action), from, actor, effect, call.input.Remarks); err != nil {
		s.logger.Error("leave transition outbox persist failed", zap.String("leave_id", id), zap.Error(err))
		return LeaveResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("leave transition commit failed", zap.String("leave_id", id), zap.Error(err))
		return LeaveResponse{}, err
	}
	s.invalidateStats(ctx, companyID)

	s.logger.Info("leave transition success",
		zap.String("request_id", rid),
		zap.String("leave_id", id),
		zap.String("action", string(call.action)),
		zap.String("from_status", from),
		zap.String("to_status", l.Status),
		zap.String("balance_effect", effect.String()),
	)
	return mapToResponse(*l), nil
}

func (s *service) applyBalanceEffect(ctx context.Context, tx *sql.Tx, l *LeaveRequest, effect BalanceEffect, actor Actor, call transitionCall) error {
	if effect == BalanceNone {
		return nil
	}
	bucket, ok := BucketFor(l.LeaveType)
	if !ok {
		return nil
	}

	ledger := s.ledger.WithTx(tx)
	mv := leavebalance.Movement{
		CompanyID:      l.CompanyID,
		EmployeeID:     l.EmployeeID,
		Bucket:         bucket,
		LeaveRequestID: l.ID,
		ActorID:        actor.ID,
	}

	switch effect {
	case BalanceDebit:
		mv.Days = decimal.NewFromInt(int64(l.TotalDays))
		res, err := ledger.Debit(ctx, mv)
		if err != nil {
			return err
		}
		s.compareClientBalance(l, call, res)
		return RecordDebit(l, res.Before, res.After, mv.Days)
	case BalanceSnapshot:
		res, err := ledger.Snapshot(ctx, mv)
		if err != nil {
			return err
		}
		s.compareClientBalance(l, call, res)
		return RecordSnapshot(l, res.Before)
	case BalanceRestore:
		mv.Days = l.DebitedDays
		if _, err := ledger.Restore(ctx, mv); err != nil {
			return err
		}
		l.BalanceRestored = true
	}
	return nil
}

// compareClientBalance logs when the figures a client sent disagree with the
// ledger. The ledger result is kept either way.
func (s *service) compareClientBalance(l *LeaveRequest, call transitionCall, res leavebalance.MovementResult) {
	mismatch := (call.clientBefore != nil && !call.clientBefore.Equal(res.Before)) ||
		(call.clientAfter != nil && !call.clientAfter.Equal(res.After))
	if !mismatch {
		return
	}
	fields := []zap.Field{
		zap.String("leave_id", l.ID.String()),
		zap.String("ledger_before", res.Before.String()),
		zap.String("ledger_after", res.After.String()),
	}
	if call.clientBefore != nil {
		fields = append(fields, zap.String("client_before", call.clientBefore.String()))
	}
	if call.clientAfter != nil {
		fields = append(fields, zap.String("client_after", call.clientAfter.String()))
	}
	s.logger.Warn("client balance figures ignored", fields...)
}

func (s *service) FindOverlaps(ctx context.Context, companyID string, actor Actor, employeeID, startDate, endDate, excludeID string) (OverlapResponse, error) {
	if _, err := uuid.Parse(companyID); err != nil {
		return OverlapResponse{}, leaveerrors.ErrInvalidCompanyID
	}
	employeeUUID, err := uuid.Parse(employeeID)
	if err != nil {
		return OverlapResponse{}, leaveerrors.ErrInvalidEmployeeID
	}
	if actor.Role == RoleEmployee && actor.ID != employeeUUID {
		return OverlapResponse{}, leaveerrors.ErrNotRequestOwner
	}
	start, err := parseDate(startDate)
	if err != nil {
		return OverlapResponse{}, err
	}
	end, err := parseDate(endDate)
	if err != nil {
		return OverlapResponse{}, err
	}
	if end.Before(start) {
		return OverlapResponse{}, leaveerrors.ErrInvalidDateRange
	}
	var exclude *uuid.UUID
	if excludeID != "" {
		v, err := uuid.Parse(excludeID)
		if err != nil {
			return OverlapResponse{}, leaveerrors.ErrInvalidLeaveID
		}
		exclude = &v
	}

	candidates, err := s.repo.FindActiveByEmployeeInRange(ctx, companyID, employeeID, start, end)
	if err != nil {
		s.logger.Error("find overlaps failed", zap.String("employee_id", employeeID), zap.Error(err))
		return OverlapResponse{}, mapRepositoryError(err)
	}
	overlaps := FindOverlaps(candidates, employeeUUID, start, end, exclude)
	return OverlapResponse{
		HasOverlap: len(overlaps) > 0,
		Overlaps:   mapToListResponse(overlaps),
	}, nil
}

func (s *service) Delete(ctx context.Context, companyID, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return leaveerrors.ErrInvalidLeaveID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("delete leave begin tx failed", zap.Error(err))
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	if err := qtx.Delete(ctx, companyID, id); err != nil {
		return mapRepositoryError(err)
	}
	if err := tx.Commit(); err != nil {
		s.logger.Error("delete leave commit failed", zap.String("leave_id", id), zap.Error(err))
		return err
	}
	s.invalidateStats(ctx, companyID)

	s.logger.Info("delete leave success", zap.String("leave_id", id), zap.String("company_id", companyID))
	return nil
}

func (s *service) validateDetails(leaveType, startDate, endDate, reason, departmentID string) (leaveDetails, error) {
	if !IsValidLeaveType(leaveType) {
		return leaveDetails{}, leaveerrors.ErrInvalidLeaveType
	}
	start, err := parseDate(startDate)
	if err != nil {
		return leaveDetails{}, err
	}
	end, err := parseDate(endDate)
	if err != nil {
		return leaveDetails{}, err
	}
	totalDays, err := ComputeWorkingDays(start, end)
	if err != nil {
		return leaveDetails{}, err
	}
	if totalDays == 0 {
		return leaveDetails{}, leaveerrors.ErrNoWorkingDays
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return leaveDetails{}, leaveerrors.ErrReasonRequired
	}

	d := leaveDetails{
		leaveType: leaveType,
		startDate: start,
		endDate:   end,
		totalDays: totalDays,
		reason:    reason,
	}
	if departmentID != "" {
		v, err := uuid.Parse(departmentID)
		if err != nil {
			return leaveDetails{}, leaveerrors.ErrInvalidDepartmentID
		}
		d.departmentID = &v
	}
	return d, nil
}

func (s *service) checkOverlap(ctx context.Context, qtx Repository, companyID string, employeeID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) error {
	candidates, err := qtx.FindActiveByEmployeeInRange(ctx, companyID, employeeID.String(), start, end)
	if err != nil {
		s.logger.Error("leave overlap check failed", zap.Error(err))
		return mapRepositoryError(err)
	}
	overlaps := FindOverlaps(candidates, employeeID, start, end, excludeID)
	if len(overlaps) == 0 {
		return nil
	}

	ids := overlapIDs(overlaps)
	s.logger.Warn("leave overlap detected",
		zap.String("company_id", companyID),
		zap.String("employee_id", employeeID.String()),
		zap.String("start_date", start.Format(dateLayout)),
		zap.String("end_date", end.Format(dateLayout)),
		zap.Strings("overlapping_ids", ids),
	)
	return leaveerrors.ErrLeaveOverlap.WithDetails(OverlapDetails{OverlappingIDs: ids})
}

func (s *service) enqueueStatusChange(ctx context.Context, tx *sql.Tx, l *LeaveRequest, action, from string, actor Actor, effect BalanceEffect, remarks string) error {
	if s.outbox == nil {
		return nil
	}

	rid := contextutil.GetRequestID(ctx)
	event := events.LeaveStatusChangedEvent{
		EventType:      events.LeaveStatusChangedEventType,
		RequestID:      rid,
		LeaveRequestID: l.ID.String(),
		CompanyID:      l.CompanyID.String(),
		EmployeeID:     l.EmployeeID.String(),
		Action:         action,
		FromStatus:     from,
		ToStatus:       l.Status,
		ActorID:        actor.ID.String(),
		ActorRole:      string(actor.Role),
		LeaveType:      l.LeaveType,
		StartDate:      l.StartDate.Format(dateLayout),
		EndDate:        l.EndDate.Format(dateLayout),
		TotalDays:      l.TotalDays,
		BalanceEffect:  effect.String(),
		Remarks:        strings.TrimSpace(remarks),
		OccurredAt:     s.now(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     rid,
		AggregateType: events.LeaveAggregateType,
		AggregateID:   l.ID.String(),
		EventType:     event.EventType,
		Topic:         events.LeaveLifecycleTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

func (s *service) invalidateStats(ctx context.Context, companyID string) {
	if s.rdb == nil {
		return
	}
	key := StatsGenerationKey(companyID)
	if err := s.rdb.Incr(ctx, key).Err(); err != nil {
		s.logger.Error("failed to invalidate leave stats cache",
			zap.Error(err),
			zap.String("key", key),
		)
	}
}

func (s *service) requiresCEOApproval(totalDays int) bool {
	return totalDays > s.policy.CEOThresholdDays
}

func (s *service) now() time.Time {
	if s.policy.Now != nil {
		return s.policy.Now().UTC()
	}
	return time.Now().UTC()
}

func canView(l *LeaveRequest, actor Actor) bool {
	if actor.Role == RoleEmployee {
		return l.EmployeeID == actor.ID
	}
	return true
}

func mapToResponse(l LeaveRequest) LeaveResponse {
	resp := LeaveResponse{
		ID:                  l.ID.String(),
		CompanyID:           l.CompanyID.String(),
		EmployeeID:          l.EmployeeID.String(),
		DepartmentID:        uuidString(l.DepartmentID),
		LeaveType:           l.LeaveType,
		LeaveCategory:       l.LeaveCategory,
		StartDate:           l.StartDate.Format(dateLayout),
		EndDate:             l.EndDate.Format(dateLayout),
		TotalDays:           l.TotalDays,
		Reason:              l.Reason,
		BackupPerson:        l.BackupPerson,
		ContactDuringLeave:  l.ContactDuringLeave,
		TaskOrProject:       l.TaskOrProject,
		IsEmergency:         l.IsEmergency,
		EmergencyContact:    l.EmergencyContact,
		RequiresCEOApproval: l.RequiresCEOApproval,
		Status:              l.Status,

		ApprovedByManager: uuidString(l.ApprovedByManager),
		ManagerApprovedAt: timeString(l.ManagerApprovedAt),
		ManagerRemarks:    l.ManagerRemarks,
		ApprovedByHR:      uuidString(l.ApprovedByHR),
		HRApprovedAt:      timeString(l.HRApprovedAt),
		HRRemarks:         l.HRRemarks,
		HRNotes:           l.HRNotes,
		ApprovedByCEO:     uuidString(l.ApprovedByCEO),
		CEOApprovedAt:     timeString(l.CEOApprovedAt),
		CEORemarks:        l.CEORemarks,

		RejectedBy:         uuidString(l.RejectedBy),
		RejectedByRole:     l.RejectedByRole,
		RejectedAt:         timeString(l.RejectedAt),
		RejectionRemarks:   l.RejectionRemarks,
		CancelledAt:        timeString(l.CancelledAt),
		CancellationReason: l.CancellationReason,
		CompletedAt:        timeString(l.CompletedAt),

		BalanceBefore: l.BalanceBefore,
		BalanceAfter:  l.BalanceAfter,

		Version:   l.Version,
		CreatedBy: l.CreatedBy.String(),
		AppliedOn: l.AppliedOn.Format(dateLayout),
	}
	if !l.CreatedAt.IsZero() {
		resp.CreatedAt = l.CreatedAt.Format(time.RFC3339)
	}
	if !l.UpdatedAt.IsZero() {
		resp.UpdatedAt = l.UpdatedAt.Format(time.RFC3339)
	}
	return resp
}

func mapToListResponse(leaves []LeaveRequest) []LeaveResponse {
	resp := make([]LeaveResponse, len(leaves))
	for i, l := range leaves {
		resp[i] = mapToResponse(l)
	}
	return resp
}

func uuidString(v *uuid.UUID) *string {
	if v == nil {
		return nil
	}
	s := v.String()
	return &s
}

func timeString(v *time.Time) *string {
	if v == nil {
		return nil
	}
	s := v.Format(time.RFC3339)
	return &s
}
