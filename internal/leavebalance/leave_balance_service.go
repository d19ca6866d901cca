package leavebalance

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"markpedia-os/internal/config"
	leavebalanceerrors "markpedia-os/internal/leavebalance/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultHistoryLimit = 50

//go:generate mockgen -source=leave_balance_service.go -destination=mock/leave_balance_service_mock.go -package=mock
type Service interface {
	GetByEmployee(ctx context.Context, companyID, employeeID string) (LeaveBalanceResponse, error)
	Upsert(ctx context.Context, companyID, actorID, employeeID string, req UpsertLeaveBalanceRequest) (LeaveBalanceResponse, error)
	SeedDefaults(ctx context.Context, companyID, employeeID string) (LeaveBalanceResponse, bool, error)
	History(ctx context.Context, companyID, employeeID string, limit int) ([]LeaveBalanceEntryResponse, error)
}

type service struct {
	db       *sql.DB
	repo     Repository
	defaults config.Allotment
	logger   *zap.Logger
}

func NewService(db *sql.DB, repo Repository, defaults config.Allotment, logger ...*zap.Logger) Service {
	l := zap.L().Named("leavebalance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leavebalance.service")
	}
	return &service{db: db, repo: repo, defaults: defaults, logger: l}
}

func (s *service) GetByEmployee(ctx context.Context, companyID, employeeID string) (LeaveBalanceResponse, error) {
	if _, err := uuid.Parse(companyID); err != nil {
		return LeaveBalanceResponse{}, leavebalanceerrors.ErrInvalidCompanyID
	}
	if _, err := uuid.Parse(employeeID); err != nil {
		return LeaveBalanceResponse{}, leavebalanceerrors.ErrInvalidEmployeeID
	}

	b, err := s.repo.FindByEmployee(ctx, companyID, employeeID)
	if err != nil {
		return LeaveBalanceResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*b), nil
}

func (s *service) Upsert(ctx context.Context, companyID, actorID, employeeID string, req UpsertLeaveBalanceRequest) (LeaveBalanceResponse, error) {
	s.logger.Debug("upsert leave balance requested",
		zap.String("company_id", companyID),
		zap.String("actor_id", actorID),
		zap.String("employee_id", employeeID),
	)

	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return LeaveBalanceResponse{}, leavebalanceerrors.ErrInvalidCompanyID
	}
	employeeUUID, err := uuid.Parse(employeeID)
	if err != nil {
		return LeaveBalanceResponse{}, leavebalanceerrors.ErrInvalidEmployeeID
	}
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return LeaveBalanceResponse{}, leavebalanceerrors.ErrInvalidActorID
	}
	for _, v := range req.values() {
		if v != nil && v.IsNegative() {
			return LeaveBalanceResponse{}, leavebalanceerrors.ErrInvalidAmount
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("upsert leave balance begin tx failed", zap.Error(err))
		return LeaveBalanceResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	b, err := qtx.FindByEmployeeForUpdate(ctx, companyID, employeeID)
	switch {
	case err == nil:
	case errors.Is(mapRepositoryError(err), leavebalanceerrors.ErrBalanceNotFound):
		b = s.newDefaultBalance(companyUUID, employeeUUID)
		if err := qtx.Create(ctx, b); err != nil {
			s.logger.Error("upsert leave balance create failed", zap.Error(err))
			return LeaveBalanceResponse{}, mapRepositoryError(err)
		}
	default:
		return LeaveBalanceResponse{}, mapRepositoryError(err)
	}

	for _, bucket := range Buckets {
		target := req.values()[bucket]
		if target == nil {
			continue
		}
		current, _ := b.Get(bucket)
		delta := target.Sub(current)
		if delta.IsZero() {
			continue
		}
		b.Set(bucket, *target)
		if err := qtx.AppendEntry(ctx, &LeaveBalanceEntry{
			ID:           uuid.New(),
			CompanyID:    companyUUID,
			EmployeeID:   employeeUUID,
			Bucket:       string(bucket),
			Kind:         EntryKindAdjust,
			Delta:        delta,
			BalanceAfter: *target,
			CreatedBy:    actorUUID,
		}); err != nil {
			s.logger.Error("upsert leave balance entry failed", zap.Error(err))
			return LeaveBalanceResponse{}, mapRepositoryError(err)
		}
	}

	if err := qtx.Update(ctx, b); err != nil {
		s.logger.Error("upsert leave balance persist failed", zap.Error(err))
		return LeaveBalanceResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("upsert leave balance commit failed", zap.Error(err))
		return LeaveBalanceResponse{}, err
	}
	s.logger.Info("upsert leave balance success",
		zap.String("company_id", companyID),
		zap.String("employee_id", employeeID),
	)
	return mapToResponse(*b), nil
}

// SeedDefaults creates the configured allotment for a new employee. It is
// idempotent: an existing balance is returned untouched with created=false.
func (s *service) SeedDefaults(ctx context.Context, companyID, employeeID string) (LeaveBalanceResponse, bool, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return LeaveBalanceResponse{}, false, leavebalanceerrors.ErrInvalidCompanyID
	}
	employeeUUID, err := uuid.Parse(employeeID)
	if err != nil {
		return LeaveBalanceResponse{}, false, leavebalanceerrors.ErrInvalidEmployeeID
	}

	existing, err := s.repo.FindByEmployee(ctx, companyID, employeeID)
	if err == nil {
		return mapToResponse(*existing), false, nil
	}
	if mapped := mapRepositoryError(err); !errors.Is(mapped, leavebalanceerrors.ErrBalanceNotFound) {
		return LeaveBalanceResponse{}, false, mapped
	}

	b := s.newDefaultBalance(companyUUID, employeeUUID)
	if err := s.repo.Create(ctx, b); err != nil {
		mapped := mapRepositoryError(err)
		if errors.Is(mapped, leavebalanceerrors.ErrConcurrentModification) {
			// Another consumer seeded the same employee first.
			existing, findErr := s.repo.FindByEmployee(ctx, companyID, employeeID)
			if findErr != nil {
				return LeaveBalanceResponse{}, false, mapRepositoryError(findErr)
			}
			return mapToResponse(*existing), false, nil
		}
		s.logger.Error("seed leave balance failed", zap.String("employee_id", employeeID), zap.Error(err))
		return LeaveBalanceResponse{}, false, mapped
	}

	s.logger.Info("seed leave balance success",
		zap.String("company_id", companyID),
		zap.String("employee_id", employeeID),
	)
	return mapToResponse(*b), true, nil
}

func (s *service) History(ctx context.Context, companyID, employeeID string, limit int) ([]LeaveBalanceEntryResponse, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return nil, leavebalanceerrors.ErrInvalidEmployeeID
	}
	if limit <= 0 || limit > 200 {
		limit = defaultHistoryLimit
	}
	entries, err := s.repo.ListEntries(ctx, companyID, employeeID, limit)
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	resp := make([]LeaveBalanceEntryResponse, len(entries))
	for i, e := range entries {
		resp[i] = mapEntryToResponse(e)
	}
	return resp, nil
}

func (s *service) newDefaultBalance(companyID, employeeID uuid.UUID) *LeaveBalance {
	return &LeaveBalance{
		ID:            uuid.New(),
		CompanyID:     companyID,
		EmployeeID:    employeeID,
		Annual:        s.defaults.Annual,
		Sick:          s.defaults.Sick,
		Compassionate: s.defaults.Compassionate,
		Paternity:     s.defaults.Paternity,
		Maternity:     s.defaults.Maternity,
		Study:         s.defaults.Study,
		Personal:      s.defaults.Personal,
		Version:       1,
	}
}

func mapToResponse(b LeaveBalance) LeaveBalanceResponse {
	resp := LeaveBalanceResponse{
		CompanyID:     b.CompanyID.String(),
		EmployeeID:    b.EmployeeID.String(),
		Annual:        b.Annual,
		Sick:          b.Sick,
		Compassionate: b.Compassionate,
		Paternity:     b.Paternity,
		Maternity:     b.Maternity,
		Study:         b.Study,
		Personal:      b.Personal,
		Version:       b.Version,
	}
	if !b.UpdatedAt.IsZero() {
		resp.UpdatedAt = b.UpdatedAt.Format(time.RFC3339)
	}
	return resp
}

func mapEntryToResponse(e LeaveBalanceEntry) LeaveBalanceEntryResponse {
	resp := LeaveBalanceEntryResponse{
		ID:           e.ID.String(),
		Bucket:       e.Bucket,
		Kind:         e.Kind,
		Delta:        e.Delta,
		BalanceAfter: e.BalanceAfter,
		CreatedBy:    e.CreatedBy.String(),
		CreatedAt:    e.CreatedAt.Format(time.RFC3339),
	}
	if e.LeaveRequestID != nil {
		v := e.LeaveRequestID.String()
		resp.LeaveRequestID = &v
	}
	return resp
}

