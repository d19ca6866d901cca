package leavebalance

import (
	"context"
	"database/sql"

	leavebalanceerrors "markpedia-os/internal/leavebalance/errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Movement describes one debit or restore caused by a leave request.
type Movement struct {
	CompanyID      uuid.UUID
	EmployeeID     uuid.UUID
	Bucket         Bucket
	Days           decimal.Decimal
	LeaveRequestID uuid.UUID
	ActorID        uuid.UUID
}

type MovementResult struct {
	Before decimal.Decimal
	After  decimal.Decimal
}

// Ledger moves balance on behalf of the leave workflow. It always runs on the
// caller's transaction so the request update and the balance movement commit
// together.
//
//go:generate mockgen -source=leave_balance_ledger.go -destination=mock/leave_balance_ledger_mock.go -package=mock
type Ledger interface {
	WithTx(tx *sql.Tx) Ledger
	Debit(ctx context.Context, mv Movement) (MovementResult, error)
	Restore(ctx context.Context, mv Movement) (MovementResult, error)
	// Snapshot reads the bucket without moving it; Before and After are equal.
	Snapshot(ctx context.Context, mv Movement) (MovementResult, error)
}

type ledger struct {
	repo   Repository
	logger *zap.Logger
}

func NewLedger(repo Repository, logger ...*zap.Logger) Ledger {
	l := zap.L().Named("leavebalance.ledger")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leavebalance.ledger")
	}
	return &ledger{repo: repo, logger: l}
}

func (l *ledger) WithTx(tx *sql.Tx) Ledger {
	return &ledger{repo: l.repo.WithTx(tx), logger: l.logger}
}

func (l *ledger) Debit(ctx context.Context, m Movement) (MovementResult, error) {
	return l.move(ctx, m, EntryKindDebit, m.Days.Neg())
}

func (l *ledger) Restore(ctx context.Context, m Movement) (MovementResult, error) {
	return l.move(ctx, m, EntryKindRestore, m.Days)
}

func (l *ledger) Snapshot(ctx context.Context, m Movement) (MovementResult, error) {
	b, err := l.repo.FindByEmployeeForUpdate(ctx, m.CompanyID.String(), m.EmployeeID.String())
	if err != nil {
		return MovementResult{}, mapRepositoryError(err)
	}
	current, ok := b.Get(m.Bucket)
	if !ok {
		return MovementResult{}, leavebalanceerrors.ErrUnknownBucket
	}
	return MovementResult{Before: current, After: current}, nil
}

func (l *ledger) move(ctx context.Context, m Movement, kind string, delta decimal.Decimal) (MovementResult, error) {
	if m.Days.IsNegative() {
		return MovementResult{}, leavebalanceerrors.ErrInvalidAmount
	}

	b, err := l.repo.FindByEmployeeForUpdate(ctx, m.CompanyID.String(), m.EmployeeID.String())
	if err != nil {
		return MovementResult{}, mapRepositoryError(err)
	}

	before, after, err := ApplyDelta(b, m.Bucket, delta)
	if err != nil {
		l.logger.Warn("balance movement rejected",
			zap.String("employee_id", m.EmployeeID.String()),
			zap.String("bucket", string(m.Bucket)),
			zap.String("kind", kind),
			zap.String("delta", delta.String()),
			zap.Error(err),
		)
		return MovementResult{}, err
	}

	if err := l.repo.Update(ctx, b); err != nil {
		return MovementResult{}, mapRepositoryError(err)
	}

	requestID := m.LeaveRequestID
	entry := &LeaveBalanceEntry{
		ID:             uuid.New(),
		CompanyID:      m.CompanyID,
		EmployeeID:     m.EmployeeID,
		LeaveRequestID: &requestID,
		Bucket:         string(m.Bucket),
		Kind:           kind,
		Delta:          delta,
		BalanceAfter:   after,
		CreatedBy:      m.ActorID,
	}
	if err := l.repo.AppendEntry(ctx, entry); err != nil {
		return MovementResult{}, mapRepositoryError(err)
	}

	l.logger.Info("balance moved",
		zap.String("employee_id", m.EmployeeID.String()),
		zap.String("leave_request_id", requestID.String()),
		zap.String("bucket", string(m.Bucket)),
		zap.String("kind", kind),
		zap.String("before", before.String()),
		zap.String("after", after.String()),
	)
	return MovementResult{Before: before, After: after}, nil
}

// ApplyDelta adds delta to one bucket of b. A bucket never goes below zero.
func ApplyDelta(b *LeaveBalance, bucket Bucket, delta decimal.Decimal) (decimal.Decimal, decimal.Decimal, error) {
	before, ok := b.Get(bucket)
	if !ok {
		return decimal.Zero, decimal.Zero, leavebalanceerrors.ErrUnknownBucket
	}
	after := before.Add(delta)
	if after.IsNegative() {
		return before, before, leavebalanceerrors.ErrInsufficientBalance
	}
	b.Set(bucket, after)
	return before, after, nil
}
