package leavebalance_test

import (
	"context"
	"testing"

	"markpedia-os/internal/leavebalance"
	leavebalanceerrors "markpedia-os/internal/leavebalance/errors"
	"markpedia-os/internal/leavebalance/mock"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"
)

type ledgerFixture struct {
	companyID  uuid.UUID
	employeeID uuid.UUID
	requestID  uuid.UUID
	actorID    uuid.UUID
}

func newLedgerFixture() ledgerFixture {
	return ledgerFixture{
		companyID:  uuid.New(),
		employeeID: uuid.New(),
		requestID:  uuid.New(),
		actorID:    uuid.New(),
	}
}

func (f ledgerFixture) movement(bucket leavebalance.Bucket, days int64) leavebalance.Movement {
	return leavebalance.Movement{
		CompanyID:      f.companyID,
		EmployeeID:     f.employeeID,
		Bucket:         bucket,
		Days:           decimal.NewFromInt(days),
		LeaveRequestID: f.requestID,
		ActorID:        f.actorID,
	}
}

func (f ledgerFixture) balance(annual int64) *leavebalance.LeaveBalance {
	return &leavebalance.LeaveBalance{
		ID:         uuid.New(),
		CompanyID:  f.companyID,
		EmployeeID: f.employeeID,
		Annual:     decimal.NewFromInt(annual),
		Sick:       decimal.NewFromInt(10),
		Version:    3,
	}
}

func TestLedger_Debit(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mock.NewMockRepository(ctrl)
		f := newLedgerFixture()
		bal := f.balance(20)

		repo.EXPECT().FindByEmployeeForUpdate(ctx, f.companyID.String(), f.employeeID.String()).Return(bal, nil)
		repo.EXPECT().Update(ctx, bal).DoAndReturn(func(_ context.Context, b *leavebalance.LeaveBalance) error {
			assert.True(t, decimal.NewFromInt(15).Equal(b.Annual))
			return nil
		})
		repo.EXPECT().AppendEntry(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, e *leavebalance.LeaveBalanceEntry) error {
			assert.Equal(t, leavebalance.EntryKindDebit, e.Kind)
			assert.Equal(t, string(leavebalance.BucketAnnual), e.Bucket)
			assert.True(t, decimal.NewFromInt(-5).Equal(e.Delta))
			assert.True(t, decimal.NewFromInt(15).Equal(e.BalanceAfter))
			require.NotNil(t, e.LeaveRequestID)
			assert.Equal(t, f.requestID, *e.LeaveRequestID)
			assert.Equal(t, f.actorID, e.CreatedBy)
			return nil
		})

		res, err := leavebalance.NewLedger(repo).Debit(ctx, f.movement(leavebalance.BucketAnnual, 5))

		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(20).Equal(res.Before))
		assert.True(t, decimal.NewFromInt(15).Equal(res.After))
	})

	t.Run("negative insufficient balance", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mock.NewMockRepository(ctrl)
		f := newLedgerFixture()

		repo.EXPECT().FindByEmployeeForUpdate(ctx, gomock.Any(), gomock.Any()).Return(f.balance(3), nil)

		_, err := leavebalance.NewLedger(repo).Debit(ctx, f.movement(leavebalance.BucketAnnual, 5))

		assert.ErrorIs(t, err, leavebalanceerrors.ErrInsufficientBalance)
	})

	t.Run("negative balance not found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mock.NewMockRepository(ctrl)
		f := newLedgerFixture()

		repo.EXPECT().FindByEmployeeForUpdate(ctx, gomock.Any(), gomock.Any()).Return(nil, gorm.ErrRecordNotFound)

		_, err := leavebalance.NewLedger(repo).Debit(ctx, f.movement(leavebalance.BucketAnnual, 1))

		assert.ErrorIs(t, err, leavebalanceerrors.ErrBalanceNotFound)
	})

	t.Run("negative stale version", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mock.NewMockRepository(ctrl)
		f := newLedgerFixture()

		repo.EXPECT().FindByEmployeeForUpdate(ctx, gomock.Any(), gomock.Any()).Return(f.balance(20), nil)
		repo.EXPECT().Update(ctx, gomock.Any()).Return(leavebalance.ErrStaleVersion)

		_, err := leavebalance.NewLedger(repo).Debit(ctx, f.movement(leavebalance.BucketAnnual, 1))

		assert.ErrorIs(t, err, leavebalanceerrors.ErrConcurrentModification)
	})

	t.Run("negative debit already applied", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mock.NewMockRepository(ctrl)
		f := newLedgerFixture()

		repo.EXPECT().FindByEmployeeForUpdate(ctx, gomock.Any(), gomock.Any()).Return(f.balance(20), nil)
		repo.EXPECT().Update(ctx, gomock.Any()).Return(nil)
		repo.EXPECT().AppendEntry(ctx, gomock.Any()).Return(&pgconn.PgError{
			Code:           "23505",
			ConstraintName: "uq_leave_balance_entry_request",
		})

		_, err := leavebalance.NewLedger(repo).Debit(ctx, f.movement(leavebalance.BucketAnnual, 1))

		assert.ErrorIs(t, err, leavebalanceerrors.ErrMovementAlreadyApplied)
	})

	t.Run("negative days", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mock.NewMockRepository(ctrl)
		f := newLedgerFixture()

		_, err := leavebalance.NewLedger(repo).Debit(ctx, f.movement(leavebalance.BucketAnnual, -1))

		assert.ErrorIs(t, err, leavebalanceerrors.ErrInvalidAmount)
	})
}

func TestLedger_Restore(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	repo := mock.NewMockRepository(ctrl)
	f := newLedgerFixture()
	bal := f.balance(15)

	repo.EXPECT().FindByEmployeeForUpdate(ctx, gomock.Any(), gomock.Any()).Return(bal, nil)
	repo.EXPECT().Update(ctx, bal).Return(nil)
	repo.EXPECT().AppendEntry(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, e *leavebalance.LeaveBalanceEntry) error {
		assert.Equal(t, leavebalance.EntryKindRestore, e.Kind)
		assert.True(t, decimal.NewFromInt(5).Equal(e.Delta))
		return nil
	})

	res, err := leavebalance.NewLedger(repo).Restore(ctx, f.movement(leavebalance.BucketAnnual, 5))

	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(15).Equal(res.Before))
	assert.True(t, decimal.NewFromInt(20).Equal(res.After))
	assert.True(t, decimal.NewFromInt(20).Equal(bal.Annual))
}

func TestApplyDelta(t *testing.T) {
	cases := []struct {
		name    string
		bucket  leavebalance.Bucket
		start   int64
		delta   int64
		after   int64
		wantErr error
	}{
		{"debit to zero", leavebalance.BucketSick, 4, -4, 0, nil},
		{"restore", leavebalance.BucketSick, 0, 2, 2, nil},
		{"overdraw", leavebalance.BucketSick, 1, -2, 1, leavebalanceerrors.ErrInsufficientBalance},
		{"unknown bucket", leavebalance.Bucket("OFFICIAL"), 1, -1, 0, leavebalanceerrors.ErrUnknownBucket},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			b := &leavebalance.LeaveBalance{Sick: decimal.NewFromInt(tt.start)}

			_, after, err := leavebalance.ApplyDelta(b, tt.bucket, decimal.NewFromInt(tt.delta))

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.True(t, decimal.NewFromInt(tt.after).Equal(after))
			got, _ := b.Get(tt.bucket)
			assert.True(t, decimal.NewFromInt(tt.after).Equal(got))
		})
	}
}

func TestLedger_Snapshot(t *testing.T) {
	ctx := context.Background()

	t.Run("reads the bucket without writing", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mock.NewMockRepository(ctrl)
		f := newLedgerFixture()

		repo.EXPECT().FindByEmployeeForUpdate(ctx, f.companyID.String(), f.employeeID.String()).Return(f.balance(12), nil)

		res, err := leavebalance.NewLedger(repo).Snapshot(ctx, f.movement(leavebalance.BucketAnnual, 5))

		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(12).Equal(res.Before))
		assert.True(t, decimal.NewFromInt(12).Equal(res.After))
	})

	t.Run("unknown bucket", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mock.NewMockRepository(ctrl)
		f := newLedgerFixture()

		repo.EXPECT().FindByEmployeeForUpdate(ctx, f.companyID.String(), f.employeeID.String()).Return(f.balance(12), nil)

		_, err := leavebalance.NewLedger(repo).Snapshot(ctx, f.movement(leavebalance.Bucket("UNPAID"), 5))

		assert.ErrorIs(t, err, leavebalanceerrors.ErrUnknownBucket)
	})
}
