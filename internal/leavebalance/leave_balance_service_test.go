package leavebalance_test

import (
	"context"
	"database/sql"
	"testing"

	"markpedia-os/internal/config"
	"markpedia-os/internal/leavebalance"
	leavebalanceerrors "markpedia-os/internal/leavebalance/errors"
	leavebalanceMock "markpedia-os/internal/leavebalance/mock"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"
)

type serviceDeps struct {
	db      *sql.DB
	sqlMock sqlmock.Sqlmock
	service leavebalance.Service
	repo    *leavebalanceMock.MockRepository
}

var testAllotment = config.Allotment{
	Annual:        decimal.NewFromInt(20),
	Sick:          decimal.NewFromInt(10),
	Compassionate: decimal.NewFromInt(5),
	Paternity:     decimal.NewFromInt(10),
	Maternity:     decimal.NewFromInt(90),
	Study:         decimal.NewFromInt(5),
	Personal:      decimal.NewFromInt(3),
}

func setupServiceTest(t *testing.T) *serviceDeps {
	ctrl := gomock.NewController(t)
	db, sqlMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := leavebalanceMock.NewMockRepository(ctrl)
	return &serviceDeps{
		db:      db,
		sqlMock: sqlMock,
		service: leavebalance.NewService(db, repo, testAllotment),
		repo:    repo,
	}
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func decimalPtr(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func TestLeaveBalanceService_GetByEmployee(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	employeeID := uuid.New().String()

	t.Run("success", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.repo.EXPECT().FindByEmployee(ctx, companyID, employeeID).Return(&leavebalance.LeaveBalance{
			CompanyID:  uuid.MustParse(companyID),
			EmployeeID: uuid.MustParse(employeeID),
			Annual:     decimal.NewFromInt(12),
			Version:    4,
		}, nil)

		resp, err := deps.service.GetByEmployee(ctx, companyID, employeeID)

		require.NoError(t, err)
		assert.Equal(t, employeeID, resp.EmployeeID)
		assert.True(t, decimal.NewFromInt(12).Equal(resp.Annual))
		assert.Equal(t, 4, resp.Version)
	})

	t.Run("negative not found", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.repo.EXPECT().FindByEmployee(ctx, companyID, employeeID).Return(nil, gorm.ErrRecordNotFound)

		_, err := deps.service.GetByEmployee(ctx, companyID, employeeID)

		assert.ErrorIs(t, err, leavebalanceerrors.ErrBalanceNotFound)
	})

	t.Run("negative invalid employee id", func(t *testing.T) {
		deps := setupServiceTest(t)

		_, err := deps.service.GetByEmployee(ctx, companyID, "not-a-uuid")

		assert.ErrorIs(t, err, leavebalanceerrors.ErrInvalidEmployeeID)
	})
}

func TestLeaveBalanceService_Upsert(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	employeeID := uuid.New().String()
	actorID := uuid.New().String()

	t.Run("success writes adjust entries for changed buckets", func(t *testing.T) {
		deps := setupServiceTest(t)
		expectTx(t, deps.sqlMock, true)

		existing := &leavebalance.LeaveBalance{
			CompanyID:  uuid.MustParse(companyID),
			EmployeeID: uuid.MustParse(employeeID),
			Annual:     decimal.NewFromInt(20),
			Sick:       decimal.NewFromInt(10),
			Version:    2,
		}
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().FindByEmployeeForUpdate(ctx, companyID, employeeID).Return(existing, nil)
		deps.repo.EXPECT().AppendEntry(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, e *leavebalance.LeaveBalanceEntry) error {
			assert.Equal(t, leavebalance.EntryKindAdjust, e.Kind)
			assert.Equal(t, string(leavebalance.BucketAnnual), e.Bucket)
			assert.True(t, decimal.NewFromInt(5).Equal(e.Delta))
			assert.Nil(t, e.LeaveRequestID)
			assert.Equal(t, actorID, e.CreatedBy.String())
			return nil
		})
		deps.repo.EXPECT().Update(ctx, existing).Return(nil)

		resp, err := deps.service.Upsert(ctx, companyID, actorID, employeeID, leavebalance.UpsertLeaveBalanceRequest{
			Annual: decimalPtr(25),
			Sick:   decimalPtr(10),
		})

		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(25).Equal(resp.Annual))
		assert.True(t, decimal.NewFromInt(10).Equal(resp.Sick))
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("success creates defaults when missing", func(t *testing.T) {
		deps := setupServiceTest(t)
		expectTx(t, deps.sqlMock, true)

		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().FindByEmployeeForUpdate(ctx, companyID, employeeID).Return(nil, gorm.ErrRecordNotFound)
		deps.repo.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, b *leavebalance.LeaveBalance) error {
			assert.True(t, testAllotment.Annual.Equal(b.Annual))
			return nil
		})
		deps.repo.EXPECT().AppendEntry(ctx, gomock.Any()).Return(nil)
		deps.repo.EXPECT().Update(ctx, gomock.Any()).Return(nil)

		resp, err := deps.service.Upsert(ctx, companyID, actorID, employeeID, leavebalance.UpsertLeaveBalanceRequest{
			Study: decimalPtr(8),
		})

		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(8).Equal(resp.Study))
		assert.True(t, testAllotment.Maternity.Equal(resp.Maternity))
	})

	t.Run("negative amount", func(t *testing.T) {
		deps := setupServiceTest(t)

		_, err := deps.service.Upsert(ctx, companyID, actorID, employeeID, leavebalance.UpsertLeaveBalanceRequest{
			Annual: decimalPtr(-1),
		})

		assert.ErrorIs(t, err, leavebalanceerrors.ErrInvalidAmount)
	})

	t.Run("negative concurrent update rolls back", func(t *testing.T) {
		deps := setupServiceTest(t)
		expectTx(t, deps.sqlMock, false)

		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().FindByEmployeeForUpdate(ctx, companyID, employeeID).Return(&leavebalance.LeaveBalance{Annual: decimal.NewFromInt(1)}, nil)
		deps.repo.EXPECT().AppendEntry(ctx, gomock.Any()).Return(nil)
		deps.repo.EXPECT().Update(ctx, gomock.Any()).Return(leavebalance.ErrStaleVersion)

		_, err := deps.service.Upsert(ctx, companyID, actorID, employeeID, leavebalance.UpsertLeaveBalanceRequest{
			Annual: decimalPtr(3),
		})

		assert.ErrorIs(t, err, leavebalanceerrors.ErrConcurrentModification)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestLeaveBalanceService_SeedDefaults(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	employeeID := uuid.New().String()

	t.Run("success creates allotment", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.repo.EXPECT().FindByEmployee(ctx, companyID, employeeID).Return(nil, gorm.ErrRecordNotFound)
		deps.repo.EXPECT().Create(ctx, gomock.Any()).Return(nil)

		resp, created, err := deps.service.SeedDefaults(ctx, companyID, employeeID)

		require.NoError(t, err)
		assert.True(t, created)
		assert.True(t, decimal.NewFromInt(20).Equal(resp.Annual))
		assert.True(t, decimal.NewFromInt(3).Equal(resp.Personal))
		assert.Equal(t, 1, resp.Version)
	})

	t.Run("success existing balance untouched", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.repo.EXPECT().FindByEmployee(ctx, companyID, employeeID).Return(&leavebalance.LeaveBalance{
			Annual:  decimal.NewFromInt(7),
			Version: 9,
		}, nil)

		resp, created, err := deps.service.SeedDefaults(ctx, companyID, employeeID)

		require.NoError(t, err)
		assert.False(t, created)
		assert.True(t, decimal.NewFromInt(7).Equal(resp.Annual))
	})

	t.Run("success lost race returns winner", func(t *testing.T) {
		deps := setupServiceTest(t)
		gomock.InOrder(
			deps.repo.EXPECT().FindByEmployee(ctx, companyID, employeeID).Return(nil, gorm.ErrRecordNotFound),
			deps.repo.EXPECT().Create(ctx, gomock.Any()).Return(&pgconn.PgError{Code: "23505", ConstraintName: "uq_leave_balance_employee"}),
			deps.repo.EXPECT().FindByEmployee(ctx, companyID, employeeID).Return(&leavebalance.LeaveBalance{Version: 1}, nil),
		)

		_, created, err := deps.service.SeedDefaults(ctx, companyID, employeeID)

		require.NoError(t, err)
		assert.False(t, created)
	})
}

func TestLeaveBalanceService_History(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	employeeID := uuid.New().String()
	requestID := uuid.New()

	deps := setupServiceTest(t)
	deps.repo.EXPECT().ListEntries(ctx, companyID, employeeID, 50).Return([]leavebalance.LeaveBalanceEntry{
		{ID: uuid.New(), LeaveRequestID: &requestID, Bucket: "ANNUAL", Kind: leavebalance.EntryKindDebit, Delta: decimal.NewFromInt(-5)},
		{ID: uuid.New(), Bucket: "SICK", Kind: leavebalance.EntryKindAdjust, Delta: decimal.NewFromInt(2)},
	}, nil)

	resp, err := deps.service.History(ctx, companyID, employeeID, 1000)

	require.NoError(t, err)
	require.Len(t, resp, 2)
	require.NotNil(t, resp[0].LeaveRequestID)
	assert.Equal(t, requestID.String(), *resp[0].LeaveRequestID)
	assert.Nil(t, resp[1].LeaveRequestID)
}
