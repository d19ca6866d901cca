package leave_test

import (
	"context"
	"errors"
	"testing"

	"markpedia-os/internal/leave"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupLeaveRepo(t *testing.T) (leave.Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)
	return leave.NewRepository(gormDB), mock
}

func storedLeave() *leave.LeaveRequest {
	return &leave.LeaveRequest{
		ID:         uuid.New(),
		CompanyID:  uuid.New(),
		EmployeeID: uuid.New(),
		LeaveType:  leave.TypeAnnual,
		Status:     leave.StatusPending,
		TotalDays:  3,
		Reason:     "trip",
		Version:    4,
	}
}

func TestRepository_UpdateWithVersion(t *testing.T) {
	const updateSQL = `UPDATE "leave_requests" SET .* WHERE .*company_id = .*version = `

	t.Run("success bumps version", func(t *testing.T) {
		repo, mock := setupLeaveRepo(t)
		l := storedLeave()
		mock.ExpectExec(updateSQL).WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.UpdateWithVersion(context.Background(), l)

		require.NoError(t, err)
		assert.Equal(t, 5, l.Version)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no row matched is stale", func(t *testing.T) {
		repo, mock := setupLeaveRepo(t)
		l := storedLeave()
		mock.ExpectExec(updateSQL).WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.UpdateWithVersion(context.Background(), l)

		assert.ErrorIs(t, err, leave.ErrStaleVersion)
		assert.Equal(t, 4, l.Version)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("db error restores version", func(t *testing.T) {
		repo, mock := setupLeaveRepo(t)
		l := storedLeave()
		dbErr := errors.New("connection reset")
		mock.ExpectExec(updateSQL).WillReturnError(dbErr)

		err := repo.UpdateWithVersion(context.Background(), l)

		assert.ErrorIs(t, err, dbErr)
		assert.Equal(t, 4, l.Version)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
