package leave

import (
	"errors"
	"strings"

	leaveerrors "markpedia-os/internal/leave/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return leaveerrors.ErrLeaveNotFound
	}
	if errors.Is(err, ErrStaleVersion) {
		return leaveerrors.ErrConcurrentModification
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23503":
			if strings.Contains(pgErr.ConstraintName, "employee") {
				return leaveerrors.ErrEmployeeNotInCompany
			}
			if strings.Contains(pgErr.ConstraintName, "department") {
				return leaveerrors.ErrInvalidDepartmentID
			}
		case "22P02":
			return leaveerrors.ErrInvalidLeaveID
		}
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "invalid input syntax for type uuid") {
		return leaveerrors.ErrInvalidLeaveID
	}

	return err
}
