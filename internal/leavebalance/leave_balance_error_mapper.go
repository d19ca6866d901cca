package leavebalance

import (
	"errors"
	"strings"

	leavebalanceerrors "markpedia-os/internal/leavebalance/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return leavebalanceerrors.ErrBalanceNotFound
	}
	if errors.Is(err, ErrStaleVersion) {
		return leavebalanceerrors.ErrConcurrentModification
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		switch pgErr.ConstraintName {
		case "uq_leave_balance_entry_request":
			return leavebalanceerrors.ErrMovementAlreadyApplied
		case "uq_leave_balance_employee":
			return leavebalanceerrors.ErrConcurrentModification
		}
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, "uq_leave_balance_entry_request") {
		return leavebalanceerrors.ErrMovementAlreadyApplied
	}

	return err
}
