package leavebalanceerrors

import (
	"net/http"

	"markpedia-os/internal/shared/apperror"
)

var (
	ErrInvalidCompanyID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid company id",
		http.StatusBadRequest,
	)
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid employee id",
		http.StatusBadRequest,
	)
	ErrInvalidActorID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid actor id",
		http.StatusBadRequest,
	)
	ErrBalanceNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave balance not found",
		http.StatusNotFound,
	)
	ErrUnknownBucket = apperror.New(
		apperror.CodeInvalidInput,
		"leave type has no balance",
		http.StatusBadRequest,
	)
	ErrInvalidAmount = apperror.New(
		apperror.CodeInvalidInput,
		"balance amount must not be negative",
		http.StatusBadRequest,
	)
	ErrInsufficientBalance = apperror.New(
		apperror.CodeInvalidState,
		"insufficient leave balance",
		http.StatusUnprocessableEntity,
	)
	ErrMovementAlreadyApplied = apperror.New(
		apperror.CodeConflict,
		"balance movement already applied for this leave request",
		http.StatusConflict,
	)
	ErrConcurrentModification = apperror.New(
		apperror.CodeConcurrentModification,
		"leave balance was modified concurrently, reload and retry",
		http.StatusConflict,
	)
)
