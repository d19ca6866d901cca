package leaveerrors

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
	ErrInvalidActorID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid actor id",
		http.StatusBadRequest,
	)
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid employee id",
		http.StatusBadRequest,
	)
	ErrInvalidDepartmentID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid department id",
		http.StatusBadRequest,
	)
	ErrInvalidLeaveID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid leave request id",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidDateRange = apperror.New(
		apperror.CodeInvalidInput,
		"start_date must be before or equal end_date",
		http.StatusBadRequest,
	)
	ErrNoWorkingDays = apperror.New(
		apperror.CodeInvalidInput,
		"leave period contains no working days",
		http.StatusBadRequest,
	)
	ErrInvalidLeaveType = apperror.New(
		apperror.CodeInvalidInput,
		"invalid leave type",
		http.StatusBadRequest,
	)
	ErrInvalidLeaveCategory = apperror.New(
		apperror.CodeInvalidInput,
		"leave_category must be PAID or UNPAID",
		http.StatusBadRequest,
	)
	ErrInvalidStatusFilter = apperror.New(
		apperror.CodeInvalidInput,
		"invalid status filter",
		http.StatusBadRequest,
	)
	ErrReasonRequired = apperror.New(
		apperror.CodeInvalidInput,
		"reason is required",
		http.StatusBadRequest,
	)
	ErrRejectionRemarksRequired = apperror.New(
		apperror.CodeInvalidInput,
		"remarks are required when rejecting a leave request",
		http.StatusBadRequest,
	)
	ErrInvalidLegacyArguments = apperror.New(
		apperror.CodeInvalidInput,
		"hr approval arguments could not be normalized",
		http.StatusBadRequest,
	)
	ErrEmployeeNotInCompany = apperror.New(
		apperror.CodeInvalidInput,
		"employee does not belong to this company",
		http.StatusBadRequest,
	)
	ErrLeaveOverlap = apperror.New(
		apperror.CodeConflict,
		"leave already exists in overlapping period",
		http.StatusConflict,
	)
	ErrLeaveNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave request not found",
		http.StatusNotFound,
	)
	ErrInvalidStatusTransition = apperror.New(
		apperror.CodeInvalidState,
		"invalid leave status transition",
		http.StatusConflict,
	)
	ErrLeavePeriodNotElapsed = apperror.New(
		apperror.CodeInvalidState,
		"leave cannot be completed before its end date has passed",
		http.StatusConflict,
	)
	ErrLeaveNotEditable = apperror.New(
		apperror.CodeInvalidState,
		"only pending leave requests can be edited",
		http.StatusConflict,
	)
	ErrBalanceAlreadyRecorded = apperror.New(
		apperror.CodeInvalidState,
		"balance was already recorded for this leave request",
		http.StatusConflict,
	)
	ErrUnauthorizedAction = apperror.New(
		apperror.CodeForbidden,
		"role is not allowed to perform this action",
		http.StatusForbidden,
	)
	ErrNotRequestOwner = apperror.New(
		apperror.CodeForbidden,
		"only the requesting employee can perform this action",
		http.StatusForbidden,
	)
	ErrApproverMismatch = apperror.New(
		apperror.CodeForbidden,
		"approver id does not match the authenticated user",
		http.StatusForbidden,
	)
	ErrConcurrentModification = apperror.New(
		apperror.CodeConcurrentModification,
		"leave request was modified concurrently, reload and retry",
		http.StatusConflict,
	)
)
