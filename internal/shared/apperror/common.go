package apperror

import "net/http"

var (
	ErrNotFound = New(
		CodeNotFound,
		"Resource not found",
		http.StatusNotFound,
	)

	ErrForbidden = New(
		CodeForbidden,
		"You do not have permission to access this resource",
		http.StatusForbidden,
	)

	ErrInternal = New(
		CodeInternalError,
		"Internal server error",
		http.StatusInternalServerError,
	)

	ErrUnauthorized = New(
		CodeUnauthorized,
		"Authentication is required",
		http.StatusUnauthorized,
	)

	ErrInvalidInput = New(
		CodeInvalidInput,
		"The provided input is invalid",
		http.StatusBadRequest,
	)
)

func RequiredField(field string) *AppError {
	return New(CodeValidation, field+" is required", http.StatusBadRequest)
}

func InvalidField(field string) *AppError {
	return New(CodeValidation, field+" is invalid", http.StatusBadRequest)
}

var (
	ErrTokenMissing = New(CodeUnauthorized, "Token not found", http.StatusUnauthorized)
	ErrInvalidToken = New(CodeUnauthorized, "Invalid or malformed token", http.StatusUnauthorized)
	ErrTokenExpired = New(CodeUnauthorized, "Token has expired", http.StatusUnauthorized)

	ErrTooManyRequests = New(CodeTooManyRequests, "Too many requests", http.StatusTooManyRequests)
	ErrRequestInFlight = New(CodeConflict, "An identical request is still being processed", http.StatusConflict)
)
