// AngelaMos | 2026
// errors.go

package core

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrNotFound      = errors.New("resource not found")
	ErrDuplicateKey  = errors.New("duplicate key")
	ErrConflict      = errors.New("conflict")
	ErrPrecondition  = errors.New("precondition failed")
	ErrInvalidInput  = errors.New("invalid input")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("forbidden")
	ErrTokenExpired  = errors.New("token expired")
	ErrTokenInvalid  = errors.New("token invalid")
	ErrTokenRevoked  = errors.New("token revoked")
	ErrPaymentFailed = errors.New("payment failed")
)

type AppError struct {
	Err        error  `json:"-"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Code       string `json:"code"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(err error, message string, status int, code string) *AppError {
	return &AppError{
		Err:        err,
		Message:    message,
		StatusCode: status,
		Code:       code,
	}
}

func NotFoundError(resource string) *AppError {
	return NewAppError(
		ErrNotFound,
		resource+" not found",
		http.StatusNotFound,
		"NOT_FOUND",
	)
}

func DuplicateError(field string) *AppError {
	return NewAppError(
		ErrDuplicateKey,
		field+" already exists",
		http.StatusConflict,
		"DUPLICATE",
	)
}

func ConflictError(message string) *AppError {
	return NewAppError(ErrConflict, message, http.StatusConflict, "CONFLICT")
}

func PreconditionError(message string) *AppError {
	return NewAppError(
		ErrPrecondition,
		message,
		http.StatusConflict,
		"PRECONDITION_FAILED",
	)
}

func ValidationError(message string) *AppError {
	return NewAppError(
		ErrInvalidInput,
		message,
		http.StatusBadRequest,
		"VALIDATION_ERROR",
	)
}

func UnauthorizedError(message string) *AppError {
	if message == "" {
		message = "authentication required"
	}
	return NewAppError(
		ErrUnauthorized,
		message,
		http.StatusUnauthorized,
		"UNAUTHORIZED",
	)
}

func ForbiddenError(message string) *AppError {
	if message == "" {
		message = "insufficient permissions"
	}
	return NewAppError(ErrForbidden, message, http.StatusForbidden, "FORBIDDEN")
}

// TokenInvalidError is the single answer for every token failure. Callers
// must not learn whether the token was missing, forged, revoked or expired.
func TokenInvalidError() *AppError {
	return NewAppError(
		ErrTokenInvalid,
		"invalid or expired session",
		http.StatusUnauthorized,
		"UNAUTHORIZED",
	)
}

func InternalError(err error) *AppError {
	return NewAppError(
		err,
		"internal server error",
		http.StatusInternalServerError,
		"INTERNAL_ERROR",
	)
}

// FromError maps a wrapped domain error onto its HTTP representation.
func FromError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	switch {
	case errors.Is(err, ErrTokenExpired),
		errors.Is(err, ErrTokenInvalid),
		errors.Is(err, ErrTokenRevoked):
		return TokenInvalidError()
	case errors.Is(err, ErrUnauthorized):
		return UnauthorizedError("")
	case errors.Is(err, ErrForbidden):
		return ForbiddenError("")
	case errors.Is(err, ErrInvalidInput):
		return ValidationError(err.Error())
	case errors.Is(err, ErrNotFound):
		return NewAppError(
			err,
			err.Error(),
			http.StatusNotFound,
			"NOT_FOUND",
		)
	case errors.Is(err, ErrDuplicateKey):
		return NewAppError(
			err,
			"resource already exists",
			http.StatusConflict,
			"DUPLICATE",
		)
	case errors.Is(err, ErrPrecondition):
		return PreconditionError(err.Error())
	case errors.Is(err, ErrConflict):
		return ConflictError(err.Error())
	case errors.Is(err, ErrPaymentFailed):
		return NewAppError(
			err,
			"payment could not be processed",
			http.StatusBadGateway,
			"PAYMENT_FAILED",
		)
	default:
		return InternalError(err)
	}
}

