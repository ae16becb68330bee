package shared

import (
	"errors"
	"net/http"
)

// Error codes surfaced in API responses and matched by the client when it
// classifies a failed completion call.
const (
	CodeActivitiesIncomplete = "activities_incomplete"
	CodeNotFound             = "not_found"
	CodeValidation           = "validation_failed"
)

// ErrActivitiesIncomplete is the sentinel the progression controller checks
// with errors.Is when a lesson completion is rejected because mandatory
// activities have not been answered correctly yet.
var ErrActivitiesIncomplete = errors.New("activities incomplete")

type AppError struct {
	StatusCode int         `json:"-"`
	Code       string      `json:"code"`
	Message    string      `json:"message"`
	Data       interface{} `json:"data,omitempty"`

	cause error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.cause
}

func NewAppError(statusCode int, code, message string) *AppError {
	return &AppError{StatusCode: statusCode, Code: code, Message: message}
}

func NotFoundError(message string) *AppError {
	return &AppError{StatusCode: http.StatusNotFound, Code: CodeNotFound, Message: message}
}

func RequestValidationError(message string, data interface{}) *AppError {
	return &AppError{StatusCode: http.StatusBadRequest, Code: CodeValidation, Message: message, Data: data}
}

// ActivitiesIncompleteError reports which activities are still missing. It
// wraps ErrActivitiesIncomplete so both server and client handle it with
// errors.Is.
func ActivitiesIncompleteError(missing []string) *AppError {
	return &AppError{
		StatusCode: http.StatusConflict,
		Code:       CodeActivitiesIncomplete,
		Message:    "lesson has incomplete activities",
		Data:       missing,
		cause:      ErrActivitiesIncomplete,
	}
}

func GetAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
