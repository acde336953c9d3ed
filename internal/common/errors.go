package common

import (
	"errors"
	"fmt"

	"aiso/tripdesk/internal/constants"
)

// AppError carries an error code from constants alongside a message meant for
// callers and an optional wrapped cause.
type AppError struct {
	Code    string
	Message string
	Details string
	Err     error
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

// Is matches on the error code, and MISSING_MEETING also matches INVALID_INPUT.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	if e.Code == t.Code {
		return true
	}
	return e.Code == constants.ErrCodeMissingMeeting && t.Code == constants.ErrCodeInvalidInput
}

var (
	ErrInvalidInput     = &AppError{Code: constants.ErrCodeInvalidInput, Message: "invalid input"}
	ErrMissingMeeting   = &AppError{Code: constants.ErrCodeMissingMeeting, Message: constants.MsgMeetingRequired}
	ErrNotFound         = &AppError{Code: constants.ErrCodeNotFound, Message: "not found"}
	ErrTransportFailure = &AppError{Code: constants.ErrCodeTransportFailure, Message: "transport failure"}
)

func InvalidInput(message string) *AppError {
	return &AppError{Code: constants.ErrCodeInvalidInput, Message: message}
}

func MissingMeeting() *AppError {
	return &AppError{Code: constants.ErrCodeMissingMeeting, Message: constants.MsgMeetingRequired}
}

func NotFound(message string) *AppError {
	return &AppError{Code: constants.ErrCodeNotFound, Message: message}
}

func TransportFailure(message string, err error) *AppError {
	return &AppError{Code: constants.ErrCodeTransportFailure, Message: message, Err: err}
}

func StoreFailure(message string, err error) *AppError {
	return &AppError{Code: constants.ErrCodeStoreFailure, Message: message, Err: err}
}

// ErrorCode returns the code of the first AppError in the chain, or "".
func ErrorCode(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// UserMessage converts any failure into the string shown to the user.
// Invalid input keeps its own message so forms can surface it as-is.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return constants.MsgGenericFailure
	}
	switch appErr.Code {
	case constants.ErrCodeInvalidInput:
		if appErr.Message != "" {
			return appErr.Message
		}
	case constants.ErrCodeMissingMeeting:
		return constants.MsgSelectMeeting
	}
	return constants.GetErrorMessage(appErr.Code)
}
