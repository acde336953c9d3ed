package common

import (
	"encoding/json"
	"errors"
	"net/http"

	"aiso/tripdesk/internal/constants"
	"aiso/tripdesk/internal/logging"
	"aiso/tripdesk/internal/models/dtos"
)

// HTTPStatus maps an error to its response status: invalid input is 400,
// unknown ids are 404, rate limiting is 429, everything else is 500.
func HTTPStatus(err error) int {
	switch ErrorCode(err) {
	case constants.ErrCodeInvalidInput, constants.ErrCodeMissingMeeting:
		return http.StatusBadRequest
	case constants.ErrCodeNotFound:
		return http.StatusNotFound
	case constants.ErrCodeRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// RespondError writes the {error, code} body for err. Internal failures are
// logged and reported with a generic message.
func RespondError(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	code := ErrorCode(err)

	msg := err.Error()
	var appErr *AppError
	if errors.As(err, &appErr) {
		msg = appErr.Message
	}
	if status == http.StatusInternalServerError {
		logging.Error("Request failed", "error", err, "code", code)
		msg = constants.GetErrorMessage(code)
	}

	WriteJSON(w, status, dtos.ErrorResponse{Error: msg, Code: code})
}

// WriteJSON marshals body and writes it with the given status
func WriteJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		logging.Error("JSON encode failed", "error", err)
	}
}
