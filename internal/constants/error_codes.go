package constants

// Error codes shared by the services, the HTTP layer and the client.
const (
	ErrCodeInvalidInput     = "INVALID_INPUT"
	ErrCodeMissingMeeting   = "MISSING_MEETING"
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeTransportFailure = "TRANSPORT_FAILURE"
	ErrCodeRateLimited      = "RATE_LIMITED"
	ErrCodeStoreFailure     = "STORE_FAILURE"
)

var ErrorMessages = map[string]string{
	ErrCodeInvalidInput:     "Some required information is missing or invalid",
	ErrCodeMissingMeeting:   MsgSelectMeeting,
	ErrCodeNotFound:         MsgNothingFound,
	ErrCodeTransportFailure: "Unable to reach the travel service. Please try again",
	ErrCodeRateLimited:      "Too many requests. Please try again later",
	ErrCodeStoreFailure:     MsgGenericFailure,
}

// GetErrorMessage returns the human-readable message for an error code
func GetErrorMessage(code string) string {
	if msg, exists := ErrorMessages[code]; exists {
		return msg
	}
	return MsgGenericFailure
}
