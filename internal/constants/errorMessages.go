package constants

const (
	MsgPlanningStarted      = "Planning started"
	MsgAgentPlanningStarted = "Agent planning started"
	MsgMeetingRequired      = "meetingId is required"
	MsgCandidateRequired    = "missing candidateId"
	MsgBodyRequired         = "request body is required"
	MsgBodyNotObject        = "request body must be a JSON object"
	MsgBookingNotFound      = "not found"
	MsgCandidateNotFound    = "candidate was not returned by a recent search for this meeting"
)

// User-facing strings shown at the component boundary.
const (
	MsgSelectMeeting  = "Select a meeting first"
	MsgMissingMeeting = "Missing meeting"
	MsgSearchFailed   = "Sorry, search failed."
	MsgSaveFailed     = "Saving failed. Please try again."
	MsgGenericFailure = "Something went wrong. Please try again."
	MsgNothingFound   = "Nothing to show yet."
)
