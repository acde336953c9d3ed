package context

import (
	"context"
)

type contextKey string

var requestInfoKey contextKey = "request_info"

// RequestInfo is attached once per request by the request-id middleware.
// Handlers fill MeetingID so the access log can report it.
type RequestInfo struct {
	RequestID string
	MeetingID string
}

func SetRequestInfo(ctx context.Context, info *RequestInfo) context.Context {
	return context.WithValue(ctx, requestInfoKey, info)
}

func GetRequestInfo(ctx context.Context) *RequestInfo {
	if info, ok := ctx.Value(requestInfoKey).(*RequestInfo); ok {
		return info
	}
	return nil
}

// GetRequestID returns "" outside a request
func GetRequestID(ctx context.Context) string {
	if info := GetRequestInfo(ctx); info != nil {
		return info.RequestID
	}
	return ""
}

// SetMeetingID records the meeting a request operates on, if request info is present
func SetMeetingID(ctx context.Context, meetingID string) {
	if info := GetRequestInfo(ctx); info != nil {
		info.MeetingID = meetingID
	}
}
