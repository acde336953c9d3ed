package dtos

import (
	"aiso/tripdesk/internal/models/entities"
)

// ConfirmResponse is returned with HTTP 202: planning continues asynchronously
type ConfirmResponse struct {
	TaskID    string `json:"taskId"`
	MeetingID string `json:"meetingId"`
	Status    string `json:"status"`
	Message   string `json:"message,omitempty"`
}

type ReasoningResponse struct {
	MeetingID string                       `json:"meetingId"`
	Log       []entities.ReasoningLogEntry `json:"log"`
}

type FlightSearchResponse struct {
	SearchID   string                     `json:"searchId"`
	Status     string                     `json:"status"`
	Candidates []entities.FlightCandidate `json:"candidates"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}
