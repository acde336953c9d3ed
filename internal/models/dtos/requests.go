package dtos

import "strings"

// FlightSearchRequest accepts both the flat body and the frontend's nested
// {meetingId, preferences: {freeText}} body.
type FlightSearchRequest struct {
	MeetingID   string             `json:"meetingId"`
	FreeText    string             `json:"freeText,omitempty"`
	Preferences *SearchPreferences `json:"preferences,omitempty"`
}

type SearchPreferences struct {
	FreeText string `json:"freeText"`
}

// FreeTextValue returns the free-text preferences from whichever field carries them
func (r FlightSearchRequest) FreeTextValue() string {
	if text := strings.TrimSpace(r.FreeText); text != "" {
		return text
	}
	if r.Preferences != nil {
		return strings.TrimSpace(r.Preferences.FreeText)
	}
	return ""
}

type CreateBookingRequest struct {
	MeetingID   string `json:"meetingId"`
	CandidateID string `json:"candidateId"`
}
