package entities

import "time"

// FlightCandidate is one synthetic option returned by a search
type FlightCandidate struct {
	ID        string         `json:"id"`
	Price     float64        `json:"price"`
	Itinerary string         `json:"itinerary"`
	Provider  string         `json:"provider,omitempty"`
	Details   map[string]any `json:"details,omitempty"`
}

// FlightSearch is the stored result of one search request
type FlightSearch struct {
	SearchID   string            `json:"searchId"`
	MeetingID  string            `json:"meetingId"`
	FreeText   string            `json:"freeText,omitempty"`
	Status     string            `json:"status"`
	Candidates []FlightCandidate `json:"candidates"`
	CreatedAt  time.Time         `json:"createdAt"`
}
