package entities

import "time"

// BookingItinerary references the candidate a booking was made from
type BookingItinerary struct {
	CandidateID string `json:"candidateId"`
}

// Booking is created once per confirmed candidate selection and never updated
type Booking struct {
	BookingID          string           `json:"bookingId"`
	MeetingID          string           `json:"meetingId,omitempty"`
	Status             string           `json:"status"`
	ConfirmationNumber string           `json:"confirmationNumber,omitempty"`
	Itinerary          BookingItinerary `json:"itinerary"`
	CreatedAt          time.Time        `json:"createdAt"`
}
