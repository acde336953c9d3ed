package preferences

import (
	"encoding/json"

	"aiso/tripdesk/internal/models/dtos"
	"aiso/tripdesk/internal/models/entities"
)

// Defaults is what a meeting without stored defaults resolves to:
// LAX to AMS, business, round-trip, staying 2 to 5 days.
func Defaults(meetingID string) []byte {
	return Legacy(meetingID,
		entities.Airport{Code: "LAX", Label: "Los Angeles (LAX)"},
		entities.Airport{Code: "AMS", Label: "Amsterdam (AMS)"},
		entities.CabinBusiness,
	)
}

// Legacy builds a defaults document in the {from, to, tripType, stayRange} shape
func Legacy(meetingID string, from, to entities.Airport, class entities.CabinClass) []byte {
	doc := dtos.LegacyEssential{
		MeetingID:        meetingID,
		From:             from,
		To:               to,
		Class:            class,
		TripType:         entities.TripRoundTrip,
		StayRange:        entities.StayRange{MinDays: 2, MaxDays: 5},
		ArriveBeforeDays: entities.DayRange{Min: arriveBeforeMin, Max: arriveBeforeMax},
	}
	raw, _ := json.Marshal(doc)
	return raw
}
