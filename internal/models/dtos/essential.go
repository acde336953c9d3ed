package dtos

import "aiso/tripdesk/internal/models/entities"

// LegacyEssential is the {from, to, tripType, stayRange} shape that seeded
// defaults are stored in. The normalizer folds it into entities.PreferenceRecord.
type LegacyEssential struct {
	MeetingID        string              `json:"meetingId"`
	From             entities.Airport    `json:"from"`
	To               entities.Airport    `json:"to"`
	Class            entities.CabinClass `json:"class"`
	TripType         entities.TripType   `json:"tripType"`
	StayRange        entities.StayRange  `json:"stayRange"`
	ArriveBeforeDays entities.DayRange   `json:"arriveBeforeDays"`
}
