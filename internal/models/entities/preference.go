package entities

// CabinClass is the requested cabin for a trip
type CabinClass string

const (
	CabinEconomy        CabinClass = "economy"
	CabinPremiumEconomy CabinClass = "premium_economy"
	CabinBusiness       CabinClass = "business"
	CabinFirst          CabinClass = "first"
)

// Valid reports whether c is one of the known cabins
func (c CabinClass) Valid() bool {
	switch c {
	case CabinEconomy, CabinPremiumEconomy, CabinBusiness, CabinFirst:
		return true
	}
	return false
}

// TripType is one-way or round-trip
type TripType string

const (
	TripOneWay    TripType = "one-way"
	TripRoundTrip TripType = "round-trip"
)

func (t TripType) Valid() bool {
	return t == TripOneWay || t == TripRoundTrip
}

// Airport is an IATA code with an optional display label
type Airport struct {
	Code  string `json:"code"`
	Label string `json:"label,omitempty"`
}

// StayRange is the range shape of the stay duration
type StayRange struct {
	MinDays int `json:"minDays"`
	MaxDays int `json:"maxDays"`
}

// DayRange is an inclusive {min, max} window in days
type DayRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// PreferenceRecord is the canonical trip-essential record of a meeting.
// Code paths past the HTTP boundary only ever see this shape.
type PreferenceRecord struct {
	MeetingID        string     `json:"meetingId"`
	DepartureAirport Airport    `json:"departure_airport"`
	ArrivalAirport   Airport    `json:"arrival_airport"`
	CabinClass       CabinClass `json:"class"`
	TripType         TripType   `json:"trip_type"`
	Days             int        `json:"days"`
	StayRange        *StayRange `json:"stayRange,omitempty"`
	ArriveBeforeDays DayRange   `json:"arriveBeforeDays"`
	Currency         *string    `json:"currency"`
	Budget           *float64   `json:"budget"`
	OutboundDate     *string    `json:"outbound_date"`
}
