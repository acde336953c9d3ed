package preferences

import (
	"encoding/json"
	"math"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"aiso/tripdesk/internal/models/entities"
)

const (
	DefaultDays     = 3
	DefaultCabin    = entities.CabinEconomy
	DefaultTripType = entities.TripRoundTrip
	isoDateLayout   = "2006-01-02"
	arriveBeforeMin = 0
	arriveBeforeMax = 1
)

// Normalize folds any preference payload into the canonical record.
// Each field takes the first usable value from its list of aliases and falls
// back to a default otherwise. Malformed input yields the all-defaults record.
// Normalize never fails and normalizing its own output is a no-op.
func Normalize(raw []byte, meetingID string) entities.PreferenceRecord {
	var doc gjson.Result
	if gjson.ValidBytes(raw) {
		doc = gjson.ParseBytes(raw)
	}
	if !doc.IsObject() {
		doc = gjson.Result{}
	}

	rec := entities.PreferenceRecord{
		MeetingID:        meetingID,
		DepartureAirport: airport(doc, "departure_airport", "from"),
		ArrivalAirport:   airport(doc, "arrival_airport", "to"),
		CabinClass:       cabin(doc.Get("class"), doc.Get("travelClass")),
		TripType:         tripType(doc.Get("trip_type"), doc.Get("tripType")),
		StayRange:        stayRange(doc.Get("stayRange")),
		ArriveBeforeDays: dayRange(doc.Get("arriveBeforeDays")),
		Currency:         currency(doc.Get("currency")),
		Budget:           budget(doc.Get("budget")),
		OutboundDate:     isoDate(doc.Get("outbound_date")),
	}
	if rec.MeetingID == "" {
		rec.MeetingID = strings.TrimSpace(doc.Get("meetingId").String())
	}

	rec.Days = DefaultDays
	if d, ok := positiveInt(doc.Get("days")); ok {
		rec.Days = d
	} else if rec.StayRange != nil {
		rec.Days = rec.StayRange.MaxDays
	}
	return rec
}

// NormalizeRecord re-applies Normalize to an already decoded record
func NormalizeRecord(rec entities.PreferenceRecord) entities.PreferenceRecord {
	raw, err := json.Marshal(rec)
	if err != nil {
		return Normalize(nil, rec.MeetingID)
	}
	return Normalize(raw, rec.MeetingID)
}

// airport resolves <primary>.code, then <primary> as a bare string, then <legacy>.code
func airport(doc gjson.Result, primary, legacy string) entities.Airport {
	p := doc.Get(primary)
	if p.IsObject() {
		if a, ok := airportObject(p); ok {
			return a
		}
	}
	if p.Type == gjson.String {
		if code := p.String(); code != "" {
			return entities.Airport{Code: strings.ToUpper(code)}
		}
	}
	if l := doc.Get(legacy); l.IsObject() {
		if a, ok := airportObject(l); ok {
			return a
		}
	}
	return entities.Airport{}
}

func airportObject(obj gjson.Result) (entities.Airport, bool) {
	code := obj.Get("code")
	if code.Type != gjson.String || code.String() == "" {
		return entities.Airport{}, false
	}
	a := entities.Airport{Code: strings.ToUpper(code.String())}
	if label := obj.Get("label"); label.Type == gjson.String {
		a.Label = label.String()
	}
	return a, true
}

// foldEnum lower-cases and unifies separators so "Premium Economy" and
// "premium-economy" compare equal to "premium_economy".
func foldEnum(s, sep string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer(" ", sep, "_", sep, "-", sep).Replace(s)
}

func cabin(candidates ...gjson.Result) entities.CabinClass {
	for _, c := range candidates {
		if c.Type != gjson.String {
			continue
		}
		if v := entities.CabinClass(foldEnum(c.String(), "_")); v.Valid() {
			return v
		}
	}
	return DefaultCabin
}

func tripType(candidates ...gjson.Result) entities.TripType {
	for _, c := range candidates {
		if c.Type != gjson.String {
			continue
		}
		if v := entities.TripType(foldEnum(c.String(), "-")); v.Valid() {
			return v
		}
	}
	return DefaultTripType
}

func positiveInt(v gjson.Result) (int, bool) {
	if v.Type != gjson.Number {
		return 0, false
	}
	f := v.Float()
	if f < 1 || f != math.Trunc(f) {
		return 0, false
	}
	return int(f), true
}

// stayRange keeps the range when maxDays is usable; minDays is clamped into [0, maxDays]
func stayRange(v gjson.Result) *entities.StayRange {
	if !v.IsObject() {
		return nil
	}
	maxDays, ok := positiveInt(v.Get("maxDays"))
	if !ok {
		return nil
	}
	minDays := 0
	if m := v.Get("minDays"); m.Type == gjson.Number {
		minDays = int(m.Int())
	}
	minDays = max(0, min(minDays, maxDays))
	return &entities.StayRange{MinDays: minDays, MaxDays: maxDays}
}

func dayRange(v gjson.Result) entities.DayRange {
	fallback := entities.DayRange{Min: arriveBeforeMin, Max: arriveBeforeMax}
	if !v.IsObject() {
		return fallback
	}
	lower, upper := v.Get("min"), v.Get("max")
	if lower.Type != gjson.Number || upper.Type != gjson.Number {
		return fallback
	}
	minDays, maxDays := int(lower.Int()), int(upper.Int())
	if minDays < 0 || minDays > maxDays {
		return fallback
	}
	return entities.DayRange{Min: minDays, Max: maxDays}
}

func currency(v gjson.Result) *string {
	if v.Type != gjson.String {
		return nil
	}
	c := strings.ToUpper(strings.TrimSpace(v.String()))
	if c == "" {
		return nil
	}
	return &c
}

func budget(v gjson.Result) *float64 {
	if v.Type != gjson.Number {
		return nil
	}
	b := v.Float()
	if b < 0 || math.IsInf(b, 0) || math.IsNaN(b) {
		return nil
	}
	return &b
}

// isoDate accepts YYYY-MM-DD or a full RFC 3339 timestamp, keeping only the date
func isoDate(v gjson.Result) *string {
	if v.Type != gjson.String {
		return nil
	}
	s := strings.TrimSpace(v.String())
	if t, err := time.Parse(isoDateLayout, s); err == nil {
		d := t.Format(isoDateLayout)
		return &d
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		d := t.Format(isoDateLayout)
		return &d
	}
	return nil
}
