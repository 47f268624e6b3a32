package domain

import "time"

// DetailRecord is one raw row of the details CSV. Numeric columns stay as
// strings here; lenient parsing happens during cleaning.
type DetailRecord struct {
	EventID          string
	EventType        string
	State            string
	BeginDateTime    string
	EndDateTime      string
	InjuriesDirect   string
	InjuriesIndirect string
	DeathsDirect     string
	DeathsIndirect   string
	DamageProperty   string
}

// LocationRecord is one raw row of the locations CSV.
type LocationRecord struct {
	EventID   string
	Location  string
	Latitude  string
	Longitude string
}

// FatalityRecord is one raw row of the fatalities CSV.
type FatalityRecord struct {
	EventID      string
	FatalityID   string
	FatalityType string
	Age          string
	Sex          string
}

// LocationDetail is a parsed geographic point attached to an Event.
type LocationDetail struct {
	Name string
	Lat  float64
	Lon  float64
}

// Fatality is a parsed fatality row attached to an Event.
type Fatality struct {
	ID   string
	Type string
	Age  float64
	Sex  string
}

// Event is the cleaned, joined representation consumed by the summaries.
// Month is the full calendar month name derived from BeginTime, or "" when
// the begin timestamp was unparseable.
type Event struct {
	ID        string
	EventType string
	State     string
	BeginTime time.Time
	EndTime   time.Time
	Month     string

	Injuries int
	Deaths   int

	// DamageUSD is the parsed property damage in whole dollars.
	DamageUSD float64

	Locations  []LocationDetail
	Fatalities []Fatality
}

// TotalHealth is the combined human impact of the event.
func (e Event) TotalHealth() int {
	return e.Injuries + e.Deaths
}
