package domain

import (
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// beginTimeLayout matches the StormEvents bulk CSV timestamp text,
// e.g. "2019-04-13 15:10:00".
const beginTimeLayout = "2006-01-02 15:04:05"

// titleCaser normalizes event type casing. Built once; cases.Caser is not
// safe for concurrent use but the pipeline is single-threaded.
var titleCaser = cases.Title(language.English)

// CleanEvent derives the report-ready Event from a raw detail row and its
// joined enrichments. Unparseable timestamps leave Month empty rather than
// failing the row; absent counts and damage text read as zero.
func CleanEvent(rec DetailRecord, locations []LocationRecord, fatalities []FatalityRecord) Event {
	begin := parseTimestamp(rec.BeginDateTime)
	end := parseTimestamp(rec.EndDateTime)

	month := ""
	if !begin.IsZero() {
		month = begin.Month().String()
	}

	return Event{
		ID:         rec.EventID,
		EventType:  NormalizeEventType(rec.EventType),
		State:      strings.TrimSpace(rec.State),
		BeginTime:  begin,
		EndTime:    end,
		Month:      month,
		Injuries:   parseCountOrZero(rec.InjuriesDirect) + parseCountOrZero(rec.InjuriesIndirect),
		Deaths:     parseCountOrZero(rec.DeathsDirect) + parseCountOrZero(rec.DeathsIndirect),
		DamageUSD:  ParseDamageUSD(rec.DamageProperty),
		Locations:  cleanLocations(locations),
		Fatalities: cleanFatalities(fatalities),
	}
}

// NormalizeEventType title-cases a free-text event type so "tornado",
// "TORNADO", and "Tornado" all land in one grouping key.
func NormalizeEventType(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	return titleCaser.String(strings.ToLower(value))
}

// ParseDamageUSD converts StormEvents damage text into whole dollars.
// The text is a numeric magnitude with an optional trailing scale marker:
// "K" multiplies by one thousand, "M" by one million, anything else by one.
// Empty text defaults to "0"; text with no leading numeric magnitude yields 0.
func ParseDamageUSD(text string) float64 {
	text = strings.TrimSpace(text)
	if text == "" {
		text = "0"
	}

	multiplier := 1.0
	switch {
	case strings.HasSuffix(text, "K"), strings.HasSuffix(text, "k"):
		multiplier = 1_000
	case strings.HasSuffix(text, "M"), strings.HasSuffix(text, "m"):
		multiplier = 1_000_000
	}

	magnitude, ok := leadingNumber(text)
	if !ok {
		return 0
	}
	return magnitude * multiplier
}

// DamageFallback reports whether damage text is present but carries no
// recognizable numeric magnitude, meaning ParseDamageUSD fell back to zero.
func DamageFallback(text string) bool {
	text = strings.TrimSpace(text)
	if text == "" {
		return false
	}
	_, ok := leadingNumber(text)
	return !ok
}

// leadingNumber parses the numeric prefix of a string, e.g. "10.5K" -> 10.5.
func leadingNumber(s string) (float64, bool) {
	end := 0
	seenDot := false
	for end < len(s) {
		c := s[end]
		if c >= '0' && c <= '9' {
			end++
			continue
		}
		if c == '.' && !seenDot {
			seenDot = true
			end++
			continue
		}
		break
	}
	if end == 0 {
		return 0, false
	}
	v, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// parseTimestamp parses a fixed-layout timestamp, returning the zero time on
// failure so callers can treat the field as absent.
func parseTimestamp(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(beginTimeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// parseCountOrZero parses a count column, treating empty, "NA", and
// unparseable text as zero. Negative counts never occur in the source data
// but are clamped anyway so health totals stay non-negative.
func parseCountOrZero(s string) int {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "NA") {
		return 0
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return 0
	}
	return v
}

// parseFloatOrZero parses a string as float64, returning 0 on failure.
func parseFloatOrZero(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

func cleanLocations(recs []LocationRecord) []LocationDetail {
	if len(recs) == 0 {
		return nil
	}
	out := make([]LocationDetail, 0, len(recs))
	for _, r := range recs {
		out = append(out, LocationDetail{
			Name: strings.TrimSpace(r.Location),
			Lat:  parseFloatOrZero(r.Latitude),
			Lon:  parseFloatOrZero(r.Longitude),
		})
	}
	return out
}

func cleanFatalities(recs []FatalityRecord) []Fatality {
	if len(recs) == 0 {
		return nil
	}
	out := make([]Fatality, 0, len(recs))
	for _, r := range recs {
		out = append(out, Fatality{
			ID:   r.FatalityID,
			Type: strings.TrimSpace(r.FatalityType),
			Age:  parseFloatOrZero(r.Age),
			Sex:  strings.TrimSpace(r.Sex),
		})
	}
	return out
}
