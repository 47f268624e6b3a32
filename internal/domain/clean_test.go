package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDamageUSD(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected float64
	}{
		{"thousands suffix", "10.5K", 10_500},
		{"millions suffix", "2M", 2_000_000},
		{"lowercase suffix", "25k", 25_000},
		{"no suffix", "750", 750},
		{"empty defaults to zero", "", 0},
		{"whitespace only", "   ", 0},
		{"zero literal", "0", 0},
		{"billions suffix has no multiplier", "2B", 2},
		{"no numeric magnitude", "K", 0},
		{"garbage", "unknown", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseDamageUSD(tt.text))
		})
	}
}

func TestParseDamageUSD_Idempotent(t *testing.T) {
	for _, text := range []string{"10.5K", "2M", "", "UNK"} {
		assert.Equal(t, ParseDamageUSD(text), ParseDamageUSD(text), "text %q", text)
	}
}

func TestDamageFallback(t *testing.T) {
	tests := []struct {
		text     string
		expected bool
	}{
		{"10.5K", false},
		{"2M", false},
		{"2B", false}, // magnitude parses; only the multiplier is missing
		{"0", false},
		{"", false}, // absent is a default, not a fallback
		{"   ", false},
		{"K", true},
		{"UNK", true},
		{"n/a", true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, DamageFallback(tt.text), "text %q", tt.text)
	}
}

func TestNormalizeEventType(t *testing.T) {
	for _, raw := range []string{"tornado", "TORNADO", "Tornado", " tornado "} {
		assert.Equal(t, "Tornado", NormalizeEventType(raw), "input %q", raw)
	}

	assert.Equal(t, "Flash Flood", NormalizeEventType("FLASH FLOOD"))
	assert.Equal(t, "", NormalizeEventType("  "))
}

func TestCleanEvent(t *testing.T) {
	rec := DetailRecord{
		EventID:          "100001",
		EventType:        "winter STORM",
		State:            "MINNESOTA",
		BeginDateTime:    "2019-02-03 04:00:00",
		EndDateTime:      "2019-02-04 10:00:00",
		InjuriesDirect:   "2",
		InjuriesIndirect: "NA",
		DeathsDirect:     "0",
		DeathsIndirect:   "1",
		DamageProperty:   "10.5K",
	}

	event := CleanEvent(rec, nil, nil)

	assert.Equal(t, "100001", event.ID)
	assert.Equal(t, "Winter Storm", event.EventType)
	assert.Equal(t, "MINNESOTA", event.State)
	assert.Equal(t, time.Date(2019, 2, 3, 4, 0, 0, 0, time.UTC), event.BeginTime)
	assert.Equal(t, "February", event.Month)
	assert.Equal(t, 2, event.Injuries)
	assert.Equal(t, 1, event.Deaths)
	assert.Equal(t, 3, event.TotalHealth())
	assert.Equal(t, 10_500.0, event.DamageUSD)
	assert.Empty(t, event.Locations)
	assert.Empty(t, event.Fatalities)
}

func TestCleanEvent_UnparseableTimestamp(t *testing.T) {
	rec := DetailRecord{
		EventID:       "100002",
		EventType:     "hail",
		BeginDateTime: "13-APR-19 15:10:00",
	}

	event := CleanEvent(rec, nil, nil)

	assert.True(t, event.BeginTime.IsZero())
	assert.Equal(t, "", event.Month, "unparseable begin time must leave month absent")
}

func TestCleanEvent_Enrichments(t *testing.T) {
	rec := DetailRecord{EventID: "100003", EventType: "tornado", BeginDateTime: "2019-05-20 17:35:00"}
	locations := []LocationRecord{
		{EventID: "100003", Location: "SAPULPA", Latitude: "36.01", Longitude: "-96.11"},
	}
	fatalities := []FatalityRecord{
		{EventID: "100003", FatalityID: "40001", FatalityType: "D", Age: "61", Sex: "M"},
		{EventID: "100003", FatalityID: "40002", FatalityType: "I", Age: "", Sex: "F"},
	}

	event := CleanEvent(rec, locations, fatalities)

	require.Len(t, event.Locations, 1)
	assert.Equal(t, LocationDetail{Name: "SAPULPA", Lat: 36.01, Lon: -96.11}, event.Locations[0])

	require.Len(t, event.Fatalities, 2)
	assert.Equal(t, 61.0, event.Fatalities[0].Age)
	assert.Equal(t, 0.0, event.Fatalities[1].Age)
}

func TestParseCountOrZero(t *testing.T) {
	tests := []struct {
		in       string
		expected int
	}{
		{"3", 3},
		{"", 0},
		{"NA", 0},
		{"na", 0},
		{"-1", 0},
		{"junk", 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, parseCountOrZero(tt.in), "input %q", tt.in)
	}
}
