package report

import (
	"testing"
	"time"

	"github.com/couchcryptid/storm-season-report/internal/domain"
	"github.com/google/go-cmp/cmp"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func event(category, state, month string, injuries, deaths int, damage float64) domain.Event {
	return domain.Event{
		EventType: category,
		State:     state,
		Month:     month,
		Injuries:  injuries,
		Deaths:    deaths,
		DamageUSD: damage,
	}
}

func TestHealthByCategory(t *testing.T) {
	events := []domain.Event{
		event("Tornado", "TEXAS", "May", 10, 2, 0),
		event("Hail", "TEXAS", "May", 1, 0, 0),
		event("Tornado", "OKLAHOMA", "June", 5, 3, 0),
	}

	rows := healthByCategory(events)

	require.Len(t, rows, 2)
	assert.Equal(t, CategoryHealth{Category: "Tornado", Injuries: 15, Deaths: 5, TotalHealth: 20}, rows[0])
	assert.Equal(t, CategoryHealth{Category: "Hail", Injuries: 1, Deaths: 0, TotalHealth: 1}, rows[1])

	for _, r := range rows {
		assert.Equal(t, r.Injuries+r.Deaths, r.TotalHealth)
		assert.GreaterOrEqual(t, r.Injuries, 0)
		assert.GreaterOrEqual(t, r.Deaths, 0)
	}
}

func TestTopCategories_StableTieBreak(t *testing.T) {
	// Hail and Flood tie at 2; Hail appears first in the input.
	events := []domain.Event{
		event("Hail", "", "", 0, 0, 0),
		event("Flood", "", "", 0, 0, 0),
		event("Tornado", "", "", 0, 0, 0),
		event("Flood", "", "", 0, 0, 0),
		event("Hail", "", "", 0, 0, 0),
		event("Tornado", "", "", 0, 0, 0),
		event("Tornado", "", "", 0, 0, 0),
	}

	assert.Equal(t, []string{"Tornado", "Hail", "Flood"}, topCategories(events, 3))
	assert.Equal(t, []string{"Tornado", "Hail"}, topCategories(events, 2))
	assert.Equal(t, []string{"Tornado", "Hail", "Flood"}, topCategories(events, 10), "n larger than distinct categories")
}

func TestFrequencyByRegion_RestrictedToTopCategories(t *testing.T) {
	events := []domain.Event{
		event("Tornado", "TEXAS", "", 0, 0, 0),
		event("Tornado", "TEXAS", "", 0, 0, 0),
		event("Tornado", "OKLAHOMA", "", 0, 0, 0),
		event("Dust Devil", "TEXAS", "", 0, 0, 0),
	}

	rows := frequencyByRegion(events, []string{"Tornado"})

	assert.Equal(t, []RegionCount{
		{State: "OKLAHOMA", Category: "Tornado", Count: 1},
		{State: "TEXAS", Category: "Tornado", Count: 2},
	}, rows)
}

func TestFrequencyByMonth_CalendarOrder(t *testing.T) {
	events := []domain.Event{
		event("Tornado", "", "May", 0, 0, 0),
		event("Tornado", "", "January", 0, 0, 0),
		event("Tornado", "", "May", 0, 0, 0),
		event("Tornado", "", "December", 0, 0, 0),
		event("Tornado", "", "", 0, 0, 0), // unparseable timestamp upstream
	}

	rows := frequencyByMonth(events, []string{"Tornado"})

	assert.Equal(t, []MonthCount{
		{Month: "January", Category: "Tornado", Count: 1},
		{Month: "May", Category: "Tornado", Count: 2},
		{Month: "December", Category: "Tornado", Count: 1},
	}, rows, "months must follow calendar order and skip absent months")
}

func TestDamageByCategory(t *testing.T) {
	events := []domain.Event{
		event("Hail", "", "", 0, 0, 10_500),
		event("Tornado", "", "", 0, 0, 2_000_000),
		event("Hail", "", "", 0, 0, 500),
	}

	rows := damageByCategory(events)

	assert.Equal(t, []CategoryDamage{
		{Category: "Tornado", DamageUSD: 2_000_000},
		{Category: "Hail", DamageUSD: 11_000},
	}, rows)
}

func TestSummarize_Deterministic(t *testing.T) {
	SetClock(clockwork.NewFakeClockAt(time.Date(2020, 1, 15, 12, 0, 0, 0, time.UTC)))
	defer SetClock(nil)

	events := []domain.Event{
		event("Tornado", "TEXAS", "May", 3, 1, 50_000),
		event("Hail", "TEXAS", "May", 0, 0, 10_500),
		event("Flood", "IOWA", "June", 1, 0, 0),
		event("Tornado", "IOWA", "June", 0, 2, 1_000_000),
	}

	s := NewSummarizer(0, 0)
	first := s.Summarize(events)
	second := s.Summarize(events)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("summaries differ between runs (-first +second):\n%s", diff)
	}

	assert.Equal(t, 4, first.EventCount)
	assert.Equal(t, time.Date(2020, 1, 15, 12, 0, 0, 0, time.UTC), first.GeneratedAt)
	assert.Equal(t, []string{"May", "June"}, first.Months)
	assert.Equal(t, []string{"IOWA", "TEXAS"}, first.States)
	assert.Equal(t, "Tornado", first.Health[0].Category)
}
