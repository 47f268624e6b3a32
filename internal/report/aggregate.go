// Package report reduces cleaned storm events into the four summary tables
// behind the seasonal report: health impact, regional frequency, monthly
// frequency, and property damage.
package report

import (
	"sort"
	"time"

	"github.com/couchcryptid/storm-season-report/internal/domain"
)

// Defaults for the frequency summaries, matching the published analysis this
// tool reproduces.
const (
	DefaultTopRegionCategories  = 10
	DefaultTopMonthlyCategories = 8
)

// CategoryHealth is one row of the health-impact summary.
type CategoryHealth struct {
	Category    string
	Injuries    int
	Deaths      int
	TotalHealth int
}

// RegionCount is a frequency cell for one (state, category) pair.
type RegionCount struct {
	State    string
	Category string
	Count    int
}

// MonthCount is a frequency cell for one (month, category) pair.
type MonthCount struct {
	Month    string
	Category string
	Count    int
}

// CategoryDamage is one row of the property-damage summary.
type CategoryDamage struct {
	Category  string
	DamageUSD float64
}

// Summary carries the four summary tables consumed by the renderer and the
// archive. Renderers must treat it as read-only.
type Summary struct {
	GeneratedAt time.Time
	EventCount  int

	Health           []CategoryHealth
	RegionFrequency  []RegionCount
	MonthlyFrequency []MonthCount
	Damage           []CategoryDamage

	// Axis orderings the renderer needs: categories ranked by frequency,
	// months in calendar order, states alphabetical.
	RegionCategories  []string
	MonthlyCategories []string
	States            []string
	Months            []string
}

// Summarizer computes a Summary from cleaned events. The zero value is not
// usable; construct with NewSummarizer.
type Summarizer struct {
	topRegionCategories  int
	topMonthlyCategories int
}

// NewSummarizer creates a Summarizer. Non-positive sizes fall back to the
// defaults.
func NewSummarizer(topRegionCategories, topMonthlyCategories int) *Summarizer {
	if topRegionCategories <= 0 {
		topRegionCategories = DefaultTopRegionCategories
	}
	if topMonthlyCategories <= 0 {
		topMonthlyCategories = DefaultTopMonthlyCategories
	}
	return &Summarizer{
		topRegionCategories:  topRegionCategories,
		topMonthlyCategories: topMonthlyCategories,
	}
}

// Summarize runs the four independent reductions over the events. It never
// mutates its input, and re-running over identical input yields an identical
// Summary apart from GeneratedAt.
func (s *Summarizer) Summarize(events []domain.Event) Summary {
	regionCategories := topCategories(events, s.topRegionCategories)
	monthlyCategories := topCategories(events, s.topMonthlyCategories)

	return Summary{
		GeneratedAt:       clock.Now().UTC(),
		EventCount:        len(events),
		Health:            healthByCategory(events),
		RegionFrequency:   frequencyByRegion(events, regionCategories),
		MonthlyFrequency:  frequencyByMonth(events, monthlyCategories),
		Damage:            damageByCategory(events),
		RegionCategories:  regionCategories,
		MonthlyCategories: monthlyCategories,
		States:            distinctStates(events),
		Months:            monthsPresent(events),
	}
}

// healthByCategory sums direct+indirect injuries and deaths per category,
// sorted by combined total descending. Ties keep first-encountered order.
func healthByCategory(events []domain.Event) []CategoryHealth {
	index := make(map[string]int)
	var rows []CategoryHealth

	for _, e := range events {
		i, ok := index[e.EventType]
		if !ok {
			i = len(rows)
			index[e.EventType] = i
			rows = append(rows, CategoryHealth{Category: e.EventType})
		}
		rows[i].Injuries += e.Injuries
		rows[i].Deaths += e.Deaths
	}
	for i := range rows {
		rows[i].TotalHealth = rows[i].Injuries + rows[i].Deaths
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].TotalHealth > rows[j].TotalHealth
	})
	return rows
}

// topCategories ranks categories by event count descending, ties broken by
// first-encountered order, and returns the first n.
func topCategories(events []domain.Event, n int) []string {
	index := make(map[string]int)
	var order []string
	var counts []int

	for _, e := range events {
		i, ok := index[e.EventType]
		if !ok {
			i = len(order)
			index[e.EventType] = i
			order = append(order, e.EventType)
			counts = append(counts, 0)
		}
		counts[i]++
	}

	ranked := make([]int, len(order))
	for i := range ranked {
		ranked[i] = i
	}
	sort.SliceStable(ranked, func(a, b int) bool {
		return counts[ranked[a]] > counts[ranked[b]]
	})

	if n > len(ranked) {
		n = len(ranked)
	}
	top := make([]string, 0, n)
	for _, i := range ranked[:n] {
		top = append(top, order[i])
	}
	return top
}

// frequencyByRegion counts events per (state, category) pair, restricted to
// the given categories. Rows are ordered by state, then by category rank.
func frequencyByRegion(events []domain.Event, categories []string) []RegionCount {
	rank := rankOf(categories)

	counts := make(map[[2]string]int)
	for _, e := range events {
		if _, ok := rank[e.EventType]; !ok {
			continue
		}
		counts[[2]string{e.State, e.EventType}]++
	}

	rows := make([]RegionCount, 0, len(counts))
	for key, c := range counts {
		rows = append(rows, RegionCount{State: key[0], Category: key[1], Count: c})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].State != rows[j].State {
			return rows[i].State < rows[j].State
		}
		return rank[rows[i].Category] < rank[rows[j].Category]
	})
	return rows
}

// frequencyByMonth counts events per (month, category) pair for the given
// categories. Rows are in calendar-month order, then category rank. Events
// without a derived month are excluded.
func frequencyByMonth(events []domain.Event, categories []string) []MonthCount {
	rank := rankOf(categories)

	counts := make(map[[2]string]int)
	for _, e := range events {
		if e.Month == "" {
			continue
		}
		if _, ok := rank[e.EventType]; !ok {
			continue
		}
		counts[[2]string{e.Month, e.EventType}]++
	}

	var rows []MonthCount
	for m := time.January; m <= time.December; m++ {
		for _, cat := range categories {
			if c, ok := counts[[2]string{m.String(), cat}]; ok {
				rows = append(rows, MonthCount{Month: m.String(), Category: cat, Count: c})
			}
		}
	}
	return rows
}

// damageByCategory sums parsed property damage per category, sorted
// descending. Ties keep first-encountered order.
func damageByCategory(events []domain.Event) []CategoryDamage {
	index := make(map[string]int)
	var rows []CategoryDamage

	for _, e := range events {
		i, ok := index[e.EventType]
		if !ok {
			i = len(rows)
			index[e.EventType] = i
			rows = append(rows, CategoryDamage{Category: e.EventType})
		}
		rows[i].DamageUSD += e.DamageUSD
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].DamageUSD > rows[j].DamageUSD
	})
	return rows
}

func rankOf(categories []string) map[string]int {
	rank := make(map[string]int, len(categories))
	for i, c := range categories {
		rank[c] = i
	}
	return rank
}

func distinctStates(events []domain.Event) []string {
	seen := make(map[string]bool)
	var states []string
	for _, e := range events {
		if e.State == "" || seen[e.State] {
			continue
		}
		seen[e.State] = true
		states = append(states, e.State)
	}
	sort.Strings(states)
	return states
}

// monthsPresent returns the months (full names) that appear in the events,
// in calendar order, never alphabetical.
func monthsPresent(events []domain.Event) []string {
	seen := make(map[string]bool)
	for _, e := range events {
		if e.Month != "" {
			seen[e.Month] = true
		}
	}
	var months []string
	for m := time.January; m <= time.December; m++ {
		if seen[m.String()] {
			months = append(months, m.String())
		}
	}
	return months
}
