// Package dataset joins the three loaded StormEvents tables into cleaned
// events, preserving left-join semantics on the event identifier.
package dataset

import "github.com/couchcryptid/storm-season-report/internal/domain"

// Tables holds the three raw extracts as loaded, before joining.
type Tables struct {
	Details    []domain.DetailRecord
	Locations  []domain.LocationRecord
	Fatalities []domain.FatalityRecord
}

// Join left-joins locations and fatalities onto the details table by event
// id and cleans each row. Every detail row yields exactly one Event, so the
// result length always equals len(t.Details) regardless of how many
// enrichment rows match. Enrichment rows with no matching detail row are
// dropped.
func Join(t Tables) []domain.Event {
	locationsByEvent := make(map[string][]domain.LocationRecord, len(t.Locations))
	for _, loc := range t.Locations {
		locationsByEvent[loc.EventID] = append(locationsByEvent[loc.EventID], loc)
	}

	fatalitiesByEvent := make(map[string][]domain.FatalityRecord, len(t.Fatalities))
	for _, f := range t.Fatalities {
		fatalitiesByEvent[f.EventID] = append(fatalitiesByEvent[f.EventID], f)
	}

	events := make([]domain.Event, 0, len(t.Details))
	for _, rec := range t.Details {
		events = append(events, domain.CleanEvent(rec, locationsByEvent[rec.EventID], fatalitiesByEvent[rec.EventID]))
	}
	return events
}
