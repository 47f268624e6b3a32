// Package loader reads the three StormEvents CSV extracts into memory.
package loader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/couchcryptid/storm-season-report/internal/dataset"
	"github.com/couchcryptid/storm-season-report/internal/domain"
)

var (
	// ErrInputNotFound indicates a required input file is missing.
	ErrInputNotFound = errors.New("input file not found")

	// ErrParse indicates a malformed header or row in an input file.
	ErrParse = errors.New("malformed input")
)

// CSVLoader reads the details, locations, and fatalities extracts. Any load
// failure aborts the run; there is no partial-success mode.
type CSVLoader struct {
	detailsPath    string
	locationsPath  string
	fatalitiesPath string
	logger         *slog.Logger
}

// New creates a CSVLoader over the three extract paths.
func New(detailsPath, locationsPath, fatalitiesPath string, logger *slog.Logger) *CSVLoader {
	return &CSVLoader{
		detailsPath:    detailsPath,
		locationsPath:  locationsPath,
		fatalitiesPath: fatalitiesPath,
		logger:         logger,
	}
}

// Extract loads all three tables. Headers are lowercased so column lookup is
// case-insensitive across extract vintages.
func (l *CSVLoader) Extract() (dataset.Tables, error) {
	var tables dataset.Tables

	if err := readTable(l.detailsPath, detailColumns, func(h header, row []string) {
		tables.Details = append(tables.Details, domain.DetailRecord{
			EventID:          h.get(row, "event_id"),
			EventType:        h.get(row, "event_type"),
			State:            h.get(row, "state"),
			BeginDateTime:    h.get(row, "begin_date_time"),
			EndDateTime:      h.get(row, "end_date_time"),
			InjuriesDirect:   h.get(row, "injuries_direct"),
			InjuriesIndirect: h.get(row, "injuries_indirect"),
			DeathsDirect:     h.get(row, "deaths_direct"),
			DeathsIndirect:   h.get(row, "deaths_indirect"),
			DamageProperty:   h.get(row, "damage_property"),
		})
	}); err != nil {
		return dataset.Tables{}, fmt.Errorf("details: %w", err)
	}

	if err := readTable(l.locationsPath, enrichmentColumns, func(h header, row []string) {
		tables.Locations = append(tables.Locations, domain.LocationRecord{
			EventID:   h.get(row, "event_id"),
			Location:  h.get(row, "location"),
			Latitude:  h.get(row, "latitude"),
			Longitude: h.get(row, "longitude"),
		})
	}); err != nil {
		return dataset.Tables{}, fmt.Errorf("locations: %w", err)
	}

	if err := readTable(l.fatalitiesPath, enrichmentColumns, func(h header, row []string) {
		tables.Fatalities = append(tables.Fatalities, domain.FatalityRecord{
			EventID:      h.get(row, "event_id"),
			FatalityID:   h.get(row, "fatality_id"),
			FatalityType: h.get(row, "fatality_type"),
			Age:          h.get(row, "fatality_age"),
			Sex:          h.get(row, "fatality_sex"),
		})
	}); err != nil {
		return dataset.Tables{}, fmt.Errorf("fatalities: %w", err)
	}

	l.logger.Info("extracts loaded",
		"details", len(tables.Details),
		"locations", len(tables.Locations),
		"fatalities", len(tables.Fatalities),
	)
	return tables, nil
}

var (
	detailColumns     = []string{"event_id", "event_type", "state", "begin_date_time"}
	enrichmentColumns = []string{"event_id"}
)

// header maps lowercased column names to their positions.
type header map[string]int

func newHeader(cols []string) header {
	h := make(header, len(cols))
	for i, c := range cols {
		h[strings.ToLower(strings.TrimSpace(c))] = i
	}
	return h
}

// get returns the named column's value, or "" when the column is absent.
func (h header) get(row []string, name string) string {
	i, ok := h[name]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}

func (h header) require(names []string) error {
	for _, n := range names {
		if _, ok := h[n]; !ok {
			return fmt.Errorf("%w: missing column %q", ErrParse, n)
		}
	}
	return nil
}

// readTable streams one CSV file, invoking fn for every data row.
func readTable(path string, required []string, fn func(h header, row []string)) error {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrInputNotFound, path)
		}
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.ReuseRecord = true

	headerRow, err := r.Read()
	if err != nil {
		return fmt.Errorf("%w: %s: reading header: %v", ErrParse, path, err)
	}
	h := newHeader(headerRow)
	if err := h.require(required); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	for line := 2; ; line++ {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("%w: %s: line %d: %v", ErrParse, path, line, err)
		}
		fn(h, row)
	}
}
