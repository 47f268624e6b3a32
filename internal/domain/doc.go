// Package domain models NOAA Storm Events Database annual extracts.
//
// # Data Source
//
// The Storm Events Database publishes three bulk CSV files per year at
// https://www.ncei.noaa.gov/pub/data/swdi/stormevents/csvfiles/:
//
//	StormEvents_details-*.csv    one row per recorded storm event
//	StormEvents_locations-*.csv  zero or more geographic points per event
//	StormEvents_fatalities-*.csv one row per fatality attributed to an event
//
// All three share an EVENT_ID column, which is the join key. Column names in
// the raw files are uppercase; this tool lowercases headers on load so column
// lookup is case-insensitive.
//
// # Field conventions
//
// Timestamps:
//
//	BEGIN_DATE_TIME / END_DATE_TIME use "2006-01-02 15:04:05"-style text.
//	Rows whose begin timestamp does not parse keep an empty Month and are
//	excluded from the seasonality summary only.
//
// Event types:
//
//	Free text with inconsistent casing ("tornado", "TORNADO", "Tornado").
//	Title-cased on clean so all spellings aggregate into one category.
//
// Injury and death counts:
//
//	Direct and indirect columns may be empty or "NA"; both read as zero.
//	Health totals always sum direct+indirect, never count joined rows, so
//	fatality-table fan-out cannot inflate them.
//
// Damage amounts:
//
//	DAMAGE_PROPERTY encodes magnitude plus a scale suffix: "10.5K" is
//	$10,500 and "2M" is $2,000,000. Empty values default to "0". A "B"
//	suffix occurs in the source data but carries no multiplier here and
//	falls through to x1, matching the upstream analysis this tool mirrors.
package domain
