// Package store persists summary tables to a SQLite artifact so downstream
// tooling can query the report without re-parsing the extracts.
package store

import (
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/couchcryptid/storm-season-report/internal/report"
)

// Row models, one table per summary.

type HealthTotal struct {
	ID          uint   `gorm:"primaryKey"`
	Category    string `gorm:"index"`
	Injuries    int
	Deaths      int
	TotalHealth int
}

type RegionFrequency struct {
	ID       uint   `gorm:"primaryKey"`
	State    string `gorm:"index"`
	Category string
	Count    int
}

type MonthlyFrequency struct {
	ID       uint `gorm:"primaryKey"`
	Month    string
	Category string
	Count    int
}

type DamageTotal struct {
	ID        uint   `gorm:"primaryKey"`
	Category  string `gorm:"index"`
	DamageUSD float64
}

// Run records when the archive was produced and from how many events.
type Run struct {
	ID          uint `gorm:"primaryKey"`
	GeneratedAt time.Time
	EventCount  int
}

// Archive wraps the SQLite database holding the summary tables.
type Archive struct {
	db *gorm.DB
}

// Open creates or opens the archive database and migrates its schema.
func Open(path string) (*Archive, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open archive %s: %w", path, err)
	}
	if err := db.AutoMigrate(&Run{}, &HealthTotal{}, &RegionFrequency{}, &MonthlyFrequency{}, &DamageTotal{}); err != nil {
		return nil, fmt.Errorf("migrate archive: %w", err)
	}
	return &Archive{db: db}, nil
}

// Save replaces the archived summary tables with the given summary. The
// whole write is transactional so a failed run never leaves a mixed archive.
func (a *Archive) Save(summary report.Summary) error {
	return a.db.Transaction(func(tx *gorm.DB) error {
		for _, model := range []any{&Run{}, &HealthTotal{}, &RegionFrequency{}, &MonthlyFrequency{}, &DamageTotal{}} {
			if err := tx.Where("1 = 1").Delete(model).Error; err != nil {
				return fmt.Errorf("clear archive table: %w", err)
			}
		}

		if err := tx.Create(&Run{GeneratedAt: summary.GeneratedAt, EventCount: summary.EventCount}).Error; err != nil {
			return fmt.Errorf("archive run: %w", err)
		}

		if len(summary.Health) > 0 {
			rows := make([]HealthTotal, 0, len(summary.Health))
			for _, r := range summary.Health {
				rows = append(rows, HealthTotal{Category: r.Category, Injuries: r.Injuries, Deaths: r.Deaths, TotalHealth: r.TotalHealth})
			}
			if err := tx.CreateInBatches(rows, 200).Error; err != nil {
				return fmt.Errorf("archive health totals: %w", err)
			}
		}

		if len(summary.RegionFrequency) > 0 {
			rows := make([]RegionFrequency, 0, len(summary.RegionFrequency))
			for _, r := range summary.RegionFrequency {
				rows = append(rows, RegionFrequency{State: r.State, Category: r.Category, Count: r.Count})
			}
			if err := tx.CreateInBatches(rows, 200).Error; err != nil {
				return fmt.Errorf("archive region frequency: %w", err)
			}
		}

		if len(summary.MonthlyFrequency) > 0 {
			rows := make([]MonthlyFrequency, 0, len(summary.MonthlyFrequency))
			for _, r := range summary.MonthlyFrequency {
				rows = append(rows, MonthlyFrequency{Month: r.Month, Category: r.Category, Count: r.Count})
			}
			if err := tx.CreateInBatches(rows, 200).Error; err != nil {
				return fmt.Errorf("archive monthly frequency: %w", err)
			}
		}

		if len(summary.Damage) > 0 {
			rows := make([]DamageTotal, 0, len(summary.Damage))
			for _, r := range summary.Damage {
				rows = append(rows, DamageTotal{Category: r.Category, DamageUSD: r.DamageUSD})
			}
			if err := tx.CreateInBatches(rows, 200).Error; err != nil {
				return fmt.Errorf("archive damage totals: %w", err)
			}
		}

		return nil
	})
}
