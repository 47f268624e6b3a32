package config

import (
	"errors"

	"github.com/spf13/viper"
)

// Config holds all run settings, resolved by viper from flags, STORMREPORT_*
// environment variables, an optional config file, and defaults.
type Config struct {
	DetailsPath    string
	LocationsPath  string
	FatalitiesPath string

	OutDir      string
	ArchivePath string // empty disables the SQLite archive

	TopRegionCategories  int
	TopMonthlyCategories int

	LogLevel  string
	LogFormat string
}

// SetDefaults installs the default values on a viper instance.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("out", "./report")
	v.SetDefault("top_region_categories", 10)
	v.SetDefault("top_monthly_categories", 8)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
}

// Load materializes and validates a Config from the viper instance.
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		DetailsPath:          v.GetString("details"),
		LocationsPath:        v.GetString("locations"),
		FatalitiesPath:       v.GetString("fatalities"),
		OutDir:               v.GetString("out"),
		ArchivePath:          v.GetString("archive"),
		TopRegionCategories:  v.GetInt("top_region_categories"),
		TopMonthlyCategories: v.GetInt("top_monthly_categories"),
		LogLevel:             v.GetString("log_level"),
		LogFormat:            v.GetString("log_format"),
	}

	if cfg.DetailsPath == "" {
		return nil, errors.New("details CSV path is required")
	}
	if cfg.LocationsPath == "" {
		return nil, errors.New("locations CSV path is required")
	}
	if cfg.FatalitiesPath == "" {
		return nil, errors.New("fatalities CSV path is required")
	}
	if cfg.OutDir == "" {
		return nil, errors.New("output directory is required")
	}
	if cfg.TopRegionCategories <= 0 {
		return nil, errors.New("top_region_categories must be positive")
	}
	if cfg.TopMonthlyCategories <= 0 {
		return nil, errors.New("top_monthly_categories must be positive")
	}

	return cfg, nil
}
