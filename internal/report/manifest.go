package report

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Manifest records what a run produced: input row counts and the artifact
// paths, stamped with the summary's generation time.
type Manifest struct {
	GeneratedAt time.Time      `yaml:"generated_at"`
	Inputs      ManifestInputs `yaml:"inputs"`
	Events      int            `yaml:"events"`
	Artifacts   []string       `yaml:"artifacts"`
}

// ManifestInputs holds per-table row counts from the load stage.
type ManifestInputs struct {
	Details    int `yaml:"details"`
	Locations  int `yaml:"locations"`
	Fatalities int `yaml:"fatalities"`
}

// WriteManifest serializes the manifest as YAML to path.
func WriteManifest(path string, m Manifest) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}
