// Package config loads pipeline tunables from an optional YAML file,
// with the path overridable through the environment.
package config

import (
	"fmt"
	"os"

	"github.com/harpsync/harpsync/align"
	"github.com/harpsync/harpsync/schedule"
	"gopkg.in/yaml.v3"
)

type Config struct {
	// extraction
	FixOverlaps bool    `yaml:"fix_overlaps"`
	MinDuration float64 `yaml:"min_duration"`
	// alignment
	ChordThreshold float64 `yaml:"chord_threshold"`
	// scheduling
	HoleGap     float64 `yaml:"hole_gap"`
	PagePadding float64 `yaml:"page_padding"`
	// defaults for the CLI
	Key string `yaml:"key"`
	Fps int    `yaml:"fps"`
}

func Default() Config {
	return Config{
		FixOverlaps:    true,
		MinDuration:    0.127,
		ChordThreshold: align.DefaultChordThreshold,
		HoleGap:        schedule.DefaultHoleGap,
		PagePadding:    schedule.DefaultPagePadding,
		Key:            "C",
		Fps:            30,
	}
}

// Path returns the config file location: $HARPSYNC_CONFIG when set,
// ./harpsync.yaml otherwise.
func Path() string {
	if p := os.Getenv("HARPSYNC_CONFIG"); p != "" {
		return p
	}
	return "harpsync.yaml"
}

// Load reads the file at path over the defaults. A missing file is not
// an error: the defaults stand.
func Load(path string) (Config, error) {
	cfg := Default()

	dat, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("could not read config %v: %w", path, err)
	}
	if err := yaml.Unmarshal(dat, &cfg); err != nil {
		return cfg, fmt.Errorf("could not parse config %v: %w", path, err)
	}
	return cfg, nil
}
