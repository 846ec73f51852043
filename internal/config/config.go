package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/LdDl/slot-tracker/mot"
)

const (
	DefaultExpectedObjects = 2
	DefaultPositionsCSV    = "positions.csv"
	DefaultRadiiCSV        = "radii.csv"
	DefaultDistancesCSV    = "distances.csv"

	maxFileSize = 1 * 1024 * 1024 // 1MB
)

// OutputConfig controls where tracked frames are persisted.
// Empty path disables corresponding log.
type OutputConfig struct {
	PositionsCSV string `json:"positions_csv"`
	RadiiCSV     string `json:"radii_csv"`
	DistancesCSV string `json:"distances_csv"`
	SQLitePath   string `json:"sqlite_path"`
}

// Config aggregates all configuration sections.
type Config struct {
	// Number of tracked objects. Fixed for the whole run.
	ExpectedObjects int                   `json:"expected_objects"`
	Algorithm       mot.MatchingAlgorithm `json:"algorithm"`
	// Detection source: JSON lines file, "-" for stdin
	Input       string       `json:"input"`
	Output      OutputConfig `json:"output"`
	MetricsAddr string       `json:"metrics_addr"`
	Verbose     bool         `json:"verbose"`
}

// Default returns configuration used when no file is given
func Default() Config {
	return Config{
		ExpectedObjects: DefaultExpectedObjects,
		Algorithm:       mot.MatchingAlgorithmGreedy,
		Input:           "-",
		Output: OutputConfig{
			PositionsCSV: DefaultPositionsCSV,
			RadiiCSV:     DefaultRadiiCSV,
			DistancesCSV: DefaultDistancesCSV,
		},
	}
}

// Load reads the JSON config from disk on top of Default().
// Fields omitted from the file retain their default values.
func Load(path string) (Config, error) {
	cfg := Default()
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return cfg, errors.Errorf("config file must have .json extension, got %q", ext)
	}
	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return cfg, errors.Wrap(err, "failed to stat config file")
	}
	if fileInfo.Size() > maxFileSize {
		return cfg, errors.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}
	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return cfg, errors.Wrap(err, "failed to read config file")
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "failed to parse config file %q", cleanPath)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks that configuration could be used for a run
func (cfg Config) Validate() error {
	if cfg.ExpectedObjects < 1 {
		return errors.Errorf("expected_objects must be positive, got %d", cfg.ExpectedObjects)
	}
	switch cfg.Algorithm {
	case mot.MatchingAlgorithmGreedy, mot.MatchingAlgorithmHungarian:
	default:
		return errors.Errorf("unsupported algorithm %v", cfg.Algorithm)
	}
	if cfg.Input == "" {
		return errors.New("input must not be empty")
	}
	out := cfg.Output
	if out.PositionsCSV == "" && out.RadiiCSV == "" && out.DistancesCSV == "" && out.SQLitePath == "" {
		return errors.New("at least one output must be enabled")
	}
	return nil
}
