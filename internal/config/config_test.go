package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LdDl/slot-tracker/mot"
)

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 2, cfg.ExpectedObjects)
	assert.Equal(t, mot.MatchingAlgorithmGreedy, cfg.Algorithm)
	assert.Equal(t, "positions.csv", cfg.Output.PositionsCSV)
}

func TestLoadPartial(t *testing.T) {
	path := writeConfig(t, "run.json", `{
		"expected_objects": 3,
		"algorithm": "hungarian",
		"input": "detections.jsonl",
		"output": {"positions_csv": "pos.csv", "sqlite_path": "run.db"}
	}`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.ExpectedObjects)
	assert.Equal(t, mot.MatchingAlgorithmHungarian, cfg.Algorithm)
	assert.Equal(t, "detections.jsonl", cfg.Input)
	assert.Equal(t, "pos.csv", cfg.Output.PositionsCSV)
	assert.Equal(t, "run.db", cfg.Output.SQLitePath)
	// Not mentioned in file: defaults survive
	assert.Equal(t, DefaultRadiiCSV, cfg.Output.RadiiCSV)
	assert.Equal(t, DefaultDistancesCSV, cfg.Output.DistancesCSV)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(writeConfig(t, "run.yaml", `{}`))
	assert.Error(t, err, "non-json extension")

	_, err = Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err, "missing file")

	_, err = Load(writeConfig(t, "broken.json", `{"expected_objects":`))
	assert.Error(t, err, "malformed json")

	_, err = Load(writeConfig(t, "zero.json", `{"expected_objects": 0}`))
	assert.Error(t, err, "zero objects")

	_, err = Load(writeConfig(t, "algo.json", `{"algorithm": "kalman"}`))
	assert.Error(t, err, "unknown algorithm")
}

func TestValidateOutputs(t *testing.T) {
	cfg := Default()
	cfg.Output = OutputConfig{}
	assert.Error(t, cfg.Validate())

	cfg.Output.SQLitePath = "run.db"
	assert.NoError(t, cfg.Validate())

	cfg.Input = ""
	assert.Error(t, cfg.Validate())
}
