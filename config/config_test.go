package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadWithEnvLoadsYAMLAndEnvOverlay(t *testing.T) {
	dir := t.TempDir()
	yamlContent := "match:\n  k: 20\n  evaluator: classical\n  minTripLength: 2\nbatch:\n  workers: 4\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "test.yaml"), []byte(yamlContent), 0o644))

	originalWD, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	defer func() { require.NoError(t, os.Chdir(originalWD)) }()

	t.Setenv("MATCH_K", "30")

	cfg, err := LoadWithEnv[Config]("test")
	require.NoError(t, err)

	assert.Equal(t, 30, cfg.Match.K)
	assert.Equal(t, "classical", cfg.Match.Evaluator)
	assert.Equal(t, 4, cfg.Batch.Workers)
}

func TestLoadWithEnvMissingFile(t *testing.T) {
	dir := t.TempDir()
	originalWD, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	defer func() { require.NoError(t, os.Chdir(originalWD)) }()

	_, err = LoadWithEnv[Config]("does-not-exist")
	assert.Error(t, err)
}

func TestDefaultMatch(t *testing.T) {
	d := DefaultMatch()
	assert.Equal(t, 20, d.K)
	assert.Equal(t, "classical", d.Evaluator)
}
