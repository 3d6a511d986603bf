package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/halhen/jsonlite/pkg/errors"
	"github.com/halhen/jsonlite/pkg/json"
)

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative depth", func(c *Config) { c.Simplify.MaxDepth = -1 }},
		{"format", func(c *Config) { c.Output.Format = "csv" }},
		{"compression", func(c *Config) { c.Output.Compression = "brotli" }},
		{"orientation", func(c *Config) { c.Output.Orientation = "index" }},
		{"log encoding", func(c *Config) { c.Log.Encoding = "xml" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))
		})
	}
}

func TestLoadSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	cfg := Default()
	cfg.Output.Format = "arrow"
	cfg.Simplify.MaxDepth = 3
	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.True(t, errors.IsType(err, errors.ErrorTypeFile))

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("output: [unclosed"), 0600))
	_, err = Load(path)
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))

	require.NoError(t, os.WriteFile(path, []byte("output:\n  format: xml\n"), 0600))
	_, err = Load(path)
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))
}

func TestSubstituteEnvVars(t *testing.T) {
	t.Setenv("JSONLITE_TEST_LEVEL", "debug")
	assert.Equal(t, "level: debug", substituteEnvVars("level: ${JSONLITE_TEST_LEVEL}"))
	assert.Equal(t, "level: ", substituteEnvVars("level: ${JSONLITE_TEST_UNSET}"))
	assert.Equal(t, "level: ${open", substituteEnvVars("level: ${open"))
}

func TestJSONOptions(t *testing.T) {
	out := OutputConfig{Orientation: "rows", Pretty: true}
	opts := out.JSONOptions()
	assert.Equal(t, json.Rows, opts.Orientation)
	assert.Equal(t, "  ", opts.Indent)
	assert.True(t, opts.AutoUnbox)
}
