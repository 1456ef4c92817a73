package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/charseg-mcp/internal/segment"
)

// clearEnv blanks every variable Load reads, so the host environment cannot
// leak into a test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{EnvConfigPath, EnvLogLevel, EnvMinCharWidth, EnvMaxCharWidth, EnvBatchWorkers, EnvTemplates} {
		t.Setenv(k, "")
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "charseg.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, segment.DefaultConfig(), cfg.Segment)
	assert.Zero(t, cfg.BatchWorkers)
	assert.Empty(t, cfg.Templates)
}

func TestLoad_File(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
log_level: debug
batch_workers: 3
segment:
  min_char_width: 20
  max_char_width: 40
  split_trailing_span: true
templates:
  - /etc/charseg/a5.yaml
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 3, cfg.BatchWorkers)
	assert.Equal(t, 20, cfg.Segment.MinCharWidth)
	assert.Equal(t, 40, cfg.Segment.MaxCharWidth)
	assert.True(t, cfg.Segment.SplitTrailingSpan)
	// Fields absent from the file keep their defaults.
	assert.Equal(t, segment.DefaultShortGapLength, cfg.Segment.ShortGapLength)
	assert.Equal(t, float64(segment.DefaultMinimumAcceptValue), cfg.Segment.MinimumAcceptValue)
	assert.Equal(t, []string{"/etc/charseg/a5.yaml"}, cfg.Templates)
}

func TestLoad_PathFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvConfigPath, writeConfig(t, "batch_workers: 7\n"))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.BatchWorkers)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "log_level: debug\nsegment:\n  min_char_width: 20\n")
	t.Setenv(EnvLogLevel, "warn")
	t.Setenv(EnvMinCharWidth, "30")
	t.Setenv(EnvMaxCharWidth, " 50 ")
	t.Setenv(EnvTemplates, "a.yaml"+string(os.PathListSeparator)+" b.yaml ")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, 30, cfg.Segment.MinCharWidth)
	assert.Equal(t, 50, cfg.Segment.MaxCharWidth)
	assert.Equal(t, []string{"a.yaml", "b.yaml"}, cfg.Templates)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		file string
		env  map[string]string
	}{
		{"bad yaml", "segment: [", nil},
		{"bad log level", "log_level: loud\n", nil},
		{"negative workers", "", map[string]string{EnvBatchWorkers: "-2"}},
		{"bad segment width", "segment:\n  max_char_width: -5\n", nil},
		{"malformed min width", "", map[string]string{EnvMinCharWidth: "abc"}},
		{"malformed workers", "", map[string]string{EnvBatchWorkers: "4x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load(writeConfig(t, tt.file))
			assert.Error(t, err)
		})
	}

	t.Run("missing file", func(t *testing.T) {
		clearEnv(t)
		_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
		assert.Error(t, err)
	})
}

func TestLoad_MalformedEnvNamesVariable(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvMinCharWidth, "abc")
	t.Setenv(EnvMaxCharWidth, "wide")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), EnvMinCharWidth)
	assert.Contains(t, err.Error(), EnvMaxCharWidth)
	assert.Contains(t, err.Error(), `"abc"`)
}

func TestValidate_SegmentErrorIsClassified(t *testing.T) {
	cfg := Default()
	cfg.Segment.MinSmoothWindow = 4

	err := cfg.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, segment.ErrInvalidConfig))
}
