package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pfrederiksen/cbb-gamelogs/internal/fetch"
	"github.com/pfrederiksen/cbb-gamelogs/internal/gamelog"
	"github.com/pfrederiksen/cbb-gamelogs/internal/slug"
	"github.com/pfrederiksen/cbb-gamelogs/internal/storage"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cbb.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, gamelog.BaseURL, cfg.BaseURL)
	assert.Equal(t, fetch.UserAgent, cfg.UserAgent)
	assert.Equal(t, fetch.Timeout, cfg.Timeout)
	assert.Equal(t, fetch.MaxRetries, *cfg.MaxRetries)
	assert.Equal(t, gamelog.DefaultDelay, cfg.DelayDuration())
	assert.Equal(t, DefaultSeason, cfg.Season)
	assert.Equal(t, storage.DefaultDataDir, cfg.DataDir)
	assert.Equal(t, slug.ModeCanonical, cfg.SlugMode)
	assert.Equal(t, slug.DefaultDescriptive, cfg.Descriptive)
	assert.NoError(t, cfg.Validate())
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
base_url: http://localhost:9000
user_agent: cbb-test/1.0
timeout: 5s
max_retries: 0
delay: 500ms
season: 2025
data_dir: out
slug_mode: simple
log_level: debug
descriptive:
  - Miami (OH)
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:9000", cfg.BaseURL)
	assert.Equal(t, "cbb-test/1.0", cfg.UserAgent)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, 0, *cfg.MaxRetries)
	assert.Equal(t, 500*time.Millisecond, cfg.DelayDuration())
	assert.Equal(t, 2025, cfg.Season)
	assert.Equal(t, filepath.Join(filepath.Dir(path), "out"), cfg.DataDir)
	assert.Equal(t, slug.ModeSimple, cfg.SlugMode)
	assert.Equal(t, []string{"Miami (OH)"}, cfg.Descriptive)
}

func TestLoad_ZeroDelayKept(t *testing.T) {
	cfg, err := Load(writeConfig(t, "delay: 0s\n"))
	require.NoError(t, err)
	assert.Equal(t, time.Duration(0), cfg.DelayDuration())
}

func TestLoad_AbsoluteAndHomeDataDir(t *testing.T) {
	abs := filepath.Join(t.TempDir(), "data")

	cfg, err := Load(writeConfig(t, "data_dir: "+abs+"\n"))
	require.NoError(t, err)
	assert.Equal(t, abs, cfg.DataDir)

	cfg, err = Load(writeConfig(t, "data_dir: ~/cbb\n"))
	require.NoError(t, err)
	assert.Equal(t, "~/cbb", cfg.DataDir)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad yaml", "season: [2026"},
		{"bad slug mode", "slug_mode: strict\n"},
		{"bad base url", "base_url: ftp://example.com\n"},
		{"negative retries", "max_retries: -1\n"},
		{"negative delay", "delay: -1s\n"},
		{"season out of range", "season: 26\n"},
		{"bad log level", "log_level: loud\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestSlugFunc(t *testing.T) {
	cfg := Default()

	fn, err := cfg.SlugFunc()
	require.NoError(t, err)
	assert.Equal(t, "albany", fn("Albany (NY)"))
	assert.Equal(t, "miami-fl", fn("Miami (FL)"))

	cfg.Descriptive = []string{"Miami (FL)"}
	fn, err = cfg.SlugFunc()
	require.NoError(t, err)
	assert.Equal(t, "albany-ny", fn("Albany (NY)"))
	assert.Equal(t, "miami", fn("Miami (FL)"))

	cfg.SlugMode = slug.ModeSimple
	fn, err = cfg.SlugFunc()
	require.NoError(t, err)
	assert.Equal(t, "albany-ny", fn("Albany (NY)"))

	cfg.SlugMode = "bogus"
	_, err = cfg.SlugFunc()
	assert.Error(t, err)
}

func TestFetchOptions(t *testing.T) {
	cfg := Default()
	assert.Len(t, cfg.FetchOptions(), 3)

	cfg.MaxRetries = nil
	assert.Len(t, cfg.FetchOptions(), 2)
}
