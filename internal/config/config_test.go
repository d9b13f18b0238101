package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
[server]
addr = ":9090"

[search]
default_results = 3
provider_timeout = "2500ms"

[providers.google]
enabled = true
api_key = "g-key"
cx = "engine-1"

[providers.youtube]
enabled = false
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, 3, cfg.Search.DefaultResults)
	assert.Equal(t, 10, cfg.Search.MaxResults)
	assert.Equal(t, 2500*time.Millisecond, cfg.Search.ProviderTimeout.Duration)
	assert.Equal(t, "g-key", cfg.Providers.Google.APIKey)
	assert.Equal(t, "engine-1", cfg.Providers.Google.CX)
	assert.False(t, cfg.Providers.YouTube.Enabled)
	assert.True(t, cfg.Providers.Exa.Enabled)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, `[search`))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "[search]\nprovider_timeout = \"soon\"\n"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "[search]\ndefault_results = 0\n"))
	assert.Error(t, err)
}

func TestLoadWithEnv_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("EXA_API_KEY", "exa-key")
	t.Setenv("PORT", "7000")

	cfg, found, err := LoadWithEnv(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, ":7000", cfg.Server.Addr)
	assert.Equal(t, "exa-key", cfg.Providers.Exa.APIKey)
	assert.Equal(t, 5, cfg.Search.DefaultResults)
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"LOG_LEVEL":       "debug",
		"GOOGLE_API_KEY":  "gk",
		"GOOGLE_CX":       "cx",
		"YOUTUBE_API_KEY": "yk",
		"DEFAULT_RESULTS": "not-a-number",
	}
	cfg := Default()
	cfg.ApplyEnv(func(k string) string { return env[k] })

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "gk", cfg.Providers.Google.APIKey)
	assert.Equal(t, "cx", cfg.Providers.Google.CX)
	assert.Equal(t, "yk", cfg.Providers.YouTube.APIKey)
	assert.Equal(t, 5, cfg.Search.DefaultResults)
}
