package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Duration decodes Go duration strings ("5s", "250ms") from TOML.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

type ServerConfig struct {
	Addr            string   `toml:"addr"`
	ReadTimeout     Duration `toml:"read_timeout"`
	WriteTimeout    Duration `toml:"write_timeout"`
	ShutdownTimeout Duration `toml:"shutdown_timeout"`
}

type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

type SearchConfig struct {
	DefaultResults  int      `toml:"default_results"`
	MaxResults      int      `toml:"max_results"`
	ProviderTimeout Duration `toml:"provider_timeout"`
	RecommendLimit  int      `toml:"recommend_limit"`
	TrendingLimit   int      `toml:"trending_limit"`
}

type ProviderConfig struct {
	Enabled       bool    `toml:"enabled"`
	APIKey        string  `toml:"api_key"`
	BaseURL       string  `toml:"base_url"`
	CX            string  `toml:"cx"`
	RatePerSecond float64 `toml:"rate_per_second"`
	Burst         int     `toml:"burst"`
	MaxRetries    int     `toml:"max_retries"`
}

type ProvidersConfig struct {
	Exa     ProviderConfig `toml:"exa"`
	Google  ProviderConfig `toml:"google"`
	YouTube ProviderConfig `toml:"youtube"`
}

type Config struct {
	Server    ServerConfig    `toml:"server"`
	Log       LogConfig       `toml:"log"`
	Search    SearchConfig    `toml:"search"`
	Providers ProvidersConfig `toml:"providers"`
}

func Default() *Config {
	provider := ProviderConfig{Enabled: true, RatePerSecond: 5, Burst: 5, MaxRetries: 1}
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     Duration{15 * time.Second},
			WriteTimeout:    Duration{30 * time.Second},
			ShutdownTimeout: Duration{10 * time.Second},
		},
		Log: LogConfig{Level: "info", Format: "json"},
		Search: SearchConfig{
			DefaultResults:  5,
			MaxResults:      10,
			ProviderTimeout: Duration{10 * time.Second},
			RecommendLimit:  5,
			TrendingLimit:   5,
		},
		Providers: ProvidersConfig{Exa: provider, Google: provider, YouTube: provider},
	}
}

// Load reads the TOML file at path on top of the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}

	return cfg, cfg.Validate()
}

// LoadWithEnv loads path if it exists, falls back to defaults when it does
// not, and then applies environment overrides. The returned bool reports
// whether the file was found.
func LoadWithEnv(path string) (*Config, bool, error) {
	cfg, err := Load(path)
	found := true
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, false, err
		}
		cfg, found = Default(), false
	}

	cfg.ApplyEnv(os.Getenv)
	return cfg, found, cfg.Validate()
}

// ApplyEnv overrides config values from the environment (simple override logic).
func (c *Config) ApplyEnv(getenv func(string) string) {
	if port := getenv("PORT"); port != "" {
		c.Server.Addr = ":" + port
	}
	if level := getenv("LOG_LEVEL"); level != "" {
		c.Log.Level = level
	}
	if n := getenv("DEFAULT_RESULTS"); n != "" {
		if v, err := strconv.Atoi(n); err == nil {
			c.Search.DefaultResults = v
		}
	}
	if key := getenv("EXA_API_KEY"); key != "" {
		c.Providers.Exa.APIKey = key
	}
	if key := getenv("GOOGLE_API_KEY"); key != "" {
		c.Providers.Google.APIKey = key
	}
	if cx := getenv("GOOGLE_CX"); cx != "" {
		c.Providers.Google.CX = cx
	}
	if key := getenv("YOUTUBE_API_KEY"); key != "" {
		c.Providers.YouTube.APIKey = key
	}
}

func (c *Config) Validate() error {
	if c.Search.DefaultResults <= 0 {
		return fmt.Errorf("search.default_results must be positive, got %d", c.Search.DefaultResults)
	}
	if c.Search.MaxResults < c.Search.DefaultResults {
		return fmt.Errorf("search.max_results (%d) must be >= default_results (%d)", c.Search.MaxResults, c.Search.DefaultResults)
	}
	if c.Search.ProviderTimeout.Duration <= 0 {
		return fmt.Errorf("search.provider_timeout must be positive")
	}
	return nil
}
