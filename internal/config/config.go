// Package config loads the gale configuration from an optional YAML file
// and the environment. Environment variables always win over file values
// so deployments can override a checked-in config without editing it.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Default values applied when neither the config file nor the
// environment provides a setting.
const (
	DefaultModel          = "gemini-2.0-flash"
	DefaultWeatherBaseURL = "https://api.weatherapi.com"
	DefaultLogLevel       = "info"
	DefaultLogFormat      = "text"
	DefaultHistoryWindow  = 40
	DefaultMaxFuncRounds  = 8
	DefaultRetryAttempts  = 2
)

// Config holds all runtime configuration for the assistant.
type Config struct {
	// Gemini holds model-service settings.
	Gemini GeminiConfig `yaml:"gemini"`

	// Weather holds weather-service settings.
	Weather WeatherConfig `yaml:"weather"`

	// Google holds the OAuth client used for Gmail and People access.
	Google GoogleConfig `yaml:"google"`

	// Log holds logging settings.
	Log LogConfig `yaml:"log"`

	// HistoryWindow bounds the number of non-system conversation entries
	// kept in memory. Older entries are trimmed once the window is full.
	HistoryWindow int `yaml:"history_window"`

	// MaxFuncRounds bounds consecutive function-call rounds within a
	// single user turn.
	MaxFuncRounds int `yaml:"max_func_rounds"`

	// RetryAttempts is the total number of attempts for model calls.
	RetryAttempts int `yaml:"retry_attempts"`
}

// GeminiConfig configures access to the Gemini API.
type GeminiConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
}

// WeatherConfig configures access to the weather API.
type WeatherConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
}

// GoogleConfig configures the OAuth client for Google services.
type GoogleConfig struct {
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
}

// LogConfig configures the default logger.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads the YAML config file at path (if path is non-empty and the
// file exists), applies environment overrides, fills defaults and
// validates the result.
func Load(path string) (*Config, error) {
	cfg, err := load(path)
	if err != nil {
		return nil, err
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadGoogleCredentials returns just the Google OAuth client settings.
// Validation of the service API keys is skipped; the auth command runs
// before any model or weather key is needed.
func LoadGoogleCredentials(path string) (GoogleConfig, error) {
	cfg, err := load(path)
	if err != nil {
		return GoogleConfig{}, err
	}
	if cfg.Google.ClientID == "" || cfg.Google.ClientSecret == "" {
		return GoogleConfig{}, fmt.Errorf("google.client_id and google.client_secret are required (set GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET)")
	}
	return cfg.Google, nil
}

func load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("config: open %q: %w", path, err)
			}
		} else {
			defer f.Close()
			if cfg, err = fromReader(f); err != nil {
				return nil, fmt.Errorf("config: parse %q: %w", path, err)
			}
		}
	}

	applyEnv(cfg)
	applyDefaults(cfg)
	return cfg, nil
}

// applyEnv overrides file values with environment variables.
func applyEnv(cfg *Config) {
	setString(&cfg.Gemini.APIKey, "GEMINI_API_KEY")
	setString(&cfg.Gemini.Model, "MODEL")
	setString(&cfg.Weather.APIKey, "WEATHER_API_KEY")
	setString(&cfg.Weather.BaseURL, "WEATHER_API_BASE_URL")
	setString(&cfg.Google.ClientID, "GOOGLE_CLIENT_ID")
	setString(&cfg.Google.ClientSecret, "GOOGLE_CLIENT_SECRET")
	setString(&cfg.Log.Level, "GALE_LOG_LEVEL")
	setString(&cfg.Log.Format, "GALE_LOG_FORMAT")
	setInt(&cfg.HistoryWindow, "GALE_HISTORY_WINDOW")
	setInt(&cfg.MaxFuncRounds, "GALE_MAX_FUNC_ROUNDS")
	setInt(&cfg.RetryAttempts, "GALE_RETRY_ATTEMPTS")
}

func applyDefaults(cfg *Config) {
	if cfg.Gemini.Model == "" {
		cfg.Gemini.Model = DefaultModel
	}
	if cfg.Weather.BaseURL == "" {
		cfg.Weather.BaseURL = DefaultWeatherBaseURL
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}
	if cfg.HistoryWindow <= 0 {
		cfg.HistoryWindow = DefaultHistoryWindow
	}
	if cfg.MaxFuncRounds <= 0 {
		cfg.MaxFuncRounds = DefaultMaxFuncRounds
	}
	if cfg.RetryAttempts <= 0 {
		cfg.RetryAttempts = DefaultRetryAttempts
	}
}

// Validate checks that cfg contains a coherent set of values.
// It returns a joined error listing all validation failures found.
func Validate(cfg *Config) error {
	var errs []error

	if cfg.Gemini.APIKey == "" {
		errs = append(errs, fmt.Errorf("gemini.api_key is required (set GEMINI_API_KEY)"))
	}
	if cfg.Weather.APIKey == "" {
		errs = append(errs, fmt.Errorf("weather.api_key is required (set WEATHER_API_KEY)"))
	}
	switch cfg.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log.level %q is invalid; valid values: debug, info, warn, error", cfg.Log.Level))
	}
	switch cfg.Log.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format %q is invalid; valid values: text, json", cfg.Log.Format))
	}

	return errors.Join(errs...)
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

// fromReader is split out so tests can construct configs from string
// literals without touching the filesystem. Unknown fields are rejected
// so typos in config files fail loudly.
func fromReader(r io.Reader) (*Config, error) {
	cfg := &Config{}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
