// Package config loads provider options from layered sources:
// built-in defaults, an optional YAML file, an optional .env file, and
// DYNABAML_* environment variables, in increasing priority.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/BaSui01/dynabaml/types"
)

// Defaults returns the options used when the caller supplies none: a local
// Ollama daemon with a small default model.
func Defaults() types.ProviderOptions {
	return types.ProviderOptions{
		Provider: types.ProviderOllama,
		Model:    "gemma3:1b",
		Timeout:  120 * time.Second,
		LogLevel: types.LogOff,
	}
}

// Loader resolves options from files and the environment.
type Loader struct {
	configPath string
	envFile    string
	envPrefix  string
}

// NewLoader creates a loader with the DYNABAML env prefix and no files.
func NewLoader() *Loader {
	return &Loader{envPrefix: "DYNABAML"}
}

// WithConfigPath sets the YAML options file.
func (l *Loader) WithConfigPath(path string) *Loader {
	l.configPath = path
	return l
}

// WithEnvFile sets an explicit .env file. Without one, ./.env is loaded
// when present.
func (l *Loader) WithEnvFile(path string) *Loader {
	l.envFile = path
	return l
}

// WithEnvPrefix overrides the environment variable prefix.
func (l *Loader) WithEnvPrefix(prefix string) *Loader {
	l.envPrefix = prefix
	return l
}

// fileOptions is the YAML form. Timeout accepts a duration string ("30s")
// or a bare number of seconds, matching how the options travel in other
// bindings.
type fileOptions struct {
	Provider    string   `yaml:"provider"`
	Model       string   `yaml:"model"`
	APIKey      string   `yaml:"api_key"`
	BaseURL     string   `yaml:"base_url"`
	Temperature *float64 `yaml:"temperature"`
	MaxTokens   *int     `yaml:"max_tokens"`
	Timeout     string   `yaml:"timeout"`
	RetryCount  *int     `yaml:"retry_count"`
	LogLevel    string   `yaml:"log_level"`
	LogPath     string   `yaml:"log_path"`
}

// Load resolves the final options and validates them.
func (l *Loader) Load() (types.ProviderOptions, error) {
	opts := Defaults()

	if l.envFile != "" {
		if err := godotenv.Load(l.envFile); err != nil {
			return opts, types.NewError(types.ErrConfiguration,
				"loading env file "+l.envFile+" failed").WithCause(err)
		}
	} else if _, err := os.Stat(".env"); err == nil {
		// best effort; a malformed optional .env should not be fatal
		_ = godotenv.Load(".env")
	}

	if l.configPath != "" {
		if err := l.applyFile(&opts); err != nil {
			return opts, err
		}
	}

	l.applyEnv(&opts)

	if err := opts.Validate(); err != nil {
		return opts, err
	}
	return opts, nil
}

func (l *Loader) applyFile(opts *types.ProviderOptions) error {
	data, err := os.ReadFile(l.configPath)
	if err != nil {
		return types.NewError(types.ErrConfiguration,
			"reading config file "+l.configPath+" failed").WithCause(err)
	}
	var fo fileOptions
	if err := yaml.Unmarshal(data, &fo); err != nil {
		return types.NewError(types.ErrConfiguration,
			"parsing config file "+l.configPath+" failed").WithCause(err)
	}

	if fo.Provider != "" {
		opts.Provider = types.ProviderID(fo.Provider)
	}
	if fo.Model != "" {
		opts.Model = fo.Model
	}
	if fo.APIKey != "" {
		opts.APIKey = fo.APIKey
	}
	if fo.BaseURL != "" {
		opts.BaseURL = fo.BaseURL
	}
	if fo.Temperature != nil {
		opts.Temperature = *fo.Temperature
	}
	if fo.MaxTokens != nil {
		opts.MaxTokens = *fo.MaxTokens
	}
	if fo.Timeout != "" {
		d, err := parseDuration(fo.Timeout)
		if err != nil {
			return types.NewError(types.ErrConfiguration,
				fmt.Sprintf("invalid timeout %q", fo.Timeout)).WithFragment(fo.Timeout).WithCause(err)
		}
		opts.Timeout = d
	}
	if fo.RetryCount != nil {
		opts.RetryCount = *fo.RetryCount
	}
	if fo.LogLevel != "" {
		opts.LogLevel = types.LogLevel(fo.LogLevel)
	}
	if fo.LogPath != "" {
		opts.LogPath = fo.LogPath
	}
	return nil
}

func (l *Loader) applyEnv(opts *types.ProviderOptions) {
	get := func(key string) string { return os.Getenv(l.envPrefix + "_" + key) }

	if v := get("PROVIDER"); v != "" {
		opts.Provider = types.ProviderID(v)
	}
	if v := get("MODEL"); v != "" {
		opts.Model = v
	}
	if v := get("API_KEY"); v != "" {
		opts.APIKey = v
	}
	if v := get("BASE_URL"); v != "" {
		opts.BaseURL = v
	}
	if v := get("TEMPERATURE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			opts.Temperature = f
		}
	}
	if v := get("MAX_TOKENS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			opts.MaxTokens = n
		}
	}
	if v := get("TIMEOUT"); v != "" {
		if d, err := parseDuration(v); err == nil {
			opts.Timeout = d
		}
	}
	if v := get("RETRY_COUNT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			opts.RetryCount = n
		}
	}
	if v := get("LOG_LEVEL"); v != "" {
		opts.LogLevel = types.LogLevel(v)
	}
	if v := get("LOG_PATH"); v != "" {
		opts.LogPath = v
	}
}

// parseDuration accepts Go duration syntax or a bare number of seconds.
func parseDuration(s string) (time.Duration, error) {
	if n, err := strconv.Atoi(s); err == nil {
		return time.Duration(n) * time.Second, nil
	}
	return time.ParseDuration(s)
}
