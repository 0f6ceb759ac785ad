package conversation

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Default connection settings for a locally provisioned backend.
const (
	DefaultBaseURL = "http://127.0.0.1:8080"
	DefaultPath    = "/backend-api/v2/conversation"
	DefaultTimeout = 30 * time.Second
)

// Config holds client configuration. Zero values use defaults where noted.
// Per-request values (Request fields and option overrides) take precedence
// over everything configured here.
type Config struct {
	// BaseURL is the backend's base URL.
	// Default: "http://127.0.0.1:8080"
	BaseURL string `json:"base_url" yaml:"base_url" toml:"base_url"`

	// Path is the conversation endpoint path appended to BaseURL.
	// Default: "/backend-api/v2/conversation"
	Path string `json:"path" yaml:"path" toml:"path"`

	// Model is the default model identifier. Empty lets the backend choose.
	Model string `json:"model" yaml:"model" toml:"model"`

	// Provider is the default upstream provider name. Empty lets the
	// backend choose.
	Provider string `json:"provider" yaml:"provider" toml:"provider"`

	// APIKey is forwarded to the backend when set.
	APIKey string `json:"api_key" yaml:"api_key" toml:"api_key"`

	// WebSearch asks the backend to augment replies with web results.
	WebSearch bool `json:"web_search" yaml:"web_search" toml:"web_search"`

	// AutoContinue asks the backend to continue truncated generations.
	// Default: true (set by DefaultConfig).
	AutoContinue bool `json:"auto_continue" yaml:"auto_continue" toml:"auto_continue"`

	// Timeout bounds a Complete call end to end. For Stream calls it only
	// bounds connection establishment; fragment delivery is bounded by the
	// caller's context. 0 disables the client-side bound.
	// Default: 30 seconds.
	Timeout time.Duration `json:"timeout" yaml:"timeout" toml:"timeout"`

	// Temperature is the default sampling temperature. 0 omits it from
	// the request so the backend default applies.
	Temperature float64 `json:"temperature" yaml:"temperature" toml:"temperature"`

	// MaxTokens is the default response length limit. 0 omits it.
	MaxTokens int `json:"max_tokens" yaml:"max_tokens" toml:"max_tokens"`

	// Options holds extra per-call defaults keyed by the recognized option
	// names (see RecognizedOptions). Applied before Request.Options.
	Options map[string]any `json:"options" yaml:"options" toml:"options"`
}

// DefaultConfig returns a Config with defaults for a local backend.
func DefaultConfig() Config {
	return Config{
		BaseURL:      DefaultBaseURL,
		Path:         DefaultPath,
		AutoContinue: true,
		Timeout:      DefaultTimeout,
	}
}

// LoadFromEnv populates config fields from environment variables.
// Variables use the CONVKIT_ prefix and take precedence over existing values.
//
// Supported variables:
//   - CONVKIT_BASE_URL: Backend base URL
//   - CONVKIT_PATH: Conversation endpoint path
//   - CONVKIT_MODEL: Default model
//   - CONVKIT_PROVIDER: Default provider
//   - CONVKIT_API_KEY: API key
//   - CONVKIT_WEB_SEARCH: "true" / "false"
//   - CONVKIT_AUTO_CONTINUE: "true" / "false"
//   - CONVKIT_TIMEOUT: Duration (e.g., "30s")
//   - CONVKIT_TEMPERATURE: Sampling temperature
//   - CONVKIT_MAX_TOKENS: Response length limit
func (c *Config) LoadFromEnv() {
	if v := os.Getenv("CONVKIT_BASE_URL"); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv("CONVKIT_PATH"); v != "" {
		c.Path = v
	}
	if v := os.Getenv("CONVKIT_MODEL"); v != "" {
		c.Model = v
	}
	if v := os.Getenv("CONVKIT_PROVIDER"); v != "" {
		c.Provider = v
	}
	if v := os.Getenv("CONVKIT_API_KEY"); v != "" {
		c.APIKey = v
	}
	if v := os.Getenv("CONVKIT_WEB_SEARCH"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.WebSearch = b
		}
	}
	if v := os.Getenv("CONVKIT_AUTO_CONTINUE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.AutoContinue = b
		}
	}
	if v := os.Getenv("CONVKIT_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Timeout = d
		}
	}
	if v := os.Getenv("CONVKIT_TEMPERATURE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.Temperature = f
		}
	}
	if v := os.Getenv("CONVKIT_MAX_TOKENS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxTokens = n
		}
	}
}

// FromEnv creates a Config from environment variables with defaults.
func FromEnv() Config {
	cfg := DefaultConfig()
	cfg.LoadFromEnv()
	return cfg
}

// fileConfig mirrors Config for file decoding. Pointers distinguish absent
// fields from zero values so partial files layer over defaults; durations
// are strings ("30s") since neither YAML nor TOML decode time.Duration.
type fileConfig struct {
	BaseURL      *string        `yaml:"base_url" toml:"base_url"`
	Path         *string        `yaml:"path" toml:"path"`
	Model        *string        `yaml:"model" toml:"model"`
	Provider     *string        `yaml:"provider" toml:"provider"`
	APIKey       *string        `yaml:"api_key" toml:"api_key"`
	WebSearch    *bool          `yaml:"web_search" toml:"web_search"`
	AutoContinue *bool          `yaml:"auto_continue" toml:"auto_continue"`
	Timeout      *string        `yaml:"timeout" toml:"timeout"`
	Temperature  *float64       `yaml:"temperature" toml:"temperature"`
	MaxTokens    *int           `yaml:"max_tokens" toml:"max_tokens"`
	Options      map[string]any `yaml:"options" toml:"options"`
}

// LoadFile reads configuration from a YAML or TOML file, selected by
// extension (.yaml/.yml or .toml), layered over defaults.
func LoadFile(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	var fc fileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &fc); err != nil {
			return cfg, fmt.Errorf("parse yaml config %s: %w", path, err)
		}
	case ".toml":
		if err := toml.Unmarshal(data, &fc); err != nil {
			return cfg, fmt.Errorf("parse toml config %s: %w", path, err)
		}
	default:
		return cfg, fmt.Errorf("unsupported config extension %q (want .yaml, .yml, or .toml)", filepath.Ext(path))
	}

	if fc.BaseURL != nil {
		cfg.BaseURL = *fc.BaseURL
	}
	if fc.Path != nil {
		cfg.Path = *fc.Path
	}
	if fc.Model != nil {
		cfg.Model = *fc.Model
	}
	if fc.Provider != nil {
		cfg.Provider = *fc.Provider
	}
	if fc.APIKey != nil {
		cfg.APIKey = *fc.APIKey
	}
	if fc.WebSearch != nil {
		cfg.WebSearch = *fc.WebSearch
	}
	if fc.AutoContinue != nil {
		cfg.AutoContinue = *fc.AutoContinue
	}
	if fc.Timeout != nil {
		d, err := time.ParseDuration(*fc.Timeout)
		if err != nil {
			return cfg, fmt.Errorf("parse config timeout %q: %w", *fc.Timeout, err)
		}
		cfg.Timeout = d
	}
	if fc.Temperature != nil {
		cfg.Temperature = *fc.Temperature
	}
	if fc.MaxTokens != nil {
		cfg.MaxTokens = *fc.MaxTokens
	}
	if fc.Options != nil {
		cfg.Options = fc.Options
	}

	return cfg, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base_url is required")
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("base_url is not a valid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("base_url scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("base_url has no host")
	}
	if c.Path == "" {
		return fmt.Errorf("path is required")
	}
	if !strings.HasPrefix(c.Path, "/") {
		return fmt.Errorf("path must start with /, got %q", c.Path)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must be >= 0, got %v", c.Timeout)
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("temperature must be in [0, 2], got %v", c.Temperature)
	}
	if c.MaxTokens < 0 {
		return fmt.Errorf("max_tokens must be >= 0, got %d", c.MaxTokens)
	}
	if err := validateOptions(c.Options); err != nil {
		return err
	}
	return nil
}

// Endpoint returns the full conversation endpoint URL.
func (c *Config) Endpoint() string {
	return strings.TrimRight(c.BaseURL, "/") + c.Path
}

// GetOption retrieves a default option by key.
// Returns nil if the option is not set.
func (c Config) GetOption(key string) any {
	if c.Options == nil {
		return nil
	}
	return c.Options[key]
}

// GetStringOption retrieves a string option, returning defaultVal if not set.
func (c Config) GetStringOption(key, defaultVal string) string {
	if v, ok := c.Options[key].(string); ok {
		return v
	}
	return defaultVal
}

// GetBoolOption retrieves a bool option, returning defaultVal if not set.
func (c Config) GetBoolOption(key string, defaultVal bool) bool {
	if v, ok := c.Options[key].(bool); ok {
		return v
	}
	return defaultVal
}

// GetFloatOption retrieves a numeric option, returning defaultVal if not set.
// Handles int and float64 (from JSON unmarshaling).
func (c Config) GetFloatOption(key string, defaultVal float64) float64 {
	switch v := c.Options[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	}
	return defaultVal
}

// GetIntOption retrieves an int option, returning defaultVal if not set.
func (c Config) GetIntOption(key string, defaultVal int) int {
	switch v := c.Options[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return defaultVal
}
