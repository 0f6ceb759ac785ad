package conversation

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, DefaultBaseURL, cfg.BaseURL)
	assert.Equal(t, DefaultPath, cfg.Path)
	assert.True(t, cfg.AutoContinue)
	assert.Equal(t, DefaultTimeout, cfg.Timeout)
	assert.NoError(t, cfg.Validate())
}

func TestConfig_LoadFromEnv(t *testing.T) {
	t.Setenv("CONVKIT_BASE_URL", "http://example.com:9090")
	t.Setenv("CONVKIT_MODEL", "gpt-4o")
	t.Setenv("CONVKIT_PROVIDER", "Bing")
	t.Setenv("CONVKIT_API_KEY", "sk-test")
	t.Setenv("CONVKIT_WEB_SEARCH", "true")
	t.Setenv("CONVKIT_AUTO_CONTINUE", "false")
	t.Setenv("CONVKIT_TIMEOUT", "45s")
	t.Setenv("CONVKIT_TEMPERATURE", "0.5")
	t.Setenv("CONVKIT_MAX_TOKENS", "256")

	cfg := FromEnv()

	assert.Equal(t, "http://example.com:9090", cfg.BaseURL)
	assert.Equal(t, "gpt-4o", cfg.Model)
	assert.Equal(t, "Bing", cfg.Provider)
	assert.Equal(t, "sk-test", cfg.APIKey)
	assert.True(t, cfg.WebSearch)
	assert.False(t, cfg.AutoContinue)
	assert.Equal(t, 45*time.Second, cfg.Timeout)
	assert.Equal(t, 0.5, cfg.Temperature)
	assert.Equal(t, 256, cfg.MaxTokens)
}

func TestConfig_LoadFromEnv_IgnoresMalformed(t *testing.T) {
	t.Setenv("CONVKIT_TIMEOUT", "not-a-duration")
	t.Setenv("CONVKIT_MAX_TOKENS", "lots")

	cfg := FromEnv()

	assert.Equal(t, DefaultTimeout, cfg.Timeout)
	assert.Equal(t, 0, cfg.MaxTokens)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid default", func(c *Config) {}, ""},
		{"https ok", func(c *Config) { c.BaseURL = "https://api.example.com" }, ""},
		{"empty base url", func(c *Config) { c.BaseURL = "" }, "base_url is required"},
		{"bad scheme", func(c *Config) { c.BaseURL = "ftp://example.com" }, "scheme"},
		{"missing host", func(c *Config) { c.BaseURL = "http://" }, "no host"},
		{"empty path", func(c *Config) { c.Path = "" }, "path is required"},
		{"relative path", func(c *Config) { c.Path = "api/v2" }, "must start with /"},
		{"negative timeout", func(c *Config) { c.Timeout = -time.Second }, "timeout"},
		{"temperature too high", func(c *Config) { c.Temperature = 2.5 }, "temperature"},
		{"negative max tokens", func(c *Config) { c.MaxTokens = -5 }, "max_tokens"},
		{"unknown default option", func(c *Config) { c.Options = map[string]any{"bogus": 1} }, "unknown option"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestConfig_Endpoint(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "http://127.0.0.1:8080/backend-api/v2/conversation", cfg.Endpoint())

	cfg.BaseURL = "http://host:1234/"
	assert.Equal(t, "http://host:1234/backend-api/v2/conversation", cfg.Endpoint())
}

func TestLoadFile_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "convkit.yaml")
	data := `
base_url: http://yaml.example.com
model: gpt-4o-mini
web_search: true
timeout: 10s
options:
  temperature: 0.3
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "http://yaml.example.com", cfg.BaseURL)
	assert.Equal(t, "gpt-4o-mini", cfg.Model)
	assert.True(t, cfg.WebSearch)
	assert.Equal(t, 10*time.Second, cfg.Timeout)
	assert.Equal(t, 0.3, cfg.GetFloatOption("temperature", 0))
	// Untouched fields keep defaults.
	assert.Equal(t, DefaultPath, cfg.Path)
}

func TestLoadFile_TOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "convkit.toml")
	data := `
base_url = "http://toml.example.com"
model = "llama-3.1-70b"
max_tokens = 512
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "http://toml.example.com", cfg.BaseURL)
	assert.Equal(t, "llama-3.1-70b", cfg.Model)
	assert.Equal(t, 512, cfg.MaxTokens)
	assert.True(t, cfg.AutoContinue, "defaults survive partial files")
}

func TestLoadFile_Errors(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "convkit.ini")
	require.NoError(t, os.WriteFile(path, []byte("x=1"), 0o644))
	_, err = LoadFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported config extension")
}

func TestConfig_OptionGetters(t *testing.T) {
	cfg := Config{Options: map[string]any{
		"model":       "m1",
		"web_search":  true,
		"temperature": 0.4,
		"max_tokens":  float64(99), // as decoded from JSON
	}}

	assert.Equal(t, "m1", cfg.GetStringOption("model", "fallback"))
	assert.Equal(t, "fallback", cfg.GetStringOption("missing", "fallback"))
	assert.True(t, cfg.GetBoolOption("web_search", false))
	assert.False(t, cfg.GetBoolOption("missing", false))
	assert.Equal(t, 0.4, cfg.GetFloatOption("temperature", 0))
	assert.Equal(t, 99, cfg.GetIntOption("max_tokens", 0))
	assert.Nil(t, cfg.GetOption("missing"))

	var empty Config
	assert.Equal(t, "d", empty.GetStringOption("any", "d"))
	assert.Equal(t, 7, empty.GetIntOption("any", 7))
}
