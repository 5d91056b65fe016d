package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/vidnavigator/vidnav/internal/logger"
	"github.com/vidnavigator/vidnav/internal/logger/sanitize"
	"github.com/vidnavigator/vidnav/internal/vidnav"
)

var logConfig = logger.New("config:config")

// Environment variables that override the configuration
const (
	EnvBaseURL = "VIDNAVIGATOR_BASE_URL"
	EnvToken   = "VIDNAVIGATOR_TOKEN"
)

// DefaultListen is the address used by "serve --listen" when none is configured
const DefaultListen = "127.0.0.1:3000"

// Config represents the vidnav configuration
type Config struct {
	Credentials CredentialsConfig `toml:"credentials" json:"credentials"`
	HTTP        HTTPConfig        `toml:"http" json:"http"`
	Server      ServerConfig      `toml:"server" json:"server"`
}

// CredentialsConfig holds the VidNavigator endpoint and bearer token
type CredentialsConfig struct {
	BaseURL string `toml:"base_url" json:"base_url,omitempty"`
	Token   string `toml:"token" json:"token,omitempty"`
}

// HTTPConfig configures the outbound HTTP client
type HTTPConfig struct {
	// TimeoutSeconds of 0 means no client timeout
	TimeoutSeconds int `toml:"timeout_seconds" json:"timeout_seconds,omitempty"`
}

// ServerConfig configures "vidnav serve --listen"
type ServerConfig struct {
	Listen string `toml:"listen" json:"listen,omitempty"`
	APIKey string `toml:"api_key" json:"api_key,omitempty"`
}

// Default returns the configuration used when no file is given
func Default() *Config {
	return &Config{
		Credentials: CredentialsConfig{BaseURL: vidnav.DefaultBaseURL},
		Server:      ServerConfig{Listen: DefaultListen},
	}
}

// LoadFromFile loads configuration from a TOML file
func LoadFromFile(path string) (*Config, error) {
	logConfig.Printf("Loading configuration from file: %s", path)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return LoadTOML(data)
}

// LoadTOML loads configuration from TOML text
func LoadTOML(data []byte) (*Config, error) {
	var raw map[string]any
	if _, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode TOML: %w", err)
	}
	return load(raw)
}

// LoadFromStdin loads configuration from stdin JSON
func LoadFromStdin() (*Config, error) {
	return LoadJSON(os.Stdin)
}

// LoadJSON loads configuration from a JSON document with the same shape as
// the TOML file
func LoadJSON(r io.Reader) (*Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read stdin: %w", err)
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	return load(raw)
}

// load expands variables, validates the document against the schema and
// the semantic rules, then decodes it over the defaults.
func load(raw map[string]any) (*Config, error) {
	if raw == nil {
		raw = map[string]any{}
	}
	expanded, err := expandTree(raw, "")
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(expanded)
	if err != nil {
		return nil, fmt.Errorf("failed to encode configuration: %w", err)
	}
	if err := validateJSONSchema(data); err != nil {
		return nil, err
	}

	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logConfig.Printf("Configuration loaded: base_url=%s, token=%s, timeout=%ds",
		cfg.Credentials.BaseURL, sanitize.TruncateSecret(cfg.Credentials.Token), cfg.HTTP.TimeoutSeconds)
	return cfg, nil
}

// ApplyEnv overrides credentials from VIDNAVIGATOR_BASE_URL and
// VIDNAVIGATOR_TOKEN when they are set and not empty
func (c *Config) ApplyEnv() {
	if v := strings.TrimSpace(os.Getenv(EnvBaseURL)); v != "" {
		logConfig.Printf("Using base URL from %s", EnvBaseURL)
		c.Credentials.BaseURL = v
	}
	if v := os.Getenv(EnvToken); v != "" {
		logConfig.Printf("Using token from %s", EnvToken)
		c.Credentials.Token = v
	}
}

// Override applies non-empty command line values
func (c *Config) Override(baseURL, token string) {
	if baseURL != "" {
		c.Credentials.BaseURL = baseURL
	}
	if token != "" {
		c.Credentials.Token = token
	}
}

// VidnavCredentials converts the credentials section
func (c *Config) VidnavCredentials() vidnav.Credentials {
	return vidnav.Credentials{
		BaseURL: c.Credentials.BaseURL,
		Token:   c.Credentials.Token,
	}
}

// Timeout returns the outbound HTTP client timeout
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.HTTP.TimeoutSeconds) * time.Second
}
