package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults applied by STTConfig.ApplyDefaults. The endpoint default matches
// the provider's standard transcriptions URL.
const (
	DefaultSTTURL      = "https://api.openai.com/v1/audio/transcriptions"
	DefaultModel       = "whisper-1"
	DefaultLanguage    = "en-US"
	DefaultSTTTimeout  = 30 // seconds
	DefaultHTTPAddress = "0.0.0.0"
	DefaultHTTPPort    = 8080
)

// Config represents the complete service configuration
type Config struct {
	HTTP    HTTPConfig    `yaml:"http"`
	STT     STTConfig     `yaml:"stt"`
	Logging LoggingConfig `yaml:"logging"`
}

// HTTPConfig contains HTTP bridge server configuration
type HTTPConfig struct {
	Port    int    `yaml:"port"`
	Address string `yaml:"address"`
}

// STTConfig contains the speech-to-text provider configuration. Prompt and
// Temperature are accepted but not forwarded to the transcription request.
type STTConfig struct {
	APIKey      string `yaml:"api_key"`
	Language    string `yaml:"language"`
	Model       string `yaml:"model"`
	URL         string `yaml:"url"`
	Prompt      string `yaml:"prompt"`
	Temperature int    `yaml:"temperature"`
	Timeout     int    `yaml:"timeout"` // seconds
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Load reads, expands, and parses the configuration file. Environment
// variable references ($VAR or ${VAR}) in the file are substituted before
// parsing so secrets can stay out of the file itself.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	expanded := os.ExpandEnv(string(data))

	var config Config
	if err := yaml.Unmarshal([]byte(expanded), &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	config.ApplyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

// ApplyDefaults fills unset fields with their default values
func (c *Config) ApplyDefaults() {
	if c.HTTP.Address == "" {
		c.HTTP.Address = DefaultHTTPAddress
	}
	if c.HTTP.Port == 0 {
		c.HTTP.Port = DefaultHTTPPort
	}

	c.STT.ApplyDefaults()

	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
}

// ApplyDefaults fills unset STT fields with their default values
func (s *STTConfig) ApplyDefaults() {
	if s.Language == "" {
		s.Language = DefaultLanguage
	}
	if s.Model == "" {
		s.Model = DefaultModel
	}
	if s.URL == "" {
		s.URL = DefaultSTTURL
	}
	if s.Timeout == 0 {
		s.Timeout = DefaultSTTTimeout
	}
}

// Validate performs validation of the configuration
func (c *Config) Validate() error {
	if err := c.HTTP.Validate(); err != nil {
		return fmt.Errorf("http config: %w", err)
	}

	if err := c.STT.Validate(); err != nil {
		return fmt.Errorf("stt config: %w", err)
	}

	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}

	return nil
}

// Validate validates HTTP bridge configuration
func (h *HTTPConfig) Validate() error {
	if h.Port < 1 || h.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", h.Port)
	}

	if h.Address == "" {
		return fmt.Errorf("address cannot be empty")
	}

	return nil
}

// Validate validates STT provider configuration
func (s *STTConfig) Validate() error {
	if s.APIKey == "" {
		return fmt.Errorf("api_key cannot be empty")
	}

	if strings.TrimSpace(s.Language) == "" {
		return fmt.Errorf("language cannot be empty")
	}

	if s.Model == "" {
		return fmt.Errorf("model cannot be empty")
	}

	if s.URL == "" {
		return fmt.Errorf("url cannot be empty")
	}

	if s.Temperature < 0 {
		return fmt.Errorf("temperature cannot be negative, got %d", s.Temperature)
	}

	if s.Timeout < 1 {
		return fmt.Errorf("timeout must be at least 1 second, got %d", s.Timeout)
	}

	return nil
}

// Validate validates logging configuration
func (l *LoggingConfig) Validate() error {
	validLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLevels[l.Level] {
		return fmt.Errorf("level must be one of [debug, info, warn, error], got '%s'", l.Level)
	}

	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("format must be 'json' or 'text', got '%s'", l.Format)
	}

	return nil
}

// GetTimeoutDuration returns the STT request timeout as a time.Duration
func (s *STTConfig) GetTimeoutDuration() time.Duration {
	return time.Duration(s.Timeout) * time.Second
}

// DefaultLanguage returns the first entry of the comma-separated language
// list, which is the language forwarded as the provider default.
func (s *STTConfig) DefaultLanguage() string {
	return strings.Split(s.Language, ",")[0]
}

// SupportedLanguages returns the full comma-separated language list in
// configuration order.
func (s *STTConfig) SupportedLanguages() []string {
	return strings.Split(s.Language, ",")
}
