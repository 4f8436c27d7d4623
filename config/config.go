// Package config loads and persists the forge configuration file.
// The file lives at $FORGE_DIR/config.yaml; missing files and missing
// keys fall back to defaults, so a fresh install needs no setup.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/forge-dev/forge/envconfig"
)

type Config struct {
	LLM    LLM    `yaml:"llm"`
	UI     UI     `yaml:"ui"`
	Safety Safety `yaml:"safety"`
}

type LLM struct {
	Provider    string  `yaml:"provider"`
	Model       string  `yaml:"model"`
	Temperature float32 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
	Timeout     int     `yaml:"timeout_seconds"`
}

type UI struct {
	Theme              string `yaml:"theme"`
	ShowLineNumbers    bool   `yaml:"show_line_numbers"`
	SyntaxHighlighting bool   `yaml:"syntax_highlighting"`
	AutoSave           bool   `yaml:"auto_save"`
}

type Safety struct {
	Enabled             bool     `yaml:"enabled"`
	AllowSystemCommands bool     `yaml:"allow_system_commands"`
	RestrictedPaths     []string `yaml:"restricted_paths"`
	MaxFileSizeMB       int      `yaml:"max_file_size_mb"`
}

func Default() *Config {
	return &Config{
		LLM: LLM{
			Provider:    "ollama",
			Model:       envconfig.Model(),
			Temperature: 0.7,
			MaxTokens:   4096,
			Timeout:     30,
		},
		UI: UI{
			Theme:              "default",
			ShowLineNumbers:    true,
			SyntaxHighlighting: true,
			AutoSave:           false,
		},
		Safety: Safety{
			Enabled:             true,
			AllowSystemCommands: false,
			RestrictedPaths:     []string{"/etc", "/usr/bin", "/sbin"},
			MaxFileSizeMB:       10,
		},
	}
}

// Path returns the location of the configuration file.
func Path() string {
	return filepath.Join(envconfig.Dir(), "config.yaml")
}

// Load reads the configuration file at Path. A missing file yields
// the defaults; keys absent from the file keep their default values.
func Load() (*Config, error) {
	return LoadFrom(Path())
}

func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	} else if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// Save writes the configuration to Path, creating the directory
// if needed.
func (c *Config) Save() error {
	return c.SaveTo(Path())
}

func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return os.WriteFile(path, b, 0o644)
}

// Timeout returns the request timeout as a duration.
func (l LLM) TimeoutDuration() time.Duration {
	if l.Timeout <= 0 {
		return 0
	}
	return time.Duration(l.Timeout) * time.Second
}

var errUnknownKey = errors.New("unknown configuration key")

// Get returns the value stored under a dotted key such as "llm.model".
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "llm.provider":
		return c.LLM.Provider, nil
	case "llm.model":
		return c.LLM.Model, nil
	case "llm.temperature":
		return strconv.FormatFloat(float64(c.LLM.Temperature), 'g', -1, 32), nil
	case "llm.max_tokens":
		return strconv.Itoa(c.LLM.MaxTokens), nil
	case "llm.timeout_seconds":
		return strconv.Itoa(c.LLM.Timeout), nil
	case "ui.theme":
		return c.UI.Theme, nil
	case "ui.show_line_numbers":
		return strconv.FormatBool(c.UI.ShowLineNumbers), nil
	case "ui.syntax_highlighting":
		return strconv.FormatBool(c.UI.SyntaxHighlighting), nil
	case "ui.auto_save":
		return strconv.FormatBool(c.UI.AutoSave), nil
	case "safety.enabled":
		return strconv.FormatBool(c.Safety.Enabled), nil
	case "safety.allow_system_commands":
		return strconv.FormatBool(c.Safety.AllowSystemCommands), nil
	case "safety.max_file_size_mb":
		return strconv.Itoa(c.Safety.MaxFileSizeMB), nil
	}
	return "", fmt.Errorf("%w: %q", errUnknownKey, key)
}

// Set updates the value stored under a dotted key, parsing the string
// according to the field's type.
func (c *Config) Set(key, value string) error {
	switch key {
	case "llm.provider":
		c.LLM.Provider = value
	case "llm.model":
		c.LLM.Model = value
	case "llm.temperature":
		f, err := strconv.ParseFloat(value, 32)
		if err != nil {
			return fmt.Errorf("parse %q: %w", key, err)
		}
		c.LLM.Temperature = float32(f)
	case "llm.max_tokens":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("parse %q: %w", key, err)
		}
		c.LLM.MaxTokens = n
	case "llm.timeout_seconds":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("parse %q: %w", key, err)
		}
		c.LLM.Timeout = n
	case "ui.theme":
		c.UI.Theme = value
	case "ui.show_line_numbers", "ui.syntax_highlighting", "ui.auto_save",
		"safety.enabled", "safety.allow_system_commands":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("parse %q: %w", key, err)
		}
		switch key {
		case "ui.show_line_numbers":
			c.UI.ShowLineNumbers = b
		case "ui.syntax_highlighting":
			c.UI.SyntaxHighlighting = b
		case "ui.auto_save":
			c.UI.AutoSave = b
		case "safety.enabled":
			c.Safety.Enabled = b
		case "safety.allow_system_commands":
			c.Safety.AllowSystemCommands = b
		}
	case "safety.max_file_size_mb":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("parse %q: %w", key, err)
		}
		c.Safety.MaxFileSizeMB = n
	default:
		return fmt.Errorf("%w: %q", errUnknownKey, key)
	}
	return nil
}

// Keys lists every key accepted by Get and Set, in display order.
func Keys() []string {
	return []string{
		"llm.provider",
		"llm.model",
		"llm.temperature",
		"llm.max_tokens",
		"llm.timeout_seconds",
		"ui.theme",
		"ui.show_line_numbers",
		"ui.syntax_highlighting",
		"ui.auto_save",
		"safety.enabled",
		"safety.allow_system_commands",
		"safety.max_file_size_mb",
	}
}
