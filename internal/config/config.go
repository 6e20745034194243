package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
)

// Config holds ontomap configuration.
type Config struct {
	Service ServiceConfig `toml:"service"`
	View    ViewConfig    `toml:"view"`
	Style   StyleConfig   `toml:"style"`
	Log     LogConfig     `toml:"log"`
	Serve   ServeConfig   `toml:"serve"`
}

// ServiceConfig points at the mapping-count service.
type ServiceConfig struct {
	BaseURL   string   `toml:"base_url" validate:"omitempty,url"`
	Timeout   Duration `toml:"timeout"`
	UserAgent string   `toml:"user_agent"`
	APIKey    string   `toml:"api_key"`
}

// ViewConfig controls the rendered graph.
type ViewConfig struct {
	Layout       string  `toml:"layout" validate:"required"`
	Width        float64 `toml:"width" validate:"gt=0"`
	Height       float64 `toml:"height" validate:"gt=0"`
	NodeWidth    float64 `toml:"node_width" validate:"gt=0"`
	NodeHeight   float64 `toml:"node_height" validate:"gt=0"`
	PruneRemoved bool    `toml:"prune_removed"`
}

// StyleConfig sets node colors. Nodes listed in Highlight are drawn with
// HighlightWeight.
type StyleConfig struct {
	Palette         []string `toml:"palette" validate:"min=1,dive,hexcolor"`
	BorderColor     string   `toml:"border_color" validate:"hexcolor"`
	FontColor       string   `toml:"font_color" validate:"hexcolor"`
	Highlight       []string `toml:"highlight"`
	HighlightWeight string   `toml:"highlight_weight" validate:"oneof=normal bold"`
}

// LogConfig controls diagnostics on stderr.
type LogConfig struct {
	Level  string `toml:"level" validate:"oneof=debug info warn error"`
	Format string `toml:"format" validate:"oneof=text json"`
}

// ServeConfig controls `ontomap serve`.
type ServeConfig struct {
	Addr    string `toml:"addr" validate:"required,hostname_port"`
	Metrics bool   `toml:"metrics"`
}

// Duration is a time.Duration written as a string ("5s") in TOML.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Service: ServiceConfig{
			Timeout:   Duration{30 * time.Second},
			UserAgent: "ontomap",
		},
		View: ViewConfig{
			Layout:     "circle",
			Width:      1200,
			Height:     900,
			NodeWidth:  120,
			NodeHeight: 32,
		},
		Style: StyleConfig{
			Palette:         []string{"#8dd3c7", "#ffffb3", "#bebada", "#fb8072", "#80b1d3", "#fdb462", "#b3de69", "#fccde5"},
			BorderColor:     "#4d4d4d",
			FontColor:       "#1a1a1a",
			HighlightWeight: "bold",
		},
		Log:   LogConfig{Level: "info", Format: "text"},
		Serve: ServeConfig{Addr: "127.0.0.1:7317", Metrics: true},
	}
}

// ConfigDir returns the ontomap config directory path.
func ConfigDir() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "ontomap")
}

// Path returns the default config file path.
func Path() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// Load reads the config file at path, or the default path when empty.
// A missing file yields the defaults; a malformed or invalid one is an error.
func Load(path string) (*Config, error) {
	if path == "" {
		path = Path()
	}
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, err
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the config to path, or the default path when empty.
func Save(cfg *Config, path string) error {
	if path == "" {
		path = Path()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}

// EnsureExists creates the config file with defaults if it doesn't exist.
func EnsureExists(path string) error {
	if path == "" {
		path = Path()
	}
	if _, err := os.Stat(path); err == nil {
		return nil // already exists
	}
	return Save(Default(), path)
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field constraints.
func (c *Config) Validate() error {
	if c.Service.Timeout.Duration <= 0 {
		return fmt.Errorf("invalid config: service.timeout must be positive, got %s", c.Service.Timeout)
	}
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fmt.Sprintf("%s fails %q", fe.Namespace(), fe.Tag()))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}
