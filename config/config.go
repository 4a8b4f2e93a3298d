// Package config loads xplor.yaml configuration files.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/zero-day-ai/xplor/prox"
	"github.com/zero-day-ai/xplor/store"
	"gopkg.in/yaml.v3"
)

// File names searched for when Load is given a directory, in order.
var fileNames = []string{"xplor.yaml", "xplor.yml"}

var validate *validator.Validate

func init() {
	validate = validator.New()
	_ = validate.RegisterValidation("weighting", validateWeighting)
}

// validateWeighting accepts an empty list or a list of known rule names.
func validateWeighting(fl validator.FieldLevel) bool {
	names, ok := fl.Field().Interface().([]string)
	if !ok {
		return false
	}
	_, err := prox.ParseWeighting(names)
	return err == nil
}

// Config is the content of an xplor.yaml file.
type Config struct {
	Store    store.Config   `yaml:"store"`
	Prox     ProxConfig     `yaml:"prox"`
	Labels   LabelsConfig   `yaml:"labels"`
	Expand   ExpandConfig   `yaml:"expand"`
	Resolver ResolverConfig `yaml:"resolver"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ProxConfig holds the defaults of graph views.
type ProxConfig struct {
	// Length is the number of propagation rounds. Default: 3.
	Length int `yaml:"length,omitempty" validate:"gte=0"`

	// Cut is the number of ranked nodes kept. Default: 100.
	Cut int `yaml:"cut,omitempty" validate:"gte=0"`

	// Weighting lists the edge weighting rules. Default: ["1"].
	Weighting []string `yaml:"weighting,omitempty" validate:"weighting"`
}

// LabelsConfig holds the defaults of cluster labelling.
type LabelsConfig struct {
	// Count is the number of labels per cluster. Default: 2.
	Count int `yaml:"count,omitempty" validate:"gte=0"`

	// Cut is the extraction cut per cluster. Default: 300.
	Cut int `yaml:"cut,omitempty" validate:"gte=0"`

	// Length is the number of propagation rounds. Default: 3.
	Length int `yaml:"length,omitempty" validate:"gte=0"`

	Weighting []string `yaml:"weighting,omitempty" validate:"weighting"`

	// Filter is a CEL expression narrowing the candidate labels.
	Filter string `yaml:"filter,omitempty"`
}

// ExpandConfig holds the defaults of node expansion.
type ExpandConfig struct {
	// Cut is the number of scores returned. Default: 50.
	Cut int `yaml:"cut,omitempty" validate:"gte=0"`

	// Length is the number of propagation rounds. Default: 3.
	Length int `yaml:"length,omitempty" validate:"gte=0"`

	Weighting []string `yaml:"weighting,omitempty" validate:"weighting"`
}

// ResolverConfig locates the documents answering queries.
type ResolverConfig struct {
	// Dir is read by the file resolver. Empty disables it.
	Dir string `yaml:"dir,omitempty"`
}

// LoggingConfig configures the process logger.
type LoggingConfig struct {
	// Level is one of debug, info, warn or error. Default: info.
	Level string `yaml:"level,omitempty" validate:"omitempty,oneof=debug info warn error"`

	// Format is text or json. Default: text.
	Format string `yaml:"format,omitempty" validate:"omitempty,oneof=text json"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Store: store.Config{Backend: store.BackendMemory},
	}
}

// Validate checks the configuration against its constraints.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if c.Store.Backend == store.BackendBadger && !c.Store.Badger.InMemory && c.Store.Badger.Path == "" {
		return fmt.Errorf("invalid configuration: store.badger.path is required")
	}
	if c.Store.Backend == store.BackendEtcd && len(c.Store.Etcd.Endpoints) == 0 {
		return fmt.Errorf("invalid configuration: store.etcd.endpoints is required")
	}
	return nil
}

// Load reads and validates a configuration file.
// If path is a directory, it looks for xplor.yaml or xplor.yml in it.
func Load(path string) (*Config, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat path: %w", err)
	}

	configPath := path
	if info.IsDir() {
		configPath = ""
		for _, name := range fileNames {
			candidate := filepath.Join(path, name)
			if _, err := os.Stat(candidate); err == nil {
				configPath = candidate
				break
			}
		}
		if configPath == "" {
			return nil, fmt.Errorf("no xplor.yaml or xplor.yml found in %s", path)
		}
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates YAML configuration data.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// GetLength returns the propagation rounds or the default.
func (p ProxConfig) GetLength() int {
	if p.Length <= 0 {
		return 3
	}
	return p.Length
}

// GetCut returns the cut or the default.
func (p ProxConfig) GetCut() int {
	if p.Cut <= 0 {
		return 100
	}
	return p.Cut
}

// GetWeighting returns the parsed weighting or the uniform one.
func (p ProxConfig) GetWeighting() prox.Weighting {
	return weighting(p.Weighting)
}

func (l LabelsConfig) GetCount() int {
	if l.Count <= 0 {
		return 2
	}
	return l.Count
}

func (l LabelsConfig) GetCut() int {
	if l.Cut <= 0 {
		return 300
	}
	return l.Cut
}

func (l LabelsConfig) GetLength() int {
	if l.Length <= 0 {
		return 3
	}
	return l.Length
}

func (l LabelsConfig) GetWeighting() prox.Weighting {
	return weighting(l.Weighting)
}

func (e ExpandConfig) GetCut() int {
	if e.Cut <= 0 {
		return 50
	}
	return e.Cut
}

func (e ExpandConfig) GetLength() int {
	if e.Length <= 0 {
		return 3
	}
	return e.Length
}

func (e ExpandConfig) GetWeighting() prox.Weighting {
	return weighting(e.Weighting)
}

// weighting parses validated rule names. Empty and invalid lists fall back
// to the uniform weighting.
func weighting(names []string) prox.Weighting {
	if len(names) == 0 {
		return prox.Uniform
	}
	w, err := prox.ParseWeighting(names)
	if err != nil {
		return prox.Uniform
	}
	return w
}

// GetLevel returns the slog level, info when unset.
func (l LoggingConfig) GetLevel() slog.Level {
	switch strings.ToLower(l.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger builds a logger writing to w in the configured format.
func (l LoggingConfig) NewLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: l.GetLevel()}
	if l.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
