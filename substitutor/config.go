package substitutor

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// DefaultFile is the credentials file in the working directory that is
// rendered, or generated, when no other path is configured.
const DefaultFile = "credentials.json"

// Config holds everything needed for one render run.
type Config struct {
	// File is the template that gets rendered.
	File string `yaml:"file" validate:"required"`
	// Output is where the rendered template is written. Empty means File
	// is overwritten.
	Output string `yaml:"output"`
	// EnvFiles are .env files loaded into the process environment before
	// rendering.
	EnvFiles []string `yaml:"envFiles"`
	// Profile names a built-in placeholder list.
	Profile string `yaml:"profile" validate:"omitempty,oneof=full reduced"`
	// Placeholders overrides Profile with an explicit list of names.
	Placeholders []string `yaml:"placeholders" validate:"dive,required"`
	// Missing is one of "empty", "keep" or "error".
	Missing string `yaml:"missing" validate:"omitempty,oneof=empty keep error"`
	// ExpandAll expands every ${NAME} reference, not only the placeholders.
	ExpandAll bool `yaml:"expandAll"`
	// ValidateJSON rejects output that is not a JSON document.
	ValidateJSON bool `yaml:"validateJSON"`
}

// DefaultConfig returns the configuration used when nothing else is given:
// credentials.json in the working directory, the full profile and .env.
func DefaultConfig() *Config {
	return &Config{
		File:     DefaultFile,
		EnvFiles: []string{".env"},
		Profile:  ProfileFull,
		Missing:  string(MissingEmpty),
	}
}

// LoadConfig reads a YAML config file at path on top of DefaultConfig.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks the field constraints.
func (c *Config) Validate() error {
	return validator.New().Struct(c)
}

// OutputPath returns the path the rendered template is written to.
func (c *Config) OutputPath() string {
	if c.Output == "" {
		return c.File
	}
	return c.Output
}

// NewSubstitutor builds a Substitutor from the config.
func (c *Config) NewSubstitutor(env Environment, logger *zap.Logger) (*Substitutor, error) {
	placeholders, err := ResolvePlaceholders(c.Profile, c.Placeholders)
	if err != nil {
		return nil, err
	}
	missing, err := ParseMissingPolicy(c.Missing)
	if err != nil {
		return nil, err
	}
	if env == nil {
		env = OSEnvironment{}
	}
	return &Substitutor{
		Environment:  env,
		Placeholders: placeholders,
		Missing:      missing,
		ExpandAll:    c.ExpandAll,
		ValidateJSON: c.ValidateJSON,
		Logger:       logger,
	}, nil
}
