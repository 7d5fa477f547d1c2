// Package config provides configuration loading for openapi-domaingen.
package config

import (
	"errors"
	"fmt"
	"time"

	configloader "github.com/GabrielNunesIT/go-libs/config-loader"
	"github.com/go-playground/validator/v10"

	"github.com/GabrielNunesIT/openapi-domaingen/internal/extractor"
	"github.com/GabrielNunesIT/openapi-domaingen/internal/splitter"
)

// EnvPrefix is the prefix of environment variables read into Config.
const EnvPrefix = "DOMAINGEN_"

// Defaults.
const (
	DefaultOutput         = "./src/domains"
	DefaultFallbackDomain = "shared"
	DefaultTimeoutSeconds = 30
)

var validate = validator.New()

// CrudConfig overrides how request and response schemas are located.
type CrudConfig struct {
	ContentTypes     []string          `koanf:"content_types" json:"content_types" yaml:"content_types"`
	ResponseStatuses []string          `koanf:"response_statuses" json:"response_statuses" yaml:"response_statuses"`
	BodySchemas      map[string]string `koanf:"body_schemas" json:"body_schemas" yaml:"body_schemas"`
}

// Config holds the application configuration.
type Config struct {
	Input          string                    `koanf:"input" json:"input" yaml:"input"`
	Output         string                    `koanf:"output" json:"output" yaml:"output" validate:"required"`
	BaseURL        string                    `koanf:"base_url" json:"base_url" yaml:"base_url" validate:"omitempty,url"`
	Docs           string                    `koanf:"docs" json:"docs" yaml:"docs" validate:"omitempty,oneof=pdf docx confluence"`
	Validate       bool                      `koanf:"validate" json:"validate" yaml:"validate"`
	DryRun         bool                      `koanf:"dry_run" json:"dry_run" yaml:"dry_run"`
	Force          bool                      `koanf:"force" json:"force" yaml:"force"`
	NoHistory      bool                      `koanf:"no_history" json:"no_history" yaml:"no_history"`
	TimeoutSeconds int                       `koanf:"timeout_seconds" json:"timeout_seconds" yaml:"timeout_seconds" validate:"gte=1"`
	FallbackDomain string                    `koanf:"fallback_domain" json:"fallback_domain" yaml:"fallback_domain" validate:"required"`
	Domains        []splitter.DomainPatterns `koanf:"domains" json:"domains" yaml:"domains" validate:"dive"`
	Crud           CrudConfig                `koanf:"crud" json:"crud" yaml:"crud"`
}

// Defaults returns the configuration used when nothing overrides it.
func Defaults() Config {
	crud := extractor.DefaultCrudDetectionConfig()

	return Config{
		Output:         DefaultOutput,
		TimeoutSeconds: DefaultTimeoutSeconds,
		FallbackDomain: DefaultFallbackDomain,
		Crud: CrudConfig{
			ContentTypes:     crud.ContentTypes,
			ResponseStatuses: crud.ResponseStatuses,
		},
	}
}

// Load returns the application configuration using go-libs config-loader.
// Values are layered as defaults, then the file at path (when not empty), then
// DOMAINGEN_ environment variables.
func Load(path string) (*Config, error) {
	defaults := Defaults()

	var (
		cfg Config
		err error
	)

	if path != "" {
		cfg, err = configloader.NewConfigLoader(
			configloader.WithDefaults(defaults),
			configloader.WithFile[Config](path),
			configloader.WithEnv[Config](EnvPrefix),
		).Load()
	} else {
		cfg, err = configloader.NewConfigLoader(
			configloader.WithDefaults(defaults),
			configloader.WithEnv[Config](EnvPrefix),
		).Load()
	}

	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	return &cfg, nil
}

// Check validates field constraints, domain name uniqueness and every tag pattern.
func (c *Config) Check() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	seen := make(map[string]bool, len(c.Domains))

	for _, d := range c.Domains {
		if seen[d.Name] {
			return fmt.Errorf("invalid configuration: duplicate domain %q", d.Name)
		}
		seen[d.Name] = true

		if d.Name == c.FallbackDomain {
			return fmt.Errorf("invalid configuration: domain %q shadows the fallback domain", d.Name)
		}

		for _, p := range d.Patterns {
			if _, err := splitter.CreateTagMatcher(p); err != nil {
				return fmt.Errorf("invalid configuration: domain %q: %w", d.Name, err)
			}
		}
	}

	return nil
}

// Timeout returns the remote fetch timeout.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// CrudDetection returns the extractor rules, falling back to the defaults for empty lists.
func (c *Config) CrudDetection() *extractor.CrudDetectionConfig {
	cfg := extractor.DefaultCrudDetectionConfig()

	if len(c.Crud.ContentTypes) > 0 {
		cfg.ContentTypes = c.Crud.ContentTypes
	}
	if len(c.Crud.ResponseStatuses) > 0 {
		cfg.ResponseStatuses = c.Crud.ResponseStatuses
	}
	if len(c.Crud.BodySchemas) > 0 {
		cfg.BodySchemas = c.Crud.BodySchemas
	}

	return cfg
}

// ValidationErrors returns the per-field failures of err, if any.
func ValidationErrors(err error) validator.ValidationErrors {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return verrs
	}

	return nil
}
