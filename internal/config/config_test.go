package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GabrielNunesIT/openapi-domaingen/internal/splitter"
)

func validConfig() *Config {
	cfg := Defaults()
	cfg.Domains = []splitter.DomainPatterns{
		{Name: "iam", Patterns: []string{"users", "/^auth/"}},
		{Name: "billing", Patterns: []string{"invoices"}},
	}

	return &cfg
}

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	assert.Equal(t, DefaultOutput, cfg.Output)
	assert.Equal(t, DefaultFallbackDomain, cfg.FallbackDomain)
	assert.Equal(t, 30*time.Second, cfg.Timeout())
	assert.Equal(t, []string{"application/json"}, cfg.Crud.ContentTypes)
	assert.Equal(t, []string{"200", "201"}, cfg.Crud.ResponseStatuses)
	assert.NoError(t, cfg.Check())
}

func TestCheck(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
		field   string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "base url", mutate: func(c *Config) { c.BaseURL = "https://api.example.com/v1" }},
		{name: "docs pdf", mutate: func(c *Config) { c.Docs = "pdf" }},
		{name: "validate flag", mutate: func(c *Config) { c.Validate = true }},
		{name: "missing output", mutate: func(c *Config) { c.Output = "" }, wantErr: "invalid configuration", field: "Output"},
		{name: "bad base url", mutate: func(c *Config) { c.BaseURL = "not a url" }, wantErr: "invalid configuration", field: "BaseURL"},
		{name: "bad docs format", mutate: func(c *Config) { c.Docs = "html" }, wantErr: "invalid configuration", field: "Docs"},
		{name: "zero timeout", mutate: func(c *Config) { c.TimeoutSeconds = 0 }, wantErr: "invalid configuration", field: "TimeoutSeconds"},
		{name: "missing fallback", mutate: func(c *Config) { c.FallbackDomain = "" }, wantErr: "invalid configuration", field: "FallbackDomain"},
		{
			name:    "domain without patterns",
			mutate:  func(c *Config) { c.Domains[1].Patterns = nil },
			wantErr: "invalid configuration",
			field:   "Patterns",
		},
		{
			name:    "duplicate domain",
			mutate:  func(c *Config) { c.Domains[1].Name = "iam" },
			wantErr: `duplicate domain "iam"`,
		},
		{
			name:    "domain shadows fallback",
			mutate:  func(c *Config) { c.Domains[1].Name = "shared" },
			wantErr: `domain "shared" shadows the fallback domain`,
		},
		{
			name:    "invalid regex",
			mutate:  func(c *Config) { c.Domains[0].Patterns = []string{"/[/"} },
			wantErr: `domain "iam"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Check()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)

			if tt.field != "" {
				verrs := ValidationErrors(err)
				require.NotEmpty(t, verrs)
				assert.Equal(t, tt.field, verrs[0].Field())
			}
		})
	}
}

func TestCrudDetection(t *testing.T) {
	cfg := Defaults()
	cfg.Crud = CrudConfig{}

	crud := cfg.CrudDetection()
	assert.Equal(t, []string{"application/json"}, crud.ContentTypes)
	assert.Equal(t, []string{"200", "201"}, crud.ResponseStatuses)
	assert.Nil(t, crud.BodySchemas)

	cfg.Crud = CrudConfig{
		ContentTypes:     []string{"application/vnd.api+json"},
		ResponseStatuses: []string{"200"},
		BodySchemas:      map[string]string{"user.create": "NewUser"},
	}

	crud = cfg.CrudDetection()
	assert.Equal(t, []string{"application/vnd.api+json"}, crud.ContentTypes)
	assert.Equal(t, []string{"200"}, crud.ResponseStatuses)
	assert.Equal(t, "NewUser", crud.BodySchemas["user.create"])
}

func TestValidationErrorsIgnoresOtherErrors(t *testing.T) {
	cfg := validConfig()
	cfg.Domains[1].Name = "iam"

	assert.Nil(t, ValidationErrors(cfg.Check()))
}
