package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all configuration for the ingest engine.
// Configuration can come from a YAML file (config.yaml) or environment
// variables; environment variables always override YAML values. Secrets
// (passwords, API keys) must only come from environment variables.
type Config struct {
	// Server configuration
	BindAddr string `yaml:"bind_addr" env:"BIND_ADDR" env-default:"0.0.0.0"`
	Port     string `yaml:"port" env:"PORT" env-default:"8080"`
	Env      string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	Version  string `yaml:"-"` // Set at load time, not from config

	// Neo4j graph store configuration
	Neo4j Neo4jConfig `yaml:"neo4j"`

	// OpenAI classification service configuration
	OpenAI OpenAIConfig `yaml:"openai"`

	// Optional HTTP basic auth; enforced only when both values are set
	Auth AuthConfig `yaml:"auth"`

	// Ingestion behavior
	Ingest IngestConfig `yaml:"ingest"`
}

// Neo4jConfig holds connection settings for the graph store.
type Neo4jConfig struct {
	URI      string `yaml:"uri" env:"NEO4J_URI" env-default:"neo4j://localhost:7687"`
	User     string `yaml:"user" env:"NEO4J_USER" env-default:"neo4j"`
	Password string `yaml:"-" env:"NEO4J_PASSWORD"` // Secret - not in YAML
	Database string `yaml:"database" env:"NEO4J_DATABASE" env-default:"neo4j"`

	// WriteTimeoutSeconds bounds each statement execution.
	WriteTimeoutSeconds int `yaml:"write_timeout_seconds" env:"NEO4J_WRITE_TIMEOUT_SECONDS" env-default:"30"`
}

// OpenAIConfig holds settings for the technology-extraction model.
type OpenAIConfig struct {
	APIKey  string `yaml:"-" env:"OPENAI_API_KEY"` // Secret - not in YAML
	BaseURL string `yaml:"base_url" env:"OPENAI_BASE_URL" env-default:""`
	Model   string `yaml:"model" env:"OPENAI_MODEL" env-default:"gpt-4o"`

	// MaxTokens caps the model output so a misbehaving model cannot return
	// an unbounded response.
	MaxTokens int `yaml:"max_tokens" env:"OPENAI_MAX_TOKENS" env-default:"200"`

	// ExtractTimeoutSeconds bounds each extraction call.
	ExtractTimeoutSeconds int `yaml:"extract_timeout_seconds" env:"OPENAI_EXTRACT_TIMEOUT_SECONDS" env-default:"30"`
}

// AuthConfig holds optional basic-auth credentials for the import endpoint.
type AuthConfig struct {
	BasicUser     string `yaml:"-" env:"BASIC_AUTH_USER"`
	BasicPassword string `yaml:"-" env:"BASIC_AUTH_PASSWORD"`
}

// Enabled reports whether basic auth should be enforced.
func (a *AuthConfig) Enabled() bool {
	return a.BasicUser != "" && a.BasicPassword != ""
}

// IngestConfig holds ingestion behavior settings.
type IngestConfig struct {
	// DefaultTenantID is used when a request does not carry a tenant_id
	// query parameter.
	DefaultTenantID string `yaml:"default_tenant_id" env:"TENANT_ID" env-default:""`
}

// WriteTimeout returns the per-statement write timeout as a duration.
func (n *Neo4jConfig) WriteTimeout() time.Duration {
	return time.Duration(n.WriteTimeoutSeconds) * time.Second
}

// ExtractTimeout returns the per-call extraction timeout as a duration.
func (o *OpenAIConfig) ExtractTimeout() time.Duration {
	return time.Duration(o.ExtractTimeoutSeconds) * time.Second
}

// Load reads configuration from config.yaml with environment variable
// overrides. The version parameter is injected at build time and set on the
// returned Config. Falls back to environment-only when config.yaml is absent.
func Load(version string) (*Config, error) {
	cfg := &Config{Version: version}

	if err := cleanenv.ReadConfig("config.yaml", cfg); err != nil {
		// Env-only deployments (the original ran as a cloud function) carry
		// no config file; read straight from the environment instead.
		if envErr := cleanenv.ReadEnv(cfg); envErr != nil {
			return nil, fmt.Errorf("failed to read configuration: %w", envErr)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Neo4j.URI == "" {
		return fmt.Errorf("neo4j uri is required")
	}
	if c.OpenAI.Model == "" {
		return fmt.Errorf("openai model is required")
	}
	if c.OpenAI.MaxTokens <= 0 {
		return fmt.Errorf("openai max_tokens must be positive")
	}
	return nil
}
