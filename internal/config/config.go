package config

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/fjglira/storycases/internal/domain"
)

// Environment variables that override file settings.
const (
	EnvBackendURL = "STORYCASES_BACKEND_URL"
	EnvDomain     = "JIRA_DOMAIN"
	EnvEmail      = "JIRA_EMAIL"
	EnvToken      = "JIRA_TOKEN"
	EnvProjectID  = "JIRA_PROJECT_ID"
)

// Config is the top-level configuration struct.
type Config struct {
	Backend   BackendConfig  `yaml:"backend"`
	Jira      JiraConfig     `yaml:"jira"`
	Input     InputConfig    `yaml:"input"`
	Output    OutputConfig   `yaml:"output"`
	Templates TemplateConfig `yaml:"templates"`
	Logging   LoggingConfig  `yaml:"logging"`
	DryRun    bool           `yaml:"dry_run"`
}

type BackendConfig struct {
	BaseURL string `yaml:"base_url"`
	Timeout string `yaml:"timeout"`
}

// JiraConfig identifies the tracker account. The token is only ever taken
// from the environment.
type JiraConfig struct {
	Domain    string `yaml:"domain"`
	Email     string `yaml:"email"`
	ProjectID string `yaml:"project_id"`
	Token     string `yaml:"-"`
}

type InputConfig struct {
	Directories []string `yaml:"directories"`
	Include     []string `yaml:"include"`
	Exclude     []string `yaml:"exclude"`
	Recursive   *bool    `yaml:"recursive"` // pointer to distinguish unset from false
}

type OutputConfig struct {
	Directory           string `yaml:"directory"`
	Format              string `yaml:"format"`
	WriteRaw            bool   `yaml:"write_raw"`
	CleanBeforeGenerate bool   `yaml:"clean_before_generate"`
}

type TemplateConfig struct {
	Directory string `yaml:"directory"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Load reads a YAML configuration file and returns a Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, domain.NewError("config", path, 0, "failed to read config file", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, domain.NewError("config", path, 0, "failed to parse config file", err)
	}

	return cfg, nil
}

// LoadOrDefault behaves like Load but returns the defaults when path does not exist.
func LoadOrDefault(path string) (*Config, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return DefaultConfig(), nil
	}
	return Load(path)
}

// LoadEnvFile loads variables from a dotenv file into the process
// environment without overriding variables that are already set.
// A missing file is not an error.
func LoadEnvFile(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return domain.NewError("config", path, 0, "failed to load env file", err)
	}
	return nil
}

// ApplyEnv overrides configuration values with the environment.
func ApplyEnv(cfg *Config) {
	if v, ok := os.LookupEnv(EnvBackendURL); ok && v != "" {
		cfg.Backend.BaseURL = v
	}
	if v, ok := os.LookupEnv(EnvDomain); ok && v != "" {
		cfg.Jira.Domain = v
	}
	if v, ok := os.LookupEnv(EnvEmail); ok && v != "" {
		cfg.Jira.Email = v
	}
	if v, ok := os.LookupEnv(EnvToken); ok && v != "" {
		cfg.Jira.Token = v
	}
	if v, ok := os.LookupEnv(EnvProjectID); ok && v != "" {
		cfg.Jira.ProjectID = v
	}
}

// Credentials returns the tracker credentials held by the config.
func (c *Config) Credentials() domain.Credentials {
	return domain.Credentials{
		Domain: c.Jira.Domain,
		Email:  c.Jira.Email,
		Token:  c.Jira.Token,
	}
}

// RequestTimeout returns the parsed backend timeout, or the default when
// the configured value does not parse.
func (c *Config) RequestTimeout() time.Duration {
	d, err := time.ParseDuration(c.Backend.Timeout)
	if err != nil || d <= 0 {
		return DefaultTimeout
	}
	return d
}
