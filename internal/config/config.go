package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/aviling/pulsecheck/internal/api"
	"github.com/aviling/pulsecheck/internal/errors"
)

// DefaultTokenEnv is the environment variable consulted for the personal
// access token when the config does not name another one.
const DefaultTokenEnv = "PULSECHECK_TOKEN"

// Config represents the complete configuration for pulsecheck
type Config struct {
	BaseURL     string   `yaml:"base_url"`
	TokenEnv    string   `yaml:"token_env"`
	FixturesDir string   `yaml:"fixtures_dir"`
	RangeDays   int      `yaml:"range_days"`
	Endpoints   []string `yaml:"endpoints"`
	Parallel    int      `yaml:"parallel"`
	NoColor     bool     `yaml:"no_color"`
	Debug       bool     `yaml:"debug"`
}

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		BaseURL:     api.DefaultBaseURL,
		TokenEnv:    DefaultTokenEnv,
		FixturesDir: "fixtures",
		RangeDays:   7,
		Endpoints:   nil, // nil means every registered endpoint
		Parallel:    1,
	}
}

// LoadConfig loads configuration from a YAML file, starting from defaults
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewConfigError(fmt.Sprintf("failed to read config file '%s'", path), err)
	}

	cfg := NewConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.NewConfigError(fmt.Sprintf("failed to parse config file '%s'", path), err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FindConfigFile searches for a config file in current directory and parents
func FindConfigFile() string {
	configNames := []string{".pulsecheck.yml", ".pulsecheck.yaml", "pulsecheck.yml", "pulsecheck.yaml"}

	currentDir, err := os.Getwd()
	if err != nil {
		return ""
	}

	// Search up the directory tree
	for {
		for _, name := range configNames {
			configPath := filepath.Join(currentDir, name)
			if _, err := os.Stat(configPath); err == nil {
				return configPath
			}
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root directory
			break
		}
		currentDir = parentDir
	}

	return ""
}

// Validate checks the config for values no run could work with
func (c *Config) Validate() error {
	if c.RangeDays <= 0 {
		return errors.NewConfigError(fmt.Sprintf("range_days must be positive, got %d", c.RangeDays), nil)
	}
	if c.Parallel <= 0 {
		return errors.NewConfigError(fmt.Sprintf("parallel must be positive, got %d", c.Parallel), nil)
	}
	for _, name := range c.Endpoints {
		if _, ok := api.EndpointByName(name); !ok {
			return errors.NewConfigError(fmt.Sprintf("unknown endpoint '%s'", name), errors.ErrUnknownEndpoint)
		}
	}
	return nil
}

// Token resolves the personal access token. An explicit override wins,
// otherwise the configured environment variable is consulted. The token only
// ever enters the program here, at the configuration boundary.
func (c *Config) Token(override string) (string, error) {
	if override != "" {
		return override, nil
	}
	envName := c.TokenEnv
	if envName == "" {
		envName = DefaultTokenEnv
	}
	if token := os.Getenv(envName); token != "" {
		return token, nil
	}
	return "", errors.NewConfigError(fmt.Sprintf("set %s or pass --token", envName), errors.ErrNoToken)
}

// ResolveEndpoints maps the configured endpoint names onto the registry. An
// empty list selects every registered endpoint.
func (c *Config) ResolveEndpoints() ([]api.Endpoint, error) {
	if len(c.Endpoints) == 0 {
		return api.Endpoints(), nil
	}
	out := make([]api.Endpoint, 0, len(c.Endpoints))
	for _, name := range c.Endpoints {
		ep, ok := api.EndpointByName(name)
		if !ok {
			return nil, errors.NewConfigError(fmt.Sprintf("unknown endpoint '%s'", name), errors.ErrUnknownEndpoint)
		}
		out = append(out, ep)
	}
	return out, nil
}

// DateWindow returns the inclusive start/end dates (YYYY-MM-DD) for dated
// endpoints: the RangeDays days ending at now.
func (c *Config) DateWindow(now time.Time) (start, end string) {
	end = now.Format("2006-01-02")
	start = now.AddDate(0, 0, -c.RangeDays).Format("2006-01-02")
	return start, end
}
