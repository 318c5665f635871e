package botapp

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	coreconfig "github.com/streetpaws/feedpoint/core/config"
	coredatabase "github.com/streetpaws/feedpoint/core/database"
)

const (
	// BackendJSON keeps the collection in one JSON file (default).
	BackendJSON = "json"
	// BackendPostgres keeps the collection in a Postgres table.
	BackendPostgres = "postgres"
)

// ErrBadConfigType reports that the runner handed back a configuration
// of an unexpected concrete type.
var ErrBadConfigType = errors.New("botapp: unexpected config type")

// StorageConfig selects and parameterizes the record store backend.
type StorageConfig struct {
	Backend string `yaml:"backend" envconfig:"STORAGE_BACKEND"`
	Path    string `yaml:"path" envconfig:"STORAGE_PATH"`
}

// Config is the full application configuration: the reusable core plus
// the storage selection.
type Config struct {
	Core     coreconfig.Config   `yaml:",inline"`
	Storage  StorageConfig       `yaml:"storage"`
	Database coredatabase.Config `yaml:"database"`
}

// CoreConfig exposes the embedded core configuration to the runner.
func (c *Config) CoreConfig() *coreconfig.Config {
	return &c.Core
}

// LoadConfig reads configuration from a YAML file and environment variables.
func LoadConfig(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env: %w", err)
	}

	if err := coreconfig.Normalize(&cfg.Core); err != nil {
		return nil, err
	}
	if err := normalizeStorage(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func normalizeStorage(cfg *Config) error {
	backend := strings.ToLower(strings.TrimSpace(cfg.Storage.Backend))
	if backend == "" {
		backend = BackendJSON
	}
	switch backend {
	case BackendJSON:
		if strings.TrimSpace(cfg.Storage.Path) == "" {
			cfg.Storage.Path = "data/locations.json"
		}
	case BackendPostgres:
		if strings.TrimSpace(cfg.Database.Host) == "" {
			return fmt.Errorf("database.host is required when storage.backend is 'postgres'")
		}
		if strings.TrimSpace(cfg.Database.Name) == "" {
			return fmt.Errorf("database.name is required when storage.backend is 'postgres'")
		}
	default:
		return fmt.Errorf("invalid storage.backend %q; allowed: json, postgres", cfg.Storage.Backend)
	}
	cfg.Storage.Backend = backend
	return nil
}
