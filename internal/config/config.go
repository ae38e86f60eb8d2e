package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/cnnrbrn/feu-docs-indexer/internal/docs"
)

const defaultConfigPath = ".docs-indexer.yaml"

// Backend names accepted by the sync command.
const (
	BackendAlgolia = "algolia"
	BackendSQLite  = "sqlite"
)

type Config struct {
	Algolia AlgoliaConfig `yaml:"algolia"`
	Section string        `yaml:"section"`
	Exclude []string      `yaml:"exclude"`
	SQLite  SQLiteConfig  `yaml:"sqlite"`
}

type AlgoliaConfig struct {
	AppID    string `yaml:"app_id"`
	WriteKey string `yaml:"write_key"`
	Index    string `yaml:"index"`
}

type SQLiteConfig struct {
	Path string `yaml:"path"`
}

func Default() *Config {
	return &Config{
		Algolia: AlgoliaConfig{
			AppID: "XRHUM5F9FB",
			Index: "feu",
		},
		Section: "feu/js-frameworks/",
		Exclude: append([]string(nil), docs.DefaultExcluded...),
		SQLite:  SQLiteConfig{Path: filepath.Join(".docs-index", "search.db")},
	}
}

func DefaultPath() string {
	if path := os.Getenv("DOCS_INDEXER_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// Load reads the optional .env file, then the YAML file at path, then applies
// environment overrides. A missing config file leaves the defaults in place.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := Default()

	raw, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(raw))), cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	setFromEnv(&c.Algolia.AppID, "ALGOLIA_APP_ID")
	setFromEnv(&c.Algolia.WriteKey, "ALGOLIA_API_KEY")
	setFromEnv(&c.Algolia.WriteKey, "ALGOLIA_WRITE_KEY")
	setFromEnv(&c.Algolia.Index, "ALGOLIA_INDEX")
	setFromEnv(&c.Section, "DOCS_INDEXER_SECTION")
	setFromEnv(&c.SQLite.Path, "DOCS_INDEXER_SQLITE_PATH")
}

func setFromEnv(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

// Validate checks the settings the chosen backend needs.
func (c *Config) Validate(backend string) error {
	if c.Section == "" {
		return errors.New("config section is required")
	}
	switch backend {
	case BackendAlgolia:
		if c.Algolia.AppID == "" {
			return errors.New("config algolia.app_id is required")
		}
		if c.Algolia.WriteKey == "" {
			return errors.New("config algolia.write_key is required (or set ALGOLIA_WRITE_KEY)")
		}
		if c.Algolia.Index == "" {
			return errors.New("config algolia.index is required")
		}
	case BackendSQLite:
		if c.SQLite.Path == "" {
			return errors.New("config sqlite.path is required")
		}
	default:
		return fmt.Errorf("unknown backend %q", backend)
	}
	return nil
}
