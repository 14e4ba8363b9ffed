package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/viper"
)

// FileName is the name of the project configuration file, without extension
const FileName = "graphc"

// Config represents the graphc project configuration
type Config struct {
	// Root is the directory the configuration was loaded from. Relative
	// paths in the configuration are resolved against it.
	Root string

	Schema      []string          `mapstructure:"schema"`
	Extensions  []string          `mapstructure:"extensions"`
	Src         string            `mapstructure:"src"`
	Exclude     []string          `mapstructure:"exclude"`
	Output      string            `mapstructure:"output"`
	Workers     int               `mapstructure:"workers"`
	ClientEdges ClientEdgesConfig `mapstructure:"client_edges"`
}

// ClientEdgesConfig configures the client edge transform
type ClientEdgesConfig struct {
	// Include lists globs of document paths, relative to the project root,
	// the transform runs on. Empty means every document.
	Include []string `mapstructure:"include"`
}

// Load loads the configuration from graphc.yml or graphc.yaml in dir.
// A missing file is not an error; defaults are used instead.
func Load(dir string) (*Config, error) {
	v := viper.New()

	v.SetDefault("schema", []string{"schema.graphql"})
	v.SetDefault("extensions", []string{})
	v.SetDefault("src", "src")
	v.SetDefault("exclude", []string{"**/__generated__/**", "**/node_modules/**"})
	v.SetDefault("output", "src/__generated__")
	v.SetDefault("workers", 0)
	v.SetDefault("client_edges.include", []string{})

	v.SetConfigName(FileName)
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)

	// GRAPHC_OUTPUT, GRAPHC_WORKERS, GRAPHC_CLIENT_EDGES_INCLUDE and so on
	v.SetEnvPrefix("graphc")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	config.Root = dir

	if err := validateConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// Path resolves a configuration path against the project root.
func (c *Config) Path(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Root, p)
}

// InProject checks if dir contains a graphc configuration file
func InProject(dir string) bool {
	for _, name := range []string{FileName + ".yml", FileName + ".yaml"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
			return true
		}
	}
	return false
}

// GetProjectRoot finds the project root by looking for graphc.yml upwards
// from the current directory
func GetProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		if InProject(dir) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("not in a graphc project (no %s.yml found)", FileName)
		}
		dir = parent
	}
}

// validateConfig validates the configuration
func validateConfig(cfg *Config) error {
	if len(cfg.Schema) == 0 {
		return fmt.Errorf("schema must list at least one file")
	}
	if cfg.Src == "" {
		return fmt.Errorf("src must not be empty")
	}
	if cfg.Output == "" {
		return fmt.Errorf("output must not be empty")
	}
	if cfg.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got: %d", cfg.Workers)
	}

	for key, patterns := range map[string][]string{
		"schema":               cfg.Schema,
		"extensions":           cfg.Extensions,
		"exclude":              cfg.Exclude,
		"client_edges.include": cfg.ClientEdges.Include,
	} {
		for _, p := range patterns {
			if !doublestar.ValidatePattern(filepath.ToSlash(p)) {
				return fmt.Errorf("%s contains an invalid pattern: %s", key, p)
			}
		}
	}
	return nil
}
