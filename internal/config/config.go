package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the on-disk configuration shape (YAML).
type Config struct {
	// Optional: TOML file with a [MongoDB] section holding credentials
	// (the dashboard's .streamlit/secrets.toml works as-is).
	SecretsFile string `yaml:"secrets_file"`

	Server  ServerConfig  `yaml:"server"`
	Log     LogConfig     `yaml:"log"`
	Mongo   MongoConfig   `yaml:"mongo"`
	Weather WeatherConfig `yaml:"weather"`
	Cache   CacheConfig   `yaml:"cache"`
	Areas   AreasConfig   `yaml:"areas"`
}

type ServerConfig struct {
	Port            int           `yaml:"port"`
	Env             string        `yaml:"env"` // "development" or "production"
	CORSOrigins     []string      `yaml:"cors_origins"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json or console
}

type MongoConfig struct {
	// URI may contain the placeholder {pwd}, replaced by the secret password.
	URI      string        `yaml:"uri"`
	User     string        `yaml:"user"`
	Host     string        `yaml:"host"`
	Database string        `yaml:"database"`
	Timeout  time.Duration `yaml:"timeout"`
	// DataDir, if set, reads collections from <data_dir>/<collection>.json
	// instead of MongoDB.
	DataDir string `yaml:"data_dir"`
}

type WeatherConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

type CacheConfig struct {
	// TTL bounds how long fetched source series are reused.
	TTL time.Duration `yaml:"ttl"`
	// ResultTTL bounds how long analysis results stay retrievable by id.
	ResultTTL time.Duration `yaml:"result_ttl"`
	// SnapshotPath is the SQLite file for last-known-good payloads; empty
	// keeps snapshots in memory.
	SnapshotPath string `yaml:"snapshot_path"`
}

type AreasConfig struct {
	File string `yaml:"file"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Port:            8080,
			Env:             "development",
			CORSOrigins:     []string{"*"},
			ShutdownTimeout: 10 * time.Second,
		},
		Log: LogConfig{Level: "info", Format: "console"},
		Mongo: MongoConfig{
			Database: "IND320_assignment_4",
			Timeout:  10 * time.Second,
		},
		Weather: WeatherConfig{Timeout: 30 * time.Second},
		Cache: CacheConfig{
			TTL:       100 * time.Minute,
			ResultTTL: time.Hour,
		},
	}
}

// Load reads path (if non-empty) over the defaults, applies environment
// overrides and secrets, and validates the result.
func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked loads and merges config, but does not validate it.
// Useful for debugging/printing partial configs.
func LoadUnchecked(path string) (*Config, error) {
	c := Default()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(raw, &c); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	if err := c.applyEnv(); err != nil {
		return nil, err
	}
	if c.SecretsFile != "" {
		secretsPath := c.SecretsFile
		if !filepath.IsAbs(secretsPath) && path != "" {
			// Prefer interpreting relative paths as relative to the config file directory,
			// but fall back to the provided path (relative to cwd) if that doesn't exist.
			cand := filepath.Join(filepath.Dir(path), secretsPath)
			if _, err := os.Stat(cand); err == nil {
				secretsPath = cand
			}
		}
		s, err := LoadSecrets(secretsPath)
		if err != nil {
			return nil, err
		}
		c.Mongo = MergeSecrets(c.Mongo, s)
	}
	return &c, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("API_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("API_PORT: %w", err)
		}
		c.Server.Port = port
	}
	if v := os.Getenv("API_ENV"); v != "" {
		c.Server.Env = v
	}
	if v := os.Getenv("GRIDWEATHER_MONGO_URI"); v != "" {
		c.Mongo.URI = v
	}
	if v := os.Getenv("GRIDWEATHER_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("GRIDWEATHER_SECRETS_FILE"); v != "" {
		c.SecretsFile = v
	}
	return nil
}

// IsProduction reports whether the server runs with production settings.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Server.Env, "production")
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level %q must be debug, info, warn or error", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("log.format %q must be json or console", c.Log.Format)
	}
	if c.Mongo.DataDir == "" && c.Mongo.URI != "" && c.Mongo.Database == "" {
		return errors.New("mongo.database is required with mongo.uri")
	}
	if strings.Contains(c.Mongo.URI, pwdPlaceholder) {
		return errors.New("mongo.uri contains {pwd} but no secret password was loaded")
	}
	if c.Cache.TTL < 0 || c.Cache.ResultTTL < 0 {
		return errors.New("cache ttl must be >= 0")
	}
	return nil
}
