// Package config loads asset-scout configuration from defaults, an optional
// config file, SCOUT_* environment variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/excelra/asset-scout/pkg/asset"
)

// EnvPrefix is prepended to every environment variable, e.g.
// SCOUT_DATABASE_DSN for database.dsn.
const EnvPrefix = "SCOUT"

// DefaultConfigName is the config file looked up when none is given.
const DefaultConfigName = "scout"

// Config is the complete server configuration.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Seed       SeedConfig       `mapstructure:"seed"`
	Log        LogConfig        `mapstructure:"log"`
	Audit      AuditConfig      `mapstructure:"audit"`
	Vocabulary asset.Vocabulary `mapstructure:"vocabulary"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Listen          string        `mapstructure:"listen"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	CORSOrigins     []string      `mapstructure:"cors_origins"`
}

// DatabaseConfig selects the storage backend.
type DatabaseConfig struct {
	Type string `mapstructure:"type"` // sqlite, postgres or mysql
	DSN  string `mapstructure:"dsn"`
}

// SeedConfig points at the bootstrap record file.
type SeedConfig struct {
	Path string `mapstructure:"path"`
}

// LogConfig controls the slog handler.
type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // text, json, tint
}

// AuditConfig toggles the mutation audit log.
type AuditConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// Default returns the configuration used when nothing is overridden.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Listen:          ":8080",
			ShutdownTimeout: 30 * time.Second,
			CORSOrigins:     []string{"*"},
		},
		Database: DatabaseConfig{
			Type: "sqlite",
			DSN:  "assets.db",
		},
		Seed: SeedConfig{Path: "seed_assets.yaml"},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Audit:      AuditConfig{Enabled: true},
		Vocabulary: asset.DefaultVocabulary(),
	}
}

// flagKeys maps command-line flag names to config keys.
var flagKeys = map[string]string{
	"listen":      "server.listen",
	"db-type":     "database.type",
	"db-dsn":      "database.dsn",
	"seed-path":   "seed.path",
	"log-level":   "log.level",
	"log-format":  "log.format",
	"audit":       "audit.enabled",
	"cors-origin": "server.cors_origins",
}

// RegisterFlags adds the server flags to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	d := Default()
	fs.String("config", "", "Path to a config file (yaml, json or toml)")
	fs.String("listen", d.Server.Listen, "HTTP listen address")
	fs.String("db-type", d.Database.Type, "Database type: sqlite, postgres or mysql")
	fs.String("db-dsn", d.Database.DSN, "Database DSN, or file path for sqlite")
	fs.String("seed-path", d.Seed.Path, "Seed file loaded into an empty catalog")
	fs.String("log-level", d.Log.Level, "Log level: debug, info, warn or error")
	fs.String("log-format", d.Log.Format, "Log format: text, json or tint")
	fs.Bool("audit", d.Audit.Enabled, "Record an audit event for every mutation")
	fs.StringSlice("cors-origin", d.Server.CORSOrigins, "Allowed CORS origins")
}

// Load builds the configuration. Precedence, highest first: flags that were
// set explicitly, environment, config file, defaults. fs may be nil.
func Load(fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	var configFile string
	if fs != nil {
		if f := fs.Lookup("config"); f != nil {
			configFile = f.Value.String()
		}
		for name, key := range flagKeys {
			f := fs.Lookup(name)
			if f == nil || !f.Changed {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("bind flag %s: %w", name, err)
			}
		}
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(DefaultConfigName)
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/asset-scout/")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("server.listen", d.Server.Listen)
	v.SetDefault("server.shutdown_timeout", d.Server.ShutdownTimeout)
	v.SetDefault("server.cors_origins", d.Server.CORSOrigins)
	v.SetDefault("database.type", d.Database.Type)
	v.SetDefault("database.dsn", d.Database.DSN)
	v.SetDefault("seed.path", d.Seed.Path)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("audit.enabled", d.Audit.Enabled)
	v.SetDefault("vocabulary.business_units", d.Vocabulary.BusinessUnits)
	v.SetDefault("vocabulary.asset_types", d.Vocabulary.AssetTypes)
	v.SetDefault("vocabulary.license_flags", d.Vocabulary.LicenseFlags)
	v.SetDefault("vocabulary.use_cases", d.Vocabulary.UseCases)
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	switch c.Database.Type {
	case "sqlite", "postgres", "mysql":
	default:
		return fmt.Errorf("unsupported database type %q", c.Database.Type)
	}
	if c.Database.DSN == "" {
		return errors.New("database dsn is required")
	}
	switch c.Log.Format {
	case "text", "json", "tint":
	default:
		return fmt.Errorf("unsupported log format %q", c.Log.Format)
	}
	if c.Server.ShutdownTimeout <= 0 {
		return errors.New("server shutdown_timeout must be positive")
	}
	return nil
}
