package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override: DOCSET_POSTGRES_DSN sets
// postgres.dsn.
const EnvPrefix = "DOCSET"

type Config struct {
	Backend     string         `mapstructure:"backend"`
	Table       string         `mapstructure:"table"`
	IndexSuffix string         `mapstructure:"index_suffix"`
	SQLite      SQLiteConfig   `mapstructure:"sqlite"`
	Postgres    PostgresConfig `mapstructure:"postgres"`
	MSSQL       MSSQLConfig    `mapstructure:"mssql"`
	Paging      PagingConfig   `mapstructure:"paging"`
	Log         LogConfig      `mapstructure:"log"`
	Indexes     []IndexConfig  `mapstructure:"indexes"`
}

type SQLiteConfig struct {
	Path   string `mapstructure:"path"`
	Driver string `mapstructure:"driver"`
}

type PostgresConfig struct {
	DSN    string `mapstructure:"dsn"`
	Schema string `mapstructure:"schema"`
}

type MSSQLConfig struct {
	DSN string `mapstructure:"dsn"`
}

type PagingConfig struct {
	DefaultTake int `mapstructure:"default_take"`
	MaxTake     int `mapstructure:"max_take"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// IndexConfig declares one index over a JSON document: Field is a dotted
// path into the document, Multi marks an array-valued field.
type IndexConfig struct {
	Name  string `mapstructure:"name"`
	Field string `mapstructure:"field"`
	Multi bool   `mapstructure:"multi"`
}

// flagKeys maps command-line flags to configuration keys.
var flagKeys = map[string]string{
	"backend":       "backend",
	"table":         "table",
	"index-suffix":  "index_suffix",
	"sqlite-path":   "sqlite.path",
	"sqlite-driver": "sqlite.driver",
	"pg-dsn":        "postgres.dsn",
	"pg-schema":     "postgres.schema",
	"mssql-dsn":     "mssql.dsn",
	"log-level":     "log.level",
	"log-format":    "log.format",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("backend", "sqlite")
	v.SetDefault("table", "docs")
	v.SetDefault("index_suffix", "_idx")
	v.SetDefault("sqlite.path", "docset.db")
	v.SetDefault("sqlite.driver", "sqlite")
	v.SetDefault("postgres.dsn", "")
	v.SetDefault("postgres.schema", "docset")
	v.SetDefault("mssql.dsn", "")
	v.SetDefault("paging.default_take", 1000)
	v.SetDefault("paging.max_take", 5000)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
}

// Load reads defaults, then the config file at path (if path is not empty),
// then DOCSET_* environment variables, then any flags in fs that were set.
func Load(path string, fs *pflag.FlagSet) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("read config %s: %w", path, err)
			}
		}
	}

	if fs != nil {
		for name, key := range flagKeys {
			if f := fs.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return Config{}, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the settings that cannot be corrected by a default.
func (c Config) Validate() error {
	switch c.Backend {
	case "sqlite", "postgres", "pg", "sqlserver", "mssql":
	default:
		return fmt.Errorf("unknown backend %q", c.Backend)
	}
	if c.Paging.DefaultTake <= 0 || c.Paging.MaxTake <= 0 {
		return fmt.Errorf("paging takes must be positive")
	}
	if c.Paging.DefaultTake > c.Paging.MaxTake {
		return fmt.Errorf("paging.default_take %d exceeds paging.max_take %d", c.Paging.DefaultTake, c.Paging.MaxTake)
	}
	seen := make(map[string]bool, len(c.Indexes))
	for _, ix := range c.Indexes {
		if ix.Name == "" {
			return fmt.Errorf("index with empty name")
		}
		key := strings.ToLower(ix.Name)
		if seen[key] {
			return fmt.Errorf("duplicate index %q", ix.Name)
		}
		seen[key] = true
	}
	return nil
}

// FieldOf returns the document field an index reads, defaulting to its name.
func (ix IndexConfig) FieldOf() string {
	if ix.Field != "" {
		return ix.Field
	}
	return ix.Name
}
