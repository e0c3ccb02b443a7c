package cliopt

import (
	"github.com/spf13/pflag"

	"github.com/docset/docset/internal/config"
)

// GlobalOptions are parsed once at the CLI root and passed to subcommands.
//
// NOTE: This is a separate package to avoid import cycles between the root
// command and per-command code.
type GlobalOptions struct {
	ConfigPath string
	Format     string

	// Config is filled by Load before any subcommand runs.
	Config config.Config
}

func DefaultGlobalOptions() GlobalOptions {
	return GlobalOptions{Format: "pretty"}
}

// BindGlobalFlags registers the root flags. Flags that mirror configuration
// keys default to empty so that an unset flag never shadows the config file
// or the environment.
func BindGlobalFlags(fs *pflag.FlagSet, g *GlobalOptions) {
	fs.StringVarP(&g.ConfigPath, "config", "c", g.ConfigPath, "YAML configuration file")
	fs.StringVar(&g.Format, "format", g.Format, "output format: pretty|keys|json")

	fs.String("backend", "", "backend: sqlite|postgres|sqlserver (default sqlite)")
	fs.String("table", "", "document table (default docs)")
	fs.String("index-suffix", "", "index column suffix (default _idx)")

	fs.String("sqlite-path", "", "sqlite database file")
	fs.String("sqlite-driver", "", "sqlite driver: sqlite (pure Go) or sqlite3 (cgo)")

	fs.String("pg-dsn", "", "postgres DSN")
	fs.String("pg-schema", "", "postgres schema (default docset)")

	fs.String("mssql-dsn", "", "sql server DSN")

	fs.String("log-level", "", "log level: trace|debug|info|warn|error")
	fs.String("log-format", "", "log format: console|json")
}

// Load resolves the configuration from defaults, the config file, DOCSET_*
// environment variables and the flags set in fs.
func (g *GlobalOptions) Load(fs *pflag.FlagSet) error {
	cfg, err := config.Load(g.ConfigPath, fs)
	if err != nil {
		return err
	}
	g.Config = cfg
	return nil
}
