package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("", nil)
	require.NoError(t, err)
	require.Equal(t, "sqlite", cfg.Backend)
	require.Equal(t, "docs", cfg.Table)
	require.Equal(t, "_idx", cfg.IndexSuffix)
	require.Equal(t, 1000, cfg.Paging.DefaultTake)
	require.Equal(t, 5000, cfg.Paging.MaxTake)
	require.Empty(t, cfg.Indexes)
}

const sampleYAML = `
backend: postgres
table: orders
postgres:
  dsn: postgres://localhost/docs
paging:
  default_take: 50
  max_take: 200
indexes:
  - name: Status
    field: status
  - name: Labels
    field: meta.labels
    multi: true
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "docset.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFile(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleYAML), nil)
	require.NoError(t, err)
	require.Equal(t, "postgres", cfg.Backend)
	require.Equal(t, "orders", cfg.Table)
	require.Equal(t, "postgres://localhost/docs", cfg.Postgres.DSN)
	require.Equal(t, "docset", cfg.Postgres.Schema)
	require.Equal(t, 50, cfg.Paging.DefaultTake)
	require.Equal(t, []IndexConfig{
		{Name: "Status", Field: "status"},
		{Name: "Labels", Field: "meta.labels", Multi: true},
	}, cfg.Indexes)
}

func TestLoadEnvAndFlags(t *testing.T) {
	t.Setenv("DOCSET_TABLE", "from_env")
	t.Setenv("DOCSET_SQLITE_PATH", "/tmp/env.db")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("table", "", "")
	fs.String("backend", "", "")
	require.NoError(t, fs.Parse([]string{"--table", "from_flag"}))

	cfg, err := Load("", fs)
	require.NoError(t, err)
	require.Equal(t, "from_flag", cfg.Table)
	require.Equal(t, "/tmp/env.db", cfg.SQLite.Path)
	// unset flags do not shadow the default
	require.Equal(t, "sqlite", cfg.Backend)
}

func TestValidate(t *testing.T) {
	_, err := Load(writeConfig(t, "backend: oracle\n"), nil)
	require.Error(t, err)

	_, err = Load(writeConfig(t, "paging:\n  default_take: 10\n  max_take: 5\n"), nil)
	require.Error(t, err)

	_, err = Load(writeConfig(t, "indexes:\n  - name: a\n  - name: A\n"), nil)
	require.Error(t, err)
}

func TestFieldOf(t *testing.T) {
	require.Equal(t, "status", IndexConfig{Name: "status"}.FieldOf())
	require.Equal(t, "meta.x", IndexConfig{Name: "x", Field: "meta.x"}.FieldOf())
}

func TestLoadEnvWithoutDefaultValue(t *testing.T) {
	t.Setenv("DOCSET_POSTGRES_DSN", "postgres://env/docs")
	cfg, err := Load("", nil)
	require.NoError(t, err)
	require.Equal(t, "postgres://env/docs", cfg.Postgres.DSN)
}
