package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/docset/docset/docset/storage"
	"github.com/docset/docset/docset/storage/sqlbuilder"
)

func TestDSN(t *testing.T) {
	require.Equal(t, "a.db?_pragma=busy_timeout(5000)", New("a.db").dsn())
	require.Equal(t, "a.db?mode=ro&_pragma=busy_timeout(5000)", New("a.db?mode=ro").dsn())
	require.Equal(t, "a.db?_busy_timeout=5000", NewWithDriver("a.db", DriverMattn).dsn())
	require.Equal(t, DriverModernc, NewWithDriver("a.db", "").DriverName)
}

func TestDialect(t *testing.T) {
	d := Dialect{}
	require.Equal(t, "[status_idx]", d.QuoteIdent("status_idx"))
	require.Equal(t, " ORDER BY [KEY] LIMIT 10 OFFSET 20; ", d.Paging(20, 10))
	require.Contains(t, d.TableNames(), "sqlite_master")
	require.Equal(t,
		"CREATE TABLE IF NOT EXISTS [docs] ([key] TEXT NOT NULL PRIMARY KEY, [tags] TEXT NULL, "+
			"[hash] TEXT NOT NULL, [timestamp] TEXT NOT NULL, [value] TEXT NOT NULL)",
		d.CreateTable("docs", nil))
}

func TestAdapterCreateTable(t *testing.T) {
	a := New(filepath.Join(t.TempDir(), "t.db"))
	require.Equal(t, storage.BackendSQLite, a.Backend())
	require.Equal(t, sqlbuilder.PlaceholderQuestion, a.PlaceholderStyle())

	ctx := context.Background()
	db, err := a.Connect(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, a.CreateTable(ctx, db, "docs", []string{"status_idx"}))
	// idempotent
	require.NoError(t, a.CreateTable(ctx, db, "docs", []string{"status_idx"}))

	rows, err := db.QueryContext(ctx, a.Dialect().TableNames())
	require.NoError(t, err)
	defer rows.Close()
	var names []string
	for rows.Next() {
		var n string
		require.NoError(t, rows.Scan(&n))
		names = append(names, n)
	}
	require.NoError(t, rows.Err())
	require.Equal(t, []string{`"main"."docs"`}, names)
}
