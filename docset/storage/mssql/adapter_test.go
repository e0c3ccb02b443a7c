package mssql

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/docset/docset/docset/storage"
	"github.com/docset/docset/docset/storage/sqlbuilder"
)

func TestAdapter(t *testing.T) {
	a := New("sqlserver://sa:pw@localhost:1433?database=docs")
	require.Equal(t, storage.BackendSQLServer, a.Backend())
	require.Equal(t, sqlbuilder.PlaceholderAtP, a.PlaceholderStyle())
	require.Equal(t, storage.DefaultDialect, a.Dialect())

	sql, err := sqlbuilder.Rebind(a.PlaceholderStyle(), "SELECT 1 WHERE [a] = ? AND [b] = ?")
	require.NoError(t, err)
	require.Equal(t, "SELECT 1 WHERE [a] = @p1 AND [b] = @p2", sql)
}
