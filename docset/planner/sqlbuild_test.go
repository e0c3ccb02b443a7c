package planner

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/docset/docset/docset/index"
	"github.com/docset/docset/docset/query"
	"github.com/docset/docset/docset/storage"
	"github.com/docset/docset/docset/storage/sqlbuilder"
)

func TestBuildSelect(t *testing.T) {
	c := NewCompiler(nil, "")
	where := sqlbuilder.Concat(
		c.Criteria([]index.IndexMap{single("Status")}, &query.Criteria{Name: "status", Operator: query.Eq, Value: "A"}),
		c.Tag("urgent"),
	)
	stmt, err := BuildSelect(storage.DefaultDialect, "docs", []string{"key", "value"}, where, c.Paging(0, 0, DefaultTake, MaxTake))
	require.NoError(t, err)

	inline := stmt.Inline()
	require.True(t, strings.HasPrefix(inline, "SELECT [key], [value] FROM [docs] WHERE 1=1 AND [status_idx] = '||A||'"), inline)
	require.Contains(t, inline, "AND [tags] LIKE '%||urgent||%'")
	require.True(t, strings.HasSuffix(inline, "ORDER BY [KEY] OFFSET 0 ROWS FETCH NEXT 1000 ROWS ONLY; "), inline)
	require.Equal(t, []any{"||A||", "%||urgent||%"}, stmt.Args)
}

func TestBuildSelectWithoutFilters(t *testing.T) {
	stmt, err := BuildSelect(storage.DefaultDialect, "docs", []string{"key"}, sqlbuilder.Fragment{}, sqlbuilder.Fragment{})
	require.NoError(t, err)
	require.Equal(t, "SELECT [key] FROM [docs] WHERE 1=1", stmt.SQL)
	require.Empty(t, stmt.Args)
}

func TestBuildCount(t *testing.T) {
	c := NewCompiler(nil, "")
	stmt, err := BuildCount(storage.DefaultDialect, "docs", c.Tag("a"))
	require.NoError(t, err)
	require.Equal(t, "SELECT COUNT(*) FROM [docs] WHERE 1=1 AND [tags] LIKE ?", stmt.SQL)
	require.Equal(t, []any{"%||a||%"}, stmt.Args)
}
