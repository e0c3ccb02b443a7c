package planner

import (
	sq "github.com/Masterminds/squirrel"

	"github.com/docset/docset/docset/storage"
	"github.com/docset/docset/docset/storage/sqlbuilder"
)

// Statements are assembled with ? placeholders; adapters rebind them.
var sb = sq.StatementBuilder.PlaceholderFormat(sq.Question)

func quoteAll(d storage.Dialect, cols []string) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = d.QuoteIdent(c)
	}
	return out
}

// BuildSelect assembles the find statement: the filter fragments are
// appended to WHERE 1=1 and the paging fragment closes the statement.
func BuildSelect(d storage.Dialect, table string, columns []string, where, paging sqlbuilder.Fragment) (sqlbuilder.Fragment, error) {
	q := sb.Select(quoteAll(d, columns)...).
		From(d.QuoteIdent(table)).
		Where("1=1"+where.SQL, where.Args...)
	if !paging.Empty() {
		q = q.Suffix(paging.SQL, paging.Args...)
	}
	sql, args, err := q.ToSql()
	if err != nil {
		return sqlbuilder.Fragment{}, err
	}
	return sqlbuilder.Expr(sql, args...), nil
}

// BuildCount counts the rows matching where.
func BuildCount(d storage.Dialect, table string, where sqlbuilder.Fragment) (sqlbuilder.Fragment, error) {
	sql, args, err := sb.Select("COUNT(*)").
		From(d.QuoteIdent(table)).
		Where("1=1"+where.SQL, where.Args...).
		ToSql()
	if err != nil {
		return sqlbuilder.Fragment{}, err
	}
	return sqlbuilder.Expr(sql, args...), nil
}
