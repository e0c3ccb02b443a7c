// Package planner compiles filter criteria, tags, date bounds and paging into
// SQL fragments for a document table with precomputed index columns.
//
// Every fragment is self-contained: it starts with its own leading keyword
// and can be appended to a statement in any order. Values are carried as
// bound arguments; Fragment.Inline gives the literal form.
package planner

import (
	"strings"
	"time"

	"github.com/docset/docset/docset/index"
	"github.com/docset/docset/docset/query"
	"github.com/docset/docset/docset/storage"
	"github.com/docset/docset/docset/storage/sqlbuilder"
)

const (
	DefaultIndexSuffix = "_idx"
	DefaultTake        = 1000
	MaxTake            = 5000
)

// TimestampLayout is the sortable ISO-8601 form timestamps are stored and
// compared in.
const TimestampLayout = "2006-01-02T15:04:05"

// Compiler holds the immutable settings fragments are compiled with. It is
// safe for concurrent use.
type Compiler struct {
	dialect storage.Dialect
	suffix  string
}

// NewCompiler returns a compiler for d. A nil dialect means
// storage.DefaultDialect; an empty suffix means DefaultIndexSuffix.
func NewCompiler(d storage.Dialect, suffix string) *Compiler {
	if d == nil {
		d = storage.DefaultDialect
	}
	if suffix == "" {
		suffix = DefaultIndexSuffix
	}
	return &Compiler{dialect: d, suffix: suffix}
}

func (c *Compiler) Dialect() storage.Dialect { return c.dialect }

func (c *Compiler) IndexSuffix() string { return c.suffix }

// Column returns the unquoted column an index is stored in.
func (c *Compiler) Column(indexName string) string {
	return strings.ToLower(indexName) + c.suffix
}

// Match is what a criteria compares once the shape of its index is known.
type Match int

const (
	MatchEquals      Match = iota // whole delimited value
	MatchContainsOne              // one delimited element of the value
	MatchSubstring
	MatchGreater
	MatchGreaterOrEqual
	MatchLess
	MatchLessOrEqual
)

// Resolve maps an operator and the cardinality of its index to a Match. Eq
// against a multi-valued index becomes a containment test, since the column
// holds every element and exact equality would only match a one-element
// list.
func Resolve(op query.Operator, card index.Cardinality) Match {
	switch op {
	case query.Gt:
		return MatchGreater
	case query.Ge:
		return MatchGreaterOrEqual
	case query.Lt:
		return MatchLess
	case query.Le:
		return MatchLessOrEqual
	case query.Contains:
		return MatchSubstring
	case query.Eqm:
		return MatchContainsOne
	}
	if card == index.Multi {
		return MatchContainsOne
	}
	return MatchEquals
}

// Criteria compiles one criteria against the declared index maps. It
// returns the empty fragment when maps is empty, crit is nil or no map
// name matches crit.Name ignoring case. crit is never modified.
func (c *Compiler) Criteria(maps []index.IndexMap, crit *query.Criteria) sqlbuilder.Fragment {
	if len(maps) == 0 || crit == nil {
		return sqlbuilder.Fragment{}
	}
	var m index.IndexMap
	for _, candidate := range maps {
		if candidate != nil && strings.EqualFold(candidate.Name(), crit.Name) {
			m = candidate
			break
		}
	}
	if m == nil {
		return sqlbuilder.Fragment{}
	}

	col := c.dialect.QuoteIdent(c.Column(m.Name()))
	d := index.Delimiter
	v := crit.Value

	switch Resolve(crit.Operator, index.CardinalityOf(m)) {
	case MatchGreater:
		return sqlbuilder.Expr(" AND "+col+" > ? ", d+v)
	case MatchGreaterOrEqual:
		return sqlbuilder.Expr(" AND "+col+" >= ? ", d+v)
	case MatchLess:
		return sqlbuilder.Expr(" AND "+col+" < ? ", d+v)
	case MatchLessOrEqual:
		return sqlbuilder.Expr(" AND "+col+" <= ? ", d+v)
	case MatchSubstring:
		return sqlbuilder.Expr(" AND "+col+" LIKE ? ", "%"+v+"%")
	case MatchContainsOne:
		// TODO: the leading wildcard prevents index seeks; drop it once
		// multi-valued columns get a dedicated lookup table.
		return sqlbuilder.Expr(" AND "+col+" LIKE ? ", "%"+d+v+d+"%")
	default:
		return sqlbuilder.Expr(" AND "+col+" = ? ", d+v+d)
	}
}

// CriteriaList compiles every criteria in order and concatenates the
// results. Criteria naming no declared index contribute nothing.
func (c *Compiler) CriteriaList(maps []index.IndexMap, crits []query.Criteria) sqlbuilder.Fragment {
	parts := make([]sqlbuilder.Fragment, 0, len(crits))
	for i := range crits {
		parts = append(parts, c.Criteria(maps, &crits[i]))
	}
	return sqlbuilder.Concat(parts...)
}

// likeSpecials are the LIKE pattern characters of any supported backend;
// T-SQL also treats [ as the start of a character class.
const likeSpecials = `%_[\`

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`, `[`, `\[`)

// Tag matches tag as one whole element of the tags column. A tag holding
// LIKE pattern characters is escaped so it never matches a different tag.
func (c *Compiler) Tag(tag string) sqlbuilder.Fragment {
	if tag == "" {
		return sqlbuilder.Fragment{}
	}
	d := index.Delimiter
	col := c.dialect.QuoteIdent(storage.ColumnTags)
	if strings.ContainsAny(tag, likeSpecials) {
		return sqlbuilder.Expr(" AND "+col+` LIKE ? ESCAPE '\'`, "%"+d+likeEscaper.Replace(tag)+d+"%")
	}
	return sqlbuilder.Expr(" AND "+col+" LIKE ?", "%"+d+tag+d+"%")
}

// Tags requires every non-empty tag.
func (c *Compiler) Tags(tags []string) sqlbuilder.Fragment {
	parts := make([]sqlbuilder.Fragment, 0, len(tags))
	for _, t := range tags {
		parts = append(parts, c.Tag(t))
	}
	return sqlbuilder.Concat(parts...)
}

// FormatTimestamp renders the clock time of t, in its own location, using
// TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}

// DateRange bounds the timestamp column: from is inclusive, till exclusive.
// Nil bounds contribute nothing.
func (c *Compiler) DateRange(from, till *time.Time) sqlbuilder.Fragment {
	col := c.dialect.QuoteIdent(storage.ColumnTimestamp)
	var out sqlbuilder.Fragment
	if from != nil {
		out = sqlbuilder.Concat(out, sqlbuilder.Expr(" AND "+col+" >= ?", FormatTimestamp(*from)))
	}
	if till != nil {
		out = sqlbuilder.Concat(out, sqlbuilder.Expr(" AND "+col+" < ?", FormatTimestamp(*till)))
	}
	return out
}

// NormalizePaging clamps skip to >= 0, replaces a non-positive take with
// defaultTake and caps take at maxTake.
func NormalizePaging(skip, take, defaultTake, maxTake int) (int, int) {
	if skip <= 0 {
		skip = 0
	}
	if take <= 0 {
		take = defaultTake
	}
	if take > maxTake {
		take = maxTake
	}
	return skip, take
}

// Paging orders by the key column and selects one window of rows. There is
// no unbounded form.
func (c *Compiler) Paging(skip, take, defaultTake, maxTake int) sqlbuilder.Fragment {
	skip, take = NormalizePaging(skip, take, defaultTake, maxTake)
	return sqlbuilder.Expr(c.dialect.Paging(skip, take))
}

// TableNames lists the tables of the connected database.
func (c *Compiler) TableNames() sqlbuilder.Fragment {
	return sqlbuilder.Expr(c.dialect.TableNames())
}
