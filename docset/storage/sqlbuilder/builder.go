package sqlbuilder

import (
	"fmt"
	"strconv"
	"strings"

	sq "github.com/Masterminds/squirrel"
)

type PlaceholderStyle int

const (
	PlaceholderQuestion PlaceholderStyle = iota
	PlaceholderDollar
	PlaceholderAtP
)

// Format returns the squirrel placeholder format for the style.
func (s PlaceholderStyle) Format() sq.PlaceholderFormat {
	switch s {
	case PlaceholderDollar:
		return sq.Dollar
	case PlaceholderAtP:
		return sq.AtP
	default:
		return sq.Question
	}
}

// Fragment is a piece of SQL with ? placeholders and the values bound to
// them, in order. The zero Fragment is the empty fragment.
type Fragment struct {
	SQL  string
	Args []any
}

// Expr builds a fragment.
func Expr(sql string, args ...any) Fragment {
	return Fragment{SQL: sql, Args: args}
}

// Empty reports whether the fragment contributes nothing.
func (f Fragment) Empty() bool { return f.SQL == "" }

// ToSql implements squirrel.Sqlizer.
func (f Fragment) ToSql() (string, []any, error) {
	return f.SQL, f.Args, nil
}

// String returns the inline form.
func (f Fragment) String() string { return f.Inline() }

// Inline renders the fragment with every argument written as a SQL literal.
// Strings are single-quoted with embedded quotes doubled.
func (f Fragment) Inline() string {
	if len(f.Args) == 0 {
		return f.SQL
	}
	var b strings.Builder
	b.Grow(len(f.SQL) + 16*len(f.Args))
	n := 0
	for _, r := range f.SQL {
		if r == '?' && n < len(f.Args) {
			b.WriteString(Literal(f.Args[n]))
			n++
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Concat joins fragments in order, skipping empty ones.
func Concat(fs ...Fragment) Fragment {
	var out Fragment
	for _, f := range fs {
		if f.Empty() {
			continue
		}
		out.SQL += f.SQL
		out.Args = append(out.Args, f.Args...)
	}
	return out
}

// Literal renders v as a SQL literal.
func Literal(v any) string {
	switch x := v.(type) {
	case nil:
		return "NULL"
	case string:
		return quote(x)
	case []byte:
		return quote(string(x))
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case bool:
		if x {
			return "1"
		}
		return "0"
	default:
		return quote(fmt.Sprint(x))
	}
}

func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// Builder accumulates fragments into one statement and rebinds the
// placeholders to the backend's style.
type Builder struct {
	Style PlaceholderStyle
	parts []Fragment
}

func New(style PlaceholderStyle) *Builder {
	return &Builder{Style: style, parts: make([]Fragment, 0)}
}

// Add appends a fragment; empty fragments are dropped.
func (b *Builder) Add(f Fragment) *Builder {
	if !f.Empty() {
		b.parts = append(b.parts, f)
	}
	return b
}

// Fragment returns everything added so far with ? placeholders.
func (b *Builder) Fragment() Fragment { return Concat(b.parts...) }

func (b *Builder) Args() []any { return b.Fragment().Args }
func (b *Builder) Len() int    { return len(b.Fragment().Args) }

// Build returns the statement with placeholders in the builder's style.
func (b *Builder) Build() (string, []any, error) {
	f := b.Fragment()
	sql, err := Rebind(b.Style, f.SQL)
	if err != nil {
		return "", nil, err
	}
	return sql, f.Args, nil
}

// Rebind rewrites ? placeholders into style.
func Rebind(style PlaceholderStyle, sql string) (string, error) {
	return style.Format().ReplacePlaceholders(sql)
}
