package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/docset/docset/docset/storage/sqlbuilder"
)

type Backend string

const (
	BackendSQLite    Backend = "sqlite"
	BackendPostgres  Backend = "postgres"
	BackendSQLServer Backend = "sqlserver"
)

// Columns every document table carries besides its index columns.
const (
	ColumnKey       = "key"
	ColumnTags      = "tags"
	ColumnHash      = "hash"
	ColumnTimestamp = "timestamp"
	ColumnValue     = "value"
)

// OrderKey is the key column as written in ORDER BY clauses.
const OrderKey = "KEY"

// Adapter abstracts database-specific operations
type Adapter interface {
	Backend() Backend
	PlaceholderStyle() sqlbuilder.PlaceholderStyle
	Dialect() Dialect

	Connect(ctx context.Context) (*sql.DB, error)
	Close() error

	// CreateTable creates the document table if it does not exist yet.
	CreateTable(ctx context.Context, db *sql.DB, table string, indexColumns []string) error
}

// Dialect covers the few places where the backends disagree on syntax.
type Dialect interface {
	QuoteIdent(name string) string
	// Paging renders the ordered row window for an already normalized
	// skip and take.
	Paging(skip, take int) string
	// TableNames is a read-only catalog query returning one quoted,
	// schema-qualified table name per row.
	TableNames() string
	CreateTable(table string, indexColumns []string) string
}

// ColumnTypes are the column types a dialect uses in CREATE TABLE.
type ColumnTypes struct {
	Key   string
	Text  string
	Short string
}

// ColumnDefs renders the column list of a document table.
func ColumnDefs(d Dialect, types ColumnTypes, indexColumns []string) string {
	defs := []string{
		fmt.Sprintf("%s %s NOT NULL PRIMARY KEY", d.QuoteIdent(ColumnKey), types.Key),
		fmt.Sprintf("%s %s NULL", d.QuoteIdent(ColumnTags), types.Text),
		fmt.Sprintf("%s %s NOT NULL", d.QuoteIdent(ColumnHash), types.Short),
		fmt.Sprintf("%s %s NOT NULL", d.QuoteIdent(ColumnTimestamp), types.Short),
		fmt.Sprintf("%s %s NOT NULL", d.QuoteIdent(ColumnValue), types.Text),
	}
	for _, col := range indexColumns {
		defs = append(defs, fmt.Sprintf("%s %s NULL", d.QuoteIdent(col), types.Text))
	}
	return strings.Join(defs, ", ")
}
