package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/docset/docset/docset/storage"
	"github.com/docset/docset/docset/storage/sqlbuilder"
)

// Driver names registered by modernc.org/sqlite and mattn/go-sqlite3.
const (
	DriverModernc = "sqlite"
	DriverMattn   = "sqlite3"
)

type Adapter struct {
	Path       string
	DriverName string
}

func New(path string) *Adapter {
	return &Adapter{Path: path, DriverName: DriverModernc}
}

func NewWithDriver(path, driver string) *Adapter {
	if driver == "" {
		driver = DriverModernc
	}
	return &Adapter{Path: path, DriverName: driver}
}

func (a *Adapter) Backend() storage.Backend {
	return storage.BackendSQLite
}

func (a *Adapter) PlaceholderStyle() sqlbuilder.PlaceholderStyle {
	return sqlbuilder.PlaceholderQuestion
}

func (a *Adapter) Dialect() storage.Dialect {
	return Dialect{}
}

// dsn appends the busy timeout in the form the selected driver understands.
func (a *Adapter) dsn() string {
	param := "_pragma=busy_timeout(5000)"
	if a.DriverName == DriverMattn {
		param = "_busy_timeout=5000"
	}
	if strings.Contains(a.Path, "?") {
		return a.Path + "&" + param
	}
	return a.Path + "?" + param
}

func (a *Adapter) Connect(ctx context.Context) (*sql.DB, error) {
	db, err := sql.Open(a.DriverName, a.dsn())
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	_, _ = db.ExecContext(ctx, "PRAGMA journal_mode=WAL;")
	return db, nil
}

func (a *Adapter) Close() error {
	return nil
}

func (a *Adapter) CreateTable(ctx context.Context, db *sql.DB, table string, indexColumns []string) error {
	if _, err := db.ExecContext(ctx, a.Dialect().CreateTable(table, indexColumns)); err != nil {
		return fmt.Errorf("create table %s: %w", table, err)
	}
	return nil
}

// Dialect accepts bracket identifiers like T-SQL but has no FETCH clause,
// so the row window is written with LIMIT/OFFSET.
type Dialect struct{}

func (Dialect) QuoteIdent(name string) string {
	return storage.TSQL{}.QuoteIdent(name)
}

func (d Dialect) Paging(skip, take int) string {
	return fmt.Sprintf(" ORDER BY %s LIMIT %d OFFSET %d; ", d.QuoteIdent(storage.OrderKey), take, skip)
}

func (Dialect) TableNames() string {
	return `SELECT '"main".' || '"' || replace(name, '"', '""') || '"' AS name
FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name`
}

func (d Dialect) CreateTable(table string, indexColumns []string) string {
	types := storage.ColumnTypes{Key: "TEXT", Text: "TEXT", Short: "TEXT"}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", d.QuoteIdent(table), storage.ColumnDefs(d, types, indexColumns))
}
