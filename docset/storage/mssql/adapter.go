package mssql

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/microsoft/go-mssqldb"

	"github.com/docset/docset/docset/storage"
	"github.com/docset/docset/docset/storage/sqlbuilder"
)

const driverName = "sqlserver"

type Adapter struct {
	DSN string
}

func New(dsn string) *Adapter {
	return &Adapter{DSN: dsn}
}

func (a *Adapter) Backend() storage.Backend { return storage.BackendSQLServer }

func (a *Adapter) PlaceholderStyle() sqlbuilder.PlaceholderStyle { return sqlbuilder.PlaceholderAtP }

func (a *Adapter) Dialect() storage.Dialect { return storage.TSQL{} }

func (a *Adapter) Close() error { return nil }

func (a *Adapter) Connect(ctx context.Context) (*sql.DB, error) {
	db, err := sql.Open(driverName, a.DSN)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func (a *Adapter) CreateTable(ctx context.Context, db *sql.DB, table string, indexColumns []string) error {
	if _, err := db.ExecContext(ctx, a.Dialect().CreateTable(table, indexColumns)); err != nil {
		return fmt.Errorf("create table %s: %w", table, err)
	}
	return nil
}
