package storage

import (
	"fmt"
	"strings"
)

// DefaultDialect is the bracket-quoted, OFFSET/FETCH paged T-SQL dialect.
var DefaultDialect Dialect = TSQL{}

// TSQL is the SQL Server dialect.
type TSQL struct{}

func (TSQL) QuoteIdent(name string) string {
	return "[" + strings.ReplaceAll(name, "]", "]]") + "]"
}

func (d TSQL) Paging(skip, take int) string {
	return fmt.Sprintf(" ORDER BY %s OFFSET %d ROWS FETCH NEXT %d ROWS ONLY; ", d.QuoteIdent(OrderKey), skip, take)
}

func (TSQL) TableNames() string {
	return `
    SELECT QUOTENAME(TABLE_SCHEMA) + '.' + QUOTENAME(TABLE_NAME) AS Name
    FROM INFORMATION_SCHEMA.TABLES`
}

func (d TSQL) CreateTable(table string, indexColumns []string) string {
	types := ColumnTypes{Key: "NVARCHAR(450)", Text: "NVARCHAR(MAX)", Short: "NVARCHAR(64)"}
	return fmt.Sprintf("IF OBJECT_ID(N'%s', N'U') IS NULL CREATE TABLE %s (%s)",
		strings.ReplaceAll(table, "'", "''"), d.QuoteIdent(table), ColumnDefs(d, types, indexColumns))
}
