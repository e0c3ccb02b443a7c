package cliutil

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/docset/docset/docset/index"
	"github.com/docset/docset/docset/storage"
	"github.com/docset/docset/docset/storage/mssql"
	"github.com/docset/docset/docset/storage/postgres"
	"github.com/docset/docset/docset/storage/sqlite"
	"github.com/docset/docset/internal/config"
)

// Document is the schemaless document type the CLI stores.
type Document = map[string]any

type OutputFormat string

const (
	FormatPretty OutputFormat = "pretty"
	FormatKeys   OutputFormat = "keys"
	FormatJSON   OutputFormat = "json"
)

func ParseOutputFormat(s string) OutputFormat {
	switch OutputFormat(s) {
	case FormatPretty, FormatKeys, FormatJSON:
		return OutputFormat(s)
	default:
		return FormatPretty
	}
}

func PrintJSON(w io.Writer, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}

// NewAdapter returns the storage adapter for the configured backend.
func NewAdapter(cfg config.Config) storage.Adapter {
	switch strings.ToLower(cfg.Backend) {
	case "postgres", "pg":
		return postgres.New(cfg.Postgres.DSN, cfg.Postgres.Schema)
	case "sqlserver", "mssql":
		return mssql.New(cfg.MSSQL.DSN)
	default:
		return sqlite.NewWithDriver(cfg.SQLite.Path, cfg.SQLite.Driver)
	}
}

// NewRegistry declares one index per configured entry. Fields are dotted
// paths into the document.
func NewRegistry(cfg config.Config) (*index.Registry[Document], error) {
	reg, err := index.NewRegistry[Document]()
	if err != nil {
		return nil, err
	}
	for _, ix := range cfg.Indexes {
		path := strings.Split(ix.FieldOf(), ".")
		var m index.Map[Document]
		if ix.Multi {
			m = index.Many(ix.Name, func(d Document) []string { return FieldValues(d, path) })
		} else {
			m = index.One(ix.Name, func(d Document) string { return FieldValue(d, path) })
		}
		if err := reg.Register(m); err != nil {
			return nil, fmt.Errorf("index %s: %w", ix.Name, err)
		}
	}
	return reg, nil
}

func lookup(d Document, path []string) any {
	var cur any = d
	for _, p := range path {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		cur = m[p]
	}
	return cur
}

func scalar(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case json.Number:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}

// FieldValue renders the scalar at path. Missing fields render as "".
func FieldValue(d Document, path []string) string {
	v := lookup(d, path)
	if list, ok := v.([]any); ok {
		if len(list) == 0 {
			return ""
		}
		return scalar(list[0])
	}
	return scalar(v)
}

// FieldValues renders the list at path; a scalar becomes a one-element list.
func FieldValues(d Document, path []string) []string {
	switch v := lookup(d, path).(type) {
	case nil:
		return nil
	case []any:
		out := make([]string, 0, len(v))
		for _, e := range v {
			if s := scalar(e); s != "" {
				out = append(out, s)
			}
		}
		return out
	default:
		if s := scalar(v); s != "" {
			return []string{s}
		}
		return nil
	}
}
