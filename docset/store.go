package docset

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/docset/docset/docset/index"
	"github.com/docset/docset/docset/planner"
	"github.com/docset/docset/docset/storage"
	"github.com/docset/docset/docset/storage/sqlbuilder"
	"github.com/docset/docset/internal/logging"
)

var tableNameRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store keeps documents of type T in one table: the serialized document, its
// tags, a timestamp and one column per registered index.
type Store[T any] struct {
	adapter  storage.Adapter
	db       *sql.DB
	registry *index.Registry[T]
	compiler *planner.Compiler
	sb       sq.StatementBuilderType
	opts     StoreOptions
	metrics  *storeMetrics
}

// Open connects through adapter and returns a store over opts.Table. A nil
// registry declares no indexes.
func Open[T any](ctx context.Context, adapter storage.Adapter, registry *index.Registry[T], opts StoreOptions) (*Store[T], error) {
	opts = opts.withDefaults()
	if !tableNameRe.MatchString(opts.Table) {
		return nil, SchemaError(fmt.Sprintf("invalid table name %q", opts.Table))
	}
	if opts.DefaultTake > opts.MaxTake {
		return nil, SchemaError(fmt.Sprintf("default take %d exceeds max take %d", opts.DefaultTake, opts.MaxTake))
	}
	if registry == nil {
		var err error
		if registry, err = index.NewRegistry[T](); err != nil {
			return nil, Wrap(ErrSchema, "empty registry", err)
		}
	}

	metrics, err := newStoreMetrics(opts.Registerer, opts.Table)
	if err != nil {
		return nil, Wrap(ErrSchema, "store metrics", err)
	}

	db, err := adapter.Connect(ctx)
	if err != nil {
		return nil, Wrap(ErrIO, "connect to database", err)
	}

	s := &Store[T]{
		adapter:  adapter,
		db:       db,
		registry: registry,
		compiler: planner.NewCompiler(adapter.Dialect(), opts.IndexSuffix),
		sb:       sq.StatementBuilder.PlaceholderFormat(adapter.PlaceholderStyle().Format()),
		opts:     opts,
		metrics:  metrics,
	}

	if opts.CreateTable {
		if err := adapter.CreateTable(ctx, db, opts.Table, s.indexColumns()); err != nil {
			db.Close()
			return nil, Wrap(ErrSQL, "create table", err)
		}
	}

	logging.Debug().
		Str("backend", string(adapter.Backend())).
		Str("table", opts.Table).
		Strs("indexes", registry.Names()).
		Msg("opened document store")
	return s, nil
}

// Close closes the store
func (s *Store[T]) Close() error {
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			return Wrap(ErrIO, "close database", err)
		}
	}
	return s.adapter.Close()
}

func (s *Store[T]) Table() string { return s.opts.Table }

func (s *Store[T]) Registry() *index.Registry[T] { return s.registry }

func (s *Store[T]) Compiler() *planner.Compiler { return s.compiler }

// DB returns the underlying database connection (for advanced use)
func (s *Store[T]) DB() *sql.DB { return s.db }

func (s *Store[T]) indexColumns() []string {
	maps := s.registry.Maps()
	cols := make([]string, 0, len(maps))
	for _, m := range maps {
		cols = append(cols, s.compiler.Column(m.Name()))
	}
	return cols
}

func (s *Store[T]) quote(name string) string {
	return s.adapter.Dialect().QuoteIdent(name)
}

func (s *Store[T]) table() string {
	return s.quote(s.opts.Table)
}

func (s *Store[T]) keyEq(key string) sq.Eq {
	return sq.Eq{s.quote(storage.ColumnKey): key}
}

// record is one row as written to the table.
type record struct {
	key       string
	tags      any
	hash      string
	timestamp string
	value     string
	indexes   []any
}

func (s *Store[T]) prepare(key string, doc T, tags []string) (record, error) {
	data, err := s.opts.Codec.Marshal(doc)
	if err != nil {
		return record{}, withKey(Wrap(ErrCodec, "marshal document", err), key)
	}

	h := sha256.New()
	h.Write(data)
	h.Write([]byte{0})

	r := record{
		key:       key,
		timestamp: planner.FormatTimestamp(s.opts.Now().Local()),
		value:     string(data),
	}

	kept := make([]string, 0, len(tags))
	for _, t := range tags {
		if t != "" {
			kept = append(kept, t)
		}
	}
	if len(kept) > 0 {
		encoded := index.Encode(kept...)
		r.tags = encoded
		h.Write([]byte(encoded))
	}
	h.Write([]byte{0})

	for _, e := range s.registry.Extract(doc) {
		if index.CardinalityOf(e) == index.Unpopulated {
			r.indexes = append(r.indexes, nil)
		} else {
			r.indexes = append(r.indexes, e.Encoded())
		}
		h.Write([]byte(e.Encoded()))
		h.Write([]byte{0})
	}

	r.hash = hex.EncodeToString(h.Sum(nil))
	return r, nil
}

func (s *Store[T]) put(ctx context.Context, q querier, key string, doc T, tags []string) (Action, error) {
	r, err := s.prepare(key, doc, tags)
	if err != nil {
		return Unchanged, err
	}

	query, args, err := s.sb.Select(s.quote(storage.ColumnHash)).
		From(s.table()).
		Where(s.keyEq(key)).
		ToSql()
	if err != nil {
		return Unchanged, Wrap(ErrSQL, "build hash lookup", err)
	}

	var current string
	err = q.QueryRowContext(ctx, query, args...).Scan(&current)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return Inserted, s.insert(ctx, q, r)
	case err != nil:
		return Unchanged, withKey(Wrap(ErrSQL, "lookup hash", err), key)
	case current == r.hash:
		return Unchanged, nil
	default:
		return Updated, s.update(ctx, q, r)
	}
}

func (s *Store[T]) insert(ctx context.Context, q querier, r record) error {
	cols := []string{
		s.quote(storage.ColumnKey),
		s.quote(storage.ColumnTags),
		s.quote(storage.ColumnHash),
		s.quote(storage.ColumnTimestamp),
		s.quote(storage.ColumnValue),
	}
	vals := []any{r.key, r.tags, r.hash, r.timestamp, r.value}
	for i, col := range s.indexColumns() {
		cols = append(cols, s.quote(col))
		vals = append(vals, r.indexes[i])
	}

	query, args, err := s.sb.Insert(s.table()).Columns(cols...).Values(vals...).ToSql()
	if err != nil {
		return Wrap(ErrSQL, "build insert", err)
	}
	logging.Trace().Str("sql", query).Str("key", r.key).Msg("insert document")
	if _, err := q.ExecContext(ctx, query, args...); err != nil {
		return withKey(Wrap(ErrSQL, "insert document", err), r.key)
	}
	return nil
}

func (s *Store[T]) update(ctx context.Context, q querier, r record) error {
	ub := s.sb.Update(s.table()).
		Set(s.quote(storage.ColumnTags), r.tags).
		Set(s.quote(storage.ColumnHash), r.hash).
		Set(s.quote(storage.ColumnTimestamp), r.timestamp).
		Set(s.quote(storage.ColumnValue), r.value)
	for i, col := range s.indexColumns() {
		ub = ub.Set(s.quote(col), r.indexes[i])
	}

	query, args, err := ub.Where(s.keyEq(r.key)).ToSql()
	if err != nil {
		return Wrap(ErrSQL, "build update", err)
	}
	logging.Trace().Str("sql", query).Str("key", r.key).Msg("update document")
	if _, err := q.ExecContext(ctx, query, args...); err != nil {
		return withKey(Wrap(ErrSQL, "update document", err), r.key)
	}
	return nil
}

// Upsert stores doc under key. Rewriting a document whose payload, tags
// and index values are all unchanged leaves the row alone and reports
// Unchanged.
func (s *Store[T]) Upsert(ctx context.Context, key string, doc T, tags ...string) (action Action, err error) {
	defer func(start time.Time) { s.metrics.observe("upsert", start, err) }(time.Now())

	if key == "" {
		return Unchanged, SchemaError("key cannot be empty")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Unchanged, Wrap(ErrSQL, "begin transaction", err)
	}
	defer tx.Rollback()

	action, err = s.put(ctx, tx, key, doc, tags)
	if err != nil {
		logging.Warn().Err(err).Str("key", key).Msg("upsert failed")
		return Unchanged, err
	}
	if err := tx.Commit(); err != nil {
		return Unchanged, Wrap(ErrSQL, "commit", err)
	}
	return action, nil
}

// Insert stores doc under a newly generated key and returns the key.
func (s *Store[T]) Insert(ctx context.Context, doc T, tags ...string) (string, error) {
	key := uuid.NewString()
	if _, err := s.Upsert(ctx, key, doc, tags...); err != nil {
		return "", err
	}
	return key, nil
}

// Get loads the document stored under key.
func (s *Store[T]) Get(ctx context.Context, key string) (doc T, err error) {
	defer func(start time.Time) { s.metrics.observe("get", start, err) }(time.Now())

	query, args, err := s.sb.Select(s.quote(storage.ColumnValue)).
		From(s.table()).
		Where(s.keyEq(key)).
		ToSql()
	if err != nil {
		return doc, Wrap(ErrSQL, "build get", err)
	}

	var data string
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return doc, NotFoundError(key)
	}
	if err != nil {
		return doc, withKey(Wrap(ErrSQL, "get document", err), key)
	}
	if err := s.opts.Codec.Unmarshal([]byte(data), &doc); err != nil {
		return doc, withKey(Wrap(ErrCodec, "unmarshal document", err), key)
	}
	return doc, nil
}

// Delete removes the document stored under key and reports whether it
// existed.
func (s *Store[T]) Delete(ctx context.Context, key string) (deleted bool, err error) {
	defer func(start time.Time) { s.metrics.observe("delete", start, err) }(time.Now())
	return s.delete(ctx, s.db, key)
}

func (s *Store[T]) delete(ctx context.Context, q querier, key string) (bool, error) {
	query, args, err := s.sb.Delete(s.table()).Where(s.keyEq(key)).ToSql()
	if err != nil {
		return false, Wrap(ErrSQL, "build delete", err)
	}
	res, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		return false, withKey(Wrap(ErrSQL, "delete document", err), key)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, withKey(Wrap(ErrSQL, "rows affected", err), key)
	}
	return n > 0, nil
}

// where compiles the filter part of f. Criteria naming no registered index
// are ignored.
func (s *Store[T]) where(f Filter) sqlbuilder.Fragment {
	return sqlbuilder.Concat(
		s.compiler.CriteriaList(s.registry.Maps(), f.Criteria),
		s.compiler.Tags(f.Tags),
		s.compiler.DateRange(f.From, f.Till),
	)
}

func (s *Store[T]) selectStatement(f Filter, columns ...string) (sqlbuilder.Fragment, error) {
	paging := s.compiler.Paging(f.Skip, f.Take, s.opts.DefaultTake, s.opts.MaxTake)
	return planner.BuildSelect(s.adapter.Dialect(), s.opts.Table, columns, s.where(f), paging)
}

// Explain returns the find statement for f with every value inlined.
func (s *Store[T]) Explain(f Filter) (string, error) {
	stmt, err := s.selectStatement(f, storage.ColumnKey, storage.ColumnValue)
	if err != nil {
		return "", Wrap(ErrSQL, "build find", err)
	}
	return stmt.Inline(), nil
}

func (s *Store[T]) query(ctx context.Context, stmt sqlbuilder.Fragment) (*sql.Rows, error) {
	query, err := sqlbuilder.Rebind(s.adapter.PlaceholderStyle(), stmt.SQL)
	if err != nil {
		return nil, Wrap(ErrSQL, "rebind statement", err)
	}
	logging.Debug().Str("sql", query).Int("args", len(stmt.Args)).Msg("query documents")
	rows, err := s.db.QueryContext(ctx, query, stmt.Args...)
	if err != nil {
		logging.Warn().Err(err).Str("sql", query).Msg("query failed")
		return nil, Wrap(ErrSQL, "query documents", err)
	}
	return rows, nil
}

// Find returns one page of the documents matching f, ordered by key.
func (s *Store[T]) Find(ctx context.Context, f Filter) (docs []T, err error) {
	defer func(start time.Time) { s.metrics.observe("find", start, err) }(time.Now())

	stmt, err := s.selectStatement(f, storage.ColumnKey, storage.ColumnValue)
	if err != nil {
		return nil, Wrap(ErrSQL, "build find", err)
	}
	rows, err := s.query(ctx, stmt)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	docs = make([]T, 0)
	for rows.Next() {
		var key, data string
		if err := rows.Scan(&key, &data); err != nil {
			return nil, Wrap(ErrSQL, "scan document", err)
		}
		var doc T
		if err := s.opts.Codec.Unmarshal([]byte(data), &doc); err != nil {
			return nil, withKey(Wrap(ErrCodec, "unmarshal document", err), key)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, Wrap(ErrSQL, "iterate documents", err)
	}
	return docs, nil
}

// Keys returns the keys of one page of the documents matching f.
func (s *Store[T]) Keys(ctx context.Context, f Filter) (keys []string, err error) {
	defer func(start time.Time) { s.metrics.observe("keys", start, err) }(time.Now())

	stmt, err := s.selectStatement(f, storage.ColumnKey)
	if err != nil {
		return nil, Wrap(ErrSQL, "build keys", err)
	}
	return s.strings(ctx, stmt)
}

func (s *Store[T]) strings(ctx context.Context, stmt sqlbuilder.Fragment) ([]string, error) {
	rows, err := s.query(ctx, stmt)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]string, 0)
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, Wrap(ErrSQL, "scan row", err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, Wrap(ErrSQL, "iterate rows", err)
	}
	return out, nil
}

// Count returns the number of documents matching f. Paging is ignored.
func (s *Store[T]) Count(ctx context.Context, f Filter) (n int, err error) {
	defer func(start time.Time) { s.metrics.observe("count", start, err) }(time.Now())

	stmt, err := planner.BuildCount(s.adapter.Dialect(), s.opts.Table, s.where(f))
	if err != nil {
		return 0, Wrap(ErrSQL, "build count", err)
	}
	query, err := sqlbuilder.Rebind(s.adapter.PlaceholderStyle(), stmt.SQL)
	if err != nil {
		return 0, Wrap(ErrSQL, "rebind statement", err)
	}
	logging.Debug().Str("sql", query).Msg("count documents")
	if err := s.db.QueryRowContext(ctx, query, stmt.Args...).Scan(&n); err != nil {
		return 0, Wrap(ErrSQL, "count documents", err)
	}
	return n, nil
}

// TableNames lists the quoted, schema-qualified tables of the database.
func (s *Store[T]) TableNames(ctx context.Context) (names []string, err error) {
	defer func(start time.Time) { s.metrics.observe("tables", start, err) }(time.Now())
	return s.strings(ctx, s.compiler.TableNames())
}
