package docset

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/docset/docset/docset/storage/sqlite"
)

func TestStoreMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	opts := DefaultStoreOptions()
	opts.Registerer = reg

	s, err := Open[map[string]any](context.Background(), sqlite.New(filepath.Join(t.TempDir(), "m.db")), nil, opts)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	ctx := context.Background()
	_, err = s.Upsert(ctx, "a", map[string]any{"n": 1})
	require.NoError(t, err)
	_, err = s.Get(ctx, "a")
	require.NoError(t, err)
	_, err = s.Get(ctx, "missing")
	require.True(t, IsKind(err, ErrNotFound))

	require.Equal(t, 1.0, testutil.ToFloat64(s.metrics.ops.WithLabelValues("upsert", "ok")))
	require.Equal(t, 1.0, testutil.ToFloat64(s.metrics.ops.WithLabelValues("get", "ok")))
	require.Equal(t, 1.0, testutil.ToFloat64(s.metrics.ops.WithLabelValues("get", "not_found")))

	n, err := testutil.GatherAndCount(reg, "docset_store_operations_total")
	require.NoError(t, err)
	require.Equal(t, 3, n)
}

func TestStoreReopenSharesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	opts := DefaultStoreOptions()
	opts.Registerer = reg
	path := filepath.Join(t.TempDir(), "m.db")
	ctx := context.Background()

	s1, err := Open[map[string]any](ctx, sqlite.New(path), nil, opts)
	require.NoError(t, err)
	_, err = s1.Upsert(ctx, "a", map[string]any{"n": 1})
	require.NoError(t, err)
	require.NoError(t, s1.Close())

	s2, err := Open[map[string]any](ctx, sqlite.New(path), nil, opts)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s2.Close() })

	// a second store on another table registers alongside
	other := opts
	other.Table = "other"
	s3, err := Open[map[string]any](ctx, sqlite.New(path), nil, other)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s3.Close() })

	_, err = s2.Upsert(ctx, "b", map[string]any{"n": 2})
	require.NoError(t, err)
	require.Same(t, s1.metrics.ops, s2.metrics.ops)
	require.Equal(t, 2.0, testutil.ToFloat64(s2.metrics.ops.WithLabelValues("upsert", "ok")))
}

func TestStoreMetricsConflictIsAnError(t *testing.T) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(prometheus.NewCounter(prometheus.CounterOpts{
		Name:        "docset_store_operations_total",
		Help:        "unrelated",
		ConstLabels: prometheus.Labels{"table": "docs"},
	}))

	opts := DefaultStoreOptions()
	opts.Registerer = reg
	_, err := Open[map[string]any](context.Background(), sqlite.New(filepath.Join(t.TempDir(), "m.db")), nil, opts)
	require.True(t, IsKind(err, ErrSchema), "got %v", err)
}

func TestStoreMetricsUnregistered(t *testing.T) {
	m, err := newStoreMetrics(nil, "docs")
	require.NoError(t, err)
	m.observe("find", time.Now(), nil)
	require.Equal(t, 1.0, testutil.ToFloat64(m.ops.WithLabelValues("find", "ok")))
}

func TestErrorFormatting(t *testing.T) {
	err := withKey(Wrap(ErrSQL, "insert document", context.Canceled), "k1")
	require.Equal(t, "sql: insert document (key=k1): context canceled", err.Error())
	require.ErrorIs(t, err, context.Canceled)
	require.True(t, IsKind(err, ErrSQL))
	require.False(t, IsKind(err, ErrIO))
	require.Equal(t, "not_found: document not found (key=x)", NotFoundError("x").Error())
}

func TestActionString(t *testing.T) {
	require.Equal(t, "inserted", Inserted.String())
	require.Equal(t, "updated", Updated.String())
	require.Equal(t, "unchanged", Unchanged.String())
}
