package cliutil

import (
	"bytes"
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/docset/docset/docset/index"
	"github.com/docset/docset/docset/storage"
	"github.com/docset/docset/internal/config"
)

func doc(t *testing.T, s string) Document {
	t.Helper()
	var d Document
	require.NoError(t, json.Unmarshal([]byte(s), &d))
	return d
}

func TestFieldValue(t *testing.T) {
	d := doc(t, `{"a":"x","n":7.5,"b":true,"m":{"k":"deep"},"l":["p","q"],"e":[]}`)
	require.Equal(t, "x", FieldValue(d, []string{"a"}))
	require.Equal(t, "7.5", FieldValue(d, []string{"n"}))
	require.Equal(t, "true", FieldValue(d, []string{"b"}))
	require.Equal(t, "deep", FieldValue(d, []string{"m", "k"}))
	require.Equal(t, "p", FieldValue(d, []string{"l"}))
	require.Equal(t, "", FieldValue(d, []string{"e"}))
	require.Equal(t, "", FieldValue(d, []string{"missing"}))
	require.Equal(t, "", FieldValue(d, []string{"a", "below"}))
}

func TestFieldValues(t *testing.T) {
	d := doc(t, `{"l":["p",1,"",null],"s":"one","m":{"l":["x"]}}`)
	require.Equal(t, []string{"p", "1"}, FieldValues(d, []string{"l"}))
	require.Equal(t, []string{"one"}, FieldValues(d, []string{"s"}))
	require.Equal(t, []string{"x"}, FieldValues(d, []string{"m", "l"}))
	require.Nil(t, FieldValues(d, []string{"missing"}))
}

func TestNewRegistry(t *testing.T) {
	reg, err := NewRegistry(config.Config{Indexes: []config.IndexConfig{
		{Name: "status"},
		{Name: "labels", Field: "meta.labels", Multi: true},
	}})
	require.NoError(t, err)
	require.Equal(t, []string{"labels", "status"}, reg.Names())

	entries := reg.Extract(doc(t, `{"status":"open","meta":{"labels":["a","b"]}}`))
	require.Len(t, entries, 2)
	require.Equal(t, "||open||", entries[0].Encoded())
	require.Equal(t, index.Multi, index.CardinalityOf(entries[1]))
	require.Equal(t, "||a||b||", entries[1].Encoded())

	_, err = NewRegistry(config.Config{Indexes: []config.IndexConfig{{Name: "key"}}})
	require.Error(t, err)
}

func TestNewAdapter(t *testing.T) {
	cases := map[string]storage.Backend{
		"sqlite":    storage.BackendSQLite,
		"postgres":  storage.BackendPostgres,
		"pg":        storage.BackendPostgres,
		"sqlserver": storage.BackendSQLServer,
		"mssql":     storage.BackendSQLServer,
	}
	for backend, want := range cases {
		require.Equal(t, want, NewAdapter(config.Config{Backend: backend}).Backend(), backend)
	}
}

func TestParseOutputFormat(t *testing.T) {
	require.Equal(t, FormatKeys, ParseOutputFormat("keys"))
	require.Equal(t, FormatJSON, ParseOutputFormat("json"))
	require.Equal(t, FormatPretty, ParseOutputFormat("bogus"))
}

func TestPrintJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PrintJSON(&buf, map[string]int{"n": 1}))
	require.Equal(t, "{\n  \"n\": 1\n}\n", buf.String())

	buf.Reset()
	require.Error(t, PrintJSON(&buf, math.Inf(1)))
	require.Empty(t, buf.String())
}
