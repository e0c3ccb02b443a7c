package index

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type order struct {
	Status string
	Labels []string
}

func TestEncodeDecode(t *testing.T) {
	require.Equal(t, "", Encode())
	require.Equal(t, "||a||", Encode("a"))
	require.Equal(t, "||a||b||c||", Encode("a", "b", "c"))

	require.Nil(t, Decode(""))
	require.Equal(t, []string{"a", "b", "c"}, Decode("||a||b||c||"))
}

func TestCardinalityOf(t *testing.T) {
	v := "A"
	require.Equal(t, Single, CardinalityOf(NewEntry("status", &v, nil)))
	require.Equal(t, Multi, CardinalityOf(NewEntry("tags", nil, []string{"a", "b"})))
	require.Equal(t, Unpopulated, CardinalityOf(NewEntry("status", nil, nil)))
	require.Equal(t, Unpopulated, CardinalityOf(nil))

	// a value wins over a collection
	require.Equal(t, Single, CardinalityOf(NewEntry("both", &v, []string{"a"})))
}

func TestRegistryRegister(t *testing.T) {
	r, err := NewRegistry(
		One("Status", func(o order) string { return o.Status }),
		Many("Labels", func(o order) []string { return o.Labels }),
	)
	require.NoError(t, err)
	require.Equal(t, 2, r.Len())
	require.Equal(t, []string{"Labels", "Status"}, r.Names())

	_, ok := r.Lookup("STATUS")
	require.True(t, ok)

	tests := []struct {
		name string
		m    Map[order]
	}{
		{"duplicate ignoring case", One("status", func(o order) string { return o.Status })},
		{"invalid identifier", One("bad name", func(o order) string { return o.Status })},
		{"reserved column", One("Timestamp", func(o order) string { return o.Status })},
		{"no extractor", Map[order]{IndexName: "empty"}},
		{
			"both extractors",
			Map[order]{
				IndexName: "both",
				Value:     func(o order) string { return "" },
				Values:    func(o order) []string { return nil },
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Error(t, r.Register(tt.m))
		})
	}
}

func TestRegistryMapsDeclaredCardinality(t *testing.T) {
	r, err := NewRegistry(
		One("Status", func(o order) string { return o.Status }),
		Many("Labels", func(o order) []string { return o.Labels }),
	)
	require.NoError(t, err)

	maps := r.Maps()
	require.Len(t, maps, 2)
	require.Equal(t, "Status", maps[0].Name())
	require.Equal(t, Single, CardinalityOf(maps[0]))
	require.Equal(t, "Labels", maps[1].Name())
	require.Equal(t, Multi, CardinalityOf(maps[1]))
}

func TestRegistryExtract(t *testing.T) {
	r, err := NewRegistry(
		One("Status", func(o order) string { return o.Status }),
		Many("Labels", func(o order) []string { return o.Labels }),
	)
	require.NoError(t, err)

	entries := r.Extract(order{Status: "open", Labels: []string{"x", "y"}})
	require.Len(t, entries, 2)
	require.Equal(t, "||open||", entries[0].Encoded())
	require.Equal(t, "||x||y||", entries[1].Encoded())

	entries = r.Extract(order{})
	require.Equal(t, Unpopulated, CardinalityOf(entries[0]))
	require.Equal(t, Unpopulated, CardinalityOf(entries[1]))
	require.Equal(t, "", entries[0].Encoded())
}
