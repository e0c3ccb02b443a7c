package docset

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/docset/docset/docset/planner"
	"github.com/docset/docset/docset/query"
)

const DefaultTable = "docs"

// StoreOptions configures a Store
type StoreOptions struct {
	Table       string
	IndexSuffix string // default planner.DefaultIndexSuffix
	DefaultTake int    // take used when a filter asks for none
	MaxTake     int    // upper bound on any take
	CreateTable bool   // create the table on Open when missing
	Now         func() time.Time
	Codec       Codec
	// Registerer receives the store metrics. Nil leaves them unregistered.
	Registerer prometheus.Registerer
}

// DefaultStoreOptions returns sensible defaults
func DefaultStoreOptions() StoreOptions {
	return StoreOptions{
		Table:       DefaultTable,
		IndexSuffix: planner.DefaultIndexSuffix,
		DefaultTake: planner.DefaultTake,
		MaxTake:     planner.MaxTake,
		CreateTable: true,
		Now:         time.Now,
		Codec:       JSONCodec{},
	}
}

func (o StoreOptions) withDefaults() StoreOptions {
	d := DefaultStoreOptions()
	if o.Table == "" {
		o.Table = d.Table
	}
	if o.IndexSuffix == "" {
		o.IndexSuffix = d.IndexSuffix
	}
	if o.DefaultTake <= 0 {
		o.DefaultTake = d.DefaultTake
	}
	if o.MaxTake <= 0 {
		o.MaxTake = d.MaxTake
	}
	if o.Now == nil {
		o.Now = d.Now
	}
	if o.Codec == nil {
		o.Codec = d.Codec
	}
	return o
}

// Filter selects documents for Find and Count. The zero Filter matches
// every document and returns the first DefaultTake of them by key.
type Filter struct {
	Criteria []query.Criteria
	Tags     []string
	From     *time.Time // inclusive
	Till     *time.Time // exclusive
	Skip     int
	Take     int
}

// Action reports what an upsert did to the stored row.
type Action int

const (
	Unchanged Action = iota
	Inserted
	Updated
)

func (a Action) String() string {
	switch a {
	case Inserted:
		return "inserted"
	case Updated:
		return "updated"
	default:
		return "unchanged"
	}
}
