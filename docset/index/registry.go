package index

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Map declares one secondary index of document type T. Exactly one of Value
// and Values must be set.
type Map[T any] struct {
	IndexName string
	Value     func(T) string
	Values    func(T) []string
}

// One declares a single-valued index.
func One[T any](name string, fn func(T) string) Map[T] {
	return Map[T]{IndexName: name, Value: fn}
}

// Many declares a multi-valued index.
func Many[T any](name string, fn func(T) []string) Map[T] {
	return Map[T]{IndexName: name, Values: fn}
}

// declared adapts a Map to IndexMap without a document: the declared
// extractor decides the cardinality.
type declared[T any] struct {
	m Map[T]
}

func (d declared[T]) Name() string { return d.m.IndexName }

func (d declared[T]) Value() (string, bool) {
	if d.m.Value != nil {
		return "", true
	}
	return "", false
}

func (d declared[T]) Values() []string {
	if d.m.Values != nil && d.m.Value == nil {
		return []string{}
	}
	return nil
}

var validNameRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

var reservedNames = map[string]bool{
	"key":       true,
	"tags":      true,
	"hash":      true,
	"timestamp": true,
	"value":     true,
}

// Registry holds the index declarations of one document type.
type Registry[T any] struct {
	maps []Map[T]
}

// NewRegistry returns a registry holding maps, or an error when a
// declaration is invalid.
func NewRegistry[T any](maps ...Map[T]) (*Registry[T], error) {
	r := &Registry[T]{}
	for _, m := range maps {
		if err := r.Register(m); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds m. Names must be identifiers, unique under case-insensitive
// comparison, and must not collide with the store's own columns.
func (r *Registry[T]) Register(m Map[T]) error {
	if !validNameRe.MatchString(m.IndexName) {
		return fmt.Errorf("invalid index name %q (must match %s)", m.IndexName, validNameRe.String())
	}
	if reservedNames[strings.ToLower(m.IndexName)] {
		return fmt.Errorf("index name %q is reserved", m.IndexName)
	}
	if (m.Value == nil) == (m.Values == nil) {
		return fmt.Errorf("index %q must declare exactly one of Value or Values", m.IndexName)
	}
	if _, ok := r.Lookup(m.IndexName); ok {
		return fmt.Errorf("duplicate index name %q", m.IndexName)
	}
	r.maps = append(r.maps, m)
	return nil
}

// Lookup finds a declaration by case-insensitive name.
func (r *Registry[T]) Lookup(name string) (Map[T], bool) {
	if r == nil {
		return Map[T]{}, false
	}
	for _, m := range r.maps {
		if strings.EqualFold(m.IndexName, name) {
			return m, true
		}
	}
	return Map[T]{}, false
}

// Len returns the number of declared indexes.
func (r *Registry[T]) Len() int {
	if r == nil {
		return 0
	}
	return len(r.maps)
}

// Maps returns the declarations as IndexMaps, in registration order.
func (r *Registry[T]) Maps() []IndexMap {
	if r == nil {
		return nil
	}
	out := make([]IndexMap, 0, len(r.maps))
	for _, m := range r.maps {
		out = append(out, declared[T]{m: m})
	}
	return out
}

// Names returns the declared index names sorted case-insensitively.
func (r *Registry[T]) Names() []string {
	if r == nil {
		return nil
	}
	names := make([]string, 0, len(r.maps))
	for _, m := range r.maps {
		names = append(names, m.IndexName)
	}
	sort.Slice(names, func(i, j int) bool {
		return strings.ToLower(names[i]) < strings.ToLower(names[j])
	})
	return names
}

// Extract evaluates every declaration against doc. An empty single value or
// an empty collection yields an unpopulated entry.
func (r *Registry[T]) Extract(doc T) []Entry {
	if r == nil {
		return nil
	}
	out := make([]Entry, 0, len(r.maps))
	for _, m := range r.maps {
		switch {
		case m.Value != nil:
			v := m.Value(doc)
			if v == "" {
				out = append(out, NewEntry(m.IndexName, nil, nil))
				continue
			}
			out = append(out, NewEntry(m.IndexName, &v, nil))
		default:
			vs := m.Values(doc)
			if len(vs) == 0 {
				out = append(out, NewEntry(m.IndexName, nil, nil))
				continue
			}
			out = append(out, NewEntry(m.IndexName, nil, vs))
		}
	}
	return out
}
