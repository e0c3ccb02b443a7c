// Package index declares the secondary indexes of a document type and the
// delimited encoding their values are stored with.
package index

import "strings"

// Delimiter bounds every element of a multi-valued index column and of the
// tags column, so a token can only match a whole element.
const Delimiter = "||"

// Cardinality describes the shape of an index for one document.
type Cardinality int

const (
	Unpopulated Cardinality = iota
	Single
	Multi
)

func (c Cardinality) String() string {
	switch c {
	case Single:
		return "single"
	case Multi:
		return "multi"
	default:
		return "unpopulated"
	}
}

// IndexMap is the capability set the compiler needs from an index,
// independent of the document type it was declared for.
type IndexMap interface {
	Name() string
	// Value returns the single extracted scalar, if any.
	Value() (string, bool)
	// Values returns the multi-value collection; nil means absent.
	Values() []string
}

// CardinalityOf reports whether m is single-valued, multi-valued or neither.
func CardinalityOf(m IndexMap) Cardinality {
	if m == nil {
		return Unpopulated
	}
	if _, ok := m.Value(); ok {
		return Single
	}
	if m.Values() != nil {
		return Multi
	}
	return Unpopulated
}

// Encode joins values into the delimited column form: ||a||b||.
// No values encode as the empty string.
func Encode(values ...string) string {
	if len(values) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(Delimiter)
	for _, v := range values {
		b.WriteString(v)
		b.WriteString(Delimiter)
	}
	return b.String()
}

// Decode splits a delimited column value back into its elements.
func Decode(s string) []string {
	s = strings.TrimPrefix(s, Delimiter)
	s = strings.TrimSuffix(s, Delimiter)
	if s == "" {
		return nil
	}
	return strings.Split(s, Delimiter)
}

// Entry is an IndexMap populated for one document.
type Entry struct {
	name   string
	value  *string
	values []string
}

// NewEntry returns an entry for name. Pass a nil value and nil values for a
// declared but unpopulated index.
func NewEntry(name string, value *string, values []string) Entry {
	return Entry{name: name, value: value, values: values}
}

func (e Entry) Name() string { return e.name }

func (e Entry) Value() (string, bool) {
	if e.value == nil {
		return "", false
	}
	return *e.value, true
}

func (e Entry) Values() []string { return e.values }

// Encoded returns the column value stored for this entry.
func (e Entry) Encoded() string {
	switch CardinalityOf(e) {
	case Single:
		return Encode(*e.value)
	case Multi:
		return Encode(e.values...)
	default:
		return ""
	}
}
