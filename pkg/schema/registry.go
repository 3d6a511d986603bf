// Package schema infers the column schema of a collection of records: one
// entry per distinct field name with the least common element type of every
// value seen under that name.
package schema

import (
	"slices"
	"strings"

	gojson "github.com/goccy/go-json"

	"github.com/halhen/jsonlite/pkg/models"
)

// ColumnSchema describes one output column.
type ColumnSchema struct {
	// Name is the field name shared by all values in the column.
	Name string `json:"name"`
	// Type is the least upper bound of the classes of all values seen.
	Type models.Kind `json:"-"`
	// Scalar is false once any value with two or more elements, or any
	// non-primitive value, was seen.
	Scalar bool `json:"scalar"`
}

// Field is the reporting form of a ColumnSchema.
type Field struct {
	Name   string `json:"name"`
	Type   string `json:"type"`
	Scalar bool   `json:"scalar"`
}

// Registry holds column schemas sorted by name. Lookups are binary searches
// and new names are inserted in place, so iteration order is always the
// lexicographic byte order of the names.
//
// A Registry is owned by a single inference pass and is not safe for
// concurrent use.
type Registry struct {
	columns []*ColumnSchema
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{columns: make([]*ColumnSchema, 0, 16)}
}

func compareName(c *ColumnSchema, name string) int {
	return strings.Compare(c.Name, name)
}

// IndexOf returns the position of name in sorted order.
func (r *Registry) IndexOf(name string) (int, bool) {
	return slices.BinarySearchFunc(r.columns, name, compareName)
}

// Lookup returns the schema for name, or nil.
func (r *Registry) Lookup(name string) *ColumnSchema {
	if i, ok := r.IndexOf(name); ok {
		return r.columns[i]
	}
	return nil
}

// LookupOrCreate returns the schema for name, inserting a new boolean,
// scalar entry when the name has not been seen.
func (r *Registry) LookupOrCreate(name string) (*ColumnSchema, bool) {
	i, ok := r.IndexOf(name)
	if ok {
		return r.columns[i], false
	}
	col := &ColumnSchema{Name: name, Type: models.KindBool, Scalar: true}
	r.columns = slices.Insert(r.columns, i, col)
	return col, true
}

// Len returns the number of columns.
func (r *Registry) Len() int { return len(r.columns) }

// Columns returns the schemas in name order. The slice must not be modified.
func (r *Registry) Columns() []*ColumnSchema { return r.columns }

// Names returns the column names in order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.columns))
	for i, c := range r.columns {
		names[i] = c.Name
	}
	return names
}

// Fields returns a reporting copy of the schema.
func (r *Registry) Fields() []Field {
	fields := make([]Field, len(r.columns))
	for i, c := range r.columns {
		fields[i] = Field{Name: c.Name, Type: c.Type.String(), Scalar: c.Scalar}
	}
	return fields
}

// Export serializes the schema as a JSON array of fields.
func (r *Registry) Export() ([]byte, error) {
	return gojson.Marshal(r.Fields())
}
