package columnar

import (
	"slices"
	"strings"

	"github.com/halhen/jsonlite/pkg/models"
	"github.com/halhen/jsonlite/pkg/schema"
)

// Table is an ordered set of equally long typed columns. Columns are sorted
// by name.
type Table struct {
	columns []*Column
	rows    int
}

// NewTable allocates one all-missing column per schema entry, in registry
// order, each with rows cells.
func NewTable(reg *schema.Registry, rows int) *Table {
	t := &Table{columns: make([]*Column, 0, reg.Len()), rows: rows}
	for _, s := range reg.Columns() {
		t.columns = append(t.columns, NewColumn(*s, rows))
	}
	return t
}

// NumRows returns the number of rows.
func (t *Table) NumRows() int { return t.rows }

// NumCols returns the number of columns.
func (t *Table) NumCols() int { return len(t.columns) }

// Columns returns the columns in name order.
func (t *Table) Columns() []*Column { return t.columns }

// ColumnAt returns column i.
func (t *Table) ColumnAt(i int) *Column { return t.columns[i] }

// Names returns the column names in order.
func (t *Table) Names() []string {
	names := make([]string, len(t.columns))
	for i, c := range t.columns {
		names[i] = c.Name()
	}
	return names
}

// Index returns the position of the column called name.
func (t *Table) Index(name string) (int, bool) {
	return slices.BinarySearchFunc(t.columns, name, func(c *Column, name string) int {
		return strings.Compare(c.Name(), name)
	})
}

// Column returns the column called name, or nil.
func (t *Table) Column(name string) *Column {
	if i, ok := t.Index(name); ok {
		return t.columns[i]
	}
	return nil
}

// Schema returns the reporting form of the column schemas.
func (t *Table) Schema() []schema.Field {
	fields := make([]schema.Field, len(t.columns))
	for i, c := range t.columns {
		fields[i] = schema.Field{Name: c.Name(), Type: c.Type().String(), Scalar: c.Schema.Scalar}
	}
	return fields
}

// Row returns row i as a record. Missing cells are left out, so a row built
// from a record that omitted a field omits it too.
func (t *Table) Row(i int) *models.List {
	row := models.NewRecord()
	for _, c := range t.columns {
		if c.IsNA(i) {
			continue
		}
		row.AppendField(c.Name(), c.Cell(i))
	}
	return row
}

// Rows returns every row as a record.
func (t *Table) Rows() *models.List {
	out := models.NewList()
	for i := 0; i < t.rows; i++ {
		out.Append(t.Row(i))
	}
	return out
}

// AsValue returns the table as a named list of column vectors. The result
// shares the column buffers. A table without columns is an unnamed empty
// list.
func (t *Table) AsValue() *models.List {
	if len(t.columns) == 0 {
		return models.NewList()
	}
	names := make([]string, len(t.columns))
	data := make([]models.Value, len(t.columns))
	for i, c := range t.columns {
		names[i] = c.Name()
		data[i] = c.Data
	}
	return models.NewNamedList(names, data)
}

// FromValue rebuilds a Table from the value produced by AsValue. It reports
// false when v is not a named list of equally long columns.
func FromValue(v models.Value) (*Table, bool) {
	l, ok := v.(*models.List)
	if !ok || len(l.Names()) != l.Len() {
		return nil, false
	}
	t := &Table{columns: make([]*Column, 0, l.Len()), rows: -1}
	for i, data := range l.Elems() {
		if models.IsNull(data) {
			return nil, false
		}
		if t.rows >= 0 && data.Len() != t.rows {
			return nil, false
		}
		t.rows = data.Len()
		c := &Column{Schema: schema.ColumnSchema{Name: l.Name(i), Type: data.Kind()}, Data: data}
		c.Schema.Scalar = scalarColumn(c)
		t.columns = append(t.columns, c)
	}
	if t.rows < 0 {
		t.rows = 0
	}
	if !slices.IsSortedFunc(t.columns, func(a, b *Column) int { return strings.Compare(a.Name(), b.Name()) }) {
		return nil, false
	}
	return t, true
}

func scalarColumn(c *Column) bool {
	cells, ok := c.Data.(*models.List)
	if !ok {
		return true
	}
	for _, cell := range cells.Elems() {
		if models.Classify(cell) == models.KindComplex {
			return false
		}
	}
	return true
}

// MemoryUsage estimates the bytes held by all column buffers.
func (t *Table) MemoryUsage() int64 {
	var total int64
	for _, c := range t.columns {
		total += c.MemoryUsage()
	}
	return total
}
