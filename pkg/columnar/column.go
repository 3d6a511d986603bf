package columnar

import (
	"github.com/halhen/jsonlite/pkg/models"
	"github.com/halhen/jsonlite/pkg/schema"
)

// Column is one typed output column.
type Column struct {
	Schema schema.ColumnSchema
	// Data is *models.Bools, *models.Ints, *models.Reals, *models.Texts or,
	// for complex columns, a *models.List with one element per row.
	Data models.Value
}

// Name returns the column name.
func (c *Column) Name() string { return c.Schema.Name }

// Type returns the column element type.
func (c *Column) Type() models.Kind { return c.Schema.Type }

// Len returns the number of cells.
func (c *Column) Len() int { return c.Data.Len() }

// IsNA reports whether cell i holds the missing marker.
func (c *Column) IsNA(i int) bool {
	switch d := c.Data.(type) {
	case *models.Bools:
		return d.IsNA(i)
	case *models.Ints:
		return d.IsNA(i)
	case *models.Reals:
		return d.IsNA(i)
	case *models.Texts:
		return d.IsNA(i)
	case *models.List:
		return models.IsNull(d.Elem(i))
	}
	return true
}

// Cell returns cell i as a length-one value, or Null when it is missing.
func (c *Column) Cell(i int) models.Value {
	if c.IsNA(i) {
		return models.Null
	}
	switch d := c.Data.(type) {
	case *models.Bools:
		return models.Bool(d.Values()[i])
	case *models.Ints:
		return models.Int(d.Values()[i])
	case *models.Reals:
		return models.Real(d.Values()[i])
	case *models.Texts:
		return models.Text(d.Values()[i])
	case *models.List:
		return d.Elem(i)
	}
	return models.Null
}

// MemoryUsage estimates the bytes held by the column buffer.
func (c *Column) MemoryUsage() int64 {
	switch d := c.Data.(type) {
	case *models.Bools:
		return int64(d.Len())
	case *models.Ints:
		return int64(d.Len() * 8)
	case *models.Reals:
		return int64(d.Len() * 8)
	case *models.Texts:
		var total int64
		for _, s := range d.Values() {
			total += int64(len(s)) + 16 // string header
		}
		return total
	case *models.List:
		return int64(d.Len() * 16) // interface header per cell
	}
	return 0
}

// NewBuffer allocates a typed buffer of n cells pre-filled with the missing
// marker of kind. Complex buffers hold Null in every cell.
func NewBuffer(kind models.Kind, n int) models.Value {
	switch kind {
	case models.KindNull, models.KindBool:
		v := models.NewBools(n)
		v.FillNA()
		return v
	case models.KindInt:
		v := models.NewInts(n)
		v.FillNA()
		return v
	case models.KindReal:
		v := models.NewReals(n)
		v.FillNA()
		return v
	case models.KindText:
		v := models.NewTexts(n)
		v.FillNA()
		return v
	default:
		cells := make([]models.Value, n)
		for i := range cells {
			cells[i] = models.Null
		}
		return models.NewList(cells...)
	}
}

// NewColumn allocates an all-missing column for s.
func NewColumn(s schema.ColumnSchema, n int) *Column {
	return &Column{Schema: s, Data: NewBuffer(s.Type, n)}
}
