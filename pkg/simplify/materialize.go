package simplify

import (
	"github.com/halhen/jsonlite/pkg/columnar"
	"github.com/halhen/jsonlite/pkg/models"
	"github.com/halhen/jsonlite/pkg/schema"
)

// Materialize builds the table for rows under a finalized schema. Rows must
// be the collection the schema was inferred from.
func (s *Simplifier) Materialize(reg *schema.Registry, rows *models.List, depth int) *columnar.Table {
	t := columnar.NewTable(reg, rows.Len())
	for r, row := range rows.Elems() {
		for j, name := range models.Names(row) {
			i, ok := t.Index(name)
			if !ok {
				continue
			}
			// later duplicates of a name overwrite earlier ones
			s.setCell(t.ColumnAt(i), r, models.Elem(row, j), depth)
		}
	}
	return t
}

func (s *Simplifier) setCell(c *columnar.Column, r int, v models.Value, depth int) {
	if v == nil {
		v = models.Null
	}
	switch d := c.Data.(type) {
	case *models.Bools:
		if x, ok := models.AsBool(v); ok {
			d.Set(r, x)
		} else {
			d.SetNA(r)
			s.coercionNA(v, models.KindBool)
		}
	case *models.Ints:
		if x, ok := models.AsInt(v); ok {
			d.Set(r, x)
		} else {
			d.SetNA(r)
			s.coercionNA(v, models.KindInt)
		}
	case *models.Reals:
		if x, ok := models.AsReal(v); ok {
			d.Set(r, x)
		} else {
			d.SetNA(r)
			s.coercionNA(v, models.KindReal)
		}
	case *models.Texts:
		if x, ok := models.AsText(v); ok {
			d.Set(r, x)
		} else {
			d.SetNA(r)
			s.coercionNA(v, models.KindText)
		}
	case *models.List:
		if depth < s.maxDepth {
			v = s.simplify(v, depth+1)
		}
		d.Set(r, v)
	}
}

func (s *Simplifier) coercionNA(v models.Value, target models.Kind) {
	if s.observer == nil || models.IsNull(v) || v.Len() == 0 || models.IsNA(v) {
		return
	}
	s.observer.ObserveCoercionNA(target)
}
