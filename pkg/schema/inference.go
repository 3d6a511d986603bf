package schema

import (
	"go.uber.org/zap"

	"github.com/halhen/jsonlite/pkg/models"
)

// Inferrer scans a collection of rows and builds its column schema.
type Inferrer struct {
	logger *zap.Logger
}

// NewInferrer creates an inferrer. A nil logger disables logging.
func NewInferrer(logger *zap.Logger) *Inferrer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Inferrer{logger: logger}
}

// Infer returns the name-sorted schema of rows and whether rows can be
// simplified at all. Rows are simplifiable when rows is an unnamed list and
// every row carries exactly one name per value. A row that is not a list is
// accepted only when it is empty.
//
// Infeasibility is not an error: callers pass the input through unchanged.
func (e *Inferrer) Infer(rows models.Value) (*Registry, bool) {
	collection, ok := rows.(*models.List)
	if !ok {
		e.logger.Debug("input is not a list", zap.Stringer("kind", kindOf(rows)))
		return nil, false
	}
	if collection.HasNames() {
		e.logger.Debug("outer list carries names")
		return nil, false
	}

	reg := NewRegistry()
	for i := 0; i < collection.Len(); i++ {
		row := collection.Elem(i)
		names := models.Names(row)
		if models.RowCount(row) != len(names) {
			e.logger.Debug("row names do not match its values",
				zap.Int("row", i),
				zap.Int("values", models.RowCount(row)),
				zap.Int("names", len(names)))
			return nil, false
		}
		for j, name := range names {
			col, created := reg.LookupOrCreate(name)
			if created {
				e.logger.Debug("new column", zap.String("name", name), zap.Int("row", i))
			}
			observe(col, models.Elem(row, j))
		}
	}

	e.logger.Debug("schema inferred",
		zap.Int("rows", collection.Len()),
		zap.Int("columns", reg.Len()))
	return reg, true
}

// observe folds one value into a column schema.
func observe(col *ColumnSchema, v models.Value) {
	if col.Type == models.KindComplex {
		// absorbing; Scalar was cleared when the column turned complex
		return
	}
	k := models.Classify(v)
	if k == models.KindComplex {
		col.Scalar = false
	}
	col.Type = models.MaxKind(col.Type, k)
}

func kindOf(v models.Value) models.Kind {
	if models.IsNull(v) {
		return models.KindNull
	}
	return v.Kind()
}

// Infer runs a default, silent Inferrer.
func Infer(rows models.Value) (*Registry, bool) {
	return NewInferrer(nil).Infer(rows)
}
