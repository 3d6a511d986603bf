package columnar

import (
	"strconv"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	table "github.com/halhen/jsonlite/pkg/columnar"
	"github.com/halhen/jsonlite/pkg/errors"
	"github.com/halhen/jsonlite/pkg/json"
	"github.com/halhen/jsonlite/pkg/models"
)

// Field metadata keys carried on exported Arrow schemas.
const (
	MetaType   = "jsonlite.type"
	MetaScalar = "jsonlite.scalar"
)

// ToArrowType returns the Arrow type used for a column kind. Complex
// columns are stored as JSON text.
func ToArrowType(kind models.Kind) arrow.DataType {
	switch kind {
	case models.KindBool, models.KindNull:
		return arrow.FixedWidthTypes.Boolean
	case models.KindInt:
		return arrow.PrimitiveTypes.Int64
	case models.KindReal:
		return arrow.PrimitiveTypes.Float64
	default:
		return arrow.BinaryTypes.String
	}
}

// ToArrowSchema converts a table's columns into a nullable Arrow schema.
func ToArrowSchema(t *table.Table) *arrow.Schema {
	fields := make([]arrow.Field, 0, t.NumCols())
	for _, col := range t.Columns() {
		fields = append(fields, arrow.Field{
			Name:     col.Name(),
			Type:     ToArrowType(col.Type()),
			Nullable: true,
			Metadata: arrow.NewMetadata(
				[]string{MetaType, MetaScalar},
				[]string{col.Type().String(), strconv.FormatBool(col.Schema.Scalar)},
			),
		})
	}
	return arrow.NewSchema(fields, nil)
}

// ToArrowRecord copies a table into a single Arrow record. The caller must
// Release the record.
func ToArrowRecord(mem memory.Allocator, t *table.Table) (arrow.Record, error) {
	if mem == nil {
		mem = memory.NewGoAllocator()
	}
	builder := array.NewRecordBuilder(mem, ToArrowSchema(t))
	defer builder.Release()

	for i, col := range t.Columns() {
		if err := appendColumn(builder.Field(i), col); err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeData, "failed to convert column").
				WithDetail("column", col.Name())
		}
	}
	return builder.NewRecord(), nil
}

func appendColumn(b array.Builder, col *table.Column) error {
	n := col.Len()
	b.Reserve(n)

	switch data := col.Data.(type) {
	case *models.Bools:
		bb := b.(*array.BooleanBuilder)
		for r := 0; r < n; r++ {
			if x, ok := data.At(r); ok {
				bb.Append(x)
			} else {
				bb.AppendNull()
			}
		}
	case *models.Ints:
		ib := b.(*array.Int64Builder)
		for r := 0; r < n; r++ {
			if x, ok := data.At(r); ok {
				ib.Append(x)
			} else {
				ib.AppendNull()
			}
		}
	case *models.Reals:
		fb := b.(*array.Float64Builder)
		for r := 0; r < n; r++ {
			if x, ok := data.At(r); ok {
				fb.Append(x)
			} else {
				fb.AppendNull()
			}
		}
	case *models.Texts:
		sb := b.(*array.StringBuilder)
		for r := 0; r < n; r++ {
			if x, ok := data.At(r); ok {
				sb.Append(x)
			} else {
				sb.AppendNull()
			}
		}
	case *models.List:
		sb := b.(*array.StringBuilder)
		for r := 0; r < n; r++ {
			text, ok, err := complexCell(col, r)
			if err != nil {
				return err
			}
			if ok {
				sb.Append(text)
			} else {
				sb.AppendNull()
			}
		}
	default:
		return errors.Newf(errors.ErrorTypeInternal, "unexpected column buffer %T", col.Data)
	}
	return nil
}

// complexCell renders cell r of a complex column as compact JSON.
func complexCell(col *table.Column, r int) (string, bool, error) {
	if col.IsNA(r) {
		return "", false, nil
	}
	data, err := json.Marshal(col.Cell(r), json.DefaultOptions())
	if err != nil {
		return "", false, err
	}
	return string(data), true, nil
}
