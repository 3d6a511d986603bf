package columnar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/halhen/jsonlite/pkg/models"
	"github.com/halhen/jsonlite/pkg/schema"
)

func testRegistry() *schema.Registry {
	reg := schema.NewRegistry()
	kinds := map[string]models.Kind{
		"b": models.KindBool,
		"i": models.KindInt,
		"r": models.KindReal,
		"t": models.KindText,
		"c": models.KindComplex,
	}
	for name, k := range kinds {
		col, _ := reg.LookupOrCreate(name)
		col.Type = k
	}
	return reg
}

func TestNewTablePrefillsMissing(t *testing.T) {
	table := NewTable(testRegistry(), 3)

	assert.Equal(t, 3, table.NumRows())
	assert.Equal(t, []string{"b", "c", "i", "r", "t"}, table.Names())
	for _, c := range table.Columns() {
		require.Equal(t, 3, c.Len(), c.Name())
		for i := 0; i < 3; i++ {
			assert.True(t, c.IsNA(i), "%s[%d]", c.Name(), i)
			assert.Equal(t, models.Null, c.Cell(i))
		}
	}

	assert.IsType(t, &models.Bools{}, table.Column("b").Data)
	assert.IsType(t, &models.Ints{}, table.Column("i").Data)
	assert.IsType(t, &models.Reals{}, table.Column("r").Data)
	assert.IsType(t, &models.Texts{}, table.Column("t").Data)
	assert.IsType(t, &models.List{}, table.Column("c").Data)
}

func TestTableLookup(t *testing.T) {
	table := NewTable(testRegistry(), 1)

	i, ok := table.Index("r")
	require.True(t, ok)
	assert.Equal(t, 3, i)
	assert.Nil(t, table.Column("missing"))
}

func TestRowAndAsValue(t *testing.T) {
	table := NewTable(testRegistry(), 2)
	table.Column("i").Data.(*models.Ints).Set(0, 7)
	table.Column("t").Data.(*models.Texts).Set(1, "x")
	table.Column("c").Data.(*models.List).Set(1, models.IntsOf(1, 2))

	assert.Equal(t, models.NewRecord(models.F("i", models.Int(7))), table.Row(0))
	assert.Equal(t, models.NewRecord(
		models.F("c", models.IntsOf(1, 2)),
		models.F("t", models.Text("x")),
	), table.Row(1))

	v := table.AsValue()
	assert.Equal(t, table.Names(), v.Names())

	back, ok := FromValue(v)
	require.True(t, ok)
	assert.Equal(t, table.Names(), back.Names())
	assert.Equal(t, 2, back.NumRows())
	assert.False(t, back.Column("c").Schema.Scalar)
	assert.True(t, back.Column("i").Schema.Scalar)
}

func TestFromValueRejects(t *testing.T) {
	_, ok := FromValue(models.NewList(models.IntsOf(1)))
	assert.False(t, ok, "unnamed")

	_, ok = FromValue(models.NewRecord(
		models.F("a", models.IntsOf(1, 2)),
		models.F("b", models.IntsOf(1)),
	))
	assert.False(t, ok, "ragged")

	_, ok = FromValue(models.NewRecord(
		models.F("b", models.IntsOf(1)),
		models.F("a", models.IntsOf(1)),
	))
	assert.False(t, ok, "unsorted")
}

func TestMemoryUsage(t *testing.T) {
	table := NewTable(testRegistry(), 4)
	assert.Positive(t, table.MemoryUsage())
}
