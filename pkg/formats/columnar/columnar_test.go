package columnar

import (
	"bytes"
	"context"
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
	"github.com/linkedin/goavro/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/halhen/jsonlite/pkg/compression"
	"github.com/halhen/jsonlite/pkg/errors"
	"github.com/halhen/jsonlite/pkg/json"
	"github.com/halhen/jsonlite/pkg/testutil"
)

const people = `[
	{"name": "ann", "age": 31, "tags": ["a", "b"]},
	{"name": "bob", "score": 2.5, "ok": true},
	{"age": 40}
]`

func TestToArrowSchema(t *testing.T) {
	schema := ToArrowSchema(testutil.Table(t, people))

	require.Equal(t, 5, schema.NumFields())
	want := map[string]arrow.DataType{
		"age":   arrow.PrimitiveTypes.Int64,
		"name":  arrow.BinaryTypes.String,
		"ok":    arrow.FixedWidthTypes.Boolean,
		"score": arrow.PrimitiveTypes.Float64,
		"tags":  arrow.BinaryTypes.String,
	}
	for i, f := range schema.Fields() {
		assert.True(t, arrow.TypeEqual(want[f.Name], f.Type), f.Name)
		assert.True(t, f.Nullable)
		if i > 0 {
			assert.Less(t, schema.Field(i-1).Name, f.Name)
		}
	}

	tags := schema.Field(4)
	kind, _ := tags.Metadata.GetValue(MetaType)
	scalar, _ := tags.Metadata.GetValue(MetaScalar)
	assert.Equal(t, "complex", kind)
	assert.Equal(t, "false", scalar)
}

func TestToArrowRecord(t *testing.T) {
	rec, err := ToArrowRecord(memory.NewGoAllocator(), testutil.Table(t, people))
	require.NoError(t, err)
	defer rec.Release()

	assert.EqualValues(t, 3, rec.NumRows())

	age := rec.Column(0).(*array.Int64)
	assert.Equal(t, int64(31), age.Value(0))
	assert.True(t, age.IsNull(1))
	assert.Equal(t, int64(40), age.Value(2))

	ok := rec.Column(2).(*array.Boolean)
	assert.True(t, ok.IsNull(0))
	assert.True(t, ok.Value(1))

	tags := rec.Column(4).(*array.String)
	assert.Equal(t, `["a","b"]`, tags.Value(0))
	assert.True(t, tags.IsNull(1))
	assert.True(t, tags.IsNull(2))
}

func readArrow(t *testing.T, data []byte) (*arrow.Schema, []arrow.Record) {
	t.Helper()
	r, err := ipc.NewFileReader(bytes.NewReader(data), ipc.WithAllocator(memory.NewGoAllocator()))
	require.NoError(t, err)
	defer r.Close()

	var records []arrow.Record
	for i := 0; i < r.NumRecords(); i++ {
		rec, err := r.Record(i)
		require.NoError(t, err)
		rec.Retain()
		records = append(records, rec)
	}
	return r.Schema(), records
}

func TestArrowWriter(t *testing.T) {
	tests := []struct {
		name        string
		compression string
	}{
		{"uncompressed", "none"},
		{"lz4 body", "lz4"},
		{"zstd body", "zstd"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			w, err := NewWriter(&buf, &WriterConfig{Format: Arrow, Compression: tt.compression, BatchSize: 2})
			require.NoError(t, err)
			require.NoError(t, w.Write(testutil.Table(t, people)))
			require.NoError(t, w.Close())
			assert.EqualValues(t, 3, w.RowsWritten())

			schema, records := readArrow(t, buf.Bytes())
			assert.Equal(t, 5, schema.NumFields())
			require.Len(t, records, 2)
			assert.EqualValues(t, 2, records[0].NumRows())
			assert.EqualValues(t, 1, records[1].NumRows())
			assert.Equal(t, int64(40), records[1].Column(0).(*array.Int64).Value(0))
			for _, rec := range records {
				rec.Release()
			}
		})
	}
}

func TestArrowWriterStreamCompression(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf, &WriterConfig{Format: Arrow, Compression: "gzip"})
	require.NoError(t, err)
	require.NoError(t, w.Write(testutil.Table(t, people)))
	require.NoError(t, w.Close())

	raw, err := compression.Decompress(buf.Bytes(), compression.Gzip)
	require.NoError(t, err)

	_, records := readArrow(t, raw)
	require.Len(t, records, 1)
	assert.EqualValues(t, 3, records[0].NumRows())
	records[0].Release()
}

func TestParquetWriter(t *testing.T) {
	for _, algo := range []string{"none", "snappy", "zstd", "gzip"} {
		t.Run(algo, func(t *testing.T) {
			var buf bytes.Buffer
			w, err := NewWriter(&buf, &WriterConfig{Format: Parquet, Compression: algo})
			require.NoError(t, err)
			require.NoError(t, w.Write(testutil.Table(t, people)))
			require.NoError(t, w.Close())

			tbl, err := pqarrow.ReadTable(context.Background(), bytes.NewReader(buf.Bytes()),
				parquet.NewReaderProperties(memory.DefaultAllocator),
				pqarrow.ArrowReadProperties{}, memory.DefaultAllocator)
			require.NoError(t, err)
			defer tbl.Release()

			assert.EqualValues(t, 3, tbl.NumRows())
			assert.EqualValues(t, 5, tbl.NumCols())
			assert.Equal(t, "age", tbl.Schema().Field(0).Name)
			assert.Equal(t, "tags", tbl.Schema().Field(4).Name)
		})
	}
}

func TestAvroWriter(t *testing.T) {
	doc := `[{"first name": "ann", "1st": 1}, {"first name": "bob", "x": [1, 2]}]`

	var buf bytes.Buffer
	w, err := NewWriter(&buf, &WriterConfig{Format: Avro, Compression: "snappy", BatchSize: 1})
	require.NoError(t, err)
	require.NoError(t, w.Write(testutil.Table(t, doc)))
	require.NoError(t, w.Close())
	assert.EqualValues(t, 2, w.RowsWritten())

	r, err := goavro.NewOCFReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)

	var rows []map[string]interface{}
	for r.Scan() {
		datum, err := r.Read()
		require.NoError(t, err)
		rows = append(rows, datum.(map[string]interface{}))
	}
	require.NoError(t, r.Err())
	require.Len(t, rows, 2)

	assert.Equal(t, map[string]interface{}{"long": int64(1)}, rows[0]["_1st"])
	assert.Equal(t, map[string]interface{}{"string": "ann"}, rows[0]["first_name"])
	assert.Nil(t, rows[0]["x"])
	assert.Nil(t, rows[1]["_1st"])
	assert.Equal(t, map[string]interface{}{"string": "[1,2]"}, rows[1]["x"])
}

func TestAvroName(t *testing.T) {
	assert.Equal(t, "first_name", avroName("first name"))
	assert.Equal(t, "_1st", avroName("1st"))
	assert.Equal(t, "_", avroName(""))
	assert.Equal(t, "a_b", avroName("a.b"))

	fields := toAvroFields(testutil.Table(t, `[{"a b": 1, "a.b": 2}]`))
	require.Len(t, fields, 2)
	assert.NotEqual(t, fields[0].name, fields[1].name)
}

func TestAvroRejectsUnsupportedCompression(t *testing.T) {
	_, err := NewWriter(&bytes.Buffer{}, &WriterConfig{Format: Avro, Compression: "lz4"})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))
}

func TestJSONWriter(t *testing.T) {
	doc := `[{"a": 1, "b": "x"}, {"a": 2, "c": [1, 2]}]`

	var buf bytes.Buffer
	w, err := NewWriter(&buf, nil)
	require.NoError(t, err)
	require.NoError(t, w.Write(testutil.Table(t, doc)))
	require.NoError(t, w.Close())
	assert.Equal(t, `{"a":[1,2],"b":["x",null],"c":[null,[1,2]]}`+"\n", buf.String())

	buf.Reset()
	w, err = NewWriter(&buf, &WriterConfig{Format: JSON, Orientation: json.Rows, Compression: "zstd"})
	require.NoError(t, err)
	require.NoError(t, w.Write(testutil.Table(t, doc)))
	require.NoError(t, w.Close())

	out, err := compression.Decompress(buf.Bytes(), compression.Zstd)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"a":1,"b":"x"},{"a":2,"c":[1,2]}]`, string(out))
}

func TestWriterSchemaChange(t *testing.T) {
	for _, f := range []Format{Arrow, Parquet, Avro} {
		t.Run(string(f), func(t *testing.T) {
			w, err := NewWriter(&bytes.Buffer{}, &WriterConfig{Format: f})
			require.NoError(t, err)
			require.NoError(t, w.Write(testutil.Table(t, `[{"a": 1}]`)))
			require.NoError(t, w.Write(testutil.Table(t, `[{"a": 2}, {"a": 3}]`)))

			err = w.Write(testutil.Table(t, `[{"a": "x"}]`))
			assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))

			require.NoError(t, w.Close())
			assert.EqualValues(t, 3, w.RowsWritten())
			assert.Error(t, w.Write(testutil.Table(t, `[{"a": 1}]`)))
		})
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat(" Parquet ")
	require.NoError(t, err)
	assert.Equal(t, Parquet, f)
	assert.Equal(t, ".parquet", GetFormatInfo(f).FileExtension)

	_, err = ParseFormat("orc")
	assert.Error(t, err)

	_, err = NewWriter(&bytes.Buffer{}, &WriterConfig{Format: "orc"})
	assert.Error(t, err)
	_, err = NewWriter(&bytes.Buffer{}, &WriterConfig{Format: JSON, Compression: "brotli"})
	assert.Error(t, err)
}
