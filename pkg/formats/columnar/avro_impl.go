package columnar

import (
	"io"
	"strconv"
	"strings"
	"sync"

	gojson "github.com/goccy/go-json"
	"github.com/linkedin/goavro/v2"

	table "github.com/halhen/jsonlite/pkg/columnar"
	"github.com/halhen/jsonlite/pkg/compression"
	"github.com/halhen/jsonlite/pkg/errors"
	"github.com/halhen/jsonlite/pkg/models"
)

// avroField maps a table column onto an Avro record field.
type avroField struct {
	column   string
	name     string
	avroType string
}

// avroWriter implements Writer for Avro object container files
type avroWriter struct {
	writer      io.Writer
	config      *WriterConfig
	codecName   string
	fields      []avroField
	codec       *goavro.Codec
	ocfWriter   *goavro.OCFWriter
	rowsWritten int64
	closed      bool
	mu          sync.Mutex
}

func newAvroWriter(w io.Writer, config *WriterConfig, algo compression.Algorithm) (*avroWriter, error) {
	codecName, err := getAvroCompression(algo)
	if err != nil {
		return nil, err
	}
	return &avroWriter{
		writer:    w,
		config:    config,
		codecName: codecName,
	}, nil
}

func (aw *avroWriter) open(fields []avroField) error {
	codec, err := goavro.NewCodec(toAvroSchema(fields))
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeInternal, "failed to create Avro codec")
	}

	ocfWriter, err := goavro.NewOCFWriter(goavro.OCFConfig{
		W:               aw.writer,
		Codec:           codec,
		CompressionName: aw.codecName,
	})
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to create Avro writer")
	}

	aw.fields = fields
	aw.codec = codec
	aw.ocfWriter = ocfWriter
	return nil
}

func (aw *avroWriter) Write(t *table.Table) error {
	aw.mu.Lock()
	defer aw.mu.Unlock()

	if aw.closed {
		return errClosed(Avro)
	}

	fields := toAvroFields(t)
	if aw.ocfWriter == nil {
		if err := aw.open(fields); err != nil {
			return err
		}
	} else if !sameAvroFields(aw.fields, fields) {
		return errSchemaChanged(Avro)
	}

	batchSize := aw.config.BatchSize
	if batchSize <= 0 {
		batchSize = t.NumRows()
	}
	batch := make([]interface{}, 0, min(batchSize, t.NumRows()))
	for r := 0; r < t.NumRows(); r++ {
		native, err := aw.rowToAvroNative(t, r)
		if err != nil {
			return err
		}
		batch = append(batch, native)
		if len(batch) == batchSize {
			if err := aw.flushBatch(batch); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}
	return aw.flushBatch(batch)
}

func (aw *avroWriter) flushBatch(batch []interface{}) error {
	if len(batch) == 0 {
		return nil
	}
	if err := aw.ocfWriter.Append(batch); err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to write Avro block")
	}
	aw.rowsWritten += int64(len(batch))
	return nil
}

func (aw *avroWriter) Close() error {
	aw.mu.Lock()
	defer aw.mu.Unlock()

	if aw.closed {
		return nil
	}
	aw.closed = true

	// An OCF header is written on creation, so an unused writer still
	// produces a valid empty file.
	if aw.ocfWriter == nil {
		return aw.open(nil)
	}
	return nil
}

func (aw *avroWriter) Format() Format {
	return Avro
}

func (aw *avroWriter) RowsWritten() int64 {
	aw.mu.Lock()
	defer aw.mu.Unlock()
	return aw.rowsWritten
}

func (aw *avroWriter) rowToAvroNative(t *table.Table, r int) (map[string]interface{}, error) {
	native := make(map[string]interface{}, len(aw.fields))
	for i, col := range t.Columns() {
		f := aw.fields[i]
		if col.IsNA(r) {
			native[f.name] = nil
			continue
		}
		var datum interface{}
		switch data := col.Data.(type) {
		case *models.Bools:
			datum = data.Values()[r]
		case *models.Ints:
			datum = data.Values()[r]
		case *models.Reals:
			datum = data.Values()[r]
		case *models.Texts:
			datum = data.Values()[r]
		case *models.List:
			text, _, err := complexCell(col, r)
			if err != nil {
				return nil, errors.Wrap(err, errors.ErrorTypeData, "failed to convert column").
					WithDetail("column", col.Name())
			}
			datum = text
		}
		native[f.name] = goavro.Union(f.avroType, datum)
	}
	return native, nil
}

func toAvroFields(t *table.Table) []avroField {
	fields := make([]avroField, 0, t.NumCols())
	used := make(map[string]bool, t.NumCols())
	for _, col := range t.Columns() {
		name := avroName(col.Name())
		for base, n := name, 1; used[name]; n++ {
			name = base + "_" + strconv.Itoa(n)
		}
		used[name] = true
		fields = append(fields, avroField{
			column:   col.Name(),
			name:     name,
			avroType: toAvroType(col.Type()),
		})
	}
	return fields
}

func sameAvroFields(a, b []avroField) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// avroName rewrites a column name into [A-Za-z_][A-Za-z0-9_]*.
func avroName(name string) string {
	var b strings.Builder
	for i, r := range name {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
			b.WriteRune(r)
		case r >= '0' && r <= '9':
			if i == 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	if b.Len() == 0 {
		return "_"
	}
	return b.String()
}

func toAvroType(kind models.Kind) string {
	switch kind {
	case models.KindBool, models.KindNull:
		return "boolean"
	case models.KindInt:
		return "long"
	case models.KindReal:
		return "double"
	default:
		return "string"
	}
}

// toAvroSchema builds a record schema with every field nullable. The
// original column name is kept in the field doc.
func toAvroSchema(fields []avroField) string {
	avroFields := make([]map[string]interface{}, 0, len(fields))
	for _, f := range fields {
		avroFields = append(avroFields, map[string]interface{}{
			"name":    f.name,
			"type":    []interface{}{"null", f.avroType},
			"default": nil,
			"doc":     f.column,
		})
	}

	schemaMap := map[string]interface{}{
		"type":      "record",
		"name":      "Row",
		"namespace": "jsonlite",
		"fields":    avroFields,
	}

	schemaBytes, _ := gojson.Marshal(schemaMap)
	return string(schemaBytes)
}

func getAvroCompression(algo compression.Algorithm) (string, error) {
	switch algo {
	case compression.None:
		return goavro.CompressionNullLabel, nil
	case compression.Gzip:
		return goavro.CompressionDeflateLabel, nil
	case compression.Snappy:
		return goavro.CompressionSnappyLabel, nil
	default:
		return "", errors.New(errors.ErrorTypeValidation, "compression not supported by Avro").
			WithDetail("algorithm", string(algo))
	}
}
