package columnar

import (
	"io"
	"sync"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"

	table "github.com/halhen/jsonlite/pkg/columnar"
	"github.com/halhen/jsonlite/pkg/compression"
	"github.com/halhen/jsonlite/pkg/errors"
)

// arrowWriter implements Writer for the Arrow IPC file format
type arrowWriter struct {
	sink        io.Writer
	stream      io.WriteCloser
	config      *WriterConfig
	options     []ipc.Option
	arrowSchema *arrow.Schema
	fileWriter  *ipc.FileWriter
	pool        memory.Allocator
	rowsWritten int64
	closed      bool
	mu          sync.Mutex
}

func newArrowWriter(w io.Writer, config *WriterConfig, algo compression.Algorithm) (*arrowWriter, error) {
	pool := memory.NewGoAllocator()
	aw := &arrowWriter{
		config:  config,
		pool:    pool,
		options: []ipc.Option{ipc.WithAllocator(pool)},
	}

	switch algo {
	case compression.LZ4:
		aw.options = append(aw.options, ipc.WithLZ4())
		aw.sink = writerOnly{w}
	case compression.Zstd:
		aw.options = append(aw.options, ipc.WithZstd())
		aw.sink = writerOnly{w}
	default:
		stream, err := streamSink(w, algo)
		if err != nil {
			return nil, err
		}
		aw.stream = stream
		aw.sink = writerOnly{stream}
	}
	return aw, nil
}

func (aw *arrowWriter) open(schema *arrow.Schema) error {
	opts := append([]ipc.Option{ipc.WithSchema(schema)}, aw.options...)
	fw, err := ipc.NewFileWriter(aw.sink, opts...)
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to create Arrow writer")
	}
	aw.arrowSchema = schema
	aw.fileWriter = fw
	return nil
}

func (aw *arrowWriter) Write(t *table.Table) error {
	aw.mu.Lock()
	defer aw.mu.Unlock()

	if aw.closed {
		return errClosed(Arrow)
	}

	record, err := ToArrowRecord(aw.pool, t)
	if err != nil {
		return err
	}
	defer record.Release()

	if aw.fileWriter == nil {
		if err := aw.open(record.Schema()); err != nil {
			return err
		}
	} else if !sameColumns(aw.arrowSchema, record.Schema()) {
		return errSchemaChanged(Arrow)
	}

	return writeBatches(record, aw.config.BatchSize, func(batch arrow.Record) error {
		if err := aw.fileWriter.Write(batch); err != nil {
			return errors.Wrap(err, errors.ErrorTypeFile, "failed to write record batch")
		}
		aw.rowsWritten += batch.NumRows()
		return nil
	})
}

func (aw *arrowWriter) Close() error {
	aw.mu.Lock()
	defer aw.mu.Unlock()

	if aw.closed {
		return nil
	}
	aw.closed = true

	if aw.fileWriter == nil {
		if err := aw.open(arrow.NewSchema(nil, nil)); err != nil {
			return err
		}
	}
	if err := aw.fileWriter.Close(); err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to close Arrow writer")
	}
	if aw.stream != nil {
		if err := aw.stream.Close(); err != nil {
			return errors.Wrap(err, errors.ErrorTypeFile, "failed to flush compressed stream")
		}
	}
	return nil
}

func (aw *arrowWriter) Format() Format {
	return Arrow
}

func (aw *arrowWriter) RowsWritten() int64 {
	aw.mu.Lock()
	defer aw.mu.Unlock()
	return aw.rowsWritten
}

// writeBatches hands record to fn in slices of at most size rows.
func writeBatches(record arrow.Record, size int, fn func(arrow.Record) error) error {
	n := record.NumRows()
	if size <= 0 || n <= int64(size) {
		if n == 0 {
			return nil
		}
		return fn(record)
	}
	for off := int64(0); off < n; off += int64(size) {
		end := min(off+int64(size), n)
		batch := record.NewSlice(off, end)
		err := fn(batch)
		batch.Release()
		if err != nil {
			return err
		}
	}
	return nil
}

// sameColumns compares column names and types, ignoring metadata.
func sameColumns(a, b *arrow.Schema) bool {
	if a.NumFields() != b.NumFields() {
		return false
	}
	for i := 0; i < a.NumFields(); i++ {
		fa, fb := a.Field(i), b.Field(i)
		if fa.Name != fb.Name || !arrow.TypeEqual(fa.Type, fb.Type) {
			return false
		}
	}
	return true
}

func errSchemaChanged(f Format) error {
	return errors.New(errors.ErrorTypeValidation, "table schema differs from the file schema").
		WithDetail("format", string(f))
}
