package columnar

import (
	"io"
	"sync"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/compress"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"

	table "github.com/halhen/jsonlite/pkg/columnar"
	"github.com/halhen/jsonlite/pkg/compression"
	"github.com/halhen/jsonlite/pkg/errors"
)

// parquetWriter implements Writer for Parquet format
type parquetWriter struct {
	writer      io.Writer
	config      *WriterConfig
	codec       compress.Compression
	arrowSchema *arrow.Schema
	fileWriter  *pqarrow.FileWriter
	pool        memory.Allocator
	rowsWritten int64
	closed      bool
	mu          sync.Mutex
}

func newParquetWriter(w io.Writer, config *WriterConfig, algo compression.Algorithm) (*parquetWriter, error) {
	return &parquetWriter{
		writer: writerOnly{w},
		config: config,
		codec:  getParquetCompression(algo),
		pool:   memory.NewGoAllocator(),
	}, nil
}

func (pw *parquetWriter) open(schema *arrow.Schema) error {
	opts := []parquet.WriterProperty{
		parquet.WithCompression(pw.codec),
		parquet.WithCreatedBy("jsonlite"),
	}
	if pw.config.BatchSize > 0 {
		opts = append(opts, parquet.WithMaxRowGroupLength(int64(pw.config.BatchSize)))
	}

	arrowProps := pqarrow.NewArrowWriterProperties(
		pqarrow.WithAllocator(pw.pool),
		pqarrow.WithStoreSchema(),
	)

	fw, err := pqarrow.NewFileWriter(schema, pw.writer, parquet.NewWriterProperties(opts...), arrowProps)
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to create Parquet writer")
	}
	pw.arrowSchema = schema
	pw.fileWriter = fw
	return nil
}

func (pw *parquetWriter) Write(t *table.Table) error {
	pw.mu.Lock()
	defer pw.mu.Unlock()

	if pw.closed {
		return errClosed(Parquet)
	}

	record, err := ToArrowRecord(pw.pool, t)
	if err != nil {
		return err
	}
	defer record.Release()

	if pw.fileWriter == nil {
		if err := pw.open(record.Schema()); err != nil {
			return err
		}
	} else if !sameColumns(pw.arrowSchema, record.Schema()) {
		return errSchemaChanged(Parquet)
	}

	if record.NumRows() == 0 {
		return nil
	}
	if err := pw.fileWriter.Write(record); err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to write row group")
	}
	pw.rowsWritten += record.NumRows()
	return nil
}

func (pw *parquetWriter) Close() error {
	pw.mu.Lock()
	defer pw.mu.Unlock()

	if pw.closed {
		return nil
	}
	pw.closed = true

	if pw.fileWriter == nil {
		if err := pw.open(arrow.NewSchema(nil, nil)); err != nil {
			return err
		}
	}
	if err := pw.fileWriter.Close(); err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to close Parquet writer")
	}
	return nil
}

func (pw *parquetWriter) Format() Format {
	return Parquet
}

func (pw *parquetWriter) RowsWritten() int64 {
	pw.mu.Lock()
	defer pw.mu.Unlock()
	return pw.rowsWritten
}

func getParquetCompression(algo compression.Algorithm) compress.Compression {
	switch algo {
	case compression.Gzip:
		return compress.Codecs.Gzip
	case compression.Snappy, compression.S2:
		return compress.Codecs.Snappy
	case compression.LZ4:
		return compress.Codecs.Lz4Raw
	case compression.Zstd:
		return compress.Codecs.Zstd
	default:
		return compress.Codecs.Uncompressed
	}
}
