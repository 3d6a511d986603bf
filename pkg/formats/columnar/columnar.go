// Package columnar writes simplified tables in analytical file formats.
//
// Every writer accepts whole tables. The first table fixes the file schema;
// later tables must have the same columns and types.
//
//	w, err := columnar.NewWriter(out, &columnar.WriterConfig{Format: columnar.Parquet})
//	if err != nil {
//		return err
//	}
//	if err := w.Write(t); err != nil {
//		return err
//	}
//	return w.Close()
package columnar

import (
	"io"
	"strings"

	table "github.com/halhen/jsonlite/pkg/columnar"
	"github.com/halhen/jsonlite/pkg/compression"
	"github.com/halhen/jsonlite/pkg/errors"
	"github.com/halhen/jsonlite/pkg/json"
)

// Format represents an output format
type Format string

const (
	// JSON writes the table as a JSON document
	JSON Format = "json"
	// Arrow is the Apache Arrow IPC file format
	Arrow Format = "arrow"
	// Parquet is Apache Parquet format
	Parquet Format = "parquet"
	// Avro is an Apache Avro object container file
	Avro Format = "avro"
)

// ParseFormat validates a format name.
func ParseFormat(name string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(name)))
	if GetFormatInfo(f) == nil {
		return "", errors.New(errors.ErrorTypeValidation, "unsupported output format").
			WithDetail("format", name)
	}
	return f, nil
}

// Writer writes tables in one format
type Writer interface {
	// Write appends a table
	Write(t *table.Table) error
	// Close flushes buffered data and writes any footer
	Close() error
	// Format returns the output format
	Format() Format
	// RowsWritten returns the number of rows written
	RowsWritten() int64
}

// WriterConfig configures writers
type WriterConfig struct {
	Format Format
	// Compression names a compression algorithm. Parquet and Avro use their
	// own block codecs; Arrow uses IPC body compression for lz4 and zstd.
	// Everything else compresses the output stream.
	Compression string
	// Pretty indents JSON output
	Pretty bool
	// Orientation lays out JSON output by columns or by rows
	Orientation json.Orientation
	// BatchSize caps rows per Arrow record batch and Parquet row group
	BatchSize int
}

// DefaultWriterConfig returns default writer configuration
func DefaultWriterConfig() *WriterConfig {
	return &WriterConfig{
		Format:      JSON,
		Compression: string(compression.None),
		Orientation: json.Columns,
		BatchSize:   64 * 1024,
	}
}

// NewWriter creates a writer for config.Format on top of w. Closing the
// writer does not close w.
func NewWriter(w io.Writer, config *WriterConfig) (Writer, error) {
	if config == nil {
		config = DefaultWriterConfig()
	}
	algo, err := compression.Parse(config.Compression)
	if err != nil {
		return nil, err
	}

	switch config.Format {
	case JSON:
		return newJSONWriter(w, config, algo)
	case Arrow:
		return newArrowWriter(w, config, algo)
	case Parquet:
		return newParquetWriter(w, config, algo)
	case Avro:
		return newAvroWriter(w, config, algo)
	default:
		return nil, errors.New(errors.ErrorTypeValidation, "unsupported output format").
			WithDetail("format", string(config.Format))
	}
}

// FormatInfo provides information about output formats
type FormatInfo struct {
	Format        Format
	Name          string
	FileExtension string
	MIMEType      string
}

// GetFormatInfo returns information about a format, nil when unknown
func GetFormatInfo(format Format) *FormatInfo {
	switch format {
	case JSON:
		return &FormatInfo{
			Format:        JSON,
			Name:          "JSON",
			FileExtension: ".json",
			MIMEType:      "application/json",
		}
	case Arrow:
		return &FormatInfo{
			Format:        Arrow,
			Name:          "Apache Arrow",
			FileExtension: ".arrow",
			MIMEType:      "application/vnd.apache.arrow.file",
		}
	case Parquet:
		return &FormatInfo{
			Format:        Parquet,
			Name:          "Apache Parquet",
			FileExtension: ".parquet",
			MIMEType:      "application/x-parquet",
		}
	case Avro:
		return &FormatInfo{
			Format:        Avro,
			Name:          "Apache Avro",
			FileExtension: ".avro",
			MIMEType:      "application/avro",
		}
	default:
		return nil
	}
}

// writerOnly hides Close so that sinks which close io.Closers leave the
// caller's writer open.
type writerOnly struct{ io.Writer }

// streamSink wraps w in a compressor for algo.
func streamSink(w io.Writer, algo compression.Algorithm) (io.WriteCloser, error) {
	return compression.NewWriter(writerOnly{w}, &compression.Config{
		Algorithm: algo,
		Level:     compression.Default,
	})
}

func errClosed(f Format) error {
	return errors.New(errors.ErrorTypeValidation, "writer is closed").
		WithDetail("format", string(f))
}
