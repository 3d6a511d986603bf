package columnar

import (
	"io"
	"sync"

	table "github.com/halhen/jsonlite/pkg/columnar"
	"github.com/halhen/jsonlite/pkg/compression"
	"github.com/halhen/jsonlite/pkg/errors"
	"github.com/halhen/jsonlite/pkg/json"
)

// jsonWriter implements Writer for JSON. Each table becomes one
// newline-terminated document.
type jsonWriter struct {
	stream      io.WriteCloser
	options     json.Options
	rowsWritten int64
	closed      bool
	mu          sync.Mutex
}

func newJSONWriter(w io.Writer, config *WriterConfig, algo compression.Algorithm) (*jsonWriter, error) {
	stream, err := streamSink(w, algo)
	if err != nil {
		return nil, err
	}

	opts := json.DefaultOptions()
	if config.Orientation != "" {
		opts.Orientation = config.Orientation
	}
	if config.Pretty {
		opts.Indent = "  "
	}
	return &jsonWriter{stream: stream, options: opts}, nil
}

func (jw *jsonWriter) Write(t *table.Table) error {
	jw.mu.Lock()
	defer jw.mu.Unlock()

	if jw.closed {
		return errClosed(JSON)
	}
	if err := json.EncodeTable(jw.stream, t, jw.options); err != nil {
		return err
	}
	jw.rowsWritten += int64(t.NumRows())
	return nil
}

func (jw *jsonWriter) Close() error {
	jw.mu.Lock()
	defer jw.mu.Unlock()

	if jw.closed {
		return nil
	}
	jw.closed = true
	if err := jw.stream.Close(); err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to flush compressed stream")
	}
	return nil
}

func (jw *jsonWriter) Format() Format {
	return JSON
}

func (jw *jsonWriter) RowsWritten() int64 {
	jw.mu.Lock()
	defer jw.mu.Unlock()
	return jw.rowsWritten
}
