// Package mmap provides read-only memory-mapped access to input files.
package mmap

import (
	"bytes"
	"os"
	"sync"

	"github.com/halhen/jsonlite/pkg/errors"
)

// Reader exposes the contents of a file as a byte slice. On platforms
// without mmap support the file is read into memory instead.
type Reader struct {
	file   *os.File
	data   []byte
	mapped bool
	mu     sync.Mutex
}

// Open maps the file at path. Empty files are not mapped.
func Open(path string) (*Reader, error) {
	file, err := os.Open(path) //nolint:gosec // G304: path is chosen by the caller
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to open file").
			WithDetail("path", path)
	}

	stat, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to stat file").
			WithDetail("path", path)
	}

	r := &Reader{file: file}
	if stat.Size() == 0 {
		return r, nil
	}

	data, mapped, err := mapFile(file, stat.Size())
	if err != nil {
		_ = file.Close()
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to map file").
			WithDetail("path", path)
	}
	r.data = data
	r.mapped = mapped
	return r, nil
}

// Bytes returns the file contents. The slice is invalid after Close.
func (r *Reader) Bytes() []byte {
	return r.data
}

// Size returns the file size in bytes.
func (r *Reader) Size() int64 {
	return int64(len(r.data))
}

// NewReader returns an io.Reader over the file contents.
func (r *Reader) NewReader() *bytes.Reader {
	return bytes.NewReader(r.data)
}

// Close unmaps the data and closes the file. It is safe to call twice.
func (r *Reader) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.file == nil {
		return nil
	}
	var err error
	if r.mapped {
		err = unmapFile(r.data)
	}
	r.data = nil
	r.mapped = false
	if cerr := r.file.Close(); err == nil {
		err = cerr
	}
	r.file = nil
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to close mapped file")
	}
	return nil
}
