package json

import (
	"bytes"
	"io"
	"math"
	"strconv"

	gojson "github.com/goccy/go-json"

	"github.com/halhen/jsonlite/pkg/columnar"
	"github.com/halhen/jsonlite/pkg/errors"
	"github.com/halhen/jsonlite/pkg/models"
	"github.com/halhen/jsonlite/pkg/pool"
)

// Orientation selects how a table is laid out in JSON.
type Orientation string

const (
	// Columns writes {"name": [cell, ...], ...}.
	Columns Orientation = "columns"
	// Rows writes [{"name": cell, ...}, ...] and omits missing cells.
	Rows Orientation = "rows"
)

// Options controls encoding.
type Options struct {
	// AutoUnbox writes length-one vectors as bare scalars.
	AutoUnbox bool
	// Indent pretty-prints with this indent string when non-empty.
	Indent string
	// Orientation applies to EncodeTable.
	Orientation Orientation
}

// DefaultOptions unboxes scalars and writes tables by column.
func DefaultOptions() Options {
	return Options{AutoUnbox: true, Orientation: Columns}
}

// Marshal encodes v without a trailing newline.
func Marshal(v models.Value, opts Options) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, v, opts); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// Encode writes v to w followed by a newline. Named lists become objects,
// unnamed lists arrays and vectors arrays. Missing and non-finite values are
// written as null.
func Encode(w io.Writer, v models.Value, opts Options) error {
	e := newEncoder(opts)
	defer e.release()
	if err := e.value(v, opts.AutoUnbox); err != nil {
		return err
	}
	return e.flush(w)
}

// EncodeTable writes t in the orientation from opts. Complex cells are
// encoded with scalar unboxing.
func EncodeTable(w io.Writer, t *columnar.Table, opts Options) error {
	e := newEncoder(opts)
	defer e.release()
	var err error
	switch opts.Orientation {
	case Rows:
		err = e.value(t.Rows(), true)
	case Columns, "":
		err = e.columns(t)
	default:
		return errors.New(errors.ErrorTypeValidation, "unknown JSON orientation").
			WithDetail("orientation", string(opts.Orientation))
	}
	if err != nil {
		return err
	}
	return e.flush(w)
}

type encoder struct {
	buf  *bytes.Buffer
	opts Options
}

func newEncoder(opts Options) *encoder {
	return &encoder{buf: pool.GetBuffer(), opts: opts}
}

func (e *encoder) release() {
	pool.PutBuffer(e.buf)
	e.buf = nil
}

func (e *encoder) flush(w io.Writer) error {
	out := e.buf.Bytes()
	if e.opts.Indent != "" {
		pretty := pool.GetBuffer()
		defer pool.PutBuffer(pretty)
		if err := gojson.Indent(pretty, out, "", e.opts.Indent); err != nil {
			return errors.Wrap(err, errors.ErrorTypeInternal, "failed to indent JSON")
		}
		out = pretty.Bytes()
	}
	if _, err := w.Write(out); err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to write JSON")
	}
	if _, err := io.WriteString(w, "\n"); err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to write JSON")
	}
	return nil
}

func (e *encoder) columns(t *columnar.Table) error {
	if t.NumCols() == 0 {
		e.buf.WriteString("[]")
		return nil
	}
	e.buf.WriteByte('{')
	for i, c := range t.Columns() {
		if i > 0 {
			e.buf.WriteByte(',')
		}
		if err := e.str(c.Name()); err != nil {
			return err
		}
		e.buf.WriteByte(':')
		var err error
		if cells, ok := c.Data.(*models.List); ok {
			err = e.list(cells, true)
		} else {
			err = e.value(c.Data, false)
		}
		if err != nil {
			return err
		}
	}
	e.buf.WriteByte('}')
	return nil
}

func (e *encoder) value(v models.Value, unbox bool) error {
	if models.IsNull(v) {
		e.buf.WriteString("null")
		return nil
	}
	switch x := v.(type) {
	case *models.List:
		return e.list(x, unbox)
	case *models.Bools:
		return vector(e, x.Len(), unbox, x.IsNA, func(i int) error {
			e.buf.WriteString(strconv.FormatBool(x.Values()[i]))
			return nil
		})
	case *models.Ints:
		return vector(e, x.Len(), unbox, x.IsNA, func(i int) error {
			e.buf.WriteString(strconv.FormatInt(x.Values()[i], 10))
			return nil
		})
	case *models.Reals:
		return vector(e, x.Len(), unbox, x.IsNA, func(i int) error {
			e.real(x.Values()[i])
			return nil
		})
	case *models.Texts:
		return vector(e, x.Len(), unbox, x.IsNA, func(i int) error {
			return e.str(x.Values()[i])
		})
	}
	return errors.Newf(errors.ErrorTypeValidation, "cannot encode value of kind %s", v.Kind())
}

func vector(e *encoder, n int, unbox bool, isNA func(int) bool, elem func(int) error) error {
	if unbox && n == 1 {
		if isNA(0) {
			e.buf.WriteString("null")
			return nil
		}
		return elem(0)
	}
	e.buf.WriteByte('[')
	for i := 0; i < n; i++ {
		if i > 0 {
			e.buf.WriteByte(',')
		}
		if isNA(i) {
			e.buf.WriteString("null")
			continue
		}
		if err := elem(i); err != nil {
			return err
		}
	}
	e.buf.WriteByte(']')
	return nil
}

func (e *encoder) list(l *models.List, unbox bool) error {
	named := l.IsRecord()
	if named {
		e.buf.WriteByte('{')
	} else {
		e.buf.WriteByte('[')
	}
	for i, v := range l.Elems() {
		if i > 0 {
			e.buf.WriteByte(',')
		}
		if named {
			if err := e.str(l.Name(i)); err != nil {
				return err
			}
			e.buf.WriteByte(':')
		}
		if err := e.value(v, unbox); err != nil {
			return err
		}
	}
	if named {
		e.buf.WriteByte('}')
	} else {
		e.buf.WriteByte(']')
	}
	return nil
}

func (e *encoder) real(f float64) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		e.buf.WriteString("null")
		return
	}
	e.buf.WriteString(strconv.FormatFloat(f, 'g', -1, 64))
}

func (e *encoder) str(s string) error {
	b, err := gojson.Marshal(s)
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeInternal, "failed to encode string")
	}
	e.buf.Write(b)
	return nil
}
