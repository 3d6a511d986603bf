// Package json converts between JSON documents and jsonlite values using
// goccy/go-json. Object key order is preserved, so records keep the field
// order of the source document.
package json

import (
	"bytes"
	"io"
	"strconv"
	"strings"

	gojson "github.com/goccy/go-json"

	"github.com/halhen/jsonlite/pkg/errors"
	"github.com/halhen/jsonlite/pkg/models"
	"github.com/halhen/jsonlite/pkg/pool"
)

const (
	// maxInternedKeys bounds the distinct object keys shared per document.
	maxInternedKeys = 1 << 16
	// MaxNesting is the deepest array/object nesting Decode accepts.
	MaxNesting = 10000
)

type decoder struct {
	dec   *gojson.Decoder
	keys  *pool.StringInternPool
	depth int
}

// Decode reads exactly one JSON document from r.
//
// Objects become named lists (duplicate keys are kept in order), arrays
// become unnamed lists, integral numbers that fit in 64 bits become Int and
// all other numbers Real, strings Text, booleans Bool and null Null.
func Decode(r io.Reader) (models.Value, error) {
	d := &decoder{
		dec:  gojson.NewDecoder(r),
		keys: pool.NewStringInternPool(maxInternedKeys),
	}
	d.dec.UseNumber()

	v, err := d.value()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeData, "failed to decode JSON")
	}
	if _, err := d.dec.Token(); err != io.EOF {
		return nil, errors.New(errors.ErrorTypeData, "unexpected data after JSON document")
	}
	return v, nil
}

// Unmarshal decodes one JSON document held in data.
func Unmarshal(data []byte) (models.Value, error) {
	return Decode(bytes.NewReader(data))
}

func (d *decoder) value() (models.Value, error) {
	tok, err := d.dec.Token()
	if err != nil {
		if err == io.EOF {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}

	switch t := tok.(type) {
	case gojson.Delim:
		switch t {
		case '{', '[':
			if d.depth >= MaxNesting {
				return nil, errors.New(errors.ErrorTypeData, "JSON nesting too deep").
					WithDetail("max_nesting", MaxNesting)
			}
			d.depth++
			defer func() { d.depth-- }()
			if t == '{' {
				return d.object()
			}
			return d.array()
		}
		return nil, errors.Newf(errors.ErrorTypeData, "unexpected delimiter %q", rune(t))
	case string:
		return models.Text(t), nil
	case bool:
		return models.Bool(t), nil
	case gojson.Number:
		return decodeNumber(string(t))
	case float64:
		return models.Real(t), nil
	case nil:
		return models.Null, nil
	}
	return nil, errors.Newf(errors.ErrorTypeData, "unexpected token %v", tok)
}

func (d *decoder) object() (models.Value, error) {
	obj := models.NewRecord()
	for d.dec.More() {
		tok, err := d.dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, errors.Newf(errors.ErrorTypeData, "object key must be a string, got %v", tok)
		}
		v, err := d.value()
		if err != nil {
			return nil, err
		}
		obj.AppendField(d.keys.Intern(key), v)
	}
	// closing brace
	if _, err := d.dec.Token(); err != nil {
		return nil, err
	}
	return obj, nil
}

func (d *decoder) array() (models.Value, error) {
	arr := models.NewList()
	for d.dec.More() {
		v, err := d.value()
		if err != nil {
			return nil, err
		}
		arr.Append(v)
	}
	// closing bracket
	if _, err := d.dec.Token(); err != nil {
		return nil, err
	}
	return arr, nil
}

func decodeNumber(s string) (models.Value, error) {
	if !strings.ContainsAny(s, ".eE") {
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return models.Int(n), nil
		}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return nil, errors.Wrap(err, errors.ErrorTypeData, "invalid number").WithDetail("number", s)
	}
	return models.Real(f), nil
}
