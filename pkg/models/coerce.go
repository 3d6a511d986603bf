package models

import (
	"math"
	"strconv"
	"strings"
)

// Coercion reads the first element of a value and converts it to the target
// primitive type. The boolean result is false when the value is missing,
// empty, non-primitive or cannot be represented; callers store NA then.

// AsBool converts v to a logical.
func AsBool(v Value) (bool, bool) {
	if IsNull(v) || v.Len() == 0 {
		return false, false
	}
	switch x := v.(type) {
	case *Bools:
		return x.At(0)
	case *Ints:
		n, ok := x.At(0)
		return n != 0, ok
	case *Reals:
		f, ok := x.At(0)
		if !ok || math.IsNaN(f) {
			return false, false
		}
		return f != 0, true
	case *Texts:
		s, ok := x.At(0)
		if !ok {
			return false, false
		}
		return parseBool(s)
	}
	return false, false
}

// AsInt converts v to an integer. Reals are truncated toward zero.
func AsInt(v Value) (int64, bool) {
	if IsNull(v) || v.Len() == 0 {
		return 0, false
	}
	switch x := v.(type) {
	case *Bools:
		b, ok := x.At(0)
		if b {
			return 1, ok
		}
		return 0, ok
	case *Ints:
		return x.At(0)
	case *Reals:
		f, ok := x.At(0)
		if !ok {
			return 0, false
		}
		return realToInt(f)
	case *Texts:
		s, ok := x.At(0)
		if !ok {
			return 0, false
		}
		s = strings.TrimSpace(s)
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return n, true
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return realToInt(f)
	}
	return 0, false
}

// AsReal converts v to a float.
func AsReal(v Value) (float64, bool) {
	if IsNull(v) || v.Len() == 0 {
		return 0, false
	}
	switch x := v.(type) {
	case *Bools:
		b, ok := x.At(0)
		if b {
			return 1, ok
		}
		return 0, ok
	case *Ints:
		n, ok := x.At(0)
		return float64(n), ok
	case *Reals:
		f, ok := x.At(0)
		if !ok || math.IsNaN(f) {
			return 0, false
		}
		return f, true
	case *Texts:
		s, ok := x.At(0)
		if !ok {
			return 0, false
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil || math.IsNaN(f) {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// AsText converts v to a string.
func AsText(v Value) (string, bool) {
	if IsNull(v) || v.Len() == 0 {
		return "", false
	}
	switch x := v.(type) {
	case *Bools:
		b, ok := x.At(0)
		if !ok {
			return "", false
		}
		return strconv.FormatBool(b), true
	case *Ints:
		n, ok := x.At(0)
		if !ok {
			return "", false
		}
		return strconv.FormatInt(n, 10), true
	case *Reals:
		f, ok := x.At(0)
		if !ok || math.IsNaN(f) {
			return "", false
		}
		return strconv.FormatFloat(f, 'g', -1, 64), true
	case *Texts:
		return x.At(0)
	}
	return "", false
}

func parseBool(s string) (bool, bool) {
	switch s {
	case "TRUE", "true", "True", "T":
		return true, true
	case "FALSE", "false", "False", "F":
		return false, true
	}
	return false, false
}

func realToInt(f float64) (int64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	t := math.Trunc(f)
	if t < math.MinInt64 || t >= math.MaxInt64 {
		return 0, false
	}
	return int64(t), true
}
