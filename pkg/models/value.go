// Package models defines the dynamic values that jsonlite simplifies: typed
// vectors with missing-value masks, ordered lists (records and row
// collections) and the null value.
//
// A Value has a Kind and a length. Scalars are vectors of length one, records
// are named lists and a collection of rows is an unnamed list of records.
package models

// Kind is the element class of a Value. Kinds are ordered so that the
// maximum of two kinds is their least common supertype:
//
//	null < bool < int < real < text < complex
type Kind int

const (
	// KindNull is the class of the null value. It carries no information
	// and never promotes a column.
	KindNull Kind = iota
	// KindBool is a logical value.
	KindBool
	// KindInt is a 64-bit integer.
	KindInt
	// KindReal is a 64-bit float.
	KindReal
	// KindText is a string.
	KindText
	// KindComplex is anything else: lists, records and multi-element vectors.
	KindComplex
)

// String returns the lowercase type name.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "boolean"
	case KindInt:
		return "integer"
	case KindReal:
		return "real"
	case KindText:
		return "text"
	case KindComplex:
		return "complex"
	default:
		return "unknown"
	}
}

// Primitive reports whether k is one of bool, int, real or text.
func (k Kind) Primitive() bool {
	return k >= KindBool && k <= KindText
}

// MaxKind returns the least upper bound of a and b.
func MaxKind(a, b Kind) Kind {
	if a > b {
		return a
	}
	return b
}

// Value is a dynamically typed unit of data.
type Value interface {
	// Kind returns the element class.
	Kind() Kind
	// Len returns the number of constituent elements.
	Len() int
}

type null struct{}

func (null) Kind() Kind     { return KindNull }
func (null) Len() int       { return 0 }
func (null) String() string { return "null" }

// Null is the absent value.
var Null Value = null{}

// IsNull reports whether v is nil or Null.
func IsNull(v Value) bool {
	if v == nil {
		return true
	}
	_, ok := v.(null)
	return ok
}

// Classify maps a value to the element class used for type inference.
// Values with two or more elements are complex regardless of their kind.
func Classify(v Value) Kind {
	if IsNull(v) {
		return KindNull
	}
	if v.Len() >= 2 {
		return KindComplex
	}
	k := v.Kind()
	if k == KindNull || k.Primitive() {
		return k
	}
	return KindComplex
}
