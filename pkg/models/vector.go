package models

import (
	"github.com/RoaringBitmap/roaring/v2"
)

// vector is a fixed-length typed buffer with a missing-value mask.
// The mask is allocated lazily on the first NA.
type vector[T any] struct {
	values []T
	na     *roaring.Bitmap
}

func (v *vector[T]) Len() int { return len(v.values) }

// At returns the element at i and false when it is NA.
func (v *vector[T]) At(i int) (T, bool) {
	if v.IsNA(i) {
		var zero T
		return zero, false
	}
	return v.values[i], true
}

// Set stores x at i and clears its NA flag.
func (v *vector[T]) Set(i int, x T) {
	v.values[i] = x
	if v.na != nil {
		v.na.Remove(uint32(i))
	}
}

// SetNA marks i as missing.
func (v *vector[T]) SetNA(i int) {
	var zero T
	v.values[i] = zero
	if v.na == nil {
		v.na = roaring.New()
	}
	v.na.Add(uint32(i))
}

// IsNA reports whether i is missing.
func (v *vector[T]) IsNA(i int) bool {
	return v.na != nil && v.na.Contains(uint32(i))
}

// FillNA marks every element as missing.
func (v *vector[T]) FillNA() {
	if len(v.values) == 0 {
		return
	}
	if v.na == nil {
		v.na = roaring.New()
	}
	v.na.AddRange(0, uint64(len(v.values)))
	clear(v.values)
}

// NACount returns the number of missing elements.
func (v *vector[T]) NACount() int {
	if v.na == nil {
		return 0
	}
	return int(v.na.GetCardinality())
}

// Values returns the backing slice. Missing elements hold the zero value.
func (v *vector[T]) Values() []T { return v.values }

func (v *vector[T]) append(x T, missing bool) {
	v.values = append(v.values, x)
	if missing {
		v.SetNA(len(v.values) - 1)
	}
}

// Bools is a logical vector.
type Bools struct{ vector[bool] }

// Ints is an integer vector.
type Ints struct{ vector[int64] }

// Reals is a floating point vector.
type Reals struct{ vector[float64] }

// Texts is a string vector.
type Texts struct{ vector[string] }

func (*Bools) Kind() Kind { return KindBool }
func (*Ints) Kind() Kind  { return KindInt }
func (*Reals) Kind() Kind { return KindReal }
func (*Texts) Kind() Kind { return KindText }

// NewBools allocates a zero-filled logical vector of length n.
func NewBools(n int) *Bools { return &Bools{vector[bool]{values: make([]bool, n)}} }

// NewInts allocates a zero-filled integer vector of length n.
func NewInts(n int) *Ints { return &Ints{vector[int64]{values: make([]int64, n)}} }

// NewReals allocates a zero-filled real vector of length n.
func NewReals(n int) *Reals { return &Reals{vector[float64]{values: make([]float64, n)}} }

// NewTexts allocates a vector of n empty strings.
func NewTexts(n int) *Texts { return &Texts{vector[string]{values: make([]string, n)}} }

// BoolsOf builds a logical vector from xs.
func BoolsOf(xs ...bool) *Bools { return &Bools{vector[bool]{values: xs}} }

// IntsOf builds an integer vector from xs.
func IntsOf(xs ...int64) *Ints { return &Ints{vector[int64]{values: xs}} }

// RealsOf builds a real vector from xs.
func RealsOf(xs ...float64) *Reals { return &Reals{vector[float64]{values: xs}} }

// TextsOf builds a string vector from xs.
func TextsOf(xs ...string) *Texts { return &Texts{vector[string]{values: xs}} }

// Bool returns a length-one logical vector.
func Bool(x bool) *Bools { return BoolsOf(x) }

// Int returns a length-one integer vector.
func Int(x int64) *Ints { return IntsOf(x) }

// Real returns a length-one real vector.
func Real(x float64) *Reals { return RealsOf(x) }

// Text returns a length-one string vector.
func Text(x string) *Texts { return TextsOf(x) }

// NABool returns a length-one missing logical.
func NABool() *Bools {
	v := NewBools(1)
	v.SetNA(0)
	return v
}

// NAInt returns a length-one missing integer.
func NAInt() *Ints {
	v := NewInts(1)
	v.SetNA(0)
	return v
}

// NAReal returns a length-one missing real.
func NAReal() *Reals {
	v := NewReals(1)
	v.SetNA(0)
	return v
}

// NAText returns a length-one missing string.
func NAText() *Texts {
	v := NewTexts(1)
	v.SetNA(0)
	return v
}

// IsNA reports whether v is a typed vector whose first element is missing.
func IsNA(v Value) bool {
	m, ok := v.(interface{ IsNA(int) bool })
	return ok && v.Len() > 0 && m.IsNA(0)
}

// AppendValue appends x to b.
func (b *Bools) AppendValue(x bool) { b.append(x, false) }

// AppendNA appends a missing element.
func (b *Bools) AppendNA() { b.append(false, true) }

// AppendValue appends x to v.
func (v *Ints) AppendValue(x int64) { v.append(x, false) }

// AppendNA appends a missing element.
func (v *Ints) AppendNA() { v.append(0, true) }

// AppendValue appends x to v.
func (v *Reals) AppendValue(x float64) { v.append(x, false) }

// AppendNA appends a missing element.
func (v *Reals) AppendNA() { v.append(0, true) }

// AppendValue appends x to v.
func (v *Texts) AppendValue(x string) { v.append(x, false) }

// AppendNA appends a missing element.
func (v *Texts) AppendNA() { v.append("", true) }
