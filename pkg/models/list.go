package models

// Field is one (name, value) pair of a record.
type Field struct {
	Name  string
	Value Value
}

// F is shorthand for Field{name, value}.
func F(name string, value Value) Field {
	return Field{Name: name, Value: value}
}

// List is an ordered sequence of values with optional names. A named list is
// a record; an unnamed list of records is a collection of rows.
//
// Names are either nil or exactly as long as the elements, except for lists
// built by a host that violates that rule. Such lists are never simplified.
type List struct {
	elems []Value
	names []string
}

// NewList builds an unnamed list.
func NewList(elems ...Value) *List {
	return &List{elems: elems}
}

// NewRecord builds a named list from fields in order. Duplicate names are kept.
func NewRecord(fields ...Field) *List {
	l := &List{
		elems: make([]Value, len(fields)),
		names: make([]string, len(fields)),
	}
	for i, f := range fields {
		l.elems[i] = f.Value
		l.names[i] = f.Name
	}
	return l
}

// NewNamedList builds a list from parallel slices without checking their
// lengths.
func NewNamedList(names []string, elems []Value) *List {
	return &List{elems: elems, names: names}
}

// Kind is always KindComplex.
func (*List) Kind() Kind { return KindComplex }

// Len returns the number of elements.
func (l *List) Len() int { return len(l.elems) }

// Elem returns element i.
func (l *List) Elem(i int) Value { return l.elems[i] }

// Elems returns the elements.
func (l *List) Elems() []Value { return l.elems }

// Names returns the element names, nil for an unnamed list.
func (l *List) Names() []string { return l.names }

// HasNames reports whether the list carries any names.
func (l *List) HasNames() bool { return len(l.names) > 0 }

// IsRecord reports whether the list was built with names, even an empty set.
func (l *List) IsRecord() bool { return l.names != nil }

// Name returns the name of element i, or "" when unnamed.
func (l *List) Name(i int) string {
	if i < len(l.names) {
		return l.names[i]
	}
	return ""
}

// Get returns the value stored under name. When a name occurs more than once
// the last occurrence wins.
func (l *List) Get(name string) (Value, bool) {
	for i := len(l.names) - 1; i >= 0; i-- {
		if l.names[i] == name && i < len(l.elems) {
			return l.elems[i], true
		}
	}
	return nil, false
}

// Append adds an unnamed element.
func (l *List) Append(v Value) {
	l.elems = append(l.elems, v)
	if l.names != nil {
		l.names = append(l.names, "")
	}
}

// AppendField adds a named element.
func (l *List) AppendField(name string, v Value) {
	if l.names == nil && len(l.elems) > 0 {
		l.names = make([]string, len(l.elems))
	}
	l.elems = append(l.elems, v)
	l.names = append(l.names, name)
}

// Set replaces element i.
func (l *List) Set(i int, v Value) { l.elems[i] = v }

// Fields returns the (name, value) pairs of a named list.
func (l *List) Fields() []Field {
	out := make([]Field, 0, len(l.elems))
	for i, v := range l.elems {
		out = append(out, Field{Name: l.Name(i), Value: v})
	}
	return out
}
