package models

// The functions below are the capability surface the simplifier consumes.
// They accept any Value so callers do not need to type-switch first.

// RowCount returns the number of rows in a collection.
func RowCount(collection Value) int {
	if IsNull(collection) {
		return 0
	}
	return collection.Len()
}

// Row returns row i of a collection, or Null when the collection is not a list.
func Row(collection Value, i int) Value {
	if l, ok := collection.(*List); ok {
		return l.Elem(i)
	}
	return Null
}

// Names returns the names carried by a row or collection, possibly empty.
func Names(v Value) []string {
	if l, ok := v.(*List); ok {
		return l.Names()
	}
	return nil
}

// Elem returns element i of a row.
func Elem(row Value, i int) Value {
	if l, ok := row.(*List); ok {
		return l.Elem(i)
	}
	return Null
}
