// Package columnar holds the typed output of a simplification: a Table of
// columns, each backed by one fixed-type buffer as long as the input has
// rows.
//
// # Buffers
//
// Every column is allocated up front and pre-filled with the missing marker
// of its type:
//
//	boolean  *models.Bools  all NA
//	integer  *models.Ints   all NA
//	real     *models.Reals  all NA
//	text     *models.Texts  all NA
//	complex  *models.List   Null in every cell
//
// Cells that no row supplies keep that marker.
//
// # Usage
//
//	reg, ok := schema.Infer(rows)
//	if !ok {
//		return rows
//	}
//	table := columnar.NewTable(reg, models.RowCount(rows))
//	col := table.Column("price")
//	if col != nil && !col.IsNA(0) {
//		fmt.Println(col.Cell(0))
//	}
//
// # Views
//
// Table.Row reconstructs a single record and Table.AsValue returns the
// column-oriented named list handed back to callers of simplify.Simplify.
// FromValue is its inverse.
package columnar
