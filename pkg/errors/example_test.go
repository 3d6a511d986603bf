package errors_test

import (
	"fmt"
	"io"

	"github.com/halhen/jsonlite/pkg/errors"
)

// Example demonstrates basic error creation.
func Example() {
	err := errors.New(errors.ErrorTypeValidation, "unknown output format").
		WithDetail("format", "xml")

	fmt.Println(err.Error())

	// Output:
	// validation: unknown output format
}

// ExampleWrap shows how to wrap existing errors with context.
func ExampleWrap() {
	err := errors.Wrap(io.ErrUnexpectedEOF, errors.ErrorTypeData, "failed to decode JSON").
		WithDetail("file", "rows.json")

	if errors.IsType(err, errors.ErrorTypeData) {
		fmt.Println("This is a data error")
	}
	if errors.Is(err, io.ErrUnexpectedEOF) {
		fmt.Println("Cause was unexpected EOF")
	}
	fmt.Println(err)

	// Output:
	// This is a data error
	// Cause was unexpected EOF
	// data: failed to decode JSON: unexpected EOF
}

// ExampleNewf demonstrates formatted messages.
func ExampleNewf() {
	err := errors.Newf(errors.ErrorTypeConfig, "max_depth must not be negative, got %d", -1)
	fmt.Println(err)

	// Output:
	// config: max_depth must not be negative, got -1
}
