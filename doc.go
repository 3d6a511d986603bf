// Package jsonlite turns lists of JSON records into typed columnar tables.
//
// A list of records such as
//
//	[{"name": "ann", "age": 31}, {"name": "bob", "score": 2.5}]
//
// becomes one column per distinct field name, sorted by name, each holding
// the narrowest type that represents every value seen for that field:
//
//	age:   integer [31, NA]
//	name:  text    ["ann", "bob"]
//	score: real    [NA, 2.5]
//
// Types are ordered boolean < integer < real < text < complex. Missing
// fields, nulls and values that cannot be converted become NA. Cells that
// are themselves lists of records are simplified recursively. Input that is
// not a list of records is returned unchanged, so simplification is
// idempotent.
//
// # Packages
//
//   - pkg/models: dynamic values, typed vectors with NA masks, records
//   - pkg/schema: the column registry and type inference pass
//   - pkg/columnar: typed tables built from a registry
//   - pkg/simplify: the two-pass engine tying inference and materialization
//   - pkg/json: ordered JSON decoding and table encoding
//   - pkg/formats/columnar: Arrow, Parquet, Avro and JSON writers
//   - pkg/compression: stream compression for inputs and outputs
//   - pkg/config, pkg/logger, pkg/metrics, pkg/observability: configuration,
//     logging, Prometheus metrics and tracing
//
// # Quick Start
//
//	rows, err := json.Unmarshal(data)
//	if err != nil {
//		return err
//	}
//	table, ok := simplify.New().Table(rows)
//	if !ok {
//		// not a list of records
//	}
//
// The jsonlite command wraps the same engine:
//
//	jsonlite simplify events.json --format parquet -o events.parquet
package jsonlite
