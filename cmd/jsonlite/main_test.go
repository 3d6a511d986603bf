package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/halhen/jsonlite/pkg/compression"
	"github.com/halhen/jsonlite/pkg/errors"
)

const records = `[{"a": 1, "b": "x"}, {"a": 2.5, "c": [1, 2]}]`

func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := newRootCmd()
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func TestSimplifyStdin(t *testing.T) {
	out, _, err := run(t, records, "simplify")
	require.NoError(t, err)
	assert.Equal(t, `{"a":[1,2.5],"b":["x",null],"c":[null,[1,2]]}`+"\n", out)
}

func TestSimplifyRows(t *testing.T) {
	out, _, err := run(t, records, "simplify", "--orient", "rows", "--pretty")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"a":1,"b":"x"},{"a":2.5,"c":[1,2]}]`, out)
	assert.Contains(t, out, "\n  ")
}

func TestSimplifyPassesThroughNonRecords(t *testing.T) {
	out, _, err := run(t, `{"a": 1}`, "simplify")
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`+"\n", out)

	_, _, err = run(t, `[1, 2]`, "simplify", "--format", "parquet")
	assert.True(t, errors.IsType(err, errors.ErrorTypeData))
}

func TestSimplifyInfeasibleLeavesNoFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "z.arrow")
	_, _, err := run(t, `[1, 2]`, "simplify", "--format", "arrow", "-o", out)
	require.Error(t, err)
	assert.NoFileExists(t, out)
}

func TestSimplifyEmptyList(t *testing.T) {
	out, _, err := run(t, `[{"a": []}]`, "simplify")
	require.NoError(t, err)
	assert.Equal(t, `{"a":[[]]}`+"\n", out)

	out, _, err = run(t, `[]`, "simplify")
	require.NoError(t, err)
	assert.Equal(t, "[]\n", out)
}

func TestSimplifyInvalidInput(t *testing.T) {
	_, stderr, err := run(t, `[{"a": `, "simplify")
	assert.Error(t, err)
	// main reports the error once
	assert.NotContains(t, stderr, "Error:")

	_, _, err = run(t, records, "simplify", "--format", "orc")
	assert.Error(t, err)
}

func TestSimplifyFiles(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "records.json.gz")
	data, err := compression.Compress([]byte(records), &compression.Config{Algorithm: compression.Gzip, Level: compression.Default})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(in, data, 0600))

	out := filepath.Join(dir, "records.parquet")
	_, _, err = run(t, "", "simplify", in, "--format", "parquet", "--compress", "snappy", "-o", out)
	require.NoError(t, err)

	written, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(written, []byte("PAR1")))
	assert.True(t, bytes.HasSuffix(written, []byte("PAR1")))
}

func TestSchema(t *testing.T) {
	out, _, err := run(t, records, "schema")
	require.NoError(t, err)
	assert.JSONEq(t, `[
		{"name":"a","type":"real","scalar":true},
		{"name":"b","type":"text","scalar":true},
		{"name":"c","type":"complex","scalar":false}
	]`, out)

	out, _, err = run(t, `"text"`, "schema")
	require.NoError(t, err)
	assert.Equal(t, "not simplifiable\n", out)
}

func TestConfigLayering(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jsonlite.yaml")
	require.NoError(t, os.WriteFile(path, []byte("output:\n  orientation: ${TEST_ORIENT}\n"), 0600))
	t.Setenv("TEST_ORIENT", "rows")

	out, _, err := run(t, records, "simplify", "--config", path)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"a":1,"b":"x"},{"a":2.5,"c":[1,2]}]`, out)

	// flags beat the file
	out, _, err = run(t, records, "simplify", "--config", path, "--orient", "columns")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, `{"a":`))

	// environment beats the file
	t.Setenv("JSONLITE_OUTPUT_ORIENTATION", "columns")
	out, _, err = run(t, records, "simplify", "--config", path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, `{"a":`))
}

func TestMetricsDump(t *testing.T) {
	_, stderr, err := run(t, records, "simplify", "--metrics")
	require.NoError(t, err)
	assert.Contains(t, stderr, `jsonlite_simplify_total{result="feasible"} 1`)
	assert.Contains(t, stderr, "jsonlite_rows_simplified_total 2")
}

func TestVersion(t *testing.T) {
	out, _, err := run(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "jsonlite v"+version)
}

func TestSimplifyMappedFile(t *testing.T) {
	in := filepath.Join(t.TempDir(), "records.json")
	require.NoError(t, os.WriteFile(in, []byte(records), 0600))

	out, _, err := run(t, "", "simplify", in, "--orient", "rows")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"a":1,"b":"x"},{"a":2.5,"c":[1,2]}]`, out)
}
