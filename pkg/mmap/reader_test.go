package mmap

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/halhen/jsonlite/pkg/errors"
)

func TestOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"a":1}]`), 0600))

	r, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, `[{"a":1}]`, string(r.Bytes()))
	assert.EqualValues(t, 9, r.Size())

	data, err := io.ReadAll(r.NewReader())
	require.NoError(t, err)
	assert.Equal(t, r.Bytes(), data)

	require.NoError(t, r.Close())
	require.NoError(t, r.Close())
	assert.Nil(t, r.Bytes())
}

func TestOpenEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.json")
	require.NoError(t, os.WriteFile(path, nil, 0600))

	r, err := Open(path)
	require.NoError(t, err)
	assert.Empty(t, r.Bytes())
	require.NoError(t, r.Close())
}

func TestOpenMissing(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeFile))
}
