// Package testutil provides testing utilities for jsonlite
package testutil

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/halhen/jsonlite/pkg/columnar"
	"github.com/halhen/jsonlite/pkg/json"
	"github.com/halhen/jsonlite/pkg/models"
	"github.com/halhen/jsonlite/pkg/simplify"
)

// TestLogger creates a test logger that writes to the test output.
// The logger is automatically cleaned up when the test completes.
func TestLogger(t *testing.T) *zap.Logger {
	return zaptest.NewLogger(t)
}

// TestContext creates a test context with a 30-second timeout.
// The caller must call the returned cancel function to avoid leaks.
func TestContext(_ *testing.T) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 30*time.Second)
}

// ParseJSON decodes doc or fails the test.
func ParseJSON(t *testing.T, doc string) models.Value {
	t.Helper()
	v, err := json.Unmarshal([]byte(doc))
	if err != nil {
		t.Fatalf("parse %q: %v", doc, err)
	}
	return v
}

// Table decodes doc and simplifies it into a table, failing the test when
// the document is not a list of records.
func Table(t *testing.T, doc string) *columnar.Table {
	t.Helper()
	s := simplify.New(simplify.WithLogger(TestLogger(t)))
	table, ok := s.Table(ParseJSON(t, doc))
	if !ok {
		t.Fatalf("document is not a list of records: %s", doc)
	}
	return table
}

// RequireNoError fails the test immediately if err is not nil.
// The msg parameter provides additional context in the failure message.
func RequireNoError(t *testing.T, err error, msg string) {
	t.Helper()
	if err != nil {
		t.Fatalf("%s: %v", msg, err)
	}
}
