// Package simplify turns a list of records into a typed columnar table.
//
// Simplification runs two passes over the rows. The first infers, for every
// field name, the least common element type of its values (see package
// schema). The second allocates one typed column per name and converts each
// row's value into its cell; rows that omit a field leave the missing marker
// in place. Values of complex columns are simplified recursively, so a field
// holding a list of records becomes a nested table.
//
// Simplify is total: input that is not an unnamed list of records is
// returned unchanged.
package simplify

import (
	"time"

	"go.uber.org/zap"

	"github.com/halhen/jsonlite/pkg/columnar"
	"github.com/halhen/jsonlite/pkg/models"
	"github.com/halhen/jsonlite/pkg/schema"
)

// DefaultMaxDepth bounds recursion into complex cells.
const DefaultMaxDepth = 64

// Observer receives statistics about simplification runs. Implementations
// must be safe for concurrent use when a Simplifier is shared.
type Observer interface {
	// ObserveRun is called once per (possibly nested) simplification.
	ObserveRun(feasible bool, rows, columns int, elapsed time.Duration)
	// ObserveCoercionNA is called when a supplied value could not be
	// converted to its column type.
	ObserveCoercionNA(target models.Kind)
}

// Simplifier holds the logger, observer and depth limit of a simplification. It keeps no
// state between calls and may be used from several goroutines.
type Simplifier struct {
	logger   *zap.Logger
	observer Observer
	maxDepth int
}

// Option configures a Simplifier.
type Option func(*Simplifier)

// WithLogger sets the logger. Per-run details are logged at debug level.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Simplifier) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithObserver sets the statistics sink.
func WithObserver(o Observer) Option {
	return func(s *Simplifier) { s.observer = o }
}

// WithMaxDepth bounds how deep complex cells are simplified. Cells below the
// limit are stored as given. A depth of 0 disables nested simplification.
func WithMaxDepth(depth int) Option {
	return func(s *Simplifier) {
		if depth >= 0 {
			s.maxDepth = depth
		}
	}
}

// New creates a Simplifier.
func New(opts ...Option) *Simplifier {
	s := &Simplifier{
		logger:   zap.NewNop(),
		maxDepth: DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var defaultSimplifier = New()

// Simplify converts rows with the default Simplifier.
func Simplify(rows models.Value) models.Value {
	return defaultSimplifier.Simplify(rows)
}

// Simplify returns rows as a named list of typed columns, sorted by name, or
// rows itself when it cannot be simplified.
func (s *Simplifier) Simplify(rows models.Value) models.Value {
	return s.simplify(rows, 0)
}

// Table returns the typed table for rows and whether rows was simplifiable.
func (s *Simplifier) Table(rows models.Value) (*columnar.Table, bool) {
	return s.table(rows, 0)
}

// Infer returns the schema Simplify would use for rows.
func (s *Simplifier) Infer(rows models.Value) (*schema.Registry, bool) {
	return schema.NewInferrer(s.logger).Infer(rows)
}

func (s *Simplifier) simplify(v models.Value, depth int) models.Value {
	t, ok := s.table(v, depth)
	if !ok {
		return v
	}
	return t.AsValue()
}

func (s *Simplifier) table(v models.Value, depth int) (*columnar.Table, bool) {
	if _, ok := v.(*models.List); !ok {
		return nil, false
	}

	start := time.Now()
	reg, ok := s.Infer(v)
	if !ok {
		if s.observer != nil {
			s.observer.ObserveRun(false, models.RowCount(v), 0, time.Since(start))
		}
		return nil, false
	}

	t := s.Materialize(reg, v.(*models.List), depth)
	if s.observer != nil {
		s.observer.ObserveRun(true, t.NumRows(), t.NumCols(), time.Since(start))
	}
	s.logger.Debug("simplified",
		zap.Int("depth", depth),
		zap.Int("rows", t.NumRows()),
		zap.Int("columns", t.NumCols()),
		zap.Int64("bytes", t.MemoryUsage()))
	return t, true
}
