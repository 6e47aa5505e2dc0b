// Package trace provides structured execution tracing for the
// interpreter: statement steps, function calls and returns, heap
// allocations and snapshot pushes. Every event method returns
// immediately on a nil or disabled tracer.
package trace

import (
	"io"
	"path/filepath"

	"github.com/rs/zerolog"

	"rewind/types"
)

// Tracer emits execution events through a zerolog logger
type Tracer struct {
	log     zerolog.Logger
	enabled bool
	filters []string
}

// New creates an enabled tracer writing to w
func New(w io.Writer) *Tracer {
	return &Tracer{
		log:     zerolog.New(w).With().Timestamp().Logger(),
		enabled: true,
	}
}

// NewConsole creates an enabled tracer with human-readable output
func NewConsole(w io.Writer) *Tracer {
	cw := zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}
	return &Tracer{
		log:     zerolog.New(cw).With().Timestamp().Logger(),
		enabled: true,
	}
}

// WithFilters restricts step and call events to function names matching
// any of the given glob patterns. No patterns means trace everything.
func (t *Tracer) WithFilters(patterns []string) *Tracer {
	t.filters = patterns
	return t
}

// matchesFilter checks if a function name matches any filter pattern
func (t *Tracer) matchesFilter(function string) bool {
	if len(t.filters) == 0 {
		return true
	}
	for _, pattern := range t.filters {
		if matched, _ := filepath.Match(pattern, function); matched {
			return true
		}
	}
	return false
}

// Step logs the execution of one statement
func (t *Tracer) Step(function string, loc types.SourceLocation) {
	if t == nil || !t.enabled || !t.matchesFilter(function) {
		return
	}
	t.log.Debug().
		Str("event", "step").
		Str("function", function).
		Str("loc", loc.String()).
		Send()
}

// Call logs entry into a user function
func (t *Tracer) Call(function string, depth int, loc types.SourceLocation) {
	if t == nil || !t.enabled || !t.matchesFilter(function) {
		return
	}
	t.log.Info().
		Str("event", "call").
		Str("function", function).
		Int("depth", depth).
		Str("loc", loc.String()).
		Send()
}

// Return logs a function returning a value
func (t *Tracer) Return(function string, depth int, result types.Value) {
	if t == nil || !t.enabled || !t.matchesFilter(function) {
		return
	}
	resultStr := "0"
	if result != nil {
		resultStr = result.String()
	}
	t.log.Info().
		Str("event", "return").
		Str("function", function).
		Int("depth", depth).
		Str("value", resultStr).
		Send()
}

// Alloc logs a heap allocation
func (t *Tracer) Alloc(addr uint64, size int, loc types.SourceLocation) {
	if t == nil || !t.enabled {
		return
	}
	t.log.Debug().
		Str("event", "alloc").
		Uint64("addr", addr).
		Int("size", size).
		Str("loc", loc.String()).
		Send()
}

// Free logs a heap block being tombstoned
func (t *Tracer) Free(addr uint64, loc types.SourceLocation) {
	if t == nil || !t.enabled {
		return
	}
	t.log.Debug().
		Str("event", "free").
		Uint64("addr", addr).
		Str("loc", loc.String()).
		Send()
}

// Snapshot logs a history entry being recorded
func (t *Tracer) Snapshot(index int, estimatedSize int) {
	if t == nil || !t.enabled {
		return
	}
	t.log.Debug().
		Str("event", "snapshot").
		Int("index", index).
		Int("size", estimatedSize).
		Send()
}

// RunError logs the fatal error that ended a run
func (t *Tracer) RunError(err *types.RuntimeError) {
	if t == nil || !t.enabled || err == nil {
		return
	}
	t.log.Error().
		Str("event", "fatal").
		Str("code", err.Code.String()).
		Msg(err.Error())
}
