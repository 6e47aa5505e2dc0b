package types

import "fmt"

// SourceLocation identifies a position in the original C source.
// Every AST node and runtime error carries one.
type SourceLocation struct {
	Line   int
	Column int
}

// NewLocation creates a SourceLocation
func NewLocation(line, column int) SourceLocation {
	return SourceLocation{Line: line, Column: column}
}

// String returns a human-readable position
func (l SourceLocation) String() string {
	return fmt.Sprintf("line %d, column %d", l.Line, l.Column)
}
