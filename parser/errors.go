package parser

import (
	"fmt"

	"rewind/types"
)

// LexError reports a tokenization failure
type LexError struct {
	Message  string
	Location types.SourceLocation
}

func (e *LexError) Error() string {
	return fmt.Sprintf("lex error at line %d, column %d: %s",
		e.Location.Line, e.Location.Column, e.Message)
}

// ParseError reports a syntax error
type ParseError struct {
	Message  string
	Location types.SourceLocation
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at line %d, column %d: %s",
		e.Location.Line, e.Location.Column, e.Message)
}

func (p *Parser) errorf(loc types.SourceLocation, format string, args ...interface{}) *ParseError {
	return &ParseError{Message: fmt.Sprintf(format, args...), Location: loc}
}
