package parser

import (
	"fmt"
	"strings"

	"rewind/types"
)

// stringLiteral reads a double-quoted string literal with escape
// sequences. The decoded text is stored in the token's Literal field.
func (l *Lexer) stringLiteral(loc types.SourceLocation) (Token, *LexError) {
	l.readChar() // opening quote
	var b strings.Builder

	for l.ch != '"' {
		if l.ch == 0 {
			return Token{}, &LexError{Message: "unterminated string literal", Location: loc}
		}
		if l.ch == '\\' {
			l.readChar()
			decoded, err := l.escapeChar(`"`)
			if err != nil {
				return Token{}, err
			}
			b.WriteByte(decoded)
			continue
		}
		b.WriteByte(l.ch)
		l.readChar()
	}
	l.readChar() // closing quote

	return Token{Type: TOKEN_STRING_LIT, Value: b.String(), Literal: b.String(), Loc: loc}, nil
}

// charLiteral reads a single-quoted character literal. The decoded byte
// is stored as a one-byte Literal string.
func (l *Lexer) charLiteral(loc types.SourceLocation) (Token, *LexError) {
	l.readChar() // opening quote

	if l.ch == 0 {
		return Token{}, &LexError{Message: "unterminated character literal", Location: loc}
	}

	var decoded byte
	if l.ch == '\\' {
		l.readChar()
		var err *LexError
		decoded, err = l.escapeChar("'")
		if err != nil {
			return Token{}, err
		}
	} else {
		decoded = l.ch
		l.readChar()
	}

	if l.ch != '\'' {
		return Token{}, &LexError{
			Message:  "expected closing quote in character literal",
			Location: l.currentLoc(),
		}
	}
	l.readChar()

	return Token{Type: TOKEN_CHAR_LIT, Literal: string(decoded), Loc: loc}, nil
}

// escapeChar decodes the escape sequence whose backslash has already
// been consumed. quote is the extra quotable character for the current
// literal form.
func (l *Lexer) escapeChar(quote string) (byte, *LexError) {
	ch := l.ch
	l.readChar()

	switch ch {
	case 'n':
		return '\n', nil
	case 't':
		return '\t', nil
	case 'r':
		return '\r', nil
	case '\\':
		return '\\', nil
	case '0':
		return 0, nil
	case 'x':
		hi, ok1 := hexDigit(l.ch)
		l.readChar()
		lo, ok2 := hexDigit(l.ch)
		l.readChar()
		if !ok1 || !ok2 {
			return 0, &LexError{
				Message:  "invalid hex escape sequence",
				Location: l.currentLoc(),
			}
		}
		return hi<<4 | lo, nil
	default:
		if strings.ContainsRune(quote, rune(ch)) {
			return ch, nil
		}
		return 0, &LexError{
			Message:  fmt.Sprintf("unknown escape sequence \\%c", ch),
			Location: l.currentLoc(),
		}
	}
}

func hexDigit(ch byte) (byte, bool) {
	switch {
	case '0' <= ch && ch <= '9':
		return ch - '0', true
	case 'a' <= ch && ch <= 'f':
		return ch - 'a' + 10, true
	case 'A' <= ch && ch <= 'F':
		return ch - 'A' + 10, true
	default:
		return 0, false
	}
}
