package parser

import (
	"fmt"

	"rewind/types"
)

// Lexer tokenizes C source code. Preprocessor directives are skipped to
// end of line rather than parsed.
type Lexer struct {
	input        string
	position     int  // current position in input (points to current char)
	readPosition int  // current reading position in input (after current char)
	ch           byte // current char under examination
	line         int
	column       int
}

// NewLexer creates a new Lexer instance
func NewLexer(input string) *Lexer {
	l := &Lexer{
		input:  input,
		line:   1,
		column: 0,
	}
	l.readChar()
	return l
}

// readChar reads the next character and advances position
func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.column = 0
	}
	if l.readPosition >= len(l.input) {
		l.ch = 0 // ASCII NUL
	} else {
		l.ch = l.input[l.readPosition]
	}
	l.position = l.readPosition
	l.readPosition++
	l.column++
}

// peekChar returns the next character without advancing
func (l *Lexer) peekChar() byte {
	if l.readPosition >= len(l.input) {
		return 0
	}
	return l.input[l.readPosition]
}

func (l *Lexer) currentLoc() types.SourceLocation {
	return types.NewLocation(l.line, l.column)
}

// Tokenize consumes the whole input and returns the token stream,
// terminated by a TOKEN_EOF token.
func (l *Lexer) Tokenize() ([]Token, *LexError) {
	var tokens []Token
	for {
		if err := l.skipWhitespaceAndComments(); err != nil {
			return nil, err
		}

		if l.ch == 0 {
			tokens = append(tokens, Token{Type: TOKEN_EOF, Loc: l.currentLoc()})
			return tokens, nil
		}

		// preprocessor directives are skipped, not interpreted
		if l.ch == '#' {
			l.skipLine()
			continue
		}

		tok, err := l.nextToken()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
	}
}

// nextToken returns the next token from the input
func (l *Lexer) nextToken() (Token, *LexError) {
	loc := l.currentLoc()

	switch {
	case l.ch == '"':
		return l.stringLiteral(loc)
	case l.ch == '\'':
		return l.charLiteral(loc)
	case isDigit(l.ch):
		return l.numberLiteral(loc), nil
	case isLetter(l.ch):
		return l.identifierOrKeyword(loc), nil
	}

	ch := l.ch
	l.readChar()

	two := func(next byte, matched, plain TokenType) Token {
		if l.ch == next {
			v := string([]byte{ch, l.ch})
			l.readChar()
			return Token{Type: matched, Value: v, Loc: loc}
		}
		return Token{Type: plain, Value: string(ch), Loc: loc}
	}

	switch ch {
	case '+':
		if l.ch == '+' {
			l.readChar()
			return Token{Type: TOKEN_INCREMENT, Value: "++", Loc: loc}, nil
		}
		return two('=', TOKEN_PLUS_ASSIGN, TOKEN_PLUS), nil
	case '-':
		if l.ch == '-' {
			l.readChar()
			return Token{Type: TOKEN_DECREMENT, Value: "--", Loc: loc}, nil
		}
		if l.ch == '>' {
			l.readChar()
			return Token{Type: TOKEN_ARROW, Value: "->", Loc: loc}, nil
		}
		return two('=', TOKEN_MINUS_ASSIGN, TOKEN_MINUS), nil
	case '*':
		return two('=', TOKEN_STAR_ASSIGN, TOKEN_STAR), nil
	case '/':
		return two('=', TOKEN_SLASH_ASSIGN, TOKEN_SLASH), nil
	case '%':
		return two('=', TOKEN_PERCENT_ASSIGN, TOKEN_PERCENT), nil
	case '=':
		return two('=', TOKEN_EQ, TOKEN_ASSIGN), nil
	case '!':
		return two('=', TOKEN_NE, TOKEN_NOT), nil
	case '<':
		if l.ch == '<' {
			l.readChar()
			return Token{Type: TOKEN_LSHIFT, Value: "<<", Loc: loc}, nil
		}
		return two('=', TOKEN_LE, TOKEN_LT), nil
	case '>':
		if l.ch == '>' {
			l.readChar()
			return Token{Type: TOKEN_RSHIFT, Value: ">>", Loc: loc}, nil
		}
		return two('=', TOKEN_GE, TOKEN_GT), nil
	case '&':
		return two('&', TOKEN_AND, TOKEN_AMP), nil
	case '|':
		return two('|', TOKEN_OR, TOKEN_PIPE), nil
	case '^':
		return Token{Type: TOKEN_CARET, Value: "^", Loc: loc}, nil
	case '~':
		return Token{Type: TOKEN_TILDE, Value: "~", Loc: loc}, nil
	case '.':
		return Token{Type: TOKEN_DOT, Value: ".", Loc: loc}, nil
	case '?':
		return Token{Type: TOKEN_QUESTION, Value: "?", Loc: loc}, nil
	case ':':
		return Token{Type: TOKEN_COLON, Value: ":", Loc: loc}, nil
	case '(':
		return Token{Type: TOKEN_LPAREN, Value: "(", Loc: loc}, nil
	case ')':
		return Token{Type: TOKEN_RPAREN, Value: ")", Loc: loc}, nil
	case '{':
		return Token{Type: TOKEN_LBRACE, Value: "{", Loc: loc}, nil
	case '}':
		return Token{Type: TOKEN_RBRACE, Value: "}", Loc: loc}, nil
	case '[':
		return Token{Type: TOKEN_LBRACKET, Value: "[", Loc: loc}, nil
	case ']':
		return Token{Type: TOKEN_RBRACKET, Value: "]", Loc: loc}, nil
	case ';':
		return Token{Type: TOKEN_SEMICOLON, Value: ";", Loc: loc}, nil
	case ',':
		return Token{Type: TOKEN_COMMA, Value: ",", Loc: loc}, nil
	default:
		return Token{}, &LexError{
			Message:  fmt.Sprintf("unexpected character %q", ch),
			Location: loc,
		}
	}
}

// numberLiteral reads a decimal integer literal
func (l *Lexer) numberLiteral(loc types.SourceLocation) Token {
	start := l.position
	for isDigit(l.ch) {
		l.readChar()
	}
	return Token{Type: TOKEN_INT_LIT, Value: l.input[start:l.position], Loc: loc}
}

// identifierOrKeyword reads an identifier and promotes keywords
func (l *Lexer) identifierOrKeyword(loc types.SourceLocation) Token {
	start := l.position
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	word := l.input[start:l.position]
	if kw, ok := keywords[word]; ok {
		return Token{Type: kw, Value: word, Loc: loc}
	}
	return Token{Type: TOKEN_IDENT, Value: word, Loc: loc}
}

// skipWhitespaceAndComments skips whitespace, // comments and /* */ comments
func (l *Lexer) skipWhitespaceAndComments() *LexError {
	for {
		switch {
		case l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r':
			l.readChar()
		case l.ch == '/' && l.peekChar() == '/':
			l.skipLine()
		case l.ch == '/' && l.peekChar() == '*':
			start := l.currentLoc()
			l.readChar() // '/'
			l.readChar() // '*'
			for {
				if l.ch == 0 {
					return &LexError{Message: "unterminated block comment", Location: start}
				}
				if l.ch == '*' && l.peekChar() == '/' {
					l.readChar()
					l.readChar()
					break
				}
				l.readChar()
			}
		default:
			return nil
		}
	}
}

// skipLine consumes characters up to and including the next newline
func (l *Lexer) skipLine() {
	for l.ch != '\n' && l.ch != 0 {
		l.readChar()
	}
}

// isLetter returns true if the character is a letter or underscore
func isLetter(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_'
}

// isDigit returns true if the character is a digit
func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}
