package parser

import "rewind/types"

// TokenType represents different types of lexical tokens
type TokenType int

const (
	// Special tokens
	TOKEN_EOF TokenType = iota
	TOKEN_ILLEGAL

	// Literals
	TOKEN_INT_LIT    // 42
	TOKEN_CHAR_LIT   // 'a'
	TOKEN_STRING_LIT // "hello"

	// Identifiers
	TOKEN_IDENT

	// Keywords
	TOKEN_INT
	TOKEN_CHAR
	TOKEN_VOID
	TOKEN_STRUCT
	TOKEN_CONST
	TOKEN_IF
	TOKEN_ELSE
	TOKEN_WHILE
	TOKEN_DO
	TOKEN_FOR
	TOKEN_SWITCH
	TOKEN_CASE
	TOKEN_DEFAULT
	TOKEN_BREAK
	TOKEN_CONTINUE
	TOKEN_RETURN
	TOKEN_GOTO
	TOKEN_SIZEOF
	TOKEN_NULL

	// Operators
	TOKEN_PLUS    // +
	TOKEN_MINUS   // -
	TOKEN_STAR    // *
	TOKEN_SLASH   // /
	TOKEN_PERCENT // %

	TOKEN_EQ // ==
	TOKEN_NE // !=
	TOKEN_LT // <
	TOKEN_GT // >
	TOKEN_LE // <=
	TOKEN_GE // >=

	TOKEN_AND // &&
	TOKEN_OR  // ||
	TOKEN_NOT // !

	TOKEN_AMP    // &
	TOKEN_PIPE   // |
	TOKEN_CARET  // ^
	TOKEN_TILDE  // ~
	TOKEN_LSHIFT // <<
	TOKEN_RSHIFT // >>

	TOKEN_ASSIGN         // =
	TOKEN_PLUS_ASSIGN    // +=
	TOKEN_MINUS_ASSIGN   // -=
	TOKEN_STAR_ASSIGN    // *=
	TOKEN_SLASH_ASSIGN   // /=
	TOKEN_PERCENT_ASSIGN // %=

	TOKEN_INCREMENT // ++
	TOKEN_DECREMENT // --

	TOKEN_DOT      // .
	TOKEN_ARROW    // ->
	TOKEN_QUESTION // ?
	TOKEN_COLON    // :

	// Delimiters
	TOKEN_LPAREN    // (
	TOKEN_RPAREN    // )
	TOKEN_LBRACE    // {
	TOKEN_RBRACE    // }
	TOKEN_LBRACKET  // [
	TOKEN_RBRACKET  // ]
	TOKEN_SEMICOLON // ;
	TOKEN_COMMA     // ,
)

// keywords maps identifier spellings to keyword token types. NULL is
// lexed as a keyword rather than an identifier so the parser can treat
// it as a literal.
var keywords = map[string]TokenType{
	"int":      TOKEN_INT,
	"char":     TOKEN_CHAR,
	"void":     TOKEN_VOID,
	"struct":   TOKEN_STRUCT,
	"const":    TOKEN_CONST,
	"if":       TOKEN_IF,
	"else":     TOKEN_ELSE,
	"while":    TOKEN_WHILE,
	"do":       TOKEN_DO,
	"for":      TOKEN_FOR,
	"switch":   TOKEN_SWITCH,
	"case":     TOKEN_CASE,
	"default":  TOKEN_DEFAULT,
	"break":    TOKEN_BREAK,
	"continue": TOKEN_CONTINUE,
	"return":   TOKEN_RETURN,
	"goto":     TOKEN_GOTO,
	"sizeof":   TOKEN_SIZEOF,
	"NULL":     TOKEN_NULL,
}

// Token represents a lexical token
type Token struct {
	Type    TokenType
	Value   string // raw lexeme
	Literal string // decoded value (for TOKEN_STRING_LIT and TOKEN_CHAR_LIT)
	Loc     types.SourceLocation
}

// String returns a string representation of the token type
func (t TokenType) String() string {
	switch t {
	case TOKEN_EOF:
		return "end of file"
	case TOKEN_ILLEGAL:
		return "illegal token"
	case TOKEN_INT_LIT:
		return "int literal"
	case TOKEN_CHAR_LIT:
		return "char literal"
	case TOKEN_STRING_LIT:
		return "string literal"
	case TOKEN_IDENT:
		return "identifier"
	case TOKEN_INT:
		return "'int'"
	case TOKEN_CHAR:
		return "'char'"
	case TOKEN_VOID:
		return "'void'"
	case TOKEN_STRUCT:
		return "'struct'"
	case TOKEN_CONST:
		return "'const'"
	case TOKEN_IF:
		return "'if'"
	case TOKEN_ELSE:
		return "'else'"
	case TOKEN_WHILE:
		return "'while'"
	case TOKEN_DO:
		return "'do'"
	case TOKEN_FOR:
		return "'for'"
	case TOKEN_SWITCH:
		return "'switch'"
	case TOKEN_CASE:
		return "'case'"
	case TOKEN_DEFAULT:
		return "'default'"
	case TOKEN_BREAK:
		return "'break'"
	case TOKEN_CONTINUE:
		return "'continue'"
	case TOKEN_RETURN:
		return "'return'"
	case TOKEN_GOTO:
		return "'goto'"
	case TOKEN_SIZEOF:
		return "'sizeof'"
	case TOKEN_NULL:
		return "'NULL'"
	case TOKEN_PLUS:
		return "'+'"
	case TOKEN_MINUS:
		return "'-'"
	case TOKEN_STAR:
		return "'*'"
	case TOKEN_SLASH:
		return "'/'"
	case TOKEN_PERCENT:
		return "'%'"
	case TOKEN_EQ:
		return "'=='"
	case TOKEN_NE:
		return "'!='"
	case TOKEN_LT:
		return "'<'"
	case TOKEN_GT:
		return "'>'"
	case TOKEN_LE:
		return "'<='"
	case TOKEN_GE:
		return "'>='"
	case TOKEN_AND:
		return "'&&'"
	case TOKEN_OR:
		return "'||'"
	case TOKEN_NOT:
		return "'!'"
	case TOKEN_AMP:
		return "'&'"
	case TOKEN_PIPE:
		return "'|'"
	case TOKEN_CARET:
		return "'^'"
	case TOKEN_TILDE:
		return "'~'"
	case TOKEN_LSHIFT:
		return "'<<'"
	case TOKEN_RSHIFT:
		return "'>>'"
	case TOKEN_ASSIGN:
		return "'='"
	case TOKEN_PLUS_ASSIGN:
		return "'+='"
	case TOKEN_MINUS_ASSIGN:
		return "'-='"
	case TOKEN_STAR_ASSIGN:
		return "'*='"
	case TOKEN_SLASH_ASSIGN:
		return "'/='"
	case TOKEN_PERCENT_ASSIGN:
		return "'%='"
	case TOKEN_INCREMENT:
		return "'++'"
	case TOKEN_DECREMENT:
		return "'--'"
	case TOKEN_DOT:
		return "'.'"
	case TOKEN_ARROW:
		return "'->'"
	case TOKEN_QUESTION:
		return "'?'"
	case TOKEN_COLON:
		return "':'"
	case TOKEN_LPAREN:
		return "'('"
	case TOKEN_RPAREN:
		return "')'"
	case TOKEN_LBRACE:
		return "'{'"
	case TOKEN_RBRACE:
		return "'}'"
	case TOKEN_LBRACKET:
		return "'['"
	case TOKEN_RBRACKET:
		return "']'"
	case TOKEN_SEMICOLON:
		return "';'"
	case TOKEN_COMMA:
		return "','"
	default:
		return "unknown token"
	}
}
