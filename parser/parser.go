// Package parser turns C source text into an abstract syntax tree.
//
// The subset covers int, char, void, structs, pointers, fixed-size
// arrays, the usual operators, and the control flow statements of the
// language. Preprocessor directives are skipped by the lexer.
package parser

import "rewind/types"

// Parser parses a token stream into a Program. Tokens are held in a
// slice so the parser can mark a position and backtrack, which the cast
// and struct-return-type ambiguities require.
type Parser struct {
	tokens   []Token
	position int
}

// Parse tokenizes and parses a complete translation unit.
func Parse(source string) (*Program, error) {
	tokens, lexErr := NewLexer(source).Tokenize()
	if lexErr != nil {
		return nil, lexErr
	}
	p := &Parser{tokens: tokens}
	return p.parseProgram()
}

func (p *Parser) parseProgram() (*Program, error) {
	prog := &Program{}
	for !p.atEnd() {
		if err := p.parseTopLevel(prog); err != nil {
			return nil, err
		}
	}
	return prog, nil
}

// parseTopLevel parses one struct or function definition. A leading
// 'struct' keyword is ambiguous: "struct Name {" opens a definition
// while "struct Name ident(" is a function returning a struct.
func (p *Parser) parseTopLevel(prog *Program) error {
	if p.peek().Type == TOKEN_STRUCT {
		saved := p.position
		p.advance() // struct
		if p.peek().Type == TOKEN_IDENT {
			p.advance() // struct name
			isDef := p.peek().Type == TOKEN_LBRACE
			p.position = saved
			if isDef {
				def, err := p.parseStructDef()
				if err != nil {
					return err
				}
				prog.Structs = append(prog.Structs, def)
				return nil
			}
		} else {
			p.position = saved
		}
	}

	fn, err := p.parseFunctionDef()
	if err != nil {
		return err
	}
	prog.Functions = append(prog.Functions, fn)
	return nil
}

// parseStructDef parses: struct Name { fields };
func (p *Parser) parseStructDef() (*StructDef, error) {
	loc := p.peek().Loc
	p.advance() // struct

	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if err := p.expect(TOKEN_LBRACE, "after struct name"); err != nil {
		return nil, err
	}

	var fields []Field
	for p.peek().Type != TOKEN_RBRACE {
		fieldType, err := p.parseType()
		if err != nil {
			return nil, err
		}
		fieldName, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		fieldType, err = p.parseArraySuffix(fieldType)
		if err != nil {
			return nil, err
		}
		if err := p.expect(TOKEN_SEMICOLON, "after struct field"); err != nil {
			return nil, err
		}
		fields = append(fields, Field{Name: fieldName, Type: fieldType})
	}

	if err := p.expect(TOKEN_RBRACE, "after struct fields"); err != nil {
		return nil, err
	}
	if err := p.expect(TOKEN_SEMICOLON, "after struct definition"); err != nil {
		return nil, err
	}

	return &StructDef{Name: name, Fields: fields, Pos: loc}, nil
}

// parseFunctionDef parses: type name(params) { body }
func (p *Parser) parseFunctionDef() (*FunctionDef, error) {
	returnType, err := p.parseType()
	if err != nil {
		return nil, err
	}
	loc := p.peek().Loc
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}

	if err := p.expect(TOKEN_LPAREN, "after function name"); err != nil {
		return nil, err
	}
	params, err := p.parseParams()
	if err != nil {
		return nil, err
	}
	if err := p.expect(TOKEN_RPAREN, "after parameters"); err != nil {
		return nil, err
	}

	if err := p.expect(TOKEN_LBRACE, "before function body"); err != nil {
		return nil, err
	}
	body, err := p.parseBlockBody()
	if err != nil {
		return nil, err
	}
	if err := p.expect(TOKEN_RBRACE, "after function body"); err != nil {
		return nil, err
	}

	return &FunctionDef{
		Name:       name,
		Params:     params,
		ReturnType: returnType,
		Body:       body,
		Pos:        loc,
	}, nil
}

// parseParams parses a parameter list. A lone 'void' means no
// parameters.
func (p *Parser) parseParams() ([]Param, error) {
	var params []Param

	if p.peek().Type == TOKEN_RPAREN {
		return params, nil
	}
	if p.peek().Type == TOKEN_VOID && p.peekAhead(1).Type == TOKEN_RPAREN {
		p.advance()
		return params, nil
	}

	for {
		paramType, err := p.parseType()
		if err != nil {
			return nil, err
		}
		name, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		paramType, err = p.parseArraySuffix(paramType)
		if err != nil {
			return nil, err
		}
		params = append(params, Param{Name: name, Type: paramType})

		if !p.match(TOKEN_COMMA) {
			break
		}
	}
	return params, nil
}

// parseType parses: [const] base [*]* [[N]]*
func (p *Parser) parseType() (types.CType, error) {
	var t types.CType
	isConst := p.match(TOKEN_CONST)

	switch {
	case p.match(TOKEN_INT):
		t = types.IntType()
	case p.match(TOKEN_CHAR):
		t = types.CharType()
	case p.match(TOKEN_VOID):
		t = types.VoidType()
	case p.match(TOKEN_STRUCT):
		name, err := p.expectIdent()
		if err != nil {
			return t, err
		}
		t = types.StructType(name)
	default:
		return t, p.errorf(p.peek().Loc, "expected type, found %s", p.peek().Type)
	}

	if isConst {
		t = t.WithConst()
	}
	for p.match(TOKEN_STAR) {
		t = t.WithPointer()
	}
	return p.parseArraySuffix(t)
}

// parseArraySuffix parses trailing array dimensions: [N] or [].
// Dimensions must be integer constants.
func (p *Parser) parseArraySuffix(t types.CType) (types.CType, error) {
	for p.match(TOKEN_LBRACKET) {
		if p.match(TOKEN_RBRACKET) {
			t = t.WithArray(types.UnsizedDim)
			continue
		}
		sizeTok := p.peek()
		size, err := p.parseIntLit()
		if err != nil {
			return t, p.errorf(sizeTok.Loc, "array size must be a constant integer")
		}
		if err := p.expect(TOKEN_RBRACKET, "after array size"); err != nil {
			return t, err
		}
		t = t.WithArray(int(size))
	}
	return t, nil
}

// isTypeAhead reports whether the current token starts a type
func (p *Parser) isTypeAhead() bool {
	switch p.peek().Type {
	case TOKEN_INT, TOKEN_CHAR, TOKEN_VOID, TOKEN_STRUCT, TOKEN_CONST:
		return true
	}
	return false
}

// Token stream helpers

func (p *Parser) peek() Token {
	if p.position < len(p.tokens) {
		return p.tokens[p.position]
	}
	return p.tokens[len(p.tokens)-1]
}

func (p *Parser) peekAhead(n int) Token {
	if p.position+n < len(p.tokens) {
		return p.tokens[p.position+n]
	}
	return p.tokens[len(p.tokens)-1]
}

func (p *Parser) advance() Token {
	tok := p.peek()
	if p.position < len(p.tokens)-1 {
		p.position++
	}
	return tok
}

// match consumes the current token if it has the given type
func (p *Parser) match(tt TokenType) bool {
	if p.peek().Type == tt {
		p.advance()
		return true
	}
	return false
}

// expect consumes a token of the given type or fails with context
func (p *Parser) expect(tt TokenType, context string) error {
	if p.match(tt) {
		return nil
	}
	return p.errorf(p.peek().Loc, "expected %s %s, found %s", tt, context, p.peek().Type)
}

// expectIdent consumes an identifier and returns its name
func (p *Parser) expectIdent() (string, error) {
	if p.peek().Type == TOKEN_IDENT {
		return p.advance().Value, nil
	}
	return "", p.errorf(p.peek().Loc, "expected identifier, found %s", p.peek().Type)
}

func (p *Parser) atEnd() bool {
	return p.peek().Type == TOKEN_EOF
}
