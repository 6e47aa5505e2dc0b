package parser

import (
	"strconv"

	"rewind/types"
)

// parseExpression parses a full expression. Assignment is the lowest
// precedence level and is itself an expression, so statements like
// "a = b = 0;" and for-loop increments parse naturally.
func (p *Parser) parseExpression() (Expr, error) {
	return p.parseAssignment()
}

// compoundOps maps compound assignment tokens to their operator
var compoundOps = map[TokenType]BinOp{
	TOKEN_PLUS_ASSIGN:    OpAdd,
	TOKEN_MINUS_ASSIGN:   OpSub,
	TOKEN_STAR_ASSIGN:    OpMul,
	TOKEN_SLASH_ASSIGN:   OpDiv,
	TOKEN_PERCENT_ASSIGN: OpMod,
}

// parseAssignment parses assignment and compound assignment
// (right-associative)
func (p *Parser) parseAssignment() (Expr, error) {
	expr, err := p.parseTernary()
	if err != nil {
		return nil, err
	}

	loc := p.peek().Loc
	if p.match(TOKEN_ASSIGN) {
		rhs, err := p.parseAssignment()
		if err != nil {
			return nil, err
		}
		return &AssignExpr{Pos: loc, Target: expr, Value: rhs}, nil
	}

	if op, ok := compoundOps[p.peek().Type]; ok {
		p.advance()
		rhs, err := p.parseAssignment()
		if err != nil {
			return nil, err
		}
		return &CompoundAssignExpr{Pos: loc, Target: expr, Op: op, Value: rhs}, nil
	}

	return expr, nil
}

// parseTernary parses: cond ? a : b
func (p *Parser) parseTernary() (Expr, error) {
	expr, err := p.parseBinary(0)
	if err != nil {
		return nil, err
	}

	if p.peek().Type == TOKEN_QUESTION {
		loc := p.advance().Loc
		thenExpr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if err := p.expect(TOKEN_COLON, "in ternary expression"); err != nil {
			return nil, err
		}
		elseExpr, err := p.parseTernary()
		if err != nil {
			return nil, err
		}
		return &TernaryExpr{Pos: loc, Condition: expr, ThenExpr: thenExpr, ElseExpr: elseExpr}, nil
	}

	return expr, nil
}

// binaryLevels orders binary operators from loosest to tightest binding,
// following C precedence. All levels are left-associative.
var binaryLevels = []map[TokenType]BinOp{
	{TOKEN_OR: OpOr},
	{TOKEN_AND: OpAnd},
	{TOKEN_PIPE: OpBitOr},
	{TOKEN_CARET: OpBitXor},
	{TOKEN_AMP: OpBitAnd},
	{TOKEN_EQ: OpEq, TOKEN_NE: OpNe},
	{TOKEN_LT: OpLt, TOKEN_LE: OpLe, TOKEN_GT: OpGt, TOKEN_GE: OpGe},
	{TOKEN_LSHIFT: OpShl, TOKEN_RSHIFT: OpShr},
	{TOKEN_PLUS: OpAdd, TOKEN_MINUS: OpSub},
	{TOKEN_STAR: OpMul, TOKEN_SLASH: OpDiv, TOKEN_PERCENT: OpMod},
}

// parseBinary climbs the precedence levels
func (p *Parser) parseBinary(level int) (Expr, error) {
	if level >= len(binaryLevels) {
		return p.parseCast()
	}

	left, err := p.parseBinary(level + 1)
	if err != nil {
		return nil, err
	}

	ops := binaryLevels[level]
	for {
		op, ok := ops[p.peek().Type]
		if !ok {
			return left, nil
		}
		loc := p.advance().Loc
		right, err := p.parseBinary(level + 1)
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Pos: loc, Op: op, Left: left, Right: right}
	}
}

// parseCast parses: (type)expr. A parenthesis is only a cast when a
// complete type fits inside it, so the parser probes ahead and
// backtracks otherwise.
func (p *Parser) parseCast() (Expr, error) {
	if p.peek().Type == TOKEN_LPAREN {
		saved := p.position
		p.advance()
		if targetType, err := p.parseType(); err == nil && p.peek().Type == TOKEN_RPAREN {
			loc := p.advance().Loc
			operand, err := p.parseCast()
			if err != nil {
				return nil, err
			}
			return &CastExpr{Pos: loc, TargetType: targetType, Operand: operand}, nil
		}
		p.position = saved
	}
	return p.parseUnary()
}

// prefixOps maps prefix operator tokens to their unary operator
var prefixOps = map[TokenType]UnOp{
	TOKEN_NOT:       OpNot,
	TOKEN_TILDE:     OpBitNot,
	TOKEN_MINUS:     OpNeg,
	TOKEN_AMP:       OpAddrOf,
	TOKEN_STAR:      OpDeref,
	TOKEN_INCREMENT: OpPreInc,
	TOKEN_DECREMENT: OpPreDec,
}

// parseUnary parses prefix operators and sizeof
func (p *Parser) parseUnary() (Expr, error) {
	loc := p.peek().Loc

	// unary plus is a no-op
	if p.match(TOKEN_PLUS) {
		return p.parseUnary()
	}

	if op, ok := prefixOps[p.peek().Type]; ok {
		p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &UnaryExpr{Pos: loc, Op: op, Operand: operand}, nil
	}

	if p.match(TOKEN_SIZEOF) {
		return p.parseSizeof(loc)
	}

	return p.parsePostfix()
}

// parseSizeof parses both forms: sizeof(type) and sizeof(expr)
func (p *Parser) parseSizeof(loc types.SourceLocation) (Expr, error) {
	if err := p.expect(TOKEN_LPAREN, "after 'sizeof'"); err != nil {
		return nil, err
	}

	if p.isTypeAhead() {
		saved := p.position
		targetType, err := p.parseType()
		if err == nil && p.match(TOKEN_RPAREN) {
			return &SizeofTypeExpr{Pos: loc, TargetType: targetType}, nil
		}
		p.position = saved
	}

	operand, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if err := p.expect(TOKEN_RPAREN, "after sizeof expression"); err != nil {
		return nil, err
	}
	return &SizeofExpr{Pos: loc, Operand: operand}, nil
}

// parsePostfix parses postfix operators: ++ -- [] . -> ()
func (p *Parser) parsePostfix() (Expr, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	for {
		loc := p.peek().Loc
		switch {
		case p.match(TOKEN_INCREMENT):
			expr = &UnaryExpr{Pos: loc, Op: OpPostInc, Operand: expr}
		case p.match(TOKEN_DECREMENT):
			expr = &UnaryExpr{Pos: loc, Op: OpPostDec, Operand: expr}
		case p.match(TOKEN_LBRACKET):
			index, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			if err := p.expect(TOKEN_RBRACKET, "after array index"); err != nil {
				return nil, err
			}
			expr = &IndexExpr{Pos: loc, Array: expr, Index: index}
		case p.match(TOKEN_DOT):
			member, err := p.expectIdent()
			if err != nil {
				return nil, err
			}
			expr = &MemberExpr{Pos: loc, Object: expr, Member: member}
		case p.match(TOKEN_ARROW):
			member, err := p.expectIdent()
			if err != nil {
				return nil, err
			}
			expr = &ArrowExpr{Pos: loc, Object: expr, Member: member}
		case p.match(TOKEN_LPAREN):
			v, ok := expr.(*VariableExpr)
			if !ok {
				return nil, p.errorf(loc, "function call must be on an identifier")
			}
			args, err := p.parseArgs()
			if err != nil {
				return nil, err
			}
			if err := p.expect(TOKEN_RPAREN, "after function arguments"); err != nil {
				return nil, err
			}
			expr = &CallExpr{Pos: v.Pos, Name: v.Name, Args: args}
		default:
			return expr, nil
		}
	}
}

// parseArgs parses a comma-separated argument list
func (p *Parser) parseArgs() ([]Expr, error) {
	var args []Expr
	if p.peek().Type == TOKEN_RPAREN {
		return args, nil
	}
	for {
		arg, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if !p.match(TOKEN_COMMA) {
			break
		}
	}
	return args, nil
}

// parsePrimary parses literals, variables and parenthesized expressions
func (p *Parser) parsePrimary() (Expr, error) {
	tok := p.peek()

	switch tok.Type {
	case TOKEN_INT_LIT:
		val, err := p.parseIntLit()
		if err != nil {
			return nil, err
		}
		return &IntLit{Pos: tok.Loc, Val: val}, nil
	case TOKEN_CHAR_LIT:
		p.advance()
		return &CharLit{Pos: tok.Loc, Val: int8(tok.Literal[0])}, nil
	case TOKEN_STRING_LIT:
		p.advance()
		return &StringLit{Pos: tok.Loc, Val: tok.Literal}, nil
	case TOKEN_NULL:
		p.advance()
		return &NullLit{Pos: tok.Loc}, nil
	case TOKEN_IDENT:
		p.advance()
		return &VariableExpr{Pos: tok.Loc, Name: tok.Value}, nil
	case TOKEN_LPAREN:
		p.advance()
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if err := p.expect(TOKEN_RPAREN, "after expression"); err != nil {
			return nil, err
		}
		return expr, nil
	}

	return nil, p.errorf(tok.Loc, "unexpected %s", tok.Type)
}

// parseIntLit consumes an integer literal token and converts it,
// rejecting values outside the 32-bit range.
func (p *Parser) parseIntLit() (int32, error) {
	tok := p.peek()
	if tok.Type != TOKEN_INT_LIT {
		return 0, p.errorf(tok.Loc, "expected int literal, found %s", tok.Type)
	}
	n, err := strconv.ParseInt(tok.Value, 10, 32)
	if err != nil {
		return 0, p.errorf(tok.Loc, "invalid integer literal %s", tok.Value)
	}
	p.advance()
	return int32(n), nil
}
