package parser

import "rewind/types"

// parseBlockBody parses statements up to (not including) a closing brace
func (p *Parser) parseBlockBody() ([]Stmt, error) {
	var stmts []Stmt
	for p.peek().Type != TOKEN_RBRACE && !p.atEnd() {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	return stmts, nil
}

// parseStatement parses a single statement
func (p *Parser) parseStatement() (Stmt, error) {
	loc := p.peek().Loc

	switch p.peek().Type {
	case TOKEN_RETURN:
		p.advance()
		return p.parseReturn(loc)
	case TOKEN_IF:
		p.advance()
		return p.parseIf(loc)
	case TOKEN_WHILE:
		p.advance()
		return p.parseWhile(loc)
	case TOKEN_DO:
		p.advance()
		return p.parseDoWhile(loc)
	case TOKEN_FOR:
		p.advance()
		return p.parseFor(loc)
	case TOKEN_SWITCH:
		p.advance()
		return p.parseSwitch(loc)
	case TOKEN_BREAK:
		p.advance()
		if err := p.expect(TOKEN_SEMICOLON, "after 'break'"); err != nil {
			return nil, err
		}
		return &BreakStmt{Pos: loc}, nil
	case TOKEN_CONTINUE:
		p.advance()
		if err := p.expect(TOKEN_SEMICOLON, "after 'continue'"); err != nil {
			return nil, err
		}
		return &ContinueStmt{Pos: loc}, nil
	case TOKEN_GOTO:
		p.advance()
		label, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		if err := p.expect(TOKEN_SEMICOLON, "after 'goto'"); err != nil {
			return nil, err
		}
		return &GotoStmt{Pos: loc, Label: label}, nil
	case TOKEN_LBRACE:
		p.advance()
		body, err := p.parseBlockBody()
		if err != nil {
			return nil, err
		}
		if err := p.expect(TOKEN_RBRACE, "after block"); err != nil {
			return nil, err
		}
		return &BlockStmt{Pos: loc, Body: body}, nil
	}

	// label: identifier followed by a colon
	if p.peek().Type == TOKEN_IDENT && p.peekAhead(1).Type == TOKEN_COLON {
		name := p.advance().Value
		p.advance() // colon
		return &LabelStmt{Pos: loc, Name: name}, nil
	}

	if p.isTypeAhead() {
		return p.parseVarDecl()
	}

	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if err := p.expect(TOKEN_SEMICOLON, "after expression"); err != nil {
		return nil, err
	}
	return &ExprStmt{Pos: loc, Expr: expr}, nil
}

// parseReturn parses a return statement after the keyword
func (p *Parser) parseReturn(loc types.SourceLocation) (Stmt, error) {
	var value Expr
	if p.peek().Type != TOKEN_SEMICOLON {
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		value = expr
	}
	if err := p.expect(TOKEN_SEMICOLON, "after return"); err != nil {
		return nil, err
	}
	return &ReturnStmt{Pos: loc, Value: value}, nil
}

func (p *Parser) parseIf(loc types.SourceLocation) (Stmt, error) {
	if err := p.expect(TOKEN_LPAREN, "after 'if'"); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if err := p.expect(TOKEN_RPAREN, "after if condition"); err != nil {
		return nil, err
	}

	then, err := p.parseStatementOrBlock()
	if err != nil {
		return nil, err
	}

	var elseBranch []Stmt
	if p.match(TOKEN_ELSE) {
		elseBranch, err = p.parseStatementOrBlock()
		if err != nil {
			return nil, err
		}
	}

	return &IfStmt{Pos: loc, Condition: cond, Then: then, Else: elseBranch}, nil
}

func (p *Parser) parseWhile(loc types.SourceLocation) (Stmt, error) {
	if err := p.expect(TOKEN_LPAREN, "after 'while'"); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if err := p.expect(TOKEN_RPAREN, "after while condition"); err != nil {
		return nil, err
	}
	body, err := p.parseStatementOrBlock()
	if err != nil {
		return nil, err
	}
	return &WhileStmt{Pos: loc, Condition: cond, Body: body}, nil
}

func (p *Parser) parseDoWhile(loc types.SourceLocation) (Stmt, error) {
	body, err := p.parseStatementOrBlock()
	if err != nil {
		return nil, err
	}
	if err := p.expect(TOKEN_WHILE, "after do body"); err != nil {
		return nil, err
	}
	if err := p.expect(TOKEN_LPAREN, "after 'while'"); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if err := p.expect(TOKEN_RPAREN, "after do-while condition"); err != nil {
		return nil, err
	}
	if err := p.expect(TOKEN_SEMICOLON, "after do-while"); err != nil {
		return nil, err
	}
	return &DoWhileStmt{Pos: loc, Body: body, Condition: cond}, nil
}

func (p *Parser) parseFor(loc types.SourceLocation) (Stmt, error) {
	if err := p.expect(TOKEN_LPAREN, "after 'for'"); err != nil {
		return nil, err
	}

	var init Stmt
	switch {
	case p.match(TOKEN_SEMICOLON):
		// no init clause
	case p.isTypeAhead():
		decl, err := p.parseVarDecl() // consumes its semicolon
		if err != nil {
			return nil, err
		}
		init = decl
	default:
		initLoc := p.peek().Loc
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if err := p.expect(TOKEN_SEMICOLON, "after for init"); err != nil {
			return nil, err
		}
		init = &ExprStmt{Pos: initLoc, Expr: expr}
	}

	var cond Expr
	if p.peek().Type != TOKEN_SEMICOLON {
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		cond = expr
	}
	if err := p.expect(TOKEN_SEMICOLON, "after for condition"); err != nil {
		return nil, err
	}

	var inc Expr
	if p.peek().Type != TOKEN_RPAREN {
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		inc = expr
	}
	if err := p.expect(TOKEN_RPAREN, "after for clauses"); err != nil {
		return nil, err
	}

	body, err := p.parseStatementOrBlock()
	if err != nil {
		return nil, err
	}
	return &ForStmt{Pos: loc, Init: init, Condition: cond, Increment: inc, Body: body}, nil
}

func (p *Parser) parseSwitch(loc types.SourceLocation) (Stmt, error) {
	if err := p.expect(TOKEN_LPAREN, "after 'switch'"); err != nil {
		return nil, err
	}
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if err := p.expect(TOKEN_RPAREN, "after switch expression"); err != nil {
		return nil, err
	}
	if err := p.expect(TOKEN_LBRACE, "before switch body"); err != nil {
		return nil, err
	}

	var cases []CaseClause
	for p.peek().Type != TOKEN_RBRACE && !p.atEnd() {
		caseLoc := p.peek().Loc
		var value Expr
		switch {
		case p.match(TOKEN_CASE):
			v, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			value = v
			if err := p.expect(TOKEN_COLON, "after case value"); err != nil {
				return nil, err
			}
		case p.match(TOKEN_DEFAULT):
			if err := p.expect(TOKEN_COLON, "after 'default'"); err != nil {
				return nil, err
			}
		default:
			return nil, p.errorf(p.peek().Loc, "expected 'case' or 'default' in switch body")
		}

		var body []Stmt
		for {
			tt := p.peek().Type
			if tt == TOKEN_CASE || tt == TOKEN_DEFAULT || tt == TOKEN_RBRACE || p.atEnd() {
				break
			}
			stmt, err := p.parseStatement()
			if err != nil {
				return nil, err
			}
			body = append(body, stmt)
		}

		cases = append(cases, CaseClause{Pos: caseLoc, Value: value, Body: body})
	}

	if err := p.expect(TOKEN_RBRACE, "after switch body"); err != nil {
		return nil, err
	}
	return &SwitchStmt{Pos: loc, Expr: expr, Cases: cases}, nil
}

// parseVarDecl parses: type name[[N]]* [= init];
// Array dimensions may follow the variable name C-style.
func (p *Parser) parseVarDecl() (Stmt, error) {
	varType, err := p.parseType()
	if err != nil {
		return nil, err
	}
	loc := p.peek().Loc
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	varType, err = p.parseArraySuffix(varType)
	if err != nil {
		return nil, err
	}

	var init Expr
	if p.match(TOKEN_ASSIGN) {
		if p.peek().Type == TOKEN_LBRACE {
			expr, err := p.parseInitList()
			if err != nil {
				return nil, err
			}
			init = expr
		} else {
			expr, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			init = expr
		}
	}

	if err := p.expect(TOKEN_SEMICOLON, "after variable declaration"); err != nil {
		return nil, err
	}
	return &VarDeclStmt{Pos: loc, Name: name, Type: varType, Init: init}, nil
}

// parseInitList parses a single-level {e1, e2, ...} initializer
func (p *Parser) parseInitList() (Expr, error) {
	loc := p.peek().Loc
	if err := p.expect(TOKEN_LBRACE, "to open initializer list"); err != nil {
		return nil, err
	}

	var elems []Expr
	if p.peek().Type != TOKEN_RBRACE {
		for {
			elem, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			elems = append(elems, elem)
			if !p.match(TOKEN_COMMA) {
				break
			}
		}
	}

	if err := p.expect(TOKEN_RBRACE, "to close initializer list"); err != nil {
		return nil, err
	}
	return &InitListExpr{Pos: loc, Elems: elems}, nil
}

// parseStatementOrBlock parses a braced block or a single statement,
// for if/while/for bodies.
func (p *Parser) parseStatementOrBlock() ([]Stmt, error) {
	if p.match(TOKEN_LBRACE) {
		body, err := p.parseBlockBody()
		if err != nil {
			return nil, err
		}
		if err := p.expect(TOKEN_RBRACE, "after block"); err != nil {
			return nil, err
		}
		return body, nil
	}
	stmt, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	return []Stmt{stmt}, nil
}
