package parser

import (
	"github.com/strager/jaic/ast"
	"github.com/strager/jaic/lexer"
)

// defaultIterator names the loop variable of a for range without one.
const defaultIterator = "it"

// statement returns nil when nothing usable could be parsed.
func (p *Parser) statement() ast.Stmt {
	switch {
	case p.match(lexer.RETURN):
		return p.returnStatement()
	case p.match(lexer.IF):
		return p.ifStatement()
	case p.match(lexer.FOR):
		return p.forStatement()
	case p.match(lexer.WHILE):
		return p.whileStatement()
	case p.check(lexer.IDENT):
		return p.identStatement()
	case p.check(lexer.LBRACE):
		return p.block()
	}
	return p.expressionStatement()
}

func (p *Parser) block() *ast.Block {
	p.consume(lexer.LBRACE, "Expected '{'")
	block := ast.New(p.arena, &ast.Block{Position: p.pos()})

	for !p.check(lexer.RBRACE) && !p.check(lexer.EOF) {
		start := p.current
		if stmt := p.statement(); stmt != nil {
			block.Stmts = append(block.Stmts, stmt)
		}
		p.recover(start)
	}

	p.consume(lexer.RBRACE, "Expected '}'")
	return block
}

func (p *Parser) returnStatement() ast.Stmt {
	ret := ast.New(p.arena, &ast.Return{Position: p.pos()})
	if !p.check(lexer.SEMICOLON) {
		ret.Value = p.expression()
	}
	p.consume(lexer.SEMICOLON, "Expected ';' after return statement")
	return ret
}

// ifStatement parses `if cond stmt [else stmt]`. Parentheses around the
// condition are just a parenthesized expression.
func (p *Parser) ifStatement() ast.Stmt {
	node := ast.New(p.arena, &ast.If{Position: p.pos()})
	node.Cond = p.expression()
	node.Then = p.statement()
	if p.match(lexer.ELSE) {
		node.Else = p.statement()
	}
	return node
}

func (p *Parser) whileStatement() ast.Stmt {
	node := ast.New(p.arena, &ast.While{Position: p.pos()})
	node.Cond = p.expression()
	node.Body = p.statement()
	return node
}

// forStatement parses `for [<] [name :] start .. end stmt`.
func (p *Parser) forStatement() ast.Stmt {
	node := ast.New(p.arena, &ast.ForRange{Position: p.pos(), Iter: defaultIterator})
	if p.match(lexer.LT) {
		node.Flags |= ast.FlagReverse
	}
	if p.check(lexer.IDENT) && p.lex.Peek().Type == lexer.COLON {
		p.advance()
		node.Iter = p.previous.Lexeme
		p.advance()
	}
	node.Start = p.expression()
	p.consume(lexer.DOTDOT, "Expected '..' in for range")
	node.End = p.expression()
	node.Body = p.statement()
	return node
}

// identStatement handles statements that start with an identifier:
//
//	name : type ;
//	name := expr ;
//	name = expr ;
//	Name :: struct { ... }
//
// and otherwise rewinds and parses an expression statement.
func (p *Parser) identStatement() ast.Stmt {
	cp := p.checkpoint()
	p.advance()
	name := p.previous.Lexeme
	pos := p.pos()

	switch {
	case p.match(lexer.COLON):
		node := ast.New(p.arena, &ast.Assignment{Position: pos, Name: name, Declare: true})
		node.Type = p.typeRef("Expected type name after ':'")
		p.consume(lexer.SEMICOLON, "Expected ';' after declaration")
		return node

	case p.match(lexer.ASSIGN):
		node := ast.New(p.arena, &ast.Assignment{Position: pos, Name: name, Declare: true})
		node.Value = p.expression()
		p.consume(lexer.SEMICOLON, "Expected ';' after assignment")
		return node

	case p.match(lexer.EQUALS):
		node := ast.New(p.arena, &ast.Assignment{Position: pos, Name: name})
		node.Value = p.expression()
		p.consume(lexer.SEMICOLON, "Expected ';' after assignment")
		return node

	case p.check(lexer.PROC):
		colons := p.current
		p.restore(cp)
		if p.isStructDecl() {
			return p.structDecl()
		}
		// Parse the procedure anyway so its body is skipped as a unit.
		p.procedure()
		p.errorAt(colons, "Nested procedures are not supported")
		return nil
	}

	p.restore(cp)
	return p.expressionStatement()
}

func (p *Parser) expressionStatement() ast.Stmt {
	expr := p.expression()
	if expr == nil {
		return nil
	}
	stmt := ast.New(p.arena, &ast.ExprStmt{Position: expr.Pos(), X: expr})
	p.consume(lexer.SEMICOLON, "Expected ';' after expression")
	return stmt
}

// typeRef consumes a type name. It returns nil after reporting msg when the
// name is missing.
func (p *Parser) typeRef(msg string) *ast.TypeRef {
	if !p.consume(lexer.IDENT, msg) {
		return nil
	}
	return ast.New(p.arena, &ast.TypeRef{Position: p.pos(), Name: p.previous.Lexeme})
}
