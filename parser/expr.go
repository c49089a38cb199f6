package parser

import (
	"github.com/strager/jaic/ast"
	"github.com/strager/jaic/lexer"
)

// Precedence, lowest first:
//
//	equality    == !=
//	comparison  < <= > >=
//	term        + -
//	factor      * / %
//	unary       ! -   (prefix, right-associative)
//	primary     number, identifier with postfix chain, ( expr )

func (p *Parser) expression() ast.Expr {
	return p.equality()
}

// binaryLevel parses one left-associative precedence level.
func (p *Parser) binaryLevel(next func() ast.Expr, ops ...lexer.TokenType) ast.Expr {
	expr := next()
	for p.matchAny(ops...) {
		op := p.previous.Lexeme
		pos := p.pos()
		right := next()
		expr = ast.New(p.arena, &ast.BinaryOp{Position: pos, Op: op, Left: expr, Right: right})
	}
	return expr
}

func (p *Parser) equality() ast.Expr {
	return p.binaryLevel(p.comparison, lexer.EQ, lexer.NOT_EQ)
}

func (p *Parser) comparison() ast.Expr {
	return p.binaryLevel(p.term, lexer.LT, lexer.LE, lexer.GT, lexer.GE)
}

func (p *Parser) term() ast.Expr {
	return p.binaryLevel(p.factor, lexer.PLUS, lexer.MINUS)
}

func (p *Parser) factor() ast.Expr {
	return p.binaryLevel(p.unary, lexer.STAR, lexer.SLASH, lexer.PERCENT)
}

func (p *Parser) unary() ast.Expr {
	if p.matchAny(lexer.BANG, lexer.MINUS) {
		op := p.previous.Lexeme
		pos := p.pos()
		operand := p.unary()
		return ast.New(p.arena, &ast.Unary{Position: pos, Op: op, Operand: operand})
	}
	return p.primary()
}

func (p *Parser) primary() ast.Expr {
	switch {
	case p.match(lexer.NUMBER):
		return ast.New(p.arena, &ast.Number{Position: p.pos(), Value: p.previous.Int})

	case p.match(lexer.IDENT):
		var expr ast.Expr = ast.New(p.arena, &ast.Identifier{Position: p.pos(), Name: p.previous.Lexeme})
		return p.postfix(expr)

	case p.match(lexer.LPAREN):
		expr := p.expression()
		p.consume(lexer.RPAREN, "Expected ')' after expression")
		return expr
	}

	p.error("Expected expression")
	return nil
}

// postfix applies any chain of [index], .field and (args) to expr, left to
// right.
func (p *Parser) postfix(expr ast.Expr) ast.Expr {
	for {
		switch {
		case p.match(lexer.LBRACKET):
			pos := p.pos()
			index := p.expression()
			p.consume(lexer.RBRACKET, "Expected ']' after index")
			expr = ast.New(p.arena, &ast.Index{Position: pos, Base: expr, Index: index})

		case p.match(lexer.DOT):
			pos := p.pos()
			if !p.consume(lexer.IDENT, "Expected field name after '.'") {
				return expr
			}
			expr = ast.New(p.arena, &ast.FieldAccess{Position: pos, Base: expr, Field: p.previous.Lexeme})

		case p.match(lexer.LPAREN):
			expr = p.finishCall(expr)

		default:
			return expr
		}
	}
}

func (p *Parser) finishCall(callee ast.Expr) ast.Expr {
	call := ast.New(p.arena, &ast.Call{Position: p.pos(), Callee: callee})
	if !p.check(lexer.RPAREN) {
		for {
			if arg := p.expression(); arg != nil {
				call.Args = append(call.Args, arg)
			}
			if !p.match(lexer.COMMA) {
				break
			}
		}
	}
	p.consume(lexer.RPAREN, "Expected ')' after arguments")
	return call
}

func (p *Parser) matchAny(types ...lexer.TokenType) bool {
	for _, typ := range types {
		if p.match(typ) {
			return true
		}
	}
	return false
}
