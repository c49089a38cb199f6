package parser

import (
	"github.com/strager/jaic/ast"
	"github.com/strager/jaic/lexer"
)

// declaration parses a top-level item. `name ::` starts a procedure or a
// struct; anything else is parsed as a statement and left for later phases
// to reject.
func (p *Parser) declaration() ast.Stmt {
	if p.check(lexer.IDENT) && p.lex.Peek().Type == lexer.PROC {
		if p.isStructDecl() {
			return p.structDecl()
		}
		return p.procedure()
	}
	return p.statement()
}

// isStructDecl looks past `name ::` for the struct keyword and rewinds.
func (p *Parser) isStructDecl() bool {
	cp := p.checkpoint()
	defer p.restore(cp)
	p.advance()
	p.advance()
	return p.check(lexer.STRUCT)
}

// procedure parses `name :: (params) [-> type] { body }`.
func (p *Parser) procedure() ast.Stmt {
	p.consume(lexer.IDENT, "Expected procedure name")
	name := p.previous.Lexeme
	p.consume(lexer.PROC, "Expected '::'")
	p.consume(lexer.LPAREN, "Expected '(' after '::'")

	proc := ast.New(p.arena, &ast.ProcedureDecl{Position: p.pos(), Name: name})

	if !p.check(lexer.RPAREN) {
		for {
			if !p.consume(lexer.IDENT, "Expected parameter name") {
				break
			}
			param := ast.New(p.arena, &ast.VarDecl{Position: p.pos(), Name: p.previous.Lexeme})
			if p.match(lexer.COLON) {
				param.Type = p.typeRef("Expected parameter type after ':'")
			}
			proc.Params = append(proc.Params, param)
			if !p.match(lexer.COMMA) {
				break
			}
		}
	}
	p.consume(lexer.RPAREN, "Expected ')' after parameters")

	if p.match(lexer.ARROW) {
		proc.Return = p.typeRef("Expected return type after '->'")
	}

	if !p.check(lexer.LBRACE) {
		p.errorAt(p.current, "Expected '{' before procedure body")
		return proc
	}
	proc.Body = p.block()
	return proc
}

// structDecl parses `Name :: struct { field: type; ... }` with an optional
// trailing ';'.
func (p *Parser) structDecl() ast.Stmt {
	p.consume(lexer.IDENT, "Expected struct name")
	name := p.previous.Lexeme
	p.consume(lexer.PROC, "Expected '::'")
	p.consume(lexer.STRUCT, "Expected 'struct'")

	decl := ast.New(p.arena, &ast.StructDecl{Position: p.pos(), Name: name})
	p.consume(lexer.LBRACE, "Expected '{' after 'struct'")

	for !p.check(lexer.RBRACE) && !p.check(lexer.EOF) {
		if !p.consume(lexer.IDENT, "Expected field name") {
			break
		}
		field := ast.New(p.arena, &ast.Field{Position: p.pos(), Name: p.previous.Lexeme})
		p.consume(lexer.COLON, "Expected ':' after field name")
		field.Type = p.typeRef("Expected field type")
		p.consume(lexer.SEMICOLON, "Expected ';' after field")
		decl.Fields = append(decl.Fields, field)
		if p.panicMode {
			break
		}
	}

	p.consume(lexer.RBRACE, "Expected '}' after struct fields")
	p.match(lexer.SEMICOLON)
	return decl
}
