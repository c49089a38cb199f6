// Package parser builds an ast.Program from a token stream.
//
// The parser is recursive descent with one token of lookahead. Errors put it
// into panic mode: the first error is reported and every later one is
// swallowed until the parser resynchronizes at a statement boundary.
package parser

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/strager/jaic/ast"
	"github.com/strager/jaic/lexer"
)

type Option func(*Parser)

// WithOutput sends diagnostics to w instead of standard output.
func WithOutput(w io.Writer) Option {
	return func(p *Parser) { p.out = w }
}

type Parser struct {
	lex   *lexer.Lexer
	arena *ast.Arena
	out   io.Writer

	current  lexer.Token
	previous lexer.Token

	panicMode bool
	hadError  bool
	diags     []Diagnostic

	partial *ast.Program
}

// checkpoint is a snapshot for speculative parsing. It deliberately leaves
// out panic and diagnostic state so a rewind never un-reports an error.
type checkpoint struct {
	lex      lexer.State
	current  lexer.Token
	previous lexer.Token
}

// New returns a parser primed with the first token of lex.
func New(lex *lexer.Lexer, arena *ast.Arena, opts ...Option) *Parser {
	p := &Parser{lex: lex, arena: arena, out: os.Stdout}
	for _, opt := range opts {
		opt(p)
	}
	p.advance()
	return p
}

// ParseProgram parses declarations until end of input. If any error was
// reported the result is nil and the error joins every diagnostic; Partial
// still returns whatever tree was built.
func (p *Parser) ParseProgram() (*ast.Program, error) {
	prog := ast.New(p.arena, &ast.Program{Position: ast.Position{Line: 1, Col: 1}})
	p.partial = prog

	for !p.check(lexer.EOF) {
		start := p.current
		if decl := p.declaration(); decl != nil {
			prog.Decls = append(prog.Decls, decl)
		}
		p.recover(start)
	}

	if p.hadError {
		return nil, p.err()
	}
	return prog, nil
}

// ParseExpression parses a single expression that must span the whole input.
func (p *Parser) ParseExpression() (ast.Expr, error) {
	expr := p.expression()
	if !p.check(lexer.EOF) {
		p.errorAt(p.current, "Expected end of expression")
	}
	if p.hadError {
		return nil, p.err()
	}
	return expr, nil
}

// Partial returns the program from the last ParseProgram call even when it
// failed. Callers must consult HadError before trusting it.
func (p *Parser) Partial() *ast.Program {
	return p.partial
}

func (p *Parser) HadError() bool {
	return p.hadError
}

func (p *Parser) Diagnostics() []Diagnostic {
	return p.diags
}

func (p *Parser) err() error {
	errs := make([]error, len(p.diags))
	for i, d := range p.diags {
		errs[i] = d
	}
	return fmt.Errorf("parse failed: %w", errors.Join(errs...))
}

func (p *Parser) advance() {
	p.previous = p.current
	for {
		p.current = p.lex.Next()
		if p.current.Type != lexer.ERROR {
			break
		}
		p.errorAt(p.current, p.current.Lexeme)
	}
}

func (p *Parser) check(typ lexer.TokenType) bool {
	return p.current.Type == typ
}

func (p *Parser) match(typ lexer.TokenType) bool {
	if !p.check(typ) {
		return false
	}
	p.advance()
	return true
}

// consume advances past a token of type typ or reports msg. It reports
// whether the token was there.
func (p *Parser) consume(typ lexer.TokenType, msg string) bool {
	if p.check(typ) {
		p.advance()
		return true
	}
	p.error(msg)
	return false
}

// error reports msg against the previous token.
func (p *Parser) error(msg string) {
	p.errorAt(p.previous, msg)
}

func (p *Parser) errorAt(tok lexer.Token, msg string) {
	if p.panicMode {
		return
	}
	p.panicMode = true
	p.hadError = true

	d := newDiagnostic(tok, msg)
	p.diags = append(p.diags, d)
	fmt.Fprintln(p.out, d.Error())
}

// synchronize leaves panic mode and skips tokens up to a plausible
// statement boundary: just after a ';' or at an identifier, a statement
// keyword or a closing brace.
func (p *Parser) synchronize() {
	p.panicMode = false

	for !p.check(lexer.EOF) {
		if p.previous.Type == lexer.SEMICOLON {
			return
		}
		switch p.current.Type {
		case lexer.IDENT, lexer.RBRACE, lexer.RETURN, lexer.IF, lexer.WHILE, lexer.FOR:
			return
		}
		p.advance()
	}
}

// recover runs after each statement or declaration. Besides synchronizing
// it guarantees the loop consumed at least one token since start.
func (p *Parser) recover(start lexer.Token) {
	if !p.panicMode {
		return
	}
	p.synchronize()
	if p.current == start && !p.check(lexer.EOF) {
		p.advance()
	}
}

func (p *Parser) checkpoint() checkpoint {
	return checkpoint{lex: p.lex.Checkpoint(), current: p.current, previous: p.previous}
}

func (p *Parser) restore(cp checkpoint) {
	p.lex.Restore(cp.lex)
	p.current = cp.current
	p.previous = cp.previous
}

// pos is the position of the most recently consumed token.
func (p *Parser) pos() ast.Position {
	return ast.Position{Line: p.previous.Line, Col: p.previous.Col}
}
