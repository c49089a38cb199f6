// Package compiler runs the phases of one compilation unit: lexing,
// parsing, TAC lowering and code generation.
package compiler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/strager/jaic/asm"
	"github.com/strager/jaic/ast"
	"github.com/strager/jaic/codegen"
	"github.com/strager/jaic/config"
	"github.com/strager/jaic/lexer"
	"github.com/strager/jaic/logger"
	"github.com/strager/jaic/parser"
	"github.com/strager/jaic/tac"
)

type Option func(*Unit)

// WithName sets the file name used in log records.
func WithName(name string) Option {
	return func(u *Unit) { u.name = name }
}

// WithDiagnostics redirects parser diagnostics, which default to stdout.
func WithDiagnostics(w io.Writer) Option {
	return func(u *Unit) { u.diagnostics = w }
}

// Unit owns everything one compilation needs. Nothing is shared between
// units, and the arena is reset at the start of every phase run, so a Unit
// holds the nodes of at most one source at a time.
type Unit struct {
	cfg         *config.Config
	name        string
	diagnostics io.Writer
	arena       *ast.Arena
	gen         *codegen.Generator
	parser      *parser.Parser
}

func New(cfg *config.Config, opts ...Option) *Unit {
	if cfg == nil {
		cfg = config.Default()
	}
	u := &Unit{
		cfg:         cfg,
		name:        "<input>",
		diagnostics: os.Stdout,
		arena:       ast.NewArena(),
	}
	for _, opt := range opts {
		opt(u)
	}
	u.gen = codegen.New(
		codegen.WithLowering(cfg.Lowering()),
		codegen.WithRuntimeInclude(cfg.Runtime.Include),
		codegen.WithAssembler(cfg.NewAssembler()),
	)
	return u
}

func (u *Unit) lexerOptions() []lexer.Option {
	var opts []lexer.Option
	if u.cfg.Language.AllowBareAssign {
		opts = append(opts, lexer.AllowBareAssign())
	}
	return opts
}

// Tokens returns every token of src, EOF included.
func (u *Unit) Tokens(src string) []lexer.Token {
	defer phase("lex")()
	toks := lexer.Tokenize(src, u.lexerOptions()...)
	logger.LogLexing(u.name, len(toks))
	return toks
}

func (u *Unit) newParser(src string) *parser.Parser {
	u.arena.Reset()
	u.parser = parser.New(lexer.New(src, u.lexerOptions()...), u.arena, parser.WithOutput(u.diagnostics))
	return u.parser
}

// Parse parses src as a whole program.
func (u *Unit) Parse(src string) (*ast.Program, error) {
	defer phase("parse")()
	prog, err := u.newParser(src).ParseProgram()
	if err != nil {
		return nil, err
	}
	logger.LogParsing(u.name, u.arena.Len())
	return prog, nil
}

// ParseExpression parses src as a single expression.
func (u *Unit) ParseExpression(src string) (ast.Expr, error) {
	defer phase("parse")()
	expr, err := u.newParser(src).ParseExpression()
	if err != nil {
		return nil, err
	}
	logger.LogParsing(u.name, u.arena.Len())
	return expr, nil
}

// Partial returns the tree of the last Parse, complete or not. It is nil
// before the first Parse.
func (u *Unit) Partial() *ast.Program {
	if u.parser == nil {
		return nil
	}
	return u.parser.Partial()
}

// Diagnostics returns the parser diagnostics of the last parse.
func (u *Unit) Diagnostics() []parser.Diagnostic {
	if u.parser == nil {
		return nil
	}
	return u.parser.Diagnostics()
}

// Listing is the linear TAC of one procedure.
type Listing struct {
	Proc  string
	Insts []tac.Inst
	Temps int
}

func (l Listing) String() string {
	return tac.Format(l.Insts)
}

// TAC parses src and lowers every procedure body, nested struct
// declarations excepted, to linear TAC.
func (u *Unit) TAC(src string) ([]Listing, error) {
	prog, err := u.Parse(src)
	if err != nil {
		return nil, err
	}
	defer phase("tac")()

	var listings []Listing
	var errs []error
	for _, decl := range prog.Decls {
		proc, ok := decl.(*ast.ProcedureDecl)
		if !ok || proc.Body == nil {
			continue
		}
		params := make([]string, len(proc.Params))
		for i, p := range proc.Params {
			params[i] = p.Name
		}
		b := tac.NewBuilder(tac.WithScope(tac.NewScope(proc.Body, params...)))
		b.LowerBody(proc.Body)
		logger.LogTAC(proc.Name, len(b.Insts()), b.Temps())
		errs = append(errs, b.Errors()...)
		listings = append(listings, Listing{Proc: proc.Name, Insts: b.Insts(), Temps: b.Temps()})
	}
	if len(errs) > 0 {
		return listings, joinErrors("lowering failed", errs)
	}
	return listings, nil
}

// ExpressionTAC lowers a single expression and returns its instructions
// followed by the operand holding the result.
func (u *Unit) ExpressionTAC(src string) ([]tac.Inst, tac.Operand, error) {
	expr, err := u.ParseExpression(src)
	if err != nil {
		return nil, nil, err
	}
	b := tac.NewBuilder()
	result := b.LowerExpression(expr)
	if errs := b.Errors(); len(errs) > 0 {
		return nil, nil, joinErrors("lowering failed", errs)
	}
	return b.Insts(), result, nil
}

// Emit compiles src to assembly text. A parse failure never reaches the
// generator.
func (u *Unit) Emit(src string) (string, error) {
	prog, err := u.Parse(src)
	if err != nil {
		return "", err
	}
	defer phase("codegen")()
	return u.gen.Emit(prog)
}

// Check runs every phase up to code generation without writing anything.
func (u *Unit) Check(src string) error {
	_, err := u.Emit(src)
	return err
}

// WriteAssembly compiles src and writes it to the artifact path of out,
// which it returns.
func (u *Unit) WriteAssembly(src, out string) (string, error) {
	text, err := u.Emit(src)
	if err != nil {
		return "", err
	}
	path := asm.ArtifactPath(out)
	if err := asm.WriteArtifact(path, text); err != nil {
		return "", err
	}
	return path, nil
}

// Build compiles src, writes the artifact for out and runs the assembler
// on it, bounded by the configured assembler timeout.
func (u *Unit) Build(ctx context.Context, src, out string) (string, error) {
	start := time.Now()
	prog, err := u.Parse(src)
	if err != nil {
		logger.LogCompilerComplete(false, time.Since(start))
		return "", err
	}

	if timeout := u.cfg.Assembler.Timeout.Duration; timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	path := asm.ArtifactPath(out)
	done := phase("codegen")
	err = u.gen.Generate(ctx, prog, path)
	done()
	logger.LogCompilerComplete(err == nil, time.Since(start))
	if err != nil {
		return "", err
	}
	logger.With("unit", u.name).Info("Assembled", "artifact", path)
	return path, nil
}

// phase logs the start of name and returns a func logging its end.
func phase(name string) func() {
	logger.LogPhase(name)
	start := time.Now()
	return func() { logger.LogPhaseComplete(name, time.Since(start)) }
}

func joinErrors(what string, errs []error) error {
	return fmt.Errorf("%s: %w", what, errors.Join(errs...))
}
