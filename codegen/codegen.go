// Package codegen turns a parsed program into fasm macro assembly for the
// runtime in runtime/core.asm.
//
// Structs are laid out first, then each procedure is emitted as a frame
// header followed by its statements. Expressions always go through TAC;
// control flow is either emitted as structured _BeginIf/_BeginWhile macros
// or, in linear mode, as TAC labels and jumps.
package codegen

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/strager/jaic/asm"
	"github.com/strager/jaic/ast"
	"github.com/strager/jaic/logger"
)

const DefaultRuntimeInclude = "runtime/core.asm"

// Lowering selects how control flow reaches the output.
type Lowering string

const (
	Structured Lowering = "structured"
	Linear     Lowering = "linear"
)

func ParseLowering(s string) (Lowering, error) {
	switch Lowering(s) {
	case "", Structured:
		return Structured, nil
	case Linear:
		return Linear, nil
	}
	return "", fmt.Errorf("unknown lowering mode %q (want %q or %q)", s, Structured, Linear)
}

type Option func(*Generator)

func WithLowering(l Lowering) Option {
	return func(g *Generator) { g.lowering = l }
}

// WithRuntimeInclude sets the path in the include directive of the header.
func WithRuntimeInclude(path string) Option {
	return func(g *Generator) { g.include = path }
}

func WithAssembler(a *asm.Assembler) Option {
	return func(g *Generator) { g.assembler = a }
}

// Error is a positioned code generation failure.
type Error struct {
	Pos ast.Position
	Msg string
}

func (e *Error) Error() string {
	return fmt.Sprintf("[Line %d, Col %d] Codegen Error: %s", e.Pos.Line, e.Pos.Col, e.Msg)
}

// Generator emits one program at a time. The type registry is rebuilt on
// every Emit, so a Generator never carries layouts between units.
type Generator struct {
	lowering  Lowering
	include   string
	assembler *asm.Assembler

	types *Registry
	out   strings.Builder
	errs  []error
}

func New(opts ...Option) *Generator {
	g := &Generator{
		lowering:  Structured,
		include:   DefaultRuntimeInclude,
		assembler: asm.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Emit returns the assembly text for prog. Generation continues past
// errors so that every problem is reported; if there were any, the text is
// discarded and the error joins all of them.
func (g *Generator) Emit(prog *ast.Program) (string, error) {
	if prog == nil {
		return "", errors.New("code generation: no program")
	}
	g.types = NewRegistry()
	g.out.Reset()
	g.errs = nil

	g.line("; Generated by jaic")
	g.line("; asmsyntax=fasm")
	g.line("include '%s'", g.include)
	g.line("")

	for _, s := range collectStructs(prog) {
		g.emitStruct(s)
	}

	for _, decl := range prog.Decls {
		switch decl := decl.(type) {
		case *ast.ProcedureDecl:
			g.emitProc(decl)
		case *ast.StructDecl:
		default:
			g.errorf(decl.Pos(), "only procedure and struct declarations are allowed at top level")
		}
	}

	if len(g.errs) > 0 {
		for _, err := range g.errs {
			var cerr *Error
			if errors.As(err, &cerr) {
				logger.LogCodeGenError(cerr.Pos.Line, cerr.Pos.Col, cerr.Msg)
			}
		}
		return "", fmt.Errorf("code generation failed: %w", errors.Join(g.errs...))
	}
	return g.out.String(), nil
}

// Generate emits prog, writes it to path and assembles it.
func (g *Generator) Generate(ctx context.Context, prog *ast.Program, path string) error {
	text, err := g.Emit(prog)
	if err != nil {
		return err
	}
	logger.Info("Writing assembly", "path", path)
	if err := asm.WriteArtifact(path, text); err != nil {
		return err
	}
	return g.assembler.Run(ctx, path)
}

func (g *Generator) line(format string, args ...any) {
	fmt.Fprintf(&g.out, format+"\n", args...)
}

func (g *Generator) errorf(pos ast.Position, format string, args ...any) {
	g.errs = append(g.errs, &Error{Pos: pos, Msg: fmt.Sprintf(format, args...)})
}

func (g *Generator) sizeOf(t *ast.TypeRef) int {
	if t == nil {
		return DefaultSize
	}
	return g.types.Size(t.Name)
}

// collectStructs returns every struct declaration, nested ones included,
// in source order.
func collectStructs(prog *ast.Program) []*ast.StructDecl {
	var structs []*ast.StructDecl
	ast.Inspect(prog, func(n ast.Node) bool {
		if s, ok := n.(*ast.StructDecl); ok {
			structs = append(structs, s)
			return false
		}
		return true
	})
	return structs
}

// emitStruct registers the layout of s and writes its struc block. Scalar
// fields get a storage directive, anything else is embedded by name.
func (g *Generator) emitStruct(s *ast.StructDecl) {
	size := 0
	seen := map[string]bool{}
	for _, f := range s.Fields {
		if seen[f.Name] {
			g.errorf(f.Pos(), "duplicate field %s in struct %s", f.Name, s.Name)
		}
		seen[f.Name] = true
		size += g.sizeOf(f.Type)
	}
	if err := g.types.RegisterStruct(s.Name, size); err != nil {
		g.errorf(s.Pos(), "%v", err)
		return
	}

	g.line("struc %s", s.Name)
	g.line("{")
	for _, f := range s.Fields {
		typeName := "int"
		if f.Type != nil {
			typeName = f.Type.Name
		}
		if info, ok := g.types.Lookup(typeName); ok && info.IsScalar() {
			g.line("    .%s %s ?", f.Name, info.Directive)
		} else {
			g.line("    .%s %s", f.Name, typeName)
		}
	}
	g.line("}")
	g.line("")
}
