package codegen

import (
	"errors"
	"fmt"
	"strings"

	"github.com/strager/jaic/ast"
	"github.com/strager/jaic/logger"
	"github.com/strager/jaic/tac"
)

const tempSize = 8

type frameVar struct {
	name string
	size int
}

// frame lists a procedure's stack variables in declaration order:
// parameters first, then body locals. The first declaration of a name wins.
type frame struct {
	vars     []frameVar
	declared map[string]bool
}

func (f *frame) add(name string, size int) {
	if f.declared[name] {
		return
	}
	f.declared[name] = true
	f.vars = append(f.vars, frameVar{name: name, size: size})
}

func (f *frame) size() int {
	total := 0
	for _, v := range f.vars {
		total += v.size
	}
	return total
}

// collectFrame gathers every local of proc, however deeply nested. Loop
// iterators take the slots assigned by scope.
func (g *Generator) collectFrame(proc *ast.ProcedureDecl, scope *tac.Scope) *frame {
	f := &frame{declared: map[string]bool{}}
	for _, p := range proc.Params {
		f.add(p.Name, g.sizeOf(p.Type))
	}
	ast.Inspect(proc.Body, func(n ast.Node) bool {
		switch n := n.(type) {
		case *ast.StructDecl:
			return false
		case *ast.Assignment:
			if n.IsPureDecl() {
				f.add(n.Name, g.sizeOf(n.Type))
			} else if n.Declare {
				f.add(n.Name, DefaultSize)
			}
		case *ast.ForRange:
			f.add(scope.Slot(n), DefaultSize)
		}
		return true
	})

	ast.Inspect(proc.Body, func(n ast.Node) bool {
		if a, ok := n.(*ast.Assignment); ok && !a.Declare && !f.declared[a.Name] {
			g.errorf(a.Pos(), "assignment to undeclared variable %s", a.Name)
		}
		return true
	})
	return f
}

// procEmitter writes the statements of one procedure into its own buffer
// so the frame header, which depends on the temporaries used, can be
// written first.
type procEmitter struct {
	g     *Generator
	name  string
	pos   ast.Position
	out   strings.Builder
	scope *tac.Scope
	body  *tac.Builder
	temps int
}

func (g *Generator) emitProc(proc *ast.ProcedureDecl) {
	if proc.Body == nil {
		g.errorf(proc.Pos(), "procedure %s has no body", proc.Name)
		return
	}
	params := make([]string, len(proc.Params))
	for i, p := range proc.Params {
		params[i] = p.Name
	}
	scope := tac.NewScope(proc.Body, params...)
	g.checkReservedNames(proc)
	f := g.collectFrame(proc, scope)

	e := &procEmitter{g: g, name: proc.Name, pos: proc.Pos(), scope: scope}
	if g.lowering == Linear {
		e.linear(proc.Body)
	} else {
		e.structured(proc.Body)
	}

	size := f.size() + tempSize*e.temps
	g.line("_FuncBeginWithLocals func_%s, %d", proc.Name, size)
	offset := 0
	for _, v := range f.vars {
		offset += v.size
		g.line("    _DeclareVar %s, %d", v.name, v.size)
		g.line("    %s_offset = %d", v.name, offset)
	}
	for i := 0; i < e.temps; i++ {
		offset += tempSize
		g.line("    _DeclareVar _t%d, %d", i, tempSize)
		g.line("    _t%d_offset = %d", i, offset)
	}
	g.line("")
	g.out.WriteString(e.out.String())
	g.line("_FuncEnd")
	g.line("")

	logger.LogCodeGen(proc.Name, size)
}

func (e *procEmitter) line(format string, args ...any) {
	fmt.Fprintf(&e.out, format+"\n", args...)
}

func (e *procEmitter) errorf(format string, args ...any) {
	e.g.errorf(e.pos, format, args...)
}

// errorAt reports at pos, or at the procedure for synthesized code.
func (e *procEmitter) errorAt(pos ast.Position, format string, args ...any) {
	if pos == (ast.Position{}) {
		pos = e.pos
	}
	e.g.errorf(pos, format, args...)
}

// builder returns a TAC builder resolving names through the procedure's
// scope.
func (e *procEmitter) builder() *tac.Builder {
	return tac.NewBuilder(tac.WithScope(e.scope))
}

// checkReservedNames rejects source names of the form _t<N>, which would
// share frame slots with temporaries. Each name is reported once, at its
// first use.
func (g *Generator) checkReservedNames(proc *ast.ProcedureDecl) {
	seen := map[string]bool{}
	check := func(name string, pos ast.Position) {
		if tac.IsTempName(name) && !seen[name] {
			seen[name] = true
			g.errorf(pos, "identifier %s is reserved for temporaries", name)
		}
	}
	for _, p := range proc.Params {
		check(p.Name, p.Pos())
	}
	ast.Inspect(proc.Body, func(n ast.Node) bool {
		switch n := n.(type) {
		case *ast.StructDecl:
			return false
		case *ast.Identifier:
			check(n.Name, n.Pos())
		case *ast.Assignment:
			check(n.Name, n.Pos())
		case *ast.ForRange:
			check(n.Iter, n.Pos())
		}
		return true
	})
}

// track folds a finished builder into the frame: its temporaries share
// the _t slots, and its errors become generator errors.
func (e *procEmitter) track(b *tac.Builder) {
	e.temps = max(e.temps, b.Temps())
	for _, err := range b.Errors() {
		var terr *tac.Error
		if errors.As(err, &terr) {
			e.g.errorf(terr.Pos, "%s", terr.Msg)
		} else {
			e.g.errs = append(e.g.errs, err)
		}
	}
	logger.LogTAC(e.name, len(b.Insts()), b.Temps())
}

func (e *procEmitter) flush(insts []tac.Inst) {
	for _, inst := range insts {
		e.emitInst(inst)
	}
}

func (e *procEmitter) linear(body *ast.Block) {
	b := e.builder()
	b.LowerBody(body)
	e.track(b)
	e.flush(b.Insts())
}
