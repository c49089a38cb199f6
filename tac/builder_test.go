package tac

import (
	"io"
	"testing"

	"github.com/nalgeon/be"
	"github.com/strager/jaic/ast"
	"github.com/strager/jaic/lexer"
	"github.com/strager/jaic/parser"
)

func parseExpr(t *testing.T, src string) ast.Expr {
	t.Helper()
	p := parser.New(lexer.New(src), ast.NewArena(), parser.WithOutput(io.Discard))
	expr, err := p.ParseExpression()
	be.Err(t, err, nil)
	return expr
}

func parseBody(t *testing.T, src string) *ast.Block {
	t.Helper()
	p := parser.New(lexer.New("main :: () {"+src+"}"), ast.NewArena(), parser.WithOutput(io.Discard))
	prog, err := p.ParseProgram()
	be.Err(t, err, nil)
	return prog.Decls[0].(*ast.ProcedureDecl).Body
}

func lowerBody(t *testing.T, src string) *Builder {
	t.Helper()
	b := NewBuilder()
	b.LowerBody(parseBody(t, src))
	be.Equal(t, len(b.Errors()), 0)
	return b
}

func TestLowerLeaves(t *testing.T) {
	b := NewBuilder()
	be.Equal(t, b.LowerExpression(parseExpr(t, "42")), Operand(Literal{Value: 42}))
	be.Equal(t, b.LowerExpression(parseExpr(t, "x")), Operand(Name{Ident: "x"}))
	be.Equal(t, b.LowerExpression(parseExpr(t, "-7")), Operand(Literal{Value: -7}))
	be.Equal(t, len(b.Insts()), 0)
	be.Equal(t, b.Temps(), 0)
}

func TestLowerExpressions(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"10 + 5 * 2", "_t0 = 5 * 2\n_t1 = 10 + _t0\n"},
		{"(a - b) / c % 3", "_t0 = a - b\n_t1 = _t0 / c\n_t2 = _t1 % 3\n"},
		{"!x", "_t0 = !x\n"},
		{"-(a + 1)", "_t0 = a + 1\n_t1 = -_t0\n"},
		{"f()", "call f 0 -> _t0\n"},
		{"f(1, x * 2)", "_t0 = x * 2\nparam 1\nparam _t0\ncall f 2 -> _t1\n"},
		{"a == b != c", "_t0 = a == b\n_t1 = _t0 != c\n"},
	}

	for _, test := range tests {
		b := NewBuilder()
		b.LowerExpression(parseExpr(t, test.input))
		be.Equal(t, Format(b.Insts()), test.expected)
		be.Equal(t, len(b.Errors()), 0)
	}
}

func TestLowerStatements(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"x := 42;", "x = 42\n"},
		{"x: int;", ""},
		{"x := a + b;", "_t0 = a + b\nx = _t0\n"},
		{"return;", "return 0\n"},
		{"return x * 2;", "_t0 = x * 2\nreturn _t0\n"},
		{"f(1);", "param 1\ncall f 1 -> _t0\n"},
		{"{ a := 1; { b := a; } }", "a = 1\nb = a\n"},
		{"P :: struct { x: int; }", ""},
	}

	for _, test := range tests {
		b := lowerBody(t, test.input)
		be.Equal(t, Format(b.Insts()), test.expected)
	}
}

func TestLowerIf(t *testing.T) {
	b := lowerBody(t, "if x > 0 { y := 1; } else { y := 2; }")
	be.Equal(t, Format(b.Insts()), `_t0 = x > 0
ifnot _t0 goto _L0
y = 1
goto _L1
_L0:
y = 2
_L1:
`)

	b = lowerBody(t, "if x { y := 1; }")
	be.Equal(t, Format(b.Insts()), `ifnot x goto _L0
y = 1
_L0:
`)
}

func TestLowerWhile(t *testing.T) {
	b := lowerBody(t, "while i < n { i := i + 1; }")
	be.Equal(t, Format(b.Insts()), `_L0:
_t0 = i < n
ifnot _t0 goto _L1
_t1 = i + 1
i = _t1
goto _L0
_L1:
`)
}

func TestLowerForRange(t *testing.T) {
	b := lowerBody(t, "for 0..n { f(it); }")
	be.Equal(t, Format(b.Insts()), `it = 0
_L0:
_t0 = it <= n
ifnot _t0 goto _L1
param it
call f 1 -> _t1
it = it + 1
goto _L0
_L1:
`)

	b = lowerBody(t, "for <i: 1..10 {}")
	be.Equal(t, Format(b.Insts()), `i = 10
_L0:
_t0 = i >= 1
ifnot _t0 goto _L1
i = i - 1
goto _L0
_L1:
`)
}

func TestNestedControlFlowUsesDistinctLabels(t *testing.T) {
	b := lowerBody(t, "while a { if b { c := 1; } }")
	labels := map[int]bool{}
	for _, inst := range b.Insts() {
		if l, ok := inst.(Label); ok {
			be.True(t, !labels[l.ID])
			labels[l.ID] = true
		}
	}
	be.Equal(t, len(labels), 3)
}

func TestTempsAreUniqueAndIncreasing(t *testing.T) {
	b := lowerBody(t, "a := 1 + 2 * 3; b := a - 4; c := f(a + b, b * 2);")
	last := -1
	for _, inst := range b.Insts() {
		var dest Operand
		switch inst := inst.(type) {
		case BinOp:
			dest = inst.Dest
		case Call:
			dest = inst.Dest
		}
		if tmp, ok := dest.(Temp); ok {
			be.True(t, tmp.ID > last)
			last = tmp.ID
		}
	}
	be.Equal(t, b.Temps(), last+1)
}

func TestIndependentBuildersStartAtZero(t *testing.T) {
	first := NewBuilder()
	first.LowerExpression(parseExpr(t, "a + b"))
	second := NewBuilder()
	op := second.LowerExpression(parseExpr(t, "c + d"))
	be.Equal(t, op, Operand(Temp{ID: 0}))
	be.Equal(t, first.Temps(), 1)
	be.Equal(t, second.Temps(), 1)
}

func TestUnsupportedShapesAreErrors(t *testing.T) {
	tests := []struct {
		input string
		msg   string
	}{
		{"a[0]", "1:2: array indexing is not supported"},
		{"p.x", "1:2: field access .x is not supported"},
		{"a.b(1)", "1:4: call through a non-identifier callee is not supported"},
	}

	for _, test := range tests {
		b := NewBuilder()
		op := b.LowerExpression(parseExpr(t, test.input))
		be.Equal(t, op, Operand(Literal{}))
		be.Equal(t, len(b.Errors()), 1)
		be.Equal(t, b.Errors()[0].Error(), test.msg)
	}

	// Lowering keeps going after an error.
	b := NewBuilder()
	b.LowerBody(parseBody(t, "x := a[0]; y := 1;"))
	be.Equal(t, len(b.Errors()), 1)
	be.Equal(t, Format(b.Insts()), "x = 0\ny = 1\n")
}
