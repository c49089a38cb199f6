package tac

import (
	"fmt"

	"github.com/strager/jaic/ast"
)

// Error is a construct the builder could not lower. Lowering continues
// after an Error with a placeholder operand.
type Error struct {
	Pos ast.Position
	Msg string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Pos.Line, e.Pos.Col, e.Msg)
}

// Builder accumulates instructions. Temporaries and labels are numbered
// from zero per builder and never reused.
type Builder struct {
	insts  []Inst
	temps  int
	labels int
	errs   []error
	scope  *Scope
}

type Option func(*Builder)

// WithScope resolves names through s. Builders of one procedure share its
// scope so every one of them sees the same iterator slots.
func WithScope(s *Scope) Option {
	return func(b *Builder) { b.scope = s }
}

func NewBuilder(opts ...Option) *Builder {
	b := &Builder{}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Builder) Insts() []Inst {
	return b.insts
}

// Temps returns how many temporaries have been minted.
func (b *Builder) Temps() int {
	return b.temps
}

func (b *Builder) Errors() []error {
	return b.errs
}

func (b *Builder) NewTemp() Temp {
	t := Temp{ID: b.temps}
	b.temps++
	return t
}

func (b *Builder) NewLabel() int {
	id := b.labels
	b.labels++
	return id
}

func (b *Builder) emit(inst Inst) {
	b.insts = append(b.insts, inst)
}

func (b *Builder) errorf(pos ast.Position, format string, args ...any) {
	b.errs = append(b.errs, &Error{Pos: pos, Msg: fmt.Sprintf(format, args...)})
}

// EmitBinary appends dest = l op r.
func (b *Builder) EmitBinary(dest Operand, op string, l, r Operand) {
	b.emit(BinOp{Dest: dest, Op: op, L: l, R: r})
}

// EmitCopy appends dest = src.
func (b *Builder) EmitCopy(dest, src Operand) {
	b.emit(Copy{Dest: dest, Src: src})
}

// LowerExpression appends the instructions computing e and returns the
// operand holding its value. Numbers and identifiers emit nothing.
func (b *Builder) LowerExpression(e ast.Expr) Operand {
	switch e := e.(type) {
	case nil:
		return Literal{}

	case *ast.Number:
		return Literal{Value: e.Value}

	case *ast.Identifier:
		return Name{Ident: b.scope.Resolve(e.Name)}

	case *ast.Unary:
		if num, ok := e.Operand.(*ast.Number); ok && e.Op == "-" {
			return Literal{Value: -num.Value}
		}
		src := b.LowerExpression(e.Operand)
		dest := b.NewTemp()
		b.emit(UnOp{Dest: dest, Op: e.Op, Src: src, Pos: e.Pos()})
		return dest

	case *ast.BinaryOp:
		left := b.LowerExpression(e.Left)
		right := b.LowerExpression(e.Right)
		dest := b.NewTemp()
		b.emit(BinOp{Dest: dest, Op: e.Op, L: left, R: right, Pos: e.Pos()})
		return dest

	case *ast.Call:
		callee, ok := e.Callee.(*ast.Identifier)
		if !ok {
			b.errorf(e.Pos(), "call through a non-identifier callee is not supported")
			return Literal{}
		}
		args := make([]Operand, len(e.Args))
		for i, arg := range e.Args {
			args[i] = b.LowerExpression(arg)
		}
		for _, arg := range args {
			b.emit(Param{Src: arg})
		}
		dest := b.NewTemp()
		b.emit(Call{Dest: dest, Func: callee.Name, Argc: len(args)})
		return dest

	case *ast.Index:
		b.errorf(e.Pos(), "array indexing is not supported")
		return Literal{}

	case *ast.FieldAccess:
		b.errorf(e.Pos(), "field access .%s is not supported", e.Field)
		return Literal{}
	}

	b.errorf(e.Pos(), "unsupported expression %T", e)
	return Literal{}
}

// LowerStatement appends the instructions for s. Control flow is
// linearized into labels and jumps.
func (b *Builder) LowerStatement(s ast.Stmt) {
	switch s := s.(type) {
	case nil:

	case *ast.Assignment:
		if s.IsPureDecl() {
			return
		}
		src := b.LowerExpression(s.Value)
		b.EmitCopy(Name{Ident: b.scope.Resolve(s.Name)}, src)

	case *ast.Return:
		var value Operand = Literal{}
		if s.Value != nil {
			value = b.LowerExpression(s.Value)
		}
		b.emit(Return{Value: value})

	case *ast.Block:
		b.LowerBody(s)

	case *ast.ExprStmt:
		b.LowerExpression(s.X)

	case *ast.If:
		b.lowerIf(s)

	case *ast.While:
		b.lowerWhile(s)

	case *ast.ForRange:
		b.lowerForRange(s)

	case *ast.StructDecl:
		// Layout only.

	default:
		b.errorf(s.Pos(), "unsupported statement %T", s)
	}
}

func (b *Builder) LowerBody(body *ast.Block) {
	if body == nil {
		return
	}
	for _, stmt := range body.Stmts {
		b.LowerStatement(stmt)
	}
}

// lowerIf produces
//
//	cond; ifnot cond goto else; then; goto end; else:; else-branch; end:
//
// without the jump and else label when there is no else branch.
func (b *Builder) lowerIf(s *ast.If) {
	cond := b.LowerExpression(s.Cond)
	elseLabel := b.NewLabel()
	b.emit(JumpIfNot{Cond: cond, Target: elseLabel})
	b.LowerStatement(s.Then)
	if s.Else == nil {
		b.emit(Label{ID: elseLabel})
		return
	}
	endLabel := b.NewLabel()
	b.emit(Jump{Target: endLabel})
	b.emit(Label{ID: elseLabel})
	b.LowerStatement(s.Else)
	b.emit(Label{ID: endLabel})
}

func (b *Builder) lowerWhile(s *ast.While) {
	top := b.NewLabel()
	end := b.NewLabel()
	b.emit(Label{ID: top})
	cond := b.LowerExpression(s.Cond)
	b.emit(JumpIfNot{Cond: cond, Target: end})
	b.LowerStatement(s.Body)
	b.emit(Jump{Target: top})
	b.emit(Label{ID: end})
}

// lowerForRange walks the inclusive range start..end, from end down to
// start when the loop is reversed. The far bound is re-evaluated on every
// iteration.
func (b *Builder) lowerForRange(s *ast.ForRange) {
	iter := Name{Ident: b.scope.Slot(s)}
	first, last := RangeBounds(s)
	cmp, step := RangeOps(s.Reverse())

	b.EmitCopy(iter, b.LowerExpression(first))
	top := b.NewLabel()
	end := b.NewLabel()
	b.emit(Label{ID: top})
	bound := b.LowerExpression(last)
	test := b.NewTemp()
	b.EmitBinary(test, cmp, iter, bound)
	b.emit(JumpIfNot{Cond: test, Target: end})
	b.scope.Enter(s)
	b.LowerStatement(s.Body)
	b.scope.Leave()
	b.EmitBinary(iter, step, iter, Literal{Value: 1})
	b.emit(Jump{Target: top})
	b.emit(Label{ID: end})
}

// RangeBounds returns the bound the iterator starts at and the bound it
// runs to. A reversed range visits the same values as the forward one.
func RangeBounds(s *ast.ForRange) (first, last ast.Expr) {
	if s.Reverse() {
		return s.End, s.Start
	}
	return s.Start, s.End
}

// RangeOps returns the bound comparison and the step operator of a for
// range loop.
func RangeOps(reverse bool) (cmp, step string) {
	if reverse {
		return ">=", "-"
	}
	return "<=", "+"
}
