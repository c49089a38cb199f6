package codegen

import (
	"github.com/strager/jaic/ast"
	"github.com/strager/jaic/tac"
)

// structured emits straight-line statements through one TAC builder for
// the whole body and control flow as nested macros. Each condition is
// lowered by its own builder so its temporaries start at _t0.
func (e *procEmitter) structured(body *ast.Block) {
	e.body = e.builder()
	e.stmt(body)
	e.track(e.body)
}

func (e *procEmitter) stmt(s ast.Stmt) {
	switch s := s.(type) {
	case nil:

	case *ast.Block:
		for _, child := range s.Stmts {
			e.stmt(child)
		}

	case *ast.StructDecl:
		// Emitted with the top-level structs.

	case *ast.Assignment:
		if s.IsPureDecl() {
			return
		}
		if call, ok := s.Value.(*ast.Call); ok {
			if callee, ok := call.Callee.(*ast.Identifier); ok {
				e.directCall(call, callee.Name, e.scope.Resolve(s.Name))
				return
			}
		}
		e.straight(s)

	case *ast.Return, *ast.ExprStmt:
		e.straight(s)

	case *ast.If:
		cond, _ := e.condition(s.Cond)
		e.line("    _BeginIf %s", operand(cond))
		e.stmt(s.Then)
		if s.Else != nil {
			e.line("    _Else")
			e.stmt(s.Else)
		}
		e.line("    _EndIf")

	case *ast.While:
		cond, insts := e.condition(s.Cond)
		e.line("    _BeginWhile %s", operand(cond))
		e.stmt(s.Body)
		e.flush(insts)
		e.line("    _EndWhile")

	case *ast.ForRange:
		e.forRange(s)

	default:
		e.g.errorf(s.Pos(), "unsupported statement %T", s)
	}
}

// straight lowers s through the body builder and writes what it added.
func (e *procEmitter) straight(s ast.Stmt) {
	start := len(e.body.Insts())
	e.body.LowerStatement(s)
	e.flush(e.body.Insts()[start:])
}

// directCall writes `dest := f(args)` as a call whose result is stored
// straight from rax, without a temporary for the call itself.
func (e *procEmitter) directCall(call *ast.Call, callee, dest string) {
	start := len(e.body.Insts())
	args := make([]tac.Operand, len(call.Args))
	for i, arg := range call.Args {
		args[i] = e.body.LowerExpression(arg)
	}
	e.flush(e.body.Insts()[start:])
	for _, arg := range args {
		e.line("    _Param %s", operand(arg))
	}
	e.line("    call func_%s", callee)
	e.line("    _StoreVar %s, rax", dest)
}

// condition lowers cond with a fresh builder and writes its instructions.
// The instructions are returned so loops can re-evaluate the condition.
func (e *procEmitter) condition(cond ast.Expr) (tac.Operand, []tac.Inst) {
	b := e.builder()
	op := b.LowerExpression(cond)
	e.track(b)
	e.flush(b.Insts())
	return op, b.Insts()
}

// forRange emits an inclusive range loop as a while loop over the
// iterator. The bound test is rebuilt at the end of every iteration.
func (e *procEmitter) forRange(s *ast.ForRange) {
	iter := tac.Name{Ident: e.scope.Slot(s)}
	first, last := tac.RangeBounds(s)
	cmp, step := tac.RangeOps(s.Reverse())

	start := len(e.body.Insts())
	e.body.EmitCopy(iter, e.body.LowerExpression(first))
	e.flush(e.body.Insts()[start:])

	b := e.builder()
	bound := b.LowerExpression(last)
	test := b.NewTemp()
	b.EmitBinary(test, cmp, iter, bound)
	e.track(b)
	e.flush(b.Insts())

	e.line("    _BeginWhile %s", operand(test))
	e.scope.Enter(s)
	e.stmt(s.Body)
	e.scope.Leave()

	start = len(e.body.Insts())
	e.body.EmitBinary(iter, step, iter, tac.Literal{Value: 1})
	e.flush(e.body.Insts()[start:])
	e.flush(b.Insts())
	e.line("    _EndWhile")
}
