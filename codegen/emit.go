package codegen

import (
	"fmt"

	"github.com/strager/jaic/tac"
)

var binaryMacros = map[string]string{
	"+":  "_Add",
	"-":  "_Sub",
	"*":  "_Mul",
	"/":  "_Div",
	"%":  "_Mod",
	"==": "_Equal",
	"!=": "_NotEqual",
	"<":  "_Less",
	"<=": "_LessEqual",
	">":  "_Greater",
	">=": "_GreaterEqual",
}

var unaryMacros = map[string]string{
	"-": "_Neg",
	"!": "_Not",
}

// operand renders a TAC operand as a macro argument: _Num for literals,
// <_Var name> for everything stored in the frame.
func operand(op tac.Operand) string {
	if lit, ok := op.(tac.Literal); ok {
		return fmt.Sprintf("_Num %d", lit.Value)
	}
	return fmt.Sprintf("<_Var %s>", op)
}

func (e *procEmitter) emitInst(inst tac.Inst) {
	switch inst := inst.(type) {
	case tac.BinOp:
		macro, ok := binaryMacros[inst.Op]
		if !ok {
			e.errorAt(inst.Pos, "unsupported binary operator %q", inst.Op)
			return
		}
		e.line("    _Assign %s, <%s %s, %s>", inst.Dest, macro, operand(inst.L), operand(inst.R))

	case tac.UnOp:
		macro, ok := unaryMacros[inst.Op]
		if !ok {
			e.errorAt(inst.Pos, "unsupported unary operator %q", inst.Op)
			return
		}
		e.line("    _Assign %s, <%s %s>", inst.Dest, macro, operand(inst.Src))

	case tac.Copy:
		e.line("    _Assign %s, %s", inst.Dest, operand(inst.Src))

	case tac.Param:
		e.line("    _Param %s", operand(inst.Src))

	case tac.Call:
		e.line("    call func_%s", inst.Func)
		e.line("    _StoreVar %s, rax", inst.Dest)

	case tac.Return:
		e.line("    _Return %s", operand(inst.Value))

	case tac.Label:
		e.line("    _Label %s", tac.LabelName(inst.ID))

	case tac.Jump:
		e.line("    _Jump %s", tac.LabelName(inst.Target))

	case tac.JumpIf:
		e.line("    _JumpIf %s, %s", operand(inst.Cond), tac.LabelName(inst.Target))

	case tac.JumpIfNot:
		e.line("    _JumpIfNot %s, %s", operand(inst.Cond), tac.LabelName(inst.Target))

	default:
		e.errorf("unsupported instruction %T", inst)
	}
}
