package tac

import (
	"fmt"
	"strings"
)

// Format renders insts one per line, for example
//
//	_t0 = 5 * 2
//	x = _t0
//	call f 0 -> _t1
func Format(insts []Inst) string {
	var b strings.Builder
	for _, inst := range insts {
		b.WriteString(formatInst(inst))
		b.WriteByte('\n')
	}
	return b.String()
}

func formatInst(inst Inst) string {
	switch inst := inst.(type) {
	case BinOp:
		return fmt.Sprintf("%s = %s %s %s", inst.Dest, inst.L, inst.Op, inst.R)
	case UnOp:
		return fmt.Sprintf("%s = %s%s", inst.Dest, inst.Op, inst.Src)
	case Copy:
		return fmt.Sprintf("%s = %s", inst.Dest, inst.Src)
	case Param:
		return fmt.Sprintf("param %s", inst.Src)
	case Call:
		return fmt.Sprintf("call %s %d -> %s", inst.Func, inst.Argc, inst.Dest)
	case Return:
		return fmt.Sprintf("return %s", inst.Value)
	case Label:
		return LabelName(inst.ID) + ":"
	case Jump:
		return "goto " + LabelName(inst.Target)
	case JumpIf:
		return fmt.Sprintf("if %s goto %s", inst.Cond, LabelName(inst.Target))
	case JumpIfNot:
		return fmt.Sprintf("ifnot %s goto %s", inst.Cond, LabelName(inst.Target))
	}
	return fmt.Sprintf("<unknown %T>", inst)
}
