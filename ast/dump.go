package ast

import "strconv"

// Dump renders n as an S-expression, e.g.
//
//	(binary "+" (number 10) (binary "*" (number 5) (number 2)))
//
// A nil child renders as the symbol nil.
func Dump(n Node) string {
	if n == nil {
		return "nil"
	}
	switch n := n.(type) {
	case *Program:
		result := "(program"
		for _, d := range n.Decls {
			result += " " + Dump(d)
		}
		return result + ")"
	case *ProcedureDecl:
		result := "(proc " + quote(n.Name) + " (params"
		for _, p := range n.Params {
			result += " " + Dump(p)
		}
		result += ")"
		if n.Return != nil {
			result += " " + Dump(n.Return)
		} else {
			result += " nil"
		}
		if n.Body != nil {
			result += " " + Dump(n.Body)
		} else {
			result += " nil"
		}
		return result + ")"
	case *VarDecl:
		return "(param " + quote(n.Name) + " " + dumpType(n.Type) + ")"
	case *StructDecl:
		result := "(struct " + quote(n.Name)
		for _, f := range n.Fields {
			result += " " + Dump(f)
		}
		return result + ")"
	case *Field:
		return "(field " + quote(n.Name) + " " + dumpType(n.Type) + ")"
	case *Assignment:
		switch {
		case n.IsPureDecl():
			return "(declare " + quote(n.Name) + " " + dumpType(n.Type) + ")"
		case n.Declare:
			return "(define " + quote(n.Name) + " " + Dump(n.Value) + ")"
		default:
			return "(assign " + quote(n.Name) + " " + Dump(n.Value) + ")"
		}
	case *Block:
		result := "(block"
		for _, s := range n.Stmts {
			result += " " + Dump(s)
		}
		return result + ")"
	case *Return:
		if n.Value == nil {
			return "(return)"
		}
		return "(return " + Dump(n.Value) + ")"
	case *If:
		result := "(if " + Dump(n.Cond) + " " + Dump(n.Then)
		if n.Else != nil {
			result += " " + Dump(n.Else)
		}
		return result + ")"
	case *While:
		return "(while " + Dump(n.Cond) + " " + Dump(n.Body) + ")"
	case *ForRange:
		head := "(for "
		if n.Reverse() {
			head = "(for-reverse "
		}
		return head + quote(n.Iter) + " " + Dump(n.Start) + " " + Dump(n.End) + " " + Dump(n.Body) + ")"
	case *ExprStmt:
		return "(expr " + Dump(n.X) + ")"
	case *BinaryOp:
		return "(binary " + quote(n.Op) + " " + Dump(n.Left) + " " + Dump(n.Right) + ")"
	case *Unary:
		return "(unary " + quote(n.Op) + " " + Dump(n.Operand) + ")"
	case *Call:
		result := "(call " + Dump(n.Callee)
		for _, a := range n.Args {
			result += " " + Dump(a)
		}
		return result + ")"
	case *Index:
		return "(index " + Dump(n.Base) + " " + Dump(n.Index) + ")"
	case *FieldAccess:
		return "(dot " + Dump(n.Base) + " " + quote(n.Field) + ")"
	case *Number:
		return "(number " + strconv.FormatInt(n.Value, 10) + ")"
	case *Identifier:
		return "(ident " + quote(n.Name) + ")"
	case *TypeRef:
		return dumpType(n)
	}
	return "(unknown)"
}

func dumpType(t *TypeRef) string {
	if t == nil {
		return "nil"
	}
	return "(type " + quote(t.Name) + ")"
}

func quote(s string) string {
	return "\"" + s + "\""
}
