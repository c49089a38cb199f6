package ast

// Inspect traverses the tree rooted at n in depth-first order. If f returns
// false the children of that node are skipped. Optional children must be
// untyped nils.
func Inspect(n Node, f func(Node) bool) {
	if n == nil || !f(n) {
		return
	}
	switch n := n.(type) {
	case *Program:
		for _, d := range n.Decls {
			Inspect(d, f)
		}
	case *ProcedureDecl:
		for _, p := range n.Params {
			Inspect(p, f)
		}
		if n.Return != nil {
			Inspect(n.Return, f)
		}
		if n.Body != nil {
			Inspect(n.Body, f)
		}
	case *VarDecl:
		if n.Type != nil {
			Inspect(n.Type, f)
		}
	case *StructDecl:
		for _, fld := range n.Fields {
			Inspect(fld, f)
		}
	case *Field:
		if n.Type != nil {
			Inspect(n.Type, f)
		}
	case *Assignment:
		if n.Type != nil {
			Inspect(n.Type, f)
		}
		Inspect(n.Value, f)
	case *Block:
		for _, s := range n.Stmts {
			Inspect(s, f)
		}
	case *Return:
		Inspect(n.Value, f)
	case *If:
		Inspect(n.Cond, f)
		Inspect(n.Then, f)
		Inspect(n.Else, f)
	case *While:
		Inspect(n.Cond, f)
		Inspect(n.Body, f)
	case *ForRange:
		Inspect(n.Start, f)
		Inspect(n.End, f)
		Inspect(n.Body, f)
	case *ExprStmt:
		Inspect(n.X, f)
	case *BinaryOp:
		Inspect(n.Left, f)
		Inspect(n.Right, f)
	case *Unary:
		Inspect(n.Operand, f)
	case *Call:
		Inspect(n.Callee, f)
		for _, a := range n.Args {
			Inspect(a, f)
		}
	case *Index:
		Inspect(n.Base, f)
		Inspect(n.Index, f)
	case *FieldAccess:
		Inspect(n.Base, f)
	}
}
