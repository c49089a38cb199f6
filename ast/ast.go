// Package ast declares the syntax tree produced by the parser.
//
// Every kind of node is its own struct. Statements implement Stmt and
// expressions implement Expr; both embed Position, which the parser fills in
// from the token consumed just before the node was built.
package ast

// Position is a 1-based source location.
type Position struct {
	Line int
	Col  int
}

func (p Position) Pos() Position { return p }

// Node is implemented by every syntax tree node.
type Node interface {
	Pos() Position
}

type Stmt interface {
	Node
	stmtNode()
}

type Expr interface {
	Node
	exprNode()
}

// Flags holds per-node modifier bits.
type Flags uint8

const (
	// FlagReverse marks a for-range loop that counts down.
	FlagReverse Flags = 1 << iota
)

// Program is the root of a compilation unit. Decls normally holds only
// procedure and struct declarations.
type Program struct {
	Position
	Decls []Stmt
}

// ProcedureDecl is `name :: (params) -> ret { body }`. Return is nil when
// the arrow clause is absent.
type ProcedureDecl struct {
	Position
	Name   string
	Params []*VarDecl
	Return *TypeRef
	Body   *Block
}

// VarDecl is a procedure parameter, `name: type`.
type VarDecl struct {
	Position
	Name string
	Type *TypeRef
}

type StructDecl struct {
	Position
	Name   string
	Fields []*Field
}

type Field struct {
	Position
	Name string
	Type *TypeRef
}

// Assignment covers the three identifier-led forms:
//
//	name : type;   Declare, Type set, Value nil
//	name := expr;  Declare, Value set
//	name = expr;   Value set
type Assignment struct {
	Position
	Name    string
	Value   Expr
	Type    *TypeRef
	Declare bool
}

// IsPureDecl reports whether the assignment only declares storage.
func (a *Assignment) IsPureDecl() bool { return a.Value == nil }

type Block struct {
	Position
	Stmts []Stmt
}

// Return has a nil Value for a bare `return;`.
type Return struct {
	Position
	Value Expr
}

type If struct {
	Position
	Cond Expr
	Then Stmt
	Else Stmt
}

type While struct {
	Position
	Cond Expr
	Body Stmt
}

// ForRange is `for [<] [iter:] start..end body`. The range is inclusive.
type ForRange struct {
	Position
	Iter  string
	Start Expr
	End   Expr
	Body  Stmt
	Flags Flags
}

func (f *ForRange) Reverse() bool { return f.Flags&FlagReverse != 0 }

type ExprStmt struct {
	Position
	X Expr
}

type BinaryOp struct {
	Position
	Op    string
	Left  Expr
	Right Expr
}

// Unary is a prefix `!` or `-`.
type Unary struct {
	Position
	Op      string
	Operand Expr
}

type Call struct {
	Position
	Callee Expr
	Args   []Expr
}

type Index struct {
	Position
	Base  Expr
	Index Expr
}

type FieldAccess struct {
	Position
	Base  Expr
	Field string
}

type Number struct {
	Position
	Value int64
}

type Identifier struct {
	Position
	Name string
}

type TypeRef struct {
	Position
	Name string
}

func (*ProcedureDecl) stmtNode() {}
func (*StructDecl) stmtNode()    {}
func (*Assignment) stmtNode()    {}
func (*Block) stmtNode()         {}
func (*Return) stmtNode()        {}
func (*If) stmtNode()            {}
func (*While) stmtNode()         {}
func (*ForRange) stmtNode()      {}
func (*ExprStmt) stmtNode()      {}

func (*BinaryOp) exprNode()    {}
func (*Unary) exprNode()       {}
func (*Call) exprNode()        {}
func (*Index) exprNode()       {}
func (*FieldAccess) exprNode() {}
func (*Number) exprNode()      {}
func (*Identifier) exprNode()  {}
