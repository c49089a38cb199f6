// Package tac implements the three-address code used between the syntax
// tree and the macro assembly emitter.
//
// Each instruction has at most one operator and writes at most one
// destination. Control flow is explicit: labels are integer ids and jumps
// name them, so a consumer never needs the syntax tree.
package tac

import (
	"fmt"

	"github.com/strager/jaic/ast"
)

// Operand is a Literal, Name or Temp.
type Operand interface {
	operand()
	String() string
}

type Literal struct {
	Value int64
}

// Name is a source-level variable.
type Name struct {
	Ident string
}

// Temp is a compiler-generated temporary, rendered _t<ID>.
type Temp struct {
	ID int
}

func (Literal) operand() {}
func (Name) operand()    {}
func (Temp) operand()    {}

func (l Literal) String() string { return fmt.Sprintf("%d", l.Value) }
func (n Name) String() string    { return n.Ident }
func (t Temp) String() string    { return fmt.Sprintf("_t%d", t.ID) }

// Inst is a single instruction.
type Inst interface {
	inst()
}

// BinOp and UnOp keep the position of the source operator for
// diagnostics. Synthesized instructions have a zero Pos.
type BinOp struct {
	Dest Operand
	Op   string
	L    Operand
	R    Operand
	Pos  ast.Position
}

type UnOp struct {
	Dest Operand
	Op   string
	Src  Operand
	Pos  ast.Position
}

type Copy struct {
	Dest Operand
	Src  Operand
}

// Param pushes one call argument. Params for a call appear left to right
// immediately before it.
type Param struct {
	Src Operand
}

type Call struct {
	Dest Operand
	Func string
	Argc int
}

type Return struct {
	Value Operand
}

type Label struct {
	ID int
}

type Jump struct {
	Target int
}

type JumpIf struct {
	Cond   Operand
	Target int
}

type JumpIfNot struct {
	Cond   Operand
	Target int
}

func (BinOp) inst()     {}
func (UnOp) inst()      {}
func (Copy) inst()      {}
func (Param) inst()     {}
func (Call) inst()      {}
func (Return) inst()    {}
func (Label) inst()     {}
func (Jump) inst()      {}
func (JumpIf) inst()    {}
func (JumpIfNot) inst() {}

// LabelName renders a label id as _L<id>.
func LabelName(id int) string {
	return fmt.Sprintf("_L%d", id)
}
