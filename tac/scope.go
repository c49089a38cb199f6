package tac

import (
	"fmt"
	"regexp"

	"github.com/strager/jaic/ast"
)

var tempName = regexp.MustCompile(`^_t[0-9]+$`)

// IsTempName reports whether name has the form of a temporary, _t<N>.
// Source identifiers of that form would alias the frame slots of
// temporaries.
func IsTempName(name string) bool {
	return tempName.MatchString(name)
}

// Scope maps source names to frame slots inside one procedure. A for
// range iterator that shadows a parameter, a local or the iterator of an
// enclosing loop gets a slot of its own, and references inside the loop
// body resolve to that slot.
//
// A nil Scope resolves every name to itself.
type Scope struct {
	slots map[*ast.ForRange]string
	bound []binding
}

type binding struct {
	name, slot string
}

// NewScope assigns iterator slots for body. params are the procedure's
// parameter names.
func NewScope(body *ast.Block, params ...string) *Scope {
	s := &Scope{slots: map[*ast.ForRange]string{}}
	if body == nil {
		return s
	}

	used := map[string]bool{}
	declared := map[string]bool{}
	for _, p := range params {
		used[p] = true
		declared[p] = true
	}
	ast.Inspect(body, func(n ast.Node) bool {
		switch n := n.(type) {
		case *ast.StructDecl:
			return false
		case *ast.Identifier:
			used[n.Name] = true
		case *ast.Assignment:
			used[n.Name] = true
			if n.Declare {
				declared[n.Name] = true
			}
		case *ast.ForRange:
			used[n.Iter] = true
		}
		return true
	})

	fresh := func(name string) string {
		for i := 1; ; i++ {
			slot := fmt.Sprintf("%s_%d", name, i)
			if !used[slot] {
				used[slot] = true
				return slot
			}
		}
	}

	var enclosing []string
	var walk func(ast.Stmt)
	walk = func(stmt ast.Stmt) {
		switch stmt := stmt.(type) {
		case *ast.Block:
			for _, child := range stmt.Stmts {
				walk(child)
			}
		case *ast.If:
			walk(stmt.Then)
			walk(stmt.Else)
		case *ast.While:
			walk(stmt.Body)
		case *ast.ForRange:
			slot := stmt.Iter
			if declared[slot] || contains(enclosing, slot) {
				slot = fresh(stmt.Iter)
			}
			s.slots[stmt] = slot
			enclosing = append(enclosing, stmt.Iter)
			walk(stmt.Body)
			enclosing = enclosing[:len(enclosing)-1]
		}
	}
	walk(body)
	return s
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

// Slot returns the frame variable holding the iterator of loop.
func (s *Scope) Slot(loop *ast.ForRange) string {
	if s != nil {
		if slot, ok := s.slots[loop]; ok {
			return slot
		}
	}
	return loop.Iter
}

// Enter binds the iterator of loop for its body. Every Enter is paired
// with a Leave.
func (s *Scope) Enter(loop *ast.ForRange) {
	if s == nil {
		return
	}
	s.bound = append(s.bound, binding{name: loop.Iter, slot: s.Slot(loop)})
}

func (s *Scope) Leave() {
	if s == nil || len(s.bound) == 0 {
		return
	}
	s.bound = s.bound[:len(s.bound)-1]
}

// Resolve returns the slot that name refers to at this point.
func (s *Scope) Resolve(name string) string {
	if s == nil {
		return name
	}
	for i := len(s.bound) - 1; i >= 0; i-- {
		if s.bound[i].name == name {
			return s.bound[i].slot
		}
	}
	return name
}

// Slots returns every distinct iterator slot in first-loop order.
func (s *Scope) Slots(body *ast.Block) []string {
	var slots []string
	seen := map[string]bool{}
	ast.Inspect(body, func(n ast.Node) bool {
		switch n := n.(type) {
		case *ast.StructDecl:
			return false
		case *ast.ForRange:
			if slot := s.Slot(n); !seen[slot] {
				seen[slot] = true
				slots = append(slots, slot)
			}
		}
		return true
	})
	return slots
}
