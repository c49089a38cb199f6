package ast

// Arena owns every node of one compilation unit. Nodes are never released
// one at a time; Reset drops the whole tree at once.
type Arena struct {
	nodes []Node
}

func NewArena() *Arena {
	return &Arena{nodes: make([]Node, 0, 256)}
}

// New records n in the arena and returns it.
func New[T Node](a *Arena, n T) T {
	a.nodes = append(a.nodes, n)
	return n
}

// Len returns the number of nodes allocated since the last Reset.
func (a *Arena) Len() int {
	return len(a.nodes)
}

// Reset releases every node. Trees built before the call must not be used
// afterwards.
func (a *Arena) Reset() {
	clear(a.nodes)
	a.nodes = a.nodes[:0]
}
