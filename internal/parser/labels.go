package parser

import (
	"github.com/bugdea1er/RuC/internal/ast"
	"github.com/bugdea1er/RuC/internal/text"
)

// labelEntry tracks one label name's declaration state within a function
// body. A forward goto creates an entry with declared=false and queues its
// node on pending; the matching label statement patches every queued goto
// in place once it is declared.
type labelEntry struct {
	node     ast.NodeID
	declared bool
	span     text.Span   // span of the first reference, for the unresolved diagnostic
	pending  []ast.NodeID // goto nodes awaiting their Children[0] patch
}

// unresolvedLabel is one label referenced but never declared by the time
// its enclosing function body ends.
type unresolvedLabel struct {
	Repr int
	Span text.Span
}

// labelScope tracks labels within a single function body. order records
// first-reference order so unresolved() is deterministic across runs with
// identical input.
type labelScope struct {
	order  []int
	byRepr map[int]*labelEntry
}

func newLabelScope() *labelScope {
	return &labelScope{byRepr: make(map[int]*labelEntry)}
}

// reset discards all label state, called when entering a new function body.
func (l *labelScope) reset() {
	l.order = nil
	l.byRepr = make(map[int]*labelEntry)
}

func (l *labelScope) entry(reprHandle int, sp text.Span) *labelEntry {
	if e, ok := l.byRepr[reprHandle]; ok {
		return e
	}
	e := &labelEntry{span: sp}
	l.byRepr[reprHandle] = e
	l.order = append(l.order, reprHandle)
	return e
}

// reference records a goto's use of reprHandle at gotoNode and returns the
// label's AST node handle, or ast.NoNode if it has not been declared yet —
// in which case gotoNode is queued and declare will patch its Children[0]
// once the matching label is seen.
func (l *labelScope) reference(reprHandle int, sp text.Span, gotoNode ast.NodeID) ast.NodeID {
	e := l.entry(reprHandle, sp)
	if !e.declared {
		e.pending = append(e.pending, gotoNode)
		return ast.NoNode
	}
	return e.node
}

// declare marks reprHandle as declared at node, patching the Children[0] of
// every goto that referenced it before this point, and reporting whether it
// was already declared (a duplicate label within the same function).
func (l *labelScope) declare(tree *ast.Arena, reprHandle int, node ast.NodeID, sp text.Span) bool {
	e := l.entry(reprHandle, sp)
	if e.declared {
		return false
	}
	e.declared = true
	e.node = node
	for _, g := range e.pending {
		tree.Node(g).Children[0] = node
	}
	e.pending = nil
	return true
}

// unresolved returns, in first-reference order, every label referenced but
// never declared.
func (l *labelScope) unresolved() []unresolvedLabel {
	var out []unresolvedLabel
	for _, r := range l.order {
		e := l.byRepr[r]
		if !e.declared {
			out = append(out, unresolvedLabel{Repr: r, Span: e.span})
		}
	}
	return out
}
