package ast

import (
	"testing"

	"github.com/bugdea1er/RuC/internal/mode"
)

func TestAddReturnsSequentialOffsets(t *testing.T) {
	t.Parallel()

	a := New()
	id0 := a.Add(Node{Opcode: OpProgram})
	id1 := a.Add(Node{Opcode: OpVarDecl, Type: mode.Int})
	id2 := a.Add(Node{Opcode: OpEnd})

	if id0 != 0 || id1 != 1 || id2 != 2 {
		t.Fatalf("handles = %d,%d,%d, want 0,1,2", id0, id1, id2)
	}
	if a.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", a.Len())
	}
}

func TestAppendChildAndInPlacePatch(t *testing.T) {
	t.Parallel()

	a := New()
	label := a.Add(Node{Opcode: OpLabel})
	goTo := a.Add(Node{Opcode: OpGoto, Children: []NodeID{NoNode}})

	// Simulate patching a forward goto target once the label is seen.
	a.Node(goTo).Children[0] = label

	if got := a.Node(goTo).Children[0]; got != label {
		t.Fatalf("patched child = %d, want %d", got, label)
	}
}

func TestSetIdentAndIdentValueRoundTrip(t *testing.T) {
	t.Parallel()

	a := New()
	id := a.Add(Node{Opcode: OpIdent})

	if got := a.IdentValue(id); got != int(NoIdent) {
		t.Fatalf("IdentValue() on fresh node = %d, want %d", got, NoIdent)
	}

	a.SetIdent(id, 42)
	if got := a.IdentValue(id); got != 42 {
		t.Fatalf("IdentValue() = %d, want 42", got)
	}
}

func TestAppendChildGrowsChildrenInOrder(t *testing.T) {
	t.Parallel()

	a := New()
	compound := a.Add(Node{Opcode: OpCompound, Block: BlockFunctionBody})
	c1 := a.Add(Node{Opcode: OpReturn})
	c2 := a.Add(Node{Opcode: OpExprStmt})

	a.AppendChild(compound, c1)
	a.AppendChild(compound, c2)

	got := a.Node(compound).Children
	if len(got) != 2 || got[0] != c1 || got[1] != c2 {
		t.Fatalf("Children = %v, want [%d %d]", got, c1, c2)
	}
}
