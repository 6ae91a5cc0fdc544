// Package ast implements the AST arena (C6): an append-only sequence of
// nodes whose handles are offsets into the arena, adapted from a
// tree-sitter CST mirror design into a flat opcode tree with explicit
// children lists instead of byte ranges over an external parse tree.
//
// The tree is append-only during parsing; no node is rewritten in place
// except to patch a forward reference, such as resolving a goto's target
// label once the label is declared.
package ast

import (
	"github.com/bugdea1er/RuC/internal/lexer"
	"github.com/bugdea1er/RuC/internal/mode"
	"github.com/bugdea1er/RuC/internal/repr"
	"github.com/bugdea1er/RuC/internal/text"
)

// NodeID is a handle into the arena; it is the node's offset.
type NodeID int32

// NoNode is the sentinel "absent" node reference.
const NoNode NodeID = -1

// Opcode identifies what a node represents.
type Opcode uint16

// Opcode values covering declarations, expressions, and statements.
const (
	OpProgram Opcode = iota
	OpEnd // end-of-program marker, appended once the translation unit is fully parsed

	OpVarDecl
	OpFuncDecl
	OpParamDecl
	OpTypedefDecl
	OpStructDecl

	OpIdent
	OpIntLiteral
	OpFloatLiteral
	OpCharLiteral
	OpStringLiteral
	OpBinary
	OpUnary
	OpPostfix
	OpAssign
	OpCall
	OpIndex
	OpMember
	OpArrow
	OpCast
	OpConditional
	OpComma
	OpInitializerList

	OpCompound
	OpIf
	OpWhile
	OpDoWhile
	OpFor
	OpSwitch
	OpCase
	OpDefault
	OpBreak
	OpContinue
	OpReturn
	OpGoto
	OpLabel
	OpExprStmt
	OpEmptyStmt
)

// BlockKind distinguishes the four compound-statement scoping disciplines a
// function body can open.
type BlockKind uint8

// BlockKind values.
const (
	BlockRegular BlockKind = iota
	BlockThread
	BlockFunctionBody
	BlockForHeader
)

// Node is one entry in the arena. Which fields are meaningful depends on
// Opcode; unused fields are left at their zero value.
type Node struct {
	Opcode   Opcode
	Type     mode.Mode
	Span     text.Span
	Children []NodeID

	Repr     repr.Handle     // Ident/declarator name spelling
	Ident    ident32          // resolved identifier-table handle, where applicable
	Operator lexer.TokenKind  // Binary/Unary/Postfix/Assign operator token
	Block    BlockKind        // OpCompound's scoping discipline

	IntValue   int64
	FloatValue float64
	Text       string // exact spelling for literals needing more than a numeric value
}

// ident32 avoids importing package ident here: ast sits below ident in the
// dependency order (ident does not need AST shapes), so the handle is
// carried as a plain integer and reinterpreted by internal/parser and
// internal/check, which import both packages.
type ident32 int32

// NoIdent is the sentinel "no identifier-table entry" value for Node.Ident.
const NoIdent ident32 = -1

// Arena is the append-only AST node buffer.
type Arena struct {
	nodes []Node
}

// New returns an empty arena.
func New() *Arena {
	return &Arena{}
}

// Add appends n and returns its handle. The stored node's Ident starts as
// NoIdent; SetIdent records a resolved handle afterwards.
func (a *Arena) Add(n Node) NodeID {
	id := NodeID(len(a.nodes))
	n.Ident = NoIdent
	a.nodes = append(a.nodes, n)
	return id
}

// Len returns the number of nodes in the arena.
func (a *Arena) Len() int {
	return len(a.nodes)
}

// Node returns a pointer to the node at id, allowing in-place patching for
// forward references.
func (a *Arena) Node(id NodeID) *Node {
	return &a.nodes[id]
}

// SetIdent stores an identifier-table handle on a node using the
// arena-local ident32 representation; callers pass the underlying integer
// value of their ident.Handle.
func (a *Arena) SetIdent(id NodeID, identHandle int) {
	a.nodes[id].Ident = ident32(identHandle)
}

// IdentValue returns the integer value of a node's resolved identifier
// handle, or the value of NoIdent if unset.
func (a *Arena) IdentValue(id NodeID) int {
	return int(a.nodes[id].Ident)
}

// AppendChild appends child to id's children list.
func (a *Arena) AppendChild(id, child NodeID) {
	a.nodes[id].Children = append(a.nodes[id].Children, child)
}
