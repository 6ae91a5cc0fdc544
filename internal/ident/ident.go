// Package ident implements the identifier table (C5): identifier handles
// tagged by kind, mode, and displacement, with a scope stack that restores
// shadowed meanings in O(1) per identifier on scope exit.
package ident

import (
	"errors"

	"github.com/bugdea1er/RuC/internal/mode"
	"github.com/bugdea1er/RuC/internal/repr"
)

// Handle names an entry in the identifier table.
type Handle int32

// NoHandle is the invalid/sentinel handle; it is also the value a repr's
// current meaning holds when nothing is presently visible for it.
const NoHandle Handle = repr.NoMeaning

// Kind classifies what an identifier entry denotes.
type Kind uint8

// Kind values.
const (
	KindVariable Kind = iota
	KindLabel
	KindFunction
	KindParameter
	KindTypedefName
	KindStructTag
	KindFunctionParameter // a function passed as a parameter
)

// ErrRedeclaredInSameScope is returned by Install when repr already has an
// entry at the current scope depth.
var ErrRedeclaredInSameScope = errors.New("identifier redeclared in same scope")

type entry struct {
	repr             repr.Handle
	kind             Kind
	mode             mode.Mode
	displacement     int
	prevWithSameRepr Handle
}

type scopeMark struct {
	entryCount   int
	displacement int
}

// Table is the identifier table and its scope stack.
type Table struct {
	reprs  *repr.Table
	entries []entry
	marks   []scopeMark

	displacement       int
	savedDisplacement  int
	inFunction         bool
}

// New returns an empty identifier table backed by reprs for shadowing
// chain lookups.
func New(reprs *repr.Table) *Table {
	return &Table{reprs: reprs}
}

// Install allocates a new entry for r, threading it onto r's shadowing
// chain, and returns its handle. It fails with ErrRedeclaredInSameScope if
// r already names an entry installed since the innermost open scope.
func (t *Table) Install(r repr.Handle, kind Kind, typ mode.Mode) (Handle, error) {
	if t.declaredInCurrentScope(r) {
		return NoHandle, ErrRedeclaredInSameScope
	}

	prev := Handle(t.reprs.CurrentMeaning(r))
	h := Handle(len(t.entries))
	t.entries = append(t.entries, entry{
		repr:             r,
		kind:             kind,
		mode:             typ,
		displacement:     t.displacement,
		prevWithSameRepr: prev,
	})
	t.displacement++
	t.reprs.SetMeaning(r, int(h))
	return h, nil
}

func (t *Table) declaredInCurrentScope(r repr.Handle) bool {
	start := 0
	if len(t.marks) > 0 {
		start = t.marks[len(t.marks)-1].entryCount
	}
	for i := start; i < len(t.entries); i++ {
		if t.entries[i].repr == r {
			return true
		}
	}
	return false
}

// Repr returns the interned spelling handle for h.
func (t *Table) Repr(h Handle) repr.Handle { return t.entries[h].repr }

// Kind returns the kind of h.
func (t *Table) Kind(h Handle) Kind { return t.entries[h].kind }

// Mode returns the type of h.
func (t *Table) Mode(h Handle) mode.Mode { return t.entries[h].mode }

// SetMode updates the type of h. The parser does not call it: a function's
// identifier is installed with its full mode.
func (t *Table) SetMode(h Handle, m mode.Mode) { t.entries[h].mode = m }

// Displacement returns the back-end-visible offset of h.
func (t *Table) Displacement(h Handle) int { return t.entries[h].displacement }

// Lookup returns the identifier-table handle currently visible for r, or
// NoHandle if r is not presently in scope.
func (t *Table) Lookup(r repr.Handle) Handle {
	return Handle(t.reprs.CurrentMeaning(r))
}

// EnterScope opens a new lexical scope.
func (t *Table) EnterScope() {
	t.marks = append(t.marks, scopeMark{entryCount: len(t.entries), displacement: t.displacement})
}

// LeaveScope closes the innermost open scope, restoring the shadowing
// chain for every identifier installed since the matching EnterScope and
// rewinding the displacement counter so nested-block stack slots can be
// reused. Entries themselves are never removed: scope unwinding only
// rewinds visibility, not storage, so handles handed out to the AST while
// the scope was open remain valid afterward.
func (t *Table) LeaveScope() {
	mark := t.marks[len(t.marks)-1]
	t.marks = t.marks[:len(t.marks)-1]

	for i := len(t.entries) - 1; i >= mark.entryCount; i-- {
		e := t.entries[i]
		t.reprs.SetMeaning(e.repr, int(e.prevWithSameRepr))
	}
	t.displacement = mark.displacement
}

// EnterFunction saves the global displacement cursor and resets the
// counter to zero so that parameters, installed immediately after,
// precede the function's locals in displacement order. It does not itself
// open a scope; callers open the parameter scope with EnterScope as usual.
func (t *Table) EnterFunction() {
	t.inFunction = true
	t.savedDisplacement = t.displacement
	t.displacement = 0
}

// LeaveFunction restores the global displacement cursor saved by the
// matching EnterFunction, so subsequent top-level declarations continue
// global allocation where it left off.
func (t *Table) LeaveFunction() {
	t.inFunction = false
	t.displacement = t.savedDisplacement
}

// InFunction reports whether a function body is currently open.
func (t *Table) InFunction() bool { return t.inFunction }
