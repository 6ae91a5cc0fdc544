// Package syntax defines the Syntax aggregate: the four interlinked tables
// (representations, identifiers, modes) plus the AST arena and the scalar
// flags a successful parse produces, adapted from the reference syntax
// structure's field list (syntax.h: funcnum, maxdisplg, wasmain, startmode,
// anstdispl; mem/pc/iniprocs/procd are back-end-only and are not carried
// here, since this front end stops at a populated AST).
package syntax

import (
	"github.com/bugdea1er/RuC/internal/ast"
	"github.com/bugdea1er/RuC/internal/diag"
	"github.com/bugdea1er/RuC/internal/ident"
	"github.com/bugdea1er/RuC/internal/mode"
	"github.com/bugdea1er/RuC/internal/repr"
)

// Syntax is the populated program representation handed to the back-end on
// a successful parse, or returned to the caller for inspection on failure.
type Syntax struct {
	Reprs *repr.Table
	Idents *ident.Table
	Modes *mode.Table
	Tree  *ast.Arena
	Diags *diag.Sink

	// FuncNum is the count of functions declared so far, used to assign
	// each function a back-end-visible function number.
	FuncNum int
	// MaxDisplg is the high-water mark of the local displacement counter
	// across all function bodies parsed, i.e. the largest stack frame any
	// function in the translation unit will need.
	MaxDisplg int
	// WasMain reports whether an identifier named "main" of function kind
	// with signature () -> int was defined.
	WasMain bool
	// StartMode is the mode handle of main's signature, once found.
	StartMode mode.Mode
	// AnstDispl is a scratch slot used while parsing initializer lists to
	// thread the "current aggregate displacement" through recursive
	// initializer-shape checks without a parameter on every call.
	AnstDispl int
}

// Create returns a freshly initialized, empty Syntax aggregate — the
// reimplementation of sx_create.
func Create() *Syntax {
	reprs := repr.New()
	return &Syntax{
		Reprs:     reprs,
		Idents:    ident.New(reprs),
		Modes:     mode.New(),
		Tree:      ast.New(),
		Diags:     &diag.Sink{},
		StartMode: mode.Void,
	}
}

// Failed reports whether the diagnostic sink recorded any error.
func (sx *Syntax) Failed() bool {
	return sx.Diags.Failed()
}
