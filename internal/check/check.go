// Package check implements post-parse whole-program semantic passes: a
// second, independent verification of invariants the parser already
// enforces inline, run once over the finished Syntax value rather than
// threaded through the recursive-descent call stack.
//
// It follows the familiar Rule-interface-plus-Runner shape of a linter,
// except here the rules verify front-end invariants instead of style
// conventions, and take no context.Context — the parser this package
// inspects is itself single-threaded with no suspension points.
package check

import (
	"fmt"
	"sort"

	"github.com/bugdea1er/RuC/internal/ast"
	"github.com/bugdea1er/RuC/internal/diag"
	"github.com/bugdea1er/RuC/internal/syntax"
)

// DiagnosticSource identifies diagnostics this package emits, distinguishing
// them from diagnostics the parser itself emitted inline.
const DiagnosticSource = "rucc.check"

// Rule is a whole-program check that can emit diagnostics for a finished
// Syntax value.
type Rule interface {
	ID() string
	Run(sx *syntax.Syntax) []diag.Diagnostic
}

// Runner executes rules and returns aggregated, sorted diagnostics.
type Runner struct {
	rules []Rule
}

// NewRunner builds a runner from an explicit rule set.
func NewRunner(rules ...Rule) *Runner {
	return &Runner{rules: append([]Rule(nil), rules...)}
}

// NewDefaultRunner builds the default whole-program rule set.
func NewDefaultRunner() *Runner {
	return NewRunner(
		MainPresenceRule{},
		UnresolvedGotoRule{},
	)
}

// Run executes every configured rule against sx and returns the combined,
// deterministically ordered diagnostic list.
func (r *Runner) Run(sx *syntax.Syntax) ([]diag.Diagnostic, error) {
	if sx == nil {
		return nil, fmt.Errorf("check: nil syntax")
	}
	if r == nil || len(r.rules) == 0 {
		return nil, nil
	}

	var out []diag.Diagnostic
	for _, rule := range r.rules {
		out = append(out, rule.Run(sx)...)
	}
	sortDiagnostics(out)
	return out, nil
}

func sortDiagnostics(diags []diag.Diagnostic) {
	sort.SliceStable(diags, func(i, j int) bool {
		a, b := diags[i], diags[j]
		if a.Span.Start != b.Span.Start {
			return a.Span.Start < b.Span.Start
		}
		if a.Span.End != b.Span.End {
			return a.Span.End < b.Span.End
		}
		return a.Code < b.Code
	})
}

// MainPresenceRule cross-checks sx.WasMain against an independent scan of
// the finished tree for a function literally named "main". A missing main
// is not itself a diagnostic — a program simply has no entry point to link
// against later — so this rule only fires when the flag and the tree
// disagree: a function named main that is defined with a signature other
// than () -> int (which leaves WasMain false), or a wiring bug in the parser.
type MainPresenceRule struct{}

func (MainPresenceRule) ID() string { return "main-presence" }

func (MainPresenceRule) Run(sx *syntax.Syntax) []diag.Diagnostic {
	found := false
	for id := ast.NodeID(0); int(id) < sx.Tree.Len(); id++ {
		n := sx.Tree.Node(id)
		if n.Opcode != ast.OpFuncDecl {
			continue
		}
		if string(sx.Reprs.Spelling(n.Repr)) != "main" {
			continue
		}
		found = true
	}
	if found != sx.WasMain {
		return []diag.Diagnostic{{
			Severity: diag.SeverityError,
			Code:     diag.CodeMissingMain,
			Message:  "main-presence check disagrees with the parser's running determination of 'main'",
		}}
	}
	return nil
}

// UnresolvedGotoRule walks every OpGoto node in the finished tree and
// verifies that each one whose target link was never patched already has a
// matching diagnostic in sx.Diags — the parser emits CodeUnresolvedLabel
// itself as each function body closes, so this rule is a consistency
// re-check rather than the primary detector: it only reports when the two
// disagree, which means a wiring bug, not an ordinary unresolved-label
// program.
type UnresolvedGotoRule struct{}

func (UnresolvedGotoRule) ID() string { return "unresolved-goto" }

func (UnresolvedGotoRule) Run(sx *syntax.Syntax) []diag.Diagnostic {
	// The parser reports each unresolved label once per function however
	// many gotos name it, so unresolved gotos are counted per (function,
	// label) pair; a function's body nodes follow its FuncDecl node.
	unresolved := make(map[[2]int]bool)
	fn := ast.NoNode
	for id := ast.NodeID(0); int(id) < sx.Tree.Len(); id++ {
		n := sx.Tree.Node(id)
		if n.Opcode == ast.OpFuncDecl {
			fn = id
			continue
		}
		if n.Opcode != ast.OpGoto {
			continue
		}
		if len(n.Children) == 0 || n.Children[0] == ast.NoNode {
			unresolved[[2]int{int(fn), int(n.Repr)}] = true
		}
	}
	unresolvedCount := len(unresolved)

	reported := 0
	for _, d := range sx.Diags.Diagnostics() {
		if d.Code == diag.CodeUnresolvedLabel {
			reported++
		}
	}

	if unresolvedCount > reported {
		return []diag.Diagnostic{{
			Severity: diag.SeverityError,
			Code:     diag.CodeUnresolvedLabel,
			Message:  fmt.Sprintf("unresolved-goto check found %d unresolved goto targets but only %d were reported during parsing", unresolvedCount, reported),
		}}
	}
	return nil
}
