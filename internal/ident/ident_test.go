package ident

import (
	"testing"

	"github.com/bugdea1er/RuC/internal/mode"
	"github.com/bugdea1er/RuC/internal/repr"
)

func TestScopeRoundTripIsNoOp(t *testing.T) {
	t.Parallel()

	reprs := repr.New()
	ids := New(reprs)
	x := reprs.Intern([]byte("x"))

	before := ids.Lookup(x)
	ids.EnterScope()
	ids.LeaveScope()
	after := ids.Lookup(x)

	if before != after {
		t.Fatalf("Lookup(x) changed across empty scope: before=%d after=%d", before, after)
	}
}

func TestShadowingRestoration(t *testing.T) {
	t.Parallel()

	reprs := repr.New()
	ids := New(reprs)
	x := reprs.Intern([]byte("x"))

	outer, err := ids.Install(x, KindVariable, mode.Int)
	if err != nil {
		t.Fatalf("Install(outer) error = %v", err)
	}

	ids.EnterScope()
	inner, err := ids.Install(x, KindVariable, mode.Char)
	if err != nil {
		t.Fatalf("Install(inner) error = %v", err)
	}
	if got := ids.Lookup(x); got != inner {
		t.Fatalf("Lookup(x) inside inner scope = %d, want %d", got, inner)
	}
	ids.LeaveScope()

	if got := ids.Lookup(x); got != outer {
		t.Fatalf("Lookup(x) after leaving inner scope = %d, want %d", got, outer)
	}
}

func TestInstallRejectsRedeclarationInSameScope(t *testing.T) {
	t.Parallel()

	reprs := repr.New()
	ids := New(reprs)
	x := reprs.Intern([]byte("x"))

	if _, err := ids.Install(x, KindVariable, mode.Int); err != nil {
		t.Fatalf("first Install() error = %v", err)
	}
	if _, err := ids.Install(x, KindVariable, mode.Int); err != ErrRedeclaredInSameScope {
		t.Fatalf("second Install() error = %v, want ErrRedeclaredInSameScope", err)
	}
}

func TestInstallAllowsShadowingInNestedScope(t *testing.T) {
	t.Parallel()

	reprs := repr.New()
	ids := New(reprs)
	x := reprs.Intern([]byte("x"))

	if _, err := ids.Install(x, KindVariable, mode.Int); err != nil {
		t.Fatalf("outer Install() error = %v", err)
	}

	ids.EnterScope()
	if _, err := ids.Install(x, KindVariable, mode.Char); err != nil {
		t.Fatalf("shadowing Install() in nested scope error = %v", err)
	}
	ids.LeaveScope()
}

func TestDisplacementPolicyParametersPrecedeLocalsAndGlobalsResumeAfterFunction(t *testing.T) {
	t.Parallel()

	reprs := repr.New()
	ids := New(reprs)

	g1 := reprs.Intern([]byte("g1"))
	gh1, err := ids.Install(g1, KindVariable, mode.Int)
	if err != nil {
		t.Fatalf("Install(g1) error = %v", err)
	}
	if got := ids.Displacement(gh1); got != 0 {
		t.Fatalf("Displacement(g1) = %d, want 0", got)
	}

	ids.EnterFunction()
	ids.EnterScope()

	p0 := reprs.Intern([]byte("p0"))
	ph0, _ := ids.Install(p0, KindParameter, mode.Int)
	if got := ids.Displacement(ph0); got != 0 {
		t.Fatalf("Displacement(p0) = %d, want 0", got)
	}

	local := reprs.Intern([]byte("local"))
	lh, _ := ids.Install(local, KindVariable, mode.Int)
	if got := ids.Displacement(lh); got != 1 {
		t.Fatalf("Displacement(local) = %d, want 1 (after the one parameter)", got)
	}

	ids.LeaveScope()
	ids.LeaveFunction()

	g2 := reprs.Intern([]byte("g2"))
	gh2, err := ids.Install(g2, KindVariable, mode.Int)
	if err != nil {
		t.Fatalf("Install(g2) error = %v", err)
	}
	if got := ids.Displacement(gh2); got != 1 {
		t.Fatalf("Displacement(g2) = %d, want 1 (global counter resumed after function)", got)
	}
}
