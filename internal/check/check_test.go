package check

import (
	"testing"

	"github.com/bugdea1er/RuC/internal/parser"
)

func TestDefaultRunnerIsSilentOnAWellFormedProgram(t *testing.T) {
	t.Parallel()

	sx, ok := parser.Parse([]byte("int main() { return 0; }"))
	if !ok {
		t.Fatalf("parse reported failure for a well-formed program")
	}

	diags, err := NewDefaultRunner().Run(sx)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(diags) != 0 {
		t.Fatalf("expected no check diagnostics, got %+v", diags)
	}
}

func TestRunnerRejectsNilSyntax(t *testing.T) {
	t.Parallel()

	if _, err := NewDefaultRunner().Run(nil); err == nil {
		t.Fatalf("expected an error for a nil syntax value")
	}
}

func TestMainPresenceRuleAgreesWithAMissingMainProgram(t *testing.T) {
	t.Parallel()

	sx, ok := parser.Parse([]byte("int f() { return 0; }"))
	if !ok {
		t.Fatalf("parse reported failure for a program that simply has no main")
	}

	diags := MainPresenceRule{}.Run(sx)
	if len(diags) != 0 {
		t.Fatalf("MainPresenceRule should stay silent when it agrees with the parser; got %+v", diags)
	}
}

func TestUnresolvedGotoRuleStaysSilentOnAResolvedForwardGoto(t *testing.T) {
	t.Parallel()

	sx, ok := parser.Parse([]byte("void f(){ goto l; l: return; }"))
	if !ok {
		t.Fatalf("parse reported failure for a program with a resolved forward goto: %+v", sx.Diags.Diagnostics())
	}

	diags := UnresolvedGotoRule{}.Run(sx)
	if len(diags) != 0 {
		t.Fatalf("UnresolvedGotoRule should stay silent once the forward goto is patched; got %+v", diags)
	}
}
