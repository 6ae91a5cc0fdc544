package diag

import (
	"testing"

	"github.com/bugdea1er/RuC/internal/text"
)

func TestFailedReflectsErrorCountOnly(t *testing.T) {
	t.Parallel()

	var sink Sink
	if sink.Failed() {
		t.Fatal("Failed() = true on empty sink")
	}

	sink.Emit(SeverityWarning, text.Span{}, CodeIncompleteType, "just a warning")
	if sink.Failed() {
		t.Fatal("Failed() = true after only a warning")
	}

	sink.Emit(SeverityError, text.Span{}, CodeRedeclaration, "boom")
	if !sink.Failed() {
		t.Fatal("Failed() = false after an error diagnostic")
	}
	if sink.ErrorCount() != 1 {
		t.Fatalf("ErrorCount() = %d, want 1", sink.ErrorCount())
	}
}

func TestEmitPreservesOrder(t *testing.T) {
	t.Parallel()

	var sink Sink
	sink.Emit(SeverityError, text.Span{}, CodeRedeclaration, "first")
	sink.Emit(SeverityError, text.Span{}, CodeBreakOutsideLoopOrSwitch, "second")

	got := sink.Diagnostics()
	if len(got) != 2 || got[0].Message != "first" || got[1].Message != "second" {
		t.Fatalf("Diagnostics() = %+v, want order [first, second]", got)
	}
}
