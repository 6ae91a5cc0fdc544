package parser

import (
	"fmt"
	"strings"
	"testing"

	"github.com/bugdea1er/RuC/internal/diag"
	"github.com/bugdea1er/RuC/internal/testutil"
)

// formatDiagnostics renders diagnostics as "severity Code: message" lines,
// one per diagnostic in emission order — the format the testdata/parser
// fixtures' diagnostics.golden sections are written in.
func formatDiagnostics(diags []diag.Diagnostic) string {
	var b strings.Builder
	for _, d := range diags {
		fmt.Fprintf(&b, "%s %s: %s\n", d.Severity, d.Code, d.Message)
	}
	return b.String()
}

func TestParserGoldenCases(t *testing.T) {
	cases, err := testutil.ParserGoldenCases()
	if err != nil {
		t.Fatalf("ParserGoldenCases: %v", err)
	}
	if len(cases) == 0 {
		t.Fatalf("no parser golden cases found")
	}

	for _, gc := range cases {
		t.Run(gc.Name, func(t *testing.T) {
			sx, _ := Parse(gc.Source)
			got := formatDiagnostics(sx.Diags.Diagnostics())
			want := string(gc.Diagnostics)
			if got != want {
				t.Fatalf("diagnostics mismatch for %s:\n got: %q\nwant: %q", gc.Path, got, want)
			}
		})
	}
}

// TestParserGoldenCasesExitCodeMatchesDiagnostics re-derives the exit-code
// contract (0 on a clean parse, 1 on any diagnostic of severity error)
// directly from each fixture's expectation, independent of the diagnostic
// text comparison above.
func TestParserGoldenCasesExitCodeMatchesDiagnostics(t *testing.T) {
	cases, err := testutil.ParserGoldenCases()
	if err != nil {
		t.Fatalf("ParserGoldenCases: %v", err)
	}

	for _, gc := range cases {
		t.Run(gc.Name, func(t *testing.T) {
			_, ok := Parse(gc.Source)
			wantOK := len(strings.TrimSpace(string(gc.Diagnostics))) == 0
			if ok != wantOK {
				t.Fatalf("ok = %v, want %v (diagnostics.golden: %q)", ok, wantOK, gc.Diagnostics)
			}
		})
	}
}
