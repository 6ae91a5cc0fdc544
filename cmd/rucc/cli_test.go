package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRunRejectsInvalidArgs(t *testing.T) {
	t.Parallel()

	var out, errb bytes.Buffer
	code := run(strings.NewReader(""), &out, &errb, []string{"--stdin", "file.c"})
	if code != exitErrors {
		t.Fatalf("exit code = %d, want %d", code, exitErrors)
	}
	if !strings.Contains(errb.String(), "positional file path is not allowed with --stdin") {
		t.Fatalf("stderr missing validation message: %q", errb.String())
	}
}

func TestRunNoDiagnosticsExitOK(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "valid.c")
	if err := os.WriteFile(path, []byte("int main() { return 0; }\n"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	var out, errb bytes.Buffer
	code := run(strings.NewReader(""), &out, &errb, []string{path})
	if code != exitOK {
		t.Fatalf("exit code = %d, want %d; stderr=%q", code, exitOK, errb.String())
	}
	if out.Len() != 0 || errb.Len() != 0 {
		t.Fatalf("expected no output for clean file; stdout=%q stderr=%q", out.String(), errb.String())
	}
}

func TestRunIssuesExitAndTextDiagnostics(t *testing.T) {
	t.Parallel()

	var out, errb bytes.Buffer
	src := "void f() { break; }\n"
	code := run(strings.NewReader(src), &out, &errb, []string{"--stdin", "--assume-filename", "stdin.c"})
	if code != exitErrors {
		t.Fatalf("exit code = %d, want %d", code, exitErrors)
	}
	if out.Len() != 0 {
		t.Fatalf("unexpected stdout for text diagnostics: %q", out.String())
	}
	stderr := errb.String()
	if !strings.Contains(stderr, "BreakOutsideLoopOrSwitch") {
		t.Fatalf("missing break diagnostic in stderr: %q", stderr)
	}
}

func TestRunMissingMainAloneIsNotAnError(t *testing.T) {
	t.Parallel()

	var out, errb bytes.Buffer
	code := run(strings.NewReader("int f() { return 0; }\n"), &out, &errb, []string{"--stdin"})
	if code != exitOK {
		t.Fatalf("exit code = %d, want %d (a program that simply has no main is not an error); stderr=%q", code, exitOK, errb.String())
	}
}

func TestRunJSONDiagnostics(t *testing.T) {
	t.Parallel()

	var out, errb bytes.Buffer
	src := "void f() { break; }\n"
	code := run(strings.NewReader(src), &out, &errb, []string{"--stdin", "--format", "json"})
	if code != exitErrors {
		t.Fatalf("exit code = %d, want %d", code, exitErrors)
	}
	if errb.Len() != 0 {
		t.Fatalf("expected empty stderr for json mode, got %q", errb.String())
	}

	var payload []diagnosticJSON
	if err := json.Unmarshal(out.Bytes(), &payload); err != nil {
		t.Fatalf("json.Unmarshal: %v; payload=%q", err, out.String())
	}
	if len(payload) == 0 {
		t.Fatalf("expected diagnostics in json payload: %q", out.String())
	}
	if payload[0].Code == "" || payload[0].Message == "" {
		t.Fatalf("unexpected diagnostic payload: %+v", payload[0])
	}
}
