// Command rucc drives the parser end to end: it reads one C99-like source
// file, runs parser.Parse, runs the whole-program checks in internal/check,
// and reports diagnostics as text or JSON. It emits no object code; this
// binary exists only to exercise the front-end.
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/bugdea1er/RuC/internal/check"
	"github.com/bugdea1er/RuC/internal/diag"
	"github.com/bugdea1er/RuC/internal/parser"
	"github.com/bugdea1er/RuC/internal/text"
	"github.com/bugdea1er/RuC/internal/workspace"
)

// Exit codes: 0 on a clean parse, 1 when any diagnostic of severity error
// was produced. There is no internal/usage-error code distinct from these
// two — a bad invocation is itself reported via stderr and treated as a
// failed run.
const (
	exitOK     = 0
	exitErrors = 1

	outputFormatText = "text"
	outputFormatJSON = "json"
)

type cliOptions struct {
	stdin          bool
	assumeFilename string
	format         string
	path           string
}

type diagnosticJSON struct {
	URI       string `json:"uri"`
	Source    string `json:"source"`
	Code      string `json:"code"`
	Severity  string `json:"severity"`
	Message   string `json:"message"`
	StartLine int    `json:"startLine"`
	StartCol  int    `json:"startCol"`
	EndLine   int    `json:"endLine"`
	EndCol    int    `json:"endCol"`
}

var defaultCheckRunner = check.NewDefaultRunner()

func main() {
	os.Exit(run(os.Stdin, os.Stdout, os.Stderr, os.Args[1:]))
}

func run(stdin io.Reader, stdout, stderr io.Writer, args []string) int {
	opts, usage, err := parseArgs(args)
	if err != nil {
		writef(stderr, "rucc: %v\n\n%s", err, usage)
		return exitErrors
	}

	path := opts.path
	if opts.stdin {
		path = ""
	}
	unit, err := workspace.Load(stdin, path, opts.assumeFilename)
	if err != nil {
		writef(stderr, "rucc: %v\n", err)
		return exitErrors
	}

	sx, ok := parser.Parse(unit.Source)
	diags := append([]diag.Diagnostic(nil), sx.Diags.Diagnostics()...)

	checkDiags, err := defaultCheckRunner.Run(sx)
	if err != nil {
		writef(stderr, "rucc: check failed: %v\n", err)
		return exitErrors
	}
	diags = append(diags, checkDiags...)

	if len(diags) == 0 {
		return exitOK
	}

	if err := writeDiagnosticsOutput(opts.format, stdout, stderr, unit, diags); err != nil {
		writef(stderr, "rucc: %v\n", err)
		return exitErrors
	}

	if !ok || len(checkDiags) > 0 {
		return exitErrors
	}
	return exitOK
}

func parseArgs(args []string) (cliOptions, string, error) {
	var opts cliOptions
	fs := flag.NewFlagSet("rucc", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.BoolVar(&opts.stdin, "stdin", false, "read input from stdin")
	fs.StringVar(&opts.assumeFilename, "assume-filename", "", "filename used for diagnostics when reading from stdin")
	fs.StringVar(&opts.format, "format", outputFormatText, "diagnostic output format: text|json")

	usage := cliUsage(fs)
	if err := fs.Parse(args); err != nil {
		return cliOptions{}, usage, err
	}

	if !isSupportedOutputFormat(opts.format) {
		return cliOptions{}, usage, errors.New("--format must be one of: text, json")
	}

	rest := fs.Args()
	switch {
	case opts.stdin && len(rest) > 0:
		return cliOptions{}, usage, errors.New("positional file path is not allowed with --stdin")
	case !opts.stdin && len(rest) == 0:
		return cliOptions{}, usage, errors.New("exactly one input file path is required (or use --stdin)")
	case !opts.stdin && len(rest) != 1:
		return cliOptions{}, usage, errors.New("compiling multiple files in one invocation is not supported")
	}
	if !opts.stdin {
		opts.path = rest[0]
	}
	return opts, usage, nil
}

func cliUsage(fs *flag.FlagSet) string {
	var b strings.Builder
	b.WriteString("Usage:\n")
	b.WriteString("  rucc [flags] path/to/file.c\n")
	b.WriteString("  rucc --stdin [--assume-filename foo.c] [flags]\n\n")
	b.WriteString("Flags:\n")
	fs.VisitAll(func(f *flag.Flag) {
		writef(&b, "  --%s\t%s\n", f.Name, f.Usage)
	})
	return b.String()
}

func isSupportedOutputFormat(v string) bool {
	switch v {
	case outputFormatText, outputFormatJSON:
		return true
	default:
		return false
	}
}

func writeDiagnosticsOutput(format string, stdout, stderr io.Writer, unit workspace.Unit, diags []diag.Diagnostic) error {
	switch format {
	case outputFormatText:
		writeDiagnostics(stderr, unit, diags)
		return nil
	case outputFormatJSON:
		return writeJSONDiagnostics(stdout, unit, diags)
	default:
		return fmt.Errorf("unsupported --format %q", format)
	}
}

func writeDiagnostics(w io.Writer, unit workspace.Unit, diags []diag.Diagnostic) {
	if len(diags) == 0 {
		return
	}
	li := text.NewLineIndex(unit.Source)
	prefix := unit.Path
	if prefix == "" {
		prefix = "rucc"
	}
	for i, d := range diags {
		if i > 0 {
			writeln(w)
		}
		writeDiagnosticHeader(w, prefix, li, d)
		writeDiagnosticSnippet(w, unit.Source, li, d)
	}
}

func writeDiagnosticHeader(w io.Writer, prefix string, li *text.LineIndex, d diag.Diagnostic) {
	loc := d.Span.String()
	if li != nil && d.Span.Start.IsValid() {
		if p, err := li.OffsetToPoint(d.Span.Start); err == nil {
			loc = fmt.Sprintf("%d:%d", p.Line+1, p.Column+1)
		}
	}
	writef(w, "%s:%s: %s: %s: %s\n", prefix, loc, d.Severity, d.Code, d.Message)
}

func writeDiagnosticSnippet(w io.Writer, src []byte, li *text.LineIndex, d diag.Diagnostic) {
	if li == nil || !d.Span.Start.IsValid() {
		return
	}
	startPoint, err := li.OffsetToPoint(d.Span.Start)
	if err != nil {
		return
	}
	lineStart, lineText, ok := sourceLineAt(src, d.Span.Start)
	if !ok {
		return
	}
	startCol := min(max(int(d.Span.Start-lineStart), 0), len(lineText))
	caretWidth := diagnosticCaretWidth(li, d, startPoint.Line, len(lineText), lineStart)
	caretPrefix := strings.Repeat(" ", startCol)

	writeln(w, string(lineText))
	writeString(w, caretPrefix)
	writeString(w, strings.Repeat("^", caretWidth))
	writeln(w)
}

func diagnosticCaretWidth(li *text.LineIndex, d diag.Diagnostic, startLine int, lineLen int, lineStart text.ByteOffset) int {
	if lineLen == 0 {
		return 1
	}
	if !d.Span.End.IsValid() || d.Span.End <= d.Span.Start {
		return 1
	}
	end := min(d.Span.End, li.SourceLen())
	endPoint, err := li.OffsetToPoint(end)
	if err != nil {
		return 1
	}
	startCol := min(max(int(d.Span.Start-lineStart), 0), lineLen)
	if endPoint.Line != startLine {
		if startCol >= lineLen {
			return 1
		}
		return lineLen - startCol
	}
	endCol := min(endPoint.Column, lineLen)
	if endCol <= startCol {
		return 1
	}
	return endCol - startCol
}

func sourceLineAt(src []byte, off text.ByteOffset) (text.ByteOffset, []byte, bool) {
	if !off.IsValid() {
		return 0, nil, false
	}
	i := int(off)
	if i < 0 || i > len(src) {
		return 0, nil, false
	}
	start := i
	for start > 0 && src[start-1] != '\n' {
		start--
	}
	end := i
	for end < len(src) && src[end] != '\n' {
		end++
	}
	if end > start && src[end-1] == '\r' {
		end--
	}
	return text.ByteOffset(start), src[start:end], true
}

func writeJSONDiagnostics(w io.Writer, unit workspace.Unit, diags []diag.Diagnostic) error {
	li := text.NewLineIndex(unit.Source)
	payload := make([]diagnosticJSON, 0, len(diags))
	for _, d := range diags {
		start, end, err := diagnosticPoints(li, d.Span)
		if err != nil {
			return err
		}
		payload = append(payload, diagnosticJSON{
			URI:       unit.Path,
			Source:    "rucc",
			Code:      string(d.Code),
			Severity:  d.Severity.String(),
			Message:   d.Message,
			StartLine: start.Line + 1,
			StartCol:  start.Column + 1,
			EndLine:   end.Line + 1,
			EndCol:    end.Column + 1,
		})
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}

func diagnosticPoints(li *text.LineIndex, sp text.Span) (text.Point, text.Point, error) {
	clamped := clampSpanToSource(sp, li.SourceLen())
	start, err := li.OffsetToPoint(clamped.Start)
	if err != nil {
		return text.Point{}, text.Point{}, err
	}
	end, err := li.OffsetToPoint(clamped.End)
	if err != nil {
		return text.Point{}, text.Point{}, err
	}
	return start, end, nil
}

func clampSpanToSource(sp text.Span, srcLen text.ByteOffset) text.Span {
	if !sp.Start.IsValid() {
		sp.Start = 0
	}
	if !sp.End.IsValid() {
		sp.End = sp.Start
	}
	if sp.Start > srcLen {
		sp.Start = srcLen
	}
	if sp.End > srcLen {
		sp.End = srcLen
	}
	if sp.End < sp.Start {
		sp.End = sp.Start
	}
	return sp
}

func writef(w io.Writer, format string, args ...any) {
	_, _ = io.WriteString(w, fmt.Sprintf(format, args...))
}

func writeln(w io.Writer, args ...any) {
	_, _ = fmt.Fprintln(w, args...)
}

func writeString(w io.Writer, s string) {
	_, _ = io.WriteString(w, s)
}
