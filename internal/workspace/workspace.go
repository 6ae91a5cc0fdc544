// Package workspace is the minimal external-collaborator stand-in for a
// compilation unit: a single source file's path and bytes. A unit carries
// no output path, and the CLI reads exactly one unit per run. It is kept
// intentionally thin because the
// filesystem/workspace layer sits outside this front-end's scope — the
// CLI exists only to drive the parser end to end, not to manage a project
// graph, includes, or multi-file builds.
package workspace

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// Unit is one source file to compile: its path (for diagnostic prefixes)
// and its bytes.
type Unit struct {
	Path   string
	Source []byte
}

// ErrNoInput is returned when neither a file path nor stdin was requested.
var ErrNoInput = errors.New("workspace: no input file or --stdin given")

// Load reads a single compilation unit either from path, or from r when
// path is empty (the --stdin case), assigning assumedPath as its
// diagnostic-facing name.
func Load(r io.Reader, path, assumedPath string) (Unit, error) {
	if path == "" {
		if r == nil {
			return Unit{}, ErrNoInput
		}
		src, err := io.ReadAll(r)
		if err != nil {
			return Unit{}, fmt.Errorf("workspace: read stdin: %w", err)
		}
		name := assumedPath
		if name == "" {
			name = "stdin.c"
		}
		return Unit{Path: name, Source: src}, nil
	}

	//nolint:gosec // the CLI intentionally reads a user-provided file path.
	src, err := os.ReadFile(path)
	if err != nil {
		return Unit{}, fmt.Errorf("workspace: read %s: %w", path, err)
	}
	return Unit{Path: path, Source: src}, nil
}
