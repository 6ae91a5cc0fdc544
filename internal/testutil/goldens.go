// Package testutil provides shared helpers for repository tests.
package testutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"testing"

	"golang.org/x/tools/txtar"
)

// RepoRoot returns the repository root by walking up from this source file.
func RepoRoot() (string, error) {
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		return "", errors.New("runtime.Caller failed")
	}
	dir := filepath.Dir(file)
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("repository root not found")
		}
		dir = parent
	}
}

// MustRepoRoot returns the repository root or fails the test.
func MustRepoRoot(t testing.TB) string {
	t.Helper()
	root, err := RepoRoot()
	if err != nil {
		t.Fatalf("RepoRoot: %v", err)
	}
	return root
}

// ParserGoldenCase is a multi-part fixture bundling a source file with its
// expected diagnostics and expected table dump, packed as a single txtar
// archive so the three stay in sync under one review diff.
type ParserGoldenCase struct {
	Name        string
	Path        string
	Source      []byte
	Diagnostics []byte
	Dump        []byte
}

// ParserGoldenCases returns sorted parser fixture archives from testdata/parser.
//
// Each archive must carry an "input.c" file and may carry "diagnostics.golden"
// and "dump.golden"; a missing file leaves the matching field nil. The parser
// golden test reads a nil Diagnostics as "no diagnostics expected"; no test
// compares Dump.
func ParserGoldenCases() ([]ParserGoldenCase, error) {
	root, err := RepoRoot()
	if err != nil {
		return nil, err
	}
	dir := filepath.Join(root, "testdata", "parser")
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read parser testdata dir: %w", err)
	}

	var cases []ParserGoldenCase
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".txtar" {
			continue
		}

		path := filepath.Join(dir, e.Name())
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}

		arc := txtar.Parse(raw)
		gc := ParserGoldenCase{
			Name: strings.TrimSuffix(e.Name(), ".txtar"),
			Path: path,
		}
		for _, f := range arc.Files {
			switch f.Name {
			case "input.c":
				gc.Source = f.Data
			case "diagnostics.golden":
				gc.Diagnostics = f.Data
			case "dump.golden":
				gc.Dump = f.Data
			}
		}
		if gc.Source == nil {
			return nil, fmt.Errorf("%s: missing input.c section", path)
		}

		cases = append(cases, gc)
	}

	sort.Slice(cases, func(i, j int) bool { return cases[i].Name < cases[j].Name })
	return cases, nil
}

// ReadFile reads a fixture file or fails the test.
func ReadFile(t testing.TB, path string) []byte {
	t.Helper()
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile(%s): %v", path, err)
	}
	return b
}
