package extractor

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/crossdocs/xbridl/internal/outline"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

const basicDoc = `Namespace docs.

.. xbr:namespace:: com.example.basic

    1.0 first

        1.0.0 nested

    1.1 second
`

func TestExtract_TwoFilesTwoEntries(t *testing.T) {
	dir := t.TempDir()
	p1 := writeFile(t, dir, "one.rst", basicDoc)
	p2 := writeFile(t, dir, "sub/two.rst", ".. xbr:interface:: IThing\n\n    method_a\n")

	ex := New(Config{}, testLogger(), nil, nil)
	res, err := ex.Extract(dir, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(res.Files) != 2 {
		t.Fatalf("expected 2 files in result, got %d", len(res.Files))
	}
	if len(res.Files[p1]) != 1 || len(res.Files[p2]) != 1 {
		t.Errorf("expected one block per file, got %d and %d", len(res.Files[p1]), len(res.Files[p2]))
	}
	if len(res.Errors) != 0 {
		t.Errorf("expected no errors, got %v", res.Errors)
	}
}

func TestExtract_FileWithNoDirectivesOmitted(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "plain.rst", "Just prose.\n\n    Indented quote.\n")
	matched := writeFile(t, dir, "match.rst", basicDoc)

	ex := New(Config{}, testLogger(), nil, nil)
	res, err := ex.Extract(dir, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(res.Files) != 1 {
		t.Fatalf("expected 1 file in result, got %d", len(res.Files))
	}
	if _, ok := res.Files[matched]; !ok {
		t.Error("expected the directive-bearing file to be present")
	}
}

func TestExtract_UnrecognizedExtensionsSkipped(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "doc.txt", basicDoc)

	ex := New(Config{}, testLogger(), nil, nil)
	res, err := ex.Extract(dir, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Files) != 0 {
		t.Errorf("expected .txt files to be skipped, got %d entries", len(res.Files))
	}

	// Same tree with .txt registered.
	ex = New(Config{Extensions: []string{".txt"}}, testLogger(), nil, nil)
	res, err = ex.Extract(dir, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Files) != 1 {
		t.Errorf("expected 1 entry with custom extensions, got %d", len(res.Files))
	}
}

func TestExtract_AllowListRestrictsScan(t *testing.T) {
	dir := t.TempDir()
	p1 := writeFile(t, dir, "one.rst", basicDoc)
	writeFile(t, dir, "two.rst", basicDoc)

	ex := New(Config{}, testLogger(), nil, nil)
	res, err := ex.Extract(dir, []string{p1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(res.Files) != 1 {
		t.Fatalf("expected 1 file with allow-list, got %d", len(res.Files))
	}
	if _, ok := res.Files[p1]; !ok {
		t.Error("expected allow-listed file in result")
	}
}

func TestExtract_BlockErrorIsolated(t *testing.T) {
	dir := t.TempDir()
	// First block is malformed (3-space indent), second is fine.
	content := ".. xbr:namespace:: com.bad\n\n   misaligned\nEnd.\n.. xbr:interface:: IGood\n\n    fine\n"
	path := writeFile(t, dir, "mixed.rst", content)

	ex := New(Config{}, testLogger(), nil, nil)
	res, err := ex.Extract(dir, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(res.Errors) != 1 {
		t.Fatalf("expected 1 file error, got %d", len(res.Errors))
	}
	if !errors.Is(res.Errors[0].Err, outline.ErrIndentNotAligned) {
		t.Errorf("expected ErrIndentNotAligned, got %v", res.Errors[0].Err)
	}

	var perr *outline.ParseError
	if !errors.As(res.Errors[0].Err, &perr) {
		t.Fatalf("expected *ParseError, got %T", res.Errors[0].Err)
	}
	if perr.File != path {
		t.Errorf("expected error to cite %s, got %s", path, perr.File)
	}

	// The healthy block still produced a tree.
	trees := res.Files[path]
	if len(trees) != 1 {
		t.Fatalf("expected 1 surviving tree, got %d", len(trees))
	}
	if trees[0].Root.Children[0].Line != ".. xbr:interface:: IGood" {
		t.Errorf("unexpected surviving block: %q", trees[0].Root.Children[0].Line)
	}
}

func TestExtract_UnreadableFileReported(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "good.rst", basicDoc)
	// Dangling symlink: stat fails, but the walk must continue.
	if err := os.Symlink(filepath.Join(dir, "missing"), filepath.Join(dir, "dead.rst")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	ex := New(Config{}, testLogger(), nil, nil)
	res, err := ex.Extract(dir, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(res.Errors) != 1 {
		t.Fatalf("expected 1 file error, got %d", len(res.Errors))
	}
	if len(res.Files) != 1 {
		t.Errorf("expected the readable file to still be extracted, got %d entries", len(res.Files))
	}
}

func TestExtract_MissingRoot(t *testing.T) {
	ex := New(Config{}, testLogger(), nil, nil)
	if _, err := ex.Extract(filepath.Join(t.TempDir(), "nope"), nil); err == nil {
		t.Fatal("expected error for missing root")
	}
}

func TestExtractFile_CacheReuse(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "doc.rst", basicDoc)

	ex := New(Config{CacheSize: 8}, testLogger(), nil, nil)
	first, err := ex.ExtractFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := ex.ExtractFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(first) != 1 || len(second) != 1 {
		t.Fatalf("expected 1 tree per scan, got %d and %d", len(first), len(second))
	}
	// Unchanged file: the cached trees are returned as-is.
	if first[0] != second[0] {
		t.Error("expected cached tree to be reused for an unchanged file")
	}
}

func TestExtract_TreeShape(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "doc.rst", basicDoc)

	ex := New(Config{}, testLogger(), nil, nil)
	res, err := ex.Extract(dir, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	trees := res.Files[path]
	if len(trees) != 1 {
		t.Fatalf("expected 1 tree, got %d", len(trees))
	}
	tree := trees[0]
	// Directive line is at file offset 2.
	if tree.Root.StartLine != 2 {
		t.Errorf("expected start line 2, got %d", tree.Root.StartLine)
	}

	directive := tree.Root.Children[0]
	if directive.Line != ".. xbr:namespace:: com.example.basic" {
		t.Fatalf("unexpected directive node: %q", directive.Line)
	}
	if len(directive.Children) != 2 {
		t.Fatalf("expected 2 level-2 nodes, got %d", len(directive.Children))
	}
	if len(directive.Children[0].Children) != 1 {
		t.Errorf("expected %q to have 1 child, got %d", "1.0 first", len(directive.Children[0].Children))
	}
}
