package render

import (
	"sort"
	"time"

	"github.com/crossdocs/xbridl/internal/extractor"
	"github.com/crossdocs/xbridl/internal/outline"
	"github.com/crossdocs/xbridl/internal/scanner"
)

// Run is the JSON-serializable form of one extraction run: plain structured
// data, ready for storage or an HTTP response.
type Run struct {
	ID        string      `json:"run_id"`
	Root      string      `json:"root"`
	CreatedAt time.Time   `json:"created_at"`
	Files     []FileEntry `json:"files"`
	Errors    []RunError  `json:"errors,omitempty"`
}

// FileEntry holds the block results for one source file.
type FileEntry struct {
	Path   string  `json:"path"`
	Blocks []Block `json:"blocks"`
}

// Block is one directive block as a flat node list. Nodes reference their
// parent by index into the same list; the implicit root sits at index 0
// with parent -1.
type Block struct {
	StartLine int                `json:"start_line"`
	Directive *scanner.Directive `json:"directive,omitempty"`
	Nodes     []NodeRec          `json:"nodes"`
}

// NodeRec is one outline node in creation order.
type NodeRec struct {
	Level  int    `json:"level"`
	Parent int    `json:"parent"` // Index into Nodes; -1 for the root.
	LineNo int    `json:"line_no"`
	Line   string `json:"line"`
}

// RunError is a per-file extraction failure.
type RunError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// FromResult converts an extraction result into its serializable form.
// Files are sorted by path for deterministic output.
func FromResult(id, root string, res *extractor.Result) *Run {
	run := &Run{
		ID:        id,
		Root:      root,
		CreatedAt: time.Now().UTC(),
		Files:     make([]FileEntry, 0, len(res.Files)),
	}

	paths := make([]string, 0, len(res.Files))
	for p := range res.Files {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	for _, p := range paths {
		entry := FileEntry{Path: p}
		for _, tree := range res.Files[p] {
			entry.Blocks = append(entry.Blocks, FromTree(tree))
		}
		run.Files = append(run.Files, entry)
	}

	for _, fe := range res.Errors {
		run.Errors = append(run.Errors, RunError{Path: fe.Path, Message: fe.Err.Error()})
	}
	return run
}

// FromTree flattens one block tree into index-linked node records.
func FromTree(t *outline.Tree) Block {
	idx := make(map[*outline.Node]int, len(t.Nodes))
	for i, n := range t.Nodes {
		idx[n] = i
	}

	blk := Block{
		StartLine: t.Root.StartLine,
		Nodes:     make([]NodeRec, 0, len(t.Nodes)),
	}
	for _, n := range t.Nodes {
		parent := -1
		if n.Parent != nil {
			parent = idx[n.Parent]
		}
		blk.Nodes = append(blk.Nodes, NodeRec{
			Level:  n.Level,
			Parent: parent,
			LineNo: n.LineNo,
			Line:   n.Line,
		})
	}

	// The directive line is the root's first child, when the block has one.
	if len(t.Root.Children) > 0 {
		if d, ok := scanner.ParseDirective(t.Root.Children[0].Line); ok {
			blk.Directive = &d
		}
	}
	return blk
}
