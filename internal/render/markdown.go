package render

import (
	"fmt"
	"sort"
	"strings"

	"github.com/crossdocs/xbridl/internal/extractor"
	"github.com/crossdocs/xbridl/internal/outline"
	"github.com/crossdocs/xbridl/internal/scanner"
)

// Markdown renders an extraction result as a human-readable outline
// document: one section per source file, one nested bullet list per block.
func Markdown(res *extractor.Result) string {
	var b strings.Builder
	b.WriteString("# XBR IDL Outline\n")

	paths := make([]string, 0, len(res.Files))
	for p := range res.Files {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	for _, p := range paths {
		fmt.Fprintf(&b, "\n## %s\n", p)
		for _, tree := range res.Files[p] {
			b.WriteString("\n")
			writeBlock(&b, tree)
		}
	}

	if len(res.Errors) > 0 {
		b.WriteString("\n## Errors\n\n")
		for _, fe := range res.Errors {
			fmt.Fprintf(&b, "- `%s`: %s\n", fe.Path, fe.Err.Error())
		}
	}
	return b.String()
}

// RunMarkdown renders a stored run the same way Markdown renders a live
// result, rebuilding the per-block trees from the flat node records.
func RunMarkdown(run *Run) string {
	var b strings.Builder
	b.WriteString("# XBR IDL Outline\n")

	for _, fe := range run.Files {
		fmt.Fprintf(&b, "\n## %s\n", fe.Path)
		for _, blk := range fe.Blocks {
			b.WriteString("\n")
			writeRecBlock(&b, blk)
		}
	}

	if len(run.Errors) > 0 {
		b.WriteString("\n## Errors\n\n")
		for _, re := range run.Errors {
			fmt.Fprintf(&b, "- `%s`: %s\n", re.Path, re.Message)
		}
	}
	return b.String()
}

func writeRecBlock(b *strings.Builder, blk Block) {
	children := make([][]int, len(blk.Nodes))
	for i, n := range blk.Nodes {
		if n.Parent >= 0 && n.Parent < len(blk.Nodes) {
			children[n.Parent] = append(children[n.Parent], i)
		}
	}

	var write func(idx, depth int)
	write = func(idx, depth int) {
		n := blk.Nodes[idx]
		text := strings.TrimSpace(n.Line)
		if d, ok := scanner.ParseDirective(n.Line); ok {
			text = fmt.Sprintf("**%s** `%s`", d.Kind, d.Name)
		}
		fmt.Fprintf(b, "%s- %s\n", strings.Repeat("  ", depth), text)
		for _, c := range children[idx] {
			write(c, depth+1)
		}
	}
	// Index 0 is the implicit root; render its subtrees.
	if len(blk.Nodes) > 0 {
		for _, c := range children[0] {
			write(c, 0)
		}
	}
}

func writeBlock(b *strings.Builder, tree *outline.Tree) {
	for _, top := range tree.Root.Children {
		writeNode(b, top, 0)
	}
}

func writeNode(b *strings.Builder, n *outline.Node, depth int) {
	text := strings.TrimSpace(n.Line)
	if d, ok := scanner.ParseDirective(n.Line); ok {
		text = fmt.Sprintf("**%s** `%s`", d.Kind, d.Name)
	}
	fmt.Fprintf(b, "%s- %s\n", strings.Repeat("  ", depth), text)
	for _, c := range n.Children {
		writeNode(b, c, depth+1)
	}
}
