package outline

import (
	"fmt"
	"strings"
)

// DefaultIndentUnit is the number of spaces per indentation level.
const DefaultIndentUnit = 4

// Builder converts the lines of one directive block into an outline tree.
type Builder struct {
	IndentUnit int // Spaces per level. Zero means DefaultIndentUnit.
}

// NewBuilder returns a Builder with the default indent unit.
func NewBuilder() *Builder {
	return &Builder{IndentUnit: DefaultIndentUnit}
}

// Tree is the parsed form of one directive block.
type Tree struct {
	Root  *Node   // Implicit level-0 root; its Line is empty.
	Nodes []*Node // All nodes in creation order, root first.
}

// Build parses lines into a tree rooted at an implicit level-0 node. The
// first line is the directive line itself, at level 1. startLine is the
// 0-based offset of the block within its source file.
//
// The builder keeps a stack of open nodes, the path from the root to the
// most recently added node. A line indented one unit past the top becomes
// its child; a line at the same depth replaces the top as the open node at
// that level and attaches to the shared parent; a shallower line pops the
// stack back to its parent level first.
func (b *Builder) Build(lines []string, startLine int) (*Tree, error) {
	unit := b.IndentUnit
	if unit <= 0 {
		unit = DefaultIndentUnit
	}

	root := &Node{Level: 0, StartLine: startLine}
	tree := &Tree{Root: root, Nodes: []*Node{root}}
	stack := []*Node{root}

	for i, line := range lines {
		lineNo := i + 1
		if strings.TrimSpace(line) == "" {
			// Blank lines carry no node and leave the stack untouched.
			continue
		}

		leading := len(line) - len(strings.TrimLeft(line, " "))
		if leading%unit != 0 {
			return nil, &ParseError{
				StartLine: startLine,
				LineNo:    lineNo,
				Line:      line,
				Err:       fmt.Errorf("%w: %d leading spaces, unit %d", ErrIndentNotAligned, leading, unit),
			}
		}
		level := leading/unit + 1

		top := stack[len(stack)-1]
		if level > top.Level+1 {
			return nil, &ParseError{
				StartLine: startLine,
				LineNo:    lineNo,
				Line:      line,
				Err:       fmt.Errorf("%w: level %d after open level %d", ErrIndentTooDeep, level, top.Level),
			}
		}

		// Close nodes at or below the new level. The new node replaces any
		// prior sibling as the open node at its depth.
		for stack[len(stack)-1].Level >= level {
			stack = stack[:len(stack)-1]
		}
		parent := stack[len(stack)-1]

		node, err := NewNode(level, parent, startLine, lineNo, line)
		if err != nil {
			return nil, &ParseError{StartLine: startLine, LineNo: lineNo, Line: line, Err: err}
		}
		parent.Children = append(parent.Children, node)
		stack = append(stack, node)
		tree.Nodes = append(tree.Nodes, node)
	}

	return tree, nil
}
