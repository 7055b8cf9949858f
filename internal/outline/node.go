package outline

import "fmt"

// Node is one line of a directive block, positioned in the indentation tree
// by its level. The implicit block root has level 0 and a nil parent.
type Node struct {
	Level     int     // Depth in the tree; each indent unit adds one level.
	Parent    *Node   // nil for the root.
	StartLine int     // 0-based line offset of the containing block within the file.
	LineNo    int     // 1-based line number within the block.
	Line      string  // Raw line text including its indentation.
	Children  []*Node // In order of appearance in the source.
}

// NewNode creates a node attached under parent. The parent's level must be
// exactly one less than level; anything else is a defect in the caller, not
// bad input.
func NewNode(level int, parent *Node, startLine, lineNo int, line string) (*Node, error) {
	if parent != nil && parent.Level != level-1 {
		return nil, fmt.Errorf("%w: parent level %d for node level %d", ErrInvalidParentLevel, parent.Level, level)
	}
	return &Node{
		Level:     level,
		Parent:    parent,
		StartLine: startLine,
		LineNo:    lineNo,
		Line:      line,
	}, nil
}

// FileLine returns the 1-based line number of this node within its source file.
func (n *Node) FileLine() int {
	return n.StartLine + n.LineNo
}

// IsRoot reports whether this is the implicit block root.
func (n *Node) IsRoot() bool {
	return n.Parent == nil
}
