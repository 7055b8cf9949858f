package outline

import (
	"errors"
	"fmt"
)

var (
	// ErrIndentNotAligned marks a line whose leading whitespace is not a
	// multiple of the indent unit.
	ErrIndentNotAligned = errors.New("indentation not a multiple of the indent unit")

	// ErrIndentTooDeep marks a line indented more than one level past the
	// deepest open node.
	ErrIndentTooDeep = errors.New("indentation jumps more than one level")

	// ErrInvalidParentLevel marks a node constructed under a parent whose
	// level does not immediately precede its own.
	ErrInvalidParentLevel = errors.New("invalid parent level")
)

// ParseError reports a fatal problem in a single directive block. It aborts
// that block only; other blocks are unaffected.
type ParseError struct {
	File      string // Source file path; empty when the source is not a file.
	StartLine int    // 0-based line offset of the block within the file.
	LineNo    int    // 1-based offending line within the block.
	Line      string // Raw offending line.
	Err       error
}

func (e *ParseError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("%s:%d: %v: %q", e.File, e.StartLine+e.LineNo, e.Err, e.Line)
	}
	return fmt.Sprintf("line %d: %v: %q", e.StartLine+e.LineNo, e.Err, e.Line)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
