package scanner

import "regexp"

// Directive is the parsed form of a block's first line.
type Directive struct {
	Kind string `json:"kind"` // namespace, interface, event, procedure, error or enum.
	Name string `json:"name"`
}

// Optional leading whitespace, the literal marker, one space, then a
// non-empty name running to end of line.
var directivePat = regexp.MustCompile(`^\s*\.\. xbr:(namespace|interface|event|procedure|error|enum):: (\S.*)$`)

// ParseDirective parses a directive declaration line. ok is false when the
// line is not a well-formed declaration; callers treat that as a warning
// condition, not a parse failure.
func ParseDirective(line string) (d Directive, ok bool) {
	m := directivePat.FindStringSubmatch(line)
	if m == nil {
		return Directive{}, false
	}
	return Directive{Kind: m[1], Name: m[2]}, true
}
