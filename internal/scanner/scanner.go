package scanner

import "strings"

// DefaultMarkers matches every XBR directive line, e.g.
// ".. xbr:namespace:: com.example" or ".. xbr:interface:: INavigationMonitor".
var DefaultMarkers = []string{".. xbr:"}

// Block is a directive line plus the contiguous indented body that follows it.
type Block struct {
	StartLine int      // 0-based line offset of the directive line within the file.
	Lines     []string // Directive line first, then body lines.
}

// Scanner locates directive blocks in reStructuredText content.
type Scanner struct {
	markers []string
}

// New returns a Scanner recognizing the given literal line prefixes. With no
// arguments it uses DefaultMarkers.
func New(markers ...string) *Scanner {
	if len(markers) == 0 {
		markers = DefaultMarkers
	}
	return &Scanner{markers: markers}
}

// Scan returns every directive block in src, in file order. A block begins
// at a column-0 line starting with a recognized marker and extends through
// the following lines up to, but excluding, the first non-blank line with
// zero leading whitespace, or end of input. Blocks never overlap. Content
// with no directive lines yields an empty result.
func (s *Scanner) Scan(src string) []Block {
	lines := strings.Split(src, "\n")

	var blocks []Block
	i := 0
	for i < len(lines) {
		if !s.introducesBlock(lines[i]) {
			i++
			continue
		}
		j := i + 1
		for j < len(lines) {
			if lines[j] != "" && lines[j][0] != ' ' && lines[j][0] != '\t' {
				break
			}
			j++
		}
		blocks = append(blocks, Block{StartLine: i, Lines: lines[i:j:j]})
		i = j
	}
	return blocks
}

func (s *Scanner) introducesBlock(line string) bool {
	for _, m := range s.markers {
		if strings.HasPrefix(line, m) {
			return true
		}
	}
	return false
}
