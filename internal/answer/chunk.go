package answer

import (
	"strings"
	"unicode"
)

const (
	DefaultChunkSize    = 500
	DefaultChunkOverlap = 50
)

// SplitText cuts text into chunks of at most size runes, each sharing
// overlap runes with the one before. A chunk ends at the last whitespace in
// its second half when there is one, so words are kept whole.
func SplitText(text string, size, overlap int) []string {
	if size <= 0 {
		size = DefaultChunkSize
	}
	if overlap < 0 || overlap >= size {
		overlap = 0
	}

	rs := []rune(strings.TrimSpace(text))
	var out []string
	for start := 0; start < len(rs); {
		end := min(start+size, len(rs))
		if end < len(rs) {
			for i := end; i > start+size/2; i-- {
				if unicode.IsSpace(rs[i-1]) {
					end = i
					break
				}
			}
		}

		if chunk := strings.TrimSpace(string(rs[start:end])); chunk != "" {
			out = append(out, chunk)
		}
		if end == len(rs) {
			break
		}
		next := end - overlap
		if next <= start {
			next = end
		}
		start = next
	}
	return out
}
