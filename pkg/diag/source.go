package diag

import "sort"

// Source is a loaded file that diagnostics point into. It is immutable.
type Source struct {
	Name string
	Text string

	lineStarts []int // byte offset of the first character of each line
}

// NewSource indexes text by line.
func NewSource(name, text string) *Source {
	starts := []int{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &Source{Name: name, Text: text, lineStarts: starts}
}

// LineCount returns the number of lines, counting a trailing empty line
// after a final newline.
func (s *Source) LineCount() int { return len(s.lineStarts) }

// Line returns the 1-based line holding offset. Offsets past the end map
// to the last line.
func (s *Source) Line(offset int) int {
	if offset < 0 {
		offset = 0
	}
	// index of the last line start <= offset
	return sort.Search(len(s.lineStarts), func(i int) bool { return s.lineStarts[i] > offset })
}

// LineCol returns the 1-based line and 1-based byte column of offset.
func (s *Source) LineCol(offset int) (line, col int) {
	if offset > len(s.Text) {
		offset = len(s.Text)
	}
	line = s.Line(offset)
	return line, offset - s.lineStarts[line-1] + 1
}

// lineBounds returns the byte range of line n without its line terminator.
func (s *Source) lineBounds(n int) (start, end int) {
	if n < 1 || n > len(s.lineStarts) {
		return len(s.Text), len(s.Text)
	}
	start = s.lineStarts[n-1]
	end = len(s.Text)
	if n < len(s.lineStarts) {
		end = s.lineStarts[n] - 1
	}
	if end > start && s.Text[end-1] == '\r' {
		end--
	}
	return start, end
}

// LineText returns line n verbatim, without its line terminator.
func (s *Source) LineText(n int) string {
	start, end := s.lineBounds(n)
	return s.Text[start:end]
}
