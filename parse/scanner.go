package parse

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	rowOpen        = regexp.MustCompile(`<tr[^>]*>`)
	rowClose       = regexp.MustCompile(`</tr>`)
	cellOpen       = regexp.MustCompile(`<td[^>]*>`)
	cellClose      = regexp.MustCompile(`</td>`)
	paragraphOpen  = regexp.MustCompile(`<p[^>]*>`)
	paragraphClose = regexp.MustCompile(`</p>`)
)

// Scanner walks a document yielding the text found between
// successive open and close tag matches. It only moves forward, and
// never modifies the underlying text.
type Scanner struct {
	text  string
	open  *regexp.Regexp
	close *regexp.Regexp
	pos   int
}

func NewScanner(text string, open, close *regexp.Regexp) *Scanner {
	return &Scanner{
		text:  text,
		open:  open,
		close: close,
	}
}

// Scans <tr> ... </tr>
func NewRowScanner(text string) *Scanner {
	return NewScanner(text, rowOpen, rowClose)
}

// Scans <td> ... </td>
func NewCellScanner(text string) *Scanner {
	return NewScanner(text, cellOpen, cellClose)
}

// Scans <p> ... </p>
func NewParagraphScanner(text string) *Scanner {
	return NewScanner(text, paragraphOpen, paragraphClose)
}

// Next returns the trimmed inner text of the next tag pair.
//
// Leading whitespace is dropped. Anything from the first '<' onwards
// (markup nested inside the tag pair) is dropped, as is whitespace
// preceding it. Returns ErrNotFound once no open tag remains, and
// ErrMalformed if an open tag is never closed.
func (s *Scanner) Next() (string, error) {
	inner, err := s.NextRaw()
	if err != nil {
		return "", err
	}
	return trimInner(inner), nil
}

// NextRaw is like Next, but returns the inner text untouched.
func (s *Scanner) NextRaw() (string, error) {
	start, end, err := s.advance()
	if err != nil {
		return "", err
	}
	return s.text[start:end], nil
}

// Locates the next tag pair, returning the bounds of its inner text,
// and moves the cursor past the closing tag.
func (s *Scanner) advance() (int, int, error) {
	openLoc := s.open.FindStringIndex(s.text[s.pos:])
	if openLoc == nil {
		return 0, 0, ErrNotFound
	}
	start := s.pos + openLoc[1]

	closeLoc := s.close.FindStringIndex(s.text[start:])
	if closeLoc == nil {
		return 0, 0, fmt.Errorf(
			"%w: %s at offset %d is never closed by %s",
			ErrMalformed, s.open, s.pos+openLoc[0], s.close,
		)
	}

	end := start + closeLoc[0]
	s.pos = start + closeLoc[1]

	return start, end, nil
}

// ASCII whitespace only. Non-breaking spaces are content.
const space = " \t\n\v\f\r"

func trimInner(inner string) string {
	inner = strings.TrimLeft(inner, space)
	if i := strings.IndexByte(inner, '<'); i >= 0 {
		inner = inner[:i]
	}
	return strings.TrimRight(inner, space)
}
