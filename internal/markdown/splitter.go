package markdown

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-notes/pkg/interfaces"
)

const (
	codeFence = "```"
	mathFence = "$$"
)

// ErrLineTooLong is returned when a split element exceeds the configured
// MaxLineBytes.
var ErrLineTooLong = errors.New("markdown: line exceeds maximum length")

// SplitterOption configures a LineSplitter.
type SplitterOption func(*LineSplitter)

// WithMaxLineBytes rejects texts containing an element longer than n bytes.
// Zero disables the check.
func WithMaxLineBytes(n int) SplitterOption {
	return func(s *LineSplitter) {
		if n >= 0 {
			s.maxLineBytes = n
		}
	}
}

// LineSplitter segments note text into editable lines. Fenced code and "$$"
// math blocks are kept as a single element from the opening fence through the
// closing one; an unterminated fence runs to the end of the text. Empty lines
// outside fences are dropped, so joining the output with "\n" and splitting it
// again yields the same elements. A trailing "\r" is removed from every line,
// fenced ones included, so CRLF input comes back with "\n" endings only.
type LineSplitter struct {
	maxLineBytes int
}

var _ interfaces.Splitter = (*LineSplitter)(nil)

// NewLineSplitter constructs the default splitter.
func NewLineSplitter(opts ...SplitterOption) *LineSplitter {
	s := &LineSplitter{}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Split implements interfaces.Splitter.
func (s *LineSplitter) Split(text string) ([]string, error) {
	if text == "" {
		return nil, nil
	}
	raw := strings.Split(text, "\n")
	for i := range raw {
		raw[i] = strings.TrimSuffix(raw[i], "\r")
	}
	out := make([]string, 0, len(raw))

	for i := 0; i < len(raw); i++ {
		line := raw[i]
		var element string
		switch {
		case strings.HasPrefix(line, codeFence):
			end := closingFence(raw, i, codeFence)
			element = strings.Join(raw[i:end+1], "\n")
			i = end
		case isMathOpening(line):
			end := closingFence(raw, i, mathFence)
			element = strings.Join(raw[i:end+1], "\n")
			i = end
		case line == "":
			continue
		default:
			element = line
		}
		if s.maxLineBytes > 0 && len(element) > s.maxLineBytes {
			return nil, fmt.Errorf("%w: element %d is %d bytes (limit %d)", ErrLineTooLong, len(out), len(element), s.maxLineBytes)
		}
		out = append(out, element)
	}
	return out, nil
}

// isMathOpening reports whether line opens a multi-line math block. A line
// such as "$$x$$" is complete on its own and is not treated as an opening.
func isMathOpening(line string) bool {
	if !strings.HasPrefix(line, mathFence) {
		return false
	}
	rest := strings.TrimRight(line[len(mathFence):], " \t")
	return !strings.HasSuffix(rest, mathFence)
}

// closingFence returns the index of the line closing the fence opened at
// start, or the last index when the fence is never closed.
func closingFence(lines []string, start int, fence string) int {
	for j := start + 1; j < len(lines); j++ {
		if strings.HasPrefix(strings.TrimLeft(lines[j], " \t"), fence) {
			return j
		}
	}
	return len(lines) - 1
}
