package interfaces

import "github.com/goliatone/go-notes/internal/grammar"

// Splitter segments raw note text into lines. Multi-line constructs such as
// fenced code or display math are returned as a single element. Implementations
// must be pure: the same input always yields the same output, and re-splitting
// the joined output yields the same lines.
type Splitter interface {
	Split(text string) ([]string, error)
}

// SplitterFunc adapts a plain function to the Splitter contract.
type SplitterFunc func(text string) ([]string, error)

// Split calls f(text).
func (f SplitterFunc) Split(text string) ([]string, error) {
	return f(text)
}

// BlockParser interprets a single line produced by a Splitter. Malformed input
// is reported as a grammar.ErrorBlock rather than an error.
type BlockParser interface {
	Parse(line string) grammar.Block
}

// FrontMatter models the metadata header of a note.
type FrontMatter struct {
	Title  string         `yaml:"title" json:"title"`
	Tags   []string       `yaml:"tags" json:"tags"`
	Custom map[string]any `yaml:",inline" json:"custom"`
}
