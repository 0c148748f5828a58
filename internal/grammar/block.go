package grammar

import "fmt"

// BlockKind tags the variant carried by a Block.
type BlockKind string

const (
	BlockTitle     BlockKind = "Title"
	BlockParagraph BlockKind = "Paragraph"
	BlockQuote     BlockKind = "Quote"
	BlockListItem  BlockKind = "ListItem"
	BlockCode      BlockKind = "CodeBlock"
	BlockImage     BlockKind = "Image"
	BlockLine      BlockKind = "Line"
	BlockMath      BlockKind = "MathBlock"
	BlockTodoItem  BlockKind = "TodoItem"
	BlockFooter    BlockKind = "Footer"
	BlockError     BlockKind = "Error"
)

// Block is a structural unit of a note. The set of implementations is closed:
// only the variant types declared in this package satisfy it.
type Block interface {
	Kind() BlockKind
	isBlock()
}

// TitleLevel is the heading depth of a Title block.
type TitleLevel int

const (
	H1 TitleLevel = iota + 1
	H2
	H3
	H4
	H5
	H6
)

// ParseTitleLevel converts a heading depth into a TitleLevel.
func ParseTitleLevel(depth int) (TitleLevel, error) {
	if depth < int(H1) || depth > int(H6) {
		return 0, fmt.Errorf("grammar: invalid title level %d", depth)
	}
	return TitleLevel(depth), nil
}

// Valid reports whether the level is one of H1..H6.
func (l TitleLevel) Valid() bool {
	return l >= H1 && l <= H6
}

func (l TitleLevel) String() string {
	if !l.Valid() {
		return fmt.Sprintf("TitleLevel(%d)", int(l))
	}
	return fmt.Sprintf("H%d", int(l))
}

// Title is a heading line.
type Title struct {
	Level   TitleLevel
	Content Paragraph
}

// ParagraphBlock is a plain run of inline content.
type ParagraphBlock struct {
	Content Paragraph
}

// Quote is a "> " prefixed line.
type Quote struct {
	Content Paragraph
}

// ListItem is an ordered or unordered list entry. Index is nil for unordered
// items; Level counts leading tabs. Bullet keeps the unordered marker ("-" or
// "+"); empty renders as "+".
type ListItem struct {
	Level   int
	Index   *int
	Bullet  string
	Content Paragraph
}

// Ordered reports whether the item carries an ordinal.
func (l ListItem) Ordered() bool {
	return l.Index != nil
}

// CodeBlock is a fenced code span. Code excludes the fences and the language
// line.
type CodeBlock struct {
	Lang *string
	Code string
}

// Image is a standalone image line.
type Image struct {
	Title *string
	Src   *string
}

// LineBlock is a thematic break.
type LineBlock struct{}

// MathBlock is a "$$" delimited display formula.
type MathBlock struct {
	Math string
}

// TodoItem is a checkbox list entry.
type TodoItem struct {
	Finished bool
	Content  Paragraph
}

// Footer defines the text behind a footnote key referenced by FooterIndex
// sentences elsewhere in the same note.
type Footer struct {
	Index   FooterIndex
	Content Paragraph
}

// ErrorBlock holds a span that could not be classified. Raw is kept verbatim.
type ErrorBlock struct {
	Raw     string
	Message string
}

func (Title) Kind() BlockKind          { return BlockTitle }
func (ParagraphBlock) Kind() BlockKind { return BlockParagraph }
func (Quote) Kind() BlockKind          { return BlockQuote }
func (ListItem) Kind() BlockKind       { return BlockListItem }
func (CodeBlock) Kind() BlockKind      { return BlockCode }
func (Image) Kind() BlockKind          { return BlockImage }
func (LineBlock) Kind() BlockKind      { return BlockLine }
func (MathBlock) Kind() BlockKind      { return BlockMath }
func (TodoItem) Kind() BlockKind       { return BlockTodoItem }
func (Footer) Kind() BlockKind         { return BlockFooter }
func (ErrorBlock) Kind() BlockKind     { return BlockError }

func (Title) isBlock()          {}
func (ParagraphBlock) isBlock() {}
func (Quote) isBlock()          {}
func (ListItem) isBlock()       {}
func (CodeBlock) isBlock()      {}
func (Image) isBlock()          {}
func (LineBlock) isBlock()      {}
func (MathBlock) isBlock()      {}
func (TodoItem) isBlock()       {}
func (Footer) isBlock()         {}
func (ErrorBlock) isBlock()     {}

// Ptr returns a pointer to v. It keeps optional fields readable at call sites.
func Ptr[T any](v T) *T {
	return &v
}
