package grammar

// SentenceKind tags the variant carried by a Sentence.
type SentenceKind string

const (
	SentenceText        SentenceKind = "Text"
	SentenceLink        SentenceKind = "Link"
	SentenceCode        SentenceKind = "Code"
	SentenceMath        SentenceKind = "Math"
	SentenceEmoji       SentenceKind = "Emoji"
	SentenceFooterIndex SentenceKind = "FooterIndex"
)

// Sentence is an inline span inside a Paragraph.
type Sentence interface {
	Kind() SentenceKind
	isSentence()
}

// Paragraph is an ordered run of sentences in reading order.
type Paragraph []Sentence

// Text is literal content with independent style flags.
type Text struct {
	Content string
	Bold    bool
	Italic  bool
	Strike  bool
}

// Plain reports whether no style flag is set.
func (t Text) Plain() bool {
	return !t.Bold && !t.Italic && !t.Strike
}

// Link is bracketed text with an optional target. A nil Href means the span is
// bracketed text only. Href and Title hold the source text, escapes included.
type Link struct {
	Content string
	Href    *string
	Title   *string
}

// Code is an inline code span.
type Code struct {
	Content string
}

// Math is an inline "$...$" formula.
type Math struct {
	Content string
}

// Emoji is a ":name:" shortcode.
type Emoji struct {
	Content string
}

// FooterIndex references a Footer block of the same note by key.
type FooterIndex struct {
	Key string
}

func (Text) Kind() SentenceKind        { return SentenceText }
func (Link) Kind() SentenceKind        { return SentenceLink }
func (Code) Kind() SentenceKind        { return SentenceCode }
func (Math) Kind() SentenceKind        { return SentenceMath }
func (Emoji) Kind() SentenceKind       { return SentenceEmoji }
func (FooterIndex) Kind() SentenceKind { return SentenceFooterIndex }

func (Text) isSentence()        {}
func (Link) isSentence()        {}
func (Code) isSentence()        {}
func (Math) isSentence()        {}
func (Emoji) isSentence()       {}
func (FooterIndex) isSentence() {}

// FooterKeys returns the footnote keys referenced by the paragraph, in order.
func (p Paragraph) FooterKeys() []string {
	var keys []string
	for _, s := range p {
		if ref, ok := s.(FooterIndex); ok {
			keys = append(keys, ref.Key)
		}
	}
	return keys
}

// PlainText concatenates the visible text of the paragraph without markup.
func (p Paragraph) PlainText() string {
	var out []byte
	for _, s := range p {
		switch v := s.(type) {
		case Text:
			out = append(out, v.Content...)
		case Link:
			out = append(out, v.Content...)
		case Code:
			out = append(out, v.Content...)
		case Math:
			out = append(out, v.Content...)
		case Emoji:
			out = append(out, ':')
			out = append(out, v.Content...)
			out = append(out, ':')
		case FooterIndex:
		}
	}
	return string(out)
}
