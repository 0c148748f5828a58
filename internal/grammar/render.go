package grammar

import (
	"strconv"
	"strings"

	"github.com/yuin/goldmark/util"
)

// Render converts a block back into its markdown line form. ErrorBlock values
// are returned verbatim. Text content is escaped so that the line parses back
// into the same block.
func Render(block Block) string {
	switch b := block.(type) {
	case nil:
		return ""
	case Title:
		return strings.Repeat("#", int(b.Level)) + " " + RenderParagraph(b.Content)
	case ParagraphBlock:
		line := RenderParagraph(b.Content)
		if len(b.Content) > 0 {
			if t, ok := b.Content[0].(Text); ok && t.Plain() {
				line = escapeLead(line)
			}
		}
		return line
	case Quote:
		return "> " + RenderParagraph(b.Content)
	case ListItem:
		prefix := strings.Repeat("\t", b.Level)
		if b.Index != nil {
			return prefix + strconv.Itoa(*b.Index) + ". " + RenderParagraph(b.Content)
		}
		bullet := b.Bullet
		if bullet == "" {
			bullet = "+"
		}
		return prefix + bullet + " " + RenderParagraph(b.Content)
	case CodeBlock:
		return fenced("```"+deref(b.Lang), b.Code, "```")
	case Image:
		return "![" + deref(b.Title) + "](" + deref(b.Src) + ")"
	case LineBlock:
		return "---"
	case MathBlock:
		return fenced("$$", b.Math, "$$")
	case TodoItem:
		state := " "
		if b.Finished {
			state = "x"
		}
		return "- [" + state + "] " + RenderParagraph(b.Content)
	case Footer:
		return RenderSentence(b.Index) + ": " + RenderParagraph(b.Content)
	case ErrorBlock:
		return b.Raw
	default:
		return ""
	}
}

// styleMarkers lists the emphasis delimiters from the outermost to the
// innermost: strike, bold, italic.
var styleMarkers = [3]string{"~~", "**", "*"}

func (t Text) styles() [3]bool {
	return [3]bool{t.Strike, t.Bold, t.Italic}
}

// RenderParagraph renders the sentences in order. Neighbouring Text values
// share their emphasis delimiters, so a bold run containing an italic word
// renders as "**a *b***" rather than two separate bold spans.
func RenderParagraph(p Paragraph) string {
	var (
		sb   strings.Builder
		open []int
	)
	for i, s := range p {
		t, ok := s.(Text)
		if !ok {
			sb.WriteString(RenderSentence(s))
			continue
		}
		if t.Content == "" {
			continue
		}
		var next Sentence
		if i+1 < len(p) {
			next = p[i+1]
		}
		open = restyle(&sb, open, t.styles())
		sb.WriteString(escapeText(t.Content, t, next))
	}
	restyle(&sb, open, [3]bool{})
	return sb.String()
}

// restyle closes the delimiters that are no longer wanted, innermost first,
// and opens the missing ones. A delimiter that is still wanted but sits above
// a closed one is closed and reopened to keep the nesting balanced.
func restyle(sb *strings.Builder, open []int, want [3]bool) []int {
	cut := len(open)
	for i, mark := range open {
		if !want[mark] {
			cut = i
			break
		}
	}
	for i := len(open) - 1; i >= cut; i-- {
		sb.WriteString(styleMarkers[open[i]])
	}
	open = open[:cut]
	for mark, on := range want {
		if on && !containsMark(open, mark) {
			sb.WriteString(styleMarkers[mark])
			open = append(open, mark)
		}
	}
	return open
}

func containsMark(open []int, mark int) bool {
	for _, m := range open {
		if m == mark {
			return true
		}
	}
	return false
}

// RenderSentence converts an inline span back into markdown.
func RenderSentence(sentence Sentence) string {
	switch s := sentence.(type) {
	case Text:
		return RenderParagraph(Paragraph{s})
	case Link:
		label := escapeText(s.Content, Text{}, nil)
		if strings.HasPrefix(label, "^") {
			label = `\` + label
		}
		label = "[" + label + "]"
		if s.Href == nil {
			return label
		}
		href := *s.Href
		if s.Title == nil && s.Content == href && isAutolink(href) {
			return "<" + href + ">"
		}
		if href == "" || strings.ContainsAny(href, " \t") {
			href = "<" + href + ">"
		}
		if s.Title != nil {
			href += " " + quoteTitle(*s.Title)
		}
		return label + "(" + href + ")"
	case Code:
		return renderCode(s.Content)
	case Math:
		return "$" + s.Content + "$"
	case Emoji:
		return ":" + s.Content + ":"
	case FooterIndex:
		return "[^" + s.Key + "]"
	default:
		return ""
	}
}

// IsShortcode reports whether name is a valid emoji shortcode body.
func IsShortcode(name string) bool {
	if name == "" {
		return false
	}
	for i := 0; i < len(name); i++ {
		if !isShortcodeByte(name[i]) {
			return false
		}
	}
	return true
}

func isShortcodeByte(c byte) bool {
	return util.IsAlphaNumeric(c) || c == '_' || c == '+' || c == '-'
}

// escapeText backslash-escapes the characters of s that would otherwise open
// an inline span. next is the sentence rendered right after s, if any.
func escapeText(s string, self Text, next Sentence) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if needsEscape(s, i, self, next) {
			sb.WriteByte('\\')
		}
		sb.WriteByte(s[i])
	}
	return sb.String()
}

func needsEscape(s string, i int, self Text, next Sentence) bool {
	last := i == len(s)-1
	switch s[i] {
	case '*', '`', '~', '[', ']':
		return true
	case '\\':
		return last || util.IsPunct(s[i+1])
	case '_':
		return i == 0 || last || !util.IsAlphaNumeric(s[i-1]) || !util.IsAlphaNumeric(s[i+1])
	case '$', '<':
		return !last && !util.IsSpace(s[i+1])
	case '!':
		_, link := next.(Link)
		return last && link
	case ':':
		j := i + 1
		for j < len(s) && isShortcodeByte(s[j]) {
			j++
		}
		if j == i+1 {
			return false
		}
		return (j < len(s) && s[j] == ':') || (j == len(s) && startsWithColon(self, next))
	}
	return false
}

func startsWithColon(self Text, next Sentence) bool {
	switch n := next.(type) {
	case Emoji:
		return true
	case Text:
		return n.styles() == self.styles() && strings.HasPrefix(n.Content, ":")
	}
	return false
}

// escapeLead escapes the first character of a paragraph line that the line
// parser would otherwise read as block syntax.
func escapeLead(line string) string {
	if line == "" {
		return line
	}
	switch c := line[0]; {
	case c == '#':
		depth := 0
		for depth < len(line) && line[depth] == '#' {
			depth++
		}
		if depth <= int(H6) && (depth == len(line) || line[depth] == ' ') {
			return `\` + line
		}
	case c == '>':
		return `\` + line
	case strings.HasPrefix(line, "- "), strings.HasPrefix(line, "+ "), IsDashRun(line):
		return `\` + line
	case c >= '0' && c <= '9':
		digits := 0
		for digits < len(line) && line[digits] >= '0' && line[digits] <= '9' {
			digits++
		}
		if digits+1 < len(line) && line[digits] == '.' && line[digits+1] == ' ' {
			return line[:digits] + `\` + line[digits:]
		}
	}
	return line
}

// IsDashRun reports whether line holds three or more dashes and nothing else
// apart from trailing blanks.
func IsDashRun(line string) bool {
	trimmed := strings.TrimRight(line, " \t")
	return len(trimmed) >= 3 && strings.Trim(trimmed, "-") == ""
}

func isAutolink(href string) bool {
	return strings.Contains(href, "://") && !strings.ContainsAny(href, " \t<>")
}

// quoteTitle picks a title delimiter that does not occur unescaped in title.
func quoteTitle(title string) string {
	for _, pair := range [][2]byte{{'"', '"'}, {'\'', '\''}, {'(', ')'}} {
		if enclosable(title, pair[0], pair[1]) {
			return string(pair[0]) + title + string(pair[1])
		}
	}
	return `"` + strings.ReplaceAll(title, `"`, `\"`) + `"`
}

func enclosable(title string, open, closing byte) bool {
	for i := 0; i < len(title); i++ {
		if title[i] == '\\' {
			i++
			continue
		}
		if title[i] == open || title[i] == closing {
			return false
		}
	}
	return true
}

// renderCode picks a backtick fence longer than any run inside content and
// pads it when the content touches a backtick or carries its own outer blanks.
func renderCode(content string) string {
	longest, run := 0, 0
	for i := 0; i < len(content); i++ {
		if content[i] == '`' {
			run++
			longest = max(longest, run)
			continue
		}
		run = 0
	}
	fence := strings.Repeat("`", longest+1)
	if strings.HasPrefix(content, "`") || strings.HasSuffix(content, "`") ||
		(len(content) > 1 && content[0] == ' ' && content[len(content)-1] == ' ' && strings.TrimSpace(content) != "") {
		content = " " + content + " "
	}
	return fence + content + fence
}

func fenced(open, body, closing string) string {
	if body == "" {
		return open + "\n" + closing
	}
	if strings.HasSuffix(body, "\n") {
		return open + "\n" + body + closing
	}
	return open + "\n" + body + "\n" + closing
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
