package markdown

import (
	"strconv"
	"strings"

	"github.com/goliatone/go-notes/internal/grammar"
	"github.com/goliatone/go-notes/pkg/interfaces"
)

// LineParser turns a single split element into a grammar block. The leading
// syntax selects the block kind; the remaining text is parsed as inline
// content. Malformed block syntax yields a grammar.ErrorBlock holding the
// line verbatim.
type LineParser struct {
	inline *inlineParser
}

var _ interfaces.BlockParser = (*LineParser)(nil)

// NewLineParser constructs a parser. It is safe for concurrent use.
func NewLineParser() *LineParser {
	return &LineParser{inline: newInlineParser()}
}

// Parse implements interfaces.BlockParser.
func (p *LineParser) Parse(line string) grammar.Block {
	switch {
	case strings.HasPrefix(line, codeFence):
		return parseCodeBlock(line)
	case strings.HasPrefix(line, mathFence):
		return parseMathBlock(line)
	case grammar.IsDashRun(line):
		if line != "---" {
			return errorBlock(line, "line: expected exactly '---'")
		}
		return grammar.LineBlock{}
	}

	if line == "" {
		return grammar.ParagraphBlock{Content: grammar.Paragraph{}}
	}

	switch c := line[0]; {
	case c == '#':
		return p.parseTitle(line)
	case c == '-' && isTodoMarker(line):
		return p.parseTodo(line)
	case c == '-' || c == '+' || c == '\t':
		return p.parseList(line)
	case c >= '0' && c <= '9':
		if _, _, ok := orderedMarker(line); ok {
			return p.parseList(line)
		}
	case c == '>':
		return p.parseQuote(line)
	case c == '!' && strings.HasPrefix(line, "!["):
		return parseImage(line)
	case strings.HasPrefix(line, "[^"):
		if block, ok := p.parseFooter(line); ok {
			return block
		}
	}
	return grammar.ParagraphBlock{Content: p.inline.parse(line)}
}

// ParseAll parses every line in order.
func (p *LineParser) ParseAll(lines []string) []grammar.Block {
	blocks := make([]grammar.Block, 0, len(lines))
	for _, line := range lines {
		blocks = append(blocks, p.Parse(line))
	}
	return blocks
}

// parseTitle needs a space after the hashes; "#tag" stays a paragraph. Only
// the first space is part of the marker.
func (p *LineParser) parseTitle(line string) grammar.Block {
	depth := 0
	for depth < len(line) && line[depth] == '#' && depth < int(grammar.H6) {
		depth++
	}
	if depth < len(line) && line[depth] != ' ' {
		return grammar.ParagraphBlock{Content: p.inline.parse(line)}
	}
	level, err := grammar.ParseTitleLevel(depth)
	if err != nil {
		return errorBlock(line, err.Error())
	}
	content := strings.TrimPrefix(line[depth:], " ")
	return grammar.Title{Level: level, Content: p.inline.parse(content)}
}

func isTodoMarker(line string) bool {
	return len(line) >= 5 && line[1] == ' ' && line[2] == '[' && (line[3] == ' ' || line[3] == 'x') && line[4] == ']'
}

func (p *LineParser) parseTodo(line string) grammar.Block {
	rest := strings.TrimPrefix(line[5:], " ")
	return grammar.TodoItem{
		Finished: line[3] == 'x',
		Content:  p.inline.parse(rest),
	}
}

func (p *LineParser) parseList(line string) grammar.Block {
	level := 0
	for level < len(line) && line[level] == '\t' {
		level++
	}
	rest := line[level:]
	if rest == "" {
		return errorBlock(line, "list item: expected marker after indentation")
	}

	switch rest[0] {
	case '-', '+':
		if len(rest) < 2 || rest[1] != ' ' {
			if level == 0 {
				return grammar.ParagraphBlock{Content: p.inline.parse(line)}
			}
			return errorBlock(line, "list item: expected space after marker")
		}
		return grammar.ListItem{Level: level, Bullet: rest[:1], Content: p.inline.parse(rest[2:])}
	default:
		index, width, ok := orderedMarker(rest)
		if !ok {
			return errorBlock(line, "list item: expected '-', '+' or 'N. ' marker")
		}
		return grammar.ListItem{Level: level, Index: grammar.Ptr(index), Content: p.inline.parse(rest[width:])}
	}
}

// orderedMarker matches a leading "N. " and returns N and the marker width.
func orderedMarker(s string) (int, int, bool) {
	digits := 0
	for digits < len(s) && s[digits] >= '0' && s[digits] <= '9' {
		digits++
	}
	if digits == 0 || digits+1 >= len(s) || s[digits] != '.' || s[digits+1] != ' ' {
		return 0, 0, false
	}
	index, err := strconv.Atoi(s[:digits])
	if err != nil {
		return 0, 0, false
	}
	return index, digits + 2, true
}

func (p *LineParser) parseQuote(line string) grammar.Block {
	if len(line) < 2 || line[1] != ' ' {
		return errorBlock(line, "quote: expected space after '>'")
	}
	return grammar.Quote{Content: p.inline.parse(line[2:])}
}

func parseImage(line string) grammar.Block {
	closeTitle := strings.Index(line, "](")
	if closeTitle < 0 {
		return errorBlock(line, "image: expected ']('")
	}
	if !strings.HasSuffix(line, ")") {
		return errorBlock(line, "image: expected ')'")
	}
	title := line[2:closeTitle]
	src := line[closeTitle+2 : len(line)-1]
	return grammar.Image{Title: optional(title), Src: optional(src)}
}

func (p *LineParser) parseFooter(line string) (grammar.Block, bool) {
	closing := strings.IndexByte(line, ']')
	if closing < 0 || !strings.HasPrefix(line[closing:], "]: ") {
		return nil, false
	}
	key := line[2:closing]
	if key == "" {
		return errorBlock(line, "footer: empty key"), true
	}
	return grammar.Footer{
		Index:   grammar.FooterIndex{Key: key},
		Content: p.inline.parse(line[closing+3:]),
	}, true
}

func parseCodeBlock(element string) grammar.Block {
	header, body, _ := strings.Cut(element[len(codeFence):], "\n")
	return grammar.CodeBlock{
		Lang: optional(strings.TrimSpace(header)),
		Code: fencedBody(body, codeFence),
	}
}

func parseMathBlock(element string) grammar.Block {
	rest := element[len(mathFence):]
	if !strings.Contains(rest, "\n") {
		trimmed := strings.TrimRight(rest, " \t")
		return grammar.MathBlock{Math: strings.TrimSpace(strings.TrimSuffix(trimmed, mathFence))}
	}
	_, body, _ := strings.Cut(rest, "\n")
	return grammar.MathBlock{Math: fencedBody(body, mathFence)}
}

// fencedBody drops the closing fence line, if present, from body. The newline
// in front of the closing fence stays part of the body.
func fencedBody(body, fence string) string {
	lastLine := body
	if i := strings.LastIndexByte(body, '\n'); i >= 0 {
		lastLine = body[i+1:]
	}
	if strings.HasPrefix(strings.TrimLeft(lastLine, " \t"), fence) {
		return body[:len(body)-len(lastLine)]
	}
	return body
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return grammar.Ptr(s)
}

func errorBlock(line, message string) grammar.Block {
	return grammar.ErrorBlock{Raw: line, Message: message}
}
