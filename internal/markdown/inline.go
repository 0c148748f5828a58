package markdown

import (
	"strings"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	"github.com/goliatone/go-notes/internal/grammar"
)

// inlineParser parses the inline part of a line. goldmark handles code spans,
// links, autolinks, emphasis and strikethrough; the remaining plain text is
// scanned for "$math$", ":emoji:" and "[^key]" spans.
type inlineParser struct {
	md parser.Parser
}

func newInlineParser() *inlineParser {
	md := parser.NewParser(
		parser.WithBlockParsers(
			util.Prioritized(parser.NewParagraphParser(), 1000),
		),
		parser.WithInlineParsers(
			util.Prioritized(parser.NewCodeSpanParser(), 100),
			util.Prioritized(parser.NewLinkParser(), 200),
			util.Prioritized(parser.NewAutoLinkParser(), 300),
			util.Prioritized(parser.NewEmphasisParser(), 500),
			util.Prioritized(extension.NewStrikethroughParser(), 500),
		),
	)
	return &inlineParser{md: md}
}

type style struct {
	bold, italic, strike bool
}

// run is either a raw text fragment (still escaped) or a finished sentence.
type run struct {
	raw      string
	style    style
	sentence grammar.Sentence
}

func (p *inlineParser) parse(content string) grammar.Paragraph {
	if content == "" {
		return grammar.Paragraph{}
	}
	body := strings.TrimSpace(content)
	leading := content[:strings.Index(content, body)]
	trailing := content[len(leading)+len(body):]
	if body == "" {
		return grammar.Paragraph{grammar.Text{Content: content}}
	}

	source := []byte(body)
	doc := p.md.Parse(text.NewReader(source))

	var runs []run
	if leading != "" {
		runs = append(runs, run{raw: leading})
	}
	collectRuns(doc, source, style{}, &runs)
	if trailing != "" {
		runs = append(runs, run{raw: trailing})
	}
	return mergeText(buildParagraph(runs))
}

func collectRuns(node ast.Node, source []byte, st style, runs *[]run) {
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		switch n := child.(type) {
		case *ast.Paragraph:
			collectRuns(n, source, st, runs)
		case *ast.Text:
			*runs = append(*runs, run{raw: string(n.Segment.Value(source)), style: st})
		case *ast.String:
			*runs = append(*runs, run{raw: string(n.Value), style: st})
		case *ast.Emphasis:
			next := st
			if n.Level >= 2 {
				next.bold = true
			} else {
				next.italic = true
			}
			collectRuns(n, source, next, runs)
		case *extast.Strikethrough:
			next := st
			next.strike = true
			collectRuns(n, source, next, runs)
		case *ast.CodeSpan:
			*runs = append(*runs, run{sentence: grammar.Code{Content: rawText(n, source)}})
		case *ast.Link:
			*runs = append(*runs, run{sentence: grammar.Link{
				Content: plainText(n, source),
				Href:    optional(string(n.Destination)),
				Title:   optional(string(n.Title)),
			}})
		case *ast.AutoLink:
			url := string(n.URL(source))
			*runs = append(*runs, run{sentence: grammar.Link{
				Content: string(n.Label(source)),
				Href:    optional(url),
			}})
		case *ast.Image:
			*runs = append(*runs, run{
				raw:   "![" + plainText(n, source) + "](" + string(n.Destination) + ")",
				style: st,
			})
		default:
			collectRuns(n, source, st, runs)
		}
	}
}

// rawText concatenates the source text below node without unescaping.
func rawText(node ast.Node, source []byte) string {
	var sb strings.Builder
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		switch n := child.(type) {
		case *ast.Text:
			sb.Write(n.Segment.Value(source))
		case *ast.String:
			sb.Write(n.Value)
		default:
			sb.WriteString(rawText(n, source))
		}
	}
	return sb.String()
}

func plainText(node ast.Node, source []byte) string {
	return string(util.UnescapePunctuations([]byte(rawText(node, source))))
}

// buildParagraph joins adjacent raw fragments of the same style and scans
// them for the spans goldmark does not know about.
func buildParagraph(runs []run) grammar.Paragraph {
	out := grammar.Paragraph{}
	var (
		pending strings.Builder
		current style
		open    bool
	)
	flush := func() {
		if !open {
			return
		}
		out = append(out, scanSpans(pending.String(), current)...)
		pending.Reset()
		open = false
	}
	for _, r := range runs {
		if r.sentence != nil {
			flush()
			out = append(out, r.sentence)
			continue
		}
		if open && r.style != current {
			flush()
		}
		current = r.style
		open = true
		pending.WriteString(r.raw)
	}
	flush()
	return out
}

// scanSpans splits an escaped text fragment into Text, Math, Emoji,
// FooterIndex and target-less Link sentences. A backslash escapes the
// following punctuation.
func scanSpans(raw string, st style) grammar.Paragraph {
	var (
		out     grammar.Paragraph
		literal strings.Builder
	)
	emit := func() {
		if literal.Len() == 0 {
			return
		}
		content := string(util.UnescapePunctuations([]byte(literal.String())))
		out = append(out, grammar.Text{Content: content, Bold: st.bold, Italic: st.italic, Strike: st.strike})
		literal.Reset()
	}

	for i := 0; i < len(raw); {
		c := raw[i]
		if c == '\\' && i+1 < len(raw) && util.IsPunct(raw[i+1]) {
			literal.WriteString(raw[i : i+2])
			i += 2
			continue
		}
		if sentence, width := matchSpan(raw[i:]); width > 0 {
			emit()
			out = append(out, sentence)
			i += width
			continue
		}
		literal.WriteByte(c)
		i++
	}
	emit()
	return out
}

func matchSpan(s string) (grammar.Sentence, int) {
	switch {
	case strings.HasPrefix(s, "[^"):
		end := strings.IndexByte(s, ']')
		if end > 2 && !strings.ContainsAny(s[2:end], "[ ") {
			return grammar.FooterIndex{Key: s[2:end]}, end + 1
		}
	case s[0] == '[':
		return matchBareLink(s)
	case s[0] == '$':
		end := strings.IndexByte(s[1:], '$')
		if end > 0 {
			content := s[1 : end+1]
			if strings.TrimSpace(content) == content {
				return grammar.Math{Content: content}, end + 2
			}
		}
	case s[0] == ':':
		end := strings.IndexByte(s[1:], ':')
		if end > 0 && grammar.IsShortcode(s[1:end+1]) {
			return grammar.Emoji{Content: s[1 : end+1]}, end + 2
		}
	}
	return nil, 0
}

// matchBareLink matches "[label]" that goldmark left as text because no
// target follows. It becomes a Link without Href.
func matchBareLink(s string) (grammar.Sentence, int) {
	for i := 1; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '[':
			return nil, 0
		case ']':
			if i == 1 {
				return nil, 0
			}
			label := util.UnescapePunctuations([]byte(s[1:i]))
			return grammar.Link{Content: string(label)}, i + 1
		}
	}
	return nil, 0
}

// mergeText folds neighbouring Text sentences with identical styles.
func mergeText(p grammar.Paragraph) grammar.Paragraph {
	out := make(grammar.Paragraph, 0, len(p))
	for _, s := range p {
		t, ok := s.(grammar.Text)
		if ok && len(out) > 0 {
			if prev, ok := out[len(out)-1].(grammar.Text); ok &&
				prev.Bold == t.Bold && prev.Italic == t.Italic && prev.Strike == t.Strike {
				prev.Content += t.Content
				out[len(out)-1] = prev
				continue
			}
		}
		out = append(out, s)
	}
	return out
}
