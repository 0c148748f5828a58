package markdown

import (
	"strconv"
	"strings"

	"github.com/goliatone/go-slug"

	"github.com/goliatone/go-notes/internal/grammar"
)

// Heading is an outline entry for a Title line.
type Heading struct {
	Line   int
	Level  grammar.TitleLevel
	Text   string
	Anchor string
}

// Outline lists the titles found in lines. Anchors are slugs of the heading
// text; repeated anchors get a numeric suffix.
func (p *LineParser) Outline(lines []string) []Heading {
	normalizer := slug.Default()
	seen := map[string]int{}
	var headings []Heading
	for i, line := range lines {
		if !strings.HasPrefix(line, "#") {
			continue
		}
		title, ok := p.Parse(line).(grammar.Title)
		if !ok {
			continue
		}
		text := strings.TrimSpace(title.Content.PlainText())
		headings = append(headings, Heading{
			Line:   i,
			Level:  title.Level,
			Text:   text,
			Anchor: uniqueAnchor(anchorFor(normalizer, text, i), seen),
		})
	}
	return headings
}

func anchorFor(normalizer slug.Normalizer, text string, line int) string {
	if normalized, err := normalizer.Normalize(text); err == nil && normalized != "" {
		return normalized
	}
	return "line-" + strconv.Itoa(line)
}

func uniqueAnchor(anchor string, seen map[string]int) string {
	count := seen[anchor]
	seen[anchor] = count + 1
	if count == 0 {
		return anchor
	}
	return anchor + "-" + strconv.Itoa(count)
}
