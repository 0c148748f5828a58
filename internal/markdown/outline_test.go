package markdown

import (
	"strings"
	"testing"

	"github.com/goliatone/go-notes/internal/grammar"
)

func TestOutlineListsTitlesWithAnchors(t *testing.T) {
	p := NewLineParser()
	lines := []string{
		"# Intro",
		"some text",
		"## Intro",
		"### Setup **Guide**",
		"# broken> still a title",
		"#hashtag line",
		"> # not a title",
	}

	headings := p.Outline(lines)
	if len(headings) != 4 {
		t.Fatalf("expected 4 headings, got %d: %#v", len(headings), headings)
	}

	first := headings[0]
	if first.Line != 0 || first.Level != grammar.H1 || first.Text != "Intro" || first.Anchor != "intro" {
		t.Fatalf("unexpected first heading %#v", first)
	}
	if headings[1].Line != 2 || headings[1].Anchor != "intro-1" {
		t.Fatalf("expected duplicate anchor suffix, got %#v", headings[1])
	}
	setup := headings[2]
	if setup.Text != "Setup Guide" || setup.Level != grammar.H3 {
		t.Fatalf("unexpected setup heading %#v", setup)
	}
	if !strings.Contains(setup.Anchor, "setup") || strings.ContainsAny(setup.Anchor, " *") {
		t.Fatalf("unexpected anchor %q", setup.Anchor)
	}
}

func TestOutlineEmpty(t *testing.T) {
	if headings := NewLineParser().Outline([]string{"a", "b"}); len(headings) != 0 {
		t.Fatalf("expected no headings, got %#v", headings)
	}
}
