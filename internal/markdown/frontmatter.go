package markdown

import (
	"fmt"
	"maps"
	"strings"

	"github.com/adrg/frontmatter"

	"github.com/goliatone/go-notes/pkg/interfaces"
)

// ParseFrontMatter splits a note into its metadata header and body. Text
// without a header returns zero metadata and the text unchanged.
func ParseFrontMatter(source string) (interfaces.FrontMatter, string, error) {
	var meta frontMatterEnvelope
	body, err := frontmatter.Parse(strings.NewReader(source), &meta)
	if err != nil {
		return interfaces.FrontMatter{}, "", fmt.Errorf("parse frontmatter: %w", err)
	}
	return interfaces.FrontMatter{
		Title:  strings.TrimSpace(meta.Title),
		Tags:   normalizeTags(meta.Tags),
		Custom: maps.Clone(meta.Custom),
	}, string(body), nil
}

type frontMatterEnvelope struct {
	Title  string         `yaml:"title" toml:"title" json:"title"`
	Tags   []string       `yaml:"tags" toml:"tags" json:"tags"`
	Custom map[string]any `yaml:",inline"`
}

func normalizeTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}
