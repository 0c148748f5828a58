package grammar_test

import (
	"encoding/json"
	"testing"

	"github.com/goliatone/go-notes/internal/grammar"
	"github.com/goliatone/go-notes/pkg/testsupport"
)

type goldenBlock struct {
	Markdown string          `json:"markdown"`
	Block    json.RawMessage `json:"block"`
}

func TestGoldenBlocksDecodeAndRender(t *testing.T) {
	var cases []goldenBlock
	if err := testsupport.LoadGolden("testdata/blocks.golden.json", &cases); err != nil {
		t.Fatalf("load golden: %v", err)
	}
	if len(cases) == 0 {
		t.Fatalf("golden file has no cases")
	}
	for _, tc := range cases {
		block, err := grammar.UnmarshalBlock(tc.Block)
		if err != nil {
			t.Fatalf("UnmarshalBlock(%s): %v", tc.Block, err)
		}
		if got := grammar.Render(block); got != tc.Markdown {
			t.Fatalf("render mismatch\nwant %q\ngot  %q", tc.Markdown, got)
		}
	}
}

func TestGoldenFixtureIsValidJSONSchema(t *testing.T) {
	raw, err := testsupport.LoadFixture("testdata/blocks.golden.json")
	if err != nil {
		t.Fatalf("load fixture: %v", err)
	}
	var cases []goldenBlock
	if err := json.Unmarshal(raw, &cases); err != nil {
		t.Fatalf("decode fixture: %v", err)
	}
	for _, tc := range cases {
		if err := grammar.ValidateBlockJSON(tc.Block); err != nil {
			t.Fatalf("ValidateBlockJSON(%s): %v", tc.Block, err)
		}
	}
}
