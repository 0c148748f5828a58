package lines

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"testing"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-notes/pkg/interfaces"
)

// newlineSplitter drops empty lines, which keeps it stable under re-split.
func newlineSplitter() interfaces.Splitter {
	return interfaces.SplitterFunc(func(text string) ([]string, error) {
		var out []string
		for _, line := range strings.Split(text, "\n") {
			if line != "" {
				out = append(out, line)
			}
		}
		return out, nil
	})
}

type failingSplitter struct {
	calls int
	err   error
}

func (f *failingSplitter) Split(string) ([]string, error) {
	f.calls++
	return nil, f.err
}

func loaded(t *testing.T, raw string) *Manager {
	t.Helper()
	m := NewManager(newlineSplitter())
	if _, err := m.Load("doc", raw); err != nil {
		t.Fatalf("load: %v", err)
	}
	return m
}

func assertLines(t *testing.T, m *Manager, want ...string) {
	t.Helper()
	got, ok := m.Lines("doc")
	if !ok {
		t.Fatalf("expected document to be cached")
	}
	if !slices.Equal(got, want) {
		t.Fatalf("unexpected lines\nwant %q\ngot  %q", want, got)
	}
}

func TestLoadSerializeRoundTrip(t *testing.T) {
	raw := "# Title\nsome text\n- [ ] todo"
	m := loaded(t, raw)

	got, ok := m.Serialize("doc")
	if !ok || got != raw {
		t.Fatalf("Serialize() = %q, %v; want %q", got, ok, raw)
	}
	if m.LineCount("doc") != 3 {
		t.Fatalf("expected 3 lines, got %d", m.LineCount("doc"))
	}
}

func TestLoadReplacesExistingSequenceAndReturnsCopy(t *testing.T) {
	m := loaded(t, "a\nb")

	lines, err := m.Load("doc", "c")
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	lines[0] = "mutated"
	assertLines(t, m, "c")
}

func TestLoadEmptyTextKeepsSingleEmptyLine(t *testing.T) {
	m := NewManager(newlineSplitter())
	lines, err := m.Load("doc", "")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(lines) != 1 || lines[0] != "" {
		t.Fatalf("expected single empty line, got %q", lines)
	}
	if got, _ := m.Serialize("doc"); got != "" {
		t.Fatalf("expected empty serialization, got %q", got)
	}
}

func TestLoadSplitterFailure(t *testing.T) {
	cause := errors.New("unbalanced fence")
	m := NewManager(&failingSplitter{err: cause})

	_, err := m.Load("doc", "```")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !errors.Is(err, ErrTokenization) {
		t.Fatalf("expected ErrTokenization, got %v", err)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected original cause to be preserved, got %v", err)
	}
	if !goerrors.IsCategory(err, goerrors.CategoryExternal) {
		t.Fatalf("expected external category, got %v", err)
	}
	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) || richErr.TextCode != TextCodeTokenization {
		t.Fatalf("expected text code %s, got %v", TextCodeTokenization, err)
	}
	if m.Has("doc") {
		t.Fatalf("failed load must not cache the document")
	}
}

func TestUnknownDocumentIsNoOp(t *testing.T) {
	m := NewManager(newlineSplitter())

	m.UpdateLine("missing", 0, "x")
	m.AppendLine("missing", 0, "x")
	m.DeleteLine("missing", 0)
	if _, ok := m.MergeLineUp("missing", 1, ""); ok {
		t.Fatalf("expected merge on unknown document to report false")
	}
	cursor, ok, err := m.Paste("missing", 0, "x", "", "")
	if err != nil || ok || cursor != (Cursor{}) {
		t.Fatalf("expected paste no-op, got %v %v %v", cursor, ok, err)
	}
	if m.Has("missing") || m.LineCount("missing") != 0 {
		t.Fatalf("unknown document must stay absent")
	}
	if _, ok := m.Line("missing", 0); ok {
		t.Fatalf("expected Line to report false")
	}
	if _, ok := m.Serialize("missing"); ok {
		t.Fatalf("expected Serialize to report false")
	}
}

func TestUpdateLineThenSerialize(t *testing.T) {
	m := loaded(t, "a\nb\nc")

	m.UpdateLine("doc", 1, "B")
	got, _ := m.Serialize("doc")
	if got != "a\nB\nc" {
		t.Fatalf("unexpected serialization %q", got)
	}

	m.UpdateLine("doc", 3, "ignored")
	m.UpdateLine("doc", -1, "ignored")
	assertLines(t, m, "a", "B", "c")
}

func TestLineOutOfRange(t *testing.T) {
	m := loaded(t, "a")
	if line, ok := m.Line("doc", 0); !ok || line != "a" {
		t.Fatalf("Line(0) = %q, %v", line, ok)
	}
	if _, ok := m.Line("doc", 1); ok {
		t.Fatalf("expected out of range to report false")
	}
}

func TestAppendLineClampsToEnd(t *testing.T) {
	m := loaded(t, "a\nb")

	m.AppendLine("doc", 0, "mid")
	assertLines(t, m, "a", "mid", "b")

	m.AppendLine("doc", m.LineCount("doc")-1, "tail")
	assertLines(t, m, "a", "mid", "b", "tail")

	m.AppendLine("doc", m.LineCount("doc")+50, "far")
	assertLines(t, m, "a", "mid", "b", "tail", "far")

	m.AppendLine("doc", -1, "head")
	assertLines(t, m, "head", "a", "mid", "b", "tail", "far")

	m.AppendLine("doc", -3, "first")
	assertLines(t, m, "first", "head", "a", "mid", "b", "tail", "far")
}

func TestDeleteLineKeepsLastLine(t *testing.T) {
	m := loaded(t, "x")

	m.DeleteLine("doc", 0)
	assertLines(t, m, "x")
}

func TestDeleteLineNeverEmptiesSequence(t *testing.T) {
	m := loaded(t, "a\nb\nc\nd")

	for i := 0; i < 10; i++ {
		m.DeleteLine("doc", 0)
		if m.LineCount("doc") < 1 {
			t.Fatalf("sequence emptied after %d deletes", i+1)
		}
	}
	assertLines(t, m, "d")

	m.DeleteLine("doc", 5)
	assertLines(t, m, "d")
}

func TestMergeLineUp(t *testing.T) {
	m := loaded(t, "ab\ncd")

	column, ok := m.MergeLineUp("doc", 1, "!")
	if !ok || column != 2 {
		t.Fatalf("MergeLineUp() = %d, %v; want 2, true", column, ok)
	}
	assertLines(t, m, "ab!")
}

func TestMergeLineUpAtFirstLineIsNoOp(t *testing.T) {
	m := loaded(t, "ab\ncd")

	if _, ok := m.MergeLineUp("doc", 0, "zz"); ok {
		t.Fatalf("expected merge at index 0 to report false")
	}
	if _, ok := m.MergeLineUp("doc", 2, "zz"); ok {
		t.Fatalf("expected merge past the end to report false")
	}
	assertLines(t, m, "ab", "cd")
}

func TestPasteSplitsAndPlacesCursor(t *testing.T) {
	m := loaded(t, "hello world")

	cursor, ok, err := m.Paste("doc", 0, "foo\nbar", "hello ", "world")
	if err != nil || !ok {
		t.Fatalf("paste: ok=%v err=%v", ok, err)
	}
	assertLines(t, m, "hello foo", "barworld")
	if cursor != (Cursor{Line: 1, Column: 3}) {
		t.Fatalf("unexpected cursor %+v", cursor)
	}
}

func TestPasteSpliceCount(t *testing.T) {
	m := loaded(t, "one\ntwo\nthree")
	before := m.LineCount("doc")

	cursor, ok, err := m.Paste("doc", 1, "\nx\ny\n", "t", "wo")
	if err != nil || !ok {
		t.Fatalf("paste: ok=%v err=%v", ok, err)
	}
	// "t\nx\ny\nwo" splits into four lines.
	if got := m.LineCount("doc"); got != before-1+4 {
		t.Fatalf("expected %d lines, got %d", before-1+4, got)
	}
	assertLines(t, m, "one", "t", "x", "y", "wo", "three")
	if cursor != (Cursor{Line: 4, Column: 0}) {
		t.Fatalf("unexpected cursor %+v", cursor)
	}
}

func TestPasteSingleLine(t *testing.T) {
	m := loaded(t, "ac")

	cursor, ok, err := m.Paste("doc", 0, "b", "a", "c")
	if err != nil || !ok {
		t.Fatalf("paste: ok=%v err=%v", ok, err)
	}
	assertLines(t, m, "abc")
	if cursor != (Cursor{Line: 0, Column: 2}) {
		t.Fatalf("unexpected cursor %+v", cursor)
	}
}

func TestPasteProducingNothingIsNoOp(t *testing.T) {
	m := loaded(t, "a\nb")

	_, ok, err := m.Paste("doc", 1, "\n\n", "", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatalf("expected paste with no produced lines to report false")
	}
	assertLines(t, m, "a", "b")
}

func TestPasteOutOfRangeIsNoOp(t *testing.T) {
	m := loaded(t, "a")

	if _, ok, err := m.Paste("doc", 4, "x", "", ""); ok || err != nil {
		t.Fatalf("expected no-op, got ok=%v err=%v", ok, err)
	}
	assertLines(t, m, "a")
}

func TestPasteSplitterFailureLeavesLinesUntouched(t *testing.T) {
	splitter := &switchingSplitter{inner: newlineSplitter()}
	m := NewManager(splitter)
	if _, err := m.Load("doc", "a\nb"); err != nil {
		t.Fatalf("load: %v", err)
	}

	splitter.fail = errors.New("boom")
	_, ok, err := m.Paste("doc", 0, "x", "", "")
	if !errors.Is(err, ErrTokenization) || ok {
		t.Fatalf("expected tokenization failure, got ok=%v err=%v", ok, err)
	}
	assertLines(t, m, "a", "b")
}

type switchingSplitter struct {
	inner interfaces.Splitter
	fail  error
}

func (s *switchingSplitter) Split(text string) ([]string, error) {
	if s.fail != nil {
		return nil, s.fail
	}
	return s.inner.Split(text)
}

func TestRemoveAndDocuments(t *testing.T) {
	m := NewManager(newlineSplitter())
	for _, id := range []string{"b", "a", "c"} {
		if _, err := m.Load(id, id); err != nil {
			t.Fatalf("load %s: %v", id, err)
		}
	}
	if got := m.Documents(); !slices.Equal(got, []string{"a", "b", "c"}) {
		t.Fatalf("Documents() = %v", got)
	}
	if !m.Remove("b") {
		t.Fatalf("expected Remove to report true")
	}
	if m.Remove("b") {
		t.Fatalf("expected second Remove to report false")
	}
	if m.Has("b") {
		t.Fatalf("expected b to be evicted")
	}
}

func TestNilSplitterFallsBackToNewlines(t *testing.T) {
	m := NewManager(nil)
	lines, err := m.Load("doc", "a\n\nb")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !slices.Equal(lines, []string{"a", "", "b"}) {
		t.Fatalf("unexpected lines %q", lines)
	}
}

func TestConcurrentEditsAcrossDocuments(t *testing.T) {
	m := NewManager(newlineSplitter())
	const docs = 8
	const edits = 50

	for i := 0; i < docs; i++ {
		if _, err := m.Load(fmt.Sprintf("doc-%d", i), "seed"); err != nil {
			t.Fatalf("load: %v", err)
		}
	}

	var wg sync.WaitGroup
	for i := 0; i < docs; i++ {
		id := fmt.Sprintf("doc-%d", i)
		for w := 0; w < 2; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < edits; j++ {
					m.AppendLine(id, m.LineCount(id), "line")
					m.UpdateLine(id, 0, "seed")
					_, _ = m.Serialize(id)
				}
			}()
		}
	}
	wg.Wait()

	for i := 0; i < docs; i++ {
		id := fmt.Sprintf("doc-%d", i)
		if got := m.LineCount(id); got != 1+2*edits {
			t.Fatalf("%s: expected %d lines, got %d", id, 1+2*edits, got)
		}
	}
}
