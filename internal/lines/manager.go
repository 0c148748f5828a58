package lines

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-notes/internal/logging"
	"github.com/goliatone/go-notes/pkg/interfaces"
)

// TextCodeTokenization identifies splitter failures in go-errors payloads.
const TextCodeTokenization = "LINES_TOKENIZATION_FAILED"

// ErrTokenization is matched by errors.Is when the splitter rejects a text.
var ErrTokenization = errors.New("lines: tokenization failed")

// Cursor is the caret position reported after a paste. Column is a byte
// offset into the line.
type Cursor struct {
	Line   int
	Column int
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger used for load and edit events.
func WithLogger(logger interfaces.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

type entry struct {
	mu    sync.Mutex
	lines []string
}

// Manager caches the lines of open documents and applies incremental edits to
// them. Every cached sequence holds at least one line. Operations on unknown
// documents or out of range indexes are no-ops; only splitter failures are
// reported as errors.
type Manager struct {
	splitter interfaces.Splitter
	logger   interfaces.Logger

	mu   sync.RWMutex
	docs map[string]*entry
}

// NewManager constructs a Manager around splitter. A nil splitter falls back
// to plain newline splitting.
func NewManager(splitter interfaces.Splitter, opts ...Option) *Manager {
	if splitter == nil {
		splitter = interfaces.SplitterFunc(splitNewlines)
	}
	m := &Manager{
		splitter: splitter,
		logger:   logging.NoOp(),
		docs:     make(map[string]*entry),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}
	return m
}

// Load splits raw and caches the result for documentID, replacing any
// previous sequence. A text that splits into nothing is cached as one empty
// line.
func (m *Manager) Load(documentID, raw string) ([]string, error) {
	lines, err := m.split(raw)
	if err != nil {
		m.logger.Warn("lines.load.failed", "document_id", documentID, "error", err)
		return nil, err
	}
	if len(lines) == 0 {
		lines = []string{""}
	}

	m.mu.Lock()
	m.docs[documentID] = &entry{lines: slices.Clone(lines)}
	m.mu.Unlock()

	m.logger.Debug("lines.load", "document_id", documentID, "lines", len(lines))
	return lines, nil
}

// Has reports whether documentID is cached.
func (m *Manager) Has(documentID string) bool {
	return m.lookup(documentID) != nil
}

// LineCount returns the number of cached lines, or 0 for unknown documents.
func (m *Manager) LineCount(documentID string) int {
	e := m.lookup(documentID)
	if e == nil {
		return 0
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.lines)
}

// Line returns the line at index.
func (m *Manager) Line(documentID string, index int) (string, bool) {
	e := m.lookup(documentID)
	if e == nil {
		return "", false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if !inRange(e.lines, index) {
		return "", false
	}
	return e.lines[index], true
}

// Lines returns a copy of the cached sequence.
func (m *Manager) Lines(documentID string) ([]string, bool) {
	e := m.lookup(documentID)
	if e == nil {
		return nil, false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.lines), true
}

// Serialize joins the cached lines with "\n".
func (m *Manager) Serialize(documentID string) (string, bool) {
	e := m.lookup(documentID)
	if e == nil {
		return "", false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return strings.Join(e.lines, "\n"), true
}

// UpdateLine replaces the line at index.
func (m *Manager) UpdateLine(documentID string, index int, content string) {
	m.edit(documentID, func(e *entry) {
		if !inRange(e.lines, index) {
			return
		}
		e.lines[index] = content
	})
}

// AppendLine inserts content directly after the line at after. Positions past
// the end append to the end; a negative position inserts at the start. Negative
// positions are clamped, not counted back from the end as slice splicing in
// other languages does, so AppendLine(id, -2, s) never lands before the last
// line.
func (m *Manager) AppendLine(documentID string, after int, content string) {
	m.edit(documentID, func(e *entry) {
		at := after + 1
		switch {
		case at < 0:
			at = 0
		case at > len(e.lines):
			at = len(e.lines)
		}
		e.lines = slices.Insert(e.lines, at, content)
		m.logger.Trace("lines.append", "document_id", documentID, "at", at)
	})
}

// DeleteLine removes the line at index unless it is the only line left.
func (m *Manager) DeleteLine(documentID string, index int) {
	m.edit(documentID, func(e *entry) {
		if len(e.lines) <= 1 || !inRange(e.lines, index) {
			return
		}
		e.lines = slices.Delete(e.lines, index, index+1)
		m.logger.Trace("lines.delete", "document_id", documentID, "index", index)
	})
}

// MergeLineUp appends suffix to the line above index and removes the line at
// index. It returns the length of the line above before the merge, which is
// where the caret lands.
func (m *Manager) MergeLineUp(documentID string, index int, suffix string) (int, bool) {
	var (
		column int
		ok     bool
	)
	m.edit(documentID, func(e *entry) {
		if index <= 0 || index >= len(e.lines) {
			return
		}
		previous := e.lines[index-1]
		column = len(previous)
		e.lines[index-1] = previous + suffix
		e.lines = slices.Delete(e.lines, index, index+1)
		ok = true
	})
	if ok {
		m.logger.Trace("lines.merge", "document_id", documentID, "index", index, "column", column)
	}
	return column, ok
}

// Paste replaces the line at index with the lines produced by splitting
// prefix+pasted+suffix, where prefix and suffix are the parts of the line
// before and after the caret. The returned cursor sits on the last produced
// line, just before the re-attached suffix.
func (m *Manager) Paste(documentID string, index int, pasted, prefix, suffix string) (Cursor, bool, error) {
	if m.lookup(documentID) == nil {
		return Cursor{}, false, nil
	}

	produced, err := m.split(prefix + pasted + suffix)
	if err != nil {
		m.logger.Warn("lines.paste.failed", "document_id", documentID, "index", index, "error", err)
		return Cursor{}, false, err
	}
	if len(produced) == 0 {
		return Cursor{}, false, nil
	}

	var (
		cursor Cursor
		ok     bool
	)
	m.edit(documentID, func(e *entry) {
		if !inRange(e.lines, index) {
			return
		}
		e.lines = slices.Replace(e.lines, index, index+1, produced...)
		last := produced[len(produced)-1]
		cursor = Cursor{
			Line:   index + len(produced) - 1,
			Column: max(len(last)-len(suffix), 0),
		}
		ok = true
	})
	if ok {
		m.logger.Debug("lines.paste.applied", "document_id", documentID, "index", index, "produced", len(produced))
	}
	return cursor, ok, nil
}

// Remove evicts documentID from the cache.
func (m *Manager) Remove(documentID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.docs[documentID]; !ok {
		return false
	}
	delete(m.docs, documentID)
	m.logger.Debug("lines.remove", "document_id", documentID)
	return true
}

// Documents returns the ids of cached documents in sorted order.
func (m *Manager) Documents() []string {
	m.mu.RLock()
	ids := make([]string, 0, len(m.docs))
	for id := range m.docs {
		ids = append(ids, id)
	}
	m.mu.RUnlock()
	slices.Sort(ids)
	return ids
}

func (m *Manager) lookup(documentID string) *entry {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.docs[documentID]
}

func (m *Manager) edit(documentID string, fn func(*entry)) {
	e := m.lookup(documentID)
	if e == nil {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	fn(e)
}

func (m *Manager) split(text string) ([]string, error) {
	lines, err := m.splitter.Split(text)
	if err != nil {
		return nil, goerrors.Wrap(fmt.Errorf("%w: %w", ErrTokenization, err), goerrors.CategoryExternal, "lines: split text").
			WithTextCode(TextCodeTokenization)
	}
	return lines, nil
}

func inRange(lines []string, index int) bool {
	return index >= 0 && index < len(lines)
}

func splitNewlines(text string) ([]string, error) {
	if text == "" {
		return nil, nil
	}
	return strings.Split(text, "\n"), nil
}
