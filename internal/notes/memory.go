package notes

import (
	"context"
	"sort"
	"sync"
)

type memoryRepository struct {
	mu    sync.RWMutex
	notes map[string]*Note
}

// NewMemoryRepository constructs an in-memory note repository keyed by
// document id.
func NewMemoryRepository() NoteRepository {
	return &memoryRepository{notes: make(map[string]*Note)}
}

func (m *memoryRepository) Create(_ context.Context, note *Note) (*Note, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cloned := cloneNote(note)
	m.notes[cloned.DocumentID] = cloned
	return cloneNote(cloned), nil
}

func (m *memoryRepository) Update(_ context.Context, note *Note) (*Note, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.notes[note.DocumentID]; !ok {
		return nil, &NotFoundError{Resource: "note", Key: note.DocumentID}
	}
	cloned := cloneNote(note)
	m.notes[cloned.DocumentID] = cloned
	return cloneNote(cloned), nil
}

func (m *memoryRepository) GetByDocumentID(_ context.Context, documentID string) (*Note, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	note, ok := m.notes[documentID]
	if !ok {
		return nil, &NotFoundError{Resource: "note", Key: documentID}
	}
	return cloneNote(note), nil
}

func (m *memoryRepository) List(_ context.Context) ([]*Note, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Note, 0, len(m.notes))
	for _, note := range m.notes {
		out = append(out, cloneNote(note))
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].DocumentID < out[j].DocumentID
	})
	return out, nil
}

func (m *memoryRepository) Delete(_ context.Context, documentID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.notes[documentID]; !ok {
		return &NotFoundError{Resource: "note", Key: documentID}
	}
	delete(m.notes, documentID)
	return nil
}
