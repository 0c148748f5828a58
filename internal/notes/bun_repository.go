package notes

import (
	"context"
	"fmt"

	"github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-notes/internal/identity"
)

// NewNoteRepository creates the go-repository-bun repository for notes.
// Records are addressed by document id through the identifier handlers.
func NewNoteRepository(db *bun.DB) repository.Repository[*Note] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Note]{
		NewRecord: func() *Note { return &Note{} },
		GetID: func(note *Note) uuid.UUID {
			return note.ID
		},
		SetID: func(note *Note, id uuid.UUID) {
			note.ID = id
		},
		GetIdentifier: func() string {
			return "document_id"
		},
		GetIdentifierValue: func(note *Note) string {
			return note.DocumentID
		},
	})
}

// BunNoteRepository implements NoteRepository with optional caching.
type BunNoteRepository struct {
	repo repository.Repository[*Note]
}

// NewBunNoteRepository creates a note repository without caching.
func NewBunNoteRepository(db *bun.DB) *BunNoteRepository {
	return NewBunNoteRepositoryWithCache(db, nil, nil)
}

// NewBunNoteRepositoryWithCache creates a note repository whose reads go
// through go-repository-cache when both cache arguments are set.
func NewBunNoteRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, serializer cache.KeySerializer) *BunNoteRepository {
	base := NewNoteRepository(db)
	if cacheService != nil && serializer != nil {
		base = repositorycache.New(base, cacheService, serializer)
	}
	return &BunNoteRepository{repo: base}
}

func (r *BunNoteRepository) Create(ctx context.Context, note *Note) (*Note, error) {
	if note.ID == uuid.Nil {
		note.ID = identity.NoteUUID(note.DocumentID)
	}
	record, err := r.repo.Create(ctx, note)
	if err != nil {
		return nil, mapRepositoryError(err, note.DocumentID)
	}
	return record, nil
}

func (r *BunNoteRepository) Update(ctx context.Context, note *Note) (*Note, error) {
	if note.ID == uuid.Nil {
		note.ID = identity.NoteUUID(note.DocumentID)
	}
	updated, err := r.repo.Update(ctx, note,
		repository.UpdateByID(note.ID.String()),
		repository.UpdateColumns(
			"name",
			"body",
			"tags",
			"updated_at",
		),
	)
	if err != nil {
		return nil, mapRepositoryError(err, note.DocumentID)
	}
	return updated, nil
}

func (r *BunNoteRepository) GetByDocumentID(ctx context.Context, documentID string) (*Note, error) {
	record, err := r.repo.GetByIdentifier(ctx, documentID)
	if err != nil {
		return nil, mapRepositoryError(err, documentID)
	}
	return record, nil
}

func (r *BunNoteRepository) List(ctx context.Context) ([]*Note, error) {
	records, _, err := r.repo.List(ctx, repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Order("document_id ASC")
	}))
	return records, err
}

func (r *BunNoteRepository) Delete(ctx context.Context, documentID string) error {
	record, err := r.GetByDocumentID(ctx, documentID)
	if err != nil {
		return err
	}
	return r.repo.Delete(ctx, record)
}

func mapRepositoryError(err error, key string) error {
	if err == nil {
		return nil
	}
	if errors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &NotFoundError{Resource: "note", Key: key}
	}
	return fmt.Errorf("note repository error: %w", err)
}
