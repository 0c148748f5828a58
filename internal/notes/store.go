package notes

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/goliatone/go-repository-cache/cache"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-notes/internal/identity"
	"github.com/goliatone/go-notes/internal/logging"
	"github.com/goliatone/go-notes/internal/markdown"
	"github.com/goliatone/go-notes/pkg/interfaces"
)

// Store fetches and persists the raw text of notes.
type Store interface {
	interfaces.NoteStore
}

// StoreOption configures a RepositoryStore.
type StoreOption func(*RepositoryStore)

// WithStoreClock overrides the clock used to stamp notes.
func WithStoreClock(clock func() time.Time) StoreOption {
	return func(s *RepositoryStore) {
		if clock != nil {
			s.now = clock
		}
	}
}

// WithStoreLogger sets the logger used for persistence events.
func WithStoreLogger(logger interfaces.Logger) StoreOption {
	return func(s *RepositoryStore) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// RepositoryStore implements Store on top of a NoteRepository. Persisting a
// note refreshes its name and tags from the front matter header.
type RepositoryStore struct {
	repo   NoteRepository
	now    func() time.Time
	logger interfaces.Logger
}

var _ Store = (*RepositoryStore)(nil)

// NewStore wraps repo.
func NewStore(repo NoteRepository, opts ...StoreOption) *RepositoryStore {
	s := &RepositoryStore{
		repo:   repo,
		now:    time.Now,
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// NewMemoryStore returns a store backed by the in-memory repository.
func NewMemoryStore(opts ...StoreOption) *RepositoryStore {
	return NewStore(NewMemoryRepository(), opts...)
}

// NewBunStore returns a store backed by the notes table. Reads are cached when
// cacheService and serializer are both set.
func NewBunStore(db *bun.DB, cacheService cache.CacheService, serializer cache.KeySerializer, opts ...StoreOption) *RepositoryStore {
	return NewStore(NewBunNoteRepositoryWithCache(db, cacheService, serializer), opts...)
}

// Repository exposes the underlying repository.
func (s *RepositoryStore) Repository() NoteRepository {
	return s.repo
}

// FetchRawText returns the stored text of documentID or a *NotFoundError.
func (s *RepositoryStore) FetchRawText(ctx context.Context, documentID string) (string, error) {
	note, err := s.repo.GetByDocumentID(ctx, documentID)
	if err != nil {
		return "", err
	}
	return note.Body, nil
}

// PersistRawText creates or updates the note stored under documentID.
func (s *RepositoryStore) PersistRawText(ctx context.Context, documentID string, raw string) error {
	logger := logging.WithDocumentContext(s.logger, documentID, "persist")
	now := s.now().UTC()

	existing, err := s.repo.GetByDocumentID(ctx, documentID)
	var notFound *NotFoundError
	switch {
	case errors.As(err, &notFound):
		existing = nil
	case err != nil:
		logger.Error("notes.persist.failed", "error", err)
		return err
	}

	name, tags := s.metadata(logger, documentID, raw)
	if existing == nil {
		note := &Note{
			ID:         identity.NoteUUID(documentID),
			DocumentID: documentID,
			Name:       name,
			Body:       raw,
			Tags:       tags,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if _, err := s.repo.Create(ctx, note); err != nil {
			logger.Error("notes.persist.failed", "error", err)
			return err
		}
		logger.Debug("notes.persist.created", "bytes", len(raw))
		return nil
	}

	existing.Name = name
	existing.Body = raw
	existing.Tags = tags
	existing.UpdatedAt = now
	if _, err := s.repo.Update(ctx, existing); err != nil {
		logger.Error("notes.persist.failed", "error", err)
		return err
	}
	logger.Debug("notes.persist.updated", "bytes", len(raw))
	return nil
}

func (s *RepositoryStore) metadata(logger interfaces.Logger, documentID, raw string) (string, []string) {
	meta, _, err := markdown.ParseFrontMatter(raw)
	if err != nil {
		logger.Warn("notes.persist.frontmatter_invalid", "error", err)
		return documentID, nil
	}
	name := strings.TrimSpace(meta.Title)
	if name == "" {
		name = documentID
	}
	return name, meta.Tags
}
