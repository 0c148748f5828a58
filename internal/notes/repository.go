package notes

import (
	"context"
	"fmt"
)

// NoteRepository persists note records.
type NoteRepository interface {
	Create(ctx context.Context, note *Note) (*Note, error)
	Update(ctx context.Context, note *Note) (*Note, error)
	GetByDocumentID(ctx context.Context, documentID string) (*Note, error)
	List(ctx context.Context) ([]*Note, error)
	Delete(ctx context.Context, documentID string) error
}

// NotFoundError is returned when a note cannot be located.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %q not found", e.Resource, e.Key)
}
