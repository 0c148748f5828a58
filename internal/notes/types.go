package notes

import (
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Note is the stored form of a note. DocumentID is the opaque id used by the
// editor; ID is derived from it.
type Note struct {
	bun.BaseModel `bun:"table:notes,alias:n"`

	ID         uuid.UUID `bun:",pk,type:uuid" json:"id"`
	DocumentID string    `bun:"document_id,notnull,unique" json:"document_id"`
	Name       string    `bun:"name,notnull" json:"name"`
	Body       string    `bun:"body,notnull" json:"body"`
	Tags       []string  `bun:"tags,type:jsonb,nullzero" json:"tags,omitempty"`
	CreatedAt  time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt  time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

func cloneNote(note *Note) *Note {
	if note == nil {
		return nil
	}
	cloned := *note
	cloned.Tags = slices.Clone(note.Tags)
	return &cloned
}
