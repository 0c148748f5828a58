package interfaces

import "context"

// NoteStore is the source and sink of raw note text. The line manager never
// calls it directly; editor sessions fetch on open and persist on save.
type NoteStore interface {
	FetchRawText(ctx context.Context, documentID string) (string, error)
	PersistRawText(ctx context.Context, documentID, raw string) error
}
