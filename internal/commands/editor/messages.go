package editorcmd

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	openNoteMessageType    = "notes.editor.open"
	saveNoteMessageType    = "notes.editor.save"
	closeNoteMessageType   = "notes.editor.close"
	updateLineMessageType  = "notes.editor.update_line"
	appendLineMessageType  = "notes.editor.append_line"
	deleteLineMessageType  = "notes.editor.delete_line"
	mergeLineUpMessageType = "notes.editor.merge_line_up"
	pasteMessageType       = "notes.editor.paste"
)

func documentIDRule(code string) validation.Rule {
	return validation.By(func(value any) error {
		if strings.TrimSpace(value.(string)) == "" {
			return validation.NewError(code, "document id is required")
		}
		return nil
	})
}

// OpenNoteCommand loads a note from the store into the line cache.
type OpenNoteCommand struct {
	DocumentID string `json:"document_id"`
}

// Type implements command.Message.
func (OpenNoteCommand) Type() string { return openNoteMessageType }

// Validate implements command.Message.
func (cmd OpenNoteCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.DocumentID, validation.Required, documentIDRule("notes.editor.open.document_id_required")),
	)
}

// SaveNoteCommand writes the cached lines of a note back to the store.
type SaveNoteCommand struct {
	DocumentID string `json:"document_id"`
}

// Type implements command.Message.
func (SaveNoteCommand) Type() string { return saveNoteMessageType }

// Validate implements command.Message.
func (cmd SaveNoteCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.DocumentID, validation.Required, documentIDRule("notes.editor.save.document_id_required")),
	)
}

// CloseNoteCommand evicts a note from the line cache without saving it.
type CloseNoteCommand struct {
	DocumentID string `json:"document_id"`
}

// Type implements command.Message.
func (CloseNoteCommand) Type() string { return closeNoteMessageType }

// Validate implements command.Message.
func (cmd CloseNoteCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.DocumentID, validation.Required, documentIDRule("notes.editor.close.document_id_required")),
	)
}

// UpdateLineCommand replaces the content of one line.
type UpdateLineCommand struct {
	DocumentID string `json:"document_id"`
	Index      int    `json:"index"`
	Content    string `json:"content"`
}

// Type implements command.Message.
func (UpdateLineCommand) Type() string { return updateLineMessageType }

// Validate implements command.Message.
func (cmd UpdateLineCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.DocumentID, validation.Required, documentIDRule("notes.editor.update_line.document_id_required")),
		validation.Field(&cmd.Index, validation.Min(0)),
	)
}

// AppendLineCommand inserts a line after After. An After of -1 inserts at
// the top of the note.
type AppendLineCommand struct {
	DocumentID string `json:"document_id"`
	After      int    `json:"after"`
	Content    string `json:"content"`
}

// Type implements command.Message.
func (AppendLineCommand) Type() string { return appendLineMessageType }

// Validate implements command.Message.
func (cmd AppendLineCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.DocumentID, validation.Required, documentIDRule("notes.editor.append_line.document_id_required")),
		validation.Field(&cmd.After, validation.Min(-1)),
	)
}

// DeleteLineCommand removes one line. The last remaining line is kept.
type DeleteLineCommand struct {
	DocumentID string `json:"document_id"`
	Index      int    `json:"index"`
}

// Type implements command.Message.
func (DeleteLineCommand) Type() string { return deleteLineMessageType }

// Validate implements command.Message.
func (cmd DeleteLineCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.DocumentID, validation.Required, documentIDRule("notes.editor.delete_line.document_id_required")),
		validation.Field(&cmd.Index, validation.Min(0)),
	)
}

// MergeLineUpCommand joins line Index onto the previous line, appending
// Suffix, as a backspace at the start of a line does.
type MergeLineUpCommand struct {
	DocumentID string `json:"document_id"`
	Index      int    `json:"index"`
	Suffix     string `json:"suffix"`
}

// Type implements command.Message.
func (MergeLineUpCommand) Type() string { return mergeLineUpMessageType }

// Validate implements command.Message.
func (cmd MergeLineUpCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.DocumentID, validation.Required, documentIDRule("notes.editor.merge_line_up.document_id_required")),
		validation.Field(&cmd.Index, validation.Min(0)),
	)
}

// PasteCommand splices pasted text into line Index. Prefix and Suffix are the
// parts of the line before and after the caret.
type PasteCommand struct {
	DocumentID string `json:"document_id"`
	Index      int    `json:"index"`
	Pasted     string `json:"pasted"`
	Prefix     string `json:"prefix"`
	Suffix     string `json:"suffix"`
}

// Type implements command.Message.
func (PasteCommand) Type() string { return pasteMessageType }

// Validate implements command.Message.
func (cmd PasteCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.DocumentID, validation.Required, documentIDRule("notes.editor.paste.document_id_required")),
		validation.Field(&cmd.Index, validation.Min(0)),
	)
}
