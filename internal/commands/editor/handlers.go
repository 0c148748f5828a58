package editorcmd

import (
	"context"
	"errors"

	command "github.com/goliatone/go-command"
	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-notes/internal/commands"
	"github.com/goliatone/go-notes/internal/lines"
	"github.com/goliatone/go-notes/internal/logging"
	"github.com/goliatone/go-notes/internal/notes"
	"github.com/goliatone/go-notes/pkg/interfaces"
)

const (
	openOperation    = "editor.open"
	saveOperation    = "editor.save"
	closeOperation   = "editor.close"
	updateOperation  = "editor.update_line"
	appendOperation  = "editor.append_line"
	deleteOperation  = "editor.delete_line"
	mergeOperation   = "editor.merge_line_up"
	pasteOperation   = "editor.paste"
	textCodeNotFound = "NOTE_NOT_FOUND"
	textCodeReadOnly = "EDITOR_READ_ONLY"
)

// ErrReadOnly is returned by line edit handlers while the editor is read only.
var ErrReadOnly = errors.New("editor command: notes are read only")

var (
	_ command.Commander[OpenNoteCommand]    = (*OpenNoteHandler)(nil)
	_ command.Commander[SaveNoteCommand]    = (*SaveNoteHandler)(nil)
	_ command.Commander[CloseNoteCommand]   = (*CloseNoteHandler)(nil)
	_ command.Commander[UpdateLineCommand]  = (*UpdateLineHandler)(nil)
	_ command.Commander[AppendLineCommand]  = (*AppendLineHandler)(nil)
	_ command.Commander[DeleteLineCommand]  = (*DeleteLineHandler)(nil)
	_ command.Commander[MergeLineUpCommand] = (*MergeLineUpHandler)(nil)
	_ command.Commander[PasteCommand]       = (*PasteHandler)(nil)
)

// Session is the part of notes.Service the editor handlers drive.
type Session interface {
	Open(ctx context.Context, documentID string) ([]string, error)
	Save(ctx context.Context, documentID string) error
	Close(documentID string) bool
}

// Buffer is the part of lines.Manager the line editing handlers drive.
type Buffer interface {
	UpdateLine(documentID string, index int, content string)
	AppendLine(documentID string, after int, content string)
	DeleteLine(documentID string, index int)
	MergeLineUp(documentID string, index int, suffix string) (int, bool)
	Paste(documentID string, index int, pasted, prefix, suffix string) (lines.Cursor, bool, error)
}

// CursorObserver receives caret positions produced by merges and pastes.
type CursorObserver interface {
	CursorMoved(ctx context.Context, documentID string, cursor lines.Cursor)
}

// CursorObserverFunc adapts a function to CursorObserver.
type CursorObserverFunc func(ctx context.Context, documentID string, cursor lines.Cursor)

// CursorMoved implements CursorObserver.
func (f CursorObserverFunc) CursorMoved(ctx context.Context, documentID string, cursor lines.Cursor) {
	f(ctx, documentID, cursor)
}

type noopObserver struct{}

func (noopObserver) CursorMoved(context.Context, string, lines.Cursor) {}

func ensureObserver(observer CursorObserver) CursorObserver {
	if observer == nil {
		return noopObserver{}
	}
	return observer
}

func documentFields(documentID string) map[string]any {
	return map[string]any{"document_id": documentID}
}

func lineFields(documentID string, index int) map[string]any {
	return map[string]any{"document_id": documentID, "line": index}
}

// categorize tags store lookups so callers can tell a missing note from a
// failed command.
func categorize(err error) error {
	var notFound *notes.NotFoundError
	if errors.As(err, &notFound) {
		return goerrors.Wrap(err, goerrors.CategoryNotFound, notFound.Error()).WithTextCode(textCodeNotFound)
	}
	return err
}

func readOnlyError() error {
	return goerrors.Wrap(ErrReadOnly, goerrors.CategoryOperation, ErrReadOnly.Error()).WithTextCode(textCodeReadOnly)
}

func handlerOptions[T command.Message](logger interfaces.Logger, operation string, fields commands.MessageFields[T], extra []commands.HandlerOption[T]) []commands.HandlerOption[T] {
	opts := []commands.HandlerOption[T]{
		commands.WithLogger[T](logger),
		commands.WithOperation[T](operation),
		commands.WithMessageFields(fields),
		commands.WithTelemetry(commands.DefaultTelemetry[T](logger)),
	}
	return append(opts, extra...)
}

// OpenNoteHandler loads notes into the editor.
type OpenNoteHandler struct {
	inner *commands.Handler[OpenNoteCommand]
}

// NewOpenNoteHandler creates a handler bound to session.
func NewOpenNoteHandler(session Session, logger interfaces.Logger, opts ...commands.HandlerOption[OpenNoteCommand]) *OpenNoteHandler {
	logger = commands.EnsureLogger(logger)
	exec := func(ctx context.Context, msg OpenNoteCommand) error {
		opened, err := session.Open(ctx, msg.DocumentID)
		if err != nil {
			return categorize(err)
		}
		logging.WithFields(logger, documentFields(msg.DocumentID)).Debug("editor.command.open.completed", "lines", len(opened))
		return nil
	}
	fields := func(msg OpenNoteCommand) map[string]any { return documentFields(msg.DocumentID) }
	return &OpenNoteHandler{inner: commands.NewHandler(exec, handlerOptions(logger, openOperation, fields, opts)...)}
}

// Execute satisfies command.Commander[OpenNoteCommand].
func (h *OpenNoteHandler) Execute(ctx context.Context, msg OpenNoteCommand) error {
	return h.inner.Execute(ctx, msg)
}

// SaveNoteHandler persists open notes.
type SaveNoteHandler struct {
	inner *commands.Handler[SaveNoteCommand]
}

// NewSaveNoteHandler creates a handler bound to session. Saving is allowed
// while the editor is read only; the buffer cannot change, so autosave keeps
// writing the loaded text back.
func NewSaveNoteHandler(session Session, logger interfaces.Logger, opts ...commands.HandlerOption[SaveNoteCommand]) *SaveNoteHandler {
	logger = commands.EnsureLogger(logger)
	exec := func(ctx context.Context, msg SaveNoteCommand) error {
		return categorize(session.Save(ctx, msg.DocumentID))
	}
	fields := func(msg SaveNoteCommand) map[string]any { return documentFields(msg.DocumentID) }
	return &SaveNoteHandler{inner: commands.NewHandler(exec, handlerOptions(logger, saveOperation, fields, opts)...)}
}

// Execute satisfies command.Commander[SaveNoteCommand].
func (h *SaveNoteHandler) Execute(ctx context.Context, msg SaveNoteCommand) error {
	return h.inner.Execute(ctx, msg)
}

// CloseNoteHandler evicts notes from the editor.
type CloseNoteHandler struct {
	inner *commands.Handler[CloseNoteCommand]
}

// NewCloseNoteHandler creates a handler bound to session.
func NewCloseNoteHandler(session Session, logger interfaces.Logger, opts ...commands.HandlerOption[CloseNoteCommand]) *CloseNoteHandler {
	logger = commands.EnsureLogger(logger)
	exec := func(ctx context.Context, msg CloseNoteCommand) error {
		if !session.Close(msg.DocumentID) {
			logging.WithFields(logger, documentFields(msg.DocumentID)).Debug("editor.command.close.not_open")
		}
		return nil
	}
	fields := func(msg CloseNoteCommand) map[string]any { return documentFields(msg.DocumentID) }
	return &CloseNoteHandler{inner: commands.NewHandler(exec, handlerOptions(logger, closeOperation, fields, opts)...)}
}

// Execute satisfies command.Commander[CloseNoteCommand].
func (h *CloseNoteHandler) Execute(ctx context.Context, msg CloseNoteCommand) error {
	return h.inner.Execute(ctx, msg)
}

// UpdateLineHandler replaces line content.
type UpdateLineHandler struct {
	inner *commands.Handler[UpdateLineCommand]
}

// NewUpdateLineHandler creates a handler bound to buffer.
func NewUpdateLineHandler(buffer Buffer, logger interfaces.Logger, gates FeatureGates, opts ...commands.HandlerOption[UpdateLineCommand]) *UpdateLineHandler {
	logger = commands.EnsureLogger(logger)
	exec := func(ctx context.Context, msg UpdateLineCommand) error {
		if gates.readOnly() {
			return readOnlyError()
		}
		buffer.UpdateLine(msg.DocumentID, msg.Index, msg.Content)
		return nil
	}
	fields := func(msg UpdateLineCommand) map[string]any { return lineFields(msg.DocumentID, msg.Index) }
	return &UpdateLineHandler{inner: commands.NewHandler(exec, handlerOptions(logger, updateOperation, fields, opts)...)}
}

// Execute satisfies command.Commander[UpdateLineCommand].
func (h *UpdateLineHandler) Execute(ctx context.Context, msg UpdateLineCommand) error {
	return h.inner.Execute(ctx, msg)
}

// AppendLineHandler inserts lines.
type AppendLineHandler struct {
	inner *commands.Handler[AppendLineCommand]
}

// NewAppendLineHandler creates a handler bound to buffer.
func NewAppendLineHandler(buffer Buffer, logger interfaces.Logger, gates FeatureGates, opts ...commands.HandlerOption[AppendLineCommand]) *AppendLineHandler {
	logger = commands.EnsureLogger(logger)
	exec := func(ctx context.Context, msg AppendLineCommand) error {
		if gates.readOnly() {
			return readOnlyError()
		}
		buffer.AppendLine(msg.DocumentID, msg.After, msg.Content)
		return nil
	}
	fields := func(msg AppendLineCommand) map[string]any { return lineFields(msg.DocumentID, msg.After) }
	return &AppendLineHandler{inner: commands.NewHandler(exec, handlerOptions(logger, appendOperation, fields, opts)...)}
}

// Execute satisfies command.Commander[AppendLineCommand].
func (h *AppendLineHandler) Execute(ctx context.Context, msg AppendLineCommand) error {
	return h.inner.Execute(ctx, msg)
}

// DeleteLineHandler removes lines.
type DeleteLineHandler struct {
	inner *commands.Handler[DeleteLineCommand]
}

// NewDeleteLineHandler creates a handler bound to buffer.
func NewDeleteLineHandler(buffer Buffer, logger interfaces.Logger, gates FeatureGates, opts ...commands.HandlerOption[DeleteLineCommand]) *DeleteLineHandler {
	logger = commands.EnsureLogger(logger)
	exec := func(ctx context.Context, msg DeleteLineCommand) error {
		if gates.readOnly() {
			return readOnlyError()
		}
		buffer.DeleteLine(msg.DocumentID, msg.Index)
		return nil
	}
	fields := func(msg DeleteLineCommand) map[string]any { return lineFields(msg.DocumentID, msg.Index) }
	return &DeleteLineHandler{inner: commands.NewHandler(exec, handlerOptions(logger, deleteOperation, fields, opts)...)}
}

// Execute satisfies command.Commander[DeleteLineCommand].
func (h *DeleteLineHandler) Execute(ctx context.Context, msg DeleteLineCommand) error {
	return h.inner.Execute(ctx, msg)
}

// MergeLineUpHandler joins a line onto the previous one and reports the
// caret at the join point.
type MergeLineUpHandler struct {
	inner *commands.Handler[MergeLineUpCommand]
}

// NewMergeLineUpHandler creates a handler bound to buffer.
func NewMergeLineUpHandler(buffer Buffer, observer CursorObserver, logger interfaces.Logger, gates FeatureGates, opts ...commands.HandlerOption[MergeLineUpCommand]) *MergeLineUpHandler {
	logger = commands.EnsureLogger(logger)
	observer = ensureObserver(observer)
	exec := func(ctx context.Context, msg MergeLineUpCommand) error {
		if gates.readOnly() {
			return readOnlyError()
		}
		column, ok := buffer.MergeLineUp(msg.DocumentID, msg.Index, msg.Suffix)
		if !ok {
			logging.WithFields(logger, lineFields(msg.DocumentID, msg.Index)).Debug("editor.command.merge.skipped")
			return nil
		}
		observer.CursorMoved(ctx, msg.DocumentID, lines.Cursor{Line: msg.Index - 1, Column: column})
		return nil
	}
	fields := func(msg MergeLineUpCommand) map[string]any { return lineFields(msg.DocumentID, msg.Index) }
	return &MergeLineUpHandler{inner: commands.NewHandler(exec, handlerOptions(logger, mergeOperation, fields, opts)...)}
}

// Execute satisfies command.Commander[MergeLineUpCommand].
func (h *MergeLineUpHandler) Execute(ctx context.Context, msg MergeLineUpCommand) error {
	return h.inner.Execute(ctx, msg)
}

// PasteHandler splices pasted text into a line and reports the caret after
// the pasted span.
type PasteHandler struct {
	inner *commands.Handler[PasteCommand]
}

// NewPasteHandler creates a handler bound to buffer.
func NewPasteHandler(buffer Buffer, observer CursorObserver, logger interfaces.Logger, gates FeatureGates, opts ...commands.HandlerOption[PasteCommand]) *PasteHandler {
	logger = commands.EnsureLogger(logger)
	observer = ensureObserver(observer)
	exec := func(ctx context.Context, msg PasteCommand) error {
		if gates.readOnly() {
			return readOnlyError()
		}
		cursor, ok, err := buffer.Paste(msg.DocumentID, msg.Index, msg.Pasted, msg.Prefix, msg.Suffix)
		if err != nil {
			return err
		}
		if !ok {
			logging.WithFields(logger, lineFields(msg.DocumentID, msg.Index)).Debug("editor.command.paste.skipped")
			return nil
		}
		observer.CursorMoved(ctx, msg.DocumentID, cursor)
		return nil
	}
	fields := func(msg PasteCommand) map[string]any {
		f := lineFields(msg.DocumentID, msg.Index)
		f["pasted_bytes"] = len(msg.Pasted)
		return f
	}
	return &PasteHandler{inner: commands.NewHandler(exec, handlerOptions(logger, pasteOperation, fields, opts)...)}
}

// Execute satisfies command.Commander[PasteCommand].
func (h *PasteHandler) Execute(ctx context.Context, msg PasteCommand) error {
	return h.inner.Execute(ctx, msg)
}
