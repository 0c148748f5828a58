package editorcmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-notes/internal/commands"
	"github.com/goliatone/go-notes/pkg/interfaces"
)

// HandlerSet groups the handlers built by RegisterEditorCommands.
type HandlerSet struct {
	Open        *OpenNoteHandler
	Save        *SaveNoteHandler
	Close       *CloseNoteHandler
	UpdateLine  *UpdateLineHandler
	AppendLine  *AppendLineHandler
	DeleteLine  *DeleteLineHandler
	MergeLineUp *MergeLineUpHandler
	Paste       *PasteHandler
}

// All lists the handlers in registration order.
func (s *HandlerSet) All() []any {
	if s == nil {
		return nil
	}
	return []any{s.Open, s.Save, s.Close, s.UpdateLine, s.AppendLine, s.DeleteLine, s.MergeLineUp, s.Paste}
}

// Option customises handler wiring during registration.
type Option func(*options)

type options struct {
	observer CursorObserver
	timeout  *time.Duration
}

// WithCursorObserver receives caret positions from merge and paste handlers.
func WithCursorObserver(observer CursorObserver) Option {
	return func(cfg *options) {
		cfg.observer = observer
	}
}

// WithTimeout overrides the execution timeout of every editor handler.
func WithTimeout(timeout time.Duration) Option {
	return func(cfg *options) {
		cfg.timeout = &timeout
	}
}

func timeoutOpts[T command.Message](timeout *time.Duration) []commands.HandlerOption[T] {
	if timeout == nil {
		return nil
	}
	return []commands.HandlerOption[T]{commands.WithTimeout[T](*timeout)}
}

// RegisterEditorCommands builds the editor handlers and registers them with
// reg when it is set.
func RegisterEditorCommands(reg commands.CommandRegistry, session Session, buffer Buffer, provider interfaces.LoggerProvider, gates FeatureGates, opts ...Option) (*HandlerSet, error) {
	if session == nil {
		return nil, errors.New("editor command registration: session is nil")
	}
	if buffer == nil {
		return nil, errors.New("editor command registration: buffer is nil")
	}

	cfg := options{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	logger := commands.CommandLogger(provider, "editor")
	set := &HandlerSet{
		Open:        NewOpenNoteHandler(session, logger, timeoutOpts[OpenNoteCommand](cfg.timeout)...),
		Save:        NewSaveNoteHandler(session, logger, timeoutOpts[SaveNoteCommand](cfg.timeout)...),
		Close:       NewCloseNoteHandler(session, logger, timeoutOpts[CloseNoteCommand](cfg.timeout)...),
		UpdateLine:  NewUpdateLineHandler(buffer, logger, gates, timeoutOpts[UpdateLineCommand](cfg.timeout)...),
		AppendLine:  NewAppendLineHandler(buffer, logger, gates, timeoutOpts[AppendLineCommand](cfg.timeout)...),
		DeleteLine:  NewDeleteLineHandler(buffer, logger, gates, timeoutOpts[DeleteLineCommand](cfg.timeout)...),
		MergeLineUp: NewMergeLineUpHandler(buffer, cfg.observer, logger, gates, timeoutOpts[MergeLineUpCommand](cfg.timeout)...),
		Paste:       NewPasteHandler(buffer, cfg.observer, logger, gates, timeoutOpts[PasteCommand](cfg.timeout)...),
	}

	if reg != nil {
		for _, handler := range set.All() {
			if err := reg.RegisterCommand(handler); err != nil {
				return nil, err
			}
		}
	}
	return set, nil
}

// RegisterAutosaveCron saves every document returned by documents on the
// schedule described by cfg. Failures for individual documents are joined.
func RegisterAutosaveCron(reg commands.CronRegistrar, handler *SaveNoteHandler, cfg command.HandlerConfig, documents func() []string) error {
	if reg == nil || handler == nil || documents == nil {
		return nil
	}
	return reg(cfg, func() error {
		ctx := context.Background()
		var errs []error
		for _, id := range documents() {
			if err := handler.Execute(ctx, SaveNoteCommand{DocumentID: id}); err != nil {
				errs = append(errs, fmt.Errorf("autosave %q: %w", id, err))
			}
		}
		return errors.Join(errs...)
	})
}
