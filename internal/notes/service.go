package notes

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-notes/internal/grammar"
	"github.com/goliatone/go-notes/internal/lines"
	"github.com/goliatone/go-notes/internal/logging"
	"github.com/goliatone/go-notes/internal/markdown"
	"github.com/goliatone/go-notes/pkg/interfaces"
)

// ErrDocumentNotOpen is returned when an operation needs a document that has
// not been opened.
var ErrDocumentNotOpen = errors.New("notes: document is not open")

// Service manages editor sessions. Open and Save are the only operations that
// reach the store; everything else works on the cached lines.
type Service interface {
	Open(ctx context.Context, documentID string) ([]string, error)
	Save(ctx context.Context, documentID string) error
	Close(documentID string) bool
	Blocks(documentID string) ([]grammar.Block, bool)
	Outline(documentID string) ([]markdown.Heading, bool)
	Metadata(documentID string) (interfaces.FrontMatter, error)
}

// ServiceOption configures the editor service.
type ServiceOption func(*service)

// WithCreateMissing makes Open start an empty document when the store has no
// note for the id.
func WithCreateMissing(enabled bool) ServiceOption {
	return func(s *service) {
		s.createMissing = enabled
	}
}

// WithLogger sets the logger used for session events.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

type service struct {
	store         interfaces.NoteStore
	buffer        *lines.Manager
	parser        *markdown.LineParser
	logger        interfaces.Logger
	createMissing bool
}

// NewService wires an editor service. buffer is shared with the line editing
// commands; a nil parser falls back to markdown.NewLineParser.
func NewService(store interfaces.NoteStore, buffer *lines.Manager, parser *markdown.LineParser, opts ...ServiceOption) Service {
	if parser == nil {
		parser = markdown.NewLineParser()
	}
	s := &service{
		store:  store,
		buffer: buffer,
		parser: parser,
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func (s *service) Open(ctx context.Context, documentID string) ([]string, error) {
	logger := logging.WithDocumentContext(s.logger, documentID, "open")
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	raw, err := s.store.FetchRawText(ctx, documentID)
	if err != nil {
		var notFound *NotFoundError
		if !s.createMissing || !errors.As(err, &notFound) {
			logger.Error("notes.open.failed", "error", err)
			return nil, fmt.Errorf("notes: open %q: %w", documentID, err)
		}
		raw = ""
	}

	out, err := s.buffer.Load(documentID, raw)
	if err != nil {
		logger.Error("notes.open.failed", "error", err)
		return nil, fmt.Errorf("notes: open %q: %w", documentID, err)
	}
	logger.Info("notes.open", "lines", len(out))
	return out, nil
}

func (s *service) Save(ctx context.Context, documentID string) error {
	logger := logging.WithDocumentContext(s.logger, documentID, "save")
	raw, ok := s.buffer.Serialize(documentID)
	if !ok {
		return fmt.Errorf("%w: %q", ErrDocumentNotOpen, documentID)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.store.PersistRawText(ctx, documentID, raw); err != nil {
		logger.Error("notes.save.failed", "error", err)
		return fmt.Errorf("notes: save %q: %w", documentID, err)
	}
	logger.Info("notes.save", "bytes", len(raw))
	return nil
}

func (s *service) Close(documentID string) bool {
	closed := s.buffer.Remove(documentID)
	if closed {
		logging.WithDocumentContext(s.logger, documentID, "close").Debug("notes.close")
	}
	return closed
}

func (s *service) Blocks(documentID string) ([]grammar.Block, bool) {
	current, ok := s.buffer.Lines(documentID)
	if !ok {
		return nil, false
	}
	return s.parser.ParseAll(current), true
}

func (s *service) Outline(documentID string) ([]markdown.Heading, bool) {
	current, ok := s.buffer.Lines(documentID)
	if !ok {
		return nil, false
	}
	return s.parser.Outline(current), true
}

func (s *service) Metadata(documentID string) (interfaces.FrontMatter, error) {
	raw, ok := s.buffer.Serialize(documentID)
	if !ok {
		return interfaces.FrontMatter{}, fmt.Errorf("%w: %q", ErrDocumentNotOpen, documentID)
	}
	meta, _, err := markdown.ParseFrontMatter(raw)
	if err != nil {
		return interfaces.FrontMatter{}, err
	}
	return meta, nil
}
