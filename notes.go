package notes

import (
	"github.com/goliatone/go-notes/internal/commands"
	editorcmd "github.com/goliatone/go-notes/internal/commands/editor"
	"github.com/goliatone/go-notes/internal/di"
	"github.com/goliatone/go-notes/internal/grammar"
	"github.com/goliatone/go-notes/internal/lines"
	"github.com/goliatone/go-notes/internal/markdown"
	notesvc "github.com/goliatone/go-notes/internal/notes"
	"github.com/goliatone/go-notes/pkg/interfaces"
)

// Grammar types.
type (
	Block       = grammar.Block
	BlockKind   = grammar.BlockKind
	Paragraph   = grammar.Paragraph
	Sentence    = grammar.Sentence
	TitleLevel  = grammar.TitleLevel
	SchemaError = grammar.SchemaError
)

// EditorService exports the editor session contract.
type EditorService = notesvc.Service

// NoteStore exports the persistence contract used by the editor.
type NoteStore = interfaces.NoteStore

// Splitter exports the line splitting contract.
type Splitter = interfaces.Splitter

// FrontMatter exports note metadata parsed from the front matter header.
type FrontMatter = interfaces.FrontMatter

// Note exports the stored note record.
type Note = notesvc.Note

// NotFoundError is returned by stores for unknown notes.
type NotFoundError = notesvc.NotFoundError

// Cursor is the caret position reported by merges and pastes.
type Cursor = lines.Cursor

// Heading is an outline entry.
type Heading = markdown.Heading

// CommandHandlers exports the editor command handlers.
type CommandHandlers = editorcmd.HandlerSet

// CursorObserver receives caret positions from editor commands.
type CursorObserver = editorcmd.CursorObserver

// Command integration contracts accepted by the With* options.
type (
	CommandRegistry     = commands.CommandRegistry
	CommandDispatcher   = commands.CommandDispatcher
	CommandSubscription = commands.CommandSubscription
	CronRegistrar       = commands.CronRegistrar
)

// Option configures the module at construction time.
type Option = di.Option

var (
	WithLoggerProvider    = di.WithLoggerProvider
	WithBunDB             = di.WithBunDB
	WithCache             = di.WithCache
	WithStore             = di.WithStore
	WithSplitter          = di.WithSplitter
	WithCommandRegistry   = di.WithCommandRegistry
	WithCommandDispatcher = di.WithCommandDispatcher
	WithCronRegistrar     = di.WithCronRegistrar
	WithCursorObserver    = di.WithCursorObserver
	NewBunDB              = di.NewBunDB
)

var (
	ErrDocumentNotOpen = notesvc.ErrDocumentNotOpen
	ErrTokenization    = lines.ErrTokenization
	ErrReadOnly        = editorcmd.ErrReadOnly
)

// Module represents the top level notes runtime façade.
type Module struct {
	container *di.Container
}

// New constructs a notes module using the provided configuration and
// optional DI overrides.
func New(cfg Config, opts ...Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Editor returns the editor session service.
func (m *Module) Editor() EditorService {
	return m.container.EditorService()
}

// Lines returns the line buffer manager shared with the editor.
func (m *Module) Lines() *lines.Manager {
	return m.container.Buffer()
}

// Store returns the configured note store.
func (m *Module) Store() NoteStore {
	return m.container.Store()
}

// Commands returns the editor command handlers, or nil when commands are
// disabled.
func (m *Module) Commands() *CommandHandlers {
	return m.container.CommandHandlers()
}

// Parse classifies a single line.
func (m *Module) Parse(line string) Block {
	return m.container.Parser().Parse(line)
}

// Render turns a block back into markdown.
func Render(block Block) string {
	return grammar.Render(block)
}

// MarshalBlock encodes a block in the tagged JSON wire format.
func MarshalBlock(block Block) ([]byte, error) {
	return grammar.MarshalBlock(block)
}

// UnmarshalBlock validates and decodes a tagged JSON block.
func UnmarshalBlock(data []byte) (Block, error) {
	return grammar.UnmarshalBlock(data)
}

// Close releases dispatcher subscriptions held by the module.
func (m *Module) Close() {
	if m == nil || m.container == nil {
		return
	}
	m.container.Close()
}
