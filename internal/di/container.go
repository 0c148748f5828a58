package di

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	command "github.com/goliatone/go-command"
	repocache "github.com/goliatone/go-repository-cache/cache"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"github.com/goliatone/go-notes/internal/commands"
	editorcmd "github.com/goliatone/go-notes/internal/commands/editor"
	"github.com/goliatone/go-notes/internal/lines"
	"github.com/goliatone/go-notes/internal/logging"
	"github.com/goliatone/go-notes/internal/logging/console"
	"github.com/goliatone/go-notes/internal/logging/gologger"
	"github.com/goliatone/go-notes/internal/markdown"
	"github.com/goliatone/go-notes/internal/notes"
	"github.com/goliatone/go-notes/internal/runtimeconfig"
	"github.com/goliatone/go-notes/pkg/interfaces"
)

// ErrBunDBRequired is returned when the bun storage provider is selected
// without a database.
var ErrBunDBRequired = errors.New("di: bun storage provider requires a *bun.DB")

// Container wires module dependencies.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider

	bunDB         *bun.DB
	cacheTTL      time.Duration
	cacheService  repocache.CacheService
	keySerializer repocache.KeySerializer

	splitter interfaces.Splitter
	parser   *markdown.LineParser
	store    interfaces.NoteStore
	buffer   *lines.Manager
	editor   notes.Service

	registry       commands.CommandRegistry
	dispatcher     commands.CommandDispatcher
	cronRegistrar  commands.CronRegistrar
	cursorObserver editorcmd.CursorObserver
	handlers       *editorcmd.HandlerSet
	subscriptions  []commands.CommandSubscription
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithLoggerProvider overrides the provider built from Config.Logging.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

// WithBunDB supplies the database used by the bun storage provider.
func WithBunDB(db *bun.DB) Option {
	return func(c *Container) {
		c.bunDB = db
	}
}

// WithCache overrides the default cache service.
func WithCache(service repocache.CacheService, serializer repocache.KeySerializer) Option {
	return func(c *Container) {
		c.cacheService = service
		c.keySerializer = serializer
	}
}

// WithStore overrides the note store selected by Config.Storage.
func WithStore(store interfaces.NoteStore) Option {
	return func(c *Container) {
		c.store = store
	}
}

// WithSplitter overrides the default markdown line splitter.
func WithSplitter(splitter interfaces.Splitter) Option {
	return func(c *Container) {
		c.splitter = splitter
	}
}

// WithCommandRegistry registers editor handlers with registry.
func WithCommandRegistry(registry commands.CommandRegistry) Option {
	return func(c *Container) {
		c.registry = registry
	}
}

// WithCommandDispatcher subscribes editor handlers to dispatcher.
func WithCommandDispatcher(dispatcher commands.CommandDispatcher) Option {
	return func(c *Container) {
		c.dispatcher = dispatcher
	}
}

// WithCronRegistrar receives the autosave job when autosave is enabled.
func WithCronRegistrar(registrar commands.CronRegistrar) Option {
	return func(c *Container) {
		c.cronRegistrar = registrar
	}
}

// WithCursorObserver receives caret positions from merge and paste commands.
func WithCursorObserver(observer editorcmd.CursorObserver) Option {
	return func(c *Container) {
		c.cursorObserver = observer
	}
}

// NewContainer creates a container with the provided configuration.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cacheTTL := cfg.Cache.DefaultTTL
	if cacheTTL <= 0 {
		cacheTTL = time.Minute
	}

	c := &Container{
		Config:   cfg,
		cacheTTL: cacheTTL,
		parser:   markdown.NewLineParser(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	if err := c.configureLoggerProvider(); err != nil {
		return nil, err
	}
	c.configureCacheDefaults()
	if err := c.configureStore(); err != nil {
		return nil, err
	}
	c.configureEditor()
	if err := c.configureCommands(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Container) configureLoggerProvider() error {
	if c.loggerProvider != nil || !c.Config.Features.Logger {
		return nil
	}

	logCfg := c.Config.Logging
	switch strings.ToLower(strings.TrimSpace(logCfg.Provider)) {
	case "gologger":
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     logCfg.Level,
			Format:    logCfg.Format,
			AddSource: logCfg.AddSource,
			Focus:     logCfg.Focus,
		})
		if err != nil {
			return err
		}
		c.loggerProvider = provider
	default:
		level, _ := console.ParseLevel(logCfg.Level)
		c.loggerProvider = console.NewProvider(console.Options{MinLevel: &level, Focus: logCfg.Focus})
	}
	return nil
}

func (c *Container) configureCacheDefaults() {
	if !c.Config.Cache.Enabled {
		return
	}

	if c.cacheService == nil {
		cfg := repocache.DefaultConfig()
		if c.cacheTTL > 0 {
			cfg.TTL = c.cacheTTL
		}
		service, err := repocache.NewCacheService(cfg)
		if err == nil {
			c.cacheService = service
		}
	}

	if c.cacheService != nil && c.keySerializer == nil {
		c.keySerializer = repocache.NewDefaultKeySerializer()
	}
}

func (c *Container) configureStore() error {
	logger := logging.StoreLogger(c.loggerProvider)
	if c.store != nil {
		logger.Debug("notes.store.configured", "provider", "custom")
		return nil
	}

	storeOpts := []notes.StoreOption{notes.WithStoreLogger(logger)}
	switch strings.ToLower(strings.TrimSpace(c.Config.Storage.Provider)) {
	case runtimeconfig.StorageProviderBun:
		if c.bunDB == nil {
			return ErrBunDBRequired
		}
		var (
			cacheService  repocache.CacheService
			keySerializer repocache.KeySerializer
		)
		if c.Config.Cache.Enabled {
			cacheService, keySerializer = c.cacheService, c.keySerializer
		}
		c.store = notes.NewBunStore(c.bunDB, cacheService, keySerializer, storeOpts...)
		logger.Debug("notes.store.configured", "provider", "bun", "dialect", c.bunDB.Dialect().Name().String(), "cached", cacheService != nil)
	default:
		c.store = notes.NewMemoryStore(storeOpts...)
		logger.Debug("notes.store.configured", "provider", "memory")
	}
	return nil
}

func (c *Container) configureEditor() {
	if c.splitter == nil {
		c.splitter = markdown.NewLineSplitter(markdown.WithMaxLineBytes(c.Config.Markdown.MaxLineBytes))
		logging.MarkdownLogger(c.loggerProvider).Debug("markdown.splitter.configured", "max_line_bytes", c.Config.Markdown.MaxLineBytes)
	}
	c.buffer = lines.NewManager(c.splitter, lines.WithLogger(logging.LinesLogger(c.loggerProvider)))
	c.editor = notes.NewService(c.store, c.buffer, c.parser,
		notes.WithCreateMissing(c.Config.Editor.CreateMissing),
		notes.WithLogger(logging.EditorLogger(c.loggerProvider)),
	)
}

func (c *Container) configureCommands() error {
	if !c.Config.Commands.Enabled {
		return nil
	}

	gates := editorcmd.FeatureGates{
		ReadOnly: func() bool { return c.Config.Editor.ReadOnly },
	}
	set, err := editorcmd.RegisterEditorCommands(c.registry, c.editor, c.buffer, c.loggerProvider, gates,
		editorcmd.WithCursorObserver(c.cursorObserver),
		editorcmd.WithTimeout(c.Config.Editor.CommandTimeout),
	)
	if err != nil {
		return err
	}
	c.handlers = set

	if c.dispatcher != nil {
		for _, handler := range set.All() {
			sub, err := c.dispatcher.RegisterCommand(handler)
			if err != nil {
				c.Close()
				return fmt.Errorf("di: subscribe editor command: %w", err)
			}
			c.subscriptions = append(c.subscriptions, sub)
		}
	}

	autosave := c.Config.Editor.Autosave
	if autosave.Enabled && c.cronRegistrar != nil {
		cfg := command.HandlerConfig{Expression: strings.TrimSpace(autosave.Expression)}
		if err := editorcmd.RegisterAutosaveCron(c.cronRegistrar, set.Save, cfg, c.buffer.Documents); err != nil {
			return fmt.Errorf("di: register autosave: %w", err)
		}
	}
	return nil
}

// Close releases dispatcher subscriptions.
func (c *Container) Close() {
	for _, sub := range c.subscriptions {
		if sub != nil {
			sub.Unsubscribe()
		}
	}
	c.subscriptions = nil
}

// NewBunDB wraps sqlDB with the bun dialect named by dialect.
func NewBunDB(sqlDB *sql.DB, dialect string) (*bun.DB, error) {
	switch strings.ToLower(strings.TrimSpace(dialect)) {
	case "", runtimeconfig.DialectSQLite:
		return bun.NewDB(sqlDB, sqlitedialect.New()), nil
	case runtimeconfig.DialectPostgres:
		return bun.NewDB(sqlDB, pgdialect.New()), nil
	default:
		return nil, fmt.Errorf("%w: %s", runtimeconfig.ErrStorageDialectUnknown, dialect)
	}
}

// LoggerProvider exposes the configured logger provider. It may be nil when
// logging is disabled.
func (c *Container) LoggerProvider() interfaces.LoggerProvider {
	return c.loggerProvider
}

// Store exposes the configured note store.
func (c *Container) Store() interfaces.NoteStore {
	return c.store
}

// Splitter exposes the configured line splitter.
func (c *Container) Splitter() interfaces.Splitter {
	return c.splitter
}

// Parser exposes the line parser.
func (c *Container) Parser() *markdown.LineParser {
	return c.parser
}

// Buffer exposes the line buffer manager shared by the editor and commands.
func (c *Container) Buffer() *lines.Manager {
	return c.buffer
}

// EditorService exposes the editor session service.
func (c *Container) EditorService() notes.Service {
	return c.editor
}

// CommandHandlers returns the editor handlers, or nil when commands are disabled.
func (c *Container) CommandHandlers() *editorcmd.HandlerSet {
	return c.handlers
}

// Subscriptions returns the active dispatcher subscriptions.
func (c *Container) Subscriptions() []commands.CommandSubscription {
	return c.subscriptions
}
