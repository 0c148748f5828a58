package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrStorageProviderUnknown = errors.New("notes config: storage provider is invalid")
var ErrStorageDialectUnknown = errors.New("notes config: storage dialect is invalid")

// ErrAdvancedCacheRequiresEnabledCache keeps cached repositories behind the cache toggle.
var ErrAdvancedCacheRequiresEnabledCache = errors.New("notes config: cached repositories require cache to be enabled")

var ErrMaxLineBytesInvalid = errors.New("notes config: markdown max line bytes must be zero or positive")
var ErrAutosaveRequiresCommands = errors.New("notes config: autosave requires commands to be enabled")
var ErrAutosaveExpressionRequired = errors.New("notes config: autosave expression is required when autosave is enabled")
var ErrCommandTimeoutInvalid = errors.New("notes config: editor command timeout must be zero or positive")
var ErrLoggingProviderRequired = errors.New("notes config: logging provider is required when logging feature is enabled")
var ErrLoggingProviderUnknown = errors.New("notes config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("notes config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("notes config: logging format is invalid")

const (
	StorageProviderMemory = "memory"
	StorageProviderBun    = "bun"

	DialectSQLite   = "sqlite"
	DialectPostgres = "postgres"
)

// Config aggregates feature flags and adapter bindings for the notes module.
type Config struct {
	Storage  StorageConfig
	Cache    CacheConfig
	Markdown MarkdownConfig
	Editor   EditorConfig
	Commands CommandsConfig
	Logging  LoggingConfig
	Features Features
}

// StorageConfig selects where note text is persisted. DSN is read by hosts
// that open the database themselves.
type StorageConfig struct {
	Provider string
	Dialect  string
	DSN      string
}

// CacheConfig captures cache behaviour toggles.
type CacheConfig struct {
	Enabled    bool
	DefaultTTL time.Duration
}

// MarkdownConfig tunes line splitting.
type MarkdownConfig struct {
	// MaxLineBytes rejects documents with a longer line or fenced block. Zero
	// disables the limit.
	MaxLineBytes int
}

// EditorConfig controls editor sessions.
type EditorConfig struct {
	CreateMissing  bool
	ReadOnly       bool
	CommandTimeout time.Duration
	Autosave       AutosaveConfig
}

// AutosaveConfig schedules periodic saves of every open note.
type AutosaveConfig struct {
	Enabled    bool
	Expression string
}

// CommandsConfig captures optional command-layer behaviour.
type CommandsConfig struct {
	Enabled bool
}

// Features toggles module functionality.
type Features struct {
	AdvancedCache bool
	Logger        bool
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string
	Level     string
	Format    string
	AddSource bool
	Focus     []string
}

// DefaultConfig returns an in-memory setup with console logging.
func DefaultConfig() Config {
	return Config{
		Storage: StorageConfig{
			Provider: StorageProviderMemory,
			Dialect:  DialectSQLite,
		},
		Cache: CacheConfig{
			Enabled:    true,
			DefaultTTL: time.Minute,
		},
		Editor: EditorConfig{
			CommandTimeout: 30 * time.Second,
			Autosave: AutosaveConfig{
				Expression: "@every 1m",
			},
		},
		Commands: CommandsConfig{
			Enabled: true,
		},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
		},
	}
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	switch provider := normalize(cfg.Storage.Provider); provider {
	case "", StorageProviderMemory:
	case StorageProviderBun:
		if dialect := normalize(cfg.Storage.Dialect); dialect != DialectSQLite && dialect != DialectPostgres {
			return fmt.Errorf("%w: %s", ErrStorageDialectUnknown, cfg.Storage.Dialect)
		}
	default:
		return fmt.Errorf("%w: %s", ErrStorageProviderUnknown, provider)
	}
	if cfg.Features.AdvancedCache && !cfg.Cache.Enabled {
		return ErrAdvancedCacheRequiresEnabledCache
	}
	if cfg.Markdown.MaxLineBytes < 0 {
		return ErrMaxLineBytesInvalid
	}
	if cfg.Editor.CommandTimeout < 0 {
		return ErrCommandTimeoutInvalid
	}
	if cfg.Editor.Autosave.Enabled {
		if !cfg.Commands.Enabled {
			return ErrAutosaveRequiresCommands
		}
		if strings.TrimSpace(cfg.Editor.Autosave.Expression) == "" {
			return ErrAutosaveExpressionRequired
		}
	}
	if cfg.Features.Logger {
		provider := normalize(cfg.Logging.Provider)
		if provider == "" {
			return ErrLoggingProviderRequired
		}
		if !isSupportedProvider(provider) {
			return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
		}
		if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
			return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
		}
		if provider == "gologger" {
			if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
				return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
			}
		}
	}
	return nil
}

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "console", "gologger":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch normalize(level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch normalize(format) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
