package notes

import "github.com/goliatone/go-notes/internal/runtimeconfig"

var (
	ErrStorageProviderUnknown            = runtimeconfig.ErrStorageProviderUnknown
	ErrStorageDialectUnknown             = runtimeconfig.ErrStorageDialectUnknown
	ErrAdvancedCacheRequiresEnabledCache = runtimeconfig.ErrAdvancedCacheRequiresEnabledCache
	ErrMaxLineBytesInvalid               = runtimeconfig.ErrMaxLineBytesInvalid
	ErrAutosaveRequiresCommands          = runtimeconfig.ErrAutosaveRequiresCommands
	ErrAutosaveExpressionRequired        = runtimeconfig.ErrAutosaveExpressionRequired
	ErrCommandTimeoutInvalid             = runtimeconfig.ErrCommandTimeoutInvalid
	ErrLoggingProviderRequired           = runtimeconfig.ErrLoggingProviderRequired
	ErrLoggingProviderUnknown            = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid               = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid              = runtimeconfig.ErrLoggingFormatInvalid
)

type (
	Config         = runtimeconfig.Config
	StorageConfig  = runtimeconfig.StorageConfig
	CacheConfig    = runtimeconfig.CacheConfig
	MarkdownConfig = runtimeconfig.MarkdownConfig
	EditorConfig   = runtimeconfig.EditorConfig
	AutosaveConfig = runtimeconfig.AutosaveConfig
	CommandsConfig = runtimeconfig.CommandsConfig
	Features       = runtimeconfig.Features
	LoggingConfig  = runtimeconfig.LoggingConfig
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}
