package runtimeconfig_test

import (
	"errors"
	"testing"

	"github.com/goliatone/go-notes/internal/runtimeconfig"
)

func TestDefaultConfigIsValid(t *testing.T) {
	if err := runtimeconfig.DefaultConfig().Validate(); err != nil {
		t.Fatalf("Validate() returned unexpected error: %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*runtimeconfig.Config)
		want   error
	}{
		{
			name:   "unknown storage provider",
			mutate: func(cfg *runtimeconfig.Config) { cfg.Storage.Provider = "redis" },
			want:   runtimeconfig.ErrStorageProviderUnknown,
		},
		{
			name: "unknown bun dialect",
			mutate: func(cfg *runtimeconfig.Config) {
				cfg.Storage.Provider = "bun"
				cfg.Storage.Dialect = "mysql"
			},
			want: runtimeconfig.ErrStorageDialectUnknown,
		},
		{
			name: "advanced cache without cache",
			mutate: func(cfg *runtimeconfig.Config) {
				cfg.Features.AdvancedCache = true
				cfg.Cache.Enabled = false
			},
			want: runtimeconfig.ErrAdvancedCacheRequiresEnabledCache,
		},
		{
			name:   "negative max line bytes",
			mutate: func(cfg *runtimeconfig.Config) { cfg.Markdown.MaxLineBytes = -1 },
			want:   runtimeconfig.ErrMaxLineBytesInvalid,
		},
		{
			name:   "negative command timeout",
			mutate: func(cfg *runtimeconfig.Config) { cfg.Editor.CommandTimeout = -1 },
			want:   runtimeconfig.ErrCommandTimeoutInvalid,
		},
		{
			name: "autosave without commands",
			mutate: func(cfg *runtimeconfig.Config) {
				cfg.Editor.Autosave.Enabled = true
				cfg.Commands.Enabled = false
			},
			want: runtimeconfig.ErrAutosaveRequiresCommands,
		},
		{
			name: "autosave without expression",
			mutate: func(cfg *runtimeconfig.Config) {
				cfg.Editor.Autosave.Enabled = true
				cfg.Editor.Autosave.Expression = " "
			},
			want: runtimeconfig.ErrAutosaveExpressionRequired,
		},
		{
			name: "logger without provider",
			mutate: func(cfg *runtimeconfig.Config) {
				cfg.Features.Logger = true
				cfg.Logging.Provider = ""
			},
			want: runtimeconfig.ErrLoggingProviderRequired,
		},
		{
			name: "unknown logging provider",
			mutate: func(cfg *runtimeconfig.Config) {
				cfg.Features.Logger = true
				cfg.Logging.Provider = "syslog"
			},
			want: runtimeconfig.ErrLoggingProviderUnknown,
		},
		{
			name: "invalid logging level",
			mutate: func(cfg *runtimeconfig.Config) {
				cfg.Features.Logger = true
				cfg.Logging.Level = "loud"
			},
			want: runtimeconfig.ErrLoggingLevelInvalid,
		},
		{
			name: "invalid gologger format",
			mutate: func(cfg *runtimeconfig.Config) {
				cfg.Features.Logger = true
				cfg.Logging.Provider = "gologger"
				cfg.Logging.Format = "xml"
			},
			want: runtimeconfig.ErrLoggingFormatInvalid,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := runtimeconfig.DefaultConfig()
			tc.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestConfigValidateAcceptsBunDialects(t *testing.T) {
	for _, dialect := range []string{"sqlite", "Postgres"} {
		cfg := runtimeconfig.DefaultConfig()
		cfg.Storage.Provider = "bun"
		cfg.Storage.Dialect = dialect
		if err := cfg.Validate(); err != nil {
			t.Fatalf("dialect %s: unexpected error %v", dialect, err)
		}
	}
}
