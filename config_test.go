package notes_test

import (
	"errors"
	"testing"

	notes "github.com/goliatone/go-notes"
)

func TestConfigValidateAdvancedCacheRequiresCache(t *testing.T) {
	cfg := notes.DefaultConfig()
	cfg.Cache.Enabled = false
	cfg.Features.AdvancedCache = true

	if err := cfg.Validate(); !errors.Is(err, notes.ErrAdvancedCacheRequiresEnabledCache) {
		t.Fatalf("expected ErrAdvancedCacheRequiresEnabledCache, got %v", err)
	}
}

func TestConfigValidateAutosaveRequiresCommands(t *testing.T) {
	cfg := notes.DefaultConfig()
	cfg.Commands.Enabled = false
	cfg.Editor.Autosave.Enabled = true

	if err := cfg.Validate(); !errors.Is(err, notes.ErrAutosaveRequiresCommands) {
		t.Fatalf("expected ErrAutosaveRequiresCommands, got %v", err)
	}
}
