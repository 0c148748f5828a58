package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/goliatone/go-notes/cmd/notes/internal/bootstrap"
)

func TestRunImportPersistsMarkdownFiles(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "work"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	files := map[string]string{
		"home.md":      "---\ntitle: Home\n---\n# Home",
		"work/plan.md": "- [ ] draft",
		"skip.txt":     "ignored",
	}
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	var built *bootstrap.Module
	original := moduleBuilder
	defer func() { moduleBuilder = original }()
	moduleBuilder = func(ctx context.Context, opts bootstrap.Options) (*bootstrap.Module, error) {
		opts.DSN = ""
		module, err := bootstrap.BuildModule(ctx, opts)
		built = module
		return module, err
	}

	ctx := context.Background()
	if err := runImport(ctx, []string{"-directory", dir}); err != nil {
		t.Fatalf("runImport: %v", err)
	}

	store := built.Module.Store()
	if got, err := store.FetchRawText(ctx, "work/plan"); err != nil || got != "- [ ] draft" {
		t.Fatalf("work/plan = %q, %v", got, err)
	}
	if _, err := store.FetchRawText(ctx, "home"); err != nil {
		t.Fatalf("home not imported: %v", err)
	}
	if _, err := store.FetchRawText(ctx, "skip"); err == nil {
		t.Fatalf("expected non markdown file to be skipped")
	}
	if cached := built.Module.Lines().Documents(); len(cached) != 0 {
		t.Fatalf("import must not leave documents cached, got %v", cached)
	}
}

func TestRunImportDryRunSkipsPersistence(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.md"), []byte("a"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	var built *bootstrap.Module
	original := moduleBuilder
	defer func() { moduleBuilder = original }()
	moduleBuilder = func(ctx context.Context, opts bootstrap.Options) (*bootstrap.Module, error) {
		opts.DSN = ""
		module, err := bootstrap.BuildModule(ctx, opts)
		built = module
		return module, err
	}

	ctx := context.Background()
	if err := runImport(ctx, []string{"-directory", dir, "-dry-run"}); err != nil {
		t.Fatalf("runImport: %v", err)
	}
	if _, err := built.Module.Store().FetchRawText(ctx, "a"); err == nil {
		t.Fatalf("dry run must not persist")
	}
}

func TestDocumentIDFor(t *testing.T) {
	if got := documentIDFor(filepath.Join("a", "b.md")); got != "a/b" {
		t.Fatalf("documentIDFor = %q", got)
	}
}
