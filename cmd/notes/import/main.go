package main

import (
	"context"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/goliatone/go-notes/cmd/notes/internal/bootstrap"
)

var moduleBuilder = bootstrap.BuildModule

func main() {
	if err := runImport(context.Background(), os.Args[1:]); err != nil {
		log.Fatalf("notes import: %v", err)
	}
}

func runImport(ctx context.Context, args []string) error {
	flags := flag.NewFlagSet("notes-import", flag.ExitOnError)
	dsn := flags.String("dsn", "notes.db", "SQLite DSN of the notes database")
	directory := flags.String("directory", ".", "Directory holding markdown notes")
	pattern := flags.String("pattern", "*.md", "Glob pattern applied to file names")
	logLevel := flags.String("log-level", "info", "Log level")
	dryRun := flags.Bool("dry-run", false, "Report what would be imported without persisting")

	if err := flags.Parse(args); err != nil {
		return err
	}

	module, err := moduleBuilder(ctx, bootstrap.Options{DSN: *dsn, LogLevel: *logLevel})
	if err != nil {
		return fmt.Errorf("bootstrap module: %w", err)
	}
	defer module.Close()

	imported := 0
	err = filepath.WalkDir(*directory, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() {
			return nil
		}
		if ok, err := filepath.Match(*pattern, entry.Name()); err != nil || !ok {
			return err
		}

		rel, err := filepath.Rel(*directory, path)
		if err != nil {
			return err
		}
		documentID := documentIDFor(rel)

		raw, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		lines, err := module.Module.Lines().Load(documentID, string(raw))
		if err != nil {
			return fmt.Errorf("split %s: %w", path, err)
		}
		module.Module.Lines().Remove(documentID)

		if *dryRun {
			fmt.Fprintf(os.Stdout, "would import %s (%d lines)\n", documentID, len(lines))
			imported++
			return nil
		}
		if err := module.Module.Store().PersistRawText(ctx, documentID, string(raw)); err != nil {
			return fmt.Errorf("persist %s: %w", documentID, err)
		}
		module.Logger.Info("notes.import.persisted", "document_id", documentID, "lines", len(lines))
		imported++
		return nil
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "imported %d notes\n", imported)
	return nil
}

// documentIDFor derives a note id from a path relative to the import root.
func documentIDFor(rel string) string {
	rel = filepath.ToSlash(rel)
	return strings.TrimSuffix(rel, filepath.Ext(rel))
}
