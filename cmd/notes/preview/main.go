package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	notes "github.com/goliatone/go-notes"
	"github.com/goliatone/go-notes/cmd/notes/internal/bootstrap"
)

var moduleBuilder = bootstrap.BuildModule

func main() {
	if err := runPreview(context.Background(), os.Stdout, os.Args[1:]); err != nil {
		log.Fatalf("notes preview: %v", err)
	}
}

func runPreview(ctx context.Context, out io.Writer, args []string) error {
	flags := flag.NewFlagSet("notes-preview", flag.ExitOnError)
	dsn := flags.String("dsn", "notes.db", "SQLite DSN of the notes database")
	documentID := flags.String("document", "", "Note to preview")
	asJSON := flags.Bool("json", false, "Print blocks in the tagged JSON wire format")
	logLevel := flags.String("log-level", "warn", "Log level")

	if err := flags.Parse(args); err != nil {
		return err
	}
	if strings.TrimSpace(*documentID) == "" {
		return fmt.Errorf("--document is required")
	}

	module, err := moduleBuilder(ctx, bootstrap.Options{DSN: *dsn, LogLevel: *logLevel})
	if err != nil {
		return fmt.Errorf("bootstrap module: %w", err)
	}
	defer module.Close()

	editor := module.Module.Editor()
	if _, err := editor.Open(ctx, *documentID); err != nil {
		return err
	}
	defer editor.Close(*documentID)

	if meta, err := editor.Metadata(*documentID); err == nil && meta.Title != "" {
		fmt.Fprintf(out, "Title: %s\n", meta.Title)
		if len(meta.Tags) > 0 {
			fmt.Fprintf(out, "Tags: %s\n", strings.Join(meta.Tags, ", "))
		}
		fmt.Fprintln(out)
	}

	if outline, ok := editor.Outline(*documentID); ok && len(outline) > 0 {
		fmt.Fprintln(out, "Outline:")
		for _, heading := range outline {
			fmt.Fprintf(out, "%s- %s (#%s)\n", strings.Repeat("  ", int(heading.Level)-1), heading.Text, heading.Anchor)
		}
		fmt.Fprintln(out)
	}

	blocks, _ := editor.Blocks(*documentID)
	for i, block := range blocks {
		if *asJSON {
			data, err := notes.MarshalBlock(block)
			if err != nil {
				return fmt.Errorf("encode block %d: %w", i, err)
			}
			fmt.Fprintf(out, "%s\n", data)
			continue
		}
		fmt.Fprintf(out, "%3d %-10s %q\n", i, block.Kind(), notes.Render(block))
	}
	return nil
}
