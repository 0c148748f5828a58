package main

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"log"

	notes "github.com/goliatone/go-notes"
	editorcmd "github.com/goliatone/go-notes/internal/commands/editor"

	_ "github.com/mattn/go-sqlite3"
)

const documentID = "groceries"

func main() {
	ctx := context.Background()

	sqlDB, err := sql.Open("sqlite3", "file:example?mode=memory&cache=shared")
	if err != nil {
		log.Fatalf("open sqlite: %v", err)
	}
	defer sqlDB.Close()

	if err := migrate(ctx, sqlDB); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	db, err := notes.NewBunDB(sqlDB, "sqlite")
	if err != nil {
		log.Fatalf("bun db: %v", err)
	}
	db.SetMaxOpenConns(1)

	cfg := notes.DefaultConfig()
	cfg.Storage.Provider = "bun"
	cfg.Editor.CreateMissing = true
	cfg.Editor.Autosave.Enabled = false
	cfg.Features.Logger = true
	cfg.Logging.Level = "debug"

	observer := editorcmd.CursorObserverFunc(func(_ context.Context, id string, cursor notes.Cursor) {
		fmt.Printf("cursor %s -> line %d column %d\n", id, cursor.Line, cursor.Column)
	})

	module, err := notes.New(cfg, notes.WithBunDB(db), notes.WithCursorObserver(observer))
	if err != nil {
		log.Fatalf("notes module: %v", err)
	}
	defer module.Close()

	handlers := module.Commands()
	must(handlers.Open.Execute(ctx, editorcmd.OpenNoteCommand{DocumentID: documentID}))
	must(handlers.UpdateLine.Execute(ctx, editorcmd.UpdateLineCommand{
		DocumentID: documentID,
		Content:    "# Groceries",
	}))
	must(handlers.AppendLine.Execute(ctx, editorcmd.AppendLineCommand{
		DocumentID: documentID,
		After:      0,
		Content:    "- [ ] ",
	}))
	must(handlers.Paste.Execute(ctx, editorcmd.PasteCommand{
		DocumentID: documentID,
		Index:      1,
		Prefix:     "- [ ] ",
		Pasted:     "apples\n- [x] bread\n## Later\n+ coffee *beans*",
	}))
	must(handlers.Save.Execute(ctx, editorcmd.SaveNoteCommand{DocumentID: documentID}))

	stored, err := module.Store().FetchRawText(ctx, documentID)
	if err != nil {
		log.Fatalf("fetch: %v", err)
	}
	fmt.Printf("\nstored text:\n%s\n\n", stored)

	outline, _ := module.Editor().Outline(documentID)
	for _, heading := range outline {
		fmt.Printf("outline H%d %s #%s\n", heading.Level, heading.Text, heading.Anchor)
	}

	blocks, _ := module.Editor().Blocks(documentID)
	for i, block := range blocks {
		data, err := notes.MarshalBlock(block)
		if err != nil {
			log.Fatalf("marshal block %d: %v", i, err)
		}
		fmt.Printf("%d %s\n", i, data)
	}
}

func migrate(ctx context.Context, db *sql.DB) error {
	migrations := notes.GetMigrationsFS()
	files, err := fs.Glob(migrations, "data/sql/migrations/*.up.sql")
	if err != nil {
		return err
	}
	for _, name := range files {
		stmt, err := fs.ReadFile(migrations, name)
		if err != nil {
			return err
		}
		if _, err := db.ExecContext(ctx, string(stmt)); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}

func must(err error) {
	if err != nil {
		log.Fatal(err)
	}
}
