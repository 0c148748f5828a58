package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	notes "github.com/goliatone/go-notes"
	"github.com/goliatone/go-notes/internal/logging"
	"github.com/goliatone/go-notes/pkg/interfaces"
	"github.com/uptrace/bun"

	_ "github.com/mattn/go-sqlite3"
)

// Options captures configuration for the notes CLI bootstraps.
type Options struct {
	// DSN selects a SQLite database. Empty keeps notes in memory.
	DSN            string
	LogLevel       string
	CreateMissing  bool
	LoggerProvider interfaces.LoggerProvider
}

// Module wraps the notes module, its database handle and the CLI logger.
type Module struct {
	Module *notes.Module
	Logger interfaces.Logger
	db     *bun.DB
}

// BuildModule constructs a notes module for command line use. When a DSN is
// supplied the embedded migrations run before the module is created.
func BuildModule(ctx context.Context, opts Options) (*Module, error) {
	cfg := notes.DefaultConfig()
	cfg.Editor.CreateMissing = opts.CreateMissing
	cfg.Editor.Autosave.Enabled = false
	cfg.Features.Logger = true
	if level := strings.TrimSpace(opts.LogLevel); level != "" {
		cfg.Logging.Level = level
	}

	var diOpts []notes.Option
	if opts.LoggerProvider != nil {
		diOpts = append(diOpts, notes.WithLoggerProvider(opts.LoggerProvider))
	}

	var db *bun.DB
	if dsn := strings.TrimSpace(opts.DSN); dsn != "" {
		sqlDB, err := sql.Open("sqlite3", dsn)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		if err := ApplyMigrations(ctx, sqlDB); err != nil {
			_ = sqlDB.Close()
			return nil, err
		}
		db, err = notes.NewBunDB(sqlDB, cfg.Storage.Dialect)
		if err != nil {
			_ = sqlDB.Close()
			return nil, err
		}
		db.SetMaxOpenConns(1)
		cfg.Storage.Provider = "bun"
		cfg.Storage.DSN = dsn
		diOpts = append(diOpts, notes.WithBunDB(db))
	}

	module, err := notes.New(cfg, diOpts...)
	if err != nil {
		if db != nil {
			_ = db.Close()
		}
		return nil, fmt.Errorf("initialise notes module: %w", err)
	}

	return &Module{
		Module: module,
		Logger: logging.ModuleLogger(module.Container().LoggerProvider(), "notes.cli"),
		db:     db,
	}, nil
}

// Close releases the module and the database handle.
func (m *Module) Close() error {
	if m == nil {
		return nil
	}
	if m.Module != nil {
		m.Module.Close()
	}
	if m.db != nil {
		return m.db.Close()
	}
	return nil
}

// ApplyMigrations runs the embedded up migrations in file name order.
func ApplyMigrations(ctx context.Context, db *sql.DB) error {
	migrations := notes.GetMigrationsFS()
	files, err := fs.Glob(migrations, "data/sql/migrations/*.up.sql")
	if err != nil {
		return fmt.Errorf("list migrations: %w", err)
	}
	sort.Strings(files)
	for _, name := range files {
		stmt, err := fs.ReadFile(migrations, name)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}
		if _, err := db.ExecContext(ctx, string(stmt)); err != nil {
			return fmt.Errorf("apply migration %s: %w", name, err)
		}
	}
	return nil
}
