package logging

import (
	"context"
	"maps"
	"strings"

	"github.com/goliatone/go-notes/pkg/interfaces"
)

const (
	rootModule     = "notes"
	linesModule    = "notes.lines"
	editorModule   = "notes.editor"
	storeModule    = "notes.store"
	markdownModule = "notes.markdown"
)

const (
	fieldDocumentID = "document_id"
	fieldOperation  = "operation"
)

// ModuleLogger returns a module-scoped logger, falling back to a no-op logger
// when no provider is supplied. The module name is attached as a field.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}

	return WithFields(logger, map[string]any{
		"module": module,
	})
}

// LinesLogger returns the logger used by the line buffer manager.
func LinesLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, linesModule)
}

// EditorLogger returns the logger used by editor sessions.
func EditorLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, editorModule)
}

// StoreLogger returns the logger used by note stores.
func StoreLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, storeModule)
}

// MarkdownLogger returns the logger used by the markdown toolkit.
func MarkdownLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, markdownModule)
}

// WithDocumentContext adds the document id and operation name to logger.
// Blank values are skipped.
func WithDocumentContext(logger interfaces.Logger, documentID, operation string) interfaces.Logger {
	fields := map[string]any{}
	if trimmed := strings.TrimSpace(documentID); trimmed != "" {
		fields[fieldDocumentID] = trimmed
	}
	if trimmed := strings.TrimSpace(operation); trimmed != "" {
		fields[fieldOperation] = trimmed
	}
	return WithFields(logger, fields)
}

// WithFields attaches a copy of fields when logger implements
// interfaces.FieldsLogger and returns logger unchanged otherwise.
func WithFields(logger interfaces.Logger, fields map[string]any) interfaces.Logger {
	if with, ok := logger.(interfaces.FieldsLogger); ok && len(fields) > 0 {
		return with.WithFields(maps.Clone(fields))
	}
	return logger
}

// NoOp returns a logger that drops every entry.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) interfaces.Logger {
	return n
}
