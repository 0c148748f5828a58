package commands

import (
	"context"
	"errors"
	"testing"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

type lineMessage struct {
	DocumentID string
	Line       int
}

func (lineMessage) Type() string { return "notes.test.line" }

func (m lineMessage) Validate() error {
	if m.DocumentID == "" {
		return errors.New("document id required")
	}
	return nil
}

func TestHandlerExecuteRunsFunction(t *testing.T) {
	var got lineMessage
	h := NewHandler(func(ctx context.Context, msg lineMessage) error {
		got = msg
		return nil
	})

	if err := h.Execute(context.Background(), lineMessage{DocumentID: "doc", Line: 2}); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if got.DocumentID != "doc" || got.Line != 2 {
		t.Fatalf("handler received %+v", got)
	}
}

func TestHandlerValidationShortCircuitsExecution(t *testing.T) {
	called := false
	h := NewHandler(func(ctx context.Context, msg lineMessage) error {
		called = true
		return nil
	})

	err := h.Execute(context.Background(), lineMessage{})
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
	var typed *goerrors.Error
	if !goerrors.As(err, &typed) || typed.TextCode != TextCodeValidation {
		t.Fatalf("expected text code %s, got %v", TextCodeValidation, err)
	}
	if called {
		t.Fatal("handler must not run when validation fails")
	}
}

type fieldMessage struct {
	Text string
}

func (fieldMessage) Type() string { return "notes.test.field" }

func (m fieldMessage) Validate() error {
	if m.Text == "" {
		return goerrors.New("text required", goerrors.CategoryValidation).
			WithTextCode("VALIDATION_FAILED").
			WithMetadata(map[string]any{"field": "text"})
	}
	return nil
}

func TestHandlerRestampsWrappedValidationErrors(t *testing.T) {
	h := NewHandler(func(ctx context.Context, msg fieldMessage) error { return nil })

	err := h.Execute(context.Background(), fieldMessage{})
	var typed *goerrors.Error
	if !goerrors.As(err, &typed) {
		t.Fatalf("expected go-errors error, got %v", err)
	}
	if typed.Category != goerrors.CategoryValidation || typed.TextCode != TextCodeValidation {
		t.Fatalf("expected %s/%s, got %s/%s", goerrors.CategoryValidation, TextCodeValidation, typed.Category, typed.TextCode)
	}
	if typed.Metadata["field"] != "text" {
		t.Fatalf("expected metadata to survive, got %v", typed.Metadata)
	}
}

func TestWrapValidationErrorKeepsOtherCategories(t *testing.T) {
	original := goerrors.New("store down", goerrors.CategoryExternal).WithTextCode("STORE_DOWN")
	err := wrapValidationError(original)
	if err != error(original) {
		t.Fatalf("expected error to pass through, got %v", err)
	}
}

func TestHandlerContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	h := NewHandler(func(ctx context.Context, msg lineMessage) error {
		called = true
		return nil
	})

	err := h.Execute(ctx, lineMessage{DocumentID: "doc"})
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category, got %v", err)
	}
	if called {
		t.Fatal("handler must not run when the context is cancelled")
	}
}

func TestHandlerWrapsExecutionError(t *testing.T) {
	execErr := errors.New("boom")
	h := NewHandler(func(ctx context.Context, msg lineMessage) error {
		return execErr
	})

	err := h.Execute(context.Background(), lineMessage{DocumentID: "doc"})
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category, got %v", err)
	}
	if !errors.Is(err, execErr) {
		t.Fatalf("expected original error to be reachable, got %v", err)
	}
}

func TestHandlerKeepsCategorisedErrors(t *testing.T) {
	source := goerrors.Wrap(errors.New("split failed"), goerrors.CategoryExternal, "tokenize")
	h := NewHandler(func(ctx context.Context, msg lineMessage) error {
		return source
	})

	err := h.Execute(context.Background(), lineMessage{DocumentID: "doc"})
	if !goerrors.IsCategory(err, goerrors.CategoryExternal) {
		t.Fatalf("expected external category to survive, got %v", err)
	}
}

func TestHandlerHonoursTimeoutOption(t *testing.T) {
	h := NewHandler(func(ctx context.Context, msg lineMessage) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Second):
			return nil
		}
	}, WithTimeout[lineMessage](10*time.Millisecond))

	err := h.Execute(context.Background(), lineMessage{DocumentID: "doc"})
	var typed *goerrors.Error
	if !goerrors.As(err, &typed) || typed.TextCode != TextCodeContextTimeout {
		t.Fatalf("expected timeout text code, got %v", err)
	}
}

func TestHandlerTelemetryReceivesFields(t *testing.T) {
	var info TelemetryInfo
	h := NewHandler(func(ctx context.Context, msg lineMessage) error {
		return nil
	},
		WithOperation[lineMessage]("lines.update"),
		WithMessageFields(func(msg lineMessage) map[string]any {
			return map[string]any{"document_id": msg.DocumentID, "line": msg.Line}
		}),
		WithTelemetry(func(ctx context.Context, msg lineMessage, got TelemetryInfo) {
			info = got
		}),
	)

	if err := h.Execute(context.Background(), lineMessage{DocumentID: "doc", Line: 4}); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if info.Status != TelemetryStatusSuccess || info.Command != "notes.test.line" || info.Operation != "lines.update" {
		t.Fatalf("unexpected telemetry %+v", info)
	}
	if info.Fields["document_id"] != "doc" || info.Fields["line"] != 4 {
		t.Fatalf("expected message fields in telemetry, got %+v", info.Fields)
	}
}

func TestHandlerTelemetryReportsFailure(t *testing.T) {
	var info TelemetryInfo
	h := NewHandler(func(ctx context.Context, msg lineMessage) error {
		return errors.New("nope")
	}, WithTelemetry(func(ctx context.Context, msg lineMessage, got TelemetryInfo) {
		info = got
	}))

	err := h.Execute(context.Background(), lineMessage{DocumentID: "doc"})
	if err == nil || info.Status != TelemetryStatusFailed || info.Error != err {
		t.Fatalf("expected failed telemetry carrying the returned error, got %+v (%v)", info, err)
	}
}
