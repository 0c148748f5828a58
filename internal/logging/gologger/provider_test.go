package gologger

import (
	"context"
	"slices"
	"testing"

	glog "github.com/goliatone/go-logger/glog"

	"github.com/goliatone/go-notes/internal/logging"
)

func TestNewProviderFormats(t *testing.T) {
	for _, format := range []string{"", "json", "console", "pretty"} {
		p, err := NewProvider(Config{Level: "debug", Format: format, Focus: []string{"notes.lines", " "}})
		if err != nil {
			t.Fatalf("format %q: %v", format, err)
		}
		logging.WithFields(p.GetLogger("notes.lines"), map[string]any{"document_id": "n1"}).Debug("lines.load")
	}
	if _, err := NewProvider(Config{Format: "xml"}); err == nil {
		t.Fatal("expected unsupported format error")
	}
}

func TestNilProviderReturnsNoOp(t *testing.T) {
	var p *Provider
	p.GetLogger("notes.editor").Info("ignored")
}

func TestAdapterForwardsCallsFieldsAndContext(t *testing.T) {
	inner := &recordingGlog{}
	logger := wrap(inner)

	logger.Trace("a")
	logger.Info("b", "k", "v")
	logger.Error("c")

	fields := map[string]any{"document_id": "n1"}
	logging.WithFields(logger, fields)
	fields["document_id"] = "changed"

	ctx := context.WithValue(context.Background(), struct{}{}, 1)
	logger.WithContext(ctx)

	if !slices.Equal(inner.calls, []string{"trace:a", "info:b", "error:c"}) {
		t.Fatalf("unexpected calls %v", inner.calls)
	}
	if len(inner.fields) != 1 || inner.fields[0]["document_id"] != "n1" {
		t.Fatalf("fields were not copied before forwarding: %v", inner.fields)
	}
	if len(inner.contexts) != 1 || inner.contexts[0] != ctx {
		t.Fatalf("context not forwarded: %v", inner.contexts)
	}
}

type recordingGlog struct {
	calls    []string
	fields   []map[string]any
	contexts []context.Context
}

var (
	_ glog.Logger       = (*recordingGlog)(nil)
	_ glog.FieldsLogger = (*recordingGlog)(nil)
)

func (r *recordingGlog) Trace(msg string, _ ...any) { r.calls = append(r.calls, "trace:"+msg) }
func (r *recordingGlog) Debug(msg string, _ ...any) { r.calls = append(r.calls, "debug:"+msg) }
func (r *recordingGlog) Info(msg string, _ ...any)  { r.calls = append(r.calls, "info:"+msg) }
func (r *recordingGlog) Warn(msg string, _ ...any)  { r.calls = append(r.calls, "warn:"+msg) }
func (r *recordingGlog) Error(msg string, _ ...any) { r.calls = append(r.calls, "error:"+msg) }
func (r *recordingGlog) Fatal(msg string, _ ...any) { r.calls = append(r.calls, "fatal:"+msg) }

func (r *recordingGlog) WithContext(ctx context.Context) glog.Logger {
	r.contexts = append(r.contexts, ctx)
	return r
}

func (r *recordingGlog) WithFields(fields map[string]any) glog.Logger {
	r.fields = append(r.fields, fields)
	return r
}
