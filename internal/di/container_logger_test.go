package di_test

import (
	"bytes"
	"strings"
	"testing"

	notes "github.com/goliatone/go-notes"
	"github.com/goliatone/go-notes/internal/di"
	"github.com/goliatone/go-notes/internal/logging/console"
)

func logLine(t *testing.T, out, event string) string {
	t.Helper()
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, " "+event+" ") || strings.HasSuffix(line, " "+event) {
			return line
		}
	}
	t.Fatalf("expected %s entry in:\n%s", event, out)
	return ""
}

func TestContainerLogsStoreConfiguration(t *testing.T) {
	var buf bytes.Buffer
	provider := console.NewProvider(console.Options{Writer: &buf})

	if _, err := di.NewContainer(notes.DefaultConfig(), di.WithLoggerProvider(provider)); err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}

	line := logLine(t, buf.String(), "notes.store.configured")
	for _, want := range []string{"provider=memory", "module=notes.store", "logger=notes.store"} {
		if !strings.Contains(line, want) {
			t.Fatalf("expected %q in %q", want, line)
		}
	}
}

func TestContainerLinesLoggerReceivesEdits(t *testing.T) {
	var buf bytes.Buffer
	provider := console.NewProvider(console.Options{Writer: &buf})

	container, err := di.NewContainer(notes.DefaultConfig(), di.WithLoggerProvider(provider))
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}
	if _, err := container.Buffer().Load("doc", "a\nb"); err != nil {
		t.Fatalf("load: %v", err)
	}

	line := logLine(t, buf.String(), "lines.load")
	if !strings.Contains(line, "module=notes.lines") || !strings.Contains(line, "lines=2") {
		t.Fatalf("unexpected lines.load entry %q", line)
	}
}

func TestContainerFocusLimitsConsoleOutput(t *testing.T) {
	cfg := notes.DefaultConfig()
	cfg.Logging.Focus = []string{"notes.lines"}

	var buf bytes.Buffer
	provider := console.NewProvider(console.Options{Writer: &buf, Focus: cfg.Logging.Focus})
	container, err := di.NewContainer(cfg, di.WithLoggerProvider(provider))
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}
	if _, err := container.Buffer().Load("doc", "a"); err != nil {
		t.Fatalf("load: %v", err)
	}

	out := buf.String()
	if strings.Contains(out, "notes.store.configured") {
		t.Fatalf("store logger should be filtered out:\n%s", out)
	}
	logLine(t, out, "lines.load")
}
