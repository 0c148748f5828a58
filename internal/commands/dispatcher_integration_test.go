package commands

import (
	"context"
	"errors"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/goliatone/go-command/dispatcher"
	"github.com/goliatone/go-command/runner"

	"github.com/goliatone/go-notes/internal/lines"
	"github.com/goliatone/go-notes/pkg/interfaces"
)

type retryPaste struct {
	DocumentID string
	Text       string
}

func (retryPaste) Type() string { return "notes.test.retry_paste" }

func (retryPaste) Validate() error { return nil }

type exhaustPaste struct {
	DocumentID string
}

func (exhaustPaste) Type() string { return "notes.test.exhaust_paste" }

func (exhaustPaste) Validate() error { return nil }

// failingSplitter fails the next `failures` calls and then splits on newlines.
func failingSplitter(failures *int) interfaces.Splitter {
	return interfaces.SplitterFunc(func(text string) ([]string, error) {
		if *failures > 0 {
			*failures--
			return nil, errors.New("splitter unavailable")
		}
		return strings.Split(text, "\n"), nil
	})
}

func TestDispatchedPasteRetriesTokenizationFailure(t *testing.T) {
	failures := 0
	buffer := lines.NewManager(failingSplitter(&failures))
	if _, err := buffer.Load("n1", "hello world"); err != nil {
		t.Fatalf("load: %v", err)
	}
	failures = 1

	var attempts int
	handler := NewHandler(func(ctx context.Context, msg retryPaste) error {
		attempts++
		_, _, err := buffer.Paste(msg.DocumentID, 0, msg.Text, "hello ", "world")
		return err
	}, WithTimeout[retryPaste](time.Second))

	sub := dispatcher.SubscribeCommand(handler, runner.WithMaxRetries(1))
	t.Cleanup(sub.Unsubscribe)

	if err := dispatcher.Dispatch(context.Background(), retryPaste{DocumentID: "n1", Text: "foo\nbar"}); err != nil {
		t.Fatalf("dispatch: expected success after retry, got %v", err)
	}
	if attempts != 2 {
		t.Fatalf("expected 2 attempts, got %d", attempts)
	}
	got, _ := buffer.Lines("n1")
	if !slices.Equal(got, []string{"hello foo", "barworld"}) {
		t.Fatalf("unexpected lines %q", got)
	}
}

func TestDispatchedPasteExhaustsRetries(t *testing.T) {
	failures := 0
	buffer := lines.NewManager(failingSplitter(&failures))
	if _, err := buffer.Load("n1", "keep"); err != nil {
		t.Fatalf("load: %v", err)
	}
	failures = 10

	var attempts int
	handler := NewHandler(func(ctx context.Context, msg exhaustPaste) error {
		attempts++
		_, _, err := buffer.Paste(msg.DocumentID, 0, "x\ny", "", "")
		return err
	}, WithTimeout[exhaustPaste](time.Second))

	sub := dispatcher.SubscribeCommand(handler, runner.WithMaxRetries(2))
	t.Cleanup(sub.Unsubscribe)

	if err := dispatcher.Dispatch(context.Background(), exhaustPaste{DocumentID: "n1"}); err == nil {
		t.Fatal("expected dispatch to fail once retries are exhausted")
	}
	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
	if line, _ := buffer.Line("n1", 0); line != "keep" || buffer.LineCount("n1") != 1 {
		t.Fatalf("failed paste must leave lines untouched, got %q", line)
	}
}
