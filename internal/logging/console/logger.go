// Package console writes "time LEVEL event key=value" lines. It is the
// default provider when go-logger is not selected.
package console

import (
	"context"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/goliatone/go-notes/internal/logging"
	"github.com/goliatone/go-notes/pkg/interfaces"
)

// Level is the severity of an entry.
type Level uint8

const (
	LevelTrace Level = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
)

var levelNames = [...]string{"TRACE", "DEBUG", "INFO", "WARN", "ERROR", "FATAL"}

func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "INFO"
}

// ParseLevel maps a configured level name onto a Level. An empty name is
// info; unknown names report false.
func ParseLevel(name string) (Level, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "trace":
		return LevelTrace, true
	case "debug":
		return LevelDebug, true
	case "", "info":
		return LevelInfo, true
	case "warn", "warning":
		return LevelWarn, true
	case "error":
		return LevelError, true
	case "fatal":
		return LevelFatal, true
	}
	return LevelInfo, false
}

// Options configures a Provider. Zero values write to stdout at debug level.
type Options struct {
	Writer   io.Writer
	Clock    func() time.Time
	MinLevel *Level
	// Focus keeps only loggers whose name starts with one of the prefixes.
	Focus []string
}

// Provider hands out loggers sharing one writer.
type Provider struct {
	mu    sync.Mutex
	out   io.Writer
	clock func() time.Time
	min   Level
	focus []string
}

var _ interfaces.LoggerProvider = (*Provider)(nil)

// NewProvider constructs a console provider.
func NewProvider(opts Options) *Provider {
	p := &Provider{out: opts.Writer, clock: opts.Clock, min: LevelDebug}
	if p.out == nil {
		p.out = os.Stdout
	}
	if p.clock == nil {
		p.clock = time.Now
	}
	if opts.MinLevel != nil {
		p.min = *opts.MinLevel
	}
	for _, prefix := range opts.Focus {
		if prefix = strings.TrimSpace(prefix); prefix != "" {
			p.focus = append(p.focus, prefix)
		}
	}
	return p
}

// GetLogger implements interfaces.LoggerProvider.
func (p *Provider) GetLogger(name string) interfaces.Logger {
	if !p.focused(name) {
		return logging.NoOp()
	}
	return &logger{provider: p, fields: map[string]any{"logger": name}}
}

func (p *Provider) focused(name string) bool {
	if len(p.focus) == 0 {
		return true
	}
	return slices.ContainsFunc(p.focus, func(prefix string) bool {
		return strings.HasPrefix(name, prefix)
	})
}

func (p *Provider) write(line string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	// write errors are dropped; there is nowhere left to report them
	_, _ = io.WriteString(p.out, line)
}

type logger struct {
	provider *Provider
	fields   map[string]any
	ctx      context.Context
}

var _ interfaces.FieldsLogger = (*logger)(nil)

func (l *logger) Trace(msg string, args ...any) { l.log(LevelTrace, msg, args) }
func (l *logger) Debug(msg string, args ...any) { l.log(LevelDebug, msg, args) }
func (l *logger) Info(msg string, args ...any)  { l.log(LevelInfo, msg, args) }
func (l *logger) Warn(msg string, args ...any)  { l.log(LevelWarn, msg, args) }
func (l *logger) Error(msg string, args ...any) { l.log(LevelError, msg, args) }
func (l *logger) Fatal(msg string, args ...any) { l.log(LevelFatal, msg, args) }

func (l *logger) WithFields(fields map[string]any) interfaces.Logger {
	if len(fields) == 0 {
		return l
	}
	merged := maps.Clone(l.fields)
	maps.Copy(merged, fields)
	return &logger{provider: l.provider, fields: merged, ctx: l.ctx}
}

func (l *logger) WithContext(ctx context.Context) interfaces.Logger {
	return &logger{provider: l.provider, fields: l.fields, ctx: ctx}
}

func (l *logger) log(level Level, msg string, args []any) {
	if level < l.provider.min {
		return
	}
	fields := maps.Clone(l.fields)
	maps.Copy(fields, logging.ContextFields(l.ctx))
	for i := 0; i < len(args); i += 2 {
		if i+1 == len(args) {
			fields["arg_"+strconv.Itoa(i)] = args[i]
			break
		}
		key, ok := args[i].(string)
		if !ok || key == "" {
			key = "arg_" + strconv.Itoa(i)
		}
		fields[key] = args[i+1]
	}

	var sb strings.Builder
	sb.WriteString(l.provider.clock().UTC().Format(time.RFC3339Nano))
	sb.WriteByte(' ')
	sb.WriteString(level.String())
	sb.WriteByte(' ')
	sb.WriteString(msg)
	for _, key := range slices.Sorted(maps.Keys(fields)) {
		sb.WriteByte(' ')
		sb.WriteString(key)
		sb.WriteByte('=')
		sb.WriteString(formatValue(fields[key]))
	}
	sb.WriteByte('\n')
	l.provider.write(sb.String())
}

func formatValue(value any) string {
	var s string
	switch v := value.(type) {
	case nil:
		return "null"
	case string:
		s = v
	case time.Time:
		s = v.UTC().Format(time.RFC3339Nano)
	case error:
		s = v.Error()
	case fmt.Stringer:
		s = v.String()
	default:
		s = fmt.Sprint(v)
	}
	if s == "" || strings.ContainsFunc(s, func(r rune) bool { return r <= ' ' || r == '=' || r == '"' }) {
		return strconv.Quote(s)
	}
	return s
}
