// Package gologger adapts github.com/goliatone/go-logger to the notes logging
// contract.
package gologger

import (
	"context"
	"fmt"
	"maps"
	"strings"

	glog "github.com/goliatone/go-logger/glog"

	"github.com/goliatone/go-notes/internal/logging"
	"github.com/goliatone/go-notes/pkg/interfaces"
)

// Config mirrors runtimeconfig.LoggingConfig.
type Config struct {
	Level     string
	Format    string
	AddSource bool
	Focus     []string
}

// Provider hands out go-logger child loggers named after notes modules.
type Provider struct {
	root *glog.BaseLogger
}

var _ interfaces.LoggerProvider = (*Provider)(nil)

var levels = map[string]string{
	"trace":   glog.Trace,
	"debug":   glog.Debug,
	"info":    glog.Info,
	"warn":    glog.Warn,
	"warning": glog.Warn,
	"error":   glog.Error,
	"fatal":   glog.Fatal,
}

// NewProvider builds the root go-logger. Format defaults to json.
func NewProvider(cfg Config) (*Provider, error) {
	var options []glog.Option
	if level, ok := levels[strings.ToLower(strings.TrimSpace(cfg.Level))]; ok {
		options = append(options, glog.WithLevel(level))
	}

	switch strings.ToLower(strings.TrimSpace(cfg.Format)) {
	case "", "json":
		options = append(options, glog.WithLoggerTypeJSON())
	case "console":
		options = append(options, glog.WithLoggerTypeConsole())
	case "pretty":
		options = append(options, glog.WithLoggerTypePretty())
	default:
		return nil, fmt.Errorf("logging: unsupported go-logger format %q", cfg.Format)
	}
	if cfg.AddSource {
		options = append(options, glog.WithAddSource(true))
	}

	root := glog.NewLogger(options...)
	var focus []string
	for _, name := range cfg.Focus {
		if name = strings.TrimSpace(name); name != "" {
			focus = append(focus, name)
		}
	}
	if len(focus) > 0 {
		root.Focus(focus...)
	}
	return &Provider{root: root}, nil
}

// GetLogger implements interfaces.LoggerProvider.
func (p *Provider) GetLogger(name string) interfaces.Logger {
	if p == nil {
		return logging.NoOp()
	}
	if name = strings.TrimSpace(name); name == "" {
		return wrap(p.root)
	}
	return wrap(p.root.GetLogger(name))
}

func wrap(inner glog.Logger) interfaces.Logger {
	if inner == nil {
		return logging.NoOp()
	}
	return adapter{inner: inner}
}

type adapter struct {
	inner glog.Logger
}

func (a adapter) Trace(msg string, args ...any) { a.inner.Trace(msg, args...) }
func (a adapter) Debug(msg string, args ...any) { a.inner.Debug(msg, args...) }
func (a adapter) Info(msg string, args ...any)  { a.inner.Info(msg, args...) }
func (a adapter) Warn(msg string, args ...any)  { a.inner.Warn(msg, args...) }
func (a adapter) Error(msg string, args ...any) { a.inner.Error(msg, args...) }
func (a adapter) Fatal(msg string, args ...any) { a.inner.Fatal(msg, args...) }

// WithFields needs the optional glog.FieldsLogger; loggers without it keep
// their current fields.
func (a adapter) WithFields(fields map[string]any) interfaces.Logger {
	with, ok := a.inner.(glog.FieldsLogger)
	if len(fields) == 0 || !ok {
		return a
	}
	return wrap(with.WithFields(maps.Clone(fields)))
}

func (a adapter) WithContext(ctx context.Context) interfaces.Logger {
	if ctx == nil {
		return a
	}
	return wrap(a.inner.WithContext(ctx))
}
