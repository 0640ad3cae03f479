// Package runlog provides the per-run logger. Every record is echoed to the
// console and kept in memory so the whole run can be saved as a markdown log
// file when it ends.
package runlog

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
)

// Logger is a slog.Logger that also records what it logs.
type Logger struct {
	*slog.Logger
	rec *recording
}

type recording struct {
	mu    sync.Mutex
	lines []string
}

// New creates a Logger echoing to console at the given minimum level. A nil
// console discards the echo but still records.
func New(console io.Writer, level slog.Level) *Logger {
	rec := &recording{}
	h := &Handler{console: console, level: level, rec: rec}
	return &Logger{Logger: slog.New(h), rec: rec}
}

// Lines returns a copy of every recorded line, in order.
func (l *Logger) Lines() []string {
	l.rec.mu.Lock()
	defer l.rec.mu.Unlock()
	out := make([]string, len(l.rec.lines))
	copy(out, l.rec.lines)
	return out
}

// Markdown renders the recorded lines under a title heading.
func (l *Logger) Markdown(title string) string {
	var b strings.Builder
	b.WriteString("# " + title + "\n\n")
	for _, line := range l.Lines() {
		b.WriteString("- " + line + "\n")
	}
	return b.String()
}

// WriteFile saves the log as dir/name. The title is name without extension.
func (l *Logger) WriteFile(dir, name string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating log directory %s: %w", dir, err)
	}
	path := filepath.Join(dir, name)
	title := strings.TrimSuffix(name, filepath.Ext(name))
	if err := os.WriteFile(path, []byte(l.Markdown(title)), 0644); err != nil {
		return "", fmt.Errorf("writing log %s: %w", path, err)
	}
	return path, nil
}

// Handler is the slog.Handler behind Logger.
type Handler struct {
	console io.Writer
	level   slog.Leveler
	rec     *recording
	attrs   []string // preformatted key=value pairs from WithAttrs
	prefix  string   // dotted group path, e.g. "npm.publish."
}

// Enabled reports whether the handler handles records at the given level.
func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle formats the record as "message key=value ..." and records it.
//
//nolint:gocritic // slog.Handler interface requires slog.Record by value
func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	msg := r.Message
	switch {
	case r.Level >= slog.LevelError:
		msg = "ERROR " + msg
	case r.Level >= slog.LevelWarn:
		msg = "WARN " + msg
	}

	parts := make([]string, 0, len(h.attrs)+r.NumAttrs())
	parts = append(parts, h.attrs...)
	r.Attrs(func(attr slog.Attr) bool {
		parts = appendAttr(parts, h.prefix, attr)
		return true
	})
	if len(parts) > 0 {
		msg += " " + strings.Join(parts, " ")
	}

	h.rec.mu.Lock()
	defer h.rec.mu.Unlock()
	h.rec.lines = append(h.rec.lines, msg)
	if h.console != nil {
		if _, err := io.WriteString(h.console, msg+"\n"); err != nil {
			return err
		}
	}
	return nil
}

// WithAttrs returns a new Handler with the given attributes appended. They
// keep the group path in effect now, not any group opened later.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.attrs = slices.Clip(h.attrs)
	for _, attr := range attrs {
		next.attrs = appendAttr(next.attrs, h.prefix, attr)
	}
	return &next
}

// WithGroup returns a new Handler that nests later attributes under name.
func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := *h
	next.prefix = h.prefix + name + "."
	return &next
}

func appendAttr(parts []string, prefix string, attr slog.Attr) []string {
	attr.Value = attr.Value.Resolve()
	if attr.Equal(slog.Attr{}) {
		return parts
	}
	if attr.Value.Kind() == slog.KindGroup {
		if attr.Key != "" {
			prefix += attr.Key + "."
		}
		for _, a := range attr.Value.Group() {
			parts = appendAttr(parts, prefix, a)
		}
		return parts
	}
	return append(parts, prefix+attr.Key+"="+attr.Value.String())
}
