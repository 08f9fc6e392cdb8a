package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// logFileName is the log file created in the configured log directory.
const logFileName = "ticktock.log"

// ticktockHandler is a custom slog.Handler that formats log records as:
//
//	<timestamp>\t<level>\t<opID>\t<message>\t<key=value ...>
//
// Every enabled record goes to w. Records at console level or above are
// also written to console, so routine chatter stays in the log file.
type ticktockHandler struct {
	w        io.Writer
	console  io.Writer
	opID     string
	minLevel slog.Level
	attrs    []slog.Attr
}

func (h *ticktockHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.minLevel
}

func (h *ticktockHandler) Handle(_ context.Context, r slog.Record) error {
	line := h.format(r)
	if _, err := io.WriteString(h.w, line); err != nil {
		return err
	}
	if h.console != nil && r.Level >= slog.LevelWarn {
		_, _ = io.WriteString(h.console, line)
	}
	return nil
}

func (h *ticktockHandler) format(r slog.Record) string {
	ts := r.Time.UTC().Format("2006-01-02T15:04:05Z")
	line := fmt.Sprintf("%s\t%s\t%s\t%s", ts, r.Level.String(), h.opID, r.Message)

	for _, a := range h.attrs {
		line += fmt.Sprintf("\t%s=%v", a.Key, a.Value)
	}
	r.Attrs(func(a slog.Attr) bool {
		line += fmt.Sprintf("\t%s=%v", a.Key, a.Value)
		return true
	})
	return line + "\n"
}

func (h *ticktockHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ticktockHandler{
		w:        h.w,
		console:  h.console,
		opID:     h.opID,
		minLevel: h.minLevel,
		attrs:    append(append([]slog.Attr{}, h.attrs...), attrs...),
	}
}

func (h *ticktockHandler) WithGroup(string) slog.Handler { return h }

// newLogger creates a structured logger that writes to logDir/ticktock.log,
// echoing warnings and errors to stderr. Debug records are dropped unless
// debug is set. It returns the slog.Logger, the open log file (for
// cleanup), and any error.
func newLogger(logDir string, opID string, debug bool) (*slog.Logger, *os.File, error) {
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, nil, fmt.Errorf("creating log directory: %w", err)
	}

	logPath := filepath.Join(logDir, logFileName)
	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}

	handler := &ticktockHandler{w: f, console: os.Stderr, opID: opID, minLevel: slog.LevelInfo}
	if debug {
		handler.minLevel = slog.LevelDebug
	}
	return slog.New(handler), f, nil
}

// slogAdapter wraps *slog.Logger to satisfy the tracker.Logger interface.
type slogAdapter struct {
	l *slog.Logger
}

func (a *slogAdapter) Debug(msg string, args ...any) { a.l.Debug(msg, args...) }
func (a *slogAdapter) Info(msg string, args ...any)  { a.l.Info(msg, args...) }
func (a *slogAdapter) Warn(msg string, args ...any)  { a.l.Warn(msg, args...) }
func (a *slogAdapter) Error(msg string, args ...any) { a.l.Error(msg, args...) }
