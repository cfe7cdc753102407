package log

import (
	"context"
	"log/slog"
	"runtime"
	"sync"
	"time"

	gethlog "github.com/ethereum/go-ethereum/log"
)

// Levels match go-ethereum's so its terminal handler colors them.
const (
	LevelTrace = gethlog.LevelTrace
	LevelDebug = slog.LevelDebug
	LevelInfo  = slog.LevelInfo
	LevelWarn  = slog.LevelWarn
	LevelError = slog.LevelError
	LevelCrit  = gethlog.LevelCrit
)

func levelName(l slog.Level) string {
	switch {
	case l <= LevelTrace:
		return "trace"
	case l <= LevelDebug:
		return "debug"
	case l <= LevelInfo:
		return "info"
	case l <= LevelWarn:
		return "warn"
	case l <= LevelError:
		return "error"
	}
	return "crit"
}

// Logger writes module tagged records to a slog handler and can keep a copy
// of everything it is asked to write.
type Logger interface {
	With(ctx ...interface{}) Logger
	Write(level slog.Level, module string, msg string, attrs ...any)
	Enabled(ctx context.Context, level slog.Level) bool
	Handler() slog.Handler

	// RecordLogs clears the in-memory copy and starts filling it.
	RecordLogs()
	GetRecordedLogs() []Record
}

// Record is one captured line. Captured lines ignore the handler level, so a
// test can see script output even when the terminal shows only errors.
type Record struct {
	Time    time.Time      `json:"time"`
	Level   string         `json:"level"`
	Module  string         `json:"module"`
	Message string         `json:"msg"`
	Attrs   map[string]any `json:"attrs,omitempty"`
}

// memory is shared by a logger and everything derived from it with With.
type memory struct {
	mu      sync.Mutex
	on      bool
	records []Record
}

func (m *memory) add(level slog.Level, module, msg string, attrs []any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.on {
		return
	}
	rec := Record{Time: time.Now(), Level: levelName(level), Module: module, Message: msg}
	for i := 0; i+1 < len(attrs); i += 2 {
		k, ok := attrs[i].(string)
		if !ok {
			continue
		}
		if rec.Attrs == nil {
			rec.Attrs = make(map[string]any)
		}
		rec.Attrs[k] = attrs[i+1]
	}
	m.records = append(m.records, rec)
}

type logger struct {
	inner *slog.Logger
	mem   *memory
}

func NewLogger(h slog.Handler) Logger {
	return &logger{inner: slog.New(h), mem: &memory{}}
}

func (l *logger) Handler() slog.Handler {
	return l.inner.Handler()
}

func (l *logger) With(ctx ...interface{}) Logger {
	return &logger{inner: l.inner.With(ctx...), mem: l.mem}
}

func (l *logger) Enabled(ctx context.Context, level slog.Level) bool {
	return l.inner.Enabled(ctx, level)
}

func (l *logger) Write(level slog.Level, module string, msg string, attrs ...any) {
	l.mem.add(level, module, msg, attrs)
	ctx := context.Background()
	if !l.inner.Enabled(ctx, level) {
		return
	}
	// skip runtime.Callers, Write and the package level helper
	var pcs [1]uintptr
	runtime.Callers(3, pcs[:])
	r := slog.NewRecord(time.Now(), level, msg, pcs[0])
	r.Add(attrs...)
	_ = l.inner.Handler().Handle(ctx, r)
}

func (l *logger) RecordLogs() {
	l.mem.mu.Lock()
	l.mem.on = true
	l.mem.records = l.mem.records[:0]
	l.mem.mu.Unlock()
}

func (l *logger) GetRecordedLogs() []Record {
	l.mem.mu.Lock()
	defer l.mem.mu.Unlock()
	return append([]Record(nil), l.mem.records...)
}
