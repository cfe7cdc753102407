package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"sync/atomic"

	gethlog "github.com/ethereum/go-ethereum/log"
)

// Modules. Trace and Debug lines are dropped unless their module is on.
const (
	GlueMonitoring   = "glue_mod"   // syscall marshaling
	CKBMonitoring    = "ckb_mod"    // syscall environment
	RunnerMonitoring = "runner_mod" // script runs
	StoreMonitoring  = "store_mod"  // transaction store
	ScriptOutput     = "script"     // debug() from scripts
)

var root atomic.Value

func init() {
	root.Store(NewLogger(gethlog.DiscardHandler()))
}

var levelNames = map[string]slog.Level{
	"trace":    LevelTrace,
	"debug":    LevelDebug,
	"info":     LevelInfo,
	"warn":     LevelWarn,
	"warning":  LevelWarn,
	"error":    LevelError,
	"crit":     LevelCrit,
	"critical": LevelCrit,
}

func ParseLevel(s string) (slog.Level, error) {
	if l, ok := levelNames[strings.ToLower(strings.TrimSpace(s))]; ok {
		return l, nil
	}
	return 0, fmt.Errorf("invalid level: %s", s)
}

// InitLogger logs to stderr at level, exiting on a bad level name.
func InitLogger(level string) {
	if err := InitLoggerTo(os.Stderr, level, true); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logger: %v\n", err)
		os.Exit(1)
	}
}

func InitLoggerTo(w io.Writer, level string, useColor bool) error {
	lvl, err := ParseLevel(level)
	if err != nil {
		return err
	}
	SetDefault(NewLogger(gethlog.NewTerminalHandlerWithLevel(w, lvl, useColor)))
	return nil
}

func SetDefault(l Logger) {
	root.Store(l)
	if lg, ok := l.(*logger); ok {
		slog.SetDefault(lg.inner)
	}
}

func Root() Logger {
	return root.Load().(Logger)
}

type moduleSet struct {
	mu sync.RWMutex
	on map[string]bool
}

var modules = &moduleSet{on: map[string]bool{
	GlueMonitoring:   false,
	CKBMonitoring:    false,
	RunnerMonitoring: false,
	StoreMonitoring:  false,
	ScriptOutput:     true,
}}

func (s *moduleSet) set(module string, on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if module == "all" {
		for m := range s.on {
			s.on[m] = on
		}
		return
	}
	s.on[module] = on
}

func (s *moduleSet) enabled(module string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.on[module]
}

func EnableModule(module string)  { modules.set(module, true) }
func DisableModule(module string) { modules.set(module, false) }

// EnableModules takes a comma separated list such as the --debug flag.
func EnableModules(list string) {
	for _, m := range strings.Split(list, ",") {
		if m = strings.TrimSpace(m); m != "" {
			EnableModule(m)
		}
	}
}

func Trace(module string, msg string, ctx ...interface{}) {
	if modules.enabled(module) {
		Root().Write(LevelTrace, module, msg, append([]interface{}{"module", module}, ctx...)...)
	}
}

func Debug(module string, msg string, ctx ...interface{}) {
	if modules.enabled(module) {
		Root().Write(LevelDebug, module, msg, ctx...)
	}
}

func Info(module string, msg string, ctx ...interface{}) {
	Root().Write(LevelInfo, module, msg, ctx...)
}

func Warn(module string, msg string, ctx ...interface{}) {
	Root().Write(LevelWarn, module, msg, ctx...)
}

func Error(module string, msg string, ctx ...interface{}) {
	Root().Write(LevelError, module, msg, ctx...)
}

// Crit logs and exits the process.
func Crit(module string, msg string, ctx ...interface{}) {
	Root().Write(LevelCrit, module, msg, ctx...)
	os.Exit(1)
}

func RecordLogs() {
	Root().RecordLogs()
}

func GetRecordedLogs() []Record {
	return Root().GetRecordedLogs()
}

// New returns the root logger with ctx attached to every line.
func New(ctx ...interface{}) Logger {
	return Root().With(ctx...)
}
