// Package runner executes scripts against a syscall environment on a
// deterministic goja runtime.
package runner

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/colorfulnotion/ckbjs/ckb"
	"github.com/colorfulnotion/ckbjs/glue"
	"github.com/colorfulnotion/ckbjs/log"
	"github.com/dop251/goja"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/colorfulnotion/ckbjs/runner"

// Runner owns one goja runtime with the syscall bindings installed. It must
// not be shared between goroutines.
type Runner struct {
	vm        *goja.Runtime
	marshaler *glue.Marshaler
	cfg       Config
	tracer    trace.Tracer
	logging   string
}

type Option func(*Runner)

// WithTracerProvider records run spans on tp instead of the global provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(r *Runner) {
		r.tracer = tp.Tracer(tracerName)
	}
}

// Result is what a finished script left behind.
type Result struct {
	Value    interface{}
	Duration time.Duration
}

// ExitCode reads the completion value as a CKB exit code. undefined is 0;
// anything that is not an integer in int8 range is reported as not ok.
func (r *Result) ExitCode() (int8, bool) {
	switch v := r.Value.(type) {
	case nil:
		return 0, true
	case int64:
		if v >= -128 && v <= 127 {
			return int8(v), true
		}
	}
	return 0, false
}

func New(sys ckb.Syscalls, cfg Config, opts ...Option) (*Runner, error) {
	vm := goja.New()
	vm.SetFieldNameMapper(goja.UncapFieldNameMapper())
	now := time.UnixMilli(cfg.NowMillis)
	vm.SetTimeSource(func() time.Time { return now })
	vm.SetRandSource(rand.New(rand.NewSource(cfg.RandSeed)).Float64)

	m, err := glue.Register(vm, sys, cfg.Glue)
	if err != nil {
		return nil, err
	}
	r := &Runner{
		vm:        vm,
		marshaler: m,
		cfg:       cfg,
		tracer:    otel.Tracer(tracerName),
		logging:   log.RunnerMonitoring,
	}
	for _, opt := range opts {
		opt(r)
	}
	log.Debug(r.logging, "runner ready", "config", cfg.String())
	return r, nil
}

// Runtime exposes the underlying runtime, for consoles that want to add
// their own globals.
func (r *Runner) Runtime() *goja.Runtime {
	return r.vm
}

// Run compiles and runs src as a script named name. Cancelling ctx, or
// exceeding the configured timeout, interrupts the script.
func (r *Runner) Run(ctx context.Context, name string, src string) (*Result, error) {
	ctx, span := r.tracer.Start(ctx, r.cfg.TraceName, trace.WithAttributes(
		attribute.String("script.name", name),
		attribute.Int("script.size", len(src)),
	))
	defer span.End()

	prg, err := goja.Compile(name, src, false)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "compile")
		return nil, fmt.Errorf("compile %s: %w", name, err)
	}

	start := time.Now()
	v, err := r.runProgram(ctx, prg)
	res := &Result{Duration: time.Since(start)}
	span.SetAttributes(attribute.Int64("script.duration_us", res.Duration.Microseconds()))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "run")
		log.Debug(r.logging, "script failed", "name", name, "err", err)
		return nil, fmt.Errorf("run %s: %w", name, err)
	}
	if v != nil && !goja.IsUndefined(v) {
		res.Value = v.Export()
	}
	if code, ok := res.ExitCode(); ok {
		span.SetAttributes(attribute.Int("script.exit_code", int(code)))
	}
	log.Debug(r.logging, "script finished", "name", name, "elapsed", res.Duration)
	return res, nil
}

// Eval runs one console line in the same global scope as earlier runs.
func (r *Runner) Eval(ctx context.Context, src string) (goja.Value, error) {
	prg, err := goja.Compile("<console>", src, false)
	if err != nil {
		return nil, err
	}
	return r.runProgram(ctx, prg)
}

func (r *Runner) runProgram(ctx context.Context, prg *goja.Program) (goja.Value, error) {
	if r.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.cfg.Timeout)
		defer cancel()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	fired := make(chan struct{})
	stop := context.AfterFunc(ctx, func() {
		r.vm.Interrupt(ctx.Err())
		close(fired)
	})
	defer func() {
		if !stop() {
			// A late interrupt would otherwise hit the next run.
			<-fired
			r.vm.ClearInterrupt()
		}
	}()
	return r.vm.RunProgram(prg)
}

// IsInterrupted reports whether err came from a cancelled or timed out run.
func IsInterrupted(err error) bool {
	var ie *goja.InterruptedError
	return errors.As(err, &ie)
}
