// Package lll is a low-latency asynchronous file logger. Producers call
// the package-level level functions (or the equivalent *Logger methods);
// each call captures the call site, a timestamp, and a deferred format
// closure, then hands a Record to a single background consumer goroutine
// over a bounded channel. The consumer formats and writes to a rolling
// file on disk, so producing threads never pay for formatting or I/O.
//
// Usage:
//
//	guard, err := lll.NewBuilder("./logs", "app").
//		WithRollingCondition(rolling.NewCondition(rolling.WithDaily())).
//		WithMaxFiles(14).
//		InitGlobal()
//	if err != nil {
//		log.Fatalf("lll: %v", err)
//	}
//	defer guard.Close()
//
//	lll.Info("listening on %s", addr)
//	lll.Error("request failed: %v", err)
package lll

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lll-log/lll/affinity"
	"github.com/lll-log/lll/rolling"
	"github.com/lll-log/lll/timefmt"
)

// Defaults for Builder options left unset.
const (
	DefaultMaxFiles            = rolling.DefaultMaxFiles
	DefaultQueueSize           = 1 << 20 // 1,048,576
	DefaultSleepDuration       = 500 * time.Nanosecond
	DefaultTimeFormat          = timefmt.DefaultLayout
	DefaultThreadName          = "lll"
	unboundedQueueCapacity int = 1 << 20
)

var (
	// ErrMissingFolder is returned by Init when Builder has no folder set.
	ErrMissingFolder = errors.New("lll: folder is required")
	// ErrMissingPrefix is returned by Init when Builder has no prefix set.
	ErrMissingPrefix = errors.New("lll: prefix is required")
	// ErrInvalidTimeFormat is returned by Init when WithTimeFormat was given
	// a layout with no recognized reference-time directive.
	ErrInvalidTimeFormat = errors.New("lll: invalid time format")
	// ErrAlreadyInitialized is returned by Init on any call after the first.
	ErrAlreadyInitialized = errors.New("lll: already initialized")
	// ErrClosed is returned by operations called after Finish.
	ErrClosed = errors.New("lll: logger closed")
)

// validTimeFormat reports whether layout contains at least one recognized
// reference-time directive. A layout that round-trips Format unchanged
// consists entirely of literal text and could never vary from one second
// to the next, so it is rejected rather than silently accepted.
func validTimeFormat(layout string) bool {
	ref := time.Date(2006, time.January, 2, 15, 4, 5, 0, time.UTC)
	return ref.Format(layout) != layout
}

// Builder configures a Logger. Obtain one with NewBuilder, chain With*
// calls, then call Init.
type Builder struct {
	folder              string
	prefix              string
	maxFiles            int
	condition           *rolling.Condition
	cpu                 int
	hasCPU              bool
	queueSize           int
	hasQueueSize        bool
	sleepDuration       time.Duration
	hasSleepDuration    bool
	timeFormat          string
	installFacadeBridge bool
	threadName          string
}

// NewBuilder starts a Builder for a logger writing into folder with file
// names prefixed by prefix. Both are required; Init reports
// ErrMissingFolder/ErrMissingPrefix if either is left empty.
func NewBuilder(folder, prefix string) *Builder {
	return &Builder{folder: folder, prefix: prefix}
}

// WithRollingCondition sets the rotation policy. Default: never rotates.
func (b *Builder) WithRollingCondition(c *rolling.Condition) *Builder {
	b.condition = c
	return b
}

// WithMaxFiles sets the retention count. Default DefaultMaxFiles.
func (b *Builder) WithMaxFiles(n int) *Builder {
	b.maxFiles = n
	return b
}

// WithCPU pins the consumer goroutine's thread to the given core id.
// Default: unpinned. Init does not fail on an invalid id: the consumer
// goroutine reports the pinning failure to stderr and keeps running
// unpinned.
func (b *Builder) WithCPU(cpu int) *Builder {
	b.cpu = cpu
	b.hasCPU = true
	return b
}

// WithQueueSize sets the bounded channel capacity. Default
// DefaultQueueSize. Zero requests "unbounded", approximated with a large
// fixed buffer — see SPEC_FULL.md §9.
func (b *Builder) WithQueueSize(n int) *Builder {
	b.queueSize = n
	b.hasQueueSize = true
	return b
}

// WithSleep sets the consumer's idle back-off duration. Default
// DefaultSleepDuration.
func (b *Builder) WithSleep(d time.Duration) *Builder {
	b.sleepDuration = d
	b.hasSleepDuration = true
	return b
}

// WithTimeFormat sets the Go reference-time layout used for the cached
// per-second prefix. Default DefaultTimeFormat ("15:04:05"). Init rejects
// a layout with no recognized reference-time directive with
// ErrInvalidTimeFormat.
func (b *Builder) WithTimeFormat(layout string) *Builder {
	b.timeFormat = layout
	return b
}

// WithFacadeBridge records whether the embedder wants the log/slog bridge
// handler (see package slogbridge) installed against this logger. Init
// does not install it; the flag is reported by FacadeBridgeRequested.
func (b *Builder) WithFacadeBridge(enabled bool) *Builder {
	b.installFacadeBridge = enabled
	return b
}

// WithThreadName sets the name reported for the consumer's OS thread
// where the platform supports it (see package affinity). Default
// DefaultThreadName.
func (b *Builder) WithThreadName(name string) *Builder {
	b.threadName = name
	return b
}

// Logger owns the channel, the consumer goroutine, and (through the
// consumer) the rolling writer and time cache. Exactly one Logger is
// meant to be the process-wide singleton reachable through the
// package-level functions, but Logger is also usable standalone for
// tests or multi-instance embedding.
type Logger struct {
	ch                 chan *Record
	status             uint32
	writer             *rolling.Writer
	cache              *timefmt.Cache
	sleepDuration      time.Duration
	cpu                int
	hasCPU             bool
	threadName         string
	facadeBridgeWanted bool
	finishOnce         sync.Once
}

// Init validates the builder, opens the initial log file synchronously
// (so configuration and permission errors surface to the caller here,
// not on the consumer goroutine), spawns the consumer goroutine, and
// returns the Logger. It does not install the package-level singleton;
// use InitGlobal for that.
func (b *Builder) Init() (*Logger, error) {
	if b.folder == "" {
		return nil, ErrMissingFolder
	}
	if b.prefix == "" {
		return nil, ErrMissingPrefix
	}

	maxFiles := b.maxFiles
	if maxFiles <= 0 {
		maxFiles = DefaultMaxFiles
	}
	queueSize := DefaultQueueSize
	if b.hasQueueSize {
		queueSize = b.queueSize
	}
	if queueSize <= 0 {
		queueSize = unboundedQueueCapacity
	}
	sleepDuration := DefaultSleepDuration
	if b.hasSleepDuration {
		sleepDuration = b.sleepDuration
	}
	timeFormat := b.timeFormat
	if timeFormat == "" {
		timeFormat = DefaultTimeFormat
	} else if !validTimeFormat(timeFormat) {
		return nil, fmt.Errorf("lll: time format %q: %w", timeFormat, ErrInvalidTimeFormat)
	}
	threadName := b.threadName
	if threadName == "" {
		threadName = DefaultThreadName
	}

	writer, err := rolling.New(rolling.Config{
		Folder:    b.folder,
		Prefix:    b.prefix,
		MaxFiles:  maxFiles,
		Condition: b.condition,
	})
	if err != nil {
		return nil, fmt.Errorf("lll: %w", err)
	}

	l := &Logger{
		ch:                 make(chan *Record, queueSize),
		writer:             writer,
		cache:              timefmt.NewCache(timeFormat),
		sleepDuration:      sleepDuration,
		cpu:                b.cpu,
		hasCPU:             b.hasCPU,
		threadName:         threadName,
		facadeBridgeWanted: b.installFacadeBridge,
	}

	go func() {
		// Keep the consumer on one OS thread so the name lands on the
		// thread that runs it.
		runtime.LockOSThread()
		if err := affinity.SetName(threadName); err != nil {
			// best-effort; unsupported platforms are expected to fail here.
			_ = err
		}
		l.run()
	}()

	return l, nil
}

// FacadeBridgeRequested reports whether WithFacadeBridge(true) was set on
// the Builder that produced l. The core itself never installs a bridge —
// see package slogbridge — this only lets an embedder that received a
// pre-built Logger (e.g. from a DI container) decide whether to call
// slogbridge.Install.
func (l *Logger) FacadeBridgeRequested() bool { return l.facadeBridgeWanted }

// log constructs a Record carrying file/line and a deferred format
// closure and hands it to the consumer. Callers normally reach this
// through the level-named methods/functions rather than directly.
func (l *Logger) log(level Level, file string, line int, format string, args []any) {
	r := Record{
		tid:    currentThreadID(),
		file:   file,
		line:   int32(line),
		level:  level,
		tsNano: time.Now().UnixNano(),
	}
	if len(args) == 0 {
		r.format = func() string { return format }
	} else {
		r.format = func() string { return fmt.Sprintf(format, args...) }
	}
	l.enqueue(r)
}

// Guard is returned by InitGlobal. Its Close method calls Finish on the
// logger it guards; dropping the guard via `defer guard.Close()` in main
// is the recommended shutdown pattern.
type Guard struct {
	logger *Logger
}

// Close flushes and stops the guarded logger. Idempotent.
func (g *Guard) Close() error {
	g.logger.Finish()
	return g.logger.writer.Err()
}

var (
	global     atomic.Pointer[Logger]
	globalOnce sync.Once
)

// InitGlobal builds and installs the process-wide singleton logger. A
// second call to InitGlobal is ignored — it returns ErrAlreadyInitialized
// along with the existing Guard, matching the reference implementation's
// "second init is a no-op" contract.
func (b *Builder) InitGlobal() (*Guard, error) {
	var (
		guard *Guard
		err   error
	)
	first := false
	globalOnce.Do(func() {
		first = true
		var l *Logger
		l, err = b.Init()
		if err != nil {
			return
		}
		global.Store(l)
		guard = &Guard{logger: l}
	})
	if !first {
		if l := global.Load(); l != nil {
			return &Guard{logger: l}, ErrAlreadyInitialized
		}
		return nil, ErrAlreadyInitialized
	}
	return guard, err
}

// logger returns the installed singleton, or nil if InitGlobal was never
// called (or failed). The level-named package functions are no-ops
// against a nil logger.
func logger() *Logger { return global.Load() }
