package lll

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/lll-log/lll/rolling"
	"github.com/lll-log/lll/timefmt"
)

// TestSingleRecordBitExactLine drives Record.invoke directly so the
// timestamp and thread id are exactly the ones named in the end-to-end
// scenario: an INFO "hello" logged at 03:04:05.000000006 local time from
// thread id 42 must produce exactly
// "03:04:05.6 [42] <file>:<line> INFO hello\n".
func TestSingleRecordBitExactLine(t *testing.T) {
	dir := t.TempDir()
	writer, err := rolling.New(rolling.Config{
		Folder:    dir,
		Prefix:    "app",
		MaxFiles:  3,
		Condition: rolling.NewCondition(rolling.WithDaily()),
	})
	if err != nil {
		t.Fatalf("rolling.New: %v", err)
	}

	cache := timefmt.NewCache(timefmt.DefaultLayout)

	tid := "42"
	ts := time.Date(2024, 1, 2, 3, 4, 5, 6, time.Local)
	rec := Record{
		format: func() string { return "hello" },
		tid:    &tid,
		file:   "main.go",
		line:   17,
		level:  Info,
		tsNano: ts.UnixNano(),
	}
	rec.invoke(writer, cache)
	if err := writer.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	matches, err := filepath.Glob(filepath.Join(dir, "app.*"))
	if err != nil {
		t.Fatalf("Glob: %v", err)
	}
	// The record's day differs from the day the writer was built on, so the
	// daily condition rolls over into a file named for the record's own
	// second; the file opened by rolling.New stays behind, empty.
	wantName := "app." + ts.Format("20060102.150405")
	var logPath string
	for _, m := range matches {
		if filepath.Base(m) == wantName {
			logPath = m
		}
	}
	if logPath == "" {
		t.Fatalf("no log file found among %v", matches)
	}

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}

	want := "03:04:05.6 [42] main.go:17 INFO hello\n"
	if string(data) != want {
		t.Fatalf("got %q, want %q", data, want)
	}
}

// TestFlushMakesRecordDurable covers scenario 5: after Flush returns, the
// record is visible in the on-disk file, and the logger is back to
// Running (a second Flush succeeds without blocking forever).
func TestFlushMakesRecordDurable(t *testing.T) {
	dir := t.TempDir()
	l, err := NewBuilder(dir, "app").Init()
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer l.Finish()

	l.Info("hello")
	if err := l.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	matches, err := filepath.Glob(filepath.Join(dir, "app.*"))
	if err != nil {
		t.Fatalf("Glob: %v", err)
	}
	var size int64
	for _, m := range matches {
		if fi, err := os.Lstat(m); err == nil && fi.Mode()&os.ModeSymlink == 0 {
			info, err := os.Stat(m)
			if err != nil {
				t.Fatalf("Stat: %v", err)
			}
			size = info.Size()
		}
	}
	if size == 0 {
		t.Fatal("flushed record is not visible in the file")
	}

	if err := l.Flush(); err != nil {
		t.Fatalf("second Flush: %v", err)
	}
}

// TestFinishIsIdempotent covers the round-trip invariant that calling
// Finish twice has the same effect as calling it once.
func TestFinishIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	l, err := NewBuilder(dir, "app").Init()
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	l.Finish()
	l.Finish()
}

// TestInitRejectsInvalidTimeFormat covers spec.md §7.1: a time pattern
// with no recognized directive must fail synchronously from Init with
// ErrInvalidTimeFormat, checkable via errors.Is.
func TestInitRejectsInvalidTimeFormat(t *testing.T) {
	dir := t.TempDir()
	_, err := NewBuilder(dir, "app").WithTimeFormat("not a time pattern").Init()
	if !errors.Is(err, ErrInvalidTimeFormat) {
		t.Fatalf("Init err = %v, want ErrInvalidTimeFormat", err)
	}
}

// TestFlushAfterFinishReturnsErrClosed covers the teacher's
// Flush-after-Close contract: once the logger has stopped, Flush must
// report ErrClosed rather than silently no-op.
func TestFlushAfterFinishReturnsErrClosed(t *testing.T) {
	dir := t.TempDir()
	l, err := NewBuilder(dir, "app").Init()
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	l.Finish()

	if err := l.Flush(); !errors.Is(err, ErrClosed) {
		t.Fatalf("Flush after Finish = %v, want ErrClosed", err)
	}
}

// TestEnqueueAfterCloseDoesNotDeadlock covers the race Finish's channel
// close is meant to resolve: a send racing shutdown must neither block
// forever nor strand the record unread, it must report a dropped record
// like any other post-shutdown enqueue.
func TestEnqueueAfterCloseDoesNotDeadlock(t *testing.T) {
	l := &Logger{ch: make(chan *Record), status: statusRunning} // unbuffered: any send blocks until read or close
	close(l.ch)

	done := make(chan struct{})
	go func() {
		l.enqueue(Record{})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("enqueue blocked forever after the channel was closed")
	}
}

// TestInitGlobalSecondCallIsNoop covers the "second init is a no-op"
// contract for the process-wide singleton.
func TestInitGlobalSecondCallIsNoop(t *testing.T) {
	global.Store(nil)
	globalOnce = sync.Once{}

	dir := t.TempDir()
	guard1, err := NewBuilder(dir, "app").InitGlobal()
	if err != nil {
		t.Fatalf("first InitGlobal: %v", err)
	}
	defer guard1.Close()

	guard2, err := NewBuilder(dir, "other").InitGlobal()
	if err != ErrAlreadyInitialized {
		t.Fatalf("second InitGlobal err = %v, want ErrAlreadyInitialized", err)
	}
	if guard2 == nil || guard2.logger != guard1.logger {
		t.Fatal("second InitGlobal did not return the original logger's guard")
	}
}
