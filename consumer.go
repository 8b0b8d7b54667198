package lll

import (
	"fmt"
	"os"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/lll-log/lll/affinity"
)

// Consumer status values. The zero value, statusUninit, is never observed
// once the consumer goroutine has started; it exists only so the status
// word's valid range is exactly {0..4}, matching the reference state
// machine's documented invariant.
const (
	statusUninit uint32 = iota
	statusRunning
	statusFlushRequested
	statusStopRequested
	statusStopped
)

// flushPollInterval and stopPollInterval are the coarse busy-wait
// intervals Flush and Finish use while waiting for the consumer to
// observe a status transition.
const (
	flushPollInterval = time.Millisecond
	stopPollInterval  = 100 * time.Microsecond
)

func reportIOError(err error) {
	fmt.Fprintf(os.Stderr, "lll: io error: %v\n", err)
}

func reportSendFailure() {
	fmt.Fprintln(os.Stderr, "lll: log record dropped: logger is shutting down")
}

// run is the consumer goroutine's body. It owns writer and cache
// exclusively for its entire lifetime — no other goroutine touches
// either — so neither needs internal synchronization.
func (l *Logger) run() {
	if l.hasCPU {
		runtime.LockOSThread()
		if err := affinity.Pin(l.cpu); err != nil {
			fmt.Fprintf(os.Stderr, "lll: failed to pin consumer to cpu %d: %v\n", l.cpu, err)
		}
	}
	// A Finish that arrived before the consumer started has already moved
	// the status to StopRequested; leave that in place so the loop sees it.
	atomic.CompareAndSwapUint32(&l.status, statusUninit, statusRunning)

	for {
		select {
		case rec := <-l.ch:
			rec.invoke(l.writer, l.cache)
			continue
		default:
		}

		switch atomic.LoadUint32(&l.status) {
		case statusFlushRequested:
			if err := l.writer.Flush(); err != nil {
				reportIOError(err)
			}
			atomic.StoreUint32(&l.status, statusRunning)
		case statusStopRequested:
			l.drain()
			if err := l.writer.Flush(); err != nil {
				reportIOError(err)
			}
			atomic.StoreUint32(&l.status, statusStopped)
			return
		default:
			if err := l.writer.Flush(); err != nil {
				reportIOError(err)
			}
			time.Sleep(l.sleepDuration)
		}
	}
}

// drain invokes every record currently sitting in the channel without
// blocking. It is used once, when the consumer observes StopRequested,
// to satisfy the contract that Finish waits for the residual queue to be
// flushed before the logger reaches Stopped.
func (l *Logger) drain() {
	for {
		select {
		case rec := <-l.ch:
			rec.invoke(l.writer, l.cache)
		default:
			return
		}
	}
}

// enqueue hands r to the consumer. If the channel is full, enqueue blocks
// until the consumer makes room — the back-pressure the producing side is
// expected to absorb. If the logger is shutting down (or already shut
// down), the record is dropped and the failure is reported to stderr
// instead of blocking forever.
//
// The status check and the send are not atomic with each other: enqueue
// can observe statusRunning and then have Finish close l.ch out from
// under it before the send executes. A send that lands before the close
// is written by Finish's final pass over the channel; a send that
// executes after it — whether it was about to land in spare capacity or
// was already parked waiting for room — panics instead of being silently
// stranded in the buffer or blocking forever. recover turns that into the
// same dropped-record report a post-shutdown caller gets.
func (l *Logger) enqueue(r Record) {
	switch atomic.LoadUint32(&l.status) {
	case statusStopRequested, statusStopped:
		reportSendFailure()
		return
	}
	defer func() {
		if recover() != nil {
			reportSendFailure()
		}
	}()
	l.ch <- &r
}

// Flush requests the consumer flush its buffered writer and blocks until
// it has done so and returned to Running. Flush returns ErrClosed once
// the logger has stopped, matching the teacher's rlog.Logger.Flush
// contract; called while a flush or stop is already in flight, it is a
// no-op.
func (l *Logger) Flush() error {
	for atomic.LoadUint32(&l.status) == statusUninit {
		time.Sleep(flushPollInterval)
	}
	if atomic.LoadUint32(&l.status) == statusStopped {
		return ErrClosed
	}
	if !atomic.CompareAndSwapUint32(&l.status, statusRunning, statusFlushRequested) {
		return nil
	}
	for atomic.LoadUint32(&l.status) != statusRunning {
		time.Sleep(flushPollInterval)
	}
	return l.writer.Err()
}

// Finish requests the consumer drain the channel and stop, and blocks
// until it has. Finish is idempotent: the second and subsequent calls
// observe the shutdown already in flight (or complete) and return
// immediately.
//
// Once the consumer has reported statusStopped it has returned from run
// and will never read l.ch again, so it is safe to close the channel
// here: any enqueue still in flight (or arriving afterward) sees the
// close, not a channel nobody is draining. Records that landed after the
// consumer's last drain but before the close are written here before the
// writer is closed.
func (l *Logger) Finish() {
	l.finishOnce.Do(func() {
		for {
			s := atomic.LoadUint32(&l.status)
			if s == statusStopRequested || s == statusStopped {
				break
			}
			if atomic.CompareAndSwapUint32(&l.status, s, statusStopRequested) {
				break
			}
		}
		for atomic.LoadUint32(&l.status) != statusStopped {
			time.Sleep(stopPollInterval)
		}
		close(l.ch)
		for rec := range l.ch {
			rec.invoke(l.writer, l.cache)
		}
		if err := l.writer.Close(); err != nil {
			reportIOError(err)
		}
	})
}
