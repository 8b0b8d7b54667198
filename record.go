package lll

import (
	"github.com/lll-log/lll/rolling"
	"github.com/lll-log/lll/timefmt"
)

// Record is the unit enqueued on the logging channel. It carries only
// what the consumer needs to reconstruct a line: call-site metadata, a
// timestamp captured at the producer, and a deferred formatter that turns
// the caller's arguments into text only once the consumer is ready for
// it. The deferred formatter is a plain Go func value — one word on a
// 64-bit target — so Record stays comfortably inside a single cache
// line; record_test.go pins that invariant with unsafe.Sizeof.
type Record struct {
	format func() string
	tid    *string
	file   string
	line   int32
	level  Level
	tsNano int64
}

// invoke writes the fully formatted line for r to w, driving the time
// cache (and through it, rotation) off r's own timestamp rather than
// wall-clock time read later. The payload formatter is only evaluated
// here, on the consumer goroutine.
func (r Record) invoke(w *rolling.Writer, cache *timefmt.Cache) {
	var line []byte
	line, err := cache.Append(line, r.tsNano, w)
	if err != nil {
		reportIOError(err)
	}
	line = append(line, '[')
	if r.tid != nil {
		line = append(line, *r.tid...)
	}
	line = append(line, ']', ' ')
	line = append(line, r.file...)
	line = append(line, ':')
	if r.line >= 0 {
		line = timefmt.AppendUint32(line, uint32(r.line))
	}
	line = append(line, ' ')
	line = append(line, r.level.String()...)
	line = append(line, ' ')
	line = append(line, r.format()...)
	line = append(line, '\n')

	if _, err := w.Write(line); err != nil {
		reportIOError(err)
	}
}
