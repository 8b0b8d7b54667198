package lll

import (
	"bytes"
	"runtime"
	"strconv"
	"sync"
)

// goroutineIDCache maps a goroutine id to its once-formatted decimal
// string. Go has no OS-thread-local storage a goroutine can rely on
// across reschedules, so this package adapts the reference
// implementation's "format the thread id once, carry a pointer" design
// to Go's scheduling model by keying the cache on the calling
// goroutine's id instead of an OS thread id — see SPEC_FULL.md §9.
var goroutineIDCache sync.Map // map[uint64]*string

// currentThreadID returns a pointer to the cached decimal string for the
// calling goroutine, formatting and caching it on first use.
func currentThreadID() *string {
	id := goroutineID()
	if v, ok := goroutineIDCache.Load(id); ok {
		return v.(*string)
	}
	s := strconv.FormatUint(id, 10)
	v, _ := goroutineIDCache.LoadOrStore(id, &s)
	return v.(*string)
}

// goroutineID parses the numeric id out of the calling goroutine's stack
// trace header ("goroutine 123 [running]:..."). This is the same
// technique used throughout the ecosystem (e.g. petermattis/goid) when a
// stable-for-the-life-of-the-call identifier is needed for diagnostics;
// it is never meant to identify an OS thread, only to give log lines from
// the same goroutine a stable, cheap-to-cache tag.
func goroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	b := buf[:n]
	b = bytes.TrimPrefix(b, []byte("goroutine "))
	if i := bytes.IndexByte(b, ' '); i >= 0 {
		b = b[:i]
	}
	id, err := strconv.ParseUint(string(b), 10, 64)
	if err != nil {
		return 0
	}
	return id
}
