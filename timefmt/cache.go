package timefmt

import "time"

// DefaultLayout is the Go reference-time layout used when a Cache is built
// without an explicit one. It matches the strftime pattern "%H:%M:%S" from
// the spec this package implements.
const DefaultLayout = "15:04:05"

// Rotator is consulted once per cached second, immediately before the
// prefix is reformatted. The rolling writer satisfies this by checking its
// rotation condition against the same instant the prefix is derived from.
type Rotator interface {
	MaybeRotate(now time.Time) error
}

// Cache holds the most recently formatted time prefix, keyed by the
// second it was computed for. Formatting and timezone conversion cost tens
// of nanoseconds; caching at one-second granularity amortizes that cost
// across every record sharing the same second. Cache is not safe for
// concurrent use — it is meant to be owned exclusively by the consumer
// goroutine, same as the writer it drives rotation on.
type Cache struct {
	layout    string
	cachedSec int64
	prefix    []byte
}

// NewCache constructs a Cache using layout to format the cached prefix.
// An empty layout falls back to DefaultLayout.
func NewCache(layout string) *Cache {
	if layout == "" {
		layout = DefaultLayout
	}
	return &Cache{layout: layout, cachedSec: -1}
}

// Append writes the full time component of a log line — the cached prefix,
// a literal '.', the unpadded nanosecond-within-second remainder, and a
// trailing space — to dst and returns the extended slice. tsNano is a
// Unix-epoch nanosecond timestamp. When the record's second differs from
// the cached one, the prefix is recomputed and rotator.MaybeRotate is
// invoked first so that rotation always observes the record's own instant
// rather than wall-clock time read later.
func (c *Cache) Append(dst []byte, tsNano int64, rotator Rotator) ([]byte, error) {
	sec := tsNano / 1_000_000_000
	if sec != c.cachedSec {
		now := time.Unix(sec, 0).Local()
		if rotator != nil {
			if err := rotator.MaybeRotate(now); err != nil {
				return dst, err
			}
		}
		c.prefix = now.AppendFormat(c.prefix[:0], c.layout)
		c.cachedSec = sec
	}
	dst = append(dst, c.prefix...)
	dst = append(dst, '.')
	subNano := uint32(tsNano % 1_000_000_000)
	dst = AppendUint32(dst, subNano)
	dst = append(dst, ' ')
	return dst, nil
}
