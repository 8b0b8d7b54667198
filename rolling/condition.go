// Package rolling implements the time- and size-based rotation policy and
// the buffered, retention-pruning file writer that backs it.
package rolling

import "time"

// Frequency determines how often a file should be rolled over purely on
// the basis of wall-clock time.
type Frequency int

const (
	EveryMinute Frequency = iota
	EveryHour
	EveryDay
)

// truncate returns a time that is equal for two instants exactly when they
// fall in the same rotation bucket for this frequency.
func (f Frequency) truncate(t time.Time) time.Time {
	y, mo, d := t.Date()
	switch f {
	case EveryDay:
		return time.Date(y, mo, d, 0, 0, 0, 0, t.Location())
	case EveryHour:
		return time.Date(y, mo, d, t.Hour(), 0, 0, 0, t.Location())
	default: // EveryMinute
		return time.Date(y, mo, d, t.Hour(), t.Minute(), 0, 0, t.Location())
	}
}

// Condition is an immutable-after-construction rotation policy with two
// optional parts — a rollover frequency and a maximum file size — plus the
// mutable last-observed timestamp ShouldRollover needs to detect a bucket
// change. Zero value is a Condition that never rolls over.
type Condition struct {
	hasFrequency bool
	frequency    Frequency
	hasMaxSize   bool
	maxSize      uint64
	lastWrite    time.Time
}

// ConditionOption configures a Condition built by NewCondition.
type ConditionOption func(*Condition)

// WithFrequency sets a condition to rollover whenever now and the
// previously observed instant fall in different frequency buckets.
func WithFrequency(f Frequency) ConditionOption {
	return func(c *Condition) {
		c.hasFrequency = true
		c.frequency = f
	}
}

// WithDaily is a convenience for WithFrequency(EveryDay).
func WithDaily() ConditionOption { return WithFrequency(EveryDay) }

// WithHourly is a convenience for WithFrequency(EveryHour).
func WithHourly() ConditionOption { return WithFrequency(EveryHour) }

// WithMinutely is a convenience for WithFrequency(EveryMinute).
func WithMinutely() ConditionOption { return WithFrequency(EveryMinute) }

// WithMaxSize sets a condition to rollover once the current file size is
// greater than or equal to n bytes.
func WithMaxSize(n uint64) ConditionOption {
	return func(c *Condition) {
		c.hasMaxSize = true
		c.maxSize = n
	}
}

// NewCondition builds a Condition. The last-observed timestamp starts at
// the moment of construction, matching the reference implementation this
// package is adapted from: a Condition built and immediately evaluated
// against "now" will not spuriously roll over just because no prior write
// was ever recorded.
func NewCondition(opts ...ConditionOption) *Condition {
	c := &Condition{lastWrite: time.Now()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ShouldRollover reports whether a file should be rotated before writing
// to it again, given the current file size and the instant of the
// impending write. It unconditionally records now as the new
// last-observed timestamp, whether or not it returns true.
func (c *Condition) ShouldRollover(now time.Time, currentSize uint64) bool {
	rollover := false
	if c.hasFrequency && c.frequency.truncate(now) != c.frequency.truncate(c.lastWrite) {
		rollover = true
	}
	if c.hasMaxSize && currentSize >= c.maxSize {
		rollover = true
	}
	c.lastWrite = now
	return rollover
}
