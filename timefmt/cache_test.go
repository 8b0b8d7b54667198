package timefmt

import (
	"strings"
	"testing"
	"time"
)

type fakeRotator struct {
	calls []time.Time
	err   error
}

func (f *fakeRotator) MaybeRotate(now time.Time) error {
	f.calls = append(f.calls, now)
	return f.err
}

func TestCacheRefreshesOncePerSecond(t *testing.T) {
	c := NewCache("15:04:05")
	rot := &fakeRotator{}

	base := time.Date(2024, 1, 2, 3, 4, 5, 0, time.Local).Unix() * 1_000_000_000

	out, err := c.Append(nil, base+6, rot)
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if !strings.HasPrefix(string(out), "03:04:05.6 ") {
		t.Errorf("got %q", out)
	}
	if len(rot.calls) != 1 {
		t.Fatalf("expected 1 rotate check, got %d", len(rot.calls))
	}

	// same second: no rotate check, prefix reused
	out2, err := c.Append(nil, base+999, rot)
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if string(out2) != "03:04:05.999 " {
		t.Errorf("got %q", out2)
	}
	if len(rot.calls) != 1 {
		t.Errorf("expected rotate check to stay cached, got %d calls", len(rot.calls))
	}

	// next second: rotate check fires again
	_, _ = c.Append(nil, base+1_000_000_000, rot)
	if len(rot.calls) != 2 {
		t.Errorf("expected 2 rotate checks after crossing a second, got %d", len(rot.calls))
	}
}

func TestCacheSubsecondUnpadded(t *testing.T) {
	c := NewCache("15:04:05")
	out, _ := c.Append(nil, 6, nil) // epoch second 0, 6ns
	if !strings.HasSuffix(string(out), ".6 ") {
		t.Errorf("expected unpadded subsecond, got %q", out)
	}
}

func TestCachePropagatesRotateError(t *testing.T) {
	c := NewCache("15:04:05")
	boom := errTest{"boom"}
	rot := &fakeRotator{err: boom}
	_, err := c.Append(nil, 0, rot)
	if err != boom {
		t.Errorf("expected rotate error to propagate, got %v", err)
	}
}

type errTest struct{ s string }

func (e errTest) Error() string { return e.s }
