package rolling

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// bufferSize is the size of the buffered writer placed in front of the
// active log file, chosen to amortize syscalls on the hot path.
const bufferSize = 1 << 20 // 1 MiB

// DefaultMaxFiles is the retention count used when a Writer is built
// without an explicit one.
const DefaultMaxFiles = 30

// Writer is a buffered, rotating file writer. It is not safe for
// concurrent use by design — the logging pipeline this package backs
// guarantees a single owner (the consumer goroutine) for the lifetime of
// the writer, so no internal locking is paid for on the hot path.
//
// If any operation fails, the Writer remembers the error and refuses
// further writes until Rollover or a fresh OpenIfNeeded succeeds; callers
// inspect it with Err.
type Writer struct {
	folder     string
	prefix     string
	maxFiles   int
	timeFormat string

	condition *Condition

	file        *os.File
	buf         *bufio.Writer
	currentSize uint64
	err         error
}

// Config holds the construction parameters for a Writer.
type Config struct {
	Folder     string     // required: directory for log files and the latest symlink
	Prefix     string     // required: base file name
	MaxFiles   int        // retention count, default DefaultMaxFiles
	Condition  *Condition // rotation policy, default never rotates
	TimeFormat string     // stored but not read by Writer; the prefix layout is set on timefmt.Cache
}

// New creates a Writer for the given configuration, ensures the folder
// exists, and opens the current file synchronously so that early
// permission or disk errors surface to the caller immediately rather than
// on the consumer goroutine.
func New(cfg Config) (*Writer, error) {
	if cfg.Folder == "" {
		return nil, fmt.Errorf("rolling: folder is required")
	}
	if cfg.Prefix == "" {
		return nil, fmt.Errorf("rolling: prefix is required")
	}
	maxFiles := cfg.MaxFiles
	if maxFiles <= 0 {
		maxFiles = DefaultMaxFiles
	}
	cond := cfg.Condition
	if cond == nil {
		cond = NewCondition()
	}
	w := &Writer{
		folder:     cfg.Folder,
		prefix:     cfg.Prefix,
		maxFiles:   maxFiles,
		timeFormat: cfg.TimeFormat,
		condition:  cond,
	}
	if err := w.OpenIfNeeded(time.Now()); err != nil {
		return nil, err
	}
	return w, nil
}

// Err returns the last error recorded by the Writer, if any.
func (w *Writer) Err() error { return w.err }

// fileName renders the "{prefix}.{YYYYMMDD.HHMMSS}" name for now.
func (w *Writer) fileName(now time.Time) string {
	return w.prefix + "." + now.Format("20060102.150405")
}

// OpenIfNeeded opens a new file if none is currently open: it computes the
// file name from now, ensures the folder exists, opens for append+create
// with a buffered writer, refreshes currentSize from the file's metadata,
// repoints the "{folder}/{prefix}" symlink at the new file (best-effort),
// and runs retention pruning.
func (w *Writer) OpenIfNeeded(now time.Time) error {
	if w.err != nil {
		return w.err
	}
	if w.file != nil {
		return nil
	}
	if err := os.MkdirAll(w.folder, 0o755); err != nil {
		w.err = fmt.Errorf("rolling: create folder %q: %w", w.folder, err)
		return w.err
	}
	path := filepath.Join(w.folder, w.fileName(now))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		w.err = fmt.Errorf("rolling: open %q: %w", path, err)
		return w.err
	}
	w.file = f
	w.buf = bufio.NewWriterSize(f, bufferSize)

	if fi, statErr := f.Stat(); statErr == nil {
		w.currentSize = uint64(fi.Size())
	} else {
		w.currentSize = 0
	}

	w.refreshSymlink(path)
	w.prune()

	return nil
}

// refreshSymlink best-effort repoints {folder}/{prefix} at the absolute
// path of the file just opened. Failures (unsupported filesystem, missing
// permissions, folder canonicalization failure) are swallowed: the log
// file itself is still written, only the convenience symlink is skipped.
func (w *Writer) refreshSymlink(path string) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return
	}
	link := filepath.Join(w.folder, w.prefix)
	_ = os.Remove(link)
	_ = os.Symlink(abs, link)
}

// Write appends p to the buffered writer and adds its length to the
// tracked current file size, saturating at math.MaxUint64.
func (w *Writer) Write(p []byte) (int, error) {
	if w.err != nil {
		return 0, w.err
	}
	if w.buf == nil {
		w.err = fmt.Errorf("rolling: write to closed writer")
		return 0, w.err
	}
	n, err := w.buf.Write(p)
	if err != nil {
		w.err = fmt.Errorf("rolling: write: %w", err)
		return n, w.err
	}
	add := uint64(n)
	if w.currentSize > math.MaxUint64-add {
		w.currentSize = math.MaxUint64
	} else {
		w.currentSize += add
	}
	return n, nil
}

// Flush flushes the buffered writer, if one is open.
func (w *Writer) Flush() error {
	if w.err != nil {
		return w.err
	}
	if w.buf == nil {
		return nil
	}
	if err := w.buf.Flush(); err != nil {
		w.err = fmt.Errorf("rolling: flush: %w", err)
		return w.err
	}
	return nil
}

// Rollover flushes and closes the current file. The next OpenIfNeeded
// opens a fresh one.
func (w *Writer) Rollover() error {
	if w.err != nil {
		return w.err
	}
	unlock, lockErr := acquireRotationLock(w.folder)
	if lockErr == nil && unlock != nil {
		defer unlock()
	}
	if w.buf != nil {
		if err := w.buf.Flush(); err != nil {
			w.err = fmt.Errorf("rolling: flush before rollover: %w", err)
			return w.err
		}
	}
	if w.file != nil {
		if err := w.file.Close(); err != nil {
			w.err = fmt.Errorf("rolling: close before rollover: %w", err)
			return w.err
		}
	}
	w.file = nil
	w.buf = nil
	w.currentSize = 0
	return nil
}

// MaybeRotate evaluates the rotation condition against now and the
// current file size; if it fires, the current file is rolled over. A
// fresh file is then opened (or reopened) unconditionally via
// OpenIfNeeded, so MaybeRotate also serves as the routine callers use to
// guarantee a file is open. MaybeRotate implements timefmt.Rotator.
func (w *Writer) MaybeRotate(now time.Time) error {
	if w.condition.ShouldRollover(now, w.currentSize) {
		if err := w.Rollover(); err != nil {
			return err
		}
	}
	return w.OpenIfNeeded(now)
}

// Close flushes and closes the current file.
func (w *Writer) Close() error {
	if w.buf != nil {
		if err := w.buf.Flush(); err != nil {
			w.err = fmt.Errorf("rolling: flush on close: %w", err)
			return w.err
		}
	}
	if w.file != nil {
		if err := w.file.Close(); err != nil {
			w.err = fmt.Errorf("rolling: close: %w", err)
			return w.err
		}
	}
	w.file = nil
	w.buf = nil
	return nil
}

// prune deletes the oldest files beyond the retention count. Entries are
// named "{prefix}.{YYYYMMDD.HHMMSS}", so a lexicographic descending sort
// is also a time-descending sort; this holds even if the clock moves
// backwards, since prune never inspects file mtimes. Removal failures are
// reported to stderr and otherwise ignored — losing an old log file is
// never worth stopping the logger for.
func (w *Writer) prune() {
	entries, err := os.ReadDir(w.folder)
	if err != nil {
		fmt.Fprintf(os.Stderr, "rolling: list %q: %v\n", w.folder, err)
		return
	}
	var names []string
	for _, e := range entries {
		name := e.Name()
		if name == w.prefix {
			continue // the latest-file symlink
		}
		if strings.HasPrefix(name, w.prefix) {
			names = append(names, name)
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(names)))
	if len(names) <= w.maxFiles {
		return
	}
	for _, name := range names[w.maxFiles:] {
		path := filepath.Join(w.folder, name)
		if err := os.Remove(path); err != nil {
			fmt.Fprintf(os.Stderr, "rolling: remove %q: %v\n", path, err)
		}
	}
}
