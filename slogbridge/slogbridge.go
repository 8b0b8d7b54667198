// Package slogbridge adapts a *lll.Logger into a log/slog.Handler. It is
// intentionally minimal: lll records carry a plain formatted string, not
// structured fields, so attributes are flattened into "key=value" pairs
// appended to the message rather than preserved as a structured tree.
//
// The core package never imports slogbridge — doing so would create an
// import cycle, since this package imports lll to wrap *lll.Logger.
// Installing the bridge is therefore always an explicit, separate step
// taken by the embedding program:
//
//	l, _ := lll.NewBuilder(dir, "app").WithFacadeBridge(true).Init()
//	if l.FacadeBridgeRequested() {
//		slog.SetDefault(slog.New(slogbridge.Install(l, slog.LevelInfo)))
//	}
package slogbridge

import (
	"context"
	"log/slog"
	"strings"

	"github.com/lll-log/lll"
)

// Handler implements slog.Handler on top of a *lll.Logger.
type Handler struct {
	logger *lll.Logger
	level  slog.Level
	attrs  []slog.Attr
	group  string
}

// Install builds a Handler wrapping l. Records below level are dropped by
// Enabled before any formatting occurs.
func Install(l *lll.Logger, level slog.Level) *Handler {
	return &Handler{logger: l, level: level}
}

// Enabled reports whether level is at or above the handler's threshold.
func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

// Handle formats record as a single message line and dispatches it to the
// wrapped logger at the corresponding lll.Level.
func (h *Handler) Handle(_ context.Context, record slog.Record) error {
	var b strings.Builder
	b.WriteString(record.Message)

	for _, a := range h.attrs {
		writeAttr(&b, h.group, a)
	}
	record.Attrs(func(a slog.Attr) bool {
		writeAttr(&b, h.group, a)
		return true
	})

	msg := b.String()
	switch levelToLLL(record.Level) {
	case lll.Trace:
		h.logger.Trace("%s", msg)
	case lll.Debug:
		h.logger.Debug("%s", msg)
	case lll.Warn:
		h.logger.Warn("%s", msg)
	case lll.Error:
		h.logger.Error("%s", msg)
	default:
		h.logger.Info("%s", msg)
	}
	return nil
}

// WithAttrs returns a new Handler with additional pre-bound attributes.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &Handler{logger: h.logger, level: h.level, attrs: merged, group: h.group}
}

// WithGroup returns a new Handler whose attribute keys are prefixed with
// name.
func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	group := name
	if h.group != "" {
		group = h.group + "." + name
	}
	return &Handler{logger: h.logger, level: h.level, attrs: h.attrs, group: group}
}

func writeAttr(b *strings.Builder, group string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Value.Kind() == slog.KindGroup {
		inner := group
		if inner != "" {
			inner += "." + a.Key
		} else {
			inner = a.Key
		}
		for _, ga := range a.Value.Group() {
			writeAttr(b, inner, ga)
		}
		return
	}
	key := a.Key
	if group != "" {
		key = group + "." + key
	}
	b.WriteByte(' ')
	b.WriteString(key)
	b.WriteByte('=')
	b.WriteString(a.Value.String())
}

func levelToLLL(level slog.Level) lll.Level {
	switch {
	case level >= slog.LevelError:
		return lll.Error
	case level >= slog.LevelWarn:
		return lll.Warn
	case level >= slog.LevelInfo:
		return lll.Info
	case level >= slog.LevelDebug:
		return lll.Debug
	default:
		return lll.Trace
	}
}
