package lll

import "runtime"

// Trace logs at Trace level against l. Below compileLevel, the call
// degenerates to a single comparison: no caller is captured, no format
// closure is built, and nothing is sent to the consumer.
func (l *Logger) Trace(format string, args ...any) { l.frontend(Trace, format, args) }

// Debug logs at Debug level against l.
func (l *Logger) Debug(format string, args ...any) { l.frontend(Debug, format, args) }

// Info logs at Info level against l.
func (l *Logger) Info(format string, args ...any) { l.frontend(Info, format, args) }

// Warn logs at Warn level against l.
func (l *Logger) Warn(format string, args ...any) { l.frontend(Warn, format, args) }

// Error logs at Error level against l.
func (l *Logger) Error(format string, args ...any) { l.frontend(Error, format, args) }

// frontend is the shared entry point behind the level-named methods. It
// applies the compile-time gate before doing anything else, then captures
// the call site one frame up from the method that called it.
func (l *Logger) frontend(level Level, format string, args []any) {
	if level < compileLevel || l == nil {
		return
	}
	_, file, line, _ := runtime.Caller(2)
	l.log(level, file, line, format, args)
}

// Trace logs at Trace level against the process-wide singleton installed
// by Builder.InitGlobal. A no-op if InitGlobal was never called.
func Trace(format string, args ...any) { globalFrontend(Trace, format, args) }

// Debug logs at Debug level against the process-wide singleton.
func Debug(format string, args ...any) { globalFrontend(Debug, format, args) }

// Info logs at Info level against the process-wide singleton.
func Info(format string, args ...any) { globalFrontend(Info, format, args) }

// Warn logs at Warn level against the process-wide singleton.
func Warn(format string, args ...any) { globalFrontend(Warn, format, args) }

// Error logs at Error level against the process-wide singleton.
func Error(format string, args ...any) { globalFrontend(Error, format, args) }

func globalFrontend(level Level, format string, args []any) {
	if level < compileLevel {
		return
	}
	l := logger()
	if l == nil {
		return
	}
	_, file, line, _ := runtime.Caller(2)
	l.log(level, file, line, format, args)
}
