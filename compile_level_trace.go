//go:build !lll_off && !lll_error && !lll_warn && !lll_info && !lll_debug

package lll

// compileLevel — see compile_level_off.go. The default build (no lll_*
// tag set) compiles every level in, same as the reference
// implementation's default COMPILE_LEVEL of trace.
const compileLevel Level = Trace
