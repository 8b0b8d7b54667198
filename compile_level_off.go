//go:build lll_off

package lll

// compileLevel is the build-selected threshold below which log calls are
// reduced to a single cheap comparison — no record is constructed and the
// arguments, though evaluated by the caller, are never formatted. Selected
// by the lll_off build tag.
const compileLevel Level = Off
