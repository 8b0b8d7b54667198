//go:build lll_warn && !lll_off && !lll_error

package lll

// compileLevel — see compile_level_off.go. Selected by the lll_warn build tag.
const compileLevel Level = Warn
