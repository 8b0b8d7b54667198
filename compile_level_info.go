//go:build lll_info && !lll_off && !lll_error && !lll_warn

package lll

// compileLevel — see compile_level_off.go. Selected by the lll_info build tag.
const compileLevel Level = Info
