//go:build lll_debug && !lll_off && !lll_error && !lll_warn && !lll_info

package lll

// compileLevel — see compile_level_off.go. Selected by the lll_debug build tag.
const compileLevel Level = Debug
