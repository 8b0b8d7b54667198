//go:build lll_error && !lll_off

package lll

// compileLevel — see compile_level_off.go. Selected by the lll_error build tag.
const compileLevel Level = Error
