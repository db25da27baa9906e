package interpreter

import "rune/pkg/runtime"

// returnSignal and breakSignal are non-local control-flow signals,
// distinguished from *diagnostics.RuntimeError by type switch at the
// construct that must catch them (a call frame for return, a loop body for
// break). Neither is expected to escape the top-level Interpret call given
// a resolver that enforces "return outside function" / "break outside
// loop" ahead of time; if one does, that indicates a resolver bug, not a
// user-facing error.
type returnSignal struct {
	value runtime.Value
}

func (returnSignal) Error() string { return "return" }

type breakSignal struct{}

func (breakSignal) Error() string { return "break" }
