// Package diagnostics collects and formats the static (scan/parse/resolve)
// and runtime errors produced by the pipeline, in place of a single global
// had-error flag.
package diagnostics

import (
	"fmt"

	"rune/pkg/token"
)

// Diagnostic is one static-phase error: a scan, parse, or resolve failure.
type Diagnostic struct {
	Line    int
	Where   string
	Message string
}

// String renders the diagnostic in the format spec'd for static errors:
// "[line N] Error <where>: <message>".
func (d Diagnostic) String() string {
	return fmt.Sprintf("[line %d] Error%s: %s", d.Line, d.Where, d.Message)
}

// Bag accumulates diagnostics across an entire scan/parse/resolve pass
// instead of aborting on the first one.
type Bag struct {
	diagnostics []Diagnostic
}

// NewBag returns an empty diagnostic bag.
func NewBag() *Bag {
	return &Bag{}
}

// Report records a diagnostic at the given line with the bare message
// ("" where) — used by the scanner, which has no lexeme to point at yet.
func (b *Bag) Report(line int, message string) {
	b.diagnostics = append(b.diagnostics, Diagnostic{Line: line, Message: message})
}

// ReportAt records a diagnostic anchored to a token: " at end" for EOF,
// " at '<lexeme>'" otherwise.
func (b *Bag) ReportAt(tok token.Token, message string) {
	where := " at '" + tok.Lexeme + "'"
	if tok.Kind == token.EOF {
		where = " at end"
	}
	b.diagnostics = append(b.diagnostics, Diagnostic{Line: tok.Line, Where: where, Message: message})
}

// HasErrors reports whether any diagnostic has been recorded.
func (b *Bag) HasErrors() bool {
	return len(b.diagnostics) > 0
}

// All returns the recorded diagnostics in report order.
func (b *Bag) All() []Diagnostic {
	return b.diagnostics
}

// Reset clears the bag for reuse (e.g. between REPL lines).
func (b *Bag) Reset() {
	b.diagnostics = nil
}

// RuntimeError is a single runtime failure: unwinds the current call/block
// chain and is reported with the offending token's line.
type RuntimeError struct {
	Token   token.Token
	Message string
}

func NewRuntimeError(tok token.Token, message string) *RuntimeError {
	return &RuntimeError{Token: tok, Message: message}
}

// Error satisfies the error interface so RuntimeError flows through normal
// Go error propagation.
func (e *RuntimeError) Error() string {
	return e.Message
}

// Report renders the runtime error in the spec'd format:
// "<message>\n[line N]".
func (e *RuntimeError) Report() string {
	return fmt.Sprintf("%s\n[line %d]", e.Message, e.Token.Line)
}
