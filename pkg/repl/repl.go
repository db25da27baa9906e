// Package repl implements Rune's interactive read-eval-print loop: one
// line in, one scan→parse→resolve→evaluate pass, errors reported to
// standard error without aborting the loop.
package repl

import (
	"bufio"
	"fmt"
	"io"

	"rune/pkg/diagnostics"
	"rune/pkg/interpreter"
	"rune/pkg/parser"
	"rune/pkg/resolver"
	"rune/pkg/scanner"
)

// Run reads lines from in until EOF, printing prompt before each, and
// running each line through the full pipeline against a single persistent
// Interpreter (so top-level declarations accumulate across lines). A
// compile-time or runtime error on one line is reported and the loop
// continues; Run returns only when in is exhausted.
func Run(in io.Reader, out, errOut io.Writer, prompt string, clockOffset float64) {
	scannerLines := bufio.NewScanner(in)

	interp := interpreter.New(out, nil, clockOffset)

	for {
		fmt.Fprint(errOut, prompt)
		if !scannerLines.Scan() {
			return
		}
		line := scannerLines.Text()
		runLine(interp, line, errOut)
	}
}

func runLine(interp *interpreter.Interpreter, line string, errOut io.Writer) {
	diags := diagnostics.NewBag()

	sc := scanner.New(line, diags)
	tokens := sc.ScanTokens()
	if diags.HasErrors() {
		reportAll(diags, errOut)
		return
	}

	p := parser.New(tokens, diags)
	stmts := p.Parse()
	if diags.HasErrors() {
		reportAll(diags, errOut)
		return
	}

	res := resolver.New(diags)
	depths := res.Resolve(stmts)
	if diags.HasErrors() {
		reportAll(diags, errOut)
		return
	}

	interp.MergeDepths(depths)
	if err := interp.Interpret(stmts); err != nil {
		if rtErr, ok := err.(*diagnostics.RuntimeError); ok {
			fmt.Fprintln(errOut, rtErr.Report())
			return
		}
		fmt.Fprintln(errOut, err.Error())
	}
}

func reportAll(diags *diagnostics.Bag, errOut io.Writer) {
	for _, d := range diags.All() {
		fmt.Fprintln(errOut, d.String())
	}
}
